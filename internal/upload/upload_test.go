package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		opts  []SizeOptions
		want  string
	}{
		{name: "zero", bytes: 0, want: "0 Bytes"},
		{name: "bytes", bytes: 512, want: "512 Bytes"},
		{name: "rounds half up", bytes: 1536, want: "2 KB"},
		{name: "decimals", bytes: 1536, opts: []SizeOptions{{Decimals: 2}}, want: "1.5 KB"},
		{name: "megabytes", bytes: 1 << 20, want: "1 MB"},
		{name: "small with indicator", bytes: 10 << 10, opts: []SizeOptions{{ShowIndicator: true}}, want: "10 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFileSize(tt.bytes, tt.opts...))
		})
	}
}

func TestFormatFileSize_Indicators(t *testing.T) {
	opts := SizeOptions{ShowIndicator: true}

	over := FormatFileSize(90<<10, opts)
	assert.True(t, strings.HasSuffix(over, WarningMarker), over)

	compress := FormatFileSize(50<<10, opts)
	assert.True(t, strings.HasSuffix(compress, CompressionMarker), compress)

	custom := FormatFileSize(5<<10, SizeOptions{ShowIndicator: true, Limit: 4 << 10, CompressionThreshold: 2 << 10})
	assert.True(t, strings.HasSuffix(custom, WarningMarker), custom)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "javascript", DetectLanguage("js"))
	assert.Equal(t, "typescript", DetectLanguage(".TSX"))
	assert.Equal(t, "python", LanguageForFilename("src/app.py"))
	assert.Equal(t, LanguageText, DetectLanguage("exe"))
	assert.True(t, SupportedExtension(".go"))
	assert.False(t, SupportedExtension("png"))
}

func TestNewFile(t *testing.T) {
	f := NewFile("dir/Main.GO", []byte("package main\n"))
	assert.NotEmpty(t, f.ID.String())
	assert.Equal(t, "Main.GO", f.Name)
	assert.Equal(t, "go", f.Extension)
	assert.Equal(t, int64(13), f.Size)
	assert.Equal(t, "go", f.Language())

	other := NewFile("Main.GO", nil)
	assert.NotEqual(t, f.ID, other.ID)
}

func TestLimits_Validate(t *testing.T) {
	limits := Limits{MaxFileSize: 100, CompressionThreshold: 50, MaxFiles: 2}

	assert.ErrorIs(t, limits.Validate(nil), ErrNoFiles)

	many := []File{NewFile("a.go", nil), NewFile("b.go", nil), NewFile("c.go", nil)}
	assert.ErrorIs(t, limits.Validate(many), ErrTooManyFiles)

	err := limits.Validate([]File{NewFile("image.png", []byte("x"))})
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
	assert.ErrorIs(t, err, ErrInvalidUpload)

	big := NewFile("big.go", []byte(strings.Repeat("x", 101)))
	assert.ErrorIs(t, limits.Validate([]File{big}), ErrFileTooLarge)

	require.NoError(t, limits.Validate([]File{NewFile("ok.go", []byte("package ok"))}))
}

func TestPrepareContent(t *testing.T) {
	limits := Limits{MaxFileSize: 1000, CompressionThreshold: 20}

	small := NewFile("a.go", []byte("a  \n\nb"))
	assert.Equal(t, "a  \n\nb", limits.PrepareContent(small))

	large := NewFile("b.go", []byte("func main() {   \r\n\r\n\treturn\t\n}\n\n"))
	assert.Equal(t, "func main() {\n\treturn\n}", limits.PrepareContent(large))
}
