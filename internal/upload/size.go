package upload

import (
	"math"
	"strconv"
	"strings"
)

const (
	WarningMarker     = "⚠️"
	CompressionMarker = "🗜️"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// SizeOptions tunes FormatFileSize. Zero limits fall back to the defaults.
type SizeOptions struct {
	Decimals             int
	ShowIndicator        bool
	Limit                int64
	CompressionThreshold int64
}

// FormatFileSize renders bytes in binary units, rounded to opts.Decimals.
// With ShowIndicator, sizes above the limit get a warning marker and sizes
// above the compression threshold get a compression marker.
func FormatFileSize(bytes int64, opts ...SizeOptions) string {
	var o SizeOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Limit <= 0 {
		o.Limit = DefaultMaxFileSize
	}
	if o.CompressionThreshold <= 0 {
		o.CompressionThreshold = DefaultCompressionThreshold
	}
	if o.Decimals < 0 {
		o.Decimals = 0
	}

	formatted := humanSize(bytes, o.Decimals)

	if !o.ShowIndicator {
		return formatted
	}

	switch {
	case bytes > o.Limit:
		return formatted + " " + WarningMarker
	case bytes > o.CompressionThreshold:
		return formatted + " " + CompressionMarker
	default:
		return formatted
	}
}

func humanSize(bytes int64, decimals int) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}

	p := math.Pow(10, float64(decimals))
	value = math.Round(value*p) / p

	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}

// Compress drops blank lines and trailing whitespace to shrink large files
// before they are sent to the model. Line structure is otherwise preserved.
func Compress(code string) string {
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
