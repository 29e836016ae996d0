package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultMaxFileSize          int64 = 50 << 10
	DefaultCompressionThreshold int64 = 30 << 10
	DefaultMaxFiles                   = 10
)

var (
	// ErrInvalidUpload is the parent of every upload validation failure
	ErrInvalidUpload = errors.New("invalid upload")

	ErrNoFiles              = fmt.Errorf("%w: no files provided", ErrInvalidUpload)
	ErrTooManyFiles         = fmt.Errorf("%w: too many files", ErrInvalidUpload)
	ErrFileTooLarge         = fmt.Errorf("%w: file too large", ErrInvalidUpload)
	ErrUnsupportedExtension = fmt.Errorf("%w: unsupported file type", ErrInvalidUpload)
)

// File is a user-selected source file. It lives only for the duration of a
// request and is never persisted as-is.
type File struct {
	ID        uuid.UUID
	Name      string
	Size      int64
	Extension string
	Content   []byte
}

// NewFile wraps uploaded content and assigns it an id
func NewFile(name string, content []byte) File {
	return File{
		ID:        uuid.New(),
		Name:      filepath.Base(name),
		Size:      int64(len(content)),
		Extension: Extension(name),
		Content:   content,
	}
}

// Language is the normalized language label for the file
func (f File) Language() string {
	return DetectLanguage(f.Extension)
}

// Extension returns the lower-case extension of name without the dot
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Limits bounds what the review endpoint accepts
type Limits struct {
	MaxFileSize          int64
	CompressionThreshold int64
	MaxFiles             int
}

// DefaultLimits returns the stock limits
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:          DefaultMaxFileSize,
		CompressionThreshold: DefaultCompressionThreshold,
		MaxFiles:             DefaultMaxFiles,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxFileSize <= 0 {
		l.MaxFileSize = d.MaxFileSize
	}
	if l.CompressionThreshold <= 0 {
		l.CompressionThreshold = d.CompressionThreshold
	}
	if l.MaxFiles <= 0 {
		l.MaxFiles = d.MaxFiles
	}
	return l
}

// Validate checks the file list against the limits
func (l Limits) Validate(files []File) error {
	l = l.withDefaults()

	if len(files) == 0 {
		return ErrNoFiles
	}
	if len(files) > l.MaxFiles {
		return fmt.Errorf("%w: %d files, at most %d allowed", ErrTooManyFiles, len(files), l.MaxFiles)
	}

	for _, f := range files {
		if !SupportedExtension(f.Extension) {
			return fmt.Errorf("%w: %s", ErrUnsupportedExtension, f.Name)
		}
		if f.Size > l.MaxFileSize {
			return fmt.Errorf("%w: %s is %s, limit is %s", ErrFileTooLarge, f.Name,
				FormatFileSize(f.Size), FormatFileSize(l.MaxFileSize))
		}
	}

	return nil
}

// PrepareContent returns the text sent to the model for f, compressed when
// the file exceeds the compression threshold.
func (l Limits) PrepareContent(f File) string {
	l = l.withDefaults()
	code := string(f.Content)
	if f.Size > l.CompressionThreshold {
		return Compress(code)
	}
	return code
}
