package review

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/todmy/code-reviewer/internal/openai"
)

var (
	ErrInvalidReviewType = errors.New("Invalid review type")
	ErrQuotaExceeded     = errors.New("OpenAI API quota exceeded. Please check your billing")
	ErrInvalidAPIKey     = errors.New("Invalid OpenAI API key. Please check your configuration")
	ErrUpstream          = errors.New("OpenAI API error")
)

// classifyError wraps a completion failure into one of the three upstream sentinels
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())

	var apiErr *openai.APIError
	isAPIErr := errors.As(err, &apiErr)

	switch {
	case strings.Contains(msg, "quota") || (isAPIErr && apiErr.Type == "insufficient_quota"):
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case strings.Contains(msg, "invalid api key") || strings.Contains(msg, "incorrect api key") ||
		(isAPIErr && apiErr.StatusCode == http.StatusUnauthorized):
		return fmt.Errorf("%w: %w", ErrInvalidAPIKey, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}
