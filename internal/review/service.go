package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/todmy/code-reviewer/internal/openai"
	"github.com/todmy/code-reviewer/internal/upload"
	"github.com/todmy/code-reviewer/pkg/models"
)

// LanguageMixed labels a multi-file review whose files disagree on language
const LanguageMixed = "mixed"

// Completer is the subset of the OpenAI client the service needs
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatRequest) (*openai.Completion, error)
	Ping(ctx context.Context) error
}

// ConnectionStatus is the outcome of CheckConnection
type ConnectionStatus struct {
	Connected bool   `json:"connected"`
	Model     string `json:"model"`
	Error     string `json:"error,omitempty"`
}

// Service runs code reviews against the completion API
type Service struct {
	client Completer
	params Params
	limits upload.Limits
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Service
type Option func(*Service)

// WithLimits sets the upload limits used by ReviewFiles
func WithLimits(l upload.Limits) Option {
	return func(s *Service) {
		s.limits = l
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock overrides time.Now for metadata timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a review service
func NewService(client Completer, params Params, opts ...Option) *Service {
	s := &Service{
		client: client,
		params: params.withDefaults(),
		limits: upload.DefaultLimits(),
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Model returns the configured model id
func (s *Service) Model() string {
	return s.params.Model
}

// Limits returns the upload limits applied by ReviewFiles
func (s *Service) Limits() upload.Limits {
	return s.limits
}

// CheckConnection pings the API. Failures are reported in the status, not as an error.
func (s *Service) CheckConnection(ctx context.Context) ConnectionStatus {
	status := ConnectionStatus{Model: s.params.Model}

	if err := s.client.Ping(ctx); err != nil {
		status.Error = classifyError(err).Error()
		s.logger.WarnContext(ctx, "openai connectivity check failed", "error", err)
		return status
	}

	status.Connected = true
	return status
}

// ReviewCode reviews a single block of code. Unknown review types fail without
// a network call; transport and API errors propagate, while malformed model
// output degrades to a fallback result.
func (s *Service) ReviewCode(ctx context.Context, reviewType, code, language string) (models.ReviewResult, error) {
	req, err := BuildRequest(reviewType, code, language, s.params)
	if err != nil {
		return models.ReviewResult{}, err
	}

	start := time.Now()
	completion, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		wrapped := classifyError(err)
		s.logger.ErrorContext(ctx, "review request failed",
			"review_type", reviewType,
			"language", language,
			"error", err,
		)
		return models.ReviewResult{}, wrapped
	}

	result := Normalize(completion.Content, models.ReviewMetadata{
		ReviewType: reviewType,
		Language:   language,
		Model:      completion.Model,
		Timestamp:  formatTimestamp(s.now()),
		TokensUsed: completion.TokensUsed,
	})

	s.logger.InfoContext(ctx, "review completed",
		"review_type", reviewType,
		"language", language,
		"model", completion.Model,
		"tokens", completion.TokensUsed,
		"score", result.Score,
		"suggestions", len(result.Suggestions),
		"fallback", result.Metadata.Fallback,
		"duration", time.Since(start),
	)

	return result, nil
}

// ReviewFiles validates the files, joins them into one prompt and reviews them
// together. An empty language is derived from the file extensions.
func (s *Service) ReviewFiles(ctx context.Context, reviewType string, files []upload.File, language string) (models.ReviewResult, error) {
	if !ValidType(reviewType) {
		return models.ReviewResult{}, fmt.Errorf("%w: %q", ErrInvalidReviewType, reviewType)
	}

	if err := s.limits.Validate(files); err != nil {
		return models.ReviewResult{}, err
	}

	if language == "" {
		language = filesLanguage(files)
	}

	return s.ReviewCode(ctx, reviewType, s.combine(files), language)
}

func (s *Service) combine(files []upload.File) string {
	if len(files) == 1 {
		return s.limits.PrepareContent(files[0])
	}

	var b strings.Builder
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "// File: %s\n", f.Name)
		b.WriteString(s.limits.PrepareContent(f))
	}
	return b.String()
}

func filesLanguage(files []upload.File) string {
	if len(files) == 0 {
		return upload.LanguageText
	}
	lang := files[0].Language()
	for _, f := range files[1:] {
		if f.Language() != lang {
			return LanguageMixed
		}
	}
	return lang
}
