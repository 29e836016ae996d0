package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/todmy/code-reviewer/internal/storage"
)

const (
	// SearchHistoryKey stores recent bookmark search terms
	SearchHistoryKey = "codeReviewSearchHistory"
	// ThemeKey stores the dark mode flag
	ThemeKey = "codeReviewTheme"
	// MaxSearchTerms caps the search history
	MaxSearchTerms = 10
)

// Store holds one user's UI preferences
type Store struct {
	bucket *storage.Bucket
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a Store over bucket
func New(bucket *storage.Bucket, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{bucket: bucket, logger: logger}
}

// NewRegistry returns a registry handing out one Store per user namespace
func NewRegistry(store storage.Store, logger *slog.Logger) *storage.Registry[*Store] {
	return storage.NewRegistry(store, func(_ context.Context, b *storage.Bucket) (*Store, error) {
		return New(b, logger), nil
	})
}

// SearchHistory returns recent terms, newest first. Missing or corrupt data reads as empty.
func (s *Store) SearchHistory(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.searchHistory(ctx)
}

// AddSearch records term at the head of the history. Blank terms are ignored,
// and an earlier entry equal to term ignoring case is replaced.
func (s *Store) AddSearch(ctx context.Context, term string) ([]string, error) {
	term = strings.TrimSpace(term)

	s.mu.Lock()
	defer s.mu.Unlock()

	terms, err := s.searchHistory(ctx)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return terms, nil
	}

	updated := make([]string, 0, len(terms)+1)
	updated = append(updated, term)
	for _, t := range terms {
		if !strings.EqualFold(t, term) {
			updated = append(updated, t)
		}
	}
	if len(updated) > MaxSearchTerms {
		updated = updated[:MaxSearchTerms]
	}

	if err := s.bucket.PutJSON(ctx, SearchHistoryKey, updated); err != nil {
		return nil, fmt.Errorf("save search history: %w", err)
	}

	return updated, nil
}

// ClearSearchHistory removes the stored search history
func (s *Store) ClearSearchHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bucket.Delete(ctx, SearchHistoryKey); err != nil {
		return fmt.Errorf("clear search history: %w", err)
	}
	return nil
}

func (s *Store) searchHistory(ctx context.Context) ([]string, error) {
	var terms []string
	err := s.bucket.GetJSON(ctx, SearchHistoryKey, &terms)

	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.WarnContext(ctx, "search history corrupt, starting empty",
			"namespace", s.bucket.Namespace(), "error", err)
		terms = nil
	default:
		return nil, fmt.Errorf("load search history: %w", err)
	}

	if terms == nil {
		terms = []string{}
	}
	return terms, nil
}

// DarkMode reports the stored theme flag. Missing or corrupt data reads as false.
func (s *Store) DarkMode(ctx context.Context) (bool, error) {
	var dark bool
	err := s.bucket.GetJSON(ctx, ThemeKey, &dark)

	switch {
	case err == nil:
		return dark, nil
	case errors.Is(err, storage.ErrNotFound):
		return false, nil
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.WarnContext(ctx, "theme preference corrupt, using light mode",
			"namespace", s.bucket.Namespace(), "error", err)
		return false, nil
	default:
		return false, fmt.Errorf("load theme: %w", err)
	}
}

// SetDarkMode stores the theme flag
func (s *Store) SetDarkMode(ctx context.Context, dark bool) error {
	if err := s.bucket.PutJSON(ctx, ThemeKey, dark); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
