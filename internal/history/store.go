package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/todmy/code-reviewer/internal/storage"
	"github.com/todmy/code-reviewer/internal/upload"
	"github.com/todmy/code-reviewer/pkg/models"
)

const (
	// StorageKey is the key the history list is stored under
	StorageKey = "codeReviewHistory"
	// MaxItems caps the stored list; the oldest entries are dropped silently
	MaxItems = 100
)

// ErrNotFound is returned for unknown history ids
var ErrNotFound = errors.New("history item not found")

// Store is one user's review history, newest first, mirrored to storage
type Store struct {
	bucket *storage.Bucket
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	items []models.HistoryItem
}

// Option configures the Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open creates a Store and loads it from storage
func Open(ctx context.Context, bucket *storage.Bucket, opts ...Option) (*Store, error) {
	s := &Store{
		bucket: bucket,
		logger: slog.Default(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// NewRegistry returns a registry opening one history Store per user namespace
func NewRegistry(store storage.Store, opts ...Option) *storage.Registry[*Store] {
	return storage.NewRegistry(store, func(ctx context.Context, b *storage.Bucket) (*Store, error) {
		return Open(ctx, b, opts...)
	})
}

// Refresh re-reads the list from storage. A missing key or a corrupt value
// loads the built-in sample history instead of an empty list.
func (s *Store) Refresh(ctx context.Context) error {
	var items []models.HistoryItem
	err := s.bucket.GetJSON(ctx, StorageKey, &items)

	switch {
	case err == nil:
		if items == nil {
			items = []models.HistoryItem{}
		}
	case errors.Is(err, storage.ErrNotFound):
		items = SampleItems()
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.WarnContext(ctx, "history storage corrupt, loading sample data",
			"namespace", s.bucket.Namespace(), "error", err)
		items = SampleItems()
	default:
		return fmt.Errorf("load history: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	return nil
}

// Items returns a snapshot of the list, newest first
func (s *Store) Items() []models.HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.HistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with id
func (s *Store) Get(id string) (models.HistoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.HistoryItem{}, ErrNotFound
}

// Append records result once per file, in upload order, ahead of the existing
// entries, and truncates the list to MaxItems.
func (s *Store) Append(ctx context.Context, result models.ReviewResult, files []upload.File) ([]models.HistoryItem, error) {
	if len(files) == 0 {
		return nil, nil
	}

	reviewType := ""
	if result.Metadata != nil {
		reviewType = result.Metadata.ReviewType
	}

	ts := s.now().UTC()
	added := make([]models.HistoryItem, 0, len(files))
	for _, f := range files {
		added = append(added, models.HistoryItem{
			ID:           uuid.NewString(),
			Filename:     f.Name,
			Language:     upload.LanguageForFilename(f.Name),
			ReviewResult: result.Clone(),
			Timestamp:    ts,
			FileSize:     f.Size,
			ReviewType:   reviewType,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.HistoryItem, 0, len(added)+len(s.items))
	updated = append(updated, added...)
	updated = append(updated, s.items...)
	if len(updated) > MaxItems {
		updated = updated[:MaxItems]
	}

	if err := s.bucket.PutJSON(ctx, StorageKey, updated); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	s.items = updated

	return added, nil
}

// Delete removes the item with id, keeping the order of the rest
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, item := range s.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	updated := make([]models.HistoryItem, 0, len(s.items)-1)
	updated = append(updated, s.items[:idx]...)
	updated = append(updated, s.items[idx+1:]...)

	if err := s.bucket.PutJSON(ctx, StorageKey, updated); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	s.items = updated

	return nil
}

// Clear empties the history and removes the storage key. With
// skipConfirmation it happens immediately and the returned func is nil;
// otherwise nothing changes until the returned func is called.
func (s *Store) Clear(ctx context.Context, skipConfirmation bool) (func(context.Context) error, error) {
	if !skipConfirmation {
		return s.clear, nil
	}
	return nil, s.clear(ctx)
}

func (s *Store) clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bucket.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.items = []models.HistoryItem{}

	return nil
}

// Export serializes the in-memory list as indented JSON together with a
// dated download filename.
func (s *Store) Export() ([]byte, string, error) {
	items := s.Items()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("marshal history: %w", err)
	}

	return data, ExportFilename(s.now()), nil
}

// ExportFilename names an export taken at t
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("code-review-history-%s.json", t.Format("2006-01-02"))
}
