package bookmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/todmy/code-reviewer/internal/storage"
)

// StorageKey is the key the bookmark list is stored under
const StorageKey = "codeReviewBookmarks"

// Store is one user's bookmark list, mirrored to storage on every change
type Store struct {
	bucket *storage.Bucket
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	items  []Bookmark
	lastID int64
}

// Option configures the Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock overrides time.Now for ids and dates
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

// NewRegistry returns a registry opening one bookmark Store per user namespace
func NewRegistry(store storage.Store, opts ...Option) *storage.Registry[*Store] {
	return storage.NewRegistry(store, func(ctx context.Context, b *storage.Bucket) (*Store, error) {
		return Open(ctx, b, opts...)
	})
}

// Refresh re-reads the list from storage. Missing or corrupt data yields an empty list.
func (s *Store) Refresh(ctx context.Context) error {
	var items []Bookmark
	err := s.bucket.GetJSON(ctx, StorageKey, &items)

	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, storage.ErrCorrupt):
		s.logger.WarnContext(ctx, "bookmark storage corrupt, starting empty",
			"namespace", s.bucket.Namespace(), "error", err)
		items = nil
	default:
		return fmt.Errorf("load bookmarks: %w", err)
	}

	if items == nil {
		items = []Bookmark{}
	}

	var lastID int64
	for _, b := range items {
		lastID = max(lastID, b.ID)
	}

	s.mu.Lock()
	s.items = items
	s.lastID = lastID
	s.mu.Unlock()

	return nil
}

// Items returns a copy of the list in storage order
func (s *Store) Items() []Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Bookmark, len(s.items))
	for i, b := range s.items {
		out[i] = b.clone()
	}
	return out
}

// Get returns the bookmark with id
func (s *Store) Get(id int64) (Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.items {
		if b.ID == id {
			return b.clone(), nil
		}
	}
	return Bookmark{}, ErrNotFound
}

// Add validates b, assigns a time-based id and today's date when unset,
// and appends it.
func (s *Store) Add(ctx context.Context, b Bookmark) (Bookmark, error) {
	if err := b.Validate(); err != nil {
		return Bookmark{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b = b.clone()
	b.ID = max(now.UnixMilli(), s.lastID+1)
	if b.DateAdded == "" {
		b.DateAdded = now.Format(dateLayout)
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	b.UsageCount = 0

	updated := make([]Bookmark, 0, len(s.items)+1)
	updated = append(updated, s.items...)
	updated = append(updated, b)

	if err := s.save(ctx, updated); err != nil {
		return Bookmark{}, err
	}
	s.lastID = b.ID

	return b.clone(), nil
}

// Update merges patch into the bookmark with id
func (s *Store) Update(ctx context.Context, id int64, patch Patch) (Bookmark, error) {
	return s.mutate(ctx, id, func(b Bookmark) (Bookmark, error) {
		out := patch.Apply(b)
		if err := out.Validate(); err != nil {
			return Bookmark{}, err
		}
		return out, nil
	})
}

// Toggle flips the IsBookmarked flag
func (s *Store) Toggle(ctx context.Context, id int64) (Bookmark, error) {
	return s.mutate(ctx, id, func(b Bookmark) (Bookmark, error) {
		b.IsBookmarked = !b.IsBookmarked
		return b, nil
	})
}

// IncrementUsage bumps the usage counter by one
func (s *Store) IncrementUsage(ctx context.Context, id int64) (Bookmark, error) {
	return s.mutate(ctx, id, func(b Bookmark) (Bookmark, error) {
		b.UsageCount++
		return b, nil
	})
}

// Delete removes the bookmark with id
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	updated := make([]Bookmark, 0, len(s.items)-1)
	updated = append(updated, s.items[:idx]...)
	updated = append(updated, s.items[idx+1:]...)

	return s.save(ctx, updated)
}

// Categories counts bookmarks per category. Every known category is present.
func (s *Store) Categories() map[Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[Category]int, len(categories))
	for _, c := range categories {
		counts[c] = 0
	}
	for _, b := range s.items {
		counts[b.Category]++
	}
	return counts
}

func (s *Store) mutate(ctx context.Context, id int64, fn func(Bookmark) (Bookmark, error)) (Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Bookmark{}, ErrNotFound
	}

	changed, err := fn(s.items[idx].clone())
	if err != nil {
		return Bookmark{}, err
	}

	updated := make([]Bookmark, len(s.items))
	copy(updated, s.items)
	updated[idx] = changed

	if err := s.save(ctx, updated); err != nil {
		return Bookmark{}, err
	}

	return changed.clone(), nil
}

func (s *Store) indexOf(id int64) int {
	for i, b := range s.items {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// save persists items and swaps them in. Callers hold s.mu.
func (s *Store) save(ctx context.Context, items []Bookmark) error {
	if err := s.bucket.PutJSON(ctx, StorageKey, items); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	s.items = items
	return nil
}
