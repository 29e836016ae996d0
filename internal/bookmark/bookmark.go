package bookmark

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category groups bookmarks in the sidebar
type Category string

const (
	CategoryBestPractices Category = "best-practices"
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryBugs          Category = "bugs"
	CategoryDocumentation Category = "documentation"
)

var categories = []Category{
	CategoryBestPractices,
	CategorySecurity,
	CategoryPerformance,
	CategoryBugs,
	CategoryDocumentation,
}

// AllCategories lists the valid categories in display order
func AllCategories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

var (
	// ErrNotFound is returned for unknown bookmark ids
	ErrNotFound = errors.New("bookmark not found")
	// ErrInvalid is the parent of all bookmark validation errors
	ErrInvalid = errors.New("invalid bookmark")

	ErrInvalidCategory = fmt.Errorf("%w: unknown category", ErrInvalid)
	ErrTitleRequired   = fmt.Errorf("%w: title is required", ErrInvalid)
)

// CodeExample shows the pattern to avoid next to the one to use
type CodeExample struct {
	Wrong   string `json:"wrong"`
	Correct string `json:"correct"`
}

// Bookmark is a user-curated code pattern reference
type Bookmark struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Category     Category    `json:"category"`
	Language     string      `json:"language"`
	Description  string      `json:"description"`
	CodeExample  CodeExample `json:"codeExample"`
	Tags         []string    `json:"tags"`
	DateAdded    string      `json:"dateAdded"`
	UsageCount   int         `json:"usageCount"`
	Source       string      `json:"source,omitempty"`
	IsBookmarked bool        `json:"isBookmarked,omitempty"`
	CanAutoFix   bool        `json:"canAutoFix,omitempty"`
}

// Validate checks the fields a user must supply
func (b Bookmark) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return ErrTitleRequired
	}
	if !b.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, b.Category)
	}
	return nil
}

func (b Bookmark) clone() Bookmark {
	out := b
	if b.Tags != nil {
		out.Tags = make([]string, len(b.Tags))
		copy(out.Tags, b.Tags)
	}
	return out
}

// Patch is a partial update; nil fields are left unchanged
type Patch struct {
	Title        *string      `json:"title,omitempty"`
	Category     *Category    `json:"category,omitempty"`
	Language     *string      `json:"language,omitempty"`
	Description  *string      `json:"description,omitempty"`
	CodeExample  *CodeExample `json:"codeExample,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Source       *string      `json:"source,omitempty"`
	IsBookmarked *bool        `json:"isBookmarked,omitempty"`
	CanAutoFix   *bool        `json:"canAutoFix,omitempty"`
}

// Apply returns b with the patch merged in. The id, date and usage count
// are never patched.
func (p Patch) Apply(b Bookmark) Bookmark {
	out := b.clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Language != nil {
		out.Language = *p.Language
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.CodeExample != nil {
		out.CodeExample = *p.CodeExample
	}
	if p.Tags != nil {
		out.Tags = make([]string, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	if p.Source != nil {
		out.Source = *p.Source
	}
	if p.IsBookmarked != nil {
		out.IsBookmarked = *p.IsBookmarked
	}
	if p.CanAutoFix != nil {
		out.CanAutoFix = *p.CanAutoFix
	}
	return out
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"01/02/2006",
}

// parseDate reads dateAdded values written by this service or imported by hand.
// Unparseable dates sort as the zero time.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
