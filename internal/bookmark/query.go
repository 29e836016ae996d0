package bookmark

import (
	"cmp"
	"slices"
	"strings"
)

// Filter narrows a bookmark list. Empty fields match everything; all set
// fields must match.
type Filter struct {
	Category string
	Language string
	Search   string
	Tags     []string
}

const filterAll = "all"

// Apply returns the bookmarks matching f, in their original order
func (f Filter) Apply(list []Bookmark) []Bookmark {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Bookmark, 0, len(list))
	for _, b := range list {
		if !matchesOption(f.Category, string(b.Category)) {
			continue
		}
		if !matchesOption(f.Language, b.Language) {
			continue
		}
		if search != "" && !matchesSearch(b, search) {
			continue
		}
		if !hasAllTags(b.Tags, f.Tags) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesOption(want, got string) bool {
	if want == "" || want == filterAll {
		return true
	}
	return strings.EqualFold(want, got)
}

func matchesSearch(b Bookmark, term string) bool {
	if strings.Contains(strings.ToLower(b.Title), term) ||
		strings.Contains(strings.ToLower(b.Description), term) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		if !slices.ContainsFunc(have, func(h string) bool { return strings.EqualFold(h, w) }) {
			return false
		}
	}
	return true
}

// SortField names a sortable bookmark attribute
type SortField string

const (
	SortTitle      SortField = "title"
	SortCategory   SortField = "category"
	SortLanguage   SortField = "language"
	SortDateAdded  SortField = "dateAdded"
	SortUsageCount SortField = "usageCount"
)

// Order is the sort direction
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ValidSortField reports whether f can be passed to Sort
func ValidSortField(f SortField) bool {
	switch f {
	case SortTitle, SortCategory, SortLanguage, SortDateAdded, SortUsageCount:
		return true
	}
	return false
}

// Sort returns a sorted copy of list. Equal elements keep their relative
// order in both directions. Unknown fields leave the order unchanged.
func Sort(list []Bookmark, field SortField, order Order) []Bookmark {
	out := slices.Clone(list)

	compare := comparator(field)
	if compare == nil {
		return out
	}
	if order == OrderDesc {
		asc := compare
		compare = func(a, b Bookmark) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

func comparator(field SortField) func(a, b Bookmark) int {
	switch field {
	case SortTitle:
		return func(a, b Bookmark) int { return compareFold(a.Title, b.Title) }
	case SortCategory:
		return func(a, b Bookmark) int { return compareFold(string(a.Category), string(b.Category)) }
	case SortLanguage:
		return func(a, b Bookmark) int { return compareFold(a.Language, b.Language) }
	case SortDateAdded:
		// dates are day-resolution; ids are creation timestamps and order same-day entries
		return func(a, b Bookmark) int {
			return cmp.Or(parseDate(a.DateAdded).Compare(parseDate(b.DateAdded)), cmp.Compare(a.ID, b.ID))
		}
	case SortUsageCount:
		return func(a, b Bookmark) int { return a.UsageCount - b.UsageCount }
	}
	return nil
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
