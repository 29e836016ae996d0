package api

import (
	"context"
	"fmt"

	"github.com/todmy/code-reviewer/internal/auth"
	"github.com/todmy/code-reviewer/internal/bookmark"
	"github.com/todmy/code-reviewer/internal/history"
	"github.com/todmy/code-reviewer/internal/preferences"
	"github.com/todmy/code-reviewer/internal/storage"
)

// workspaces summarizes a user's namespace for /auth/me
type workspaces struct {
	history     *storage.Registry[*history.Store]
	bookmarks   *storage.Registry[*bookmark.Store]
	preferences *storage.Registry[*preferences.Store]
}

func (ws workspaces) Summary(ctx context.Context, namespace string) (auth.WorkspaceSummary, error) {
	var summary auth.WorkspaceSummary

	hs, err := ws.history.For(ctx, namespace)
	if err != nil {
		return summary, fmt.Errorf("open history: %w", err)
	}
	summary.HistoryItems = len(hs.Items())

	bs, err := ws.bookmarks.For(ctx, namespace)
	if err != nil {
		return summary, fmt.Errorf("open bookmarks: %w", err)
	}
	summary.Bookmarks = len(bs.Items())

	ps, err := ws.preferences.For(ctx, namespace)
	if err != nil {
		return summary, fmt.Errorf("open preferences: %w", err)
	}
	terms, err := ps.SearchHistory(ctx)
	if err != nil {
		return summary, err
	}
	summary.RecentSearches = len(terms)

	if summary.DarkMode, err = ps.DarkMode(ctx); err != nil {
		return summary, err
	}

	return summary, nil
}
