package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/todmy/code-reviewer/internal/bookmark"
)

func (s *Server) bookmarkStore(w http.ResponseWriter, r *http.Request) (*bookmark.Store, bool) {
	ns, ok := namespace(w, r)
	if !ok {
		return nil, false
	}

	store, err := s.bookmarks.For(r.Context(), ns)
	if err != nil {
		s.internalError(w, r, "failed to load bookmarks", err)
		return nil, false
	}
	return store, true
}

func bookmarkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookmarkID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bookmark id")
		return 0, false
	}
	return id, true
}

// handleListBookmarks filters with category, language, q and tags (comma separated)
// and orders with sort and order.
func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	store, ok := s.bookmarkStore(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := bookmark.Filter{
		Category: q.Get("category"),
		Language: q.Get("language"),
		Search:   q.Get("q"),
		Tags:     splitTags(q.Get("tags")),
	}

	list := filter.Apply(store.Items())

	if field := bookmark.SortField(q.Get("sort")); field != "" {
		if !bookmark.ValidSortField(field) {
			respondError(w, http.StatusBadRequest, "invalid sort field")
			return
		}

		order := bookmark.Order(strings.ToLower(q.Get("order")))
		switch order {
		case "":
			order = bookmark.OrderAsc
		case bookmark.OrderAsc, bookmark.OrderDesc:
		default:
			respondError(w, http.StatusBadRequest, "order must be asc or desc")
			return
		}

		list = bookmark.Sort(list, field, order)
	}

	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleBookmarkCategories(w http.ResponseWriter, r *http.Request) {
	store, ok := s.bookmarkStore(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, store.Categories())
}

func (s *Server) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	store, ok := s.bookmarkStore(w, r)
	if !ok {
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	b, err := store.Get(id)
	if err != nil {
		s.respondBookmarkError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleCreateBookmark(w http.ResponseWriter, r *http.Request) {
	store, ok := s.bookmarkStore(w, r)
	if !ok {
		return
	}

	var req bookmark.Bookmark
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := store.Add(r.Context(), req)
	if err != nil {
		s.respondBookmarkError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request) {
	store, ok := s.bookmarkStore(w, r)
	if !ok {
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	var patch bookmark.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := store.Update(r.Context(), id, patch)
	if err != nil {
		s.respondBookmarkError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	store, ok := s.bookmarkStore(w, r)
	if !ok {
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	if err := store.Delete(r.Context(), id); err != nil {
		s.respondBookmarkError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	s.bookmarkAction(w, r, (*bookmark.Store).Toggle)
}

func (s *Server) handleBookmarkUsage(w http.ResponseWriter, r *http.Request) {
	s.bookmarkAction(w, r, (*bookmark.Store).IncrementUsage)
}

func (s *Server) bookmarkAction(w http.ResponseWriter, r *http.Request,
	action func(*bookmark.Store, context.Context, int64) (bookmark.Bookmark, error)) {
	store, ok := s.bookmarkStore(w, r)
	if !ok {
		return
	}
	id, ok := bookmarkID(w, r)
	if !ok {
		return
	}

	b, err := action(store, r.Context(), id)
	if err != nil {
		s.respondBookmarkError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (s *Server) respondBookmarkError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, bookmark.ErrNotFound):
		respondError(w, http.StatusNotFound, "bookmark not found")
	case errors.Is(err, bookmark.ErrInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.internalError(w, r, "bookmark operation failed", err)
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
