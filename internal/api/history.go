package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/todmy/code-reviewer/internal/history"
)

// historyStore resolves the caller's history, writing an error response on failure
func (s *Server) historyStore(w http.ResponseWriter, r *http.Request) (*history.Store, bool) {
	ns, ok := namespace(w, r)
	if !ok {
		return nil, false
	}

	store, err := s.history.For(r.Context(), ns)
	if err != nil {
		s.internalError(w, r, "failed to load history", err)
		return nil, false
	}
	return store, true
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	store, ok := s.historyStore(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, store.Items())
}

func (s *Server) handleGetHistoryItem(w http.ResponseWriter, r *http.Request) {
	store, ok := s.historyStore(w, r)
	if !ok {
		return
	}

	item, err := store.Get(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusNotFound, "history item not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	store, ok := s.historyStore(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, store.Stats())
}

func (s *Server) handleRefreshHistory(w http.ResponseWriter, r *http.Request) {
	store, ok := s.historyStore(w, r)
	if !ok {
		return
	}

	if err := store.Refresh(r.Context()); err != nil {
		s.internalError(w, r, "failed to refresh history", err)
		return
	}
	respondJSON(w, http.StatusOK, store.Items())
}

func (s *Server) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	store, ok := s.historyStore(w, r)
	if !ok {
		return
	}

	data, filename, err := store.Export()
	if err != nil {
		s.internalError(w, r, "failed to export history", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleDeleteHistoryItem(w http.ResponseWriter, r *http.Request) {
	store, ok := s.historyStore(w, r)
	if !ok {
		return
	}

	err := store.Delete(r.Context(), chi.URLParam(r, "itemID"))
	switch {
	case errors.Is(err, history.ErrNotFound):
		respondError(w, http.StatusNotFound, "history item not found")
	case err != nil:
		s.internalError(w, r, "failed to delete history item", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleClearHistory requires ?confirm=true; the UI asks the user before sending it
func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	store, ok := s.historyStore(w, r)
	if !ok {
		return
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirmed {
		respondError(w, http.StatusPreconditionRequired, "confirmation required: repeat with confirm=true")
		return
	}

	if _, err := store.Clear(r.Context(), true); err != nil {
		s.internalError(w, r, "failed to clear history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
