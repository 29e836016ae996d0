package api

import (
	"encoding/json"
	"net/http"

	"github.com/todmy/code-reviewer/internal/preferences"
)

type searchTermRequest struct {
	Term string `json:"term"`
}

type themeBody struct {
	DarkMode bool `json:"darkMode"`
}

func (s *Server) preferenceStore(w http.ResponseWriter, r *http.Request) (*preferences.Store, bool) {
	ns, ok := namespace(w, r)
	if !ok {
		return nil, false
	}

	store, err := s.preferences.For(r.Context(), ns)
	if err != nil {
		s.internalError(w, r, "failed to load preferences", err)
		return nil, false
	}
	return store, true
}

func (s *Server) handleListSearchHistory(w http.ResponseWriter, r *http.Request) {
	store, ok := s.preferenceStore(w, r)
	if !ok {
		return
	}

	terms, err := store.SearchHistory(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load search history", err)
		return
	}
	respondJSON(w, http.StatusOK, terms)
}

func (s *Server) handleAddSearchTerm(w http.ResponseWriter, r *http.Request) {
	store, ok := s.preferenceStore(w, r)
	if !ok {
		return
	}

	var req searchTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	terms, err := store.AddSearch(r.Context(), req.Term)
	if err != nil {
		s.internalError(w, r, "failed to save search term", err)
		return
	}
	respondJSON(w, http.StatusOK, terms)
}

func (s *Server) handleClearSearchHistory(w http.ResponseWriter, r *http.Request) {
	store, ok := s.preferenceStore(w, r)
	if !ok {
		return
	}

	if err := store.ClearSearchHistory(r.Context()); err != nil {
		s.internalError(w, r, "failed to clear search history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	store, ok := s.preferenceStore(w, r)
	if !ok {
		return
	}

	dark, err := store.DarkMode(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load theme", err)
		return
	}
	respondJSON(w, http.StatusOK, themeBody{DarkMode: dark})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	store, ok := s.preferenceStore(w, r)
	if !ok {
		return
	}

	var req themeBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.SetDarkMode(r.Context(), req.DarkMode); err != nil {
		s.internalError(w, r, "failed to save theme", err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}
