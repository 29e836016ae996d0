package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

var errBadCredentials = errors.New("email and password are required")

// WorkspaceSummary describes what a user has stored under their namespace
type WorkspaceSummary struct {
	HistoryItems   int  `json:"historyItems"`
	Bookmarks      int  `json:"bookmarks"`
	RecentSearches int  `json:"recentSearches"`
	DarkMode       bool `json:"darkMode"`
}

// Workspaces reports the stored state of a user namespace
type Workspaces interface {
	Summary(ctx context.Context, namespace string) (WorkspaceSummary, error)
}

// Credentials is the register and login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) validate(register bool) error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return errBadCredentials
	}
	if register && len(c.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// Account is the public view of a user. Workspace is only filled in by Me.
type Account struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Workspace *WorkspaceSummary `json:"workspace,omitempty"`
}

// Session is returned by register and login
type Session struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Handlers serves the /auth endpoints
type Handlers struct {
	service    Service
	workspaces Workspaces
	logger     *slog.Logger
}

// NewHandlers creates the auth handlers. workspaces may be nil, in which
// case Me reports the account without a workspace summary.
func NewHandlers(service Service, workspaces Workspaces, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{service: service, workspaces: workspaces, logger: logger}
}

// Register handles POST /auth/register and signs the new user in
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r, true)
	if !ok {
		return
	}

	if _, err := h.service.Register(r.Context(), creds.Email, creds.Password); err != nil {
		if errors.Is(err, ErrUserExists) {
			respondError(w, http.StatusConflict, "user already exists")
			return
		}
		h.logger.ErrorContext(r.Context(), "register user", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.startSession(w, r, http.StatusCreated, creds)
}

// Login handles POST /auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r, false)
	if !ok {
		return
	}
	h.startSession(w, r, http.StatusOK, creds)
}

func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request, status int, creds Credentials) {
	token, err := h.service.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	claims, err := h.service.ValidateToken(token)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "validate issued token", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	respondJSON(w, status, Session{
		Token: token,
		User:  Account{ID: claims.UserID, Email: claims.Email},
	})
}

// Me handles GET /auth/me: the caller's account and what their namespace holds
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	account := Account{ID: claims.UserID, Email: claims.Email}
	if h.workspaces != nil {
		summary, err := h.workspaces.Summary(r.Context(), claims.UserID)
		if err != nil {
			h.logger.ErrorContext(r.Context(), "load workspace summary", "user_id", claims.UserID, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to load workspace")
			return
		}
		account.Workspace = &summary
	}

	respondJSON(w, http.StatusOK, account)
}

func decodeCredentials(w http.ResponseWriter, r *http.Request, register bool) (Credentials, bool) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return creds, false
	}
	if err := creds.validate(register); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return creds, false
	}
	return creds, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
