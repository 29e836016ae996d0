package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/todmy/code-reviewer/internal/auth"
	"github.com/todmy/code-reviewer/internal/bookmark"
	"github.com/todmy/code-reviewer/internal/config"
	"github.com/todmy/code-reviewer/internal/history"
	"github.com/todmy/code-reviewer/internal/preferences"
	"github.com/todmy/code-reviewer/internal/review"
	"github.com/todmy/code-reviewer/internal/storage"
)

// Deps are the services the HTTP layer dispatches to
type Deps struct {
	Auth        auth.Service
	Reviews     *review.Service
	History     *storage.Registry[*history.Store]
	Bookmarks   *storage.Registry[*bookmark.Store]
	Preferences *storage.Registry[*preferences.Store]
	Logger      *slog.Logger
}

type Server struct {
	router *chi.Mux

	authService  auth.Service
	authHandlers *auth.Handlers
	reviews      *review.Service
	history      *storage.Registry[*history.Store]
	bookmarks    *storage.Registry[*bookmark.Store]
	preferences  *storage.Registry[*preferences.Store]
	logger       *slog.Logger
	staticDir    string
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	s := &Server{
		router:       r,
		authService:  deps.Auth,
		authHandlers: auth.NewHandlers(deps.Auth, workspaces{
			history:     deps.History,
			bookmarks:   deps.Bookmarks,
			preferences: deps.Preferences,
		}, logger),
		reviews:      deps.Reviews,
		history:      deps.History,
		bookmarks:    deps.Bookmarks,
		preferences:  deps.Preferences,
		logger:       logger,
		staticDir:    cfg.Server.StaticDir,
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", s.authHandlers.Register)
		r.Post("/auth/login", s.authHandlers.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			r.Get("/auth/me", s.authHandlers.Me)

			r.Get("/review/types", s.handleReviewTypes)
			r.Get("/review/status", s.handleReviewStatus)
			r.Post("/reviews", s.handleCreateReview)

			r.Route("/history", func(r chi.Router) {
				r.Get("/", s.handleListHistory)
				r.Delete("/", s.handleClearHistory)
				r.Get("/stats", s.handleHistoryStats)
				r.Get("/export", s.handleExportHistory)
				r.Post("/refresh", s.handleRefreshHistory)
				r.Get("/{itemID}", s.handleGetHistoryItem)
				r.Delete("/{itemID}", s.handleDeleteHistoryItem)
			})

			r.Route("/bookmarks", func(r chi.Router) {
				r.Get("/", s.handleListBookmarks)
				r.Post("/", s.handleCreateBookmark)
				r.Get("/categories", s.handleBookmarkCategories)
				r.Get("/{bookmarkID}", s.handleGetBookmark)
				r.Patch("/{bookmarkID}", s.handleUpdateBookmark)
				r.Delete("/{bookmarkID}", s.handleDeleteBookmark)
				r.Post("/{bookmarkID}/toggle", s.handleToggleBookmark)
				r.Post("/{bookmarkID}/usage", s.handleBookmarkUsage)
			})

			r.Route("/search-history", func(r chi.Router) {
				r.Get("/", s.handleListSearchHistory)
				r.Post("/", s.handleAddSearchTerm)
				r.Delete("/", s.handleClearSearchHistory)
			})

			r.Get("/preferences/theme", s.handleGetTheme)
			r.Put("/preferences/theme", s.handleSetTheme)
		})
	})

	// Serve static files for frontend
	s.router.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}
