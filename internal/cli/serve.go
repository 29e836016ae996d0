package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/todmy/code-reviewer/internal/api"
	"github.com/todmy/code-reviewer/internal/auth"
	"github.com/todmy/code-reviewer/internal/bookmark"
	"github.com/todmy/code-reviewer/internal/config"
	"github.com/todmy/code-reviewer/internal/history"
	"github.com/todmy/code-reviewer/internal/logger"
	"github.com/todmy/code-reviewer/internal/preferences"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			exitCode = ExitUsageError
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := serve(ctx, cfg); err != nil {
			exitCode = ExitRuntimeError
			return err
		}
		return nil
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Log)
	logWarnings(ctx, cfg, log)

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.Close()

	authService := auth.NewJWTService(auth.Config{
		SecretKey:     cfg.Auth.JWTSecret,
		TokenDuration: cfg.Auth.TokenDuration,
	}, be.users)

	server := api.NewServer(cfg, api.Deps{
		Auth:        authService,
		Reviews:     newReviewService(cfg, log),
		History:     history.NewRegistry(be.store, history.WithLogger(log)),
		Bookmarks:   bookmark.NewRegistry(be.store, bookmark.WithLogger(log)),
		Preferences: preferences.NewRegistry(be.store, log),
		Logger:      log,
	})

	httpServer := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     server.Handler(),
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.InfoContext(gctx, "starting code review server",
			"addr", httpServer.Addr,
			"storage", cfg.Storage.Driver,
			"model", cfg.OpenAI.Model,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		log.Info("shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
