package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/todmy/code-reviewer/internal/auth"
	"github.com/todmy/code-reviewer/internal/config"
	"github.com/todmy/code-reviewer/internal/openai"
	"github.com/todmy/code-reviewer/internal/review"
	"github.com/todmy/code-reviewer/internal/storage"
	"github.com/todmy/code-reviewer/internal/upload"
)

// backend bundles the storage-side dependencies selected by the storage driver
type backend struct {
	store storage.Store
	users auth.UserRepository
	db    *sql.DB
}

func (b *backend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// openBackend connects the configured storage driver, running migrations
// first when auto-migrate is on.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case "memory":
		logger.WarnContext(ctx, "using in-memory storage; data is lost on restart")
		return &backend{
			store: storage.NewMemoryStore(),
			users: auth.NewMemoryRepository(),
		}, nil
	case "postgres":
		db, err := storage.Open(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, err
		}

		if cfg.Storage.AutoMigrate {
			if err := storage.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}

		return &backend{
			store: storage.NewPostgresStore(db),
			users: auth.NewPostgresRepository(db),
			db:    db,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func newReviewService(cfg *config.Config, logger *slog.Logger) *review.Service {
	client := openai.NewClient(cfg.OpenAI.APIKey, openai.WithBaseURL(cfg.OpenAI.BaseURL))

	return review.NewService(client,
		review.Params{
			Model:       cfg.OpenAI.Model,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
		},
		review.WithLimits(uploadLimits(cfg)),
		review.WithLogger(logger),
	)
}

func uploadLimits(cfg *config.Config) upload.Limits {
	return upload.Limits{
		MaxFileSize:          cfg.Upload.MaxFileSize,
		CompressionThreshold: cfg.Upload.CompressionThreshold,
		MaxFiles:             cfg.Upload.MaxFiles,
	}
}

func logWarnings(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	for _, w := range cfg.Warnings() {
		logger.WarnContext(ctx, "config warning", "warning", w)
	}
}
