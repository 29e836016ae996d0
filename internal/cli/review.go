package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/todmy/code-reviewer/internal/config"
	"github.com/todmy/code-reviewer/internal/history"
	"github.com/todmy/code-reviewer/internal/logger"
	"github.com/todmy/code-reviewer/internal/review"
	"github.com/todmy/code-reviewer/internal/storage"
	"github.com/todmy/code-reviewer/internal/upload"
	"github.com/todmy/code-reviewer/pkg/models"
)

// Review flags
var (
	flagReviewType string
	flagLanguage   string
	flagFormat     string
	flagSave       string
)

var reviewCmd = &cobra.Command{
	Use:   "review <file>...",
	Short: "Review local source files",
	Long: `Review one or more local files with the configured model and print the result.

Types: ` + strings.Join(reviewTypeKeys(), ", "),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			exitCode = ExitUsageError
			return err
		}
		return runReview(cmd.Context(), cmd.OutOrStdout(), cfg, args)
	},
}

func init() {
	reviewCmd.Flags().StringVarP(&flagReviewType, "type", "t", review.TypeQuality, "Review type")
	reviewCmd.Flags().StringVarP(&flagLanguage, "language", "l", "", "Language label (default: derived from extensions)")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json)")
	reviewCmd.Flags().StringVar(&flagSave, "save", "", "Also record the result in this user's history (user id)")
}

func runReview(ctx context.Context, w io.Writer, cfg *config.Config, paths []string) error {
	log := logger.New(cfg.Log)
	logWarnings(ctx, cfg, log)

	if !review.ValidType(flagReviewType) {
		exitCode = ExitUsageError
		return fmt.Errorf("%w %q (want one of %s)", review.ErrInvalidReviewType, flagReviewType,
			strings.Join(reviewTypeKeys(), ", "))
	}
	if flagFormat != "text" && flagFormat != "json" {
		exitCode = ExitUsageError
		return fmt.Errorf("unknown format %q", flagFormat)
	}

	files, err := readFiles(paths)
	if err != nil {
		exitCode = ExitUsageError
		return err
	}

	svc := newReviewService(cfg, log)
	result, err := svc.ReviewFiles(ctx, flagReviewType, files, flagLanguage)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrInvalidUpload):
			exitCode = ExitUsageError
		case errors.Is(err, review.ErrInvalidAPIKey):
			exitCode = ExitAuthError
		default:
			exitCode = ExitRuntimeError
		}
		return err
	}

	if flagSave != "" {
		if err := saveToHistory(ctx, cfg, log, flagSave, result, files); err != nil {
			exitCode = ExitRuntimeError
			return err
		}
	}

	if flagFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	_, err = io.WriteString(w, renderResult(result, files, svc.Limits()))
	return err
}

func saveToHistory(ctx context.Context, cfg *config.Config, log *slog.Logger, namespace string, result models.ReviewResult, files []upload.File) error {
	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.Close()

	store, err := history.Open(ctx, storage.NewBucket(be.store, namespace), history.WithLogger(log))
	if err != nil {
		return err
	}

	_, err = store.Append(ctx, result, files)
	return err
}

func readFiles(paths []string) ([]upload.File, error) {
	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, upload.NewFile(p, content))
	}
	return files, nil
}

func reviewTypeKeys() []string {
	types := review.Types()
	keys := make([]string, len(types))
	for i, t := range types {
		keys[i] = t.Key
	}
	return keys
}
