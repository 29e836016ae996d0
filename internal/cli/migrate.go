package cli

import (
	"github.com/spf13/cobra"

	"github.com/todmy/code-reviewer/internal/config"
	"github.com/todmy/code-reviewer/internal/logger"
	"github.com/todmy/code-reviewer/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			exitCode = ExitUsageError
			return err
		}
		logger.New(cfg.Log)

		db, err := storage.Open(cmd.Context(), cfg.Storage.DatabaseURL)
		if err != nil {
			exitCode = ExitRuntimeError
			return err
		}
		defer db.Close()

		if err := storage.Migrate(cmd.Context(), db); err != nil {
			exitCode = ExitRuntimeError
			return err
		}
		return nil
	},
}
