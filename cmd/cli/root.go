package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/share-saver/pkg/config"
	"gitlab.com/tozd/go/errors"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:           "share-saver",
		Short:         "Save cloud drive shares listed in text files into mapped folders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				ctx := cmd.Context()
				logger := zerolog.Ctx(ctx).Level(zerolog.DebugLevel)
				cmd.SetContext(logger.WithContext(ctx))
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfg.DatabaseURL, "db", cfg.DatabaseURL, "ledger database URL (sqlite path or libsql:// URL)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newRunCmd(cfg),
		newWatchCmd(cfg),
		newListCmd(cfg),
		newExportCmd(cfg),
		newImportCmd(cfg),
	)

	return cmd
}

// openLedger opens the ledger; callers must Close it
func openLedger(cfg *config.Config) (*sqlite.SQLiteRepository, error) {
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Errorf("opening ledger %s: %w", cfg.DatabaseURL, err)
	}
	return repo, nil
}
