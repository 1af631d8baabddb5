package main

import (
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/watcher"
	"github.com/wadjakorntonsri/share-saver/pkg/config"
)

func newWatchCmd(cfg *config.Config) *cobra.Command {
	var f pipelineFlags
	var debounce = watcher.DefaultDebounce

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run once, then run again whenever a link file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ledger, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			p, err := buildPipeline(cfg, ledger, f, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := p.runOnce(ctx); err != nil && ctx.Err() == nil {
				return err
			}

			w := &watcher.Watcher{
				Dir:      cfg.LinksDir,
				Match:    p.source.Match,
				Debounce: debounce,
				OnChange: p.runOnce,
			}
			return w.Run(ctx)
		},
	}

	addPipelineFlags(cmd, cfg, &f)
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period after a change before re-running")
	return cmd
}
