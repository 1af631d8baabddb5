package main

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/events"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/mapping"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/remote"
	"github.com/wadjakorntonsri/share-saver/pkg/adapters/source"
	"github.com/wadjakorntonsri/share-saver/pkg/config"
	"github.com/wadjakorntonsri/share-saver/pkg/core/services"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
	"gitlab.com/tozd/go/errors"
)

type pipelineFlags struct {
	dryRun  bool
	verbose bool
}

func addPipelineFlags(cmd *cobra.Command, cfg *config.Config, f *pipelineFlags) {
	cmd.Flags().StringVar(&cfg.LinksDir, "dir", cfg.LinksDir, "directory holding the share link files")
	cmd.Flags().StringVar(&cfg.LinksPattern, "pattern", cfg.LinksPattern, "glob selecting link files inside --dir")
	cmd.Flags().StringVar(&cfg.MappingFile, "mapping", cfg.MappingFile, "JSON or YAML file mapping file names to folder ids")
	cmd.Flags().StringVar(&cfg.CookiesFile, "cookies", cfg.CookiesFile, "file holding the logged-in session cookies")
	cmd.Flags().DurationVar(&cfg.TransferInterval, "interval", cfg.TransferInterval, "pause between two save requests")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "extract and check the ledger without saving anything")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print every scanned line")
}

// pipeline holds everything a run needs; the ledger is owned by the caller
type pipeline struct {
	service *services.PipelineService
	console *events.Console
	source  *source.Directory
}

func buildPipeline(cfg *config.Config, ledger ports.Ledger, f pipelineFlags, out io.Writer) (*pipeline, error) {
	folders, err := mapping.Load(cfg.MappingFile)
	if err != nil {
		return nil, err
	}

	dir, err := source.NewDirectory(cfg.LinksDir, cfg.LinksPattern)
	if err != nil {
		return nil, err
	}

	var receiver ports.ShareReceiver
	if !f.dryRun {
		cookies, err := remote.LoadCookies(cfg.CookiesFile)
		if err != nil {
			return nil, err
		}
		receiver = remote.NewClient(cookies,
			remote.WithReceiveURL(cfg.ReceiveURL),
			remote.WithTimeout(cfg.RequestTimeout),
		)
	}

	console := events.NewConsole(out, f.verbose)
	service := services.NewPipelineService(
		dir,
		folders,
		ledger,
		services.NewTransferService(receiver),
		events.Multi{console, events.Log{}},
		services.PipelineOptions{DryRun: f.dryRun, Interval: cfg.TransferInterval},
	)

	return &pipeline{service: service, console: console, source: dir}, nil
}

func (p *pipeline) runOnce(ctx context.Context) error {
	start := time.Now()
	report, err := p.service.Run(ctx)
	if report != nil {
		p.console.Summary(report)
		zerolog.Ctx(ctx).Debug().Dur("took", time.Since(start)).Str("run_id", report.RunID).Msg("run complete")
	}
	if err != nil {
		return errors.Errorf("running pipeline: %w", err)
	}
	return nil
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var f pipelineFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the link files once and save every new share",
		Long: `Run reads every link file in --dir, looks up its target folder in the mapping,
and asks the drive to save each share that is not yet in the ledger.
Shares that fail are not recorded and are retried by the next run.`,
		Args: cobra.NoArgs,
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
			return p.runOnce(ctx)
		},
	}

	addPipelineFlags(cmd, cfg, &f)
	return cmd
}
