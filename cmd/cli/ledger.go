package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/share-saver/pkg/config"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"github.com/wadjakorntonsri/share-saver/pkg/core/services"
	"gitlab.com/tozd/go/errors"
)

func newListCmd(cfg *config.Config) *cobra.Command {
	var (
		page, limit        int
		search, sourceFile string
		stats              bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the shares recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ledger, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			service := services.NewLedgerService(ledger)
			out := cmd.OutOrStdout()

			if stats {
				s, err := service.Stats(ctx)
				if err != nil {
					return errors.Errorf("reading stats: %w", err)
				}
				printStats(out, s)
				return nil
			}

			entries, total, err := service.ListEntries(ctx, page, limit, search, sourceFile)
			if err != nil {
				return errors.Errorf("listing ledger: %w", err)
			}
			printEntries(out, entries)
			fmt.Fprintf(out, "%s\n", color.New(color.Faint).Sprintf("%d of %d shares", len(entries), total))
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "entries per page")
	cmd.Flags().StringVar(&search, "search", "", "filter by share id or file name substring")
	cmd.Flags().StringVar(&sourceFile, "source", "", "only shares from this link file")
	cmd.Flags().BoolVar(&stats, "stats", false, "print per-file totals instead of entries")
	return cmd
}

func printEntries(out io.Writer, entries []domain.LedgerEntry) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", bold("SHARE"), bold("CODE"), bold("FILE"), bold("FOLDER"), bold("RECORDED"))
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", cyan(e.ShareID), e.AccessCode, e.SourceFile, e.FolderID, e.RecordedAt.Local().Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}

func printStats(out io.Writer, s *domain.LedgerStats) {
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintf(out, "total shares: %s\n", green(s.Total))
	if s.LastAt != nil {
		fmt.Fprintf(out, "last recorded: %s\n", s.LastAt.Local().Format("2006-01-02 15:04:05"))
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, sc := range s.BySource {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", sc.SourceFile, sc.FolderID, sc.Count)
	}
	tw.Flush()
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ledger as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ledger, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return errors.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			n, err := services.NewLedgerService(ledger).Export(ctx, w)
			if err != nil {
				return err
			}
			zerolog.Ctx(ctx).Info().Int("entries", n).Msg("ledger exported")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(cfg *config.Config) *cobra.Command {
	var (
		inPath    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load ledger entries from a JSON export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(inPath)
			if err != nil {
				return errors.Errorf("opening %s: %w", inPath, err)
			}
			defer f.Close()

			ledger, err := openLedger(cfg)
			if err != nil {
				return err
			}
			defer ledger.Close()

			n, err := services.NewLedgerService(ledger).Import(ctx, f, overwrite)
			if err != nil {
				return errors.Errorf("importing after %d entries: %w", n, err)
			}
			zerolog.Ctx(ctx).Info().Int("entries", n).Msg("ledger imported")
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "file", "f", "", "JSON file to import")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace shares already in the ledger")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
