package events

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
)

// Console prints pipeline events for the operator
type Console struct {
	out     io.Writer
	verbose bool
}

// NewConsole writes to out. Scanned lines are only shown when verbose is set.
func NewConsole(out io.Writer, verbose bool) *Console {
	return &Console{out: out, verbose: verbose}
}

func (c *Console) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	return base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style}).WithWriter(c.out)
}

func (c *Console) Emit(_ context.Context, e domain.Event) {
	switch e.Kind {
	case domain.FileSkipped:
		c.printer(pterm.Warning, "SKIP").Println(fmt.Sprintf("%s is not in the folder mapping, skipped", e.File))
	case domain.FileStart:
		c.printer(pterm.Info, "FILE").Println(fmt.Sprintf("%s -> folder %d", e.File, e.FolderID))
	case domain.FileError:
		c.printer(pterm.Error, "FILE").Println(fmt.Sprintf("%s: %s", e.File, e.Reason))
	case domain.LineScanned:
		if c.verbose {
			c.printer(pterm.Info, "SCAN").Println(e.Line)
		}
	case domain.ShareMissingCode:
		c.printer(pterm.Warning, "CODE").Println(fmt.Sprintf("no access code for share %s, skipped", e.ShareID))
	case domain.ShareSkippedDuplicate:
		c.printer(pterm.Info, "DONE").Println(fmt.Sprintf("share %s already received, skipped", e.ShareID))
	case domain.TransferDryRun:
		c.printer(pterm.Info, "DRY").Println(fmt.Sprintf("would save %s to folder %d", e.Reason, e.FolderID))
	case domain.TransferSuccess:
		c.printer(pterm.Success, "OK").Println(fmt.Sprintf("saved share %s to folder %d", e.ShareID, e.FolderID))
	case domain.TransferFailed:
		c.printer(pterm.Error, "FAIL").Println(fmt.Sprintf("share %s refused: %s", e.ShareID, e.Reason))
	case domain.TransferException:
		c.printer(pterm.Error, "ERR").Println(fmt.Sprintf("share %s: %s", e.ShareID, e.Reason))
	case domain.LedgerError:
		c.printer(pterm.Error, "LEDGER").Println(fmt.Sprintf("share %s: %s", e.ShareID, e.Reason))
	}
}

// Summary prints the counters of a finished run
func (c *Console) Summary(r *domain.RunReport) {
	p := c.printer(pterm.Info, "RUN")
	if r.Failed() > 0 {
		p = c.printer(pterm.Warning, "RUN")
	}
	p.Println(fmt.Sprintf("%d files (%d skipped), %d shares found: %d saved, %d already received, %d without code, %d failed",
		r.Files, r.FilesSkipped, r.Candidates, r.Transferred, r.Duplicates, r.MissingCode, r.Failed()))
}

var _ ports.EventSink = (*Console)(nil)
