package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
	"gitlab.com/tozd/go/errors"
)

// PipelineOptions tunes a pipeline run
type PipelineOptions struct {
	// DryRun stops before the remote call and records nothing.
	DryRun bool
	// Interval is the pause between two remote calls.
	Interval time.Duration
}

type PipelineService struct {
	source   ports.LineSource
	resolver ports.FolderResolver
	ledger   ports.Ledger
	transfer ports.TransferService
	sink     ports.EventSink
	opts     PipelineOptions

	now func() time.Time
}

func NewPipelineService(
	source ports.LineSource,
	resolver ports.FolderResolver,
	ledger ports.Ledger,
	transfer ports.TransferService,
	sink ports.EventSink,
	opts PipelineOptions,
) *PipelineService {
	return &PipelineService{
		source:   source,
		resolver: resolver,
		ledger:   ledger,
		transfer: transfer,
		sink:     sink,
		opts:     opts,
		now:      time.Now,
	}
}

// run carries the state of one pipeline run
type run struct {
	*PipelineService
	id         string
	report     *domain.RunReport
	lastRemote time.Time
}

// Run processes every input file once, in name order.
// Per-file and per-share failures are reported as events and never stop the run;
// only a failure to list the input or a cancelled context is returned as an error.
func (s *PipelineService) Run(ctx context.Context) (*domain.RunReport, error) {
	r := &run{
		PipelineService: s,
		id:              uuid.NewString(),
	}
	r.report = &domain.RunReport{RunID: r.id}

	ctx = zerolog.Ctx(ctx).With().Str("run_id", r.id).Logger().WithContext(ctx)
	log := zerolog.Ctx(ctx)

	files, err := s.source.Files(ctx)
	if err != nil {
		return r.report, errors.Errorf("listing input files: %w", err)
	}
	log.Debug().Int("files", len(files)).Msg("input files found")

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return r.report, err
		}
		r.processFile(ctx, name)
	}

	log.Info().
		Int("files", r.report.Files).
		Int("transferred", r.report.Transferred).
		Int("duplicates", r.report.Duplicates).
		Int("failed", r.report.Failed()).
		Msg("pipeline run finished")

	return r.report, ctx.Err()
}

func (r *run) emit(ctx context.Context, e domain.Event) {
	e.RunID = r.id
	r.sink.Emit(ctx, e)
}

func (r *run) processFile(ctx context.Context, name string) {
	r.report.Files++

	folderID, ok := r.resolver.Resolve(name)
	if !ok {
		r.report.FilesSkipped++
		r.emit(ctx, domain.Event{Kind: domain.FileSkipped, File: name, Reason: "no folder mapped for file"})
		return
	}

	r.emit(ctx, domain.Event{Kind: domain.FileStart, File: name, FolderID: folderID})

	err := r.source.Lines(ctx, name, func(line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.processLine(ctx, name, folderID, line)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		r.emit(ctx, domain.Event{Kind: domain.FileError, File: name, FolderID: folderID, Reason: err.Error()})
	}
}

func (r *run) processLine(ctx context.Context, file string, folderID int64, line string) {
	r.report.Lines++
	line = strings.TrimSpace(line)
	r.emit(ctx, domain.Event{Kind: domain.LineScanned, File: file, Line: line})

	res := ExtractShare(line)
	if res.Status == domain.NoMatch {
		return
	}
	r.report.Candidates++

	c := res.Candidate
	base := domain.Event{File: file, Line: line, ShareID: c.ShareID, FolderID: folderID}

	if res.Status == domain.MissingCode {
		r.report.MissingCode++
		r.emitAs(ctx, base, domain.ShareMissingCode, "")
		return
	}

	done, err := r.ledger.HasProcessed(ctx, c.ShareID)
	if err != nil {
		r.report.LedgerErrors++
		r.emitAs(ctx, base, domain.LedgerError, err.Error())
		return
	}
	if done {
		r.report.Duplicates++
		r.emitAs(ctx, base, domain.ShareSkippedDuplicate, "")
		return
	}

	if r.opts.DryRun {
		r.report.DryRun++
		r.emitAs(ctx, base, domain.TransferDryRun, c.CanonicalURL())
		return
	}

	if err := r.pace(ctx); err != nil {
		return
	}
	outcome := r.transfer.Transfer(ctx, c, folderID)
	r.lastRemote = r.now()

	switch outcome.Kind {
	case domain.OutcomeSuccess:
		r.report.Transferred++
		r.emitAs(ctx, base, domain.TransferSuccess, "")
		entry := &domain.LedgerEntry{
			ShareID:    c.ShareID,
			AccessCode: c.AccessCode,
			SourceFile: file,
			FolderID:   folderID,
			RecordedAt: r.now(),
			RunID:      r.id,
		}
		if err := r.ledger.RecordProcessed(ctx, entry); err != nil {
			r.report.LedgerErrors++
			r.emitAs(ctx, base, domain.LedgerError, err.Error())
		}
	case domain.OutcomeMissingAccessCode:
		r.report.MissingCode++
		r.emitAs(ctx, base, domain.ShareMissingCode, "")
	case domain.OutcomeAlreadyTransferred:
		r.report.Duplicates++
		r.emitAs(ctx, base, domain.ShareSkippedDuplicate, "")
	case domain.OutcomeRemoteError:
		r.report.RemoteErrors++
		r.emitAs(ctx, base, domain.TransferFailed, outcome.Message)
	default:
		r.report.Exceptions++
		r.emitAs(ctx, base, domain.TransferException, outcome.Message)
	}
}

func (r *run) emitAs(ctx context.Context, base domain.Event, kind domain.EventKind, reason string) {
	base.Kind = kind
	base.Reason = reason
	r.emit(ctx, base)
}

// pace waits until Interval has passed since the previous remote call
func (r *run) pace(ctx context.Context) error {
	if r.opts.Interval <= 0 || r.lastRemote.IsZero() {
		return nil
	}
	wait := r.opts.Interval - r.now().Sub(r.lastRemote)
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ ports.PipelineService = (*PipelineService)(nil)
