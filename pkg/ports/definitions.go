package ports

import (
	"context"
	"io"

	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
)

// Ledger defines storage operations for received shares
type Ledger interface {
	HasProcessed(ctx context.Context, shareID string) (bool, error)
	RecordProcessed(ctx context.Context, entry *domain.LedgerEntry) error // Upsert

	Get(ctx context.Context, shareID string) (*domain.LedgerEntry, error)
	List(ctx context.Context, limit, offset int, filters map[string]interface{}) ([]domain.LedgerEntry, error)
	Count(ctx context.Context, filters map[string]interface{}) (int64, error)
	Dump(ctx context.Context) ([]domain.LedgerEntry, error) // For migration
	Stats(ctx context.Context) (*domain.LedgerStats, error)

	Close() error
}

// ShareReceiver is the remote save-share capability of an authenticated account
type ShareReceiver interface {
	ReceiveShare(ctx context.Context, req domain.ReceiveRequest) (*domain.ReceiveReply, error)
}

// FolderResolver maps an input file name to the folder id its shares are saved to
type FolderResolver interface {
	Resolve(fileName string) (int64, bool)
}

// EventSink receives pipeline progress events
type EventSink interface {
	Emit(ctx context.Context, event domain.Event)
}

// LineSource enumerates input files and streams their lines
type LineSource interface {
	Files(ctx context.Context) ([]string, error)
	Lines(ctx context.Context, name string, fn func(line string) error) error
}

// TransferService classifies a single transfer attempt
type TransferService interface {
	Transfer(ctx context.Context, candidate domain.ShareCandidate, folderID int64) domain.TransferOutcome
}

// PipelineService runs the whole extract-dedup-transfer pipeline once
type PipelineService interface {
	Run(ctx context.Context) (*domain.RunReport, error)
}

// LedgerService defines the read and migration operations over the ledger
type LedgerService interface {
	ListEntries(ctx context.Context, page, limit int, search, sourceFile string) ([]domain.LedgerEntry, int64, error)
	GetEntry(ctx context.Context, shareID string) (*domain.LedgerEntry, error)
	Stats(ctx context.Context) (*domain.LedgerStats, error)
	Export(ctx context.Context, w io.Writer) (int, error)
	Import(ctx context.Context, r io.Reader, overwrite bool) (int, error)
}
