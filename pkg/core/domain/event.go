package domain

type EventKind int

const (
	FileSkipped EventKind = iota
	FileStart
	FileError
	LineScanned
	ShareSkippedDuplicate
	ShareMissingCode
	TransferSuccess
	TransferFailed
	TransferException
	TransferDryRun
	LedgerError
)

var eventNames = map[EventKind]string{
	FileSkipped:           "file_skipped",
	FileStart:             "file_start",
	FileError:             "file_error",
	LineScanned:           "line_scanned",
	ShareSkippedDuplicate: "share_skipped_duplicate",
	ShareMissingCode:      "share_missing_code",
	TransferSuccess:       "transfer_success",
	TransferFailed:        "transfer_failed",
	TransferException:     "transfer_exception",
	TransferDryRun:        "transfer_dry_run",
	LedgerError:           "ledger_error",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a progress notification emitted by the pipeline
type Event struct {
	Kind     EventKind
	RunID    string
	File     string
	Line     string
	ShareID  string
	FolderID int64
	Reason   string
}

// RunReport counts what a single pipeline run did
type RunReport struct {
	RunID        string `json:"run_id"`
	Files        int    `json:"files"`
	FilesSkipped int    `json:"files_skipped"`
	Lines        int    `json:"lines"`
	Candidates   int    `json:"candidates"`
	Transferred  int    `json:"transferred"`
	Duplicates   int    `json:"duplicates"`
	MissingCode  int    `json:"missing_code"`
	RemoteErrors int    `json:"remote_errors"`
	Exceptions   int    `json:"exceptions"`
	LedgerErrors int    `json:"ledger_errors"`
	DryRun       int    `json:"dry_run"`
}

// Failed counts candidates left for the next run
func (r *RunReport) Failed() int {
	return r.RemoteErrors + r.Exceptions + r.LedgerErrors
}
