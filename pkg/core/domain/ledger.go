package domain

import "time"

// LedgerEntry records a share that was received successfully
type LedgerEntry struct {
	ShareID    string    `json:"share_id"`
	AccessCode string    `json:"access_code"`
	SourceFile string    `json:"source_file"`
	FolderID   int64     `json:"folder_id"`
	RecordedAt time.Time `json:"recorded_at"`
	RunID      string    `json:"run_id,omitempty"`
}

// LedgerStats aggregates the ledger for the inspection views
type LedgerStats struct {
	Total    int64             `json:"total"`
	BySource []SourceFileCount `json:"by_source"`
	LastAt   *time.Time        `json:"last_recorded_at,omitempty"`
}

type SourceFileCount struct {
	SourceFile string `json:"source_file"`
	FolderID   int64  `json:"folder_id"`
	Count      int64  `json:"count"`
}
