package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
	"gitlab.com/tozd/go/errors"
	_ "modernc.org/sqlite" // Local SQLite driver
)

// SQLiteRepository is the share ledger. One process writes to it at a time.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := driverFor(dbURL)

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, errors.Errorf("opening ledger: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Errorf("pinging ledger: %w", err)
	}

	if driverName == "sqlite" {
		// a single connection keeps shared in-memory databases alive and serialises writes
		db.SetMaxOpenConns(1)
		_, _ = db.Exec("PRAGMA busy_timeout = 5000")
		_, _ = db.Exec("PRAGMA journal_mode = WAL")
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.Errorf("migrating ledger: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func driverFor(dbURL string) string {
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS received_shares (
		share_code TEXT PRIMARY KEY,
		receive_code TEXT,
		txt_file TEXT,
		cid INTEGER,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		run_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_received_shares_txt_file ON received_shares(txt_file);
	`
	if _, err := db.Exec(query); err != nil {
		return err
	}

	// Ledgers written by older tools have no run_id column.
	// SQLite doesn't support IF NOT EXISTS for ADD COLUMN, so the duplicate column error is ignored.
	_, _ = db.Exec(`ALTER TABLE received_shares ADD COLUMN run_id TEXT`)

	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) HasProcessed(ctx context.Context, shareID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM received_shares WHERE share_code = ?`, shareID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("checking share %s: %w", shareID, err)
	}
	return true, nil
}

func (r *SQLiteRepository) RecordProcessed(ctx context.Context, entry *domain.LedgerEntry) error {
	if entry.ShareID == "" {
		return errors.New("ledger entry without share id")
	}
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}
	entry.RecordedAt = entry.RecordedAt.UTC()

	query := `INSERT OR REPLACE INTO received_shares (share_code, receive_code, txt_file, cid, timestamp, run_id)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, entry.ShareID, entry.AccessCode, entry.SourceFile, entry.FolderID, entry.RecordedAt, entry.RunID)
	if err != nil {
		return errors.Errorf("recording share %s: %w", entry.ShareID, err)
	}
	return nil
}

const entryColumns = `share_code, COALESCE(receive_code, ''), COALESCE(txt_file, ''), COALESCE(cid, 0), timestamp, COALESCE(run_id, '')`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var recordedAt sql.NullTime
	if err := s.Scan(&e.ShareID, &e.AccessCode, &e.SourceFile, &e.FolderID, &recordedAt, &e.RunID); err != nil {
		return nil, err
	}
	if recordedAt.Valid {
		e.RecordedAt = recordedAt.Time
	}
	return &e, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, shareID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM received_shares WHERE share_code = ?`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, shareID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func applyFilters(query string, args []interface{}, filters map[string]interface{}) (string, []interface{}) {
	if search, ok := filters["search"].(string); ok && search != "" {
		query += " AND (share_code LIKE ? OR txt_file LIKE ?)"
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	if source, ok := filters["source_file"].(string); ok && source != "" {
		query += " AND txt_file = ?"
		args = append(args, source)
	}
	if folderID, ok := filters["folder_id"].(int64); ok && folderID != 0 {
		query += " AND cid = ?"
		args = append(args, folderID)
	}
	return query, args
}

func (r *SQLiteRepository) List(ctx context.Context, limit, offset int, filters map[string]interface{}) ([]domain.LedgerEntry, error) {
	query, args := applyFilters(`SELECT `+entryColumns+` FROM received_shares WHERE 1 = 1`, nil, filters)

	query += " ORDER BY timestamp DESC, share_code ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.queryEntries(ctx, query, args...)
}

func (r *SQLiteRepository) Count(ctx context.Context, filters map[string]interface{}) (int64, error) {
	query, args := applyFilters(`SELECT COUNT(*) FROM received_shares WHERE 1 = 1`, nil, filters)

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.LedgerEntry, error) {
	return r.queryEntries(ctx, `SELECT `+entryColumns+` FROM received_shares ORDER BY share_code ASC`)
}

func (r *SQLiteRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]domain.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) Stats(ctx context.Context) (*domain.LedgerStats, error) {
	stats := &domain.LedgerStats{
		BySource: []domain.SourceFileCount{},
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM received_shares`).Scan(&stats.Total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(txt_file, ''), COALESCE(cid, 0), COUNT(*) AS c
		FROM received_shares
		GROUP BY txt_file, cid
		ORDER BY c DESC, txt_file ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sc domain.SourceFileCount
		if err := rows.Scan(&sc.SourceFile, &sc.FolderID, &sc.Count); err != nil {
			return nil, err
		}
		stats.BySource = append(stats.BySource, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if stats.Total > 0 {
		var last sql.NullTime
		err := r.db.QueryRowContext(ctx, `SELECT timestamp FROM received_shares ORDER BY timestamp DESC LIMIT 1`).Scan(&last)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if last.Valid {
			stats.LastAt = &last.Time
		}
	}

	return stats, nil
}

// Ensure interface compliance
var _ ports.Ledger = (*SQLiteRepository)(nil)
