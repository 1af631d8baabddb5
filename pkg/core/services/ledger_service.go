package services

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
	"gitlab.com/tozd/go/errors"
)

var ErrEntryNotFound = errors.Base("share not found in ledger")

type LedgerService struct {
	repo ports.Ledger
}

func NewLedgerService(repo ports.Ledger) *LedgerService {
	return &LedgerService{repo: repo}
}

func (s *LedgerService) ListEntries(ctx context.Context, page, limit int, search, sourceFile string) ([]domain.LedgerEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	filters := map[string]interface{}{
		"search":      search,
		"source_file": sourceFile,
	}

	entries, err := s.repo.List(ctx, limit, offset, filters)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	return entries, count, nil
}

func (s *LedgerService) GetEntry(ctx context.Context, shareID string) (*domain.LedgerEntry, error) {
	entry, err := s.repo.Get(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, errors.WithDetails(ErrEntryNotFound, "share_id", shareID)
	}
	return entry, nil
}

func (s *LedgerService) Stats(ctx context.Context) (*domain.LedgerStats, error) {
	return s.repo.Stats(ctx)
}

// Export writes every ledger entry as an indented JSON array
func (s *LedgerService) Export(ctx context.Context, w io.Writer) (int, error) {
	entries, err := s.repo.Dump(ctx)
	if err != nil {
		return 0, errors.Errorf("dumping ledger: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return 0, errors.Errorf("encoding ledger: %w", err)
	}
	return len(entries), nil
}

// Import reads a JSON array written by Export. Shares already in the ledger
// are kept unless overwrite is set. It returns how many entries were written.
func (s *LedgerService) Import(ctx context.Context, r io.Reader, overwrite bool) (int, error) {
	var entries []domain.LedgerEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, errors.Errorf("decoding ledger: %w", err)
	}

	log := zerolog.Ctx(ctx)
	count := 0
	for i := range entries {
		e := &entries[i]
		e.ShareID = strings.TrimSpace(e.ShareID)
		if e.ShareID == "" {
			log.Warn().Int("index", i).Msg("skipping entry without share id")
			continue
		}

		if !overwrite {
			exists, err := s.repo.HasProcessed(ctx, e.ShareID)
			if err != nil {
				return count, err
			}
			if exists {
				log.Debug().Str("share_id", e.ShareID).Msg("skipping existing share")
				continue
			}
		}

		if err := s.repo.RecordProcessed(ctx, e); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

var _ ports.LedgerService = (*LedgerService)(nil)
