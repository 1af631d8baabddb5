package events

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
)

func init() {
	pterm.DisableStyling()
}

func TestConsoleEmit(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)
	ctx := context.Background()

	c.Emit(ctx, domain.Event{Kind: domain.FileSkipped, File: "unknown.txt"})
	c.Emit(ctx, domain.Event{Kind: domain.LineScanned, Line: "hidden line"})
	c.Emit(ctx, domain.Event{Kind: domain.TransferSuccess, ShareID: "abc123", FolderID: 100})
	c.Emit(ctx, domain.Event{Kind: domain.TransferFailed, ShareID: "bad1", Reason: "share expired"})
	c.Emit(ctx, domain.Event{Kind: domain.TransferDryRun, Reason: "https://115.com/s/x?password=abcd", FolderID: 7})

	out := buf.String()
	assert.Contains(t, out, "unknown.txt is not in the folder mapping")
	assert.NotContains(t, out, "hidden line")
	assert.Contains(t, out, "saved share abc123 to folder 100")
	assert.Contains(t, out, "share bad1 refused: share expired")
	assert.Contains(t, out, "would save https://115.com/s/x?password=abcd to folder 7")
}

func TestConsoleVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, true).Emit(context.Background(), domain.Event{Kind: domain.LineScanned, Line: "shown line"})
	assert.Contains(t, buf.String(), "shown line")
}

func TestConsoleSummary(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, false).Summary(&domain.RunReport{
		Files: 3, FilesSkipped: 1, Candidates: 6, Transferred: 2, Duplicates: 1, MissingCode: 1, RemoteErrors: 1, Exceptions: 1,
	})
	assert.Contains(t, buf.String(), "3 files (1 skipped), 6 shares found: 2 saved, 1 already received, 1 without code, 2 failed")
}

func TestLogEmit(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	Log{}.Emit(ctx, domain.Event{Kind: domain.LineScanned, Line: "trace only"})
	Log{}.Emit(ctx, domain.Event{Kind: domain.TransferFailed, File: "a.txt", ShareID: "bad1", FolderID: 5, Reason: "share expired"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &got))
	assert.Equal(t, "debug", got["level"])
	assert.Equal(t, "transfer_failed", got["event"])
	assert.Equal(t, "a.txt", got["file"])
	assert.Equal(t, "bad1", got["share_id"])
	assert.Equal(t, float64(5), got["folder_id"])
	assert.Equal(t, "share expired", got["reason"])
}

func TestLogQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.InfoLevel).WithContext(context.Background())

	for _, kind := range []domain.EventKind{
		domain.FileSkipped, domain.FileError, domain.ShareMissingCode,
		domain.TransferFailed, domain.TransferException, domain.LedgerError, domain.TransferSuccess,
	} {
		Log{}.Emit(ctx, domain.Event{Kind: kind, ShareID: "abc123", Reason: "share expired"})
	}

	assert.Empty(t, buf.String(), "console already reports these events")
}

type countSink struct{ n int }

func (c *countSink) Emit(context.Context, domain.Event) { c.n++ }

func TestMulti(t *testing.T) {
	a, b := &countSink{}, &countSink{}
	m := Multi{a, b}
	m.Emit(context.Background(), domain.Event{Kind: domain.FileStart})
	m.Emit(context.Background(), domain.Event{Kind: domain.FileStart})
	assert.Equal(t, 2, a.n)
	assert.Equal(t, 2, b.n)
}
