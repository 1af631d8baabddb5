package events

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/wadjakorntonsri/share-saver/pkg/core/domain"
	"github.com/wadjakorntonsri/share-saver/pkg/ports"
)

// Log writes every event as a structured debug line to the logger in the context
type Log struct{}

func (Log) Emit(ctx context.Context, e domain.Event) {
	logger := zerolog.Ctx(ctx)

	// The console already shows every event to the operator; the log copy stays at debug.
	ev := logger.Debug()
	if e.Kind == domain.LineScanned {
		ev = logger.Trace()
	}

	ev.Str("event", e.Kind.String())
	if e.File != "" {
		ev.Str("file", e.File)
	}
	if e.ShareID != "" {
		ev.Str("share_id", e.ShareID)
	}
	if e.FolderID != 0 {
		ev.Int64("folder_id", e.FolderID)
	}
	if e.Reason != "" {
		ev.Str("reason", e.Reason)
	}
	ev.Msg("pipeline event")
}

// Multi fans an event out to several sinks in order
type Multi []ports.EventSink

func (m Multi) Emit(ctx context.Context, e domain.Event) {
	for _, s := range m {
		s.Emit(ctx, e)
	}
}

var (
	_ ports.EventSink = Log{}
	_ ports.EventSink = Multi(nil)
)
