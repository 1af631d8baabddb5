// Package watcher re-runs a job whenever input files in a directory change.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const DefaultDebounce = 2 * time.Second

// Watcher calls OnChange once changes to matching files have settled for Debounce.
// OnChange runs on the watcher's own goroutine, so two calls never overlap.
type Watcher struct {
	Dir      string
	Match    func(name string) bool
	Debounce time.Duration
	OnChange func(ctx context.Context) error
}

// Run blocks until ctx is cancelled or the underlying watcher fails
func (w *Watcher) Run(ctx context.Context) error {
	log := zerolog.Ctx(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return errors.Errorf("watching %s: %w", w.Dir, err)
	}
	log.Info().Str("dir", w.Dir).Msg("watching for changes")

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	// armed only after the first relevant event
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return errors.New("watcher event channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("input changed")
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			log.Error().Err(err).Msg("watcher error")

		case <-timer.C:
			if err := w.OnChange(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error().Err(err).Msg("re-run failed")
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.Match == nil {
		return true
	}
	return w.Match(filepath.Base(event.Name))
}
