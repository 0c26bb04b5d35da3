// Package watch re-reads the open document when it changes on disk
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"foliotui/internal/content"
)

// DefaultDebounce collapses the burst of events an editor save produces
const DefaultDebounce = 200 * time.Millisecond

// Handler receives reload results on the watcher goroutine
type Handler interface {
	Reloaded(doc *content.Document)
	Failed(err error)
}

// Watcher watches one document file
type Watcher struct {
	path     string
	debounce time.Duration
	handler  Handler
	load     func(path string) (*content.Document, error)
	fsw      *fsnotify.Watcher
}

// New starts watching path. The parent directory is watched so that editors
// replacing the file through a rename are seen too.
func New(path string, debounce time.Duration, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		handler:  handler,
		load:     content.Load,
		fsw:      fsw,
	}, nil
}

// Run delivers reloads until ctx is cancelled. It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watch: %v", err)
			w.handler.Failed(fmt.Errorf("watch %s: %w", w.path, err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	doc, err := w.load(w.path)
	if err != nil {
		log.Printf("Watch: reload of %s failed: %v", w.path, err)
		w.handler.Failed(err)
		return
	}
	log.Printf("Watch: reloaded %s (%d chapters)", w.path, len(doc.Chapters))
	w.handler.Reloaded(doc)
}
