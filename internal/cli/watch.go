package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// Watch renders once, then renders again whenever a Go source file in one of
// the loaded package directories changes. It returns nil when ctx is done.
// Errors of later runs are logged and do not stop watching.
func (r *runnerImpl) Watch(ctx context.Context, cfg *Config) error {
	if err := r.Run(cfg); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	watched := map[string]bool{}
	if err := r.watchDirs(w, watched); err != nil {
		return err
	}

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isSourceChange(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				timer.Reset(r.debounce)
			}
			pending = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("entity-explorer: warning: watch: %v", err)
		case <-pending:
			pending = nil
			if err := r.Run(cfg); err != nil {
				log.Printf("entity-explorer: warning: %v", err)
				continue
			}
			// New packages may have appeared under a ./... pattern.
			if err := r.watchDirs(w, watched); err != nil {
				log.Printf("entity-explorer: warning: %v", err)
			}
		}
	}
}

func (r *runnerImpl) watchDirs(w *fsnotify.Watcher, watched map[string]bool) error {
	for _, dir := range r.parser.Dirs() {
		if watched[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = true
	}
	return nil
}

func isSourceChange(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != ".go" || strings.HasSuffix(ev.Name, "_test.go") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
