package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/nibel/internal/codegen"
	"github.com/go-drift/nibel/pkg/errors"
)

func init() {
	RegisterCommand(&cobra.Command{
		Use:   "watch [patterns...]",
		Short: "Regenerate entries when sources change",
		Long: `Watch generates once, then watches the directories of the loaded packages
and regenerates after Go source files change. Changes are debounced
(watch.debounce, default 500ms). Rejected declarations are reported and
watching continues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolveConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			regenerate := func(ctx context.Context) ([]string, error) {
				r, err := generate(ctx, res, args, false)
				if err != nil {
					return nil, err
				}
				printDiagnostics(cmd.ErrOrStderr(), res.Root, r.Diagnostics)
				for _, path := range r.Report.Written {
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
				}
				return r.Result.Dirs, nil
			}

			dirs, err := regenerate(ctx)
			if err != nil {
				return err
			}
			w, err := newSourceWatcher(res.Debounce, regenerate, logger)
			if err != nil {
				return err
			}
			if err := w.Start(ctx, dirs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %d package(s); press Ctrl+C to stop\n", len(dirs))
			<-ctx.Done()
			w.Stop()
			return nil
		},
	})
}

// sourceWatcher regenerates after source files in watched directories
// settle.
type sourceWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	regenerate  func(context.Context) ([]string, error)
	logger      *zap.Logger
	watched     map[string]bool
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

func newSourceWatcher(debounce time.Duration, regenerate func(context.Context) ([]string, error), logger *zap.Logger) (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sourceWatcher{
		watcher:     watcher,
		regenerate:  regenerate,
		logger:      logger,
		watched:     make(map[string]bool),
		debounceMap: make(map[string]time.Time),
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start watches dirs and begins the event loop. It does not block.
func (w *sourceWatcher) Start(ctx context.Context, dirs []string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watch(dirs); err != nil {
		return err
	}
	go w.run(ctx)
	return nil
}

// Stop ends the event loop and waits for it to exit.
func (w *sourceWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("closing watcher", zap.Error(err))
	}
}

func (w *sourceWatcher) watch(dirs []string) error {
	for _, dir := range dirs {
		if dir == "" || w.watched[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.watched[dir] = true
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}
	return nil
}

func (w *sourceWatcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer errors.Recover("nibelgen.watch")

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if relevantEvent(event) {
				w.mu.Lock()
				w.debounceMap[event.Name] = time.Now()
				w.mu.Unlock()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		case now := <-ticker.C:
			if changed := w.due(now); len(changed) > 0 {
				w.logger.Info("sources changed", zap.Strings("files", changed))
				dirs, err := w.regenerate(ctx)
				if err != nil {
					w.logger.Error("regeneration failed", zap.Error(err))
					continue
				}
				if err := w.watch(dirs); err != nil {
					w.logger.Warn("watching new packages", zap.Error(err))
				}
			}
		}
	}
}

// due removes and returns the files whose last change is older than the
// debounce interval.
func (w *sourceWatcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			out = append(out, path)
			delete(w.debounceMap, path)
		}
	}
	sort.Strings(out)
	return out
}

// relevantEvent reports whether event touches a hand-written Go source.
// Generated files change as a result of regeneration and are ignored.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}
	return !codegen.IsGeneratedFileName(name)
}
