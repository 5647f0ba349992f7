package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/doxyrst/internal/logging"
	"github.com/yaklabco/doxyrst/pkg/config"
)

// watchDebounce groups the burst of events Doxygen produces while it
// rewrites its XML directory into one regeneration.
const watchDebounce = 300 * time.Millisecond

// watchedOps are the operations that trigger a regeneration.
const watchedOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// watch generates once, then again after every change to an XML file of
// the input directory, until interrupted. Failed generations are logged
// and watching goes on.
func watch(ctx context.Context, cfg *config.Config, regenerate func(context.Context) error) error {
	logger := logging.FromContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.Input); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Input, err)
	}

	fire := func() {
		if err := regenerate(ctx); err != nil && ctx.Err() == nil {
			logger.Error("generation failed", logging.FieldError, err)
		}
	}

	fire()
	logger.Info("watching for changes", logging.FieldInput, cfg.Input)

	watchLoop(ctx, logger, watcher.Events, watcher.Errors, watchDebounce, fire)
	logger.Info("stopped watching")
	return nil
}

// watchLoop calls fire once events for XML files stop arriving for the
// debounce duration. It returns when ctx is done or a channel is closed.
func watchLoop(
	ctx context.Context,
	logger *log.Logger,
	events <-chan fsnotify.Event,
	errs <-chan error,
	debounce time.Duration,
	fire func(),
) {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if !isXMLChange(event) {
				continue
			}
			logger.Debug("input changed", logging.FieldPath, event.Name, "op", event.Op.String())
			timer.Reset(debounce)
			pending = timer.C
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Warn("watch error", logging.FieldError, err)
		case <-pending:
			pending = nil
			fire()
		}
	}
}

func isXMLChange(event fsnotify.Event) bool {
	return event.Op&watchedOps != 0 && strings.EqualFold(filepath.Ext(event.Name), ".xml")
}
