// Package daemon ties the watcher, debouncer and processor into a single
// watch lifecycle with flock-based locking to prevent multiple instances
// racing over the same ledger and output directory.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"trailscribe/internal/config"
	"trailscribe/internal/debounce"
	"trailscribe/internal/ledger"
	"trailscribe/internal/logging"
	"trailscribe/internal/processor"
	"trailscribe/internal/watcher"
)

// Daemon coordinates the background watch services.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *ledger.Store
	proc   *processor.Processor

	lockPath string
	lock     *flock.Flock

	watch     *watcher.Watcher
	debouncer *debounce.Debouncer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *ledger.Store, proc *processor.Processor, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || proc == nil {
		return nil, errors.New("daemon requires config, ledger store, and processor")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logger.With(logging.String(logging.FieldComponent, "daemon")),
		store:    store,
		proc:     proc,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, runs an initial sweep over existing
// locations, and begins watching for changes.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another trailscribe daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	d.debouncer = debounce.New(
		time.Duration(d.cfg.Watcher.DebounceDelay)*time.Second,
		d.processLocation,
	)
	d.watch = watcher.New(
		d.cfg.Paths.WatchRoot,
		time.Duration(d.cfg.Watcher.PollInterval)*time.Second,
		d.logger,
	)
	if err := d.watch.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		return fmt.Errorf("start watcher: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.String("watch_root", d.cfg.Paths.WatchRoot),
	)

	d.wg.Add(1)
	go d.eventLoop()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.initialSweep()
	}()

	return nil
}

// Stop halts watching, cancels pending debounce timers, and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.cancel()
	d.watch.Stop()
	d.debouncer.Stop()
	d.wg.Wait()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the daemon is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// initialSweep processes locations that changed while the daemon was down.
func (d *Daemon) initialSweep() {
	outcomes, err := d.proc.ScanAll(d.ctx)
	if err != nil {
		d.logger.Error("initial sweep failed", logging.Error(err))
		return
	}
	processed := 0
	for _, outcome := range outcomes {
		if outcome.Processed {
			processed++
		}
	}
	d.logger.Info("initial sweep complete",
		logging.Int("locations", len(outcomes)),
		logging.Int("processed", processed),
	)
}

func (d *Daemon) eventLoop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case event, ok := <-d.watch.Events():
			if !ok {
				return
			}
			if event.Location == "" {
				continue
			}
			d.logger.Debug("transcript change detected",
				logging.String(logging.FieldLocation, event.Location),
				logging.String("path", event.Path),
			)
			d.debouncer.Trigger(event.Location)
		}
	}
}

// processLocation is the debounce callback: the location has been quiet for
// the configured delay.
func (d *Daemon) processLocation(location string) {
	ctx := d.ctx
	if ctx == nil || ctx.Err() != nil {
		return
	}
	outcome, err := d.proc.ProcessLocation(ctx, location)
	if err != nil {
		d.logger.Error("location processing failed",
			logging.String(logging.FieldLocation, location),
			logging.Error(err),
		)
		return
	}
	if !outcome.Processed {
		d.logger.Debug("debounced location already up to date",
			logging.String(logging.FieldLocation, location),
			logging.String("reason", outcome.Reason),
		)
	}
}
