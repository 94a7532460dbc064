package timeclock

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/xano"
)

const (
	defaultTickInterval   = time.Second
	defaultResyncInterval = time.Minute
)

// TimerSource returns the running timer, or nil when none is running
type TimerSource interface {
	CurrentTimer(ctx context.Context) (*xano.TimeClock, error)
}

// WatcherOptions configure a Watcher
type WatcherOptions struct {
	TickInterval   time.Duration
	ResyncInterval time.Duration
	DailyTarget    time.Duration
	SystemTray     bool
}

// Watcher follows the running timer. Each tick recomputes the elapsed time
// from the server's start timestamp; the timer itself is re-read from the
// backend every resync interval.
type Watcher struct {
	source         TimerSource
	tickInterval   time.Duration
	resyncInterval time.Duration
	target         time.Duration
	systemTray     bool
	logger         *zap.Logger
	now            func() time.Time

	mu       sync.RWMutex
	timer    *xano.TimeClock
	lastSync time.Time
	syncing  bool
	onTick   func(Status)
	trayApp  *TrayApp
}

// NewWatcher creates a new Watcher
func NewWatcher(source TimerSource, opts WatcherOptions, logger *zap.Logger) *Watcher {
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	if opts.ResyncInterval <= 0 {
		opts.ResyncInterval = defaultResyncInterval
	}
	if opts.DailyTarget <= 0 {
		opts.DailyTarget = DefaultDailyTarget
	}

	return &Watcher{
		source:         source,
		tickInterval:   opts.TickInterval,
		resyncInterval: opts.ResyncInterval,
		target:         opts.DailyTarget,
		systemTray:     opts.SystemTray,
		logger:         logger,
		now:            time.Now,
	}
}

// OnTick registers a callback invoked with the fresh status on every tick
func (w *Watcher) OnTick(fn func(Status)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onTick = fn
}

// Status returns the current status computed from the last known timer
func (w *Watcher) Status() Status {
	w.mu.RLock()
	timer := w.timer
	w.mu.RUnlock()
	return StatusAt(timer, w.now(), w.target)
}

// Sync re-reads the running timer from the backend
func (w *Watcher) Sync(ctx context.Context) error {
	w.mu.Lock()
	if w.syncing {
		w.mu.Unlock()
		return nil
	}
	w.syncing = true
	w.mu.Unlock()

	timer, err := w.source.CurrentTimer(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.syncing = false
	w.lastSync = w.now()
	if err != nil {
		return fmt.Errorf("failed to sync timer: %w", err)
	}

	switch {
	case w.timer == nil && timer != nil:
		w.logger.Info("Timer running", zap.Time("started_at", timer.StartedAt.Time), zap.Bool("is_break", timer.IsBreak))
	case w.timer != nil && timer == nil:
		w.logger.Info("Timer stopped")
	}

	w.timer = timer
	return nil
}

// Start runs the watcher, inside the system tray when enabled and supported
func (w *Watcher) Start(ctx context.Context) error {
	if w.systemTray {
		w.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(w, w.logger)
		if err != nil {
			w.logger.Warn("Failed to initialize system tray", zap.Error(err))
			return w.Run(ctx)
		}

		w.mu.Lock()
		w.trayApp = trayApp
		w.mu.Unlock()

		// Blocks until Quit
		trayApp.Run(ctx)
		return nil
	}

	return w.Run(ctx)
}

// Run ticks until ctx is cancelled or the process receives SIGINT/SIGTERM
func (w *Watcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w.logger.Info("Timer watcher started",
		zap.Duration("tick_interval", w.tickInterval),
		zap.Duration("resync_interval", w.resyncInterval),
		zap.Duration("daily_target", w.target))

	if err := w.Sync(ctx); err != nil {
		w.logger.Warn("Initial timer sync failed", zap.Error(err))
	}
	w.tick()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Timer watcher stopped")
			w.stopTray()
			return nil

		case sig := <-sigChan:
			w.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			w.stopTray()
			return nil

		case <-ticker.C:
			if w.resyncDue() {
				go func() {
					if err := w.Sync(ctx); err != nil && ctx.Err() == nil {
						w.logger.Warn("Timer resync failed", zap.Error(err))
					}
				}()
			}
			w.tick()
		}
	}
}

func (w *Watcher) resyncDue() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.syncing && w.now().Sub(w.lastSync) >= w.resyncInterval
}

func (w *Watcher) tick() {
	status := w.Status()

	w.mu.RLock()
	fn := w.onTick
	tray := w.trayApp
	w.mu.RUnlock()

	if fn != nil {
		fn(status)
	}
	if tray != nil {
		tray.Update(status)
	}
}

func (w *Watcher) stopTray() {
	w.mu.RLock()
	tray := w.trayApp
	w.mu.RUnlock()
	if tray != nil {
		tray.Stop()
	}
}
