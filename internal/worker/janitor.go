package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
)

// DefaultCleanupInterval is how often expired sessions are purged
const DefaultCleanupInterval = 5 * time.Minute

// Janitor periodically removes expired sessions from stores
// that have no native expiry.
type Janitor struct {
	cleaner  driven.SessionCleaner
	logger   *slog.Logger
	interval time.Duration

	// Internal state
	mu          sync.RWMutex
	running     bool
	lastRun     time.Time
	lastRemoved int64
	lastErr     error
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// JanitorConfig holds configuration for the janitor.
type JanitorConfig struct {
	Cleaner  driven.SessionCleaner
	Logger   *slog.Logger
	Interval time.Duration // Time between cleanup passes
}

// NewJanitor creates a new session janitor.
func NewJanitor(cfg JanitorConfig) *Janitor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	return &Janitor{
		cleaner:  cfg.Cleaner,
		logger:   logger.With("component", "janitor"),
		interval: interval,
	}
}

// Start begins the cleanup loop.
// It runs until Stop is called or context is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = true
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	j.stopCh = stopCh
	j.doneCh = doneCh
	j.mu.Unlock()

	j.logger.Info("janitor starting", "interval", j.interval)

	go j.loop(ctx, stopCh, doneCh)

	return nil
}

// Stop gracefully stops the janitor and waits for an in-flight pass.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stopCh)
	doneCh := j.doneCh
	j.mu.Unlock()

	<-doneCh

	j.mu.Lock()
	j.running = false
	j.mu.Unlock()

	j.logger.Info("janitor stopped")
}

func (j *Janitor) loop(ctx context.Context, stopCh <-chan struct{}, doneCh chan struct{}) {
	defer close(doneCh)
	defer func() {
		j.mu.Lock()
		if j.doneCh == doneCh {
			j.running = false
		}
		j.mu.Unlock()
	}()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor context cancelled")
			return
		case <-stopCh:
			return
		case <-ticker.C:
			_, _ = j.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single cleanup pass and records its outcome.
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	removed, err := j.cleaner.Cleanup(ctx)

	j.mu.Lock()
	j.lastRun = start
	j.lastRemoved = removed
	j.lastErr = err
	j.mu.Unlock()

	if err != nil {
		j.logger.Error("session cleanup failed", "error", err)
		return 0, err
	}
	if removed > 0 {
		j.logger.Info("expired sessions removed",
			"removed", removed,
			"duration", time.Since(start),
		)
	}
	return removed, nil
}

// Health reports the janitor state.
type Health struct {
	Running     bool      `json:"running"`
	LastRun     time.Time `json:"last_run,omitempty"`
	LastRemoved int64     `json:"last_removed"`
	Error       string    `json:"error,omitempty"`
}

// Health returns the health status of the janitor.
func (j *Janitor) Health() Health {
	j.mu.RLock()
	defer j.mu.RUnlock()

	health := Health{
		Running:     j.running,
		LastRun:     j.lastRun,
		LastRemoved: j.lastRemoved,
	}
	if j.lastErr != nil {
		health.Error = j.lastErr.Error()
	}
	return health
}
