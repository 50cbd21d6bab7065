package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
)

// SessionReaper periodically ends ACTIVE sessions that have gone quiet, so
// abandoned sessions don't stay open forever.
type SessionReaper struct {
	Store       store.Store
	Logger      *slog.Logger
	Interval    time.Duration
	IdleTimeout time.Duration
	Timeout     time.Duration
	Now         func() time.Time

	started  bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSessionReaper creates a reaper. If interval is 0 or negative it
// defaults to 10 minutes.
func NewSessionReaper(st store.Store, logger *slog.Logger, interval, idleTimeout time.Duration) *SessionReaper {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	return &SessionReaper{
		Store:       st,
		Logger:      logger,
		Interval:    interval,
		IdleTimeout: idleTimeout,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (r *SessionReaper) Start() {
	r.started = true
	go r.run()
	r.Logger.Info("session reaper started", "interval", r.Interval, "idle_timeout", r.IdleTimeout)
}

// Stop blocks until an in-progress sweep has finished. It is a no-op for a
// reaper that was never started and safe to call twice.
func (r *SessionReaper) Stop() {
	if !r.started {
		return
	}
	r.stopOnce.Do(func() {
		close(r.stopCh)
		<-r.doneCh
		r.Logger.Info("session reaper stopped")
	})
}

func (r *SessionReaper) run() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			r.Sweep(context.Background())
		case <-r.stopCh:
			return
		}
	}
}

// Sweep ends every idle session once and returns how many it ended.
func (r *SessionReaper) Sweep(ctx context.Context) int64 {
	if r.IdleTimeout <= 0 {
		return 0
	}

	sctx, cancel := storeContext(ctx, r.Timeout)
	defer cancel()

	now := nowFunc(r.Now)
	n, err := r.Store.Sessions().EndIdleSessions(sctx, now.Add(-r.IdleTimeout), now)
	if err != nil {
		r.Logger.Error("failed to end idle sessions", "error", err)
		return 0
	}
	if n > 0 {
		r.Logger.Info("ended idle sessions", "count", n)
	}
	return n
}
