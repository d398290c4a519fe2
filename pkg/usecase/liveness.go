package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/buddyguard/pkg/domain/interfaces"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
)

// DefaultLivenessInterval is the time between store pings
const DefaultLivenessInterval = 30 * time.Second

// LivenessStatus is the latest probe result
type LivenessStatus struct {
	Live      bool      `json:"live"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Liveness periodically pings the store to drive a reachability indicator
type Liveness struct {
	repo     interfaces.Repository
	interval time.Duration
	metrics  *metrics.Service

	mu     sync.RWMutex
	status LivenessStatus
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLiveness creates a monitor. A non-positive interval uses DefaultLivenessInterval.
func NewLiveness(repo interfaces.Repository, interval time.Duration, m *metrics.Service) *Liveness {
	if interval <= 0 {
		interval = DefaultLivenessInterval
	}
	return &Liveness{
		repo:     repo,
		interval: interval,
		metrics:  m,
	}
}

// Start pings immediately and then on every tick until Stop is called
func (l *Liveness) Start(ctx context.Context) {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		l.check(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.check(ctx)
			}
		}
	}()
}

// Stop cancels the ticker and waits for the loop to exit
func (l *Liveness) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Status returns the latest probe result
func (l *Liveness) Status() LivenessStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

// IsLive reports whether the latest probe succeeded
func (l *Liveness) IsLive() bool {
	return l.Status().Live
}

func (l *Liveness) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, l.interval)
	defer cancel()

	err := l.repo.Ping(pingCtx)
	if ctx.Err() != nil {
		return
	}

	live := err == nil
	l.mu.Lock()
	changed := l.status.Live != live || l.status.CheckedAt.IsZero()
	l.status = LivenessStatus{Live: live, CheckedAt: time.Now()}
	l.mu.Unlock()

	l.metrics.SetStoreLive(live)
	if changed {
		if live {
			ctxlog.From(ctx).Info("Store is reachable")
		} else {
			ctxlog.From(ctx).Warn("Store is unreachable", "error", err)
		}
	}
}
