package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultVerifyInterval is how often the background verifier re-checks
// the token when no interval is configured.
const DefaultVerifyInterval = 5 * time.Minute

// Verifier re-validates the session token on a fixed interval so an
// expired or revoked token is noticed without waiting for the next user
// action. Ticks are skipped while a prior verification is still in
// flight, and the loop stops when its context is cancelled.
type Verifier struct {
	session  *Session
	interval time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	inFlight atomic.Bool
}

// NewVerifier builds a Verifier for the session. A non-positive interval
// falls back to DefaultVerifyInterval.
func NewVerifier(s *Session, interval time.Duration, log *slog.Logger) *Verifier {
	if interval <= 0 {
		interval = DefaultVerifyInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Verifier{session: s, interval: interval, log: log}
}

// Start launches the background loop. Calling Start on a running
// verifier is a no-op.
func (v *Verifier) Start(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.done = make(chan struct{})
	go v.run(ctx, v.done)
}

// Stop cancels the loop and waits for it to exit. Safe to call when the
// verifier was never started, and safe to call more than once.
func (v *Verifier) Stop() {
	v.mu.Lock()
	cancel, done := v.cancel, v.done
	v.cancel, v.done = nil, nil
	v.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (v *Verifier) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.tick(ctx)
		}
	}
}

// tick runs one verification unless a previous one is still running or
// the session holds nothing worth checking.
func (v *Verifier) tick(ctx context.Context) {
	if v.session.State() != StateAuthenticated {
		return
	}
	if !v.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer v.inFlight.Store(false)

	if _, err := v.session.Verify(ctx, true); err != nil {
		v.log.Debug("background verify failed", "error", err)
	}
}
