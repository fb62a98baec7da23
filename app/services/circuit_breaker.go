package services

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type BreakerSnapshot struct {
	State       string     `json:"state"`
	Degraded    bool       `json:"degraded"`
	Trips       int        `json:"trips"`
	OpenedAt    *time.Time `json:"openedAt,omitempty"`
	NextProbeAt *time.Time `json:"nextProbeAt,omitempty"`
	LastKind    string     `json:"lastErrorKind,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
}

// CircuitBreaker guards the live gateway. Once open it stays open until Reset,
// unless a re-probe interval was configured, in which case a single probe call is
// let through after each (exponentially growing) interval.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     BreakerState
	trips     int
	openedAt  time.Time
	nextProbe time.Time
	lastErr   *GatewayError
	reprobe   backoff.BackOff
	now       func() time.Time
}

func NewCircuitBreaker(reprobeInterval time.Duration) *CircuitBreaker {
	b := &CircuitBreaker{state: BreakerClosed, now: time.Now}
	if reprobeInterval > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = reprobeInterval
		eb.MaxInterval = 16 * reprobeInterval
		eb.Multiplier = 2
		eb.RandomizationFactor = 0
		eb.MaxElapsedTime = 0
		eb.Reset()
		b.reprobe = eb
	}
	return b
}

// Allow reports whether a live call may be attempted now.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.reprobe == nil || b.now().Before(b.nextProbe) {
			return false
		}
		b.state = BreakerHalfOpen
		return true
	default:
		// a probe is already in flight
		return false
	}
}

func (b *CircuitBreaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != BreakerHalfOpen {
		return
	}
	b.state = BreakerClosed
	b.lastErr = nil
	b.openedAt = time.Time{}
	b.nextProbe = time.Time{}
	if b.reprobe != nil {
		b.reprobe.Reset()
	}
}

// Failure records err and opens the breaker. It returns true only for the call
// that moved the breaker from closed to open.
func (b *CircuitBreaker) Failure(err *GatewayError) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastErr = err
	switch b.state {
	case BreakerClosed:
		b.state = BreakerOpen
		b.trips++
		b.openedAt = b.now()
		b.scheduleProbe()
		return true
	case BreakerHalfOpen:
		b.state = BreakerOpen
		b.scheduleProbe()
	}
	return false
}

// Abort ends an in-flight probe without a verdict. The breaker goes back to open
// and the next call after the already elapsed interval may probe again.
func (b *CircuitBreaker) Abort() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerHalfOpen {
		b.state = BreakerOpen
	}
}

func (b *CircuitBreaker) scheduleProbe() {
	if b.reprobe == nil {
		return
	}
	b.nextProbe = b.now().Add(b.reprobe.NextBackOff())
}

func (b *CircuitBreaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = BreakerClosed
	b.lastErr = nil
	b.openedAt = time.Time{}
	b.nextProbe = time.Time{}
	if b.reprobe != nil {
		b.reprobe.Reset()
	}
}

func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *CircuitBreaker) LastFailure() *GatewayError {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *CircuitBreaker) Snapshot() BreakerSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := BreakerSnapshot{
		State:    b.state.String(),
		Degraded: b.state != BreakerClosed,
		Trips:    b.trips,
	}
	if !b.openedAt.IsZero() {
		t := b.openedAt
		snap.OpenedAt = &t
	}
	if !b.nextProbe.IsZero() {
		t := b.nextProbe
		snap.NextProbeAt = &t
	}
	if b.lastErr != nil {
		snap.LastKind = string(b.lastErr.Kind)
		snap.LastError = b.lastErr.Error()
	}
	return snap
}
