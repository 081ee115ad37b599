// Package breaker implements a three-state circuit breaker shared by every
// component that calls a flaky external dependency (summarization backend,
// embedding service). Repeated failures open the breaker and bypass the
// guarded operation until a cool-down elapses; a successful probe closes it.
package breaker

import (
	"errors"
	"sync"
	"time"
)

// State is the breaker's current mode.
type State int

const (
	// Closed: normal operation, calls pass through.
	Closed State = iota
	// Open: calls are rejected without reaching the dependency.
	Open
	// HalfOpen: one probe call is allowed through to test recovery.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned by Allow when the breaker is rejecting calls.
var ErrOpen = errors.New("breaker: circuit open")

// Breaker is safe for concurrent use.
type Breaker struct {
	mu sync.Mutex

	state     State
	failures  int
	openedAt  time.Time
	threshold int
	coolDown  time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Breaker that opens after threshold consecutive failures and
// stays open for coolDown before allowing a half-open probe.
func New(threshold int, coolDown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	return &Breaker{
		threshold: threshold,
		coolDown:  coolDown,
		now:       time.Now,
	}
}

// Allow reports whether a call may proceed. When the breaker is Open and the
// cool-down has elapsed, it transitions to HalfOpen and admits one probe.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed, HalfOpen:
		return nil
	case Open:
		if b.now().Sub(b.openedAt) >= b.coolDown {
			b.state = HalfOpen
			return nil
		}
		return ErrOpen
	}
	return nil
}

// Success records a successful call, resetting the breaker to Closed.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Closed
	b.failures = 0
}

// Failure records a failed call. In HalfOpen the probe failure re-opens the
// breaker immediately; in Closed the failure count accumulates toward the
// threshold.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == HalfOpen {
		b.trip()
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.trip()
	}
}

// Do runs fn under the breaker: rejected when open, recorded as success or
// failure otherwise.
func (b *Breaker) Do(fn func() error) error {
	if err := b.Allow(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		b.Failure()
		return err
	}
	b.Success()
	return nil
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset forces the breaker back to Closed with a zeroed failure count.
// This is the supported way to clear breaker state (tests included); the
// internal fields are not exported.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = Closed
	b.failures = 0
	b.openedAt = time.Time{}
}

// trip moves to Open and stamps the opening time. Callers hold b.mu.
func (b *Breaker) trip() {
	b.state = Open
	b.failures = 0
	b.openedAt = b.now()
}
