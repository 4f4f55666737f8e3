package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAgentUnavailable is returned without a network round trip while the
// breaker is open.
var ErrAgentUnavailable = errors.New("agent unavailable: circuit breaker open")

// BreakerState is the state of the client's circuit breaker.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerHalfOpen
	BreakerOpen
)

// String returns the string representation of the state
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerHalfOpen:
		return "half-open"
	case BreakerOpen:
		return "open"
	default:
		return "unknown"
	}
}

// breaker opens after a run of transport failures and lets a single probe
// through once the cooldown has passed. HTTP error statuses are answers from a
// live agent and do not count as failures.
type breaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool
}

func newBreaker(threshold int, cooldown time.Duration) *breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

func (b *breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentLocked()
}

func (b *breaker) currentLocked() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		b.state = BreakerHalfOpen
		b.probing = false
	}
	return b.state
}

// allow reports whether a call may proceed.
func (b *breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentLocked() {
	case BreakerOpen:
		return ErrAgentUnavailable
	case BreakerHalfOpen:
		if b.probing {
			return ErrAgentUnavailable
		}
		b.probing = true
	}
	return nil
}

// done records the outcome of an allowed call.
func (b *breaker) done(transportErr error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if transportErr == nil {
		b.state = BreakerClosed
		b.failures = 0
		b.probing = false
		return
	}

	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.threshold {
		b.state = BreakerOpen
		b.openedAt = b.now()
		b.probing = false
	}
}

// doneFor records err unless the caller's own context ended first. A cancelled
// or expired caller says nothing about the agent, so it only frees the
// half-open slot.
func (b *breaker) doneFor(caller context.Context, err error) {
	if err != nil && caller.Err() != nil {
		b.release()
		return
	}
	b.done(err)
}

func (b *breaker) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
}
