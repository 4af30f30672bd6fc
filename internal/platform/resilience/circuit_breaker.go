package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker trips after a run of consecutive failures, rejects calls for
// openTimeout, then lets up to trialLimit trial calls through. The breaker
// closes once that many trials succeed; one failed trial reopens it.
// Methods on a nil breaker allow everything.
type CircuitBreaker struct {
	threshold   int
	openTimeout time.Duration
	trialLimit  int
	now         func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	since    time.Time
	inFlight int
	passed   int
}

// NewCircuitBreaker clamps limits to at least one and defaults a missing
// open timeout.
func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if openTimeout <= 0 {
		openTimeout = DefaultCircuitBreakerConfig().OpenTimeout
	}
	return newBreaker(max(failureThreshold, 1), openTimeout, max(halfOpenMaxReq, 1))
}

func newBreaker(threshold int, openTimeout time.Duration, trialLimit int) *CircuitBreaker {
	return &CircuitBreaker{
		threshold:   threshold,
		openTimeout: openTimeout,
		trialLimit:  trialLimit,
		now:         time.Now,
		state:       CircuitStateClosed,
	}
}

// Execute runs fn when the breaker allows it. Errors for which isFailure
// returns false are passed through but recorded as successes.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn()
	if err != nil && (isFailure == nil || isFailure(err)) {
		b.RecordFailure()
	} else {
		b.RecordSuccess()
	}
	return err
}

func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.current() {
	case CircuitStateOpen:
		return ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.state == CircuitStateOpen {
			b.set(CircuitStateHalfOpen)
		}
		if b.inFlight >= b.trialLimit {
			return ErrCircuitOpen
		}
		b.inFlight++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != CircuitStateHalfOpen {
		b.failures = 0
		return
	}
	b.inFlight = max(b.inFlight-1, 0)
	b.passed++
	if b.passed >= b.trialLimit && b.inFlight == 0 {
		b.set(CircuitStateClosed)
	}
}

func (b *CircuitBreaker) RecordFailure() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateClosed {
		b.failures++
		if b.failures < b.threshold {
			return
		}
	}
	b.set(CircuitStateOpen)
}

// State reports the effective state; an open breaker whose timeout elapsed
// reads as half open before the next Allow moves it there.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

func (b *CircuitBreaker) current() CircuitState {
	if b.state == CircuitStateOpen && b.now().Sub(b.since) >= b.openTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

// set enters state and clears every counter.
func (b *CircuitBreaker) set(state CircuitState) {
	b.state = state
	b.since = b.now()
	b.failures = 0
	b.inFlight = 0
	b.passed = 0
}
