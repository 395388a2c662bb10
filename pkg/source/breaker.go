package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"tableflip.dev/listings/pkg/event"
)

var ErrBreakerOpen = errors.New("source: circuit breaker is open")

// State is the circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Breaker stops calling a failing source for a cool-down period. After
// maxFailures consecutive failures it opens; once timeout has elapsed a single
// trial fetch is let through (half-open) and its outcome closes or re-opens
// the breaker. Context cancellation does not count as a failure.
type Breaker struct {
	name        string
	src         Source
	maxFailures uint32
	timeout     time.Duration
	now         func() time.Time

	mu         sync.Mutex
	state      State
	failures   uint32
	expiry     time.Time
	generation uint64
	trial      bool
}

// NewBreaker wraps src with a breaker that opens after 5 consecutive
// failures for 30 seconds.
func NewBreaker(name string, src Source) *Breaker {
	return &Breaker{
		name:        name,
		src:         src,
		maxFailures: 5,
		timeout:     30 * time.Second,
		now:         time.Now,
		state:       StateClosed,
	}
}

// Name identifies the wrapped source.
func (b *Breaker) Name() string {
	return b.name
}

// State reports the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	state, _ := b.currentState(b.now())
	return state
}

func (b *Breaker) Fetch(ctx context.Context, city string) ([]*event.Event, error) {
	generation, err := b.beforeRequest()
	if err != nil {
		return nil, err
	}
	events, err := b.src.Fetch(ctx, city)
	success := err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrUnknownCity)
	b.afterRequest(generation, success)
	return events, err
}

func (b *Breaker) beforeRequest() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, generation := b.currentState(b.now())
	switch state {
	case StateOpen:
		return generation, ErrBreakerOpen
	case StateHalfOpen:
		if b.trial {
			return generation, ErrBreakerOpen
		}
		b.trial = true
	}
	return generation, nil
}

func (b *Breaker) afterRequest(before uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	state, generation := b.currentState(now)
	if generation != before {
		return
	}
	if success {
		b.failures = 0
		if state == StateHalfOpen {
			b.setState(StateClosed, now)
		}
		return
	}
	b.failures++
	if state == StateHalfOpen || b.failures >= b.maxFailures {
		b.setState(StateOpen, now)
	}
}

func (b *Breaker) currentState(now time.Time) (State, uint64) {
	if b.state == StateOpen && !b.expiry.After(now) {
		b.setState(StateHalfOpen, now)
	}
	return b.state, b.generation
}

func (b *Breaker) setState(state State, now time.Time) {
	if b.state == state {
		return
	}
	b.state = state
	b.generation++
	b.failures = 0
	b.trial = false
	if state == StateOpen {
		b.expiry = now.Add(b.timeout)
	} else {
		b.expiry = time.Time{}
	}
}
