// Package retry provides a stateful before-work backoff controller.
//
// A Policy is scoped to one logical operation chain. Each successful call to
// CanRetry waits the current delay and then grows it; once the attempt budget
// is spent every further call returns false immediately and leaves the state
// untouched. Use WithMaxAttempts to obtain a fresh copy.
package retry

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts       = 3
	DefaultBackoffMultiplier = 1
	DefaultBaseWait          = 3 * time.Second
)

// Sleeper waits for d or until ctx is done. It returns ctx.Err() when the wait
// was interrupted.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy is the backoff state machine. It is safe for concurrent use.
type Policy struct {
	maxAttempts       int
	backoffMultiplier int
	baseWait          time.Duration
	sleep             Sleeper

	mu           sync.Mutex
	attemptCount int
	currentWait  time.Duration
}

// Option configures a Policy.
type Option func(*Policy)

// WithBackoffMultiplier sets how much of the current wait is added after every attempt.
func WithBackoffMultiplier(m int) Option {
	return func(p *Policy) {
		p.backoffMultiplier = m
	}
}

// WithBaseWait sets the delay before the first retried attempt.
func WithBaseWait(d time.Duration) Option {
	return func(p *Policy) {
		p.baseWait = d
	}
}

// WithSleeper replaces the real timer-based wait, mostly for tests.
func WithSleeper(s Sleeper) Option {
	return func(p *Policy) {
		p.sleep = s
	}
}

// NewPolicy creates a policy allowing maxAttempts retries.
func NewPolicy(maxAttempts int, opts ...Option) *Policy {
	p := &Policy{
		maxAttempts:       maxAttempts,
		backoffMultiplier: DefaultBackoffMultiplier,
		baseWait:          DefaultBaseWait,
		sleep:             sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.attemptCount = 1
	p.currentWait = p.baseWait
	return p
}

// DefaultPolicy returns a policy with 3 attempts, multiplier 1 and a 3s base wait.
func DefaultPolicy() *Policy {
	return NewPolicy(DefaultMaxAttempts)
}

// WithMaxAttempts returns a copy of p with a new attempt budget and freshly reset counters.
func (p *Policy) WithMaxAttempts(maxAttempts int) *Policy {
	return &Policy{
		maxAttempts:       maxAttempts,
		backoffMultiplier: p.backoffMultiplier,
		baseWait:          p.baseWait,
		sleep:             p.sleep,
		attemptCount:      1,
		currentWait:       p.baseWait,
	}
}

// CanRetry waits the current delay and advances the state if attempts remain.
// An exhausted policy returns false without waiting. If ctx is cancelled
// during the wait CanRetry returns false and the state is not advanced.
func (p *Policy) CanRetry(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxAttempts <= 0 || p.attemptCount > p.maxAttempts {
		return false
	}

	if err := p.sleep(ctx, p.currentWait); err != nil {
		return false
	}

	p.currentWait += p.currentWait * time.Duration(p.backoffMultiplier)
	p.attemptCount++
	return true
}

// Exhausted reports whether CanRetry will return false.
func (p *Policy) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxAttempts <= 0 || p.attemptCount > p.maxAttempts
}

// MaxAttempts returns the configured attempt budget.
func (p *Policy) MaxAttempts() int { return p.maxAttempts }

// BackoffMultiplier returns the configured multiplier.
func (p *Policy) BackoffMultiplier() int { return p.backoffMultiplier }

// BaseWait returns the configured first delay.
func (p *Policy) BaseWait() time.Duration { return p.baseWait }

// AttemptCount returns the current attempt number, starting at 1.
func (p *Policy) AttemptCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attemptCount
}

// CurrentWait returns the delay the next CanRetry call will wait.
func (p *Policy) CurrentWait() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentWait
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
