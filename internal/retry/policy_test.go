package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper records requested waits without sleeping.
type recordingSleeper struct {
	waits []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func TestPolicy_Defaults(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, 3, p.MaxAttempts())
	assert.Equal(t, 1, p.BackoffMultiplier())
	assert.Equal(t, 3*time.Second, p.BaseWait())
	assert.Equal(t, 1, p.AttemptCount())
	assert.Equal(t, 3*time.Second, p.CurrentWait())
}

func TestPolicy_AllowsExactlyMaxAttempts(t *testing.T) {
	for _, n := range []int{-2, -1, 0, 1, 2, 3, 5} {
		rec := &recordingSleeper{}
		p := NewPolicy(n, WithSleeper(rec.sleep))

		allowed := 0
		for i := 0; i < 10; i++ {
			if p.CanRetry(context.Background()) {
				allowed++
			}
		}

		want := n
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, allowed, "maxAttempts=%d", n)
		assert.Len(t, rec.waits, want, "exhausted calls must not wait (maxAttempts=%d)", n)
		assert.True(t, p.Exhausted())
	}
}

func TestPolicy_DefaultWaitSequence(t *testing.T) {
	rec := &recordingSleeper{}
	p := NewPolicy(3, WithSleeper(rec.sleep))

	for i := 0; i < 3; i++ {
		require.True(t, p.CanRetry(context.Background()))
	}
	assert.Equal(t, []time.Duration{3 * time.Second, 6 * time.Second, 12 * time.Second}, rec.waits)
	assert.Equal(t, 24*time.Second, p.CurrentWait())
	assert.Equal(t, 4, p.AttemptCount())

	assert.False(t, p.CanRetry(context.Background()))
	assert.Equal(t, 24*time.Second, p.CurrentWait())
	assert.Equal(t, 4, p.AttemptCount())
	assert.Len(t, rec.waits, 3)
}

func TestPolicy_MultiplierTwo(t *testing.T) {
	rec := &recordingSleeper{}
	p := NewPolicy(4, WithBackoffMultiplier(2), WithSleeper(rec.sleep))

	for p.CanRetry(context.Background()) {
	}
	assert.Equal(t, []time.Duration{3 * time.Second, 9 * time.Second, 27 * time.Second, 81 * time.Second}, rec.waits)
}

func TestPolicy_WithMaxAttemptsResetsState(t *testing.T) {
	rec := &recordingSleeper{}
	p := NewPolicy(1, WithBaseWait(time.Second), WithSleeper(rec.sleep))
	require.True(t, p.CanRetry(context.Background()))
	require.False(t, p.CanRetry(context.Background()))

	fresh := p.WithMaxAttempts(2)
	assert.Equal(t, 1, fresh.AttemptCount())
	assert.Equal(t, time.Second, fresh.CurrentWait())
	assert.Equal(t, 2, fresh.MaxAttempts())
	assert.True(t, fresh.CanRetry(context.Background()))

	// the original stays frozen
	assert.Equal(t, 2, p.AttemptCount())
	assert.Equal(t, 2*time.Second, p.CurrentWait())
}

func TestPolicy_CancelledWaitDoesNotAdvance(t *testing.T) {
	p := NewPolicy(3, WithBaseWait(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, p.CanRetry(ctx))
	assert.Equal(t, 1, p.AttemptCount())
	assert.Equal(t, time.Hour, p.CurrentWait())
}

func TestPolicy_RealSleepIsShort(t *testing.T) {
	p := NewPolicy(1, WithBaseWait(10*time.Millisecond))

	start := time.Now()
	assert.True(t, p.CanRetry(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestDo(t *testing.T) {
	errTransient := errors.New("transient")
	errFatal := errors.New("fatal")
	retryable := func(err error) bool { return errors.Is(err, errTransient) }

	t.Run("succeeds after transient failures", func(t *testing.T) {
		rec := &recordingSleeper{}
		calls := 0
		err := Do(context.Background(), NewPolicy(3, WithSleeper(rec.sleep)), retryable, func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Len(t, rec.waits, 2)
	})

	t.Run("returns last error after exhaustion", func(t *testing.T) {
		rec := &recordingSleeper{}
		calls := 0
		err := Do(context.Background(), NewPolicy(2, WithSleeper(rec.sleep)), retryable, func(ctx context.Context) error {
			calls++
			return errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry non-retryable errors", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), DefaultPolicy(), retryable, func(ctx context.Context) error {
			calls++
			return errFatal
		})
		assert.ErrorIs(t, err, errFatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("propagates cancellation", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), DefaultPolicy(), nil, func(ctx context.Context) error {
			calls++
			return context.Canceled
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
