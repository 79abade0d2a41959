// Package stream turns operations into streams of task results.
//
// Every stream emits Loading first, then exactly one terminal Success or
// Error per attempt. A retried attempt emits Loading again before it starts.
// Cancelling the context closes the stream without an Error.
package stream

import (
	"context"
	"errors"

	"github.com/mrlokans/shoplist/internal/retry"
	"github.com/mrlokans/shoplist/internal/taskresult"
)

// Op is one attempt of a data operation.
type Op[T any] func(ctx context.Context) (T, error)

// Option configures Run.
type Option func(*options)

type options struct {
	policy    retry.Factory
	retryable retry.Classifier
}

// WithRetry retries failed attempts under a fresh policy from factory while
// retryable(err) holds. A nil classifier retries every failure. Only
// idempotent operations should be retried.
func WithRetry(factory retry.Factory, retryable retry.Classifier) Option {
	return func(o *options) {
		o.policy = factory
		o.retryable = retryable
	}
}

// Run starts op and returns its result stream. The channel is closed after
// the terminal result or on cancellation.
func Run[T any](ctx context.Context, op Op[T], opts ...Option) <-chan taskresult.Result[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	out := make(chan taskresult.Result[T])
	go func() {
		defer close(out)

		var policy *retry.Policy
		if o.policy != nil {
			policy = o.policy()
		}

		for {
			if !emit(ctx, out, taskresult.Loading[T]()) {
				return
			}

			value, err := op(ctx)
			if err == nil {
				emit(ctx, out, taskresult.Success(value))
				return
			}
			if cancelled(ctx, err) {
				return
			}
			if policy != nil && (o.retryable == nil || o.retryable(err)) && policy.CanRetry(ctx) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			emit(ctx, out, taskresult.Failure[T](err))
			return
		}
	}()
	return out
}

// Collect drains a stream into a slice.
func Collect[T any](results <-chan taskresult.Result[T]) []taskresult.Result[T] {
	var all []taskresult.Result[T]
	for r := range results {
		all = append(all, r)
	}
	return all
}

// Terminal drains a stream and returns its last result, which is Loading
// when the stream was cancelled before finishing.
func Terminal[T any](results <-chan taskresult.Result[T]) taskresult.Result[T] {
	last := taskresult.Loading[T]()
	for r := range results {
		last = r
	}
	return last
}

// ErrClosed is returned by Await when a stream closes before its terminal result.
var ErrClosed = errors.New("stream: closed before a terminal result")

// Await returns the first terminal result of results. It returns ctx.Err()
// when ctx ends first and ErrClosed when results closes first.
func Await[T any](ctx context.Context, results <-chan taskresult.Result[T]) (taskresult.Result[T], error) {
	for {
		select {
		case r, ok := <-results:
			if !ok {
				return taskresult.Loading[T](), ErrClosed
			}
			if !r.IsLoading() {
				return r, nil
			}
		case <-ctx.Done():
			return taskresult.Loading[T](), ctx.Err()
		}
	}
}

func emit[T any](ctx context.Context, out chan<- taskresult.Result[T], r taskresult.Result[T]) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

func cancelled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)
}
