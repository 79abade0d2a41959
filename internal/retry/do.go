package retry

import (
	"context"
	"errors"
)

// Factory builds a fresh policy for every new operation chain.
type Factory func() *Policy

// Classifier reports whether a failure may be retried.
type Classifier func(error) bool

// Do runs fn, retrying it under p while retryable(err) holds. The policy wait
// happens before each retried attempt. Cancellation is returned as-is and is
// never retried. The last error is returned once the policy is exhausted.
func Do(ctx context.Context, p *Policy, retryable Classifier, fn func(ctx context.Context) error) error {
	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if isCancellation(ctx, err) {
			return err
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if p == nil || !p.CanRetry(ctx) {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
	}
}

func isCancellation(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}
