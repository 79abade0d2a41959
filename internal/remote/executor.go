package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mrlokans/shoplist/internal/taskresult"
)

// Response is the raw outcome of one remote call. Body holds the payload of a
// successful response, ErrorBody the payload of a failed one.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
	ErrorBody  []byte
}

// Success reports whether the status code is 2xx.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Call performs exactly one remote request.
type Call func(ctx context.Context) (*Response, error)

// Empty is the payload type of operations that return no body.
type Empty struct{}

// ExecOption configures Execute.
type ExecOption func(*execOptions)

type execOptions struct {
	authStatus int
}

// WithAuthStatus classifies responses with the given status as *AuthError.
func WithAuthStatus(status int) ExecOption {
	return func(o *execOptions) {
		o.authStatus = status
	}
}

// Execute runs call and classifies its outcome as a task result:
//
//   - 204, or 2xx without body: Success with the zero value of T
//   - 2xx with body: Success with the decoded body
//   - non-2xx: Error with an *APIError (or *AuthError)
//   - transport or decoding failure: Error with the failure
//
// Cancellation is not a result. It is returned as the second value and the
// first value must then be ignored.
func Execute[T any](ctx context.Context, call Call, opts ...ExecOption) (taskresult.Result[T], error) {
	var o execOptions
	for _, opt := range opts {
		opt(&o)
	}

	resp, err := call(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return taskresult.Result[T]{}, err
		}
		return taskresult.Failure[T](err), nil
	}
	if resp == nil {
		return taskresult.Failure[T](errors.New("remote call returned no response")), nil
	}

	if !resp.Success() {
		apiErr := DecodeError(resp.StatusCode, resp.Status, resp.ErrorBody)
		if o.authStatus != 0 && resp.StatusCode == o.authStatus {
			return taskresult.Failure[T](&AuthError{APIError: apiErr}), nil
		}
		return taskresult.Failure[T](apiErr), nil
	}

	var value T
	if resp.StatusCode == http.StatusNoContent || len(resp.Body) == 0 {
		return taskresult.Success(value), nil
	}
	if err := json.Unmarshal(resp.Body, &value); err != nil {
		return taskresult.Failure[T](fmt.Errorf("failed to decode response: %w", err)), nil
	}
	return taskresult.Success(value), nil
}

// ExecuteErr is Execute for callers that want a plain (value, error) pair.
// Error results and cancellation both come back as the error.
func ExecuteErr[T any](ctx context.Context, call Call, opts ...ExecOption) (T, error) {
	result, err := Execute[T](ctx, call, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return result.Value(), result.Err()
}
