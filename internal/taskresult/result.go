// Package taskresult provides the three-state outcome used between
// data-producing operations and their consumers.
//
// A Result is exactly one of Loading, Success or Error. Loading carries no
// payload; Success carries a value of T; Error carries the cause.
//
// # Usage
//
//	switch r.Kind() {
//	case taskresult.KindLoading:
//		showSpinner()
//	case taskresult.KindSuccess:
//		render(r.Value())
//	case taskresult.KindError:
//		showError(r.Err())
//	}
package taskresult

import "fmt"

// Kind identifies the active variant of a Result.
type Kind int

const (
	KindLoading Kind = iota
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the tagged union of Loading, Success(T) and Error(cause).
// The zero value is Loading.
type Result[T any] struct {
	kind  Kind
	value T
	err   error
}

// Loading returns the payload-free loading state.
func Loading[T any]() Result[T] {
	return Result[T]{kind: KindLoading}
}

// Success wraps a produced value.
func Success[T any](value T) Result[T] {
	return Result[T]{kind: KindSuccess, value: value}
}

// Failure wraps the cause of a failed operation. A nil cause is replaced with
// ErrUnknown so that an Error result always has something to report.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnknown
	}
	return Result[T]{kind: KindError, err: err}
}

// Kind returns the active variant.
func (r Result[T]) Kind() Kind { return r.kind }

// IsLoading reports whether r is the Loading variant.
func (r Result[T]) IsLoading() bool { return r.kind == KindLoading }

// IsSuccess reports whether r is the Success variant.
func (r Result[T]) IsSuccess() bool { return r.kind == KindSuccess }

// IsError reports whether r is the Error variant.
func (r Result[T]) IsError() bool { return r.kind == KindError }

// Value returns the success payload, or the zero value of T for other variants.
func (r Result[T]) Value() T { return r.value }

// Err returns the failure cause, or nil for other variants.
func (r Result[T]) Err() error { return r.err }

// Get returns the payload and whether r is Success.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.kind == KindSuccess
}

func (r Result[T]) String() string {
	switch r.kind {
	case KindSuccess:
		return fmt.Sprintf("Success(%v)", r.value)
	case KindError:
		return fmt.Sprintf("Error(%v)", r.err)
	default:
		return "Loading"
	}
}

// Match calls exactly one of the handlers depending on the variant of r.
func Match[T, R any](r Result[T], onLoading func() R, onSuccess func(T) R, onError func(error) R) R {
	switch r.kind {
	case KindSuccess:
		return onSuccess(r.value)
	case KindError:
		return onError(r.err)
	default:
		return onLoading()
	}
}

// Map transforms a Success payload, passing Loading and Error through.
func Map[T, R any](r Result[T], fn func(T) R) Result[R] {
	switch r.kind {
	case KindSuccess:
		return Success(fn(r.value))
	case KindError:
		return Failure[R](r.err)
	default:
		return Loading[R]()
	}
}
