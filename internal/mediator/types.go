package mediator

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LoadType is the direction of a page-load request.
type LoadType int

const (
	Refresh LoadType = iota
	Prepend
	Append
)

func (t LoadType) String() string {
	switch t {
	case Refresh:
		return "refresh"
	case Prepend:
		return "prepend"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("load_type(%d)", int(t))
	}
}

// ParseLoadType parses the String form of a load type.
func ParseLoadType(s string) (LoadType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "refresh":
		return Refresh, nil
	case "prepend":
		return Prepend, nil
	case "append":
		return Append, nil
	default:
		return 0, fmt.Errorf("unknown load type %q", s)
	}
}

// LoadResult is the outcome of a successful page load.
type LoadResult struct {
	EndOfPaginationReached bool
}

// EndOfPagination is the result of a load with nothing more to fetch.
func EndOfPagination() LoadResult {
	return LoadResult{EndOfPaginationReached: true}
}

// LoadError reports a failed page load.
type LoadError struct {
	Endpoint string
	LoadType LoadType
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Endpoint, e.LoadType, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader is the type-erased view of a Mediator used by schedulers, task
// queues and the HTTP surface.
type Loader interface {
	Endpoint() string
	Load(ctx context.Context, loadType LoadType) (LoadResult, error)
}

var _ Loader = (*Mediator[struct{}])(nil)

// LoadEvent describes one finished load. Err is nil on success.
type LoadEvent struct {
	Endpoint string
	LoadType LoadType
	Result   LoadResult
	Err      error
	Duration time.Duration
}
