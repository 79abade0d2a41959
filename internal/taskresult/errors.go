package taskresult

import "errors"

// ErrUnknown is the cause recorded when an Error result is built from a nil error.
var ErrUnknown = errors.New("unknown error")
