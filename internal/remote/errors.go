package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
)

// ErrNoCredentials indicates that no API token is configured.
var ErrNoCredentials = errors.New("remote API token is not configured")

// APIError is a non-success HTTP response decoded from the API error body.
type APIError struct {
	StatusCode int
	Detail     string
	Code       string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "remote API error: HTTP %d", e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "; %s: %s", name, strings.Join(e.Fields[name], ", "))
		}
	}
	return b.String()
}

// HasFieldErrors reports whether the response carried per-field validation errors.
func (e *APIError) HasFieldErrors() bool {
	return len(e.Fields) > 0
}

// AuthError is an APIError whose status matched the caller's authentication
// status, signalling that credentials must be renewed.
type AuthError struct {
	*APIError
}

func (e *AuthError) Error() string {
	return "authentication required: " + e.APIError.Error()
}

func (e *AuthError) Unwrap() error {
	return e.APIError
}

// DecodeError parses an API error body. Known keys are detail, error and
// message for the human readable text, code for the machine code, and errors
// or fields for the per-field map; any other key holding a list of strings is
// taken as a field error too. When the body cannot be decoded a generic error
// carrying status text is returned.
func DecodeError(statusCode int, status string, body []byte) *APIError {
	fallback := &APIError{StatusCode: statusCode, Detail: statusText(statusCode, status)}
	if len(body) == 0 {
		return fallback
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fallback
	}

	apiErr := &APIError{StatusCode: statusCode}
	for key, value := range raw {
		switch key {
		case "detail", "error", "message":
			if apiErr.Detail == "" {
				apiErr.Detail = decodeText(value)
			}
		case "code":
			apiErr.Code = decodeText(value)
		case "errors", "fields":
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(value, &fields); err == nil {
				for name, v := range fields {
					apiErr.addField(name, v)
				}
			}
		default:
			apiErr.addField(key, value)
		}
	}

	if apiErr.Detail == "" && len(apiErr.Fields) == 0 {
		apiErr.Detail = fallback.Detail
	}
	return apiErr
}

func (e *APIError) addField(name string, value json.RawMessage) {
	var messages []string
	if err := json.Unmarshal(value, &messages); err != nil {
		var single string
		if err := json.Unmarshal(value, &single); err != nil {
			return
		}
		messages = []string{single}
	}
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[name] = append(e.Fields[name], messages...)
}

func decodeText(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s
	}
	return strings.Trim(string(value), `"`)
}

func statusText(statusCode int, status string) string {
	if status != "" {
		return status
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// Retryable reports whether err is a transient failure worth another attempt:
// connectivity and timeout errors, rate limiting and 5xx responses.
// Validation, authentication and cancellation errors are never retried.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
