package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a backend failure so views can pick behavior without
// inspecting status codes.
type Kind int

const (
	// KindTransport means no response was received (offline, timeout,
	// connection reset).
	KindTransport Kind = iota
	// KindValidation means the backend rejected the payload (4xx) and
	// may carry field-level messages.
	KindValidation
	// KindAuth means 401/403. Handled at the session level, never as a
	// per-view error.
	KindAuth
	// KindNotFound means the referenced record no longer exists. Views
	// degrade to an empty/placeholder state.
	KindNotFound
	// KindServer means a 5xx, retry-eligible failure.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the uniform error every resource method returns on failure.
type Error struct {
	Kind    Kind
	Status  int                 // HTTP status, 0 for transport failures
	Message string              // user-displayable message when available
	Fields  map[string][]string // field-level validation messages
	Err     error               // underlying error, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("api: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("api: %s failure (status %d)", e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the failure is worth retrying as-is.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransport || e.Kind == KindServer
}

// UserMessage returns something safe to put in front of the user.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case KindTransport:
		return "Could not reach the server. Check your connection and retry."
	case KindValidation:
		return "The request was rejected. Check the highlighted fields."
	case KindAuth:
		return "Your session has expired. Please log in again."
	case KindNotFound:
		return "That record no longer exists."
	default:
		return "Something went wrong on our side. Please retry."
	}
}

// errorBody covers the two error envelope shapes the backend emits.
type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// classify maps an HTTP response to an *Error. The body is parsed
// best-effort; an unparseable body still yields a usable error.
func classify(status int, body []byte) *Error {
	e := &Error{Status: status}

	var eb errorBody
	if len(body) > 0 {
		if err := json.Unmarshal(body, &eb); err == nil {
			e.Message = eb.Message
			if e.Message == "" {
				e.Message = eb.Error
			}
			e.Fields = eb.Errors
		}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuth
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status >= 400 && status < 500:
		e.Kind = KindValidation
	default:
		e.Kind = KindServer
	}
	return e
}

// transportError wraps a failure where no response was received.
func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// IsNotFound reports whether err is a KindNotFound *Error.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsAuth reports whether err is a KindAuth *Error.
func IsAuth(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}
