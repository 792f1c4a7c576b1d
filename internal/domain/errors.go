package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// ErrorKind is the closed set of user-facing failure classes produced by
// the relay's error classifier. Every upstream or boundary failure maps to
// exactly one kind; kinds never share a user-facing message.
type ErrorKind string

const (
	// KindBadRequest: the caller's request is malformed (missing identity
	// fields, or neither prompt nor file present). Not retryable as-is.
	KindBadRequest ErrorKind = "bad_request"

	// KindServiceUnavailable: the provider credential is not configured.
	// An operator must fix the deployment; the user cannot retry past it.
	KindServiceUnavailable ErrorKind = "service_unavailable"

	// KindRateLimited: the provider reported quota/rate exhaustion.
	// Retryable after the cooldown surfaced in the message.
	KindRateLimited ErrorKind = "rate_limited"

	// KindUnauthorized: the provider rejected the credential. An operator
	// must rotate the key.
	KindUnauthorized ErrorKind = "unauthorized"

	// KindContentBlocked: the provider returned no usable text and flagged
	// a safety block. The user should rephrase; not a transport failure.
	KindContentBlocked ErrorKind = "content_blocked"

	// KindEmptyResponse: the provider returned no usable text without a
	// safety flag. Safe to retry once.
	KindEmptyResponse ErrorKind = "empty_response"

	// KindUnknown: any other transport or protocol failure.
	KindUnknown ErrorKind = "unknown"
)

// StatusCode maps a kind to its wire status.
func (k ErrorKind) StatusCode() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindContentBlocked:
		return http.StatusUnprocessableEntity
	case KindEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RelayError is a classified, user-presentable failure. Message is already
// localized; it is what renders in the conversation transcript in place of
// an assistant turn.
type RelayError struct {
	Kind    ErrorKind
	Message string
}

func (e *RelayError) Error() string   { return e.Message }
func (e *RelayError) StatusCode() int { return e.Kind.StatusCode() }

// ValidationError indicates invalid input caught at the boundary or during
// context assembly, before anything reaches the provider.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string   { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Sentinel errors - use with errors.Is()
var (
	// ErrValidation marks boundary/assembly validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrNoCredential marks the fast-fail path: the provider credential is
	// absent from configuration, so no upstream call is ever attempted.
	ErrNoCredential = errors.New("provider credential not configured")

	// ErrContentBlocked is surfaced by a provider adapter when the
	// upstream withheld all output on safety grounds.
	ErrContentBlocked = errors.New("response blocked by content safety")

	// ErrEmptyResponse is surfaced by a provider adapter when the
	// upstream finished cleanly but produced no usable text.
	ErrEmptyResponse = errors.New("provider returned no usable text")
)
