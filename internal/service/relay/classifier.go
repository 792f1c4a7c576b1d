package relay

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"jarvis/internal/domain"
	"jarvis/internal/locale"
)

// Classifier maps provider and transport failures into the closed set of
// user-facing error kinds, each paired with one localized message. The
// decision table is evaluated strictly in order; it is the single source
// of truth for failure copy.
type Classifier struct {
	bundle *locale.Bundle
}

// NewClassifier creates a classifier backed by the message bundle.
func NewClassifier(bundle *locale.Bundle) *Classifier {
	return &Classifier{bundle: bundle}
}

// Classify resolves a failure to its kind and localized message.
func (c *Classifier) Classify(err error, language string) *domain.RelayError {
	return c.KindError(ClassifyKind(err), language)
}

// KindError builds the RelayError for an already-known kind.
func (c *Classifier) KindError(kind domain.ErrorKind, language string) *domain.RelayError {
	lang := c.bundle.Normalize(language)
	return &domain.RelayError{
		Kind:    kind,
		Message: c.bundle.ErrorMessage(lang, kind),
	}
}

// ClassifyKind evaluates the decision table in order:
//
//	validation failure        -> bad_request
//	credential absent         -> service_unavailable
//	provider rate limit       -> rate_limited
//	provider rejected key     -> unauthorized
//	safety block, no text     -> content_blocked
//	no text, no safety flag   -> empty_response
//	anything else             -> unknown
func ClassifyKind(err error) domain.ErrorKind {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return domain.KindBadRequest
	case errors.Is(err, domain.ErrNoCredential):
		return domain.KindServiceUnavailable
	case isRateLimited(err):
		return domain.KindRateLimited
	case isUnauthorized(err):
		return domain.KindUnauthorized
	case errors.Is(err, domain.ErrContentBlocked):
		return domain.KindContentBlocked
	case errors.Is(err, domain.ErrEmptyResponse):
		return domain.KindEmptyResponse
	default:
		return domain.KindUnknown
	}
}

// grpcStatusError is implemented by gRPC transport errors; errors.As
// unwraps to it through wrapped chains.
type grpcStatusError interface {
	GRPCStatus() *status.Status
}

func isRateLimited(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}
	var serr grpcStatusError
	if errors.As(err, &serr) && serr.GRPCStatus().Code() == codes.ResourceExhausted {
		return true
	}
	return false
}

func isUnauthorized(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden {
			return true
		}
	}
	var serr grpcStatusError
	if errors.As(err, &serr) {
		switch serr.GRPCStatus().Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return true
		}
	}
	return false
}
