package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and refund policy.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthInvalid
	KindForbidden
	KindNotFound
	KindInsufficientCredits
	KindRateLimited
	KindUpstreamError
	KindUpstreamUnavailable
	KindInternal
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message)
}

func AuthInvalid(message string) *Error {
	return New(KindAuthInvalid, http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message)
}

func InsufficientCredits(available, required int) *Error {
	return New(KindInsufficientCredits, http.StatusPaymentRequired, "insufficient credits").
		WithDetails(map[string]any{"available": available, "required": required})
}

func RateLimited(limit int, windowSeconds int) *Error {
	return New(KindRateLimited, http.StatusTooManyRequests, "rate limit exceeded").
		WithDetails(map[string]any{"limit": limit, "remaining": 0, "window_seconds": windowSeconds})
}

// UpstreamError keeps the upstream status so the pipeline can pass it
// through, and a short body prefix for diagnosis.
func UpstreamError(status int, bodyPrefix string) *Error {
	return New(KindUpstreamError, status, "upstream returned an error").
		WithDetails(map[string]any{"upstream_status": status, "upstream_body": bodyPrefix})
}

func UpstreamUnavailable(err error) *Error {
	return New(KindUpstreamUnavailable, http.StatusBadGateway, "upstream unavailable").Wrap(err)
}

func Internal(err error) *Error {
	return New(KindInternal, http.StatusInternalServerError, "internal server error").Wrap(err)
}

// FromError extracts an *Error or wraps unknown errors as internal.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
