package spark_errors

import (
	"errors"
	"net/http"
)

// Common errors
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidMessage  = errors.New("invalid message")
	ErrRateLimited     = errors.New("rate limited")
	ErrTransient       = errors.New("service unavailable")
)

// HTTPStatus maps an error from the core to the status code surfaced by the API.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidMessage), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine readable code placed in error envelopes.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidMessage):
		return "INVALID_MESSAGE"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_REQUEST"
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrTransient):
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}

// UserMessage is the short text shown to the user. Validation errors keep
// their detail so they can be rendered inline next to the input.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "please sign in again"
	case errors.Is(err, ErrInvalidMessage), errors.Is(err, ErrInvalidInput):
		return err.Error()
	case errors.Is(err, ErrForbidden):
		return "you are not part of this conversation"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrRateLimited):
		return "slow down, try again in a moment"
	default:
		return "failed to send, try again"
	}
}

// IsRetryable reports whether a one-shot call may be retried by the caller.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimited)
}
