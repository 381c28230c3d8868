package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("duplicate entry")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many attempts")
)

// RespondError maps domain errors to HTTP responses with an `{"error"}` body.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, "review not found")
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, "email already registered")
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, "missing or invalid fields")
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, "you are not the owner of this review")
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, ErrRateLimited):
		Error(w, http.StatusTooManyRequests, "too many attempts, try again later")
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
