package httpx

import (
	"errors"
	"net/http"

	"github.com/campus-erp/campus-erp/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
//
// Every token failure collapses into the same 401 body so callers cannot
// distinguish expiry from a bad signature or wrong token type.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrMissingToken),
		errors.Is(err, shared.ErrTokenInvalid),
		errors.Is(err, shared.ErrTokenExpired),
		errors.Is(err, shared.ErrTokenTypeMismatch),
		errors.Is(err, shared.ErrUserNotFound),
		errors.Is(err, shared.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	case errors.Is(err, shared.ErrAccountInactive),
		errors.Is(err, shared.ErrPermissionDenied):
		Problem(w, http.StatusForbidden, "Forbidden", "access denied")
	case errors.Is(err, shared.ErrRateLimited):
		Problem(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, shared.ErrAlreadyExists):
		Problem(w, http.StatusConflict, "Conflict", "resource already exists")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
