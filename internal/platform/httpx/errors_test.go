package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-erp/campus-erp/internal/shared"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{shared.ErrMissingToken, http.StatusUnauthorized},
		{shared.ErrTokenInvalid, http.StatusUnauthorized},
		{shared.ErrTokenExpired, http.StatusUnauthorized},
		{shared.ErrTokenTypeMismatch, http.StatusUnauthorized},
		{shared.ErrUserNotFound, http.StatusUnauthorized},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{shared.ErrAccountInactive, http.StatusForbidden},
		{shared.ErrPermissionDenied, http.StatusForbidden},
		{shared.ErrRateLimited, http.StatusTooManyRequests},
		{shared.ErrNotFound, http.StatusNotFound},
		{shared.ErrAlreadyExists, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code, "err=%v", tc.err)
	}
}

func TestTokenFailuresShareOneBody(t *testing.T) {
	bodies := map[string]struct{}{}
	for _, err := range []error{
		shared.ErrMissingToken, shared.ErrTokenInvalid, shared.ErrTokenExpired,
		shared.ErrTokenTypeMismatch, shared.ErrInvalidCredentials,
	} {
		rec := httptest.NewRecorder()
		RespondError(rec, err)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		bodies[rec.Body.String()] = struct{}{}
	}
	assert.Len(t, bodies, 1)
}
