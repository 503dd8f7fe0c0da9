package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-erp/campus-erp/internal/shared"
)

func newTestTokenService(now *time.Time) *TokenService {
	return NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour).
		WithClock(func() time.Time { return *now })
}

func TestAccessTokenVerify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(&now)

	raw, err := svc.IssueAccessToken(42, RoleFaculty, 0)
	require.NoError(t, err)

	claims, err := svc.Verify(raw, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, RoleFaculty, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.Equal(t, now.Add(15*time.Minute), claims.ExpiresAt)
}

func TestAccessTokenExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(&now)

	raw, err := svc.IssueAccessToken(42, RoleStudent, 0)
	require.NoError(t, err)

	// Still valid just inside the boundary.
	now = now.Add(15*time.Minute - time.Second)
	_, err = svc.Verify(raw, TokenTypeAccess)
	require.NoError(t, err)

	// No grace window past exp.
	now = now.Add(2 * time.Second)
	_, err = svc.Verify(raw, TokenTypeAccess)
	assert.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestTokenTypeDiscrimination(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(&now)

	access, err := svc.IssueAccessToken(7, RoleAdmin, 0)
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(7, RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Verify(access, TokenTypeRefresh)
	assert.ErrorIs(t, err, shared.ErrTokenTypeMismatch)
	_, err = svc.Verify(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, shared.ErrTokenTypeMismatch)

	claims, err := svc.Verify(refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.TokenID)
}

func TestPasswordResetToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(&now)

	raw, err := svc.IssuePasswordResetToken("faculty@campus.edu")
	require.NoError(t, err)

	claims, err := svc.Verify(raw, TokenTypePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, "faculty@campus.edu", claims.Email)

	_, err = svc.Verify(raw, TokenTypeAccess)
	assert.ErrorIs(t, err, shared.ErrTokenTypeMismatch)

	now = now.Add(time.Hour + time.Minute)
	_, err = svc.Verify(raw, TokenTypePasswordReset)
	assert.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(&now)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(raw, TokenTypeAccess)
		assert.ErrorIs(t, err, shared.ErrTokenInvalid, "input %q", raw)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(&now)
	other := NewTokenService("other-secret", 15*time.Minute, time.Hour).
		WithClock(func() time.Time { return now })

	raw, err := other.IssueAccessToken(1, RoleStudent, 0)
	require.NoError(t, err)

	_, err = svc.Verify(raw, TokenTypeAccess)
	assert.ErrorIs(t, err, shared.ErrTokenInvalid)
}
