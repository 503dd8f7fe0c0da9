package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/campus-erp/campus-erp/internal/shared"
)

// TokenType discriminates what a signed token may be used for. A token only
// verifies against its own type; an access token can never satisfy a refresh
// or password-reset check.
type TokenType string

// Known token types.
const (
	TokenTypeAccess        TokenType = "access"
	TokenTypeRefresh       TokenType = "refresh"
	TokenTypePasswordReset TokenType = "password_reset"
)

// Claims is the structured data recovered from a verified token.
type Claims struct {
	UserID    int64
	Role      Role
	Email     string
	Type      TokenType
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService signs and verifies time-bounded bearer tokens with an
// HS256 MAC over a server-held secret. Tokens are self-contained: validity is
// signature + expiry + type match, with no server-side session store. There
// is no revocation list, so a token stays valid until natural expiry even
// after logout (known limitation of the stateless design).
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokenService constructs a TokenService with the given signing secret and
// default lifetimes for access and refresh tokens.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   time.Hour,
		now:        time.Now,
	}
}

// WithClock overrides the time source, used by tests to step past expiry.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// AccessTTL exposes the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssueAccessToken signs a short-lived access token carrying identity and
// role claims. A non-positive ttl falls back to the configured default.
func (s *TokenService) IssueAccessToken(userID int64, role Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}
	return s.sign(jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
	}, TokenTypeAccess, ttl)
}

// IssueRefreshToken signs a long-lived refresh token. The jti claim gives
// each refresh token a stable identity should a revocation store be added
// later.
func (s *TokenService) IssueRefreshToken(userID int64, role Role) (string, error) {
	return s.sign(jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"jti":     uuid.NewString(),
	}, TokenTypeRefresh, s.refreshTTL)
}

// IssuePasswordResetToken signs a short-lived reset token carrying only the
// account email.
func (s *TokenService) IssuePasswordResetToken(email string) (string, error) {
	return s.sign(jwt.MapClaims{
		"email": email,
	}, TokenTypePasswordReset, s.resetTTL)
}

func (s *TokenService) sign(claims jwt.MapClaims, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims["type"] = string(typ)
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, expiry and type, returning the decoded claims.
// Expiry is enforced exactly at the exp boundary; there is no skew grace
// window. All failure modes collapse to 401 at the HTTP boundary so callers
// never learn which check tripped.
func (s *TokenService) Verify(raw string, expected TokenType) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrTokenInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, shared.ErrTokenExpired
		}
		return Claims{}, shared.ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, shared.ErrTokenInvalid
	}
	typ, _ := mapClaims["type"].(string)
	if TokenType(typ) != expected {
		return Claims{}, shared.ErrTokenTypeMismatch
	}

	claims := Claims{Type: expected}
	if v, ok := mapClaims["user_id"].(float64); ok {
		claims.UserID = int64(v)
	}
	if v, ok := mapClaims["role"].(string); ok {
		claims.Role = Role(v)
	}
	if v, ok := mapClaims["email"].(string); ok {
		claims.Email = v
	}
	if v, ok := mapClaims["jti"].(string); ok {
		claims.TokenID = v
	}
	if v, ok := mapClaims["iat"].(float64); ok {
		claims.IssuedAt = time.Unix(int64(v), 0).UTC()
	}
	if v, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(v), 0).UTC()
	}
	if expected != TokenTypePasswordReset && claims.UserID == 0 {
		return Claims{}, shared.ErrTokenInvalid
	}
	return claims, nil
}
