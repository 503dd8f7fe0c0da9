package auth

import (
	"context"
	"errors"
	"strconv"

	"github.com/campus-erp/campus-erp/internal/audit"
	"github.com/campus-erp/campus-erp/internal/observability"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
	Principal    Principal
}

// Service wraps authentication business rules: credential verification,
// token issuance and the password lifecycle.
type Service struct {
	store   UserStore
	hasher  *PasswordHasher
	tokens  *TokenService
	auditor *audit.Logger
	metrics *observability.Metrics
}

// NewService constructs a new Service.
func NewService(store UserStore, hasher *PasswordHasher, tokens *TokenService, auditor *audit.Logger, metrics *observability.Metrics) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens, auditor: auditor, metrics: metrics}
}

// Login validates email/password credentials and issues an access/refresh
// token pair. Unknown accounts, wrong passwords and non-Active accounts all
// surface as shared.ErrInvalidCredentials; the audit trail records the
// distinct reason.
func (s *Service) Login(ctx context.Context, email, password, ip, userAgent string) (*TokenPair, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.recordLogin(ctx, nil, ip, userAgent, false, "unknown email")
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordLogin(ctx, &user.ID, ip, userAgent, false, "wrong password")
		return nil, shared.ErrInvalidCredentials
	}
	if user.Status != StatusActive {
		s.recordLogin(ctx, &user.ID, ip, userAgent, false, "account "+string(user.Status))
		return nil, shared.ErrInvalidCredentials
	}

	access, err := s.tokens.IssueAccessToken(user.ID, user.Role, 0)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.recordLogin(ctx, &user.ID, ip, userAgent, true, "")
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		Principal:    user.Principal(),
	}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token without
// re-presenting credentials. The account must still be Active.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrTokenInvalid
		}
		return nil, err
	}
	if user.Status != StatusActive {
		return nil, shared.ErrAccountInactive
	}
	access, err := s.tokens.IssueAccessToken(user.ID, user.Role, 0)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.AccessTTL().Seconds()),
		Principal:   user.Principal(),
	}, nil
}

// RequestPasswordReset issues a reset token for an existing Active account.
// The empty-token, nil-error result for unknown accounts lets the HTTP layer
// answer uniformly without leaking which emails exist.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if user.Status != StatusActive {
		return "", nil
	}
	token, err := s.tokens.IssuePasswordResetToken(user.Email)
	if err != nil {
		return "", err
	}
	s.auditor.LogActivity(ctx, audit.Entry{
		ActorID:  &user.ID,
		Action:   "password_reset_requested",
		Resource: "users",
	})
	return token, nil
}

// ResetPassword verifies a reset token and replaces the stored credential.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.tokens.Verify(resetToken, TokenTypePasswordReset)
	if err != nil {
		return err
	}
	user, err := s.store.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrTokenInvalid
		}
		return err
	}
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, user.ID, digest); err != nil {
		return err
	}
	s.auditor.LogActivity(ctx, audit.Entry{
		ActorID:  &user.ID,
		Action:   "password_reset",
		Resource: "users",
	})
	return nil
}

// RegisterUser creates a new account with a hashed credential. Callers are
// expected to guard this behind the create_users permission.
func (s *Service) RegisterUser(ctx context.Context, actor Principal, user *User, password string) (int64, error) {
	digest, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}
	user.PasswordHash = digest
	if user.Status == "" {
		user.Status = StatusActive
	}
	id, err := s.store.Create(ctx, user)
	if err != nil {
		return 0, err
	}
	s.auditor.LogActivity(ctx, audit.Entry{
		ActorID:    &actor.ID,
		Action:     "create",
		Resource:   "users",
		ResourceID: formatID(id),
		After:      map[string]any{"email": user.Email, "role": string(user.Role)},
	})
	return id, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (s *Service) recordLogin(ctx context.Context, userID *int64, ip, userAgent string, success bool, reason string) {
	s.auditor.LogLogin(ctx, userID, ip, userAgent, success, reason)
	if success {
		s.metrics.ObserveLogin("success")
	} else {
		s.metrics.ObserveLogin("failure")
	}
}
