package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/campus-erp/campus-erp/internal/audit"
	"github.com/campus-erp/campus-erp/internal/observability"
	"github.com/campus-erp/campus-erp/internal/ratelimit"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// lookupTimeout bounds the external user-store call; in-process token and
// permission logic is synchronous and not subject to timeouts.
const lookupTimeout = 5 * time.Second

// ResolverConfig carries the per-source-address rate limit applied before
// any token work.
type ResolverConfig struct {
	RateLimit       int
	RateLimitWindow time.Duration
}

// Resolver materializes the authenticated caller for each request: rate
// limit by source address, verify the access token, load the account, check
// status, emit an authenticate audit record.
type Resolver struct {
	tokens  *TokenService
	store   UserStore
	limiter ratelimit.Limiter
	auditor *audit.Logger
	metrics *observability.Metrics
	cfg     ResolverConfig
	group   singleflight.Group
}

// NewResolver constructs a Resolver.
func NewResolver(tokens *TokenService, store UserStore, limiter ratelimit.Limiter, auditor *audit.Logger, metrics *observability.Metrics, cfg ResolverConfig) *Resolver {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 100
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Hour
	}
	return &Resolver{
		tokens:  tokens,
		store:   store,
		limiter: limiter,
		auditor: auditor,
		metrics: metrics,
		cfg:     cfg,
	}
}

// Resolve validates the raw bearer token and returns the request Principal.
// Each failure branch returns its own sentinel so the boundary layer can map
// 401, 403 and 429 consistently; none of them leak which check failed beyond
// that mapping.
func (r *Resolver) Resolve(ctx context.Context, rawToken, sourceIP string) (Principal, error) {
	if r.limiter != nil && !r.limiter.Allow(ctx, "auth:"+sourceIP, r.cfg.RateLimit, r.cfg.RateLimitWindow) {
		r.metrics.ObserveRateLimited()
		return Principal{}, shared.ErrRateLimited
	}

	if rawToken == "" {
		return Principal{}, shared.ErrMissingToken
	}

	claims, err := r.tokens.Verify(rawToken, TokenTypeAccess)
	if err != nil {
		return Principal{}, err
	}

	user, err := r.lookupUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Principal{}, shared.ErrUserNotFound
		}
		return Principal{}, err
	}
	if user.Status != StatusActive {
		return Principal{}, shared.ErrAccountInactive
	}

	r.auditor.LogActivity(ctx, audit.Entry{
		ActorID:    &user.ID,
		Action:     "authenticate",
		Resource:   "users",
		ResourceID: formatID(user.ID),
		IP:         sourceIP,
	})
	return user.Principal(), nil
}

// lookupUser deduplicates concurrent store reads for the same account; a
// burst of requests carrying the same subject costs one query.
func (r *Resolver) lookupUser(ctx context.Context, id int64) (*User, error) {
	v, err, _ := r.group.Do(formatID(id), func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
		defer cancel()
		return r.store.GetByID(lookupCtx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*User), nil
}
