package rbac

import (
	"log/slog"
	"net/http"

	"github.com/campus-erp/campus-erp/internal/auth"
	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// Middleware wires authorization guards for HTTP handlers. The auth
// middleware must run first so a Principal is present in the request context;
// a missing principal maps to 401, a failed check to 403.
type Middleware struct {
	Engine *Engine
	Logger *slog.Logger
}

// RequirePermission guards a route behind a single permission.
func (m Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return m.guard(func(r *http.Request, p auth.Principal) bool {
		return m.Engine.Authorize(p, permission)
	})
}

// RequireResource guards a route behind a resource/action rule.
func (m Middleware) RequireResource(resource, action string) func(http.Handler) http.Handler {
	return m.guard(func(r *http.Request, p auth.Principal) bool {
		return m.Engine.CanAccessResource(p, resource, action)
	})
}

// RequireRole guards a route behind an explicit role allow-list.
func (m Middleware) RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return m.guard(func(r *http.Request, p auth.Principal) bool {
		if !p.IsActive() {
			return false
		}
		for _, role := range roles {
			if p.Role == role {
				return true
			}
		}
		return false
	})
}

func (m Middleware) guard(allowed func(*http.Request, auth.Principal) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrMissingToken)
				return
			}
			if !allowed(r, principal) {
				if m.Logger != nil {
					m.Logger.Warn("authorization denied",
						slog.Int64("user_id", principal.ID),
						slog.String("role", string(principal.Role)),
						slog.String("path", r.URL.Path))
				}
				httpx.RespondError(w, shared.ErrPermissionDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
