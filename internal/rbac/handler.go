package rbac

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campus-erp/campus-erp/internal/auth"
	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/shared"
)

// UserLookup is the slice of the user store the handler needs to resolve
// cross-user access targets.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

// Handler exposes authorization introspection and cross-user data access
// endpoints. Routes assume the auth middleware already resolved a Principal.
type Handler struct {
	logger  *slog.Logger
	engine  *Engine
	catalog *Catalog
	users   UserLookup
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, engine *Engine, catalog *Catalog, users UserLookup) *Handler {
	return &Handler{logger: logger, engine: engine, catalog: catalog, users: users}
}

// MountRoutes registers rbac routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/permissions", h.myPermissions)
	r.Get("/users/{id}/profile", h.userProfile)
}

func (h *Handler) myPermissions(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrMissingToken)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"role":        string(principal.Role),
		"permissions": h.catalog.Permissions(principal.Role),
	})
}

// userProfile serves another account's profile, applying the cross-user
// access rules. A missing target is 404; a denied one is 403.
func (h *Handler) userProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrMissingToken)
		return
	}
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid user id")
		return
	}
	target, err := h.users.GetByID(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.RespondError(w, shared.ErrNotFound)
			return
		}
		h.logger.Error("load target user", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if !h.engine.CanAccessUserData(r.Context(), principal, target.Role, target.ID) {
		httpx.RespondError(w, shared.ErrPermissionDenied)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":         target.ID,
		"email":      target.Email,
		"name":       target.Name,
		"role":       string(target.Role),
		"status":     string(target.Status),
		"department": target.Department,
	})
}
