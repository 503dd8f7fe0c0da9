package rbac

import (
	"context"

	"github.com/campus-erp/campus-erp/internal/auth"
)

// RelationshipChecker answers whether a guardian account is linked to a
// student account. The default implementation allows every pairing, matching
// the legacy behaviour, but the check exists as a seam: an authoritative
// parent-student relationship table should back it before parent access is
// trusted. See DESIGN.md.
type RelationshipChecker interface {
	IsGuardianOf(ctx context.Context, parentID, studentID int64) bool
}

// AllowAllRelationships is the permissive default RelationshipChecker.
type AllowAllRelationships struct{}

// IsGuardianOf always reports true.
func (AllowAllRelationships) IsGuardianOf(ctx context.Context, parentID, studentID int64) bool {
	return true
}

// Engine evaluates authorization decisions for a resolved principal. All
// methods return plain booleans; denial is an ordinary result, never an
// error.
type Engine struct {
	catalog       *Catalog
	relationships RelationshipChecker
}

// NewEngine constructs an Engine over the given catalog.
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog, relationships: AllowAllRelationships{}}
}

// WithRelationshipChecker replaces the parent-student relationship source.
func (e *Engine) WithRelationshipChecker(rc RelationshipChecker) *Engine {
	e.relationships = rc
	return e
}

// Authorize reports whether the principal carries the named permission.
// Non-Active accounts always deny, regardless of role.
func (e *Engine) Authorize(p auth.Principal, permission string) bool {
	if !p.IsActive() {
		return false
	}
	return e.catalog.HasPermission(p.Role, permission)
}

// CanAccessResource reports whether the principal may perform the action on
// the resource.
func (e *Engine) CanAccessResource(p auth.Principal, resource, action string) bool {
	if !p.IsActive() {
		return false
	}
	return e.catalog.CanAccessResource(p.Role, resource, action)
}

// CanAccessUserData decides whether the requester may read another account's
// data. Rule order matters:
//
//  1. self-access always allowed
//  2. strictly higher hierarchy level grants access
//  3. explicit lateral grants: Faculty over Student data, Parent over a
//     linked Student's data
//  4. everything else denies
//
// The lateral grants are kept separate from the numeric hierarchy even where
// the level comparison already covers them, so reordering hierarchy levels
// can never silently revoke them.
func (e *Engine) CanAccessUserData(ctx context.Context, requester auth.Principal, targetRole auth.Role, targetID int64) bool {
	if !requester.IsActive() {
		return false
	}
	if requester.ID == targetID {
		return true
	}
	if e.catalog.HierarchyLevel(requester.Role) > e.catalog.HierarchyLevel(targetRole) {
		return true
	}
	if requester.Role == auth.RoleFaculty && targetRole == auth.RoleStudent {
		return true
	}
	if requester.Role == auth.RoleParent && targetRole == auth.RoleStudent {
		return e.relationships.IsGuardianOf(ctx, requester.ID, targetID)
	}
	return false
}
