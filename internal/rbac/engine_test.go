package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-erp/campus-erp/internal/auth"
)

func principal(id int64, role auth.Role) auth.Principal {
	return auth.Principal{ID: id, Role: role, Status: auth.StatusActive}
}

type denyRelationships struct{}

func (denyRelationships) IsGuardianOf(ctx context.Context, parentID, studentID int64) bool {
	return false
}

type linkedRelationships struct {
	parentID  int64
	studentID int64
}

func (l linkedRelationships) IsGuardianOf(ctx context.Context, parentID, studentID int64) bool {
	return parentID == l.parentID && studentID == l.studentID
}

func TestAuthorize(t *testing.T) {
	engine := NewEngine(NewCatalog())

	assert.True(t, engine.Authorize(principal(1, auth.RoleFaculty), PermMarkAttendance))
	assert.False(t, engine.Authorize(principal(2, auth.RoleStudent), PermMarkAttendance))
	assert.True(t, engine.Authorize(principal(3, auth.RoleAdmin), PermCreateUsers))

	suspended := principal(4, auth.RoleAdmin)
	suspended.Status = auth.StatusSuspended
	assert.False(t, engine.Authorize(suspended, PermCreateUsers))
}

func TestCanAccessUserData(t *testing.T) {
	engine := NewEngine(NewCatalog())
	ctx := context.Background()

	t.Run("self access for every role", func(t *testing.T) {
		for _, role := range []auth.Role{
			auth.RoleStudent, auth.RoleParent, auth.RoleFaculty, auth.RoleAdmin, auth.RoleManagement,
		} {
			assert.True(t, engine.CanAccessUserData(ctx, principal(10, role), role, 10), "role=%s", role)
		}
	})

	t.Run("hierarchy grants downward only", func(t *testing.T) {
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleAdmin), auth.RoleStudent, 2))
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleAdmin), auth.RoleFaculty, 2))
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleManagement), auth.RoleAdmin, 2))
		assert.False(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleStudent), auth.RoleFaculty, 2))
		assert.False(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleFaculty), auth.RoleAdmin, 2))
		assert.False(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleAdmin), auth.RoleAdmin, 2))
	})

	t.Run("faculty reaches student data laterally", func(t *testing.T) {
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleFaculty), auth.RoleStudent, 2))
	})

	t.Run("students never reach peers", func(t *testing.T) {
		assert.False(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleStudent), auth.RoleStudent, 2))
	})

	t.Run("unknown roles rank below every known role", func(t *testing.T) {
		assert.False(t, engine.CanAccessUserData(ctx, principal(1, auth.Role("Registrar")), auth.RoleStudent, 2))
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleStudent), auth.Role("Registrar"), 2))
	})

	t.Run("inactive requester denies even self", func(t *testing.T) {
		suspended := principal(1, auth.RoleAdmin)
		suspended.Status = auth.StatusSuspended
		assert.False(t, engine.CanAccessUserData(ctx, suspended, auth.RoleStudent, 2))
		assert.False(t, engine.CanAccessUserData(ctx, suspended, auth.RoleAdmin, 1))
	})
}

func TestParentAccessGatedByRelationship(t *testing.T) {
	ctx := context.Background()

	t.Run("default allows any pairing", func(t *testing.T) {
		engine := NewEngine(NewCatalog())
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleParent), auth.RoleStudent, 2))
	})

	t.Run("denying checker blocks parent", func(t *testing.T) {
		engine := NewEngine(NewCatalog()).WithRelationshipChecker(denyRelationships{})
		assert.False(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleParent), auth.RoleStudent, 2))
		// The checker only gates the parent branch; self and hierarchy
		// access are untouched.
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleParent), auth.RoleParent, 1))
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleAdmin), auth.RoleStudent, 2))
	})

	t.Run("linked checker allows only the linked student", func(t *testing.T) {
		engine := NewEngine(NewCatalog()).WithRelationshipChecker(linkedRelationships{parentID: 1, studentID: 2})
		assert.True(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleParent), auth.RoleStudent, 2))
		assert.False(t, engine.CanAccessUserData(ctx, principal(1, auth.RoleParent), auth.RoleStudent, 3))
		assert.False(t, engine.CanAccessUserData(ctx, principal(9, auth.RoleParent), auth.RoleStudent, 2))
	})
}
