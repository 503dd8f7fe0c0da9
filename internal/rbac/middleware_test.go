package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-erp/campus-erp/internal/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func doGuarded(t *testing.T, guard func(http.Handler) http.Handler, p *auth.Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if p != nil {
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), *p))
	}
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestRequirePermission(t *testing.T) {
	m := Middleware{Engine: NewEngine(NewCatalog())}
	guard := m.RequirePermission(PermMarkAttendance)

	faculty := principal(1, auth.RoleFaculty)
	assert.Equal(t, http.StatusNoContent, doGuarded(t, guard, &faculty).Code)

	student := principal(2, auth.RoleStudent)
	assert.Equal(t, http.StatusForbidden, doGuarded(t, guard, &student).Code)

	rec := doGuarded(t, guard, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestRequireResource(t *testing.T) {
	m := Middleware{Engine: NewEngine(NewCatalog())}
	guard := m.RequireResource(ResourceNotifications, "create")

	faculty := principal(1, auth.RoleFaculty)
	assert.Equal(t, http.StatusNoContent, doGuarded(t, guard, &faculty).Code)

	parent := principal(2, auth.RoleParent)
	assert.Equal(t, http.StatusForbidden, doGuarded(t, guard, &parent).Code)
}

func TestRequireRole(t *testing.T) {
	m := Middleware{Engine: NewEngine(NewCatalog())}
	guard := m.RequireRole(auth.RoleAdmin, auth.RoleManagement)

	admin := principal(1, auth.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, doGuarded(t, guard, &admin).Code)

	management := principal(2, auth.RoleManagement)
	assert.Equal(t, http.StatusNoContent, doGuarded(t, guard, &management).Code)

	faculty := principal(3, auth.RoleFaculty)
	assert.Equal(t, http.StatusForbidden, doGuarded(t, guard, &faculty).Code)

	suspended := principal(4, auth.RoleAdmin)
	suspended.Status = auth.StatusSuspended
	assert.Equal(t, http.StatusForbidden, doGuarded(t, guard, &suspended).Code)
}
