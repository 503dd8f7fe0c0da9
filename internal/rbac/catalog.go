// Package rbac implements role-based authorization for the campus platform:
// a static role catalog, the authorization engine evaluating permission and
// cross-user access rules, and HTTP middleware guards.
package rbac

import "github.com/campus-erp/campus-erp/internal/auth"

// Permission names used across the platform.
const (
	PermReadOwnProfile      = "read_own_profile"
	PermUpdateOwnProfile    = "update_own_profile"
	PermReadOwnAttendance   = "read_own_attendance"
	PermReadTimetable       = "read_timetable"
	PermReadNotifications   = "read_notifications"
	PermReadStudentProfiles = "read_student_profiles"
	PermUpdateStudentData   = "update_student_profiles"
	PermMarkAttendance      = "mark_attendance"
	PermReadAttendance      = "read_attendance"
	PermCreateNotifications = "create_notifications"
	PermManageTimetable     = "manage_timetable"
	PermUploadStudentData   = "upload_student_data"
	PermReadDepartments     = "read_departments"
	PermReadSubjects        = "read_subjects"
	PermReadAllProfiles     = "read_all_profiles"
	PermUpdateAllProfiles   = "update_all_profiles"
	PermCreateUsers         = "create_users"
	PermDeleteUsers         = "delete_users"
	PermManageDepartments   = "manage_departments"
	PermManageSubjects      = "manage_subjects"
	PermManageAcademicYears = "manage_academic_years"
	PermManageSemesters     = "manage_semesters"
	PermReadAuditLogs       = "read_audit_logs"
	PermSystemSettings      = "system_settings"
	PermBulkOperations      = "bulk_operations"
	PermReadChildProfile    = "read_child_profile"
	PermReadChildAttendance = "read_child_attendance"
	PermReadChildTimetable  = "read_child_timetable"
	PermReadReports         = "read_reports"
	PermReadAnalytics       = "read_analytics"
	PermReadFinancialData   = "read_financial_data"
)

// Resource names for resource-level access rules.
const (
	ResourceUsers         = "users"
	ResourceAttendance    = "attendance"
	ResourceNotifications = "notifications"
	ResourceDepartments   = "departments"
	ResourceSubjects      = "subjects"
)

// ActionAll is the per-entry wildcard granting every action on a resource.
const ActionAll = "all"

// Catalog is the immutable role/permission lookup table, built once at
// process start. Every (role, permission) and (resource, role, action)
// combination not listed here denies.
type Catalog struct {
	rolePermissions map[auth.Role]map[string]struct{}
	resourceAccess  map[string]map[auth.Role]map[string]struct{}
	hierarchy       map[auth.Role]int
}

// NewCatalog builds the default institutional catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		rolePermissions: buildPermissionSet(map[auth.Role][]string{
			auth.RoleStudent: {
				PermReadOwnProfile,
				PermUpdateOwnProfile,
				PermReadOwnAttendance,
				PermReadTimetable,
				PermReadNotifications,
			},
			auth.RoleFaculty: {
				PermReadOwnProfile,
				PermUpdateOwnProfile,
				PermReadStudentProfiles,
				PermUpdateStudentData,
				PermMarkAttendance,
				PermReadAttendance,
				PermCreateNotifications,
				PermReadNotifications,
				PermManageTimetable,
				PermUploadStudentData,
				PermReadDepartments,
				PermReadSubjects,
			},
			auth.RoleAdmin: {
				PermReadAllProfiles,
				PermUpdateAllProfiles,
				PermCreateUsers,
				PermDeleteUsers,
				PermManageDepartments,
				PermManageSubjects,
				PermManageAcademicYears,
				PermManageSemesters,
				PermReadAuditLogs,
				PermSystemSettings,
				PermBulkOperations,
			},
			auth.RoleParent: {
				PermReadChildProfile,
				PermReadChildAttendance,
				PermReadChildTimetable,
				PermReadNotifications,
			},
			auth.RoleManagement: {
				PermReadAllProfiles,
				PermReadReports,
				PermReadAnalytics,
				PermReadDepartments,
				PermReadFinancialData,
			},
		}),
		resourceAccess: buildResourceSet(map[string]map[auth.Role][]string{
			ResourceUsers: {
				auth.RoleStudent:    {"read_own", "update_own"},
				auth.RoleFaculty:    {"read_own", "update_own", "read_students", "update_students"},
				auth.RoleAdmin:      {"read_all", "update_all", "create", "delete"},
				auth.RoleParent:     {"read_children"},
				auth.RoleManagement: {"read_all"},
			},
			ResourceAttendance: {
				auth.RoleStudent:    {"read_own"},
				auth.RoleFaculty:    {"read_all", "create", "update"},
				auth.RoleAdmin:      {"read_all", "create", "update", "delete"},
				auth.RoleParent:     {"read_children"},
				auth.RoleManagement: {"read_all"},
			},
			ResourceNotifications: {
				auth.RoleStudent:    {"read"},
				auth.RoleFaculty:    {"read", "create"},
				auth.RoleAdmin:      {"read_all", "create", "update", "delete"},
				auth.RoleParent:     {"read"},
				auth.RoleManagement: {"read_all"},
			},
			ResourceDepartments: {
				auth.RoleFaculty:    {"read"},
				auth.RoleAdmin:      {"read_all", "create", "update", "delete"},
				auth.RoleManagement: {"read_all"},
			},
			ResourceSubjects: {
				auth.RoleFaculty:    {"read", "update_own"},
				auth.RoleAdmin:      {"read_all", "create", "update", "delete"},
				auth.RoleManagement: {"read_all"},
			},
		}),
		hierarchy: map[auth.Role]int{
			auth.RoleStudent:    1,
			auth.RoleParent:     2,
			auth.RoleFaculty:    3,
			auth.RoleAdmin:      4,
			auth.RoleManagement: 5,
		},
	}
}

// HasPermission reports whether the role carries the named permission.
func (c *Catalog) HasPermission(role auth.Role, permission string) bool {
	perms, ok := c.rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[permission]
	return ok
}

// CanAccessResource reports whether the role may perform the action on the
// resource. An ActionAll entry grants every action.
func (c *Catalog) CanAccessResource(role auth.Role, resource, action string) bool {
	roles, ok := c.resourceAccess[resource]
	if !ok {
		return false
	}
	actions, ok := roles[role]
	if !ok {
		return false
	}
	if _, ok := actions[ActionAll]; ok {
		return true
	}
	_, ok = actions[action]
	return ok
}

// HierarchyLevel returns the total ordering over roles used for default
// cross-role data access. Unknown roles resolve to 0, the lowest level,
// never to an elevated default.
func (c *Catalog) HierarchyLevel(role auth.Role) int {
	return c.hierarchy[role]
}

// Permissions returns the permission names granted to a role, for
// introspection endpoints.
func (c *Catalog) Permissions(role auth.Role) []string {
	perms := make([]string, 0, len(c.rolePermissions[role]))
	for p := range c.rolePermissions[role] {
		perms = append(perms, p)
	}
	return perms
}

func buildPermissionSet(src map[auth.Role][]string) map[auth.Role]map[string]struct{} {
	out := make(map[auth.Role]map[string]struct{}, len(src))
	for role, perms := range src {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		out[role] = set
	}
	return out
}

func buildResourceSet(src map[string]map[auth.Role][]string) map[string]map[auth.Role]map[string]struct{} {
	out := make(map[string]map[auth.Role]map[string]struct{}, len(src))
	for resource, roles := range src {
		out[resource] = buildPermissionSet(roles)
	}
	return out
}
