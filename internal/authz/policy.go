// Package authz centralizes the role- and tenant-scoped permission rules.
// Every rule is a pure function over the caller's role and clinic; handlers
// additionally require the caller's account to be active before consulting
// any of them.
package authz

import "github.com/paulo1403/ehr-solutions-renewed/internal/model"

// Caller is the identity a permission decision is evaluated for.
type Caller struct {
	Role     model.Role
	ClinicID string
}

// CanView reports whether the caller may read the target clinic.
// SUPER_ADMIN sees everything; everyone else only their own clinic.
func CanView(c Caller, targetClinicID string) bool {
	if c.Role == model.RoleSuperAdmin {
		return true
	}
	return c.ClinicID == targetClinicID
}

// CanModify reports whether the caller may update the target clinic.
// SUPER_ADMIN modifies any clinic; a CLINIC_ADMIN only its own.
func CanModify(c Caller, targetClinicID string) bool {
	if c.Role == model.RoleSuperAdmin {
		return true
	}
	return c.Role == model.RoleClinicAdmin && c.ClinicID == targetClinicID
}

// CanDelete reports whether the caller may deactivate the target clinic.
// Only SUPER_ADMIN, regardless of tenant.
func CanDelete(c Caller, targetClinicID string) bool {
	return c.Role == model.RoleSuperAdmin
}

// CanListAll reports whether the caller may enumerate every clinic.
func CanListAll(c Caller) bool {
	return c.Role == model.RoleSuperAdmin
}
