package auth

import "strings"

// Role is the closed set of tenant roles carried in access tokens.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Capability names an operation a role may be allowed to perform.
type Capability string

const (
	CapSubmitOwn             Capability = "submit_own"
	CapApproveTime           Capability = "approve_time"
	CapLockTime              Capability = "lock_time"
	CapApproveExpenses       Capability = "approve_expenses"
	CapManageCompanyExpenses Capability = "manage_company_expenses"
	CapViewCompanyExpenses   Capability = "view_company_expenses"
	CapViewAudit             Capability = "view_audit"
	CapViewTeam              Capability = "view_team"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapSubmitOwn:             true,
		CapApproveTime:           true,
		CapLockTime:              true,
		CapApproveExpenses:       true,
		CapManageCompanyExpenses: true,
		CapViewCompanyExpenses:   true,
		CapViewAudit:             true,
		CapViewTeam:              true,
	},
	RoleManager: {
		CapSubmitOwn:           true,
		CapViewCompanyExpenses: true,
		CapViewAudit:           true,
		CapViewTeam:            true,
	},
	RoleEmployee: {
		CapSubmitOwn: true,
	},
}

// ParseRole maps a raw claim to a Role. Unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleCapabilities[r]
	return r, ok
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}
