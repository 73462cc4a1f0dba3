package shared

// Role is the closed admin role enumeration, totally ordered by Level.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "SuperAdmin"
)

// Level maps a role to its position in the hierarchy. Unknown roles map
// to zero so they never satisfy any requirement.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 1
	case RoleSuperAdmin:
		return 2
	default:
		return 0
	}
}

// Satisfies reports whether r's access level subsumes required's. Every
// role comparison in the repo goes through here.
func (r Role) Satisfies(required Role) bool {
	return r.Level() >= required.Level()
}

// HomeRoute returns the landing route for a role. Unanticipated roles land
// on the login route.
func (r Role) HomeRoute() string {
	switch r {
	case RoleSuperAdmin:
		return "/super-admin"
	case RoleAdmin:
		return "/admin"
	default:
		return "/"
	}
}

// Principal is the authenticated actor attached to a request after the
// guard admits it.
type Principal struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Role        Role            `json:"role"`
	Permissions map[string]bool `json:"permissions,omitempty"`
}

// Allowed reports whether the principal may use the named feature area.
// SuperAdmin bypasses permission checks; for Admin, absent entries read
// as false.
func (p Principal) Allowed(permission string) bool {
	if p.Role == RoleSuperAdmin {
		return true
	}
	return p.Permissions[permission]
}
