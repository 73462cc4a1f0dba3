package auth

import (
	"time"

	"github.com/yoldosh/admin-api/internal/shared"
)

// Admin represents an administrator account.
type Admin struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         shared.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal converts the account into the request-scoped principal.
// Permissions are attached separately; only Admin accounts carry them.
func (a *Admin) Principal(permissions map[string]bool) shared.Principal {
	p := shared.Principal{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
	}
	if a.Role == shared.RoleAdmin {
		p.Permissions = permissions
	}
	return p
}

// Scope identifies which authentication track a credential belongs to.
// Admin and SuperAdmin sessions live under independent key namespaces so
// revoking one track never disturbs the other.
type Scope string

const (
	ScopeAdmin      Scope = "admin"
	ScopeSuperAdmin Scope = "superadmin"
)

// RequiredRole returns the minimum role for logging into this track.
func (s Scope) RequiredRole() shared.Role {
	if s == ScopeSuperAdmin {
		return shared.RoleSuperAdmin
	}
	return shared.RoleAdmin
}
