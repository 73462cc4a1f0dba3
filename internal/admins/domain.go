package admins

import (
	"time"

	"github.com/yoldosh/admin-api/internal/shared"
)

// Admin is a managed dashboard account, as seen by a super admin.
type Admin struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Role        shared.Role `json:"role"`
	IsActive    bool        `json:"isActive"`
	Permissions []string    `json:"permissions"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Stats summarizes the admin roster for the super admin home screen.
type Stats struct {
	TotalAdmins  int `json:"totalAdmins"`
	ActiveAdmins int `json:"activeAdmins"`
}
