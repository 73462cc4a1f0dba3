package admins

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yoldosh/admin-api/internal/platform/httpx"
	"github.com/yoldosh/admin-api/internal/shared"
)

// SessionRevoker ends every live session of an admin. Satisfied by the
// auth service.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, adminID string) error
}

// Service manages the admin roster on behalf of super admins.
type Service struct {
	repo       RepositoryPort
	sessions   SessionRevoker
	audit      *shared.AuditLogger
	bcryptCost int
}

func NewService(repo RepositoryPort, sessions SessionRevoker, audit *shared.AuditLogger, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, sessions: sessions, audit: audit, bcryptCost: bcryptCost}
}

// Create provisions an admin with a generated temporary password. The
// plaintext password is returned exactly once, for the super admin to
// hand over.
func (s *Service) Create(ctx context.Context, actor shared.Principal, email, firstName, lastName string) (Admin, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if email == "" || firstName == "" || lastName == "" {
		return Admin{}, "", httpx.ErrValidation
	}

	password, err := generatePassword()
	if err != nil {
		return Admin{}, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return Admin{}, "", err
	}

	a, err := s.repo.Create(ctx, email, firstName, lastName, string(hash))
	if err != nil {
		return Admin{}, "", err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "ADMIN_CREATED",
			Entity:   "admin",
			EntityID: a.ID,
			Details:  map[string]any{"email": email},
		})
	}
	return a, password, nil
}

func (s *Service) List(ctx context.Context, page, perPage int) ([]Admin, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	items, total, err := s.repo.List(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (Admin, error) {
	return s.repo.GetByID(ctx, id)
}

// Deactivate disables the account and immediately ends its sessions so
// the removed admin cannot keep an authenticated tab alive.
func (s *Service) Deactivate(ctx context.Context, actor shared.Principal, id string) error {
	if id == actor.ID {
		return httpx.ErrConflict
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	if s.sessions != nil {
		if err := s.sessions.RevokeAll(ctx, id); err != nil {
			return err
		}
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "ADMIN_DEACTIVATED",
			Entity:   "admin",
			EntityID: id,
		})
	}
	return nil
}

// Grant adds a permission from the server catalog to an admin.
func (s *Service) Grant(ctx context.Context, actor shared.Principal, adminID, permission string) (Admin, error) {
	if !shared.KnownPermission(permission) {
		return Admin{}, shared.ErrUnknownPermission
	}
	if err := s.repo.GrantPermission(ctx, adminID, permission); err != nil {
		return Admin{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "PERMISSION_GRANTED",
			Entity:   "admin",
			EntityID: adminID,
			Details:  map[string]any{"permission": permission},
		})
	}
	return s.repo.GetByID(ctx, adminID)
}

// Revoke removes a permission. Live sessions see the change on their
// next profile resolution.
func (s *Service) Revoke(ctx context.Context, actor shared.Principal, adminID, permission string) (Admin, error) {
	if !shared.KnownPermission(permission) {
		return Admin{}, shared.ErrUnknownPermission
	}
	if err := s.repo.RevokePermission(ctx, adminID, permission); err != nil {
		return Admin{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AdminLog{
			AdminID:  actor.ID,
			Action:   "PERMISSION_REVOKED",
			Entity:   "admin",
			EntityID: adminID,
			Details:  map[string]any{"permission": permission},
		})
	}
	return s.repo.GetByID(ctx, adminID)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

func generatePassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
