package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"

	"github.com/yoldosh/admin-api/internal/shared"
)

// Service wraps authentication and profile-resolution business rules.
type Service struct {
	repo    Repository
	tokens  *TokenStore
	profile singleflight.Group
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates credentials for a track and issues a bearer token. The
// error is uniform across unknown email, wrong password, deactivated
// account and insufficient role, so responses never leak which applied.
func (s *Service) Login(ctx context.Context, scope Scope, email, password string) (shared.Principal, string, error) {
	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Principal{}, "", shared.ErrInvalidCredentials
		}
		return shared.Principal{}, "", fmt.Errorf("auth: find admin: %w", err)
	}
	if !admin.IsActive {
		return shared.Principal{}, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return shared.Principal{}, "", shared.ErrInvalidCredentials
	}
	if !admin.Role.Satisfies(scope.RequiredRole()) {
		return shared.Principal{}, "", shared.ErrInvalidCredentials
	}

	token := GenerateToken()
	if err := s.tokens.Save(ctx, scope, token, admin.ID); err != nil {
		return shared.Principal{}, "", err
	}

	perms, err := s.loadPermissions(ctx, admin)
	if err != nil {
		return shared.Principal{}, "", err
	}
	return admin.Principal(perms), token, nil
}

// Profile resolves a bearer token to its principal. Concurrent
// resolutions of the same token collapse into one lookup; the call is
// idempotent so a superseded result is safe to share.
func (s *Service) Profile(ctx context.Context, scope Scope, token string) (shared.Principal, error) {
	v, err, _ := s.profile.Do(string(scope)+":"+token, func() (any, error) {
		return s.resolveProfile(ctx, scope, token)
	})
	if err != nil {
		return shared.Principal{}, err
	}
	return v.(shared.Principal), nil
}

func (s *Service) resolveProfile(ctx context.Context, scope Scope, token string) (shared.Principal, error) {
	adminID, err := s.tokens.Resolve(ctx, scope, token)
	if err != nil {
		return shared.Principal{}, err
	}
	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Principal{}, shared.ErrUnauthorized
		}
		return shared.Principal{}, fmt.Errorf("auth: load admin: %w", err)
	}
	if !admin.IsActive {
		return shared.Principal{}, shared.ErrUnauthorized
	}
	perms, err := s.loadPermissions(ctx, admin)
	if err != nil {
		return shared.Principal{}, err
	}
	return admin.Principal(perms), nil
}

// Logout removes the bearer token. Logging out an already-cleared token
// is a no-op, so a double logout never fails.
func (s *Service) Logout(ctx context.Context, scope Scope, token string) error {
	return s.tokens.Clear(ctx, scope, token)
}

// DiscardCredential clears a token detected as invalid mid-use.
func (s *Service) DiscardCredential(ctx context.Context, scope Scope, token string) error {
	return s.tokens.Clear(ctx, scope, token)
}

// RevokeAll ends every session held by an admin account.
func (s *Service) RevokeAll(ctx context.Context, adminID string) error {
	return s.tokens.ClearAll(ctx, adminID)
}

func (s *Service) loadPermissions(ctx context.Context, admin *Admin) (map[string]bool, error) {
	if admin.Role != shared.RoleAdmin {
		return nil, nil
	}
	perms, err := s.repo.Permissions(ctx, admin.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: load permissions: %w", err)
	}
	return perms, nil
}
