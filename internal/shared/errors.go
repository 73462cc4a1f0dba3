package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates a missing, expired or revoked credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a valid credential with insufficient privileges.
	ErrForbidden = errors.New("forbidden")
	// ErrUnknownPermission indicates a permission name outside the catalog.
	ErrUnknownPermission = errors.New("unknown permission")
)
