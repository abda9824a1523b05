package domain

import (
	"github.com/xenoISA/isa-vault/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrSecretNotFound indicates the secret does not exist or is not visible
	// to the caller.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrShareNotFound indicates the share grant does not exist.
	ErrShareNotFound = errors.Wrap(errors.ErrNotFound, "share not found")

	// ErrVersionConflict indicates a rotation lost an optimistic-concurrency
	// race: the version it observed was superseded before it committed.
	// Callers may retry with fresh state.
	ErrVersionConflict = errors.Wrap(errors.ErrConflict, "secret version conflict")

	// ErrInvalidGrantee indicates a share grant did not name exactly one of
	// grantee user or grantee organization.
	ErrInvalidGrantee = errors.Wrap(errors.ErrInvalidInput, "exactly one of grantee user or organization must be set")

	// ErrSecretInactive indicates the secret has been deactivated.
	ErrSecretInactive = errors.Wrap(errors.ErrNotFound, "secret is inactive")
)
