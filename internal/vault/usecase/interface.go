// Package usecase defines the interfaces and implementations for vault use cases.
// Use cases orchestrate operations between repositories and the envelope
// encryption service to implement the secret lifecycle, sharing resolution,
// and audit recording.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// SecretRepository defines the interface for SecretRecord persistence operations.
type SecretRepository interface {
	Create(ctx context.Context, secret *vaultDomain.SecretRecord) error
	Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.SecretRecord, error)
	ListByOwner(
		ctx context.Context,
		ownerID string,
		filter vaultDomain.SecretFilter,
		offset, limit int,
	) ([]*vaultDomain.SecretRecord, error)
	// UpdateMetadata persists the mutable metadata fields without touching
	// cryptographic material or the version.
	UpdateMetadata(ctx context.Context, secret *vaultDomain.SecretRecord) error
	// UpdateCrypto atomically replaces the five cryptographic fields and bumps
	// the version, guarded by a compare-and-swap on observedVersion. Returns
	// ErrVersionConflict when the observed version was superseded.
	UpdateCrypto(ctx context.Context, secret *vaultDomain.SecretRecord, observedVersion uint) error
	Deactivate(ctx context.Context, vaultID uuid.UUID) error
	Delete(ctx context.Context, vaultID uuid.UUID) error
	// TouchAccess increments access_count and stamps last_accessed_at.
	TouchAccess(ctx context.Context, vaultID uuid.UUID) error
}

// ShareRepository defines the interface for ShareGrant persistence operations.
type ShareRepository interface {
	Create(ctx context.Context, grant *vaultDomain.ShareGrant) error
	Get(ctx context.Context, shareID uuid.UUID) (*vaultDomain.ShareGrant, error)
	ListByVault(ctx context.Context, vaultID uuid.UUID) ([]*vaultDomain.ShareGrant, error)
	ListByGrantee(
		ctx context.Context,
		granteeUserID, granteeOrgID string,
		offset, limit int,
	) ([]*vaultDomain.ShareGrant, error)
	Revoke(ctx context.Context, shareID uuid.UUID) error
	DeleteByVault(ctx context.Context, vaultID uuid.UUID) error
}

// AuditRepository defines the interface for append-only audit log persistence.
type AuditRepository interface {
	Create(ctx context.Context, entry *vaultDomain.AuditEntry) error
	ListByVault(ctx context.Context, vaultID uuid.UUID, offset, limit int) ([]*vaultDomain.AuditEntry, error)
	ListByActor(ctx context.Context, actorID string, offset, limit int) ([]*vaultDomain.AuditEntry, error)
}

// CreateSecretInput carries the fields accepted when creating a secret.
type CreateSecretInput struct {
	Caller               vaultDomain.Caller
	OrganizationID       string
	SecretType           vaultDomain.SecretType
	Provider             string
	Name                 string
	Description          string
	Plaintext            []byte
	Tags                 []string
	Metadata             map[string]any
	ExpiresAt            *time.Time
	RotationEnabled      bool
	RotationIntervalDays int
}

// UpdateMetadataInput carries the optional metadata fields of an update.
// Nil pointers leave the corresponding field unchanged. Cryptographic fields
// and the version are never updatable through this path.
type UpdateMetadataInput struct {
	Name                 *string
	Description          *string
	Tags                 *[]string
	Metadata             *map[string]any
	ExpiresAt            *time.Time
	RotationEnabled      *bool
	RotationIntervalDays *int
}

// SecretUseCase defines the secret lifecycle business logic.
type SecretUseCase interface {
	// Create encrypts the plaintext and persists version 1 of a new secret.
	// The returned record is masked: it never carries cryptographic material
	// or plaintext.
	Create(ctx context.Context, input CreateSecretInput) (*vaultDomain.SecretRecord, error)
	// Get retrieves a secret the caller owns or has a grant for. With decrypt
	// set, the returned record carries the plaintext in the Plaintext field.
	//
	// Security Note: Callers MUST zero the plaintext after use by calling
	// cryptoDomain.Zero(secret.Plaintext).
	Get(ctx context.Context, vaultID uuid.UUID, caller vaultDomain.Caller, decrypt bool) (*vaultDomain.SecretRecord, error)
	// List returns masked records owned by the caller.
	List(
		ctx context.Context,
		caller vaultDomain.Caller,
		filter vaultDomain.SecretFilter,
		offset, limit int,
	) ([]*vaultDomain.SecretRecord, error)
	// UpdateMetadata mutates non-cryptographic fields without a version bump.
	UpdateMetadata(
		ctx context.Context,
		vaultID uuid.UUID,
		caller vaultDomain.Caller,
		input UpdateMetadataInput,
	) (*vaultDomain.SecretRecord, error)
	// Rotate replaces the secret value under a fresh key, bumping the version.
	// The previous value is never decrypted.
	Rotate(
		ctx context.Context,
		vaultID uuid.UUID,
		caller vaultDomain.Caller,
		newPlaintext []byte,
	) (*vaultDomain.SecretRecord, error)
	// Deactivate soft-deletes the secret. Owner only.
	Deactivate(ctx context.Context, vaultID uuid.UUID, caller vaultDomain.Caller) error
	// Delete removes the secret. With permanent set, the row and its share
	// grants are purged; otherwise the secret is deactivated. Owner only.
	Delete(ctx context.Context, vaultID uuid.UUID, caller vaultDomain.Caller, permanent bool) error
}

// CreateShareInput carries the fields accepted when sharing a secret.
type CreateShareInput struct {
	VaultID       uuid.UUID
	GranteeUserID string
	GranteeOrgID  string
	Permission    vaultDomain.Permission
	ExpiresAt     *time.Time
}

// ShareUseCase defines sharing resolution and grant management.
type ShareUseCase interface {
	// Authorize reports whether the caller may perform an operation requiring
	// the given permission on the secret. The owner is always authorized;
	// otherwise an active, unexpired grant must match the caller's user or
	// organization identity. Denial is ErrForbidden.
	Authorize(
		ctx context.Context,
		secret *vaultDomain.SecretRecord,
		caller vaultDomain.Caller,
		required vaultDomain.Permission,
	) error
	CreateShare(ctx context.Context, caller vaultDomain.Caller, input CreateShareInput) (*vaultDomain.ShareGrant, error)
	RevokeShare(ctx context.Context, shareID uuid.UUID, caller vaultDomain.Caller) error
	ListSharedWith(ctx context.Context, caller vaultDomain.Caller, offset, limit int) ([]*vaultDomain.ShareGrant, error)
}

// AuditUseCase defines audit trail recording and retrieval.
type AuditUseCase interface {
	// Record appends an audit entry best-effort: a failed write is logged and
	// counted on a metric but never propagated to the caller.
	Record(ctx context.Context, entry *vaultDomain.AuditEntry)
	// ListByVault returns the audit trail of one secret. Owner only.
	ListByVault(
		ctx context.Context,
		vaultID uuid.UUID,
		caller vaultDomain.Caller,
		offset, limit int,
	) ([]*vaultDomain.AuditEntry, error)
	// ListByActor returns the caller's own actor trail.
	ListByActor(ctx context.Context, caller vaultDomain.Caller, offset, limit int) ([]*vaultDomain.AuditEntry, error)
}
