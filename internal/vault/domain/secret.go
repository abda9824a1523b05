// Package domain defines the core domain models for the secret vault.
// A secret is an encrypted credential with a stable identity, explicit
// versioning, owner-scoped envelope encryption, and revocable sharing.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SecretType classifies the kind of credential stored in a secret.
type SecretType string

// Supported secret types.
const (
	SecretTypeAPIKey              SecretType = "api_key"
	SecretTypeDatabaseCredential  SecretType = "database_credential"
	SecretTypeSSHKey              SecretType = "ssh_key"
	SecretTypeCertificate         SecretType = "certificate"
	SecretTypeOAuthToken          SecretType = "oauth_token"
	SecretTypeCloudCredential     SecretType = "cloud_credential"
	SecretTypeBlockchainKey       SecretType = "blockchain_key"
	SecretTypeEnvironmentVariable SecretType = "environment_variable"
	SecretTypeCustom              SecretType = "custom"
)

// SecretTypes lists every valid secret type, for validation at the boundary.
var SecretTypes = []SecretType{
	SecretTypeAPIKey,
	SecretTypeDatabaseCredential,
	SecretTypeSSHKey,
	SecretTypeCertificate,
	SecretTypeOAuthToken,
	SecretTypeCloudCredential,
	SecretTypeBlockchainKey,
	SecretTypeEnvironmentVariable,
	SecretTypeCustom,
}

// Valid reports whether t is a known secret type.
func (t SecretType) Valid() bool {
	for _, known := range SecretTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SecretRecord represents one version of an encrypted secret.
//
// VaultID is the stable identity: it never changes across rotations. The
// five cryptographic fields (EncryptedValue, Nonce, KekSalt, WrappedDek,
// DekNonce) are always written and read as one atomic unit; a record must
// never pair a stale nonce or salt with new ciphertext.
//
// Owner and organization identifiers are opaque strings validated by the
// platform's identity services, not by this subsystem.
type SecretRecord struct {
	// VaultID is the unique, rotation-stable identifier of the secret.
	VaultID uuid.UUID
	// OwnerID identifies the owning caller (opaque, no referential integrity here).
	OwnerID string
	// OrganizationID optionally scopes the secret to an organization.
	OrganizationID string
	// SecretType classifies the stored credential.
	SecretType SecretType
	// Provider is a free-form classification (e.g., "aws", "stripe").
	Provider string
	// Name is the human-readable label.
	Name string
	// Description is optional prose about the secret.
	Description string

	// EncryptedValue is the payload ciphertext with authentication tag.
	EncryptedValue []byte
	// Nonce is the 96-bit nonce used for the payload encryption.
	Nonce []byte
	// KekSalt is the random salt the owner's KEK was derived with for this version.
	KekSalt []byte
	// WrappedDek is the per-version DEK encrypted under the owner's KEK.
	WrappedDek []byte
	// DekNonce is the 96-bit nonce used when wrapping the DEK.
	DekNonce []byte

	// Plaintext holds the decrypted value in memory only; must be zeroed after use.
	Plaintext []byte `json:"-"`

	// Version increases by one on every rotation, starting at 1.
	Version uint
	// Tags is a set of free-form labels.
	Tags []string
	// Metadata holds provider-specific attributes, validated only at the boundary.
	Metadata map[string]any
	// IsActive is false once the secret has been soft-deactivated.
	IsActive bool
	// ExpiresAt optionally marks when the credential itself expires.
	ExpiresAt *time.Time
	// RotationEnabled indicates the owner wants scheduled rotation.
	RotationEnabled bool
	// RotationIntervalDays is the desired rotation cadence when enabled.
	RotationIntervalDays int
	// AccessCount counts plaintext releases.
	AccessCount uint
	// LastAccessedAt is the UTC timestamp of the last plaintext release.
	LastAccessedAt *time.Time
	// CreatedAt is the UTC timestamp of version 1.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last mutation.
	UpdatedAt time.Time
}

// Masked returns a copy of the record without cryptographic material or
// plaintext, suitable for metadata-only responses and listings.
func (s *SecretRecord) Masked() *SecretRecord {
	masked := *s
	masked.EncryptedValue = nil
	masked.Nonce = nil
	masked.KekSalt = nil
	masked.WrappedDek = nil
	masked.DekNonce = nil
	masked.Plaintext = nil
	return &masked
}

// IsOwner reports whether callerID owns this secret.
func (s *SecretRecord) IsOwner(callerID string) bool {
	return callerID != "" && s.OwnerID == callerID
}

// SecretFilter narrows List results. Zero values mean no filtering.
type SecretFilter struct {
	SecretType SecretType
	Tag        string
}
