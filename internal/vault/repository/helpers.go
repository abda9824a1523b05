// Package repository implements data persistence for the secret vault.
// Repositories support both PostgreSQL and MySQL. Cryptographic material is
// written and read as one atomic column group, and rotations are guarded by
// a compare-and-swap on the version column.
package repository

import (
	"encoding/json"

	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// secretColumns is the column list shared by every secret query, in scan order.
const secretColumns = `vault_id, owner_id, organization_id, secret_type, provider, name, description,
	encrypted_value, nonce, kek_salt, wrapped_dek, dek_nonce,
	version, tags, metadata, is_active, expires_at, rotation_enabled, rotation_interval_days,
	access_count, last_accessed_at, created_at, updated_at`

// marshalTags encodes tags as JSON, NULL when empty.
func marshalTags(tags []string) ([]byte, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tags")
	}
	return data, nil
}

// marshalMetadata encodes metadata as JSON, NULL when empty.
func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal metadata")
	}
	return data, nil
}

// scanSecret scans one secret row in secretColumns order.
func scanSecret(scanner rowScanner) (*vaultDomain.SecretRecord, error) {
	var secret vaultDomain.SecretRecord
	var tagsRaw, metadataRaw []byte

	err := scanner.Scan(
		&secret.VaultID,
		&secret.OwnerID,
		&secret.OrganizationID,
		&secret.SecretType,
		&secret.Provider,
		&secret.Name,
		&secret.Description,
		&secret.EncryptedValue,
		&secret.Nonce,
		&secret.KekSalt,
		&secret.WrappedDek,
		&secret.DekNonce,
		&secret.Version,
		&tagsRaw,
		&metadataRaw,
		&secret.IsActive,
		&secret.ExpiresAt,
		&secret.RotationEnabled,
		&secret.RotationIntervalDays,
		&secret.AccessCount,
		&secret.LastAccessedAt,
		&secret.CreatedAt,
		&secret.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &secret.Tags); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal tags")
		}
	}
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &secret.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal metadata")
		}
	}

	return &secret, nil
}

// shareColumns is the column list shared by every share query, in scan order.
const shareColumns = `share_id, vault_id, owner_id, grantee_user_id, grantee_org_id,
	permission, expires_at, is_active, created_at`

// scanShare scans one share grant row in shareColumns order.
func scanShare(scanner rowScanner) (*vaultDomain.ShareGrant, error) {
	var grant vaultDomain.ShareGrant

	err := scanner.Scan(
		&grant.ShareID,
		&grant.VaultID,
		&grant.OwnerID,
		&grant.GranteeUserID,
		&grant.GranteeOrgID,
		&grant.Permission,
		&grant.ExpiresAt,
		&grant.IsActive,
		&grant.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &grant, nil
}

// auditColumns is the column list shared by every audit query, in scan order.
const auditColumns = `log_id, vault_id, actor_id, action, success, error_reason, metadata, created_at`

// scanAuditEntry scans one audit row in auditColumns order.
func scanAuditEntry(scanner rowScanner) (*vaultDomain.AuditEntry, error) {
	var entry vaultDomain.AuditEntry
	var metadataRaw []byte

	err := scanner.Scan(
		&entry.LogID,
		&entry.VaultID,
		&entry.ActorID,
		&entry.Action,
		&entry.Success,
		&entry.ErrorReason,
		&metadataRaw,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &entry.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit metadata")
		}
	}

	return &entry, nil
}
