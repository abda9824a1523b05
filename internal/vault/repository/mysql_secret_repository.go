package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/xenoISA/isa-vault/internal/database"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// MySQLSecretRepository implements SecretRecord persistence for MySQL databases.
type MySQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new secret into the MySQL database.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *vaultDomain.SecretRecord) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO vault_secrets (vault_id, owner_id, organization_id, secret_type, provider, name, description,
			  encrypted_value, nonce, kek_salt, wrapped_dek, dek_nonce,
			  version, tags, metadata, is_active, expires_at, rotation_enabled, rotation_interval_days,
			  access_count, last_accessed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	vaultID, err := secret.VaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	tags, err := marshalTags(secret.Tags)
	if err != nil {
		return err
	}
	metadata, err := marshalMetadata(secret.Metadata)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		vaultID,
		secret.OwnerID,
		secret.OrganizationID,
		secret.SecretType,
		secret.Provider,
		secret.Name,
		secret.Description,
		secret.EncryptedValue,
		secret.Nonce,
		secret.KekSalt,
		secret.WrappedDek,
		secret.DekNonce,
		secret.Version,
		tags,
		metadata,
		secret.IsActive,
		secret.ExpiresAt,
		secret.RotationEnabled,
		secret.RotationIntervalDays,
		secret.AccessCount,
		secret.LastAccessedAt,
		secret.CreatedAt,
		secret.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}

	return nil
}

// Get retrieves a secret by its vault id.
func (m *MySQLSecretRepository) Get(
	ctx context.Context,
	vaultID uuid.UUID,
) (*vaultDomain.SecretRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + secretColumns + `
			  FROM vault_secrets
			  WHERE vault_id = ?
			  LIMIT 1`

	id, err := vaultID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal vault id")
	}

	secret, err := scanSecret(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vaultDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}

	return secret, nil
}

// ListByOwner retrieves the owner's secrets ordered by creation time, with
// optional type and tag filters.
func (m *MySQLSecretRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	filter vaultDomain.SecretFilter,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + secretColumns + `
			  FROM vault_secrets
			  WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.SecretType != "" {
		query += ` AND secret_type = ?`
		args = append(args, filter.SecretType)
	}
	if filter.Tag != "" {
		tag, err := marshalTags([]string{filter.Tag})
		if err != nil {
			return nil, err
		}
		query += ` AND JSON_CONTAINS(tags, ?)`
		args = append(args, tag)
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()

	var secrets []*vaultDomain.SecretRecord
	for rows.Next() {
		secret, err := scanSecret(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}

	return secrets, nil
}

// UpdateMetadata persists the mutable metadata fields. Cryptographic columns
// and the version are untouched.
func (m *MySQLSecretRepository) UpdateMetadata(
	ctx context.Context,
	secret *vaultDomain.SecretRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE vault_secrets
			  SET name = ?, description = ?, tags = ?, metadata = ?, expires_at = ?,
			      rotation_enabled = ?, rotation_interval_days = ?, updated_at = ?
			  WHERE vault_id = ?`

	vaultID, err := secret.VaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	tags, err := marshalTags(secret.Tags)
	if err != nil {
		return err
	}
	metadata, err := marshalMetadata(secret.Metadata)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		secret.Name,
		secret.Description,
		tags,
		metadata,
		secret.ExpiresAt,
		secret.RotationEnabled,
		secret.RotationIntervalDays,
		secret.UpdatedAt,
		vaultID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret metadata")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check update result")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrSecretNotFound
	}

	return nil
}

// UpdateCrypto atomically replaces the cryptographic column group and bumps
// the version, guarded by a compare-and-swap on observedVersion. Zero rows
// affected means the observed version was superseded by a concurrent rotation.
func (m *MySQLSecretRepository) UpdateCrypto(
	ctx context.Context,
	secret *vaultDomain.SecretRecord,
	observedVersion uint,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE vault_secrets
			  SET encrypted_value = ?, nonce = ?, kek_salt = ?, wrapped_dek = ?, dek_nonce = ?,
			      version = ?, updated_at = ?
			  WHERE vault_id = ? AND version = ?`

	vaultID, err := secret.VaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	result, err := querier.ExecContext(
		ctx,
		query,
		secret.EncryptedValue,
		secret.Nonce,
		secret.KekSalt,
		secret.WrappedDek,
		secret.DekNonce,
		secret.Version,
		secret.UpdatedAt,
		vaultID,
		observedVersion,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to rotate secret")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check rotation result")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrVersionConflict
	}

	return nil
}

// Deactivate performs a soft delete by clearing is_active.
func (m *MySQLSecretRepository) Deactivate(ctx context.Context, vaultID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE vault_secrets
			  SET is_active = FALSE, updated_at = ?
			  WHERE vault_id = ?`

	id, err := vaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	result, err := querier.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to deactivate secret")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check deactivation result")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrSecretNotFound
	}

	return nil
}

// Delete permanently removes the secret row.
func (m *MySQLSecretRepository) Delete(ctx context.Context, vaultID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM vault_secrets WHERE vault_id = ?`

	id, err := vaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	_, err = querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}

	return nil
}

// TouchAccess increments access_count and stamps last_accessed_at.
func (m *MySQLSecretRepository) TouchAccess(ctx context.Context, vaultID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE vault_secrets
			  SET access_count = access_count + 1, last_accessed_at = ?
			  WHERE vault_id = ?`

	id, err := vaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	_, err = querier.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch secret access")
	}

	return nil
}

// NewMySQLSecretRepository creates a new MySQL SecretRecord repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}
