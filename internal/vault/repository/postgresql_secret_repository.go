package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xenoISA/isa-vault/internal/database"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// PostgreSQLSecretRepository implements SecretRecord persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new secret into the PostgreSQL database.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *vaultDomain.SecretRecord) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vault_secrets (vault_id, owner_id, organization_id, secret_type, provider, name, description,
			  encrypted_value, nonce, kek_salt, wrapped_dek, dek_nonce,
			  version, tags, metadata, is_active, expires_at, rotation_enabled, rotation_interval_days,
			  access_count, last_accessed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

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
		secret.VaultID,
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
func (p *PostgreSQLSecretRepository) Get(
	ctx context.Context,
	vaultID uuid.UUID,
) (*vaultDomain.SecretRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + secretColumns + `
			  FROM vault_secrets
			  WHERE vault_id = $1
			  LIMIT 1`

	secret, err := scanSecret(querier.QueryRowContext(ctx, query, vaultID))
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
func (p *PostgreSQLSecretRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	filter vaultDomain.SecretFilter,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + secretColumns + `
			  FROM vault_secrets
			  WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.SecretType != "" {
		args = append(args, filter.SecretType)
		query += fmt.Sprintf(` AND secret_type = $%d`, len(args))
	}
	if filter.Tag != "" {
		tag, err := marshalTags([]string{filter.Tag})
		if err != nil {
			return nil, err
		}
		args = append(args, tag)
		query += fmt.Sprintf(` AND tags @> $%d`, len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

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
func (p *PostgreSQLSecretRepository) UpdateMetadata(
	ctx context.Context,
	secret *vaultDomain.SecretRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_secrets
			  SET name = $1, description = $2, tags = $3, metadata = $4, expires_at = $5,
			      rotation_enabled = $6, rotation_interval_days = $7, updated_at = $8
			  WHERE vault_id = $9`

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
		secret.VaultID,
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
func (p *PostgreSQLSecretRepository) UpdateCrypto(
	ctx context.Context,
	secret *vaultDomain.SecretRecord,
	observedVersion uint,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_secrets
			  SET encrypted_value = $1, nonce = $2, kek_salt = $3, wrapped_dek = $4, dek_nonce = $5,
			      version = $6, updated_at = $7
			  WHERE vault_id = $8 AND version = $9`

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
		secret.VaultID,
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
func (p *PostgreSQLSecretRepository) Deactivate(ctx context.Context, vaultID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_secrets
			  SET is_active = FALSE, updated_at = $1
			  WHERE vault_id = $2`

	result, err := querier.ExecContext(ctx, query, time.Now().UTC(), vaultID)
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
func (p *PostgreSQLSecretRepository) Delete(ctx context.Context, vaultID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM vault_secrets WHERE vault_id = $1`

	_, err := querier.ExecContext(ctx, query, vaultID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}

	return nil
}

// TouchAccess increments access_count and stamps last_accessed_at.
func (p *PostgreSQLSecretRepository) TouchAccess(ctx context.Context, vaultID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_secrets
			  SET access_count = access_count + 1, last_accessed_at = $1
			  WHERE vault_id = $2`

	_, err := querier.ExecContext(ctx, query, time.Now().UTC(), vaultID)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch secret access")
	}

	return nil
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL SecretRecord repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}
