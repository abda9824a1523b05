package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/xenoISA/isa-vault/internal/database"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// MySQLShareRepository implements ShareGrant persistence for MySQL databases.
type MySQLShareRepository struct {
	db *sql.DB
}

// Create inserts a new share grant into the MySQL database.
func (m *MySQLShareRepository) Create(ctx context.Context, grant *vaultDomain.ShareGrant) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO vault_shares (share_id, vault_id, owner_id, grantee_user_id, grantee_org_id,
			  permission, expires_at, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	shareID, err := grant.ShareID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share id")
	}

	vaultID, err := grant.VaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		shareID,
		vaultID,
		grant.OwnerID,
		grant.GranteeUserID,
		grant.GranteeOrgID,
		grant.Permission,
		grant.ExpiresAt,
		grant.IsActive,
		grant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create share")
	}

	return nil
}

// Get retrieves a share grant by its id.
func (m *MySQLShareRepository) Get(
	ctx context.Context,
	shareID uuid.UUID,
) (*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + shareColumns + `
			  FROM vault_shares
			  WHERE share_id = ?
			  LIMIT 1`

	id, err := shareID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal share id")
	}

	grant, err := scanShare(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vaultDomain.ErrShareNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share")
	}

	return grant, nil
}

// ListByVault retrieves every grant of one secret. Authorization evaluates
// activity and expiry in the domain, so no filtering happens here.
func (m *MySQLShareRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
) ([]*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + shareColumns + `
			  FROM vault_shares
			  WHERE vault_id = ?
			  ORDER BY created_at DESC`

	id, err := vaultID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal vault id")
	}

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares")
	}
	defer rows.Close()

	return collectShares(rows)
}

// ListByGrantee retrieves the active grants naming the given user or
// organization identity.
func (m *MySQLShareRepository) ListByGrantee(
	ctx context.Context,
	granteeUserID, granteeOrgID string,
	offset, limit int,
) ([]*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + shareColumns + `
			  FROM vault_shares
			  WHERE is_active = TRUE
			    AND ((grantee_user_id <> '' AND grantee_user_id = ?)
			      OR (grantee_org_id <> '' AND grantee_org_id = ?))
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, granteeUserID, granteeOrgID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares by grantee")
	}
	defer rows.Close()

	return collectShares(rows)
}

// Revoke deactivates a grant.
func (m *MySQLShareRepository) Revoke(ctx context.Context, shareID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE vault_shares SET is_active = FALSE WHERE share_id = ?`

	id, err := shareID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share id")
	}

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke share")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check revocation result")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrShareNotFound
	}

	return nil
}

// DeleteByVault removes every grant of one secret, used when purging it.
func (m *MySQLShareRepository) DeleteByVault(ctx context.Context, vaultID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM vault_shares WHERE vault_id = ?`

	id, err := vaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	_, err = querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete shares")
	}

	return nil
}

// NewMySQLShareRepository creates a new MySQL ShareGrant repository instance.
func NewMySQLShareRepository(db *sql.DB) *MySQLShareRepository {
	return &MySQLShareRepository{db: db}
}
