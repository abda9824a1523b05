package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/xenoISA/isa-vault/internal/database"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// PostgreSQLShareRepository implements ShareGrant persistence for PostgreSQL databases.
type PostgreSQLShareRepository struct {
	db *sql.DB
}

// Create inserts a new share grant into the PostgreSQL database.
func (p *PostgreSQLShareRepository) Create(ctx context.Context, grant *vaultDomain.ShareGrant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vault_shares (share_id, vault_id, owner_id, grantee_user_id, grantee_org_id,
			  permission, expires_at, is_active, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		grant.ShareID,
		grant.VaultID,
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
func (p *PostgreSQLShareRepository) Get(
	ctx context.Context,
	shareID uuid.UUID,
) (*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + shareColumns + `
			  FROM vault_shares
			  WHERE share_id = $1
			  LIMIT 1`

	grant, err := scanShare(querier.QueryRowContext(ctx, query, shareID))
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
func (p *PostgreSQLShareRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
) ([]*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + shareColumns + `
			  FROM vault_shares
			  WHERE vault_id = $1
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares")
	}
	defer rows.Close()

	return collectShares(rows)
}

// ListByGrantee retrieves the active grants naming the given user or
// organization identity.
func (p *PostgreSQLShareRepository) ListByGrantee(
	ctx context.Context,
	granteeUserID, granteeOrgID string,
	offset, limit int,
) ([]*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + shareColumns + `
			  FROM vault_shares
			  WHERE is_active = TRUE
			    AND ((grantee_user_id <> '' AND grantee_user_id = $1)
			      OR (grantee_org_id <> '' AND grantee_org_id = $2))
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, granteeUserID, granteeOrgID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list shares by grantee")
	}
	defer rows.Close()

	return collectShares(rows)
}

// Revoke deactivates a grant.
func (p *PostgreSQLShareRepository) Revoke(ctx context.Context, shareID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_shares SET is_active = FALSE WHERE share_id = $1`

	result, err := querier.ExecContext(ctx, query, shareID)
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
func (p *PostgreSQLShareRepository) DeleteByVault(ctx context.Context, vaultID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM vault_shares WHERE vault_id = $1`

	_, err := querier.ExecContext(ctx, query, vaultID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete shares")
	}

	return nil
}

// NewPostgreSQLShareRepository creates a new PostgreSQL ShareGrant repository instance.
func NewPostgreSQLShareRepository(db *sql.DB) *PostgreSQLShareRepository {
	return &PostgreSQLShareRepository{db: db}
}

// collectShares drains rows into share grants.
func collectShares(rows *sql.Rows) ([]*vaultDomain.ShareGrant, error) {
	var grants []*vaultDomain.ShareGrant
	for rows.Next() {
		grant, err := scanShare(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan share")
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate shares")
	}
	return grants, nil
}
