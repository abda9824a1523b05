package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/xenoISA/isa-vault/internal/database"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// PostgreSQLAuditRepository implements append-only AuditEntry persistence for
// PostgreSQL databases. Entries are never updated or deleted.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// Create appends an audit entry.
func (p *PostgreSQLAuditRepository) Create(ctx context.Context, entry *vaultDomain.AuditEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vault_audit_logs (log_id, vault_id, actor_id, action, success, error_reason, metadata, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.LogID,
		entry.VaultID,
		entry.ActorID,
		entry.Action,
		entry.Success,
		entry.ErrorReason,
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}

	return nil
}

// ListByVault retrieves the audit trail of one secret, newest first.
func (p *PostgreSQLAuditRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + auditColumns + `
			  FROM vault_audit_logs
			  WHERE vault_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, vaultID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	return collectAuditEntries(rows)
}

// ListByActor retrieves the actor's trail across secrets, newest first.
func (p *PostgreSQLAuditRepository) ListByActor(
	ctx context.Context,
	actorID string,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + auditColumns + `
			  FROM vault_audit_logs
			  WHERE actor_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, actorID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries by actor")
	}
	defer rows.Close()

	return collectAuditEntries(rows)
}

// NewPostgreSQLAuditRepository creates a new PostgreSQL AuditEntry repository instance.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}

// collectAuditEntries drains rows into audit entries.
func collectAuditEntries(rows *sql.Rows) ([]*vaultDomain.AuditEntry, error) {
	var entries []*vaultDomain.AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}
	return entries, nil
}
