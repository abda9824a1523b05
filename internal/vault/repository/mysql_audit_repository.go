package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/xenoISA/isa-vault/internal/database"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// MySQLAuditRepository implements append-only AuditEntry persistence for
// MySQL databases. Entries are never updated or deleted.
type MySQLAuditRepository struct {
	db *sql.DB
}

// Create appends an audit entry.
func (m *MySQLAuditRepository) Create(ctx context.Context, entry *vaultDomain.AuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO vault_audit_logs (log_id, vault_id, actor_id, action, success, error_reason, metadata, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	logID, err := entry.LogID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal log id")
	}

	vaultID, err := entry.VaultID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	metadata, err := marshalMetadata(entry.Metadata)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		logID,
		vaultID,
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
func (m *MySQLAuditRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + auditColumns + `
			  FROM vault_audit_logs
			  WHERE vault_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	id, err := vaultID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal vault id")
	}

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer rows.Close()

	return collectAuditEntries(rows)
}

// ListByActor retrieves the actor's trail across secrets, newest first.
func (m *MySQLAuditRepository) ListByActor(
	ctx context.Context,
	actorID string,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + auditColumns + `
			  FROM vault_audit_logs
			  WHERE actor_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, actorID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries by actor")
	}
	defer rows.Close()

	return collectAuditEntries(rows)
}

// NewMySQLAuditRepository creates a new MySQL AuditEntry repository instance.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}
