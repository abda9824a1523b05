package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	"github.com/xenoISA/isa-vault/internal/metrics"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// auditUseCase implements the AuditUseCase interface.
type auditUseCase struct {
	auditRepo  AuditRepository
	secretRepo SecretRepository
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
}

// Record appends an audit entry. The write is best-effort: the audit trail
// must never block or roll back the operation it records, so failures are
// logged at Warn and counted on the audit write failure metric instead of
// being returned.
func (a *auditUseCase) Record(ctx context.Context, entry *vaultDomain.AuditEntry) {
	if entry.LogID == uuid.Nil {
		entry.LogID = uuid.Must(uuid.NewV7())
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		if entry.Metadata == nil {
			entry.Metadata = map[string]any{}
		}
		entry.Metadata["request_id"] = requestID
	}

	if err := a.auditRepo.Create(ctx, entry); err != nil {
		a.logger.Warn("audit write failed",
			slog.String("vault_id", entry.VaultID.String()),
			slog.String("action", string(entry.Action)),
			slog.String("actor_id", entry.ActorID),
			slog.Any("error", err),
		)
		a.metrics.RecordAuditWriteFailure(ctx, string(entry.Action))
	}
}

// ListByVault returns the audit trail of one secret. Only the secret's owner
// may read it.
func (a *auditUseCase) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	secret, err := a.secretRepo.Get(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	if !secret.IsOwner(caller.ID) {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, "only the owner may read the audit trail")
	}

	return a.auditRepo.ListByVault(ctx, vaultID, offset, limit)
}

// ListByActor returns the caller's own actor trail.
func (a *auditUseCase) ListByActor(
	ctx context.Context,
	caller vaultDomain.Caller,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	return a.auditRepo.ListByActor(ctx, caller.ID, offset, limit)
}

// NewAuditUseCase creates a new audit use case instance with the provided dependencies.
func NewAuditUseCase(
	auditRepo AuditRepository,
	secretRepo SecretRepository,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) AuditUseCase {
	return &auditUseCase{
		auditRepo:  auditRepo,
		secretRepo: secretRepo,
		metrics:    businessMetrics,
		logger:     logger,
	}
}
