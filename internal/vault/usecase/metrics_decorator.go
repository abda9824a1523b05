package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xenoISA/isa-vault/internal/metrics"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration histogram for one call.
func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "vault", operation, status)
	s.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// Create records metrics for secret creation operations.
func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*vaultDomain.SecretRecord, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

// Get records metrics for secret retrieval operations.
func (s *secretUseCaseWithMetrics) Get(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	decrypt bool,
) (*vaultDomain.SecretRecord, error) {
	start := time.Now()
	secret, err := s.next.Get(ctx, vaultID, caller, decrypt)
	s.record(ctx, "secret_get", start, err)
	return secret, err
}

// List records metrics for secret listing operations.
func (s *secretUseCaseWithMetrics) List(
	ctx context.Context,
	caller vaultDomain.Caller,
	filter vaultDomain.SecretFilter,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	start := time.Now()
	secrets, err := s.next.List(ctx, caller, filter, offset, limit)
	s.record(ctx, "secret_list", start, err)
	return secrets, err
}

// UpdateMetadata records metrics for metadata update operations.
func (s *secretUseCaseWithMetrics) UpdateMetadata(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	input UpdateMetadataInput,
) (*vaultDomain.SecretRecord, error) {
	start := time.Now()
	secret, err := s.next.UpdateMetadata(ctx, vaultID, caller, input)
	s.record(ctx, "secret_update_metadata", start, err)
	return secret, err
}

// Rotate records metrics for rotation operations.
func (s *secretUseCaseWithMetrics) Rotate(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	newPlaintext []byte,
) (*vaultDomain.SecretRecord, error) {
	start := time.Now()
	secret, err := s.next.Rotate(ctx, vaultID, caller, newPlaintext)
	s.record(ctx, "secret_rotate", start, err)
	return secret, err
}

// Deactivate records metrics for deactivation operations.
func (s *secretUseCaseWithMetrics) Deactivate(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
) error {
	start := time.Now()
	err := s.next.Deactivate(ctx, vaultID, caller)
	s.record(ctx, "secret_deactivate", start, err)
	return err
}

// Delete records metrics for deletion operations.
func (s *secretUseCaseWithMetrics) Delete(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	permanent bool,
) error {
	start := time.Now()
	err := s.next.Delete(ctx, vaultID, caller, permanent)
	s.record(ctx, "secret_delete", start, err)
	return err
}
