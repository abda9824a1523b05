package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/xenoISA/isa-vault/internal/crypto/service"
	"github.com/xenoISA/isa-vault/internal/database"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// secretUseCase implements the SecretUseCase interface.
type secretUseCase struct {
	txManager  database.TxManager
	secretRepo SecretRepository
	shareRepo  ShareRepository
	envelope   cryptoService.Envelope
	authorizer ShareUseCase
	auditor    AuditUseCase
	logger     *slog.Logger
}

// Create encrypts the plaintext and persists version 1 of a new secret owned
// by the caller. The returned record is masked.
func (s *secretUseCase) Create(ctx context.Context, input CreateSecretInput) (*vaultDomain.SecretRecord, error) {
	vaultID := uuid.Must(uuid.NewV7())

	var auditErr error
	defer func() {
		s.auditor.Record(ctx, &vaultDomain.AuditEntry{
			VaultID:     vaultID,
			ActorID:     input.Caller.ID,
			Action:      vaultDomain.ActionCreate,
			Success:     auditErr == nil,
			ErrorReason: errorReason(auditErr),
			Metadata: map[string]any{
				"secret_type": string(input.SecretType),
				"name":        input.Name,
			},
		})
	}()

	if !input.SecretType.Valid() {
		auditErr = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid secret type")
		return nil, auditErr
	}
	if len(input.Plaintext) == 0 {
		auditErr = apperrors.Wrap(apperrors.ErrInvalidInput, "secret value is required")
		return nil, auditErr
	}

	unit, err := s.envelope.EncryptSecret(ctx, input.Caller.ID, input.Plaintext)
	if err != nil {
		auditErr = err
		return nil, auditErr
	}

	now := time.Now().UTC()
	secret := &vaultDomain.SecretRecord{
		VaultID:              vaultID,
		OwnerID:              input.Caller.ID,
		OrganizationID:       input.OrganizationID,
		SecretType:           input.SecretType,
		Provider:             input.Provider,
		Name:                 input.Name,
		Description:          input.Description,
		EncryptedValue:       unit.Ciphertext,
		Nonce:                unit.Nonce,
		KekSalt:              unit.KekSalt,
		WrappedDek:           unit.WrappedDek,
		DekNonce:             unit.DekNonce,
		Version:              1,
		Tags:                 input.Tags,
		Metadata:             input.Metadata,
		IsActive:             true,
		ExpiresAt:            input.ExpiresAt,
		RotationEnabled:      input.RotationEnabled,
		RotationIntervalDays: input.RotationIntervalDays,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.secretRepo.Create(ctx, secret); err != nil {
		auditErr = err
		return nil, auditErr
	}

	return secret.Masked(), nil
}

// Get retrieves a secret the caller owns or has a read grant for. With
// decrypt set, the plaintext is released in the Plaintext field and the
// access counters are touched; otherwise the record is masked and no
// cryptography runs.
func (s *secretUseCase) Get(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	decrypt bool,
) (*vaultDomain.SecretRecord, error) {
	var auditErr error
	defer func() {
		s.auditor.Record(ctx, &vaultDomain.AuditEntry{
			VaultID:     vaultID,
			ActorID:     caller.ID,
			Action:      vaultDomain.ActionRead,
			Success:     auditErr == nil,
			ErrorReason: errorReason(auditErr),
			Metadata: map[string]any{
				"decrypted": decrypt,
			},
		})
	}()

	secret, err := s.getActive(ctx, vaultID)
	if err != nil {
		auditErr = err
		return nil, auditErr
	}

	if err := s.authorizer.Authorize(ctx, secret, caller, vaultDomain.PermissionRead); err != nil {
		auditErr = err
		return nil, auditErr
	}

	if !decrypt {
		return secret.Masked(), nil
	}

	plaintext, err := s.envelope.DecryptSecret(ctx, secret.OwnerID, &cryptoService.EnvelopeUnit{
		Ciphertext: secret.EncryptedValue,
		Nonce:      secret.Nonce,
		KekSalt:    secret.KekSalt,
		WrappedDek: secret.WrappedDek,
		DekNonce:   secret.DekNonce,
	})
	if err != nil {
		auditErr = err
		return nil, auditErr
	}

	// Access counters are best-effort and never fail a read.
	if err := s.secretRepo.TouchAccess(ctx, vaultID); err != nil {
		s.logger.Warn("access counter update failed",
			slog.String("vault_id", vaultID.String()),
			slog.Any("error", err),
		)
	}

	result := secret.Masked()
	result.Plaintext = plaintext

	return result, nil
}

// List returns masked records owned by the caller.
func (s *secretUseCase) List(
	ctx context.Context,
	caller vaultDomain.Caller,
	filter vaultDomain.SecretFilter,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	secrets, err := s.secretRepo.ListByOwner(ctx, caller.ID, filter, offset, limit)
	if err != nil {
		return nil, err
	}

	masked := make([]*vaultDomain.SecretRecord, len(secrets))
	for i, secret := range secrets {
		masked[i] = secret.Masked()
	}

	return masked, nil
}

// UpdateMetadata mutates the non-cryptographic fields of a secret. The
// version does not change; cryptographic material is untouched. Owner only.
func (s *secretUseCase) UpdateMetadata(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	input UpdateMetadataInput,
) (*vaultDomain.SecretRecord, error) {
	var auditErr error
	defer func() {
		s.auditor.Record(ctx, &vaultDomain.AuditEntry{
			VaultID:     vaultID,
			ActorID:     caller.ID,
			Action:      vaultDomain.ActionUpdate,
			Success:     auditErr == nil,
			ErrorReason: errorReason(auditErr),
		})
	}()

	secret, err := s.getActive(ctx, vaultID)
	if err != nil {
		auditErr = err
		return nil, auditErr
	}
	if !secret.IsOwner(caller.ID) {
		auditErr = apperrors.Wrap(apperrors.ErrForbidden, "only the owner may update a secret")
		return nil, auditErr
	}

	if input.Name != nil {
		secret.Name = *input.Name
	}
	if input.Description != nil {
		secret.Description = *input.Description
	}
	if input.Tags != nil {
		secret.Tags = *input.Tags
	}
	if input.Metadata != nil {
		secret.Metadata = *input.Metadata
	}
	if input.ExpiresAt != nil {
		secret.ExpiresAt = input.ExpiresAt
	}
	if input.RotationEnabled != nil {
		secret.RotationEnabled = *input.RotationEnabled
	}
	if input.RotationIntervalDays != nil {
		secret.RotationIntervalDays = *input.RotationIntervalDays
	}
	secret.UpdatedAt = time.Now().UTC()

	if err := s.secretRepo.UpdateMetadata(ctx, secret); err != nil {
		auditErr = err
		return nil, auditErr
	}

	return secret.Masked(), nil
}

// Rotate replaces the secret value under a fresh DEK, nonce and KEK salt,
// bumping the version by one. The write is guarded by a compare-and-swap on
// the version observed at read time; losing the race returns
// ErrVersionConflict and the caller may retry. The previous value is never
// decrypted. Owner or read_write grantee.
func (s *secretUseCase) Rotate(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	newPlaintext []byte,
) (*vaultDomain.SecretRecord, error) {
	var auditErr error
	defer func() {
		s.auditor.Record(ctx, &vaultDomain.AuditEntry{
			VaultID:     vaultID,
			ActorID:     caller.ID,
			Action:      vaultDomain.ActionRotate,
			Success:     auditErr == nil,
			ErrorReason: errorReason(auditErr),
		})
	}()

	if len(newPlaintext) == 0 {
		auditErr = apperrors.Wrap(apperrors.ErrInvalidInput, "secret value is required")
		return nil, auditErr
	}

	secret, err := s.getActive(ctx, vaultID)
	if err != nil {
		auditErr = err
		return nil, auditErr
	}

	if err := s.authorizer.Authorize(ctx, secret, caller, vaultDomain.PermissionReadWrite); err != nil {
		auditErr = err
		return nil, auditErr
	}

	// The envelope is always built for the owner, not the acting grantee,
	// so the owner's derived key keeps opening the secret after rotation.
	unit, err := s.envelope.EncryptSecret(ctx, secret.OwnerID, newPlaintext)
	if err != nil {
		auditErr = err
		return nil, auditErr
	}

	observedVersion := secret.Version
	secret.EncryptedValue = unit.Ciphertext
	secret.Nonce = unit.Nonce
	secret.KekSalt = unit.KekSalt
	secret.WrappedDek = unit.WrappedDek
	secret.DekNonce = unit.DekNonce
	secret.Version = observedVersion + 1
	secret.UpdatedAt = time.Now().UTC()

	if err := s.secretRepo.UpdateCrypto(ctx, secret, observedVersion); err != nil {
		auditErr = err
		return nil, auditErr
	}

	return secret.Masked(), nil
}

// Deactivate soft-deletes the secret. Owner only.
func (s *secretUseCase) Deactivate(ctx context.Context, vaultID uuid.UUID, caller vaultDomain.Caller) error {
	return s.Delete(ctx, vaultID, caller, false)
}

// Delete removes the secret. With permanent set, the row and its share grants
// are purged in one transaction; otherwise the secret is deactivated and its
// encrypted row is retained. Owner only.
func (s *secretUseCase) Delete(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	permanent bool,
) error {
	var auditErr error
	defer func() {
		s.auditor.Record(ctx, &vaultDomain.AuditEntry{
			VaultID:     vaultID,
			ActorID:     caller.ID,
			Action:      vaultDomain.ActionDelete,
			Success:     auditErr == nil,
			ErrorReason: errorReason(auditErr),
			Metadata: map[string]any{
				"permanent": permanent,
			},
		})
	}()

	secret, err := s.secretRepo.Get(ctx, vaultID)
	if err != nil {
		auditErr = err
		return auditErr
	}
	if !secret.IsOwner(caller.ID) {
		auditErr = apperrors.Wrap(apperrors.ErrForbidden, "only the owner may delete a secret")
		return auditErr
	}

	if !permanent {
		if !secret.IsActive {
			auditErr = vaultDomain.ErrSecretInactive
			return auditErr
		}
		if err := s.secretRepo.Deactivate(ctx, vaultID); err != nil {
			auditErr = err
			return auditErr
		}
		return nil
	}

	// Purge the row and its grants together so no orphaned grant can
	// reference a vanished secret.
	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.shareRepo.DeleteByVault(txCtx, vaultID); err != nil {
			return err
		}
		return s.secretRepo.Delete(txCtx, vaultID)
	})
	if err != nil {
		auditErr = err
		return auditErr
	}

	return nil
}

// getActive loads a secret and rejects deactivated ones.
func (s *secretUseCase) getActive(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.SecretRecord, error) {
	secret, err := s.secretRepo.Get(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	if !secret.IsActive {
		return nil, vaultDomain.ErrSecretInactive
	}
	return secret, nil
}

// NewSecretUseCase creates a new secret use case instance with the provided dependencies.
func NewSecretUseCase(
	txManager database.TxManager,
	secretRepo SecretRepository,
	shareRepo ShareRepository,
	envelope cryptoService.Envelope,
	authorizer ShareUseCase,
	auditor AuditUseCase,
	logger *slog.Logger,
) SecretUseCase {
	return &secretUseCase{
		txManager:  txManager,
		secretRepo: secretRepo,
		shareRepo:  shareRepo,
		envelope:   envelope,
		authorizer: authorizer,
		auditor:    auditor,
		logger:     logger,
	}
}
