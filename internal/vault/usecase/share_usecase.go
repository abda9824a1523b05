package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// shareUseCase implements the ShareUseCase interface.
type shareUseCase struct {
	shareRepo  ShareRepository
	secretRepo SecretRepository
	auditor    AuditUseCase
}

// Authorize resolves whether the caller may perform an operation requiring
// the given permission on the secret. The owner is always authorized. For
// anyone else the grants of the secret are scanned for an active, unexpired
// grant matching the caller's user or organization identity at the required
// level. Any failure to resolve denies access.
func (s *shareUseCase) Authorize(
	ctx context.Context,
	secret *vaultDomain.SecretRecord,
	caller vaultDomain.Caller,
	required vaultDomain.Permission,
) error {
	if !caller.Valid() {
		return apperrors.ErrUnauthorized
	}
	if secret.IsOwner(caller.ID) {
		return nil
	}

	grants, err := s.shareRepo.ListByVault(ctx, secret.VaultID)
	if err != nil {
		// Fail closed: an unresolvable grant set denies access.
		return apperrors.Wrap(apperrors.ErrForbidden, "access denied")
	}

	now := time.Now().UTC()
	for _, grant := range grants {
		if grant.Matches(caller.ID, caller.OrganizationID, required, now) {
			return nil
		}
	}

	return apperrors.Wrap(apperrors.ErrForbidden, "access denied")
}

// CreateShare creates a grant for the secret. Only the owner may share, and
// a grant names exactly one of grantee user or grantee organization.
func (s *shareUseCase) CreateShare(
	ctx context.Context,
	caller vaultDomain.Caller,
	input CreateShareInput,
) (*vaultDomain.ShareGrant, error) {
	var auditErr error
	defer func() {
		s.auditor.Record(ctx, &vaultDomain.AuditEntry{
			VaultID:     input.VaultID,
			ActorID:     caller.ID,
			Action:      vaultDomain.ActionShare,
			Success:     auditErr == nil,
			ErrorReason: errorReason(auditErr),
			Metadata: map[string]any{
				"grantee_user_id": input.GranteeUserID,
				"grantee_org_id":  input.GranteeOrgID,
				"permission":      string(input.Permission),
			},
		})
	}()

	if (input.GranteeUserID == "") == (input.GranteeOrgID == "") {
		auditErr = vaultDomain.ErrInvalidGrantee
		return nil, auditErr
	}
	if !input.Permission.Valid() {
		auditErr = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid permission")
		return nil, auditErr
	}

	secret, err := s.secretRepo.Get(ctx, input.VaultID)
	if err != nil {
		auditErr = err
		return nil, auditErr
	}
	if !secret.IsOwner(caller.ID) {
		auditErr = apperrors.Wrap(apperrors.ErrForbidden, "only the owner may share a secret")
		return nil, auditErr
	}

	grant := &vaultDomain.ShareGrant{
		ShareID:       uuid.Must(uuid.NewV7()),
		VaultID:       input.VaultID,
		OwnerID:       secret.OwnerID,
		GranteeUserID: input.GranteeUserID,
		GranteeOrgID:  input.GranteeOrgID,
		Permission:    input.Permission,
		ExpiresAt:     input.ExpiresAt,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.shareRepo.Create(ctx, grant); err != nil {
		auditErr = err
		return nil, auditErr
	}

	return grant, nil
}

// RevokeShare deactivates a grant. Only the secret's owner may revoke, and
// revocation is effective immediately for subsequent authorization checks.
func (s *shareUseCase) RevokeShare(ctx context.Context, shareID uuid.UUID, caller vaultDomain.Caller) error {
	grant, err := s.shareRepo.Get(ctx, shareID)
	if err != nil {
		return err
	}

	var auditErr error
	defer func() {
		s.auditor.Record(ctx, &vaultDomain.AuditEntry{
			VaultID:     grant.VaultID,
			ActorID:     caller.ID,
			Action:      vaultDomain.ActionRevokeShare,
			Success:     auditErr == nil,
			ErrorReason: errorReason(auditErr),
			Metadata: map[string]any{
				"share_id": grant.ShareID.String(),
			},
		})
	}()

	if grant.OwnerID != caller.ID {
		auditErr = apperrors.Wrap(apperrors.ErrForbidden, "only the owner may revoke a share")
		return auditErr
	}

	if err := s.shareRepo.Revoke(ctx, shareID); err != nil {
		auditErr = err
		return auditErr
	}

	return nil
}

// ListSharedWith returns the active grants naming the caller's user or
// organization identity.
func (s *shareUseCase) ListSharedWith(
	ctx context.Context,
	caller vaultDomain.Caller,
	offset, limit int,
) ([]*vaultDomain.ShareGrant, error) {
	return s.shareRepo.ListByGrantee(ctx, caller.ID, caller.OrganizationID, offset, limit)
}

// NewShareUseCase creates a new share use case instance with the provided dependencies.
func NewShareUseCase(
	shareRepo ShareRepository,
	secretRepo SecretRepository,
	auditor AuditUseCase,
) ShareUseCase {
	return &shareUseCase{
		shareRepo:  shareRepo,
		secretRepo: secretRepo,
		auditor:    auditor,
	}
}

// errorReason renders an error for audit storage, empty on success.
func errorReason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
