package usecase_test

import (
	"context"
	"crypto/rand"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/xenoISA/isa-vault/internal/crypto/domain"
	cryptoService "github.com/xenoISA/isa-vault/internal/crypto/service"
	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	"github.com/xenoISA/isa-vault/internal/metrics"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
	"github.com/xenoISA/isa-vault/internal/vault/usecase"
)

// passthroughTxManager runs the function without a real transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memorySecretRepository is an in-memory SecretRepository.
type memorySecretRepository struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]*vaultDomain.SecretRecord
}

func newMemorySecretRepository() *memorySecretRepository {
	return &memorySecretRepository{secrets: map[uuid.UUID]*vaultDomain.SecretRecord{}}
}

func (r *memorySecretRepository) Create(ctx context.Context, secret *vaultDomain.SecretRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *secret
	r.secrets[secret.VaultID] = &clone
	return nil
}

func (r *memorySecretRepository) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.SecretRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	secret, ok := r.secrets[vaultID]
	if !ok {
		return nil, vaultDomain.ErrSecretNotFound
	}
	clone := *secret
	return &clone, nil
}

func (r *memorySecretRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	filter vaultDomain.SecretFilter,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*vaultDomain.SecretRecord
	for _, secret := range r.secrets {
		if secret.OwnerID != ownerID {
			continue
		}
		if filter.SecretType != "" && secret.SecretType != filter.SecretType {
			continue
		}
		clone := *secret
		result = append(result, &clone)
	}
	return result, nil
}

func (r *memorySecretRepository) UpdateMetadata(ctx context.Context, secret *vaultDomain.SecretRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.secrets[secret.VaultID]; !ok {
		return vaultDomain.ErrSecretNotFound
	}
	clone := *secret
	r.secrets[secret.VaultID] = &clone
	return nil
}

func (r *memorySecretRepository) UpdateCrypto(
	ctx context.Context,
	secret *vaultDomain.SecretRecord,
	observedVersion uint,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.secrets[secret.VaultID]
	if !ok {
		return vaultDomain.ErrSecretNotFound
	}
	if current.Version != observedVersion {
		return vaultDomain.ErrVersionConflict
	}
	clone := *secret
	r.secrets[secret.VaultID] = &clone
	return nil
}

func (r *memorySecretRepository) Deactivate(ctx context.Context, vaultID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	secret, ok := r.secrets[vaultID]
	if !ok {
		return vaultDomain.ErrSecretNotFound
	}
	secret.IsActive = false
	return nil
}

func (r *memorySecretRepository) Delete(ctx context.Context, vaultID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.secrets[vaultID]; !ok {
		return vaultDomain.ErrSecretNotFound
	}
	delete(r.secrets, vaultID)
	return nil
}

func (r *memorySecretRepository) TouchAccess(ctx context.Context, vaultID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	secret, ok := r.secrets[vaultID]
	if !ok {
		return vaultDomain.ErrSecretNotFound
	}
	secret.AccessCount++
	return nil
}

// memoryShareRepository is an in-memory ShareRepository.
type memoryShareRepository struct {
	mu     sync.Mutex
	grants map[uuid.UUID]*vaultDomain.ShareGrant
}

func newMemoryShareRepository() *memoryShareRepository {
	return &memoryShareRepository{grants: map[uuid.UUID]*vaultDomain.ShareGrant{}}
}

func (r *memoryShareRepository) Create(ctx context.Context, grant *vaultDomain.ShareGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *grant
	r.grants[grant.ShareID] = &clone
	return nil
}

func (r *memoryShareRepository) Get(ctx context.Context, shareID uuid.UUID) (*vaultDomain.ShareGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	grant, ok := r.grants[shareID]
	if !ok {
		return nil, vaultDomain.ErrShareNotFound
	}
	clone := *grant
	return &clone, nil
}

func (r *memoryShareRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
) ([]*vaultDomain.ShareGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*vaultDomain.ShareGrant
	for _, grant := range r.grants {
		if grant.VaultID == vaultID {
			clone := *grant
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *memoryShareRepository) ListByGrantee(
	ctx context.Context,
	granteeUserID, granteeOrgID string,
	offset, limit int,
) ([]*vaultDomain.ShareGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*vaultDomain.ShareGrant
	for _, grant := range r.grants {
		if !grant.IsActive {
			continue
		}
		if (grant.GranteeUserID != "" && grant.GranteeUserID == granteeUserID) ||
			(grant.GranteeOrgID != "" && granteeOrgID != "" && grant.GranteeOrgID == granteeOrgID) {
			clone := *grant
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *memoryShareRepository) Revoke(ctx context.Context, shareID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	grant, ok := r.grants[shareID]
	if !ok {
		return vaultDomain.ErrShareNotFound
	}
	grant.IsActive = false
	return nil
}

func (r *memoryShareRepository) DeleteByVault(ctx context.Context, vaultID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for shareID, grant := range r.grants {
		if grant.VaultID == vaultID {
			delete(r.grants, shareID)
		}
	}
	return nil
}

// memoryAuditRepository is an in-memory AuditRepository.
type memoryAuditRepository struct {
	mu      sync.Mutex
	entries []*vaultDomain.AuditEntry
}

func (r *memoryAuditRepository) Create(ctx context.Context, entry *vaultDomain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memoryAuditRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*vaultDomain.AuditEntry
	for _, entry := range r.entries {
		if entry.VaultID == vaultID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *memoryAuditRepository) ListByActor(
	ctx context.Context,
	actorID string,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*vaultDomain.AuditEntry
	for _, entry := range r.entries {
		if entry.ActorID == actorID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// TestSharingLifecycle drives the full flow through real use cases and real
// envelope encryption: create, share read, grantee read, denied rotation,
// owner rotation, revocation, denied read.
func TestSharingLifecycle(t *testing.T) {
	ctx := context.Background()

	masterKeyBytes := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(masterKeyBytes)
	require.NoError(t, err)
	masterKey := &cryptoDomain.MasterKey{ID: "test", Key: masterKeyBytes}

	kekDeriver, err := cryptoService.NewKekDeriver(masterKey, cryptoDomain.MinKekIterations)
	require.NoError(t, err)
	envelope := cryptoService.NewEnvelope(kekDeriver, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)

	secretRepo := newMemorySecretRepository()
	shareRepo := newMemoryShareRepository()
	auditRepo := &memoryAuditRepository{}

	auditUC := usecase.NewAuditUseCase(auditRepo, secretRepo, metrics.NewNoOpBusinessMetrics(), testLogger())
	shareUC := usecase.NewShareUseCase(shareRepo, secretRepo, auditUC)
	secretUC := usecase.NewSecretUseCase(
		passthroughTxManager{},
		secretRepo,
		shareRepo,
		envelope,
		shareUC,
		auditUC,
		testLogger(),
	)

	owner := vaultDomain.Caller{ID: "alice"}
	grantee := vaultDomain.Caller{ID: "bob"}

	// Owner stores an API key
	created, err := secretUC.Create(ctx, usecase.CreateSecretInput{
		Caller:     owner,
		SecretType: vaultDomain.SecretTypeAPIKey,
		Provider:   "stripe",
		Name:       "payment key",
		Plaintext:  []byte("sk_live_v1"),
	})
	require.NoError(t, err)
	vaultID := created.VaultID

	// Owner shares read access with the grantee
	grant, err := shareUC.CreateShare(ctx, owner, usecase.CreateShareInput{
		VaultID:       vaultID,
		GranteeUserID: grantee.ID,
		Permission:    vaultDomain.PermissionRead,
	})
	require.NoError(t, err)

	// Grantee reads the plaintext
	readSecret, err := secretUC.Get(ctx, vaultID, grantee, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("sk_live_v1"), readSecret.Plaintext)

	// Grantee may not rotate with a read grant
	_, err = secretUC.Rotate(ctx, vaultID, grantee, []byte("sk_live_hijack"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	// Owner rotates; the version bumps and the new value round-trips
	rotated, err := secretUC.Rotate(ctx, vaultID, owner, []byte("sk_live_v2"))
	require.NoError(t, err)
	assert.Equal(t, uint(2), rotated.Version)

	readSecret, err = secretUC.Get(ctx, vaultID, grantee, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("sk_live_v2"), readSecret.Plaintext)

	// Owner revokes; the grantee is locked out immediately
	require.NoError(t, shareUC.RevokeShare(ctx, grant.ShareID, owner))

	_, err = secretUC.Get(ctx, vaultID, grantee, true)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	// The owner still reads fine
	readSecret, err = secretUC.Get(ctx, vaultID, owner, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("sk_live_v2"), readSecret.Plaintext)

	// The audit trail recorded every gated attempt, denied ones included
	trail, err := auditUC.ListByVault(ctx, vaultID, owner, 0, 100)
	require.NoError(t, err)

	var reads, rotates, denied int
	for _, entry := range trail {
		switch entry.Action {
		case vaultDomain.ActionRead:
			reads++
		case vaultDomain.ActionRotate:
			rotates++
		}
		if !entry.Success {
			denied++
		}
	}
	assert.Equal(t, 4, reads)
	assert.Equal(t, 2, rotates)
	assert.Equal(t, 2, denied)
}

// TestRotationVersionRace verifies that two rotations observing the same
// version cannot both win.
func TestRotationVersionRace(t *testing.T) {
	ctx := context.Background()

	secretRepo := newMemorySecretRepository()
	secret := testSecret("alice")
	require.NoError(t, secretRepo.Create(ctx, secret))

	first := *secret
	first.Version = 2
	require.NoError(t, secretRepo.UpdateCrypto(ctx, &first, 1))

	second := *secret
	second.Version = 2
	err := secretRepo.UpdateCrypto(ctx, &second, 1)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}
