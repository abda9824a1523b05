package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xenoISA/isa-vault/internal/errors"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
	"github.com/xenoISA/isa-vault/internal/vault/usecase"
	"github.com/xenoISA/isa-vault/internal/vault/usecase/mocks"
)

// recordingMetrics captures audit write failure counts for assertions.
type recordingMetrics struct {
	mu                 sync.Mutex
	auditWriteFailures []string
}

func (r *recordingMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (r *recordingMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (r *recordingMetrics) RecordAuditWriteFailure(ctx context.Context, action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auditWriteFailures = append(r.auditWriteFailures, action)
}

type auditUseCaseFixture struct {
	auditRepo  *mocks.MockAuditRepository
	secretRepo *mocks.MockSecretRepository
	metrics    *recordingMetrics
	useCase    usecase.AuditUseCase
}

func newAuditUseCaseFixture() *auditUseCaseFixture {
	f := &auditUseCaseFixture{
		auditRepo:  &mocks.MockAuditRepository{},
		secretRepo: &mocks.MockSecretRepository{},
		metrics:    &recordingMetrics{},
	}
	f.useCase = usecase.NewAuditUseCase(f.auditRepo, f.secretRepo, f.metrics, testLogger())
	return f
}

func TestAuditUseCase_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		f := newAuditUseCaseFixture()

		var persisted *vaultDomain.AuditEntry
		f.auditRepo.On("Create", ctx, mock.AnythingOfType("*domain.AuditEntry")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*vaultDomain.AuditEntry)
			}).
			Return(nil)

		f.useCase.Record(ctx, &vaultDomain.AuditEntry{
			VaultID: uuid.Must(uuid.NewV7()),
			ActorID: "user-a",
			Action:  vaultDomain.ActionRead,
			Success: true,
		})

		require.NotNil(t, persisted)
		assert.NotEqual(t, uuid.Nil, persisted.LogID)
		assert.False(t, persisted.CreatedAt.IsZero())
	})

	t.Run("attaches the request id from the context", func(t *testing.T) {
		f := newAuditUseCaseFixture()

		var persisted *vaultDomain.AuditEntry
		f.auditRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*vaultDomain.AuditEntry)
			}).
			Return(nil)

		reqCtx := usecase.WithRequestID(ctx, "req-42")
		f.useCase.Record(reqCtx, &vaultDomain.AuditEntry{
			VaultID: uuid.Must(uuid.NewV7()),
			ActorID: "user-a",
			Action:  vaultDomain.ActionCreate,
			Success: true,
		})

		require.NotNil(t, persisted)
		assert.Equal(t, "req-42", persisted.Metadata["request_id"])
	})

	t.Run("failed write is swallowed and counted", func(t *testing.T) {
		f := newAuditUseCaseFixture()

		f.auditRepo.On("Create", ctx, mock.Anything).Return(assert.AnError)

		// Must not panic or propagate the error
		f.useCase.Record(ctx, &vaultDomain.AuditEntry{
			VaultID: uuid.Must(uuid.NewV7()),
			ActorID: "user-a",
			Action:  vaultDomain.ActionRotate,
			Success: true,
		})

		assert.Equal(t, []string{"rotate"}, f.metrics.auditWriteFailures)
	})
}

func TestAuditUseCase_ListByVault(t *testing.T) {
	ctx := context.Background()
	owner := vaultDomain.Caller{ID: "user-a"}

	t.Run("owner reads the trail", func(t *testing.T) {
		f := newAuditUseCaseFixture()

		secret := testSecret(owner.ID)
		entries := []*vaultDomain.AuditEntry{
			{LogID: uuid.Must(uuid.NewV7()), VaultID: secret.VaultID, Action: vaultDomain.ActionCreate},
		}
		f.secretRepo.On("Get", ctx, secret.VaultID).Return(secret, nil)
		f.auditRepo.On("ListByVault", ctx, secret.VaultID, 0, 50).Return(entries, nil)

		result, err := f.useCase.ListByVault(ctx, secret.VaultID, owner, 0, 50)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newAuditUseCaseFixture()

		secret := testSecret(owner.ID)
		f.secretRepo.On("Get", ctx, secret.VaultID).Return(secret, nil)

		_, err := f.useCase.ListByVault(ctx, secret.VaultID, vaultDomain.Caller{ID: "user-b"}, 0, 50)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
		f.auditRepo.AssertNotCalled(t, "ListByVault", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing secret propagates not found", func(t *testing.T) {
		f := newAuditUseCaseFixture()

		vaultID := uuid.Must(uuid.NewV7())
		f.secretRepo.On("Get", ctx, vaultID).Return(nil, vaultDomain.ErrSecretNotFound)

		_, err := f.useCase.ListByVault(ctx, vaultID, owner, 0, 50)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestAuditUseCase_ListByActor(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the caller's own trail", func(t *testing.T) {
		f := newAuditUseCaseFixture()

		caller := vaultDomain.Caller{ID: "user-a"}
		entries := []*vaultDomain.AuditEntry{
			{LogID: uuid.Must(uuid.NewV7()), ActorID: caller.ID, Action: vaultDomain.ActionRead},
		}
		f.auditRepo.On("ListByActor", ctx, caller.ID, 0, 50).Return(entries, nil)

		result, err := f.useCase.ListByActor(ctx, caller, 0, 50)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})
}
