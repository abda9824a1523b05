package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/xenoISA/isa-vault/internal/vault/usecase"

	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// MockSecretUseCase is a mock implementation of SecretUseCase for testing.
type MockSecretUseCase struct {
	mock.Mock
}

// Create mocks the Create method of SecretUseCase.
func (m *MockSecretUseCase) Create(
	ctx context.Context,
	input usecase.CreateSecretInput,
) (*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.SecretRecord), args.Error(1)
}

// Get mocks the Get method of SecretUseCase.
func (m *MockSecretUseCase) Get(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	decrypt bool,
) (*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, vaultID, caller, decrypt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.SecretRecord), args.Error(1)
}

// List mocks the List method of SecretUseCase.
func (m *MockSecretUseCase) List(
	ctx context.Context,
	caller vaultDomain.Caller,
	filter vaultDomain.SecretFilter,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, caller, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.SecretRecord), args.Error(1)
}

// UpdateMetadata mocks the UpdateMetadata method of SecretUseCase.
func (m *MockSecretUseCase) UpdateMetadata(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	input usecase.UpdateMetadataInput,
) (*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, vaultID, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.SecretRecord), args.Error(1)
}

// Rotate mocks the Rotate method of SecretUseCase.
func (m *MockSecretUseCase) Rotate(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	newPlaintext []byte,
) (*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, vaultID, caller, newPlaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.SecretRecord), args.Error(1)
}

// Deactivate mocks the Deactivate method of SecretUseCase.
func (m *MockSecretUseCase) Deactivate(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
) error {
	args := m.Called(ctx, vaultID, caller)
	return args.Error(0)
}

// Delete mocks the Delete method of SecretUseCase.
func (m *MockSecretUseCase) Delete(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	permanent bool,
) error {
	args := m.Called(ctx, vaultID, caller, permanent)
	return args.Error(0)
}

// MockShareUseCase is a mock implementation of ShareUseCase for testing.
type MockShareUseCase struct {
	mock.Mock
}

// Authorize mocks the Authorize method of ShareUseCase.
func (m *MockShareUseCase) Authorize(
	ctx context.Context,
	secret *vaultDomain.SecretRecord,
	caller vaultDomain.Caller,
	required vaultDomain.Permission,
) error {
	args := m.Called(ctx, secret, caller, required)
	return args.Error(0)
}

// CreateShare mocks the CreateShare method of ShareUseCase.
func (m *MockShareUseCase) CreateShare(
	ctx context.Context,
	caller vaultDomain.Caller,
	input usecase.CreateShareInput,
) (*vaultDomain.ShareGrant, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ShareGrant), args.Error(1)
}

// RevokeShare mocks the RevokeShare method of ShareUseCase.
func (m *MockShareUseCase) RevokeShare(
	ctx context.Context,
	shareID uuid.UUID,
	caller vaultDomain.Caller,
) error {
	args := m.Called(ctx, shareID, caller)
	return args.Error(0)
}

// ListSharedWith mocks the ListSharedWith method of ShareUseCase.
func (m *MockShareUseCase) ListSharedWith(
	ctx context.Context,
	caller vaultDomain.Caller,
	offset, limit int,
) ([]*vaultDomain.ShareGrant, error) {
	args := m.Called(ctx, caller, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.ShareGrant), args.Error(1)
}

// MockAuditUseCase is a mock implementation of AuditUseCase for testing.
type MockAuditUseCase struct {
	mock.Mock
}

// Record mocks the Record method of AuditUseCase.
func (m *MockAuditUseCase) Record(ctx context.Context, entry *vaultDomain.AuditEntry) {
	m.Called(ctx, entry)
}

// ListByVault mocks the ListByVault method of AuditUseCase.
func (m *MockAuditUseCase) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	caller vaultDomain.Caller,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	args := m.Called(ctx, vaultID, caller, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.AuditEntry), args.Error(1)
}

// ListByActor mocks the ListByActor method of AuditUseCase.
func (m *MockAuditUseCase) ListByActor(
	ctx context.Context,
	caller vaultDomain.Caller,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	args := m.Called(ctx, caller, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.AuditEntry), args.Error(1)
}
