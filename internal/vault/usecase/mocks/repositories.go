// Package mocks provides mock implementations for testing use cases and handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository for testing.
type MockSecretRepository struct {
	mock.Mock
}

// Create mocks the Create method of SecretRepository.
func (m *MockSecretRepository) Create(ctx context.Context, secret *vaultDomain.SecretRecord) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// Get mocks the Get method of SecretRepository.
func (m *MockSecretRepository) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.SecretRecord), args.Error(1)
}

// ListByOwner mocks the ListByOwner method of SecretRepository.
func (m *MockSecretRepository) ListByOwner(
	ctx context.Context,
	ownerID string,
	filter vaultDomain.SecretFilter,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, ownerID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.SecretRecord), args.Error(1)
}

// UpdateMetadata mocks the UpdateMetadata method of SecretRepository.
func (m *MockSecretRepository) UpdateMetadata(ctx context.Context, secret *vaultDomain.SecretRecord) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// UpdateCrypto mocks the UpdateCrypto method of SecretRepository.
func (m *MockSecretRepository) UpdateCrypto(
	ctx context.Context,
	secret *vaultDomain.SecretRecord,
	observedVersion uint,
) error {
	args := m.Called(ctx, secret, observedVersion)
	return args.Error(0)
}

// Deactivate mocks the Deactivate method of SecretRepository.
func (m *MockSecretRepository) Deactivate(ctx context.Context, vaultID uuid.UUID) error {
	args := m.Called(ctx, vaultID)
	return args.Error(0)
}

// Delete mocks the Delete method of SecretRepository.
func (m *MockSecretRepository) Delete(ctx context.Context, vaultID uuid.UUID) error {
	args := m.Called(ctx, vaultID)
	return args.Error(0)
}

// TouchAccess mocks the TouchAccess method of SecretRepository.
func (m *MockSecretRepository) TouchAccess(ctx context.Context, vaultID uuid.UUID) error {
	args := m.Called(ctx, vaultID)
	return args.Error(0)
}

// MockShareRepository is a mock implementation of ShareRepository for testing.
type MockShareRepository struct {
	mock.Mock
}

// Create mocks the Create method of ShareRepository.
func (m *MockShareRepository) Create(ctx context.Context, grant *vaultDomain.ShareGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

// Get mocks the Get method of ShareRepository.
func (m *MockShareRepository) Get(ctx context.Context, shareID uuid.UUID) (*vaultDomain.ShareGrant, error) {
	args := m.Called(ctx, shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ShareGrant), args.Error(1)
}

// ListByVault mocks the ListByVault method of ShareRepository.
func (m *MockShareRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
) ([]*vaultDomain.ShareGrant, error) {
	args := m.Called(ctx, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.ShareGrant), args.Error(1)
}

// ListByGrantee mocks the ListByGrantee method of ShareRepository.
func (m *MockShareRepository) ListByGrantee(
	ctx context.Context,
	granteeUserID, granteeOrgID string,
	offset, limit int,
) ([]*vaultDomain.ShareGrant, error) {
	args := m.Called(ctx, granteeUserID, granteeOrgID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.ShareGrant), args.Error(1)
}

// Revoke mocks the Revoke method of ShareRepository.
func (m *MockShareRepository) Revoke(ctx context.Context, shareID uuid.UUID) error {
	args := m.Called(ctx, shareID)
	return args.Error(0)
}

// DeleteByVault mocks the DeleteByVault method of ShareRepository.
func (m *MockShareRepository) DeleteByVault(ctx context.Context, vaultID uuid.UUID) error {
	args := m.Called(ctx, vaultID)
	return args.Error(0)
}

// MockAuditRepository is a mock implementation of AuditRepository for testing.
type MockAuditRepository struct {
	mock.Mock
}

// Create mocks the Create method of AuditRepository.
func (m *MockAuditRepository) Create(ctx context.Context, entry *vaultDomain.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ListByVault mocks the ListByVault method of AuditRepository.
func (m *MockAuditRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	args := m.Called(ctx, vaultID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.AuditEntry), args.Error(1)
}

// ListByActor mocks the ListByActor method of AuditRepository.
func (m *MockAuditRepository) ListByActor(
	ctx context.Context,
	actorID string,
	offset, limit int,
) ([]*vaultDomain.AuditEntry, error) {
	args := m.Called(ctx, actorID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.AuditEntry), args.Error(1)
}
