package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSecretType_Valid(t *testing.T) {
	for _, st := range SecretTypes {
		assert.True(t, st.Valid(), "expected %s to be valid", st)
	}

	assert.False(t, SecretType("password").Valid())
	assert.False(t, SecretType("").Valid())
}

func TestSecretRecord_Masked(t *testing.T) {
	record := &SecretRecord{
		VaultID:        uuid.Must(uuid.NewV7()),
		OwnerID:        "u1",
		SecretType:     SecretTypeAPIKey,
		Name:           "stripe key",
		EncryptedValue: []byte("ciphertext"),
		Nonce:          []byte("nonce"),
		KekSalt:        []byte("salt"),
		WrappedDek:     []byte("wrapped"),
		DekNonce:       []byte("dek-nonce"),
		Plaintext:      []byte("sk-abc123"),
		Version:        3,
		IsActive:       true,
	}

	masked := record.Masked()

	// Identity and metadata survive
	assert.Equal(t, record.VaultID, masked.VaultID)
	assert.Equal(t, record.Name, masked.Name)
	assert.Equal(t, record.Version, masked.Version)

	// Cryptographic material and plaintext do not
	assert.Nil(t, masked.EncryptedValue)
	assert.Nil(t, masked.Nonce)
	assert.Nil(t, masked.KekSalt)
	assert.Nil(t, masked.WrappedDek)
	assert.Nil(t, masked.DekNonce)
	assert.Nil(t, masked.Plaintext)

	// The original record is untouched
	assert.NotNil(t, record.EncryptedValue)
	assert.NotNil(t, record.Plaintext)
}

func TestSecretRecord_IsOwner(t *testing.T) {
	record := &SecretRecord{OwnerID: "u1"}

	assert.True(t, record.IsOwner("u1"))
	assert.False(t, record.IsOwner("u2"))
	assert.False(t, record.IsOwner(""))
}
