// Package domain defines the core cryptographic domain models for envelope encryption.
//
// It implements a three-tier key hierarchy: Master Key → KEK → DEK → Data.
// Per-owner KEKs are re-derived on demand from the master key and a random
// salt, so only the master key is ever held in process memory. Supports
// AESGCM and ChaCha20 algorithms with 256-bit keys.
package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
)

// MasterKey represents the process-wide cryptographic master key from which
// every per-owner Key Encryption Key (KEK) is derived.
//
// The master key is the root of the envelope encryption hierarchy. It is
// supplied at startup by the deployment environment and is never persisted
// by this subsystem. Exactly one master key is active at a time; replacing
// it renders previously wrapped DEKs unrecoverable, which is an explicit
// operational event rather than a bug.
//
// Security considerations:
//   - The key must be 32 bytes (256 bits)
//   - Keys should be generated using cryptographically secure random generators
//   - In production, store the key ciphertext in a KMS and decrypt at startup
//
// Fields:
//   - ID: Identifier for the master key (e.g., "prod-master-key-2026")
//   - Key: The raw 32-byte master key material
type MasterKey struct {
	ID  string
	Key []byte
}

// Close zeroes the key material. Call during application shutdown.
func (m *MasterKey) Close() {
	Zero(m.Key)
	m.Key = nil
}

// KMSDecrypter decrypts a master key ciphertext using an external KMS.
// Implemented by the crypto service layer on top of gocloud.dev/secrets.
type KMSDecrypter interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// LoadMasterKey loads the master key from environment variables.
//
// Two configurations are supported:
//
//   - VAULT_MASTER_KEY: base64-encoded 32-byte key, used as-is. Intended for
//     development and test environments.
//   - VAULT_MASTER_KEY_CIPHERTEXT: base64-encoded ciphertext of the 32-byte
//     key, decrypted through the provided KMSDecrypter. Intended for
//     production where the plaintext key never appears in the environment.
//
// VAULT_MASTER_KEY_ID names the key (default "primary"). If both variables
// are set, the ciphertext form wins. A missing or malformed key fails closed:
// the process must not start with a degraded or absent master key.
func LoadMasterKey(ctx context.Context, kms KMSDecrypter) (*MasterKey, error) {
	id := os.Getenv("VAULT_MASTER_KEY_ID")
	if id == "" {
		id = "primary"
	}

	if raw := os.Getenv("VAULT_MASTER_KEY_CIPHERTEXT"); raw != "" {
		if kms == nil {
			return nil, fmt.Errorf("%w: master key ciphertext set but no KMS configured", ErrMasterKeyNotSet)
		}
		ciphertext, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
		}
		key, err := kms.Decrypt(ctx, ciphertext)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt master key via KMS: %w", err)
		}
		return newMasterKey(id, key)
	}

	raw := os.Getenv("VAULT_MASTER_KEY")
	if raw == "" {
		return nil, ErrMasterKeyNotSet
	}

	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}

	return newMasterKey(id, key)
}

// newMasterKey validates key material and builds the MasterKey.
func newMasterKey(id string, key []byte) (*MasterKey, error) {
	if len(key) != KeySize {
		Zero(key)
		return nil, fmt.Errorf("%w: master key %s must be %d bytes, got %d",
			ErrInvalidMasterKeySize, id, KeySize, len(key))
	}
	return &MasterKey{ID: id, Key: key}, nil
}
