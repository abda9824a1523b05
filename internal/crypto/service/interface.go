// Package service provides cryptographic services for envelope encryption.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), PBKDF2-based
// KEK derivation, and the envelope encrypt/decrypt of secret payloads.
package service

import (
	"context"

	cryptoDomain "github.com/xenoISA/isa-vault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KekDeriver derives per-owner Key Encryption Keys from the master key.
type KekDeriver interface {
	// DeriveKek deterministically derives a 32-byte KEK from the master key,
	// the owner identifier, and a random per-version salt. The same inputs
	// always produce the same KEK; no KEK is ever persisted.
	//
	// The derivation is deliberately CPU-expensive. The context is honored
	// while waiting for a derivation slot.
	DeriveKek(ctx context.Context, ownerID string, kekSalt []byte) ([]byte, error)
}

// EnvelopeUnit is the atomic output of encrypting one secret version.
//
// All five fields are produced together and must be persisted and read back
// together; a record must never pair a stale nonce or salt with new
// ciphertext.
type EnvelopeUnit struct {
	// Ciphertext is the secret payload encrypted under the DEK
	// (authentication tag appended).
	Ciphertext []byte
	// Nonce is the 96-bit nonce used for the payload encryption.
	Nonce []byte
	// KekSalt is the random salt the owner's KEK was derived with.
	KekSalt []byte
	// WrappedDek is the DEK encrypted under the KEK (authentication tag appended).
	WrappedDek []byte
	// DekNonce is the 96-bit nonce used when wrapping the DEK.
	DekNonce []byte
}

// Envelope performs envelope encryption of secret payloads.
//
// Each call to EncryptSecret generates a fresh random DEK and a fresh KEK
// salt, so a (DEK, nonce) pair is never reused: every DEK encrypts exactly
// one plaintext, once.
type Envelope interface {
	// EncryptSecret encrypts plaintext for the given owner and returns the
	// five-field unit the caller must persist atomically.
	EncryptSecret(ctx context.Context, ownerID string, plaintext []byte) (*EnvelopeUnit, error)

	// DecryptSecret reverses EncryptSecret. Returns ErrUnwrapFailed when the
	// DEK cannot be unwrapped (wrong owner, wrong salt, or tampered wrapping)
	// and ErrDecryptionFailed when the payload fails authentication.
	DecryptSecret(ctx context.Context, ownerID string, unit *EnvelopeUnit) ([]byte, error)
}
