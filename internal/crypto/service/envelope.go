package service

import (
	"context"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/xenoISA/isa-vault/internal/crypto/domain"
)

// EnvelopeService implements the Envelope interface.
//
// Encryption of one secret version:
//  1. Generate a fresh random 256-bit DEK and a fresh random KEK salt.
//  2. Derive the owner's KEK from the master key, the owner id, and the salt.
//  3. Wrap the DEK under the KEK (AEAD, AAD = owner id, own nonce recorded).
//  4. Encrypt the payload under the DEK with a fresh 96-bit nonce.
//
// The five outputs form one atomic unit. Because every version gets its own
// DEK and every DEK encrypts exactly one plaintext, a (DEK, nonce) pair is
// never reused.
type EnvelopeService struct {
	kekDeriver  KekDeriver
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewEnvelope creates an EnvelopeService using the given KEK deriver and
// AEAD manager. The algorithm selects the cipher for both the DEK wrapping
// and the payload encryption.
func NewEnvelope(
	kekDeriver KekDeriver,
	aeadManager AEADManager,
	algorithm cryptoDomain.Algorithm,
) *EnvelopeService {
	return &EnvelopeService{
		kekDeriver:  kekDeriver,
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}

// EncryptSecret encrypts plaintext for ownerID and returns the atomic
// five-field unit to persist.
func (e *EnvelopeService) EncryptSecret(
	ctx context.Context,
	ownerID string,
	plaintext []byte,
) (*EnvelopeUnit, error) {
	// Fresh random DEK for this version only
	dekKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(dekKey); err != nil {
		return nil, fmt.Errorf("failed to generate DEK: %w", err)
	}
	defer cryptoDomain.Zero(dekKey)

	// Fresh per-version salt bounds the blast radius of a salt leak
	kekSalt := make([]byte, cryptoDomain.KekSaltSize)
	if _, err := rand.Read(kekSalt); err != nil {
		return nil, fmt.Errorf("failed to generate kek salt: %w", err)
	}

	kek, err := e.kekDeriver.DeriveKek(ctx, ownerID, kekSalt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(kek)

	// Wrap the DEK under the KEK, binding it to the owner via AAD
	kekCipher, err := e.aeadManager.CreateCipher(kek, e.algorithm)
	if err != nil {
		return nil, err
	}
	wrappedDek, dekNonce, err := kekCipher.Encrypt(dekKey, []byte(ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to wrap DEK: %w", err)
	}

	// Encrypt the payload under the DEK
	dekCipher, err := e.aeadManager.CreateCipher(dekKey, e.algorithm)
	if err != nil {
		return nil, err
	}
	ciphertext, nonce, err := dekCipher.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}

	return &EnvelopeUnit{
		Ciphertext: ciphertext,
		Nonce:      nonce,
		KekSalt:    kekSalt,
		WrappedDek: wrappedDek,
		DekNonce:   dekNonce,
	}, nil
}

// DecryptSecret reverses EncryptSecret for ownerID.
//
// The KEK is re-derived from the stored salt; a wrong owner id or tampered
// wrapping surfaces as ErrUnwrapFailed (authentication failure, never garbage
// output). A tampered payload, nonce, or ciphertext surfaces as
// ErrDecryptionFailed. Neither failure is ever retried with different key
// material.
func (e *EnvelopeService) DecryptSecret(
	ctx context.Context,
	ownerID string,
	unit *EnvelopeUnit,
) ([]byte, error) {
	kek, err := e.kekDeriver.DeriveKek(ctx, ownerID, unit.KekSalt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(kek)

	kekCipher, err := e.aeadManager.CreateCipher(kek, e.algorithm)
	if err != nil {
		return nil, err
	}

	dekKey, err := kekCipher.Decrypt(unit.WrappedDek, unit.DekNonce, []byte(ownerID))
	if err != nil {
		return nil, cryptoDomain.ErrUnwrapFailed
	}
	defer cryptoDomain.Zero(dekKey)

	dekCipher, err := e.aeadManager.CreateCipher(dekKey, e.algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := dekCipher.Decrypt(unit.Ciphertext, unit.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	if plaintext == nil {
		// An encrypted empty secret decrypts to an empty slice, never nil.
		plaintext = []byte{}
	}

	return plaintext, nil
}
