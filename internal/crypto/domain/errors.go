package domain

import (
	"errors"

	apperrors "github.com/xenoISA/isa-vault/internal/errors"
)

// Cryptographic operation error definitions.
//
// Request-scoped errors wrap standard errors from internal/errors so the
// HTTP layer can map them to status codes. Master key loading errors are
// plain sentinels: they are fatal at process startup, never per-request.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	//
	// Supported algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnsupportedAlgorithm = apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// All keys (master key, KEKs, and DEKs) must be exactly 32 bytes (256 bits).
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidKeySize = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid key size")

	// ErrUnwrapFailed indicates the wrapped DEK could not be unwrapped.
	//
	// This occurs when the KEK re-derived at decrypt time does not match the
	// one used at encryption time (wrong owner or salt) or when the wrapped
	// DEK has been tampered with. The authentication check fails before any
	// key material is released; garbage plaintext is never produced.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrUnwrapFailed = apperrors.Wrap(apperrors.ErrInvalidInput, "key unwrap failed")

	// ErrDecryptionFailed indicates a payload decryption operation failed.
	//
	// This error can occur due to:
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Invalid nonce provided
	//   - Corrupted encrypted data
	//
	// For security reasons, the specific cause is not disclosed to prevent
	// information leakage that could aid attackers.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryptionFailed = apperrors.Wrap(apperrors.ErrInvalidInput, "decryption failed")
)

// Master key loading errors. These abort process startup.
var (
	// ErrMasterKeyNotSet indicates no master key material was configured.
	ErrMasterKeyNotSet = errors.New("master key not set")

	// ErrInvalidMasterKeyBase64 indicates the master key is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.New("invalid master key base64")

	// ErrInvalidMasterKeySize indicates the decoded master key is not 32 bytes.
	ErrInvalidMasterKeySize = errors.New("invalid master key size")
)
