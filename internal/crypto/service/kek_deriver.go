package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"runtime"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sync/semaphore"

	cryptoDomain "github.com/xenoISA/isa-vault/internal/crypto/domain"
)

// KekDeriverService implements KekDeriver using PBKDF2-SHA256.
//
// A KEK is derived from masterKey || ownerID with a random per-version salt,
// following NIST SP 800-132 password-based key derivation. The iteration
// count is deliberately high so that a leaked salt alone is not immediately
// exploitable by brute force.
//
// PBKDF2 is CPU-bound. A weighted semaphore sized to GOMAXPROCS bounds the
// number of concurrent derivations so that a burst of decrypt requests
// cannot starve unrelated work; Acquire honors the caller's context.
type KekDeriverService struct {
	masterKey  *cryptoDomain.MasterKey
	iterations int
	slots      *semaphore.Weighted
}

// NewKekDeriver creates a KekDeriverService bound to the process master key.
//
// Fails closed: a nil or malformed master key or an iteration count below
// MinKekIterations is a configuration error, never a weaker key.
func NewKekDeriver(masterKey *cryptoDomain.MasterKey, iterations int) (*KekDeriverService, error) {
	if masterKey == nil || len(masterKey.Key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if iterations < cryptoDomain.MinKekIterations {
		return nil, fmt.Errorf(
			"kek iterations %d below minimum %d",
			iterations,
			cryptoDomain.MinKekIterations,
		)
	}

	return &KekDeriverService{
		masterKey:  masterKey,
		iterations: iterations,
		slots:      semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}, nil
}

// DeriveKek derives the 32-byte KEK for (ownerID, kekSalt).
//
// Deterministic: identical inputs always return the identical KEK, which is
// required for decrypt-time re-derivation since no KEK is ever persisted.
func (k *KekDeriverService) DeriveKek(
	ctx context.Context,
	ownerID string,
	kekSalt []byte,
) ([]byte, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: empty owner id", cryptoDomain.ErrInvalidKeySize)
	}
	if len(kekSalt) != cryptoDomain.KekSaltSize {
		return nil, fmt.Errorf(
			"%w: kek salt must be %d bytes, got %d",
			cryptoDomain.ErrInvalidKeySize,
			cryptoDomain.KekSaltSize,
			len(kekSalt),
		)
	}

	if err := k.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("kek derivation cancelled: %w", err)
	}
	defer k.slots.Release(1)

	// Secret input binds the KEK to both the master key and the owner
	secret := make([]byte, 0, len(k.masterKey.Key)+len(ownerID))
	secret = append(secret, k.masterKey.Key...)
	secret = append(secret, []byte(ownerID)...)
	defer cryptoDomain.Zero(secret)

	kek := pbkdf2.Key(secret, kekSalt, k.iterations, cryptoDomain.KeySize, sha256.New)
	return kek, nil
}
