package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/xenoISA/isa-vault/internal/crypto/domain"
)

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	t.Run("create AES-GCM cipher", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		assert.NoError(t, err)
		assert.IsType(t, &AESGCMCipher{}, cipher)
	})

	t.Run("create ChaCha20-Poly1305 cipher", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		assert.NoError(t, err)
		assert.IsType(t, &ChaCha20Poly1305Cipher{}, cipher)
	})

	t.Run("invalid key size", func(t *testing.T) {
		shortKey := make([]byte, 16)
		cipher, err := manager.CreateCipher(shortKey, cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
		assert.Nil(t, cipher)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		cipher, err := manager.CreateCipher(key, cryptoDomain.Algorithm("des"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
		assert.Nil(t, cipher)
	})
}

func TestCiphers_RoundTrip(t *testing.T) {
	manager := NewAEADManager()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	algorithms := []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20}

	for _, alg := range algorithms {
		t.Run(string(alg), func(t *testing.T) {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			plaintext := []byte("credential payload")
			aad := []byte("owner-123")

			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, nonce, cryptoDomain.NonceSize)

			decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})

		t.Run(string(alg)+"_WrongAAD", func(t *testing.T) {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			ciphertext, nonce, err := cipher.Encrypt([]byte("payload"), []byte("owner-123"))
			require.NoError(t, err)

			decrypted, err := cipher.Decrypt(ciphertext, nonce, []byte("owner-456"))
			assert.Error(t, err)
			assert.Nil(t, decrypted)
		})

		t.Run(string(alg)+"_TamperedCiphertext", func(t *testing.T) {
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			ciphertext, nonce, err := cipher.Encrypt([]byte("payload"), nil)
			require.NoError(t, err)

			ciphertext[0] ^= 0x01
			decrypted, err := cipher.Decrypt(ciphertext, nonce, nil)
			assert.Error(t, err)
			assert.Nil(t, decrypted)
		})
	}
}
