package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService decrypts the master key ciphertext through an external KMS
// using gocloud.dev/secrets.
//
// Supported URI schemes: gcpkms://, awskms://, azurekeyvault://,
// hashivault://, base64key:// (the last for local development).
type KMSService struct {
	keyURI string
}

// NewKMSService creates a KMS service bound to the configured key URI.
func NewKMSService(keyURI string) *KMSService {
	return &KMSService{keyURI: keyURI}
}

// Decrypt opens a keeper for the configured key URI and decrypts ciphertext.
// Implements cryptoDomain.KMSDecrypter.
func (k *KMSService) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	keeper, err := secrets.OpenKeeper(ctx, k.keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt via KMS: %w", err)
	}

	return plaintext, nil
}
