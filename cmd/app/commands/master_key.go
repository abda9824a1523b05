package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/xenoISA/isa-vault/internal/crypto/domain"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key for
// envelope encryption and prints the environment variables the server expects.
// Key material is zeroed from memory after encoding.
//
// If keyID is empty, the key is named "primary" to match the server default.
//
// When kmsKeyURI is set, the master key is encrypted with the KMS key before
// output and emitted as VAULT_MASTER_KEY_CIPHERTEXT. Without a KMS URI the raw
// key is emitted as VAULT_MASTER_KEY, which is only suitable for local
// development.
//
// Supported KMS URIs follow gocloud.dev/secrets: gcpkms://, awskms://,
// azurekeyvault://, hashivault://, and base64key:// for local testing.
func RunCreateMasterKey(ctx context.Context, w io.Writer, keyID, kmsKeyURI string) error {
	if keyID == "" {
		keyID = "primary"
	}

	// Generate a cryptographically secure 32-byte master key
	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsKeyURI == "" {
		fmt.Fprintln(w, "# Master Key Configuration (plaintext mode)")
		fmt.Fprintln(w, "# WARNING: only use plaintext master keys for local development.")
		fmt.Fprintln(w, "# Copy these environment variables to your .env file")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "VAULT_MASTER_KEY=%q\n", base64.StdEncoding.EncodeToString(masterKey))
		fmt.Fprintf(w, "VAULT_MASTER_KEY_ID=%q\n", keyID)
		return nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			fmt.Fprintf(w, "# Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	fmt.Fprintln(w, "# Master Key Configuration (KMS mode)")
	fmt.Fprintln(w, "# Copy these environment variables to your .env file or secrets manager")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "KMS_KEY_URI=%q\n", kmsKeyURI)
	fmt.Fprintf(w, "VAULT_MASTER_KEY_CIPHERTEXT=%q\n", base64.StdEncoding.EncodeToString(ciphertext))
	fmt.Fprintf(w, "VAULT_MASTER_KEY_ID=%q\n", keyID)

	return nil
}
