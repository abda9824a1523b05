package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// ensuring both confidentiality and authenticity of encrypted data. AEAD prevents both
// unauthorized reading and tampering with encrypted data.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on mobile devices or systems without AES-NI
//   - Both provide equivalent 256-bit security when used correctly
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// AES-GCM (Advanced Encryption Standard in Galois/Counter Mode) combines
	// AES encryption with GMAC authentication. It uses a 256-bit key and
	// provides excellent performance on hardware with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// ChaCha20-Poly1305 combines the ChaCha20 stream cipher with the Poly1305 MAC
	// for authentication. It's designed for high performance on platforms without
	// AES hardware acceleration and is resistant to timing attacks.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string into an Algorithm.
// Returns ErrUnsupportedAlgorithm for unknown values.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

const (
	// KeySize is the required size in bytes for all keys in the hierarchy
	// (master key, KEK, DEK). 32 bytes = 256 bits.
	KeySize = 32

	// NonceSize is the AEAD nonce size in bytes (96 bits).
	NonceSize = 12

	// KekSaltSize is the size in bytes of the random per-version salt used
	// when deriving a Key Encryption Key from the master key.
	KekSaltSize = 16

	// MinKekIterations is the minimum PBKDF2 iteration count accepted when
	// deriving Key Encryption Keys. Lower work factors would make a leaked
	// salt immediately exploitable by brute force.
	MinKekIterations = 100000
)
