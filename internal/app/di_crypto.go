package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/xenoISA/isa-vault/internal/crypto/domain"
	cryptoService "github.com/xenoISA/isa-vault/internal/crypto/service"
)

// MasterKey returns the master key loaded from the environment.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// KMSService returns the KMS decrypter, or nil when no KMS key URI is configured.
func (c *Container) KMSService() *cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			return
		}
		c.kmsService = cryptoService.NewKMSService(c.config.KMSKeyURI)
	})
	return c.kmsService
}

// AEADManager returns the AEAD cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KekDeriver returns the per-owner KEK derivation service.
func (c *Container) KekDeriver() (cryptoService.KekDeriver, error) {
	var err error
	c.kekDeriverInit.Do(func() {
		c.kekDeriver, err = c.initKekDeriver()
		if err != nil {
			c.initErrors["kekDeriver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kekDeriver"]; exists {
		return nil, storedErr
	}
	return c.kekDeriver, nil
}

// Envelope returns the envelope encryption service.
func (c *Container) Envelope() (cryptoService.Envelope, error) {
	var err error
	c.envelopeInit.Do(func() {
		c.envelope, err = c.initEnvelope()
		if err != nil {
			c.initErrors["envelope"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelope"]; exists {
		return nil, storedErr
	}
	return c.envelope, nil
}

// initMasterKey loads the master key, decrypting it through the KMS when a
// ciphertext is configured. Fails closed on a missing or malformed key.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	var kms cryptoDomain.KMSDecrypter
	if kmsService := c.KMSService(); kmsService != nil {
		kms = kmsService
	}

	masterKey, err := cryptoDomain.LoadMasterKey(context.Background(), kms)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}
	return masterKey, nil
}

// initKekDeriver creates the KEK derivation service.
func (c *Container) initKekDeriver() (cryptoService.KekDeriver, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key for kek deriver: %w", err)
	}

	kekDeriver, err := cryptoService.NewKekDeriver(masterKey, c.config.KekIterations)
	if err != nil {
		return nil, fmt.Errorf("failed to create kek deriver: %w", err)
	}
	return kekDeriver, nil
}

// initEnvelope creates the envelope encryption service.
func (c *Container) initEnvelope() (cryptoService.Envelope, error) {
	algorithm := cryptoDomain.Algorithm(c.config.EncryptionAlgorithm)
	switch algorithm {
	case cryptoDomain.AESGCM, cryptoDomain.ChaCha20:
	default:
		return nil, fmt.Errorf("unsupported encryption algorithm: %s", c.config.EncryptionAlgorithm)
	}

	kekDeriver, err := c.KekDeriver()
	if err != nil {
		return nil, fmt.Errorf("failed to get kek deriver for envelope: %w", err)
	}

	return cryptoService.NewEnvelope(kekDeriver, c.AEADManager(), algorithm), nil
}
