package app

import (
	"fmt"

	vaultRepository "github.com/xenoISA/isa-vault/internal/vault/repository"
	vaultUseCase "github.com/xenoISA/isa-vault/internal/vault/usecase"
)

// SecretRepository returns the secret repository based on database driver.
func (c *Container) SecretRepository() (vaultUseCase.SecretRepository, error) {
	var err error
	c.secretRepoInit.Do(func() {
		c.secretRepo, err = c.initSecretRepository()
		if err != nil {
			c.initErrors["secretRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretRepo"]; exists {
		return nil, storedErr
	}
	return c.secretRepo, nil
}

// ShareRepository returns the share grant repository based on database driver.
func (c *Container) ShareRepository() (vaultUseCase.ShareRepository, error) {
	var err error
	c.shareRepoInit.Do(func() {
		c.shareRepo, err = c.initShareRepository()
		if err != nil {
			c.initErrors["shareRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["shareRepo"]; exists {
		return nil, storedErr
	}
	return c.shareRepo, nil
}

// AuditRepository returns the audit log repository based on database driver.
func (c *Container) AuditRepository() (vaultUseCase.AuditRepository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// SecretUseCase returns the secret lifecycle use case.
func (c *Container) SecretUseCase() (vaultUseCase.SecretUseCase, error) {
	var err error
	c.secretUseCaseInit.Do(func() {
		c.secretUseCase, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretUseCase"]; exists {
		return nil, storedErr
	}
	return c.secretUseCase, nil
}

// ShareUseCase returns the sharing resolution use case.
func (c *Container) ShareUseCase() (vaultUseCase.ShareUseCase, error) {
	var err error
	c.shareUseCaseInit.Do(func() {
		c.shareUseCase, err = c.initShareUseCase()
		if err != nil {
			c.initErrors["shareUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["shareUseCase"]; exists {
		return nil, storedErr
	}
	return c.shareUseCase, nil
}

// AuditUseCase returns the audit trail use case.
func (c *Container) AuditUseCase() (vaultUseCase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

// initSecretRepository creates the secret repository instance.
func (c *Container) initSecretRepository() (vaultUseCase.SecretRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return vaultRepository.NewMySQLSecretRepository(db), nil
	case "postgres":
		return vaultRepository.NewPostgreSQLSecretRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initShareRepository creates the share grant repository instance.
func (c *Container) initShareRepository() (vaultUseCase.ShareRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for share repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return vaultRepository.NewMySQLShareRepository(db), nil
	case "postgres":
		return vaultRepository.NewPostgreSQLShareRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditRepository creates the audit log repository instance.
func (c *Container) initAuditRepository() (vaultUseCase.AuditRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return vaultRepository.NewMySQLAuditRepository(db), nil
	case "postgres":
		return vaultRepository.NewPostgreSQLAuditRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretUseCase creates the secret use case with all its dependencies.
// The use case is wrapped with the metrics decorator when metrics are enabled.
func (c *Container) initSecretUseCase() (vaultUseCase.SecretUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret use case: %w", err)
	}

	secretRepo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret use case: %w", err)
	}

	shareRepo, err := c.ShareRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get share repository for secret use case: %w", err)
	}

	envelope, err := c.Envelope()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope for secret use case: %w", err)
	}

	shareUseCase, err := c.ShareUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get share use case for secret use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for secret use case: %w", err)
	}

	useCase := vaultUseCase.NewSecretUseCase(
		txManager,
		secretRepo,
		shareRepo,
		envelope,
		shareUseCase,
		auditUseCase,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
		}
		useCase = vaultUseCase.NewSecretUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initShareUseCase creates the share use case with all its dependencies.
func (c *Container) initShareUseCase() (vaultUseCase.ShareUseCase, error) {
	shareRepo, err := c.ShareRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get share repository for share use case: %w", err)
	}

	secretRepo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for share use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for share use case: %w", err)
	}

	return vaultUseCase.NewShareUseCase(shareRepo, secretRepo, auditUseCase), nil
}

// initAuditUseCase creates the audit use case with all its dependencies.
func (c *Container) initAuditUseCase() (vaultUseCase.AuditUseCase, error) {
	auditRepo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}

	secretRepo, err := c.SecretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for audit use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for audit use case: %w", err)
	}

	return vaultUseCase.NewAuditUseCase(auditRepo, secretRepo, businessMetrics, c.Logger()), nil
}
