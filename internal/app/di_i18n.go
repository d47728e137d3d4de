package app

import (
	"fmt"

	i18nRepository "github.com/koliving/api/internal/i18n/repository"
	i18nService "github.com/koliving/api/internal/i18n/service"
)

// MessageBundle returns the embedded message catalogs.
func (c *Container) MessageBundle() (*i18nService.Bundle, error) {
	err := c.lazy(&c.messageBundleInit, "messageBundle", func() (err error) {
		c.messageBundle, err = i18nService.NewBundle(c.config.I18nDefaultLocale)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.messageBundle, nil
}

// MessageRepository returns the store of message overrides for the configured driver.
func (c *Container) MessageRepository() (i18nService.MessageRepository, error) {
	err := c.lazy(&c.messageRepoInit, "messageRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for message repository: %w", err)
		}

		switch c.config.DBDriver {
		case "postgres":
			c.messageRepo = i18nRepository.NewPostgreSQLMessageRepository(db)
		case "mysql":
			c.messageRepo = i18nRepository.NewMySQLMessageRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.messageRepo, nil
}

// MessageSource returns the bundle, layered under database overrides when
// I18N_DB_OVERRIDES is enabled.
func (c *Container) MessageSource() (i18nService.MessageSource, error) {
	err := c.lazy(&c.messageSourceInit, "messageSource", func() error {
		bundle, err := c.MessageBundle()
		if err != nil {
			return fmt.Errorf("failed to get message bundle for message source: %w", err)
		}

		if !c.config.I18nDBOverrides {
			c.messageSource = bundle
			return nil
		}

		repo, err := c.MessageRepository()
		if err != nil {
			return fmt.Errorf("failed to get message repository for message source: %w", err)
		}
		c.messageSource = i18nService.NewOverrideSource(repo, bundle, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.messageSource, nil
}

// LocaleResolver returns the resolver limited to the locales of the bundle.
func (c *Container) LocaleResolver() (*i18nService.LocaleResolver, error) {
	err := c.lazy(&c.localeResolverInit, "localeResolver", func() error {
		bundle, err := c.MessageBundle()
		if err != nil {
			return fmt.Errorf("failed to get message bundle for locale resolver: %w", err)
		}
		c.localeResolver = i18nService.NewLocaleResolver(bundle.Locales())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.localeResolver, nil
}
