package app

import (
	"context"
	"fmt"
	"time"

	authDomain "github.com/koliving/api/internal/auth/domain"
	authHTTP "github.com/koliving/api/internal/auth/http"
	authService "github.com/koliving/api/internal/auth/service"
	authUseCase "github.com/koliving/api/internal/auth/usecase"
	cryptoService "github.com/koliving/api/internal/crypto/service"
)

// signingKeyLoadTimeout bounds the KMS round trip made at startup.
const signingKeyLoadTimeout = 30 * time.Second

// PasswordService returns the password hasher.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// KMSService returns the KMS service used to unwrap the signing key.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// TokenService returns the access token service. It fails when no valid
// signing key is configured.
func (c *Container) TokenService() (authService.TokenService, error) {
	err := c.lazy(&c.tokenServiceInit, "tokenService", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), signingKeyLoadTimeout)
		defer cancel()

		key, err := authService.LoadSigningKey(
			ctx,
			c.config.AuthSigningKey,
			c.config.AuthSigningKeyKMSURI,
			c.KMSService(),
		)
		if err != nil {
			return fmt.Errorf("failed to load signing key: %w", err)
		}

		c.tokenService, err = authService.NewTokenService(key, c.config.AuthTokenExpiration, c.config.AuthTokenIssuer)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.tokenService, nil
}

// RouteMatcher returns the route table of the configured API version.
func (c *Container) RouteMatcher() (*authDomain.RouteMatcher, error) {
	err := c.lazy(&c.routeMatcherInit, "routeMatcher", func() (err error) {
		cfg := authDomain.DefaultRouteConfig(c.config.APIVersion, c.config.WhitelistExtra())
		c.routeMatcher, err = authDomain.NewRouteMatcher(cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.routeMatcher, nil
}

// AuthenticationProvider returns the provider that checks login credentials
// against stored accounts, wrapped with metrics when enabled.
func (c *Container) AuthenticationProvider() (authUseCase.AuthenticationProvider, error) {
	err := c.lazy(&c.authProviderInit, "authProvider", func() error {
		users, err := c.UserUseCase()
		if err != nil {
			return fmt.Errorf("failed to get user use case for authentication provider: %w", err)
		}

		provider := authUseCase.NewAuthenticationProvider(users)
		if c.config.MetricsEnabled {
			businessMetrics, err := c.BusinessMetrics()
			if err != nil {
				return fmt.Errorf("failed to get business metrics for authentication provider: %w", err)
			}
			provider = authUseCase.NewAuthenticationProviderWithMetrics(provider, businessMetrics)
		}

		c.authProvider = provider
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.authProvider, nil
}

// LoginThrottle returns the per-IP login limiter, or nil when login rate
// limiting is disabled.
func (c *Container) LoginThrottle() *authHTTP.LoginThrottle {
	c.loginThrottleInit.Do(func() {
		if c.config.RateLimitLoginEnabled {
			c.loginThrottle = authHTTP.NewLoginThrottle(
				c.config.RateLimitLoginRequestsPerSec,
				c.config.RateLimitLoginBurst,
			)
		}
	})
	return c.loginThrottle
}

// ErrorTranslator returns the translator of authentication failures.
func (c *Container) ErrorTranslator() (*authHTTP.ErrorTranslator, error) {
	err := c.lazy(&c.translatorInit, "translator", func() error {
		messages, err := c.MessageSource()
		if err != nil {
			return fmt.Errorf("failed to get message source for error translator: %w", err)
		}

		locales, err := c.LocaleResolver()
		if err != nil {
			return fmt.Errorf("failed to get locale resolver for error translator: %w", err)
		}

		c.translator = authHTTP.NewErrorTranslator(messages, locales, c.Logger())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.translator, nil
}

// AuthPipeline returns the authentication pipeline mounted on every route.
func (c *Container) AuthPipeline() (*authHTTP.Pipeline, error) {
	err := c.lazy(&c.pipelineInit, "pipeline", func() error {
		matcher, err := c.RouteMatcher()
		if err != nil {
			return fmt.Errorf("failed to get route matcher for auth pipeline: %w", err)
		}

		provider, err := c.AuthenticationProvider()
		if err != nil {
			return fmt.Errorf("failed to get authentication provider for auth pipeline: %w", err)
		}

		tokens, err := c.TokenService()
		if err != nil {
			return fmt.Errorf("failed to get token service for auth pipeline: %w", err)
		}

		translator, err := c.ErrorTranslator()
		if err != nil {
			return fmt.Errorf("failed to get error translator for auth pipeline: %w", err)
		}

		c.pipeline = authHTTP.NewAuthPipeline(authHTTP.PipelineDeps{
			Classifier: matcher,
			Throttle:   c.LoginThrottle(),
			Provider:   provider,
			Tokens:     tokens,
			Translator: translator,
			Logger:     c.Logger(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.pipeline, nil
}
