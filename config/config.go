// Package config loads the service configuration from environment
// variables. The signing secret is mandatory: a process without one must
// not come up and silently issue unverifiable tokens.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-errors"
)

type AppConfig struct {
	Addr  string `env:"VOXO_ADDR" envDefault:":5000"`
	Debug bool   `env:"VOXO_DEBUG" envDefault:"false"`
	DSN   string `env:"VOXO_DSN" envDefault:"file:voxo.db?cache=shared"`

	SigningKey      string   `env:"JWT_SECRET,required"`
	SigningMethod   string   `env:"JWT_SIGNING_METHOD" envDefault:"HS256"`
	ContextKey      string   `env:"JWT_CONTEXT_KEY" envDefault:"user"`
	TokenExpiration int      `env:"JWT_EXPIRATION_HOURS" envDefault:"24"`
	TokenLookup     string   `env:"JWT_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme      string   `env:"JWT_AUTH_SCHEME" envDefault:"Bearer"`
	Issuer          string   `env:"JWT_ISSUER" envDefault:"voxo"`
	Audience        []string `env:"JWT_AUDIENCE" envSeparator:","`
}

// Load parses the environment and validates the result.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse environment configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("signing key must not be empty", errors.CategoryBadInput).
			WithTextCode("SIGNER_MISCONFIGURED")
	}

	if c.TokenExpiration <= 0 {
		return errors.New("token expiration must be a positive number of hours", errors.CategoryBadInput)
	}

	return nil
}

func (c *AppConfig) GetSigningKey() string { return c.SigningKey }

func (c *AppConfig) GetSigningMethod() string { return c.SigningMethod }

func (c *AppConfig) GetContextKey() string { return c.ContextKey }

func (c *AppConfig) GetTokenExpiration() int { return c.TokenExpiration }

func (c *AppConfig) GetTokenLookup() string { return c.TokenLookup }

func (c *AppConfig) GetAuthScheme() string { return c.AuthScheme }

func (c *AppConfig) GetIssuer() string { return c.Issuer }

func (c *AppConfig) GetAudience() []string { return c.Audience }
