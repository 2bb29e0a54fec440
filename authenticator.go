package voxo

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther composes the authentication strategies with the token issuer. It
// holds exactly the collaborators it needs, injected at construction.
type Auther struct {
	local        *LocalStrategy
	bearer       *BearerStrategy
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(users UserFinder, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		local:        NewLocalStrategy(users),
		bearer:       NewBearerStrategy(tokenService),
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.local.WithLogger(logger)
	s.bearer.WithLogger(logger)
	return s
}

// WithTokenService overrides the token issuer, mostly for tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	s.tokenService = ts
	s.bearer = NewBearerStrategy(ts).WithLogger(s.logger)
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Bearer returns the bearer strategy for protected-route middleware.
func (s *Auther) Bearer() *BearerStrategy {
	return s.bearer
}

// Login authenticates with the local strategy and issues a token for the
// verified user. The returned user still carries no password hash in any
// serialized form.
func (s *Auther) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := s.local.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Error("login verify identity error for %s: %v", username, err)
		return nil, "", err
	}

	token, err := s.tokenService.Generate(IdentityFromUser(user))
	if err != nil {
		s.logger.Error("login token issuance error: %v", err)
		return nil, "", errors.Wrap(err, errors.CategoryInternal, "failed to issue token")
	}

	return user, token, nil
}

// ClaimsFromAuthorization authenticates a raw Authorization header value
// with the bearer strategy.
func (s *Auther) ClaimsFromAuthorization(authorization string) (AuthClaims, error) {
	return s.bearer.Authenticate(authorization)
}
