package voxo

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
)

// The two strategies mirror the classic local/bearer split: local checks
// submitted credentials against the store, bearer verifies a previously
// issued token. Both are plain structs built at startup and injected where
// needed; there is no runtime strategy registry.

// LocalStrategy validates a username/password pair against the store.
type LocalStrategy struct {
	users  UserFinder
	logger Logger
}

// NewLocalStrategy returns a LocalStrategy backed by the given store.
func NewLocalStrategy(users UserFinder) *LocalStrategy {
	return &LocalStrategy{
		users:  users,
		logger: defLogger{},
	}
}

func (s *LocalStrategy) WithLogger(logger Logger) *LocalStrategy {
	s.logger = logger
	return s
}

// Authenticate looks up the user by exact username and verifies the
// password. Unknown usernames and wrong passwords fail with distinct
// errors; callers decide how much of that to surface.
func (s *LocalStrategy) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrIncorrectPassword
	}

	return user, nil
}

// BearerStrategy authenticates requests carrying a bearer token.
type BearerStrategy struct {
	tokens TokenValidator
	scheme string
	logger Logger
}

// NewBearerStrategy returns a BearerStrategy that validates tokens with
// the same service that issues them.
func NewBearerStrategy(tokens TokenValidator) *BearerStrategy {
	return &BearerStrategy{
		tokens: tokens,
		scheme: "Bearer",
		logger: defLogger{},
	}
}

func (s *BearerStrategy) WithLogger(logger Logger) *BearerStrategy {
	s.logger = logger
	return s
}

// Authenticate extracts the token from an Authorization header value and
// validates it. Absent, malformed, or unverifiable tokens all collapse
// into ErrUnauthenticated.
func (s *BearerStrategy) Authenticate(authorization string) (AuthClaims, error) {
	raw, err := ExtractBearerToken(authorization, s.scheme)
	if err != nil {
		return nil, err
	}

	claims, err := s.tokens.Validate(raw)
	if err != nil {
		s.logger.Debug("bearer token rejected: %v", err)
		if IsTokenExpiredError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, ErrUnauthenticated.Category, ErrUnauthenticated.Message).
			WithTextCode(ErrUnauthenticated.TextCode)
	}

	return claims, nil
}

// ExtractBearerToken pulls the raw token out of an Authorization header
// value using the given auth scheme.
func ExtractBearerToken(authorization, scheme string) (string, error) {
	scheme = strings.TrimSpace(scheme)
	if scheme == "" {
		scheme = "Bearer"
	}

	l := len(scheme)
	if len(authorization) > l+1 && strings.EqualFold(authorization[:l], scheme) {
		token := strings.TrimSpace(authorization[l:])
		if token != "" {
			return token, nil
		}
	}

	return "", ErrUnauthenticated
}
