package voxo_test

import (
	"context"
	"database/sql"

	voxo "github.com/kbujak09/voxo-backend"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockUsers implements voxo.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetByID(ctx context.Context, id string) (*voxo.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*voxo.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByUsername(ctx context.Context, username string) (*voxo.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*voxo.User)
	return user, args.Error(1)
}

func (m *MockUsers) UsernameTaken(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsers) List(ctx context.Context) ([]*voxo.User, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]*voxo.User)
	return records, args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, record *voxo.User) (*voxo.User, error) {
	args := m.Called(ctx, record)
	user, _ := args.Get(0).(*voxo.User)
	return user, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *voxo.User) (*voxo.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*voxo.User)
	return user, args.Error(1)
}

var _ voxo.Users = (*MockUsers)(nil)

// stubRepoManager wires a MockUsers behind the RepositoryManager contract.
// RunInTx runs the callback directly; the mocks ignore the tx handle.
type stubRepoManager struct {
	users voxo.Users
}

func (s stubRepoManager) Users() voxo.Users { return s.users }

func (s stubRepoManager) Validate() error { return nil }

func (s stubRepoManager) MustValidate() {}

func (s stubRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

var _ voxo.RepositoryManager = stubRepoManager{}

// MockTokenService implements voxo.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(identity voxo.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *voxo.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (voxo.AuthClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(voxo.AuthClaims)
	return claims, args.Error(1)
}

// testConfig implements voxo.Config
type testConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func (c testConfig) GetSigningKey() string { return c.signingKey }

func (c testConfig) GetSigningMethod() string { return "HS256" }

func (c testConfig) GetContextKey() string { return "user" }

func (c testConfig) GetTokenExpiration() int {
	if c.tokenExpiration == 0 {
		return 24
	}
	return c.tokenExpiration
}

func (c testConfig) GetTokenLookup() string { return "header:Authorization" }

func (c testConfig) GetAuthScheme() string { return "Bearer" }

func (c testConfig) GetIssuer() string { return c.issuer }

func (c testConfig) GetAudience() []string { return c.audience }
