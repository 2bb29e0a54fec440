package voxo

import (
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account record. PasswordHash never crosses the store
// boundary: it is excluded from every JSON response.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Online        bool       `bun:"online,notnull,default:false" json:"online"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

func (u *User) GetID() string {
	return u.ID.String()
}

func (u *User) GetUsername() string {
	return u.Username
}

type userIdentity struct {
	id       string
	username string
}

func (a userIdentity) ID() string       { return a.id }
func (a userIdentity) Username() string { return a.username }

var _ Identity = userIdentity{}

// IdentityFromUser adapts a stored record to the Identity consumed by the
// token issuer.
func IdentityFromUser(u *User) Identity {
	return userIdentity{
		id:       u.ID.String(),
		username: u.Username,
	}
}

// SanitizeUsername escapes unsafe characters before the value is stored or
// echoed back in a response.
func SanitizeUsername(username string) string {
	return html.EscapeString(strings.TrimSpace(username))
}
