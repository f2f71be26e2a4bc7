package guard

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun-backed reference user model. Applications with their own
// storage implement Authenticatable instead.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID             uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole       `bun:"user_role,notnull" json:"user_role,omitempty"`
	Username       string         `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string         `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string         `bun:"password_hash" json:"-"`
	RememberSecret string         `bun:"remember_token" json:"-"`
	Disabled       bool           `bun:"is_disabled" json:"is_disabled,omitempty"`
	Metadata       map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt      *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

var (
	_ Authenticatable = (*User)(nil)
	_ Disableable     = (*User)(nil)
)

// AuthIdentifier returns the primary key as a string.
func (u *User) AuthIdentifier() string {
	return u.ID.String()
}

// AuthPassword returns the stored password hash.
func (u *User) AuthPassword() string {
	return u.PasswordHash
}

// RememberToken returns the stored remember-me token, empty when revoked.
func (u *User) RememberToken() string {
	return u.RememberSecret
}

// SetRememberToken updates the in-memory token; persistence is the
// provider's job.
func (u *User) SetRememberToken(token string) {
	u.RememberSecret = token
}

// IsDisabled reports whether the account is administratively disabled.
func (u *User) IsDisabled() bool {
	return u.Disabled
}

// AuthClaims returns the claims an Identity is derived from. The "roles"
// claim falls back to ["user"] when the record carries no role.
func (u *User) AuthClaims() map[string]any {
	claims := map[string]any{
		"id": u.AuthIdentifier(),
	}

	if u.Email != "" {
		claims["email"] = u.Email
	}

	if u.Username != "" {
		claims["name"] = u.Username
	}

	if u.Role != "" {
		claims["roles"] = []string{string(u.Role)}
	} else {
		claims["roles"] = []string{RoleUser}
	}

	return claims
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}
