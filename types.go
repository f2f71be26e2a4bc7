package guard

import (
	"context"
	"fmt"
)

// Session keys we persist for an authenticated session. These are stable so
// other processes (or a previous deployment) can read the same session store.
const (
	SessionUserIDKey        = "_auth_user_id"
	SessionUserHashKey      = "_auth_user_hash"
	SessionRememberTokenKey = "_auth_remember_token"
	SessionRememberIDKey    = "_auth_remember_id"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Session is the external key/value store backing one logical conversation.
// Implementations live in the sessions package; the authenticator never
// assumes a process-wide singleton.
type Session interface {
	Get(ctx context.Context, key string) (string, bool)
	Put(ctx context.Context, key, value string) error
	Forget(ctx context.Context, key string) error
	// Regenerate rotates the session's own identifier to defeat fixation,
	// keeping the stored values.
	Regenerate(ctx context.Context) error
	// SetUserID records the numeric user id on the session transport, or
	// clears the marker when nil.
	SetUserID(ctx context.Context, id *int64) error
}

// Authenticatable is the capability set a user record exposes to the
// authenticator. The bun-backed User model implements it; applications with
// their own storage provide an adapter.
type Authenticatable interface {
	AuthIdentifier() string
	// AuthPassword returns the stored password hash, never the plaintext.
	AuthPassword() string
	RememberToken() string
	SetRememberToken(token string)
	// AuthClaims returns the claims used to derive an Identity. Must include
	// at least "id"; "roles" defaults to ["user"] when the record has none.
	AuthClaims() map[string]any
}

// UserProvider looks up and maintains user records on behalf of the
// authenticator and its strategies.
type UserProvider interface {
	FindByID(ctx context.Context, id string) (Authenticatable, error)
	FindByCredential(ctx context.Context, field, value string) (Authenticatable, error)
	FindByRememberToken(ctx context.Context, id, token string) (Authenticatable, error)
	// UpdateRememberToken persists the token; an empty token revokes it.
	UpdateRememberToken(ctx context.Context, user Authenticatable, token string) error
	ValidatePassword(user Authenticatable, password string) bool
	// RehashPasswordIfRequired upgrades the stored hash when the hashing
	// parameters have drifted. Best effort.
	RehashPasswordIfRequired(ctx context.Context, user Authenticatable, password string)
}

// IdentifierFielder lets a provider advertise its default credential lookup
// field (e.g. "email", "username").
type IdentifierFielder interface {
	IdentifierField() string
}

// Disableable marks records that can be administratively disabled. Strategies
// check it after credential verification so a disabled probe does not reveal
// whether the account exists.
type Disableable interface {
	IsDisabled() bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GUARD "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GUARD "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GUARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
