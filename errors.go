package guard

import (
	"github.com/goliatone/go-errors"
)

// ErrUserNotFound is returned by providers when no record matches.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode("USER_NOT_FOUND")

// ErrMismatchedHashAndPassword is the generic password verification failure.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithTextCode("INVALID_PASSWORD")

// ErrNoEmptyString rejects empty input where a secret is required.
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryValidation).
	WithTextCode("EMPTY_STRING")

// ErrNilSession means the authenticator was constructed without a session
// capability. Configuration errors are fatal at boot, never recovered.
var ErrNilSession = errors.New("authenticator requires a session", errors.CategoryValidation).
	WithTextCode("NIL_SESSION")

// ErrNilUserProvider means the authenticator was constructed without a user
// provider.
var ErrNilUserProvider = errors.New("authenticator requires a user provider", errors.CategoryValidation).
	WithTextCode("NIL_USER_PROVIDER")

// IsNotFound reports whether err represents a missing record, regardless of
// which layer produced it.
func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}
