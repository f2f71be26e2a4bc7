package guard

import (
	"context"
)

var identityCtxKey = &contextKey{"identity"}
var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithIdentity sets the resolved Identity in the given context so transports
// can hand it to the authorizer without re-resolving the session.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the identity from the context. The second return
// is false when no identity was stored; callers usually fall back to
// AnonymousIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(Identity)
	return raw, ok
}

// WithUser sets the backing user record in the given context.
func WithUser(ctx context.Context, user Authenticatable) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext finds the user record from the context.
func UserFromContext(ctx context.Context) (Authenticatable, bool) {
	raw, ok := ctx.Value(userCtxKey).(Authenticatable)
	return raw, ok
}
