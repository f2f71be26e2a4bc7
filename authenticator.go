package guard

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"
)

// Authenticator resolves a persisted session into a verified identity and
// owns the login/logout transitions for one logical session. It is request
// scoped: one instance per logical session, resolution happens at most once.
type Authenticator struct {
	session  Session
	provider UserProvider
	sink     EventSink
	logger   Logger

	// registration order decides "first supporting strategy wins"
	order      []string
	strategies map[string]Strategy

	resolved bool
	identity Identity
	user     Authenticatable
}

// NewAuthenticator returns a new Authenticator. A missing session or provider
// is a configuration error and fatal at construction.
func NewAuthenticator(session Session, provider UserProvider) (*Authenticator, error) {
	if session == nil {
		return nil, ErrNilSession
	}

	if provider == nil {
		return nil, ErrNilUserProvider
	}

	return &Authenticator{
		session:    session,
		provider:   provider,
		sink:       noopEventSink{},
		logger:     defLogger{},
		strategies: map[string]Strategy{},
	}, nil
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithEventSink configures an optional sink for auth notifications.
func (a *Authenticator) WithEventSink(sink EventSink) *Authenticator {
	a.sink = normalizeEventSink(sink)
	return a
}

// AddStrategy registers a credential strategy. Registration order is
// preserved for capability probing; re-registering a name replaces the
// strategy but keeps its original position.
func (a *Authenticator) AddStrategy(strategy Strategy) *Authenticator {
	name := strategy.Name()
	if _, ok := a.strategies[name]; !ok {
		a.order = append(a.order, name)
	}
	a.strategies[name] = strategy
	return a
}

// Strategy returns a registered strategy by name.
func (a *Authenticator) Strategy(name string) (Strategy, bool) {
	s, ok := a.strategies[name]
	return s, ok
}

// Attempt runs a credential through the appropriate strategy. When no
// strategy name is given, the first registered strategy supporting the
// credential wins. On success the user is logged in, the session id is
// regenerated, and a remember token is minted when the strategy asked for it.
func (a *Authenticator) Attempt(ctx context.Context, credential Credential, strategyName ...string) Result {
	strategy := a.resolveStrategy(credential, strategyName...)
	if strategy == nil {
		return Failure("No suitable authentication strategy found")
	}

	result := strategy.Authenticate(ctx, credential)

	if result.Failed() {
		a.emitLoginFailed(ctx, extractIdentifier(credential), result.Error())
		return result
	}

	if err := a.Login(ctx, result.Identity(), result.User()); err != nil {
		a.logger.Error("attempt failed to persist login", "error", err)
		return Failure("Unable to persist session")
	}

	remember, _ := result.MetadataValue("remember", false).(bool)
	if remember {
		a.createRememberToken(ctx, result.User())
	}

	a.emit(ctx, func() error {
		return a.sink.UserAuthenticated(ctx, UserAuthenticated{
			User:       result.User(),
			Identity:   result.Identity(),
			Remember:   remember,
			OccurredAt: time.Now(),
		})
	})

	return result
}

// Login sets the current identity/user unconditionally, writes the session
// markers, and rotates the session identifier to defeat fixation.
func (a *Authenticator) Login(ctx context.Context, identity Identity, user Authenticatable) error {
	a.identity = identity
	a.user = user
	a.resolved = true

	if err := a.session.Put(ctx, SessionUserIDKey, user.AuthIdentifier()); err != nil {
		return err
	}

	if err := a.session.Put(ctx, SessionUserHashKey, passwordFingerprint(user)); err != nil {
		return err
	}

	if err := a.session.Regenerate(ctx); err != nil {
		return err
	}

	return a.session.SetUserID(ctx, numericUserID(user.AuthIdentifier()))
}

// LoginByID looks up a user and logs it in. Returns false when no user
// matches the id.
func (a *Authenticator) LoginByID(ctx context.Context, id string) (bool, error) {
	user, err := a.provider.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if user == nil {
		return false, nil
	}

	if err := a.Login(ctx, IdentityFromUser(user), user); err != nil {
		return false, err
	}

	return true, nil
}

// Logout clears the current user, revokes its remember token, removes both
// session markers, and rotates the session identifier. Always leaves the
// authenticator resolved to anonymous.
func (a *Authenticator) Logout(ctx context.Context) error {
	if a.user != nil {
		user := a.user
		a.emit(ctx, func() error {
			return a.sink.LoggedOut(ctx, LoggedOut{User: user, OccurredAt: time.Now()})
		})

		if err := a.provider.UpdateRememberToken(ctx, user, ""); err != nil {
			a.logger.Warn("logout failed to revoke remember token", "error", err)
		}
	}

	if err := a.session.SetUserID(ctx, nil); err != nil {
		a.logger.Warn("logout failed to clear session user id", "error", err)
	}

	a.identity = nil
	a.user = nil
	a.resolved = true

	if err := a.session.Forget(ctx, SessionUserIDKey); err != nil {
		return err
	}

	if err := a.session.Forget(ctx, SessionUserHashKey); err != nil {
		return err
	}

	return a.session.Regenerate(ctx)
}

// Identity returns the current identity, resolving the session at most once.
func (a *Authenticator) Identity(ctx context.Context) Identity {
	a.resolveFromSession(ctx)

	if a.identity == nil {
		return AnonymousIdentity()
	}

	return a.identity
}

// User returns the backing user record, or nil for anonymous sessions.
func (a *Authenticator) User(ctx context.Context) Authenticatable {
	a.resolveFromSession(ctx)

	return a.user
}

// Check reports whether the current session resolves to an authenticated
// identity.
func (a *Authenticator) Check(ctx context.Context) bool {
	return a.Identity(ctx).IsAuthenticated()
}

// Guest is the inverse of Check.
func (a *Authenticator) Guest(ctx context.Context) bool {
	return !a.Check(ctx)
}

// ID returns the authenticated user's id, or the empty string for guests.
func (a *Authenticator) ID(ctx context.Context) string {
	if !a.Check(ctx) {
		return ""
	}
	return a.Identity(ctx).ID()
}

// Validate runs strategy resolution and authentication without mutating any
// session or identity state. A dry run.
func (a *Authenticator) Validate(ctx context.Context, credential Credential, strategyName ...string) bool {
	strategy := a.resolveStrategy(credential, strategyName...)
	if strategy == nil {
		return false
	}

	return strategy.Authenticate(ctx, credential).Success()
}

// resolveFromSession runs the resolve-once state machine: read the stored
// user id, look the user up, and verify the password fingerprint still
// matches. Any integrity failure forces logout to anonymous; that is the only
// remediation path, fail closed.
func (a *Authenticator) resolveFromSession(ctx context.Context) {
	if a.resolved {
		return
	}

	a.resolved = true

	id, ok := a.session.Get(ctx, SessionUserIDKey)
	if !ok {
		return
	}

	user, err := a.provider.FindByID(ctx, id)
	if err != nil || user == nil {
		if err != nil && !IsNotFound(err) {
			a.logger.Error("session resolution lookup failed", "error", err, "user_id", id)
		}
		a.forceLogout(ctx)
		return
	}

	// The stored fingerprint must reflect the user's current password hash;
	// a mismatch means the password changed elsewhere and the session is
	// stale.
	storedHash, _ := a.session.Get(ctx, SessionUserHashKey)
	if storedHash != passwordFingerprint(user) {
		a.forceLogout(ctx)
		return
	}

	a.user = user
	a.identity = IdentityFromUser(user)
}

func (a *Authenticator) forceLogout(ctx context.Context) {
	if err := a.Logout(ctx); err != nil {
		a.logger.Warn("forced logout error", "error", err)
	}
}

func (a *Authenticator) resolveStrategy(credential Credential, name ...string) Strategy {
	if len(name) > 0 && name[0] != "" {
		return a.strategies[name[0]]
	}

	for _, n := range a.order {
		if s := a.strategies[n]; s.Supports(credential) {
			return s
		}
	}

	return nil
}

// createRememberToken mints a fresh token, persists it via the provider, and
// mirrors it into session metadata so a transport layer can issue the cookie.
func (a *Authenticator) createRememberToken(ctx context.Context, user Authenticatable) {
	token := RandomToken()

	if err := a.provider.UpdateRememberToken(ctx, user, token); err != nil {
		a.logger.Error("failed to persist remember token", "error", err)
		return
	}

	if err := a.session.Put(ctx, SessionRememberTokenKey, token); err != nil {
		a.logger.Warn("failed to stash remember token in session", "error", err)
	}

	if err := a.session.Put(ctx, SessionRememberIDKey, user.AuthIdentifier()); err != nil {
		a.logger.Warn("failed to stash remember id in session", "error", err)
	}
}

func (a *Authenticator) emitLoginFailed(ctx context.Context, identifier, reason string) {
	if reason == "" {
		reason = "Invalid credentials"
	}

	a.emit(ctx, func() error {
		return a.sink.LoginFailed(ctx, LoginFailed{
			Identifier: identifier,
			Reason:     reason,
			OccurredAt: time.Now(),
		})
	})
}

func (a *Authenticator) emit(ctx context.Context, fn func() error) {
	if err := fn(); err != nil {
		a.logger.Warn("event sink error", "error", err)
	}
}

// passwordFingerprint is the session staleness check: sha1 of the stored
// password hash, never of the plaintext.
func passwordFingerprint(user Authenticatable) string {
	sum := sha1.Sum([]byte(user.AuthPassword()))
	return hex.EncodeToString(sum[:])
}

func numericUserID(id string) *int64 {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func extractIdentifier(credential Credential) string {
	switch c := credential.(type) {
	case PasswordCredential:
		return c.Identifier
	case TokenCredential:
		if c.UserID != "" {
			return c.UserID
		}
	}
	return "unknown"
}
