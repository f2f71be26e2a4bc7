package guard

import (
	"context"
	"crypto/subtle"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ModelUserProvider is the bun-backed reference UserProvider. It adapts the
// Users repository to the capability set the authenticator consumes.
type ModelUserProvider struct {
	store           Users
	identifierField string
	logger          Logger
}

var (
	_ UserProvider      = (*ModelUserProvider)(nil)
	_ IdentifierFielder = (*ModelUserProvider)(nil)
)

// NewModelUserProvider will create a provider over the given repository. The
// identifier field defaults to "email".
func NewModelUserProvider(store Users) *ModelUserProvider {
	return &ModelUserProvider{
		store:           store,
		identifierField: "email",
		logger:          defLogger{},
	}
}

func (p *ModelUserProvider) WithLogger(l Logger) *ModelUserProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

// WithIdentifierField overrides the default credential lookup column.
func (p *ModelUserProvider) WithIdentifierField(field string) *ModelUserProvider {
	if field != "" {
		p.identifierField = field
	}
	return p
}

// IdentifierField returns the default credential lookup column.
func (p *ModelUserProvider) IdentifierField() string {
	return p.identifierField
}

func (p *ModelUserProvider) FindByID(ctx context.Context, id string) (Authenticatable, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := p.store.GetByUUID(ctx, uid)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by id")
	}

	return user, nil
}

func (p *ModelUserProvider) FindByCredential(ctx context.Context, field, value string) (Authenticatable, error) {
	if field == "" {
		field = p.identifierField
	}

	user, err := p.store.GetByField(ctx, field, value)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user by credential")
	}

	return user, nil
}

// FindByRememberToken resolves the user by id and compares the stored token
// in constant time. A revoked (empty) token never matches.
func (p *ModelUserProvider) FindByRememberToken(ctx context.Context, id, token string) (Authenticatable, error) {
	user, err := p.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stored := user.RememberToken()
	if stored == "" || token == "" {
		return nil, ErrUserNotFound
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return nil, ErrUserNotFound
	}

	return user, nil
}

func (p *ModelUserProvider) UpdateRememberToken(ctx context.Context, user Authenticatable, token string) error {
	user.SetRememberToken(token)

	record, ok := user.(*User)
	if !ok {
		// Non bun-backed records keep the token in memory only; their owner
		// persists it.
		return nil
	}

	if err := p.store.UpdateRememberToken(ctx, record.ID, token); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to persist remember token")
	}

	return nil
}

func (p *ModelUserProvider) ValidatePassword(user Authenticatable, password string) bool {
	return ComparePasswordAndHash(password, user.AuthPassword()) == nil
}

// RehashPasswordIfRequired upgrades stale hashes opportunistically after a
// successful verification. Failures are logged, never surfaced: the login
// already succeeded against the old hash.
func (p *ModelUserProvider) RehashPasswordIfRequired(ctx context.Context, user Authenticatable, password string) {
	if !NeedsRehash(user.AuthPassword()) {
		return
	}

	record, ok := user.(*User)
	if !ok {
		return
	}

	hash, err := HashPassword(password)
	if err != nil {
		p.logger.Warn("password rehash failed", "error", err)
		return
	}

	if err := p.store.UpdatePasswordHash(ctx, record.ID, hash); err != nil {
		p.logger.Warn("failed to persist rehashed password", "error", err)
		return
	}

	record.PasswordHash = hash
}
