package guard_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-guard"
)

// fakeSession is an in-memory guard.Session that records regenerations so
// tests can assert on fixation defense.
type fakeSession struct {
	mu          sync.Mutex
	values      map[string]string
	userID      *int64
	regenerated int
}

func newFakeSession() *fakeSession {
	return &fakeSession{values: map[string]string{}}
}

func (s *fakeSession) Get(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *fakeSession) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *fakeSession) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *fakeSession) Regenerate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerated++
	return nil
}

func (s *fakeSession) SetUserID(_ context.Context, id *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
	return nil
}

func (s *fakeSession) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// testUser is a minimal Authenticatable backed by plain fields.
type testUser struct {
	id       string
	hash     string
	remember string
	disabled bool
	claims   map[string]any
}

func (u *testUser) IsDisabled() bool {
	return u.disabled
}

func (u *testUser) AuthIdentifier() string {
	return u.id
}

func (u *testUser) AuthPassword() string {
	return u.hash
}

func (u *testUser) RememberToken() string {
	return u.remember
}

func (u *testUser) SetRememberToken(token string) {
	u.remember = token
}

func (u *testUser) AuthClaims() map[string]any {
	if u.claims != nil {
		return u.claims
	}
	return map[string]any{
		"id":    u.id,
		"roles": []string{"user"},
	}
}

// fakeProvider serves users from a map and records remember-token updates.
type fakeProvider struct {
	byID    map[string]*testUser
	byField map[string]*testUser

	findErr        error
	rememberTokens []string
	rehashed       int
}

func newFakeProvider(users ...*testUser) *fakeProvider {
	p := &fakeProvider{
		byID:    map[string]*testUser{},
		byField: map[string]*testUser{},
	}
	for _, u := range users {
		p.byID[u.id] = u
	}
	return p
}

func (p *fakeProvider) addCredential(value string, user *testUser) {
	p.byField[value] = user
}

func (p *fakeProvider) FindByID(_ context.Context, id string) (guard.Authenticatable, error) {
	if p.findErr != nil {
		return nil, p.findErr
	}
	if u, ok := p.byID[id]; ok {
		return u, nil
	}
	return nil, guard.ErrUserNotFound
}

func (p *fakeProvider) FindByCredential(_ context.Context, _, value string) (guard.Authenticatable, error) {
	if u, ok := p.byField[value]; ok {
		return u, nil
	}
	return nil, guard.ErrUserNotFound
}

func (p *fakeProvider) FindByRememberToken(ctx context.Context, id, token string) (guard.Authenticatable, error) {
	user, err := p.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if token == "" || user.RememberToken() != token {
		return nil, guard.ErrUserNotFound
	}
	return user, nil
}

func (p *fakeProvider) UpdateRememberToken(_ context.Context, user guard.Authenticatable, token string) error {
	user.SetRememberToken(token)
	p.rememberTokens = append(p.rememberTokens, token)
	return nil
}

func (p *fakeProvider) ValidatePassword(user guard.Authenticatable, password string) bool {
	return guard.ComparePasswordAndHash(password, user.AuthPassword()) == nil
}

func (p *fakeProvider) RehashPasswordIfRequired(_ context.Context, _ guard.Authenticatable, _ string) {
	p.rehashed++
}

// captureSink records every notification it receives.
type captureSink struct {
	authenticated []guard.UserAuthenticated
	failed        []guard.LoginFailed
	loggedOut     []guard.LoggedOut
}

func (c *captureSink) UserAuthenticated(_ context.Context, event guard.UserAuthenticated) error {
	c.authenticated = append(c.authenticated, event)
	return nil
}

func (c *captureSink) LoginFailed(_ context.Context, event guard.LoginFailed) error {
	c.failed = append(c.failed, event)
	return nil
}

func (c *captureSink) LoggedOut(_ context.Context, event guard.LoggedOut) error {
	c.loggedOut = append(c.loggedOut, event)
	return nil
}
