// Package sessions provides reference Session adapters: an in-memory store
// for tests and single-process use, and a Redis-backed store for shared
// deployments. Both rotate their session id on Regenerate while keeping the
// stored values, which is what the authenticator's fixation defense relies
// on.
package sessions

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-guard"
)

// MemorySession is a mutexed in-process Session. Each logical conversation
// gets its own instance; instances are independent.
type MemorySession struct {
	mu     sync.Mutex
	id     string
	values map[string]string
	userID *int64
}

var _ guard.Session = (*MemorySession)(nil)

func NewMemorySession() *MemorySession {
	return &MemorySession{
		id:     uuid.NewString(),
		values: map[string]string{},
	}
}

// ID returns the current session identifier.
func (s *MemorySession) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// UserID returns the numeric user marker, nil when cleared.
func (s *MemorySession) UserID() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == nil {
		return nil
	}
	v := *s.userID
	return &v
}

func (s *MemorySession) Get(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok
}

func (s *MemorySession) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *MemorySession) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Regenerate rotates the session id, keeping the stored values.
func (s *MemorySession) Regenerate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.id = uuid.NewString()
	return nil
}

func (s *MemorySession) SetUserID(_ context.Context, id *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == nil {
		s.userID = nil
		return nil
	}

	v := *id
	s.userID = &v
	return nil
}
