package sessions

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-guard"
)

const (
	defaultKeyPrefix  = "guard:sess"
	defaultSessionTTL = 24 * time.Hour

	// reserved hash field for the numeric user marker
	userIDField = "_user_id"
)

// RedisStore opens Redis-backed sessions. Values live in one hash per
// session id; Regenerate renames the hash under a fresh id so the values
// survive the rotation atomically.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: defaultKeyPrefix,
		ttl:    defaultSessionTTL,
	}
}

// WithPrefix overrides the key namespace.
func (s *RedisStore) WithPrefix(prefix string) *RedisStore {
	if prefix != "" {
		s.prefix = prefix
	}
	return s
}

// WithTTL overrides how long an idle session survives.
func (s *RedisStore) WithTTL(ttl time.Duration) *RedisStore {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// Open returns the session for the given id, creating the id when empty.
func (s *RedisStore) Open(id string) *RedisSession {
	if id == "" {
		id = uuid.NewString()
	}

	return &RedisSession{store: s, id: id}
}

// RedisSession is one logical conversation in a RedisStore.
type RedisSession struct {
	store *RedisStore

	mu sync.Mutex
	id string
}

var _ guard.Session = (*RedisSession)(nil)

// ID returns the current session identifier.
func (s *RedisSession) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *RedisSession) key() string {
	return s.store.prefix + ":" + s.id
}

func (s *RedisSession) Get(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, err := s.store.client.HGet(ctx, s.key(), key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *RedisSession) Put(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pipe := s.store.client.TxPipeline()
	pipe.HSet(ctx, s.key(), key, value)
	pipe.Expire(ctx, s.key(), s.store.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSession) Forget(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.client.HDel(ctx, s.key(), key).Err()
}

// Regenerate renames the session hash under a fresh id. The old id stops
// resolving immediately, which is the point of the rotation.
func (s *RedisSession) Regenerate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldKey := s.key()
	newID := uuid.NewString()
	newKey := s.store.prefix + ":" + newID

	exists, err := s.store.client.Exists(ctx, oldKey).Result()
	if err != nil {
		return err
	}

	if exists > 0 {
		if err := s.store.client.Rename(ctx, oldKey, newKey).Err(); err != nil {
			return err
		}
	}

	s.id = newID
	return nil
}

func (s *RedisSession) SetUserID(ctx context.Context, id *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == nil {
		return s.store.client.HDel(ctx, s.key(), userIDField).Err()
	}

	return s.store.client.HSet(ctx, s.key(), userIDField, strconv.FormatInt(*id, 10)).Err()
}

// UserID reads back the numeric user marker, nil when absent.
func (s *RedisSession) UserID(ctx context.Context) (*int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, err := s.store.client.HGet(ctx, s.key(), userIDField).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, err
	}

	return &n, nil
}
