package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore maps hashed session tokens to user emails. Get extends the
// session's TTL on every hit so active sessions slide forward.
type SessionStore interface {
	Set(ctx context.Context, tokenHash, email string, ttl time.Duration) error
	Get(ctx context.Context, tokenHash string) (string, error)
	Delete(ctx context.Context, tokenHash string) error
	Ping(ctx context.Context) error
}

// RedisSessionStore stores sessions in Redis under the "session:" prefix.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Set(ctx context.Context, tokenHash, email string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+tokenHash, email, ttl).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, tokenHash string) (string, error) {
	key := sessionKeyPrefix + tokenHash
	email, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying session: %w", err)
	}

	// Sliding expiry: active sessions stay alive.
	s.client.Expire(ctx, key, sessionDuration)
	return email, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+tokenHash).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

type memorySession struct {
	email     string
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory. Used when no Redis is
// configured; sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

func (s *MemorySessionStore) Set(ctx context.Context, tokenHash, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenHash] = memorySession{email: email, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, tokenHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[tokenHash]
	if !ok {
		return "", ErrSessionNotFound
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, tokenHash)
		return "", ErrSessionExpired
	}
	sess.expiresAt = time.Now().Add(sessionDuration)
	s.sessions[tokenHash] = sess
	return sess.email, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

func (s *MemorySessionStore) Ping(ctx context.Context) error {
	return nil
}
