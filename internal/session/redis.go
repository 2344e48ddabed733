package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"exile-tracker/internal/domain"
)

// RedisStore persists sessions in Redis so multiple instances can serve
// requests for the same session.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// sessionRecord carries the build plus the transfer artifact, which the
// build's own JSON encoding deliberately omits.
type sessionRecord struct {
	Build    *domain.Build `json:"build"`
	Artifact string        `json:"artifact,omitempty"`
}

func (s *RedisStore) Save(ctx context.Context, build *domain.Build) error {
	if build.SessionID == "" {
		return fmt.Errorf("save session: empty session id")
	}

	data, err := json.Marshal(sessionRecord{Build: build, Artifact: build.Artifact})
	if err != nil {
		return fmt.Errorf("save session %s: %w", build.SessionID, err)
	}
	if err := s.rdb.Set(ctx, sessionKey(build.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", build.SessionID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*domain.Build, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	if rec.Build == nil {
		return nil, ErrNotFound
	}
	rec.Build.Artifact = rec.Artifact
	return rec.Build, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

func sessionKey(id string) string { return fmt.Sprintf("session:%s", id) }
