// Package session holds server-side session stores.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pinshop/internal/domain/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions as JSON values under session:<token> with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, accountRef, role string) (string, error) {
	token := uuid.NewString()
	b, err := json.Marshal(model.Session{AccountRef: accountRef, Role: role})
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+token, b, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (model.Session, bool, error) {
	if token == "" {
		return model.Session{}, false, nil
	}
	b, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, false, nil
		}
		return model.Session{}, false, fmt.Errorf("failed to load session: %w", err)
	}
	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return model.Session{}, false, fmt.Errorf("corrupt session %s: %w", token, err)
	}
	return sess, true, nil
}
