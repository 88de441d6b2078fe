package redisstore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
)

const sessionKeyPrefix = "session:"

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps session tokens in Redis with a per-key TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, token string, accountID int64) error {
	token = strings.TrimSpace(token)
	if token == "" || accountID <= 0 {
		return errors.New("token and account are required")
	}
	return s.client.Set(ctx, sessionKeyPrefix+token, accountID, s.ttl).Err()
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (int64, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+strings.TrimSpace(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ports.ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ports.ErrSessionNotFound
	}
	return id, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+strings.TrimSpace(token)).Err()
}
