package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/MikeMC777/choco-delisias/internal/apperr"
)

// Store persists one cart per user.
type Store interface {
	// Load returns an empty cart when the user has none.
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, c *Cart) error
	Delete(ctx context.Context, userID string) error
}

const DefaultTTL = 30 * 24 * time.Hour

// RedisStore keeps the cart as JSON under cart:<user>.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(userID string) string { return "cart:" + userID }

func (s *RedisStore) Load(ctx context.Context, userID string) (*Cart, error) {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, apperr.Persistence(err, "redis get cart")
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, apperr.Persistence(err, "decode cart")
	}
	return &c, nil
}

// Save writes c and refreshes its TTL. An empty cart deletes the key.
func (s *RedisStore) Save(ctx context.Context, userID string, c *Cart) error {
	if c == nil || c.IsEmpty() {
		return s.Delete(ctx, userID)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	if err := s.client.Set(ctx, key(userID), data, s.ttl).Err(); err != nil {
		return apperr.Persistence(err, "redis set cart")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return apperr.Persistence(err, "redis delete cart")
	}
	return nil
}
