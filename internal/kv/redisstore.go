package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps slots as prefixed string keys. Slots have no expiry;
// they hold the latest snapshot until the next Save.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		keyPrefix: "aichat:state",
	}
}

func (s *RedisStore) Save(ctx context.Context, slot string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal slot %s: %w", slot, err)
	}
	return s.client.Set(ctx, s.key(slot), raw, 0).Err()
}

func (s *RedisStore) Load(ctx context.Context, slot string, out any) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("unmarshal slot %s: %w", slot, err)
	}
	return true, nil
}

func (s *RedisStore) key(slot string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, slot)
}

func (s *RedisStore) Close() error { return s.client.Close() }
