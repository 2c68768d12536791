package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const sessionsKey = "mood:sessions"

// RedisStore shares session history between service replicas.
type RedisStore struct {
	client *redis.Client
	limit  int
}

func NewRedisStore(client *redis.Client, limit int) *RedisStore {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &RedisStore{client: client, limit: limit}
}

func historyKey(key string) string {
	return fmt.Sprintf("mood:session:%s:history", key)
}

func (s *RedisStore) Capacity() int {
	return s.limit
}

// Record appends and trims inside one MULTI/EXEC so concurrent requests
// for the same session cannot lose updates.
func (s *RedisStore) Record(ctx context.Context, key string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	hk := historyKey(key)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, hk, values...)
		pipe.LTrim(ctx, hk, int64(-s.limit), -1)
		pipe.SAdd(ctx, sessionsKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record session %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, key string) ([]string, error) {
	ids, err := s.client.LRange(ctx, historyKey(key), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", key, err)
	}
	return ids, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) (bool, error) {
	known, err := s.client.SIsMember(ctx, sessionsKey, key).Result()
	if err != nil {
		return false, fmt.Errorf("check session %s: %w", key, err)
	}
	if !known {
		return false, nil
	}
	if err := s.client.Del(ctx, historyKey(key)).Err(); err != nil {
		return false, fmt.Errorf("reset session %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, sessionsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return int(n), nil
}
