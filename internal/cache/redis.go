package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL  = 5 * time.Minute
	snapshotKey = "mood:catalog:snapshot"
)

// Cache holds the latest catalog snapshot so requests do not hit
// Postgres for the full song list every time.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get the catalog snapshot from cache
func (c *Cache) Get(ctx context.Context) ([]domain.CatalogRecord, bool, error) {
	val, err := c.client.Get(ctx, snapshotKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get catalog from cache: %w", err)
	}

	var records []domain.CatalogRecord
	if err := json.Unmarshal([]byte(val), &records); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal catalog %s: %w", snapshotKey, err)
	}

	return records, true, nil
}

// Store the catalog snapshot in cache
func (c *Cache) Set(ctx context.Context, records []domain.CatalogRecord) error {
	val, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := c.client.Set(ctx, snapshotKey, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set catalog in cache: %w", err)
	}

	return nil
}

// Invalidate drops the snapshot: used after the catalog is reseeded
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", snapshotKey, err)
	}
	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
