// Package cache is a small cached-query layer over Redis. Entries are keyed
// by (resource type, id) and expire after a fixed TTL; writers invalidate
// explicitly when the underlying resource changes. A nil store is a valid
// no-op so the portal runs without Redis.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/mudaris-academy/portal-api/internal/db"
)

const DefaultTTL = 5 * time.Minute

type Store struct {
	redis *db.RedisDB
	ttl   time.Duration
}

func New(redis *db.RedisDB, ttl time.Duration) *Store {
	if redis == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{redis: redis, ttl: ttl}
}

// Get loads a cached value into dest and reports whether it was present.
// Cache errors count as misses.
func (s *Store) Get(ctx context.Context, resource, id string, dest interface{}) bool {
	if s == nil {
		return false
	}
	if err := s.redis.GetCache(ctx, key(resource, id), dest); err != nil {
		return false
	}
	return true
}

// Set stores a value; failures are logged, never surfaced. The cache is an
// optimization, not a source of truth.
func (s *Store) Set(ctx context.Context, resource, id string, value interface{}) {
	if s == nil {
		return
	}
	if err := s.redis.SetCache(ctx, key(resource, id), value, s.ttl); err != nil {
		log.Printf("⚡ [Cache] Failed to set %s:%s: %v", resource, id, err)
	}
}

// Invalidate drops the entry for a resource; the next read goes to Postgres.
func (s *Store) Invalidate(ctx context.Context, resource, id string) {
	if s == nil {
		return
	}
	if err := s.redis.DeleteCache(ctx, key(resource, id)); err != nil {
		log.Printf("⚡ [Cache] Failed to invalidate %s:%s: %v", resource, id, err)
	}
}

func key(resource, id string) string {
	return resource + ":" + id
}
