package billing

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventMarkerTTL = 24 * time.Hour

// Deduper remembers processed provider event ids.
type Deduper interface {
	// Claim returns false when the event was already claimed.
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string)
}

// RedisDeduper claims event ids with SETNX.
type RedisDeduper struct {
	rdb *redis.Client
}

func NewRedisDeduper(rdb *redis.Client) *RedisDeduper {
	return &RedisDeduper{rdb: rdb}
}

func eventKey(id string) string { return "billing:event:" + id }

func (d *RedisDeduper) Claim(ctx context.Context, eventID string) (bool, error) {
	return d.rdb.SetNX(ctx, eventKey(eventID), 1, eventMarkerTTL).Result()
}

func (d *RedisDeduper) Release(ctx context.Context, eventID string) {
	d.rdb.Del(ctx, eventKey(eventID))
}
