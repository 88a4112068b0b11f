package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/signaltracker/tracker-api/internal/api/metrics"
)

const dedupTTL = 24 * time.Hour

// IngestDedup is the Redis fast path for idempotent reading uploads.
// Key format: ingest:<idempotency_key>. The store's own index on the key
// remains authoritative; a Redis miss only costs an extra store lookup.
type IngestDedup struct {
	client *redis.Client
}

// NewIngestDedup wraps the given Redis client.
func NewIngestDedup(client *redis.Client) *IngestDedup {
	return &IngestDedup{client: client}
}

// Seen reports whether a reading with this idempotency key was already
// accepted within the dedup window.
func (d *IngestDedup) Seen(ctx context.Context, key string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	if n > 0 {
		metrics.IngestDedupTotal.WithLabelValues("hit").Inc()
		return true, nil
	}
	metrics.IngestDedupTotal.WithLabelValues("miss").Inc()
	return false, nil
}

// Mark records an accepted key (expires after dedupTTL).
func (d *IngestDedup) Mark(ctx context.Context, key string) error {
	return d.client.Set(ctx, d.key(key), "1", dedupTTL).Err()
}

func (d *IngestDedup) key(key string) string {
	return "ingest:" + key
}
