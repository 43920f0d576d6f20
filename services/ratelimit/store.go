package ratelimit

import (
	"context"
	"time"
)

// Store counts request attempts per key within the current fixed window and
// returns the post-increment count. Counters for different keys are fully
// independent.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
