package cache

import (
	"context"
	"time"
)

// Entry is one property's cached blocked-date set together with the
// time it was computed. Entries are always replaced whole; merging of
// sources happens upstream of the cache.
type Entry struct {
	BlockedDates []string  `json:"blocked_dates"`
	ComputedAt   time.Time `json:"computed_at"`
}

// Store is the blocked-date cache contract: one entry per property,
// staleness judged purely by the computed-at timestamp against the
// configured TTL. Get reports a miss for stale entries; Invalidate
// drops the entry regardless of age.
type Store interface {
	Get(ctx context.Context, propertyID string) (*Entry, bool, error)
	Put(ctx context.Context, propertyID string, dates []string) error
	Invalidate(ctx context.Context, propertyID string) error
}
