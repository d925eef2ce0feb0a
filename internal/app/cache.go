package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlotCache is a read-through cache for open-slot listings. It mirrors server
// state but is never the source of truth: every successful mutation bumps the
// trainer's version key, which is part of every listing key, so stale entries
// simply stop being addressed and expire.
//
// With no redis client configured the cache is disabled and every read goes
// to the store.
type SlotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewSlotCache(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *SlotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SlotCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *SlotCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *SlotCache) version(ctx context.Context, trainerID string) (int64, error) {
	return c.rdb.Get(ctx, "openslots:ver:"+trainerID).Int64()
}

func (c *SlotCache) key(trainerID, from, to string, period Period, ver int64) string {
	return fmt.Sprintf("openslots:%s:%d:%s:%s:%s", trainerID, ver, from, to, period)
}

func (c *SlotCache) getSlots(ctx context.Context, trainerID, from, to string, period Period) ([]DaySlots, bool) {
	if !c.enabled() {
		return nil, false
	}
	ver, err := c.version(ctx, trainerID)
	if err != nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(trainerID, from, to, period, ver)).Bytes()
	if err != nil {
		return nil, false
	}
	var days []DaySlots
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, false
	}
	// startMin/endMin are unexported and lost in JSON; rebuild them so cached
	// windows behave like freshly materialized ones.
	for i := range days {
		for j := range days[i].Slots {
			w := &days[i].Slots[j]
			start, err := ParseHHMM(w.StartTime)
			if err != nil {
				return nil, false
			}
			end, err := ParseHHMM(w.EndTime)
			if err != nil {
				return nil, false
			}
			w.startMin, w.endMin = start, end
		}
	}
	return days, true
}

func (c *SlotCache) putSlots(ctx context.Context, trainerID, from, to string, period Period, days []DaySlots) {
	if !c.enabled() {
		return
	}
	ver, err := c.version(ctx, trainerID)
	if err != nil {
		// First write for this trainer; initialize the version key.
		ver = 1
		if err := c.rdb.Set(ctx, "openslots:ver:"+trainerID, ver, 0).Err(); err != nil {
			c.warn("cache version init failed", err)
			return
		}
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(trainerID, from, to, period, ver), raw, c.ttl).Err(); err != nil {
		c.warn("cache write failed", err)
	}
}

// invalidate is called after every successful mutation touching a trainer's
// availability, slots, holidays, or bookings.
func (c *SlotCache) invalidate(ctx context.Context, trainerID string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Incr(ctx, "openslots:ver:"+trainerID).Err(); err != nil {
		c.warn("cache invalidation failed", err)
	}
}

func (c *SlotCache) warn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, "err", err)
	}
}
