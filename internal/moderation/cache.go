package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// noBanSentinel is cached for members with no active ban so repeated misses
// don't hit the store on every warn.
const noBanSentinel = "none"

// BanCache is a read-through cache for active-ban lookups keyed by
// (guild, user). Entries are invalidated on every ban write; the store stays
// the source of truth, the cache only absorbs the lookup at the front of
// each warn evaluation.
type BanCache struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewBanCache creates a BanCache with the given entry lifetime.
func NewBanCache(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *BanCache {
	return &BanCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("ban_cache"),
	}
}

func banKey(guildID, userID uint64) string {
	return fmt.Sprintf("warden:active_ban:%d:%d", guildID, userID)
}

// Get retrieves a cached ban entry. The second return value distinguishes a
// cached "no ban" answer from a cache miss.
func (c *BanCache) Get(ctx context.Context, guildID, userID uint64) (*types.ActiveBan, bool, error) {
	resp, err := c.client.Do(ctx, c.client.B().Get().Key(banKey(guildID, userID)).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to get cached ban: %w", err)
	}

	if resp == noBanSentinel {
		return nil, true, nil
	}

	var ban types.ActiveBan
	if err := sonic.UnmarshalString(resp, &ban); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached ban: %w", err)
	}

	return &ban, true, nil
}

// Set caches a ban entry. A nil ban caches the absence of one.
func (c *BanCache) Set(ctx context.Context, guildID, userID uint64, ban *types.ActiveBan) error {
	payload := noBanSentinel

	if ban != nil {
		data, err := sonic.MarshalString(ban)
		if err != nil {
			return fmt.Errorf("failed to encode ban for cache: %w", err)
		}

		payload = data
	}

	err := c.client.Do(ctx,
		c.client.B().Set().Key(banKey(guildID, userID)).Value(payload).Ex(c.ttl).Build(),
	).Error()
	if err != nil {
		return fmt.Errorf("failed to cache ban: %w", err)
	}

	return nil
}

// Invalidate drops the cache entry for a member. Called on every ban write.
func (c *BanCache) Invalidate(ctx context.Context, guildID, userID uint64) error {
	err := c.client.Do(ctx, c.client.B().Del().Key(banKey(guildID, userID)).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to invalidate cached ban: %w", err)
	}

	return nil
}
