// Package sweeper expires temporary bans. Expiry is owned here, outside the
// core engine: the ban manager only records expiry times, and this loop is
// the single collaborator that acts on them.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/moderation"
	"go.uber.org/zap"
)

const expiredBanReason = "Temporary ban expired"

// Sweeper periodically lifts temporary bans whose expiry has passed.
type Sweeper struct {
	bans        moderation.ActiveBanStore
	manager     *moderation.BanManager
	interval    time.Duration
	batchSize   int
	concurrency int
	logger      *zap.Logger
}

// New creates a Sweeper.
func New(
	bans moderation.ActiveBanStore, manager *moderation.BanManager,
	interval time.Duration, batchSize, concurrency int, logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		bans:        bans,
		manager:     manager,
		interval:    interval,
		batchSize:   batchSize,
		concurrency: concurrency,
		logger:      logger.Named("sweeper"),
	}
}

// Start runs sweeps at the configured interval until the context is
// canceled. Sweep errors are logged, never fatal; the next tick retries.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Sweeper started",
		zap.Duration("interval", s.interval),
		zap.Int("batch_size", s.batchSize))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if lifted, err := s.Sweep(ctx); err != nil {
			s.logger.Error("Sweep failed", zap.Error(err))
		} else if lifted > 0 {
			s.logger.Info("Sweep lifted expired bans", zap.Int("lifted", lifted))
		}

		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

// Sweep lifts one batch of expired bans and returns how many were lifted.
// Individual unban failures are logged and skipped so one broken entry
// cannot wedge the batch; the row stays for the next sweep.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	expired, err := s.bans.ListExpired(ctx, time.Now(), s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired bans: %w", err)
	}

	if len(expired) == 0 {
		return 0, nil
	}

	var lifted int

	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.concurrency)

	results := make([]bool, len(expired))
	for i, ban := range expired {
		p.Go(func(ctx context.Context) error {
			err := s.manager.Unban(ctx, ban.GuildID, ban.UserID, types.SystemModeratorID, expiredBanReason)
			if err != nil {
				s.logger.Warn("Failed to lift expired ban",
					zap.Uint64("guild_id", ban.GuildID),
					zap.Uint64("user_id", ban.UserID),
					zap.Error(err))
				return nil
			}

			results[i] = true

			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return 0, fmt.Errorf("failed to complete sweep: %w", err)
	}

	for _, ok := range results {
		if ok {
			lifted++
		}
	}

	return lifted, nil
}
