package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/dbretry"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// ActiveBanModel handles database operations for active ban state.
type ActiveBanModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewActiveBan creates a new ActiveBanModel instance.
func NewActiveBan(db *bun.DB, logger *zap.Logger) *ActiveBanModel {
	return &ActiveBanModel{
		db:     db,
		logger: logger.Named("db_active_ban"),
	}
}

// Get retrieves the active ban for a member, or nil if none exists.
func (m *ActiveBanModel) Get(ctx context.Context, guildID, userID uint64) (*types.ActiveBan, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.ActiveBan, error) {
		var ban types.ActiveBan

		err := m.db.NewSelect().
			Model(&ban).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get active ban: %w", err)
		}

		return &ban, nil
	})
}

// UpsertIfNotPermanent creates or replaces a member's active ban unless the
// existing row is permanent. The permanence guard lives in the conflict
// clause so the check-and-write is a single server-side statement.
// Returns false when an existing permanent ban blocked the write.
func (m *ActiveBanModel) UpsertIfNotPermanent(ctx context.Context, ban *types.ActiveBan) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewInsert().
			Model(ban).
			On("CONFLICT (guild_id, user_id) DO UPDATE").
			Set("moderator_id = EXCLUDED.moderator_id").
			Set("reason = EXCLUDED.reason").
			Set("expires_at = EXCLUDED.expires_at").
			Set("created_at = EXCLUDED.created_at").
			Where("active_ban.expires_at IS NOT NULL").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to upsert active ban: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// Delete removes a member's active ban. Returns true if a ban was removed,
// false if the member wasn't banned (unban is idempotent at this layer).
func (m *ActiveBanModel) Delete(ctx context.Context, guildID, userID uint64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*types.ActiveBan)(nil)).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to delete active ban: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// ListExpired retrieves temporary bans whose expiry has passed, oldest first.
// Used by the sweeper; permanent and indefinite bans never appear here.
func (m *ActiveBanModel) ListExpired(ctx context.Context, now time.Time, limit int) ([]*types.ActiveBan, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ActiveBan, error) {
		var bans []*types.ActiveBan

		err := m.db.NewSelect().
			Model(&bans).
			Where("expires_at IS NOT NULL").
			Where("expires_at <= ?", now).
			OrderExpr("expires_at ASC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list expired bans: %w", err)
		}

		return bans, nil
	})
}
