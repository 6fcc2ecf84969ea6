package models

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/dbretry"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// StaffStrikeModel handles database operations for staff strike rows.
type StaffStrikeModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewStaffStrike creates a new StaffStrikeModel instance.
func NewStaffStrike(db *bun.DB, logger *zap.Logger) *StaffStrikeModel {
	return &StaffStrikeModel{
		db:     db,
		logger: logger.Named("db_staff_strike"),
	}
}

// Insert stores a new strike event.
func (m *StaffStrikeModel) Insert(ctx context.Context, strike *types.StaffStrike) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(strike).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert staff strike: %w", err)
		}

		return nil
	})
}

// CountUnexpired counts the strikes still contributing to ladder evaluation.
// A single aggregate query for the same reason as infraction counting.
func (m *StaffStrikeModel) CountUnexpired(ctx context.Context, guildID, userID uint64, now time.Time) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.StaffStrike)(nil)).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Where("expires_at > ?", now).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count unexpired strikes: %w", err)
		}

		return count, nil
	})
}

// DeleteAllForUser removes every strike row a member has in a guild.
// Called when a member is kicked from staff; there is nothing left to track.
func (m *StaffStrikeModel) DeleteAllForUser(ctx context.Context, guildID, userID uint64) (int64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		result, err := m.db.NewDelete().
			Model((*types.StaffStrike)(nil)).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to delete staff strikes: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}

		return affected, nil
	})
}
