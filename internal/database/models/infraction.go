package models

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/dbretry"
	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"go.uber.org/zap"
)

// InfractionModel handles database operations for the infraction log.
type InfractionModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewInfraction creates a new InfractionModel instance.
func NewInfraction(db *bun.DB, logger *zap.Logger) *InfractionModel {
	return &InfractionModel{
		db:     db,
		logger: logger.Named("db_infraction"),
	}
}

// Insert appends a new infraction record. The record's ID is filled in on return.
func (m *InfractionModel) Insert(ctx context.Context, record *types.Infraction) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(record).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert infraction: %w", err)
		}

		return nil
	})
}

// CountQualifying counts infractions of the given kind recorded since the
// given time. This is a single aggregate query so concurrent writers can
// never produce a count the store itself has not seen.
func (m *InfractionModel) CountQualifying(
	ctx context.Context, guildID, userID uint64, kind enum.InfractionKind, since time.Time,
) (int, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int, error) {
		count, err := m.db.NewSelect().
			Model((*types.Infraction)(nil)).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Where("kind = ?", kind).
			Where("created_at >= ?", since).
			Count(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to count qualifying infractions: %w", err)
		}

		return count, nil
	})
}

// GetOrdered retrieves a member's full infraction history ordered by time.
func (m *InfractionModel) GetOrdered(
	ctx context.Context, guildID, userID uint64, newestFirst bool,
) ([]*types.Infraction, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Infraction, error) {
		order := "created_at ASC, id ASC"
		if newestFirst {
			order = "created_at DESC, id DESC"
		}

		var records []*types.Infraction

		err := m.db.NewSelect().
			Model(&records).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			OrderExpr(order).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get infractions: %w", err)
		}

		return records, nil
	})
}

// DeleteByID removes a single infraction record (administrative correction).
// Returns true if a record was removed.
func (m *InfractionModel) DeleteByID(ctx context.Context, guildID uint64, id int64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*types.Infraction)(nil)).
			Where("guild_id = ?", guildID).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to delete infraction: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// DeleteAllForUser removes every infraction record a member has in a guild.
// Returns the number of records removed.
func (m *InfractionModel) DeleteAllForUser(ctx context.Context, guildID, userID uint64) (int64, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (int64, error) {
		result, err := m.db.NewDelete().
			Model((*types.Infraction)(nil)).
			Where("guild_id = ?", guildID).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to delete infractions: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return 0, err
		}

		return affected, nil
	})
}
