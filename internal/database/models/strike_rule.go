package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/dbretry"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// StrikeRuleModel handles database operations for staff strike rules.
type StrikeRuleModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewStrikeRule creates a new StrikeRuleModel instance.
func NewStrikeRule(db *bun.DB, logger *zap.Logger) *StrikeRuleModel {
	return &StrikeRuleModel{
		db:     db,
		logger: logger.Named("db_strike_rule"),
	}
}

// GetByExactCount retrieves the rule for an exact strike count, or nil if
// the guild defines none for that count. Strike rules are not thresholds.
func (m *StrikeRuleModel) GetByExactCount(ctx context.Context, guildID uint64, count int) (*types.StrikeRule, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.StrikeRule, error) {
		var rule types.StrikeRule

		err := m.db.NewSelect().
			Model(&rule).
			Where("guild_id = ?", guildID).
			Where("strike_count = ?", count).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}

			return nil, fmt.Errorf("failed to get strike rule: %w", err)
		}

		return &rule, nil
	})
}

// Insert stores a new strike rule. Returns false when the guild already has
// a rule for that count; uniqueness rides on the (guild_id, strike_count)
// index so delete-then-reinsert always works.
func (m *StrikeRuleModel) Insert(ctx context.Context, rule *types.StrikeRule) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewInsert().
			Model(rule).
			On("CONFLICT (guild_id, strike_count) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to insert strike rule: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// Delete removes the rule for an exact strike count.
// Returns true if a rule was removed.
func (m *StrikeRuleModel) Delete(ctx context.Context, guildID uint64, count int) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*types.StrikeRule)(nil)).
			Where("guild_id = ?", guildID).
			Where("strike_count = ?", count).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to delete strike rule: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// List retrieves all strike rules for a guild ordered by count.
func (m *StrikeRuleModel) List(ctx context.Context, guildID uint64) ([]*types.StrikeRule, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.StrikeRule, error) {
		var rules []*types.StrikeRule

		err := m.db.NewSelect().
			Model(&rules).
			Where("guild_id = ?", guildID).
			OrderExpr("strike_count ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list strike rules: %w", err)
		}

		return rules, nil
	})
}
