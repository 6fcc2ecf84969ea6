package models

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/dbretry"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// EscalationRuleModel handles database operations for per-guild escalation rules.
type EscalationRuleModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewEscalationRule creates a new EscalationRuleModel instance.
func NewEscalationRule(db *bun.DB, logger *zap.Logger) *EscalationRuleModel {
	return &EscalationRuleModel{
		db:     db,
		logger: logger.Named("db_escalation_rule"),
	}
}

// Insert stores a new escalation rule. Uniqueness of the trigger condition
// rides on the (guild_id, warn_threshold, window_seconds) index rather than
// a separate existence check, so removing a rule and re-inserting the same
// trigger always works. Returns false when the trigger already exists.
func (m *EscalationRuleModel) Insert(ctx context.Context, rule *types.EscalationRule) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewInsert().
			Model(rule).
			On("CONFLICT (guild_id, warn_threshold, window_seconds) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to insert escalation rule: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// List retrieves all escalation rules for a guild in evaluation order:
// highest threshold first, ties resolved by the tighter window.
func (m *EscalationRuleModel) List(ctx context.Context, guildID uint64) ([]*types.EscalationRule, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.EscalationRule, error) {
		var rules []*types.EscalationRule

		err := m.db.NewSelect().
			Model(&rules).
			Where("guild_id = ?", guildID).
			OrderExpr("warn_threshold DESC, window_seconds ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list escalation rules: %w", err)
		}

		return rules, nil
	})
}

// Delete removes the rule with the given trigger condition.
// Returns true if a rule was removed.
func (m *EscalationRuleModel) Delete(
	ctx context.Context, guildID uint64, warnThreshold int, windowSeconds int64,
) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*types.EscalationRule)(nil)).
			Where("guild_id = ?", guildID).
			Where("warn_threshold = ?", warnThreshold).
			Where("window_seconds = ?", windowSeconds).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to delete escalation rule: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}
