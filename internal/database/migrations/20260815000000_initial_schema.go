package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/types"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// Create tables
		tables := []struct {
			model any
			name  string
		}{
			{(*types.Infraction)(nil), "infractions"},
			{(*types.EscalationRule)(nil), "escalation_rules"},
			{(*types.ActiveBan)(nil), "active_bans"},
			{(*types.StaffStrike)(nil), "staff_strikes"},
			{(*types.StrikeRule)(nil), "strike_rules"},
		}

		for _, table := range tables {
			_, err := db.NewCreateTable().
				Model(table.model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %s: %w", table.name, err)
			}
		}

		// Indexes. The unique trigger indexes double as the store-level
		// uniqueness invariants for rule inserts.
		indexes := []struct {
			name string
			sql  string
		}{
			{
				"idx_infractions_counting",
				`CREATE INDEX IF NOT EXISTS idx_infractions_counting
				 ON infractions (guild_id, user_id, kind, created_at)`,
			},
			{
				"idx_escalation_rules_trigger",
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_escalation_rules_trigger
				 ON escalation_rules (guild_id, warn_threshold, window_seconds)`,
			},
			{
				"idx_active_bans_expiry",
				`CREATE INDEX IF NOT EXISTS idx_active_bans_expiry
				 ON active_bans (expires_at) WHERE expires_at IS NOT NULL`,
			},
			{
				"idx_staff_strikes_counting",
				`CREATE INDEX IF NOT EXISTS idx_staff_strikes_counting
				 ON staff_strikes (guild_id, user_id, expires_at)`,
			},
			{
				"idx_strike_rules_count",
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_strike_rules_count
				 ON strike_rules (guild_id, strike_count)`,
			},
		}

		for _, index := range indexes {
			if _, err := db.NewRaw(index.sql).Exec(ctx); err != nil {
				return fmt.Errorf("failed to create index %s: %w", index.name, err)
			}
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		tables := []string{"infractions", "escalation_rules", "active_bans", "staff_strikes", "strike_rules"}
		for _, table := range tables {
			if _, err := db.NewRaw(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", table, err)
			}
		}

		return nil
	})
}
