package types

import (
	"time"

	"github.com/wardenbot/warden/internal/database/types/enum"
)

// EscalationRule defines when accumulated warnings trigger a punishment.
// A guild may hold many rules, but never two with the same threshold and
// window; the unique index on (guild_id, warn_threshold, window_seconds)
// enforces that.
type EscalationRule struct {
	ID              int64               `bun:",pk,autoincrement"`
	GuildID         uint64              `bun:",notnull"`
	WarnThreshold   int                 `bun:",notnull"` // Qualifying warns needed to fire
	WindowSeconds   int64               `bun:",notnull"` // How far back warns count
	Punishment      enum.InfractionKind `bun:",notnull"`
	DurationSeconds int64               `bun:",notnull"` // 0 is legal only for indefinite bans
}

// Window returns the counting window as a duration.
func (r *EscalationRule) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// Duration returns the punishment duration, zero for indefinite bans.
func (r *EscalationRule) Duration() time.Duration {
	return time.Duration(r.DurationSeconds) * time.Second
}

// StrikeRule maps an exact staff strike count to a ladder action.
// Unlike escalation rules these are not thresholds; a rule fires only when
// the unexpired strike count matches StrikeCount exactly.
type StrikeRule struct {
	ID          int64                 `bun:",pk,autoincrement"`
	GuildID     uint64                `bun:",notnull"`
	StrikeCount int                   `bun:",notnull"`
	Punishment  enum.StrikePunishment `bun:",notnull"`
}
