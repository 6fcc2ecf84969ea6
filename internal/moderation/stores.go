package moderation

import (
	"context"
	"time"

	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
)

// InfractionStore is the append-only infraction log. Counting is a single
// server-side aggregate so concurrent writers never see a client-composed
// count.
type InfractionStore interface {
	Insert(ctx context.Context, record *types.Infraction) error
	CountQualifying(ctx context.Context, guildID, userID uint64, kind enum.InfractionKind, since time.Time) (int, error)
	GetOrdered(ctx context.Context, guildID, userID uint64, newestFirst bool) ([]*types.Infraction, error)
	DeleteByID(ctx context.Context, guildID uint64, id int64) (bool, error)
	DeleteAllForUser(ctx context.Context, guildID, userID uint64) (int64, error)
}

// EscalationRuleStore holds per-guild escalation rules. Insert returns
// false when the trigger condition already exists.
type EscalationRuleStore interface {
	Insert(ctx context.Context, rule *types.EscalationRule) (bool, error)
	List(ctx context.Context, guildID uint64) ([]*types.EscalationRule, error)
	Delete(ctx context.Context, guildID uint64, warnThreshold int, windowSeconds int64) (bool, error)
}

// ActiveBanStore tracks the one ban a member can hold. UpsertIfNotPermanent
// must be a single atomic statement whose guard rejects overwriting a row
// without expiry.
type ActiveBanStore interface {
	Get(ctx context.Context, guildID, userID uint64) (*types.ActiveBan, error)
	UpsertIfNotPermanent(ctx context.Context, ban *types.ActiveBan) (bool, error)
	Delete(ctx context.Context, guildID, userID uint64) (bool, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*types.ActiveBan, error)
}

// StaffStrikeStore holds strike events. Expired strikes stay on record until
// cleared but are excluded from counting.
type StaffStrikeStore interface {
	Insert(ctx context.Context, strike *types.StaffStrike) error
	CountUnexpired(ctx context.Context, guildID, userID uint64, now time.Time) (int, error)
	DeleteAllForUser(ctx context.Context, guildID, userID uint64) (int64, error)
}

// StrikeRuleStore holds exact-count strike rules. Insert returns false when
// the guild already defines a rule for that count.
type StrikeRuleStore interface {
	GetByExactCount(ctx context.Context, guildID uint64, count int) (*types.StrikeRule, error)
	Insert(ctx context.Context, rule *types.StrikeRule) (bool, error)
	Delete(ctx context.Context, guildID uint64, count int) (bool, error)
	List(ctx context.Context, guildID uint64) ([]*types.StrikeRule, error)
}
