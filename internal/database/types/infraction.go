package types

import (
	"time"

	"github.com/wardenbot/warden/internal/database/types/enum"
)

// SystemModeratorID marks records written by the engine itself rather than a
// human moderator, so audits can tell rule-triggered punishments apart.
const SystemModeratorID uint64 = 0

// Infraction is a single row in the append-only infraction log. Rows are
// immutable once written; the only deletions are administrative clears and
// bulk removal when a ban is lifted.
type Infraction struct {
	ID          int64               `bun:",pk,autoincrement"`
	GuildID     uint64              `bun:",notnull"` // Guild the infraction was recorded in
	UserID      uint64              `bun:",notnull"` // Member the infraction applies to
	ModeratorID uint64              `bun:",notnull"` // Who issued it (SystemModeratorID when auto-triggered)
	Kind        enum.InfractionKind `bun:",notnull"`
	Reason      string              `bun:",type:text"`
	CreatedAt   time.Time           `bun:",notnull"`
}

// IsSystemIssued checks if the infraction was written by the engine itself.
func (i *Infraction) IsSystemIssued() bool {
	return i.ModeratorID == SystemModeratorID
}
