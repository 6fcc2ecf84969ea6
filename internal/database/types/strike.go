package types

import "time"

// StaffStrike is one strike event against a staff member. A strike stops
// counting toward ladder evaluation once ExpiresAt passes, but the row is
// kept for audit until it is explicitly cleared or the member is kicked
// from staff.
type StaffStrike struct {
	ID          int64     `bun:",pk,autoincrement"`
	GuildID     uint64    `bun:",notnull"`
	UserID      uint64    `bun:",notnull"`
	ModeratorID uint64    `bun:",notnull"`
	Reason      string    `bun:",type:text"`
	ExpiresAt   time.Time `bun:",notnull"` // When the strike stops counting
	CreatedAt   time.Time `bun:",notnull"`
}

// IsExpired checks if the strike still counts toward ladder evaluation.
func (s *StaffStrike) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
