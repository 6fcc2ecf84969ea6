package types

import "time"

// ActiveBan represents the single ban a member can hold in a guild.
// At most one row exists per (guild, user) pair. A nil expiry means the ban
// never runs out; whether it was issued as indefinite or permanent is only
// recorded in the infraction log. A row without expiry is never overwritten
// by a later ban, so lifting one always goes through an explicit unban.
type ActiveBan struct {
	GuildID     uint64     `bun:",pk"`
	UserID      uint64     `bun:",pk"`
	ModeratorID uint64     `bun:",notnull"` // Who issued the ban (SystemModeratorID when auto-triggered)
	Reason      string     `bun:",type:text"`
	ExpiresAt   *time.Time `bun:",nullzero"` // When the ban expires (null when it never does)
	CreatedAt   time.Time  `bun:",notnull"`
}

// IsPermanent checks if the ban has no expiry and therefore can only be
// lifted by an explicit unban.
func (b *ActiveBan) IsPermanent() bool {
	return b.ExpiresAt == nil
}

// IsExpired checks if a temporary ban has run out.
func (b *ActiveBan) IsExpired(now time.Time) bool {
	return b.ExpiresAt != nil && now.After(*b.ExpiresAt)
}
