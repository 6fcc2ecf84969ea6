package enum

// InfractionKind represents the kind of punishment recorded in the infraction log.
//
//go:generate go tool enumer -type=InfractionKind -trimprefix=InfractionKind
type InfractionKind int

const (
	// InfractionKindWarn is a plain warning issued by a moderator.
	InfractionKindWarn InfractionKind = iota
	// InfractionKindTimeout is a temporary communication timeout.
	InfractionKindTimeout
	// InfractionKindTempBan is a ban that expires after a fixed duration.
	InfractionKindTempBan
	// InfractionKindIndefiniteBan is a ban with no expiry that can still be lifted.
	InfractionKindIndefiniteBan
	// InfractionKindPermanentBan is a ban that must never be downgraded.
	InfractionKindPermanentBan
)

// IsBan reports whether the kind removes the target from the guild.
func (i InfractionKind) IsBan() bool {
	switch i {
	case InfractionKindTempBan, InfractionKindIndefiniteBan, InfractionKindPermanentBan:
		return true
	case InfractionKindWarn, InfractionKindTimeout:
		return false
	default:
		return false
	}
}

// StrikePunishment represents the action a strike rule applies to a staff member.
//
//go:generate go tool enumer -type=StrikePunishment -trimprefix=StrikePunishment
type StrikePunishment int

const (
	// StrikePunishmentDowngrade moves the member one rung down the staff ladder.
	StrikePunishmentDowngrade StrikePunishment = iota
	// StrikePunishmentKick removes the member from staff entirely.
	StrikePunishmentKick
)
