// Package moderation implements the escalation and punishment engine: the
// infraction log contract, time-windowed rule evaluation, the ban lifecycle
// state machine, and the staff strike ladder. The engine is library-shaped;
// Discord and Postgres are reached only through the narrow collaborator
// interfaces defined here.
package moderation

import (
	"context"
	"time"
)

// Member is the engine's view of a guild member, resolved through the guild
// directory.
type Member struct {
	GuildID       uint64
	UserID        uint64
	RoleIDs       []uint64
	TimedOutUntil *time.Time // When the member's current timeout ends, nil if none
}

// IsTimedOut checks if the member has a communication timeout running.
func (m *Member) IsTimedOut(now time.Time) bool {
	return m.TimedOutUntil != nil && m.TimedOutUntil.After(now)
}

// HasRole checks if the member currently holds the given role.
func (m *Member) HasRole(roleID uint64) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}

	return false
}

// Role is one rung of the staff ladder, identified by its hierarchy position.
type Role struct {
	ID       uint64
	Position int
}

// PlatformBan is the platform's own record of a ban, independent of the
// engine's ActiveBan state.
type PlatformBan struct {
	UserID uint64
	Reason string
}

// GuildDirectory resolves member identities and applies guild-level side
// effects. All punishment effects flow through this interface; the engine
// never talks to the chat platform directly.
type GuildDirectory interface {
	// Member resolves a guild member, or nil if they are not in the guild.
	Member(ctx context.Context, guildID, userID uint64) (*Member, error)
	// ApplyTimeout places a communication timeout on a member.
	ApplyTimeout(ctx context.Context, guildID, userID uint64, duration time.Duration, reason string) error
	// RemoveTimeout lifts a member's communication timeout early.
	RemoveTimeout(ctx context.Context, guildID, userID uint64) error
	// CreateBan executes a platform ban, deleting messages within the
	// retention window.
	CreateBan(ctx context.Context, guildID, userID uint64, reason string, retention time.Duration) error
	// RemoveBan lifts a platform ban.
	RemoveBan(ctx context.Context, guildID, userID uint64, reason string) error
	// GetBan retrieves the platform's ban record, or nil if the user is not
	// banned there.
	GetBan(ctx context.Context, guildID, userID uint64) (*PlatformBan, error)
	// StaffLadder returns the guild's staff roles ordered by hierarchy
	// position, highest first. The ladder is owned by the guild; the engine
	// only reads it.
	StaffLadder(ctx context.Context, guildID uint64) ([]Role, error)
	// AddRole grants a role to a member.
	AddRole(ctx context.Context, guildID, userID, roleID uint64) error
	// RemoveRole revokes a role from a member.
	RemoveRole(ctx context.Context, guildID, userID, roleID uint64) error
}

// Notifier delivers human-readable notices. Both channels are best-effort:
// callers log failures and move on, because audit delivery is secondary to
// the punishment taking effect.
type Notifier interface {
	// LogAction posts a message to the guild's moderation log channel.
	LogAction(ctx context.Context, guildID uint64, message string) error
	// DirectMessage sends a notice to the affected user.
	DirectMessage(ctx context.Context, userID uint64, message string) error
}
