// Package discord adapts the disgo client to the engine's collaborator
// interfaces.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/wardenbot/warden/internal/moderation"
	"go.uber.org/zap"
)

// Directory implements moderation.GuildDirectory over the Discord REST API.
// The staff ladder is the configured role set intersected with the guild's
// live role list, so position changes on Discord take effect immediately.
type Directory struct {
	client      bot.Client
	ladderRoles []uint64
	logger      *zap.Logger
}

// NewDirectory creates a Directory. LadderRoles lists the role IDs that
// form the staff ladder, in no particular order.
func NewDirectory(client bot.Client, ladderRoles []uint64, logger *zap.Logger) *Directory {
	return &Directory{
		client:      client,
		ladderRoles: ladderRoles,
		logger:      logger.Named("discord_directory"),
	}
}

// Member resolves a guild member, or nil if they are not in the guild.
func (d *Directory) Member(ctx context.Context, guildID, userID uint64) (*moderation.Member, error) {
	member, err := d.client.Rest().GetMember(snowflake.ID(guildID), snowflake.ID(userID), rest.WithCtx(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	roleIDs := make([]uint64, len(member.RoleIDs))
	for i, id := range member.RoleIDs {
		roleIDs[i] = uint64(id)
	}

	return &moderation.Member{
		GuildID:       guildID,
		UserID:        userID,
		RoleIDs:       roleIDs,
		TimedOutUntil: member.CommunicationDisabledUntil,
	}, nil
}

// ApplyTimeout places a communication timeout on a member.
func (d *Directory) ApplyTimeout(
	ctx context.Context, guildID, userID uint64, duration time.Duration, reason string,
) error {
	until := time.Now().Add(duration)

	_, err := d.client.Rest().UpdateMember(snowflake.ID(guildID), snowflake.ID(userID),
		discord.MemberUpdate{
			CommunicationDisabledUntil: json.NewNullablePtr(until),
		},
		rest.WithCtx(ctx), rest.WithReason(reason))
	if err != nil {
		return fmt.Errorf("failed to apply timeout: %w", err)
	}

	return nil
}

// RemoveTimeout lifts a member's communication timeout early.
func (d *Directory) RemoveTimeout(ctx context.Context, guildID, userID uint64) error {
	_, err := d.client.Rest().UpdateMember(snowflake.ID(guildID), snowflake.ID(userID),
		discord.MemberUpdate{
			CommunicationDisabledUntil: json.NullPtr[time.Time](),
		},
		rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to remove timeout: %w", err)
	}

	return nil
}

// CreateBan executes a guild ban, deleting the member's messages within the
// retention window.
func (d *Directory) CreateBan(
	ctx context.Context, guildID, userID uint64, reason string, retention time.Duration,
) error {
	err := d.client.Rest().AddBan(snowflake.ID(guildID), snowflake.ID(userID), retention,
		rest.WithCtx(ctx), rest.WithReason(reason))
	if err != nil {
		return fmt.Errorf("failed to create ban: %w", err)
	}

	return nil
}

// RemoveBan lifts a guild ban. Removing a ban that does not exist is not an
// error; Discord reports 404 and the state is already what the caller wants.
func (d *Directory) RemoveBan(ctx context.Context, guildID, userID uint64, reason string) error {
	err := d.client.Rest().DeleteBan(snowflake.ID(guildID), snowflake.ID(userID),
		rest.WithCtx(ctx), rest.WithReason(reason))
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to remove ban: %w", err)
	}

	return nil
}

// GetBan retrieves the guild's own ban record, or nil when the user is not
// banned there.
func (d *Directory) GetBan(ctx context.Context, guildID, userID uint64) (*moderation.PlatformBan, error) {
	ban, err := d.client.Rest().GetBan(snowflake.ID(guildID), snowflake.ID(userID), rest.WithCtx(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ban: %w", err)
	}

	platformBan := &moderation.PlatformBan{UserID: userID}
	if ban.Reason != nil {
		platformBan.Reason = *ban.Reason
	}

	return platformBan, nil
}

// StaffLadder returns the configured ladder roles that still exist in the
// guild, ordered by hierarchy position, highest first.
func (d *Directory) StaffLadder(ctx context.Context, guildID uint64) ([]moderation.Role, error) {
	roles, err := d.client.Rest().GetRoles(snowflake.ID(guildID), rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get guild roles: %w", err)
	}

	ladder := make([]moderation.Role, 0, len(d.ladderRoles))
	for _, role := range roles {
		if slices.Contains(d.ladderRoles, uint64(role.ID)) {
			ladder = append(ladder, moderation.Role{
				ID:       uint64(role.ID),
				Position: role.Position,
			})
		}
	}

	slices.SortFunc(ladder, func(a, b moderation.Role) int {
		return b.Position - a.Position
	})

	return ladder, nil
}

// AddRole grants a role to a member.
func (d *Directory) AddRole(ctx context.Context, guildID, userID, roleID uint64) error {
	err := d.client.Rest().AddMemberRole(snowflake.ID(guildID), snowflake.ID(userID),
		snowflake.ID(roleID), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to add role: %w", err)
	}

	return nil
}

// RemoveRole revokes a role from a member.
func (d *Directory) RemoveRole(ctx context.Context, guildID, userID, roleID uint64) error {
	err := d.client.Rest().RemoveMemberRole(snowflake.ID(guildID), snowflake.ID(userID),
		snowflake.ID(roleID), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}

	return nil
}

func isNotFound(err error) bool {
	var restErr rest.Error
	return errors.As(err, &restErr) &&
		restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusNotFound
}
