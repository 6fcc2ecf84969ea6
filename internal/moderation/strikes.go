package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"go.uber.org/zap"
)

// StrikeLadder manages disciplinary strikes against staff members and the
// role demotions and removals they trigger. Strike rules fire on exact
// unexpired counts only, so a member sitting above a rule's count is not
// re-punished by it on later strikes.
type StrikeLadder struct {
	strikes   StaffStrikeStore
	rules     StrikeRuleStore
	directory GuildDirectory
	notifier  Notifier
	strikeTTL time.Duration
	logger    *zap.Logger
}

// NewStrikeLadder creates a StrikeLadder. StrikeTTL is how long each strike
// counts against the member before it ages out.
func NewStrikeLadder(
	strikes StaffStrikeStore, rules StrikeRuleStore, directory GuildDirectory,
	notifier Notifier, strikeTTL time.Duration, logger *zap.Logger,
) *StrikeLadder {
	return &StrikeLadder{
		strikes:   strikes,
		rules:     rules,
		directory: directory,
		notifier:  notifier,
		strikeTTL: strikeTTL,
		logger:    logger.Named("strike_ladder"),
	}
}

// StrikeResult reports what a recorded strike led to.
type StrikeResult struct {
	Strike *types.StaffStrike
	Count  int
	// Fired is the rule that matched the new count exactly, or nil.
	Fired *types.StrikeRule
	// Removed is set when the member was removed from the staff ladder,
	// either by a kick rule or by a downgrade with no lower rung.
	Removed bool
	// DemotedFrom and DemotedTo are the role IDs of a completed downgrade.
	DemotedFrom uint64
	DemotedTo   uint64
}

// Strike records a strike against a staff member and applies whichever
// strike rule matches the resulting count exactly. Kicks clear the member's
// strikes; downgrades keep them counting toward the next rung.
func (l *StrikeLadder) Strike(
	ctx context.Context, guildID, userID, moderatorID uint64, reason string,
) (*StrikeResult, error) {
	now := time.Now()

	strike := &types.StaffStrike{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		ExpiresAt:   now.Add(l.strikeTTL),
		CreatedAt:   now,
	}
	if err := l.strikes.Insert(ctx, strike); err != nil {
		return nil, fmt.Errorf("failed to record strike: %w", err)
	}

	count, err := l.strikes.CountUnexpired(ctx, guildID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count strikes: %w", err)
	}

	result := &StrikeResult{Strike: strike, Count: count}

	rule, err := l.rules.GetByExactCount(ctx, guildID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to look up strike rule: %w", err)
	}
	if rule == nil {
		return result, nil
	}

	result.Fired = rule

	member, err := l.directory.Member(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}
	if member == nil {
		// The strike is on record but there is no member left to punish.
		l.logger.Warn("Strike rule fired for member no longer in the guild",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID),
			zap.Int("strikes", count))
		return result, nil
	}

	ladder, err := l.directory.StaffLadder(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch staff ladder: %w", err)
	}

	switch rule.Punishment {
	case enum.StrikePunishmentKick:
		if err := l.kick(ctx, guildID, userID, member, ladder, count, reason); err != nil {
			return nil, err
		}
		result.Removed = true

	case enum.StrikePunishmentDowngrade:
		if err := l.downgrade(ctx, guildID, userID, member, ladder, count, reason, result); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidPunishment, rule.Punishment)
	}

	return result, nil
}

// kick removes the member from every ladder role they hold and clears their
// strike record so a later re-hire starts clean.
func (l *StrikeLadder) kick(
	ctx context.Context, guildID, userID uint64,
	member *Member, ladder []Role, count int, reason string,
) error {
	for _, role := range ladder {
		if !member.HasRole(role.ID) {
			continue
		}

		if err := l.directory.RemoveRole(ctx, guildID, userID, role.ID); err != nil {
			return fmt.Errorf("failed to remove ladder role %d: %w", role.ID, err)
		}
	}

	if _, err := l.strikes.DeleteAllForUser(ctx, guildID, userID); err != nil {
		return fmt.Errorf("failed to clear strikes: %w", err)
	}

	l.notify(ctx, guildID, userID,
		fmt.Sprintf("You have been removed from the staff team after %d strikes: %s", count, reason),
		fmt.Sprintf("Removed <@%d> from the staff ladder (%d strikes): %s", userID, count, reason))

	l.logger.Info("Removed staff member from ladder",
		zap.Uint64("guild_id", guildID),
		zap.Uint64("user_id", userID),
		zap.Int("strikes", count))

	return nil
}

// downgrade moves the member one rung down the ladder. A member already on
// the bottom rung has nowhere to go and is removed instead. Strikes are
// kept so they keep counting toward the next rule.
func (l *StrikeLadder) downgrade(
	ctx context.Context, guildID, userID uint64,
	member *Member, ladder []Role, count int, reason string, result *StrikeResult,
) error {
	// Ladder is ordered highest rung first; the first held role is the
	// member's current rung.
	current := -1
	for i, role := range ladder {
		if member.HasRole(role.ID) {
			current = i
			break
		}
	}

	if current == -1 {
		// Struck member holds no ladder role. Nothing to demote.
		l.logger.Warn("Downgrade rule fired for member outside the ladder",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID))
		return nil
	}

	if current == len(ladder)-1 {
		if err := l.kick(ctx, guildID, userID, member, ladder, count, reason); err != nil {
			return err
		}
		result.Removed = true
		return nil
	}

	from := ladder[current]
	to := ladder[current+1]

	if err := l.directory.RemoveRole(ctx, guildID, userID, from.ID); err != nil {
		return fmt.Errorf("failed to remove role %d: %w", from.ID, err)
	}
	if err := l.directory.AddRole(ctx, guildID, userID, to.ID); err != nil {
		return fmt.Errorf("failed to add role %d: %w", to.ID, err)
	}

	result.DemotedFrom = from.ID
	result.DemotedTo = to.ID

	l.notify(ctx, guildID, userID,
		fmt.Sprintf("You have been demoted after %d strikes: %s", count, reason),
		fmt.Sprintf("Demoted <@%d> from <@&%d> to <@&%d> (%d strikes): %s",
			userID, from.ID, to.ID, count, reason))

	l.logger.Info("Demoted staff member",
		zap.Uint64("guild_id", guildID),
		zap.Uint64("user_id", userID),
		zap.Uint64("from_role", from.ID),
		zap.Uint64("to_role", to.ID))

	return nil
}

func (l *StrikeLadder) notify(ctx context.Context, guildID, userID uint64, dm, logMsg string) {
	if err := l.notifier.DirectMessage(ctx, userID, dm); err != nil {
		l.logger.Debug("Failed to DM strike notice",
			zap.Uint64("user_id", userID),
			zap.Error(err))
	}

	if err := l.notifier.LogAction(ctx, guildID, logMsg); err != nil {
		l.logger.Warn("Failed to deliver log message",
			zap.Uint64("guild_id", guildID),
			zap.Error(err))
	}
}
