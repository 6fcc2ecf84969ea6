package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"github.com/wardenbot/warden/internal/moderation"
	"go.uber.org/zap"
)

func (b *Bot) handleWarn(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())
	target := uint64(data.User("user").ID)
	reason := data.String("reason")

	result, err := b.evaluator.Warn(ctx, guildID, target, uint64(event.User().ID), reason)
	if err != nil {
		b.logger.Error("Warn failed", zap.Error(err))
		b.respond(event, "Failed to record the warning.")
		return
	}

	switch {
	case result.Suppressed:
		b.respond(event, fmt.Sprintf("Warned <@%d>. They are already banned; no escalation applied.", target))
	case result.Triggered == nil:
		b.respond(event, fmt.Sprintf("Warned <@%d>.", target))
	case result.TimeoutSkipped:
		b.respond(event, fmt.Sprintf(
			"Warned <@%d>. Rule matched but an earlier timeout is still running.", target))
	default:
		b.respond(event, fmt.Sprintf("Warned <@%d>. Escalated: %s after %d warnings within %s.",
			target, result.Triggered.Punishment, result.Triggered.WarnThreshold, result.Triggered.Window()))
	}
}

func (b *Bot) handleTimeout(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())
	target := uint64(data.User("user").ID)

	duration, err := parseDuration(data.String("duration"))
	if err != nil {
		b.respond(event, "Invalid duration. Use forms like 30m, 12h or 2d.")
		return
	}

	skipped, err := b.evaluator.Timeout(ctx, guildID, target, uint64(event.User().ID),
		duration, data.String("reason"))
	switch {
	case errors.Is(err, moderation.ErrInvalidDuration):
		b.respond(event, "Timeout duration must be at least one second.")
	case errors.Is(err, moderation.ErrMemberNotFound):
		b.respond(event, "That user is not in this server.")
	case err != nil:
		b.logger.Error("Timeout failed", zap.Error(err))
		b.respond(event, "Failed to apply the timeout.")
	case skipped:
		b.respond(event, fmt.Sprintf("<@%d> is already timed out; the earlier timeout stands.", target))
	default:
		b.respond(event, fmt.Sprintf("Timed out <@%d> for %s.", target, duration))
	}
}

func (b *Bot) handleBan(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())
	target := uint64(data.User("user").ID)

	var kind enum.InfractionKind
	switch data.String("kind") {
	case "temp":
		kind = enum.InfractionKindTempBan
	case "indefinite":
		kind = enum.InfractionKindIndefiniteBan
	case "permanent":
		kind = enum.InfractionKindPermanentBan
	}

	req := &moderation.BanRequest{
		GuildID:     guildID,
		UserID:      target,
		ModeratorID: uint64(event.User().ID),
		Kind:        kind,
		Reason:      data.String("reason"),
		Retention:   b.banRetention,
	}

	if raw, ok := data.OptString("duration"); ok {
		duration, err := parseDuration(raw)
		if err != nil {
			b.respond(event, "Invalid duration. Use forms like 12h, 7d.")
			return
		}
		req.Duration = duration
	}

	err := b.bans.ApplyBan(ctx, req)
	switch {
	case errors.Is(err, moderation.ErrInvalidDuration):
		b.respond(event, "Temporary bans need a duration of at least one second.")
	case errors.Is(err, moderation.ErrUnexpectedDuration):
		b.respond(event, "Only temporary bans take a duration.")
	case errors.Is(err, moderation.ErrPermanentBanExists):
		b.respond(event, fmt.Sprintf(
			"<@%d> already has a ban without expiry. Unban them first to change it.", target))
	case err != nil:
		b.logger.Error("Ban failed", zap.Error(err))
		b.respond(event, "Failed to apply the ban.")
	case kind == enum.InfractionKindTempBan:
		b.respond(event, fmt.Sprintf("Banned <@%d> for %s.", target, req.Duration))
	default:
		b.respond(event, fmt.Sprintf("Banned <@%d> (%s).", target, kind))
	}
}

func (b *Bot) handleUnban(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())
	target := uint64(data.User("user").ID)

	err := b.bans.Unban(ctx, guildID, target, uint64(event.User().ID), data.String("reason"))
	if err != nil {
		b.logger.Error("Unban failed", zap.Error(err))
		b.respond(event, "Ban state cleared, but the platform unban may not have gone through.")
		return
	}

	b.respond(event, fmt.Sprintf("Unbanned <@%d>.", target))
}

func (b *Bot) handleStrike(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())
	target := uint64(data.User("user").ID)

	result, err := b.strikes.Strike(ctx, guildID, target, uint64(event.User().ID), data.String("reason"))
	if err != nil {
		b.logger.Error("Strike failed", zap.Error(err))
		b.respond(event, "Failed to record the strike.")
		return
	}

	switch {
	case result.Removed:
		b.respond(event, fmt.Sprintf(
			"Struck <@%d> (%d active strikes). They have been removed from the staff ladder.",
			target, result.Count))
	case result.DemotedTo != 0:
		b.respond(event, fmt.Sprintf(
			"Struck <@%d> (%d active strikes). Demoted to <@&%d>.",
			target, result.Count, result.DemotedTo))
	default:
		b.respond(event, fmt.Sprintf("Struck <@%d> (%d active strikes).", target, result.Count))
	}
}

func (b *Bot) handleCase(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())
	target := uint64(data.User("user").ID)

	view, err := b.bans.Lookup(ctx, guildID, target)
	if err != nil {
		b.logger.Error("Lookup failed", zap.Error(err))
		b.respond(event, "Failed to look up the member.")
		return
	}

	records, err := b.history.History(ctx, guildID, target)
	if err != nil {
		b.logger.Error("History failed", zap.Error(err))
		b.respond(event, "Failed to load the infraction record.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Case file for <@%d>\n", target)
	sb.WriteString(formatBanState(view))
	fmt.Fprintf(&sb, "Infractions: %d\n", len(records))

	for i, record := range records {
		if i == 10 {
			fmt.Fprintf(&sb, "… and %d more\n", len(records)-i)
			break
		}
		fmt.Fprintf(&sb, "`#%d` %s by %s on %s: %s\n",
			record.ID, record.Kind, formatModerator(record.ModeratorID),
			record.CreatedAt.Format("2006-01-02"), record.Reason)
	}

	b.respond(event, sb.String())
}

func (b *Bot) handleClear(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())
	moderatorID := uint64(event.User().ID)

	switch *data.SubCommandName {
	case "one":
		id := int64(data.Int("id"))

		removed, err := b.history.ClearInfraction(ctx, guildID, id, moderatorID)
		switch {
		case err != nil:
			b.logger.Error("Clear failed", zap.Error(err))
			b.respond(event, "Failed to clear the infraction.")
		case !removed:
			b.respond(event, fmt.Sprintf("No infraction #%d in this guild.", id))
		default:
			b.respond(event, fmt.Sprintf("Cleared infraction #%d.", id))
		}

	case "all":
		target := uint64(data.User("user").ID)

		removed, err := b.history.ClearInfractions(ctx, guildID, target, moderatorID)
		if err != nil {
			b.logger.Error("Clear failed", zap.Error(err))
			b.respond(event, "Failed to clear the record.")
			return
		}

		b.respond(event, fmt.Sprintf("Cleared %d infractions for <@%d>.", removed, target))
	}
}

func (b *Bot) handleRules(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	switch *data.SubCommandGroupName {
	case "escalation":
		b.handleEscalationRules(ctx, event, data)
	case "strike":
		b.handleStrikeRules(ctx, event, data)
	}
}

func (b *Bot) handleEscalationRules(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())

	switch *data.SubCommandName {
	case "add":
		window, err := parseDuration(data.String("window"))
		if err != nil {
			b.respond(event, "Invalid window. Use forms like 24h or 7d.")
			return
		}

		rule := &types.EscalationRule{
			GuildID:       guildID,
			WarnThreshold: data.Int("threshold"),
			WindowSeconds: int64(window / time.Second),
		}

		switch data.String("punishment") {
		case "timeout":
			rule.Punishment = enum.InfractionKindTimeout
		case "temp":
			rule.Punishment = enum.InfractionKindTempBan
		case "indefinite":
			rule.Punishment = enum.InfractionKindIndefiniteBan
		case "permanent":
			rule.Punishment = enum.InfractionKindPermanentBan
		}

		if raw, ok := data.OptString("duration"); ok {
			duration, err := parseDuration(raw)
			if err != nil {
				b.respond(event, "Invalid duration. Use forms like 1h, 3d.")
				return
			}
			rule.DurationSeconds = int64(duration / time.Second)
		}

		if err := b.rules.AddEscalationRule(ctx, rule); err != nil {
			b.respond(event, ruleErrorMessage(err))
			return
		}

		b.respond(event, fmt.Sprintf("Added rule: %d warnings within %s → %s.",
			rule.WarnThreshold, rule.Window(), rule.Punishment))

	case "remove":
		window, err := parseDuration(data.String("window"))
		if err != nil {
			b.respond(event, "Invalid window. Use forms like 24h or 7d.")
			return
		}

		removed, err := b.rules.RemoveEscalationRule(ctx, guildID,
			data.Int("threshold"), int64(window/time.Second))
		switch {
		case err != nil:
			b.logger.Error("Rule removal failed", zap.Error(err))
			b.respond(event, "Failed to remove the rule.")
		case !removed:
			b.respond(event, "No rule with that threshold and window.")
		default:
			b.respond(event, "Rule removed.")
		}

	case "list":
		rules, err := b.rules.ListEscalationRules(ctx, guildID)
		if err != nil {
			b.logger.Error("Rule listing failed", zap.Error(err))
			b.respond(event, "Failed to list rules.")
			return
		}

		if len(rules) == 0 {
			b.respond(event, "No escalation rules configured.")
			return
		}

		var sb strings.Builder
		sb.WriteString("Escalation rules, in evaluation order:\n")
		for _, rule := range rules {
			fmt.Fprintf(&sb, "%d warnings within %s → %s",
				rule.WarnThreshold, rule.Window(), rule.Punishment)
			if rule.DurationSeconds > 0 {
				fmt.Fprintf(&sb, " for %s", rule.Duration())
			}
			sb.WriteString("\n")
		}

		b.respond(event, sb.String())
	}
}

func (b *Bot) handleStrikeRules(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	data discord.SlashCommandInteractionData,
) {
	guildID := uint64(*event.GuildID())

	switch *data.SubCommandName {
	case "add":
		rule := &types.StrikeRule{
			GuildID:     guildID,
			StrikeCount: data.Int("count"),
		}

		switch data.String("punishment") {
		case "downgrade":
			rule.Punishment = enum.StrikePunishmentDowngrade
		case "kick":
			rule.Punishment = enum.StrikePunishmentKick
		}

		if err := b.rules.AddStrikeRule(ctx, rule); err != nil {
			b.respond(event, ruleErrorMessage(err))
			return
		}

		b.respond(event, fmt.Sprintf("Added strike rule: exactly %d strikes → %s.",
			rule.StrikeCount, rule.Punishment))

	case "remove":
		removed, err := b.rules.RemoveStrikeRule(ctx, guildID, data.Int("count"))
		switch {
		case err != nil:
			b.logger.Error("Rule removal failed", zap.Error(err))
			b.respond(event, "Failed to remove the rule.")
		case !removed:
			b.respond(event, "No strike rule for that count.")
		default:
			b.respond(event, "Rule removed.")
		}

	case "list":
		rules, err := b.rules.ListStrikeRules(ctx, guildID)
		if err != nil {
			b.logger.Error("Rule listing failed", zap.Error(err))
			b.respond(event, "Failed to list rules.")
			return
		}

		if len(rules) == 0 {
			b.respond(event, "No strike rules configured.")
			return
		}

		var sb strings.Builder
		sb.WriteString("Strike rules:\n")
		for _, rule := range rules {
			fmt.Fprintf(&sb, "exactly %d strikes → %s\n", rule.StrikeCount, rule.Punishment)
		}

		b.respond(event, sb.String())
	}
}

func formatBanState(view *moderation.BanView) string {
	if !view.IsBanned() {
		return "Ban state: not banned\n"
	}

	var sb strings.Builder

	switch {
	case view.Active != nil && view.Active.IsPermanent():
		sb.WriteString("Ban state: banned, no expiry")
	case view.Active != nil:
		fmt.Fprintf(&sb, "Ban state: banned until %s",
			view.Active.ExpiresAt.Format("2006-01-02 15:04 MST"))
	default:
		sb.WriteString("Ban state: banned on the platform, no engine record")
	}

	if view.Active != nil {
		fmt.Fprintf(&sb, " (by %s: %s)", formatModerator(view.Active.ModeratorID), view.Active.Reason)
	} else if view.Platform != nil && view.Platform.Reason != "" {
		fmt.Fprintf(&sb, " (%s)", view.Platform.Reason)
	}

	sb.WriteString("\n")

	return sb.String()
}

func formatModerator(id uint64) string {
	if id == types.SystemModeratorID {
		return "automatic escalation"
	}
	return fmt.Sprintf("<@%d>", id)
}

// parseDuration extends time.ParseDuration with a day suffix, since most
// moderation durations are quoted in days.
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)

	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.ParseFloat(days, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q: %w", raw, err)
		}
		return time.Duration(n * 24 * float64(time.Hour)), nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	return d, nil
}

func ruleErrorMessage(err error) string {
	switch {
	case errors.Is(err, moderation.ErrInvalidThreshold):
		return "Threshold must be at least 1."
	case errors.Is(err, moderation.ErrInvalidWindow):
		return "Window must be at least one second."
	case errors.Is(err, moderation.ErrInvalidDuration):
		return "This punishment needs a duration of at least one second."
	case errors.Is(err, moderation.ErrUnexpectedDuration):
		return "This punishment must not carry a duration."
	case errors.Is(err, moderation.ErrInvalidPunishment):
		return "That punishment cannot be used here."
	case errors.Is(err, moderation.ErrInvalidStrikeCount):
		return "Strike count must be at least 1."
	case errors.Is(err, moderation.ErrDuplicateRuleTrigger):
		return "A rule with that threshold and window already exists."
	case errors.Is(err, moderation.ErrDuplicateStrikeRule):
		return "A strike rule for that count already exists."
	default:
		return "Failed to save the rule."
	}
}
