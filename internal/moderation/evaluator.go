package moderation

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"go.uber.org/zap"
)

// CompareRules orders escalation rules for evaluation: higher warn
// thresholds first, and among equal thresholds, shorter windows first.
// The first rule in this order whose condition holds is the only one that
// fires for a given warning.
func CompareRules(a, b *types.EscalationRule) int {
	if a.WarnThreshold != b.WarnThreshold {
		if a.WarnThreshold > b.WarnThreshold {
			return -1
		}
		return 1
	}

	switch {
	case a.WindowSeconds < b.WindowSeconds:
		return -1
	case a.WindowSeconds > b.WindowSeconds:
		return 1
	default:
		return 0
	}
}

// Evaluator records warnings and escalates them into punishments according
// to the guild's escalation rules. At most one rule fires per warning.
type Evaluator struct {
	infractions InfractionStore
	rules       EscalationRuleStore
	bans        *BanManager
	directory   GuildDirectory
	notifier    Notifier
	logger      *zap.Logger
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(
	infractions InfractionStore, rules EscalationRuleStore, bans *BanManager,
	directory GuildDirectory, notifier Notifier, logger *zap.Logger,
) *Evaluator {
	return &Evaluator{
		infractions: infractions,
		rules:       rules,
		bans:        bans,
		directory:   directory,
		notifier:    notifier,
		logger:      logger.Named("evaluator"),
	}
}

// WarnResult reports what a recorded warning led to.
type WarnResult struct {
	Infraction *types.Infraction
	// Triggered is the rule that fired, or nil when no threshold was met.
	Triggered *types.EscalationRule
	// Suppressed is set when the member already has an active ban, which
	// short-circuits rule evaluation entirely.
	Suppressed bool
	// TimeoutSkipped is set when the matched rule prescribed a timeout but
	// the member was already timed out or has left the guild. An earlier
	// timeout stands.
	TimeoutSkipped bool
}

// Warn records a warning against a member and evaluates the guild's
// escalation rules. The warning itself is always recorded, even when the
// member is already banned or a subsequent punishment fails.
func (e *Evaluator) Warn(
	ctx context.Context, guildID, userID, moderatorID uint64, reason string,
) (*WarnResult, error) {
	now := time.Now()

	warn := &types.Infraction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Kind:        enum.InfractionKindWarn,
		Reason:      reason,
		CreatedAt:   now,
	}
	if err := e.infractions.Insert(ctx, warn); err != nil {
		return nil, fmt.Errorf("failed to record warning: %w", err)
	}

	result := &WarnResult{Infraction: warn}

	// An already-banned member is beyond escalation; re-punishing them would
	// clobber the existing ban state.
	ban, err := e.bans.ActiveBan(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active ban: %w", err)
	}
	if ban != nil {
		result.Suppressed = true
		e.logger.Debug("Escalation suppressed by active ban",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID))
		return result, nil
	}

	rules, err := e.rules.List(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalation rules: %w", err)
	}

	// The store returns rules ordered, but ordering is an engine invariant,
	// not a storage one.
	slices.SortFunc(rules, CompareRules)

	for _, rule := range rules {
		count, err := e.infractions.CountQualifying(
			ctx, guildID, userID, enum.InfractionKindWarn, now.Add(-rule.Window()))
		if err != nil {
			return nil, fmt.Errorf("failed to count warnings: %w", err)
		}

		if count < rule.WarnThreshold {
			continue
		}

		result.Triggered = rule
		e.dispatch(ctx, rule, guildID, userID, reason, result)
		break
	}

	return result, nil
}

// Timeout applies a moderator-issued timeout and records it. The same
// first-timeout-wins rule as escalation applies: an existing timeout is
// left alone and skipped is returned.
func (e *Evaluator) Timeout(
	ctx context.Context, guildID, userID, moderatorID uint64,
	duration time.Duration, reason string,
) (skipped bool, err error) {
	if duration < time.Second {
		return false, ErrInvalidDuration
	}

	member, err := e.directory.Member(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch member: %w", err)
	}
	if member == nil {
		return false, ErrMemberNotFound
	}

	if member.IsTimedOut(time.Now()) {
		return true, nil
	}

	if err := e.directory.ApplyTimeout(ctx, guildID, userID, duration, reason); err != nil {
		return false, fmt.Errorf("failed to apply timeout: %w", err)
	}

	record := &types.Infraction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Kind:        enum.InfractionKindTimeout,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}
	if err := e.infractions.Insert(ctx, record); err != nil {
		return false, fmt.Errorf("failed to record timeout: %w", err)
	}

	if err := e.notifier.DirectMessage(ctx, userID,
		fmt.Sprintf("You have been timed out for %s: %s", duration, reason)); err != nil {
		e.logger.Debug("Failed to DM timeout notice",
			zap.Uint64("user_id", userID),
			zap.Error(err))
	}

	if err := e.notifier.LogAction(ctx, guildID, fmt.Sprintf(
		"Timed out <@%d> for %s: %s", userID, duration, reason)); err != nil {
		e.logger.Warn("Failed to deliver log message",
			zap.Uint64("guild_id", guildID),
			zap.Error(err))
	}

	return false, nil
}

// dispatch applies a rule's punishment. Punishment failures are logged but
// never propagated; the warning that triggered them is already recorded.
func (e *Evaluator) dispatch(
	ctx context.Context, rule *types.EscalationRule,
	guildID, userID uint64, reason string, result *WarnResult,
) {
	escalationReason := fmt.Sprintf("Reached %d warnings within %s: %s",
		rule.WarnThreshold, rule.Window(), reason)

	switch rule.Punishment {
	case enum.InfractionKindTimeout:
		skipped, err := e.applyTimeout(ctx, rule, guildID, userID, escalationReason)
		if err != nil {
			e.logger.Error("Failed to apply escalation timeout",
				zap.Uint64("guild_id", guildID),
				zap.Uint64("user_id", userID),
				zap.Error(err))
			return
		}
		result.TimeoutSkipped = skipped

	case enum.InfractionKindTempBan, enum.InfractionKindIndefiniteBan, enum.InfractionKindPermanentBan:
		req := &BanRequest{
			GuildID:     guildID,
			UserID:      userID,
			ModeratorID: types.SystemModeratorID,
			Kind:        rule.Punishment,
			Reason:      escalationReason,
		}
		if rule.Punishment == enum.InfractionKindTempBan {
			req.Duration = rule.Duration()
		}

		if err := e.bans.ApplyBan(ctx, req); err != nil {
			e.logger.Error("Failed to apply escalation ban",
				zap.Uint64("guild_id", guildID),
				zap.Uint64("user_id", userID),
				zap.String("kind", rule.Punishment.String()),
				zap.Error(err))
		}

	default:
		e.logger.Error("Escalation rule has non-punishment kind",
			zap.Int64("rule_id", rule.ID),
			zap.String("kind", rule.Punishment.String()))
	}
}

// applyTimeout times the member out and records the infraction. An existing
// timeout is never shortened or extended, and a member who has left the
// guild is not punished; in both cases the rule is simply skipped.
func (e *Evaluator) applyTimeout(
	ctx context.Context, rule *types.EscalationRule,
	guildID, userID uint64, reason string,
) (skipped bool, err error) {
	member, err := e.directory.Member(ctx, guildID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch member: %w", err)
	}
	if member == nil {
		// A member who left the guild cannot be timed out. The warning
		// already on record is the outcome.
		e.logger.Debug("Member left the guild, timeout rule skipped",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID))
		return true, nil
	}

	if member.IsTimedOut(time.Now()) {
		e.logger.Debug("Member already timed out, rule skipped",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID))
		return true, nil
	}

	if err := e.directory.ApplyTimeout(ctx, guildID, userID, rule.Duration(), reason); err != nil {
		return false, fmt.Errorf("failed to apply timeout: %w", err)
	}

	record := &types.Infraction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: types.SystemModeratorID,
		Kind:        enum.InfractionKindTimeout,
		Reason:      reason,
		CreatedAt:   time.Now(),
	}
	if err := e.infractions.Insert(ctx, record); err != nil {
		return false, fmt.Errorf("failed to record timeout: %w", err)
	}

	if err := e.notifier.DirectMessage(ctx, userID,
		fmt.Sprintf("You have been timed out for %s: %s", rule.Duration(), reason)); err != nil {
		e.logger.Debug("Failed to DM timeout notice",
			zap.Uint64("user_id", userID),
			zap.Error(err))
	}

	if err := e.notifier.LogAction(ctx, guildID, fmt.Sprintf(
		"Timed out <@%d> for %s: %s", userID, rule.Duration(), reason)); err != nil {
		e.logger.Warn("Failed to deliver log message",
			zap.Uint64("guild_id", guildID),
			zap.Error(err))
	}

	return false, nil
}
