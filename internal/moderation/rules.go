package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"go.uber.org/zap"
)

// RuleService validates and manages a guild's escalation and strike rules.
type RuleService struct {
	rules       EscalationRuleStore
	strikeRules StrikeRuleStore
	logger      *zap.Logger
}

// NewRuleService creates a RuleService.
func NewRuleService(rules EscalationRuleStore, strikeRules StrikeRuleStore, logger *zap.Logger) *RuleService {
	return &RuleService{
		rules:       rules,
		strikeRules: strikeRules,
		logger:      logger.Named("rule_service"),
	}
}

// AddEscalationRule validates and stores a new escalation rule. Two rules
// may never share the same threshold and window within a guild.
func (s *RuleService) AddEscalationRule(ctx context.Context, rule *types.EscalationRule) error {
	if rule.WarnThreshold < 1 {
		return ErrInvalidThreshold
	}
	if rule.WindowSeconds < 1 {
		return ErrInvalidWindow
	}

	switch rule.Punishment {
	case enum.InfractionKindTimeout, enum.InfractionKindTempBan:
		if rule.Duration() < time.Second {
			return ErrInvalidDuration
		}
	case enum.InfractionKindIndefiniteBan, enum.InfractionKindPermanentBan:
		if rule.DurationSeconds != 0 {
			return ErrUnexpectedDuration
		}
	default:
		return ErrInvalidPunishment
	}

	inserted, err := s.rules.Insert(ctx, rule)
	if err != nil {
		return fmt.Errorf("failed to insert escalation rule: %w", err)
	}
	if !inserted {
		return ErrDuplicateRuleTrigger
	}

	s.logger.Info("Added escalation rule",
		zap.Uint64("guild_id", rule.GuildID),
		zap.Int("threshold", rule.WarnThreshold),
		zap.Duration("window", rule.Window()),
		zap.String("punishment", rule.Punishment.String()))

	return nil
}

// RemoveEscalationRule deletes the rule with the given trigger, reporting
// whether one existed.
func (s *RuleService) RemoveEscalationRule(
	ctx context.Context, guildID uint64, warnThreshold int, windowSeconds int64,
) (bool, error) {
	removed, err := s.rules.Delete(ctx, guildID, warnThreshold, windowSeconds)
	if err != nil {
		return false, fmt.Errorf("failed to delete escalation rule: %w", err)
	}
	return removed, nil
}

// ListEscalationRules returns the guild's rules in evaluation order.
func (s *RuleService) ListEscalationRules(ctx context.Context, guildID uint64) ([]*types.EscalationRule, error) {
	rules, err := s.rules.List(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalation rules: %w", err)
	}
	return rules, nil
}

// AddStrikeRule validates and stores a new strike rule. A guild may have at
// most one rule per exact strike count.
func (s *RuleService) AddStrikeRule(ctx context.Context, rule *types.StrikeRule) error {
	if rule.StrikeCount < 1 {
		return ErrInvalidStrikeCount
	}
	if !rule.Punishment.IsAStrikePunishment() {
		return ErrInvalidPunishment
	}

	inserted, err := s.strikeRules.Insert(ctx, rule)
	if err != nil {
		return fmt.Errorf("failed to insert strike rule: %w", err)
	}
	if !inserted {
		return ErrDuplicateStrikeRule
	}

	s.logger.Info("Added strike rule",
		zap.Uint64("guild_id", rule.GuildID),
		zap.Int("count", rule.StrikeCount),
		zap.String("punishment", rule.Punishment.String()))

	return nil
}

// RemoveStrikeRule deletes the rule at the given count, reporting whether
// one existed.
func (s *RuleService) RemoveStrikeRule(ctx context.Context, guildID uint64, strikeCount int) (bool, error) {
	removed, err := s.strikeRules.Delete(ctx, guildID, strikeCount)
	if err != nil {
		return false, fmt.Errorf("failed to delete strike rule: %w", err)
	}
	return removed, nil
}

// ListStrikeRules returns the guild's strike rules ordered by count.
func (s *RuleService) ListStrikeRules(ctx context.Context, guildID uint64) ([]*types.StrikeRule, error) {
	rules, err := s.strikeRules.List(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list strike rules: %w", err)
	}
	return rules, nil
}
