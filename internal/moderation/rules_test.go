package moderation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"github.com/wardenbot/warden/internal/moderation"
	"go.uber.org/zap"
)

func setupRuleTest(t *testing.T) *moderation.RuleService {
	t.Helper()

	return moderation.NewRuleService(
		&fakeEscalationRuleStore{}, &fakeStrikeRuleStore{}, zap.NewNop())
}

func TestAddEscalationRuleValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rule    *types.EscalationRule
		wantErr error
	}{
		{
			name: "zero threshold",
			rule: &types.EscalationRule{
				GuildID: testGuildID, WarnThreshold: 0, WindowSeconds: 3600,
				Punishment: enum.InfractionKindTimeout, DurationSeconds: 600,
			},
			wantErr: moderation.ErrInvalidThreshold,
		},
		{
			name: "zero window",
			rule: &types.EscalationRule{
				GuildID: testGuildID, WarnThreshold: 3, WindowSeconds: 0,
				Punishment: enum.InfractionKindTimeout, DurationSeconds: 600,
			},
			wantErr: moderation.ErrInvalidWindow,
		},
		{
			name: "timeout without duration",
			rule: &types.EscalationRule{
				GuildID: testGuildID, WarnThreshold: 3, WindowSeconds: 3600,
				Punishment: enum.InfractionKindTimeout,
			},
			wantErr: moderation.ErrInvalidDuration,
		},
		{
			name: "temp ban without duration",
			rule: &types.EscalationRule{
				GuildID: testGuildID, WarnThreshold: 3, WindowSeconds: 3600,
				Punishment: enum.InfractionKindTempBan,
			},
			wantErr: moderation.ErrInvalidDuration,
		},
		{
			name: "indefinite ban with duration",
			rule: &types.EscalationRule{
				GuildID: testGuildID, WarnThreshold: 3, WindowSeconds: 3600,
				Punishment: enum.InfractionKindIndefiniteBan, DurationSeconds: 600,
			},
			wantErr: moderation.ErrUnexpectedDuration,
		},
		{
			name: "warn as punishment",
			rule: &types.EscalationRule{
				GuildID: testGuildID, WarnThreshold: 3, WindowSeconds: 3600,
				Punishment: enum.InfractionKindWarn,
			},
			wantErr: moderation.ErrInvalidPunishment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := setupRuleTest(t)
			err := service.AddEscalationRule(t.Context(), tt.rule)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddEscalationRuleDuplicateTrigger(t *testing.T) {
	t.Parallel()

	service := setupRuleTest(t)
	ctx := t.Context()

	rule := &types.EscalationRule{
		GuildID: testGuildID, WarnThreshold: 3, WindowSeconds: 3600,
		Punishment: enum.InfractionKindTimeout, DurationSeconds: 600,
	}
	require.NoError(t, service.AddEscalationRule(ctx, rule))

	// Same trigger with a different punishment is still a duplicate.
	dup := &types.EscalationRule{
		GuildID: testGuildID, WarnThreshold: 3, WindowSeconds: 3600,
		Punishment: enum.InfractionKindPermanentBan,
	}
	err := service.AddEscalationRule(ctx, dup)
	require.ErrorIs(t, err, moderation.ErrDuplicateRuleTrigger)

	// Removing the rule frees the trigger for reuse.
	removed, err := service.RemoveEscalationRule(ctx, testGuildID, 3, 3600)
	require.NoError(t, err)
	require.True(t, removed)
	require.NoError(t, service.AddEscalationRule(ctx, dup))
}

func TestRemoveEscalationRuleMissing(t *testing.T) {
	t.Parallel()

	service := setupRuleTest(t)

	removed, err := service.RemoveEscalationRule(t.Context(), testGuildID, 5, 60)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListEscalationRules(t *testing.T) {
	t.Parallel()

	service := setupRuleTest(t)
	ctx := t.Context()

	require.NoError(t, service.AddEscalationRule(ctx, &types.EscalationRule{
		GuildID: testGuildID, WarnThreshold: 2, WindowSeconds: 3600,
		Punishment: enum.InfractionKindTimeout, DurationSeconds: 600,
	}))
	require.NoError(t, service.AddEscalationRule(ctx, &types.EscalationRule{
		GuildID: testGuildID, WarnThreshold: 5, WindowSeconds: 86400,
		Punishment: enum.InfractionKindPermanentBan,
	}))

	rules, err := service.ListEscalationRules(ctx, testGuildID)
	require.NoError(t, err)
	assert.Len(t, rules, 2)

	other, err := service.ListEscalationRules(ctx, testGuildID+1)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestAddStrikeRule(t *testing.T) {
	t.Parallel()

	service := setupRuleTest(t)
	ctx := t.Context()

	err := service.AddStrikeRule(ctx, &types.StrikeRule{
		GuildID: testGuildID, StrikeCount: 0, Punishment: enum.StrikePunishmentKick,
	})
	require.ErrorIs(t, err, moderation.ErrInvalidStrikeCount)

	err = service.AddStrikeRule(ctx, &types.StrikeRule{
		GuildID: testGuildID, StrikeCount: 2, Punishment: enum.StrikePunishment(99),
	})
	require.ErrorIs(t, err, moderation.ErrInvalidPunishment)

	require.NoError(t, service.AddStrikeRule(ctx, &types.StrikeRule{
		GuildID: testGuildID, StrikeCount: 2, Punishment: enum.StrikePunishmentDowngrade,
	}))

	err = service.AddStrikeRule(ctx, &types.StrikeRule{
		GuildID: testGuildID, StrikeCount: 2, Punishment: enum.StrikePunishmentKick,
	})
	require.ErrorIs(t, err, moderation.ErrDuplicateStrikeRule)

	removed, err := service.RemoveStrikeRule(ctx, testGuildID, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	rules, err := service.ListStrikeRules(ctx, testGuildID)
	require.NoError(t, err)
	assert.Empty(t, rules)
}
