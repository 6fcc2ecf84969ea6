package moderation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"github.com/wardenbot/warden/internal/moderation"
	"go.uber.org/zap"
)

const (
	testGuildID     = uint64(100)
	testUserID      = uint64(200)
	testModeratorID = uint64(300)
)

type banTestEnv struct {
	manager     *moderation.BanManager
	bans        *fakeActiveBanStore
	infractions *fakeInfractionStore
	directory   *fakeDirectory
	notifier    *fakeNotifier
}

func setupBanTest(t *testing.T) *banTestEnv {
	t.Helper()

	env := &banTestEnv{
		bans:        newFakeActiveBanStore(),
		infractions: &fakeInfractionStore{},
		directory:   newFakeDirectory(),
		notifier:    newFakeNotifier(),
	}
	env.manager = moderation.NewBanManager(
		env.bans, env.infractions, env.directory, env.notifier, nil, zap.NewNop())

	return env
}

func TestApplyBanValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     enum.InfractionKind
		duration time.Duration
		wantErr  error
	}{
		{
			name:    "warn kind rejected",
			kind:    enum.InfractionKindWarn,
			wantErr: moderation.ErrInvalidBanKind,
		},
		{
			name:    "timeout kind rejected",
			kind:    enum.InfractionKindTimeout,
			wantErr: moderation.ErrInvalidBanKind,
		},
		{
			name:    "temp ban without duration",
			kind:    enum.InfractionKindTempBan,
			wantErr: moderation.ErrInvalidDuration,
		},
		{
			name:     "temp ban with sub-second duration",
			kind:     enum.InfractionKindTempBan,
			duration: 500 * time.Millisecond,
			wantErr:  moderation.ErrInvalidDuration,
		},
		{
			name:     "indefinite ban with duration",
			kind:     enum.InfractionKindIndefiniteBan,
			duration: time.Hour,
			wantErr:  moderation.ErrUnexpectedDuration,
		},
		{
			name:     "permanent ban with duration",
			kind:     enum.InfractionKindPermanentBan,
			duration: time.Hour,
			wantErr:  moderation.ErrUnexpectedDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := setupBanTest(t)

			err := env.manager.ApplyBan(t.Context(), &moderation.BanRequest{
				GuildID:     testGuildID,
				UserID:      testUserID,
				ModeratorID: testModeratorID,
				Kind:        tt.kind,
				Reason:      "test",
				Duration:    tt.duration,
			})
			require.ErrorIs(t, err, tt.wantErr)

			// Validation failures must leave no trace anywhere.
			assert.Empty(t, env.directory.bansCreated)
			assert.Empty(t, env.infractions.kinds())
		})
	}
}

func TestApplyBanTemporary(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	ctx := t.Context()

	err := env.manager.ApplyBan(ctx, &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindTempBan,
		Reason:      "spamming",
		Duration:    48 * time.Hour,
	})
	require.NoError(t, err)

	ban, err := env.bans.Get(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.NotNil(t, ban)
	require.NotNil(t, ban.ExpiresAt)
	assert.False(t, ban.IsPermanent())
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), *ban.ExpiresAt, time.Minute)

	assert.Equal(t, []uint64{testUserID}, env.directory.bansCreated)
	assert.Equal(t, []enum.InfractionKind{enum.InfractionKindTempBan}, env.infractions.kinds())
	assert.NotEmpty(t, env.notifier.dms[testUserID])
	assert.NotEmpty(t, env.notifier.logs)
}

func TestApplyBanPermanentNeverOverwritten(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	ctx := t.Context()

	require.NoError(t, env.manager.ApplyBan(ctx, &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindPermanentBan,
		Reason:      "ban evasion",
	}))

	tests := []struct {
		name     string
		kind     enum.InfractionKind
		duration time.Duration
	}{
		{"temp over permanent", enum.InfractionKindTempBan, time.Hour},
		{"indefinite over permanent", enum.InfractionKindIndefiniteBan, 0},
		{"permanent over permanent", enum.InfractionKindPermanentBan, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.manager.ApplyBan(ctx, &moderation.BanRequest{
				GuildID:     testGuildID,
				UserID:      testUserID,
				ModeratorID: testModeratorID,
				Kind:        tt.kind,
				Reason:      "again",
				Duration:    tt.duration,
			})
			require.ErrorIs(t, err, moderation.ErrPermanentBanExists)
		})
	}

	ban, err := env.bans.Get(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.NotNil(t, ban)
	assert.True(t, ban.IsPermanent())
	assert.Equal(t, "ban evasion", ban.Reason)

	// Only the original ban reached the platform and the log.
	assert.Equal(t, []uint64{testUserID}, env.directory.bansCreated)
	assert.Equal(t, []enum.InfractionKind{enum.InfractionKindPermanentBan}, env.infractions.kinds())
}

func TestApplyBanUpgradesTemporary(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	ctx := t.Context()

	require.NoError(t, env.manager.ApplyBan(ctx, &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindTempBan,
		Reason:      "first offense",
		Duration:    time.Hour,
	}))

	require.NoError(t, env.manager.ApplyBan(ctx, &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindPermanentBan,
		Reason:      "repeat offense",
	}))

	ban, err := env.bans.Get(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.NotNil(t, ban)
	assert.True(t, ban.IsPermanent())
	assert.Equal(t, "repeat offense", ban.Reason)
}

func TestApplyBanPlatformFailureWritesNothing(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	env.directory.createBanErr = errors.New("missing permissions")

	err := env.manager.ApplyBan(t.Context(), &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindIndefiniteBan,
		Reason:      "test",
	})
	require.Error(t, err)

	ban, getErr := env.bans.Get(t.Context(), testGuildID, testUserID)
	require.NoError(t, getErr)
	assert.Nil(t, ban)
	assert.Empty(t, env.infractions.kinds())
}

func TestApplyBanDMFailureIsBestEffort(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	env.notifier.dmErr = errors.New("DMs disabled")

	err := env.manager.ApplyBan(t.Context(), &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindIndefiniteBan,
		Reason:      "test",
	})
	require.NoError(t, err)

	assert.Equal(t, []uint64{testUserID}, env.directory.bansCreated)
}

func TestUnban(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	ctx := t.Context()

	require.NoError(t, env.manager.ApplyBan(ctx, &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindPermanentBan,
		Reason:      "test",
	}))

	recordsBefore := len(env.infractions.kinds())

	require.NoError(t, env.manager.Unban(ctx, testGuildID, testUserID, testModeratorID, "appeal accepted"))

	ban, err := env.bans.Get(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	assert.Nil(t, ban)
	assert.Equal(t, []uint64{testUserID}, env.directory.bansRemoved)

	// Lifting a ban never appends to the infraction log.
	assert.Len(t, env.infractions.kinds(), recordsBefore)

	// Unbanning a member who is not banned is not an error.
	require.NoError(t, env.manager.Unban(ctx, testGuildID, testUserID, testModeratorID, "again"))
}

func TestUnbanReopensPermanent(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	ctx := t.Context()

	require.NoError(t, env.manager.ApplyBan(ctx, &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindPermanentBan,
		Reason:      "test",
	}))
	require.NoError(t, env.manager.Unban(ctx, testGuildID, testUserID, testModeratorID, "appeal"))

	// After an explicit unban the member can be banned again, including with
	// a shorter temporary ban.
	require.NoError(t, env.manager.ApplyBan(ctx, &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindTempBan,
		Reason:      "second chance",
		Duration:    time.Hour,
	}))

	ban, err := env.bans.Get(ctx, testGuildID, testUserID)
	require.NoError(t, err)
	require.NotNil(t, ban)
	assert.False(t, ban.IsPermanent())
}

func TestLookup(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	ctx := t.Context()

	require.NoError(t, env.manager.ApplyBan(ctx, &moderation.BanRequest{
		GuildID:     testGuildID,
		UserID:      testUserID,
		ModeratorID: testModeratorID,
		Kind:        enum.InfractionKindTempBan,
		Reason:      "lookup test",
		Duration:    time.Hour,
	}))

	view, err := env.manager.Lookup(ctx, testGuildID, testUserID)
	require.NoError(t, err)

	assert.True(t, view.IsBanned())
	require.NotNil(t, view.Platform)
	require.NotNil(t, view.Active)
	require.NotNil(t, view.LastRecord)
	assert.Equal(t, enum.InfractionKindTempBan, view.LastRecord.Kind)
}

func TestLookupFallsBackAcrossSources(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)
	ctx := t.Context()

	// Platform read failure degrades to the stored state instead of failing
	// the whole lookup.
	env.directory.getBanErr = errors.New("platform unavailable")

	expires := time.Now().Add(time.Hour)
	_, err := env.bans.UpsertIfNotPermanent(ctx, &types.ActiveBan{
		GuildID:   testGuildID,
		UserID:    testUserID,
		ExpiresAt: &expires,
	})
	require.NoError(t, err)

	view, lookupErr := env.manager.Lookup(ctx, testGuildID, testUserID)
	require.NoError(t, lookupErr)

	assert.Nil(t, view.Platform)
	assert.NotNil(t, view.Active)
	assert.True(t, view.IsBanned())
}

func TestLookupNotBanned(t *testing.T) {
	t.Parallel()

	env := setupBanTest(t)

	view, err := env.manager.Lookup(t.Context(), testGuildID, testUserID)
	require.NoError(t, err)
	assert.False(t, view.IsBanned())
	assert.Nil(t, view.LastRecord)
}
