package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/database/types/enum"
	"go.uber.org/zap"
)

// BanManager translates punishment decisions into guild-level ban effects
// and keeps ActiveBan state consistent with the platform. The platform ban
// call is authoritative: if it fails, no log or state write happens.
type BanManager struct {
	bans        ActiveBanStore
	infractions InfractionStore
	directory   GuildDirectory
	notifier    Notifier
	cache       *BanCache // Optional; nil disables caching
	logger      *zap.Logger
}

// NewBanManager creates a BanManager. Cache may be nil, in which case every
// active-ban lookup goes straight to the store.
func NewBanManager(
	bans ActiveBanStore, infractions InfractionStore, directory GuildDirectory,
	notifier Notifier, cache *BanCache, logger *zap.Logger,
) *BanManager {
	return &BanManager{
		bans:        bans,
		infractions: infractions,
		directory:   directory,
		notifier:    notifier,
		cache:       cache,
		logger:      logger.Named("ban_manager"),
	}
}

// BanRequest describes a ban to apply.
type BanRequest struct {
	GuildID     uint64
	UserID      uint64
	ModeratorID uint64 // types.SystemModeratorID when rule-triggered
	Kind        enum.InfractionKind
	Reason      string
	Duration    time.Duration // Required for temp bans, must be zero otherwise
	Retention   time.Duration // How far back to delete the target's messages
}

// ApplyBan executes a ban end to end: validation, best-effort DM, the
// platform ban, the infraction record, and the ActiveBan upsert, in that
// order. An existing ban without expiry is never overwritten; lifting one
// requires an explicit unban first.
func (m *BanManager) ApplyBan(ctx context.Context, req *BanRequest) error {
	switch req.Kind {
	case enum.InfractionKindTempBan:
		if req.Duration < time.Second {
			return ErrInvalidDuration
		}
	case enum.InfractionKindIndefiniteBan, enum.InfractionKindPermanentBan:
		if req.Duration != 0 {
			return ErrUnexpectedDuration
		}
	case enum.InfractionKindWarn, enum.InfractionKindTimeout:
		return ErrInvalidBanKind
	default:
		return ErrInvalidBanKind
	}

	existing, err := m.ActiveBan(ctx, req.GuildID, req.UserID)
	if err != nil {
		return fmt.Errorf("failed to check existing ban: %w", err)
	}

	if existing != nil && existing.IsPermanent() {
		return ErrPermanentBanExists
	}

	// The target may have DMs disabled; that never blocks the ban.
	if err := m.notifier.DirectMessage(ctx, req.UserID, banNotice(req)); err != nil {
		m.logger.Debug("Failed to DM ban notice",
			zap.Uint64("user_id", req.UserID),
			zap.Error(err))
	}

	// Platform ban first. Nothing below runs if this fails, so a platform
	// error never leaves behind a record for a ban that didn't happen.
	if err := m.directory.CreateBan(ctx, req.GuildID, req.UserID, req.Reason, req.Retention); err != nil {
		return fmt.Errorf("failed to execute platform ban: %w", err)
	}

	now := time.Now()

	record := &types.Infraction{
		GuildID:     req.GuildID,
		UserID:      req.UserID,
		ModeratorID: req.ModeratorID,
		Kind:        req.Kind,
		Reason:      req.Reason,
		CreatedAt:   now,
	}
	if err := m.infractions.Insert(ctx, record); err != nil {
		return fmt.Errorf("failed to record ban infraction: %w", err)
	}

	ban := &types.ActiveBan{
		GuildID:     req.GuildID,
		UserID:      req.UserID,
		ModeratorID: req.ModeratorID,
		Reason:      req.Reason,
		CreatedAt:   now,
	}
	if req.Kind == enum.InfractionKindTempBan {
		expires := now.Add(req.Duration)
		ban.ExpiresAt = &expires
	}

	applied, err := m.bans.UpsertIfNotPermanent(ctx, ban)
	if err != nil {
		return fmt.Errorf("failed to upsert active ban: %w", err)
	}

	m.invalidate(ctx, req.GuildID, req.UserID)

	if !applied {
		// A concurrent writer made the ban permanent between our check and
		// the upsert; the store-side guard caught it.
		return ErrPermanentBanExists
	}

	m.logAction(ctx, req.GuildID, fmt.Sprintf(
		"Banned <@%d> (%s): %s", req.UserID, req.Kind, req.Reason))
	m.logger.Info("Applied ban",
		zap.Uint64("guild_id", req.GuildID),
		zap.Uint64("user_id", req.UserID),
		zap.String("kind", req.Kind.String()))

	return nil
}

// Unban lifts a member's ban. Idempotent at the data layer: unbanning a
// non-banned member removes nothing and is not an error. The platform call
// is still attempted and its failure reported, after the row is cleaned up.
// Un-bans are logged to the notification channel only, never to the
// infraction log.
func (m *BanManager) Unban(ctx context.Context, guildID, userID, moderatorID uint64, reason string) error {
	platformErr := m.directory.RemoveBan(ctx, guildID, userID, reason)

	removed, err := m.bans.Delete(ctx, guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete active ban: %w", err)
	}

	m.invalidate(ctx, guildID, userID)

	if removed {
		m.logAction(ctx, guildID, fmt.Sprintf("Unbanned <@%d>: %s", userID, reason))
		m.logger.Info("Lifted ban",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID),
			zap.Uint64("moderator_id", moderatorID))
	}

	if platformErr != nil {
		return fmt.Errorf("failed to remove platform ban: %w", platformErr)
	}

	return nil
}

// BanView is the merged picture of a member's ban across the platform, the
// ActiveBan row, and the most recent ban infraction. Sources earlier in the
// struct take precedence; later ones fill in when the earlier is missing.
type BanView struct {
	Platform   *PlatformBan
	Active     *types.ActiveBan
	LastRecord *types.Infraction
}

// IsBanned checks if any source shows the member as banned.
func (v *BanView) IsBanned() bool {
	return v.Platform != nil || v.Active != nil
}

// Lookup builds the merged ban view for a member. A source that is merely
// absent is not an error; a platform read failure is logged and treated as
// absent so the stored state can still be reported.
func (m *BanManager) Lookup(ctx context.Context, guildID, userID uint64) (*BanView, error) {
	view := &BanView{}

	platform, err := m.directory.GetBan(ctx, guildID, userID)
	if err != nil {
		m.logger.Warn("Failed to read platform ban state",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID),
			zap.Error(err))
	} else {
		view.Platform = platform
	}

	active, err := m.ActiveBan(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	view.Active = active

	records, err := m.infractions.GetOrdered(ctx, guildID, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get infraction history: %w", err)
	}

	for _, record := range records {
		if record.Kind.IsBan() {
			view.LastRecord = record
			break
		}
	}

	return view, nil
}

// ActiveBan retrieves a member's active ban through the read-through cache,
// or nil when the member is not banned.
func (m *BanManager) ActiveBan(ctx context.Context, guildID, userID uint64) (*types.ActiveBan, error) {
	if m.cache != nil {
		ban, hit, err := m.cache.Get(ctx, guildID, userID)
		if err != nil {
			m.logger.Warn("Ban cache read failed", zap.Error(err))
		} else if hit {
			return ban, nil
		}
	}

	ban, err := m.bans.Get(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active ban: %w", err)
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, guildID, userID, ban); err != nil {
			m.logger.Warn("Ban cache write failed", zap.Error(err))
		}
	}

	return ban, nil
}

func (m *BanManager) invalidate(ctx context.Context, guildID, userID uint64) {
	if m.cache == nil {
		return
	}

	if err := m.cache.Invalidate(ctx, guildID, userID); err != nil {
		m.logger.Warn("Ban cache invalidation failed",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID),
			zap.Error(err))
	}
}

func (m *BanManager) logAction(ctx context.Context, guildID uint64, message string) {
	if err := m.notifier.LogAction(ctx, guildID, message); err != nil {
		m.logger.Warn("Failed to deliver log message",
			zap.Uint64("guild_id", guildID),
			zap.Error(err))
	}
}

func banNotice(req *BanRequest) string {
	switch req.Kind {
	case enum.InfractionKindTempBan:
		return fmt.Sprintf("You have been banned for %s: %s", req.Duration, req.Reason)
	case enum.InfractionKindPermanentBan:
		return fmt.Sprintf("You have been permanently banned: %s", req.Reason)
	default:
		return fmt.Sprintf("You have been banned: %s", req.Reason)
	}
}
