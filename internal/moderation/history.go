package moderation

import (
	"context"
	"fmt"

	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// HistoryService exposes the infraction log for review and administrative
// cleanup. Records are otherwise immutable; these are the only deletion
// paths besides a lifted ban.
type HistoryService struct {
	infractions InfractionStore
	notifier    Notifier
	logger      *zap.Logger
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(infractions InfractionStore, notifier Notifier, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		infractions: infractions,
		notifier:    notifier,
		logger:      logger.Named("history_service"),
	}
}

// History returns a member's full infraction record, newest first.
func (s *HistoryService) History(ctx context.Context, guildID, userID uint64) ([]*types.Infraction, error) {
	records, err := s.infractions.GetOrdered(ctx, guildID, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get infraction history: %w", err)
	}
	return records, nil
}

// ClearInfraction deletes a single record by ID, reporting whether it
// existed in the guild.
func (s *HistoryService) ClearInfraction(ctx context.Context, guildID uint64, id int64, moderatorID uint64) (bool, error) {
	removed, err := s.infractions.DeleteByID(ctx, guildID, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete infraction: %w", err)
	}

	if removed {
		s.logAction(ctx, guildID, fmt.Sprintf("Cleared infraction #%d", id))
		s.logger.Info("Cleared infraction",
			zap.Uint64("guild_id", guildID),
			zap.Int64("infraction_id", id),
			zap.Uint64("moderator_id", moderatorID))
	}

	return removed, nil
}

// ClearInfractions deletes a member's entire record and returns how many
// rows were removed.
func (s *HistoryService) ClearInfractions(ctx context.Context, guildID, userID, moderatorID uint64) (int64, error) {
	removed, err := s.infractions.DeleteAllForUser(ctx, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear infractions: %w", err)
	}

	if removed > 0 {
		s.logAction(ctx, guildID, fmt.Sprintf("Cleared %d infractions for <@%d>", removed, userID))
		s.logger.Info("Cleared member infractions",
			zap.Uint64("guild_id", guildID),
			zap.Uint64("user_id", userID),
			zap.Int64("removed", removed),
			zap.Uint64("moderator_id", moderatorID))
	}

	return removed, nil
}

func (s *HistoryService) logAction(ctx context.Context, guildID uint64, message string) {
	if err := s.notifier.LogAction(ctx, guildID, message); err != nil {
		s.logger.Warn("Failed to deliver log message",
			zap.Uint64("guild_id", guildID),
			zap.Error(err))
	}
}
