package database

import (
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/models"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	infraction     *models.InfractionModel
	escalationRule *models.EscalationRuleModel
	activeBan      *models.ActiveBanModel
	staffStrike    *models.StaffStrikeModel
	strikeRule     *models.StrikeRuleModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		infraction:     models.NewInfraction(db, logger),
		escalationRule: models.NewEscalationRule(db, logger),
		activeBan:      models.NewActiveBan(db, logger),
		staffStrike:    models.NewStaffStrike(db, logger),
		strikeRule:     models.NewStrikeRule(db, logger),
	}
}

// Infraction returns the infraction log model repository.
func (r *Repository) Infraction() *models.InfractionModel {
	return r.infraction
}

// EscalationRule returns the escalation rule model repository.
func (r *Repository) EscalationRule() *models.EscalationRuleModel {
	return r.escalationRule
}

// ActiveBan returns the active ban model repository.
func (r *Repository) ActiveBan() *models.ActiveBanModel {
	return r.activeBan
}

// StaffStrike returns the staff strike model repository.
func (r *Repository) StaffStrike() *models.StaffStrikeModel {
	return r.staffStrike
}

// StrikeRule returns the strike rule model repository.
func (r *Repository) StrikeRule() *models.StrikeRuleModel {
	return r.strikeRule
}
