package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

const settingsColumns = `usd_to_pkr_rate, pm_commission_percentage, team_lead_bonus_amount, bidder_bonus_amount, last_updated_by, updated_at`

func (r *settingsRepositoryImpl) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	var s settings.Settings
	err := q.QueryRow(ctx, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`).Scan(
		&s.USDToPKRRate, &s.PMCommissionPercentage, &s.TeamLeadBonusAmount,
		&s.BidderBonusAmount, &s.LastUpdatedBy, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.Settings{}, settings.ErrSettingsNotFound
		}
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

func (r *settingsRepositoryImpl) Upsert(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO settings (id, usd_to_pkr_rate, pm_commission_percentage, team_lead_bonus_amount, bidder_bonus_amount, last_updated_by)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			usd_to_pkr_rate = EXCLUDED.usd_to_pkr_rate,
			pm_commission_percentage = EXCLUDED.pm_commission_percentage,
			team_lead_bonus_amount = EXCLUDED.team_lead_bonus_amount,
			bidder_bonus_amount = EXCLUDED.bidder_bonus_amount,
			last_updated_by = EXCLUDED.last_updated_by,
			updated_at = NOW()
		RETURNING ` + settingsColumns

	var saved settings.Settings
	err := q.QueryRow(ctx, query,
		s.USDToPKRRate, s.PMCommissionPercentage, s.TeamLeadBonusAmount, s.BidderBonusAmount, s.LastUpdatedBy,
	).Scan(
		&saved.USDToPKRRate, &saved.PMCommissionPercentage, &saved.TeamLeadBonusAmount,
		&saved.BidderBonusAmount, &saved.LastUpdatedBy, &saved.UpdatedAt,
	)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return saved, nil
}
