package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/shopspring/decimal"
)

type SettingsServiceImpl struct {
	repo      settings.SettingsRepository
	converter *currency.Converter
	seedRate  decimal.Decimal
}

// NewSettingsService uses seedRate as the exchange rate when no settings row exists.
func NewSettingsService(repo settings.SettingsRepository, converter *currency.Converter, seedRate decimal.Decimal) settings.SettingsService {
	if !seedRate.IsPositive() {
		seedRate = currency.DefaultUSDToPKR
	}
	return &SettingsServiceImpl{
		repo:      repo,
		converter: converter,
		seedRate:  seedRate,
	}
}

func (s *SettingsServiceImpl) defaults() settings.Settings {
	return settings.Settings{
		USDToPKRRate:           s.seedRate,
		PMCommissionPercentage: decimal.Zero,
		TeamLeadBonusAmount:    decimal.Zero,
		BidderBonusAmount:      decimal.Zero,
	}
}

func (s *SettingsServiceImpl) Current(ctx context.Context) (settings.Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			return s.defaults(), nil
		}
		return settings.Settings{}, err
	}
	return stored, nil
}

func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return toSettingsResponse(current), nil
}

func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	if req.USDToPKRRate != nil {
		current.USDToPKRRate = *req.USDToPKRRate
	}
	if req.PMCommissionPercentage != nil {
		current.PMCommissionPercentage = *req.PMCommissionPercentage
	}
	if req.TeamLeadBonusAmount != nil {
		current.TeamLeadBonusAmount = *req.TeamLeadBonusAmount
	}
	if req.BidderBonusAmount != nil {
		current.BidderBonusAmount = *req.BidderBonusAmount
	}
	if claims, err := jwt.ClaimsFromContext(ctx); err == nil {
		actor := claims.Email
		if actor == "" {
			actor = claims.UserID
		}
		current.LastUpdatedBy = &actor
	}

	saved, err := s.repo.Upsert(ctx, current)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	if err := s.converter.SetRate(saved.USDToPKRRate); err != nil {
		return settings.SettingsResponse{}, err
	}
	slog.Info("Settings updated", "usd_to_pkr_rate", saved.USDToPKRRate.String())

	return toSettingsResponse(saved), nil
}

func (s *SettingsServiceImpl) SyncRate(ctx context.Context) error {
	current, err := s.Current(ctx)
	if err != nil {
		return err
	}
	if current.USDToPKRRate.Equal(s.converter.Rate()) {
		return nil
	}
	if err := s.converter.SetRate(current.USDToPKRRate); err != nil {
		return err
	}
	slog.Info("Exchange rate synced", "usd_to_pkr_rate", current.USDToPKRRate.String())
	return nil
}

func toSettingsResponse(s settings.Settings) settings.SettingsResponse {
	resp := settings.SettingsResponse{
		USDToPKRRate:           s.USDToPKRRate,
		PMCommissionPercentage: s.PMCommissionPercentage,
		TeamLeadBonusAmount:    s.TeamLeadBonusAmount,
		BidderBonusAmount:      s.BidderBonusAmount,
		LastUpdatedBy:          s.LastUpdatedBy,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
