package settings

import "context"

type SettingsService interface {
	// GetSettings returns stored settings, or defaults when none are stored.
	GetSettings(ctx context.Context) (SettingsResponse, error)
	// Current is GetSettings in entity form, for other services.
	Current(ctx context.Context) (Settings, error)
	// UpdateSettings persists the change and pushes a new rate into the converter.
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)
	// SyncRate reloads the stored rate into the converter.
	SyncRate(ctx context.Context) error
}
