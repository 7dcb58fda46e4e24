package folio

import (
	"context"
	"fmt"

	"github.com/xraph/folio/settings"
)

// Settings returns the saved settings, or the defaults if none were saved.
func (f *Folio) Settings(ctx context.Context) (*settings.Settings, error) {
	return f.store.GetSettings(ctx)
}

// SaveSettings validates s and overwrites the saved settings with it.
func (f *Folio) SaveSettings(ctx context.Context, s settings.Settings) (*settings.Settings, error) {
	s.Normalize()
	if err := validateSettings(&s); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.store.SaveSettings(ctx, &s); err != nil {
		return nil, fmt.Errorf("folio: save settings: %w", err)
	}

	f.logger.Info("settings saved",
		"company", s.CompanyName,
		"currency", s.DefaultCurrency,
	)
	f.plugins.EmitSettingsSaved(ctx, &s)

	return &s, nil
}
