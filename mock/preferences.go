package mock

import (
	"context"

	"github.com/fwojciec/pagemd"
)

var _ pagemd.PreferenceService = (*PreferenceService)(nil)

// PreferenceService is a mock implementation of pagemd.PreferenceService.
type PreferenceService struct {
	FindPreferencesFn   func(ctx context.Context) (*pagemd.Preferences, error)
	UpdatePreferencesFn func(ctx context.Context, upd pagemd.PreferencesUpdate) (*pagemd.Preferences, error)
}

func (s *PreferenceService) FindPreferences(ctx context.Context) (*pagemd.Preferences, error) {
	return s.FindPreferencesFn(ctx)
}

func (s *PreferenceService) UpdatePreferences(ctx context.Context, upd pagemd.PreferencesUpdate) (*pagemd.Preferences, error) {
	return s.UpdatePreferencesFn(ctx, upd)
}
