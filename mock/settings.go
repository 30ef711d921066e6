package mock

import "github.com/fwojciec/pagebrief"

var _ pagebrief.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of pagebrief.SettingsService.
type SettingsService struct {
	LoadSettingsFn func() (*pagebrief.Settings, error)
	SaveSettingsFn func(s *pagebrief.Settings) error
}

func (s *SettingsService) LoadSettings() (*pagebrief.Settings, error) {
	return s.LoadSettingsFn()
}

func (s *SettingsService) SaveSettings(settings *pagebrief.Settings) error {
	return s.SaveSettingsFn(settings)
}
