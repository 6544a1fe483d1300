package ports

import "go.trai.ch/quick/internal/core/domain"

// SettingsLoader defines the interface for loading invocation settings.
//
//go:generate mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Load resolves settings for the given working directory from files and the environment.
	Load(cwd string) (domain.Settings, error)
}
