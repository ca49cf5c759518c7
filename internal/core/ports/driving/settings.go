package driving

import "github.com/custodia-labs/carelist/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults filled in.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetStorageBackend updates the storage backend.
	SetStorageBackend(backend domain.StorageBackend) error

	// SetDataDir updates the directory durable backends write to.
	SetDataDir(dir string) error

	// SetStorageKey updates the slot key the service list is stored under.
	SetStorageKey(key string) error

	// Reset removes all stored settings so defaults apply.
	Reset() error

	// Validate checks the stored settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
