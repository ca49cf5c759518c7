package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driven"
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStorageBackend = "storage.backend"
	keyStorageDataDir = "storage.data_dir"
	keyStorageKey     = "storage.key"
)

// SettingKeys returns every config key the settings service reads.
func SettingKeys() []string {
	return []string{keyStorageBackend, keyStorageDataDir, keyStorageKey}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or unrecognised values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir), // empty means the default location
			Key:     s.getString(keyStorageKey, defaults.Storage.Key),
		},
	}, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if settings == nil {
		return domain.ErrInvalidInput
	}

	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save storage data_dir: %w", err)
	}
	if err := s.configStore.Set(keyStorageKey, settings.Storage.Key); err != nil {
		return fmt.Errorf("save storage key: %w", err)
	}
	return nil
}

// SetStorageBackend updates the storage backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, backend)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.Backend = backend
	return s.Save(settings)
}

// SetDataDir updates the directory durable backends write to.
func (s *SettingsService) SetDataDir(dir string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.DataDir = strings.TrimSpace(dir)
	return s.Save(settings)
}

// SetStorageKey updates the slot key the service list is stored under.
func (s *SettingsService) SetStorageKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: storage key must not be empty", domain.ErrInvalidInput)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.Key = key
	return s.Save(settings)
}

// Reset removes all stored settings so defaults apply.
func (s *SettingsService) Reset() error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	for _, key := range SettingKeys() {
		if err := s.configStore.Unset(key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

// Validate checks the stored values, not the defaulted ones, so a typo in
// the config file is reported rather than silently ignored.
func (s *SettingsService) Validate() error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if raw := s.configStore.GetString(keyStorageBackend); raw != "" {
		if !domain.StorageBackend(raw).IsValid() {
			return fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, raw)
		}
	}
	if raw, ok := s.configStore.Get(keyStorageKey); ok {
		if str, isString := raw.(string); !isString || strings.TrimSpace(str) == "" {
			return fmt.Errorf("%w: storage key must be a non-empty string", domain.ErrInvalidInput)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
