package app

import (
	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driven"
)

// Config holds runtime wiring options. Empty fields fall back to stored
// settings, then to defaults.
type Config struct {
	// ConfigDir holds config.toml. Empty means ~/.carelist.
	ConfigDir string

	// DataDir overrides storage.data_dir.
	DataDir string

	// Backend overrides storage.backend.
	Backend domain.StorageBackend

	// Key overrides storage.key.
	Key string

	// ConfigStore replaces the TOML file store when set.
	ConfigStore driven.ConfigStore

	// IDs replaces the UUID generator when set.
	IDs driven.IDGenerator
}

// ResolveStorage applies overrides from cfg on top of stored settings.
func ResolveStorage(stored domain.StorageSettings, cfg Config) domain.StorageSettings {
	out := stored
	if cfg.Backend != "" {
		out.Backend = cfg.Backend
	}
	if cfg.DataDir != "" {
		out.DataDir = cfg.DataDir
	}
	if cfg.Key != "" {
		out.Key = cfg.Key
	}
	if out.Backend == "" {
		out.Backend = domain.StorageBackendSQLite
	}
	if out.Key == "" {
		out.Key = domain.DefaultStorageKey
	}
	return out
}
