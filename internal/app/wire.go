package app

import (
	"errors"
	"fmt"
	"path/filepath"

	configfile "github.com/custodia-labs/carelist/internal/adapters/driven/config/file"
	"github.com/custodia-labs/carelist/internal/adapters/driven/ids"
	"github.com/custodia-labs/carelist/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/carelist/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/carelist/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/carelist/internal/adapters/driven/watch"
	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driven"
	"github.com/custodia-labs/carelist/internal/core/services"
	"github.com/custodia-labs/carelist/internal/logger"
)

// Wire bundles the stores and services commands use.
type Wire struct {
	Config    driven.ConfigStore
	Settings  *services.SettingsService
	Session   *services.SessionService
	Catalogue *services.CatalogueService

	// Storage is the resolved storage configuration in use.
	Storage domain.StorageSettings

	// SlotPath is the file holding the slot. Empty for memory storage.
	SlotPath string

	watchFiles []string
	closers    []func() error
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if cfg.Backend != "" && !cfg.Backend.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, cfg.Backend)
	}

	configStore := cfg.ConfigStore
	if configStore == nil {
		store, err := configfile.NewConfigStore(cfg.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		configStore = store
	}

	settingsSvc := services.NewSettingsService(configStore)
	stored, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	storage := ResolveStorage(stored.Storage, cfg)

	w := &Wire{
		Config:   configStore,
		Settings: settingsSvc,
		Storage:  storage,
	}

	kv, err := w.openKeyValueStore(storage)
	if err != nil {
		return nil, err
	}

	idGen := cfg.IDs
	if idGen == nil {
		idGen = ids.UUID{}
	}

	w.Catalogue = services.NewCatalogueService(kv, idGen, storage.Key)
	w.closers = append(w.closers, func() error {
		w.Catalogue.Close()
		return nil
	})
	w.Session = services.NewSessionService(services.NewRegistrationService())

	logger.Debug("Wired %s storage (data dir %q, key %q)", storage.Backend, storage.DataDir, storage.Key)
	return w, nil
}

// openKeyValueStore opens the slot backend named by storage.
func (w *Wire) openKeyValueStore(storage domain.StorageSettings) (driven.KeyValueStore, error) {
	switch storage.Backend {
	case domain.StorageBackendMemory:
		return memory.NewKeyValueStore(), nil

	case domain.StorageBackendFile:
		kv, err := file.NewKeyValueStore(storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening file storage: %w", err)
		}
		w.SlotPath = kv.Path()
		w.watchFiles = []string{filepath.Base(kv.Path())}
		return kv, nil

	case domain.StorageBackendSQLite:
		store, err := sqlite.NewStore(storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		w.closers = append(w.closers, store.Close)
		w.SlotPath = store.Path()
		base := filepath.Base(store.Path())
		w.watchFiles = []string{base, base + "-wal"}
		return store.KeyValueStore(), nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, storage.Backend)
	}
}

// WatchStorage reports writes to the slot file made by any process.
// Returns a nil channel for memory storage. The watcher stops on Close.
func (w *Wire) WatchStorage() (<-chan struct{}, error) {
	if w.SlotPath == "" {
		return nil, nil
	}

	watcher, err := watch.New(watch.Config{
		Dir:   filepath.Dir(w.SlotPath),
		Files: w.watchFiles,
	})
	if err != nil {
		return nil, err
	}
	changes, err := watcher.Start()
	if err != nil {
		_ = watcher.Stop()
		return nil, err
	}
	w.closers = append(w.closers, watcher.Stop)
	return changes, nil
}

// Close releases everything the wire opened, newest first.
func (w *Wire) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	w.closers = nil
	return errors.Join(errs...)
}
