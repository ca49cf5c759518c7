package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carelist/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/carelist/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("storage.backend", "file")
	_ = store.Set("storage.data_dir", "/tmp/carelist")
	_ = store.Set("storage.key", "clinic")

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StorageBackendFile, settings.Storage.Backend)
	assert.Equal(t, "/tmp/carelist", settings.Storage.DataDir)
	assert.Equal(t, "clinic", settings.Storage.Key)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("storage.backend", "redis")
	_ = store.Set("storage.key", 42)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StorageBackendSQLite, settings.Storage.Backend)
	assert.Equal(t, "services", settings.Storage.Key)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	want := domain.AppSettings{Storage: domain.StorageSettings{
		Backend: domain.StorageBackendMemory,
		DataDir: "/data",
		Key:     "svc",
	}}

	require.NoError(t, service.Save(&want))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, want, *got)
	assert.Equal(t, "memory", store.GetString("storage.backend"))
}

func TestSettingsService_Save_Nil(t *testing.T) {
	err := NewSettingsService(memory.NewConfigStore()).Save(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_SetStorageBackend(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.SetStorageBackend(domain.StorageBackendFile))
	settings, _ := service.Get()
	assert.Equal(t, domain.StorageBackendFile, settings.Storage.Backend)

	err := service.SetStorageBackend("redis")
	assert.ErrorIs(t, err, domain.ErrUnsupportedBackend)
}

func TestSettingsService_SetDataDirAndKey(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.SetDataDir("  /srv/carelist "))
	require.NoError(t, service.SetStorageKey("clinic"))

	settings, _ := service.Get()
	assert.Equal(t, "/srv/carelist", settings.Storage.DataDir)
	assert.Equal(t, "clinic", settings.Storage.Key)

	assert.ErrorIs(t, service.SetStorageKey("   "), domain.ErrInvalidInput)
}

func TestSettingsService_Reset(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.SetStorageBackend(domain.StorageBackendMemory))

	require.NoError(t, service.Reset())

	settings, _ := service.Get()
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	_, ok := store.Get("storage.backend")
	assert.False(t, ok)
}

// TestSettingsService_Validate tests checks against raw stored values
func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr error
	}{
		{name: "empty config", values: nil},
		{name: "valid backend", values: map[string]any{"storage.backend": "file"}},
		{name: "unknown backend", values: map[string]any{"storage.backend": "redis"}, wantErr: domain.ErrUnsupportedBackend},
		{name: "blank key", values: map[string]any{"storage.key": " "}, wantErr: domain.ErrInvalidInput},
		{name: "non string key", values: map[string]any{"storage.key": 3}, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			for k, v := range tt.values {
				_ = store.Set(k, v)
			}

			err := NewSettingsService(store).Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type failingConfigStore struct {
	*memory.ConfigStore
}

func (f failingConfigStore) Set(string, any) error { return errors.New("disk full") }

func TestSettingsService_Save_PropagatesStoreError(t *testing.T) {
	service := NewSettingsService(failingConfigStore{memory.NewConfigStore()})

	err := service.SetStorageBackend(domain.StorageBackendFile)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save storage backend")
}

func TestSettingsService_NilStore(t *testing.T) {
	service := NewSettingsService(nil)

	_, err := service.Get()
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Validate(), domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Reset(), domain.ErrNotImplemented)
}
