package domain

const unknownDescription = "Unknown"

// DefaultStorageKey is the slot key the service list is stored under.
const DefaultStorageKey = "services"

// StorageBackend selects where the service list slot lives.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendSQLite stores the slot in a local SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendFile stores the slot in a JSON file.
	StorageBackendFile StorageBackend = "file"

	// StorageBackendMemory keeps the slot in memory for the lifetime of the process.
	StorageBackendMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendSQLite, StorageBackendFile, StorageBackendMemory:
		return true
	default:
		return false
	}
}

// IsDurable returns true if the backend survives a restart.
func (b StorageBackend) IsDurable() bool {
	return b == StorageBackendSQLite || b == StorageBackendFile
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageBackendSQLite:
		return "SQLite (local database)"
	case StorageBackendFile:
		return "File (JSON document)"
	case StorageBackendMemory:
		return "Memory (not persisted)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{
		StorageBackendSQLite,
		StorageBackendFile,
		StorageBackendMemory,
	}
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Backend selects the slot implementation.
	Backend StorageBackend

	// DataDir is where durable backends keep their files.
	// Empty means ~/.carelist/data.
	DataDir string

	// Key is the slot key for the service list.
	Key string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Storage holds persistence settings.
	Storage StorageSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
			Key:     DefaultStorageKey,
		},
	}
}
