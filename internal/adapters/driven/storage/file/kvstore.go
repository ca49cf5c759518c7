// Package file provides a key-value slot store kept in a single JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driven"
)

// SlotsFile is the file name of the slot document inside the data directory.
const SlotsFile = "slots.json"

// Ensure KeyValueStore implements the interface.
var _ driven.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStore keeps every slot in one JSON object on disk.
// Each Set rewrites the whole file through a temp file and rename.
type KeyValueStore struct {
	mu   sync.Mutex
	path string
}

// NewKeyValueStore creates a store writing to dataDir/slots.json.
// If dataDir is empty, defaults to ~/.carelist/data.
func NewKeyValueStore(dataDir string) (*KeyValueStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".carelist", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &KeyValueStore{path: filepath.Join(dataDir, SlotsFile)}, nil
}

// Path returns the slot file path.
func (s *KeyValueStore) Path() string {
	return s.path
}

// Get retrieves the value stored under key.
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.read()
	if err != nil {
		return "", err
	}
	val, ok := slots[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return val, nil
}

// Set stores value under key, keeping the other slots.
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.read()
	if err != nil {
		return err
	}
	slots[key] = value
	return s.write(slots)
}

// read loads the slot map. A missing file reads as empty.
func (s *KeyValueStore) read() (map[string]string, error) {
	slots := make(map[string]string)
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return slots, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if err := json.Unmarshal(b, &slots); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if slots == nil {
		slots = make(map[string]string)
	}
	return slots, nil
}

func (s *KeyValueStore) write(slots map[string]string) error {
	b, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding slots: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
