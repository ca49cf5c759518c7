package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/core/ports/driven"
	"github.com/custodia-labs/carelist/internal/core/ports/driving"
	"github.com/custodia-labs/carelist/internal/logger"
	"github.com/custodia-labs/carelist/internal/pubsub"
)

// Ensure CatalogueService implements the interface.
var _ driving.ServiceCatalogue = (*CatalogueService)(nil)

// maxIDAttempts bounds retries when the generator returns an ID already in use.
const maxIDAttempts = 8

// CatalogueService holds the ordered service list and the editing slot,
// writing the whole list to a key-value slot after every mutation.
type CatalogueService struct {
	store driven.KeyValueStore
	ids   driven.IDGenerator
	key   string

	mu      sync.Mutex
	list    []domain.Service
	editing *domain.Service

	events *pubsub.Broker[domain.Service]
}

// NewCatalogueService creates a catalogue persisted under key in store.
// An empty key uses domain.DefaultStorageKey.
func NewCatalogueService(store driven.KeyValueStore, ids driven.IDGenerator, key string) *CatalogueService {
	if key == "" {
		key = domain.DefaultStorageKey
	}
	return &CatalogueService{
		store:  store,
		ids:    ids,
		key:    key,
		events: pubsub.NewBroker[domain.Service](),
	}
}

// Key returns the slot key the list is stored under.
func (s *CatalogueService) Key() string {
	return s.key
}

// Load replaces the in-memory list with the persisted one.
func (s *CatalogueService) Load(ctx context.Context) (domain.LoadResult, error) {
	if s.store == nil {
		return domain.LoadResult{}, domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Catalogue Load")
	s.editing = nil
	s.list = nil

	blob, err := s.store.Get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("Slot %q empty, starting with no services", s.key)
		s.events.Publish(pubsub.LoadedEvent, domain.Service{})
		return domain.LoadResult{}, nil
	}
	if err != nil {
		return domain.LoadResult{}, fmt.Errorf("read slot %q: %w", s.key, err)
	}

	list, discarded, err := decodeServices(blob)
	if err != nil {
		logger.Warn("Slot %q unreadable, starting with no services: %v", s.key, err)
		s.events.Publish(pubsub.LoadedEvent, domain.Service{})
		return domain.LoadResult{Found: true}, err
	}
	if discarded > 0 {
		logger.Warn("Discarded %d malformed service record(s) from slot %q", discarded, s.key)
	}

	s.list = list
	logger.Debug("Loaded %d service(s) from slot %q", len(list), s.key)
	s.events.Publish(pubsub.LoadedEvent, domain.Service{})
	return domain.LoadResult{Count: len(list), Discarded: discarded, Found: true}, nil
}

// List returns a copy of all services in insertion order.
func (s *CatalogueService) List() []domain.Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Service, len(s.list))
	copy(out, s.list)
	return out
}

// Get returns a copy of the service with the given ID.
func (s *CatalogueService) Get(id string) (*domain.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		svc := s.list[i]
		return &svc, nil
	}
	return nil, domain.ErrNotFound
}

// Add appends a new service built from a complete draft.
// An incomplete draft is ignored and (nil, nil) is returned.
func (s *CatalogueService) Add(ctx context.Context, draft domain.ServiceDraft) (*domain.Service, error) {
	if !draft.Complete() {
		return nil, nil
	}
	if s.store == nil || s.ids == nil {
		return nil, domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newIDLocked()
	if err != nil {
		return nil, err
	}

	svc := domain.Service{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
	}
	s.list = append(s.list, svc)
	s.events.Publish(pubsub.CreatedEvent, svc)
	logger.Debug("Added service %s (%q)", svc.ID, svc.Name)

	return &svc, s.persistLocked(ctx)
}

// BeginEdit copies the service into the editing slot.
func (s *CatalogueService) BeginEdit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	working := s.list[i]
	s.editing = &working
	return true
}

// Editing returns the working copy, if any.
func (s *CatalogueService) Editing() (domain.Service, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return domain.Service{}, false
	}
	return *s.editing, true
}

// EditField updates one field of the working copy.
func (s *CatalogueService) EditField(field domain.ServiceField, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil || !field.IsValid() {
		return false
	}
	s.editing.Set(field, value)
	return true
}

// CommitEdit replaces the matching list entry with the working copy and
// clears the slot. Returns (nil, nil) when nothing is being edited.
func (s *CatalogueService) CommitEdit(ctx context.Context) (*domain.Service, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return nil, nil
	}
	svc := *s.editing
	s.editing = nil

	if i := s.indexLocked(svc.ID); i >= 0 {
		s.list[i] = svc
	}
	s.events.Publish(pubsub.UpdatedEvent, svc)
	logger.Debug("Updated service %s", svc.ID)

	return &svc, s.persistLocked(ctx)
}

// CancelEdit discards the working copy.
func (s *CatalogueService) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

// Delete removes the service with the given ID and persists the list.
// Deleting the service being edited also clears the editing slot.
func (s *CatalogueService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := domain.Service{ID: id}
	kept := s.list[:0:0]
	for _, svc := range s.list {
		if svc.ID == id {
			removed = svc
			continue
		}
		kept = append(kept, svc)
	}
	s.list = kept

	if s.editing != nil && s.editing.ID == id {
		s.editing = nil
	}
	s.events.Publish(pubsub.DeletedEvent, removed)
	logger.Debug("Deleted service %s", id)

	return s.persistLocked(ctx)
}

// Subscribe returns a channel of state-change events.
func (s *CatalogueService) Subscribe(ctx context.Context) <-chan pubsub.Event[domain.Service] {
	return s.events.Subscribe(ctx)
}

// Close stops event delivery and closes all subscriber channels.
func (s *CatalogueService) Close() {
	s.events.Close()
}

func (s *CatalogueService) indexLocked(id string) int {
	for i := range s.list {
		if s.list[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CatalogueService) newIDLocked() (string, error) {
	for range maxIDAttempts {
		id := s.ids.NewID()
		if id != "" && s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("generate service id: %w", domain.ErrInvalidInput)
}

// persistLocked writes the full list. On failure the in-memory list is
// left as it is, so storage can only lag behind memory.
func (s *CatalogueService) persistLocked(ctx context.Context) error {
	blob, err := encodeServices(s.list)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPersist, err)
	}
	if err := s.store.Set(ctx, s.key, blob); err != nil {
		logger.Error("Failed to persist services to slot %q: %v", s.key, err)
		return fmt.Errorf("%w: write slot %q: %w", domain.ErrPersist, s.key, err)
	}
	return nil
}
