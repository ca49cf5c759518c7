package driving

import (
	"context"

	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/pubsub"
)

// ServiceCatalogue manages the ordered list of services and its single
// editing slot. Every mutation is written through to persistent storage.
type ServiceCatalogue interface {
	// Load replaces the in-memory list with the persisted one and clears
	// the editing slot. Malformed records are dropped and counted.
	// An unreadable slot yields an empty list and an error wrapping
	// domain.ErrCorruptState.
	Load(ctx context.Context) (domain.LoadResult, error)

	// List returns a copy of all services in insertion order.
	List() []domain.Service

	// Get returns a copy of the service with the given ID.
	Get(id string) (*domain.Service, error)

	// Add appends a new service built from the draft.
	// Returns (nil, nil) when the draft is incomplete.
	Add(ctx context.Context, draft domain.ServiceDraft) (*domain.Service, error)

	// BeginEdit copies the service into the editing slot.
	// Returns false if no service has the ID.
	BeginEdit(id string) bool

	// Editing returns the working copy, if any.
	Editing() (domain.Service, bool)

	// EditField updates one field of the working copy.
	// Returns false if nothing is being edited.
	EditField(field domain.ServiceField, value string) bool

	// CommitEdit writes the working copy back into the list.
	// Returns (nil, nil) when nothing is being edited.
	CommitEdit(ctx context.Context) (*domain.Service, error)

	// CancelEdit discards the working copy.
	CancelEdit()

	// Delete removes the service with the given ID. Unknown IDs leave the
	// list unchanged but the list is still persisted.
	Delete(ctx context.Context, id string) error

	// Subscribe returns a channel of state-change events.
	Subscribe(ctx context.Context) <-chan pubsub.Event[domain.Service]
}
