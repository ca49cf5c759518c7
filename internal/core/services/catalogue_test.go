package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/custodia-labs/carelist/internal/adapters/driven/ids"
	"github.com/custodia-labs/carelist/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/carelist/internal/core/domain"
	"github.com/custodia-labs/carelist/internal/pubsub"
)

// mockKeyValueStore wraps an in-memory store and can be told to fail.
type mockKeyValueStore struct {
	*memory.KeyValueStore
	getErr error
	setErr error
	sets   int
}

func newMockKeyValueStore() *mockKeyValueStore {
	return &mockKeyValueStore{KeyValueStore: memory.NewKeyValueStore()}
}

func (m *mockKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.KeyValueStore.Get(ctx, key)
}

func (m *mockKeyValueStore) Set(ctx context.Context, key, value string) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	return m.KeyValueStore.Set(ctx, key, value)
}

func newTestCatalogue(t *testing.T) (*CatalogueService, *mockKeyValueStore) {
	t.Helper()
	store := newMockKeyValueStore()
	svc := NewCatalogueService(store, ids.NewSequence("", 0), "")
	t.Cleanup(svc.Close)
	return svc, store
}

func consult() domain.ServiceDraft {
	return domain.ServiceDraft{Name: "Consult", Description: "General", Price: "50"}
}

func TestNewCatalogueService_DefaultKey(t *testing.T) {
	svc := NewCatalogueService(memory.NewKeyValueStore(), ids.UUID{}, "")
	defer svc.Close()

	assert.Equal(t, "services", svc.Key())
	assert.Empty(t, svc.List())
}

func TestCatalogueService_Add(t *testing.T) {
	svc, store := newTestCatalogue(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, consult())

	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, "1", added.ID)
	assert.Equal(t, []domain.Service{{ID: "1", Name: "Consult", Description: "General", Price: "50"}}, svc.List())

	blob, err := store.KeyValueStore.Get(ctx, "services")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","name":"Consult","description":"General","price":"50"}]`, blob)
}

func TestCatalogueService_Add_IncompleteIsNoop(t *testing.T) {
	svc, store := newTestCatalogue(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, consult())
	require.NoError(t, err)

	added, err := svc.Add(ctx, domain.ServiceDraft{Name: "", Description: "X", Price: "10"})

	assert.NoError(t, err)
	assert.Nil(t, added)
	assert.Len(t, svc.List(), 1)
	assert.Equal(t, 1, store.sets, "no-op must not write")
}

func TestCatalogueService_Add_SkipsCollidingIDs(t *testing.T) {
	store := memory.NewKeyValueStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "services",
		`[{"id":"1","name":"A","description":"B","price":"1"}]`))

	svc := NewCatalogueService(store, ids.NewSequence("", 0), "services")
	defer svc.Close()
	_, err := svc.Load(ctx)
	require.NoError(t, err)

	added, err := svc.Add(ctx, consult())
	require.NoError(t, err)
	assert.Equal(t, "2", added.ID)
}

type constantIDs string

func (c constantIDs) NewID() string { return string(c) }

func TestCatalogueService_Add_GeneratorExhausted(t *testing.T) {
	svc := NewCatalogueService(memory.NewKeyValueStore(), constantIDs("same"), "")
	defer svc.Close()
	ctx := context.Background()

	_, err := svc.Add(ctx, consult())
	require.NoError(t, err)

	_, err = svc.Add(ctx, consult())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, svc.List(), 1)
}

func TestCatalogueService_Get(t *testing.T) {
	svc, _ := newTestCatalogue(t)
	added, err := svc.Add(context.Background(), consult())
	require.NoError(t, err)

	got, err := svc.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, *added, *got)

	// returned value is a copy
	got.Name = "changed"
	again, _ := svc.Get(added.ID)
	assert.Equal(t, "Consult", again.Name)

	_, err = svc.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogueService_EditCommit(t *testing.T) {
	svc, _ := newTestCatalogue(t)
	ctx := context.Background()
	added, err := svc.Add(ctx, consult())
	require.NoError(t, err)

	require.True(t, svc.BeginEdit(added.ID))
	require.True(t, svc.EditField(domain.ServiceFieldPrice, "75"))

	// list untouched until commit
	assert.Equal(t, "50", svc.List()[0].Price)

	committed, err := svc.CommitEdit(ctx)
	require.NoError(t, err)
	require.NotNil(t, committed)

	got := svc.List()[0]
	assert.Equal(t, "75", got.Price)
	assert.Equal(t, "Consult", got.Name)
	assert.Equal(t, "General", got.Description)

	_, editing := svc.Editing()
	assert.False(t, editing)
}

func TestCatalogueService_EditWithoutSlot(t *testing.T) {
	svc, store := newTestCatalogue(t)

	assert.False(t, svc.BeginEdit("missing"))
	assert.False(t, svc.EditField(domain.ServiceFieldName, "x"))

	committed, err := svc.CommitEdit(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, committed)
	assert.Zero(t, store.sets)
}

func TestCatalogueService_EditField_Unknown(t *testing.T) {
	svc, _ := newTestCatalogue(t)
	added, _ := svc.Add(context.Background(), consult())
	require.True(t, svc.BeginEdit(added.ID))

	assert.False(t, svc.EditField(domain.ServiceField("id"), "hijack"))

	working, ok := svc.Editing()
	require.True(t, ok)
	assert.Equal(t, added.ID, working.ID)
}

func TestCatalogueService_CancelEdit(t *testing.T) {
	svc, _ := newTestCatalogue(t)
	added, _ := svc.Add(context.Background(), consult())

	svc.BeginEdit(added.ID)
	svc.EditField(domain.ServiceFieldName, "Other")
	svc.CancelEdit()

	_, ok := svc.Editing()
	assert.False(t, ok)
	assert.Equal(t, "Consult", svc.List()[0].Name)
}

func TestCatalogueService_Delete(t *testing.T) {
	svc, store := newTestCatalogue(t)
	ctx := context.Background()
	first, _ := svc.Add(ctx, consult())
	second, _ := svc.Add(ctx, domain.ServiceDraft{Name: "X", Description: "Y", Price: "1"})

	require.NoError(t, svc.Delete(ctx, first.ID))
	afterFirst := svc.List()
	assert.Equal(t, []domain.Service{*second}, afterFirst)

	// idempotent, and still persisted
	writes := store.sets
	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.Equal(t, afterFirst, svc.List())
	assert.Equal(t, writes+1, store.sets)
}

func TestCatalogueService_Delete_ClearsEditingSlot(t *testing.T) {
	svc, _ := newTestCatalogue(t)
	ctx := context.Background()
	a, _ := svc.Add(ctx, consult())
	b, _ := svc.Add(ctx, consult())

	svc.BeginEdit(b.ID)
	require.NoError(t, svc.Delete(ctx, a.ID))
	_, ok := svc.Editing()
	assert.True(t, ok, "deleting another record keeps the slot")

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, ok = svc.Editing()
	assert.False(t, ok)
}

func TestCatalogueService_ReloadReflectsMutations(t *testing.T) {
	store := memory.NewKeyValueStore()
	ctx := context.Background()

	svc := NewCatalogueService(store, ids.NewSequence("", 0), "")
	defer svc.Close()
	added, err := svc.Add(ctx, consult())
	require.NoError(t, err)

	reloaded := NewCatalogueService(store, ids.NewSequence("", 100), "")
	defer reloaded.Close()
	res, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.LoadResult{Count: 1, Found: true}, res)
	assert.Equal(t, svc.List(), reloaded.List())

	require.NoError(t, svc.Delete(ctx, added.ID))
	_, err = reloaded.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, reloaded.List())
}

func TestCatalogueService_Load_Empty(t *testing.T) {
	svc, _ := newTestCatalogue(t)

	res, err := svc.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, svc.List())
}

func TestCatalogueService_Load_Corrupt(t *testing.T) {
	svc, store := newTestCatalogue(t)
	ctx := context.Background()
	_, _ = svc.Add(ctx, consult())
	require.NoError(t, store.KeyValueStore.Set(ctx, "services", "{not json"))

	res, err := svc.Load(ctx)

	assert.ErrorIs(t, err, domain.ErrCorruptState)
	assert.True(t, res.Found)
	assert.Empty(t, svc.List())
}

func TestCatalogueService_Load_Quarantine(t *testing.T) {
	svc, store := newTestCatalogue(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "services",
		`[{"id":1,"name":"A","description":"B","price":2},{"id":"x"}]`))

	res, err := svc.Load(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, res.Discarded)
	assert.Equal(t, []domain.Service{{ID: "1", Name: "A", Description: "B", Price: "2"}}, svc.List())
}

func TestCatalogueService_Load_ClearsEditingSlot(t *testing.T) {
	svc, _ := newTestCatalogue(t)
	ctx := context.Background()
	added, _ := svc.Add(ctx, consult())
	svc.BeginEdit(added.ID)

	_, err := svc.Load(ctx)
	require.NoError(t, err)

	_, ok := svc.Editing()
	assert.False(t, ok)
}

func TestCatalogueService_Load_ReadError(t *testing.T) {
	svc, store := newTestCatalogue(t)
	store.getErr = errors.New("disk gone")

	_, err := svc.Load(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorruptState)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestCatalogueService_PersistFailureKeepsMutation(t *testing.T) {
	svc, store := newTestCatalogue(t)
	store.setErr = errors.New("read-only")
	ctx := context.Background()

	added, err := svc.Add(ctx, consult())

	assert.ErrorIs(t, err, domain.ErrPersist)
	require.NotNil(t, added)
	assert.Len(t, svc.List(), 1)
	_, getErr := store.KeyValueStore.Get(ctx, "services")
	assert.ErrorIs(t, getErr, domain.ErrNotFound)

	err = svc.Delete(ctx, added.ID)
	assert.ErrorIs(t, err, domain.ErrPersist)
	assert.Empty(t, svc.List())
}

func TestCatalogueService_NilCollaborators(t *testing.T) {
	svc := NewCatalogueService(nil, nil, "")
	defer svc.Close()
	ctx := context.Background()

	_, err := svc.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.Add(ctx, consult())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, svc.Delete(ctx, "1"), domain.ErrNotImplemented)
	_, err = svc.CommitEdit(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestCatalogueService_PublishesEvents(t *testing.T) {
	svc, _ := newTestCatalogue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Subscribe(ctx)

	added, _ := svc.Add(ctx, consult())
	svc.BeginEdit(added.ID)
	_, _ = svc.CommitEdit(ctx)
	_ = svc.Delete(ctx, added.ID)
	_, _ = svc.Load(ctx)

	want := []pubsub.EventType{pubsub.CreatedEvent, pubsub.UpdatedEvent, pubsub.DeletedEvent, pubsub.LoadedEvent}
	for _, typ := range want {
		select {
		case ev := <-events:
			assert.Equal(t, typ, ev.Type)
			if typ != pubsub.LoadedEvent {
				assert.Equal(t, added.ID, ev.Payload.ID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout waiting for %s", typ)
		}
	}
}

// TestCatalogueService_RoundTrip checks that any sequence of adds, edits and
// deletes reloads to the same list from storage.
func TestCatalogueService_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := memory.NewKeyValueStore()
		svc := NewCatalogueService(store, ids.NewSequence("svc-", 0), "")
		defer svc.Close()
		ctx := context.Background()

		text := rapid.StringMatching(`[ -~]{0,12}`)
		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			list := svc.List()
			switch op := rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("op%d", i)); {
			case op == 0 || len(list) == 0:
				_, err := svc.Add(ctx, domain.ServiceDraft{
					Name:        text.Draw(t, "name"),
					Description: text.Draw(t, "description"),
					Price:       text.Draw(t, "price"),
				})
				if err != nil {
					t.Fatalf("add: %v", err)
				}
			case op == 1:
				target := list[rapid.IntRange(0, len(list)-1).Draw(t, "edit")]
				svc.BeginEdit(target.ID)
				svc.EditField(domain.ServiceFieldPrice, text.Draw(t, "newPrice"))
				if _, err := svc.CommitEdit(ctx); err != nil {
					t.Fatalf("commit: %v", err)
				}
			default:
				target := list[rapid.IntRange(0, len(list)-1).Draw(t, "delete")]
				if err := svc.Delete(ctx, target.ID); err != nil {
					t.Fatalf("delete: %v", err)
				}
			}
		}

		reloaded := NewCatalogueService(store, ids.UUID{}, "")
		defer reloaded.Close()
		if _, err := reloaded.Load(ctx); err != nil {
			t.Fatalf("load: %v", err)
		}
		if got, want := reloaded.List(), svc.List(); !equalServices(got, want) {
			t.Fatalf("reloaded %v, want %v", got, want)
		}
	})
}

func equalServices(a, b []domain.Service) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
