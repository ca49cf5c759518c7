package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carelist/internal/core/domain"
)

func addService(t *testing.T, ts *testServices, name, description, price string) *domain.Service {
	t.Helper()
	svc, err := ts.catalogue.Add(context.Background(), domain.ServiceDraft{
		Name:        name,
		Description: description,
		Price:       price,
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	return svc
}

func TestServicesList_Empty(t *testing.T) {
	newTestServices(t).install(t)

	out, _, err := execute(t, "", "services", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No services yet")
}

func TestServicesList_ShowsServices(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	addService(t, ts, "Checkup", "General consultation", "40")
	addService(t, ts, "X-ray", "Imaging", "120")

	out, _, err := execute(t, "", "services")

	require.NoError(t, err)
	assert.Contains(t, out, "Services (2)")
	assert.Contains(t, out, "1. Checkup  $40")
	assert.Contains(t, out, "General consultation")
	assert.Contains(t, out, "2. X-ray  $120")
	assert.Contains(t, out, "ID: svc-2")
}

func TestServicesList_JSON(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	addService(t, ts, "Checkup", "General", "40")

	out, _, err := execute(t, "", "services", "list", "--json")
	require.NoError(t, err)

	var got []domain.Service
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, domain.Service{ID: "svc-1", Name: "Checkup", Description: "General", Price: "40"}, got[0])
}

func TestServicesList_EmptyJSONIsArray(t *testing.T) {
	newTestServices(t).install(t)

	out, _, err := execute(t, "", "services", "list", "--json")

	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestServicesList_CorruptSlotWarns(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	require.NoError(t, ts.kv.Set(context.Background(), domain.DefaultStorageKey, "not json"))

	out, errOut, err := execute(t, "", "services", "list")

	require.NoError(t, err)
	assert.Contains(t, errOut, "unreadable")
	assert.Contains(t, out, "No services yet")
}

func TestServicesList_DiscardedRecordsWarn(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	blob := `[{"id":"1","name":"a","description":"b","price":"1"},{"id":"2"}]`
	require.NoError(t, ts.kv.Set(context.Background(), domain.DefaultStorageKey, blob))

	out, errOut, err := execute(t, "", "services", "list")

	require.NoError(t, err)
	assert.Contains(t, errOut, "dropped 1 malformed record(s)")
	assert.Contains(t, out, "Services (1)")
}

func TestServicesList_NotConfigured(t *testing.T) {
	newTestServices(t).install(t)
	catalogueService = nil

	_, _, err := execute(t, "", "services", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestServicesAdd(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)

	out, _, err := execute(t, "", "services", "add",
		"--name", "Checkup", "--description", "General", "--price", "40")

	require.NoError(t, err)
	assert.Contains(t, out, "Added Checkup (svc-1)")

	list := ts.catalogue.List()
	require.Len(t, list, 1)
	assert.Equal(t, "40", list[0].Price)

	stored, err := ts.kv.Get(context.Background(), domain.DefaultStorageKey)
	require.NoError(t, err)
	assert.Contains(t, stored, `"name":"Checkup"`)
}

func TestServicesAdd_MissingFields(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)

	_, _, err := execute(t, "", "services", "add", "--name", "Checkup")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.catalogue.List())
}

func TestServicesUpdate_ChangesOnlyGivenFields(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	svc := addService(t, ts, "Checkup", "General", "40")

	out, _, err := execute(t, "", "services", "update", svc.ID, "--price", "45")

	require.NoError(t, err)
	assert.Contains(t, out, "Updated Checkup")

	got, err := ts.catalogue.Get(svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checkup", got.Name)
	assert.Equal(t, "General", got.Description)
	assert.Equal(t, "45", got.Price)

	_, editing := ts.catalogue.Editing()
	assert.False(t, editing)
}

func TestServicesUpdate_AllowsEmptyValue(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	svc := addService(t, ts, "Checkup", "General", "40")

	_, _, err := execute(t, "", "services", "update", svc.ID, "--description", "")

	require.NoError(t, err)
	got, err := ts.catalogue.Get(svc.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Description)
}

func TestServicesUpdate_UnknownID(t *testing.T) {
	newTestServices(t).install(t)

	_, _, err := execute(t, "", "services", "update", "missing", "--name", "x")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServicesUpdate_NoFlags(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	svc := addService(t, ts, "Checkup", "General", "40")

	_, _, err := execute(t, "", "services", "update", svc.ID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServicesUpdate_RequiresID(t *testing.T) {
	newTestServices(t).install(t)

	_, _, err := execute(t, "", "services", "update")

	assert.Error(t, err)
}

func TestServicesDelete(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	first := addService(t, ts, "Checkup", "General", "40")
	second := addService(t, ts, "X-ray", "Imaging", "120")

	out, _, err := execute(t, "", "services", "delete", first.ID)

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted Checkup")

	list := ts.catalogue.List()
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestServicesDelete_UnknownID(t *testing.T) {
	ts := newTestServices(t)
	ts.install(t)
	addService(t, ts, "Checkup", "General", "40")

	_, _, err := execute(t, "", "services", "rm", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, ts.catalogue.List(), 1)
}
