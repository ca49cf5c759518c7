package app

import (
	"context"
	"fmt"
	"os"
	"testing"

	"pgregory.net/rapid"

	"github.com/custodia-labs/carelist/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/carelist/internal/core/domain"
)

// TestWire_RoundTripProperty reopens durable storage after a random
// sequence of mutations and expects the same list back.
func TestWire_RoundTripProperty(t *testing.T) {
	root := t.TempDir()

	for _, backend := range []domain.StorageBackend{domain.StorageBackendFile, domain.StorageBackendSQLite} {
		t.Run(backend.String(), func(t *testing.T) {
			rapid.Check(t, func(rt *rapid.T) {
				dir, err := os.MkdirTemp(root, "rt")
				if err != nil {
					rt.Fatalf("temp dir: %v", err)
				}
				cfg := Config{ConfigStore: memory.NewConfigStore(), Backend: backend, DataDir: dir}
				ctx := context.Background()

				w, err := NewWire(cfg)
				if err != nil {
					rt.Fatalf("wire: %v", err)
				}
				text := rapid.StringMatching(`[a-zA-Z0-9 "\\é]{1,10}`)
				steps := rapid.IntRange(1, 12).Draw(rt, "steps")
				for i := 0; i < steps; i++ {
					list := w.Catalogue.List()
					switch op := rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("op%d", i)); {
					case op == 0 || len(list) == 0:
						_, err = w.Catalogue.Add(ctx, domain.ServiceDraft{
							Name:        text.Draw(rt, "name"),
							Description: text.Draw(rt, "description"),
							Price:       text.Draw(rt, "price"),
						})
					case op == 1:
						target := list[rapid.IntRange(0, len(list)-1).Draw(rt, "edit")]
						w.Catalogue.BeginEdit(target.ID)
						w.Catalogue.EditField(domain.ServiceFieldName, text.Draw(rt, "newName"))
						_, err = w.Catalogue.CommitEdit(ctx)
					default:
						target := list[rapid.IntRange(0, len(list)-1).Draw(rt, "delete")]
						err = w.Catalogue.Delete(ctx, target.ID)
					}
					if err != nil {
						rt.Fatalf("step %d: %v", i, err)
					}
				}
				want := w.Catalogue.List()
				if err := w.Close(); err != nil {
					rt.Fatalf("close: %v", err)
				}

				reopened, err := NewWire(cfg)
				if err != nil {
					rt.Fatalf("reopen: %v", err)
				}
				defer reopened.Close()
				if _, err := reopened.Catalogue.Load(ctx); err != nil {
					rt.Fatalf("load: %v", err)
				}
				got := reopened.Catalogue.List()
				if len(got) != len(want) {
					rt.Fatalf("reloaded %d services, want %d", len(got), len(want))
				}
				for i := range want {
					if got[i] != want[i] {
						rt.Fatalf("service %d: got %+v, want %+v", i, got[i], want[i])
					}
				}
			})
		})
	}
}
