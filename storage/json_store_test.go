package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Jrgenl/boliganalyseverktoy/models"
)

func TestJSONStoreSaveLoad(t *testing.T) {
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	l := &models.Listing{
		ID:          "398290726",
		Title:       "Bright apartment",
		AskingPrice: 4500000,
		Risks: []models.RiskItem{
			{Category: "moisture", Keyword: "moisture damage", Context: "some moisture damage", Severity: models.SeverityHigh},
		},
	}
	if err := store.Save(l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load("398290726")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Title != l.Title || got.AskingPrice != l.AskingPrice {
		t.Errorf("loaded listing differs: %+v", got)
	}
	if len(got.Risks) != 1 || got.Risks[0].Severity != models.SeverityHigh {
		t.Errorf("risks not round-tripped: %+v", got.Risks)
	}
}

func TestJSONStoreSaveWithoutID(t *testing.T) {
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	if err := store.Save(&models.Listing{}); err == nil {
		t.Error("expected an error for a listing without an id")
	}
}

func TestJSONStoreLoadMissing(t *testing.T) {
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	if _, err := store.Load("nope"); err == nil {
		t.Error("expected an error for a missing listing")
	}
}

func TestJSONStoreLoadAllSkipsCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONStore(dir)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}

	for _, id := range []string{"1", "2", "3"} {
		if err := store.Save(&models.Listing{ID: id}); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "listing_broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	listings, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(listings) != 3 {
		t.Errorf("LoadAll: got %d listings, want 3 (corrupt file skipped)", len(listings))
	}
}
