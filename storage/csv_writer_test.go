package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jrgenl/boliganalyseverktoy/models"
)

func TestCSVWriterExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "listings.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	listings := []*models.Listing{
		{
			ID: "1", Title: "First", City: "Oslo", AskingPrice: 4500000,
			Risks:      []models.RiskItem{{Category: "moisture"}},
			Highlights: []models.HighlightItem{{Category: "kitchen"}, {Category: "location"}},
		},
		{ID: "2", Title: "Second", City: "Bergen", AskingPrice: 3200000},
	}
	if err := w.Write(listings); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want header + 2", len(rows))
	}
	if rows[0][0] != "id" {
		t.Errorf("header: got %q", rows[0][0])
	}
	if rows[1][1] != "First" || rows[1][6] != "4500000" {
		t.Errorf("first row: %v", rows[1])
	}
	if rows[1][13] != "1" || rows[1][14] != "2" {
		t.Errorf("risk/highlight counts: got %q / %q", rows[1][13], rows[1][14])
	}
}
