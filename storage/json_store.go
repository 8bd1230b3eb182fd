package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jrgenl/boliganalyseverktoy/models"
)

// JSONStore persists one pretty-printed JSON file per listing, keyed by the
// listing id. It doubles as the local cache the comparison pool is built
// from.
type JSONStore struct {
	dir string
}

// NewJSONStore creates the data directory if needed and returns a store.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("jsonstore: create data dir: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) path(id string) string {
	return filepath.Join(s.dir, "listing_"+id+".json")
}

// Save writes the listing to its file, replacing any previous version.
func (s *JSONStore) Save(l *models.Listing) error {
	if l.ID == "" {
		return fmt.Errorf("jsonstore: listing has no id")
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: marshal %q: %w", l.ID, err)
	}
	if err := os.WriteFile(s.path(l.ID), data, 0644); err != nil {
		return fmt.Errorf("jsonstore: write %q: %w", l.ID, err)
	}
	return nil
}

// Load reads one listing by id.
func (s *JSONStore) Load(id string) (*models.Listing, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %q: %w", id, err)
	}

	var l models.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("jsonstore: unmarshal %q: %w", id, err)
	}
	return &l, nil
}

// LoadAll reads every stored listing. Unreadable files are skipped so one
// corrupt entry cannot poison the pool.
func (s *JSONStore) LoadAll() ([]*models.Listing, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "listing_*.json"))
	if err != nil {
		return nil, fmt.Errorf("jsonstore: glob: %w", err)
	}

	listings := make([]*models.Listing, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		var l models.Listing
		if err := json.Unmarshal(data, &l); err != nil {
			continue
		}
		listings = append(listings, &l)
	}
	return listings, nil
}
