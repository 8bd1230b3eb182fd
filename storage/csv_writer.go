package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/Jrgenl/boliganalyseverktoy/models"
)

// CSVWriter exports a flat summary of normalized listings to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"id", "title", "address", "postal_code", "city", "dwelling_type",
		"asking_price", "total_price", "usable_area_sqm", "bedrooms",
		"build_year", "price_per_sqm", "age", "risks", "highlights",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per listing.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.ID,
			l.Title,
			l.Address,
			l.PostalCode,
			l.City,
			l.DwellingType,
			strconv.Itoa(l.AskingPrice),
			strconv.Itoa(l.TotalPrice),
			strconv.Itoa(l.UsableAreaSqm),
			strconv.Itoa(l.Bedrooms),
			strconv.Itoa(l.BuildYear),
			strconv.Itoa(l.PricePerSqm),
			strconv.Itoa(l.Age),
			strconv.Itoa(len(l.Risks)),
			strconv.Itoa(len(l.Highlights)),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
