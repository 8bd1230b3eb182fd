package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/Jrgenl/boliganalyseverktoy/models"
)

// PostgresWriter persists analyzed listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id                  TEXT PRIMARY KEY,
			url                 TEXT NOT NULL DEFAULT '',
			title               TEXT NOT NULL DEFAULT '',
			description         TEXT NOT NULL DEFAULT '',
			address             TEXT NOT NULL DEFAULT '',
			postal_code         VARCHAR(10) NOT NULL DEFAULT '',
			city                TEXT NOT NULL DEFAULT '',
			asking_price        BIGINT NOT NULL DEFAULT 0,
			total_price         BIGINT NOT NULL DEFAULT 0,
			closing_costs       BIGINT NOT NULL DEFAULT 0,
			shared_debt_monthly BIGINT NOT NULL DEFAULT 0,
			tax_value           BIGINT NOT NULL DEFAULT 0,
			dwelling_type       TEXT NOT NULL DEFAULT '',
			ownership_form      TEXT NOT NULL DEFAULT '',
			bedrooms            INT NOT NULL DEFAULT 0,
			primary_area_sqm    INT NOT NULL DEFAULT 0,
			usable_area_sqm     INT NOT NULL DEFAULT 0,
			lot_area_sqm        INT NOT NULL DEFAULT 0,
			build_year          INT NOT NULL DEFAULT 0,
			floor               TEXT NOT NULL DEFAULT '',
			amenities           JSONB NOT NULL DEFAULT '[]',
			images              JSONB NOT NULL DEFAULT '[]',
			broker_name         TEXT NOT NULL DEFAULT '',
			broker_firm         TEXT NOT NULL DEFAULT '',
			broker_phone        TEXT NOT NULL DEFAULT '',
			price_per_sqm       INT NOT NULL DEFAULT 0,
			age                 INT NOT NULL DEFAULT 0,
			risks               JSONB NOT NULL DEFAULT '[]',
			highlights          JSONB NOT NULL DEFAULT '[]',
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_postal_code   ON listings(postal_code);
		CREATE INDEX IF NOT EXISTS idx_listings_dwelling_type ON listings(dwelling_type);
		CREATE INDEX IF NOT EXISTS idx_listings_asking_price  ON listings(asking_price);
	`)
	return err
}

// Write upserts the listings one statement per row; a re-analyzed listing
// replaces its previous version.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	stmt, err := pw.db.Prepare(`
		INSERT INTO listings (
			id, url, title, description, address, postal_code, city,
			asking_price, total_price, closing_costs, shared_debt_monthly, tax_value,
			dwelling_type, ownership_form, bedrooms, primary_area_sqm, usable_area_sqm,
			lot_area_sqm, build_year, floor, amenities, images,
			broker_name, broker_firm, broker_phone, price_per_sqm, age, risks, highlights
		) VALUES (` + placeholders(29) + `)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url, title = EXCLUDED.title, description = EXCLUDED.description,
			address = EXCLUDED.address, postal_code = EXCLUDED.postal_code, city = EXCLUDED.city,
			asking_price = EXCLUDED.asking_price, total_price = EXCLUDED.total_price,
			closing_costs = EXCLUDED.closing_costs, shared_debt_monthly = EXCLUDED.shared_debt_monthly,
			tax_value = EXCLUDED.tax_value, dwelling_type = EXCLUDED.dwelling_type,
			ownership_form = EXCLUDED.ownership_form, bedrooms = EXCLUDED.bedrooms,
			primary_area_sqm = EXCLUDED.primary_area_sqm, usable_area_sqm = EXCLUDED.usable_area_sqm,
			lot_area_sqm = EXCLUDED.lot_area_sqm, build_year = EXCLUDED.build_year,
			floor = EXCLUDED.floor, amenities = EXCLUDED.amenities, images = EXCLUDED.images,
			broker_name = EXCLUDED.broker_name, broker_firm = EXCLUDED.broker_firm,
			broker_phone = EXCLUDED.broker_phone, price_per_sqm = EXCLUDED.price_per_sqm,
			age = EXCLUDED.age, risks = EXCLUDED.risks, highlights = EXCLUDED.highlights,
			updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("postgres: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		if l.ID == "" {
			continue
		}
		amenities, _ := json.Marshal(l.Amenities)
		images, _ := json.Marshal(l.Images)
		risks, _ := json.Marshal(l.Risks)
		highlights, _ := json.Marshal(l.Highlights)

		if _, err := stmt.Exec(
			l.ID, l.URL, l.Title, l.Description, l.Address, l.PostalCode, l.City,
			l.AskingPrice, l.TotalPrice, l.ClosingCosts, l.SharedDebtMonthly, l.TaxValue,
			l.DwellingType, l.OwnershipForm, l.Bedrooms, l.PrimaryAreaSqm, l.UsableAreaSqm,
			l.LotAreaSqm, l.BuildYear, l.Floor, amenities, images,
			l.BrokerName, l.BrokerFirm, l.BrokerPhone, l.PricePerSqm, l.Age, risks, highlights,
		); err != nil {
			return fmt.Errorf("postgres: upsert %q: %w", l.ID, err)
		}
	}
	return nil
}

// FetchAll retrieves every stored listing, used to build comparison pools.
func (pw *PostgresWriter) FetchAll() ([]*models.Listing, error) {
	rows, err := pw.db.Query(`
		SELECT id, url, title, description, address, postal_code, city,
		       asking_price, total_price, closing_costs, shared_debt_monthly, tax_value,
		       dwelling_type, ownership_form, bedrooms, primary_area_sqm, usable_area_sqm,
		       lot_area_sqm, build_year, floor, amenities, images,
		       broker_name, broker_firm, broker_phone, price_per_sqm, age, risks, highlights
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		var amenities, images, risks, highlights []byte
		if err := rows.Scan(
			&l.ID, &l.URL, &l.Title, &l.Description, &l.Address, &l.PostalCode, &l.City,
			&l.AskingPrice, &l.TotalPrice, &l.ClosingCosts, &l.SharedDebtMonthly, &l.TaxValue,
			&l.DwellingType, &l.OwnershipForm, &l.Bedrooms, &l.PrimaryAreaSqm, &l.UsableAreaSqm,
			&l.LotAreaSqm, &l.BuildYear, &l.Floor, &amenities, &images,
			&l.BrokerName, &l.BrokerFirm, &l.BrokerPhone, &l.PricePerSqm, &l.Age, &risks, &highlights,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		_ = json.Unmarshal(amenities, &l.Amenities)
		_ = json.Unmarshal(images, &l.Images)
		_ = json.Unmarshal(risks, &l.Risks)
		_ = json.Unmarshal(highlights, &l.Highlights)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Close closes the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ",")
}
