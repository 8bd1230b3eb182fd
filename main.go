package main

import (
	"fmt"
	"os"

	"github.com/Jrgenl/boliganalyseverktoy/api"
	"github.com/Jrgenl/boliganalyseverktoy/config"
	"github.com/Jrgenl/boliganalyseverktoy/models"
	"github.com/Jrgenl/boliganalyseverktoy/scraper/finn"
	"github.com/Jrgenl/boliganalyseverktoy/services"
	"github.com/Jrgenl/boliganalyseverktoy/storage"
	"github.com/Jrgenl/boliganalyseverktoy/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	store, err := storage.NewJSONStore(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open data dir: %v", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: boliganalyse <finn-ad-url>")
		fmt.Println("       boliganalyse serve")
		os.Exit(1)
	}

	if os.Args[1] == "serve" {
		srv := api.NewServer(cfg, logger, store, finn.New(cfg, logger))
		logger.Info("=== Property Analysis API starting ===")
		if err := srv.ListenAndServe(); err != nil {
			logger.Error("API server failed: %v", err)
			os.Exit(1)
		}
		return
	}

	url := os.Args[1]
	logger.Info("=== Property Analysis starting ===")
	logger.Info("Config: data dir %s | comparables %d | retries %d",
		cfg.DataDir, cfg.ComparableCount, cfg.MaxRetries)

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Warn("PostgreSQL unavailable, continuing without it: %v", err)
			pgWriter = nil
		} else {
			defer pgWriter.Close()
		}
	}

	scraper := finn.New(cfg, logger)
	raw, err := scraper.FetchListing(url)
	if err != nil {
		logger.Error("Scrape failed: %v", err)
		os.Exit(1)
	}

	normalizer := services.NewNormalizer(logger)
	listing := normalizer.Normalize(raw)

	analyzer := services.NewAnalyzer(logger)
	analyzer.Analyze(listing)

	estimator := services.NewPriceEstimator(logger)
	analysis := estimator.Estimate(listing)

	// The comparison pool is everything analyzed before; the subject's own
	// stored copy is excluded by id inside Compare.
	var db storage.ListingFetcher
	if pgWriter != nil {
		db = pgWriter
	}
	pool := comparisonPool(logger, store, db)

	comparer := services.NewComparisonService(logger)
	comparison := comparer.Compare(listing, pool, cfg.ComparableCount)

	if err := store.Save(listing); err != nil {
		logger.Error("Saving listing failed: %v", err)
	} else {
		logger.Info("Listing %s saved to %s", listing.ID, cfg.DataDir)
	}

	exportCSV(cfg, logger, store)

	if pgWriter != nil {
		if err := pgWriter.Write([]*models.Listing{listing}); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Listing stored in PostgreSQL (table: listings)")
		}
	}

	services.NewReportService().Print(listing, analysis, comparison)
}

// comparisonPool sources the pool from PostgreSQL when a connection is up,
// falling back to the local JSON cache.
func comparisonPool(logger *utils.Logger, store *storage.JSONStore, db storage.ListingFetcher) []*models.Listing {
	if db != nil {
		pool, err := db.FetchAll()
		if err == nil {
			return pool
		}
		logger.Warn("Could not load comparison pool from PostgreSQL, using local cache: %v", err)
	}

	pool, err := store.LoadAll()
	if err != nil {
		logger.Warn("Could not load comparison pool: %v", err)
	}
	return pool
}

func exportCSV(cfg *config.Config, logger *utils.Logger, store *storage.JSONStore) {
	listings, err := store.LoadAll()
	if err != nil || len(listings) == 0 {
		return
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Warn("CSV export skipped: %v", err)
		return
	}
	defer csvWriter.Close()

	if err := csvWriter.Write(listings); err != nil {
		logger.Warn("CSV export failed: %v", err)
		return
	}
	logger.Info("Summary of %d listings exported to %s", len(listings), cfg.CSVOutputPath)
}
