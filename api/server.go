package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Jrgenl/boliganalyseverktoy/config"
	"github.com/Jrgenl/boliganalyseverktoy/models"
	"github.com/Jrgenl/boliganalyseverktoy/scraper/finn"
	"github.com/Jrgenl/boliganalyseverktoy/services"
	"github.com/Jrgenl/boliganalyseverktoy/storage"
	"github.com/Jrgenl/boliganalyseverktoy/utils"
)

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	cfg     *config.Config
	logger  *utils.Logger
	store   storage.ListingStore
	scraper *finn.Scraper

	normalizer *services.Normalizer
	analyzer   *services.Analyzer
	estimator  *services.PriceEstimator
	comparer   *services.ComparisonService

	router *mux.Router
}

// analysisResponse pairs an analyzed listing with its price analysis.
type analysisResponse struct {
	Listing       *models.Listing       `json:"listing"`
	PriceAnalysis *models.PriceAnalysis `json:"price_analysis"`
}

// NewServer wires the pipeline services behind the HTTP routes. The scraper
// may be nil, in which case the scrape endpoint reports unavailable.
func NewServer(cfg *config.Config, logger *utils.Logger, store storage.ListingStore, scraper *finn.Scraper) *Server {
	s := &Server{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		scraper:    scraper,
		normalizer: services.NewNormalizer(logger),
		analyzer:   services.NewAnalyzer(logger),
		estimator:  services.NewPriceEstimator(logger),
		comparer:   services.NewComparisonService(logger),
		router:     mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/analyze", s.handleAnalyze).Methods(http.MethodPost)
	s.router.HandleFunc("/api/scrape", s.handleScrape).Methods(http.MethodPost)
	s.router.HandleFunc("/api/listings/{id}", s.handleGetListing).Methods(http.MethodGet)
	s.router.HandleFunc("/api/listings/{id}/comparables", s.handleComparables).Methods(http.MethodGet)
}

// Router returns the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the API on the configured address.
func (s *Server) ListenAndServe() error {
	s.logger.Info("[api] Listening on %s", s.cfg.HTTPAddr)
	return http.ListenAndServe(s.cfg.HTTPAddr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /api/analyze takes a raw field mapping and returns the analyzed
// listing. Pure: no persistence.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var raw models.RawListing
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	listing := s.analyzer.Analyze(s.normalizer.Normalize(raw))
	writeJSON(w, http.StatusOK, analysisResponse{
		Listing:       listing,
		PriceAnalysis: s.estimator.Estimate(listing),
	})
}

// POST /api/scrape with { "url": "https://www.finn.no/..." } runs the full
// pipeline and persists the result.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	if s.scraper == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "scraper not configured"})
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	raw, err := s.scraper.FetchListing(req.URL)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	listing := s.analyzer.Analyze(s.normalizer.Normalize(raw))
	if err := s.store.Save(listing); err != nil {
		s.logger.Error("[api] Saving listing %s failed: %v", listing.ID, err)
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		Listing:       listing,
		PriceAnalysis: s.estimator.Estimate(listing),
	})
}

// GET /api/listings/{id}
func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	listing, err := s.store.Load(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "listing not found"})
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// GET /api/listings/{id}/comparables ranks the stored pool against the
// listing. A thin pool yields a 200 with the result's error field set; the
// display side is expected to tolerate that shape.
func (s *Server) handleComparables(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	listing, err := s.store.Load(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "listing not found"})
		return
	}

	pool, err := s.store.LoadAll()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// The stored copy of the subject is filtered out by id during comparison.
	writeJSON(w, http.StatusOK, s.comparer.Compare(listing, pool, s.cfg.ComparableCount))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
