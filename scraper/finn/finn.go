package finn

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/Jrgenl/boliganalyseverktoy/config"
	"github.com/Jrgenl/boliganalyseverktoy/models"
	"github.com/Jrgenl/boliganalyseverktoy/utils"
)

var (
	// listing ids appear either as a finnkode query parameter or as the
	// trailing path segment of the ad URL
	codeParamRegexp = regexp.MustCompile(`finnkode=(\d+)`)
	codePathRegexp  = regexp.MustCompile(`/(\d+)(?:\?|$)`)
	// Norwegian postal codes are four digits followed by the city name
	postalRegexp   = regexp.MustCompile(`(\d{4})\s+(\S+)`)
	numberRegexp   = regexp.MustCompile(`\d+`)
	nonDigitRegexp = regexp.MustCompile(`[^\d]`)
)

// Scraper fetches finn.no property ads and extracts their fields into the
// raw mapping consumed by the normalizer. Pages are rendered headlessly
// because finn.no builds most of the ad client-side.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use finn.no Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// ExtractListingID pulls the listing code out of a finn.no ad URL. Returns
// an empty string when the URL carries no code.
func (s *Scraper) ExtractListingID(url string) string {
	if m := codeParamRegexp.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := codePathRegexp.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// FetchListing renders the ad page and extracts every field group into a
// RawListing mapping with the nested shape (address, price, property_info,
// broker as sub-mappings).
func (s *Scraper) FetchListing(url string) (models.RawListing, error) {
	id := s.ExtractListingID(url)
	if id == "" {
		return nil, fmt.Errorf("finn: no listing code in URL %q", url)
	}

	var html string
	err := s.retry.Do("fetch-listing", func() error {
		return s.fetchHTML(url, &html)
	})
	if err != nil {
		return nil, fmt.Errorf("finn: fetch %q: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("finn: parse %q: %w", url, err)
	}

	raw := models.RawListing{
		"id":            id,
		"url":           url,
		"title":         strings.TrimSpace(doc.Find("h1").First().Text()),
		"address":       extractAddress(doc),
		"price":         extractPrice(doc),
		"property_info": extractPropertyInfo(doc),
		"amenities":     extractAmenities(doc),
		"description":   extractDescription(doc),
		"images":        extractImages(doc),
		"broker":        extractBroker(doc),
	}

	s.logger.Info("[finn] Fetched listing %s (%s)", id, raw["title"])
	return raw, nil
}

// fetchHTML renders the page in headless Chrome and captures the final DOM.
func (s *Scraper) fetchHTML(url string, out *string) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := findChromeBinary(s.cfg.ChromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelCtx()

	ctx, cancelTimeout := context.WithTimeout(ctx, time.Duration(s.cfg.ScrapeTimeoutSec)*time.Second)
	defer cancelTimeout()

	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(3*time.Second),
		chromedp.OuterHTML("html", out),
	)
}

func extractAddress(doc *goquery.Document) map[string]any {
	address := map[string]any{"full_address": "", "postal_code": "", "city": ""}

	full := strings.TrimSpace(doc.Find(`a[href*="maps"]`).First().Text())
	if full == "" {
		return address
	}
	address["full_address"] = full

	if m := postalRegexp.FindStringSubmatch(full); m != nil {
		address["postal_code"] = m[1]
		address["city"] = m[2]
	}
	return address
}

func extractPrice(doc *goquery.Document) map[string]any {
	return map[string]any{
		"asking_price":        cleanPrice(strings.TrimSpace(doc.Find("h2.text-28").First().Text())),
		"total_price":         cleanPrice(labeledValue(doc, "Totalpris")),
		"closing_costs":       cleanPrice(labeledValue(doc, "Omkostninger")),
		"shared_debt_monthly": cleanPrice(labeledValue(doc, "Felleskost")),
		"tax_value":           cleanPrice(labeledValue(doc, "Formuesverdi")),
	}
}

// dwellingTypes maps finn.no Boligtype values to the canonical labels the
// analysis services act on. Unknown values pass through untranslated.
var dwellingTypes = map[string]string{
	"Leilighet": models.DwellingApartment,
	"Enebolig":  models.DwellingHouse,
	"Rekkehus":  models.DwellingTerraced,
}

func canonicalDwellingType(raw string) string {
	if canonical, ok := dwellingTypes[strings.TrimSpace(raw)]; ok {
		return canonical
	}
	return raw
}

func extractPropertyInfo(doc *goquery.Document) map[string]any {
	return map[string]any{
		"dwelling_type":    canonicalDwellingType(labeledValue(doc, "Boligtype")),
		"ownership_form":   labeledValue(doc, "Eieform"),
		"bedrooms":         labeledValue(doc, "Soverom"),
		"primary_area_sqm": extractNumber(labeledValue(doc, "Primærrom")),
		"usable_area_sqm":  extractNumber(labeledValue(doc, "Bruksareal")),
		"lot_area_sqm":     extractNumber(labeledValue(doc, "Tomteareal")),
		"build_year":       labeledValue(doc, "Byggeår"),
		"floor":            labeledValue(doc, "Etasje"),
	}
}

func extractAmenities(doc *goquery.Document) []string {
	amenities := []string{}
	doc.Find("h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), "Fasiliteter") {
			return true
		}
		sel.Parent().NextAll().Filter("div").Each(func(_ int, item *goquery.Selection) {
			if text := strings.TrimSpace(item.Text()); text != "" {
				amenities = append(amenities, text)
			}
		})
		return false
	})
	return amenities
}

func extractDescription(doc *goquery.Document) string {
	var description string
	doc.Find("h2, h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(sel.Text(), "Om boligen") {
			return true
		}
		description = strings.TrimSpace(sel.Parent().NextAllFiltered("div").First().Text())
		if description == "" {
			description = strings.TrimSpace(sel.Next().Text())
		}
		return false
	})
	return description
}

// extractImages prefers the gallery JSON blobs embedded in the page, falling
// back to plain image tags.
func extractImages(doc *goquery.Document) []string {
	images := []string{}

	doc.Find(`script[type="application/json"]`).Each(func(_ int, sel *goquery.Selection) {
		var blob map[string]any
		if err := json.Unmarshal([]byte(sel.Text()), &blob); err != nil {
			return
		}
		gallery, ok := blob["images"].([]any)
		if !ok {
			return
		}
		for _, entry := range gallery {
			if m, ok := entry.(map[string]any); ok {
				if url, ok := m["url"].(string); ok {
					images = append(images, url)
				}
			}
		}
	})

	if len(images) == 0 {
		doc.Find(`img[src*="bilde"]`).Each(func(_ int, sel *goquery.Selection) {
			if src, ok := sel.Attr("src"); ok {
				images = append(images, src)
			}
		})
	}
	return images
}

func extractBroker(doc *goquery.Document) map[string]any {
	return map[string]any{
		"name":  strings.TrimSpace(doc.Find("div.broker-name").First().Text()),
		"firm":  strings.TrimSpace(doc.Find("div.broker-company").First().Text()),
		"phone": strings.TrimSpace(doc.Find(`a[href^="tel:"]`).First().Text()),
	}
}

// labeledValue finds a definition-list label containing the given text and
// returns its value cell.
func labeledValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find("dt").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(sel.Text(), label) {
			value = strings.TrimSpace(sel.Next().Text())
			return false
		}
		return true
	})
	return value
}

func cleanPrice(text string) string {
	return nonDigitRegexp.ReplaceAllString(text, "")
}

func extractNumber(text string) string {
	return numberRegexp.FindString(text)
}

// findChromeBinary locates the Chrome/Chromium binary, preferring the
// configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
