package services

import (
	"fmt"
	"strings"

	"github.com/Jrgenl/boliganalyseverktoy/models"
	"github.com/Jrgenl/boliganalyseverktoy/utils"
)

// contextWindow is the number of characters kept on each side of a keyword
// match.
const contextWindow = 100

// Thresholds for the structural (non-text) rules.
const (
	oldAgeThreshold       = 30
	newAgeThreshold       = 5
	highSharedCostMonthly = 5000
	largeApartmentSqm     = 100
	manyBedrooms          = 3
)

// Analyzer scans listings for risk and highlight signals using the fixed
// keyword tables plus a handful of structural rules.
type Analyzer struct {
	logger *utils.Logger
}

// NewAnalyzer creates an Analyzer with the given logger.
func NewAnalyzer(logger *utils.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze attaches risks and highlights to the listing and returns it.
// Re-running on an already analyzed listing replaces both collections, so
// the operation is idempotent. A nil listing is returned as-is and any
// internal fault leaves the listing unmodified.
func (a *Analyzer) Analyze(l *models.Listing) *models.Listing {
	if l == nil {
		a.logger.Error("[analyzer] No listing to analyze")
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("[analyzer] Recovered from fault, listing left unmodified: %v", r)
		}
	}()

	risks := a.IdentifyRisks(l)
	highlights := a.IdentifyHighlights(l)
	l.Risks = risks
	l.Highlights = highlights

	a.logger.Info("[analyzer] Analysis done for %s (%s): %d risks, %d highlights",
		l.Address, l.ID, len(risks), len(highlights))
	return l
}

// IdentifyRisks returns the deduplicated risk findings for the listing:
// keyword matches over title + description, then the structural age,
// economy and location rules.
func (a *Analyzer) IdentifyRisks(l *models.Listing) []models.RiskItem {
	text := strings.ToLower(l.Title + " " + l.Description)

	var found []models.RiskItem
	for _, g := range riskKeywords {
		for _, phrase := range g.Phrases {
			if strings.Contains(text, phrase) {
				ctx := extractContext(text, phrase)
				found = append(found, models.RiskItem{
					Category: g.Category,
					Keyword:  phrase,
					Context:  ctx,
					Severity: severityFor(g.Category, ctx),
				})
			}
		}
	}

	if l.Age > oldAgeThreshold {
		found = append(found, models.RiskItem{
			Category: "age",
			Keyword:  "older property",
			Context:  fmt.Sprintf("The property is %d years old", l.Age),
			Severity: models.SeverityMedium,
		})
	}

	if l.SharedDebtMonthly > highSharedCostMonthly {
		found = append(found, models.RiskItem{
			Category: "economy",
			Keyword:  "high shared costs",
			Context:  fmt.Sprintf("Shared costs are %d kr/month", l.SharedDebtMonthly),
			Severity: models.SeverityMedium,
		})
	}

	if l.Floor == "1" && l.DwellingType == models.DwellingApartment {
		found = append(found, models.RiskItem{
			Category: "location",
			Keyword:  "first floor",
			Context:  "Apartment on the first floor",
			Severity: models.SeverityLow,
		})
	}

	return dedupRisks(found)
}

// IdentifyHighlights returns the deduplicated highlight findings: keyword
// matches over title + description, the structural age/size/bedrooms rules,
// then a re-scan of every amenity string against the highlight table.
func (a *Analyzer) IdentifyHighlights(l *models.Listing) []models.HighlightItem {
	text := strings.ToLower(l.Title + " " + l.Description)

	var found []models.HighlightItem
	for _, g := range highlightKeywords {
		for _, phrase := range g.Phrases {
			if strings.Contains(text, phrase) {
				found = append(found, models.HighlightItem{
					Category: g.Category,
					Keyword:  phrase,
					Context:  extractContext(text, phrase),
				})
			}
		}
	}

	if l.Age > 0 && l.Age <= newAgeThreshold {
		found = append(found, models.HighlightItem{
			Category: "age",
			Keyword:  "newer property",
			Context:  fmt.Sprintf("The property is only %d years old", l.Age),
		})
	}

	if l.DwellingType == models.DwellingApartment && l.UsableAreaSqm > largeApartmentSqm {
		found = append(found, models.HighlightItem{
			Category: "size",
			Keyword:  "large apartment",
			Context:  fmt.Sprintf("The apartment spans a full %d m²", l.UsableAreaSqm),
		})
	}

	if l.Bedrooms >= manyBedrooms {
		found = append(found, models.HighlightItem{
			Category: "bedrooms",
			Keyword:  "many bedrooms",
			Context:  fmt.Sprintf("The property has %d bedrooms", l.Bedrooms),
		})
	}

	for _, amenity := range l.Amenities {
		lower := strings.ToLower(amenity)
		for _, g := range highlightKeywords {
			for _, phrase := range g.Phrases {
				if strings.Contains(lower, phrase) {
					found = append(found, models.HighlightItem{
						Category: g.Category,
						Keyword:  phrase,
						Context:  amenity,
					})
				}
			}
		}
	}

	return dedupHighlights(found)
}

// extractContext returns up to contextWindow characters on each side of the
// first occurrence of phrase in text, with runs of whitespace collapsed.
// text and phrase are expected to be lowercased already.
func extractContext(text, phrase string) string {
	idx := strings.Index(text, phrase)
	if idx < 0 {
		return ""
	}

	start := idx - contextWindow
	if start < 0 {
		start = 0
	}
	end := idx + len(phrase) + contextWindow
	if end > len(text) {
		end = len(text)
	}

	return strings.Join(strings.Fields(text[start:end]), " ")
}

// severityFor grades a risk match. Escalation words in the context window
// take absolute priority; otherwise the category's fixed set decides.
func severityFor(category, context string) string {
	lower := strings.ToLower(context)
	for _, word := range escalationWords {
		if strings.Contains(lower, word) {
			return models.SeverityHigh
		}
	}

	if _, ok := highSeverityCategories[category]; ok {
		return models.SeverityHigh
	}
	if _, ok := mediumSeverityCategories[category]; ok {
		return models.SeverityMedium
	}
	return models.SeverityLow
}

// dedupRisks keeps the first finding per category, in discovery order.
func dedupRisks(items []models.RiskItem) []models.RiskItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.RiskItem, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.Category]; dup {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item)
	}
	return out
}

// dedupHighlights keeps the first finding per category, in discovery order.
func dedupHighlights(items []models.HighlightItem) []models.HighlightItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.HighlightItem, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.Category]; dup {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item)
	}
	return out
}
