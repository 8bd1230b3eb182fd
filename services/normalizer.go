package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/Jrgenl/boliganalyseverktoy/models"
	"github.com/Jrgenl/boliganalyseverktoy/utils"
)

// Normalizer converts raw scraped field mappings into typed Listings.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize builds a Listing from a raw field mapping. Each logical group
// (address, price, property_info, broker) is accepted either as a nested
// sub-mapping or flattened at the top level. Normalization never fails: a
// nil or malformed mapping yields a zero-value record, and any internal
// fault is logged and recovered to the same.
func (n *Normalizer) Normalize(raw models.RawListing) (listing *models.Listing) {
	listing = emptyListing()

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("[normalizer] Recovered from fault, returning empty record: %v", r)
			listing = emptyListing()
		}
	}()

	if raw == nil {
		return listing
	}

	listing.ID = getString(raw, "id")
	listing.URL = getString(raw, "url")
	listing.Title = getString(raw, "title")
	listing.Description = getString(raw, "description")

	if addr, ok := raw["address"].(map[string]any); ok {
		listing.Address = getString(addr, "full_address")
		listing.PostalCode = getString(addr, "postal_code")
		listing.City = getString(addr, "city")
	} else {
		listing.Address = getString(raw, "address")
		listing.PostalCode = getString(raw, "postal_code")
		listing.City = getString(raw, "city")
	}

	price := subGroup(raw, "price")
	listing.AskingPrice = ParseInt(price["asking_price"])
	listing.TotalPrice = ParseInt(price["total_price"])
	listing.ClosingCosts = ParseInt(price["closing_costs"])
	listing.SharedDebtMonthly = ParseInt(price["shared_debt_monthly"])
	listing.TaxValue = ParseInt(price["tax_value"])

	info := subGroup(raw, "property_info")
	listing.DwellingType = getString(info, "dwelling_type")
	listing.OwnershipForm = getString(info, "ownership_form")
	listing.Bedrooms = ParseInt(info["bedrooms"])
	listing.PrimaryAreaSqm = ParseInt(info["primary_area_sqm"])
	listing.UsableAreaSqm = ParseInt(info["usable_area_sqm"])
	listing.LotAreaSqm = ParseInt(info["lot_area_sqm"])
	listing.BuildYear = ParseInt(info["build_year"])
	listing.Floor = getString(info, "floor")

	if broker, ok := raw["broker"].(map[string]any); ok {
		listing.BrokerName = getString(broker, "name")
		listing.BrokerFirm = getString(broker, "firm")
		listing.BrokerPhone = getString(broker, "phone")
	} else {
		listing.BrokerName = getString(raw, "broker_name")
		listing.BrokerFirm = getString(raw, "broker_firm")
		listing.BrokerPhone = getString(raw, "broker_phone")
	}

	listing.Amenities = toStringSlice(raw["amenities"])
	listing.Images = toStringSlice(raw["images"])

	// Raw input takes precedence over derivation for the two computed fields.
	if truthy(raw["price_per_sqm"]) {
		listing.PricePerSqm = ParseInt(raw["price_per_sqm"])
	} else {
		listing.PricePerSqm = derivePricePerSqm(listing)
	}
	if truthy(raw["age"]) {
		listing.Age = ParseInt(raw["age"])
	} else {
		listing.Age = deriveAge(listing.BuildYear)
	}

	listing.Risks = decodeRisks(raw["risks"])
	listing.Highlights = decodeHighlights(raw["highlights"])

	return listing
}

// ParseInt coerces an arbitrary value into a non-negative integer. Strings
// are stripped of every non-digit byte before parsing, so "kr 2 500 000"
// becomes 2500000. Anything unparsable, negative, or of an unexpected type
// yields 0. ParseInt never fails.
func ParseInt(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		return clampNonNegative(t)
	case int64:
		return clampNonNegative(int(t))
	case float64:
		if t != t { // NaN
			return 0
		}
		return clampNonNegative(int(t))
	case string:
		var b strings.Builder
		for i := 0; i < len(t); i++ {
			if t[i] >= '0' && t[i] <= '9' {
				b.WriteByte(t[i])
			}
		}
		if b.Len() == 0 {
			return 0
		}
		n, err := strconv.Atoi(b.String())
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func emptyListing() *models.Listing {
	return &models.Listing{
		Amenities:  []string{},
		Images:     []string{},
		Risks:      []models.RiskItem{},
		Highlights: []models.HighlightItem{},
	}
}

// subGroup returns the nested sub-mapping under key if present, otherwise
// the top-level mapping itself (the flattened shape uses the same keys).
func subGroup(raw models.RawListing, key string) map[string]any {
	if sub, ok := raw[key].(map[string]any); ok {
		return sub
	}
	return raw
}

func getString(m map[string]any, key string) string {
	switch t := m[key].(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

func toStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// truthy reports whether a raw value counts as explicitly supplied: nil,
// empty strings, numeric zero and non-scalar values do not, so a malformed
// field still falls back to derivation.
func truthy(v any) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return false
	}
}

func derivePricePerSqm(l *models.Listing) int {
	area := l.PrimaryAreaSqm
	if area <= 0 {
		area = l.UsableAreaSqm
	}
	if area > 0 && l.AskingPrice > 0 {
		return l.AskingPrice / area
	}
	return 0
}

func deriveAge(buildYear int) int {
	if buildYear <= 0 {
		return 0
	}
	age := time.Now().Year() - buildYear
	if age < 0 {
		return 0
	}
	return age
}

func decodeRisks(v any) []models.RiskItem {
	switch t := v.(type) {
	case []models.RiskItem:
		out := make([]models.RiskItem, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]models.RiskItem, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, models.RiskItem{
					Category: getString(m, "category"),
					Keyword:  getString(m, "keyword"),
					Context:  getString(m, "context"),
					Severity: getString(m, "severity"),
				})
			}
		}
		return out
	default:
		return []models.RiskItem{}
	}
}

func decodeHighlights(v any) []models.HighlightItem {
	switch t := v.(type) {
	case []models.HighlightItem:
		out := make([]models.HighlightItem, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]models.HighlightItem, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, models.HighlightItem{
					Category: getString(m, "category"),
					Keyword:  getString(m, "keyword"),
					Context:  getString(m, "context"),
				})
			}
		}
		return out
	default:
		return []models.HighlightItem{}
	}
}
