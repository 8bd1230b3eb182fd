package models

// RawListing is the loosely typed field mapping produced by the scraper (or
// any other input boundary) before normalization. Each logical group
// (address, price, property_info, broker) may arrive either as a nested
// sub-mapping or flattened at the top level, and every value may be a
// string, a number, or missing entirely.
type RawListing map[string]any

// Severity levels assigned to risk findings.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Dwelling types with dedicated pricing behaviour. Anything else is treated
// as neutral.
const (
	DwellingApartment = "Apartment"
	DwellingHouse     = "House"
	DwellingTerraced  = "Terraced house"
)

// RiskItem is one identified risk. At most one item per category survives
// in a listing.
type RiskItem struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
	Context  string `json:"context"`
	Severity string `json:"severity"`
}

// HighlightItem is one identified selling point, deduplicated per category
// the same way risks are.
type HighlightItem struct {
	Category string `json:"category"`
	Keyword  string `json:"keyword"`
	Context  string `json:"context"`
}

// Listing is the normalized, typed record for one property ad. All numeric
// fields are non-negative integers; missing or unparsable input coerces to
// zero. Only Risks and Highlights are written after construction.
type Listing struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`

	AskingPrice       int `json:"asking_price"`
	TotalPrice        int `json:"total_price"`
	ClosingCosts      int `json:"closing_costs"`
	SharedDebtMonthly int `json:"shared_debt_monthly"`
	TaxValue          int `json:"tax_value"`

	DwellingType   string `json:"dwelling_type"`
	OwnershipForm  string `json:"ownership_form"`
	Bedrooms       int    `json:"bedrooms"`
	PrimaryAreaSqm int    `json:"primary_area_sqm"`
	UsableAreaSqm  int    `json:"usable_area_sqm"`
	LotAreaSqm     int    `json:"lot_area_sqm"`
	BuildYear      int    `json:"build_year"`
	Floor          string `json:"floor"`

	Amenities []string `json:"amenities"`
	Images    []string `json:"images"`

	BrokerName  string `json:"broker_name"`
	BrokerFirm  string `json:"broker_firm"`
	BrokerPhone string `json:"broker_phone"`

	PricePerSqm int `json:"price_per_sqm"`
	Age         int `json:"age"`

	Risks      []RiskItem      `json:"risks"`
	Highlights []HighlightItem `json:"highlights"`
}

// PriceAnalysis holds the estimator output. When Err is non-empty the
// numeric fields are not meaningful and must not be read.
type PriceAnalysis struct {
	AskingPrice          int     `json:"asking_price"`
	TotalPrice           int     `json:"total_price"`
	PricePerSqm          int     `json:"price_per_sqm"`
	AnnualSharedCost     int     `json:"annual_shared_cost"`
	EstimatedMarketValue int     `json:"estimated_market_value"`
	ValueDeviation       int     `json:"value_deviation"`
	ValueDeviationPct    float64 `json:"value_deviation_percent"`
	MonthlyLoanPayment   int     `json:"monthly_loan_payment"`
	MonthlyTotalCost     int     `json:"monthly_total_cost"`
	Err                  string  `json:"error,omitempty"`
}

// Comparable is one neighbour from the comparison pool, carrying its
// similarity score alongside the fields the comparison was computed from.
type Comparable struct {
	ID            string  `json:"id"`
	Address       string  `json:"address"`
	DwellingType  string  `json:"dwelling_type"`
	PostalCode    string  `json:"postal_code"`
	AskingPrice   int     `json:"asking_price"`
	PricePerSqm   int     `json:"price_per_sqm"`
	UsableAreaSqm int     `json:"usable_area_sqm"`
	Bedrooms      int     `json:"bedrooms"`
	BuildYear     int     `json:"build_year"`
	Similarity    float64 `json:"similarity"`
}

// ComparisonResult holds the nearest comparables and the subject's deviation
// from their averages. When Err is non-empty the rest is not meaningful.
type ComparisonResult struct {
	Comparables          []Comparable `json:"comparables"`
	AveragePrice         int          `json:"average_price"`
	AveragePricePerSqm   int          `json:"average_price_per_sqm"`
	PriceDeviation       int          `json:"price_deviation"`
	PriceDeviationPct    float64      `json:"price_deviation_percent"`
	SqmPriceDeviation    int          `json:"sqm_price_deviation"`
	SqmPriceDeviationPct float64      `json:"sqm_price_deviation_percent"`
	Err                  string       `json:"error,omitempty"`
}
