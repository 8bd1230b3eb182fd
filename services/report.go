package services

import (
	"fmt"
	"strings"

	"github.com/Jrgenl/boliganalyseverktoy/models"
)

// ReportService renders an analyzed listing to the terminal.
type ReportService struct{}

// NewReportService creates a ReportService.
func NewReportService() *ReportService {
	return &ReportService{}
}

// Print writes the full analysis report. Both analysis and comparison may be
// error-shaped or nil; the report degrades to the sections it has data for.
func (s *ReportService) Print(l *models.Listing, analysis *models.PriceAnalysis, comparison *models.ComparisonResult) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🏠 PROPERTY ANALYSIS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Listing\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  %s\n", l.Title)
	fmt.Printf("  Address      : %s, %s %s\n", l.Address, l.PostalCode, l.City)
	fmt.Printf("  Type         : %s (%s)\n", l.DwellingType, l.OwnershipForm)
	fmt.Printf("  Area         : %d m² usable, %d bedrooms\n", l.UsableAreaSqm, l.Bedrooms)
	if l.BuildYear > 0 {
		fmt.Printf("  Built        : %d (%d years old)\n", l.BuildYear, l.Age)
	}
	fmt.Printf("  Asking price : \033[1m%d kr\033[0m (%d kr/m²)\n", l.AskingPrice, l.PricePerSqm)
	fmt.Println()

	fmt.Printf("\033[1;33m  Risks\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(l.Risks) == 0 {
		fmt.Printf("  No risks identified\n")
	}
	for _, r := range l.Risks {
		fmt.Printf("  %s %-14s %s\n", severityBadge(r.Severity), r.Category, r.Keyword)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Highlights\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(l.Highlights) == 0 {
		fmt.Printf("  No highlights identified\n")
	}
	for _, h := range l.Highlights {
		fmt.Printf("  \033[1;32m✓\033[0m %-14s %s\n", h.Category, h.Keyword)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Analysis\033[0m\n")
	fmt.Printf("  %s\n", thin)
	switch {
	case analysis == nil:
		fmt.Printf("  No price analysis available\n")
	case analysis.Err != "":
		fmt.Printf("  \033[31m%s\033[0m\n", analysis.Err)
	default:
		fmt.Printf("  Estimated market value : \033[1;32m%d kr\033[0m\n", analysis.EstimatedMarketValue)
		fmt.Printf("  Deviation from asking  : %d kr (%.1f%%)\n", analysis.ValueDeviation, analysis.ValueDeviationPct)
		fmt.Printf("  Monthly loan payment   : %d kr\n", analysis.MonthlyLoanPayment)
		fmt.Printf("  Monthly total cost     : %d kr\n", analysis.MonthlyTotalCost)
		if analysis.AnnualSharedCost > 0 {
			fmt.Printf("  Annual shared cost     : %d kr\n", analysis.AnnualSharedCost)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Comparable Listings\033[0m\n")
	fmt.Printf("  %s\n", thin)
	switch {
	case comparison == nil:
		fmt.Printf("  No comparison available\n")
	case comparison.Err != "":
		fmt.Printf("  %s\n", comparison.Err)
	default:
		for i, c := range comparison.Comparables {
			fmt.Printf("  \033[1m%d.\033[0m %-32s %10d kr  %.0f%% match\n",
				i+1, truncate(c.Address, 30), c.AskingPrice, c.Similarity*100)
		}
		fmt.Printf("\n  Average price          : %d kr\n", comparison.AveragePrice)
		fmt.Printf("  Deviation from average : %d kr (%.1f%%)\n", comparison.PriceDeviation, comparison.PriceDeviationPct)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func severityBadge(severity string) string {
	switch severity {
	case models.SeverityHigh:
		return "\033[1;31m[HIGH]\033[0m  "
	case models.SeverityMedium:
		return "\033[1;33m[MEDIUM]\033[0m"
	default:
		return "\033[1;36m[LOW]\033[0m   "
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
