package services

import (
	"fmt"
	"math"

	"github.com/Jrgenl/boliganalyseverktoy/models"
	"github.com/Jrgenl/boliganalyseverktoy/utils"
)

// Fixed model constants for the price estimate and the monthly cost
// calculation.
const (
	fallbackBaseValue  = 3_000_000
	annualInterestRate = 0.04
	loanTermYears      = 25
	equityFraction     = 0.15
)

// PriceEstimator produces a deterministic market value estimate and monthly
// cost model for a listing.
type PriceEstimator struct {
	logger *utils.Logger
}

// NewPriceEstimator creates a PriceEstimator with the given logger.
func NewPriceEstimator(logger *utils.Logger) *PriceEstimator {
	return &PriceEstimator{logger: logger}
}

// Estimate applies the multiplicative age/type/bedroom adjustment model to
// the listing's base price and computes loan-amortized monthly costs. It
// never panics; degenerate input yields a result whose Err field is set, and
// callers must check Err before reading the numbers.
func (e *PriceEstimator) Estimate(l *models.Listing) (result *models.PriceAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("[pricing] Recovered from fault: %v", r)
			result = &models.PriceAnalysis{Err: fmt.Sprintf("price analysis failed: %v", r)}
		}
	}()

	if l == nil {
		return &models.PriceAnalysis{Err: "price analysis failed: no listing"}
	}

	result = &models.PriceAnalysis{
		AskingPrice: l.AskingPrice,
		TotalPrice:  l.TotalPrice,
		PricePerSqm: l.PricePerSqm,
	}
	if l.SharedDebtMonthly > 0 {
		result.AnnualSharedCost = l.SharedDebtMonthly * 12
	}

	baseValue := l.AskingPrice
	if baseValue <= 0 {
		baseValue = l.TotalPrice
		if baseValue <= 0 {
			baseValue = fallbackBaseValue
		}
	}

	estimated := float64(baseValue) * ageFactor(l.Age) * dwellingFactor(l.DwellingType) * bedroomFactor(l.Bedrooms)

	result.EstimatedMarketValue = int(math.Floor(estimated))
	result.ValueDeviation = result.EstimatedMarketValue - baseValue
	if baseValue > 0 {
		result.ValueDeviationPct = round1(float64(result.ValueDeviation) / float64(baseValue) * 100)
	}

	principal := float64(l.TotalPrice) * (1 - equityFraction)
	if l.TotalPrice <= 0 {
		principal = estimated * (1 - equityFraction)
	}

	monthlyRate := annualInterestRate / 12
	termMonths := loanTermYears * 12
	denom := 1 - math.Pow(1+monthlyRate, float64(-termMonths))
	if denom == 0 {
		return &models.PriceAnalysis{Err: "price analysis failed: degenerate loan terms"}
	}
	monthlyPayment := principal * monthlyRate / denom

	result.MonthlyLoanPayment = int(math.Floor(monthlyPayment))
	result.MonthlyTotalCost = result.MonthlyLoanPayment + l.SharedDebtMonthly

	return result
}

// ageFactor: newer properties appraise slightly above base, old ones below.
// Zero age means the build year is unknown and stays neutral.
func ageFactor(age int) float64 {
	switch {
	case age <= 0:
		return 1.00
	case age < 5:
		return 1.05
	case age < 15:
		return 1.00
	case age < 30:
		return 0.95
	default:
		return 0.90
	}
}

func dwellingFactor(dwellingType string) float64 {
	switch dwellingType {
	case models.DwellingApartment:
		return 1.00
	case models.DwellingHouse:
		return 1.05
	case models.DwellingTerraced:
		return 0.98
	default:
		return 1.00
	}
}

func bedroomFactor(bedrooms int) float64 {
	switch {
	case bedrooms >= 4:
		return 1.05
	case bedrooms == 3:
		return 1.02
	case bedrooms == 2:
		return 1.00
	default:
		return 0.98
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
