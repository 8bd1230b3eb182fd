package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/Jrgenl/boliganalyseverktoy/models"
	"github.com/Jrgenl/boliganalyseverktoy/utils"
)

// defaultBuildYear substitutes a missing build year in the feature vector.
const defaultBuildYear = 2000

// featureCount is the width of the comparison feature vector:
// usable area, bedrooms, build year, asking price.
const featureCount = 4

// ComparisonService ranks the listings most similar to a subject by
// Euclidean distance in standardized feature space.
type ComparisonService struct {
	logger *utils.Logger
}

// NewComparisonService creates a ComparisonService with the given logger.
func NewComparisonService(logger *utils.Logger) *ComparisonService {
	return &ComparisonService{logger: logger}
}

// Compare filters the pool down to listings comparable with the subject,
// standardizes the feature vectors over that filtered set, and returns the
// k nearest neighbours with similarity scores and price averages. Returns a
// result with Err set when the pool is too thin; never panics.
func (s *ComparisonService) Compare(subject *models.Listing, pool []*models.Listing, k int) (result *models.ComparisonResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("[comparables] Recovered from fault: %v", r)
			result = &models.ComparisonResult{Err: fmt.Sprintf("comparison failed: %v", r)}
		}
	}()

	if k <= 0 {
		k = 5
	}
	if subject == nil || len(pool) == 0 {
		return &models.ComparisonResult{Err: "no other listings to compare against"}
	}

	// Subject is always part of the standardization set; the pool is
	// filtered around it.
	filtered := filterPool(subject, pool, k)
	if len(filtered) < 2 {
		return &models.ComparisonResult{Err: "too few comparable listings"}
	}

	features := make([][featureCount]float64, len(filtered))
	for i, l := range filtered {
		features[i] = featureVector(l)
	}
	standardize(features)

	type scored struct {
		listing  *models.Listing
		distance float64
	}
	var candidates []scored
	for i := 1; i < len(filtered); i++ {
		if filtered[i].ID == subject.ID {
			continue
		}
		candidates = append(candidates, scored{filtered[i], euclidean(features[0], features[i])})
	}
	if len(candidates) == 0 {
		return &models.ComparisonResult{Err: "too few comparable listings"}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	result = &models.ComparisonResult{}
	var priceSum, sqmSum float64
	var sqmCount int
	for _, c := range candidates {
		result.Comparables = append(result.Comparables, models.Comparable{
			ID:            c.listing.ID,
			Address:       c.listing.Address,
			DwellingType:  c.listing.DwellingType,
			PostalCode:    c.listing.PostalCode,
			AskingPrice:   c.listing.AskingPrice,
			PricePerSqm:   c.listing.PricePerSqm,
			UsableAreaSqm: c.listing.UsableAreaSqm,
			Bedrooms:      c.listing.Bedrooms,
			BuildYear:     c.listing.BuildYear,
			Similarity:    1 / (1 + c.distance),
		})
		priceSum += float64(c.listing.AskingPrice)
		if c.listing.PricePerSqm > 0 {
			sqmSum += float64(c.listing.PricePerSqm)
			sqmCount++
		}
	}

	avgPrice := priceSum / float64(len(candidates))
	result.AveragePrice = int(avgPrice)
	result.PriceDeviation = subject.AskingPrice - result.AveragePrice
	if avgPrice > 0 {
		result.PriceDeviationPct = round1(float64(subject.AskingPrice-result.AveragePrice) / avgPrice * 100)
	}

	if sqmCount > 0 {
		avgSqm := sqmSum / float64(sqmCount)
		result.AveragePricePerSqm = int(avgSqm)
		result.SqmPriceDeviation = subject.PricePerSqm - result.AveragePricePerSqm
		result.SqmPriceDeviationPct = round1(float64(subject.PricePerSqm-result.AveragePricePerSqm) / avgSqm * 100)
	}

	s.logger.Info("[comparables] %s compared against %d neighbours (pool %d)",
		subject.ID, len(candidates), len(pool))
	return result
}

// filterPool returns subject followed by the pool listings that match it on
// dwelling type and postal code. When fewer than k+1 remain the postal code
// constraint is relaxed; when the subject lacks either field the whole pool
// is used.
func filterPool(subject *models.Listing, pool []*models.Listing, k int) []*models.Listing {
	keep := func(match func(*models.Listing) bool) []*models.Listing {
		out := []*models.Listing{subject}
		for _, l := range pool {
			if l != nil && match(l) {
				out = append(out, l)
			}
		}
		return out
	}

	if subject.DwellingType == "" || subject.PostalCode == "" {
		return keep(func(*models.Listing) bool { return true })
	}

	strict := keep(func(l *models.Listing) bool {
		return l.DwellingType == subject.DwellingType && l.PostalCode == subject.PostalCode
	})
	if len(strict) >= k+1 {
		return strict
	}
	return keep(func(l *models.Listing) bool {
		return l.DwellingType == subject.DwellingType
	})
}

func featureVector(l *models.Listing) [featureCount]float64 {
	buildYear := l.BuildYear
	if buildYear <= 0 {
		buildYear = defaultBuildYear
	}
	return [featureCount]float64{
		float64(l.UsableAreaSqm),
		float64(l.Bedrooms),
		float64(buildYear),
		float64(l.AskingPrice),
	}
}

// standardize scales each feature column to zero mean and unit variance in
// place. Constant columns are left centred rather than divided by zero.
func standardize(rows [][featureCount]float64) {
	n := float64(len(rows))
	for col := 0; col < featureCount; col++ {
		var sum float64
		for _, row := range rows {
			sum += row[col]
		}
		mean := sum / n

		var varSum float64
		for _, row := range rows {
			d := row[col] - mean
			varSum += d * d
		}
		std := math.Sqrt(varSum / n)
		if std == 0 {
			std = 1
		}

		for i := range rows {
			rows[i][col] = (rows[i][col] - mean) / std
		}
	}
}

func euclidean(a, b [featureCount]float64) float64 {
	var sum float64
	for i := 0; i < featureCount; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
