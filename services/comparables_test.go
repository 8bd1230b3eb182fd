package services

import (
	"testing"

	"github.com/Jrgenl/boliganalyseverktoy/models"
)

func compListing(id, dwellingType, postalCode string, usable, bedrooms, buildYear, askingPrice, pricePerSqm int) *models.Listing {
	return &models.Listing{
		ID:            id,
		DwellingType:  dwellingType,
		PostalCode:    postalCode,
		UsableAreaSqm: usable,
		Bedrooms:      bedrooms,
		BuildYear:     buildYear,
		AskingPrice:   askingPrice,
		PricePerSqm:   pricePerSqm,
	}
}

func TestCompareThinPool(t *testing.T) {
	s := NewComparisonService(newTestLogger())
	subject := compListing("s", models.DwellingApartment, "0350", 70, 2, 1990, 4000000, 57000)

	result := s.Compare(subject, nil, 5)
	if result.Err == "" {
		t.Error("empty pool: expected Err to be set")
	}

	// One listing of a different dwelling type survives no filter stage.
	pool := []*models.Listing{compListing("h1", models.DwellingHouse, "0350", 140, 4, 1985, 6500000, 46000)}
	result = s.Compare(subject, pool, 5)
	if result.Err == "" {
		t.Error("no same-type listings: expected Err to be set")
	}
	if len(result.Comparables) != 0 {
		t.Errorf("expected no comparables, got %d", len(result.Comparables))
	}
}

func TestCompareIdenticalRanksFirst(t *testing.T) {
	s := NewComparisonService(newTestLogger())
	subject := compListing("s", models.DwellingApartment, "0350", 70, 2, 1990, 4000000, 57000)
	pool := []*models.Listing{
		compListing("far", models.DwellingApartment, "0458", 120, 4, 2015, 7000000, 58000),
		compListing("twin", models.DwellingApartment, "0458", 70, 2, 1990, 4000000, 57000),
	}

	result := s.Compare(subject, pool, 5)
	if result.Err != "" {
		t.Fatalf("unexpected error: %s", result.Err)
	}
	if len(result.Comparables) != 2 {
		t.Fatalf("comparables: got %d, want 2", len(result.Comparables))
	}

	best := result.Comparables[0]
	if best.ID != "twin" {
		t.Errorf("nearest neighbour: got %q, want \"twin\"", best.ID)
	}
	if best.Similarity < 0.999 {
		t.Errorf("identical listing similarity: got %v, want ~1", best.Similarity)
	}
	if result.Comparables[1].Similarity >= best.Similarity {
		t.Errorf("ranking not ordered by similarity: %v then %v",
			best.Similarity, result.Comparables[1].Similarity)
	}
}

func TestCompareExcludesSubjectByID(t *testing.T) {
	s := NewComparisonService(newTestLogger())
	subject := compListing("s", models.DwellingApartment, "0350", 70, 2, 1990, 4000000, 57000)
	pool := []*models.Listing{
		compListing("s", models.DwellingApartment, "0350", 70, 2, 1990, 4000000, 57000), // stored copy of the subject
		compListing("a", models.DwellingApartment, "0350", 80, 3, 1995, 4500000, 56000),
		compListing("b", models.DwellingApartment, "0350", 65, 2, 1980, 3600000, 55000),
	}

	result := s.Compare(subject, pool, 5)
	if result.Err != "" {
		t.Fatalf("unexpected error: %s", result.Err)
	}
	for _, c := range result.Comparables {
		if c.ID == "s" {
			t.Error("the subject's own stored copy must not appear among comparables")
		}
	}
	if len(result.Comparables) != 2 {
		t.Errorf("comparables: got %d, want 2", len(result.Comparables))
	}
}

func TestCompareAverages(t *testing.T) {
	s := NewComparisonService(newTestLogger())
	subject := compListing("s", models.DwellingApartment, "0350", 70, 2, 1990, 4000000, 57000)
	pool := []*models.Listing{
		compListing("a", models.DwellingApartment, "0458", 70, 2, 1990, 4000000, 57000),
		compListing("b", models.DwellingApartment, "0458", 120, 4, 2015, 7000000, 0), // no area, no sqm price
	}

	result := s.Compare(subject, pool, 5)
	if result.Err != "" {
		t.Fatalf("unexpected error: %s", result.Err)
	}

	if result.AveragePrice != 5500000 {
		t.Errorf("AveragePrice: got %d, want 5500000", result.AveragePrice)
	}
	if result.PriceDeviation != -1500000 {
		t.Errorf("PriceDeviation: got %d, want -1500000", result.PriceDeviation)
	}
	if result.PriceDeviationPct != -27.3 {
		t.Errorf("PriceDeviationPct: got %v, want -27.3", result.PriceDeviationPct)
	}

	// The zero sqm price must not drag the average down.
	if result.AveragePricePerSqm != 57000 {
		t.Errorf("AveragePricePerSqm: got %d, want 57000", result.AveragePricePerSqm)
	}
	if result.SqmPriceDeviation != 0 {
		t.Errorf("SqmPriceDeviation: got %d, want 0", result.SqmPriceDeviation)
	}
}

func TestComparePostalRelaxation(t *testing.T) {
	s := NewComparisonService(newTestLogger())
	subject := compListing("s", models.DwellingApartment, "0350", 70, 2, 1990, 4000000, 57000)
	pool := []*models.Listing{
		compListing("near", models.DwellingApartment, "0350", 72, 2, 1992, 4100000, 56900),
		compListing("a2", models.DwellingApartment, "0458", 75, 2, 1994, 4200000, 56000),
		compListing("a3", models.DwellingApartment, "0458", 68, 2, 1988, 3900000, 57300),
		compListing("h1", models.DwellingHouse, "0350", 140, 4, 1985, 6500000, 46000),
	}

	// Only one same-postal match: the postal constraint is relaxed but the
	// dwelling type one never is.
	result := s.Compare(subject, pool, 2)
	if result.Err != "" {
		t.Fatalf("unexpected error: %s", result.Err)
	}
	if len(result.Comparables) != 2 {
		t.Fatalf("comparables: got %d, want 2", len(result.Comparables))
	}
	for _, c := range result.Comparables {
		if c.DwellingType != models.DwellingApartment {
			t.Errorf("comparable %s has dwelling type %q", c.ID, c.DwellingType)
		}
	}
}

func TestCompareStrictWhenPoolAllows(t *testing.T) {
	s := NewComparisonService(newTestLogger())
	subject := compListing("s", models.DwellingApartment, "0350", 70, 2, 1990, 4000000, 57000)
	pool := []*models.Listing{
		compListing("a", models.DwellingApartment, "0350", 72, 2, 1992, 4100000, 56900),
		compListing("b", models.DwellingApartment, "0350", 75, 3, 1994, 4300000, 57300),
		compListing("c", models.DwellingApartment, "0458", 68, 2, 1988, 3900000, 57300),
	}

	result := s.Compare(subject, pool, 1)
	if result.Err != "" {
		t.Fatalf("unexpected error: %s", result.Err)
	}
	for _, c := range result.Comparables {
		if c.PostalCode != "0350" {
			t.Errorf("strict filter should keep postal 0350 only, got %s (%s)", c.PostalCode, c.ID)
		}
	}
}
