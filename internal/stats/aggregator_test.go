package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityinsights/server/internal/models"
)

func listing(price, sqft int, beds, baths float64, propertyType string) models.Listing {
	l := models.Listing{Price: price, Sqft: sqft, Bedrooms: beds, Bathrooms: baths}
	if propertyType != "" {
		l.PropertyType = &propertyType
	}
	return l
}

func days(l models.Listing, d int) models.Listing {
	l.DaysOnMarket = &d
	return l
}

func TestAggregate_EmptySample(t *testing.T) {
	stats := Aggregate(nil, 0)
	assert.Equal(t, models.CommunityStats{}, stats)

	stats = Aggregate([]models.Listing{}, 12)
	assert.Equal(t, models.CommunityStats{}, stats)
}

func TestAggregate_SqftSubsetAndTiers(t *testing.T) {
	listings := []models.Listing{
		listing(400000, 2000, 3, 2, "Single Family Residence"),
		listing(600000, 0, 4, 3, "Condo"),
	}

	stats := Aggregate(listings, 2)

	assert.Equal(t, 2000, stats.AvgSqft)
	assert.Equal(t, 200, stats.PricePerSqft)
	assert.Equal(t, 1, stats.Under500k)
	assert.Equal(t, 1, stats.Range500kTo750k)
	assert.Equal(t, 0, stats.Range750kTo1m)
	assert.Equal(t, 0, stats.Over1m)
	assert.Equal(t, 500000, stats.AvgPrice)
	assert.Equal(t, 400000, stats.MinPrice)
	assert.Equal(t, 600000, stats.MaxPrice)
}

func TestAggregate_MedianUsesUpperMiddle(t *testing.T) {
	listings := []models.Listing{
		listing(900000, 0, 0, 0, ""),
		listing(100000, 0, 0, 0, ""),
		listing(300000, 0, 0, 0, ""),
		listing(200000, 0, 0, 0, ""),
	}

	stats := Aggregate(listings, 4)

	assert.Equal(t, 300000, stats.MedianPrice)
	assert.Equal(t, 375000, stats.AvgPrice)
}

func TestAggregate_ActiveListingsComesFromTotal(t *testing.T) {
	listings := []models.Listing{listing(450000, 1500, 3, 2, "")}

	stats := Aggregate(listings, 812)

	assert.Equal(t, 812, stats.ActiveListings)
}

func TestAggregate_PricePerSqftIsMeanOfRatios(t *testing.T) {
	listings := []models.Listing{
		listing(300000, 1000, 2, 1, ""), // 300/sqft
		listing(1000000, 5000, 5, 4, ""), // 200/sqft
	}

	stats := Aggregate(listings, 2)

	// Mean of ratios is 250; total price over total sqft would be 216.
	assert.Equal(t, 250, stats.PricePerSqft)
	assert.Equal(t, 3000, stats.AvgSqft)
}

func TestAggregate_AveragesAndRounding(t *testing.T) {
	listings := []models.Listing{
		days(listing(500000, 0, 3, 2, ""), 10),
		days(listing(500000, 0, 4, 2.5, ""), 15),
		listing(500001, 0, 4, 2, ""),
	}

	stats := Aggregate(listings, 3)

	assert.Equal(t, 8, stats.AvgDaysOnMarket) // 25/3 = 8.33
	assert.Equal(t, 3.7, stats.AvgBedrooms)   // 11/3 = 3.67
	assert.Equal(t, 2.2, stats.AvgBathrooms)  // 6.5/3 = 2.17
	assert.Equal(t, 500000, stats.AvgPrice)
}

func TestAggregate_TierBoundariesAreHalfOpen(t *testing.T) {
	listings := []models.Listing{
		listing(0, 0, 0, 0, ""),
		listing(499999, 0, 0, 0, ""),
		listing(500000, 0, 0, 0, ""),
		listing(749999, 0, 0, 0, ""),
		listing(750000, 0, 0, 0, ""),
		listing(999999, 0, 0, 0, ""),
		listing(1000000, 0, 0, 0, ""),
		listing(4500000, 0, 0, 0, ""),
	}

	stats := Aggregate(listings, len(listings))

	assert.Equal(t, 2, stats.Under500k)
	assert.Equal(t, 2, stats.Range500kTo750k)
	assert.Equal(t, 2, stats.Range750kTo1m)
	assert.Equal(t, 2, stats.Over1m)
}

func TestAggregate_PropertyTypeClassification(t *testing.T) {
	tests := []struct {
		name         string
		propertyType string
		single       int
		condo        int
		town         int
	}{
		{name: "Single family attached", propertyType: "Single Family Attached", single: 1},
		{name: "Exact condo", propertyType: "Condo", condo: 1},
		{name: "Lower case townhouse", propertyType: "townhouse", town: 1},
		{name: "Mixed case", propertyType: "CONDO/Townhome", condo: 1, town: 1},
		{name: "Unrecognized", propertyType: "Mobile Home"},
		{name: "Absent", propertyType: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Aggregate([]models.Listing{listing(350000, 0, 2, 1, tt.propertyType)}, 1)

			assert.Equal(t, tt.single, stats.SingleFamilyCount)
			assert.Equal(t, tt.condo, stats.CondoCount)
			assert.Equal(t, tt.town, stats.TownhouseCount)
		})
	}
}

func TestAggregate_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := 1 + rng.Intn(250)
		listings := make([]models.Listing, n)
		for i := range listings {
			listings[i] = days(listing(rng.Intn(3000000), rng.Intn(4000), float64(rng.Intn(6)), float64(rng.Intn(5)), ""), rng.Intn(120))
		}

		stats := Aggregate(listings, n+rng.Intn(1000))

		require.Equal(t, n, stats.TierTotal())
		require.LessOrEqual(t, stats.MinPrice, stats.MedianPrice)
		require.LessOrEqual(t, stats.MedianPrice, stats.MaxPrice)
		require.LessOrEqual(t, stats.MinPrice, stats.AvgPrice)
		require.LessOrEqual(t, stats.AvgPrice, stats.MaxPrice)
		require.GreaterOrEqual(t, stats.ActiveListings, n)
	}
}

func TestAggregate_DoesNotReorderInput(t *testing.T) {
	listings := []models.Listing{
		listing(900000, 0, 0, 0, ""),
		listing(100000, 0, 0, 0, ""),
	}

	Aggregate(listings, 2)

	assert.Equal(t, 900000, listings[0].Price)
}
