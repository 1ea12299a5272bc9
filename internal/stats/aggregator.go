// Package stats reduces a sample of listings to a community market summary.
package stats

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"communityinsights/server/internal/models"
)

// Price tier boundaries. Tiers are half-open: [0,500k) [500k,750k) [750k,1m) [1m,∞).
const (
	tier500k = 500000
	tier750k = 750000
	tier1m   = 1000000
)

// Aggregate builds CommunityStats from a listing sample. total is the upstream's reported
// match count and becomes ActiveListings even when the sample is capped below it.
// An empty sample yields all-zero stats.
func Aggregate(listings []models.Listing, total int) models.CommunityStats {
	if len(listings) == 0 {
		return models.CommunityStats{}
	}

	n := float64(len(listings))
	fold := cases.Fold()
	stats := models.CommunityStats{ActiveListings: total}

	prices := make([]int, len(listings))
	var priceSum, daysSum float64
	var bedSum, bathSum float64
	var sqftSum, perSqftSum float64
	var sqftCount int

	for i, l := range listings {
		prices[i] = l.Price
		priceSum += float64(l.Price)
		daysSum += float64(l.Days())
		bedSum += l.Bedrooms
		bathSum += l.Bathrooms

		if l.Sqft > 0 {
			sqftCount++
			sqftSum += float64(l.Sqft)
			perSqftSum += float64(l.Price) / float64(l.Sqft)
		}

		classifyType(&stats, fold, l.Type())
		countTier(&stats, l.Price)
	}

	sort.Ints(prices)
	stats.MedianPrice = prices[len(prices)/2]
	stats.MinPrice = prices[0]
	stats.MaxPrice = prices[len(prices)-1]
	stats.AvgPrice = roundInt(priceSum / n)
	stats.AvgDaysOnMarket = roundInt(daysSum / n)
	stats.AvgBedrooms = roundTenth(bedSum / n)
	stats.AvgBathrooms = roundTenth(bathSum / n)

	if sqftCount > 0 {
		stats.AvgSqft = roundInt(sqftSum / float64(sqftCount))
		stats.PricePerSqft = roundInt(perSqftSum / float64(sqftCount))
	}

	return stats
}

// classifyType counts a listing toward every category whose keyword appears in its type.
func classifyType(stats *models.CommunityStats, fold cases.Caser, propertyType string) {
	if propertyType == "" {
		return
	}
	t := fold.String(propertyType)
	if strings.Contains(t, "single") {
		stats.SingleFamilyCount++
	}
	if strings.Contains(t, "condo") {
		stats.CondoCount++
	}
	if strings.Contains(t, "town") {
		stats.TownhouseCount++
	}
}

func countTier(stats *models.CommunityStats, price int) {
	switch {
	case price < tier500k:
		stats.Under500k++
	case price < tier750k:
		stats.Range500kTo750k++
	case price < tier1m:
		stats.Range750kTo1m++
	default:
		stats.Over1m++
	}
}

// roundInt rounds half up, matching how the figures are shown to users.
func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
