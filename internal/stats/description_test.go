package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"communityinsights/server/internal/models"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		stats    *models.CommunityStats
		contains []string
		excludes []string
	}{
		{
			name:     "No stats",
			stats:    nil,
			contains: []string{"Zilker is a sought-after neighborhood in Travis County, located in the greater Austin, Texas metropolitan area."},
			excludes: []string{"active listings"},
		},
		{
			name:     "Empty market",
			stats:    &models.CommunityStats{},
			excludes: []string{"active listings"},
		},
		{
			name: "Affordable and quick",
			stats: &models.CommunityStats{
				ActiveListings: 1204, MedianPrice: 350000, AvgSqft: 1850, AvgBedrooms: 3.2,
				PricePerSqft: 189, AvgDaysOnMarket: 12,
			},
			contains: []string{
				"1,204 active listings with a median home price of $350,000.",
				"one of the more affordable neighborhoods",
				"average 1,850 square feet with 3.2 bedrooms, priced at approximately $189 per square foot.",
				"selling quickly, averaging just 12 days on market",
			},
		},
		{
			name:     "Moderate and active",
			stats:    &models.CommunityStats{ActiveListings: 40, MedianPrice: 599999, AvgDaysOnMarket: 44},
			contains: []string{"moderately priced homes", "selling within 44 days"},
			excludes: []string{"square feet"},
		},
		{
			name:     "Established",
			stats:    &models.CommunityStats{ActiveListings: 5, MedianPrice: 600000, AvgDaysOnMarket: 45},
			contains: []string{"As an established neighborhood", "homes averaging 45 days on market"},
		},
		{
			name:     "Premier",
			stats:    &models.CommunityStats{ActiveListings: 5, MedianPrice: 1000000, AvgDaysOnMarket: 60},
			contains: []string{"premier neighborhoods"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe("Zilker", "Travis", "Austin, Texas", tt.stats)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}
