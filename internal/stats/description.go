package stats

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"communityinsights/server/internal/models"
)

// Describe writes a short market narrative for a community. stats may be nil when
// listings could not be loaded; the narrative then only introduces the community.
func Describe(name, county, metro string, stats *models.CommunityStats) string {
	p := message.NewPrinter(language.AmericanEnglish)
	var parts []string

	parts = append(parts, p.Sprintf("%s is a sought-after neighborhood in %s County, located in the greater %s metropolitan area.", name, county, metro))

	if stats != nil && stats.ActiveListings > 0 {
		parts = append(parts, p.Sprintf("The %s real estate market currently has %d active listings with a median home price of $%d.",
			name, stats.ActiveListings, stats.MedianPrice))

		switch {
		case stats.MedianPrice < 400000:
			parts = append(parts, p.Sprintf("This makes %s one of the more affordable neighborhoods in the area, offering great value for homebuyers.", name))
		case stats.MedianPrice < 600000:
			parts = append(parts, p.Sprintf("%s offers moderately priced homes compared to the broader market, attracting a mix of first-time buyers and growing families.", name))
		case stats.MedianPrice < 1000000:
			parts = append(parts, p.Sprintf("As an established neighborhood, %s features homes that reflect the area's desirability and strong market fundamentals.", name))
		default:
			parts = append(parts, p.Sprintf("%s is one of the area's premier neighborhoods, featuring luxury homes and an exceptional quality of life.", name))
		}

		if stats.AvgSqft > 0 {
			parts = append(parts, p.Sprintf("Homes in %s average %d square feet with %v bedrooms, priced at approximately $%d per square foot.",
				name, stats.AvgSqft, stats.AvgBedrooms, stats.PricePerSqft))
		}

		switch {
		case stats.AvgDaysOnMarket < 20:
			parts = append(parts, p.Sprintf("Properties in %s are selling quickly, averaging just %d days on market, a sign of strong buyer demand.", name, stats.AvgDaysOnMarket))
		case stats.AvgDaysOnMarket < 45:
			parts = append(parts, p.Sprintf("The market in %s is active, with homes typically selling within %d days.", name, stats.AvgDaysOnMarket))
		default:
			parts = append(parts, p.Sprintf("Buyers have time to carefully consider their options, with homes averaging %d days on market.", stats.AvgDaysOnMarket))
		}
	}

	return strings.Join(parts, " ")
}
