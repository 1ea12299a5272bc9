package listings

import (
	"net/url"
	"strconv"

	"communityinsights/server/internal/models"
)

var rangeParams = map[models.RangeField]string{
	models.RangePrice:        "Price",
	models.RangeBeds:         "Beds",
	models.RangeBaths:        "Baths",
	models.RangeSqft:         "Sqft",
	models.RangeLotSize:      "LotSizeSqft",
	models.RangeStories:      "Stories",
	models.RangeYearBuilt:    "YearBuilt",
	models.RangeGarage:       "GarageSpaces",
	models.RangeHoa:          "MaintenanceFee",
	models.RangePropertyTax:  "Taxes",
	models.RangePricePerSqft: "PricePerSqft",
	models.RangeDaysOnMarket: "Dom",
}

var selectParams = map[models.SelectField]string{
	models.SelectHomeTypes: "propertyType",
	models.SelectStatuses:  "standardStatus",
	models.SelectFeatures:  "amenities",
	models.SelectPoolType:  "swimmingPool",
	models.SelectFinancing: "financing",
}

// encodeFilters writes search constraints as query parameters.
func encodeFilters(q url.Values, filters models.Filters) {
	if filters.ListingType == models.ListingTypeRent {
		q.Set("type", "lease")
	}

	for _, item := range filters.Items {
		switch f := item.(type) {
		case models.RangeFilter:
			stem := rangeParams[f.Field]
			if stem == "" {
				continue
			}
			if f.Min != nil {
				q.Set("min"+stem, formatBound(*f.Min))
			}
			if f.Max != nil {
				q.Set("max"+stem, formatBound(*f.Max))
			}
		case models.MultiSelectFilter:
			name := selectParams[f.Field]
			if name == "" || len(f.Values) == 0 {
				continue
			}
			q.Del(name)
			for _, v := range f.Values {
				q.Add(name, v)
			}
		case models.ToggleFilter:
			q.Set(string(f.Field), strconv.FormatBool(f.Enabled))
		case models.KeywordFilter:
			q.Set("search", f.Keywords)
		}
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
