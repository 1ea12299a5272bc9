package models

// Listing is the subset of an upstream listing the aggregators consume.
type Listing struct {
	Price        int     `json:"price"`
	Sqft         int     `json:"sqft"`
	DaysOnMarket *int    `json:"days_on_market"`
	Bedrooms     float64 `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	PropertyType *string `json:"property_type"`
}

// Days returns the days on market, treating a missing value as zero.
func (l Listing) Days() int {
	if l.DaysOnMarket == nil {
		return 0
	}
	return *l.DaysOnMarket
}

// Type returns the raw property type or "" when absent.
func (l Listing) Type() string {
	if l.PropertyType == nil {
		return ""
	}
	return *l.PropertyType
}

// CommunityStats is the market summary for the listings inside a community.
type CommunityStats struct {
	// Market stats
	ActiveListings  int `json:"activeListings"`
	MedianPrice     int `json:"medianPrice"`
	AvgPrice        int `json:"avgPrice"`
	PricePerSqft    int `json:"pricePerSqft"`
	AvgDaysOnMarket int `json:"avgDaysOnMarket"`

	// Price range
	MinPrice int `json:"minPrice"`
	MaxPrice int `json:"maxPrice"`

	// Property mix
	SingleFamilyCount int `json:"singleFamilyCount"`
	CondoCount        int `json:"condoCount"`
	TownhouseCount    int `json:"townhouseCount"`

	// Size stats
	AvgBedrooms  float64 `json:"avgBedrooms"`
	AvgBathrooms float64 `json:"avgBathrooms"`
	AvgSqft      int     `json:"avgSqft"`

	// Price tiers
	Under500k       int `json:"under500k"`
	Range500kTo750k int `json:"range500kTo750k"`
	Range750kTo1m   int `json:"range750kTo1m"`
	Over1m          int `json:"over1m"`
}

// TierTotal is the number of listings counted across the four price tiers.
func (s CommunityStats) TierTotal() int {
	return s.Under500k + s.Range500kTo750k + s.Range750kTo1m + s.Over1m
}
