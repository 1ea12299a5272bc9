package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters()

	assert.Equal(t, ListingTypeSale, f.ListingType)
	assert.Contains(t, f.Items, Filter(MultiSelectFilter{Field: SelectStatuses, Values: []string{"Active", "Coming Soon"}}))
	assert.Contains(t, f.Items, Filter(ToggleFilter{Field: ToggleByOwner, Enabled: true}))
	assert.NoError(t, f.Validate())
}

func TestFilters_SetReplacesSameField(t *testing.T) {
	f := Filters{ListingType: ListingTypeSale}
	lo, hi := 100000.0, 500000.0

	f.Set(RangeFilter{Field: RangePrice, Min: &lo})
	f.Set(RangeFilter{Field: RangePrice, Max: &hi})
	f.Set(RangeFilter{Field: RangeBeds, Min: &lo})

	require.Len(t, f.Items, 2)
	price := f.Items[0].(RangeFilter)
	assert.Nil(t, price.Min)
	assert.Equal(t, hi, *price.Max)
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		expectError bool
		check       func(t *testing.T, f Filters)
	}{
		{
			name:  "Defaults only",
			query: "",
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, DefaultFilters(), f)
			},
		},
		{
			name:  "Price range and beds",
			query: "minPrice=300000&maxPrice=750000&minBeds=3",
			check: func(t *testing.T, f Filters) {
				assert.Contains(t, f.Items, Filter(RangeFilter{Field: RangePrice, Min: ptr(300000), Max: ptr(750000)}))
				assert.Contains(t, f.Items, Filter(RangeFilter{Field: RangeBeds, Min: ptr(3)}))
			},
		},
		{
			name:  "Multi select overrides default statuses",
			query: "statuses=Pending&homeTypes=Condo,Townhouse",
			check: func(t *testing.T, f Filters) {
				assert.Contains(t, f.Items, Filter(MultiSelectFilter{Field: SelectStatuses, Values: []string{"Pending"}}))
				assert.Contains(t, f.Items, Filter(MultiSelectFilter{Field: SelectHomeTypes, Values: []string{"Condo", "Townhouse"}}))
			},
		},
		{
			name:  "Toggles and keywords",
			query: "listingType=rent&byOwner=false&openHouseOnly=true&keywords=pool",
			check: func(t *testing.T, f Filters) {
				assert.Equal(t, ListingTypeRent, f.ListingType)
				assert.Contains(t, f.Items, Filter(ToggleFilter{Field: ToggleByOwner, Enabled: false}))
				assert.Contains(t, f.Items, Filter(ToggleFilter{Field: ToggleOpenHouseOnly, Enabled: true}))
				assert.Contains(t, f.Items, Filter(KeywordFilter{Keywords: "pool"}))
			},
		},
		{
			name:        "Inverted range",
			query:       "minPrice=900000&maxPrice=100000",
			expectError: true,
		},
		{
			name:        "Non numeric bound",
			query:       "minSqft=big",
			expectError: true,
		},
		{
			name:        "Unknown listing type",
			query:       "listingType=auction",
			expectError: true,
		},
		{
			name:        "Bad toggle",
			query:       "priceReduced=maybe",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			f, err := ParseFilters(values)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, f)
		})
	}
}

func TestBounds_Intersects(t *testing.T) {
	a := Bounds{MinLat: 30.0, MinLng: -98.0, MaxLat: 30.5, MaxLng: -97.5}

	assert.True(t, a.Intersects(Bounds{MinLat: 30.4, MinLng: -97.6, MaxLat: 31, MaxLng: -97}))
	assert.True(t, a.Intersects(Bounds{MinLat: 30.5, MinLng: -97.5, MaxLat: 31, MaxLng: -97}), "touching corners count")
	assert.False(t, a.Intersects(Bounds{MinLat: 31, MinLng: -98, MaxLat: 32, MaxLng: -97.5}))
}

func TestPolygon_Validate(t *testing.T) {
	assert.ErrorIs(t, Polygon{{Lng: 1, Lat: 1}, {Lng: 2, Lat: 2}}.Validate(), ErrInvalidPolygon)
	assert.NoError(t, Polygon{{Lng: 1, Lat: 1}, {Lng: 2, Lat: 2}, {Lng: 1, Lat: 2}}.Validate())
}

func ptr(v float64) *float64 {
	return &v
}
