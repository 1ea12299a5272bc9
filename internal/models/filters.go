package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ListingType selects between sale and rental listings.
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// RangeField names a numeric attribute that can be bounded. The value doubles as the
// query parameter stem: minPrice / maxPrice.
type RangeField string

const (
	RangePrice        RangeField = "Price"
	RangeBeds         RangeField = "Beds"
	RangeBaths        RangeField = "Baths"
	RangeSqft         RangeField = "Sqft"
	RangeLotSize      RangeField = "LotSize"
	RangeStories      RangeField = "Stories"
	RangeYearBuilt    RangeField = "YearBuilt"
	RangeGarage       RangeField = "Garage"
	RangeHoa          RangeField = "Hoa"
	RangePropertyTax  RangeField = "PropertyTax"
	RangePricePerSqft RangeField = "PricePerSqft"
	RangeDaysOnMarket RangeField = "DaysOnMarket"
)

// RangeFields lists every supported range field.
var RangeFields = []RangeField{
	RangePrice, RangeBeds, RangeBaths, RangeSqft, RangeLotSize, RangeStories,
	RangeYearBuilt, RangeGarage, RangeHoa, RangePropertyTax, RangePricePerSqft, RangeDaysOnMarket,
}

// SelectField names a multi-valued attribute.
type SelectField string

const (
	SelectHomeTypes SelectField = "homeTypes"
	SelectStatuses  SelectField = "statuses"
	SelectFeatures  SelectField = "features"
	SelectPoolType  SelectField = "poolType"
	SelectFinancing SelectField = "financing"
)

var SelectFields = []SelectField{
	SelectHomeTypes, SelectStatuses, SelectFeatures, SelectPoolType, SelectFinancing,
}

// ToggleField names a boolean listing attribute.
type ToggleField string

const (
	TogglePriceReduced          ToggleField = "priceReduced"
	ToggleByAgent               ToggleField = "byAgent"
	ToggleByOwner               ToggleField = "byOwner"
	ToggleNewConstruction       ToggleField = "newConstruction"
	ToggleForeclosures          ToggleField = "foreclosures"
	ToggleExcludeShortSales     ToggleField = "excludeShortSales"
	ToggleOpenHouseOnly         ToggleField = "openHouseOnly"
	ToggleVirtualTourOnly       ToggleField = "virtualTourOnly"
	ToggleExclude55Plus         ToggleField = "exclude55Plus"
	ToggleIncludeOutdoorParking ToggleField = "includeOutdoorParking"
)

var ToggleFields = []ToggleField{
	TogglePriceReduced, ToggleByAgent, ToggleByOwner, ToggleNewConstruction, ToggleForeclosures,
	ToggleExcludeShortSales, ToggleOpenHouseOnly, ToggleVirtualTourOnly, ToggleExclude55Plus,
	ToggleIncludeOutdoorParking,
}

// Filter is one search constraint. The set of implementations is closed:
// RangeFilter, MultiSelectFilter, ToggleFilter and KeywordFilter.
type Filter interface {
	filterKey() string
}

// RangeFilter bounds a numeric field; a nil end is open.
type RangeFilter struct {
	Field RangeField `json:"field"`
	Min   *float64   `json:"min,omitempty"`
	Max   *float64   `json:"max,omitempty"`
}

func (f RangeFilter) filterKey() string { return "range:" + string(f.Field) }

// MultiSelectFilter matches any of the given values.
type MultiSelectFilter struct {
	Field  SelectField `json:"field"`
	Values []string    `json:"values"`
}

func (f MultiSelectFilter) filterKey() string { return "select:" + string(f.Field) }

// ToggleFilter switches a boolean attribute on or off.
type ToggleFilter struct {
	Field   ToggleField `json:"field"`
	Enabled bool        `json:"enabled"`
}

func (f ToggleFilter) filterKey() string { return "toggle:" + string(f.Field) }

// KeywordFilter is a free-text search over listing remarks.
type KeywordFilter struct {
	Keywords string `json:"keywords"`
}

func (f KeywordFilter) filterKey() string { return "keywords" }

// Filters is a full search request: the listing type plus a set of constraints with at
// most one constraint per field.
type Filters struct {
	ListingType ListingType `json:"listing_type"`
	Items       []Filter    `json:"items"`
}

// DefaultFilters mirrors the search page defaults.
func DefaultFilters() Filters {
	f := Filters{ListingType: ListingTypeSale}
	f.Set(MultiSelectFilter{Field: SelectStatuses, Values: []string{"Active", "Coming Soon"}})
	f.Set(ToggleFilter{Field: ToggleByAgent, Enabled: true})
	f.Set(ToggleFilter{Field: ToggleByOwner, Enabled: true})
	f.Set(ToggleFilter{Field: ToggleNewConstruction, Enabled: true})
	f.Set(ToggleFilter{Field: ToggleForeclosures, Enabled: true})
	return f
}

// Set adds a constraint, replacing any existing constraint on the same field.
func (f *Filters) Set(filter Filter) {
	for i, existing := range f.Items {
		if existing.filterKey() == filter.filterKey() {
			f.Items[i] = filter
			return
		}
	}
	f.Items = append(f.Items, filter)
}

// Validate rejects unknown listing types and inverted ranges.
func (f Filters) Validate() error {
	if f.ListingType != ListingTypeSale && f.ListingType != ListingTypeRent {
		return fmt.Errorf("invalid listing type: %q", f.ListingType)
	}
	for _, item := range f.Items {
		if r, ok := item.(RangeFilter); ok && r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return fmt.Errorf("invalid %s range: min %v is greater than max %v", r.Field, *r.Min, *r.Max)
		}
	}
	return nil
}

// ParseFilters reads search constraints from query parameters on top of DefaultFilters.
func ParseFilters(values url.Values) (Filters, error) {
	f := DefaultFilters()

	if lt := values.Get("listingType"); lt != "" {
		f.ListingType = ListingType(strings.ToLower(lt))
	}

	for _, field := range RangeFields {
		lo, err := parseBound(values, "min"+string(field))
		if err != nil {
			return Filters{}, err
		}
		hi, err := parseBound(values, "max"+string(field))
		if err != nil {
			return Filters{}, err
		}
		if lo != nil || hi != nil {
			f.Set(RangeFilter{Field: field, Min: lo, Max: hi})
		}
	}

	for _, field := range SelectFields {
		raw, ok := values[string(field)]
		if !ok {
			continue
		}
		var selected []string
		for _, v := range raw {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					selected = append(selected, part)
				}
			}
		}
		f.Set(MultiSelectFilter{Field: field, Values: selected})
	}

	for _, field := range ToggleFields {
		raw := values.Get(string(field))
		if raw == "" {
			continue
		}
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return Filters{}, fmt.Errorf("invalid %s: %w", field, err)
		}
		f.Set(ToggleFilter{Field: field, Enabled: enabled})
	}

	if kw := strings.TrimSpace(values.Get("keywords")); kw != "" {
		f.Set(KeywordFilter{Keywords: kw})
	}

	if err := f.Validate(); err != nil {
		return Filters{}, err
	}
	return f, nil
}

func parseBound(values url.Values, key string) (*float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}
