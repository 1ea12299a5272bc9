package listings

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"communityinsights/server/internal/models"
)

type searchResponse struct {
	Count    *int             `json:"count"`
	Listings []listingPayload `json:"listings"`
}

type listingPayload struct {
	ListPrice    flexNumber  `json:"listPrice"`
	DaysOnMarket *flexNumber `json:"daysOnMarket"`
	Details      struct {
		Sqft         flexNumber `json:"sqft"`
		NumBedrooms  flexNumber `json:"numBedrooms"`
		NumBathrooms flexNumber `json:"numBathrooms"`
		PropertyType *string    `json:"propertyType"`
	} `json:"details"`
}

func (p listingPayload) toModel() models.Listing {
	l := models.Listing{
		Price:        int(math.Round(float64(p.ListPrice))),
		Sqft:         int(math.Round(float64(p.Details.Sqft))),
		Bedrooms:     float64(p.Details.NumBedrooms),
		Bathrooms:    float64(p.Details.NumBathrooms),
		PropertyType: p.Details.PropertyType,
	}
	if p.DaysOnMarket != nil {
		days := int(*p.DaysOnMarket)
		l.DaysOnMarket = &days
	}
	return l
}

// flexNumber accepts a JSON number, a numeric string, or a range string such as
// "1500-1999" (the lower bound is used). Anything else decodes as 0.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if i := strings.Index(s, "-"); i > 0 {
		s = s[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = 0
		return nil
	}
	*n = flexNumber(v)
	return nil
}
