package models

import "errors"

// Coordinate is a single polygon vertex in WGS 84.
type Coordinate struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Polygon is an implicitly closed ring of coordinates.
type Polygon []Coordinate

var ErrInvalidPolygon = errors.New("polygon requires at least 3 vertices")

// Validate checks that the polygon has enough vertices to enclose an area.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return ErrInvalidPolygon
	}
	return nil
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Intersects reports whether two boxes overlap, touching edges included.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat &&
		b.MinLng <= o.MaxLng && o.MinLng <= b.MaxLng
}

// Community is a named neighborhood polygon.
type Community struct {
	Slug    string  `json:"slug"`
	Name    string  `json:"name"`
	County  string  `json:"county"`
	Polygon Polygon `json:"polygon"`
}

// CommunitySummary is the listing view of a community.
type CommunitySummary struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	County string `json:"county"`
	Bounds Bounds `json:"bounds"`
}

// Unit is a geographic unit (a zip code tabulation area) keyed for census lookups.
// Bounds is nil when the unit's extent is unknown.
type Unit struct {
	ID     string  `json:"id"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// CommunityInsights bundles everything the community page shows.
type CommunityInsights struct {
	Community    CommunitySummary `json:"community"`
	Stats        CommunityStats   `json:"stats"`
	Demographics *DemographicData `json:"demographics"`
	Description  string           `json:"description"`
}
