// Package geometry converts community polygons to orb geometries and picks the census
// units a polygon should be summarized with.
package geometry

import (
	"github.com/paulmach/orb"

	"communityinsights/server/internal/models"
)

// ToRing converts a polygon into a closed orb ring.
func ToRing(polygon models.Polygon) orb.Ring {
	if len(polygon) == 0 {
		return nil
	}
	ring := make(orb.Ring, 0, len(polygon)+1)
	for _, c := range polygon {
		ring = append(ring, orb.Point{c.Lng, c.Lat})
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

// FromRing converts an orb ring back into a polygon, dropping the closing vertex.
func FromRing(ring orb.Ring) models.Polygon {
	if len(ring) > 1 && ring.Closed() {
		ring = ring[:len(ring)-1]
	}
	polygon := make(models.Polygon, len(ring))
	for i, p := range ring {
		polygon[i] = models.Coordinate{Lng: p.Lon(), Lat: p.Lat()}
	}
	return polygon
}

// BoundingBox returns the polygon's extent. An empty polygon has zero bounds.
func BoundingBox(polygon models.Polygon) models.Bounds {
	if len(polygon) == 0 {
		return models.Bounds{}
	}
	return fromBound(ToRing(polygon).Bound())
}

// MapCoordinates renders the polygon as [[lng, lat], ...] pairs, the form listing searches
// expect.
func MapCoordinates(polygon models.Polygon) [][2]float64 {
	coords := make([][2]float64, len(polygon))
	for i, c := range polygon {
		coords[i] = [2]float64{c.Lng, c.Lat}
	}
	return coords
}

func fromBound(b orb.Bound) models.Bounds {
	return models.Bounds{
		MinLat: b.Min.Lat(),
		MinLng: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLng: b.Max.Lon(),
	}
}
