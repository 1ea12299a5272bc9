package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"communityinsights/server/internal/geometry"
	"communityinsights/server/internal/models"
)

// LoadCommunities reads community polygons from a GeoJSON FeatureCollection. Each
// feature needs a Polygon geometry and "slug", "name" and "county" properties; only the
// outer ring is used.
func LoadCommunities(path string) ([]models.Community, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read communities file: %w", err)
	}

	return ParseCommunities(data)
}

// ParseCommunities decodes a GeoJSON FeatureCollection of community polygons.
func ParseCommunities(data []byte) ([]models.Community, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse communities: %w", err)
	}

	communities := make([]models.Community, 0, len(fc.Features))
	for i, feature := range fc.Features {
		slug := feature.Properties.MustString("slug", "")
		if slug == "" {
			return nil, fmt.Errorf("community feature %d has no slug", i)
		}

		poly, ok := feature.Geometry.(orb.Polygon)
		if !ok || len(poly) == 0 {
			return nil, fmt.Errorf("community %s: geometry must be a Polygon", slug)
		}

		community := models.Community{
			Slug:    slug,
			Name:    feature.Properties.MustString("name", slug),
			County:  feature.Properties.MustString("county", ""),
			Polygon: geometry.FromRing(poly[0]),
		}
		if err := community.Polygon.Validate(); err != nil {
			return nil, fmt.Errorf("community %s: %w", slug, err)
		}
		communities = append(communities, community)
	}
	return communities, nil
}
