package geometry

import (
	"fmt"
	"strings"

	shp "github.com/jonas-p/go-shp"

	"communityinsights/server/internal/models"
)

// DefaultUnitIDField is the ZCTA id attribute in the 2020 TIGER/Line shapefiles.
const DefaultUnitIDField = "ZCTA5CE20"

// LoadUnitsFromShapefile reads polygon records from a shapefile and returns one unit per
// record, keyed by the idField attribute, with the record's bounding box.
func LoadUnitsFromShapefile(path, idField string) ([]models.Unit, error) {
	if idField == "" {
		idField = DefaultUnitIDField
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer r.Close()

	column := -1
	for i, f := range r.Fields() {
		if strings.EqualFold(f.String(), idField) {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, fmt.Errorf("shapefile %s has no %s attribute", path, idField)
	}

	var units []models.Unit
	for r.Next() {
		idx, shape := r.Shape()
		if _, ok := shape.(*shp.Polygon); !ok {
			continue
		}

		id := strings.TrimSpace(r.ReadAttribute(idx, column))
		if id == "" {
			continue
		}

		box := shape.BBox()
		units = append(units, models.Unit{
			ID: id,
			Bounds: &models.Bounds{
				MinLat: box.MinY,
				MinLng: box.MinX,
				MaxLat: box.MaxY,
				MaxLng: box.MaxX,
			},
		})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shapefile: %w", err)
	}
	return units, nil
}
