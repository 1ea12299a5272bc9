package geometry

import (
	"fmt"

	"communityinsights/server/internal/models"
)

// Mode selects how a Resolver narrows the candidate units.
type Mode string

const (
	// ModeAll summarizes every community with the full candidate set.
	ModeAll Mode = "all"
	// ModeBoundingBox keeps units whose bounds overlap the community's bounding box.
	ModeBoundingBox Mode = "bbox"
)

// ParseMode maps a configuration value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll, "":
		return ModeAll, nil
	case ModeBoundingBox:
		return ModeBoundingBox, nil
	}
	return "", fmt.Errorf("unknown unit filter %q", s)
}

// Resolver picks the geographic units to summarize for a community polygon.
type Resolver struct {
	Mode Mode
}

// NewResolver creates a resolver for the given mode.
func NewResolver(mode Mode) *Resolver {
	return &Resolver{Mode: mode}
}

// SelectUnits returns the units for polygon in candidate order. Units with unknown bounds
// are always kept, since they cannot be ruled out.
func (r *Resolver) SelectUnits(polygon models.Polygon, candidates []models.Unit) []models.Unit {
	if r == nil || r.Mode != ModeBoundingBox || len(polygon) == 0 {
		return append([]models.Unit(nil), candidates...)
	}

	box := BoundingBox(polygon)
	selected := make([]models.Unit, 0, len(candidates))
	for _, u := range candidates {
		if u.Bounds == nil || box.Intersects(*u.Bounds) {
			selected = append(selected, u)
		}
	}
	return selected
}

// UnitIDs extracts unit ids in order.
func UnitIDs(units []models.Unit) []string {
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	return ids
}

// UnitsFromIDs wraps plain ids as units with unknown bounds.
func UnitsFromIDs(ids []string) []models.Unit {
	units := make([]models.Unit, len(ids))
	for i, id := range ids {
		units[i] = models.Unit{ID: id}
	}
	return units
}
