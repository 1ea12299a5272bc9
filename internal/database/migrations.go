package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"communityinsights/server/internal/geometry"
	"communityinsights/server/internal/models"
)

// Community is the stored form of a community polygon. The bounding box is kept
// alongside so summaries can be listed without decoding polygons.
type Community struct {
	ID        uint           `gorm:"primaryKey"`
	Slug      string         `gorm:"uniqueIndex;size:100;not null"`
	Name      string         `gorm:"size:255;not null"`
	County    string         `gorm:"size:100"`
	Polygon   models.Polygon `gorm:"serializer:json;not null"`
	MinLat    float64
	MinLng    float64
	MaxLat    float64
	MaxLng    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CensusResponse is a raw census API body cached by request parameters.
type CensusResponse struct {
	CacheKey  string    `gorm:"primaryKey;size:2048"`
	Body      []byte    `gorm:"not null"`
	FetchedAt time.Time `gorm:"index;not null"`
}

var (
	upsertOnSlug = clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "county", "polygon", "min_lat", "min_lng", "max_lat", "max_lng", "updated_at"}),
	}
	upsertOnCacheKey = clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "fetched_at"}),
	}
)

// MigrateSchema creates or updates every table.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(&Community{}, &CensusResponse{})
}

// RunMigrations applies the schema to the open database.
func (d *Database) RunMigrations() error {
	return MigrateSchema(d.db)
}

func newCommunityRecord(c models.Community) Community {
	box := geometry.BoundingBox(c.Polygon)
	return Community{
		Slug:    c.Slug,
		Name:    c.Name,
		County:  c.County,
		Polygon: c.Polygon,
		MinLat:  box.MinLat,
		MinLng:  box.MinLng,
		MaxLat:  box.MaxLat,
		MaxLng:  box.MaxLng,
	}
}

func (c Community) toModel() models.Community {
	return models.Community{
		Slug:    c.Slug,
		Name:    c.Name,
		County:  c.County,
		Polygon: c.Polygon,
	}
}

func (c Community) summary() models.CommunitySummary {
	return models.CommunitySummary{
		Slug:   c.Slug,
		Name:   c.Name,
		County: c.County,
		Bounds: models.Bounds{
			MinLat: c.MinLat,
			MinLng: c.MinLng,
			MaxLat: c.MaxLat,
			MaxLng: c.MaxLng,
		},
	}
}
