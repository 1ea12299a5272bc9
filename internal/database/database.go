package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"communityinsights/server/internal/models"
)

// Database wraps the sqlite store holding communities and cached census responses.
type Database struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDatabase opens (creating if needed) the sqlite file at dbPath.
func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger: newGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{db: db, now: time.Now}, nil
}

// NewTestDB opens a private in-memory database with the schema applied.
func NewTestDB() (*Database, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Every new connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := MigrateSchema(db); err != nil {
		return nil, err
	}
	return &Database{db: db, now: time.Now}, nil
}

func newGormLogger(logger *logrus.Logger) gormlogger.Interface {
	if logger == nil {
		return gormlogger.Default.LogMode(gormlogger.Warn)
	}
	return gormlogger.New(logger, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// UpsertCommunity inserts a community or replaces the stored one with the same slug.
func (d *Database) UpsertCommunity(ctx context.Context, c models.Community) error {
	if err := c.Polygon.Validate(); err != nil {
		return fmt.Errorf("community %s: %w", c.Slug, err)
	}

	record := newCommunityRecord(c)
	err := d.db.WithContext(ctx).Clauses(upsertOnSlug).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert community %s: %w", c.Slug, err)
	}
	return nil
}

// GetCommunityBySlug returns nil, nil when no community has the slug.
func (d *Database) GetCommunityBySlug(ctx context.Context, slug string) (*models.Community, error) {
	var record Community
	err := d.db.WithContext(ctx).Where("slug = ?", slug).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load community %s: %w", slug, err)
	}
	c := record.toModel()
	return &c, nil
}

// ListCommunities returns every community ordered by name.
func (d *Database) ListCommunities(ctx context.Context) ([]models.Community, error) {
	var records []Community
	if err := d.db.WithContext(ctx).Order("name, slug").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}

	communities := make([]models.Community, len(records))
	for i, r := range records {
		communities[i] = r.toModel()
	}
	return communities, nil
}

// ListCommunitySummaries returns the listing view without loading polygons into callers.
func (d *Database) ListCommunitySummaries(ctx context.Context) ([]models.CommunitySummary, error) {
	var records []Community
	err := d.db.WithContext(ctx).
		Select("slug", "name", "county", "min_lat", "min_lng", "max_lat", "max_lng").
		Order("name, slug").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}

	summaries := make([]models.CommunitySummary, len(records))
	for i, r := range records {
		summaries[i] = r.summary()
	}
	return summaries, nil
}

// DeleteCommunity removes the community with slug and reports whether it existed.
func (d *Database) DeleteCommunity(ctx context.Context, slug string) (bool, error) {
	result := d.db.WithContext(ctx).Where("slug = ?", slug).Delete(&Community{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete community %s: %w", slug, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetCachedResponse returns the body stored under key if it is younger than maxAge.
func (d *Database) GetCachedResponse(key string, maxAge time.Duration) ([]byte, bool, error) {
	var entry CensusResponse
	err := d.db.Where("cache_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached response: %w", err)
	}
	if d.now().Sub(entry.FetchedAt) >= maxAge {
		return nil, false, nil
	}
	return entry.Body, true, nil
}

// PutCachedResponse stores body under key, replacing any older entry.
func (d *Database) PutCachedResponse(key string, body []byte) error {
	entry := CensusResponse{CacheKey: key, Body: body, FetchedAt: d.now().UTC()}
	if err := d.db.Clauses(upsertOnCacheKey).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// PurgeExpiredResponses deletes cache entries older than maxAge and reports how many
// were removed. Timestamps are stored in UTC so the text comparison sqlite performs
// orders them correctly.
func (d *Database) PurgeExpiredResponses(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := d.now().UTC().Add(-maxAge)
	result := d.db.WithContext(ctx).Where("fetched_at < ?", cutoff).Delete(&CensusResponse{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge cached responses: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SeedCommunities upserts every community, stopping at the first failure.
func (d *Database) SeedCommunities(ctx context.Context, communities []models.Community) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range communities {
			if err := c.Polygon.Validate(); err != nil {
				return fmt.Errorf("community %s: %w", c.Slug, err)
			}
			record := newCommunityRecord(c)
			if err := tx.Clauses(upsertOnSlug).Create(&record).Error; err != nil {
				return fmt.Errorf("failed to seed community %s: %w", c.Slug, err)
			}
		}
		return nil
	})
}
