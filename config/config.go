package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Unit selection modes for the census resolver.
const (
	UnitFilterAll  = "all"
	UnitFilterBBox = "bbox"
)

type Config struct {
	Server struct {
		Port           string   `env:"PORT" envDefault:"5250"`
		GinMode        string   `env:"GIN_MODE" envDefault:"release"`
		LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

		// Bearer token for community management routes; empty disables them
		AdminToken string `env:"ADMIN_TOKEN"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/insights.db"`
	}

	Communities struct {
		// GeoJSON FeatureCollection seeded into the database at startup
		File string `env:"COMMUNITIES_FILE" envDefault:"config/communities.geojson"`

		// Metropolitan area named in generated descriptions
		MetroName string `env:"METRO_NAME" envDefault:"Austin, Texas"`
	}

	Listings struct {
		BaseURL  string `env:"LISTINGS_API_URL" envDefault:"https://api.repliers.io"`
		APIKey   string `env:"LISTINGS_API_KEY"`
		PageSize int    `env:"LISTINGS_PAGE_SIZE" envDefault:"200"`

		// Request timeout in seconds
		Timeout int `env:"LISTINGS_TIMEOUT" envDefault:"15"`
	}

	Census struct {
		BaseURL string `env:"CENSUS_API_URL" envDefault:"https://api.census.gov/data/2022/acs/acs5"`

		// Optional; lifts the anonymous rate limit
		APIKey string `env:"CENSUS_API_KEY"`

		// How long a cached response stays fresh
		RevalidateSeconds int `env:"CENSUS_REVALIDATE_SECONDS" envDefault:"86400"`

		// Units per request, capped at 50 by the API
		BatchSize int `env:"CENSUS_BATCH_SIZE" envDefault:"50"`

		// Request timeout in seconds
		Timeout int `env:"CENSUS_TIMEOUT" envDefault:"15"`

		// Candidate units; empty means DefaultUnits
		Units []string `env:"CENSUS_UNITS" envSeparator:","`

		// Optional ZCTA shapefile providing unit bounds
		UnitsShapefile string `env:"CENSUS_UNITS_SHAPEFILE"`
		UnitIDField    string `env:"CENSUS_UNIT_ID_FIELD" envDefault:"ZCTA5CE20"`

		// "all" keeps every candidate, "bbox" drops units whose bounds miss the community
		UnitFilter string `env:"CENSUS_UNIT_FILTER" envDefault:"all"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Number of census batches fetched concurrently
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Communities waiting for a background census warm-up
		WarmQueueSize int `env:"WARM_QUEUE_SIZE" envDefault:"64"`
	}

	Scheduler struct {
		// Minutes between cache purge and prewarm runs
		Interval int `env:"SCHEDULER_INTERVAL" envDefault:"60"`
	}
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if len(cfg.Census.Units) == 0 {
		cfg.Census.Units = DefaultUnits()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.Listings.PageSize <= 0 {
		return fmt.Errorf("LISTINGS_PAGE_SIZE must be positive, got %d", c.Listings.PageSize)
	}
	if c.BatchProcessing.ProcessorCount <= 0 {
		return fmt.Errorf("BATCH_PROCESSOR_COUNT must be positive, got %d", c.BatchProcessing.ProcessorCount)
	}
	if c.BatchProcessing.WarmQueueSize <= 0 {
		return fmt.Errorf("WARM_QUEUE_SIZE must be positive, got %d", c.BatchProcessing.WarmQueueSize)
	}
	if c.Census.BatchSize <= 0 {
		return fmt.Errorf("CENSUS_BATCH_SIZE must be positive, got %d", c.Census.BatchSize)
	}
	if c.Census.RevalidateSeconds < 0 {
		return fmt.Errorf("CENSUS_REVALIDATE_SECONDS must not be negative, got %d", c.Census.RevalidateSeconds)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive, got %d", c.Scheduler.Interval)
	}
	switch c.Census.UnitFilter {
	case UnitFilterAll, UnitFilterBBox:
	default:
		return fmt.Errorf("unknown CENSUS_UNIT_FILTER %q", c.Census.UnitFilter)
	}
	return nil
}

// CensusRevalidate is the cache staleness tolerance.
func (c *Config) CensusRevalidate() time.Duration {
	return time.Duration(c.Census.RevalidateSeconds) * time.Second
}

// SchedulerInterval is the time between scheduler runs.
func (c *Config) SchedulerInterval() time.Duration {
	return time.Duration(c.Scheduler.Interval) * time.Minute
}
