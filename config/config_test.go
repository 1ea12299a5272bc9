package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 200, cfg.Listings.PageSize)
	assert.Equal(t, 50, cfg.Census.BatchSize)
	assert.Equal(t, 86400, cfg.Census.RevalidateSeconds)
	assert.Equal(t, UnitFilterAll, cfg.Census.UnitFilter)
	assert.Equal(t, DefaultUnits(), cfg.Census.Units)
	assert.Equal(t, 2, cfg.BatchProcessing.ProcessorCount)
	assert.Equal(t, 64, cfg.BatchProcessing.WarmQueueSize)
	assert.Equal(t, "24h0m0s", cfg.CensusRevalidate().String())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("CENSUS_API_KEY", "secret")
	t.Setenv("CENSUS_REVALIDATE_SECONDS", "60")
	t.Setenv("CENSUS_UNITS", "78701,78702")
	t.Setenv("CENSUS_UNIT_FILTER", "bbox")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Census.APIKey)
	assert.Equal(t, 60, cfg.Census.RevalidateSeconds)
	assert.Equal(t, []string{"78701", "78702"}, cfg.Census.Units)
	assert.Equal(t, UnitFilterBBox, cfg.Census.UnitFilter)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Listings.PageSize = 200
		cfg.BatchProcessing.ProcessorCount = 2
		cfg.BatchProcessing.WarmQueueSize = 64
		cfg.Census.BatchSize = 50
		cfg.Census.UnitFilter = UnitFilterAll
		cfg.Scheduler.Interval = 60
		return cfg
	}

	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		expectError bool
	}{
		{name: "Valid", mutate: func(cfg *Config) {}},
		{name: "Zero page size", mutate: func(cfg *Config) { cfg.Listings.PageSize = 0 }, expectError: true},
		{name: "Zero workers", mutate: func(cfg *Config) { cfg.BatchProcessing.ProcessorCount = 0 }, expectError: true},
		{name: "Zero warm queue", mutate: func(cfg *Config) { cfg.BatchProcessing.WarmQueueSize = 0 }, expectError: true},
		{name: "Zero batch size", mutate: func(cfg *Config) { cfg.Census.BatchSize = 0 }, expectError: true},
		{name: "Negative revalidate", mutate: func(cfg *Config) { cfg.Census.RevalidateSeconds = -1 }, expectError: true},
		{name: "Zero interval", mutate: func(cfg *Config) { cfg.Scheduler.Interval = 0 }, expectError: true},
		{name: "Unknown unit filter", mutate: func(cfg *Config) { cfg.Census.UnitFilter = "exact" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultUnits_ReturnsCopy(t *testing.T) {
	units := DefaultUnits()
	units[0] = "00000"

	assert.NotEqual(t, "00000", DefaultUnits()[0])
}

func TestParseCommunities(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {"slug": "zilker", "name": "Zilker", "county": "Travis"},
			"geometry": {"type": "Polygon", "coordinates": [[[-97.78, 30.25], [-97.76, 30.26], [-97.75, 30.25], [-97.78, 30.25]]]}
		}]
	}`)

	communities, err := ParseCommunities(data)
	require.NoError(t, err)
	require.Len(t, communities, 1)

	c := communities[0]
	assert.Equal(t, "zilker", c.Slug)
	assert.Equal(t, "Zilker", c.Name)
	assert.Equal(t, "Travis", c.County)
	require.Len(t, c.Polygon, 3, "closing vertex is dropped")
	assert.Equal(t, -97.78, c.Polygon[0].Lng)
	assert.Equal(t, 30.25, c.Polygon[0].Lat)
}

func TestParseCommunities_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "Not GeoJSON", data: `{"type": 12}`},
		{name: "Missing slug", data: `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`},
		{name: "Point geometry", data: `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"slug":"x"},"geometry":{"type":"Point","coordinates":[0,0]}}]}`},
		{name: "Degenerate ring", data: `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"slug":"x"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,0]]]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCommunities([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadCommunities_BundledFile(t *testing.T) {
	communities, err := LoadCommunities("communities.geojson")
	require.NoError(t, err)
	assert.NotEmpty(t, communities)
}
