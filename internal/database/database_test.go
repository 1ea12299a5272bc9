package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communityinsights/server/internal/models"
)

func setupTestDB(t *testing.T) *Database {
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func community(slug, name string, offset float64) models.Community {
	return models.Community{
		Slug:   slug,
		Name:   name,
		County: "Travis",
		Polygon: models.Polygon{
			{Lng: -97.80 + offset, Lat: 30.20},
			{Lng: -97.70 + offset, Lat: 30.20},
			{Lng: -97.75 + offset, Lat: 30.30},
		},
	}
}

func TestNewDatabase_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "insights.db")

	db, err := NewDatabase(path, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.RunMigrations())
	assert.NoError(t, db.Ping(context.Background()))
	assert.FileExists(t, path)
}

func TestCommunities_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertCommunity(ctx, community("zilker", "Zilker", 0)))

	got, err := db.GetCommunityBySlug(ctx, "zilker")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, community("zilker", "Zilker", 0), *got)

	updated := community("zilker", "Zilker Park", 0.01)
	require.NoError(t, db.UpsertCommunity(ctx, updated))

	got, err = db.GetCommunityBySlug(ctx, "zilker")
	require.NoError(t, err)
	assert.Equal(t, updated, *got)

	all, err := db.ListCommunities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCommunities_Delete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.UpsertCommunity(ctx, community("zilker", "Zilker", 0)))

	deleted, err := db.DeleteCommunity(ctx, "zilker")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = db.DeleteCommunity(ctx, "zilker")
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := db.GetCommunityBySlug(ctx, "zilker")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCommunities_GetMissing(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GetCommunityBySlug(context.Background(), "nowhere")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCommunities_RejectsInvalidPolygon(t *testing.T) {
	db := setupTestDB(t)
	bad := community("bad", "Bad", 0)
	bad.Polygon = bad.Polygon[:2]

	err := db.UpsertCommunity(context.Background(), bad)

	assert.ErrorIs(t, err, models.ErrInvalidPolygon)
}

func TestCommunities_ListOrderedWithBounds(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SeedCommunities(ctx, []models.Community{
		community("mueller", "Mueller", 0.1),
		community("hyde-park", "Hyde Park", 0.05),
		community("circle-c-ranch", "Circle C Ranch", -0.1),
	}))

	summaries, err := db.ListCommunitySummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "circle-c-ranch", summaries[0].Slug)
	assert.Equal(t, "hyde-park", summaries[1].Slug)
	assert.Equal(t, "mueller", summaries[2].Slug)
	assert.InDelta(t, -97.65, summaries[1].Bounds.MaxLng, 1e-9)
	assert.InDelta(t, 30.30, summaries[1].Bounds.MaxLat, 1e-9)

	all, err := db.ListCommunities(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Circle C Ranch", all[0].Name)
	assert.Len(t, all[0].Polygon, 3)
}

func TestSeedCommunities_RollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	bad := community("bad", "Bad", 0)
	bad.Polygon = nil

	err := db.SeedCommunities(ctx, []models.Community{community("zilker", "Zilker", 0), bad})
	require.Error(t, err)

	all, err := db.ListCommunities(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCensusCache(t *testing.T) {
	db := setupTestDB(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }

	body, ok, err := db.GetCachedResponse("k1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, body)

	require.NoError(t, db.PutCachedResponse("k1", []byte(`[["a"]]`)))

	body, ok, err = db.GetCachedResponse("k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[["a"]]`), body)

	now = now.Add(2 * time.Hour)
	_, ok, err = db.GetCachedResponse("k1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "entry older than maxAge is a miss")

	require.NoError(t, db.PutCachedResponse("k1", []byte(`[["b"]]`)))
	body, ok, err = db.GetCachedResponse("k1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[["b"]]`), body)
}

func TestPurgeExpiredResponses(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return now }

	require.NoError(t, db.PutCachedResponse("old", []byte("1")))
	now = now.Add(25 * time.Hour)
	require.NoError(t, db.PutCachedResponse("fresh", []byte("2")))

	removed, err := db.PurgeExpiredResponses(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok, err := db.GetCachedResponse("fresh", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	var count int64
	require.NoError(t, db.db.Model(&CensusResponse{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
