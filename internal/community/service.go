// Package community answers market and demographic questions about a named community by
// combining its stored polygon with the listings and census services.
package community

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"communityinsights/server/internal/census"
	"communityinsights/server/internal/geometry"
	"communityinsights/server/internal/listings"
	"communityinsights/server/internal/models"
	"communityinsights/server/internal/stats"
)

var ErrNotFound = errors.New("community not found")

// Store loads community polygons.
type Store interface {
	GetCommunityBySlug(ctx context.Context, slug string) (*models.Community, error)
	ListCommunitySummaries(ctx context.Context) ([]models.CommunitySummary, error)
}

// ListingSource searches listings inside a polygon.
type ListingSource interface {
	Search(ctx context.Context, params listings.SearchParams) (*listings.SearchResult, error)
}

// DemographicsSource merges census data for a set of units.
type DemographicsSource interface {
	Demographics(ctx context.Context, units []string) (*models.DemographicData, error)
}

// Options configures a Service.
type Options struct {
	Units     []models.Unit
	Resolver  *geometry.Resolver
	MetroName string
	PageSize  int
}

// Service combines community polygons with listing and census data.
type Service struct {
	store        Store
	listings     ListingSource
	demographics DemographicsSource
	resolver     *geometry.Resolver
	units        []models.Unit
	metro        string
	pageSize     int
	logger       *logrus.Logger
}

// NewService creates a community service.
func NewService(store Store, listingSource ListingSource, demographics DemographicsSource, opts Options, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if opts.Resolver == nil {
		opts.Resolver = geometry.NewResolver(geometry.ModeAll)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = listings.DefaultPageSize
	}
	return &Service{
		store:        store,
		listings:     listingSource,
		demographics: demographics,
		resolver:     opts.Resolver,
		units:        opts.Units,
		metro:        opts.MetroName,
		pageSize:     opts.PageSize,
		logger:       logger,
	}
}

// IsUpstreamError reports whether err came from an unreachable or failing external API.
func IsUpstreamError(err error) bool {
	return errors.Is(err, listings.ErrUpstreamUnavailable) || errors.Is(err, census.ErrUpstreamUnavailable)
}

// Get returns the community with slug, or ErrNotFound.
func (s *Service) Get(ctx context.Context, slug string) (*models.Community, error) {
	c, err := s.store.GetCommunityBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return c, nil
}

// List returns every community's summary.
func (s *Service) List(ctx context.Context) ([]models.CommunitySummary, error) {
	return s.store.ListCommunitySummaries(ctx)
}

// Stats summarizes the current listings inside the community.
func (s *Service) Stats(ctx context.Context, slug string) (models.CommunityStats, error) {
	c, err := s.Get(ctx, slug)
	if err != nil {
		return models.CommunityStats{}, err
	}
	return s.stats(ctx, c)
}

func (s *Service) stats(ctx context.Context, c *models.Community) (models.CommunityStats, error) {
	result, err := s.listings.Search(ctx, listings.SearchParams{
		Polygon:  c.Polygon,
		PageSize: s.pageSize,
	})
	if err != nil {
		return models.CommunityStats{}, fmt.Errorf("failed to search listings for %s: %w", c.Slug, err)
	}
	return stats.Aggregate(result.Listings, result.Total), nil
}

// Demographics merges census data for the units covering the community. It returns nil
// when no unit reports any population.
func (s *Service) Demographics(ctx context.Context, slug string) (*models.DemographicData, error) {
	c, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.demographicsFor(ctx, c)
}

func (s *Service) demographicsFor(ctx context.Context, c *models.Community) (*models.DemographicData, error) {
	units := s.resolver.SelectUnits(c.Polygon, s.units)
	s.logger.WithFields(logrus.Fields{
		"community": c.Slug,
		"units":     len(units),
		"mode":      s.resolver.Mode,
	}).Debug("Resolved census units")

	data, err := s.demographics.Demographics(ctx, geometry.UnitIDs(units))
	if err != nil {
		return nil, fmt.Errorf("failed to load demographics for %s: %w", c.Slug, err)
	}
	return data, nil
}

// Insights gathers stats, demographics and a generated description. A listings failure
// fails the whole call; a demographics failure leaves Demographics nil.
func (s *Service) Insights(ctx context.Context, slug string) (*models.CommunityInsights, error) {
	c, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	var (
		wg      sync.WaitGroup
		demo    *models.DemographicData
		demoErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		demo, demoErr = s.demographicsFor(ctx, c)
	}()

	st, err := s.stats(ctx, c)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	if demoErr != nil {
		s.logger.WithError(demoErr).WithField("community", slug).Warn("Demographics unavailable")
		demo = nil
	}

	return &models.CommunityInsights{
		Community: models.CommunitySummary{
			Slug:   c.Slug,
			Name:   c.Name,
			County: c.County,
			Bounds: geometry.BoundingBox(c.Polygon),
		},
		Stats:        st,
		Demographics: demo,
		Description:  stats.Describe(c.Name, c.County, s.metro, &st),
	}, nil
}

// Search returns a filtered listing sample inside the community.
func (s *Service) Search(ctx context.Context, slug string, filters models.Filters) (*listings.SearchResult, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	result, err := s.listings.Search(ctx, listings.SearchParams{
		Polygon:  c.Polygon,
		PageSize: s.pageSize,
		Filters:  &filters,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search listings for %s: %w", slug, err)
	}
	return result, nil
}

// Prewarm loads demographics for every stored community so later requests hit the cache.
// Failures are logged and do not stop the loop.
func (s *Service) Prewarm(ctx context.Context) (int, error) {
	summaries, err := s.store.ListCommunitySummaries(ctx)
	if err != nil {
		return 0, err
	}

	warmed := 0
	for _, summary := range summaries {
		if ctx.Err() != nil {
			return warmed, ctx.Err()
		}
		if _, err := s.Demographics(ctx, summary.Slug); err != nil {
			s.logger.WithError(err).WithField("community", summary.Slug).Warn("Failed to prewarm demographics")
			continue
		}
		warmed++
	}
	return warmed, nil
}
