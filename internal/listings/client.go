// Package listings searches the MLS listings API for properties inside a polygon.
package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"communityinsights/server/internal/geometry"
	"communityinsights/server/internal/models"
)

// DefaultPageSize is the sample size used for community statistics.
const DefaultPageSize = 200

var ErrUpstreamUnavailable = errors.New("listings api unavailable")

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config defines settings for the listings client.
type Config struct {
	BaseURL  string
	APIKey   string
	PageSize int
	Timeout  time.Duration
}

// SearchParams describes one polygon search.
type SearchParams struct {
	Polygon  models.Polygon
	PageSize int
	// Filters is optional; the zero value searches active sale listings.
	Filters *models.Filters
}

// SearchResult is one page of listings plus the upstream's total match count.
type SearchResult struct {
	Listings []models.Listing `json:"listings"`
	Total    int              `json:"total"`
}

// Client talks to the listings API.
type Client struct {
	config     Config
	httpClient HTTPClient
	logger     *logrus.Logger
}

// NewClient creates a listings client.
func NewClient(cfg Config, httpClient HTTPClient, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.repliers.io"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Search returns the first page of listings inside params.Polygon. Transport failures
// and non-2xx answers wrap ErrUpstreamUnavailable.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if err := params.Polygon.Validate(); err != nil {
		return nil, err
	}

	query, err := c.query(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/listings?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("REPLIERS-API-KEY", c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Warn("Listings search failed")
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrUpstreamUnavailable, err)
	}

	result := &SearchResult{Listings: make([]models.Listing, 0, len(payload.Listings))}
	for _, l := range payload.Listings {
		result.Listings = append(result.Listings, l.toModel())
	}
	result.Total = len(result.Listings)
	if payload.Count != nil {
		result.Total = *payload.Count
	}

	c.logger.WithFields(logrus.Fields{
		"listings": len(result.Listings),
		"total":    result.Total,
		"duration": time.Since(start).String(),
	}).Debug("Listings search completed")

	return result, nil
}

func (c *Client) query(params SearchParams) (url.Values, error) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = c.config.PageSize
	}

	polygon, err := json.Marshal(geometry.MapCoordinates(params.Polygon))
	if err != nil {
		return nil, fmt.Errorf("failed to encode polygon: %w", err)
	}

	q := url.Values{}
	q.Set("map", string(polygon))
	q.Set("resultsPerPage", strconv.Itoa(pageSize))
	q.Set("status", "A")
	q.Set("type", "sale")

	if params.Filters != nil {
		encodeFilters(q, *params.Filters)
	}
	return q, nil
}
