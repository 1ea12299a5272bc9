package census

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"communityinsights/server/internal/models"
	"communityinsights/server/internal/processor"
)

// MaxBatchSize is the most units the API accepts in one request.
const MaxBatchSize = 50

var ErrUpstreamUnavailable = errors.New("census api unavailable")

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResponseCache stores raw API responses keyed by request parameters.
type ResponseCache interface {
	GetCachedResponse(key string, maxAge time.Duration) ([]byte, bool, error)
	PutCachedResponse(key string, body []byte) error
}

// Config defines settings for the census client.
type Config struct {
	BaseURL string
	APIKey  string

	// Cached responses younger than this are reused; 0 disables caching.
	RevalidateSeconds int

	BatchSize int
	Timeout   time.Duration
}

// Client fetches survey rows for geographic units.
type Client struct {
	config     Config
	httpClient HTTPClient
	cache      ResponseCache
	processor  *processor.BatchProcessor
	logger     *logrus.Logger
}

// NewClient creates a census client. cache may be nil.
func NewClient(cfg Config, httpClient HTTPClient, cache ResponseCache, proc *processor.BatchProcessor, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.census.gov/data/2022/acs/acs5"
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	if proc == nil {
		proc = processor.NewBatchProcessor(nil, logger)
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		cache:      cache,
		processor:  proc,
		logger:     logger,
	}
}

// Demographics fetches every unit in batches and merges the results. Failed batches are
// logged and skipped. It returns nil when the units have no population, and an error
// only when ctx ends before all batches ran.
func (c *Client) Demographics(ctx context.Context, units []string) (*models.DemographicData, error) {
	if len(units) == 0 {
		return nil, nil
	}

	batches := processor.Split(units, c.config.BatchSize)
	results := processor.Process(ctx, c.processor, batches, func(ctx context.Context, batch []string) (Totals, error) {
		rows, err := c.FetchBatch(ctx, batch)
		if err != nil {
			return Totals{}, err
		}
		var t Totals
		for _, row := range rows {
			t.Add(row)
		}
		return t, nil
	})

	var totals Totals
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		totals.Merge(r.Value)
	}

	c.logger.WithFields(logrus.Fields{
		"units":          len(units),
		"batches":        len(batches),
		"failed_batches": failed,
		"rows":           totals.Units,
	}).Info("Fetched census demographics")

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return totals.Demographics(), nil
}

// FetchBatch requests one batch of at most MaxBatchSize units.
func (c *Client) FetchBatch(ctx context.Context, units []string) ([]models.CensusUnitRow, error) {
	if len(units) > MaxBatchSize {
		return nil, fmt.Errorf("batch of %d units exceeds limit of %d", len(units), MaxBatchSize)
	}

	key := c.cacheKey(units)
	if body, ok := c.cached(key); ok {
		return decodeRows(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(units), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	rows, err := decodeRows(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.config.RevalidateSeconds > 0 {
		if err := c.cache.PutCachedResponse(key, body); err != nil {
			c.logger.WithError(err).Warn("Failed to cache census response")
		}
	}
	return rows, nil
}

func (c *Client) cached(key string) ([]byte, bool) {
	if c.cache == nil || c.config.RevalidateSeconds <= 0 {
		return nil, false
	}
	body, ok, err := c.cache.GetCachedResponse(key, time.Duration(c.config.RevalidateSeconds)*time.Second)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read census cache")
		return nil, false
	}
	return body, ok
}

func (c *Client) query(units []string) url.Values {
	params := url.Values{}
	params.Set("get", VariableList())
	params.Set("for", UnitColumn+":"+strings.Join(units, ","))
	return params
}

func (c *Client) requestURL(units []string) string {
	params := c.query(units)
	if c.config.APIKey != "" {
		params.Set("key", c.config.APIKey)
	}
	return c.config.BaseURL + "?" + params.Encode()
}

// cacheKey identifies a request without its API key.
func (c *Client) cacheKey(units []string) string {
	return c.config.BaseURL + "?" + c.query(units).Encode()
}

// decodeRows parses a response body. An empty body (the API answers 204 when no unit
// matched) yields no rows.
func decodeRows(body []byte) ([]models.CensusUnitRow, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	var table [][]any
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("failed to parse census response: %w", err)
	}
	return ParseTable(table), nil
}
