package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"communityinsights/server/internal/community"
	"communityinsights/server/internal/listings"
	"communityinsights/server/internal/models"
)

// CommunityService is the part of community.Service the handlers use.
type CommunityService interface {
	List(ctx context.Context) ([]models.CommunitySummary, error)
	Insights(ctx context.Context, slug string) (*models.CommunityInsights, error)
	Stats(ctx context.Context, slug string) (models.CommunityStats, error)
	Demographics(ctx context.Context, slug string) (*models.DemographicData, error)
	Search(ctx context.Context, slug string, filters models.Filters) (*listings.SearchResult, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	service CommunityService
	db      Pinger
	logger  *logrus.Logger
}

func NewHandler(service CommunityService, db Pinger, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Handler{
		service: service,
		db:      db,
		logger:  logger,
	}
}

func (h *Handler) ListCommunities(c *gin.Context) {
	communities, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list communities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list communities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

func (h *Handler) GetCommunity(c *gin.Context) {
	insights, err := h.service.Insights(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err, "Failed to fetch community")
		return
	}
	c.JSON(http.StatusOK, insights)
}

func (h *Handler) GetCommunityStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err, "Failed to fetch community stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *Handler) GetCommunityDemographics(c *gin.Context) {
	demographics, err := h.service.Demographics(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err, "Failed to fetch demographics")
		return
	}
	c.JSON(http.StatusOK, gin.H{"demographics": demographics})
}

func (h *Handler) SearchCommunityListings(c *gin.Context) {
	filters, err := models.ParseFilters(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Search(c.Request.Context(), c.Param("slug"), filters)
	if err != nil {
		h.writeError(c, err, "Failed to search listings")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Health(c *gin.Context) {
	status := gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.WithError(err).Error("Database health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, status)
}

// writeError maps service errors onto status codes: unknown slugs are 404, failing
// upstream APIs 502, anything else 500.
func (h *Handler) writeError(c *gin.Context, err error, message string) {
	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"slug":       c.Param("slug"),
		"request_id": c.GetString(requestIDKey),
	})

	switch {
	case errors.Is(err, community.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Community not found"})
	case community.IsUpstreamError(err):
		entry.Warn(message)
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
	default:
		entry.Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
