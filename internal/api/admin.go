package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"communityinsights/server/internal/models"
)

// CommunityWriter persists community polygons.
type CommunityWriter interface {
	UpsertCommunity(ctx context.Context, c models.Community) error
	DeleteCommunity(ctx context.Context, slug string) (bool, error)
}

// Enqueuer accepts community slugs for background warming.
type Enqueuer interface {
	Push(slug string) error
}

// AdminHandler manages the stored communities.
type AdminHandler struct {
	store  CommunityWriter
	warm   Enqueuer
	logger *logrus.Logger
}

// NewAdminHandler creates an admin handler. warm may be nil.
func NewAdminHandler(store CommunityWriter, warm Enqueuer, logger *logrus.Logger) *AdminHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AdminHandler{
		store:  store,
		warm:   warm,
		logger: logger,
	}
}

// SetupAdminRoutes adds community management routes guarded by a bearer token. Nothing
// is registered when token is empty.
func SetupAdminRoutes(router *gin.Engine, handler *AdminHandler, token string) {
	if token == "" {
		return
	}
	admin := router.Group("/api", AdminAuth(token))
	admin.PUT("/communities/:slug", handler.PutCommunity)
	admin.DELETE("/communities/:slug", handler.DeleteCommunity)
}

// PutCommunity creates or replaces a community
func (h *AdminHandler) PutCommunity(c *gin.Context) {
	slug := c.Param("slug")
	var community models.Community
	if err := c.ShouldBindJSON(&community); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if community.Slug == "" {
		community.Slug = slug
	}
	if community.Slug != slug {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug in URL does not match slug in body"})
		return
	}
	if community.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err := community.Polygon.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpsertCommunity(c.Request.Context(), community); err != nil {
		h.logger.WithError(err).WithField("slug", slug).Error("Failed to save community")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save community"})
		return
	}

	// Warm the census cache for the new polygon
	if h.warm != nil {
		if err := h.warm.Push(slug); err != nil {
			h.logger.WithError(err).WithField("slug", slug).Warn("Failed to queue community for warming")
		}
	}

	c.JSON(http.StatusOK, community)
}

// DeleteCommunity removes a community
func (h *AdminHandler) DeleteCommunity(c *gin.Context) {
	slug := c.Param("slug")
	deleted, err := h.store.DeleteCommunity(c.Request.Context(), slug)
	if err != nil {
		h.logger.WithError(err).WithField("slug", slug).Error("Failed to delete community")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete community"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Community not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
