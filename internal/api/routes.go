package api

import "github.com/gin-gonic/gin"

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(handler *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(handler.logger), CORS(allowedOrigins))
	SetupRoutes(router, handler)
	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/communities", handler.ListCommunities)
		api.GET("/communities/:slug", handler.GetCommunity)
		api.GET("/communities/:slug/stats", handler.GetCommunityStats)
		api.GET("/communities/:slug/demographics", handler.GetCommunityDemographics)
		api.GET("/communities/:slug/listings", handler.SearchCommunityListings)
	}
}
