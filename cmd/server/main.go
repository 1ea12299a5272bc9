package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"communityinsights/server/config"
	"communityinsights/server/internal/api"
	"communityinsights/server/internal/census"
	"communityinsights/server/internal/community"
	"communityinsights/server/internal/database"
	"communityinsights/server/internal/geometry"
	"communityinsights/server/internal/listings"
	"communityinsights/server/internal/models"
	"communityinsights/server/internal/processor"
	"communityinsights/server/internal/queue"
	"communityinsights/server/internal/scheduler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Server.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warn("Invalid log level, using info")
	}
	gin.SetMode(cfg.Server.GinMode)

	logger.Infof("Using database at: %s", cfg.Database.Path)
	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	communities, err := config.LoadCommunities(cfg.Communities.File)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load communities")
	}
	if err := db.SeedCommunities(context.Background(), communities); err != nil {
		logger.WithError(err).Fatal("Failed to seed communities")
	}
	logger.WithField("communities", len(communities)).Info("Seeded communities")

	units, err := loadUnits(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load census units")
	}
	mode, err := geometry.ParseMode(cfg.Census.UnitFilter)
	if err != nil {
		logger.WithError(err).Fatal("Invalid unit filter")
	}
	logger.WithFields(logrus.Fields{
		"units": len(units),
		"mode":  mode,
	}).Info("Loaded census units")

	proc := processor.NewBatchProcessor(cfg, logger)

	censusClient := census.NewClient(census.Config{
		BaseURL:           cfg.Census.BaseURL,
		APIKey:            cfg.Census.APIKey,
		RevalidateSeconds: cfg.Census.RevalidateSeconds,
		BatchSize:         cfg.Census.BatchSize,
		Timeout:           time.Duration(cfg.Census.Timeout) * time.Second,
	}, nil, db, proc, logger)

	listingsClient := listings.NewClient(listings.Config{
		BaseURL:  cfg.Listings.BaseURL,
		APIKey:   cfg.Listings.APIKey,
		PageSize: cfg.Listings.PageSize,
		Timeout:  time.Duration(cfg.Listings.Timeout) * time.Second,
	}, nil, logger)

	service := community.NewService(db, listingsClient, censusClient, community.Options{
		Units:     units,
		Resolver:  geometry.NewResolver(mode),
		MetroName: cfg.Communities.MetroName,
		PageSize:  cfg.Listings.PageSize,
	}, logger)

	handler := api.NewHandler(service, db, logger)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	warmQueue := queue.NewWarmQueue(cfg.BatchProcessing.WarmQueueSize, logger)
	warmQueue.Subscribe(func(slug string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		_, err := service.Demographics(ctx, slug)
		return err
	})
	warmQueue.Start()
	defer warmQueue.Close()

	api.SetupAdminRoutes(router, api.NewAdminHandler(db, warmQueue, logger), cfg.Server.AdminToken)

	sched := scheduler.NewScheduler(db, service, cfg.SchedulerInterval(), cfg.CensusRevalidate(), logger)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}

// loadUnits returns the candidate census units: shapefile records when a shapefile is
// configured, otherwise the configured ids with unknown bounds.
func loadUnits(cfg *config.Config) ([]models.Unit, error) {
	if cfg.Census.UnitsShapefile == "" {
		return geometry.UnitsFromIDs(cfg.Census.Units), nil
	}
	return geometry.LoadUnitsFromShapefile(cfg.Census.UnitsShapefile, cfg.Census.UnitIDField)
}
