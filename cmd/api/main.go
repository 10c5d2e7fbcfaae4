package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/delphienergia/capex-backend/api/routes"
	"github.com/delphienergia/capex-backend/internal/clients"
	"github.com/delphienergia/capex-backend/internal/compare"
	"github.com/delphienergia/capex-backend/internal/library"
	"github.com/delphienergia/capex-backend/internal/narrative"
	"github.com/delphienergia/capex-backend/internal/projects"
	"github.com/delphienergia/capex-backend/internal/scenarios"
	"github.com/delphienergia/capex-backend/pkg/config"
	"github.com/delphienergia/capex-backend/pkg/db"
	"github.com/delphienergia/capex-backend/pkg/gemini"
	"github.com/delphienergia/capex-backend/pkg/logger"
	"github.com/delphienergia/capex-backend/pkg/metrics"
	"github.com/delphienergia/capex-backend/pkg/migrate"
	"github.com/delphienergia/capex-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	clientService, err := clients.NewService(clients.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create client service", err)
		os.Exit(1)
	}
	projectService, err := projects.NewService(projects.NewRepository(dbClient.DB()), clients.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create project service", err)
		os.Exit(1)
	}
	scenarioService, err := scenarios.NewService(scenarios.NewRepository(dbClient.DB()), projects.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create scenario service", err)
		os.Exit(1)
	}
	libraryService, err := library.NewService(library.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create library service", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedLibrary {
		if err := libraryService.Seed(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed library", err)
			os.Exit(1)
		}
	}

	engineMetrics := metrics.NewEngineMetrics(prometheus.DefaultRegisterer)
	narrativeMetrics := metrics.NewNarrativeMetrics(prometheus.DefaultRegisterer)

	var narrativeService *narrative.Service
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.New(context.Background(), cfg.Gemini)
		if err != nil {
			logg.Error(context.Background(), "failed to create gemini client", err)
			os.Exit(1)
		}
		narrativeService = narrative.NewService(geminiClient, redisClient, cfg.Narrative.CacheTTL, narrativeMetrics, logg)
	} else {
		logg.Warn(context.Background(), "gemini api key not set, narrative routes disabled")
	}

	thresholds := compare.Thresholds{
		QtyTolerance:     cfg.Compare.QtyTolerance,
		PriceTolerance:   cfg.Compare.PriceTolerance,
		VATRateTolerance: cfg.Compare.VATRateTolerance,
		VATAnomalyMax:    cfg.Compare.VATAnomalyMax,
		TopItems:         cfg.Compare.TopItems,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Clients:       clientService,
			Projects:      projectService,
			Scenarios:     scenarioService,
			Library:       libraryService,
			Narrative:     narrativeService,
			EngineMetrics: engineMetrics,
			Thresholds:    thresholds,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
