package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	analyticsHttp "visitor-analytics-service/internal/analytics/adapters/http/fiber"
	analyticsRepoPg "visitor-analytics-service/internal/analytics/adapters/postgres"
	analyticsUsecase "visitor-analytics-service/internal/analytics/core/usecase"

	revealHttp "visitor-analytics-service/internal/reveal/adapters/http/fiber"
	revealDomain "visitor-analytics-service/internal/reveal/core/domain"

	trackingClickHouse "visitor-analytics-service/internal/tracking/adapters/clickhouse"
	trackingGeo "visitor-analytics-service/internal/tracking/adapters/geo"
	trackingHttp "visitor-analytics-service/internal/tracking/adapters/http/fiber"
	trackingRepoPg "visitor-analytics-service/internal/tracking/adapters/postgres"
	trackingRedis "visitor-analytics-service/internal/tracking/adapters/redis"
	trackingPorts "visitor-analytics-service/internal/tracking/core/ports"
	trackingUsecase "visitor-analytics-service/internal/tracking/core/usecase"

	"visitor-analytics-service/internal/platform/auth"
	"visitor-analytics-service/internal/platform/config"
	"visitor-analytics-service/internal/platform/database"
	"visitor-analytics-service/internal/platform/jobs"
	"visitor-analytics-service/internal/platform/logging"
	"visitor-analytics-service/internal/platform/metrics"
	"visitor-analytics-service/migrations"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "visitor-analytics-service/docs"
)

// @title Visitor Analytics Service API
// @version 1.0
// @description Visitor session tracking, analytics dashboard and scroll reveal planning.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.Setup(os.Stdout, cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB connection
	db, err := database.OpenPostgres(ctx, database.PostgresOptions{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.PostgresMaxOpenConns,
		MaxIdleConns:    cfg.PostgresMaxIdleConns,
		ConnMaxLifetime: cfg.PostgresConnLifetime,
		MaxRetries:      cfg.ConnectMaxRetries,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	if _, err := database.Migrate(ctx, db, migrations.FS); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	// Metrics
	trackingMetrics := metrics.NewTracking()
	registry := metrics.NewRegistry(trackingMetrics.Collectors()...)

	trackerOpts := []trackingUsecase.TrackerOption{
		trackingUsecase.WithMetrics(trackingMetrics),
		trackingUsecase.WithLogger(log),
	}

	// Geolocation, cached in Redis when configured
	if cfg.GeoEnabled {
		var locator trackingPorts.GeoLocatorPort = trackingGeo.NewClient(cfg.GeoEndpoint, cfg.GeoTimeout)

		if cfg.RedisAddr != "" {
			redisClient, err := database.OpenRedis(ctx, database.RedisOptions{
				Addr:       cfg.RedisAddr,
				Password:   cfg.RedisPassword,
				MaxRetries: cfg.ConnectMaxRetries,
			})
			if err != nil {
				log.Fatalf("failed to connect to redis: %v", err)
			}
			defer redisClient.Close()

			locator = trackingRedis.NewGeoCache(locator, redisClient, cfg.GeoCacheTTL, log)
		}

		trackerOpts = append(trackerOpts, trackingUsecase.WithGeoLocator(locator))
	}

	// Optional ClickHouse page-visit sink
	if cfg.ClickHouseAddr != "" {
		conn, err := trackingClickHouse.Open(ctx, trackingClickHouse.Options{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		})
		if err != nil {
			log.Fatalf("failed to connect to clickhouse: %v", err)
		}
		defer conn.Close()

		sink := trackingClickHouse.NewPageVisitSink(conn)
		if err := sink.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to prepare clickhouse schema: %v", err)
		}
		trackerOpts = append(trackerOpts, trackingUsecase.WithPageVisitSink(sink))
	}

	// Adapter-level DB wrapper
	sqlDB := database.NewSQL(db)

	// Repositories
	sessionRepository := trackingRepoPg.NewSessionRepository(sqlDB)
	pageVisitRepository := trackingRepoPg.NewPageVisitRepository(sqlDB)
	dashboardRepository := analyticsRepoPg.NewDashboardRepository(sqlDB)

	// Usecases
	tracker := trackingUsecase.NewTracker(sessionRepository, pageVisitRepository, pageVisitRepository, trackerOpts...)
	views := trackingUsecase.NewViewRegistry(context.Background(), tracker, cfg.TrackingTimeout)
	getDashboardUC := analyticsUsecase.NewGetDashboardUseCase(dashboardRepository)

	// Scheduled jobs
	scheduler, err := jobs.NewScheduler(tracker, views, jobs.Options{
		RollupSpec:    cfg.DailyRollupCron,
		SweepSpec:     cfg.ViewSweepCron,
		IdleTimeout:   cfg.ViewIdleTimeout,
		RollupTimeout: cfg.TrackingTimeout,
	}, log)
	if err != nil {
		log.Fatalf("failed to schedule jobs: %v", err)
	}
	scheduler.Start()

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{
		AppName:               "visitor-analytics-service",
		DisableStartupMessage: cfg.IsProduction(),
	})

	requireDashboardToken := auth.RequireBearer([]byte(cfg.DashboardJWTSecret))

	// tracking endpoints
	trackingHandler := trackingHttp.NewTrackingHandler(views, tracker)
	app.Post("/track/views", trackingHandler.StartView)
	app.Post("/track/views/:id/pages", trackingHandler.TrackPage)
	app.Post("/track/views/:id/unload", trackingHandler.UnloadView)

	// analytics endpoints
	dashboardHandler := analyticsHttp.NewDashboardHandler(getDashboardUC)
	analytics := app.Group("/analytics", requireDashboardToken)
	analytics.Get("/dashboard", dashboardHandler.GetDashboard)
	analytics.Post("/daily/refresh", trackingHandler.RefreshDailyAnalytics)

	// reveal endpoints
	revealHandler := revealHttp.NewRevealHandler(revealDomain.Ms(cfg.RevealStaggerMs))
	app.Post("/reveal/plan", revealHandler.PlanReveal)

	// Prometheus
	app.Get("/metrics", metrics.Handler(registry))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	addr := ":" + strconv.Itoa(cfg.HTTPPort)
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Errorf("fiber stopped: %v", err)
		}
	}()

	log.WithField("addr", addr).Info("server started")

	<-ctx.Done()

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("fiber shutdown error: %v", err)
	}

	views.CloseAll(shutdownCtx)
	scheduler.Stop(shutdownCtx)

	log.Info("server exiting")
}
