package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/apiclient"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/auth"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/config"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/notify"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/persistence"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/infrastructure/router"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/interface/handler"
	repo "github.com/Lucafivan/Ship-Operation-Systems/internal/interface/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/usecase"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Ship Operation Systems gateway", "version", cfg.AppVersion)

	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store: MongoDB when configured, memory otherwise
	var sessionStore repository.SessionRepository = repo.NewMemorySessionRepository()
	var disconnectMongo func(context.Context) error
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Error("Failed to connect to MongoDB, keeping sessions in memory", "error", err)
		} else {
			sessionStore = repo.NewMongoSessionRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
			disconnectMongo = mongoClient.Disconnect
		}
	}

	// Submission journal: PostgreSQL when configured, memory otherwise
	var journal repository.SubmissionRepository = repo.NewMemorySubmissionRepository()
	if cfg.PostgresDSN != "" {
		log.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
		if err != nil {
			log.Error("Failed to connect to PostgreSQL, journaling in memory", "error", err)
		} else if err := repo.MigrateSubmissions(gormDB); err != nil {
			log.Error("Failed to migrate stage_submissions, journaling in memory", "error", err)
			persistence.ClosePostgresDB(gormDB)
		} else {
			journal = repo.NewGormSubmissionRepository(gormDB)
			defer persistence.ClosePostgresDB(gormDB)
		}
	}

	// Prediction overlay cache: Redis when configured, memory otherwise
	var overlayCache repository.OverlayCacheRepository = repo.NewMemoryOverlayCache()
	if cfg.RedisAddr != "" {
		log.Info("Connecting to Redis")
		redisClient, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("Failed to connect to Redis, caching overlays in memory", "error", err)
		} else {
			overlayCache = repo.NewRedisOverlayCache(redisClient)
			defer redisClient.Close()
		}
	}

	// Backend session
	session := auth.NewSession(cfg.APIBaseURL, cfg.APITimeout, sessionStore, log)
	if err := session.Restore(ctx); err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			log.Warn("Failed to restore session", "error", err)
		}
		if cfg.APIEmail != "" {
			if err := session.Login(ctx, cfg.APIEmail, cfg.APIPassword); err != nil {
				log.Error("Failed to log in to the backend", "email", cfg.APIEmail, "error", err)
			}
		} else {
			log.Warn("No stored session and no API_EMAIL configured, run cmd/utils/login first")
		}
	}

	client := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout, session, m, log)

	// Set up repositories
	movementRepo := repo.NewRestContainerMovementRepository(client, log)
	dashboardRepo := repo.NewRestDashboardRepository(client)
	costRepo := repo.NewRestCostRepository(client)
	predictionRepo := repo.NewRestPredictionRepository(client)

	// Notifications are pushed to websocket clients
	hub := notify.NewHub(log)
	go hub.Run(ctx)
	notifications := usecase.NewNotificationCenter(hub, m, log)

	// Set up usecases
	opts := usecase.DefaultMonitorOptions()
	opts.PerPage = cfg.PerPage
	opts.GlobalSearch = cfg.GlobalSearch
	opts.DebounceDelay = cfg.SearchDebounce
	opts.DiscardStale = cfg.DiscardStale
	opts.Location = cfg.Location()

	monitor := usecase.NewMonitor(movementRepo, notifications, m, log, opts)
	defer monitor.Close()
	predictor := usecase.NewPredictor(predictionRepo, overlayCache, cfg.PredictionTTL, m, log)
	editor := usecase.NewStageEditor(movementRepo, journal, notifications, m, log)
	dashboard := usecase.NewDashboard(dashboardRepo, notifications, log)
	costs := usecase.NewCostEstimator(costRepo, log)

	// Initial load
	if err := monitor.Fetch(ctx, 1, false); err != nil {
		log.Warn("Initial monitoring fetch failed", "error", err)
	}
	if err := dashboard.Load(ctx); err != nil {
		log.Warn("Initial dashboard load failed", "error", err)
	}

	handlers := router.Handlers{
		Monitoring:    handler.NewMonitoringHandler(monitor, predictor, editor, journal, log),
		Dashboard:     handler.NewDashboardHandler(dashboard, log),
		Costs:         handler.NewCostHandler(costs, monitor),
		Notifications: handler.NewNotificationHandler(notifications),
		Hub:           hub,
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(handlers, router.Options{AllowedOrigins: cfg.CORSOrigins}, m, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig.String())

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop the hub

	if disconnectMongo != nil {
		if err := disconnectMongo(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Ship Operation Systems gateway stopped")
}
