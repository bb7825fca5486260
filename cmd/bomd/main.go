package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sink-bom-backend/config"
	"sink-bom-backend/internal/api"
	"sink-bom-backend/internal/bom"
	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/db"
	"sink-bom-backend/internal/logging"
	"sink-bom-backend/internal/metrics"
	"sink-bom-backend/internal/reload"
	"sink-bom-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath), zap.String("catalog_source", cfg.Catalog.Source))

	reg := metrics.NewRegistry()

	var appStore store.Store
	if cfg.Catalog.Source == config.SourceDatabase {
		gormDB, err := db.Init(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.Error(err))
		}
		appStore = store.NewGormStore(gormDB)
		logger.Info("data store initialized")
	}

	loader, err := reload.NewLoader(&cfg.Catalog, appStore)
	if err != nil {
		logger.Fatal("failed to build catalog loader", zap.Error(err))
	}

	holder := catalog.NewHolder(nil)
	reloader := reload.NewService(holder, loader, cfg.Catalog.ReloadInterval, logger, reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The service refuses to start without a valid catalog.
	if _, err := reloader.ReloadOnce(ctx); err != nil {
		logger.Fatal("initial catalog load failed", zap.Error(err))
	}
	go reloader.Run(ctx)

	classifier := bom.NewClassifier(bom.ClassifierOptions{
		InternalPrefixes:   cfg.Classification.InternalPrefixes,
		ElectronicKeywords: cfg.Classification.ElectronicKeywords,
		StructuralKeywords: cfg.Classification.StructuralKeywords,
		BasinCategories:    cfg.Classification.BasinCategories,
	})
	engine := bom.NewEngine(holder, classifier, cfg.Engine.MaxDepth, logger.Named("engine"), reg)

	router := api.NewRouter(api.RouterOptions{
		Engine:   engine,
		Holder:   holder,
		Reloader: reloader,
		Metrics:  reg,
		Logger:   logger.Named("http"),
		Server:   cfg.Server,
		Expose:   cfg.Metrics,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("HTTP server Shutdown", zap.Error(err))
	}

	logger.Info("server gracefully stopped")
}
