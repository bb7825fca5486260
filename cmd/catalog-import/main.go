// Command catalog-import validates a YAML catalog definition and writes it to the
// catalog tables read by bomd when catalog.source is "database".
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"sink-bom-backend/config"
	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/db"
	"sink-bom-backend/internal/logging"
	"sink-bom-backend/internal/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the service configuration")
	catalogPath := flag.String("catalog", "", "catalog definition to import (defaults to catalog.path)")
	dryRun := flag.Bool("dry-run", false, "validate the definition without writing it")
	flag.Parse()

	if *configPath == "" {
		*configPath = "./config/config.yaml"
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", *configPath, err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Development: cfg.Logging.Development})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	path := *catalogPath
	if path == "" {
		path = cfg.Catalog.Path
	}

	def, err := catalog.LoadFile(path)
	if err != nil {
		logger.Fatal("failed to read catalog definition", zap.String("path", path), zap.Error(err))
	}
	snap, err := catalog.New(def)
	if err != nil {
		logger.Fatal("catalog definition rejected", zap.String("path", path), zap.Error(err))
	}
	stats := snap.Stats()
	logger.Info("catalog definition is valid",
		zap.String("path", path),
		zap.Int("parts", stats.Parts),
		zap.Int("assemblies", stats.Assemblies),
		zap.Int("components", stats.Components),
	)
	if *dryRun {
		return
	}

	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	st := store.NewGormStore(gormDB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	written, err := st.ImportCatalog(ctx, def)
	if err != nil {
		logger.Fatal("catalog import failed", zap.Error(err))
	}
	total, err := st.CatalogStats(ctx)
	if err != nil {
		logger.Fatal("failed to count catalog tables", zap.Error(err))
	}
	logger.Info("catalog imported",
		zap.Int64("parts_written", written.Parts),
		zap.Int64("assemblies_written", written.Assemblies),
		zap.Int64("components_written", written.Components),
		zap.Int64("parts_total", total.Parts),
		zap.Int64("assemblies_total", total.Assemblies),
	)
}
