package main

// Run database migrations for the configured STORE_DRIVER:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/storage/db"
	"resume-screener/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()

	cfg := config.Load()
	ctx := context.Background()

	var dsn string
	switch cfg.StoreDriver {
	case db.DriverPostgres:
		dsn = cfg.DatabaseURL
	case db.DriverSQLite:
		dsn = cfg.SQLitePath
	default:
		telemetry.Info("migrate.skipped", map[string]any{"driver": cfg.StoreDriver})
		return
	}

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.StoreDriver, dsn, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		telemetry.Sync()
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, cfg.StoreDriver); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		sqlDB.Close()
		telemetry.Sync()
		os.Exit(1)
	}

	names, err := db.MigrationNames(cfg.StoreDriver)
	if err == nil {
		telemetry.Info("migrate.done", map[string]any{"driver": cfg.StoreDriver, "migrations": names})
	}
}
