package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/skateparkfinder/skatepark-backend/pkg/config"
	"github.com/skateparkfinder/skatepark-backend/pkg/db"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
	"github.com/skateparkfinder/skatepark-backend/pkg/migrate"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dialectFlag := flag.String("dialect", "", "sql dialect: postgres|sqlite (defaults to the configured storage driver)")
	dirFlag := flag.String("dir", "", "goose migrations directory (defaults to the dialect's directory)")

	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	dialect := *dialectFlag
	if dialect == "" {
		dialect = cfg.Storage.Driver
	}
	if dialect != migrate.DialectPostgres && dialect != migrate.DialectSQLite {
		fmt.Fprintf(os.Stderr, "migrations need a sql dialect, got %q (set -dialect or %s)\n", dialect, config.EnvStorageDriver)
		os.Exit(1)
	}
	dir := *dirFlag
	if dir == "" {
		dir = migrate.DefaultDir(dialect)
	}

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"cmd":     *cmd,
		"dialect": dialect,
		"dir":     dir,
	})

	// Commands that do NOT require DB
	switch *cmd {
	case "create":
		if *name == "" {
			fmt.Fprintln(os.Stderr, "missing -name for create")
			os.Exit(1)
		}
		logg.Info(ctx, "migrate ready")
		paths := []string{}
		if *dirFlag == "" {
			paths, err = migrate.CreateDialectMigrations(migrate.DefaultRoot, *name)
		} else {
			var path string
			path, err = migrate.CreateSQLMigration(dir, *name)
			paths = append(paths, path)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create migration: %v\n", err)
			os.Exit(1)
		}
		for _, path := range paths {
			fmt.Println("created migration:", path)
		}
		return

	case "validate":
		logg.Info(ctx, "migrate ready")
		validate := func() error { return migrate.ValidateRoot(migrate.DefaultRoot) }
		if *dirFlag != "" {
			validate = func() error { return migrate.ValidateDir(dir) }
		}
		if err := validate(); err != nil {
			fmt.Fprintf(os.Stderr, "migration validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migration validation passed")
		return
	}

	storage := cfg.Storage
	storage.Driver = dialect
	if storage.UsesPostgres() && cfg.DB.DSN == "" {
		fmt.Fprintf(os.Stderr, "%s is required for postgres migrations\n", config.EnvDBDSN)
		os.Exit(1)
	}
	dbClient, err := db.New(ctx, storage, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.SQL()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate ready")

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, dialect, dir, *cmd); err != nil {
			fmt.Fprintf(os.Stderr, "goose %s failed: %v\n", *cmd, err)
			os.Exit(1)
		}

	case "version":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "missing -version for version command")
			os.Exit(1)
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, dialect, dir, *version); err != nil {
			fmt.Fprintf(os.Stderr, "goose version migrate failed: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
