package migrate

import (
	"context"
	"fmt"

	"github.com/skateparkfinder/skatepark-backend/pkg/config"
	"github.com/skateparkfinder/skatepark-backend/pkg/db"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
)

// MaybeRun applies embedded migrations when the store is database-backed and either
// auto-migrate is enabled or the driver is sqlite (a local file that nobody else migrates).
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client == nil || cfg.Storage.UsesMemory() {
		return nil
	}
	if !cfg.Storage.AutoMigrate && !cfg.Storage.UsesSQLite() {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": client.Dialect()})
	logg.Info(ctx, "running goose migrations")

	if err := Up(ctx, sqlDB, client.Dialect()); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
