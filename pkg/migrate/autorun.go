package migrate

import (
	"context"
	"fmt"

	"github.com/nectarbooks/backend/pkg/config"
	"github.com/nectarbooks/backend/pkg/db"
	"github.com/nectarbooks/backend/pkg/logger"
)

// AutoRun applies pending migrations on startup unless the feature flag
// disables it. A fresh database gets its full schema here.
func AutoRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Debug(ctx, "applying schema migrations")
	if err := Up(ctx, sqlDB); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
