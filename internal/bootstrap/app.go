package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"moderator/internal/bootstrap/config"
	"moderator/internal/bootstrap/logging"
	"moderator/internal/errs"
	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/usecase/moderation"
	"moderator/internal/usecase/tasks"
)

// App is what commands receive once the fx graph is started.
type App struct {
	Config     config.Config
	DB         *gorm.DB
	Moderation *moderation.Service
	Jobs       *tasks.Runner
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	if err := a.DB.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	logging.Info(logCtx, "schema migration completed", slog.Int("tables", len(model.All())))
	return nil
}

// Ping is the health check behind /healthz.
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.Wrap(err, "ping database")
	}
	return nil
}
