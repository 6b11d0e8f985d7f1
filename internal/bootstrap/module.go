package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"moderator/internal/bootstrap/config"
	"moderator/internal/bootstrap/database"
	"moderator/internal/bootstrap/logging"
	cacheinfra "moderator/internal/infrastructure/cache"
	"moderator/internal/infrastructure/notify"
	"moderator/internal/infrastructure/persistence/relational/repository"
	"moderator/internal/infrastructure/persistence/relational/uow"
	"moderator/internal/infrastructure/queue"
	"moderator/internal/ports"
	"moderator/internal/usecase/moderation"
	"moderator/internal/usecase/notification"
	"moderator/internal/usecase/tasks"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(
		fx.Annotate(
			repository.NewModerationRepository,
			fx.As(new(ports.ModerationRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			uow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideCache),
	fx.Provide(provideChangeSink),
	fx.Provide(
		fx.Annotate(
			provideDispatcher,
			fx.As(new(ports.ChangeNotifier)),
		),
	),
	fx.Provide(provideModerationService),
	fx.Provide(provideTaskQueue),
	fx.Provide(provideRunner),
	fx.Provide(provideApp),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

// provideCache backs the change dispatcher's last-event store.
func provideCache(cfg config.Config, db *gorm.DB) ports.Cache {
	if strings.EqualFold(cfg.Notify.Store, "database") {
		return cacheinfra.NewDBCache(db)
	}
	return cacheinfra.NewMemoryCache(10 * time.Minute)
}

func provideChangeSink(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.ChangeSink, error) {
	if !strings.EqualFold(cfg.Notify.Driver, "nats") {
		return notify.LogSink{}, nil
	}

	sink, err := notify.DialNATSSink(cfg.Notify.NatsURL, cfg.Notify.Subject)
	if err != nil {
		return nil, err
	}
	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx")),
		"change events go to nats",
		slog.String("subject", cfg.Notify.Subject),
	)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sink.Close()
			return nil
		},
	})
	return sink, nil
}

func provideDispatcher(sink ports.ChangeSink, store ports.Cache) *notification.Dispatcher {
	return notification.NewDispatcher(sink, store, notification.SameCounters)
}

func provideModerationService(cfg config.Config, repo ports.ModerationRepository, unit ports.UnitOfWork, notifier ports.ChangeNotifier) *moderation.Service {
	return moderation.NewService(repo, unit, notifier, moderation.WithRuleDecisionAudit(cfg.Moderation.AuditRuleDecisions))
}

func provideTaskQueue(lc fx.Lifecycle, cfg config.Config) (ports.TaskQueue, error) {
	if !strings.EqualFold(cfg.Queue.Driver, "nats") {
		return queue.NewLocalQueue(cfg.Queue.Workers, cfg.Queue.Buffer, cfg.Queue.MaxDeliver), nil
	}

	q, err := queue.DialNATSQueue(queue.NATSConfig{
		URL:        cfg.Queue.NatsURL,
		Stream:     cfg.Queue.Stream,
		Subject:    cfg.Queue.Subject,
		Durable:    cfg.Queue.Durable,
		MaxDeliver: cfg.Queue.MaxDeliver,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			q.Close()
			return nil
		},
	})
	return q, nil
}

func provideRunner(svc *moderation.Service, q ports.TaskQueue) *tasks.Runner {
	return tasks.NewRunner(svc, q)
}

func provideApp(cfg config.Config, db *gorm.DB, svc *moderation.Service, runner *tasks.Runner) *App {
	return &App{
		Config:     cfg,
		DB:         db,
		Moderation: svc,
		Jobs:       runner,
	}
}
