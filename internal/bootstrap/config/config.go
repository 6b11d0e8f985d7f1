package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"moderator/internal/bootstrap/logging"
	"moderator/internal/errs"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// QueueConfig selects where deferred moderation jobs go.
// "local" keeps them in-process, "nats" publishes them to a JetStream stream.
type QueueConfig struct {
	Driver     string `mapstructure:"driver"`
	NatsURL    string `mapstructure:"nats_url"`
	Stream     string `mapstructure:"stream"`
	Subject    string `mapstructure:"subject"`
	Durable    string `mapstructure:"durable"`
	Workers    int    `mapstructure:"workers"`
	Buffer     int    `mapstructure:"buffer"`
	MaxDeliver int    `mapstructure:"max_deliver"`
}

type NotifyConfig struct {
	Driver  string `mapstructure:"driver"`
	NatsURL string `mapstructure:"nats_url"`
	Subject string `mapstructure:"subject"`
	Store   string `mapstructure:"store"`
}

type ModerationConfig struct {
	AuditRuleDecisions bool `mapstructure:"audit_rule_decisions"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (configFile != "" && isMissingFile(err)) {
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("queue_driver", cfg.Queue.Driver),
		slog.String("notify_driver", cfg.Notify.Driver),
	)

	return cfg, nil
}

// Validate checks the settings that have no usable fallback.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}

	switch strings.ToLower(c.Queue.Driver) {
	case "local":
	case "nats":
		if strings.TrimSpace(c.Queue.NatsURL) == "" {
			return errors.New("queue.nats_url is required for the nats driver")
		}
	default:
		return fmt.Errorf("unsupported queue driver %q", c.Queue.Driver)
	}
	if c.Queue.Workers <= 0 {
		return errors.New("queue.workers must be positive")
	}

	switch strings.ToLower(c.Notify.Driver) {
	case "log":
	case "nats":
		if strings.TrimSpace(c.Notify.NatsURL) == "" {
			return errors.New("notify.nats_url is required for the nats driver")
		}
	default:
		return fmt.Errorf("unsupported notify driver %q", c.Notify.Driver)
	}

	switch strings.ToLower(c.Notify.Store) {
	case "memory", "database":
	default:
		return fmt.Errorf("unsupported notify store %q", c.Notify.Store)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "moderator")
	v.SetDefault("app.env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".moderator/state/moderator.sqlite")
	v.SetDefault("queue.driver", "local")
	v.SetDefault("queue.nats_url", "nats://127.0.0.1:4222")
	v.SetDefault("queue.stream", "MODERATION_JOBS")
	v.SetDefault("queue.subject", "moderation.jobs")
	v.SetDefault("queue.durable", "moderator-worker")
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.buffer", 256)
	v.SetDefault("queue.max_deliver", 5)
	v.SetDefault("notify.driver", "log")
	v.SetDefault("notify.nats_url", "nats://127.0.0.1:4222")
	v.SetDefault("notify.subject", "moderation.changes")
	v.SetDefault("notify.store", "memory")
	v.SetDefault("moderation.audit_rule_decisions", true)
	v.SetDefault("metrics.addr", ":9464")
}

func isMissingFile(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no such file")
}
