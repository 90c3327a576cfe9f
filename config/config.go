package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SeedCatalog bool   `env:"SEED_CATALOG" envDefault:"true"`

	// Empty values switch the integration off.
	RedisAddr      string `env:"REDIS_ADDR"`
	PostgresURL    string `env:"POSTGRES_URL"`
	JaegerEndpoint string `env:"JAEGER_ENDPOINT"`

	EventsThrottlePerSecond int64 `env:"EVENTS_THROTTLE_PER_SECOND" envDefault:"100"`

	// Replays the data lake into the sales read model on start. Needs Postgres.
	RebuildSalesReadModel bool `env:"REBUILD_SALES_READ_MODEL" envDefault:"false"`
}

// Load reads .env from the working directory when it exists and then parses
// the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	if cfg.EventsThrottlePerSecond < 0 {
		return Config{}, fmt.Errorf("EVENTS_THROTTLE_PER_SECOND must not be negative, got %d", cfg.EventsThrottlePerSecond)
	}

	if cfg.RebuildSalesReadModel && !cfg.UsePostgres() {
		return Config{}, errors.New("REBUILD_SALES_READ_MODEL requires POSTGRES_URL")
	}

	return cfg, nil
}

func (c Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func (c Config) UseRedis() bool {
	return c.RedisAddr != ""
}

func (c Config) UsePostgres() bool {
	return c.PostgresURL != ""
}
