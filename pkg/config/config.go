package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	FixtureEmbedded = "embedded"
	FixturePostgres = "postgres"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV" env-default:"development"`
		Port        int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl   string `env:"SENTRY_URL"`
		CurrentUser string `env:"APP_CURRENT_USER" env-default:"1" env-description:"fixture user id acting as the signed-in user"`
	}
	Fixture struct {
		Source string `env:"FIXTURE_SOURCE" env-default:"embedded" env-description:"embedded or postgres"`
		Path   string `env:"FIXTURE_PATH" env-description:"optional YAML file replacing the embedded fixture"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Story struct {
		TickInterval time.Duration `env:"STORY_TICK_INTERVAL" env-default:"50ms"`
		TickStep     int           `env:"STORY_TICK_STEP" env-default:"1"`
		MaxProgress  int           `env:"STORY_MAX_PROGRESS" env-default:"100"`
	}
	Workspace struct {
		IdleTTL         time.Duration `env:"WORKSPACE_IDLE_TTL" env-default:"30m"`
		CleanupInterval time.Duration `env:"WORKSPACE_CLEANUP_INTERVAL" env-default:"5m"`
	}
	Telegram struct {
		Token         string `env:"TELEGRAM_TOKEN"`
		Workers       int    `env:"TELEGRAM_WORKERS" env-default:"5"`
		RatePerMinute int    `env:"TELEGRAM_RATE_PER_MINUTE" env-default:"30"`
		RateBurst     int    `env:"TELEGRAM_RATE_BURST" env-default:"5"`
	}
}

var (
	once    sync.Once
	cfg     *Config
	loadErr error
)

func New() (*Config, error) {
	once.Do(func() {
		c := &Config{}
		if err := cleanenv.ReadEnv(c); err != nil {
			help, _ := cleanenv.GetDescription(c, nil)
			loadErr = fmt.Errorf("failed to read configuration: %w\n%s", err, help)
			return
		}
		if err := c.Validate(); err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return cfg, loadErr
}

// Validate checks values cleanenv cannot express with tags.
func (c *Config) Validate() error {
	switch c.Fixture.Source {
	case FixtureEmbedded, FixturePostgres:
	default:
		return fmt.Errorf("FIXTURE_SOURCE must be %q or %q, got %q", FixtureEmbedded, FixturePostgres, c.Fixture.Source)
	}
	if c.Story.TickInterval <= 0 || c.Story.TickStep <= 0 || c.Story.MaxProgress <= 0 {
		return fmt.Errorf("story playback settings must be positive")
	}
	if c.Telegram.Workers <= 0 {
		return fmt.Errorf("TELEGRAM_WORKERS must be positive")
	}
	return nil
}

// GetDSN returns the connection string for the fixture database.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
