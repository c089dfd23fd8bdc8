package companion

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Config is the process-level configuration read from the environment.
type Config struct {
	LogLevel          string        `env:"COMPANION_LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"COMPANION_LOG_FORMAT" envDefault:"text"`
	RedisURL          string        `env:"COMPANION_REDIS_URL"`
	MySQLDSN          string        `env:"COMPANION_MYSQL_DSN"`
	SnapshotPrefix    string        `env:"COMPANION_SNAPSHOT_PREFIX" envDefault:"companion:snapshot:"`
	SnapshotTTL       time.Duration `env:"COMPANION_SNAPSHOT_TTL" envDefault:"0s"`
	CacheTTL          time.Duration `env:"COMPANION_CACHE_TTL" envDefault:"5m"`
	RetentionSchedule string        `env:"COMPANION_RETENTION_SCHEDULE" envDefault:"0 * * * *"`
	MetricsNamespace  string        `env:"COMPANION_METRICS_NAMESPACE" envDefault:"companion"`
	MetricsAddr       string        `env:"COMPANION_METRICS_ADDR" envDefault:":9090"`
	RandomSeed        int64         `env:"COMPANION_RANDOM_SEED" envDefault:"0"`
	Timezone          string        `env:"COMPANION_TIMEZONE" envDefault:"Local"`
}

// LoadConfig parses the process environment and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// ParseConfig is LoadConfig over an explicit environment map.
func ParseConfig(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values the env tags cannot express.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("COMPANION_LOG_LEVEL: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("COMPANION_LOG_FORMAT: unsupported format %q", c.LogFormat)
	}
	if _, err := cron.ParseStandard(c.RetentionSchedule); err != nil {
		return fmt.Errorf("COMPANION_RETENTION_SCHEDULE: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("COMPANION_TIMEZONE: %w", err)
	}
	if c.SnapshotTTL < 0 || c.CacheTTL < 0 {
		return fmt.Errorf("negative TTL")
	}
	return nil
}

// Clock returns a wall clock in the configured timezone, used for the
// time-of-day mood context.
func (c Config) Clock() func() time.Time {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// Rand returns a seeded random source; a zero seed uses the current time.
func (c Config) Rand() *rand.Rand {
	seed := c.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
