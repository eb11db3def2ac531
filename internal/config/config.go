package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gamenight/internal/domain"
	"gamenight/pkg/tz"
)

const (
	DriverTicker = "ticker"
	DriverRiver  = "river"
	DriverNone   = "none"

	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Store     string          `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Lifecycle LifecycleConfig `yaml:"lifecycle"`
	Discord   DiscordConfig   `yaml:"discord"`
	NATS      NATSConfig      `yaml:"nats"`
	Auth      AuthConfig      `yaml:"auth"`
	Locale    string          `yaml:"locale"`
	Timezone  string          `yaml:"timezone"`
	Log       LogConfig       `yaml:"log"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	MigrationsPath string `yaml:"migrations_path"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type SchedulerConfig struct {
	Driver   string        `yaml:"driver"`
	Interval time.Duration `yaml:"interval"`
	Buffer   time.Duration `yaml:"buffer"`
}

type LifecycleConfig struct {
	NoShowGrace   time.Duration `yaml:"no_show_grace"`
	NotifyTimeout time.Duration `yaml:"notify_timeout"`
}

// DiscordConfig is optional: an empty token disables the Discord notifier.
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// NATSConfig is optional: an empty URL disables the NATS notifier.
type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type AuthConfig struct {
	JWTSecret  string `yaml:"jwt_secret"`
	CronSecret string `yaml:"cron_secret"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() Config {
	return Config{
		Store: StorePostgres,
		Database: DatabaseConfig{
			URL:            "postgres://localhost:5432/gamenight?sslmode=disable",
			MigrationsPath: "migrations",
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		Scheduler: SchedulerConfig{
			Driver:   DriverTicker,
			Interval: time.Minute,
			Buffer:   domain.DefaultProcessingBuffer,
		},
		Lifecycle: LifecycleConfig{
			NoShowGrace:   domain.DefaultNoShowGrace,
			NotifyTimeout: 10 * time.Second,
		},
		NATS:     NATSConfig{SubjectPrefix: "gamenight"},
		Locale:   "en",
		Timezone: tz.DefaultZone,
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads an optional .env, then the YAML file named by CONFIG_FILE (if
// any), then applies environment overrides and validates the result.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment (Docker, CI).
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	vars := []struct {
		key string
		dst *string
	}{
		{"STORE", &c.Store},
		{"DATABASE_URL", &c.Database.URL},
		{"MIGRATIONS_PATH", &c.Database.MigrationsPath},
		{"HTTP_ADDR", &c.HTTP.Addr},
		{"SCHEDULER_DRIVER", &c.Scheduler.Driver},
		{"DISCORD_TOKEN", &c.Discord.Token},
		{"DISCORD_CHANNEL_ID", &c.Discord.ChannelID},
		{"NATS_URL", &c.NATS.URL},
		{"NATS_SUBJECT_PREFIX", &c.NATS.SubjectPrefix},
		{"JWT_SECRET", &c.Auth.JWTSecret},
		{"CRON_SECRET", &c.Auth.CronSecret},
		{"LOCALE", &c.Locale},
		{"TIMEZONE", &c.Timezone},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
	}
	for _, e := range vars {
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SCHEDULER_INTERVAL", &c.Scheduler.Interval},
		{"SCHEDULER_BUFFER", &c.Scheduler.Buffer},
		{"NO_SHOW_GRACE", &c.Lifecycle.NoShowGrace},
		{"NOTIFY_TIMEOUT", &c.Lifecycle.NotifyTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s is not a duration (%q): %w", d.key, v, err)
		}
		*d.dst = parsed
	}
	return nil
}

// validate checks the loaded configuration.
func (c *Config) validate() error {
	switch c.Store {
	case StorePostgres:
		parsed, err := url.Parse(c.Database.URL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): %w", c.Database.URL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: invalid DATABASE_URL (%q): missing scheme or host", c.Database.URL)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config: STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store)
	}

	switch c.Scheduler.Driver {
	case DriverTicker, DriverNone:
	case DriverRiver:
		if c.Store != StorePostgres {
			return fmt.Errorf("config: SCHEDULER_DRIVER=river requires STORE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown SCHEDULER_DRIVER %q", c.Scheduler.Driver)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("config: SCHEDULER_INTERVAL must be positive")
	}
	if c.Scheduler.Buffer < 0 || c.Lifecycle.NoShowGrace < 0 {
		return fmt.Errorf("config: SCHEDULER_BUFFER and NO_SHOW_GRACE cannot be negative")
	}
	if c.Lifecycle.NotifyTimeout <= 0 {
		return fmt.Errorf("config: NOTIFY_TIMEOUT must be positive")
	}

	if c.Discord.ChannelID != "" {
		for _, r := range c.Discord.ChannelID {
			if r < '0' || r > '9' {
				return fmt.Errorf("config: DISCORD_CHANNEL_ID must be a Discord channel ID (digits only)")
			}
		}
	}
	if c.Discord.Token != "" && c.Discord.ChannelID == "" {
		return fmt.Errorf("config: DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}

	if _, err := tz.Load(c.Timezone); err != nil {
		return fmt.Errorf("config: invalid TIMEZONE: %w", err)
	}
	return nil
}

// ValidateServer checks the settings only the long-running server needs.
func (c *Config) ValidateServer() error {
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		return fmt.Errorf("config: HTTP_ADDR is required")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET is required and cannot be empty")
	}
	return nil
}

func (c *Config) Location() *time.Location {
	return tz.MustLoad(c.Timezone)
}
