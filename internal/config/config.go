// Package config provides configuration loading and validation for the portfolio server and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. PORTFOLIO_SERVER_PORT.
const EnvPrefix = "PORTFOLIO"

// Config is the complete runtime configuration. Values come from, in increasing priority:
// built-in defaults, an optional YAML/JSON file, and PORTFOLIO_* environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Contact  ContactConfig  `mapstructure:"contact"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Intro    IntroConfig    `mapstructure:"intro"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       bool          `mapstructure:"rate_limit"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig points at PostgreSQL. An empty URL serves the bundled seed dataset.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig enables the content cache. An empty URL disables caching.
type RedisConfig struct {
	URL    string        `mapstructure:"url"`
	TTL    time.Duration `mapstructure:"ttl"`
	Prefix string        `mapstructure:"prefix"`
}

// ContactConfig controls delivery of contact-form submissions. Without an SES region
// submissions are only logged.
type ContactConfig struct {
	SESRegion string `mapstructure:"ses_region"`
	From      string `mapstructure:"from"`
	To        string `mapstructure:"to"`
}

// SESEnabled reports whether submissions should be emailed.
func (c ContactConfig) SESEnabled() bool {
	return c.SESRegion != ""
}

// AdminConfig holds the single mock-auth account. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// Enabled reports whether admin login is possible.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.PasswordHash != ""
}

// LoaderConfig bounds each section fetch made by the page composer.
type LoaderConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	BaseURL string        `mapstructure:"base_url"`
}

// IntroConfig controls the intro sequence.
type IntroConfig struct {
	ReducedMotion bool `mapstructure:"reduced_motion"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       true,
		},
		Log:    LogConfig{Level: "info", Format: "console"},
		Redis:  RedisConfig{TTL: 5 * time.Minute, Prefix: "portfolio:"},
		Admin:  AdminConfig{Username: "admin"},
		Loader: LoaderConfig{Timeout: 10 * time.Second},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl", d.Redis.TTL)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("contact.ses_region", "")
	v.SetDefault("contact.from", "")
	v.SetDefault("contact.to", "")
	v.SetDefault("admin.username", d.Admin.Username)
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("loader.timeout", d.Loader.Timeout)
	v.SetDefault("loader.base_url", "")
	v.SetDefault("intro.reduced_motion", false)
}

// Load builds the configuration. path may be empty; when set, the file must exist
// and its extension selects the format (yaml, yml, json).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional unprefixed names used by hosting platforms.
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database url: %w", err)
	}
	if err := v.BindEnv("redis.url", EnvPrefix+"_REDIS_URL", "REDIS_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind redis url: %w", err)
	}
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind port: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be non-negative"))
	}
	if c.Loader.Timeout <= 0 {
		errs = append(errs, errors.New("loader.timeout must be positive"))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, errors.New("redis.ttl must be non-negative"))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if c.Contact.SESEnabled() && (c.Contact.From == "" || c.Contact.To == "") {
		errs = append(errs, errors.New("contact.from and contact.to are required when contact.ses_region is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config error: %w", errors.Join(errs...))
	}
	return nil
}
