package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the runtime configuration of sercha-discover.
// Values are resolved as defaults, then the TOML file, then the environment.
type Config struct {
	DSpace   DSpaceConfig   `toml:"dspace"`
	Server   ServerConfig   `toml:"server"`
	Search   SearchConfig   `toml:"search"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	Log      LogConfig      `toml:"log"`
}

// DSpaceConfig points at the repository REST API
type DSpaceConfig struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type SearchConfig struct {
	ItemsPerPage int `toml:"items_per_page"`
	// SessionTTL evicts idle search sessions; zero keeps them
	SessionTTL    Duration `toml:"session_ttl"`
	SweepInterval Duration `toml:"sweep_interval"`
}

type AuthConfig struct {
	// JWTSecret verifies bearer token signatures when set
	JWTSecret string `toml:"jwt_secret"`
	// Profile names the token store entry used by CLI commands; HTTP
	// clients each get their own entry
	Profile string `toml:"profile"`
}

type RedisConfig struct {
	URL string `toml:"url"`
	// TokenSecret derives the key encrypting stored tokens
	TokenSecret string `toml:"token_secret"`
}

type PostgresConfig struct {
	URL string `toml:"url"`
	// InitSchema creates the search event table on startup
	InitSchema bool `toml:"init_schema"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as "30s" in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		DSpace: DSpaceConfig{
			URL:     "http://localhost:8080/server",
			Timeout: Duration{30 * time.Second},
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Search: SearchConfig{
			ItemsPerPage:  10,
			SessionTTL:    Duration{30 * time.Minute},
			SweepInterval: Duration{time.Minute},
		},
		Auth: AuthConfig{
			Profile: "default",
		},
		Postgres: PostgresConfig{
			InitSchema: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load resolves the configuration. A missing file at path is not an error;
// an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshaling config: %w", err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DSpace.URL = getEnv("DSPACE_URL", c.DSpace.URL)
	c.DSpace.Timeout.Duration = getEnvDuration("DSPACE_TIMEOUT", c.DSpace.Timeout.Duration)

	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Search.ItemsPerPage = getEnvInt("ITEMS_PER_PAGE", c.Search.ItemsPerPage)
	c.Search.SessionTTL.Duration = getEnvDuration("SESSION_TTL", c.Search.SessionTTL.Duration)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.Redis.TokenSecret = getEnv("TOKEN_SECRET", c.Redis.TokenSecret)
	c.Postgres.URL = getEnv("DATABASE_URL", c.Postgres.URL)
	c.Postgres.InitSchema = getEnvBool("DATABASE_INIT_SCHEMA", c.Postgres.InitSchema)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DSpace.URL) == "" {
		return errors.New("dspace url is required")
	}
	if c.DSpace.Timeout.Duration <= 0 {
		return errors.New("dspace timeout must be positive")
	}
	if c.Search.ItemsPerPage <= 0 {
		return fmt.Errorf("items per page must be positive, got %d", c.Search.ItemsPerPage)
	}
	if c.Search.SessionTTL.Duration < 0 {
		return errors.New("session ttl must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Auth.Profile) == "" {
		return errors.New("auth profile must not be empty")
	}
	if c.Redis.URL != "" && c.Redis.TokenSecret == "" {
		return errors.New("token secret is required when redis is configured")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
