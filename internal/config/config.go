package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	do "github.com/samber/do/v2"
	"gopkg.in/yaml.v3"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

var Package = do.Package(
	do.Lazy[*Config](NewConfig),
)

// Config holds the application configuration.
type Config struct {
	BaseURL           string        `yaml:"base_url"`
	Seed              string        `yaml:"seed"`
	PageSize          int           `yaml:"page_size"`
	HTTPTimeout       time.Duration `yaml:"http_timeout"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	CacheBackend      string        `yaml:"cache_backend"`
	RedisURL          string        `yaml:"redis_url"`
	CacheSingleFlight bool          `yaml:"cache_singleflight"`
	ScrollThreshold   int           `yaml:"scroll_threshold"`
	ScrollDebounce    time.Duration `yaml:"scroll_debounce"`
	MaxPages          int           `yaml:"max_pages"`
	Address           string        `yaml:"address"`
	LogLevel          string        `yaml:"log_level"`
}

// NewConfig creates a new configuration from the environment (for DI).
func NewConfig(_ do.Injector) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return New()
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		BaseURL:         "https://randomuser.me/api/",
		Seed:            "usercards",
		PageSize:        10,
		HTTPTimeout:     10 * time.Second,
		CacheTTL:        5 * time.Minute,
		CacheBackend:    CacheBackendMemory,
		ScrollThreshold: 200,
		ScrollDebounce:  150 * time.Millisecond,
		Address:         ":8080",
		LogLevel:        "info",
	}
}

// New creates a new configuration. Values from the YAML file named by
// USERCARDS_CONFIG are applied first, environment variables override them.
func New() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("USERCARDS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config YAML: %w", err)
	}

	return nil
}

func (c *Config) loadEnv() error {
	setString(&c.BaseURL, "USERCARDS_BASE_URL")
	setString(&c.Seed, "USERCARDS_SEED")
	setString(&c.CacheBackend, "USERCARDS_CACHE_BACKEND")
	setString(&c.RedisURL, "USERCARDS_REDIS_URL")
	setString(&c.Address, "USERCARDS_ADDRESS")
	setString(&c.LogLevel, "USERCARDS_LOG_LEVEL")

	if err := setInt(&c.PageSize, "USERCARDS_PAGE_SIZE"); err != nil {
		return err
	}
	if err := setInt(&c.ScrollThreshold, "USERCARDS_SCROLL_THRESHOLD"); err != nil {
		return err
	}
	if err := setInt(&c.MaxPages, "USERCARDS_MAX_PAGES"); err != nil {
		return err
	}
	if err := setDuration(&c.HTTPTimeout, "USERCARDS_HTTP_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.CacheTTL, "USERCARDS_CACHE_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.ScrollDebounce, "USERCARDS_SCROLL_DEBOUNCE"); err != nil {
		return err
	}

	if v := os.Getenv("USERCARDS_CACHE_SINGLEFLIGHT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid USERCARDS_CACHE_SINGLEFLIGHT: %w", err)
		}
		c.CacheSingleFlight = b
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}

	if c.Seed == "" {
		return errors.New("seed is required")
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("invalid page size: %d", c.PageSize)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP timeout: %s", c.HTTPTimeout)
	}

	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.RedisURL == "" {
			return errors.New("redis URL is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("cache backend must be 'memory' or 'redis', got: %s", c.CacheBackend)
	}

	if c.ScrollThreshold < 0 {
		return fmt.Errorf("invalid scroll threshold: %d", c.ScrollThreshold)
	}

	if c.MaxPages < 0 {
		return fmt.Errorf("invalid max pages: %d", c.MaxPages)
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n

	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d

	return nil
}
