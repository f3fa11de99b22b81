package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	BaseURL   string `mapstructure:"base_url"`
	APIPrefix string `mapstructure:"api_prefix"`

	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	ToastTTLSeconds       int64         `mapstructure:"toast_ttl_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	ToastTTL              time.Duration `mapstructure:"-"`

	CookieStoreType       string        `mapstructure:"cookie_store_type"`
	CookieDBPath          string        `mapstructure:"cookie_db_path"`
	CookieSessionTTLSecs  int64         `mapstructure:"cookie_session_ttl_seconds"`
	CookieCleanupSeconds  int64         `mapstructure:"cookie_cleanup_interval_seconds"`
	CookieSessionTTL      time.Duration `mapstructure:"-"`
	CookieCleanupInterval time.Duration `mapstructure:"-"`

	AlertsFile string `mapstructure:"alerts_file"`
}

// Load reads configuration from environment variables and config files.
// Environment variables are prefixed with ACTS_ (e.g. ACTS_BASE_URL).
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	v.SetEnvPrefix("acts")

	v.SetDefault("app_name", "actsctl")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("api_prefix", "/api/")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("toast_ttl_seconds", 5)
	v.SetDefault("cookie_store_type", "bbolt")
	v.SetDefault("cookie_db_path", "./data/cookies.db")
	v.SetDefault("cookie_session_ttl_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("cookie_cleanup_interval_seconds", int64(time.Hour/time.Second))
	v.SetDefault("alerts_file", "")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives durations.
func (c *Config) finalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	c.APIPrefix = "/" + strings.Trim(strings.TrimSpace(c.APIPrefix), "/") + "/"
	if c.APIPrefix == "//" {
		c.APIPrefix = "/"
	}

	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	if c.ToastTTLSeconds <= 0 {
		return fmt.Errorf("invalid toast_ttl_seconds (must be positive seconds)")
	}
	c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second
	c.ToastTTL = time.Duration(c.ToastTTLSeconds) * time.Second

	if c.CookieSessionTTLSecs <= 0 {
		return fmt.Errorf("invalid cookie_session_ttl_seconds (must be positive seconds)")
	}
	if c.CookieCleanupSeconds <= 0 {
		return fmt.Errorf("invalid cookie_cleanup_interval_seconds (must be positive seconds)")
	}
	c.CookieSessionTTL = time.Duration(c.CookieSessionTTLSecs) * time.Second
	c.CookieCleanupInterval = time.Duration(c.CookieCleanupSeconds) * time.Second

	c.AlertsFile = strings.TrimSpace(c.AlertsFile)
	return nil
}
