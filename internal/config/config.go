package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/zeiterfassung/internal/calendar"
	"github.com/username/zeiterfassung/internal/xano"
)

// Config represents application configuration
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Session  SessionConfig  `mapstructure:"session"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Geocode  GeocodeConfig  `mapstructure:"geocode"`
	Timer    TimerConfig    `mapstructure:"timer"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// BackendConfig represents the remote API configuration
type BackendConfig struct {
	BaseURL      string      `mapstructure:"base_url"`
	Timeout      string      `mapstructure:"timeout"`
	Retries      int         `mapstructure:"retries"`
	RetryBackoff string      `mapstructure:"retry_backoff"`
	Groups       xano.Groups `mapstructure:"groups"`
}

// SessionConfig represents where the login session is kept
type SessionConfig struct {
	File string `mapstructure:"file"`
}

// CalendarConfig represents holiday calendar configuration
type CalendarConfig struct {
	State             string `mapstructure:"state"`               // German state code, e.g. "BW"
	ExtraHolidaysFile string `mapstructure:"extra_holidays_file"` // Company days off, "YYYY-MM-DD name" per line
}

// CacheConfig represents the offline report cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
	MaxAge  string `mapstructure:"max_age"`
}

// GeocodeConfig represents address validation configuration
type GeocodeConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
	Limit     int    `mapstructure:"limit"`
}

// TimerConfig represents the timer watch loop
type TimerConfig struct {
	TickInterval     string  `mapstructure:"tick_interval"`
	ResyncInterval   string  `mapstructure:"resync_interval"`
	DailyTargetHours float64 `mapstructure:"daily_target_hours"`
	SystemTray       bool    `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// ServerConfig represents the dashboard HTTP server
type ServerConfig struct {
	Listen         string   `mapstructure:"listen"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig represents file logging
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file. A missing config file is not an
// error when the search paths are used; defaults and environment apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.zeiterfassung")
		v.AddConfigPath("/etc/zeiterfassung")
	}

	// Read environment variables, e.g. ZEITERFASSUNG_BACKEND_BASE_URL
	v.SetEnvPrefix("ZEITERFASSUNG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	groups := xano.DefaultGroups()
	// Empty defaults register keys so environment overrides are seen by Unmarshal
	v.SetDefault("backend.base_url", "")
	v.SetDefault("calendar.extra_holidays_file", "")
	v.SetDefault("log.file", "")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.retries", 3)
	v.SetDefault("backend.retry_backoff", "1s")
	v.SetDefault("backend.groups.auth", groups.Auth)
	v.SetDefault("backend.groups.main", groups.Main)
	v.SetDefault("backend.groups.time_entries", groups.TimeEntries)
	v.SetDefault("backend.groups.reports", groups.Reports)
	v.SetDefault("backend.groups.crm", groups.CRM)
	v.SetDefault("backend.groups.admin", groups.Admin)
	v.SetDefault("backend.groups.absences", groups.Absences)

	v.SetDefault("session.file", filepath.Join(defaultDataDir(), "session.json"))

	v.SetDefault("calendar.state", "BW")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.file", filepath.Join(defaultDataDir(), "reports.db"))
	v.SetDefault("cache.max_age", "2160h")

	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "Zeiterfassung-CRM-App")
	v.SetDefault("geocode.limit", 5)

	v.SetDefault("timer.tick_interval", "1s")
	v.SetDefault("timer.resync_interval", "1m")
	v.SetDefault("timer.daily_target_hours", 8)
	v.SetDefault("timer.system_tray", false)

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("log.level", "info")
}

// defaultDataDir returns the per-user directory for session and cache files
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "zeiterfassung")
	}
	return ".zeiterfassung"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Backend config
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got '%s'", c.Backend.BaseURL)
	}
	if c.Backend.Retries < 0 {
		return fmt.Errorf("backend.retries must not be negative")
	}

	// Validate Session config
	if c.Session.File == "" {
		return fmt.Errorf("session.file is required")
	}

	// Validate Calendar config
	if !calendar.IsSupportedState(c.Calendar.State) {
		return fmt.Errorf("calendar.state must be one of %s, got '%s'",
			strings.Join(calendar.SupportedStates(), ", "), c.Calendar.State)
	}

	// Validate Cache config
	if c.Cache.Enabled && c.Cache.File == "" {
		return fmt.Errorf("cache.file is required when cache.enabled is set")
	}

	// Validate Geocode config
	if c.Geocode.Limit < 0 || c.Geocode.Limit > 50 {
		return fmt.Errorf("geocode.limit must be between 0 and 50")
	}

	// Validate Timer config
	if c.Timer.DailyTargetHours < 0 || c.Timer.DailyTargetHours > 24 {
		return fmt.Errorf("timer.daily_target_hours must be between 0 and 24")
	}

	return nil
}

// GetTimeout returns the backend request timeout
func (c *BackendConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// GetRetryBackoff returns the base delay between retries
func (c *BackendConfig) GetRetryBackoff() time.Duration {
	return parseDuration(c.RetryBackoff, time.Second)
}

// Options returns the backend client options
func (c *BackendConfig) Options() xano.Options {
	return xano.Options{
		BaseURL:      c.BaseURL,
		Groups:       c.Groups,
		Timeout:      c.GetTimeout(),
		Retries:      c.Retries,
		RetryBackoff: c.GetRetryBackoff(),
	}
}

// GetMaxAge returns how long cached reports are kept
func (c *CacheConfig) GetMaxAge() time.Duration {
	return parseDuration(c.MaxAge, 90*24*time.Hour)
}

// GetTickInterval returns the display refresh interval
func (c *TimerConfig) GetTickInterval() time.Duration {
	return parseDuration(c.TickInterval, time.Second)
}

// GetResyncInterval returns how often the running timer is re-read
func (c *TimerConfig) GetResyncInterval() time.Duration {
	return parseDuration(c.ResyncInterval, time.Minute)
}

// GetDailyTarget returns the workday length
func (c *TimerConfig) GetDailyTarget() time.Duration {
	if c.DailyTargetHours <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.DailyTargetHours * float64(time.Hour))
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Backend.BaseURL = os.ExpandEnv(c.Backend.BaseURL)
	c.Session.File = os.ExpandEnv(c.Session.File)
	c.Cache.File = os.ExpandEnv(c.Cache.File)
	c.Calendar.ExtraHolidaysFile = os.ExpandEnv(c.Calendar.ExtraHolidaysFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
