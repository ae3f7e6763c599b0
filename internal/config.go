package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const DefaultAPIBaseURL = "http://localhost:3000/api"

type Config struct {
	Env      string         `mapstructure:"env"`
	API      APIConfig      `mapstructure:"api"`
	Session  SessionConfig  `mapstructure:"session"`
	School   SchoolConfig   `mapstructure:"school"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"http_server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type SessionConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type SchoolConfig struct {
	TimeZone string `mapstructure:"time_zone"`
	PageSize int    `mapstructure:"page_size" validate:"min=1,max=100"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	Source       string `mapstructure:"source" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"min=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"min=1"`
}

type SecurityConfig struct {
	JWTSecret           string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	AccessTokenDuration time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m"`
	BCryptCost          int           `mapstructure:"bcrypt_cost" validate:"min=4,max=15"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// ----------------- DEFAULTS -----------------

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("session.path", DefaultSessionPath())
	v.SetDefault("school.time_zone", "")
	v.SetDefault("school.page_size", 5)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	v.SetDefault("http_server.port", 3000)
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.source", "school-admin.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("security.access_token_duration", 8*time.Hour)
	v.SetDefault("security.bcrypt_cost", 10)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
}

// DefaultSessionPath is where the session file lives when none is configured.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "school-admin", "session.json")
}

// Location returns the school's time zone, falling back to the local zone.
func (c *SchoolConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid school time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// ----------------- VALIDATION -----------------

var configValidator = validator.New()

// Validate checks the sections every client command relies on.
func (c *Config) Validate() error {
	var errs []string

	if err := c.API.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("api config: %v", err))
	}
	if err := configValidator.Struct(c.Session); err != nil {
		errs = append(errs, fmt.Sprintf("session config: %v", err))
	}
	if err := configValidator.Struct(c.School); err != nil {
		errs = append(errs, fmt.Sprintf("school config: %v", err))
	} else if _, err := c.School.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("school config: %v", err))
	}
	if err := configValidator.Struct(c.Logging); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ValidateServer checks the sections used by the reference server.
func (c *Config) ValidateServer() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := configValidator.Struct(c.Security); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}
	if err := configValidator.Struct(c.Metrics); err != nil {
		errs = append(errs, fmt.Sprintf("metrics config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *APIConfig) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q", u.Scheme)
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}
