// Package config provides configuration management.
package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"pingplotter-roi/core/types"
	"pingplotter-roi/internal/errors"
	"pingplotter-roi/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. PPROI_SERVER_ADDR.
const EnvPrefix = "PPROI"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Defaults seed the calculator inputs when none are given
	Defaults DefaultsConfig `json:"defaults" mapstructure:"defaults"`

	// Pricing selects the price schedule
	Pricing PricingConfig `json:"pricing" mapstructure:"pricing"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Output contains output-related settings
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Chart contains chart rendering settings
	Chart ChartConfig `json:"chart" mapstructure:"chart"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// DefaultsConfig are the organization figures used when the caller gives none
type DefaultsConfig struct {
	UserCount        int             `json:"user_count" mapstructure:"user_count"`
	UserCost         decimal.Decimal `json:"user_cost" mapstructure:"user_cost"`
	ITCost           decimal.Decimal `json:"it_cost" mapstructure:"it_cost"`
	Frequency        decimal.Decimal `json:"frequency" mapstructure:"frequency"`
	Duration         decimal.Decimal `json:"duration" mapstructure:"duration"`
	CriticalServices int             `json:"critical_services" mapstructure:"critical_services"`
	DowntimeImpact   decimal.Decimal `json:"downtime_impact" mapstructure:"downtime_impact"`
}

// Organization converts the defaults into a profile.
func (d DefaultsConfig) Organization() types.OrganizationProfile {
	impact := d.DowntimeImpact
	return types.OrganizationProfile{
		UserCount:            d.UserCount,
		UserHourlyCost:       d.UserCost,
		ITHourlyCost:         d.ITCost,
		IssueFrequency:       d.Frequency,
		IssueDurationMinutes: d.Duration,
		CriticalServices:     d.CriticalServices,
		DowntimeImpact:       &impact,
	}
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// ProfileFile is an HCL profile file whose pricing block replaces the
	// published schedule
	ProfileFile string `json:"profile_file,omitempty" mapstructure:"profile_file"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr            string        `json:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `json:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `json:"max_body_bytes" mapstructure:"max_body_bytes"`
	CORSOrigins     []string      `json:"cors_origins" mapstructure:"cors_origins"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" mapstructure:"default_format"`

	// Directory receives chart files when no path is given
	Directory string `json:"directory" mapstructure:"directory"`
}

// ChartConfig contains chart rendering settings
type ChartConfig struct {
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
	Format string `json:"format" mapstructure:"format"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Defaults: DefaultsConfig{
			UserCount:        250,
			UserCost:         decimal.NewFromInt(20),
			ITCost:           decimal.NewFromInt(500),
			Frequency:        decimal.NewFromInt(25),
			Duration:         decimal.NewFromInt(15),
			CriticalServices: 1,
			DowntimeImpact:   types.DefaultDowntimeImpact,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			CORSOrigins:     []string{"*"},
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			Directory:     ".",
		},
		Chart: ChartConfig{
			Width:  1000,
			Height: 500,
			Format: "png",
		},
		Logging: logging.DefaultConfig(),
	}
}

// setDefaults registers every key so environment overrides resolve even when
// the file omits them.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("version", d.Version)
	v.SetDefault("defaults.user_count", d.Defaults.UserCount)
	v.SetDefault("defaults.user_cost", d.Defaults.UserCost.String())
	v.SetDefault("defaults.it_cost", d.Defaults.ITCost.String())
	v.SetDefault("defaults.frequency", d.Defaults.Frequency.String())
	v.SetDefault("defaults.duration", d.Defaults.Duration.String())
	v.SetDefault("defaults.critical_services", d.Defaults.CriticalServices)
	v.SetDefault("defaults.downtime_impact", d.Defaults.DowntimeImpact.String())
	v.SetDefault("pricing.profile_file", d.Pricing.ProfileFile)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout.String())
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("output.default_format", d.Output.DefaultFormat)
	v.SetDefault("output.directory", d.Output.Directory)
	v.SetDefault("chart.width", d.Chart.Width)
	v.SetDefault("chart.height", d.Chart.Height)
	v.SetDefault("chart.format", d.Chart.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// decimalHook decodes numbers and numeric strings into decimals.
func decimalHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return data, nil
}

// Load loads configuration from a file, then applies PPROI_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.Is(err, fs.ErrNotExist) && !stderrors.As(err, &notFound) {
				return nil, errors.Config("failed to read config "+path, err)
			}
		}
	}

	cfg := &Config{}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		decimalHook,
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return nil, errors.Config("failed to decode config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the defaults and server settings.
func (c *Config) Validate() error {
	if err := c.Defaults.Organization().Validate(); err != nil {
		return errors.Config("invalid defaults", err)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return errors.Config("chart width and height must be positive", nil)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.Config("server.max_body_bytes must be positive", nil)
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.Config("invalid logging settings", err)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
