package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sartorproj/macrolens/timeseries"
)

// Config represents the complete application configuration
type Config struct {
	Data       DataConfig       `mapstructure:"data"`
	Indicators IndicatorsConfig `mapstructure:"indicators"`
	Charts     ChartsConfig     `mapstructure:"charts"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// DataConfig selects where observations are read from
type DataConfig struct {
	Source         string   `mapstructure:"source"` // csv or sqlite
	Dir            string   `mapstructure:"dir"`
	Database       string   `mapstructure:"database"`
	MissingMarkers []string `mapstructure:"missing_markers"`
	EventsFile     string   `mapstructure:"events_file"` // optional YAML event catalog
}

// Component is one CPI sub-component and its display label
type Component struct {
	ID    string `mapstructure:"id"`
	Label string `mapstructure:"label"`
}

// IndicatorsConfig maps dashboard roles to series IDs
type IndicatorsConfig struct {
	CPI          string      `mapstructure:"cpi"`
	PCE          string      `mapstructure:"pce"`
	Savings      string      `mapstructure:"savings"`
	Credit       string      `mapstructure:"credit"`
	Unemployment string      `mapstructure:"unemployment"`
	Interest     string      `mapstructure:"interest"`
	Components   []Component `mapstructure:"components"`
}

// ChartsConfig holds the windows and display ranges of each chart
type ChartsConfig struct {
	OverviewWindow   int    `mapstructure:"overview_window"`
	ComparisonWindow int    `mapstructure:"comparison_window"`
	ComparisonFrom   string `mapstructure:"comparison_from"`
	MaxLag           int    `mapstructure:"max_lag"`
	InflationWindow  int    `mapstructure:"inflation_window"`
	InflationFrom    string `mapstructure:"inflation_from"`
	SavingsWindow    int    `mapstructure:"savings_window"`
	SavingsRolling   int    `mapstructure:"savings_rolling"`
	SavingsFrom      string `mapstructure:"savings_from"`
	InterestFrom     string `mapstructure:"interest_from"`
	InterestTo       string `mapstructure:"interest_to"`
	ComponentsWindow int    `mapstructure:"components_window"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"` // stdout, stderr, file
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configuration from file and environment variables. An empty
// path uses defaults and the environment only. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("MACROLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
				return nil, &timeseries.NotFoundError{Source: path, Err: statErr}
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Data defaults
	v.SetDefault("data.source", "csv")
	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.database", "./data/macrolens.db")
	v.SetDefault("data.missing_markers", []string{"", "."})
	v.SetDefault("data.events_file", "")

	// FRED series IDs
	v.SetDefault("indicators.cpi", "CPIAUCSL")
	v.SetDefault("indicators.pce", "PCE")
	v.SetDefault("indicators.savings", "PSAVERT")
	v.SetDefault("indicators.credit", "REVOLSL")
	v.SetDefault("indicators.unemployment", "UNRATE")
	v.SetDefault("indicators.interest", "DFEDTARU")
	v.SetDefault("indicators.components", []map[string]string{
		{"id": "CPIFABSL", "label": "Food Bev"},
		{"id": "CPIHOSSL", "label": "Housing"},
		{"id": "CPIAPPSL", "label": "Apparel"},
		{"id": "CPITRNSL", "label": "Transport"},
		{"id": "CPIMEDSL", "label": "Medical"},
		{"id": "CPIRECSL", "label": "Recreation"},
		{"id": "CPIEDUSL", "label": "Education"},
		{"id": "CPIOGSSL", "label": "Other"},
	})

	// Chart defaults
	v.SetDefault("charts.overview_window", 60)
	v.SetDefault("charts.comparison_window", 48)
	v.SetDefault("charts.comparison_from", "2020-08-01")
	v.SetDefault("charts.max_lag", 18)
	v.SetDefault("charts.inflation_window", 48)
	v.SetDefault("charts.inflation_from", "2019-08-01")
	v.SetDefault("charts.savings_window", 48)
	v.SetDefault("charts.savings_rolling", 12)
	v.SetDefault("charts.savings_from", "2018-08-01")
	v.SetDefault("charts.interest_from", "2019-08-01")
	v.SetDefault("charts.interest_to", "2022-08-01")
	v.SetDefault("charts.components_window", 60)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.filename", "logs/macrolens.log")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_age", 30)
	v.SetDefault("logging.max_backups", 10)
	v.SetDefault("logging.compress", true)
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Data config
	switch c.Data.Source {
	case "csv":
		if c.Data.Dir == "" {
			return fmt.Errorf("data.dir is required when data.source is csv")
		}
	case "sqlite":
		if c.Data.Database == "" {
			return fmt.Errorf("data.database is required when data.source is sqlite")
		}
	default:
		return fmt.Errorf("data.source must be one of: csv, sqlite")
	}

	// Validate Indicators config
	ids := []struct {
		key   string
		value string
	}{
		{"indicators.cpi", c.Indicators.CPI},
		{"indicators.pce", c.Indicators.PCE},
		{"indicators.savings", c.Indicators.Savings},
		{"indicators.credit", c.Indicators.Credit},
		{"indicators.unemployment", c.Indicators.Unemployment},
		{"indicators.interest", c.Indicators.Interest},
	}
	for _, id := range ids {
		if id.value == "" {
			return fmt.Errorf("%s is required", id.key)
		}
	}
	labels := make(map[string]bool, len(c.Indicators.Components))
	for i, comp := range c.Indicators.Components {
		if comp.ID == "" || comp.Label == "" {
			return fmt.Errorf("indicators.components[%d] needs both id and label", i)
		}
		if labels[comp.Label] {
			return fmt.Errorf("indicators.components label %q is repeated", comp.Label)
		}
		labels[comp.Label] = true
	}

	// Validate Charts config
	windows := []struct {
		key   string
		value int
	}{
		{"charts.overview_window", c.Charts.OverviewWindow},
		{"charts.comparison_window", c.Charts.ComparisonWindow},
		{"charts.inflation_window", c.Charts.InflationWindow},
		{"charts.savings_window", c.Charts.SavingsWindow},
		{"charts.savings_rolling", c.Charts.SavingsRolling},
		{"charts.components_window", c.Charts.ComponentsWindow},
	}
	for _, w := range windows {
		if w.value < 1 {
			return fmt.Errorf("%s must be at least 1", w.key)
		}
	}
	if c.Charts.MaxLag < 0 {
		return fmt.Errorf("charts.max_lag must not be negative")
	}
	dates := []struct {
		key   string
		value string
	}{
		{"charts.comparison_from", c.Charts.ComparisonFrom},
		{"charts.inflation_from", c.Charts.InflationFrom},
		{"charts.savings_from", c.Charts.SavingsFrom},
		{"charts.interest_from", c.Charts.InterestFrom},
		{"charts.interest_to", c.Charts.InterestTo},
	}
	for _, d := range dates {
		if d.value == "" {
			continue
		}
		if _, err := timeseries.ParseDate(d.value); err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
	}

	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return fmt.Errorf("server.mode must be one of: debug, release, test")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	validOutputs := map[string]bool{"stdout": true, "stderr": true, "file": true}
	if !validOutputs[c.Logging.Output] {
		return fmt.Errorf("logging.output must be one of: stdout, stderr, file")
	}
	if c.Logging.Output == "file" && c.Logging.Filename == "" {
		return fmt.Errorf("logging.filename is required when logging.output is file")
	}

	return nil
}

// Date parses an optional YYYY-MM-DD chart bound. An empty value is the zero
// time, which chart ranges treat as open.
func Date(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := timeseries.ParseDate(value)
	if err != nil {
		return time.Time{}
	}
	return t
}
