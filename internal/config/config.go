package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration for the calweave CLI. Values come
// from an optional YAML file with environment variable overrides on top.
type Config struct {
	// Timezone is the IANA zone events are interpreted against by default.
	Timezone string `yaml:"timezone"`

	// WeekStart is the first day of the week for view grids:
	// "sunday".."saturday".
	WeekStart string `yaml:"week_start"`

	LogLevel string `yaml:"log_level"`

	ICS ICSConfig `yaml:"ics"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads the config file at path (ignored when missing) and applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		case errors.Is(err, fs.ErrNotExist):
			// No file is fine; env and defaults carry the config.
		default:
			return nil, err
		}
	}

	cfg.Timezone = getenv("CALWEAVE_TZ", getenv("TZ", cfg.Timezone))
	cfg.WeekStart = getenv("CALWEAVE_WEEK_START", cfg.WeekStart)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.ICS.CompanyName = getenv("ICS_COMPANY_NAME", cfg.ICS.CompanyName)
	cfg.ICS.ProductName = getenv("ICS_PRODUCT_NAME", cfg.ICS.ProductName)
	cfg.ICS.Version = getenv("ICS_VERSION", cfg.ICS.Version)
	cfg.ICS.Language = getenv("ICS_LANGUAGE", cfg.ICS.Language)

	cfg.normalize()
	return cfg, nil
}

// normalize fills missing values with defaults so partial configs behave.
func (c *Config) normalize() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.WeekStart == "" {
		c.WeekStart = "sunday"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ICS.CompanyName == "" {
		c.ICS.CompanyName = "calweave"
	}
	if c.ICS.ProductName == "" {
		c.ICS.ProductName = "calweave"
	}
	if c.ICS.Language == "" {
		c.ICS.Language = "EN"
	}
}

// Location resolves the configured timezone through the host tzdb, falling
// back to UTC for unknown names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekStartDay maps the configured week start name onto a weekday,
// defaulting to Sunday.
func (c *Config) WeekStartDay() time.Weekday {
	if wd, ok := weekdays[strings.ToLower(c.WeekStart)]; ok {
		return wd
	}
	return time.Sunday
}
