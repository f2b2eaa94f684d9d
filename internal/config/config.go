package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// SeriesTemplate defines a named recurring shift series that can be
// expanded into concrete shifts
type SeriesTemplate struct {
	Name            string `yaml:"name" validate:"required"`
	ShiftTypeID     string `yaml:"shiftTypeID" validate:"required"`
	Location        string `yaml:"location" validate:"required"`
	RRule           string `yaml:"rrule" validate:"required"`
	StartTime       string `yaml:"startTime" validate:"required"` // HH:MM, venue local time
	DurationMinutes int    `yaml:"durationMinutes" validate:"required,min=15"`
	Capacity        int    `yaml:"capacity" validate:"required,min=1"`
	Notes           string `yaml:"notes,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string `yaml:"databaseURL" validate:"required"`
	ListenAddr  string `yaml:"listenAddr,omitempty"`

	// Timezone is the venue's local timezone; calendar-day rules (one
	// confirmed signup per day, the same-day fill waiver) are applied
	// in this zone
	Timezone string `yaml:"timezone" validate:"required"`

	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`

	// Notification dispatcher tuning
	NotifySendTimeoutSec int `yaml:"notifySendTimeoutSec,omitempty" validate:"omitempty,min=1"`
	NotifyMaxAttempts    int `yaml:"notifyMaxAttempts,omitempty" validate:"omitempty,min=1"`
	NotifyQueueSize      int `yaml:"notifyQueueSize,omitempty" validate:"omitempty,min=1"`

	SeriesTemplates []SeriesTemplate `yaml:"seriesTemplates,omitempty" validate:"dive"`

	location *time.Location
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Location returns the venue's local timezone, defaulting to UTC when the
// config has not been loaded through Load.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// SetLocation overrides the resolved timezone. Intended for tests.
func (c *Config) SetLocation(loc *time.Location) {
	c.location = loc
}

// ListenAddress returns the configured listen address or the default.
func (c *Config) ListenAddress() string {
	if c.ListenAddr == "" {
		return ":8080"
	}
	return c.ListenAddr
}

// Load loads and validates the configuration from shiftdesk_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile("shiftdesk_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadWithEnv loads shiftdesk_config.<env>.yaml for the given environment
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(fmt.Sprintf("shiftdesk_config.%s.yaml", env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file for env %q: %w", env, err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate rrule syntax for each series template
	for i, template := range cfg.SeriesTemplates {
		if _, err := rrule.StrToRRule(template.RRule); err != nil {
			return fmt.Errorf("invalid rrule in seriesTemplates[%d] (%s): %w", i, template.Name, err)
		}
		if _, err := time.Parse("15:04", template.StartTime); err != nil {
			return fmt.Errorf("invalid startTime in seriesTemplates[%d] (%s): %w", i, template.Name, err)
		}
	}

	return nil
}

// findConfigFile searches for the named config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
