package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// RequestTemplate defines a recurring manpower request. The rrule expands
// into concrete request dates; each occurrence becomes one pending request
// row with the template's headcounts.
type RequestTemplate struct {
	RRule           string `yaml:"rrule" validate:"required"`
	SubsectionID    string `yaml:"subsectionID" validate:"required"`
	SectionID       string `yaml:"sectionID" validate:"required"`
	RequestedAmount int    `yaml:"requestedAmount" validate:"required,min=1"`
	MaleCount       int    `yaml:"maleCount" validate:"min=0"`
	FemaleCount     int    `yaml:"femaleCount" validate:"min=0"`
	LineManaged     bool   `yaml:"lineManaged,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	// DefaultStrategy is used when a command does not pass --strategy
	DefaultStrategy string `yaml:"defaultStrategy,omitempty" validate:"omitempty,oneof=optimal same_section balanced"`

	// LineManagedSubsections lists subsection ids whose requests require
	// mandatory line rotation. Kept as data so operators can designate
	// categories without code changes.
	LineManagedSubsections []string `yaml:"lineManagedSubsections,omitempty"`

	RequestTemplates []RequestTemplate `yaml:"requestTemplates,omitempty" validate:"dive"`

	// Sheets publishing target for the fulfilled assignment board
	BoardSheetID string `yaml:"boardSheetID,omitempty"`
	BoardTab     string `yaml:"boardTab,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// IsLineManagedSubsection reports whether the given subsection is
// designated for mandatory line rotation.
func (c *Config) IsLineManagedSubsection(subsectionID string) bool {
	for _, id := range c.LineManagedSubsections {
		if id == subsectionID {
			return true
		}
	}
	return false
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "manpower_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
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

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, template := range cfg.RequestTemplates {
		if _, err := rrule.StrToRRule(template.RRule); err != nil {
			return fmt.Errorf("invalid rrule in requestTemplates[%d]: %w", i, err)
		}
	}

	return nil
}

// findConfigFile searches for the config file in the current directory and
// the user's home directory. An env adds an extension, e.g.
// "manpower_config.test.yaml".
func findConfigFile(env string) (string, error) {
	configFileName := "manpower_config.yaml"
	if env != "" {
		configFileName = "manpower_config." + env + ".yaml"
	}

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
