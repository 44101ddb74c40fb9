package config

import "github.com/kbukum/gosh/validation"

// Environments a script may declare.
var environments = []string{"development", "staging", "production"}

// BaseConfig identifies the script.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	return validation.New().
		Required("name", c.Name).
		Check(c.Environment != "", "environment", "is required").
		OneOf("environment", c.Environment, environments).
		Err()
}
