// Package validation checks configuration values and reports every problem
// at once as a single validation AppError.
//
// Struct tag validation uses go-playground/validator and names fields by
// their config keys:
//
//	type Config struct {
//	    Shell string `mapstructure:"shell" validate:"required"`
//	}
//	err := validation.Struct(cfg)
//
// Rules that tags cannot express are collected programmatically:
//
//	v := validation.New()
//	v.NonNegativeDuration("timeout", cfg.Timeout)
//	v.Between("sample_rate", cfg.SampleRate, 0, 1)
//	err := v.Err()
package validation
