package actions

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config carries the operational defaults every action is constructed with.
// It is passed explicitly; nothing in this package reads process-wide state.
type Config struct {
	// DefaultPerPage is the page size List uses when ListOptions.PerPage is 0.
	DefaultPerPage int

	// DefaultOrderColumn and DefaultOrderDirection shape the baseline ordering
	// for List and Get so callers get deterministic most-recent-first results.
	DefaultOrderColumn    string
	DefaultOrderDirection string

	// Cache configures the Cached decorator.
	Cache CacheConfig
}

// CacheConfig holds the cache wrapper settings.
type CacheConfig struct {
	// Enabled is the initial toggle for Cached wrappers built from this
	// config. WithCache/WithoutCache flip it per wrapper at runtime.
	Enabled bool

	// KeyPrefix namespaces every cache key produced by this module.
	KeyPrefix string

	// TTLMinutes is the default time-to-live, in minutes, applied when a
	// wrapper has no per-action override.
	TTLMinutes int
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultPerPage:        15,
		DefaultOrderColumn:    "id",
		DefaultOrderDirection: "DESC",
		Cache: CacheConfig{
			Enabled:    true,
			KeyPrefix:  "actions",
			TTLMinutes: 5,
		},
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.DefaultPerPage, validation.Required, validation.Min(1)),
		validation.Field(&c.DefaultOrderColumn, validation.Required),
		validation.Field(&c.DefaultOrderDirection, validation.Required,
			validation.In("ASC", "DESC", "asc", "desc")),
	); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// Validate checks whether the cache settings are valid.
func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.KeyPrefix, validation.Required),
		validation.Field(&c.TTLMinutes, validation.Min(0)),
	)
}
