package gen

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/naming"
	"github.com/nabu-3/sdkgen/compiler/render"
)

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
// Generated classes are written below it, one directory per namespace level.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithSchema sets the database schema the tables are described from.
func WithSchema(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("Schema", nil, "schema cannot be empty")
		}
		c.Schema = name
		return nil
	}
}

// WithAuthor sets the author stamped into class comments.
// Both values are optional but at least one must be non-blank.
func WithAuthor(name, email string) Option {
	return func(c *Config) error {
		name, email = strings.TrimSpace(name), strings.TrimSpace(email)
		if name == "" && email == "" {
			return NewConfigError("Author", nil, "author name or email is required")
		}
		c.Author = name
		c.AuthorEmail = email
		return nil
	}
}

// WithVersion sets the framework version written in @version tags.
func WithVersion(v string) Option {
	return func(c *Config) error {
		if strings.TrimSpace(v) == "" {
			return NewConfigError("Version", nil, "version cannot be empty")
		}
		c.Version = v
		return nil
	}
}

// WithDictionary merges abbreviations into the naming dictionary.
func WithDictionary(dict naming.Dictionary) Option {
	return func(c *Config) error {
		c.Dictionary = c.Dictionary.Merge(dict)
		return nil
	}
}

// WithRegistry merges parent overrides into the registry.
func WithRegistry(reg classify.Registry) Option {
	return func(c *Config) error {
		merged := c.Registry.Merge(reg)
		if err := merged.Validate(); err != nil {
			return NewConfigError("Registry", nil, err.Error())
		}
		c.Registry = merged
		return nil
	}
}

// WithPluralizer sets the pluralizer used to name getAll finders.
func WithPluralizer(p naming.Pluralizer) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("Pluralizer", nil, "pluralizer cannot be nil")
		}
		c.Pluralizer = p
		return nil
	}
}

// WithWorkers sets the number of classes generated concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithRenderers replaces the renderer registry.
func WithRenderers(r *render.Registry) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Renderers", nil, "renderer registry cannot be nil")
		}
		c.Renderers = r
		return nil
	}
}

// WithClock sets the clock stamped into license banners.
// It only affects the default renderer registry.
func WithClock(clock render.Clock) Option {
	return func(c *Config) error {
		if clock == nil {
			return NewConfigError("Clock", nil, "clock cannot be nil")
		}
		c.Clock = clock
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if _, ok := FeatureByName(f.Name); !ok {
				return NewConfigError("Features", f.Name, "unknown feature")
			}
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithoutFeatures disables specific features.
func WithoutFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			for i := 0; i < len(c.Features); i++ {
				if c.Features[i].Name == f.Name {
					c.Features = append(c.Features[:i], c.Features[i+1:]...)
					i--
				}
			}
		}
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a config with defaults and applies options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}
