package gen

import (
	"log/slog"
	"runtime"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/naming"
	"github.com/nabu-3/sdkgen/compiler/render"
)

// DefaultVersion is the framework version written in @version tags.
const DefaultVersion = "3.0.12 Surface"

// Config holds the global configuration of a generation run.
type Config struct {
	// Target is the directory the namespace tree is written under.
	Target string
	// Schema is the database schema tables are described from.
	Schema string

	Author      string
	AuthorEmail string
	Version     string

	Dictionary naming.Dictionary
	Registry   classify.Registry
	Pluralizer naming.Pluralizer

	// Workers bounds the number of entities generated concurrently.
	Workers int

	// Renderers overrides the default registry built from Clock.
	Renderers *render.Registry
	Clock     render.Clock
	Logger    *slog.Logger

	// Features lists the enabled features.
	Features []Feature
}

// DefaultConfig returns a config with the default dictionary, registry
// and features.
func DefaultConfig() *Config {
	return &Config{
		Version:    DefaultVersion,
		Dictionary: naming.DefaultDictionary(),
		Registry:   classify.DefaultRegistry(),
		Pluralizer: naming.SimplePluralizer{},
		Workers:    runtime.GOMAXPROCS(0),
		Clock:      render.SystemClock{},
		Features:   DefaultFeatures(),
	}
}

// FeatureEnabled reports if the given feature name is enabled.
// It returns a ConfigError for undeclared names.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if _, ok := FeatureByName(name); !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	return c.HasFeature(name), nil
}

// HasFeature reports whether the named feature is enabled.
func (c *Config) HasFeature(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Validate checks the parameters required to write classes.
func (c *Config) Validate() error {
	if c.Target == "" {
		return NewConfigError("Target", nil, "target directory cannot be empty")
	}
	if c.Workers < 1 {
		return NewConfigError("Workers", c.Workers, "must be positive")
	}
	if err := c.Registry.Validate(); err != nil {
		return NewConfigError("Registry", nil, err.Error())
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) renderers() *render.Registry {
	if c.Renderers != nil {
		return c.Renderers
	}
	clock := c.Clock
	if clock == nil {
		clock = render.SystemClock{}
	}
	return render.NewRegistry(render.WithClock(clock))
}

// assembler returns an Assembler sharing the naming and parent settings of
// the config.
func (c *Config) assembler() *Assembler {
	return &Assembler{
		Dictionary:  c.Dictionary,
		Registry:    c.Registry,
		Pluralizer:  c.Pluralizer,
		Author:      c.Author,
		AuthorEmail: c.AuthorEmail,
		Version:     c.Version,
	}
}
