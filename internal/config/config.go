// Package config handles the nabu.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/compiler/naming"
	"github.com/nabu-3/sdkgen/dialect"
)

// FileName is the default project configuration file.
const FileName = "nabu.yaml"

// EnvDSN overrides the dsn of the configuration file.
const EnvDSN = "NABU_DSN"

// Config represents the nabu.yaml project configuration file.
type Config struct {
	Author      string `yaml:"author,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`
	Schema      string `yaml:"schema,omitempty"`
	// Target is the directory classes are written under.
	Target    string `yaml:"target,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`

	// Dialect and DSN locate the live database. Snapshot, when set, is
	// used instead of a connection.
	Dialect  string `yaml:"dialect,omitempty"`
	DSN      string `yaml:"dsn,omitempty"`
	Snapshot string `yaml:"snapshot,omitempty"`

	// Dictionary extends the default abbreviation table.
	Dictionary    naming.Dictionary `yaml:"dictionary,omitempty"`
	Pluralization string            `yaml:"pluralization,omitempty"`
	Workers       int               `yaml:"workers,omitempty"`
	// Features lists the enabled feature names. Empty selects the
	// defaults.
	Features []string `yaml:"features,omitempty"`
	// Parents replaces or extends entries of the default parent registry.
	Parents classify.Registry `yaml:"parents,omitempty"`
	// Manifest is the entity manifest used by schema generation.
	Manifest string `yaml:"manifest,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Dialect:       dialect.MySQL,
		Namespace:     `nabu\data`,
		Pluralization: naming.PluralSimple,
	}
}

// Load reads the configuration at path and applies the environment.
// A missing file yields Default.
func Load(path string) (*Config, error) {
	return LoadEnv(path, os.Getenv)
}

// LoadEnv is like Load with an explicit environment lookup.
func LoadEnv(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg.ApplyEnv(getenv)
		return cfg, nil
	case err != nil:
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("nabu: parse %s: %w", path, err)
	}
	cfg.ApplyEnv(getenv)
	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		return
	}
	if dsn := getenv(EnvDSN); dsn != "" {
		c.DSN = dsn
	}
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks the values set in the configuration. Options left empty
// are not reported; see Missing.
func (c *Config) Validate() error {
	var errs []error
	if c.Dialect != "" {
		if _, err := dialect.Normalize(c.Dialect); err != nil {
			errs = append(errs, gen.NewConfigError("dialect", c.Dialect, err.Error()))
		}
	}
	if _, ok := naming.PluralizerByName(c.Pluralization); !ok {
		errs = append(errs, gen.NewConfigError("pluralization", c.Pluralization, "expected simple or english"))
	}
	if c.Workers < 0 {
		errs = append(errs, gen.NewConfigError("workers", c.Workers, "must not be negative"))
	}
	for _, name := range c.Features {
		if _, ok := gen.FeatureByName(name); !ok {
			errs = append(errs, gen.NewConfigError("features", name, "unknown feature"))
		}
	}
	if err := c.Registry().Validate(); err != nil {
		errs = append(errs, gen.NewConfigError("parents", nil, err.Error()))
	}
	return errors.Join(errs...)
}

// Missing returns the names of the options a generation run requires but
// the configuration leaves empty, in prompt order.
func (c *Config) Missing() []string {
	var out []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"author", c.Author},
		{"author_email", c.AuthorEmail},
		{"schema", c.Schema},
		{"target", c.Target},
	} {
		if f.value == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// RequireComplete returns a ConfigError for every missing option.
func (c *Config) RequireComplete() error {
	var errs []error
	for _, name := range c.Missing() {
		errs = append(errs, gen.NewConfigError(name, nil, "required parameter is empty"))
	}
	return errors.Join(errs...)
}

// Registry returns the default parent registry merged with Parents.
func (c *Config) Registry() classify.Registry {
	return classify.DefaultRegistry().Merge(c.Parents)
}

// Dict returns the default dictionary merged with Dictionary.
func (c *Config) Dict() naming.Dictionary {
	return naming.DefaultDictionary().Merge(c.Dictionary)
}

// GenOptions translates the configuration into generator options.
func (c *Config) GenOptions() []gen.Option {
	opts := []gen.Option{
		gen.WithTarget(c.Target),
		gen.WithSchema(c.Schema),
		gen.WithAuthor(c.Author, c.AuthorEmail),
		gen.WithDictionary(c.Dict()),
		gen.WithRegistry(c.Registry()),
	}
	if p, ok := naming.PluralizerByName(c.Pluralization); ok {
		opts = append(opts, gen.WithPluralizer(p))
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	if len(c.Features) > 0 {
		var enabled, disabled []gen.Feature
		for _, f := range gen.AllFeatures {
			if slices.Contains(c.Features, f.Name) {
				enabled = append(enabled, f)
			} else {
				disabled = append(disabled, f)
			}
		}
		opts = append(opts, gen.WithoutFeatures(disabled...), gen.WithFeatures(enabled...))
	}
	return opts
}
