// Package load reads the manifest listing the storages to generate classes
// for and the names they are generated under.
package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	sdk "github.com/nabu-3/sdkgen"
	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/gen"
	"github.com/nabu-3/sdkgen/compiler/naming"
	"github.com/nabu-3/sdkgen/schema"
)

// BaseLevel is the namespace level holding abstract base classes.
const BaseLevel = "base"

// Manifest lists the entities of one generation run.
type Manifest struct {
	// Schema is the database schema the tables live in.
	Schema string `yaml:"schema,omitempty"`
	// Namespace is the default namespace of entities declaring none,
	// without the leading backslash.
	Namespace string `yaml:"namespace,omitempty"`
	// Base generates abstract <Class>Base classes in a base sub-namespace
	// for entities whose class is derived from the table name.
	Base     bool         `yaml:"base,omitempty"`
	Entities []gen.Entity `yaml:"entities"`
}

// Parse decodes a YAML manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	m := &Manifest{}
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("nabu: parse manifest: %w", err)
	}
	return m, nil
}

// LoadFile reads the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gen.NewIOError("read", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Marshal encodes m as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("nabu: encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes m to path.
func (m *Manifest) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return gen.NewIOError("write", path, err)
	}
	return nil
}

// Resolve returns the entities of m with the missing class, label and
// namespace derived from the table name. Tables listed twice are reported
// as a ConfigError.
func (m *Manifest) Resolve(dict naming.Dictionary) ([]gen.Entity, error) {
	out := make([]gen.Entity, 0, len(m.Entities))
	seen := make(map[string]bool, len(m.Entities))
	var errs []error
	for i, e := range m.Entities {
		e.Table = strings.TrimSpace(e.Table)
		if e.Table == "" {
			errs = append(errs, gen.NewConfigError(fmt.Sprintf("entities[%d].table", i), nil, "table cannot be empty"))
			continue
		}
		if seen[e.Table] {
			errs = append(errs, gen.NewConfigError(fmt.Sprintf("entities[%d].table", i), e.Table, "table listed twice"))
			continue
		}
		seen[e.Table] = true
		e = m.complete(e, dict)
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("entity %s: %w", e.Table, err))
			continue
		}
		out = append(out, e)
	}
	if err := sdk.NewAggregateError("manifest", errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *Manifest) complete(e gen.Entity, dict naming.Dictionary) gen.Entity {
	derived := e.Class == ""
	if e.Label == "" {
		e.Label = naming.ToEntityLabel(e.Table, dict)
	}
	if derived {
		e.Class = naming.ToClassName(e.Table, dict)
	}
	if e.Namespace == "" {
		e.Namespace = m.Namespace
	}
	e.Namespace = strings.Trim(e.Namespace, `\`)
	if m.Base && derived {
		e.Class += "Base"
		e.Abstract = true
		if e.Namespace != "" && !strings.HasSuffix(e.Namespace, `\`+BaseLevel) {
			e.Namespace += `\` + BaseLevel
		}
	}
	return e
}

// Table returns the entity declared for table, or false.
func (m *Manifest) Table(table string) (gen.Entity, bool) {
	i := slices.IndexFunc(m.Entities, func(e gen.Entity) bool { return e.Table == table })
	if i < 0 {
		return gen.Entity{}, false
	}
	return m.Entities[i], true
}

// FromSchema builds a manifest with one entity per table of schemaName.
// Translation tables are left out; they are generated with the table they
// translate.
func FromSchema(ctx context.Context, d schema.Describer, schemaName, namespace string) (*Manifest, error) {
	tables, err := d.Tables(ctx, schemaName)
	if err != nil {
		return nil, fmt.Errorf("nabu: list tables of %q: %w", schemaName, err)
	}
	slices.Sort(tables)
	m := &Manifest{Schema: schemaName, Namespace: namespace}
	for _, t := range tables {
		if strings.HasSuffix(t, classify.TranslationSuffix) {
			continue
		}
		m.Entities = append(m.Entities, gen.Entity{Table: t})
	}
	return m, nil
}
