// Package snapshot stores table descriptors offline so classes can be
// generated without a live database.
//
// A snapshot is one of:
//
//   - a directory holding one sidecar <table>.json file per table
//   - a .yaml or .yml document
//   - a .msgpack document
//   - a .txtar archive whose files are sidecar <table>.json descriptors
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	sdk "github.com/nabu-3/sdkgen"
	"github.com/nabu-3/sdkgen/schema"
)

// Snapshot formats, selected by path extension.
const (
	FormatDir     = "dir"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
	FormatTxtar   = "txtar"
)

const sidecarExt = ".json"

// document is the YAML and msgpack layout.
type document struct {
	Schema string               `yaml:"schema" msgpack:"schema"`
	Tables []*schema.Descriptor `yaml:"tables" msgpack:"tables"`
}

// Set is an in-memory collection of descriptors of one schema. It
// implements schema.Describer.
type Set struct {
	Schema string
	tables map[string]*schema.Descriptor
}

// NewSet returns a Set holding descs.
func NewSet(schemaName string, descs ...*schema.Descriptor) *Set {
	s := &Set{Schema: schemaName, tables: make(map[string]*schema.Descriptor)}
	for _, d := range descs {
		s.Add(d)
	}
	return s
}

// Add stores a copy of d, replacing any descriptor of the same table.
func (s *Set) Add(d *schema.Descriptor) {
	c := d.Clone()
	if c.Schema == "" {
		c.Schema = s.Schema
	}
	if s.Schema == "" {
		s.Schema = c.Schema
	}
	s.tables[c.Storage] = c
}

// Len returns the number of tables.
func (s *Set) Len() int {
	return len(s.tables)
}

// Describe returns a copy of the descriptor of table.
func (s *Set) Describe(_ context.Context, table, schemaName string) (*schema.Descriptor, error) {
	if schemaName != "" && s.Schema != "" && schemaName != s.Schema {
		return nil, sdk.NewNotFoundErrorWithID("schema", schemaName)
	}
	d, ok := s.tables[table]
	if !ok {
		return nil, sdk.NewNotFoundErrorWithID("storage", table)
	}
	return d.Clone(), nil
}

// Tables returns the sorted table names.
func (s *Set) Tables(_ context.Context, schemaName string) ([]string, error) {
	if schemaName != "" && s.Schema != "" && schemaName != s.Schema {
		return nil, sdk.NewNotFoundErrorWithID("schema", schemaName)
	}
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *Set) sorted() []*schema.Descriptor {
	names, _ := s.Tables(context.Background(), "")
	out := make([]*schema.Descriptor, 0, len(names))
	for _, n := range names {
		out = append(out, s.tables[n])
	}
	return out
}

// FormatOf returns the snapshot format implied by path.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mp":
		return FormatMsgpack
	case ".txtar":
		return FormatTxtar
	}
	return FormatDir
}

// Load reads the snapshot stored at path.
func Load(path string) (*Set, error) {
	format := FormatOf(path)
	if format == FormatDir {
		return loadDir(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("nabu: read snapshot: %w", err)
	}
	return Decode(format, data)
}

// Decode parses a snapshot of the given file format.
func Decode(format string, data []byte) (*Set, error) {
	switch format {
	case FormatYAML:
		var doc document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("nabu: decode yaml snapshot: %w", err)
		}
		return NewSet(doc.Schema, doc.Tables...), nil
	case FormatMsgpack:
		var doc document
		if err := msgpack.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("nabu: decode msgpack snapshot: %w", err)
		}
		return NewSet(doc.Schema, doc.Tables...), nil
	case FormatTxtar:
		return decodeTxtar(txtar.Parse(data))
	}
	return nil, fmt.Errorf("nabu: unknown snapshot format %q", format)
}

func decodeTxtar(a *txtar.Archive) (*Set, error) {
	s := NewSet(strings.TrimSpace(string(a.Comment)))
	for _, f := range a.Files {
		if filepath.Ext(f.Name) != sidecarExt {
			continue
		}
		d, err := schema.UnmarshalSidecar(f.Data)
		if err != nil {
			return nil, fmt.Errorf("nabu: %s: %w", f.Name, err)
		}
		s.Add(d)
	}
	return s, nil
}

func loadDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("nabu: read snapshot: %w", err)
	}
	s := NewSet("")
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != sidecarExt {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("nabu: read snapshot: %w", err)
		}
		d, err := schema.UnmarshalSidecar(data)
		if err != nil {
			return nil, fmt.Errorf("nabu: %s: %w", e.Name(), err)
		}
		s.Add(d)
	}
	return s, nil
}

// Encode serializes s in the given file format. The directory format has no
// single-file encoding; use Save.
func (s *Set) Encode(format string) ([]byte, error) {
	doc := document{Schema: s.Schema, Tables: s.sorted()}
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("nabu: encode yaml snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		data, err := msgpack.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("nabu: encode msgpack snapshot: %w", err)
		}
		return data, nil
	case FormatTxtar:
		a := &txtar.Archive{Comment: []byte(s.Schema + "\n")}
		for _, d := range doc.Tables {
			data, err := schema.MarshalSidecar(d)
			if err != nil {
				return nil, err
			}
			a.Files = append(a.Files, txtar.File{Name: d.Storage + sidecarExt, Data: append(data, '\n')})
		}
		return txtar.Format(a), nil
	}
	return nil, fmt.Errorf("nabu: cannot encode snapshot format %q", format)
}

// Save writes s to path in the format implied by its extension.
func (s *Set) Save(path string) error {
	format := FormatOf(path)
	if format == FormatDir {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("nabu: create snapshot dir: %w", err)
		}
		for _, d := range s.sorted() {
			data, err := schema.MarshalSidecar(d)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(path, d.Storage+sidecarExt), data, 0o644); err != nil {
				return fmt.Errorf("nabu: write snapshot: %w", err)
			}
		}
		return nil
	}
	data, err := s.Encode(format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("nabu: create snapshot dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("nabu: write snapshot: %w", err)
	}
	return nil
}

// Capture describes every table of schemaName through d.
func Capture(ctx context.Context, d schema.Describer, schemaName string) (*Set, error) {
	tables, err := d.Tables(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	s := NewSet(schemaName)
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		desc, err := d.Describe(ctx, t, schemaName)
		if err != nil {
			return nil, fmt.Errorf("nabu: describe %s: %w", t, err)
		}
		s.Add(desc)
	}
	return s, nil
}

// Dump captures schemaName through d and saves it to path.
func Dump(ctx context.Context, d schema.Describer, schemaName, path string) (*Set, error) {
	s, err := Capture(ctx, d, schemaName)
	if err != nil {
		return nil, err
	}
	if err := s.Save(path); err != nil {
		return nil, err
	}
	return s, nil
}

var _ schema.Describer = (*Set)(nil)
