// Package atlas describes tables of any supported dialect through the atlas
// schema inspector.
package atlas

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlasschema "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	sdk "github.com/nabu-3/sdkgen"
	"github.com/nabu-3/sdkgen/dialect"
	"github.com/nabu-3/sdkgen/schema"
)

// typeAliases maps inspected type names onto the tags used by MySQL.
var typeAliases = map[string]string{
	"integer":           "int",
	"int4":              "int",
	"character varying": "varchar",
	"character":         "char",
	"jsonb":             "json",
	"bool":              "boolean",
}

// Describer implements schema.Describer on top of an atlas driver.
type Describer struct {
	drv     migrate.Driver
	dialect string
	logger  *slog.Logger
}

// New returns a Describer for db. name is a dialect name or alias.
func New(db *sql.DB, name string) (*Describer, error) {
	name, err := dialect.Normalize(name)
	if err != nil {
		return nil, err
	}
	var drv migrate.Driver
	switch name {
	case dialect.MySQL:
		drv, err = mysql.Open(db)
	case dialect.Postgres:
		drv, err = postgres.Open(db)
	case dialect.SQLite:
		drv, err = sqlite.Open(db)
	}
	if err != nil {
		return nil, fmt.Errorf("nabu: atlas %s driver: %w", name, err)
	}
	return &Describer{drv: drv, dialect: name, logger: slog.Default()}, nil
}

// WithLogger sets the logger and returns d.
func (d *Describer) WithLogger(l *slog.Logger) *Describer {
	if l != nil {
		d.logger = l
	}
	return d
}

// Dialect returns the canonical dialect name.
func (d *Describer) Dialect() string {
	return d.dialect
}

// Tables lists the tables of schemaName.
func (d *Describer) Tables(ctx context.Context, schemaName string) ([]string, error) {
	s, err := d.inspect(ctx, schemaName, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	slices.Sort(names)
	return names, nil
}

// Describe fetches the descriptor of table.
func (d *Describer) Describe(ctx context.Context, table, schemaName string) (*schema.Descriptor, error) {
	s, err := d.inspect(ctx, schemaName, &atlasschema.InspectOptions{Tables: []string{table}})
	if err != nil {
		return nil, err
	}
	t, ok := s.Table(table)
	if !ok {
		return nil, sdk.NewNotFoundErrorWithID("storage", qualify(s.Name, table))
	}
	desc := convert(s.Name, t)
	d.logger.DebugContext(ctx, "storage described",
		"table", table, "schema", desc.Schema, "fields", len(desc.Fields), "dialect", d.dialect)
	return desc, nil
}

func (d *Describer) inspect(ctx context.Context, name string, opts *atlasschema.InspectOptions) (*atlasschema.Schema, error) {
	s, err := d.drv.InspectSchema(ctx, name, opts)
	switch {
	case atlasschema.IsNotExistError(err):
		return nil, sdk.NewNotFoundErrorWithID("schema", name)
	case err != nil:
		return nil, fmt.Errorf("nabu: inspect schema %q: %w", name, err)
	}
	return s, nil
}

func convert(schemaName string, t *atlasschema.Table) *schema.Descriptor {
	desc := &schema.Descriptor{
		Schema:  schemaName,
		Storage: t.Name,
		Fields:  make([]schema.Field, 0, len(t.Columns)),
	}
	for i, c := range t.Columns {
		f := schema.Field{
			Name:    c.Name,
			Ordinal: i + 1,
		}
		if c.Type != nil {
			f.ColumnType = c.Type.Raw
			f.DataType = normalizeType(c.Type.Raw, c.Type.Type)
			f.Nullable = schema.Bool(c.Type.Null)
		}
		if v, ok := defaultValue(c.Default); ok {
			f.Default = &v
		}
		desc.Fields = append(desc.Fields, f)
	}
	if t.PrimaryKey != nil {
		if fields := partNames(t.PrimaryKey); len(fields) > 0 {
			name := t.PrimaryKey.Name
			if name == "" {
				name = "PRIMARY"
			}
			desc.Primary = &schema.Constraint{Name: name, Unique: true, Fields: fields}
		}
	}
	for _, idx := range t.Indexes {
		fields := partNames(idx)
		if len(fields) == 0 {
			continue
		}
		if desc.Primary != nil && slices.Equal(fields, desc.Primary.Fields) {
			continue
		}
		desc.Secondary = append(desc.Secondary, schema.Constraint{
			Name:   idx.Name,
			Unique: idx.Unique,
			Fields: fields,
		})
	}
	return desc
}

func partNames(idx *atlasschema.Index) []string {
	var names []string
	for _, p := range idx.Parts {
		if p.C != nil {
			names = append(names, p.C.Name)
		}
	}
	return names
}

func normalizeType(raw string, t atlasschema.Type) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		name = strings.ToLower(typeName(t))
	}
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if alias, ok := typeAliases[name]; ok {
		return alias
	}
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	if alias, ok := typeAliases[name]; ok {
		return alias
	}
	return name
}

func typeName(t atlasschema.Type) string {
	switch t := t.(type) {
	case *atlasschema.IntegerType:
		return t.T
	case *atlasschema.StringType:
		return t.T
	case *atlasschema.EnumType:
		return "enum"
	case *atlasschema.JSONType:
		return t.T
	case *atlasschema.BoolType:
		return t.T
	case *atlasschema.TimeType:
		return t.T
	case *atlasschema.DecimalType:
		return t.T
	case *atlasschema.FloatType:
		return t.T
	case *atlasschema.BinaryType:
		return t.T
	}
	return ""
}

func defaultValue(x atlasschema.Expr) (string, bool) {
	switch x := x.(type) {
	case *atlasschema.Literal:
		return strings.Trim(x.V, `'"`), true
	case *atlasschema.RawExpr:
		return x.X, true
	}
	return "", false
}

func qualify(schemaName, table string) string {
	if schemaName == "" {
		return table
	}
	return schemaName + "." + table
}

var _ schema.Describer = (*Describer)(nil)
