package schema

import (
	"slices"
)

// Data type tags as normalized by the describers.
const (
	TypeInt      = "int"
	TypeVarchar  = "varchar"
	TypeText     = "text"
	TypeTinyText = "tinytext"
	TypeLongText = "longtext"
	TypeEnum     = "enum"
	TypeJSON     = "json"
)

// Field describes a single column of a table.
type Field struct {
	Name       string  `json:"name" yaml:"name" msgpack:"name"`
	DataType   string  `json:"data_type" yaml:"data_type" msgpack:"data_type"`
	ColumnType string  `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Nullable   *bool   `json:"is_nullable,omitempty" yaml:"is_nullable,omitempty" msgpack:"is_nullable,omitempty"`
	Default    *string `json:"default" yaml:"default,omitempty" msgpack:"default,omitempty"`
	Ordinal    int     `json:"ordinal,omitempty" yaml:"ordinal,omitempty" msgpack:"ordinal,omitempty"`
	Extra      string  `json:"extra,omitempty" yaml:"extra,omitempty" msgpack:"extra,omitempty"`
}

// IsNullable reports whether the field accepts null values.
// A field without an explicit flag is nullable.
func (f Field) IsNullable() bool {
	return f.Nullable == nil || *f.Nullable
}

// IsString reports whether the field holds character data.
func (f Field) IsString() bool {
	switch f.DataType {
	case TypeVarchar, TypeText, TypeTinyText, TypeLongText, TypeEnum:
		return true
	}
	return false
}

// Constraint is a primary or secondary key over an ordered list of fields.
type Constraint struct {
	Name   string   `json:"name" yaml:"name" msgpack:"name"`
	Unique bool     `json:"unique,omitempty" yaml:"unique,omitempty" msgpack:"unique,omitempty"`
	Fields []string `json:"fields" yaml:"fields" msgpack:"fields"`
}

// Has reports whether name is part of the constraint.
func (c Constraint) Has(name string) bool {
	return slices.Contains(c.Fields, name)
}

// Descriptor describes a table in a schema.
type Descriptor struct {
	Schema    string       `json:"schema" yaml:"schema" msgpack:"schema"`
	Storage   string       `json:"storage" yaml:"storage" msgpack:"storage"`
	Fields    []Field      `json:"fields" yaml:"fields" msgpack:"fields"`
	Primary   *Constraint  `json:"primary,omitempty" yaml:"primary,omitempty" msgpack:"primary,omitempty"`
	Secondary []Constraint `json:"secondary,omitempty" yaml:"secondary,omitempty" msgpack:"secondary,omitempty"`
}

// StorageName returns the table name.
func (d *Descriptor) StorageName() string {
	return d.Storage
}

// HasFields reports whether the table has at least one field.
func (d *Descriptor) HasFields() bool {
	return len(d.Fields) > 0
}

// HasField reports whether the table has a field named name.
func (d *Descriptor) HasField(name string) bool {
	_, ok := d.Field(name)
	return ok
}

// Field returns the field named name.
func (d *Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in ordinal order.
func (d *Descriptor) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}
	return names
}

// HasPrimaryConstraint reports whether the table has a non-empty primary key.
func (d *Descriptor) HasPrimaryConstraint() bool {
	return d.Primary != nil && len(d.Primary.Fields) > 0
}

// PrimaryConstraintSize returns the number of fields in the primary key.
func (d *Descriptor) PrimaryConstraintSize() int {
	if d.Primary == nil {
		return 0
	}
	return len(d.Primary.Fields)
}

// PrimaryFieldNames returns the ordered primary key field names.
func (d *Descriptor) PrimaryFieldNames() []string {
	if d.Primary == nil {
		return nil
	}
	return slices.Clone(d.Primary.Fields)
}

// HasPrimaryConstraintField reports whether name is part of the primary key.
// A position greater than zero also requires the field to sit at that
// 1-based position.
func (d *Descriptor) HasPrimaryConstraintField(name string, position int) bool {
	if d.Primary == nil {
		return false
	}
	if position <= 0 {
		return d.Primary.Has(name)
	}
	return position <= len(d.Primary.Fields) && d.Primary.Fields[position-1] == name
}

// HasSecondaryConstraints reports whether the table has any secondary key.
func (d *Descriptor) HasSecondaryConstraints() bool {
	return len(d.Secondary) > 0
}

// HasSecondaryConstraintWithFields reports whether a secondary key covers
// exactly the given set of fields.
func (d *Descriptor) HasSecondaryConstraintWithFields(fields ...string) bool {
	for _, c := range d.Secondary {
		if len(c.Fields) != len(fields) {
			continue
		}
		match := true
		for _, f := range fields {
			if !c.Has(f) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// SecondaryConstraintsIncluding returns the secondary keys that include name.
func (d *Descriptor) SecondaryConstraintsIncluding(name string) []Constraint {
	var out []Constraint
	for _, c := range d.Secondary {
		if c.Has(name) {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns a deep copy of the descriptor.
func (d *Descriptor) Clone() *Descriptor {
	c := &Descriptor{
		Schema:  d.Schema,
		Storage: d.Storage,
		Fields:  make([]Field, len(d.Fields)),
	}
	for i, f := range d.Fields {
		if f.Nullable != nil {
			v := *f.Nullable
			f.Nullable = &v
		}
		if f.Default != nil {
			v := *f.Default
			f.Default = &v
		}
		c.Fields[i] = f
	}
	if d.Primary != nil {
		c.Primary = &Constraint{Name: d.Primary.Name, Unique: d.Primary.Unique, Fields: slices.Clone(d.Primary.Fields)}
	}
	for _, s := range d.Secondary {
		c.Secondary = append(c.Secondary, Constraint{Name: s.Name, Unique: s.Unique, Fields: slices.Clone(s.Fields)})
	}
	return c
}

// Bool returns a pointer to v, for filling Field.Nullable.
func Bool(v bool) *bool {
	return &v
}
