package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabu-3/sdkgen/schema"
)

func siteDescriptor() *schema.Descriptor {
	return &schema.Descriptor{
		Schema:  "nabu-3",
		Storage: "nb_site_target",
		Fields: []schema.Field{
			{Name: "nb_site_id", DataType: "int", Nullable: schema.Bool(false), Ordinal: 1},
			{Name: "nb_site_target_id", DataType: "int", Nullable: schema.Bool(false), Ordinal: 2},
			{Name: "nb_site_target_key", DataType: "varchar", Ordinal: 3},
			{Name: "nb_site_target_order", DataType: "int", Nullable: schema.Bool(true), Ordinal: 4},
		},
		Primary: &schema.Constraint{Name: "PRIMARY", Unique: true, Fields: []string{"nb_site_id", "nb_site_target_id"}},
		Secondary: []schema.Constraint{
			{Name: "nb_site_target_key", Unique: true, Fields: []string{"nb_site_target_key"}},
			{Name: "nb_site_target_order", Fields: []string{"nb_site_id", "nb_site_target_order"}},
		},
	}
}

func TestDescriptorPredicates(t *testing.T) {
	d := siteDescriptor()

	t.Run("fields", func(t *testing.T) {
		assert.True(t, d.HasFields())
		assert.True(t, d.HasField("nb_site_target_key"))
		assert.False(t, d.HasField("nb_site_target_hash"))
		assert.Equal(t, []string{"nb_site_id", "nb_site_target_id", "nb_site_target_key", "nb_site_target_order"}, d.FieldNames())

		f, ok := d.Field("nb_site_target_key")
		require.True(t, ok)
		assert.True(t, f.IsString())
		assert.True(t, f.IsNullable(), "missing flag counts as nullable")
	})

	t.Run("primary constraint", func(t *testing.T) {
		assert.True(t, d.HasPrimaryConstraint())
		assert.Equal(t, 2, d.PrimaryConstraintSize())
		assert.True(t, d.HasPrimaryConstraintField("nb_site_id", 1))
		assert.False(t, d.HasPrimaryConstraintField("nb_site_id", 2))
		assert.True(t, d.HasPrimaryConstraintField("nb_site_target_id", 0))
		assert.False(t, d.HasPrimaryConstraintField("nb_site_target_id", 3))
	})

	t.Run("primary field names are a copy", func(t *testing.T) {
		names := d.PrimaryFieldNames()
		names[0] = "changed"
		assert.Equal(t, "nb_site_id", d.Primary.Fields[0])
	})

	t.Run("secondary constraints", func(t *testing.T) {
		assert.True(t, d.HasSecondaryConstraints())
		assert.True(t, d.HasSecondaryConstraintWithFields("nb_site_target_key"))
		assert.False(t, d.HasSecondaryConstraintWithFields("nb_site_target_order"))
		assert.True(t, d.HasSecondaryConstraintWithFields("nb_site_target_order", "nb_site_id"))
		assert.Len(t, d.SecondaryConstraintsIncluding("nb_site_id"), 1)
		assert.Empty(t, d.SecondaryConstraintsIncluding("missing"))
	})

	t.Run("no primary key", func(t *testing.T) {
		empty := &schema.Descriptor{Storage: "nb_empty"}
		assert.False(t, empty.HasFields())
		assert.False(t, empty.HasPrimaryConstraint())
		assert.Zero(t, empty.PrimaryConstraintSize())
		assert.Nil(t, empty.PrimaryFieldNames())
		assert.False(t, empty.HasPrimaryConstraintField("id", 0))
	})
}

func TestDescriptorClone(t *testing.T) {
	d := siteDescriptor()
	c := d.Clone()
	require.Equal(t, d, c)

	*c.Fields[0].Nullable = true
	c.Primary.Fields[0] = "x"
	c.Secondary[0].Fields[0] = "y"
	assert.False(t, *d.Fields[0].Nullable)
	assert.Equal(t, "nb_site_id", d.Primary.Fields[0])
	assert.Equal(t, "nb_site_target_key", d.Secondary[0].Fields[0])
}

func TestSidecar(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		d := siteDescriptor()
		data, err := schema.MarshalSidecar(d)
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n    \"schema\": \"nabu-3\"")
		assert.Contains(t, string(data), `"constraints"`)
		assert.Contains(t, string(data), `"default": null`)

		back, err := schema.UnmarshalSidecar(data)
		require.NoError(t, err)
		assert.Equal(t, d, back)
	})

	t.Run("empty secondary list", func(t *testing.T) {
		d := &schema.Descriptor{Storage: "nb_language", Primary: &schema.Constraint{Name: "PRIMARY", Fields: []string{"nb_language_id"}}}
		data, err := schema.MarshalSidecar(d)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"secondary": []`)
		assert.Contains(t, string(data), `"fields": []`)
	})

	t.Run("nil descriptor", func(t *testing.T) {
		_, err := schema.MarshalSidecar(nil)
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := schema.UnmarshalSidecar([]byte("{"))
		assert.Error(t, err)
	})
}

func TestDescriberFunc(t *testing.T) {
	called := false
	var desc schema.Describer = schema.DescriberFunc(func(_ context.Context, table, s string) (*schema.Descriptor, error) {
		called = true
		return &schema.Descriptor{Storage: table, Schema: s}, nil
	})
	d, err := desc.Describe(context.Background(), "nb_site", "nabu-3")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "nb_site", d.Storage)

	tables, err := desc.Tables(context.Background(), "nabu-3")
	require.NoError(t, err)
	assert.Nil(t, tables)
}
