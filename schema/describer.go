package schema

import (
	"context"
)

// Describer fetches table metadata from a storage backend.
//
// Describe returns an error satisfying sdk.IsNotFound when the table does
// not exist in the schema.
type Describer interface {
	Describe(ctx context.Context, table, schema string) (*Descriptor, error)
	Tables(ctx context.Context, schema string) ([]string, error)
}

// DescriberFunc adapts a function to a Describer that cannot list tables.
type DescriberFunc func(ctx context.Context, table, schema string) (*Descriptor, error)

// Describe calls f(ctx, table, schema).
func (f DescriberFunc) Describe(ctx context.Context, table, schema string) (*Descriptor, error) {
	return f(ctx, table, schema)
}

// Tables returns nil; a function describer has no catalog.
func (DescriberFunc) Tables(context.Context, string) ([]string, error) {
	return nil, nil
}
