package bundle

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Identified is implemented by the model types a Reference can point to.
type Identified interface {
	RefID() string
}

// Reference points to an entity either by id or key, or by an instance
// already in memory.
type Reference[T any] struct {
	id    string
	value *T
}

// ByID returns a reference resolved later through a lookup. id is the
// numeric id or the key of the entity.
func ByID[T any](id string) Reference[T] {
	return Reference[T]{id: id}
}

// ByInstance returns a reference to v.
func ByInstance[T any](v *T) Reference[T] {
	return Reference[T]{value: v}
}

// Instance returns the referenced value when the reference holds one.
func (r Reference[T]) Instance() (*T, bool) {
	return r.value, r.value != nil
}

// ID returns the id of the reference. For an instance reference it is the
// RefID of the instance, when T implements Identified.
func (r Reference[T]) ID() string {
	if r.value != nil {
		if v, ok := any(r.value).(Identified); ok {
			return v.RefID()
		}
	}
	return r.id
}

// Resolve returns the referenced value, calling lookup for id references.
func (r Reference[T]) Resolve(lookup func(id string) (*T, error)) (*T, error) {
	if r.value != nil {
		return r.value, nil
	}
	if r.id == "" {
		return nil, fmt.Errorf("nabu: empty reference")
	}
	return lookup(r.id)
}

// String implements fmt.Stringer.
func (r Reference[T]) String() string {
	return r.ID()
}

// MarshalYAML encodes the reference as its id.
func (r Reference[T]) MarshalYAML() (any, error) {
	return r.ID(), nil
}

// UnmarshalYAML decodes an id reference.
func (r *Reference[T]) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("nabu: line %d: reference must be a scalar", n.Line)
	}
	*r = ByID[T](n.Value)
	return nil
}
