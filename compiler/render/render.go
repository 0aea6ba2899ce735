// Package render serializes fragment trees into output text.
//
// Renderers are looked up by name in a Registry:
//
//	reg := render.NewRegistry(render.WithClock(render.FixedClock(t)))
//	php, _ := reg.Get(render.NamePHP)
//	src, err := php.Render(doc)
package render

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/nabu-3/sdkgen/compiler/fragment"
)

// Renderer names.
const (
	NamePHP  = "php"
	NameJSON = "json"
	NameXML  = "xml"
	NameText = "text"
)

// ErrUnsupportedNode is returned when a renderer cannot serialize a node.
var ErrUnsupportedNode = errors.New("nabu: unsupported fragment node")

// Renderer turns a fragment tree into file content.
type Renderer interface {
	// Name returns the renderer identifier, e.g. "php".
	Name() string
	// Extension returns the file extension including the dot, e.g. ".php".
	Extension() string
	// Render serializes n.
	Render(n fragment.Node) ([]byte, error)
}

func unsupported(r Renderer, n fragment.Node) error {
	return fmt.Errorf("%w: %s renderer cannot render %T", ErrUnsupportedNode, r.Name(), n)
}

// Registry holds renderers by name.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// Option configures the built-in renderers of NewRegistry.
type Option func(*options)

type options struct {
	clock Clock
	width int
}

// WithClock sets the clock stamped into license banners.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithWidth sets the comment wrap column.
func WithWidth(w int) Option {
	return func(o *options) {
		if w > 0 {
			o.width = w
		}
	}
}

// NewRegistry returns a registry holding the php, json, xml and text
// renderers.
func NewRegistry(opts ...Option) *Registry {
	o := options{clock: SystemClock{}, width: DefaultWidth}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Registry{renderers: make(map[string]Renderer)}
	r.Register(&PHP{Clock: o.clock, Width: o.width})
	r.Register(JSON{})
	r.Register(XML{})
	r.Register(Text{})
	return r
}

// Register adds or replaces a renderer.
func (r *Registry) Register(rn Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderers == nil {
		r.renderers = make(map[string]Renderer)
	}
	r.renderers[rn.Name()] = rn
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rn, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("nabu: unknown renderer: %s", name)
	}
	return rn, nil
}

// Available returns the sorted renderer names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
