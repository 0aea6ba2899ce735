package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/nabu-3/sdkgen/compiler/fragment"
	"github.com/nabu-3/sdkgen/schema"
)

// JSON renders data nodes as indented JSON. Table descriptors use the
// sidecar layout.
type JSON struct{}

// Name implements Renderer.
func (JSON) Name() string { return NameJSON }

// Extension implements Renderer.
func (JSON) Extension() string { return ".json" }

// Render implements Renderer.
func (r JSON) Render(n fragment.Node) ([]byte, error) {
	d, ok := n.(*fragment.Data)
	if !ok {
		return nil, unsupported(r, n)
	}
	if desc, ok := d.Value.(*schema.Descriptor); ok {
		return schema.MarshalSidecar(desc)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d.Value); err != nil {
		return nil, fmt.Errorf("nabu: encode json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// XML renders data nodes holding encoding/xml marshalable values.
type XML struct{}

// Name implements Renderer.
func (XML) Name() string { return NameXML }

// Extension implements Renderer.
func (XML) Extension() string { return ".xml" }

// Render implements Renderer.
func (r XML) Render(n fragment.Node) ([]byte, error) {
	d, ok := n.(*fragment.Data)
	if !ok {
		return nil, unsupported(r, n)
	}
	out, err := xml.MarshalIndent(d.Value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("nabu: encode xml: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// Text renders text documents and single literals.
type Text struct{}

// Name implements Renderer.
func (Text) Name() string { return NameText }

// Extension implements Renderer.
func (Text) Extension() string { return ".txt" }

// Render implements Renderer.
func (r Text) Render(n fragment.Node) ([]byte, error) {
	switch n := n.(type) {
	case *fragment.Text:
		if len(n.Lines) == 0 {
			return []byte{}, nil
		}
		return []byte(strings.Join(n.Lines, "\n") + "\n"), nil
	case fragment.Literal:
		return []byte(string(n) + "\n"), nil
	}
	return nil, unsupported(r, n)
}

var (
	_ Renderer = JSON{}
	_ Renderer = XML{}
	_ Renderer = Text{}
)
