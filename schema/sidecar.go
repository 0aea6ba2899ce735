package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type sidecar struct {
	Schema      string            `json:"schema"`
	Storage     string            `json:"storage"`
	Fields      []Field           `json:"fields"`
	Constraints sidecarConstraint `json:"constraints"`
}

type sidecarConstraint struct {
	Primary   *Constraint  `json:"primary"`
	Secondary []Constraint `json:"secondary"`
}

// MarshalSidecar encodes d as the JSON descriptor written next to each
// generated class, indented with four spaces.
func MarshalSidecar(d *Descriptor) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("nabu: nil descriptor")
	}
	s := sidecar{
		Schema:  d.Schema,
		Storage: d.Storage,
		Fields:  d.Fields,
		Constraints: sidecarConstraint{
			Primary:   d.Primary,
			Secondary: d.Secondary,
		},
	}
	if s.Fields == nil {
		s.Fields = []Field{}
	}
	if s.Constraints.Secondary == nil {
		s.Constraints.Secondary = []Constraint{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode descriptor %s: %w", d.Storage, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalSidecar decodes a JSON descriptor produced by MarshalSidecar.
func UnmarshalSidecar(data []byte) (*Descriptor, error) {
	var s sidecar
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode descriptor: %w", err)
	}
	d := &Descriptor{
		Schema:    s.Schema,
		Storage:   s.Storage,
		Fields:    s.Fields,
		Primary:   s.Constraints.Primary,
		Secondary: s.Constraints.Secondary,
	}
	if len(d.Secondary) == 0 {
		d.Secondary = nil
	}
	return d, nil
}
