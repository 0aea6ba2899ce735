package gen

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/schema"
)

// Entity names the class generated for one table.
type Entity struct {
	Table string `yaml:"table"`
	// Namespace of the class without the leading backslash,
	// e.g. nabu\data\site\base.
	Namespace string `yaml:"namespace"`
	Class     string `yaml:"class"`
	// Label is the human-readable entity name, e.g. "Site Alias".
	Label    string   `yaml:"label"`
	Abstract bool     `yaml:"abstract,omitempty"`
	XML      *XMLSpec `yaml:"xml,omitempty"`
}

// XMLSpec describes how an entity is serialized as a XML branch.
type XMLSpec struct {
	// Element is the tag name. Defaults to the label without spaces.
	Element    string   `yaml:"element,omitempty"`
	Attributes Mappings `yaml:"attributes,omitempty"`
	Childs     Mappings `yaml:"childs,omitempty"`
	// DataClass and DataNamespace locate the data object managed by the
	// adapter. They default to the entity class without the Base suffix.
	DataClass     string `yaml:"data_class,omitempty"`
	DataNamespace string `yaml:"data_namespace,omitempty"`
	Since         string `yaml:"since,omitempty"`
	// Translation describes the XML branch of the translation table.
	Translation *XMLSpec `yaml:"translation,omitempty"`
}

// Mapping binds a storage field to a XML attribute or child name.
type Mapping struct {
	Field string
	Name  string
}

// Mappings is an ordered field to name map.
type Mappings []Mapping

// UnmarshalYAML decodes a YAML mapping keeping the document order.
func (m *Mappings) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("nabu: line %d: xml mappings must be a map", n.Line)
	}
	out := make(Mappings, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return fmt.Errorf("nabu: line %d: xml mapping entries must be scalars", k.Line)
		}
		out = append(out, Mapping{Field: k.Value, Name: v.Value})
	}
	*m = out
	return nil
}

// MarshalYAML encodes the mappings as an ordered YAML map.
func (m Mappings) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Field},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Name},
		)
	}
	return n, nil
}

// Validate reports the first missing required attribute.
func (e Entity) Validate() error {
	switch {
	case strings.TrimSpace(e.Table) == "":
		return NewConfigError("Table", nil, "table cannot be empty")
	case strings.TrimSpace(e.Namespace) == "":
		return NewConfigError("Namespace", nil, "namespace cannot be empty")
	case strings.TrimSpace(e.Class) == "":
		return NewConfigError("Class", nil, "class name cannot be empty")
	case strings.TrimSpace(e.Label) == "":
		return NewConfigError("Label", nil, "entity label cannot be empty")
	}
	return nil
}

// stem splits a trailing Base suffix off the class name.
func (e Entity) stem() (stem, suffix string) {
	if s, ok := strings.CutSuffix(e.Class, baseSuffix); ok && s != "" {
		return s, baseSuffix
	}
	return e.Class, ""
}

// List returns the list companion of e.
func (e Entity) List() Entity {
	stem, suffix := e.stem()
	return Entity{
		Table:     e.Table,
		Namespace: e.Namespace,
		Class:     stem + "List" + suffix,
		Label:     e.Label + " List",
		Abstract:  e.Abstract,
	}
}

// Language returns the entity of the translation table of e.
func (e Entity) Language() Entity {
	stem, suffix := e.stem()
	l := Entity{
		Table:     e.Table + classify.TranslationSuffix,
		Namespace: e.Namespace,
		Class:     stem + "Language" + suffix,
		Label:     e.Label + " Language",
		Abstract:  e.Abstract,
	}
	if e.XML != nil && e.XML.Translation != nil {
		l.XML = e.XML.Translation
	} else if e.XML != nil {
		l.XML = &XMLSpec{Since: e.XML.Since}
	}
	return l
}

// XMLAdapter returns the XML adapter entity of e with the XMLSpec defaults
// resolved.
func (e Entity) XMLAdapter() (Entity, XMLSpec) {
	stem, suffix := e.stem()
	spec := XMLSpec{}
	if e.XML != nil {
		spec = *e.XML
	}
	if spec.Element == "" {
		spec.Element = strings.ReplaceAll(e.Label, " ", "")
	}
	if spec.DataClass == "" {
		spec.DataClass = stem
	}
	if spec.DataNamespace == "" {
		spec.DataNamespace = stripBase(e.Namespace)
	}
	return Entity{
		Table:     e.Table,
		Namespace: toXMLNamespace(e.Namespace),
		Class:     xmlClassPrefix + strings.TrimPrefix(stem, dataClassPrefix) + suffix,
		Label:     e.Label,
		Abstract:  e.Abstract,
	}, spec
}

// toXMLNamespace swaps the data level of a namespace for the xml level.
func toXMLNamespace(ns string) string {
	parts := strings.Split(ns, `\`)
	for i, p := range parts {
		if p == "data" {
			parts[i] = "xml"
			break
		}
	}
	return strings.Join(parts, `\`)
}

// UnitKind identifies the class flavour produced by a Unit.
type UnitKind int

// Unit kinds.
const (
	UnitTable UnitKind = iota
	UnitList
	UnitXML
	UnitXMLList
)

func (k UnitKind) String() string {
	switch k {
	case UnitTable:
		return "table"
	case UnitList:
		return "list"
	case UnitXML:
		return "xml"
	case UnitXMLList:
		return "xml-list"
	}
	return "unknown"
}

// Unit is one class to assemble.
type Unit struct {
	Kind UnitKind
	// Entity names the generated class.
	Entity Entity
	// Item names the class a list holds or an adapter wraps.
	Item   Entity
	XML    XMLSpec
	Desc   *schema.Descriptor
	Result *classify.Result
}

// Units expands an entity into the classes generated for it. lang and
// langRes describe the translation table when e is translated.
func Units(e Entity, desc *schema.Descriptor, res *classify.Result, lang *schema.Descriptor, langRes *classify.Result, c *Config) []Unit {
	units := entityUnits(e, desc, res, c)
	if res != nil && res.Translated && lang != nil && langRes != nil {
		units = append(units, entityUnits(e.Language(), lang, langRes, c)...)
	}
	return units
}

func entityUnits(e Entity, desc *schema.Descriptor, res *classify.Result, c *Config) []Unit {
	units := []Unit{{Kind: UnitTable, Entity: e, Desc: desc, Result: res}}
	if c.HasFeature(FeatureListClass.Name) {
		units = append(units, Unit{Kind: UnitList, Entity: e.List(), Item: e, Desc: desc, Result: res})
	}
	if c.HasFeature(FeatureXMLAdapters.Name) && e.XML != nil {
		x, spec := e.XMLAdapter()
		units = append(units, Unit{Kind: UnitXML, Entity: x, Item: e, XML: spec, Desc: desc, Result: res})
		if c.HasFeature(FeatureListClass.Name) {
			list := x.List()
			listSpec := spec
			listSpec.Element = c.assembler().pluralizer().Plural(spec.Element)
			units = append(units, Unit{Kind: UnitXMLList, Entity: list, Item: x, XML: listSpec, Desc: desc, Result: res})
		}
	}
	return units
}
