// Package fragment defines the intermediate tree generated classes are
// assembled into before rendering.
//
// A tree is built append-only: children keep the order they were added in
// and renderers never reorder them. Only the use list of a Document and the
// trait list of a Class are sorted, and only at render time.
package fragment

import (
	"slices"
)

// Node is a unit of generated output.
type Node interface {
	node()
}

// Literal is a single line of output. The empty literal is a blank line.
type Literal string

func (Literal) node() {}

// Lines converts lines to literal nodes.
func Lines(lines ...string) []Node {
	out := make([]Node, len(lines))
	for i, l := range lines {
		out[i] = Literal(l)
	}
	return out
}

// Scope is the visibility of a method.
type Scope string

// Method scopes.
const (
	Public    Scope = "public"
	Protected Scope = "protected"
	Private   Scope = "private"
)

// Commented holds the documentation lines of a node.
type Commented struct {
	Comments []string
}

// AddComment appends documentation lines.
func (c *Commented) AddComment(lines ...string) {
	c.Comments = append(c.Comments, lines...)
}

// Param is a function parameter.
type Param struct {
	Name string
	// Type is the declared type hint, empty for none.
	Type       string
	Default    any
	HasDefault bool
	// DocType is the type written in the @param comment.
	DocType string
	Comment string
}

// NewParam returns a parameter without type hint or default value.
func NewParam(name, docType, comment string) Param {
	return Param{Name: name, DocType: docType, Comment: comment}
}

// WithType returns a copy of p with a declared type hint.
func (p Param) WithType(t string) Param {
	p.Type = t
	return p
}

// WithDefault returns a copy of p defaulting to v. A nil v renders as null.
func (p Param) WithDefault(v any) Param {
	p.Default = v
	p.HasDefault = true
	return p
}

// Method is a class method or a free function.
type Method struct {
	Commented
	Name       string
	Scope      Scope
	Static     bool
	Abstract   bool
	ReturnType string
	Params     []Param
	Body       []Node
}

func (*Method) node() {}

// NewMethod returns an empty method.
func NewMethod(name string, scope Scope) *Method {
	return &Method{Name: name, Scope: scope}
}

// AddParam appends p unless a parameter with the same name exists.
func (m *Method) AddParam(p Param) bool {
	if m.HasParam(p.Name) {
		return false
	}
	m.Params = append(m.Params, p)
	return true
}

// HasParam reports whether the method declares a parameter named name.
func (m *Method) HasParam(name string) bool {
	return slices.ContainsFunc(m.Params, func(p Param) bool { return p.Name == name })
}

// Add appends body lines and returns m.
func (m *Method) Add(lines ...string) *Method {
	m.Body = append(m.Body, Lines(lines...)...)
	return m
}

// AddNode appends a nested node to the body.
func (m *Method) AddNode(n Node) {
	m.Body = append(m.Body, n)
}

// Text returns the literal body lines, skipping nested nodes.
func (m *Method) Text() []string {
	var out []string
	for _, n := range m.Body {
		if l, ok := n.(Literal); ok {
			out = append(out, string(l))
		}
	}
	return out
}

// Constructor is the __construct method.
type Constructor struct {
	Method
}

func (*Constructor) node() {}

// ConstructorName is the PHP constructor name.
const ConstructorName = "__construct"

// NewConstructor returns an empty public constructor.
func NewConstructor() *Constructor {
	return &Constructor{Method: Method{Name: ConstructorName, Scope: Public}}
}

// Constant is a class constant.
type Constant struct {
	Commented
	Name  string
	Value any
	// Type is written in the @var comment.
	Type string
}

func (*Constant) node() {}

// NewConstant returns a constant.
func NewConstant(name string, value any, typ string) *Constant {
	return &Constant{Name: name, Value: value, Type: typ}
}

// Class is a class declaration.
type Class struct {
	Commented
	Name       string
	Abstract   bool
	Extends    string
	Interfaces []string
	Traits     []string
	Children   []Node
}

func (*Class) node() {}

// NewClass returns an empty class.
func NewClass(name string) *Class {
	return &Class{Name: name}
}

// AddInterface adds an implemented interface once.
func (c *Class) AddInterface(name string) bool {
	if slices.Contains(c.Interfaces, name) {
		return false
	}
	c.Interfaces = append(c.Interfaces, name)
	return true
}

// AddTrait adds a used trait once.
func (c *Class) AddTrait(name string) bool {
	if slices.Contains(c.Traits, name) {
		return false
	}
	c.Traits = append(c.Traits, name)
	return true
}

// Add appends members.
func (c *Class) Add(nodes ...Node) {
	c.Children = append(c.Children, nodes...)
}

// Method returns the method named name, constructors included.
func (c *Class) Method(name string) (*Method, bool) {
	for _, n := range c.Children {
		switch n := n.(type) {
		case *Method:
			if n.Name == name {
				return n, true
			}
		case *Constructor:
			if n.Name == name {
				return &n.Method, true
			}
		}
	}
	return nil, false
}

// MethodNames returns the names of the methods in declaration order.
func (c *Class) MethodNames() []string {
	var names []string
	for _, n := range c.Children {
		switch n := n.(type) {
		case *Method:
			names = append(names, n.Name)
		case *Constructor:
			names = append(names, n.Name)
		}
	}
	return names
}

// Constant returns the constant named name.
func (c *Class) Constant(name string) (*Constant, bool) {
	for _, n := range c.Children {
		if k, ok := n.(*Constant); ok && k.Name == name {
			return k, true
		}
	}
	return nil, false
}

// Document is the root of a generated source file.
type Document struct {
	Namespace string
	Uses      []string
	// License adds the generation banner and license notice.
	License  bool
	Children []Node
}

func (*Document) node() {}

// NewDocument returns a document in namespace ns carrying the license
// banner.
func NewDocument(ns string) *Document {
	return &Document{Namespace: ns, License: true}
}

// AddUse imports name once.
func (d *Document) AddUse(name string) bool {
	if slices.Contains(d.Uses, name) {
		return false
	}
	d.Uses = append(d.Uses, name)
	return true
}

// Add appends top level nodes.
func (d *Document) Add(nodes ...Node) {
	d.Children = append(d.Children, nodes...)
}

// Class returns the first class of the document.
func (d *Document) Class() *Class {
	for _, n := range d.Children {
		if c, ok := n.(*Class); ok {
			return c
		}
	}
	return nil
}

// Data is a structured value for data renderers such as JSON and XML.
type Data struct {
	Value any
}

func (*Data) node() {}

// Text is a plain text document.
type Text struct {
	Lines []string
}

func (*Text) node() {}

// Walk calls fn for n and its descendants in order until fn returns false.
func Walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	var children []Node
	switch n := n.(type) {
	case *Document:
		children = n.Children
	case *Class:
		children = n.Children
	case *Method:
		children = n.Body
	case *Constructor:
		children = n.Body
	}
	for _, c := range children {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}
