package gen

import (
	"strings"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/fragment"
	"github.com/nabu-3/sdkgen/compiler/naming"
	"github.com/nabu-3/sdkgen/schema"
)

const (
	baseSuffix      = "Base"
	baseNamespace   = `\base`
	dataClassPrefix = "CNabu"
	xmlClassPrefix  = "CNabuXML"

	dbObjectClass    = "CNabuDBInternalObject"
	dataObjectClass  = `\nabu\data\CNabuDataObject`
	dataListClass    = "CNabuDataObjectList"
	engineClass      = `\nabu\core\CNabuEngine`
	coreExceptionUse = `\nabu\core\exceptions\ENabuCoreException`
	langInterfaces   = `\nabu\data\lang\interfaces\`
	langTraits       = `\nabu\data\lang\traits\`
)

// Assembler builds the fragment tree of generated classes.
//
// An Assembler holds no per-class state and is safe for concurrent use.
type Assembler struct {
	Dictionary  naming.Dictionary
	Registry    classify.Registry
	Pluralizer  naming.Pluralizer
	Author      string
	AuthorEmail string
	Version     string
}

// NewAssembler returns an Assembler with the default dictionary, registry
// and pluralizer.
func NewAssembler() *Assembler {
	return DefaultConfig().assembler()
}

// Assemble builds the document of u.
func (a *Assembler) Assemble(u Unit) (*fragment.Document, error) {
	if err := u.Entity.Validate(); err != nil {
		return nil, err
	}
	if u.Desc == nil {
		return nil, NewSchemaError(u.Entity.Table, "", "storage descriptor missing", nil)
	}
	res := u.Result
	if res == nil {
		var err error
		if res, err = classify.Classify(u.Desc, a.registry()); err != nil {
			return nil, NewSchemaError(u.Entity.Table, "", "", err)
		}
	}
	if !u.Desc.HasPrimaryConstraint() {
		return nil, NewSchemaError(u.Entity.Table, "", "storage has no primary key", classify.ErrNoPrimaryKey)
	}
	b := &builder{
		a:    a,
		u:    u,
		e:    u.Entity,
		desc: u.Desc,
		res:  res,
		doc:  fragment.NewDocument(u.Entity.Namespace),
	}
	switch u.Kind {
	case UnitList:
		b.list()
	case UnitXML:
		b.xml()
	case UnitXMLList:
		b.xmlList()
	default:
		b.table()
	}
	return b.doc, nil
}

func (a *Assembler) registry() classify.Registry {
	if a.Registry == nil {
		return classify.DefaultRegistry()
	}
	return a.Registry
}

func (a *Assembler) pluralizer() naming.Pluralizer {
	if a.Pluralizer == nil {
		return naming.SimplePluralizer{}
	}
	return a.Pluralizer
}

func (a *Assembler) version() string {
	if a.Version == "" {
		return DefaultVersion
	}
	return a.Version
}

// builder carries the state of one Assemble call.
type builder struct {
	a    *Assembler
	u    Unit
	e    Entity
	desc *schema.Descriptor
	res  *classify.Result
	doc  *fragment.Document
	cls  *fragment.Class
}

// newClass adds the class of the document with the standard header
// comments.
func (b *builder) newClass(extends string, lead ...string) *fragment.Class {
	c := fragment.NewClass(b.e.Class)
	c.Abstract = b.e.Abstract
	c.Extends = extends
	c.AddComment(lead...)
	b.cls = c
	b.doc.Add(c)
	return c
}

// signature appends the author, version and package tags. since is written
// after the author when set.
func (b *builder) signature(since string) {
	name, email := strings.TrimSpace(b.a.Author), strings.TrimSpace(b.a.AuthorEmail)
	if name != "" || email != "" {
		author := name
		if email != "" {
			author = strings.TrimSpace(author + " <" + email + ">")
		}
		b.cls.AddComment("@author " + author)
	}
	if since != "" {
		b.cls.AddComment("@since " + since)
	}
	b.cls.AddComment("@version "+b.a.version(), "@package "+qualify(b.e.Namespace))
}

func (b *builder) use(names ...string) {
	for _, n := range names {
		b.doc.AddUse(n)
	}
}

func (b *builder) method(name string, scope fragment.Scope, static bool, comments ...string) *fragment.Method {
	m := fragment.NewMethod(name, scope)
	m.Static = static
	m.AddComment(comments...)
	b.cls.Add(m)
	return m
}

func (b *builder) dict() naming.Dictionary {
	return b.a.Dictionary
}

// field returns the descriptor field named name.
func (b *builder) field(name string) (schema.Field, bool) {
	return b.desc.Field(name)
}

func (b *builder) tableField(suffix string) string {
	return b.desc.StorageName() + "_" + suffix
}

// qualify prefixes ns with the global namespace separator.
func qualify(ns string) string {
	if ns == "" || strings.HasPrefix(ns, `\`) {
		return ns
	}
	return `\` + ns
}

// qualifyClass returns the fully qualified name of class in ns.
func qualifyClass(ns, class string) string {
	return qualify(ns) + `\` + class
}

// stripBase removes a trailing base level from a namespace.
func stripBase(ns string) string {
	return strings.TrimSuffix(ns, baseNamespace)
}

// stripClassBase removes a trailing Base from a class name.
func stripClassBase(class string) string {
	if s, ok := strings.CutSuffix(class, baseSuffix); ok && s != "" {
		return s
	}
	return class
}

// appendSep writes sep after every item except the last.
func appendSep(items []string, sep string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		if i < len(items)-1 {
			it += sep
		}
		out[i] = it
	}
	return out
}

// indent prefixes every non-empty line with pad.
func indent(pad string, lines ...string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if l != "" {
			l = pad + l
		}
		out[i] = l
	}
	return out
}
