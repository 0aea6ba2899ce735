package render

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nabu-3/sdkgen/compiler/fragment"
)

// DefaultWidth is the column comments are wrapped at.
const DefaultWidth = 120

const indent = "    "

var trailingSpace = regexp.MustCompile(`\s+$`)

// PHP renders fragment trees as PHP source.
type PHP struct {
	Clock Clock
	Width int
}

// Name implements Renderer.
func (*PHP) Name() string { return NamePHP }

// Extension implements Renderer.
func (*PHP) Extension() string { return ".php" }

// Render implements Renderer.
func (p *PHP) Render(n fragment.Node) ([]byte, error) {
	var b strings.Builder
	if err := p.node(&b, n, ""); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func (p *PHP) width() int {
	if p.Width > 0 {
		return p.Width
	}
	return DefaultWidth
}

func (p *PHP) now() string {
	c := p.Clock
	if c == nil {
		c = SystemClock{}
	}
	return c.Now().Format(TimestampLayout)
}

func (p *PHP) node(b *strings.Builder, n fragment.Node, pad string) error {
	switch n := n.(type) {
	case fragment.Literal:
		line(b, pad, string(n))
	case *fragment.Document:
		return p.document(b, n)
	case *fragment.Class:
		return p.class(b, n, pad)
	case *fragment.Method:
		return p.method(b, n, pad)
	case *fragment.Constructor:
		return p.method(b, &n.Method, pad)
	case *fragment.Constant:
		p.constant(b, n, pad)
	default:
		return unsupported(p, n)
	}
	return nil
}

// content renders children at pad, each composite followed by a newline.
func (p *PHP) content(b *strings.Builder, children []fragment.Node, pad string) error {
	for _, c := range children {
		if l, ok := c.(fragment.Literal); ok {
			line(b, pad, string(l))
			continue
		}
		if err := p.node(b, c, pad); err != nil {
			return err
		}
		b.WriteString("\n")
	}
	return nil
}

func line(b *strings.Builder, pad, text string) {
	if text == "" {
		b.WriteString("\n")
		return
	}
	b.WriteString(pad + text + "\n")
}

func (p *PHP) document(b *strings.Builder, d *fragment.Document) error {
	b.WriteString("<?php\n")
	if d.License {
		b.WriteString(License("", p.now()))
	}
	if d.Namespace != "" {
		b.WriteString("namespace " + strings.TrimPrefix(d.Namespace, `\`) + ";\n\n")
	}
	if uses := sortedSet(d.Uses); len(uses) > 0 {
		for _, u := range uses {
			b.WriteString("use " + u + ";\n")
		}
		b.WriteString("\n")
	}
	return p.content(b, d.Children, "")
}

func (p *PHP) class(b *strings.Builder, c *fragment.Class, pad string) error {
	b.WriteString(p.comments(pad, c.Comments))
	b.WriteString(pad)
	if c.Abstract {
		b.WriteString("abstract ")
	}
	b.WriteString("class " + c.Name)
	if c.Extends != "" {
		b.WriteString(" extends " + c.Extends)
	}
	if len(c.Interfaces) > 0 {
		b.WriteString(" implements " + strings.Join(c.Interfaces, ", "))
	}
	b.WriteString("\n" + pad + "{\n")
	if traits := sortedSet(c.Traits); len(traits) > 0 {
		for _, t := range traits {
			b.WriteString(pad + indent + "use " + t + ";\n")
		}
		b.WriteString("\n")
	}
	var body strings.Builder
	if err := p.content(&body, c.Children, pad+indent); err != nil {
		return err
	}
	b.WriteString(trailingSpace.ReplaceAllString(body.String(), "\n"))
	b.WriteString(pad + "}")
	return nil
}

func (p *PHP) method(b *strings.Builder, m *fragment.Method, pad string) error {
	b.WriteString(p.functionComments(pad, m))
	b.WriteString(pad)
	if m.Scope != "" {
		b.WriteString(string(m.Scope) + " ")
	}
	if m.Static {
		b.WriteString("static ")
	}
	if m.Abstract {
		b.WriteString("abstract ")
	}
	b.WriteString("function " + m.Name + "(")
	for i, prm := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if prm.Type != "" {
			b.WriteString(prm.Type + " ")
		}
		b.WriteString("$" + prm.Name)
		if prm.HasDefault {
			b.WriteString(" = " + ValueToString(prm.Default))
		}
	}
	b.WriteString(")")
	if m.ReturnType != "" {
		b.WriteString(" : " + m.ReturnType)
	}
	if m.Abstract {
		b.WriteString(";\n")
		return nil
	}
	b.WriteString("\n" + pad + "{\n")
	if err := p.content(b, m.Body, pad+indent); err != nil {
		return err
	}
	b.WriteString(pad + "}\n")
	return nil
}

func (p *PHP) constant(b *strings.Builder, k *fragment.Constant, pad string) {
	comments := slices.Clone(k.Comments)
	comments = append(comments, strings.TrimSpace("@var "+k.Type))
	b.WriteString(p.comments(pad, comments))
	b.WriteString(pad + "const " + k.Name + " = " + ValueToString(k.Value) + ";\n")
}

func (p *PHP) comments(pad string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(pad + "/**\n")
	for _, l := range lines {
		b.WriteString(WrapComment(pad, l, p.width()))
	}
	b.WriteString(pad + " */\n")
	return b.String()
}

// functionComments lists plain comments, then one @param line per
// parameter, then the @return line.
func (p *PHP) functionComments(pad string, m *fragment.Method) string {
	var body, ret strings.Builder
	for _, l := range m.Comments {
		if strings.HasPrefix(l, "@return ") {
			ret.Reset()
			ret.WriteString(WrapComment(pad, l, p.width()))
			continue
		}
		body.WriteString(WrapComment(pad, l, p.width()))
	}
	for _, prm := range m.Params {
		typ := prm.DocType
		if typ == "" {
			typ = "type"
		}
		body.WriteString(WrapComment(pad, "@param "+typ+" $"+prm.Name+" "+prm.Comment, p.width()))
	}
	if body.Len() == 0 && ret.Len() == 0 {
		return ""
	}
	return pad + "/**\n" + body.String() + ret.String() + pad + " */\n"
}

// WrapComment renders content as comment lines prefixed by pad and " * ",
// breaking at the last space before width. Words longer than the line are
// cut at width.
func WrapComment(pad, content string, width int) string {
	prefix := pad + " * "
	rest := prefix + content
	var b strings.Builder
	for {
		if len(rest) <= width || len(prefix) >= width {
			b.WriteString(strings.TrimRight(rest, " ") + "\n")
			return b.String()
		}
		cut := strings.LastIndexByte(rest[:width], ' ')
		if cut < len(prefix) {
			cut = runeCut(rest, len(prefix), width)
			b.WriteString(rest[:cut] + "\n")
			rest = prefix + rest[cut:]
			continue
		}
		b.WriteString(strings.TrimRight(rest[:cut], " ") + "\n")
		rest = prefix + rest[cut+1:]
	}
}

// runeCut returns the last rune boundary of s in (lo, hi], or the end of
// the first rune after lo when none fits.
func runeCut(s string, lo, hi int) int {
	cut := hi
	for cut > lo && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut > lo {
		return cut
	}
	_, size := utf8.DecodeRuneInString(s[lo:])
	return lo + size
}

// ValueToString renders v as a PHP literal.
func ValueToString(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	case fmt.Stringer:
		return `"` + strings.ReplaceAll(v.String(), `"`, `\"`) + `"`
	}
	return fmt.Sprint(v)
}

// sortedSet returns the distinct items sorted case-insensitively.
func sortedSet(items []string) []string {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return slices.Compact(out)
}

var _ Renderer = (*PHP)(nil)
