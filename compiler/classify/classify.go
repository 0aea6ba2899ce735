// Package classify decides how a storage relates to the well-known nabu-3
// entities and to its translation companion.
//
// Classification is deterministic: the same descriptor and registry always
// produce the same Result. Child and foreign relations are independent, so a
// table may be a child of one parent and reference another.
package classify

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	sdk "github.com/nabu-3/sdkgen"
	"github.com/nabu-3/sdkgen/schema"
)

// Errors returned when a descriptor cannot be classified.
var (
	ErrNoFields     = errors.New("nabu: storage has no fields")
	ErrNoPrimaryKey = errors.New("nabu: storage has no primary key")
)

// Relation records how a table relates to one parent.
type Relation struct {
	// Child is set when the parent id is the first primary key field.
	Child bool `json:"child"`
	// Foreign is set when the parent id is a plain field covered by a
	// secondary key.
	Foreign bool `json:"foreign"`
}

// Any reports whether either relation holds.
func (r Relation) Any() bool {
	return r.Child || r.Foreign
}

// Result is the classification of one table.
type Result struct {
	Table       string `json:"table"`
	Translated  bool   `json:"translated"`
	Translation bool   `json:"translation"`
	Hashed      bool   `json:"hashed"`
	Keyed       bool   `json:"keyed"`
	Ordered     bool   `json:"ordered"`
	// TranslatedTable is the main table of a translation table.
	TranslatedTable string `json:"translated_table,omitempty"`
	// TranslationTable is the companion of a translated table.
	TranslationTable string `json:"translation_table,omitempty"`
	// TranslatedPrimary is the primary key of the main table of a
	// translation table.
	TranslatedPrimary []string `json:"translated_primary,omitempty"`
	// Sibling descriptors, filled by ClassifyWithSiblings.
	TranslatedDescriptor  *schema.Descriptor `json:"-"`
	TranslationDescriptor *schema.Descriptor `json:"-"`
	// Parents maps a parent kind to its relation. Only related parents
	// are present.
	Parents map[string]Relation `json:"parents"`
}

// ChildOf reports whether the table is a structural child of kind.
func (r *Result) ChildOf(kind string) bool {
	return r.Parents[kind].Child
}

// ForeignOf reports whether the table references kind.
func (r *Result) ForeignOf(kind string) bool {
	return r.Parents[kind].Foreign
}

// RelatedTo reports whether the table is a child of kind or references it.
func (r *Result) RelatedTo(kind string) bool {
	return r.Parents[kind].Any()
}

// Related returns the related parents in registry order.
func (r *Result) Related(reg Registry) []Parent {
	var out []Parent
	for _, p := range reg {
		if r.RelatedTo(p.Kind) {
			out = append(out, p)
		}
	}
	return out
}

// ForeignParents returns the referenced parents in registry order.
func (r *Result) ForeignParents(reg Registry) []Parent {
	var out []Parent
	for _, p := range reg {
		if r.ForeignOf(p.Kind) {
			out = append(out, p)
		}
	}
	return out
}

// ScopeParent returns the highest priority scoping parent related to the
// table.
func (r *Result) ScopeParent(reg Registry) (Parent, bool) {
	for _, p := range reg.Scoping() {
		if r.RelatedTo(p.Kind) {
			return p, true
		}
	}
	return Parent{}, false
}

// Classify classifies desc against reg without looking at other tables.
// Translated detection needs the companion table; see ClassifyWithSiblings.
func Classify(desc *schema.Descriptor, reg Registry) (*Result, error) {
	if desc == nil {
		return nil, ErrNoFields
	}
	if !desc.HasFields() {
		return nil, fmt.Errorf("%w: %s", ErrNoFields, desc.Storage)
	}
	if !desc.HasPrimaryConstraint() {
		return nil, fmt.Errorf("%w: %s", ErrNoPrimaryKey, desc.Storage)
	}
	table := desc.StorageName()
	res := &Result{
		Table:   table,
		Parents: make(map[string]Relation),
	}

	composite := desc.PrimaryConstraintSize() > 1
	if composite {
		res.Translation = desc.HasPrimaryConstraintField(LanguageField, translationPKIndex)
	}
	if res.Translation {
		res.TranslatedPrimary = translatedPrimary(desc.PrimaryFieldNames())
		if strings.HasSuffix(table, TranslationSuffix) {
			res.TranslatedTable = strings.TrimSuffix(table, TranslationSuffix)
		}
	}

	for _, p := range reg {
		var rel Relation
		if composite {
			rel.Child = table != p.Table &&
				strings.HasPrefix(table, p.Table+"_") &&
				desc.HasPrimaryConstraintField(p.IDField, 1)
		}
		rel.Foreign = secondaryRelation(desc, p.IDField, false)
		if rel.Any() {
			res.Parents[p.Kind] = rel
		}
	}

	res.Hashed = secondaryRelation(desc, table+"_hash", true)
	res.Keyed = secondaryRelation(desc, table+"_key", true)
	res.Ordered = secondaryRelation(desc, table+"_order", true)
	return res, nil
}

// secondaryRelation reports whether field is a non primary field covered by
// a secondary key. With sole set the key must cover field alone.
func secondaryRelation(desc *schema.Descriptor, field string, sole bool) bool {
	if !desc.HasSecondaryConstraints() || !desc.HasField(field) || desc.HasPrimaryConstraintField(field, 0) {
		return false
	}
	if sole {
		return desc.HasSecondaryConstraintWithFields(field)
	}
	return len(desc.SecondaryConstraintsIncluding(field)) > 0
}

func translatedPrimary(pk []string) []string {
	return slices.DeleteFunc(pk, func(f string) bool { return f == LanguageField })
}

// isTranslationPair reports whether child's primary key is exactly the
// primary key of main plus the language id.
func isTranslationPair(main, child *schema.Descriptor) bool {
	if !main.HasPrimaryConstraint() || !child.HasPrimaryConstraint() ||
		child.PrimaryConstraintSize() != main.PrimaryConstraintSize()+1 {
		return false
	}
	var diff []string
	for _, f := range child.PrimaryFieldNames() {
		if !main.HasPrimaryConstraintField(f, 0) {
			diff = append(diff, f)
		}
	}
	return len(diff) == 1 && diff[0] == LanguageField
}

// ClassifyWithSiblings classifies desc and resolves its translation
// companion through d. A table named <t>_lang is checked against <t>, any
// other table against <table>_lang. A missing companion is not an error.
func ClassifyWithSiblings(ctx context.Context, desc *schema.Descriptor, reg Registry, d schema.Describer) (*Result, error) {
	res, err := Classify(desc, reg)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return res, nil
	}
	table := desc.StorageName()
	if strings.HasSuffix(table, TranslationSuffix) {
		main, err := describeSibling(ctx, d, strings.TrimSuffix(table, TranslationSuffix), desc.Schema)
		if err != nil {
			return nil, err
		}
		if main != nil && isTranslationPair(main, desc) {
			res.Translation = true
			res.TranslatedTable = main.StorageName()
			res.TranslatedDescriptor = main
			res.TranslatedPrimary = main.PrimaryFieldNames()
		}
		return res, nil
	}
	child, err := describeSibling(ctx, d, table+TranslationSuffix, desc.Schema)
	if err != nil {
		return nil, err
	}
	if child != nil && isTranslationPair(desc, child) {
		res.Translated = true
		res.TranslationTable = child.StorageName()
		res.TranslationDescriptor = child
	}
	return res, nil
}

func describeSibling(ctx context.Context, d schema.Describer, table, schemaName string) (*schema.Descriptor, error) {
	desc, err := d.Describe(ctx, table, schemaName)
	switch {
	case sdk.IsNotFound(err):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("nabu: describe %s: %w", table, err)
	}
	return desc, nil
}
