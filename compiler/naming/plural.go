package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Pluralizer turns a singular entity name into its plural form.
type Pluralizer interface {
	Plural(word string) string
}

// PluralizerFunc adapts a function to a Pluralizer.
type PluralizerFunc func(string) string

// Plural calls f(word).
func (f PluralizerFunc) Plural(word string) string { return f(word) }

// SimplePluralizer applies the suffix rule used by generated finders:
// a trailing "y" becomes "ies", anything else gets an "s".
type SimplePluralizer struct{}

// Plural implements Pluralizer.
func (SimplePluralizer) Plural(word string) string {
	if word == "" {
		return ""
	}
	if strings.HasSuffix(word, "y") {
		return strings.TrimSuffix(word, "y") + "ies"
	}
	return word + "s"
}

// EnglishPluralizer uses the English inflection rules, handling irregular
// nouns such as "Person" or "Status".
type EnglishPluralizer struct{}

// Plural implements Pluralizer.
func (EnglishPluralizer) Plural(word string) string {
	if word == "" {
		return ""
	}
	return inflect.Pluralize(word)
}

// Pluralizer names accepted by PluralizerByName.
const (
	PluralSimple  = "simple"
	PluralEnglish = "english"
)

// PluralizerByName returns the pluralizer registered under name.
func PluralizerByName(name string) (Pluralizer, bool) {
	switch name {
	case "", PluralSimple:
		return SimplePluralizer{}, true
	case PluralEnglish:
		return EnglishPluralizer{}, true
	}
	return nil, false
}
