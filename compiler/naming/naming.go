// Package naming converts snake_case storage identifiers into the names used
// by generated classes: class names, entity names, human-readable labels and
// accessor stems.
//
// Every function is pure. Identifier parts matching a [Dictionary] key keep
// the dictionary spelling verbatim, which preserves acronyms:
//
//	naming.ToClassName("nb_site_http_host", naming.DefaultDictionary())
//	// CNabuSiteHTTPHost
package naming

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// ClassPrefix is the character every generated class name starts with.
	ClassPrefix = "C"
	// NabuPrefix replaces a leading "nb" part in class names.
	NabuPrefix = "CNabu"

	nbPart = "nb"
)

// Dictionary maps identifier parts to their preferred spelling.
type Dictionary map[string]string

// DefaultDictionary returns the abbreviations used across nabu-3 storages.
func DefaultDictionary() Dictionary {
	return Dictionary{
		"os":       "OS",
		"ip":       "IP",
		"wmr":      "WMR",
		"http":     "HTTP",
		"https":    "HTTPS",
		"vhosts":   "VirtualHosts",
		"vhost":    "VirtualHost",
		"phputils": "PHPUtils",
		"php":      "PHP",
		"wgeo":     "WGEO",
		"url":      "URL",
		"uri":      "URI",
		"iso639":   "ISO639",
		"ISO639":   "ISO639",
		"css":      "CSS",
		"ssl":      "SSL",
		"passwd":   "Password",
		"zip":      "ZIP",
		"awstats":  "AWStats",
		"wsearch":  "WSearch",
		"cta":      "CTA",
		"sku":      "SKU",
	}
}

// Merge returns a copy of d overlaid with the entries of other.
func (d Dictionary) Merge(other Dictionary) Dictionary {
	out := make(Dictionary, len(d)+len(other))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Lookup returns the replacement for part. The match is case-sensitive
// first and falls back to a case-insensitive comparison.
func (d Dictionary) Lookup(part string) (string, bool) {
	if len(d) == 0 {
		return "", false
	}
	if v, ok := d[part]; ok {
		return v, true
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, part) {
			return d[k], true
		}
	}
	return "", false
}

// Capitalize upper-cases the first character of part and lower-cases the
// rest. Digits and punctuation inside part start no new word.
func Capitalize(part string) string {
	if part == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(part)
	// Casers keep state and are not shared between goroutines.
	return cases.Upper(language.Und).String(part[:size]) + cases.Lower(language.Und).String(part[size:])
}

func convert(part string, dict Dictionary) string {
	if v, ok := dict.Lookup(part); ok {
		return v
	}
	return Capitalize(part)
}

func split(id string) []string {
	var parts []string
	for _, p := range strings.Split(id, "_") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func entityParts(id string, dict Dictionary) []string {
	parts := split(id)
	if len(parts) > 1 && parts[0] == nbPart {
		parts = parts[1:]
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, convert(p, dict))
	}
	return out
}

// ToEntityName converts id into an entity name, dropping a leading "nb".
func ToEntityName(id string, dict Dictionary) string {
	return strings.Join(entityParts(id, dict), "")
}

// ToEntityLabel converts id into a human-readable label, the entity parts
// joined by single spaces.
func ToEntityLabel(id string, dict Dictionary) string {
	return strings.Join(entityParts(id, dict), " ")
}

// ToClassName converts id into a class name. A leading "nb" part becomes
// the CNabu prefix and the result always starts with the class prefix.
func ToClassName(id string, dict Dictionary) string {
	parts := split(id)
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range parts {
		if i == 0 && p == nbPart {
			b.WriteString(NabuPrefix)
			continue
		}
		b.WriteString(convert(p, dict))
	}
	name := b.String()
	if !strings.HasPrefix(name, ClassPrefix) {
		name = ClassPrefix + name
	}
	return name
}

// StripTablePrefix removes "<table>" and the underscores after it from the
// start of field.
func StripTablePrefix(field, table string) string {
	if table == "" || !strings.HasPrefix(field, table) {
		return field
	}
	return strings.TrimLeft(strings.TrimPrefix(field, table), "_")
}

// VarName derives a PHP variable name from a field, dropping an "_id" suffix.
func VarName(field string) string {
	return strings.TrimSuffix(field, "_id")
}
