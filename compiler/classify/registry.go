package classify

import (
	"fmt"
	"slices"
	"strings"
)

// Well-known language storage names.
const (
	LanguageTable      = "nb_language"
	LanguageField      = "nb_language_id"
	LanguageConstant   = "NABU_LANG_FIELD_ID"
	TranslationSuffix  = "_lang"
	LanguageClass      = "CNabuLanguage"
	LanguageNamespace  = `\nabu\data\lang`
	LanguageListClass  = "CNabuLanguageList"
	translationPKIndex = 2
)

// Parent is a well-known entity other storages hang from.
type Parent struct {
	// Kind identifies the parent, e.g. "customer".
	Kind string `yaml:"kind"`
	// Table is the storage of the parent, e.g. "nb_customer".
	Table string `yaml:"table"`
	// IDField is the primary key field of the parent, e.g. "nb_customer_id".
	IDField string `yaml:"id_field"`
	// IDConstant is the PHP constant naming IDField.
	IDConstant string `yaml:"id_constant,omitempty"`
	// Class and Namespace locate the generated class of the parent.
	Class     string `yaml:"class"`
	Namespace string `yaml:"namespace"`
	// Trait is the child trait mixed into related classes. Empty when the
	// parent has none.
	Trait          string `yaml:"trait,omitempty"`
	TraitNamespace string `yaml:"trait_namespace,omitempty"`
	// ScopeParam names the query placeholder holding the parent id in
	// scoped finders.
	ScopeParam string `yaml:"scope_param,omitempty"`
	// ScopePriority orders the parents able to scope finders. Zero means
	// the parent never scopes.
	ScopePriority int `yaml:"scope_priority,omitempty"`
}

// Var returns the PHP variable holding an instance of the parent.
func (p Parent) Var() string {
	return strings.TrimSuffix(p.IDField, "_id")
}

// QualifiedClass returns the fully qualified class name of the parent.
func (p Parent) QualifiedClass() string {
	return p.Namespace + `\` + p.Class
}

// QualifiedTrait returns the fully qualified trait name, or "".
func (p Parent) QualifiedTrait() string {
	if p.Trait == "" {
		return ""
	}
	return p.TraitNamespace + `\` + p.Trait
}

// Scoping reports whether the parent can scope finder queries.
func (p Parent) Scoping() bool {
	return p.ScopePriority > 0
}

// Registry is the ordered list of well-known parents. Iteration order
// drives trait and parameter order in generated classes.
type Registry []Parent

func parent(kind, ns, class string, trait bool, scopeParam string, priority int) Parent {
	p := Parent{
		Kind:          kind,
		Table:         "nb_" + kind,
		IDField:       "nb_" + kind + "_id",
		IDConstant:    "NABU_" + strings.ToUpper(kind) + "_FIELD_ID",
		Class:         class,
		Namespace:     `\nabu\data\` + ns,
		ScopeParam:    scopeParam,
		ScopePriority: priority,
	}
	if trait {
		p.Trait = "TNabu" + strings.TrimPrefix(class, "CNabu") + "Child"
		p.TraitNamespace = p.Namespace + `\traits`
	}
	return p
}

// DefaultRegistry returns the nabu-3 parent entities.
func DefaultRegistry() Registry {
	return Registry{
		parent("customer", "customer", "CNabuCustomer", true, "cust_id", 1),
		parent("commerce", "commerce", "CNabuCommerce", true, "commerce_id", 3),
		parent("catalog", "catalog", "CNabuCatalog", true, "catalog_id", 4),
		parent("site", "site", "CNabuSite", true, "site_id", 2),
		parent("site_target", "site", "CNabuSiteTarget", true, "", 0),
		parent("medioteca", "medioteca", "CNabuMedioteca", true, "medioteca_id", 5),
		parent("messaging", "messaging", "CNabuMessaging", true, "messaging_id", 6),
		parent("messaging_service", "messaging", "CNabuMessagingService", false, "", 0),
		parent("project", "project", "CNabuProject", false, "", 0),
		parent("role", "security", "CNabuRole", true, "", 0),
	}
}

// Lookup returns the parent of the given kind.
func (r Registry) Lookup(kind string) (Parent, bool) {
	for _, p := range r {
		if p.Kind == kind {
			return p, true
		}
	}
	return Parent{}, false
}

// Kinds returns the parent kinds in registry order.
func (r Registry) Kinds() []string {
	kinds := make([]string, 0, len(r))
	for _, p := range r {
		kinds = append(kinds, p.Kind)
	}
	return kinds
}

// Scoping returns the parents able to scope finders, by priority.
func (r Registry) Scoping() []Parent {
	var out []Parent
	for _, p := range r {
		if p.Scoping() {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Parent) int {
		return a.ScopePriority - b.ScopePriority
	})
	return out
}

// Merge returns a copy of r where parents of other replace those of the
// same kind and new kinds are appended.
func (r Registry) Merge(other Registry) Registry {
	out := slices.Clone(r)
	for _, p := range other {
		if i := slices.IndexFunc(out, func(q Parent) bool { return q.Kind == p.Kind }); i >= 0 {
			out[i] = p
		} else {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that every parent is usable.
func (r Registry) Validate() error {
	seen := make(map[string]bool, len(r))
	for i, p := range r {
		switch {
		case p.Kind == "":
			return fmt.Errorf("nabu: parent %d has no kind", i)
		case seen[p.Kind]:
			return fmt.Errorf("nabu: parent %q registered twice", p.Kind)
		case p.Table == "" || p.IDField == "":
			return fmt.Errorf("nabu: parent %q needs table and id_field", p.Kind)
		case p.Scoping() && p.ScopeParam == "":
			return fmt.Errorf("nabu: scoping parent %q needs scope_param", p.Kind)
		}
		seen[p.Kind] = true
	}
	return nil
}
