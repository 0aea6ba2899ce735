package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	require.NoError(t, reg.Validate())
	assert.Equal(t, []string{
		"customer", "commerce", "catalog", "site", "site_target",
		"medioteca", "messaging", "messaging_service", "project", "role",
	}, reg.Kinds())

	customer, ok := reg.Lookup("customer")
	require.True(t, ok)
	assert.Equal(t, "nb_customer_id", customer.IDField)
	assert.Equal(t, "NABU_CUSTOMER_FIELD_ID", customer.IDConstant)
	assert.Equal(t, `\nabu\data\customer\CNabuCustomer`, customer.QualifiedClass())
	assert.Equal(t, `\nabu\data\customer\traits\TNabuCustomerChild`, customer.QualifiedTrait())
	assert.Equal(t, "nb_customer", customer.Var())

	role, _ := reg.Lookup("role")
	assert.Equal(t, `\nabu\data\security\traits\TNabuRoleChild`, role.QualifiedTrait())

	target, _ := reg.Lookup("site_target")
	assert.Equal(t, `\nabu\data\site\traits\TNabuSiteTargetChild`, target.QualifiedTrait())

	project, _ := reg.Lookup("project")
	assert.Empty(t, project.QualifiedTrait())

	_, ok = reg.Lookup("planet")
	assert.False(t, ok)
}

func TestRegistryScoping(t *testing.T) {
	assert.Equal(t,
		[]string{"customer", "site", "commerce", "catalog", "medioteca", "messaging"},
		kinds(DefaultRegistry().Scoping()))
}

func TestRegistryMerge(t *testing.T) {
	reg := DefaultRegistry().Merge(Registry{
		{Kind: "site", Table: "nb_site", IDField: "nb_site_id", Class: "CMySite", Namespace: `\my`},
		{Kind: "tenant", Table: "nb_tenant", IDField: "nb_tenant_id"},
	})
	require.NoError(t, reg.Validate())
	site, _ := reg.Lookup("site")
	assert.Equal(t, "CMySite", site.Class)
	assert.Equal(t, "tenant", reg.Kinds()[len(reg)-1])
	assert.Len(t, DefaultRegistry(), len(reg)-1)
}

func TestRegistryValidate(t *testing.T) {
	tests := map[string]Registry{
		"no kind":       {{Table: "t", IDField: "f"}},
		"duplicate":     {{Kind: "a", Table: "t", IDField: "f"}, {Kind: "a", Table: "t", IDField: "f"}},
		"no table":      {{Kind: "a", IDField: "f"}},
		"scope no name": {{Kind: "a", Table: "t", IDField: "f", ScopePriority: 1}},
	}
	for name, reg := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, reg.Validate())
		})
	}
}
