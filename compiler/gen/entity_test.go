package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const siteYAML = `
table: nb_site
namespace: nabu\data\site\base
class: CNabuSiteBase
label: Site
abstract: true
xml:
  element: site
  since: 3.0.0 Surface
  attributes:
    nb_site_order: order
    nb_site_key: key
  translation:
    childs:
      nb_site_lang_title: title
`

func decodeSite(t *testing.T) Entity {
	t.Helper()
	var e Entity
	require.NoError(t, yaml.Unmarshal([]byte(siteYAML), &e))
	return e
}

func TestEntityYAML(t *testing.T) {
	e := decodeSite(t)

	assert.Equal(t, "nb_site", e.Table)
	assert.Equal(t, `nabu\data\site\base`, e.Namespace)
	assert.True(t, e.Abstract)
	require.NotNil(t, e.XML)
	assert.Equal(t, Mappings{
		{Field: "nb_site_order", Name: "order"},
		{Field: "nb_site_key", Name: "key"},
	}, e.XML.Attributes)
	require.NotNil(t, e.XML.Translation)
	assert.Equal(t, Mappings{{Field: "nb_site_lang_title", Name: "title"}}, e.XML.Translation.Childs)

	t.Run("round trip keeps order", func(t *testing.T) {
		out, err := yaml.Marshal(e.XML.Attributes)
		require.NoError(t, err)
		assert.Equal(t, "nb_site_order: order\nnb_site_key: key\n", string(out))
	})

	t.Run("rejects sequences", func(t *testing.T) {
		var m Mappings
		err := yaml.Unmarshal([]byte("- nb_site_key\n"), &m)
		assert.Error(t, err)
	})

	t.Run("rejects nested values", func(t *testing.T) {
		var m Mappings
		err := yaml.Unmarshal([]byte("nb_site_key:\n  name: key\n"), &m)
		assert.Error(t, err)
	})
}

func TestEntityValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Entity)
		option string
	}{
		{"table", func(e *Entity) { e.Table = "" }, "Table"},
		{"namespace", func(e *Entity) { e.Namespace = " " }, "Namespace"},
		{"class", func(e *Entity) { e.Class = "" }, "Class"},
		{"label", func(e *Entity) { e.Label = "" }, "Label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := siteEntity
			tt.modify(&e)
			err := e.Validate()
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.option, ce.Option)
		})
	}
	assert.NoError(t, siteEntity.Validate())
}

func TestEntityCompanions(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		l := siteEntity.List()
		assert.Equal(t, "CNabuSiteListBase", l.Class)
		assert.Equal(t, "Site List", l.Label)
		assert.Equal(t, siteEntity.Namespace, l.Namespace)
		assert.Equal(t, "CNabuCategoryList", categoryEntity.List().Class)
	})

	t.Run("language", func(t *testing.T) {
		e := decodeSite(t)
		l := e.Language()
		assert.Equal(t, "nb_site_lang", l.Table)
		assert.Equal(t, "CNabuSiteLanguageBase", l.Class)
		assert.Equal(t, "Site Language", l.Label)
		require.NotNil(t, l.XML)
		assert.Len(t, l.XML.Childs, 1)

		plain := categoryEntity.Language()
		assert.Equal(t, "CNabuCategoryLanguage", plain.Class)
		assert.Nil(t, plain.XML)
	})

	t.Run("xml adapter", func(t *testing.T) {
		e := decodeSite(t)
		x, spec := e.XMLAdapter()
		assert.Equal(t, "CNabuXMLSiteBase", x.Class)
		assert.Equal(t, `nabu\xml\site\base`, x.Namespace)
		assert.Equal(t, "site", spec.Element)
		assert.Equal(t, "CNabuSite", spec.DataClass)
		assert.Equal(t, `nabu\data\site`, spec.DataNamespace)

		_, def := Entity{Table: "nb_site_alias", Namespace: `nabu\data\site`, Class: "CNabuSiteAlias", Label: "Site Alias"}.XMLAdapter()
		assert.Equal(t, "SiteAlias", def.Element)
	})
}

func TestUnits(t *testing.T) {
	set := loadFixture(t)
	table := unit(t, set, UnitTable, siteEntity)
	lang := unit(t, set, UnitTable, siteEntity.Language())
	kinds := func(units []Unit) []string {
		var out []string
		for _, u := range units {
			out = append(out, u.Kind.String()+":"+u.Entity.Class)
		}
		return out
	}

	t.Run("defaults", func(t *testing.T) {
		units := Units(decodeSite(t), table.Desc, table.Result, lang.Desc, lang.Result, DefaultConfig())
		assert.Equal(t, []string{
			"table:CNabuSiteBase",
			"list:CNabuSiteListBase",
			"table:CNabuSiteLanguageBase",
			"list:CNabuSiteLanguageListBase",
		}, kinds(units))
	})

	t.Run("xml adapters", func(t *testing.T) {
		c := DefaultConfig()
		require.NoError(t, WithFeatures(FeatureXMLAdapters)(c))
		units := Units(decodeSite(t), table.Desc, table.Result, lang.Desc, lang.Result, c)
		assert.Equal(t, []string{
			"table:CNabuSiteBase",
			"list:CNabuSiteListBase",
			"xml:CNabuXMLSiteBase",
			"xml-list:CNabuXMLSiteListBase",
			"table:CNabuSiteLanguageBase",
			"list:CNabuSiteLanguageListBase",
			"xml:CNabuXMLSiteLanguageBase",
			"xml-list:CNabuXMLSiteLanguageListBase",
		}, kinds(units))
		assert.Equal(t, "sites", units[3].XML.Element)
	})

	t.Run("without list and untranslated", func(t *testing.T) {
		c := DefaultConfig()
		require.NoError(t, WithoutFeatures(FeatureListClass)(c))
		units := Units(siteEntity, table.Desc, table.Result, nil, nil, c)
		assert.Equal(t, []string{"table:CNabuSiteBase"}, kinds(units))
	})

	assert.Equal(t, "unknown", UnitKind(9).String())
}
