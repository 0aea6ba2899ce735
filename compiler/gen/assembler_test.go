package gen

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/fragment"
	"github.com/nabu-3/sdkgen/compiler/naming"
	"github.com/nabu-3/sdkgen/schema"
	"github.com/nabu-3/sdkgen/schema/snapshot"
)

const fixture = "../../schema/snapshot/testdata/nabu.txtar"

var (
	languageEntity = Entity{
		Table:     "nb_language",
		Namespace: `nabu\data\lang\base`,
		Class:     "CNabuLanguageBase",
		Label:     "Language",
		Abstract:  true,
	}
	siteEntity = Entity{
		Table:     "nb_site",
		Namespace: `nabu\data\site\base`,
		Class:     "CNabuSiteBase",
		Label:     "Site",
		Abstract:  true,
	}
	categoryEntity = Entity{
		Table:     "nb_category",
		Namespace: `nabu\data\catalog`,
		Class:     "CNabuCategory",
		Label:     "Category",
	}
)

func loadFixture(t *testing.T) *snapshot.Set {
	t.Helper()
	set, err := snapshot.Load(fixture)
	require.NoError(t, err)
	return set
}

// unit describes and classifies e against the fixture.
func unit(t *testing.T, set *snapshot.Set, kind UnitKind, e Entity) Unit {
	t.Helper()
	ctx := context.Background()
	desc, err := set.Describe(ctx, e.Table, "nabu-3")
	require.NoError(t, err)
	res, err := classify.ClassifyWithSiblings(ctx, desc, classify.DefaultRegistry(), set)
	require.NoError(t, err)
	u := Unit{Kind: kind, Entity: e, Item: e, Desc: desc, Result: res}
	switch kind {
	case UnitList:
		u.Entity = e.List()
	case UnitXML, UnitXMLList:
		x, spec := e.XMLAdapter()
		u.Entity, u.Item, u.XML = x, e, spec
		if kind == UnitXMLList {
			u.Entity, u.Item = x.List(), x
			u.XML.Element = naming.SimplePluralizer{}.Plural(spec.Element)
		}
	}
	return u
}

func assemble(t *testing.T, u Unit) (*fragment.Document, *fragment.Class) {
	t.Helper()
	a := NewAssembler()
	a.Author, a.AuthorEmail = "Rafael Gutierrez", "rgutierrez@nabu-3.com"
	doc, err := a.Assemble(u)
	require.NoError(t, err)
	cls := doc.Class()
	require.NotNil(t, cls)
	return doc, cls
}

func method(t *testing.T, c *fragment.Class, name string) *fragment.Method {
	t.Helper()
	m, ok := c.Method(name)
	require.True(t, ok, "method %s not found in %v", name, c.MethodNames())
	return m
}

func paramNames(m *fragment.Method) []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names
}

func body(m *fragment.Method) string {
	return strings.Join(m.Text(), "\n")
}

func TestAssembleTable_Language(t *testing.T) {
	set := loadFixture(t)
	doc, c := assemble(t, unit(t, set, UnitTable, languageEntity))

	assert.Equal(t, `nabu\data\lang\base`, doc.Namespace)
	assert.Equal(t, "CNabuLanguageBase", c.Name)
	assert.True(t, c.Abstract)
	assert.Equal(t, "CNabuDBInternalObject", c.Extends)
	assert.Empty(t, c.Traits)
	assert.Empty(t, c.Interfaces)
	assert.Contains(t, doc.Uses, `\nabu\db\CNabuDBInternalObject`)
	assert.Contains(t, c.Comments, "Class to manage the entity Language stored in the storage named nb_language.")
	assert.Contains(t, c.Comments, "@author Rafael Gutierrez <rgutierrez@nabu-3.com>")
	assert.Contains(t, c.Comments, "@version "+DefaultVersion)
	assert.Contains(t, c.Comments, `@package \nabu\data\lang\base`)

	names := c.MethodNames()
	assert.Equal(t, []string{"__construct", "getStorageDescriptorPath", "getStorageName", "getSelectRegister", "getAllLanguages"}, names[:5])
	assert.NotContains(t, names, "findByKey")
	assert.NotContains(t, names, "findByHash")
	assert.NotContains(t, names, "getLanguages")
	assert.NotContains(t, names, "getTreeData")
	assert.Contains(t, names, "getFilteredLanguageList")

	t.Run("constructor", func(t *testing.T) {
		m := method(t, c, "__construct")
		require.Len(t, m.Params, 1)
		assert.Equal(t, "nb_language", m.Params[0].Name)
		assert.True(t, m.Params[0].HasDefault)
		assert.Equal(t, false, m.Params[0].Default)
		assert.Equal(t, []string{
			"if ($nb_language) {",
			"    $this->transferMixedValue($nb_language, 'nb_language_id');",
			"}",
			"",
			"parent::__construct();",
		}, m.Text())
	})

	t.Run("storage name", func(t *testing.T) {
		m := method(t, c, "getStorageName")
		assert.True(t, m.Static)
		assert.Equal(t, []string{"return 'nb_language';"}, m.Text())
	})

	t.Run("select register", func(t *testing.T) {
		m := method(t, c, "getSelectRegister")
		text := m.Text()
		require.NotEmpty(t, text)
		assert.Equal(t, "return ($this->isValueNumeric('nb_language_id'))", text[0])
		assert.Contains(t, body(m), `. "where nb_language_id=%nb_language_id\$d "`)
	})

	t.Run("get all unscoped", func(t *testing.T) {
		m := method(t, c, "getAllLanguages")
		assert.Empty(t, m.Params)
		assert.Contains(t, body(m), "'select * from nb_language'")
	})

	t.Run("accessors", func(t *testing.T) {
		get := method(t, c, "getType")
		assert.Equal(t, []string{"return $this->getValue('nb_language_type');"}, get.Text())
		assert.Contains(t, get.Comments, "@return string Returns the Language Type value")

		set := method(t, c, "setType")
		require.Len(t, set.Params, 1)
		assert.Equal(t, "type", set.Params[0].Name)
		assert.Equal(t, "string", set.Params[0].DocType)
		assert.Contains(t, set.Comments, "Sets the Language Type attribute value")
		assert.Contains(t, body(set), "throw new ENabuCoreException(")
		assert.Contains(t, body(set), "$this->setValue('nb_language_type', $type);")

		iso := method(t, c, "setISO6391")
		assert.Equal(t, "null|string", iso.Params[0].DocType)
		assert.NotContains(t, body(iso), "ENabuCoreException")

		method(t, c, "getEnabled")
		method(t, c, "setEnabled")
		assert.Contains(t, doc.Uses, `\nabu\core\exceptions\ENabuCoreException`)
	})

	t.Run("filtered list without parents", func(t *testing.T) {
		m := method(t, c, "getFilteredLanguageList")
		assert.Equal(t, []string{"q", "fields", "order", "offset", "num_items"}, paramNames(m))
		text := body(m)
		assert.Contains(t, text, "$order_part = nb_prefixFieldList(CNabuLanguageBase::getStorageName(), $order, false, false, '`');")
		assert.NotContains(t, text, "is_numeric")
	})
}

func TestAssembleTable_GetAllPlural(t *testing.T) {
	set := loadFixture(t)
	_, c := assemble(t, unit(t, set, UnitTable, categoryEntity))

	m := method(t, c, "getAllCategories")
	assert.Contains(t, m.Comments[0], "the field 'nb_category_id' is the index")
	assert.NotContains(t, c.MethodNames(), "findByKey")

	set2 := method(t, c, "setName")
	assert.Contains(t, body(set2), "ENabuCoreException::ERROR_NULL_VALUE_NOT_ALLOWED_IN")
}

func TestAssembleTable_Site(t *testing.T) {
	set := loadFixture(t)
	doc, c := assemble(t, unit(t, set, UnitTable, siteEntity))

	assert.Equal(t, []string{"TNabuCustomerChild", "TNabuTranslated"}, c.Traits)
	assert.Equal(t, []string{"INabuTranslated"}, c.Interfaces)
	assert.Contains(t, doc.Uses, `\nabu\data\customer\traits\TNabuCustomerChild`)
	assert.Contains(t, doc.Uses, `\nabu\data\lang\interfaces\INabuTranslated`)
	assert.Contains(t, doc.Uses, `\nabu\data\site\CNabuSiteLanguage`)

	t.Run("constructor starts translations", func(t *testing.T) {
		m := method(t, c, "__construct")
		text := m.Text()
		assert.Equal(t, "$this->__translatedConstruct();", text[len(text)-1])
	})

	t.Run("find by key scoped by customer", func(t *testing.T) {
		m := method(t, c, "findByKey")
		assert.True(t, m.Static)
		assert.Equal(t, []string{"nb_customer", "key"}, paramNames(m))
		text := body(m)
		assert.Contains(t, text, "$nb_customer_id = nb_getMixedValue($nb_customer, 'nb_customer_id');")
		assert.Contains(t, text, "$retval = CNabuSite::buildObjectFromSQL(")
		assert.Contains(t, text, "'cust_id' => $nb_customer_id,")
		assert.Contains(t, m.Comments, "@return CNabuSite Returns a valid instance if exists or null if not.")
	})

	t.Run("find by hash", func(t *testing.T) {
		m := method(t, c, "findByHash")
		assert.Equal(t, []string{"nb_customer", "hash"}, paramNames(m))
	})

	t.Run("get all scoped", func(t *testing.T) {
		m := method(t, c, "getAllSites")
		require.Len(t, m.Params, 1)
		assert.Equal(t, "CNabuCustomer", m.Params[0].Type)
		assert.Contains(t, doc.Uses, `\nabu\data\customer\CNabuCustomer`)
	})

	t.Run("filtered list scoped by foreign parents", func(t *testing.T) {
		m := method(t, c, "getFilteredSiteList")
		assert.Equal(t, []string{"nb_customer", "q", "fields", "order", "offset", "num_items"}, paramNames(m))
		text := body(m)
		assert.Contains(t, text, "$nb_customer_id = nb_getMixedValue($nb_customer, NABU_CUSTOMER_FIELD_ID);")
		assert.Contains(t, text, "if (is_numeric($nb_customer_id)) {")
		assert.Contains(t, text, "'where ' . NABU_CUSTOMER_FIELD_ID . '=%cust_id$d '")
		assert.Contains(t, text, "'cust_id' => $nb_customer_id")
		assert.Contains(t, text, "$nb_item_list = null;")
	})

	t.Run("translated methods", func(t *testing.T) {
		names := c.MethodNames()
		for _, name := range []string{"checkForValidTranslationInstance", "getLanguages", "getTranslations", "newTranslation", "refresh", "delete"} {
			assert.Contains(t, names, name)
		}
		assert.NotContains(t, names, "getCustomerUsedLanguages")
		assert.Contains(t, body(method(t, c, "getTranslations")), "CNabuSiteLanguage::getTranslationsForTranslatedObject($this)")
		assert.Contains(t, body(method(t, c, "newTranslation")), "? new CNabuBuiltInSiteLanguage()")
		assert.Equal(t, []string{"return $this->deleteTranslations(true) && parent::delete();"}, method(t, c, "delete").Text())
	})

	t.Run("attributes field", func(t *testing.T) {
		get := method(t, c, "getAttributes")
		assert.Equal(t, []string{"return $this->getValueJSONDecoded('nb_site_attributes');"}, get.Text())
		assert.Contains(t, get.Comments, "@return null|array Returns the Site Attributes value")
		set := method(t, c, "setAttributes")
		assert.Equal(t, "null|string|array", set.Params[0].DocType)

		tree := body(method(t, c, "getTreeData"))
		assert.Contains(t, tree, "$trdata['attributes'] = $this->getAttributes();")
		assert.Contains(t, tree, "$trdata = $this->appendTranslatedTreeData($trdata, $nb_language, $dataonly);")
	})
}

func TestAssembleTable_Translation(t *testing.T) {
	set := loadFixture(t)
	doc, c := assemble(t, unit(t, set, UnitTable, siteEntity.Language()))

	assert.Equal(t, "CNabuSiteLanguageBase", c.Name)
	assert.Equal(t, []string{"TNabuSiteChild", "TNabuTranslation"}, c.Traits)
	assert.Equal(t, []string{"INabuTranslation"}, c.Interfaces)

	names := c.MethodNames()
	assert.NotContains(t, names, "getFilteredSiteLanguageList")
	assert.NotContains(t, names, "getAllSiteLanguages")
	assert.Contains(t, names, "getLanguagesForTranslatedObject")

	m := method(t, c, "getTranslationsForTranslatedObject")
	text := body(m)
	assert.Contains(t, text, `'\\nabu\\data\\site\\CNabuSite'`)
	assert.Contains(t, text, "if (is_numeric($nb_site_id)) {")
	assert.Contains(t, text, "$retval = CNabuSiteLanguage::buildObjectListFromSQL(")
	assert.Contains(t, text, ". 'from nb_language l, nb_site t1, nb_site_lang t2 '")
	assert.Contains(t, text, ". 'where t1.nb_site_id=t2.nb_site_id '")
	assert.Contains(t, text, ". 'and t1.nb_site_id=%nb_site_id$d '")
	assert.Contains(t, text, ". 'order by t2.nb_site_lang_order',")
	assert.Equal(t, 1, strings.Count(text, "l.nb_language_id=t2.nb_language_id"))
	assert.Contains(t, text, "$nb_translation->setTranslatedObject($translated);")

	langs := body(method(t, c, "getLanguagesForTranslatedObject"))
	assert.Contains(t, langs, "$retval = CNabuLanguage::buildObjectListFromSQL(")
	assert.NotContains(t, langs, "setTranslatedObject")
	assert.Contains(t, doc.Uses, `\nabu\data\lang\CNabuLanguage`)

	assert.Contains(t, method(t, c, "getTitle").Comments, "@return null|string Returns the Site Lang Title value")
}

func TestAssembleList(t *testing.T) {
	set := loadFixture(t)

	t.Run("table list", func(t *testing.T) {
		doc, c := assemble(t, unit(t, set, UnitList, siteEntity))

		assert.Equal(t, "CNabuSiteListBase", c.Name)
		assert.Equal(t, "CNabuDataObjectList", c.Extends)
		assert.Contains(t, c.Comments, "Class to manage a list of Site instances.")
		k, ok := c.Constant("INDEX_KEY")
		require.True(t, ok)
		assert.Equal(t, "keys", k.Value)

		assert.Equal(t, []string{"parent::__construct('nb_site_id');"}, method(t, c, "__construct").Text())
		assert.Contains(t, body(method(t, c, "createSecondaryIndexes")),
			"new CNabuDataObjectListIndex($this, 'nb_site_key', 'nb_site_order', self::INDEX_KEY)")
		assert.Contains(t, body(method(t, c, "acquireItem")), "$item = new CNabuSite($key);")
		assert.Contains(t, doc.Uses, `\nabu\data\site\CNabuSite`)
		assert.Contains(t, doc.Uses, `\nabu\data\CNabuDataObjectListIndex`)
	})

	t.Run("translation list", func(t *testing.T) {
		_, c := assemble(t, unit(t, set, UnitList, siteEntity.Language()))

		assert.Equal(t, "CNabuSiteLanguageListBase", c.Name)
		assert.Equal(t, []string{"parent::__construct('nb_language_id');"}, method(t, c, "__construct").Text())
		_, ok := c.Constant("INDEX_KEY")
		assert.False(t, ok)
		assert.Empty(t, method(t, c, "createSecondaryIndexes").Body)
		assert.Contains(t, body(method(t, c, "acquireItem")), "$item = new CNabuSiteLanguage($key);")
	})
}

func TestAssembleErrors(t *testing.T) {
	a := NewAssembler()

	t.Run("invalid entity", func(t *testing.T) {
		_, err := a.Assemble(Unit{Entity: Entity{Table: "nb_site"}})
		assert.True(t, IsConfigError(err))
	})

	t.Run("missing descriptor", func(t *testing.T) {
		_, err := a.Assemble(Unit{Entity: siteEntity})
		assert.True(t, IsSchemaError(err))
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("missing primary key", func(t *testing.T) {
		desc := &schema.Descriptor{
			Storage: "nb_log",
			Fields:  []schema.Field{{Name: "nb_log_text", DataType: schema.TypeText}},
		}
		_, err := a.Assemble(Unit{Entity: siteEntity, Desc: desc})
		assert.True(t, IsSchemaError(err))
		assert.ErrorIs(t, err, classify.ErrNoPrimaryKey)
	})
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, `\nabu\data`, qualify(`nabu\data`))
	assert.Equal(t, `\nabu\data`, qualify(`\nabu\data`))
	assert.Equal(t, `\nabu\data\site\CNabuSite`, qualifyClass(`nabu\data\site`, "CNabuSite"))
	assert.Equal(t, `nabu\data\site`, stripBase(`nabu\data\site\base`))
	assert.Equal(t, "CNabuSite", stripClassBase("CNabuSiteBase"))
	assert.Equal(t, "Base", stripClassBase("Base"))
	assert.Equal(t, []string{"a,", "b,", "c"}, appendSep([]string{"a", "b", "c"}, ","))
	assert.Equal(t, []string{"  a", "", "  b"}, indent("  ", "a", "", "b"))
}
