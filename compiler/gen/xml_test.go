package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleXML(t *testing.T) {
	set := loadFixture(t)
	site := decodeSite(t)

	t.Run("translated adapter", func(t *testing.T) {
		doc, c := assemble(t, unit(t, set, UnitXML, site))

		assert.Equal(t, `nabu\xml\site\base`, doc.Namespace)
		assert.Equal(t, "CNabuXMLSiteBase", c.Name)
		assert.Equal(t, "CNabuXMLTranslated", c.Extends)
		assert.Contains(t, c.Comments, "Class to manage the Site as a XML branch.")
		assert.Contains(t, c.Comments, "@since 3.0.0 Surface")
		assert.Equal(t, []string{
			"__construct", "getTagName", "createXMLTranslationsObject", "locateDataObject",
			"getAttributes", "setAttributes", "getChilds", "setChilds",
		}, c.MethodNames())

		ctor := method(t, c, "__construct")
		require.Len(t, ctor.Params, 1)
		assert.Equal(t, "CNabuSite", ctor.Params[0].Type)
		assert.True(t, ctor.Params[0].HasDefault)
		assert.Contains(t, doc.Uses, `\nabu\data\site\CNabuSite`)
		assert.Contains(t, doc.Uses, `\nabu\xml\lang\CNabuXMLTranslated`)

		tag := method(t, c, "getTagName")
		assert.Equal(t, "string", tag.ReturnType)
		assert.Equal(t, []string{"return 'site';"}, tag.Text())

		assert.Equal(t, []string{"return new CNabuXMLSiteLanguageList($this->nb_data_object->getTranslations());"},
			method(t, c, "createXMLTranslationsObject").Text())

		locate := body(method(t, c, "locateDataObject"))
		assert.Contains(t, locate, "$this->nb_data_object = CNabuSite::findByHash($guid);")
		assert.NotContains(t, locate, "else")

		assert.Equal(t, []string{
			"$this->getAttributesFromList($element, array(",
			"    'nb_site_order' => 'order',",
			"    'nb_site_key' => 'key'",
			"), false);",
		}, method(t, c, "getAttributes").Text())

		set := method(t, c, "setAttributes").Text()
		assert.Equal(t, "$element->addAttribute('GUID', $this->nb_data_object->grantHash(true));", set[0])
		assert.Equal(t, "$this->putAttributesFromList($element, array(", set[1])

		assert.Equal(t, []string{"parent::getChilds($element);"}, method(t, c, "getChilds").Text())
	})

	t.Run("translation adapter", func(t *testing.T) {
		_, c := assemble(t, unit(t, set, UnitXML, site.Language()))

		assert.Equal(t, "CNabuXMLSiteLanguageBase", c.Name)
		assert.Equal(t, "CNabuXMLTranslation", c.Extends)
		names := c.MethodNames()
		assert.NotContains(t, names, "getTagName")
		assert.NotContains(t, names, "createXMLTranslationsObject")

		assert.Empty(t, method(t, c, "getAttributes").Body)
		set := body(method(t, c, "setAttributes"))
		assert.Contains(t, set, "$element->addAttribute('lang', $nb_language->grantHash(true));")
		assert.NotContains(t, set, "putAttributesFromList")

		assert.Equal(t, []string{
			"$this->getChildsAsCDATAFromList($element, array(",
			"    'nb_site_lang_title' => 'title'",
			"), false);",
		}, method(t, c, "getChilds").Text())
	})

	t.Run("list adapter", func(t *testing.T) {
		doc, c := assemble(t, unit(t, set, UnitXMLList, site))

		assert.Equal(t, "CNabuXMLSiteListBase", c.Name)
		assert.Equal(t, "CNabuXMLDataObjectList", c.Extends)
		ctor := method(t, c, "__construct")
		assert.Equal(t, "CNabuSiteList", ctor.Params[0].Type)
		assert.False(t, ctor.Params[0].HasDefault)
		assert.Equal(t, []string{"return 'sites';"}, method(t, c, "getTagName").Text())

		child := method(t, c, "createXMLChildObject")
		assert.Equal(t, []string{"return new CNabuXMLSite($nb_child);"}, child.Text())
		assert.Contains(t, doc.Uses, `\nabu\xml\site\CNabuXMLSite`)
		assert.Contains(t, doc.Uses, `\nabu\data\site\CNabuSiteList`)
	})

	t.Run("translation list adapter", func(t *testing.T) {
		_, c := assemble(t, unit(t, set, UnitXMLList, site.Language()))

		assert.Equal(t, "CNabuXMLTranslationsList", c.Extends)
		assert.NotContains(t, c.MethodNames(), "getTagName")
		m := method(t, c, "createXMLTranslationsObject")
		assert.Equal(t, []string{"return new CNabuXMLSiteLanguage($nb_translation);"}, m.Text())
	})
}
