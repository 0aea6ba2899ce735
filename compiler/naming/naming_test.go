package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToClassName(t *testing.T) {
	dict := DefaultDictionary()
	tests := []struct {
		id   string
		want string
	}{
		{"nb_site", "CNabuSite"},
		{"nb_site_lang", "CNabuSiteLang"},
		{"nb_site_alias_http", "CNabuSiteAliasHTTP"},
		{"nb_language", "CNabuLanguage"},
		{"nb_icontact_prospect", "CNabuIcontactProspect"},
		{"nb_user_passwd", "CNabuUserPassword"},
		{"site_widget", "CSiteWidget"},
		{"catalog", "Catalog"},
		{"widget", "CWidget"},
		{"NB_SITE", "CNbSite"},
		{"nb__site", "CNabuSite"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ToClassName(tt.id, dict))
		})
	}
}

func TestToEntityName(t *testing.T) {
	dict := DefaultDictionary()
	assert.Equal(t, "Site", ToEntityName("nb_site", dict))
	assert.Equal(t, "SiteTarget", ToEntityName("nb_site_target", dict))
	assert.Equal(t, "VirtualHost", ToEntityName("nb_vhost", dict))
	assert.Equal(t, "LanguageISO639", ToEntityName("nb_language_iso639", dict))
	assert.Equal(t, "Nb", ToEntityName("nb", dict))
	assert.Equal(t, "", ToEntityName("", dict))
}

func TestToEntityLabel(t *testing.T) {
	dict := DefaultDictionary()
	assert.Equal(t, "Site Target", ToEntityLabel("nb_site_target", dict))
	assert.Equal(t, "Site Target Key", ToEntityLabel("nb_site_target_key", dict))
	assert.Equal(t, "Domain SSL Cert", ToEntityLabel("nb_domain_ssl_cert", dict))
}

func TestDictionaryLookup(t *testing.T) {
	dict := Dictionary{"http": "HTTP", "Sku": "SKU-Exact"}

	t.Run("case sensitive first", func(t *testing.T) {
		v, ok := dict.Lookup("Sku")
		assert.True(t, ok)
		assert.Equal(t, "SKU-Exact", v)
	})

	t.Run("case insensitive fallback", func(t *testing.T) {
		v, ok := dict.Lookup("HTTP")
		assert.True(t, ok)
		assert.Equal(t, "HTTP", v)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := dict.Lookup("site")
		assert.False(t, ok)
	})

	t.Run("nil dictionary", func(t *testing.T) {
		_, ok := Dictionary(nil).Lookup("http")
		assert.False(t, ok)
	})

	t.Run("merge overrides", func(t *testing.T) {
		merged := DefaultDictionary().Merge(Dictionary{"http": "Http", "cms": "CMS"})
		assert.Equal(t, "Http", merged["http"])
		assert.Equal(t, "CMS", merged["cms"])
		assert.Equal(t, "HTTP", DefaultDictionary()["http"])
	})
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Site", Capitalize("site"))
	assert.Equal(t, "Site", Capitalize("SITE"))
	assert.Equal(t, "Site", Capitalize("sITE"))
	assert.Equal(t, "", Capitalize(""))

	t.Run("only the first character", func(t *testing.T) {
		assert.Equal(t, "3d", Capitalize("3d"))
		assert.Equal(t, "2fa", Capitalize("2FA"))
		assert.Equal(t, "Ab-cd", Capitalize("ab-cd"))
		assert.Equal(t, "O'neil", Capitalize("o'NEIL"))
		assert.Equal(t, "Ñandu", Capitalize("ñANDU"))
	})

	t.Run("class names", func(t *testing.T) {
		assert.Equal(t, "CNabu3dItem", ToClassName("nb_3d_item", nil))
		assert.Equal(t, "CNabuUser2fa", ToClassName("nb_user_2fa", nil))
	})
}

func TestStripTablePrefix(t *testing.T) {
	assert.Equal(t, "key", StripTablePrefix("nb_site_key", "nb_site"))
	assert.Equal(t, "target_key", StripTablePrefix("nb_site_target_key", "nb_site"))
	assert.Equal(t, "nb_customer_id", StripTablePrefix("nb_customer_id", "nb_site"))
	assert.Equal(t, "", StripTablePrefix("nb_site", "nb_site"))
	assert.Equal(t, "field", StripTablePrefix("field", ""))
}

func TestVarName(t *testing.T) {
	assert.Equal(t, "nb_site", VarName("nb_site_id"))
	assert.Equal(t, "nb_site_key", VarName("nb_site_key"))
}
