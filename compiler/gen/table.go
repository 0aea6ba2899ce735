package gen

import (
	"strings"

	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/fragment"
	"github.com/nabu-3/sdkgen/compiler/naming"
	"github.com/nabu-3/sdkgen/schema"
)

// table builds the class mapping one storage row.
func (b *builder) table() {
	t := b.desc.StorageName()
	c := b.newClass(dbObjectClass, "Class to manage the entity "+b.e.Label+" stored in the storage named "+t+".")
	b.use(`\nabu\db\` + dbObjectClass)

	for _, p := range b.res.Related(b.a.registry()) {
		if p.Trait == "" {
			continue
		}
		b.use(p.QualifiedTrait())
		c.AddTrait(p.Trait)
	}
	if b.res.Translated {
		b.use(langInterfaces+"INabuTranslated", langTraits+"TNabuTranslated")
		c.AddInterface("INabuTranslated")
		c.AddTrait("TNabuTranslated")
	}
	if b.res.Translation {
		b.use(langInterfaces+"INabuTranslation", langTraits+"TNabuTranslation")
		c.AddInterface("INabuTranslation")
		c.AddTrait("TNabuTranslation")
	}
	b.signature("")

	b.constructor()
	b.getStorageDescriptorPath()
	b.getStorageName()
	b.getSelectRegister()
	if f, ok := b.field(b.tableField("key")); ok && f.DataType == schema.TypeVarchar {
		b.findBy("key", "Key to search")
	}
	if b.res.Hashed {
		b.findBy("hash", "Hash to search")
	}
	if b.desc.PrimaryConstraintSize() == 1 {
		b.getAll()
	}
	if !b.res.Translation {
		b.getFilteredList()
	}
	if b.res.Translation {
		b.translationMethods()
	}
	if b.res.Translated {
		b.translatedMethods()
	}
	attrs := b.accessors()
	if attrs || b.res.Translated {
		b.getTreeData(attrs)
	}
}

func (b *builder) constructor() {
	m := fragment.NewConstructor()
	m.AddComment("Instantiates the class. If you fill enough parameters to identify an instance " +
		"serialized in the storage, then the instance is deserialized from the storage.")
	for _, f := range b.desc.PrimaryFieldNames() {
		v := naming.VarName(f)
		m.AddParam(fragment.NewParam(v, "mixed",
			"An instance of "+b.e.Class+" or another object descending from "+
				`\nabu\data\CNabuDataObject which contains a field named `+f+", or a valid ID.").
			WithDefault(false))
		m.Add(
			"if ($"+v+") {",
			"    $this->transferMixedValue($"+v+", '"+f+"');",
			"}",
			"",
		)
	}
	m.Add("parent::__construct();")
	if b.res.Translated {
		m.Add("$this->__translatedConstruct();")
	}
	b.cls.Add(m)
}

func (b *builder) getStorageDescriptorPath() {
	b.method("getStorageDescriptorPath", fragment.Public, true,
		"Get the file name and path where is stored the descriptor in JSON format.",
		"@return string Return the file name with the full path",
	).Add("return preg_replace('/.php$/', '.json', __FILE__);")
}

func (b *builder) getStorageName() {
	b.method("getStorageName", fragment.Public, true,
		"Get the table name represented by this class",
		"@return string Return the table name",
	).Add("return '" + b.desc.StorageName() + "';")
}

func (b *builder) getSelectRegister() {
	m := b.method("getSelectRegister", fragment.Public, false,
		"Gets SELECT sentence to load a single register from the storage.",
		"@return string Return the sentence.",
	)
	var checks, wheres []string
	for _, name := range b.desc.PrimaryFieldNames() {
		f, _ := b.field(name)
		switch f.DataType {
		case schema.TypeInt:
			checks = append(checks, "$this->isValueNumeric('"+name+"')")
			wheres = append(wheres, name+"=%"+name+`\$d`)
		case schema.TypeVarchar:
			checks = append(checks, "$this->isValueString('"+name+"')")
			wheres = append(wheres, name+"='%"+name+`\$s'`)
		}
	}
	if len(checks) == 0 {
		m.Add("return null;")
		return
	}
	m.Add(
		"return ("+strings.Join(checks, " && ")+")",
		"    ? $this->buildSentence(",
		"            'select * '",
		"            . 'from "+b.desc.StorageName()+" '",
	)
	for i, w := range wheres {
		if i == 0 {
			m.Add(`           . "where ` + w + ` "`)
		} else {
			m.Add(`             . "and ` + w + ` "`)
		}
	}
	m.Add("      )", "    : null;")
}

// findBy emits findByKey or findByHash over the <table>_<kind> field.
func (b *builder) findBy(kind, comment string) {
	t := b.desc.StorageName()
	field := t + "_" + kind
	class := stripClassBase(b.e.Class)
	ns := stripBase(b.e.Namespace)
	m := b.method("findBy"+naming.Capitalize(kind), fragment.Public, true,
		"Find an instance identified by "+field+" field.",
		"@return "+class+" Returns a valid instance if exists or null if not.",
	)
	b.use(qualifyClass(ns, class))

	if p, ok := b.res.ScopeParent(b.a.registry()); ok {
		pid := p.IDField
		m.AddParam(fragment.NewParam(p.Table, "mixed", b.parentLabel(p)+" that owns "+b.e.Label))
		m.AddParam(fragment.NewParam(kind, "string", comment))
		m.Add(
			"$"+pid+" = nb_getMixedValue($"+p.Table+", '"+pid+"');",
			"if (is_numeric($"+pid+")) {",
			"    $retval = "+class+"::buildObjectFromSQL(",
			"            'select * '",
			"            . 'from "+t+" '",
			"           . 'where "+pid+"=%"+p.ScopeParam+"$d '",
			"             . \"and "+field+"='%"+kind+"\\$s'\",",
			"            array(",
			"                '"+p.ScopeParam+"' => $"+pid+",",
			"                '"+kind+"' => $"+kind,
			"            )",
			"    );",
			"} else {",
			"    $retval = null;",
			"}",
			"",
			"return $retval;",
		)
		return
	}
	m.AddParam(fragment.NewParam(kind, "string", comment))
	m.Add(
		"return "+class+"::buildObjectFromSQL(",
		"        'select * '",
		"        . 'from "+t+" '",
		"       . \"where "+field+"='%"+kind+"\\$s'\",",
		"        array(",
		"            '"+kind+"' => $"+kind,
		"        )",
		");",
	)
}

// placeholder names the query parameter holding the id of p.
func placeholder(p classify.Parent) string {
	if p.ScopeParam != "" {
		return p.ScopeParam
	}
	return p.Kind + "_id"
}

func (b *builder) parentLabel(p classify.Parent) string {
	return naming.ToEntityLabel(p.Table, b.dict())
}

func (b *builder) getAll() {
	t := b.desc.StorageName()
	key := b.desc.PrimaryFieldNames()[0]
	plural := b.a.pluralizer().Plural(strings.ReplaceAll(b.e.Label, " ", ""))
	m := b.method("getAll"+plural, fragment.Public, true,
		"Get all items in the storage as an associative array where the field '"+key+
			"' is the index, and each value is an instance of class "+b.e.Class+".",
		"@return mixed Returns and array with all items.",
	)

	p, ok := b.res.ScopeParent(b.a.registry())
	if !ok {
		m.Add(
			"return forward_static_call(",
			"        array(get_called_class(), 'buildObjectListFromSQL'),",
			"        '"+key+"',",
			"        'select * from "+t+"'",
			");",
		)
		return
	}
	pid := p.IDField
	m.AddParam(fragment.NewParam(p.Table, p.Class,
		"The "+p.Class+" instance of the "+b.parentLabel(p)+" that owns the "+b.e.Label+" List.").
		WithType(p.Class))
	b.use(p.QualifiedClass())
	m.Add(
		"$"+pid+" = nb_getMixedValue($"+p.Table+", '"+pid+"');",
		"if (is_numeric($"+pid+")) {",
		"    $retval = forward_static_call(",
		"        array(get_called_class(), 'buildObjectListFromSQL'),",
		"        '"+key+"',",
		"        'select * '",
		"        . 'from "+t+" '",
		"       . 'where "+pid+"=%"+p.ScopeParam+"$d',",
		"        array(",
		"            '"+p.ScopeParam+"' => $"+pid,
		"        ),",
		"        $"+p.Table,
		"    );",
		"} else {",
		"    $retval = null;",
		"}",
		"",
		"return $retval;",
	)
}

func (b *builder) getFilteredList() {
	t := b.desc.StorageName()
	m := b.method("getFiltered"+strings.ReplaceAll(b.e.Label, " ", "")+"List", fragment.Public, true,
		"Gets a filtered list of "+b.e.Label+" instances represented as an array. Params allows the "+
			"capability of select a subset of fields, order by concrete fields, or truncate the list by a "+
			"number of rows starting in an offset.",
		"@return array Returns an array with all rows found using the criteria.",
		`@throws \nabu\core\exceptions\ENabuCoreException Raises an exception if $fields or $order have invalid values.`,
	)
	b.use(engineClass)

	scoped := b.res.ForeignParents(b.a.registry())
	for _, p := range scoped {
		label := b.parentLabel(p)
		m.AddParam(fragment.NewParam(p.Table, "mixed",
			label+" instance, object containing a "+label+" Id field or an Id."))
	}
	m.AddParam(fragment.NewParam("q", "string", "Query string to filter results using a context index.").WithDefault(nil))
	m.AddParam(fragment.NewParam("fields", "string|array", "List of fields to put in the results.").WithDefault(nil))
	m.AddParam(fragment.NewParam("order", "string|array",
		`List of fields to order the results. Each field can be suffixed with "ASC" or "DESC" to determine the short order`).
		WithDefault(nil))
	m.AddParam(fragment.NewParam("offset", "int",
		"Offset of first row in the results having the first row at offset 0.").WithDefault(0))
	m.AddParam(fragment.NewParam("num_items", "int",
		"Number of continue rows to get as maximum in the results.").WithDefault(0))

	pad := ""
	if len(scoped) > 0 {
		pad = "    "
		var conds []string
		for _, p := range scoped {
			m.Add("$" + p.IDField + " = nb_getMixedValue($" + p.Table + ", " + p.IDConstant + ");")
			conds = append(conds, "is_numeric($"+p.IDField+")")
		}
		m.Add("if (" + strings.Join(conds, " && ") + ") {")
	}

	body := []string{
		"$fields_part = nb_prefixFieldList(" + b.e.Class + "::getStorageName(), $fields, false, true, '`');",
		"$order_part = nb_prefixFieldList(" + b.e.Class + "::getStorageName(), $order, false, false, '`');",
		"",
		"if ($num_items !== 0) {",
		"    $limit_part = ($offset > 0 ? $offset . ', ' : '') . $num_items;",
		"} else {",
		"    $limit_part = false;",
		"}",
		"",
		"$nb_item_list = CNabuEngine::getEngine()->getMainDB()->getQueryAsArray(",
		"    \"select \" . ($fields_part ? $fields_part . ' ' : '* ')",
		"    . 'from " + t + " '",
	}
	var params []string
	for i, p := range scoped {
		if i == 0 {
			body = append(body, "   . 'where ' . "+p.IDConstant+" . '=%"+placeholder(p)+"$d '")
		} else {
			body = append(body, "     . 'and ' . "+p.IDConstant+" . '=%"+placeholder(p)+"$d '")
		}
		params = append(params, "        '"+placeholder(p)+"' => $"+p.IDField)
	}
	body = append(body,
		"    . ($order_part ? \"order by $order_part \" : '')",
		"    . ($limit_part ? \"limit $limit_part\" : ''),",
		"    array(",
	)
	body = append(body, appendSep(params, ",")...)
	body = append(body,
		"    )",
		");",
	)
	m.Add(indent(pad, body...)...)

	if len(scoped) > 0 {
		m.Add(
			"} else {",
			"    $nb_item_list = null;",
			"}",
		)
	}
	m.Add("", "return $nb_item_list;")
}

// translationMethods emits the finders of a translation table.
func (b *builder) translationMethods() {
	class := b.e.Class
	var translated string
	switch {
	case strings.HasSuffix(class, "LanguageBase"):
		translated = strings.TrimSuffix(class, "LanguageBase")
	case strings.HasSuffix(class, "Language"):
		translated = strings.TrimSuffix(class, "Language")
	default:
		return
	}
	ns := stripBase(b.e.Namespace)
	translatedClass := qualifyClass(ns, translated)

	m := b.method("getLanguagesForTranslatedObject", fragment.Public, true,
		"Query the storage to retrieve the full list of available languages (those that correspond to "+
			"existent translations) for $translated and returns an associative array in which each one is of "+
			`class \nabu\data\lang\CNabuLanguage.`,
		"@return false|null|array Returns an associative array indexed by the language Id, null if no "+
			"languages are available, or false if $translated cannot be identified.",
	)
	m.AddParam(fragment.NewParam("translated", "object", "Translated object to retrieve languages"))
	m.Add(b.translationQuery(translatedClass, classify.LanguageClass, "l.*", false)...)
	b.use(
		qualifyClass(classify.LanguageNamespace, classify.LanguageClass),
		qualifyClass(classify.LanguageNamespace, classify.LanguageListClass),
	)

	final := stripClassBase(class)
	m = b.method("getTranslationsForTranslatedObject", fragment.Public, true,
		"Query the storage to retrieve the full list of available translations for $translated and "+
			"returns an associative array in which each one is of class "+qualifyClass(ns, final)+".",
		"@return false|null|array Returns an associative array indexed by the language Id, null if no "+
			"languages are available, or false if $translated cannot be identified.",
	)
	m.AddParam(fragment.NewParam("translated", "object", "Translated object to retrieve translations"))
	m.Add(b.translationQuery(translatedClass, final, "t2.*", true)...)
	b.use(
		qualifyClass(classify.LanguageNamespace, classify.LanguageClass),
		qualifyClass(ns, final),
		qualifyClass(ns, final+"List"),
	)
}

// translationQuery builds the body joining the language table, the
// translated table and this table on the translated primary key.
func (b *builder) translationQuery(translatedClass, final, columns string, iterate bool) []string {
	t := b.desc.StorageName()
	translatedTable := b.res.TranslatedTable
	if translatedTable == "" {
		translatedTable = strings.TrimSuffix(t, classify.TranslationSuffix)
	}
	typed := b.res.TranslatedDescriptor
	if typed == nil {
		typed = b.desc
	}
	keys := b.res.TranslatedPrimary
	if len(keys) == 0 {
		keys = translatedKeys(b.desc.PrimaryFieldNames())
	}
	literal := strings.ReplaceAll(translatedClass, `\`, `\\`)

	var out, conds, joins, filters, params []string
	for i, k := range keys {
		f, _ := typed.Field(k)
		out = append(out,
			"$"+k+" = nb_getMixedValue(",
			"        $translated,",
			"        '"+k+"',",
			"        '"+literal+"'",
			");",
		)
		check := "is_string($" + k + ")"
		placeholder := "'%" + k + "$s'"
		if f.DataType == schema.TypeInt {
			check = "is_numeric($" + k + ")"
			placeholder = "%" + k + "$d"
		}
		conds = append(conds, check)
		if i == 0 {
			joins = append(joins, "           . 'where t1."+k+"=t2."+k+" '")
		} else {
			joins = append(joins, "             . 'and t1."+k+"=t2."+k+" '")
		}
		filters = append(filters, "             . 'and t1."+k+"="+placeholder+" '")
		params = append(params, "                '"+k+"' => $"+k)
	}

	if len(conds) == 1 {
		out = append(out, "if ("+conds[0]+") {")
	} else {
		for i, c := range conds {
			if i == 0 {
				out = append(out, "if ("+c+" &&")
			} else if i < len(conds)-1 {
				out = append(out, "    "+c+" &&")
			} else {
				out = append(out, "    "+c)
			}
		}
		out = append(out, "   )", "{")
	}

	aux := append(joins, filters...)
	aux = append(aux, "             . 'and l."+classify.LanguageField+"=t2."+classify.LanguageField+" '")
	if b.desc.HasField(t + "_order") {
		aux = append(aux, "           . 'order by t2."+t+"_order'")
	}
	aux[len(aux)-1] += ","

	out = append(out,
		"    $retval = "+final+"::buildObjectListFromSQL(",
		"            '"+classify.LanguageField+"',",
		"            'select "+columns+" '",
		"            . 'from "+classify.LanguageTable+" l, "+translatedTable+" t1, "+t+" t2 '",
	)
	out = append(out, aux...)
	out = append(out, "            array(")
	out = append(out, appendSep(params, ",")...)
	out = append(out, "            )", "    );")
	if iterate {
		out = append(out,
			"    $retval->iterate(",
			"        function ($key, $nb_translation) use($translated) {",
			"            $nb_translation->setTranslatedObject($translated);",
			"        }",
			"    );",
		)
	}
	out = append(out,
		"} else {",
		"    $retval = new "+final+"List();",
		"}",
		"",
		"return $retval;",
	)
	return out
}

func translatedKeys(pk []string) []string {
	var out []string
	for _, k := range pk {
		if k != classify.LanguageField {
			out = append(out, k)
		}
	}
	return out
}

// translatedMethods emits the accessors of a table owning translations.
func (b *builder) translatedMethods() {
	langClass := b.e.Class + "Language"
	if s, ok := strings.CutSuffix(b.e.Class, baseSuffix); ok && s != "" {
		langClass = s + "Language"
	}
	langNs := stripBase(b.e.Namespace)
	b.use(qualifyClass(langNs, langClass))
	pk := b.desc.PrimaryFieldNames()

	m := b.method("checkForValidTranslationInstance", fragment.Protected, false,
		"Check if the instance passed as parameter $translation is a valid child translation for this object",
		"@return bool Return true if a valid object is passed as instance or false elsewhere",
	)
	m.AddParam(fragment.NewParam("translation", "INabuTranslation", "Translation instance to check"))
	b.use(langInterfaces + "INabuTranslation")
	m.Add(
		"return ($translation !== null &&",
		"        $translation instanceof "+langClass+" &&",
	)
	var matches []string
	for _, f := range pk {
		matches = append(matches, "        $translation->matchValue($this, '"+f+"')")
	}
	m.Add(appendSep(matches, " &&")...)
	m.Add(");")

	b.use(engineClass)
	m = b.method("getLanguages", fragment.Public, false,
		"Get all language instances corresponding to available translations.",
		`@return null|array Return an array of \nabu\data\lang\CNabuLanguage instances if they have translations or null if not.`,
	)
	m.AddParam(fragment.NewParam("force", "bool", "If true force to reload languages list from storage.").WithDefault(false))
	m.Add(reloadList("languages_list", langClass+"::getLanguagesForTranslatedObject($this)")...)

	m = b.method("getTranslations", fragment.Public, false,
		"Gets available translation instances.",
		"@return null|array Return an array of "+qualifyClass(langNs, langClass)+
			" instances if they have translations or null if not.",
	)
	m.AddParam(fragment.NewParam("force", "bool", "If true force to reload translations list from storage.").WithDefault(false))
	m.Add(reloadList("translations_list", langClass+"::getTranslationsForTranslatedObject($this)")...)

	builtin := strings.Replace(langClass, dataClassPrefix, dataClassPrefix+"BuiltIn", 1)
	m = b.method("newTranslation", fragment.Public, false,
		"Creates a new translation instance. If the translation already exists then replaces ancient "+
			"translation with this new.",
		"@return "+langClass+" Returns the created instance to store translation or null if not valid "+
			"language was provided.",
	)
	m.AddParam(fragment.NewParam("nb_language", "int|string|CNabuDataObject",
		"A valid Id or object containing a nb_language_id field to identify the language of new translation."))
	b.use(dataObjectClass, qualifyClass(langNs+`\builtin`, builtin))
	m.Add(
		"$nb_language_id = nb_getMixedValue($nb_language, "+classify.LanguageConstant+");",
		"if (is_numeric($nb_language_id) || nb_isValidGUID($nb_language_id)) {",
		"    $nb_translation = $this->isBuiltIn()",
		"                    ? new "+builtin+"()",
		"                    : new "+langClass+"()",
		"    ;",
	)
	for _, f := range pk {
		m.Add("    $nb_translation->transferValue($this, '" + f + "');")
	}
	m.Add(
		"    $nb_translation->transferValue($nb_language, "+classify.LanguageConstant+");",
		"    $this->setTranslation($nb_translation);",
		"} else {",
		"    $nb_translation = null;",
		"}",
		"",
		"return $nb_translation;",
	)

	if b.res.ChildOf("customer") {
		b.getCustomerUsedLanguages()
	}

	b.method("refresh", fragment.Public, false,
		"Overrides refresh method to add translations branch to refresh.",
		"@return bool Returns true if transations are empty or refreshed.",
	).Add("return parent::refresh() && $this->appendTranslatedRefresh();")

	b.method("delete", fragment.Public, false,
		"Overrides delete method to remove translations before the instance.",
		"@return bool Returns true if the instance and its translations were deleted.",
	).Add("return $this->deleteTranslations(true) && parent::delete();")
}

func reloadList(list, loader string) []string {
	return []string{
		"if (!CNabuEngine::getEngine()->isOperationModeStandalone() &&",
		"    ($this->" + list + "->getSize() === 0 || $force)",
		") {",
		"    $this->" + list + " = " + loader + ";",
		"}",
		"",
		"return $this->" + list + ";",
	}
}

func (b *builder) getCustomerUsedLanguages() {
	customer, ok := b.a.registry().Lookup("customer")
	if !ok {
		return
	}
	t := b.desc.StorageName()
	lang := b.res.TranslationTable
	if lang == "" {
		lang = t + classify.TranslationSuffix
	}
	pk := b.desc.PrimaryFieldNames()[0]
	lid := classify.LanguageField
	m := b.method("getCustomerUsedLanguages", fragment.Public, true,
		"Get all language instances used along of all "+b.e.Label+" set of a Customer",
		"@return "+classify.LanguageListClass+" Returns the list of language instances used.",
	)
	m.AddParam(fragment.NewParam(customer.Table, "mixed",
		"A CNabuDataObject instance containing a field named "+customer.IDField+" or a Customer ID"))
	m.Add(
		"$"+customer.IDField+" = nb_getMixedValue($"+customer.Table+", "+customer.IDConstant+");",
		"if (is_numeric($"+customer.IDField+")) {",
		"    $"+classify.LanguageTable+"_list = "+classify.LanguageClass+"::buildObjectListFromSQL(",
		"        '"+lid+"',",
		"        'select l.* '",
		"        . 'from "+classify.LanguageTable+" l, '",
		"             . '(select distinct "+lid+" '",
		"                . 'from "+t+" t, "+lang+" tl '",
		"               . 'where t."+pk+"=tl."+pk+" '",
		"                 . 'and t."+customer.IDField+"=%"+customer.ScopeParam+"$d) as lid '",
		"       . 'where l."+lid+"=lid."+lid+"',",
		"        array('"+customer.ScopeParam+"' => $"+customer.IDField+")",
		"    );",
		"} else {",
		"    $"+classify.LanguageTable+"_list = new "+classify.LanguageListClass+"();",
		"}",
		"",
		"return $"+classify.LanguageTable+"_list;",
	)
	b.use(
		qualifyClass(classify.LanguageNamespace, classify.LanguageClass),
		qualifyClass(classify.LanguageNamespace, classify.LanguageListClass),
	)
}

// accessors emits one getter and one setter per field and reports whether
// an attributes field was found.
func (b *builder) accessors() bool {
	t := b.desc.StorageName()
	var attrs bool
	for _, f := range b.desc.Fields {
		name := naming.StripTablePrefix(f.Name, t)
		if name == "" {
			name = f.Name
		}
		stem := naming.ToEntityName(name, b.dict())
		label := naming.ToEntityLabel(f.Name, b.dict())
		typ := phpType(f)
		isAttr := isAttributesField(f, t)
		attrs = attrs || isAttr

		getType, setType := typ, typ
		if isAttr && typ == "string" {
			getType = "array"
			setType = typ + "|array"
		}
		if f.IsNullable() && typ != "mixed" {
			getType = "null|" + getType
			setType = "null|" + setType
		}

		getter := b.method("get"+stem, fragment.Public, false,
			"Get "+label+" attribute value",
			"@return "+getType+" Returns the "+label+" value",
		)
		if isAttr {
			getter.Add("return $this->getValueJSONDecoded('" + f.Name + "');")
		} else {
			getter.Add("return $this->getValue('" + f.Name + "');")
		}

		setter := b.method("set"+stem, fragment.Public, false,
			"Sets the "+label+" attribute value",
			"@return "+b.e.Class+" Returns $this",
		)
		setter.AddParam(fragment.NewParam(name, setType, "New value for attribute"))
		if !f.IsNullable() {
			b.use(coreExceptionUse)
			setter.Add(
				"if ($"+name+" === null) {",
				"    throw new ENabuCoreException(",
				"            ENabuCoreException::ERROR_NULL_VALUE_NOT_ALLOWED_IN,",
				"            array(\"\\$"+name+"\")",
				"    );",
				"}",
			)
		}
		if isAttr {
			setter.Add("$this->setValueJSONEncoded('" + f.Name + "', $" + name + ");")
		} else {
			setter.Add("$this->setValue('" + f.Name + "', $" + name + ");")
		}
		setter.Add("", "return $this;")
	}
	return attrs
}

func phpType(f schema.Field) string {
	switch f.DataType {
	case schema.TypeInt:
		return "int"
	case schema.TypeEnum, schema.TypeVarchar, schema.TypeTinyText, schema.TypeText, schema.TypeLongText:
		return "string"
	}
	return "mixed"
}

func isAttributesField(f schema.Field, table string) bool {
	if f.Name != table+"_attributes" {
		return false
	}
	switch f.DataType {
	case schema.TypeText, schema.TypeTinyText, schema.TypeLongText, schema.TypeVarchar, schema.TypeJSON:
		return true
	}
	return false
}

func (b *builder) getTreeData(attrs bool) {
	m := b.method("getTreeData", fragment.Public, false,
		"Overrides this method to add support to traits and/or attributes.",
		"@return array Returns a multilevel associative array with all data.",
	)
	m.AddParam(fragment.NewParam("nb_language", "int|CNabuDataObject", "Instance or Id of the language to be used.").
		WithDefault(nil))
	m.AddParam(fragment.NewParam("dataonly", "bool", "Render only field values and omit class control flags.").
		WithDefault(false))
	m.Add("$trdata = parent::getTreeData($nb_language, $dataonly);", "")
	if attrs {
		m.Add("$trdata['attributes'] = $this->getAttributes();")
	}
	if b.res.Translated {
		m.Add("$trdata = $this->appendTranslatedTreeData($trdata, $nb_language, $dataonly);")
	}
	m.Add("", "return $trdata;")
}
