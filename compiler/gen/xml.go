package gen

import (
	"regexp"

	"github.com/nabu-3/sdkgen/compiler/fragment"
)

const (
	xmlNamespace     = `\nabu\xml`
	xmlLangNamespace = `\nabu\xml\lang`
	simpleXMLElement = "SimpleXMLElement"
)

var listSuffix = regexp.MustCompile(`List(Base)*$`)

// xmlHeader opens an adapter class extending the given base and adds the
// standard comments.
func (b *builder) xmlHeader(extendsNs, extends string) {
	b.use(qualifyClass(extendsNs, extends))
	b.newClass(extends, "Class to manage the "+b.e.Label+" as a XML branch.")
	b.signature(b.u.XML.Since)
}

func (b *builder) xmlConstructor(dataClass, dataNs string, optional bool) {
	t := b.desc.StorageName()
	m := fragment.NewConstructor()
	m.AddComment("Instantiates the class. Receives as parameter a qualified " + dataClass + " class.")
	p := fragment.NewParam(t, dataClass, b.e.Label+" instance to be managed as XML").WithType(dataClass)
	if optional {
		p = p.WithDefault(nil)
	}
	m.AddParam(p)
	m.Add("parent::__construct($" + t + ");")
	b.use(qualifyClass(dataNs, dataClass))
	b.cls.Add(m)
}

func (b *builder) xmlTagName() {
	m := b.method("getTagName", fragment.Protected, true,
		"Static method to get the Tag name of this XML Element.",
		"@return string Return the Tag name.",
	)
	m.ReturnType = "string"
	m.Add("return '" + b.u.XML.Element + "';")
}

// xmlLocate emits locateDataObject, resolving the data object by its GUID
// attribute.
func (b *builder) xmlLocate(dataClass, dataNs string) {
	m := b.method("locateDataObject", fragment.Protected, false,
		"Locate a Data Object.",
		"@return bool Returns true if the Data Object found or false if not.",
	)
	m.ReturnType = "bool"
	m.AddParam(fragment.NewParam("element", simpleXMLElement, "Element to locate the Data Object.").
		WithType(simpleXMLElement))
	m.AddParam(fragment.NewParam("data_parent", "CNabuDataObject", "Data Parent object.").
		WithType("CNabuDataObject").WithDefault(nil))
	m.Add(
		"$retval = false;",
		"",
		"if (isset($element['GUID'])) {",
		"    $guid = (string)$element['GUID'];",
		"    if (!($this->nb_data_object instanceof "+dataClass+")) {",
		"        $this->nb_data_object = "+dataClass+"::findByHash($guid);",
		"    }",
		"",
		"    if (!($this->nb_data_object instanceof "+dataClass+")) {",
		"        $this->nb_data_object = new "+dataClass+"();",
		"        $this->nb_data_object->setHash($guid);",
		"    }",
		"    $retval = true;",
		"}",
		"",
		"return $retval;",
	)
	b.use(dataObjectClass, qualifyClass(dataNs, dataClass), `\`+simpleXMLElement)
}

func elementParam(comment string) fragment.Param {
	return fragment.NewParam("element", simpleXMLElement, comment).WithType(simpleXMLElement)
}

func mappingLines(pad string, m Mappings) []string {
	lines := make([]string, len(m))
	for i, e := range m {
		lines[i] = pad + "'" + e.Field + "' => '" + e.Name + "'"
	}
	return appendSep(lines, ",")
}

// xml builds the XML adapter of a table class.
func (b *builder) xml() {
	spec := b.u.XML
	switch {
	case b.res.Translated:
		b.xmlHeader(xmlLangNamespace, "CNabuXMLTranslated")
	case b.res.Translation:
		b.xmlHeader(xmlLangNamespace, "CNabuXMLTranslation")
	default:
		b.xmlHeader(xmlNamespace, "CNabuXMLDataObject")
	}
	b.xmlConstructor(spec.DataClass, spec.DataNamespace, true)
	if !b.res.Translation {
		b.xmlTagName()
	}
	if b.res.Translated {
		list := b.e.Class + "LanguageList"
		if s, ok := cutBase(b.e.Class); ok {
			list = s + "LanguageList"
		}
		m := b.method("createXMLTranslationsObject", fragment.Protected, false,
			"Creates the XML instance to manage the translations list of this Element.",
			"@return CNabuXMLTranslationsList Returns the created instance.",
		)
		m.ReturnType = "CNabuXMLTranslationsList"
		m.Add("return new " + list + "($this->nb_data_object->getTranslations());")
		b.use(qualifyClass(stripBase(b.e.Namespace), list), qualifyClass(xmlLangNamespace, "CNabuXMLTranslationsList"))
	}
	b.xmlLocate(spec.DataClass, spec.DataNamespace)

	b.use(`\` + simpleXMLElement)
	get := b.method("getAttributes", fragment.Protected, false,
		"Get default attributes of "+b.e.Label+" from XML Element.")
	get.AddParam(elementParam("XML Element to get attributes"))
	if len(spec.Attributes) > 0 {
		get.Add("$this->getAttributesFromList($element, array(")
		get.Add(mappingLines("    ", spec.Attributes)...)
		get.Add("), false);")
	}

	set := b.method("setAttributes", fragment.Protected, false,
		"Set default attributes of "+b.e.Label+" in XML Element.")
	set.AddParam(elementParam("XML Element to set attributes"))
	if b.res.Translation {
		set.Add(
			"$nb_parent = $this->nb_data_object->getTranslatedObject();",
			"if ($nb_parent !== null) {",
			"    $nb_language = $nb_parent->getLanguage($this->nb_data_object->getLanguageId());",
			"    $element->addAttribute('lang', $nb_language->grantHash(true));",
		)
		if len(spec.Attributes) > 0 {
			set.Add("    $this->putAttributesFromList($element, array(")
			set.Add(mappingLines("        ", spec.Attributes)...)
			set.Add("    ), false);")
		}
		set.Add("}")
	} else {
		if b.res.Hashed {
			set.Add("$element->addAttribute('GUID', $this->nb_data_object->grantHash(true));")
		}
		if len(spec.Attributes) > 0 {
			set.Add("$this->putAttributesFromList($element, array(")
			set.Add(mappingLines("    ", spec.Attributes)...)
			set.Add("), false);")
		}
	}

	b.xmlChilds("getChilds", "Get default childs of "+b.e.Label+" from XML Element as Element > CDATA structure.",
		"XML Element to get childs", "getChildsAsCDATAFromList")
	b.xmlChilds("setChilds", "Set default childs of "+b.e.Label+" XML Element as Element > CDATA structure.",
		"XML Element to set childs", "putChildsAsCDATAFromList")
}

func (b *builder) xmlChilds(name, comment, param, helper string) {
	m := b.method(name, fragment.Protected, false, comment)
	m.AddParam(elementParam(param))
	if b.res.Translated {
		m.Add("parent::" + name + "($element);")
	}
	if childs := b.u.XML.Childs; len(childs) > 0 {
		if b.res.Translated {
			m.Add("")
		}
		m.Add("$this->" + helper + "($element, array(")
		m.Add(mappingLines("    ", childs)...)
		m.Add("), false);")
	}
}

// xmlList builds the XML adapter of a list class.
func (b *builder) xmlList() {
	spec := b.u.XML
	if b.res.Translation {
		b.xmlHeader(xmlLangNamespace, "CNabuXMLTranslationsList")
	} else {
		b.xmlHeader(xmlNamespace, "CNabuXMLDataObjectList")
	}
	dataList := spec.DataClass + "List"
	b.xmlConstructor(dataList, spec.DataNamespace, false)
	if !b.res.Translation {
		b.xmlTagName()
	}

	child := listSuffix.ReplaceAllString(b.e.Class, "")
	childNs := stripBase(b.e.Namespace)
	if b.res.Translation {
		m := b.method("createXMLTranslationsObject", fragment.Protected, false,
			"Create the XML Translation object filled with their translations.",
			"@return CNabuXMLTranslation Returns a XML instance with the translation instance.",
		)
		m.ReturnType = "CNabuXMLTranslation"
		m.AddParam(fragment.NewParam("nb_translation", "INabuTranslation", "Translation data instance.").
			WithType("INabuTranslation"))
		m.Add("return new " + child + "($nb_translation);")
		b.use(qualifyClass(xmlLangNamespace, "CNabuXMLTranslation"), langInterfaces+"INabuTranslation")
	} else {
		m := b.method("createXMLChildObject", fragment.Protected, false,
			"Create the XML Child object filled with their Data Object.",
			"@return CNabuXMLDataObject Returns a XML instance with the child data object instance.",
		)
		m.ReturnType = "CNabuXMLDataObject"
		m.AddParam(fragment.NewParam("nb_child", "CNabuDataObject", "Child data object.").
			WithType("CNabuDataObject").WithDefault(nil))
		m.Add("return new " + child + "($nb_child);")
		b.use(qualifyClass(xmlNamespace, "CNabuXMLDataObject"), dataObjectClass)
	}
	b.use(qualifyClass(childNs, child))
	b.xmlLocate(spec.DataClass, spec.DataNamespace)
}

func cutBase(class string) (string, bool) {
	s := stripClassBase(class)
	return s, s != class
}
