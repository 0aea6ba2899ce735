package gen

import (
	"github.com/nabu-3/sdkgen/compiler/classify"
	"github.com/nabu-3/sdkgen/compiler/fragment"
)

// list builds the CNabuDataObjectList companion of a table class.
func (b *builder) list() {
	item := b.u.Item
	if item.Class == "" {
		item = b.e
	}
	itemClass := stripClassBase(item.Class)
	itemLabel := item.Label
	if itemLabel == "" {
		itemLabel = b.e.Label
	}

	b.use(`\nabu\data\` + dataListClass)
	b.newClass(dataListClass, "Class to manage a list of "+itemLabel+" instances.")
	b.signature("")

	t := b.desc.StorageName()
	key := t + "_key"
	keyed := b.desc.HasField(key)
	if keyed {
		k := fragment.NewConstant("INDEX_KEY", "keys", "string")
		k.AddComment("Index the list using the key field.")
		b.cls.Add(k)
	}

	indexField := classify.LanguageField
	if !b.res.Translation {
		pk := b.desc.PrimaryFieldNames()
		indexField = pk[len(pk)-1]
	}
	ctor := fragment.NewConstructor()
	ctor.AddComment("Instantiates the class.")
	ctor.Add("parent::__construct('" + indexField + "');")
	b.cls.Add(ctor)

	m := b.method("createSecondaryIndexes", fragment.Protected, false, "Creates alternate indexes for this list.")
	if keyed {
		order := "null"
		if b.desc.HasField(t + "_order") {
			order = "'" + t + "_order'"
		}
		m.Add(
			"$this->addIndex(",
			"    new CNabuDataObjectListIndex($this, '"+key+"', "+order+", self::INDEX_KEY)",
			");",
		)
		b.use(`\nabu\data\CNabuDataObjectListIndex`)
	}

	b.use(qualifyClass(stripBase(item.Namespace), itemClass), engineClass)
	m = b.method("acquireItem", fragment.Public, false,
		"Acquires an instance of class "+itemClass+" from the database.",
		"@return mixed Returns the unserialized instance if exists or false if not.",
	)
	m.AddParam(fragment.NewParam("key", "string", "Id or reference field in the instance to acquire."))
	m.AddParam(fragment.NewParam("index", "string", "Secondary index to be used if needed.").WithDefault(false))
	m.Add(
		"$retval = false;",
		"",
		"if ($index === false && CNabuEngine::getEngine()->isMainDBAvailable()) {",
		"    $item = new "+itemClass+"($key);",
		"    if ($item->isFetched()) {",
		"        $retval = $item;",
		"    }",
		"}",
		"",
		"return $retval;",
	)
}
