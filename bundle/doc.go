// Package bundle exports the sites of a customer, with the languages and
// roles they use, to a nabu-3 package file and imports them back.
//
// A package file is a ZIP archive holding the entry data/package.xml:
//
//	<nabuPackage customer="GUID">
//	  <languages>...</languages>
//	  <roles>...</roles>
//	  <sites>...</sites>
//	</nabuPackage>
//
// Persistence is delegated to a Repository. Export and import run
// sequentially and an import that fails halfway leaves whatever the
// repository already stored.
package bundle
