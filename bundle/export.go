package bundle

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nabu-3/sdkgen/compiler/fragment"
	"github.com/nabu-3/sdkgen/compiler/render"
)

// Package file layout.
const (
	// Extension is the file extension of package files.
	Extension = ".nak"
	// DefaultFileName is used when no export file is given.
	DefaultFileName = "nabu-3-dump" + Extension
	// EntryName is the archive entry holding the package document.
	EntryName = "data/package.xml"
)

type xmlPackage struct {
	XMLName   xml.Name      `xml:"nabuPackage"`
	Customer  string        `xml:"customer,attr"`
	Languages *xmlLanguages `xml:"languages,omitempty"`
	Roles     *xmlRoles     `xml:"roles,omitempty"`
	Sites     *xmlSites     `xml:"sites,omitempty"`
}

type xmlLanguages struct {
	Items []xmlLanguage `xml:"language"`
}

type xmlLanguage struct {
	GUID     string `xml:"GUID,attr"`
	ISO639_1 string `xml:"iso639_1,attr,omitempty"`
	Name     string `xml:"name,omitempty"`
}

type xmlRoles struct {
	Items []xmlRole `xml:"role"`
}

type xmlRole struct {
	GUID string `xml:"GUID,attr"`
	Key  string `xml:"key,attr,omitempty"`
}

type xmlSites struct {
	Items []xmlSite `xml:"site"`
}

type xmlSite struct {
	GUID      string   `xml:"GUID,attr"`
	Key       string   `xml:"key,attr,omitempty"`
	Languages []xmlRef `xml:"languages>language"`
	Roles     []xmlRef `xml:"roles>role"`
}

type xmlRef struct {
	GUID string `xml:"GUID,attr"`
}

// document builds the package document, granting a hash to every object
// that lacks one.
func (p *Package) document() (*xmlPackage, error) {
	doc := &xmlPackage{Customer: p.Customer.GrantHash()}
	if len(p.languages) > 0 {
		doc.Languages = &xmlLanguages{}
		for _, l := range p.languages {
			doc.Languages.Items = append(doc.Languages.Items, xmlLanguage{
				GUID:     l.GrantHash(),
				ISO639_1: l.ISO639_1,
				Name:     l.Name,
			})
		}
	}
	if len(p.roles) > 0 {
		doc.Roles = &xmlRoles{}
		for _, r := range p.roles {
			doc.Roles.Items = append(doc.Roles.Items, xmlRole{GUID: r.GrantHash(), Key: r.Key})
		}
	}
	if len(p.sites) > 0 {
		doc.Sites = &xmlSites{}
		for _, s := range p.sites {
			x := xmlSite{GUID: s.GrantHash(), Key: s.Key}
			for _, ref := range s.Languages {
				l, ok := p.language(ref)
				if !ok {
					return nil, fmt.Errorf("%w: site %s language %s not in package", ErrInvalidPackage, s.RefID(), ref.ID())
				}
				x.Languages = append(x.Languages, xmlRef{GUID: l.GrantHash()})
			}
			for _, ref := range s.Roles {
				r, ok := p.role(ref)
				if !ok {
					return nil, fmt.Errorf("%w: site %s role %s not in package", ErrInvalidPackage, s.RefID(), ref.ID())
				}
				x.Roles = append(x.Roles, xmlRef{GUID: r.GrantHash()})
			}
			doc.Sites.Items = append(doc.Sites.Items, x)
		}
	}
	return doc, nil
}

func (p *Package) language(ref Reference[Language]) (*Language, bool) {
	if l, ok := ref.Instance(); ok {
		return l, true
	}
	for _, l := range p.languages {
		if l.RefID() == ref.ID() {
			return l, true
		}
	}
	return nil, false
}

func (p *Package) role(ref Reference[Role]) (*Role, bool) {
	if r, ok := ref.Instance(); ok {
		return r, true
	}
	for _, r := range p.roles {
		if r.RefID() == ref.ID() {
			return r, true
		}
	}
	return nil, false
}

// Export writes the package archive to w and freezes the package. An empty
// package produces an archive without entries.
func (p *Package) Export(w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Customer == nil {
		return fmt.Errorf("%w: package has no customer", ErrInvalidPackage)
	}

	zw := zip.NewWriter(w)
	if p.count() > 0 {
		doc, err := p.document()
		if err != nil {
			return err
		}
		data, err := render.XML{}.Render(&fragment.Data{Value: doc})
		if err != nil {
			return err
		}
		f, err := zw.Create(EntryName)
		if err != nil {
			return fmt.Errorf("nabu: create %s: %w", EntryName, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("nabu: write %s: %w", EntryName, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("nabu: close archive: %w", err)
	}
	p.frozen = true
	return nil
}

// ExportFile writes the package archive to path, or to DefaultFileName when
// path is empty. It returns the written path.
func (p *Package) ExportFile(path string) (string, error) {
	if path == "" {
		path = DefaultFileName
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("nabu: create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("nabu: create %s: %w", path, err)
	}
	if err := p.Export(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("nabu: close %s: %w", path, err)
	}
	return path, nil
}
