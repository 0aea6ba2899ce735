package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	sdk "github.com/nabu-3/sdkgen"
)

// Import reads the package archive in r, resolves its customer by hash and
// stores the content through repo.Save.
func Import(ctx context.Context, r io.ReaderAt, size int64, repo Repository) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("nabu: open archive: %w", err)
	}
	f, err := zr.Open(EntryName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPackage, EntryName)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("nabu: read %s: %w", EntryName, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyPackage
	}
	return Parse(ctx, data, repo)
}

// ImportFile imports the package archive at path.
func ImportFile(ctx context.Context, path string, repo Repository) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nabu: open %s: %w", path, err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("nabu: stat %s: %w", path, err)
	}
	return Import(ctx, f, st.Size(), repo)
}

// Parse decodes a package document and stores it through repo.Save.
func Parse(ctx context.Context, data []byte, repo Repository) (*Package, error) {
	var doc xmlPackage
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPackage, err)
	}
	if !ValidHash(doc.Customer) {
		return nil, fmt.Errorf("%w: customer hash %q", ErrInvalidPackage, doc.Customer)
	}
	customer, err := repo.CustomerByHash(ctx, doc.Customer)
	if err != nil {
		if sdk.IsNotFound(err) {
			return nil, fmt.Errorf("nabu: package customer %s: %w", doc.Customer, err)
		}
		return nil, err
	}

	p := New(customer)
	languages := make(map[string]*Language)
	roles := make(map[string]*Role)
	if doc.Languages != nil {
		for _, x := range doc.Languages.Items {
			if !ValidHash(x.GUID) {
				return nil, fmt.Errorf("%w: language hash %q", ErrInvalidPackage, x.GUID)
			}
			l := &Language{Hash: x.GUID, ISO639_1: x.ISO639_1, Name: x.Name}
			languages[x.GUID] = l
			p.languages = append(p.languages, l)
		}
	}
	if doc.Roles != nil {
		for _, x := range doc.Roles.Items {
			if !ValidHash(x.GUID) {
				return nil, fmt.Errorf("%w: role hash %q", ErrInvalidPackage, x.GUID)
			}
			r := &Role{CustomerID: customer.ID, Hash: x.GUID, Key: x.Key}
			roles[x.GUID] = r
			p.roles = append(p.roles, r)
		}
	}
	if doc.Sites != nil {
		for _, x := range doc.Sites.Items {
			if !ValidHash(x.GUID) {
				return nil, fmt.Errorf("%w: site hash %q", ErrInvalidPackage, x.GUID)
			}
			s := &Site{CustomerID: customer.ID, Hash: x.GUID, Key: x.Key}
			for _, ref := range x.Languages {
				l, ok := languages[ref.GUID]
				if !ok {
					return nil, fmt.Errorf("%w: site %s uses unknown language %s", ErrInvalidPackage, x.GUID, ref.GUID)
				}
				s.Languages = append(s.Languages, ByInstance(l))
			}
			for _, ref := range x.Roles {
				r, ok := roles[ref.GUID]
				if !ok {
					return nil, fmt.Errorf("%w: site %s uses unknown role %s", ErrInvalidPackage, x.GUID, ref.GUID)
				}
				s.Roles = append(s.Roles, ByInstance(r))
			}
			p.sites = append(p.sites, s)
		}
	}
	if err := repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("nabu: save package: %w", err)
	}
	return p, nil
}
