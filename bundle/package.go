package bundle

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	sdk "github.com/nabu-3/sdkgen"
)

// Package is the set of sites of one customer, with the languages and roles
// they use, gathered for export. Sites are added only; Export freezes the
// package.
type Package struct {
	Customer *Customer

	mu        sync.Mutex
	frozen    bool
	sites     []*Site
	languages []*Language
	roles     []*Role
	siteIDs   map[string]bool
	langIDs   map[string]bool
	roleIDs   map[string]bool
}

// New returns an empty package of customer.
func New(customer *Customer) *Package {
	return &Package{
		Customer: customer,
		siteIDs:  make(map[string]bool),
		langIDs:  make(map[string]bool),
		roleIDs:  make(map[string]bool),
	}
}

// AddSites resolves refs through repo and adds the sites with their
// languages and roles. Languages and roles shared by several sites are kept
// once, in order of first appearance. It returns the number of objects
// added. The first failing reference stops the call; sites added before it
// stay in the package.
func (p *Package) AddSites(ctx context.Context, repo Repository, refs ...Reference[Site]) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frozen {
		return 0, ErrFrozen
	}
	before := p.count()
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return p.count() - before, err
		}
		site, err := p.resolveSite(ctx, repo, ref)
		if err != nil {
			return p.count() - before, err
		}
		if err := p.addSite(ctx, repo, site); err != nil {
			return p.count() - before, err
		}
	}
	return p.count() - before, nil
}

func (p *Package) resolveSite(ctx context.Context, repo Repository, ref Reference[Site]) (*Site, error) {
	if s, ok := ref.Instance(); ok {
		if !s.OwnedBy(p.Customer) {
			return nil, fmt.Errorf("%w: site %s", ErrNotOwner, ref.ID())
		}
		return s, nil
	}
	s, err := ref.Resolve(func(id string) (*Site, error) {
		return repo.Site(ctx, p.Customer, id)
	})
	switch {
	case sdk.IsNotFound(err):
		return nil, fmt.Errorf("%w: %s", ErrSiteNotFound, ref.ID())
	case err != nil:
		return nil, err
	case !s.OwnedBy(p.Customer):
		return nil, fmt.Errorf("%w: site %s", ErrNotOwner, ref.ID())
	}
	return s, nil
}

func (p *Package) addSite(ctx context.Context, repo Repository, s *Site) error {
	if id := s.RefID(); !p.siteIDs[id] {
		p.siteIDs[id] = true
		p.sites = append(p.sites, s)
	}
	for _, ref := range s.Languages {
		l, err := ref.Resolve(func(id string) (*Language, error) {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("nabu: language id %q: %w", id, err)
			}
			return repo.Language(ctx, n)
		})
		if err != nil {
			return fmt.Errorf("site %s: %w", s.RefID(), err)
		}
		if id := l.RefID(); !p.langIDs[id] {
			p.langIDs[id] = true
			p.languages = append(p.languages, l)
		}
	}
	for _, ref := range s.Roles {
		r, err := ref.Resolve(func(id string) (*Role, error) {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("nabu: role id %q: %w", id, err)
			}
			return repo.Role(ctx, n)
		})
		if err != nil {
			return fmt.Errorf("site %s: %w", s.RefID(), err)
		}
		if id := r.RefID(); !p.roleIDs[id] {
			p.roleIDs[id] = true
			p.roles = append(p.roles, r)
		}
	}
	return nil
}

// Count returns the number of languages, roles and sites in the package.
func (p *Package) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count()
}

func (p *Package) count() int {
	return len(p.languages) + len(p.roles) + len(p.sites)
}

// Sites returns the sites in insertion order.
func (p *Package) Sites() []*Site {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Site(nil), p.sites...)
}

// Languages returns the languages in order of first appearance.
func (p *Package) Languages() []*Language {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Language(nil), p.languages...)
}

// Roles returns the roles in order of first appearance.
func (p *Package) Roles() []*Role {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Role(nil), p.roles...)
}

// Frozen reports whether the package was exported.
func (p *Package) Frozen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frozen
}
