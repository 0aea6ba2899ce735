package bundle

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"

	sdk "github.com/nabu-3/sdkgen"
)

// Repository is the data layer packages are built from and imported into.
// Lookups of missing entities return an error satisfying sdk.IsNotFound.
type Repository interface {
	Customer(ctx context.Context, id int64) (*Customer, error)
	CustomerByHash(ctx context.Context, hash string) (*Customer, error)
	// Site returns the site of customer identified by its numeric id or
	// its key.
	Site(ctx context.Context, customer *Customer, idOrKey string) (*Site, error)
	Language(ctx context.Context, id int64) (*Language, error)
	Role(ctx context.Context, id int64) (*Role, error)
	// Save stores the content of an imported package.
	Save(ctx context.Context, p *Package) error
}

// MemoryRepository is a Repository held in memory. It is safe for
// concurrent use.
type MemoryRepository struct {
	mu        sync.RWMutex
	customers map[int64]*Customer
	sites     map[int64]*Site
	languages map[int64]*Language
	roles     map[int64]*Role
	seq       int64
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		customers: make(map[int64]*Customer),
		sites:     make(map[int64]*Site),
		languages: make(map[int64]*Language),
		roles:     make(map[int64]*Role),
	}
}

// AddCustomer stores c.
func (r *MemoryRepository) AddCustomer(c *Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[r.assign(&c.ID)] = c
}

// AddSite stores s.
func (r *MemoryRepository) AddSite(s *Site) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sites[r.assign(&s.ID)] = s
}

// AddLanguage stores l.
func (r *MemoryRepository) AddLanguage(l *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.languages[r.assign(&l.ID)] = l
}

// AddRole stores role.
func (r *MemoryRepository) AddRole(role *Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[r.assign(&role.ID)] = role
}

// assign gives *id a fresh value when zero and keeps the sequence ahead of
// every stored id.
func (r *MemoryRepository) assign(id *int64) int64 {
	if *id == 0 {
		r.seq++
		*id = r.seq
	} else if *id > r.seq {
		r.seq = *id
	}
	return *id
}

// Customer implements Repository.
func (r *MemoryRepository) Customer(_ context.Context, id int64) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.customers[id]; ok {
		return c, nil
	}
	return nil, sdk.NewNotFoundErrorWithID("customer", id)
}

// CustomerByHash implements Repository.
func (r *MemoryRepository) CustomerByHash(_ context.Context, hash string) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if hash != "" && c.Hash == hash {
			return c, nil
		}
	}
	return nil, sdk.NewNotFoundErrorWithID("customer", hash)
}

// Site implements Repository.
func (r *MemoryRepository) Site(_ context.Context, customer *Customer, idOrKey string) (*Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, err := strconv.ParseInt(idOrKey, 10, 64); err == nil {
		if s, ok := r.sites[id]; ok && s.OwnedBy(customer) {
			return s, nil
		}
	}
	for _, s := range r.sites {
		if s.Key != "" && s.Key == idOrKey && s.OwnedBy(customer) {
			return s, nil
		}
	}
	return nil, sdk.NewNotFoundErrorWithID("site", idOrKey)
}

// Language implements Repository.
func (r *MemoryRepository) Language(_ context.Context, id int64) (*Language, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.languages[id]; ok {
		return l, nil
	}
	return nil, sdk.NewNotFoundErrorWithID("language", id)
}

// Role implements Repository.
func (r *MemoryRepository) Role(_ context.Context, id int64) (*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if role, ok := r.roles[id]; ok {
		return role, nil
	}
	return nil, sdk.NewNotFoundErrorWithID("role", id)
}

// Save implements Repository. Entities are matched by hash: known ones are
// updated in place, unknown ones get a new id.
func (r *MemoryRepository) Save(ctx context.Context, p *Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range p.Languages() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cur := findByHash(r.languages, l.Hash, func(v *Language) string { return v.Hash }); cur != nil {
			l.ID = cur.ID
		} else {
			l.ID = 0
		}
		r.languages[r.assign(&l.ID)] = l
	}
	for _, role := range p.Roles() {
		if cur := findByHash(r.roles, role.Hash, func(v *Role) string { return v.Hash }); cur != nil {
			role.ID = cur.ID
		} else {
			role.ID = 0
		}
		role.CustomerID = p.Customer.ID
		r.roles[r.assign(&role.ID)] = role
	}
	for _, s := range p.Sites() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cur := findByHash(r.sites, s.Hash, func(v *Site) string { return v.Hash }); cur != nil {
			s.ID = cur.ID
		} else {
			s.ID = 0
		}
		s.CustomerID = p.Customer.ID
		r.sites[r.assign(&s.ID)] = s
	}
	return nil
}

func findByHash[T any](m map[int64]*T, hash string, key func(*T) string) *T {
	if hash == "" {
		return nil
	}
	for _, v := range m {
		if key(v) == hash {
			return v
		}
	}
	return nil
}

// snapshot returns the stored entities ordered by id.
func (r *MemoryRepository) snapshot() store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return store{
		Customers: sortedValues(r.customers, func(c *Customer) int64 { return c.ID }),
		Languages: sortedValues(r.languages, func(l *Language) int64 { return l.ID }),
		Roles:     sortedValues(r.roles, func(v *Role) int64 { return v.ID }),
		Sites:     sortedValues(r.sites, func(s *Site) int64 { return s.ID }),
	}
}

func sortedValues[T any](m map[int64]*T, id func(*T) int64) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *T) int { return cmp.Compare(id(a), id(b)) })
	return out
}
