package bundle

import (
	"strconv"

	"github.com/google/uuid"
)

// Customer owns sites and roles.
type Customer struct {
	ID   int64  `yaml:"id"`
	Hash string `yaml:"hash,omitempty"`
	Key  string `yaml:"key,omitempty"`
}

// RefID implements Identified.
func (c *Customer) RefID() string { return strconv.FormatInt(c.ID, 10) }

// GrantHash returns the hash of c, assigning a new one when empty.
func (c *Customer) GrantHash() string { return grantHash(&c.Hash) }

// Language is a language enabled in one or more sites.
type Language struct {
	ID       int64  `yaml:"id"`
	Hash     string `yaml:"hash,omitempty"`
	ISO639_1 string `yaml:"iso639_1,omitempty"`
	Name     string `yaml:"name,omitempty"`
}

// RefID implements Identified.
func (l *Language) RefID() string { return strconv.FormatInt(l.ID, 10) }

// GrantHash returns the hash of l, assigning a new one when empty.
func (l *Language) GrantHash() string { return grantHash(&l.Hash) }

// Role is a security role of a customer.
type Role struct {
	ID         int64  `yaml:"id"`
	CustomerID int64  `yaml:"customer_id"`
	Hash       string `yaml:"hash,omitempty"`
	Key        string `yaml:"key,omitempty"`
}

// RefID implements Identified.
func (r *Role) RefID() string { return strconv.FormatInt(r.ID, 10) }

// GrantHash returns the hash of r, assigning a new one when empty.
func (r *Role) GrantHash() string { return grantHash(&r.Hash) }

// Site is a web site of a customer.
type Site struct {
	ID         int64                 `yaml:"id"`
	CustomerID int64                 `yaml:"customer_id"`
	Hash       string                `yaml:"hash,omitempty"`
	Key        string                `yaml:"key,omitempty"`
	Languages  []Reference[Language] `yaml:"languages,omitempty"`
	Roles      []Reference[Role]     `yaml:"roles,omitempty"`
}

// RefID implements Identified.
func (s *Site) RefID() string { return strconv.FormatInt(s.ID, 10) }

// GrantHash returns the hash of s, assigning a new one when empty.
func (s *Site) GrantHash() string { return grantHash(&s.Hash) }

// OwnedBy reports whether s belongs to c.
func (s *Site) OwnedBy(c *Customer) bool {
	return c != nil && s.CustomerID == c.ID
}

func grantHash(h *string) string {
	if *h == "" {
		*h = uuid.NewString()
	}
	return *h
}

// ValidHash reports whether h is a well formed GUID.
func ValidHash(h string) bool {
	_, err := uuid.Parse(h)
	return err == nil
}
