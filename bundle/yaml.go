package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// store is the YAML layout of a YAMLRepository file.
type store struct {
	Customers []*Customer `yaml:"customers,omitempty"`
	Languages []*Language `yaml:"languages,omitempty"`
	Roles     []*Role     `yaml:"roles,omitempty"`
	Sites     []*Site     `yaml:"sites,omitempty"`
}

// YAMLRepository is a MemoryRepository persisted to a YAML file after each
// Save.
type YAMLRepository struct {
	*MemoryRepository
	path string
}

// OpenYAML loads the repository stored at path. A missing file yields an
// empty repository.
func OpenYAML(path string) (*YAMLRepository, error) {
	r := &YAMLRepository{MemoryRepository: NewMemoryRepository(), path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("nabu: read repository %s: %w", path, err)
	}
	var s store
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("nabu: parse repository %s: %w", path, err)
	}
	for _, c := range s.Customers {
		r.AddCustomer(c)
	}
	for _, l := range s.Languages {
		r.AddLanguage(l)
	}
	for _, role := range s.Roles {
		r.AddRole(role)
	}
	for _, site := range s.Sites {
		r.AddSite(site)
	}
	return r, nil
}

// Path returns the file backing the repository.
func (r *YAMLRepository) Path() string {
	return r.path
}

// Save stores the package in memory and writes the repository file.
func (r *YAMLRepository) Save(ctx context.Context, p *Package) error {
	if err := r.MemoryRepository.Save(ctx, p); err != nil {
		return err
	}
	return r.Flush()
}

// Flush writes the repository file.
func (r *YAMLRepository) Flush() error {
	data, err := yaml.Marshal(r.snapshot())
	if err != nil {
		return fmt.Errorf("nabu: encode repository: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("nabu: write repository %s: %w", r.path, err)
	}
	return nil
}
