// Package memory provides in-memory implementations of the ports, used by
// tests and by hosts that assemble phenotype definitions in code.
package memory

import (
	"sort"

	"github.com/phenogo/phenogo/pkg/domain"
	"github.com/phenogo/phenogo/pkg/ports"
)

// Loader implements ports.SpecLoader over an in-memory map.
type Loader struct {
	specs map[string]domain.PhenotypeSpec
}

var _ ports.SpecLoader = (*Loader)(nil)

// NewLoader registers the given definitions under their Name.
func NewLoader(specs ...domain.PhenotypeSpec) *Loader {
	m := make(map[string]domain.PhenotypeSpec, len(specs))
	for _, s := range specs {
		m[s.Name] = s
	}
	return &Loader{specs: m}
}

// Load retrieves a definition by name.
func (l *Loader) Load(name string) (*domain.PhenotypeSpec, error) {
	spec, ok := l.specs[name]
	if !ok {
		return nil, domain.ErrSpecNotFound
	}
	return &spec, nil
}

// List returns all registered names, sorted for deterministic output.
func (l *Loader) List() ([]string, error) {
	names := make([]string, 0, len(l.specs))
	for name := range l.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// MultiLoader chains loaders; Load asks each in order and List merges the
// names. Hosts use it to layer YAML definitions over the built-in catalog.
type MultiLoader struct {
	loaders []ports.SpecLoader
}

var _ ports.SpecLoader = (*MultiLoader)(nil)

// NewMultiLoader chains the given loaders. Earlier loaders win on Load.
func NewMultiLoader(loaders ...ports.SpecLoader) *MultiLoader {
	return &MultiLoader{loaders: loaders}
}

// Load returns the first definition found under name.
func (m *MultiLoader) Load(name string) (*domain.PhenotypeSpec, error) {
	for _, l := range m.loaders {
		spec, err := l.Load(name)
		if err == nil {
			return spec, nil
		}
	}
	return nil, domain.ErrSpecNotFound
}

// List merges and sorts the names from every chained loader.
func (m *MultiLoader) List() ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, l := range m.loaders {
		got, err := l.List()
		if err != nil {
			return nil, err
		}
		for _, name := range got {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
