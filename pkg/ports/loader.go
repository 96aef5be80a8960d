package ports

import "github.com/phenogo/phenogo/pkg/domain"

// SpecLoader defines how hosts retrieve phenotype definitions. This keeps
// the source of definitions (built-in catalog, YAML directory, memory)
// decoupled from the engine.
type SpecLoader interface {
	// Load returns the definition registered under name, or
	// domain.ErrSpecNotFound.
	Load(name string) (*domain.PhenotypeSpec, error)

	// List returns the names of all available definitions, sorted.
	List() ([]string, error)
}
