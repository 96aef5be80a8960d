package domain

import (
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run ID cannot be found in a store.
var ErrRunNotFound = errors.New("run not found")

// ErrSpecNotFound is returned when a loader has no phenotype under the
// requested name.
var ErrSpecNotFound = errors.New("phenotype definition not found")

// ConfigError reports an invalid phenotype definition. Construction fails
// fast with one of these; a misconfigured phenotype is never steppable.
type ConfigError struct {
	Phenotype string
	Phase     string
	Field     string
	Reason    string
}

func (e *ConfigError) Error() string {
	if e.Phase == "" {
		return fmt.Sprintf("phenotype %q: %s: %s", e.Phenotype, e.Field, e.Reason)
	}
	return fmt.Sprintf("phenotype %q: phase %q: %s: %s", e.Phenotype, e.Phase, e.Field, e.Reason)
}
