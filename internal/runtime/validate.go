package runtime

import (
	"fmt"
	"math"

	"github.com/phenogo/phenogo/pkg/domain"
)

// Validate checks a phenotype definition for the errors that must never
// surface mid-simulation: broken successor links, an unregistered starting
// phase, and invalid rule or volume parameters. It returns the first
// problem found as a *domain.ConfigError naming the phase and field.
func Validate(spec domain.PhenotypeSpec) error {
	if len(spec.Phases) == 0 {
		return &domain.ConfigError{Phenotype: spec.Name, Field: "phases", Reason: "at least one phase is required"}
	}

	ids := make(map[string]bool, len(spec.Phases)+1)
	for _, p := range spec.Phases {
		if p.ID == "" {
			return &domain.ConfigError{Phenotype: spec.Name, Field: "id", Reason: "phase ID must not be empty"}
		}
		if ids[p.ID] {
			return &domain.ConfigError{Phenotype: spec.Name, Phase: p.ID, Field: "id", Reason: "duplicate phase ID"}
		}
		ids[p.ID] = true
	}
	if spec.Quiescent != nil {
		q := spec.Quiescent
		if q.ID == "" {
			return &domain.ConfigError{Phenotype: spec.Name, Field: "quiescent", Reason: "phase ID must not be empty"}
		}
		if ids[q.ID] {
			return &domain.ConfigError{Phenotype: spec.Name, Phase: q.ID, Field: "quiescent", Reason: "ID collides with a registered phase"}
		}
		ids[q.ID] = true
	}

	if spec.Start != "" && !ids[spec.Start] {
		return &domain.ConfigError{Phenotype: spec.Name, Field: "start", Reason: fmt.Sprintf("starting phase %q is not registered", spec.Start)}
	}

	for _, iv := range spec.InitialVolume {
		if iv.Compartment < 0 || iv.Compartment >= domain.Compartment(len(domain.Compartments())) {
			return &domain.ConfigError{Phenotype: spec.Name, Field: "initial_volume.compartment", Reason: fmt.Sprintf("unknown compartment %d", int(iv.Compartment))}
		}
		if math.IsNaN(iv.Value) || math.IsInf(iv.Value, 0) || iv.Value < 0 {
			return &domain.ConfigError{Phenotype: spec.Name, Field: fmt.Sprintf("initial_volume.%s", iv.Compartment), Reason: fmt.Sprintf("value must be finite and >= 0, got %v", iv.Value)}
		}
	}

	for _, p := range spec.Phases {
		if err := validatePhase(spec.Name, p, ids); err != nil {
			return err
		}
	}
	if spec.Quiescent != nil {
		if err := validatePhase(spec.Name, *spec.Quiescent, ids); err != nil {
			return err
		}
	}
	return nil
}

func validatePhase(phenotype string, p domain.PhaseSpec, ids map[string]bool) error {
	if p.Rule == nil {
		return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: "rule", Reason: "a transition rule is required"}
	}
	switch r := p.Rule.(type) {
	case domain.StochasticRule:
		if math.IsNaN(r.Lambda) || r.Lambda < 0 {
			return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: "rule.lambda", Reason: fmt.Sprintf("rate must be >= 0, got %v", r.Lambda)}
		}
	case domain.DeterministicRule:
		if math.IsNaN(r.Period) || r.Period <= 0 {
			return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: "rule.period", Reason: fmt.Sprintf("period must be > 0, got %v", r.Period)}
		}
	case domain.CustomRule:
		if r.Check == nil {
			return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: "rule.check", Reason: "custom rule predicate must not be nil"}
		}
	}

	// Successor links are static topology; resolver funcs are checked for
	// membership when they fire, since their output cannot be enumerated
	// here.
	if p.NextFunc == nil {
		if p.Next == "" {
			return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: "next", Reason: "successor phase is required"}
		}
		if !ids[p.Next] {
			return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: "next", Reason: fmt.Sprintf("successor %q is not a registered phase", p.Next)}
		}
	}

	for _, vp := range p.Volume {
		if vp.Compartment < 0 || vp.Compartment >= domain.Compartment(len(domain.Compartments())) {
			return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: "volume.compartment", Reason: fmt.Sprintf("unknown compartment %d", int(vp.Compartment))}
		}
		if math.IsNaN(vp.Target) || math.IsInf(vp.Target, 0) || vp.Target < 0 {
			return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: fmt.Sprintf("volume.%s.target", vp.Compartment), Reason: fmt.Sprintf("target must be finite and >= 0, got %v", vp.Target)}
		}
		if math.IsNaN(vp.Rate) || math.IsInf(vp.Rate, 0) {
			return &domain.ConfigError{Phenotype: phenotype, Phase: p.ID, Field: fmt.Sprintf("volume.%s.rate", vp.Compartment), Reason: fmt.Sprintf("rate must be finite, got %v", vp.Rate)}
		}
	}
	return nil
}
