// Package yamlspec loads phenotype definitions from YAML files, one
// definition per file. It lets hosts ship custom cell cycles without
// recompiling; anything needing Go code (custom rules, hooks, resolvers)
// stays in the catalog or host code.
package yamlspec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/phenogo/phenogo/pkg/domain"
	"github.com/phenogo/phenogo/pkg/ports"
)

// document is the YAML shape of a phenotype definition.
type document struct {
	Name          string             `yaml:"name"`
	Description   string             `yaml:"description"`
	Start         string             `yaml:"start"`
	InitialVolume map[string]float64 `yaml:"initial_volume"`
	Phases        []phaseDoc         `yaml:"phases"`
	Quiescent     *phaseDoc          `yaml:"quiescent"`
}

type phaseDoc struct {
	ID            string         `yaml:"id"`
	Next          string         `yaml:"next"`
	Rule          map[string]any `yaml:"rule"`
	DividesAtExit bool           `yaml:"divides_at_exit"`
	RemovesAtExit bool           `yaml:"removes_at_exit"`
	Volume        []volumeDoc    `yaml:"volume"`
}

type volumeDoc struct {
	Compartment string  `yaml:"compartment"`
	Target      float64 `yaml:"target"`
	Rate        float64 `yaml:"rate"`
}

// Per-kind rule parameter shapes, decoded from the rule map with
// mapstructure so unknown keys are rejected.
type stochasticParams struct {
	Kind   string  `mapstructure:"kind"`
	Lambda float64 `mapstructure:"lambda"`
}

type deterministicParams struct {
	Kind   string  `mapstructure:"kind"`
	Period float64 `mapstructure:"period"`
}

// Loader implements ports.SpecLoader over a directory of .yaml/.yml files.
// Files are parsed lazily on Load, so edits are picked up without restarts.
type Loader struct {
	dir string
}

var _ ports.SpecLoader = (*Loader)(nil)

// NewLoader serves definitions from dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load parses the definition registered under name. The file is located by
// its declared name, not its filename.
func (l *Loader) Load(name string) (*domain.PhenotypeSpec, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	for _, path := range files {
		spec, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		if spec.Name == name {
			return spec, nil
		}
	}
	return nil, domain.ErrSpecNotFound
}

// List returns the declared names of every parseable definition, sorted.
func (l *Loader) List() ([]string, error) {
	files, err := l.files()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(files))
	for _, path := range files {
		spec, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		names = append(names, spec.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *Loader) files() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(l.dir, e.Name()))
		}
	}
	return files, nil
}

// ParseFile reads one definition file.
func ParseFile(path string) (*domain.PhenotypeSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return spec, nil
}

// Parse decodes a YAML definition into a phenotype spec. Structural
// problems (unknown compartments, malformed rules) surface here as
// *domain.ConfigError; link and range validation happens when the spec is
// built into a phenotype.
func Parse(data []byte) (*domain.PhenotypeSpec, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc.Name == "" {
		return nil, &domain.ConfigError{Field: "name", Reason: "definition name is required"}
	}

	spec := &domain.PhenotypeSpec{
		Name:        doc.Name,
		Description: doc.Description,
		Start:       doc.Start,
	}

	for name, value := range doc.InitialVolume {
		c, err := domain.ParseCompartment(name)
		if err != nil {
			return nil, &domain.ConfigError{Phenotype: doc.Name, Field: "initial_volume", Reason: err.Error()}
		}
		spec.InitialVolume = append(spec.InitialVolume, domain.VolumeValue{Compartment: c, Value: value})
	}
	// Map iteration order is random; keep construction deterministic.
	sort.Slice(spec.InitialVolume, func(i, j int) bool {
		return spec.InitialVolume[i].Compartment < spec.InitialVolume[j].Compartment
	})

	for _, pd := range doc.Phases {
		phase, err := buildPhase(doc.Name, pd)
		if err != nil {
			return nil, err
		}
		spec.Phases = append(spec.Phases, *phase)
	}
	if doc.Quiescent != nil {
		phase, err := buildPhase(doc.Name, *doc.Quiescent)
		if err != nil {
			return nil, err
		}
		spec.Quiescent = phase
	}
	return spec, nil
}

func buildPhase(phenotype string, pd phaseDoc) (*domain.PhaseSpec, error) {
	rule, err := buildRule(phenotype, pd)
	if err != nil {
		return nil, err
	}

	phase := &domain.PhaseSpec{
		ID:            pd.ID,
		Next:          pd.Next,
		Rule:          rule,
		DividesAtExit: pd.DividesAtExit,
		RemovesAtExit: pd.RemovesAtExit,
	}
	for _, vd := range pd.Volume {
		c, err := domain.ParseCompartment(vd.Compartment)
		if err != nil {
			return nil, &domain.ConfigError{Phenotype: phenotype, Phase: pd.ID, Field: "volume.compartment", Reason: err.Error()}
		}
		phase.Volume = append(phase.Volume, domain.VolumeParam{Compartment: c, Target: vd.Target, Rate: vd.Rate})
	}
	return phase, nil
}

func buildRule(phenotype string, pd phaseDoc) (domain.Rule, error) {
	if pd.Rule == nil {
		return nil, &domain.ConfigError{Phenotype: phenotype, Phase: pd.ID, Field: "rule", Reason: "a transition rule is required"}
	}
	kind, _ := pd.Rule["kind"].(string)

	switch kind {
	case "stochastic":
		var params stochasticParams
		if err := decodeStrict(pd.Rule, &params); err != nil {
			return nil, &domain.ConfigError{Phenotype: phenotype, Phase: pd.ID, Field: "rule", Reason: err.Error()}
		}
		return domain.Stochastic(params.Lambda), nil
	case "deterministic":
		var params deterministicParams
		if err := decodeStrict(pd.Rule, &params); err != nil {
			return nil, &domain.ConfigError{Phenotype: phenotype, Phase: pd.ID, Field: "rule", Reason: err.Error()}
		}
		return domain.Deterministic(params.Period), nil
	case "custom":
		return nil, &domain.ConfigError{Phenotype: phenotype, Phase: pd.ID, Field: "rule.kind", Reason: "custom rules need a Go predicate and cannot be declared in yaml"}
	case "":
		return nil, &domain.ConfigError{Phenotype: phenotype, Phase: pd.ID, Field: "rule.kind", Reason: "rule kind is required"}
	default:
		return nil, &domain.ConfigError{Phenotype: phenotype, Phase: pd.ID, Field: "rule.kind", Reason: fmt.Sprintf("unknown rule kind %q", kind)}
	}
}

// decodeStrict maps the rule parameters onto the per-kind struct, rejecting
// keys the kind does not define.
func decodeStrict(input map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
