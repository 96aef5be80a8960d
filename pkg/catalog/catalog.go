// Package catalog ships ready-made phenotype definitions: simple live cycle,
// Ki67 cycles, flow-cytometry cell cycle, apoptosis, and necrosis. Durations
// and rates follow the published PhysiCell reference parameterizations; time
// is in minutes, volume in cubic micrometers.
//
// Each constructor returns a fresh spec, so callers may customize phases
// before building a phenotype from it.
package catalog

import (
	"sort"

	"github.com/phenogo/phenogo/pkg/domain"
	"github.com/phenogo/phenogo/pkg/ports"
)

// Reference cell geometry: total volume 2494, fluid fraction 0.75, nuclear
// volume 540.
const (
	refCytoplasmSolid = 488.5
	refCytoplasmFluid = 1465.5
	refNuclearSolid   = 135.0
	refNuclearFluid   = 405.0
)

var constructors = map[string]func() domain.PhenotypeSpec{
	"simple-live":          SimpleLive,
	"ki67-basic":           Ki67Basic,
	"ki67-advanced":        Ki67Advanced,
	"flow-cytometry-basic": FlowCytometryBasic,
	"apoptosis-standard":   ApoptosisStandard,
	"necrosis-standard":    NecrosisStandard,
}

// Loader exposes the built-in definitions through the ports.SpecLoader
// interface, so catalog entries and YAML files are interchangeable to hosts.
type Loader struct{}

var _ ports.SpecLoader = Loader{}

// Load implements ports.SpecLoader.
func (Loader) Load(name string) (*domain.PhenotypeSpec, error) {
	build, ok := constructors[name]
	if !ok {
		return nil, domain.ErrSpecNotFound
	}
	spec := build()
	return &spec, nil
}

// List implements ports.SpecLoader.
func (Loader) List() ([]string, error) {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func referenceVolume() []domain.VolumeValue {
	return []domain.VolumeValue{
		{Compartment: domain.CytoplasmSolid, Value: refCytoplasmSolid},
		{Compartment: domain.CytoplasmFluid, Value: refCytoplasmFluid},
		{Compartment: domain.NuclearSolid, Value: refNuclearSolid},
		{Compartment: domain.NuclearFluid, Value: refNuclearFluid},
	}
}

var volumeCompartments = []domain.Compartment{
	domain.CytoplasmSolid,
	domain.CytoplasmFluid,
	domain.NuclearSolid,
	domain.NuclearFluid,
}

// doubleTargetVolume is the standard growth-phase entry hook: every volume
// compartment is retargeted to twice its current value, at a rate that
// reaches the doubled target within period.
func doubleTargetVolume(period float64) domain.Hook {
	return func(s *domain.CellState) error {
		for _, c := range volumeCompartments {
			val := s.Volume.Value(c)
			if err := s.Volume.SetTargetAndRate(c, 2*val, val/period); err != nil {
				return err
			}
		}
		return nil
	}
}

// shrinkToZero retargets every volume compartment to zero. The shrink rate
// is coef times the compartment's value at entry, the initial slope of the
// reference exponential decay.
func shrinkToZero(cytoplasmCoef, nuclearCoef float64) domain.Hook {
	return func(s *domain.CellState) error {
		coefs := map[domain.Compartment]float64{
			domain.CytoplasmSolid: cytoplasmCoef,
			domain.CytoplasmFluid: cytoplasmCoef,
			domain.NuclearSolid:   nuclearCoef,
			domain.NuclearFluid:   nuclearCoef,
		}
		for c, coef := range coefs {
			if err := s.Volume.SetTargetAndRate(c, 0, -coef*s.Volume.Value(c)); err != nil {
				return err
			}
		}
		return nil
	}
}

// SimpleLive is the simplest alive cycle: one phase, stochastic exit with a
// mean duration of 60/0.0432 minutes, division on exit, looping back to
// itself.
func SimpleLive() domain.PhenotypeSpec {
	meanDuration := 60.0 / 0.0432
	return domain.PhenotypeSpec{
		Name: "simple-live",
		Description: "# Simple live cycle\n\n" +
			"A single `alive` phase with a stochastic exit (mean duration " +
			"~23.1 h). The cell divides every time the phase exits and " +
			"re-enters itself.",
		Phases: []domain.PhaseSpec{
			{
				ID:            "alive",
				Next:          "alive",
				Rule:          domain.Stochastic(1 / meanDuration),
				DividesAtExit: true,
				OnEntry:       doubleTargetVolume(meanDuration),
			},
		},
		InitialVolume: referenceVolume(),
	}
}

// Ki67Basic is the two-phase proliferating/quiescent cycle: Ki67- has a
// stochastic mean duration of 4.59 h; Ki67+ lasts a fixed 15.5 h, doubles
// the cell volume, and divides on exit.
func Ki67Basic() domain.PhenotypeSpec {
	negativeDuration := 4.59 * 60
	positiveDuration := 15.5 * 60
	return domain.PhenotypeSpec{
		Name: "ki67-basic",
		Description: "# Ki67 basic cycle\n\n" +
			"Two phases. `ki67-negative` is quiescent with a stochastic " +
			"exit (mean 4.59 h). `ki67-positive` is proliferative: it " +
			"doubles the cell volume over a fixed 15.5 h and divides on exit.",
		Start: "ki67-negative",
		Phases: []domain.PhaseSpec{
			{
				ID:   "ki67-negative",
				Next: "ki67-positive",
				Rule: domain.Stochastic(1 / negativeDuration),
			},
			{
				ID:            "ki67-positive",
				Next:          "ki67-negative",
				Rule:          domain.Deterministic(positiveDuration),
				DividesAtExit: true,
				OnEntry:       doubleTargetVolume(positiveDuration),
			},
		},
		InitialVolume: referenceVolume(),
	}
}

// Ki67Advanced splits the proliferative phase into pre- and post-mitotic
// parts: Ki67- (stochastic, mean 3.62 h) -> Ki67+ pre-mitotic (fixed 13 h,
// divides on exit) -> Ki67+ post-mitotic (fixed 2.5 h rest) -> Ki67-.
func Ki67Advanced() domain.PhenotypeSpec {
	negativeDuration := 3.62 * 60
	preDuration := 13.0 * 60
	postDuration := 2.5 * 60
	return domain.PhenotypeSpec{
		Name: "ki67-advanced",
		Description: "# Ki67 advanced cycle\n\n" +
			"Three phases: quiescent `ki67-negative` (mean 3.62 h), " +
			"`ki67-positive-premitotic` (fixed 13 h, doubles volume, " +
			"divides on exit), and a `ki67-positive-postmitotic` rest " +
			"(fixed 2.5 h) before looping back.",
		Start: "ki67-negative",
		Phases: []domain.PhaseSpec{
			{
				ID:   "ki67-negative",
				Next: "ki67-positive-premitotic",
				Rule: domain.Stochastic(1 / negativeDuration),
			},
			{
				ID:            "ki67-positive-premitotic",
				Next:          "ki67-positive-postmitotic",
				Rule:          domain.Deterministic(preDuration),
				DividesAtExit: true,
				OnEntry:       doubleTargetVolume(preDuration),
			},
			{
				ID:   "ki67-positive-postmitotic",
				Next: "ki67-negative",
				Rule: domain.Deterministic(postDuration),
			},
		},
		InitialVolume: referenceVolume(),
	}
}

// FlowCytometryBasic is the G0/G1 -> S -> G2/M ring with stochastic
// transitions (means 5.15 h, 8 h, 5 h); volume doubles during S and the
// cell divides leaving G2/M.
func FlowCytometryBasic() domain.PhenotypeSpec {
	g0g1Duration := 5.15 * 60
	sDuration := 8.0 * 60
	g2mDuration := 5.0 * 60
	return domain.PhenotypeSpec{
		Name: "flow-cytometry-basic",
		Description: "# Flow cytometry basic cycle\n\n" +
			"The classic `g0g1 -> s -> g2m` ring with stochastic " +
			"transitions (means 5.15 h, 8 h, 5 h). The S phase doubles the " +
			"cell volume; the cell divides when it leaves G2/M.",
		Start: "g0g1",
		Phases: []domain.PhaseSpec{
			{
				ID:   "g0g1",
				Next: "s",
				Rule: domain.Stochastic(1 / g0g1Duration),
			},
			{
				ID:      "s",
				Next:    "g2m",
				Rule:    domain.Stochastic(1 / sDuration),
				OnEntry: doubleTargetVolume(sDuration),
			},
			{
				ID:            "g2m",
				Next:          "g0g1",
				Rule:          domain.Stochastic(1 / g2mDuration),
				DividesAtExit: true,
			},
		},
		InitialVolume: referenceVolume(),
	}
}

// ApoptosisStandard is programmed cell death: a single fixed 8.6 h phase
// during which the cell shrinks toward zero (cytoplasm coefficient 1/60,
// nuclear 0.35/60 per minute), removed from the simulation on exit.
func ApoptosisStandard() domain.PhenotypeSpec {
	duration := 8.6 * 60
	return domain.PhenotypeSpec{
		Name: "apoptosis-standard",
		Description: "# Standard apoptosis\n\n" +
			"One `apoptosis` phase, fixed 8.6 h. All volume targets drop to " +
			"zero on entry and the cell is removed from the simulation when " +
			"the phase ends.",
		Phases: []domain.PhaseSpec{
			{
				ID:            "apoptosis",
				Next:          "apoptosis",
				Rule:          domain.Deterministic(duration),
				RemovesAtExit: true,
				OnEntry:       shrinkToZero(1.0/60, 0.35/60),
			},
		},
		InitialVolume: referenceVolume(),
	}
}

// NecrosisStandard is uncontrolled death in two phases: an osmotic swell
// that ruptures the cell at twice its entry volume, then a slow lysis with
// calcification, removed after 60 days if the host has not cleared it.
func NecrosisStandard() domain.PhenotypeSpec {
	lysedDuration := 60.0 * 60 * 24 // 60 days in minutes
	return domain.PhenotypeSpec{
		Name: "necrosis-standard",
		Description: "# Standard necrosis\n\n" +
			"`necrotic-swelling` inflates the fluid compartments until the " +
			"cell reaches twice its entry volume and ruptures; " +
			"`necrotic-lysed` then shrinks and calcifies the remains, with " +
			"removal after 60 days as a backstop.",
		Start: "necrotic-swelling",
		Phases: []domain.PhaseSpec{
			{
				ID:   "necrotic-swelling",
				Next: "necrotic-lysed",
				Rule: domain.Custom(func(s *domain.CellState, _ float64) bool {
					return s.Volume.Total() >= 2*s.EntryTotal
				}),
				OnEntry: necrosisSwellEntry,
			},
			{
				ID:            "necrotic-lysed",
				Next:          "necrotic-lysed",
				Rule:          domain.Deterministic(lysedDuration),
				RemovesAtExit: true,
				OnEntry:       necrosisLysedEntry,
			},
		},
		InitialVolume: referenceVolume(),
	}
}

// necrosisSwellEntry inflates the fluid compartments (coefficient 0.67/60)
// while the solids decay (0.0032/60 cytoplasm, 0.013/60 nuclear) and
// calcification begins (0.0042/60).
func necrosisSwellEntry(s *domain.CellState) error {
	total := s.Volume.Total()
	steps := []struct {
		c      domain.Compartment
		target float64
		rate   float64
	}{
		{domain.CytoplasmFluid, 3 * total, 0.67 / 60 * s.Volume.Value(domain.CytoplasmFluid)},
		{domain.NuclearFluid, 3 * total, 0.67 / 60 * s.Volume.Value(domain.NuclearFluid)},
		{domain.CytoplasmSolid, 0, -0.0032 / 60 * s.Volume.Value(domain.CytoplasmSolid)},
		{domain.NuclearSolid, 0, -0.013 / 60 * s.Volume.Value(domain.NuclearSolid)},
		{domain.Calcified, 1, 0.0042 / 60},
	}
	for _, st := range steps {
		if err := s.Volume.SetTargetAndRate(st.c, st.target, st.rate); err != nil {
			return err
		}
	}
	return nil
}

// necrosisLysedEntry drains every compartment (fluid coefficient 0.05/60)
// while calcification continues.
func necrosisLysedEntry(s *domain.CellState) error {
	coefs := map[domain.Compartment]float64{
		domain.CytoplasmFluid: 0.050 / 60,
		domain.NuclearFluid:   0.050 / 60,
		domain.CytoplasmSolid: 0.0032 / 60,
		domain.NuclearSolid:   0.013 / 60,
	}
	for c, coef := range coefs {
		if err := s.Volume.SetTargetAndRate(c, 0, -coef*s.Volume.Value(c)); err != nil {
			return err
		}
	}
	return s.Volume.SetTargetAndRate(domain.Calcified, 1, 0.0042/60)
}

// Quiescent returns the default out-of-sequence dormant phase: fixed
// 4.59 h, transitioning back to next when it ends.
func Quiescent(next string) *domain.PhaseSpec {
	return &domain.PhaseSpec{
		ID:   "quiescent",
		Next: next,
		Rule: domain.Deterministic(4.59 * 60),
	}
}
