package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenogo/phenogo/pkg/domain"
)

func validSpec() domain.PhenotypeSpec {
	return domain.PhenotypeSpec{
		Name:  "valid",
		Start: "a",
		Phases: []domain.PhaseSpec{
			{ID: "a", Next: "b", Rule: domain.Stochastic(0.1)},
			{ID: "b", Next: "a", Rule: domain.Deterministic(10)},
		},
	}
}

func assertConfigError(t *testing.T, err error, phase, field string) {
	t.Helper()
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, phase, cfgErr.Phase)
	assert.Equal(t, field, cfgErr.Field)
}

func TestValidateAcceptsValidSpec(t *testing.T) {
	assert.NoError(t, Validate(validSpec()))
}

func TestValidateRejectsEmptyPhases(t *testing.T) {
	err := Validate(domain.PhenotypeSpec{Name: "empty"})
	assertConfigError(t, err, "", "phases")
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	spec := validSpec()
	spec.Phases[1].ID = "a"
	err := Validate(spec)
	assertConfigError(t, err, "a", "id")
}

func TestValidateRejectsEmptyID(t *testing.T) {
	spec := validSpec()
	spec.Phases[0].ID = ""
	err := Validate(spec)
	assertConfigError(t, err, "", "id")
}

func TestValidateRejectsUnknownStart(t *testing.T) {
	spec := validSpec()
	spec.Start = "zz"
	err := Validate(spec)
	assertConfigError(t, err, "", "start")
}

func TestValidateRejectsMissingRule(t *testing.T) {
	spec := validSpec()
	spec.Phases[0].Rule = nil
	err := Validate(spec)
	assertConfigError(t, err, "a", "rule")
}

func TestValidateRejectsBadRuleParams(t *testing.T) {
	spec := validSpec()
	spec.Phases[0].Rule = domain.Stochastic(-1)
	assertConfigError(t, Validate(spec), "a", "rule.lambda")

	spec = validSpec()
	spec.Phases[1].Rule = domain.Deterministic(0)
	assertConfigError(t, Validate(spec), "b", "rule.period")

	spec = validSpec()
	spec.Phases[1].Rule = domain.Deterministic(math.NaN())
	assertConfigError(t, Validate(spec), "b", "rule.period")

	spec = validSpec()
	spec.Phases[0].Rule = domain.CustomRule{}
	assertConfigError(t, Validate(spec), "a", "rule.check")
}

func TestValidateRejectsBrokenSuccessor(t *testing.T) {
	spec := validSpec()
	spec.Phases[0].Next = "zz"
	assertConfigError(t, Validate(spec), "a", "next")

	spec = validSpec()
	spec.Phases[0].Next = ""
	assertConfigError(t, Validate(spec), "a", "next")
}

func TestValidateAllowsResolverWithoutNext(t *testing.T) {
	spec := validSpec()
	spec.Phases[0].Next = ""
	spec.Phases[0].NextFunc = func(*domain.CellState) string { return "b" }
	assert.NoError(t, Validate(spec))
}

func TestValidateRejectsBadVolumeParams(t *testing.T) {
	spec := validSpec()
	spec.Phases[0].Volume = []domain.VolumeParam{
		{Compartment: domain.Compartment(99), Target: 1, Rate: 0},
	}
	assertConfigError(t, Validate(spec), "a", "volume.compartment")

	spec = validSpec()
	spec.Phases[0].Volume = []domain.VolumeParam{
		{Compartment: domain.NuclearSolid, Target: -5, Rate: 0},
	}
	assertConfigError(t, Validate(spec), "a", "volume.nuclear_solid.target")

	spec = validSpec()
	spec.Phases[0].Volume = []domain.VolumeParam{
		{Compartment: domain.NuclearSolid, Target: 5, Rate: math.Inf(1)},
	}
	assertConfigError(t, Validate(spec), "a", "volume.nuclear_solid.rate")
}

func TestValidateRejectsBadInitialVolume(t *testing.T) {
	spec := validSpec()
	spec.InitialVolume = []domain.VolumeValue{
		{Compartment: domain.Compartment(-1), Value: 1},
	}
	assertConfigError(t, Validate(spec), "", "initial_volume.compartment")

	spec = validSpec()
	spec.InitialVolume = []domain.VolumeValue{
		{Compartment: domain.NuclearFluid, Value: -1},
	}
	assertConfigError(t, Validate(spec), "", "initial_volume.nuclear_fluid")
}

func TestValidateQuiescentCollision(t *testing.T) {
	spec := validSpec()
	spec.Quiescent = &domain.PhaseSpec{ID: "a", Next: "a", Rule: domain.Deterministic(1)}
	assertConfigError(t, Validate(spec), "a", "quiescent")
}

func TestValidateQuiescentPhaseChecked(t *testing.T) {
	spec := validSpec()
	spec.Quiescent = &domain.PhaseSpec{ID: "dormant", Next: "zz", Rule: domain.Deterministic(1)}
	assertConfigError(t, Validate(spec), "dormant", "next")
}
