package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenogo/phenogo"
	"github.com/phenogo/phenogo/pkg/catalog"
	"github.com/phenogo/phenogo/pkg/domain"
)

// fixedUniform always returns the same draw, forcing stochastic rules to
// fire (0) or never fire (0.999...).
type fixedUniform float64

func (f fixedUniform) Float64() float64 { return float64(f) }

func TestLoaderListsEveryEntry(t *testing.T) {
	loader := catalog.Loader{}

	names, err := loader.List()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"apoptosis-standard",
		"flow-cytometry-basic",
		"ki67-advanced",
		"ki67-basic",
		"necrosis-standard",
		"simple-live",
	}, names)

	for _, name := range names {
		spec, err := loader.Load(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, spec.Name)
		assert.NotEmpty(t, spec.Description, name)
	}
}

func TestLoaderUnknownName(t *testing.T) {
	_, err := catalog.Loader{}.Load("no-such-phenotype")
	assert.ErrorIs(t, err, domain.ErrSpecNotFound)
}

func TestEveryEntryConstructs(t *testing.T) {
	loader := catalog.Loader{}
	names, err := loader.List()
	require.NoError(t, err)

	for _, name := range names {
		spec, err := loader.Load(name)
		require.NoError(t, err)

		p, err := phenogo.New(*spec, phenogo.WithUniform(fixedUniform(0.5)))
		require.NoError(t, err, name)
		assert.InDelta(t, 2494.0, p.Volume().Total(), 1e-9, name)
	}
}

func TestKi67BasicDoublesAndDivides(t *testing.T) {
	// A draw of 0 makes the stochastic Ki67- phase exit on its first step.
	p, err := phenogo.New(catalog.Ki67Basic(), phenogo.WithUniform(fixedUniform(0)))
	require.NoError(t, err)
	require.Equal(t, "ki67-negative", p.CurrentPhase())

	res, err := p.Step(1)
	require.NoError(t, err)
	require.True(t, res.PhaseChanged)
	assert.Equal(t, "ki67-positive", res.NewPhaseID)
	assert.False(t, res.ShouldDivide)

	// The proliferative phase lasts exactly 15.5 h and grows the cell to
	// twice its size over that window.
	divided := false
	for i := 0; i < int(15.5*60); i++ {
		res, err = p.Step(1)
		require.NoError(t, err)
		if res.ShouldDivide {
			divided = true
			break
		}
	}
	require.True(t, divided)
	assert.Equal(t, "ki67-negative", res.NewPhaseID)
	assert.InDelta(t, 2*2494.0, p.Volume().Total(), 1e-6)
}

func TestApoptosisShrinksAndRemoves(t *testing.T) {
	p, err := phenogo.New(catalog.ApoptosisStandard(), phenogo.WithUniform(fixedUniform(0.5)))
	require.NoError(t, err)

	var last domain.StepResult
	steps := 0
	for steps < 100 {
		res, err := p.Step(60)
		require.NoError(t, err)
		steps++
		if res.PhaseChanged {
			last = res
			break
		}
	}
	require.True(t, last.PhaseChanged)
	assert.True(t, last.ShouldExit)
	assert.False(t, last.ShouldDivide)
	// 8.6 h at one-hour steps: the transition lands on the ninth step.
	assert.Equal(t, 9, steps)
	assert.Less(t, p.Volume().Total(), 2494.0)
}

func TestNecrosisRupturesAtTwiceEntryVolume(t *testing.T) {
	p, err := phenogo.New(catalog.NecrosisStandard(), phenogo.WithUniform(fixedUniform(0.5)))
	require.NoError(t, err)
	require.Equal(t, "necrotic-swelling", p.CurrentPhase())

	ruptured := false
	for i := 0; i < 100_000; i++ {
		res, err := p.Step(1)
		require.NoError(t, err)
		if res.PhaseChanged {
			require.Equal(t, "necrotic-lysed", res.NewPhaseID)
			ruptured = true
			break
		}
	}
	require.True(t, ruptured)
	assert.GreaterOrEqual(t, p.Volume().Total(), 2*2494.0)
	assert.Greater(t, p.Volume().CalcifiedFraction(), 0.0)
}

func TestNecrosisLysedRemovalBackstop(t *testing.T) {
	p, err := phenogo.New(catalog.NecrosisStandard(), phenogo.WithUniform(fixedUniform(0.5)))
	require.NoError(t, err)
	require.NoError(t, p.SetPhase("necrotic-lysed"))

	var last domain.StepResult
	dt := 60.0 * 24 // one day
	for i := 0; i < 61; i++ {
		res, err := p.Step(dt)
		require.NoError(t, err)
		if res.PhaseChanged {
			last = res
			break
		}
	}
	require.True(t, last.PhaseChanged)
	assert.True(t, last.ShouldExit)
}

func TestSimpleLiveSelfLoop(t *testing.T) {
	p, err := phenogo.New(catalog.SimpleLive(), phenogo.WithUniform(fixedUniform(0)))
	require.NoError(t, err)

	res, err := p.Step(1)
	require.NoError(t, err)
	require.True(t, res.PhaseChanged)
	assert.Equal(t, "alive", res.NewPhaseID)
	assert.True(t, res.ShouldDivide)
	assert.Equal(t, "alive", p.CurrentPhase())
	assert.Equal(t, 0.0, p.TimeInPhase())
}

func TestQuiescentHelper(t *testing.T) {
	spec := catalog.FlowCytometryBasic()
	spec.Quiescent = catalog.Quiescent("g0g1")

	p, err := phenogo.New(spec, phenogo.WithUniform(fixedUniform(0.999)))
	require.NoError(t, err)

	require.NoError(t, p.Quiesce())
	assert.Equal(t, "quiescent", p.CurrentPhase())

	// Frozen targets: the cell stops changing size while dormant.
	before := p.Volume().Total()
	for i := 0; i < 10; i++ {
		_, err := p.Step(1)
		require.NoError(t, err)
	}
	assert.InDelta(t, before, p.Volume().Total(), 1e-9)
}
