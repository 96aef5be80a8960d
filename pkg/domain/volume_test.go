package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeLinearApproach(t *testing.T) {
	v := NewCellVolume()
	v.Set(CytoplasmFluid, 100)
	require.NoError(t, v.SetTargetAndRate(CytoplasmFluid, 120, 2))

	for i := 0; i < 10; i++ {
		v.Update(1)
	}
	assert.Equal(t, 120.0, v.Value(CytoplasmFluid))
}

func TestVolumeSnapsInsteadOfOvershooting(t *testing.T) {
	v := NewCellVolume()
	v.Set(NuclearSolid, 100)
	require.NoError(t, v.SetTargetAndRate(NuclearSolid, 105, 50))

	// One big step would jump to 150; the value must stop at the target.
	v.Update(1)
	assert.Equal(t, 105.0, v.Value(NuclearSolid))

	// And stay there.
	v.Update(1)
	assert.Equal(t, 105.0, v.Value(NuclearSolid))
}

func TestVolumeShrinkClampsAtZero(t *testing.T) {
	v := NewCellVolume()
	v.Set(CytoplasmSolid, 10)
	require.NoError(t, v.SetTargetAndRate(CytoplasmSolid, 0, -4))

	v.Update(1)
	assert.Equal(t, 6.0, v.Value(CytoplasmSolid))
	v.Update(1)
	v.Update(1)
	assert.Equal(t, 0.0, v.Value(CytoplasmSolid))
	v.Update(1)
	assert.Equal(t, 0.0, v.Value(CytoplasmSolid))
}

func TestVolumeNonPositiveDtIsNoop(t *testing.T) {
	v := NewCellVolume()
	v.Set(NuclearFluid, 50)
	require.NoError(t, v.SetTargetAndRate(NuclearFluid, 100, 5))

	v.Update(0)
	v.Update(-1)
	v.Update(math.NaN())
	assert.Equal(t, 50.0, v.Value(NuclearFluid))
}

func TestCalcifiedFractionBounded(t *testing.T) {
	v := NewCellVolume()
	require.NoError(t, v.SetTargetAndRate(Calcified, 5, 1))
	assert.Equal(t, 1.0, v.Target(Calcified))

	for i := 0; i < 10; i++ {
		v.Update(1)
	}
	assert.Equal(t, 1.0, v.CalcifiedFraction())
}

func TestVolumeAggregates(t *testing.T) {
	v := NewCellVolume()
	v.Set(CytoplasmSolid, 488.5)
	v.Set(CytoplasmFluid, 1465.5)
	v.Set(NuclearSolid, 135)
	v.Set(NuclearFluid, 405)
	v.Set(Calcified, 0.5)

	assert.Equal(t, 1954.0, v.Cytoplasm())
	assert.Equal(t, 540.0, v.Nuclear())
	assert.Equal(t, 1870.5, v.Fluid())
	assert.Equal(t, 623.5, v.Solid())
	// Calcified is a fraction, not a compartment volume.
	assert.Equal(t, 2494.0, v.Total())
	assert.InDelta(t, 0.75, v.FluidFraction(), 1e-9)
}

func TestVolumeFluidFractionEmptyCell(t *testing.T) {
	v := NewCellVolume()
	assert.Equal(t, 0.0, v.FluidFraction())
}

func TestVolumeScaleHalvesValuesAndTargets(t *testing.T) {
	v := NewCellVolume()
	v.Set(CytoplasmFluid, 1000)
	v.Set(Calcified, 0.4)
	require.NoError(t, v.SetTargetAndRate(CytoplasmFluid, 2000, 10))

	v.Scale(0.5)
	assert.Equal(t, 500.0, v.Value(CytoplasmFluid))
	assert.Equal(t, 1000.0, v.Target(CytoplasmFluid))
	assert.Equal(t, 10.0, v.Rate(CytoplasmFluid))
	// Dividing does not dilute calcification.
	assert.Equal(t, 0.4, v.CalcifiedFraction())
}

func TestVolumeCloneIndependent(t *testing.T) {
	v := NewCellVolume()
	v.Set(NuclearFluid, 405)
	cp := v.Clone()

	cp.Set(NuclearFluid, 1)
	assert.Equal(t, 405.0, v.Value(NuclearFluid))
	assert.Equal(t, 1.0, cp.Value(NuclearFluid))
}

func TestSetTargetAndRateRejectsBadValues(t *testing.T) {
	v := NewCellVolume()
	assert.Error(t, v.SetTargetAndRate(CytoplasmSolid, -1, 0))
	assert.Error(t, v.SetTargetAndRate(CytoplasmSolid, math.NaN(), 0))
	assert.Error(t, v.SetTargetAndRate(CytoplasmSolid, math.Inf(1), 0))
	assert.Error(t, v.SetTargetAndRate(CytoplasmSolid, 10, math.NaN()))
	assert.Error(t, v.SetTargetAndRate(Compartment(99), 10, 0))
}

func TestParseCompartment(t *testing.T) {
	for _, c := range Compartments() {
		got, err := ParseCompartment(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCompartment("mitochondria")
	assert.Error(t, err)
}
