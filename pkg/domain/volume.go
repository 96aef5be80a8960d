package domain

import (
	"fmt"
	"math"
)

// Compartment identifies one scalar slot of the cell volume model.
type Compartment int

const (
	// CytoplasmSolid is the solid (biomass) part of the cytoplasm.
	CytoplasmSolid Compartment = iota
	// CytoplasmFluid is the fluid part of the cytoplasm.
	CytoplasmFluid
	// NuclearSolid is the solid (biomass) part of the nucleus.
	NuclearSolid
	// NuclearFluid is the fluid part of the nucleus.
	NuclearFluid
	// Calcified is the calcified fraction of the cell. It is dimensionless,
	// bounded to [0,1], and excluded from volume totals.
	Calcified

	numCompartments
)

var compartmentNames = [numCompartments]string{
	"cytoplasm_solid",
	"cytoplasm_fluid",
	"nuclear_solid",
	"nuclear_fluid",
	"calcified",
}

func (c Compartment) String() string {
	if c < 0 || c >= numCompartments {
		return fmt.Sprintf("compartment(%d)", int(c))
	}
	return compartmentNames[c]
}

// ParseCompartment maps a definition-file name to a Compartment.
func ParseCompartment(name string) (Compartment, error) {
	for i, n := range compartmentNames {
		if n == name {
			return Compartment(i), nil
		}
	}
	return 0, fmt.Errorf("unknown compartment %q", name)
}

// Compartments lists all compartment identifiers in declaration order.
func Compartments() []Compartment {
	out := make([]Compartment, numCompartments)
	for i := range out {
		out[i] = Compartment(i)
	}
	return out
}

// CellVolume tracks the multi-compartment volume state of one cell.
// Each compartment carries a current value, a target value, and a signed
// change rate (volume per unit time; negative shrinks).
//
// Update uses linear approach semantics: a compartment moves by rate*dt per
// step, snaps to its target if the move would cross it, and never goes
// negative. The calcified fraction is additionally capped at 1.
type CellVolume struct {
	value  [numCompartments]float64
	target [numCompartments]float64
	rate   [numCompartments]float64
}

// NewCellVolume returns a zero-valued volume. Targets and rates default to 0.
func NewCellVolume() *CellVolume {
	return &CellVolume{}
}

// Set overwrites the current value of a compartment, clamping to the
// compartment's valid range.
func (v *CellVolume) Set(c Compartment, value float64) {
	if c < 0 || c >= numCompartments {
		return
	}
	v.value[c] = clampCompartment(c, value)
}

// SetTargetAndRate reconfigures where a compartment is heading and how fast.
// Targets must be non-negative and finite; rates may be signed but must be
// finite. Entry hooks use this to reshape future growth.
func (v *CellVolume) SetTargetAndRate(c Compartment, target, rate float64) error {
	if c < 0 || c >= numCompartments {
		return fmt.Errorf("unknown compartment %d", int(c))
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return fmt.Errorf("compartment %s: target must be finite and >= 0, got %v", c, target)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("compartment %s: rate must be finite, got %v", c, rate)
	}
	if c == Calcified && target > 1 {
		target = 1
	}
	v.target[c] = target
	v.rate[c] = rate
	return nil
}

// Update advances every compartment by one time step of length dt.
// dt <= 0 (or NaN) is a no-op.
func (v *CellVolume) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	for c := Compartment(0); c < numCompartments; c++ {
		val := v.value[c]
		tgt := v.target[c]
		step := v.rate[c] * dt
		if step == 0 || val == tgt {
			continue
		}
		next := val + step
		// Snap when the move crosses the target so large rate*dt cannot
		// overshoot and oscillate.
		if (val < tgt && next > tgt) || (val > tgt && next < tgt) {
			next = tgt
		}
		v.value[c] = clampCompartment(c, next)
	}
}

// Scale multiplies every compartment value and target by f (f >= 0). The
// calcified fraction is left untouched. Hosts use this to halve a cell's
// volume when it divides.
func (v *CellVolume) Scale(f float64) {
	if !(f >= 0) {
		return
	}
	for c := Compartment(0); c < numCompartments; c++ {
		if c == Calcified {
			continue
		}
		v.value[c] = clampCompartment(c, v.value[c]*f)
		v.target[c] = clampCompartment(c, v.target[c]*f)
	}
}

// Clone returns an independent deep copy.
func (v *CellVolume) Clone() *CellVolume {
	cp := *v
	return &cp
}

// Value returns the current value of a compartment.
func (v *CellVolume) Value(c Compartment) float64 {
	if c < 0 || c >= numCompartments {
		return 0
	}
	return v.value[c]
}

// Target returns the configured target of a compartment.
func (v *CellVolume) Target(c Compartment) float64 {
	if c < 0 || c >= numCompartments {
		return 0
	}
	return v.target[c]
}

// Rate returns the configured change rate of a compartment.
func (v *CellVolume) Rate(c Compartment) float64 {
	if c < 0 || c >= numCompartments {
		return 0
	}
	return v.rate[c]
}

// Cytoplasm returns solid plus fluid cytoplasmic volume.
func (v *CellVolume) Cytoplasm() float64 {
	return v.value[CytoplasmSolid] + v.value[CytoplasmFluid]
}

// Nuclear returns solid plus fluid nuclear volume.
func (v *CellVolume) Nuclear() float64 {
	return v.value[NuclearSolid] + v.value[NuclearFluid]
}

// Fluid returns the total fluid volume.
func (v *CellVolume) Fluid() float64 {
	return v.value[CytoplasmFluid] + v.value[NuclearFluid]
}

// Solid returns the total solid volume.
func (v *CellVolume) Solid() float64 {
	return v.value[CytoplasmSolid] + v.value[NuclearSolid]
}

// Total returns the full cell volume (cytoplasm plus nucleus).
func (v *CellVolume) Total() float64 {
	return v.Cytoplasm() + v.Nuclear()
}

// FluidFraction returns fluid/total, or 0 for an empty cell.
func (v *CellVolume) FluidFraction() float64 {
	total := v.Total()
	if total <= 0 {
		return 0
	}
	return v.Fluid() / total
}

// CalcifiedFraction returns the calcified fraction in [0,1].
func (v *CellVolume) CalcifiedFraction() float64 {
	return v.value[Calcified]
}

func clampCompartment(c Compartment, val float64) float64 {
	if math.IsNaN(val) || val < 0 {
		return 0
	}
	if c == Calcified && val > 1 {
		return 1
	}
	return val
}
