package domain

// CellState is the snapshot handed to hooks, predicates, and custom rules.
// Volume points at the live compartment model, so hooks may retarget growth;
// the remaining fields are read-only copies.
type CellState struct {
	// Phase is the identifier of the current phase.
	Phase string

	// TimeInPhase is the time elapsed since the current phase was entered.
	TimeInPhase float64

	// Time is the total time the phenotype has been stepped.
	Time float64

	// EntryTotal is the total cell volume recorded when the current phase
	// was entered. Rupture-style transition checks compare against it.
	EntryTotal float64

	// Volume is the live compartment model of the cell.
	Volume *CellVolume
}

// Hook is a host-supplied entry or exit callback. Errors are not handled by
// the machine; they propagate out of Step untouched.
type Hook func(state *CellState) error

// Predicate is a boolean query over the cell state.
type Predicate func(state *CellState) bool

// Resolver picks a successor phase identifier for branching topologies. It
// must return the ID of a registered phase.
type Resolver func(state *CellState) string

// VolumeParam assigns a target and change rate to one compartment when the
// owning phase is entered. Compartments not listed keep their previous
// configuration.
type VolumeParam struct {
	Compartment Compartment
	Target      float64
	Rate        float64
}

// VolumeValue seeds a compartment's starting value at construction.
type VolumeValue struct {
	Compartment Compartment
	Value       float64
}

// PhaseSpec describes one behavioral stage of a phenotype. Specs are
// immutable after construction; only the cell's volume parameters change at
// runtime, via hooks.
type PhaseSpec struct {
	// ID names the phase. Must be unique within the phenotype.
	ID string

	// Next is the successor phase ID. Self-loops are legal. Ignored when
	// NextFunc is set.
	Next string

	// NextFunc, when set, selects the successor at transition time.
	NextFunc Resolver

	// Rule decides when this phase ends.
	Rule Rule

	// DividesAtExit tells the host to split the cell when this phase exits.
	DividesAtExit bool

	// RemovesAtExit tells the host to take the cell out of the simulation
	// when this phase exits (lysis, completed apoptosis).
	RemovesAtExit bool

	// Arrest, when set, is checked every step before the transition rule.
	// If it fires the phenotype reports senescence instead of switching.
	Arrest Predicate

	// OnEntry runs once when the phase becomes current, after the volume
	// parameters have been applied.
	OnEntry Hook

	// OnExit runs once, immediately before the phase is left. It completes
	// before the successor's OnEntry begins.
	OnExit Hook

	// Volume lists the compartment targets and rates applied on entry.
	Volume []VolumeParam
}

// PhenotypeSpec is an ordered collection of phases plus an optional
// out-of-sequence quiescent phase.
type PhenotypeSpec struct {
	// Name labels the phenotype in logs, stores, and listings.
	Name string

	// Description is optional markdown shown by presentation layers.
	Description string

	// Start is the ID of the initial phase. Defaults to the first phase.
	Start string

	// Phases in declaration order. Control flow follows each phase's
	// successor link; the order here only drives listings.
	Phases []PhaseSpec

	// InitialVolume seeds compartment values before the starting phase is
	// entered. Compartments not listed start at zero.
	InitialVolume []VolumeValue

	// Quiescent, when set, is the dormant phase Quiesce switches into.
	Quiescent *PhaseSpec
}
