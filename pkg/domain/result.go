package domain

// StepResult reports what one phenotype step decided. The machine never acts
// on division or removal itself; the host owns both.
type StepResult struct {
	// PhaseChanged is true when the machine switched phases this step.
	PhaseChanged bool

	// NewPhaseID is the identifier of the phase entered, when PhaseChanged.
	NewPhaseID string

	// ShouldDivide asks the host to split the cell into two.
	ShouldDivide bool

	// ShouldExit asks the host to remove the cell from the simulation. Set
	// either by a senescence (arrest) check, in which case no phase change
	// is reported, or by leaving a phase flagged RemovesAtExit.
	ShouldExit bool
}
