package domain

import "time"

// PhaseEvent describes entry into or exit from a phase.
type PhaseEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Phenotype   string    `json:"phenotype"`
	PhaseID     string    `json:"phase_id"`
	TimeInPhase float64   `json:"time_in_phase"`
}

// LifecycleHooks are optional observability callbacks, for logging and
// metrics only. They must not mutate cell state.
type LifecycleHooks struct {
	OnPhaseEnter func(*PhaseEvent)
	OnPhaseLeave func(*PhaseEvent)
	OnDivide     func(*PhaseEvent)
	OnSenescence func(*PhaseEvent)
}
