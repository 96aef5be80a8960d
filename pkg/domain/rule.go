package domain

import (
	"fmt"
	"math"
)

// Rule decides, once per step, whether the current phase should end.
// The variant set is closed: Stochastic, Deterministic, Custom. Evaluation is
// a pure query; the elapsed-time counter a deterministic rule consumes is
// advanced by the machine, not by the rule.
type Rule interface {
	// Fire reports whether the phase should transition this step. uniform
	// supplies a draw in [0,1) and is only consumed by stochastic rules.
	Fire(state *CellState, dt float64, uniform func() float64) bool

	// Describe returns a short human-readable summary for listings and
	// graph exports.
	Describe() string

	isRule()
}

// StochasticRule fires with probability 1 - exp(-Lambda*dt) each step, a
// formulation whose firing statistics do not depend on the step size.
type StochasticRule struct {
	// Lambda is the transition rate (probability per unit time). The mean
	// phase duration is 1/Lambda.
	Lambda float64
}

// Stochastic builds a rate-based rule.
func Stochastic(lambda float64) StochasticRule {
	return StochasticRule{Lambda: lambda}
}

// Fire implements Rule.
func (r StochasticRule) Fire(_ *CellState, dt float64, uniform func() float64) bool {
	p := 1 - math.Exp(-r.Lambda*dt)
	if p <= 0 {
		return false
	}
	if p > 1 {
		p = 1
	}
	return uniform() < p
}

// Describe implements Rule.
func (r StochasticRule) Describe() string {
	return fmt.Sprintf("stochastic (rate %.4g)", r.Lambda)
}

func (StochasticRule) isRule() {}

// DeterministicRule fires once the time spent in the phase reaches Period.
// The counter is reset to zero when the successor phase is entered.
type DeterministicRule struct {
	// Period is the fixed phase duration.
	Period float64
}

// Deterministic builds a fixed-duration rule.
func Deterministic(period float64) DeterministicRule {
	return DeterministicRule{Period: period}
}

// Fire implements Rule.
func (r DeterministicRule) Fire(state *CellState, _ float64, _ func() float64) bool {
	return state.TimeInPhase >= r.Period
}

// Describe implements Rule.
func (r DeterministicRule) Describe() string {
	return fmt.Sprintf("after %.4g", r.Period)
}

func (DeterministicRule) isRule() {}

// CustomRule wraps an arbitrary host predicate over the cell state. The
// predicate must not mutate the state.
type CustomRule struct {
	Check func(state *CellState, dt float64) bool
}

// Custom builds a rule from a host-supplied predicate.
func Custom(check func(state *CellState, dt float64) bool) CustomRule {
	return CustomRule{Check: check}
}

// Fire implements Rule.
func (r CustomRule) Fire(state *CellState, dt float64, _ func() float64) bool {
	return r.Check != nil && r.Check(state, dt)
}

// Describe implements Rule.
func (r CustomRule) Describe() string {
	return "custom"
}

func (CustomRule) isRule() {}
