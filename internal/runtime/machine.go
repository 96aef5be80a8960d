package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/phenogo/phenogo/pkg/domain"
)

// Uniform supplies draws in [0,1). *math/rand.Rand satisfies it; hosts inject
// a seeded source for reproducible simulations.
type Uniform interface {
	Float64() float64
}

// Machine is the phenotype state machine for a single cell. It owns the
// cell's volume model and the current-phase pointer and is driven by one
// Step call per simulation tick. Instances are single-writer: one cell, one
// goroutine.
type Machine struct {
	name      string
	phases    map[string]*domain.PhaseSpec
	order     []string
	quiescent *domain.PhaseSpec

	current    string
	elapsed    float64
	total      float64
	entryTotal float64
	volume     *domain.CellVolume

	rng    Uniform
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures a Machine.
type Option func(*Machine)

// WithUniform injects the random source consumed by stochastic rules.
func WithUniform(u Uniform) Option {
	return func(m *Machine) {
		if u != nil {
			m.rng = u
		}
	}
}

// WithLogger sets a structured logger. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// NewMachine validates the definition and builds a machine positioned at the
// starting phase with that phase's volume parameters applied and its entry
// hook run. Validation failures are *domain.ConfigError values.
func NewMachine(spec domain.PhenotypeSpec, opts ...Option) (*Machine, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}

	m := &Machine{
		name:   spec.Name,
		phases: make(map[string]*domain.PhaseSpec, len(spec.Phases)),
		order:  make([]string, 0, len(spec.Phases)),
		volume: domain.NewCellVolume(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for i := range spec.Phases {
		p := spec.Phases[i]
		m.phases[p.ID] = &p
		m.order = append(m.order, p.ID)
	}
	if spec.Quiescent != nil {
		q := *spec.Quiescent
		m.quiescent = &q
		m.phases[q.ID] = &q
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for _, iv := range spec.InitialVolume {
		m.volume.Set(iv.Compartment, iv.Value)
	}

	start := spec.Start
	if start == "" {
		start = spec.Phases[0].ID
	}
	if err := m.enter(start); err != nil {
		return nil, err
	}
	return m, nil
}

// Step advances the cell by one time step and reports what the host should
// do. dt <= 0 (or NaN) is a no-op. Hook errors propagate unchanged.
func (m *Machine) Step(dt float64) (domain.StepResult, error) {
	var res domain.StepResult
	if !(dt > 0) {
		return res, nil
	}

	cur := m.phases[m.current]

	// Volume first, under the rates configured at the last entry/exit.
	m.volume.Update(dt)

	// Senescence has priority over the normal transition.
	if cur.Arrest != nil && cur.Arrest(m.state()) {
		m.emitSenescence(cur)
		res.ShouldExit = true
		return res, nil
	}

	m.elapsed += dt
	m.total += dt

	if !cur.Rule.Fire(m.state(), dt, m.rng.Float64) {
		return res, nil
	}

	// Capture the flags before the exit hook runs.
	divide := cur.DividesAtExit
	remove := cur.RemovesAtExit

	if cur.OnExit != nil {
		if err := cur.OnExit(m.state()); err != nil {
			return domain.StepResult{}, err
		}
	}
	m.emitLeave(cur)

	next := cur.Next
	if cur.NextFunc != nil {
		next = cur.NextFunc(m.state())
	}
	if err := m.enter(next); err != nil {
		return domain.StepResult{}, err
	}

	res.PhaseChanged = true
	res.NewPhaseID = next
	res.ShouldDivide = divide
	res.ShouldExit = remove
	if divide {
		m.emitDivide(cur)
	}
	return res, nil
}

// Quiesce switches into the configured quiescent phase, freezing the volume
// targets at the current values so the cell stops changing size. It is a
// no-op without a quiescent phase.
func (m *Machine) Quiesce() error {
	if m.quiescent == nil {
		return nil
	}
	cur := m.phases[m.current]
	for _, c := range domain.Compartments() {
		if err := m.volume.SetTargetAndRate(c, m.volume.Value(c), 0); err != nil {
			return err
		}
	}
	m.emitLeave(cur)
	return m.enter(m.quiescent.ID)
}

// SetPhase forces the current phase, running the target's volume parameters
// and entry hook. The outgoing phase's exit hook does not run; this is the
// host reaching in, not a normal transition.
func (m *Machine) SetPhase(id string) error {
	if _, ok := m.phases[id]; !ok {
		return fmt.Errorf("unknown phase %q", id)
	}
	return m.enter(id)
}

// enter makes id current, applies its volume parameters, resets the
// elapsed-in-phase counter, and runs its entry hook.
func (m *Machine) enter(id string) error {
	p, ok := m.phases[id]
	if !ok {
		return fmt.Errorf("phenotype %q: successor %q is not a registered phase", m.name, id)
	}
	m.current = id
	m.elapsed = 0
	m.entryTotal = m.volume.Total()

	for _, vp := range p.Volume {
		if err := m.volume.SetTargetAndRate(vp.Compartment, vp.Target, vp.Rate); err != nil {
			return err
		}
	}
	if p.OnEntry != nil {
		if err := p.OnEntry(m.state()); err != nil {
			return err
		}
	}
	m.logger.Debug("phase entered", "phenotype", m.name, "phase", id)
	m.emitEnter(p)
	return nil
}

func (m *Machine) state() *domain.CellState {
	return &domain.CellState{
		Phase:       m.current,
		TimeInPhase: m.elapsed,
		Time:        m.total,
		EntryTotal:  m.entryTotal,
		Volume:      m.volume,
	}
}

// Name returns the phenotype name.
func (m *Machine) Name() string { return m.name }

// CurrentPhase returns the identifier of the active phase.
func (m *Machine) CurrentPhase() string { return m.current }

// TimeInPhase returns the time elapsed in the active phase.
func (m *Machine) TimeInPhase() float64 { return m.elapsed }

// Time returns the total time the machine has been stepped.
func (m *Machine) Time() float64 { return m.total }

// Volume exposes the cell's compartment model.
func (m *Machine) Volume() *domain.CellVolume { return m.volume }

// Phases returns the phase specs in declaration order, for listings and
// graph exports.
func (m *Machine) Phases() []domain.PhaseSpec {
	out := make([]domain.PhaseSpec, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.phases[id])
	}
	return out
}

// Quiescent returns the quiescent phase spec, or nil.
func (m *Machine) Quiescent() *domain.PhaseSpec { return m.quiescent }

// Clone returns an independent copy sharing the immutable phase specs and
// the random source. Daughter cells in a dividing population start from one
// of these.
func (m *Machine) Clone() *Machine {
	cp := *m
	cp.volume = m.volume.Clone()
	return &cp
}

func (m *Machine) event(p *domain.PhaseSpec) *domain.PhaseEvent {
	return &domain.PhaseEvent{
		Timestamp:   time.Now(),
		Phenotype:   m.name,
		PhaseID:     p.ID,
		TimeInPhase: m.elapsed,
	}
}

func (m *Machine) emitEnter(p *domain.PhaseSpec) {
	if m.hooks.OnPhaseEnter != nil {
		m.hooks.OnPhaseEnter(m.event(p))
	}
}

func (m *Machine) emitLeave(p *domain.PhaseSpec) {
	if m.hooks.OnPhaseLeave != nil {
		m.hooks.OnPhaseLeave(m.event(p))
	}
}

func (m *Machine) emitDivide(p *domain.PhaseSpec) {
	if m.hooks.OnDivide != nil {
		m.hooks.OnDivide(m.event(p))
	}
}

func (m *Machine) emitSenescence(p *domain.PhaseSpec) {
	if m.hooks.OnSenescence != nil {
		m.hooks.OnSenescence(m.event(p))
	}
}
