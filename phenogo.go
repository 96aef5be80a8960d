package phenogo

import (
	"log/slog"

	"github.com/phenogo/phenogo/internal/runtime"
	"github.com/phenogo/phenogo/pkg/domain"
)

// Version of the library.
var Version = "0.3.0"

// Phenotype is the high-level entry point: the per-cell state machine over a
// set of phases, plus the cell volume model it drives. Build one per cell;
// instances are exclusively owned and must not be shared between goroutines.
type Phenotype struct {
	machine *runtime.Machine

	uniform runtime.Uniform
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
}

// Option configures a Phenotype at construction.
type Option func(*Phenotype)

// WithUniform injects the random source consumed by stochastic rules. Give
// each simulation a seeded source to make runs reproducible.
func WithUniform(u runtime.Uniform) Option {
	return func(p *Phenotype) {
		p.uniform = u
	}
}

// WithLogger sets a structured logger for phase-change debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Phenotype) {
		p.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks for phase entry/exit,
// division, and senescence.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Phenotype) {
		p.hooks = hooks
	}
}

// New validates the definition and builds a phenotype positioned at its
// starting phase. Configuration problems are reported immediately as
// *domain.ConfigError values; a phenotype that constructs is steppable.
func New(spec domain.PhenotypeSpec, opts ...Option) (*Phenotype, error) {
	p := &Phenotype{}
	for _, opt := range opts {
		opt(p)
	}

	machineOpts := []runtime.Option{
		runtime.WithLifecycleHooks(p.hooks),
	}
	if p.uniform != nil {
		machineOpts = append(machineOpts, runtime.WithUniform(p.uniform))
	}
	if p.logger != nil {
		machineOpts = append(machineOpts, runtime.WithLogger(p.logger))
	}

	machine, err := runtime.NewMachine(spec, machineOpts...)
	if err != nil {
		return nil, err
	}
	p.machine = machine
	return p, nil
}

// Step advances the cell by dt and reports whether the phase changed and
// whether the host should divide or remove the cell. dt <= 0 is a no-op.
func (p *Phenotype) Step(dt float64) (domain.StepResult, error) {
	return p.machine.Step(dt)
}

// Quiesce moves the cell into the configured quiescent phase, freezing its
// volume targets. No-op when no quiescent phase was defined.
func (p *Phenotype) Quiesce() error {
	return p.machine.Quiesce()
}

// SetPhase forces the current phase by ID, bypassing the normal transition
// (no exit hook on the outgoing phase).
func (p *Phenotype) SetPhase(id string) error {
	return p.machine.SetPhase(id)
}

// Clone returns an independent deep copy for a daughter cell. The copy
// shares the immutable phase specs and the random source.
func (p *Phenotype) Clone() *Phenotype {
	return &Phenotype{
		machine: p.machine.Clone(),
		uniform: p.uniform,
		logger:  p.logger,
		hooks:   p.hooks,
	}
}

// Name returns the phenotype name.
func (p *Phenotype) Name() string { return p.machine.Name() }

// CurrentPhase returns the identifier of the active phase.
func (p *Phenotype) CurrentPhase() string { return p.machine.CurrentPhase() }

// TimeInPhase returns the time elapsed in the active phase.
func (p *Phenotype) TimeInPhase() float64 { return p.machine.TimeInPhase() }

// Time returns the total time the phenotype has been stepped.
func (p *Phenotype) Time() float64 { return p.machine.Time() }

// Volume exposes the cell's compartment model.
func (p *Phenotype) Volume() *domain.CellVolume { return p.machine.Volume() }

// Phases returns the phase specs in declaration order.
func (p *Phenotype) Phases() []domain.PhaseSpec { return p.machine.Phases() }

// Quiescent returns the quiescent phase spec, or nil.
func (p *Phenotype) Quiescent() *domain.PhaseSpec { return p.machine.Quiescent() }
