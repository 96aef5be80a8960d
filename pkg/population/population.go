package population

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phenogo/phenogo"
	"github.com/phenogo/phenogo/pkg/domain"
)

// Cell couples one phenotype instance with a stable identity.
type Cell struct {
	ID        uuid.UUID
	Phenotype *phenogo.Phenotype
}

// Stats aggregates what happened during one population step.
type Stats struct {
	Divisions int
	Removals  int
	Senescent int
	Cells     int
}

// Population is a reference host: it owns a set of cells, steps each one per
// tick, and performs the division and removal the engine only signals.
// Everything is synchronous and single-threaded, matching the engine's
// single-writer contract.
type Population struct {
	cells  []*Cell
	build  func() (*phenogo.Phenotype, error)
	logger *slog.Logger

	// Removed cells can optionally be parked instead of discarded when the
	// phenotype defines a quiescent phase and KeepSenescent is set.
	KeepSenescent bool
}

// Option configures a Population.
type Option func(*Population)

// WithLogger sets a structured logger. Default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Population) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithKeepSenescent parks senescent cells in the quiescent phase (when one
// is defined) instead of removing them.
func WithKeepSenescent() Option {
	return func(p *Population) {
		p.KeepSenescent = true
	}
}

// New builds a population of n cells, each with its own phenotype instance
// produced by build.
func New(n int, build func() (*phenogo.Phenotype, error), opts ...Option) (*Population, error) {
	if n <= 0 {
		return nil, fmt.Errorf("population size must be > 0, got %d", n)
	}
	p := &Population{
		build:  build,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := 0; i < n; i++ {
		pt, err := build()
		if err != nil {
			return nil, fmt.Errorf("building cell %d: %w", i, err)
		}
		p.cells = append(p.cells, &Cell{ID: uuid.New(), Phenotype: pt})
	}
	return p, nil
}

// Step advances every cell by dt, dividing and removing as the engine
// signals. Daughters produced this step are not themselves stepped until the
// next tick.
func (p *Population) Step(dt float64) (Stats, error) {
	var stats Stats
	survivors := p.cells[:0]
	var daughters []*Cell

	for _, cell := range p.cells {
		res, err := cell.Phenotype.Step(dt)
		if err != nil {
			return stats, fmt.Errorf("cell %s: %w", cell.ID, err)
		}

		if res.ShouldExit && !res.PhaseChanged {
			// Senescence: the engine reported exit without a phase switch.
			stats.Senescent++
			if p.KeepSenescent && cell.Phenotype.Quiescent() != nil {
				if err := cell.Phenotype.Quiesce(); err != nil {
					return stats, fmt.Errorf("cell %s: %w", cell.ID, err)
				}
				survivors = append(survivors, cell)
			} else {
				stats.Removals++
				p.logger.Debug("cell removed", "cell", cell.ID, "cause", "senescence")
			}
			continue
		}

		if res.ShouldDivide {
			stats.Divisions++
			daughter := &Cell{ID: uuid.New(), Phenotype: cell.Phenotype.Clone()}
			cell.Phenotype.Volume().Scale(0.5)
			daughter.Phenotype.Volume().Scale(0.5)
			daughters = append(daughters, daughter)
			p.logger.Debug("cell divided", "parent", cell.ID, "daughter", daughter.ID)
		}

		if res.ShouldExit {
			stats.Removals++
			p.logger.Debug("cell removed", "cell", cell.ID, "phase", res.NewPhaseID)
			continue
		}
		survivors = append(survivors, cell)
	}

	p.cells = append(survivors, daughters...)
	stats.Cells = len(p.cells)
	return stats, nil
}

// Len returns the current number of cells.
func (p *Population) Len() int { return len(p.cells) }

// Cells returns the live cell slice. Callers must not mutate it.
func (p *Population) Cells() []*Cell { return p.cells }

// TotalVolume sums the total volume over all cells.
func (p *Population) TotalVolume() float64 {
	var sum float64
	for _, c := range p.cells {
		sum += c.Phenotype.Volume().Total()
	}
	return sum
}

// CellSnapshot captures one cell's externally visible state.
type CellSnapshot struct {
	ID          string             `json:"id"`
	Phase       string             `json:"phase"`
	TimeInPhase float64            `json:"time_in_phase"`
	Total       float64            `json:"total_volume"`
	Volumes     map[string]float64 `json:"volumes"`
}

// Snapshot captures a whole population at a point in simulated time.
type Snapshot struct {
	Phenotype string         `json:"phenotype"`
	Time      float64        `json:"time"`
	Cells     []CellSnapshot `json:"cells"`
}

// Snapshot captures the population state for stores and APIs.
func (p *Population) Snapshot() *Snapshot {
	snap := &Snapshot{}
	var t float64
	for _, c := range p.cells {
		vol := c.Phenotype.Volume()
		volumes := make(map[string]float64)
		for _, comp := range domain.Compartments() {
			volumes[comp.String()] = vol.Value(comp)
		}
		snap.Cells = append(snap.Cells, CellSnapshot{
			ID:          c.ID.String(),
			Phase:       c.Phenotype.CurrentPhase(),
			TimeInPhase: c.Phenotype.TimeInPhase(),
			Total:       vol.Total(),
			Volumes:     volumes,
		})
		snap.Phenotype = c.Phenotype.Name()
		t = c.Phenotype.Time()
	}
	snap.Time = t
	return snap
}
