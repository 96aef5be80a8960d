package http

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	runsCreated    prometheus.Counter
	stepsTotal     *prometheus.CounterVec
	divisionsTotal *prometheus.CounterVec
	removalsTotal  *prometheus.CounterVec
	cellsGauge     *prometheus.GaugeVec
}

// newMetrics registers the simulation metrics, tolerating re-registration
// so multiple servers in one process (tests) do not panic.
func newMetrics() *metrics {
	m := &metrics{
		runsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phenogo_runs_created_total",
			Help: "Total number of simulation runs created",
		}),
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phenogo_steps_total",
			Help: "Total number of population steps executed",
		}, []string{"phenotype"}),
		divisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phenogo_divisions_total",
			Help: "Total number of cell divisions",
		}, []string{"phenotype"}),
		removalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phenogo_removals_total",
			Help: "Total number of cells removed from simulations",
		}, []string{"phenotype"}),
		cellsGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "phenogo_cells",
			Help: "Current number of cells per phenotype",
		}, []string{"phenotype"}),
	}

	m.runsCreated = registerCounter(m.runsCreated)
	m.stepsTotal = registerCounterVec(m.stepsTotal)
	m.divisionsTotal = registerCounterVec(m.divisionsTotal)
	m.removalsTotal = registerCounterVec(m.removalsTotal)
	m.cellsGauge = registerGaugeVec(m.cellsGauge)
	return m
}

func registerCounter(c prometheus.Counter) prometheus.Counter {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Counter)
		}
	}
	return c
}

func registerCounterVec(c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return c
}

func registerGaugeVec(g *prometheus.GaugeVec) *prometheus.GaugeVec {
	if err := prometheus.Register(g); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.GaugeVec)
		}
	}
	return g
}
