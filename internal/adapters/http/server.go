// Package http exposes simulations over a small JSON API: create a run,
// step it, inspect it. One process owns each run's cells; handlers are
// serialized with a mutex to honor the engine's single-writer contract.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phenogo/phenogo"
	"github.com/phenogo/phenogo/internal/presentation/graph"
	"github.com/phenogo/phenogo/pkg/domain"
	"github.com/phenogo/phenogo/pkg/population"
	"github.com/phenogo/phenogo/pkg/ports"
)

// lockTTL bounds how long a crashed process can hold a shared run lock.
const lockTTL = 30 * time.Second

type run struct {
	population *population.Population
	phenotype  string
	steps      int
	stats      population.Stats
}

// Server hosts simulation runs over HTTP.
type Server struct {
	loader ports.SpecLoader
	store  ports.RunStore
	locker ports.RunLocker
	logger *slog.Logger

	mu      sync.Mutex
	runs    map[string]*run
	metrics *metrics
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRunStore persists a snapshot after every step.
func WithRunStore(store ports.RunStore) ServerOption {
	return func(s *Server) {
		s.store = store
	}
}

// WithRunLocker takes a per-run lock around each step, for deployments
// where several instances share one run store.
func WithRunLocker(locker ports.RunLocker) ServerOption {
	return func(s *Server) {
		s.locker = locker
	}
}

// WithLogger sets the request/step logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds a server over the given definition source.
func NewServer(loader ports.SpecLoader, opts ...ServerOption) *Server {
	s := &Server{
		loader:  loader,
		logger:  slog.Default(),
		runs:    make(map[string]*run),
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/phenotypes", s.handleListPhenotypes)
	r.Get("/phenotypes/{name}", s.handleGetPhenotype)

	r.Post("/runs", s.handleCreateRun)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Post("/runs/{id}/step", s.handleStepRun)
	r.Delete("/runs/{id}", s.handleDeleteRun)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListPhenotypes(w http.ResponseWriter, r *http.Request) {
	names, err := s.loader.List()
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to list phenotypes: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"phenotypes": names})
}

type phaseView struct {
	ID            string `json:"id"`
	Next          string `json:"next,omitempty"`
	Rule          string `json:"rule"`
	DividesAtExit bool   `json:"divides_at_exit,omitempty"`
	RemovesAtExit bool   `json:"removes_at_exit,omitempty"`
}

func (s *Server) handleGetPhenotype(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	spec, err := s.loader.Load(name)
	if err != nil {
		if errors.Is(err, domain.ErrSpecNotFound) {
			http.Error(w, "phenotype not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to load phenotype: %v", err), http.StatusInternalServerError)
		return
	}

	phases := make([]phaseView, 0, len(spec.Phases))
	for _, p := range spec.Phases {
		phases = append(phases, phaseView{
			ID:            p.ID,
			Next:          p.Next,
			Rule:          p.Rule.Describe(),
			DividesAtExit: p.DividesAtExit,
			RemovesAtExit: p.RemovesAtExit,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        spec.Name,
		"description": spec.Description,
		"phases":      phases,
		"mermaid":     graph.GenerateMermaid(*spec, nil),
	})
}

type createRunRequest struct {
	Phenotype string `json:"phenotype"`
	Cells     int    `json:"cells"`
	Seed      int64  `json:"seed"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Cells <= 0 {
		req.Cells = 1
	}

	spec, err := s.loader.Load(req.Phenotype)
	if err != nil {
		if errors.Is(err, domain.ErrSpecNotFound) {
			http.Error(w, "phenotype not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("failed to load phenotype: %v", err), http.StatusInternalServerError)
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pop, err := population.New(req.Cells, func() (*phenogo.Phenotype, error) {
		return phenogo.New(*spec, phenogo.WithUniform(rng))
	}, population.WithLogger(s.logger))
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			http.Error(w, cfgErr.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, fmt.Sprintf("failed to build population: %v", err), http.StatusInternalServerError)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.runs[id] = &run{population: pop, phenotype: spec.Name}
	s.mu.Unlock()
	s.metrics.runsCreated.Inc()

	s.logger.Info("run created", "run", id, "phenotype", spec.Name, "cells", req.Cells, "seed", seed)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        id,
		"phenotype": spec.Name,
		"cells":     req.Cells,
		"seed":      seed,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.runs))
	for id := range s.runs {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"runs": ids})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	rn, ok := s.runs[id]
	if !ok {
		s.mu.Unlock()
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	snap := rn.population.Snapshot()
	steps := rn.steps
	stats := rn.stats
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"steps":    steps,
		"stats":    statsView(stats),
		"snapshot": snap,
	})
}

type stepRunRequest struct {
	Dt    float64 `json:"dt"`
	Steps int     `json:"steps"`
}

func (s *Server) handleStepRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req stepRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Dt <= 0 {
		http.Error(w, "dt must be > 0", http.StatusBadRequest)
		return
	}
	if req.Steps <= 0 {
		req.Steps = 1
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(r.Context(), id, lockTTL)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to lock run: %v", err), http.StatusConflict)
			return
		}
		defer func() {
			if err := unlock(context.WithoutCancel(r.Context())); err != nil {
				s.logger.Warn("failed to release run lock", "run", id, "error", err)
			}
		}()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rn, ok := s.runs[id]
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	for i := 0; i < req.Steps; i++ {
		stats, err := rn.population.Step(req.Dt)
		if err != nil {
			http.Error(w, fmt.Sprintf("step failed: %v", err), http.StatusInternalServerError)
			return
		}
		rn.steps++
		rn.stats.Divisions += stats.Divisions
		rn.stats.Removals += stats.Removals
		rn.stats.Senescent += stats.Senescent
		rn.stats.Cells = stats.Cells

		s.metrics.stepsTotal.WithLabelValues(rn.phenotype).Inc()
		s.metrics.divisionsTotal.WithLabelValues(rn.phenotype).Add(float64(stats.Divisions))
		s.metrics.removalsTotal.WithLabelValues(rn.phenotype).Add(float64(stats.Removals))
	}
	s.metrics.cellsGauge.WithLabelValues(rn.phenotype).Set(float64(rn.stats.Cells))

	if s.store != nil {
		if err := s.store.Save(r.Context(), id, rn.population.Snapshot()); err != nil {
			s.logger.Warn("failed to persist snapshot", "run", id, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"steps": rn.steps,
		"stats": statsView(rn.stats),
	})
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.runs[id]
	delete(s.runs, id)
	s.mu.Unlock()

	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if s.store != nil {
		if err := s.store.Delete(r.Context(), id); err != nil {
			s.logger.Warn("failed to delete stored run", "run", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func statsView(st population.Stats) map[string]int {
	return map[string]int{
		"cells":     st.Cells,
		"divisions": st.Divisions,
		"removals":  st.Removals,
		"senescent": st.Senescent,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
