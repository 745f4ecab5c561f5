// Package grid computes time-to-equilibrium over a grid of
// (initial temperature, ambient temperature) pairs.
package grid

import (
	"context"
	"fmt"
	"math"

	"thawlab/internal/sim"
	"thawlab/internal/thermal"
)

// NotConverged marks a grid cell whose temperature gap never closed to
// within the tolerance before the horizon ran out. The value sits
// outside the valid time range [0, horizon] so plots can single it out.
const NotConverged = -1.0

// DefaultTolerance is the convergence band around the ambient
// temperature, in °C.
const DefaultTolerance = 1.0

// Range is an inclusive temperature interval in °C.
type Range struct {
	Low  float64
	High float64
}

func (r Range) valid() bool {
	return r.Low <= r.High
}

// Config holds every constant of a grid computation. It is treated as
// immutable once handed to New.
type Config struct {
	Body              thermal.Body
	HeatTransferCoeff float64 // W/m²K

	Horizon float64 // s
	Steps   int

	InitRange    Range
	AmbientRange Range
	Samples      int // samples per axis

	Tolerance float64 // °C, DefaultTolerance when zero
	Workers   int     // parallel cell workers, NumCPU-1 when zero
}

// Validate reports the first configuration error, wrapped around
// sim.ErrInvalidConfig.
func (c Config) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"width", c.Body.Width},
		{"length", c.Body.Length},
		{"height", c.Body.Height},
		{"density", c.Body.Density},
		{"specific heat", c.Body.SpecificHeat},
		{"heat transfer coefficient", c.HeatTransferCoeff},
		{"horizon", c.Horizon},
	}
	for _, ch := range checks {
		if ch.val <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", sim.ErrInvalidConfig, ch.name, ch.val)
		}
	}
	if c.Steps < 2 {
		return fmt.Errorf("%w: need at least 2 steps, got %d", sim.ErrInvalidConfig, c.Steps)
	}
	if !c.InitRange.valid() {
		return fmt.Errorf("%w: initial range inverted (%g > %g)", sim.ErrInvalidConfig, c.InitRange.Low, c.InitRange.High)
	}
	if !c.AmbientRange.valid() {
		return fmt.Errorf("%w: ambient range inverted (%g > %g)", sim.ErrInvalidConfig, c.AmbientRange.Low, c.AmbientRange.High)
	}
	if c.Samples < 1 {
		return fmt.Errorf("%w: need at least 1 sample per axis, got %d", sim.ErrInvalidConfig, c.Samples)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative, got %g", sim.ErrInvalidConfig, c.Tolerance)
	}
	return nil
}

func (c Config) tolerance() float64 {
	if c.Tolerance == 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}

// Result is the output grid. Times is row-major with the initial
// temperature on the outer axis: Times[i][j] is the convergence time
// for InitTemps[i] cooling (or warming) toward AmbientTemps[j], or
// NotConverged. Row and column indices always align with the sampled
// axis slices.
type Result struct {
	InitTemps    []float64   `json:"init_temps"`
	AmbientTemps []float64   `json:"ambient_temps"`
	Times        [][]float64 `json:"times"`
}

// Converged reports whether cell (i, j) reached the tolerance band.
func (r *Result) Converged(i, j int) bool {
	return r.Times[i][j] != NotConverged
}

// ConvergedCount returns how many cells converged within the horizon.
func (r *Result) ConvergedCount() int {
	n := 0
	for i := range r.Times {
		for j := range r.Times[i] {
			if r.Times[i][j] != NotConverged {
				n++
			}
		}
	}
	return n
}

// MinMax returns the smallest and largest converged times. ok is false
// when no cell converged.
func (r *Result) MinMax() (min, max float64, ok bool) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for i := range r.Times {
		for j := range r.Times[i] {
			v := r.Times[i][j]
			if v == NotConverged {
				continue
			}
			ok = true
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}

// Simulator evaluates convergence times over the configured grid.
type Simulator struct {
	cfg      Config
	newInteg func() sim.Integrator
}

// New validates the configuration and builds a simulator. newIntegrator
// must return a fresh integrator per call; integrators keep scratch
// buffers and are not shared across workers.
func New(cfg Config, newIntegrator func() sim.Integrator) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg, newInteg: newIntegrator}, nil
}

// Config returns the simulator's configuration.
func (s *Simulator) Config() Config {
	return s.cfg
}

// ConvergenceTime returns the elapsed time at which the body's
// temperature first comes within the tolerance of ambient, checked at
// each of the Steps samples over [0, Horizon]. It returns NotConverged
// when no sample qualifies. A pair already inside the tolerance band
// converges at t=0 with no integration.
func (s *Simulator) ConvergenceTime(ctx context.Context, tinit, ambient float64) (float64, error) {
	return s.convergenceTime(ctx, tinit, ambient, s.newInteg())
}

func (s *Simulator) convergenceTime(ctx context.Context, tinit, ambient float64, integ sim.Integrator) (float64, error) {
	tol := s.cfg.tolerance()
	if math.Abs(tinit-ambient) <= tol {
		return 0, nil
	}

	dyn := thermal.NewCooling(s.cfg.Body, s.cfg.HeatTransferCoeff, ambient)
	runner := sim.New(dyn, integ)
	cfg := sim.Config{Horizon: s.cfg.Horizon, Steps: s.cfg.Steps}

	t, found, err := runner.RunUntil(ctx, sim.State{tinit}, cfg, func(x sim.State, _ float64) bool {
		return math.Abs(x[0]-ambient) <= tol
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return NotConverged, nil
	}
	return t, nil
}

// Compute evaluates ConvergenceTime for every sampled
// (initial, ambient) pair and returns the full grid. Cells are
// independent and evaluated by a worker pool; each writes a disjoint
// index, so the output does not depend on scheduling. The context
// cancels the whole computation.
func (s *Simulator) Compute(ctx context.Context) (*Result, error) {
	return s.ComputeWithProgress(ctx, nil)
}

// ComputeWithProgress is Compute with a per-row callback. Rows run in
// order and onRow is always called from the calling goroutine, so the
// callback needs no locking.
func (s *Simulator) ComputeWithProgress(ctx context.Context, onRow func(row, rows int)) (*Result, error) {
	result := &Result{
		InitTemps:    Linspace(s.cfg.InitRange.Low, s.cfg.InitRange.High, s.cfg.Samples),
		AmbientTemps: Linspace(s.cfg.AmbientRange.Low, s.cfg.AmbientRange.High, s.cfg.Samples),
	}

	rows := len(result.InitTemps)
	cols := len(result.AmbientTemps)
	result.Times = make([][]float64, rows)
	for i := range result.Times {
		result.Times[i] = make([]float64, cols)
	}

	workers := s.workers()
	errs := make([]error, workers)

	for i := 0; i < rows; i++ {
		row := result.Times[i]
		tinit := result.InitTemps[i]

		parallelFor(cols, workers, func(worker, start, end int) {
			integ := s.newInteg()
			for j := start; j < end; j++ {
				t, err := s.convergenceTime(ctx, tinit, result.AmbientTemps[j], integ)
				if err != nil {
					errs[worker] = err
					return
				}
				row[j] = t
			}
		})

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}

		if onRow != nil {
			onRow(i+1, rows)
		}
	}

	return result, nil
}

func (s *Simulator) workers() int {
	if s.cfg.Workers > 0 {
		return s.cfg.Workers
	}
	return defaultWorkers()
}

// Linspace returns n evenly spaced samples over [low, high], endpoints
// included. With n == 1 it returns just low.
func Linspace(low, high float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = low
		return out
	}
	step := (high - low) / float64(n-1)
	for i := range out {
		out[i] = low + float64(i)*step
	}
	return out
}
