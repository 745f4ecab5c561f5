package sim

import (
	"context"
	"fmt"
)

type Simulator struct {
	dyn        Dynamics
	integrator Integrator
}

func New(dyn Dynamics, integrator Integrator) *Simulator {
	return &Simulator{dyn: dyn, integrator: integrator}
}

// Run integrates from x0 over [0, cfg.Horizon] and returns the full
// trajectory of cfg.Steps samples, the first being x0 at t=0.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Trajectory, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	traj := &Trajectory{
		States: make([]State, 0, cfg.Steps),
		Times:  make([]float64, 0, cfg.Steps),
	}

	x := x0.Clone()
	dt := cfg.Dt()

	traj.States = append(traj.States, x.Clone())
	traj.Times = append(traj.Times, 0)

	for i := 1; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}

		t := float64(i-1) * dt
		x = s.integrator.Step(s.dyn, x, t, dt)

		if !x.IsValid() {
			return traj, fmt.Errorf("%w at t=%.4f", ErrInvalidState, t+dt)
		}

		traj.States = append(traj.States, x.Clone())
		traj.Times = append(traj.Times, float64(i)*dt)
	}

	return traj, nil
}

// RunUntil integrates like Run but stops at the first sample (including
// x0 at t=0) for which stop returns true. It reports the time of that
// sample and whether any sample qualified before the horizon ran out.
func (s *Simulator) RunUntil(ctx context.Context, x0 State, cfg Config, stop func(x State, t float64) bool) (float64, bool, error) {
	if err := validateConfig(cfg); err != nil {
		return 0, false, err
	}

	x := x0.Clone()
	dt := cfg.Dt()

	if stop(x, 0) {
		return 0, true, nil
	}

	for i := 1; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return 0, false, ctx.Err()
		default:
		}

		t := float64(i-1) * dt
		x = s.integrator.Step(s.dyn, x, t, dt)

		if !x.IsValid() {
			return 0, false, fmt.Errorf("%w at t=%.4f", ErrInvalidState, t+dt)
		}

		if stop(x, float64(i)*dt) {
			return float64(i) * dt, true, nil
		}
	}

	return 0, false, nil
}

func validateConfig(cfg Config) error {
	if cfg.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %f", ErrInvalidConfig, cfg.Horizon)
	}
	if cfg.Steps < 2 {
		return fmt.Errorf("%w: need at least 2 steps, got %d", ErrInvalidConfig, cfg.Steps)
	}
	return nil
}
