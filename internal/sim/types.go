package sim

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Dynamics describes an ODE system dX/dt = f(X, t).
type Dynamics interface {
	Derivative(x State, t float64) State
	Dim() int
}

// Integrator advances a state by one fixed timestep.
type Integrator interface {
	Step(dyn Dynamics, x State, t float64, dt float64) State
}

// Config describes a fixed-horizon integration: Steps samples spaced
// evenly over [0, Horizon], the first at t=0 and the last at t=Horizon.
type Config struct {
	Horizon float64
	Steps   int
}

// Dt returns the spacing between consecutive samples.
func (c Config) Dt() float64 {
	return c.Horizon / float64(c.Steps-1)
}

// Trajectory is the ordered sequence of (time, state) samples from a run.
type Trajectory struct {
	States []State
	Times  []float64
}
