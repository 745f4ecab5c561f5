package integrators

import (
	"math"
	"testing"

	"thawlab/internal/sim"
)

type oscillator struct{}

func (o *oscillator) Derivative(x sim.State, t float64) sim.State {
	return sim.State{x[1], -x[0]}
}

func (o *oscillator) Dim() int { return 2 }

type decay struct{ k float64 }

func (d *decay) Derivative(x sim.State, t float64) sim.State {
	return sim.State{-d.k * x[0]}
}

func (d *decay) Dim() int { return 1 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := sim.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4ExponentialDecay(t *testing.T) {
	dyn := &decay{k: 0.5}
	integ := NewRK4()

	x := sim.State{10.0}
	dt := 0.1
	steps := 50

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expected := 10.0 * math.Exp(-0.5*float64(steps)*dt)
	if math.Abs(x[0]-expected) > 1e-6 {
		t.Errorf("decay error too large: got %.8f, expected %.8f", x[0], expected)
	}
}

func TestEulerDecay(t *testing.T) {
	dyn := &decay{k: 1.0}
	integ := NewEuler()

	x := sim.State{1.0}
	dt := 0.001
	steps := 1000

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expected := math.Exp(-1.0)
	if math.Abs(x[0]-expected) > 1e-3 {
		t.Errorf("decay error too large: got %.6f, expected %.6f", x[0], expected)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"euler", "rk4"} {
		integ, err := New(name)
		if err != nil {
			t.Errorf("expected integrator %q, got error: %v", name, err)
		}
		if integ == nil {
			t.Errorf("expected non-nil integrator for %q", name)
		}
	}

	if _, err := New("rk45"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	names := List()
	if len(names) != 2 {
		t.Errorf("expected 2 integrators, got %v", names)
	}
}
