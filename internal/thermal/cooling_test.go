package thermal

import (
	"math"
	"testing"

	"thawlab/internal/sim"
)

// The gel-pack block from the original study: 4x6x3 cm, density 1.04,
// specific heat 4.0, h = 10 W/m²K.
var gelPack = Body{
	Width:        4.0,
	Length:       6.0,
	Height:       3.0,
	Density:      1.04,
	SpecificHeat: 4.0,
}

func TestBodyDerivedQuantities(t *testing.T) {
	if v := gelPack.Volume(); v != 72.0 {
		t.Errorf("expected volume 72 cm³, got %f", v)
	}
	if m := gelPack.Mass(); math.Abs(m-74.88) > 1e-9 {
		t.Errorf("expected mass 74.88 g, got %f", m)
	}
	// 2*(24 + 12 + 18) = 108 cm² = 0.0108 m²
	if a := gelPack.SurfaceArea(); math.Abs(a-0.0108) > 1e-12 {
		t.Errorf("expected surface area 0.0108 m², got %f", a)
	}
}

func TestCoolingCoefficient(t *testing.T) {
	c := NewCooling(gelPack, 10.0, 20.0)

	expected := 10.0 * 0.0108 / (74.88 * 4.0)
	if math.Abs(c.Coefficient()-expected) > 1e-12 {
		t.Errorf("expected k=%.8e, got %.8e", expected, c.Coefficient())
	}
	if math.Abs(c.TimeConstant()-1/expected) > 1e-6 {
		t.Errorf("expected time constant %.2f, got %.2f", 1/expected, c.TimeConstant())
	}
}

func TestCoolingDerivativeSign(t *testing.T) {
	c := NewCooling(gelPack, 10.0, 20.0)

	// Below ambient the temperature must rise, above it must fall.
	if d := c.Derivative(sim.State{0.0}, 0); d[0] <= 0 {
		t.Errorf("expected warming below ambient, got dT/dt=%f", d[0])
	}
	if d := c.Derivative(sim.State{30.0}, 0); d[0] >= 0 {
		t.Errorf("expected cooling above ambient, got dT/dt=%f", d[0])
	}
	if d := c.Derivative(sim.State{20.0}, 0); d[0] != 0 {
		t.Errorf("expected zero rate at ambient, got dT/dt=%f", d[0])
	}
}

func TestTimeToWithin(t *testing.T) {
	c := NewCooling(gelPack, 10.0, 20.0)

	// Already inside the band.
	if ct := c.TimeToWithin(19.5, 1.0); ct != 0 {
		t.Errorf("expected 0 inside tolerance, got %f", ct)
	}

	// A gap of 20 shrinking to 1 takes ln(20)/k.
	expected := math.Log(20.0) / c.Coefficient()
	if ct := c.TimeToWithin(0.0, 1.0); math.Abs(ct-expected) > 1e-6 {
		t.Errorf("expected %.2f, got %.2f", expected, ct)
	}

	// Symmetric for warming and cooling.
	if c.TimeToWithin(0.0, 1.0) != c.TimeToWithin(40.0, 1.0) {
		t.Error("expected the same time for equal gaps on either side")
	}
}
