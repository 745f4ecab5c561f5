// Package thermal provides the lumped-capacitance cooling model used by
// the grid simulator.
//
// A [Body] describes a rectangular object by its dimensions and material
// constants. [Cooling] implements [sim.Dynamics] for Newton's law of
// cooling, dT/dt = -k(T - ambient), with the cooling coefficient derived
// from the body's surface area, mass and specific heat.
package thermal

import (
	"math"

	"thawlab/internal/sim"
)

// Body is a rectangular object. Dimensions are in cm, density in g/cm³,
// specific heat in J/(g·°C).
type Body struct {
	Width        float64
	Length       float64
	Height       float64
	Density      float64
	SpecificHeat float64
}

// Volume in cm³.
func (b Body) Volume() float64 {
	return b.Width * b.Length * b.Height
}

// Mass in g.
func (b Body) Mass() float64 {
	return b.Volume() * b.Density
}

// SurfaceArea in m², converted from cm².
func (b Body) SurfaceArea() float64 {
	return 2 * (b.Width*b.Length + b.Width*b.Height + b.Length*b.Height) / 10000
}

// Cooling is the Newton's-law-of-cooling system for a body in an
// environment at a fixed ambient temperature.
type Cooling struct {
	Ambient float64
	k       float64
}

// NewCooling derives the cooling coefficient k = h·A/(m·c) from the
// convective heat-transfer coefficient h (W/m²K) and the body.
func NewCooling(b Body, heatTransferCoeff, ambient float64) *Cooling {
	return &Cooling{
		Ambient: ambient,
		k:       heatTransferCoeff * b.SurfaceArea() / (b.Mass() * b.SpecificHeat),
	}
}

func (c *Cooling) Dim() int { return 1 }

func (c *Cooling) Derivative(x sim.State, t float64) sim.State {
	return sim.State{-c.k * (x[0] - c.Ambient)}
}

// Coefficient returns the cooling constant k in 1/s.
func (c *Cooling) Coefficient() float64 {
	return c.k
}

// TimeConstant returns 1/k, the time for the temperature gap to shrink
// by a factor of e.
func (c *Cooling) TimeConstant() float64 {
	return 1 / c.k
}

// TimeToWithin returns the analytic time for the gap |tinit - ambient|
// to shrink to tol. Used as a cross-check against the sampled search;
// the simulator itself always uses the sampled sequence.
func (c *Cooling) TimeToWithin(tinit, tol float64) float64 {
	gap := math.Abs(tinit - c.Ambient)
	if gap <= tol {
		return 0
	}
	return math.Log(gap/tol) / c.k
}
