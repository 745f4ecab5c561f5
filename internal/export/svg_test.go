package export

import (
	"strings"
	"testing"

	"thawlab/internal/grid"
)

func TestSVG(t *testing.T) {
	result := &grid.Result{
		InitTemps:    []float64{0, 5, 10},
		AmbientTemps: []float64{15, 20},
		Times: [][]float64{
			{1000, 2000},
			{900, 1100},
			{grid.NotConverged, 500},
		},
	}

	out := SVG(result, 10)
	if !strings.HasPrefix(out, `<?xml version="1.0"`) {
		t.Fatal("missing xml declaration")
	}
	if !strings.Contains(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Fatal("not a complete svg document")
	}

	// One background rect plus one per cell.
	if n := strings.Count(out, "<rect"); n != 1+3*2 {
		t.Errorf("got %d rects, want 7", n)
	}
	if !strings.Contains(out, `fill="#bbbbbb"`) {
		t.Error("non-converged cell not grey")
	}
	if !strings.Contains(out, "Ambient Temperature") || !strings.Contains(out, "Initial Temperature") {
		t.Error("axis labels missing")
	}
}

func TestSVGEmpty(t *testing.T) {
	if out := SVG(&grid.Result{}, 10); out != "" {
		t.Errorf("empty grid rendered %q", out)
	}
	result := &grid.Result{
		InitTemps:    []float64{0},
		AmbientTemps: []float64{20},
		Times:        [][]float64{{100}},
	}
	if out := SVG(result, 0); out != "" {
		t.Errorf("zero cell size rendered %q", out)
	}
}

func TestRampHexEndpoints(t *testing.T) {
	if got := rampHex(0); got != "#3b4cc0" {
		t.Errorf("cold end = %s", got)
	}
	if got := rampHex(1); got != "#b40426" {
		t.Errorf("warm end = %s", got)
	}
}
