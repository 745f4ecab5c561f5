package viz

import (
	"strings"
	"testing"

	"thawlab/internal/grid"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{-1, "n/a"},
		{grid.NotConverged, "n/a"},
		{0, "0s"},
		{42.7, "42s"},
		{60, "0h 1m"},
		{3600, "1h 0m"},
		{9960, "2h 46m"},
		{86400, "24h 0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%g) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestHeatmap(t *testing.T) {
	result := &grid.Result{
		InitTemps:    []float64{0, 5},
		AmbientTemps: []float64{15, 20},
		Times: [][]float64{
			{1000, 2000},
			{grid.NotConverged, 500},
		},
	}

	out := Heatmap(result, 40)
	if !strings.Contains(out, "time to equilibrium") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "··") {
		t.Error("missing sentinel cell marker")
	}
	if !strings.Contains(out, "fastest:") || !strings.Contains(out, "slowest:") {
		t.Error("missing min/max footer")
	}
	if !strings.Contains(out, FormatDuration(500)) || !strings.Contains(out, FormatDuration(2000)) {
		t.Error("footer durations missing")
	}
}

func TestHeatmapEmpty(t *testing.T) {
	if out := Heatmap(&grid.Result{}, 40); out != "" {
		t.Errorf("empty grid rendered %q", out)
	}
}

func TestHeatmapAllStuck(t *testing.T) {
	result := &grid.Result{
		InitTemps:    []float64{0},
		AmbientTemps: []float64{100},
		Times:        [][]float64{{grid.NotConverged}},
	}
	out := Heatmap(result, 40)
	if !strings.Contains(out, "··") {
		t.Error("stuck cell not marked")
	}
	if strings.Contains(out, "fastest:") {
		t.Error("footer should be absent when nothing converged")
	}
}

func TestRampColorBounds(t *testing.T) {
	if got := rampColor(0); got != "#3b4cc0" {
		t.Errorf("cold end = %s", got)
	}
	if got := rampColor(1); got != "#b40426" {
		t.Errorf("warm end = %s", got)
	}
	if got := rampColor(-5); got != rampColor(0) {
		t.Errorf("underflow not clamped: %s", got)
	}
	if got := rampColor(5); got != rampColor(1) {
		t.Errorf("overflow not clamped: %s", got)
	}
}
