package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"thawlab/internal/sim"
)

// Trajectory plots a single cooling curve with the ambient temperature
// and the convergence time in the caption.
func Trajectory(traj *sim.Trajectory, ambient, convergence float64) string {
	data := make([]float64, len(traj.States))
	for i := range traj.States {
		data[i] = traj.States[i][0]
	}

	caption := fmt.Sprintf("temperature °C (ambient %.1f", ambient)
	if convergence >= 0 {
		caption += fmt.Sprintf(", settled after %s)", FormatDuration(convergence))
	} else {
		caption += ", never settled)"
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)

	var sb strings.Builder
	sb.WriteString(graph)
	sb.WriteString("\n")
	if len(traj.Times) > 0 {
		sb.WriteString(axisStyle.Render(
			fmt.Sprintf("t: 0 .. %s, %d samples", FormatDuration(traj.Times[len(traj.Times)-1]), len(traj.Times))))
		sb.WriteString("\n")
	}
	return sb.String()
}
