// Package viz renders result grids and trajectories in the terminal.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"thawlab/internal/grid"
)

var (
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	stuckStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// FormatDuration renders seconds as "2h 46m", matching the plot tick
// labels of the original study. Sub-minute values render as seconds.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		return "n/a"
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours == 0 && minutes == 0 {
		return fmt.Sprintf("%ds", total)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// Heatmap renders the grid as a colored block map, initial temperature
// down the left edge and ambient temperature along the bottom, matching
// the grid's row-major (initial outer, ambient inner) layout. Cells
// that never converged render as grey dots. maxCells caps each axis;
// larger grids are downsampled by striding.
func Heatmap(result *grid.Result, maxCells int) string {
	if len(result.Times) == 0 || maxCells < 1 {
		return ""
	}

	min, max, ok := result.MinMax()
	span := max - min
	if span == 0 {
		span = 1
	}

	rowStride := stride(len(result.InitTemps), maxCells)
	colStride := stride(len(result.AmbientTemps), maxCells)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("time to equilibrium"))
	sb.WriteString("\n\n")

	// Highest initial temperature on top.
	for i := len(result.InitTemps) - 1; i >= 0; i -= rowStride {
		sb.WriteString(axisStyle.Render(fmt.Sprintf("%7.1f ", result.InitTemps[i])))
		for j := 0; j < len(result.AmbientTemps); j += colStride {
			v := result.Times[i][j]
			if v == grid.NotConverged || !ok {
				sb.WriteString(stuckStyle.Render("··"))
				continue
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(rampColor((v - min) / span)))
			sb.WriteString(style.Render("██"))
		}
		sb.WriteString("\n")
	}

	cols := (len(result.AmbientTemps) + colStride - 1) / colStride
	sb.WriteString(axisStyle.Render(fmt.Sprintf("%7.1f ", result.AmbientTemps[0])))
	pad := 2*cols - len(fmt.Sprintf("%.1f", result.AmbientTemps[len(result.AmbientTemps)-1]))
	if pad < 1 {
		pad = 1
	}
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(axisStyle.Render(fmt.Sprintf("%.1f", result.AmbientTemps[len(result.AmbientTemps)-1])))
	sb.WriteString("\n")
	sb.WriteString(axisStyle.Render("        init °C ↑   ambient °C →"))
	sb.WriteString("\n")

	if ok {
		sb.WriteString(fmt.Sprintf("\n%s %s  %s %s  %s %s\n",
			axisStyle.Render("fastest:"), FormatDuration(min),
			axisStyle.Render("slowest:"), FormatDuration(max),
			axisStyle.Render("··"), "no equilibrium within horizon"))
	}

	return sb.String()
}

func stride(n, max int) int {
	s := (n + max - 1) / max
	if s < 1 {
		s = 1
	}
	return s
}

// rampColor maps a normalized value to a cool-to-warm hex color.
func rampColor(t float64) string {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	// #3b4cc0 (cool blue) to #b40426 (warm red).
	r := int(0x3b) + int(t*float64(0xb4-0x3b))
	g := int(0x4c) + int(t*float64(0x04-0x4c))
	b := int(0xc0) + int(t*float64(0x26-0xc0))
	return hexColor(r, g, b)
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
