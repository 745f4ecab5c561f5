// Package export renders result grids to static SVG images.
package export

import (
	"fmt"
	"strings"

	"thawlab/internal/grid"
	"thawlab/internal/viz"
)

// SVG renders the grid as a static heatmap image, one rectangle per
// cell. Rows follow the grid layout: initial temperature on the
// vertical axis (highest on top), ambient temperature on the
// horizontal. Non-converged cells are drawn grey.
func SVG(result *grid.Result, cellSize int) string {
	rows := len(result.InitTemps)
	cols := len(result.AmbientTemps)
	if rows == 0 || cols == 0 || cellSize < 1 {
		return ""
	}

	const margin = 60
	width := cols*cellSize + 2*margin
	height := rows*cellSize + 2*margin

	min, max, ok := result.MinMax()
	span := max - min
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height))

	for i := 0; i < rows; i++ {
		// Highest initial temperature on top.
		y := margin + (rows-1-i)*cellSize
		for j := 0; j < cols; j++ {
			x := margin + j*cellSize
			v := result.Times[i][j]

			fill := "#bbbbbb"
			if v != grid.NotConverged && ok {
				fill = rampHex((v - min) / span)
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, x, y, cellSize, cellSize, fill))
		}
	}

	// Axis labels from the sampled ranges, so they always align with
	// the cell indices.
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-family="sans-serif" font-size="12" text-anchor="middle">Ambient Temperature (°C): %.1f – %.1f</text>
`, width/2, height-margin/3, result.AmbientTemps[0], result.AmbientTemps[cols-1]))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-family="sans-serif" font-size="12" text-anchor="middle" transform="rotate(-90 %d %d)">Initial Temperature (°C): %.1f – %.1f</text>
`, margin/3, height/2, margin/3, height/2, result.InitTemps[0], result.InitTemps[rows-1]))

	if ok {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-family="sans-serif" font-size="12">%s – %s, grey = no equilibrium</text>
`, margin, margin/2, viz.FormatDuration(min), viz.FormatDuration(max)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// rampHex mirrors the terminal heatmap ramp so both renderings agree.
func rampHex(t float64) string {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	r := int(0x3b) + int(t*float64(0xb4-0x3b))
	g := int(0x4c) + int(t*float64(0x04-0x4c))
	b := int(0xc0) + int(t*float64(0x26-0xc0))
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
