// Package live animates a single cooling trajectory in the terminal.
package live

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"thawlab/internal/sim"
	"thawlab/internal/thermal"
	"thawlab/internal/viz"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("48")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps the cooling ODE a few samples per frame and graphs the
// temperature history as it goes.
type Model struct {
	dyn        *thermal.Cooling
	integrator sim.Integrator
	cfg        sim.Config

	state       sim.State
	initState   sim.State
	t           float64
	step        int
	stepsPerTic int
	tolerance   float64

	history     []float64
	running     bool
	convergedAt float64
	converged   bool
}

func NewModel(dyn *thermal.Cooling, integ sim.Integrator, tinit float64, cfg sim.Config, tolerance float64) Model {
	stepsPerTic := cfg.Steps / 300
	if stepsPerTic < 1 {
		stepsPerTic = 1
	}
	return Model{
		dyn:         dyn,
		integrator:  integ,
		cfg:         cfg,
		state:       sim.State{tinit},
		initState:   sim.State{tinit},
		stepsPerTic: stepsPerTic,
		tolerance:   tolerance,
		history:     make([]float64, 0, historyCapacity),
		running:     true,
		convergedAt: -1,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.state = m.initState.Clone()
			m.t = 0
			m.step = 0
			m.history = m.history[:0]
			m.converged = false
			m.convergedAt = -1
			m.running = true
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, tick()
	}

	return m, nil
}

func (m *Model) advance() {
	dt := m.cfg.Dt()
	for i := 0; i < m.stepsPerTic && m.step < m.cfg.Steps-1; i++ {
		m.state = m.integrator.Step(m.dyn, m.state, m.t, dt)
		m.t += dt
		m.step++

		if !m.converged && math.Abs(m.state[0]-m.dyn.Ambient) <= m.tolerance {
			m.converged = true
			m.convergedAt = m.t
		}
	}

	m.history = append(m.history, m.state[0])
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}

	if m.step >= m.cfg.Steps-1 {
		m.running = false
	}
}

func (m Model) View() string {
	s := headerStyle.Render("live cooling") + "\n"

	if len(m.history) > 1 {
		s += asciigraph.Plot(m.history,
			asciigraph.Height(12),
			asciigraph.Width(80),
		) + "\n\n"
	}

	s += labelStyle.Render("elapsed") + valueStyle.Render(viz.FormatDuration(m.t)) + "\n"
	s += labelStyle.Render("temperature") + valueStyle.Render(fmt.Sprintf("%.2f °C", m.state[0])) + "\n"
	s += labelStyle.Render("ambient") + valueStyle.Render(fmt.Sprintf("%.2f °C", m.dyn.Ambient)) + "\n"

	switch {
	case m.converged:
		s += doneStyle.Render(fmt.Sprintf("within %.1f °C after %s", m.tolerance, viz.FormatDuration(m.convergedAt))) + "\n"
	case m.step >= m.cfg.Steps-1:
		s += doneStyle.Render("horizon reached without settling") + "\n"
	}

	s += helpStyle.Render("space: pause  r: reset  q: quit")
	return s
}
