package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"thawlab/internal/assist"
	"thawlab/internal/config"
	"thawlab/internal/export"
	"thawlab/internal/grid"
	"thawlab/internal/integrators"
	"thawlab/internal/live"
	"thawlab/internal/server"
	"thawlab/internal/sim"
	"thawlab/internal/store"
	"thawlab/internal/thermal"
	"thawlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string

	horizon   float64
	steps     int
	samples   int
	tolerance float64
	workers   int
	coeff     float64

	initLow     float64
	initHigh    float64
	ambientLow  float64
	ambientHigh float64

	// Single-pair flags for run/live.
	initTemp    float64
	ambientTemp float64

	addr     string
	svgOut   string
	cellSize int
	heatmapW int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thawlab",
		Short: "thermal cooling experiments lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".thawlab", "data directory")

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "compute the cooling-time grid",
		RunE:  runGrid,
	}
	addSimFlags(gridCmd)
	gridCmd.Flags().Float64Var(&initLow, "init-low", 0, "initial range low (°C)")
	gridCmd.Flags().Float64Var(&initHigh, "init-high", 5, "initial range high (°C)")
	gridCmd.Flags().Float64Var(&ambientLow, "ambient-low", 5, "ambient range low (°C)")
	gridCmd.Flags().Float64Var(&ambientHigh, "ambient-high", 21, "ambient range high (°C)")
	gridCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "samples per axis")
	gridCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = cpu count - 1)")
	gridCmd.Flags().IntVar(&heatmapW, "cells", 40, "max heatmap cells per axis")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate a single pair and plot the trajectory",
		RunE:  runPair,
	}
	addSimFlags(runCmd)
	runCmd.Flags().Float64Var(&initTemp, "init", 0, "initial temperature (°C)")
	runCmd.Flags().Float64Var(&ambientTemp, "ambient", 20, "ambient temperature (°C)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate a single cooling trajectory",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().Float64Var(&initTemp, "init", 0, "initial temperature (°C)")
	liveCmd.Flags().Float64Var(&ambientTemp, "ambient", 20, "ambient temperature (°C)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "render a saved grid as a terminal heatmap",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&heatmapW, "cells", 40, "max heatmap cells per axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved grid to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a saved grid to an SVG heatmap",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "grid.svg", "output file")
	exportSVGCmd.Flags().IntVar(&cellSize, "cell", 6, "cell size in px")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named study presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve grid computations to a browser plotter over websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			return server.New(addr, log).Serve()
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":9000", "listen address")

	askCmd := &cobra.Command{
		Use:   "ask \"<your query>\"",
		Short: "ask for a shell command, confirm, then run it",
		Args:  cobra.ExactArgs(1),
		RunE:  runAsk,
	}

	rootCmd.AddCommand(gridCmd, runCmd, liveCmd, listCmd, showCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, serveCmd, askCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().Float64Var(&horizon, "horizon", config.DefaultHorizon, "simulation horizon (s)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "integration samples over the horizon")
	cmd.Flags().Float64Var(&tolerance, "tolerance", grid.DefaultTolerance, "convergence tolerance (°C)")
	cmd.Flags().Float64Var(&coeff, "h", config.DefaultHeatTransfer, "convective heat-transfer coefficient (W/m²K)")
}

// buildConfig layers preset, config file, then changed CLI flags, the
// same precedence the flags help implies: flags always win.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("horizon") {
		cfg.Horizon = horizon
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("h") {
		cfg.HeatTransfer = coeff
	}
	if cmd.Flags().Changed("samples") {
		cfg.Samples = samples
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("init-low") {
		cfg.InitRange.Low = initLow
	}
	if cmd.Flags().Changed("init-high") {
		cfg.InitRange.High = initHigh
	}
	if cmd.Flags().Changed("ambient-low") {
		cfg.AmbientRange.Low = ambientLow
	}
	if cmd.Flags().Changed("ambient-high") {
		cfg.AmbientRange.High = ambientHigh
	}

	return cfg, nil
}

func newIntegratorFactory(name string) (func() sim.Integrator, error) {
	if _, err := integrators.New(name); err != nil {
		return nil, err
	}
	return func() sim.Integrator {
		integ, _ := integrators.New(name)
		return integ
	}, nil
}

func runGrid(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	newInteg, err := newIntegratorFactory(cfg.Integrator)
	if err != nil {
		return err
	}

	s, err := grid.New(cfg.ToGrid(), newInteg)
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("computing %dx%d grid (%d samples per trajectory)...\n",
		cfg.Samples, cfg.Samples, cfg.Steps)
	start := time.Now()

	result, err := s.Compute(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(preset, cfg.Integrator, s.Config(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("converged: %d/%d cells\n\n",
		result.ConvergedCount(), len(result.InitTemps)*len(result.AmbientTemps))

	fmt.Println(viz.Heatmap(result, heatmapW))
	return nil
}

func runPair(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	newInteg, err := newIntegratorFactory(cfg.Integrator)
	if err != nil {
		return err
	}

	s, err := grid.New(cfg.ToGrid(), newInteg)
	if err != nil {
		return err
	}

	ct, err := s.ConvergenceTime(context.Background(), initTemp, ambientTemp)
	if err != nil {
		return err
	}

	gcfg := cfg.ToGrid()
	dyn := thermal.NewCooling(gcfg.Body, gcfg.HeatTransferCoeff, ambientTemp)
	runner := sim.New(dyn, newInteg())
	traj, err := runner.Run(context.Background(), sim.State{initTemp}, sim.Config{
		Horizon: gcfg.Horizon,
		Steps:   gcfg.Steps,
	})
	if err != nil {
		return err
	}

	fmt.Println(viz.Trajectory(traj, ambientTemp, ct))

	if ct == grid.NotConverged {
		fmt.Println("no equilibrium within the horizon")
	} else {
		fmt.Printf("time to within %.1f °C of ambient: %s (%.0f s)\n",
			gcfg.Tolerance, viz.FormatDuration(ct), ct)
	}
	fmt.Printf("cooling constant k: %.3e 1/s (time constant %s)\n",
		dyn.Coefficient(), viz.FormatDuration(dyn.TimeConstant()))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	gcfg := cfg.ToGrid()
	if err := gcfg.Validate(); err != nil {
		return err
	}

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return err
	}

	dyn := thermal.NewCooling(gcfg.Body, gcfg.HeatTransferCoeff, ambientTemp)
	m := live.NewModel(dyn, integ, initTemp, sim.Config{
		Horizon: gcfg.Horizon,
		Steps:   gcfg.Steps,
	}, gcfg.Tolerance)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tCELLS\tCONVERGED\tHORIZON\tINTEG")

	for _, run := range runs {
		presetName := run.Preset
		if presetName == "" {
			presetName = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0fs\t%s\n",
			run.ID,
			presetName,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cells,
			run.Converged,
			run.Horizon,
			run.Integrator,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	result, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("horizon: %s, tolerance: %.1f °C\n\n",
		viz.FormatDuration(meta.Horizon), meta.Tolerance)
	fmt.Println(viz.Heatmap(result, heatmapW))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	result, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}
	return store.WriteCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSON(os.Stdout, meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	result, err := st.LoadGrid(args[0])
	if err != nil {
		return err
	}

	svg := export.SVG(result, cellSize)
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	log := assist.NewLogger("bai.log")

	client, err := assist.NewClient(log)
	if err != nil {
		return err
	}

	info := assist.DetectSystem()

	fmt.Println("waiting for response...")
	reply, err := client.Ask(context.Background(), args[0], info)
	if err != nil {
		return err
	}

	assist.Render(os.Stdout, reply)
	return assist.ConfirmAndRun(os.Stdin, os.Stdout, reply.Command, log)
}
