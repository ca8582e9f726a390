package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/skyplane/internal/analysis"
	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/dynamo"
	"github.com/san-kum/skyplane/internal/export"
	"github.com/san-kum/skyplane/internal/flight"
	"github.com/san-kum/skyplane/internal/logging"
	"github.com/san-kum/skyplane/internal/metrics"
	"github.com/san-kum/skyplane/internal/optim"
	"github.com/san-kum/skyplane/internal/render"
	"github.com/san-kum/skyplane/internal/scenario"
	"github.com/san-kum/skyplane/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	preset     string
	theme      string
	logFile    string
	logLevel   string
	noIntro    bool
	// headless fly
	headless bool
	flyTime  float64
	// trace
	duration     float64
	scenarioFile string
	dt           float64
	series       string
	csvOut       string
	svgOut       string
	// snapshot
	snapAt   float64
	snapCols int
	snapRows int
	snapOut  string
	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// tune
	tuneGrid     []string
	tuneMetric   string
	tuneMaximize bool
	// stability
	trials  int
	perturb float64
	seed    int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "skyplane",
		Short:        "a paper plane drifting across a terminal sky",
		SilenceUsage: true,
		RunE:         fly,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logFile, "log-file", "", "write json logs to this file")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&noIntro, "no-intro", false, "skip the intro approach")

	rootCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run the frame loop without a terminal surface")
	rootCmd.Flags().Float64Var(&flyTime, "time", 10, "seconds to fly when headless")

	traceCmd := &cobra.Command{
		Use:   "trace [scenario]",
		Short: "run a scripted scenario headless and chart the flight",
		Args:  cobra.MaximumNArgs(1),
		RunE:  trace,
	}
	traceCmd.Flags().StringVar(&scenarioFile, "file", "", "scenario file (yaml)")
	traceCmd.Flags().Float64Var(&duration, "time", 0, "override scenario duration")
	traceCmd.Flags().Float64Var(&dt, "dt", 0, "override scenario frame time")
	traceCmd.Flags().StringVar(&series, "series", "x,y,z,speed,excitement", "comma separated series to plot")
	traceCmd.Flags().StringVar(&csvOut, "csv", "", "write the trace as csv to this file (- for stdout)")
	traceCmd.Flags().StringVar(&svgOut, "svg", "", "write the x/y flight path as svg to this file")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "run a scenario across a range of one config value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "scroll.boost", "config value to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 3, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 4, "number of values")

	stabilityCmd := &cobra.Command{
		Use:   "stability [scenario]",
		Short: "monte carlo check that perturbed flights stay in bounds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  stability,
	}
	stabilityCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	stabilityCmd.Flags().Float64Var(&perturb, "perturb", 1.0, "perturbation magnitude")
	stabilityCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
		},
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, name := range scenario.ListBuiltins() {
				s := scenario.Builtins[name]()
				fmt.Fprintf(w, "  %s\t%.0fs\t%s\n", name, s.Duration, s.Description)
			}
			w.Flush()
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [scenario]",
		Short: "grid search config values for the best scenario metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tune,
	}
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", []string{"scroll.boost=0:3:4"},
		"name=min:max:steps, repeatable ("+strings.Join(scenario.SweepParams(), ", ")+")")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "target_error", "metric to optimize")
	tuneCmd.Flags().BoolVar(&tuneMaximize, "maximize", false, "maximize instead of minimize")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scenario]",
		Short: "render one frame of a scenario to svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().StringVar(&scenarioFile, "file", "", "scenario file (yaml)")
	snapshotCmd.Flags().Float64Var(&snapAt, "at", 6, "scenario time to capture")
	snapshotCmd.Flags().IntVar(&snapCols, "cols", 80, "scene width in cells")
	snapshotCmd.Flags().IntVar(&snapRows, "rows", 24, "scene height in cells")
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "skyplane.svg", "output file")

	plotCmd := &cobra.Command{
		Use:   "plot <trace.csv>",
		Short: "chart a trace written by trace --csv",
		Args:  cobra.ExactArgs(1),
		RunE:  plotTrace,
	}
	plotCmd.Flags().StringVar(&series, "series", "x,y,z,speed,excitement", "comma separated series to plot")

	rootCmd.AddCommand(traceCmd, sweepCmd, stabilityCmd, tuneCmd, snapshotCmd, plotCmd,
		configCmd, presetsCmd, scenariosCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers preset, config file and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.LoadInto(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if noIntro {
		cfg.Intro.Enabled = false
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func fly(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the tui owns the terminal, so logs only go to the file
	var console io.Writer
	if headless || !viz.TerminalAvailable(os.Stdout) {
		console = os.Stderr
	}
	log, err := logging.New(cfg.Logging, console)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	if headless {
		return flyHeadless(ctx, cmd.OutOrStdout(), cfg, log)
	}
	if !viz.TerminalAvailable(os.Stdout) {
		fmt.Fprintln(cmd.ErrOrStderr(), "no interactive terminal; try `skyplane --headless` or `skyplane trace`")
	}
	return viz.Run(ctx, cfg, log)
}

func flyHeadless(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger) error {
	set := metrics.Standard(cfg.Physics.Bounds)
	surface := render.NewHeadless(render.Projection{FOV: cfg.Render.FOV, Near: cfg.Render.Near, Far: cfg.Render.Far})
	ctrl := flight.NewController(cfg, surface,
		flight.WithControllerLogger(log),
		flight.WithObserver(set.Observe))
	ctrl.OnResize(1280, 720, 1)

	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(flyTime * float64(time.Second))):
	}
	ctrl.Stop()

	frames, _, _ := surface.Stats()
	fmt.Fprintf(out, "flew %d frames (phase %s)\n\n", frames, ctrl.Simulation().Phase())
	printMetrics(out, set)
	return nil
}

func printMetrics(out io.Writer, set metrics.Set) {
	vals := set.Values()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range set.Names() {
		fmt.Fprintf(w, "%s\t%.4f\n", name, vals[name])
	}
	w.Flush()
}

func pickScenario(args []string) (*scenario.Scenario, error) {
	if scenarioFile != "" {
		return scenario.LoadScenario(scenarioFile)
	}
	name := "idle"
	if len(args) > 0 {
		name = args[0]
	}
	return scenario.GetBuiltin(name)
}

func trace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scn, err := pickScenario(args)
	if err != nil {
		return err
	}
	if duration > 0 {
		scn.Duration = duration
	}
	if dt > 0 {
		scn.Dt = dt
	}

	log, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := scenario.RunWithConfig(ctx, cfg, scn, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario %s: %d frames, free flight from %.2fs\n\n", scn.Name, len(res.Samples), res.FreeFlightAt)
	if err := plotSeries(out, res); err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range sortedKeys(res.Metrics) {
		fmt.Fprintf(w, "%s\t%.4f\n", name, res.Metrics[name])
	}
	if period, ok := swayPeriod(res, scn.Dt); ok {
		fmt.Fprintf(w, "sway_period\t%.2fs\n", period)
	}
	w.Flush()

	if svgOut != "" {
		points := make([]dynamo.Vec3, len(res.Samples))
		for i, s := range res.Samples {
			points[i] = s.Position
		}
		svg := export.TrajectoryToSVG(points, 800, 450, string(viz.GetTheme(cfg.Render.Theme).Aqua))
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
	}
	if csvOut != "" {
		return writeCSV(csvOut, res)
	}
	return nil
}

// swayPeriod is the dominant lateral period over free flight.
func swayPeriod(res *scenario.Result, dt float64) (float64, bool) {
	xs := make([]float64, 0, len(res.Samples))
	for _, s := range res.Samples {
		if s.Phase == dynamo.FreeFlight {
			xs = append(xs, s.Position.X)
		}
	}
	return analysis.DominantPeriod(xs, dt)
}

func plotSeries(out io.Writer, res *scenario.Result) error {
	for _, name := range strings.Split(series, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		data, err := res.Series(name)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func writeCSV(path string, res *scenario.Result) error {
	if path == "-" {
		return export.WriteSamples(os.Stdout, res.Samples)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteSamples(f, res.Samples)
}

// parseGrid reads "name=min:max:steps".
func parseGrid(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	parts := strings.Split(rng, ":")
	if !ok || len(parts) != 3 {
		return "", nil, fmt.Errorf("bad grid %q, want name=min:max:steps", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %s min: %w", name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %s max: %w", name, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("grid %s steps must be a positive integer", name)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scn, err := pickScenario(args)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(tuneGrid))
	ranges := make([][]float64, 0, len(tuneGrid))
	for _, spec := range tuneGrid {
		name, values, err := parseGrid(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	search.Maximize = tuneMaximize

	ctx, cancel := signalContext()
	defer cancel()

	best, val, err := search.Search(ctx, cfg, scn, tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, name := range sortedKeys(best) {
		fmt.Fprintf(w, "%s\t%.4f\n", name, best[name])
	}
	fmt.Fprintf(w, "\n%s\t%.4f\n", tuneMetric, val)
	return w.Flush()
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scn, err := pickScenario(args)
	if err != nil {
		return err
	}
	if snapAt <= 0 || snapCols <= 0 || snapRows <= 0 {
		return fmt.Errorf("snapshot needs positive --at, --cols and --rows")
	}
	scn.Duration = snapAt

	log, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	var last render.Frame
	sim := flight.NewSimulation(cfg, flight.WithLogger(log))
	if _, err := scenario.Run(ctx, sim, scn, func(f render.Frame) { last = f }); err != nil {
		return err
	}

	scene := viz.NewScene(cfg.Render, viz.GetTheme(cfg.Render.Theme))
	canvas, bg := scene.Compose(last, snapCols, snapRows)
	if err := os.WriteFile(snapOut, []byte(export.CanvasToSVG(canvas, bg, 4)), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (frame %d, %s)\n", snapOut, last.Index, last.Phase)
	return nil
}

func plotTrace(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	samples, err := export.ReadSamples(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d frames\n\n", args[0], len(samples))
	return plotSeries(out, &scenario.Result{Samples: samples})
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scn, err := pickScenario(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := scenario.RunSweep(ctx, cfg, scn, &scenario.ParameterSweep{
		Param:    sweepParam,
		ParamMin: sweepMin,
		ParamMax: sweepMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		row := []string{fmt.Sprintf("%.4f", r.ParamValue)}
		for _, n := range names {
			row = append(row, fmt.Sprintf("%.4f", r.Metrics[n]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func stability(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scn, err := pickScenario(args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := scenario.RunMonteCarlo(ctx, cfg, scn, &scenario.MonteCarloConfig{
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSPAWN\tCONTAINED\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t(%.2f, %.2f, %.2f)\t%.4f\t%v\n", r.TrialID, r.Spawn.X, r.Spawn.Y, r.Spawn.Z, r.Contained, r.Stable)
	}
	w.Flush()

	stable, unstable := scenario.MonteCarloStats(results)
	fmt.Fprintf(out, "\n%d stable, %d left bounds\n", stable, unstable)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
