package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/erisim/internal/config"
	"github.com/san-kum/erisim/internal/export"
	"github.com/san-kum/erisim/internal/metrics"
	"github.com/san-kum/erisim/internal/sim"
	"github.com/san-kum/erisim/internal/storage"
	"github.com/san-kum/erisim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir   string
	logLevel  string
	logFormat string
	logFile   string

	configFile string
	preset     string
	dt         float64
	duration   float64
	speed      float64
	scale      float64
	every      int
	bound      float64
	sweepDts   []float64

	plotBody     string
	plotRelative string
	plotQuantity string

	exportOut    string
	exportFrames bool
	exportSVG    string

	theme string
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)

func main() {
	rootCmd := &cobra.Command{
		Use:          "erisim",
		Short:        "gravitational n-body simulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(config.LoggingConfig{Level: logLevel, Format: logFormat}, liveLogOutput())
			if err != nil {
				return err
			}
			defer log.Sync()
			return viz.RunInteractive(log, theme)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".erisim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.Flags().StringVar(&theme, "theme", "", "colour theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a fixed-step session and save it",
		RunE:  runSession,
	}
	sessionFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", 0, "record one frame every n ticks (0 = config)")
	runCmd.Flags().Float64Var(&bound, "bound", 0, "stability radius around the centre of mass (0 = off)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a session against the wall clock in the terminal",
		RunE:  runLive,
	}
	sessionFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "colour theme")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "show derived quantities of a session's bodies",
		RunE:  inspectSession,
	}
	sessionFlags(inspectCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure tick throughput of a session",
		RunE:  benchSession,
	}
	sessionFlags(benchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare conservation across step sizes",
		RunE:  sweepSession,
	}
	sessionFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", []float64{0.04, 0.02, 0.01, 0.005}, "step sizes to compare")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's trajectory quantities",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "", "body to plot (default: all)")
	plotCmd.Flags().StringVar(&plotRelative, "relative-to", "", "measure distance from this body instead of the centre of mass")
	plotCmd.Flags().StringVar(&plotQuantity, "quantity", "speed", "speed or distance")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON (and optionally SVG)",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file")
	exportCmd.Flags().BoolVar(&exportFrames, "frames", false, "include the trajectory")
	exportCmd.Flags().StringVar(&exportSVG, "svg", "", "also draw the trajectory to this SVG file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tDT\tDURATION\tSPEED")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\n", name, len(p.Bodies), p.Dt, p.Duration, p.Constants.Speed)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, inspectCmd, benchCmd, sweepCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func sessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "session file (.yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "built-in session (see presets)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "time step")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration")
	cmd.Flags().Float64Var(&speed, "speed", 0, "time multiplier")
	cmd.Flags().Float64Var(&scale, "scale", 0, "gravitational constant multiplier")
}

// loadSession resolves the session from --config or --preset, then applies
// flag overrides. Without either, the earth-moon preset is used.
func loadSession(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.GetPreset("earth-moon")
	}

	applyOverrides(cmd, cfg)
	return cfg, cfg.Validate()
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("speed") {
		cfg.Constants.Speed = speed
	}
	if flags.Changed("scale") {
		cfg.Constants.Scale = scale
	}
	if flags.Lookup("every") != nil && flags.Changed("every") {
		cfg.SampleEvery = every
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
}

// liveLogOutput keeps logs off the terminal while the full-screen view runs.
func liveLogOutput() string {
	if logFile != "" {
		return logFile
	}
	return os.DevNull
}

func setup(cmd *cobra.Command, output string) (*config.Config, *zap.Logger, error) {
	cfg, err := loadSession(cmd)
	if err != nil {
		return nil, nil, err
	}
	if logFile != "" {
		output = logFile
	}
	log, err := newLogger(cfg.Logging, output)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func newSimulator(cfg *config.Config, log *zap.Logger) (*sim.Simulator, error) {
	bodies, err := config.Build(cfg)
	if err != nil {
		return nil, err
	}
	return sim.New(cfg.Constants, bodies, log)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := newSimulator(cfg, log)
	if err != nil {
		return err
	}
	s.AddMetric(metrics.NewEnergyDrift(cfg.Constants))
	s.AddMetric(metrics.NewMomentum())
	s.AddMetric(metrics.NewAngularMomentum())
	s.AddMetric(metrics.NewClosestApproach())
	if bound > 0 {
		s.AddMetric(metrics.NewStability(bound))
	}

	st := storage.New(dataDir, log)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running session",
		zap.String("name", cfg.Name),
		zap.Int("bodies", s.Len()),
		zap.Float64("dt", cfg.Dt),
		zap.Float64("duration", cfg.Duration),
	)
	start := time.Now()

	result, err := s.Run(ctx, sim.Config{
		Dt:            cfg.Dt,
		Duration:      cfg.Duration,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: true,
	})
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		log.Warn("run interrupted, saving partial result", zap.Error(err))
	}
	for _, e := range result.Errors {
		log.Error("run error", zap.Error(e))
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.Session{
		Name:      cfg.Name,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Constants: cfg.Constants,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	if result.DegeneratePairs > 0 {
		fmt.Printf("skipped close pairs: %d\n", result.DegeneratePairs)
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, liveLogOutput())
	if err != nil {
		return err
	}
	defer log.Sync()

	build := viz.SessionBuilder(cfg, log)
	s, err := build()
	if err != nil {
		return err
	}

	return viz.Run(viz.NewModel(cfg.Name, s, build, viz.Options{
		MaxStep: cfg.Dt,
		Theme:   theme,
		Log:     log,
	}))
}

func inspectSession(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := newSimulator(cfg, log)
	if err != nil {
		return err
	}
	c := s.Constants()
	states := s.States()

	fmt.Println(headerStyle.Render(cfg.Name))
	fmt.Printf("G=%g scale=%g speed=%g min_separation=%g\n\n", c.G, c.Scale, c.Speed, c.MinSeparation)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMASS\tRADIUS\tMU\tESCAPE\tSURFACE G\tSPEED\tPERIOD")
	for i, st := range states {
		period := "-"
		if dom, ok := metrics.Dominant(states, i); ok {
			r := st.Position.Sub(dom.Position).Len()
			period = fmt.Sprintf("%.4g (%s)", c.OrbitalPeriod(dom.Sphere(), r), dom.Name)
		}
		fmt.Fprintf(w, "%d\t%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%s\n",
			st.ID, st.Name, st.Mass, st.Radius,
			c.Mu(st.Sphere()),
			c.EscapeVelocity(st.Sphere()),
			c.SurfaceGravity(st.Sphere()),
			st.Speed(),
			period,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ntotal energy: %.6g\n", s.Energy())
	fmt.Printf("closest pair: %.4g\n", metrics.MinSeparation(states))
	return nil
}

func benchSession(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer log.Sync()

	fmt.Printf("benchmarking %s\n\n", cfg.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICKS\tTIME\tTICKS/SEC\tDRIFT")

	for _, ticks := range []int{1000, 10000, 100000} {
		elapsed, drift, err := benchTicks(cfg, ticks)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%v\t%.0f\t%.3e\n", ticks, elapsed, float64(ticks)/elapsed.Seconds(), drift)
	}

	return w.Flush()
}

// benchTicks times n ticks of a fresh session and reports the relative
// energy drift over them.
func benchTicks(cfg *config.Config, n int) (time.Duration, float64, error) {
	s, err := newSimulator(cfg, zap.NewNop())
	if err != nil {
		return 0, 0, err
	}
	e0 := s.Energy()

	start := time.Now()
	for i := 0; i < n; i++ {
		s.Tick(cfg.Dt)
	}
	elapsed := time.Since(start)

	return elapsed, sim.RelativeDrift(e0, s.Energy()), nil
}

func sweepSession(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd, "")
	if err != nil {
		return err
	}
	defer log.Sync()

	build := func() (*sim.Simulator, error) {
		s, err := newSimulator(cfg, log)
		if err != nil {
			return nil, err
		}
		s.AddMetric(metrics.NewMomentum())
		s.AddMetric(metrics.NewAngularMomentum())
		return s, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sim.Sweep(ctx, build, sim.Config{
		Duration:    cfg.Duration,
		SampleEvery: cfg.SampleEvery,
	}, sweepDts)
	if err != nil {
		return err
	}

	fmt.Printf("%s over %gs\n\n", cfg.Name, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tANGULAR DRIFT\tCLOSE PAIRS")
	for i, res := range results {
		fmt.Fprintf(w, "%g\t%d\t%.3e\t%.3e\t%.3e\t%d\n",
			sweepDts[i], res.StepsTaken, res.EnergyDrift,
			res.Metrics["momentum_drift"], res.Metrics["angular_momentum_drift"], res.DegeneratePairs)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, nil)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tBODIES\tDURATION\tDT\tSTEPS\tDRIFT")

	for _, run := range runs {
		drift := "-"
		if run.EnergyDrift != nil {
			drift = fmt.Sprintf("%.2e", *run.EnergyDrift)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.4g\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Bodies),
			run.Duration,
			run.Dt,
			run.Steps,
			drift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir, nil)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("session: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", len(frames))

	series, err := trajectorySeries(frames, plotQuantity, plotBody, plotRelative)
	if err != nil {
		return err
	}

	const maxPlots = 6
	for i, s := range series {
		if i == maxPlots {
			break
		}
		graph := asciigraph.Plot(s.values,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir, nil)
	if err := st.Export(args[0], exportOut, exportFrames); err != nil {
		return err
	}
	if exportSVG == "" {
		return nil
	}

	frames, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return os.WriteFile(exportSVG, []byte(export.TrajectorySVG(frames, 800, 800)), 0644)
}
