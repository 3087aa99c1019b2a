package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/somsim/internal/analysis"
	"github.com/san-kum/somsim/internal/atomic"
	"github.com/san-kum/somsim/internal/automation"
	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/experiment"
	"github.com/san-kum/somsim/internal/export"
	"github.com/san-kum/somsim/internal/logging"
	"github.com/san-kum/somsim/internal/model"
	"github.com/san-kum/somsim/internal/optim"
	"github.com/san-kum/somsim/internal/storage"
	"github.com/san-kum/somsim/internal/substance"
	"github.com/san-kum/somsim/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	configFile string
	preset     string
	phase      string
	duration   float64
	fps        float64
	seed       int64
	heat       float64
	lidHeight  float64
	gravity    float64
	epsilon    float64
	maxAtoms   int
	runs       int
	theme      string
	outFile    string

	sweepFrom  float64
	sweepTo    float64
	sweepSteps int

	benchTime   float64
	atomicTime  float64
	atomSigma   float64
	atomEpsilon float64
	sampleEvery float64

	svgWidth int
	svgPath  bool

	searchParams []string
	searchMetric string
	searchMax    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "somsim",
		Short:        "states of matter molecular dynamics lab",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".somsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default from "+logging.LevelEnv+")")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	runCmd := &cobra.Command{
		Use:   "run [substance]",
		Short: "run a scripted simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to run in parallel")

	liveCmd := &cobra.Command{
		Use:   "live [substance]",
		Short: "interactive terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "lab", "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot temperature, pressure and population of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print the snapshot series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a whole run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final configuration (or the P-T path) as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 600, "image width in pixels")
	exportSVGCmd.Flags().BoolVar(&svgPath, "path", false, "draw pressure against temperature instead")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a YAML scenario and store the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	searchCmd := &cobra.Command{
		Use:   "search [substance]",
		Short: "grid search run parameters for the best metric value",
		Long: "Each --param is name=v1,v2,... with name one of " +
			strings.Join(optim.ParamNames(), ", ") + ".",
		Args: cobra.MaximumNArgs(1),
		RunE: searchGrid,
	}
	addRunFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&searchParams, "param", nil, "parameter grid, e.g. heat=-0.5,0,0.5")
	searchCmd.Flags().StringVar(&searchMetric, "metric", "set_point_tracking", "metric to optimize")
	searchCmd.Flags().BoolVar(&searchMax, "maximize", false, "maximize instead of minimize")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "structure and fluctuation analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [substance]",
		Short: "pressure against temperature over a range of set points",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepTemperature,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", substance.SolidTemperature, "first set point (model units)")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", substance.GasTemperature, "last set point (model units)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of set points")

	presetsCmd := &cobra.Command{
		Use:   "presets [substance]",
		Short: "list presets for a substance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for substance: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file (.yaml or .toml) with the defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addRunFlags(initCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "frame throughput for every substance",
		RunE:  benchSubstances,
	}
	benchCmd.Flags().Float64Var(&benchTime, "time", 5, "simulated seconds per substance")

	atomicCmd := &cobra.Command{
		Use:   "atomic [pair]",
		Short: "two-atom interaction sandbox",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAtomic,
	}
	atomicCmd.Flags().Float64Var(&atomicTime, "time", 2, "duration in seconds")
	atomicCmd.Flags().Float64Var(&sampleEvery, "every", 0.1, "sampling interval in seconds")
	atomicCmd.Flags().Float64Var(&atomSigma, "sigma", 0, "sigma in pm (adjustable pair)")
	atomicCmd.Flags().Float64Var(&atomEpsilon, "epsilon", 0, "epsilon in K (adjustable pair)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, analyzeCmd, sweepCmd, scenarioCmd, searchCmd, presetsCmd, initCmd, benchCmd, atomicCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&phase, "phase", config.DefaultPhase, "initial phase")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Float64Var(&fps, "fps", config.DefaultFPS, "frames per second")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&heat, "heat", 0, "heater input in [-1, 1]")
	cmd.Flags().Float64Var(&lidHeight, "lid", substance.ContainerInitialHeight, "target container height in pm")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity (<= 0)")
	cmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultEpsilon, "epsilon of the adjustable substance in K")
	cmd.Flags().IntVar(&maxAtoms, "max-atoms", config.DefaultMaxAtoms, "atom capacity")
}

func newLogger() *logging.Logger {
	return logging.New(logging.Options{Level: logLevel, JSON: logJSON})
}

// buildConfig layers defaults, then a preset, then a config file, then the
// flags the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := config.DefaultSubstance
	if len(args) > 0 {
		name = args[0]
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(name, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 || (preset == "" && configFile == "") {
		cfg.Substance = name
	}

	flags := cmd.Flags()
	if flags.Changed("phase") || (preset == "" && configFile == "") {
		cfg.Phase = phase
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("seed") || (preset == "" && configFile == "") {
		cfg.Seed = seed
	}
	if flags.Changed("heat") {
		cfg.HeatingCooling = heat
	}
	if flags.Changed("lid") {
		cfg.TargetHeight = lidHeight
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = epsilon
	}
	if flags.Changed("max-atoms") {
		cfg.MaxAtoms = maxAtoms
	}
	if cfg.LogLevel != "" && logLevel == "" {
		logLevel = cfg.LogLevel
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	log := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%s, %.1fs)...\n", cfg.Substance, cfg.Phase, cfg.Duration)
	start := time.Now()

	var results []*experiment.Result
	if runs > 1 {
		results, err = experiment.NewEnsemble(cfg, runs, cfg.Seed, log).Run(ctx)
		if err != nil {
			return err
		}
	} else {
		exp := experiment.New(cfg)
		if err := exp.Setup(log); err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		results = []*experiment.Result{result}
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	for _, result := range results {
		runID, err := st.Save(result)
		if err != nil {
			return err
		}
		final := result.Final()
		fmt.Printf("\nrun id: %s (seed %d)\n", runID, result.Config.Seed)
		fmt.Printf("frames: %d  phase: %s  T: %.1f K  P: %.3f atm  molecules: %d\n",
			result.Frames, final.Phase, final.TemperatureKelvin, final.PressureAtm, final.Molecules)
		printMetrics(result.Metrics)
	}
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(logging.Nop()); err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewLive(exp, theme), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSUBSTANCE\tTIME\tDURATION\tFRAMES\tPHASE\tEXPLODED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%d\t%s\t%v\n",
			run.ID,
			run.Substance,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Frames,
			run.Phase,
			run.Exploded,
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []model.Snapshot, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(series) == 0 {
		return nil, nil, fmt.Errorf("run %s: no data", runID)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("substance: %s\n", meta.Substance)
	fmt.Printf("samples: %d\n\n", len(series))

	plots := []struct {
		caption string
		value   func(model.Snapshot) float64
	}{
		{"temperature (K)", func(s model.Snapshot) float64 { return s.TemperatureKelvin }},
		{"pressure (atm)", func(s model.Snapshot) float64 { return s.PressureAtm }},
		{"container height (pm)", func(s model.Snapshot) float64 { return s.ContainerHeight }},
		{"molecules", func(s model.Snapshot) float64 { return float64(s.Molecules) }},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(analysis.Column(series, p.value),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Println("pressure vs temperature:")
	fmt.Print(analysis.PathToASCII(series, 60, 15))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteSeries(csv.NewWriter(os.Stdout), series)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	positions, err := storage.New(dataDir).LoadPositions(args[0])
	if err != nil {
		return err
	}
	result := &experiment.Result{
		Config:    meta.Config,
		Snapshots: series,
		Events:    meta.Events,
		Metrics:   meta.Metrics,
		Frames:    meta.Frames,
		Positions: positions,
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, result)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ExportJSON(f, result); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	return nil
}

// createOutput returns stdout when no output file was requested.
func createOutput() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}

	out, closeOut, err := createOutput()
	if err != nil {
		return err
	}

	if svgPath {
		err = export.PathSVG(out, series, svgWidth, svgWidth*2/3, "#00ccff")
	} else {
		var positions []r2.Vec
		positions, err = storage.New(dataDir).LoadPositions(args[0])
		if err != nil {
			closeOut()
			return err
		}
		props, perr := lookupProperties(meta.Substance)
		if perr != nil {
			closeOut()
			return perr
		}
		final := series[len(series)-1]
		frame := export.Frame{
			Width:    substance.ContainerWidth,
			Height:   final.ContainerHeight,
			Diameter: props.ParticleDiameter,
			Exploded: final.Exploded,
		}
		err = export.ConfigurationSVG(out, positions, frame, svgWidth)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err == nil && outFile != "" {
		fmt.Fprintf(os.Stderr, "exported to %s\n", outFile)
	}
	return err
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %d steps\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(ctx, sc, st, newLogger())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tPHASE\tTEMPERATURE\tPRESSURE")
	for _, r := range results {
		final := r.Result.Final()
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f K\t%.4f atm\n", r.Name, r.RunID, final.Phase, final.TemperatureKelvin, final.PressureAtm)
	}
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	return err
}

func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, arg := range specs {
		name, list, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --param %q, want name=v1,v2", arg)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad value in --param %q: %w", arg, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func searchGrid(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(searchParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	names, ranges, err := parseGrid(searchParams)
	if err != nil {
		return err
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.Maximize = searchMax
	g.Log = newLogger()

	ctx, cancel := signalContext()
	defer cancel()

	best, err := g.Search(ctx, cfg, searchMetric)
	if err != nil {
		return err
	}
	fmt.Printf("evaluated %d points (%d skipped)\n", best.Evaluated, best.Failed)
	fmt.Printf("best %s: %.6f\n", searchMetric, best.Value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best.Params[name])
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadRun(args[0])
	if err != nil {
		return err
	}
	positions, err := storage.New(dataDir).LoadPositions(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("substance: %s\n\n", meta.Substance)

	sum := analysis.Summarize(series)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "mean temperature\t%.2f K (± %.2f)\n", sum.MeanTemperatureK, sum.StdTemperatureK)
	fmt.Fprintf(w, "mean pressure\t%.4f atm\n", sum.MeanPressureAtm)
	fmt.Fprintf(w, "peak pressure\t%.4f atm\n", sum.MaxPressureAtm)
	fmt.Fprintf(w, "mean molecules\t%.1f\n", sum.MeanMolecules)
	if sum.ExplodedAt >= 0 {
		fmt.Fprintf(w, "exploded at\t%.2f s\n", sum.ExplodedAt)
	}
	phases := make([]string, 0, len(sum.PhaseFractions))
	for ph := range sum.PhaseFractions {
		phases = append(phases, ph)
	}
	sort.Strings(phases)
	for _, ph := range phases {
		fmt.Fprintf(w, "time in %s\t%.0f%%\n", ph, 100*sum.PhaseFractions[ph])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	spectrum := analysis.PowerSpectrum(analysis.Column(series, func(s model.Snapshot) float64 {
		return s.TemperatureKelvin
	}), meta.FPS)
	if len(spectrum.Power) > 2 {
		fmt.Println()
		graph := asciigraph.Plot(spectrum.Power[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("temperature fluctuation spectrum"),
		)
		fmt.Println(graph)
		if f := spectrum.DominantFrequency(); f > 0 {
			fmt.Printf("dominant frequency: %.3f hz (period %.3f s)\n", f, 1/f)
		}
	}

	if len(positions) > 1 {
		final := series[len(series)-1]
		props, err := lookupProperties(meta.Substance)
		if err != nil {
			return err
		}
		d := props.ParticleDiameter
		rdf := analysis.RadialDistribution(positions, substance.ContainerWidth, final.ContainerHeight, d/10, 4*d)
		fmt.Println()
		graph := asciigraph.Plot(rdf.G,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("g(r), r up to 4 diameters"),
		)
		fmt.Println(graph)
		fmt.Printf("first peak: %.0f pm (%.2f diameters)\n", rdf.FirstPeak(), rdf.FirstPeak()/d)
		fmt.Printf("mean coordination: %.2f\n", analysis.MeanCoordination(positions, 1.3*d))
	}
	return nil
}

func lookupProperties(name string) (substance.Properties, error) {
	s, err := substance.Parse(name)
	if err != nil {
		return substance.Properties{}, err
	}
	return substance.Lookup(s)
}

func sweepTemperature(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if sweepSteps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", sweepSteps)
	}
	setPoints := make([]float64, sweepSteps)
	for i := range setPoints {
		setPoints[i] = sweepFrom + (sweepTo-sweepFrom)*float64(i)/float64(sweepSteps-1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %s over %d set points...\n\n", cfg.Substance, sweepSteps)
	points, err := analysis.TemperatureSweep(ctx, cfg, setPoints, newLogger())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SET POINT\tTEMPERATURE\tPRESSURE\tPHASE\tEXPLODED")
	pressures := make([]float64, len(points))
	for i, p := range points {
		fmt.Fprintf(w, "%.3f\t%.1f K\t%.4f atm\t%s\t%v\n", p.SetPoint, p.TemperatureK, p.PressureAtm, p.Phase, p.Exploded)
		pressures[i] = p.PressureAtm
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(pressures, asciigraph.Height(10), asciigraph.Caption("pressure (atm) by set point")))
	return nil
}

func benchSubstances(cmd *cobra.Command, args []string) error {
	fmt.Printf("benchmarking %.1fs per substance\n\n", benchTime)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBSTANCE\tMOLECULES\tFRAMES\tTIME\tFRAMES/SEC")

	for _, s := range substance.All() {
		cfg := config.DefaultConfig()
		cfg.Substance = s.String()
		cfg.Phase = "liquid"
		cfg.Duration = benchTime
		cfg.Seed = 42

		exp := experiment.New(cfg)
		if err := exp.Setup(nil); err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			s, result.Final().Molecules, result.Frames, elapsed, float64(result.Frames)/elapsed.Seconds())
	}
	return w.Flush()
}

func runAtomic(cmd *cobra.Command, args []string) error {
	pair := atomic.NeonNeon
	if len(args) > 0 {
		p, err := atomic.ParsePair(args[0])
		if err != nil {
			return fmt.Errorf("%w (available: %v)", err, atomic.Pairs())
		}
		pair = p
	}

	sb := atomic.NewSandbox(pair)
	if pair == atomic.AdjustablePair && (atomSigma > 0 || atomEpsilon > 0) {
		sigma, eps := sb.Sigma(), sb.Epsilon()
		if atomSigma > 0 {
			sigma = atomSigma
		}
		if atomEpsilon > 0 {
			eps = atomEpsilon
		}
		sb.SetAdjustable(sigma, eps)
		sb.Reset()
	}

	fmt.Printf("pair: %s  sigma: %.0f pm  epsilon: %.1f K\n\n", sb.Pair(), sb.Sigma(), sb.Epsilon())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSEPARATION\tVELOCITY\tPOTENTIAL\tTOTAL\tSTATE")

	row := func() {
		fmt.Fprintf(w, "%.2f\t%.1f pm\t%.2f\t%.3e\t%.3e\t%s\n",
			sb.Time(), sb.Separation(), sb.Velocity(), sb.PotentialEnergy(), sb.TotalEnergy(), sb.BondingState())
	}
	row()
	if sampleEvery <= 0 {
		return fmt.Errorf("sampling interval must be positive, got %g", sampleEvery)
	}
	for t := 0.0; t < atomicTime; t += sampleEvery {
		for left := sampleEvery; left > 0; left -= atomic.MaxFrameDuration {
			sb.Step(math.Min(left, atomic.MaxFrameDuration))
		}
		row()
	}
	return w.Flush()
}
