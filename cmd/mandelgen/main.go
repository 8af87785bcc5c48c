package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/san-kum/mandelgen/internal/analysis"
	"github.com/san-kum/mandelgen/internal/compute"
	"github.com/san-kum/mandelgen/internal/config"
	"github.com/san-kum/mandelgen/internal/fractal"
	"github.com/san-kum/mandelgen/internal/render"
	"github.com/san-kum/mandelgen/internal/storage"
	"github.com/san-kum/mandelgen/internal/viz"
)

const devName = "mandelbrot"

var (
	configFile  string
	preset      string
	verbose     bool
	seed        int64
	fidelity    int
	width       int
	height      int
	scale       float64
	backendName string
	modeFill    bool
	compact     bool
	dev         bool
	outDir      string
	benchRuns   int
	jsonOut     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mandelgen",
		Short:         "mandelbrot wallpaper generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	pf.StringVar(&preset, "preset", "classic", "preset configuration")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.Int64Var(&seed, "seed", 0, "random seed (default: config seed, else current time)")
	pf.IntVar(&fidelity, "fidelity", config.DefaultFidelity, "maximum iterations")
	pf.IntVar(&width, "width", config.DefaultOutputWidth, "output width")
	pf.IntVar(&height, "height", config.DefaultOutputHeight, "output height")
	pf.Float64Var(&scale, "scale", config.DefaultRenderScale, "internal render scale in (0, 1]")
	pf.StringVar(&backendName, "backend", config.DefaultBackend, "compute backend: auto, cpu, cuda")
	pf.BoolVar(&modeFill, "mode-fill", false, "pre-fill with the most common color")
	pf.BoolVar(&compact, "compact-palette", false, "start the palette at the lowest observed step")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render a wallpaper and save it",
		RunE:  runRender,
	}
	renderCmd.Flags().BoolVar(&dev, "dev", false, "write to the dev directory and keep older renders")
	renderCmd.Flags().StringVar(&outDir, "out", "", "output directory (default: config output dir)")

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "interactive terminal preview",
		RunE:  runPreview,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "render once and print escape-step statistics",
		RunE:  runStats,
	}
	statsCmd.Flags().StringVar(&jsonOut, "json", "", "write the full report as JSON to a file, or - for stdout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved renders",
		RunE:  listRenders,
	}
	listCmd.Flags().BoolVar(&dev, "dev", false, "list the dev directory")
	listCmd.Flags().StringVar(&outDir, "out", "", "output directory")

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "print render metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRender,
	}
	showCmd.Flags().BoolVar(&dev, "dev", false, "read from the dev directory")
	showCmd.Flags().StringVar(&outDir, "out", "", "output directory")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark compute backends",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchRuns, "runs", 3, "runs per configuration")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFIDELITY\tZOOM\tSCALE\tBACKEND\tMODE FILL\tCOMPACT")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%g-%g\t%g\t%s\t%v\t%v\n",
					name, cfg.Fidelity, cfg.Zoom.Min, cfg.Zoom.Max, cfg.RenderScale,
					cfg.Backend, cfg.ModeFill, cfg.CompactPalette)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(renderCmd, previewCmd, statsCmd, listCmd, showCmd, benchCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveConfig layers the preset, then the config file, then explicitly
// set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("fidelity") {
		cfg.Fidelity = fidelity
	}
	if flags.Changed("width") {
		cfg.Output.Width = width
	}
	if flags.Changed("height") {
		cfg.Output.Height = height
	}
	if flags.Changed("scale") {
		cfg.RenderScale = scale
	}
	if flags.Changed("backend") {
		cfg.Backend = backendName
	}
	if flags.Changed("mode-fill") {
		cfg.ModeFill = modeFill
	}
	if flags.Changed("compact-palette") {
		cfg.CompactPalette = compact
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveSeed(cfg *config.Config) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

// selectBackend falls back to automatic selection when the requested
// backend cannot run here.
func selectBackend(name string, logger *log.Logger) compute.Backend {
	backend, err := compute.Select(name)
	if err != nil {
		fallback := compute.AutoSelectBackend()
		logger.Warn("backend unavailable", "requested", name, "using", fallback.Name(), "err", err)
		return fallback
	}
	return backend
}

func storeFor(cfg *config.Config) *storage.Store {
	switch {
	case outDir != "":
		return storage.New(outDir)
	case dev:
		return storage.New(cfg.Output.DevDir)
	default:
		return storage.New(cfg.Output.Dir)
	}
}

func metadataFor(res *render.Result) *storage.RenderMetadata {
	return &storage.RenderMetadata{
		ID:           storage.NewID(time.Now()),
		Timestamp:    time.Now(),
		Seed:         res.Seed,
		Fidelity:     res.Fidelity,
		Zoom:         res.Zoom,
		Origin:       res.Origin,
		Bounds:       res.Bounds,
		Palette:      res.Palette,
		PaletteLen:   res.PaletteLen,
		Backend:      res.Backend,
		RenderWidth:  res.Width,
		RenderHeight: res.Height,
		Width:        res.OutputWidth,
		Height:       res.OutputHeight,
		Mode:         res.Stats.Mode,
		MinSteps:     res.Stats.Min,
		ElapsedMs:    res.Elapsed.Milliseconds(),
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, logLevel())
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	backend := selectBackend(cfg.Backend, logger)
	defer backend.Cleanup()

	prog := newProgress(logger)
	res, err := render.NewGenerator(cfg, backend, logger).
		Generate(cmd.Context(), cfg.Output.Width, cfg.Output.Height, resolveSeed(cfg))
	if err != nil {
		return err
	}

	out := render.Upscale(res.Image, res.OutputWidth, res.OutputHeight)
	meta := metadataFor(res)
	st := storeFor(cfg)

	name := ""
	if dev {
		name = devName
	}
	path, err := st.Save(name, meta, out)
	if err != nil {
		return err
	}

	if !dev {
		removed, err := st.CleanExcept(meta.ID)
		if err != nil {
			return fmt.Errorf("clean output dir: %w", err)
		}
		logger.Debug("removed old renders", "count", removed, "dir", st.Dir())
	}

	prog.done("Saved " + path)
	fmt.Println(meta.ID)
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// the terminal is the output, so render cells one to one
	cfg.RenderScale = 1

	quiet := log.New(io.Discard)
	backend := selectBackend(cfg.Backend, quiet)
	defer backend.Cleanup()

	return viz.RunPreview(render.NewGenerator(cfg, backend, quiet), resolveSeed(cfg))
}

func runStats(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, logLevel())
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	backend := selectBackend(cfg.Backend, logger)
	defer backend.Cleanup()

	res, err := render.NewGenerator(cfg, backend, logger).
		Generate(cmd.Context(), cfg.Output.Width, cfg.Output.Height, resolveSeed(cfg))
	if err != nil {
		return err
	}

	if jsonOut != "" {
		data, err := storage.NewExportData(metadataFor(res), res.Grid)
		if err != nil {
			return err
		}
		if jsonOut == "-" {
			return storage.WriteJSON(os.Stdout, data)
		}
		if err := storage.ExportJSON(jsonOut, data); err != nil {
			return err
		}
		logger.Info("wrote report", "path", jsonOut)
	}

	sum, err := analysis.Summarize(res.Grid)
	if err != nil {
		return err
	}

	fmt.Println(viz.HeaderStyle.Render("mandelgen stats"))
	fmt.Println(viz.Metric("seed", res.Seed))
	fmt.Println(viz.Metric("origin", fmt.Sprintf("%.8f%+.8fi", res.Origin.Re, res.Origin.Im)))
	fmt.Println(viz.Metric("zoom", fmt.Sprintf("%.2f", res.Zoom)))
	fmt.Println(viz.Metric("size", fmt.Sprintf("%dx%d", res.Width, res.Height)))
	fmt.Println(viz.Metric("mean", fmt.Sprintf("%.2f", sum.Mean)))
	fmt.Println(viz.Metric("median", fmt.Sprintf("%.1f", sum.Median)))
	fmt.Println(viz.Metric("stddev", fmt.Sprintf("%.2f", sum.StdDev)))
	fmt.Println(viz.Metric("p90", fmt.Sprintf("%.1f", sum.P90)))
	fmt.Println(viz.Metric("mode", fmt.Sprintf("%d (%.1f%%)", sum.Mode, sum.ModeFraction*100)))
	fmt.Println(viz.Metric("range", fmt.Sprintf("%d-%d", sum.Min, sum.Max)))
	fmt.Println(viz.Metric("in set", fmt.Sprintf("%.1f%%", sum.InSetFraction*100)))
	fmt.Println()

	fmt.Println(viz.PaletteStrip(res.Colors.Colors, 80))
	fmt.Println()

	series := analysis.HistogramSeries(res.Grid.Hist, false)
	graph := asciigraph.Plot(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("pixels per escape step"),
	)
	fmt.Println(graph)
	return nil
}

func listRenders(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	renders, err := storeFor(cfg).List()
	if err != nil {
		return err
	}
	if len(renders) == 0 {
		fmt.Println("no renders found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSEED\tZOOM\tORIGIN\tSIZE\tBACKEND")
	for _, r := range renders {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.6f%+.6fi\t%dx%d\t%s\n",
			r.ID,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Seed,
			r.Zoom,
			r.Origin.Re, r.Origin.Im,
			r.Width, r.Height,
			r.Backend,
		)
	}
	return w.Flush()
}

func showRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	meta, err := storeFor(cfg).Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if benchRuns <= 0 {
		return errors.New("runs must be positive")
	}

	w, h, err := render.ScaledSize(cfg.Output.Width, cfg.Output.Height, cfg.RenderScale)
	if err != nil {
		return err
	}
	view, err := fractal.ComputeBounds(w, h, fractal.Complex{Re: -0.7453, Im: 0.1127}, 50)
	if err != nil {
		return err
	}

	var backends []compute.Backend
	seen := make(map[int]bool)
	for _, n := range []int{1, 2, 4, runtime.NumCPU()} {
		if n > runtime.NumCPU() || seen[n] {
			continue
		}
		seen[n] = true
		backends = append(backends, compute.NewCPUBackendWithWorkers(n))
	}
	if gpu := compute.NewCUDABackend(); gpu.Available() {
		backends = append(backends, gpu)
	}

	fmt.Printf("benchmarking %dx%d at fidelity %d\n\n", w, h, cfg.Fidelity)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BACKEND\tWORKERS\tMEDIAN\tMIN\tMPIX/SEC")

	for _, b := range backends {
		samples := make([]float64, 0, benchRuns)
		for i := 0; i < benchRuns; i++ {
			start := time.Now()
			if _, err := b.EvaluateGrid(cmd.Context(), view, w, h, cfg.Fidelity); err != nil {
				return err
			}
			samples = append(samples, time.Since(start).Seconds())
		}

		median, _ := stats.Median(samples)
		fastest, _ := stats.Min(samples)
		mpix := float64(w*h) / median / 1e6

		workers := "-"
		if cpu, ok := b.(*compute.CPUBackend); ok {
			workers = fmt.Sprint(cpu.Workers())
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%v\t%.1f\n",
			b.Name(), workers,
			time.Duration(median*float64(time.Second)).Round(time.Microsecond),
			time.Duration(fastest*float64(time.Second)).Round(time.Microsecond),
			mpix)
		b.Cleanup()
	}
	return tw.Flush()
}
