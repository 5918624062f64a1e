package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/fiducialfit/internal/boundary"
	"github.com/cwbudde/fiducialfit/internal/config"
	"github.com/cwbudde/fiducialfit/internal/fit"
	"github.com/cwbudde/fiducialfit/internal/prep"
	"github.com/cwbudde/fiducialfit/internal/render"
	"github.com/cwbudde/fiducialfit/internal/store"
)

var (
	imagePath  string
	configPath string
	cropRegion string
	soften     float64
	threshold  float64
	invert     bool
	margin     int
	side       string
	strategy   string
	objective  string
	maxIters   int
	tolerance  float64
	starts     int
	centerX    float64
	centerY    float64
	radius     float64
	overlayOut string
	color      string
	showPoints bool
	dataDir    string
	saveRun    bool
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a circle to a fiducial image",
	Long: `Loads an image, crops and binarizes it, extracts the boundary of the
bright region and fits a circle to it. The result is printed as JSON.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().StringVar(&imagePath, "image", "", "Input image path (required)")
	fitCmd.Flags().StringVar(&cropRegion, "crop", "", "Crop region x0,y0,x1,y1 applied before binarizing")
	fitCmd.Flags().Float64Var(&soften, "soften", 0, "Box blur radius before binarizing (0 = off)")
	fitCmd.Flags().Float64Var(&threshold, "threshold", 2, "Foreground when luminance exceeds max/T")
	fitCmd.Flags().BoolVar(&invert, "invert", false, "Treat dark pixels as foreground")
	addFitFlags(fitCmd)

	fitCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(fitCmd)
}

// addFitFlags registers the flags shared by fit and simulate
func addFitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	cmd.Flags().IntVar(&margin, "margin", 1, "Drop boundary points within N pixels of any edge")
	cmd.Flags().StringVar(&side, "side", "foreground", "Boundary side: foreground or background")
	cmd.Flags().StringVar(&strategy, "strategy", fit.StrategyNelderMead, "Minimizer: nelder-mead, bfgs, mayfly, mayfly+nelder-mead")
	cmd.Flags().StringVar(&objective, "objective", fit.ObjectiveL1, "Objective: l1 or squared")
	cmd.Flags().IntVar(&maxIters, "max-iters", 10000, "Iteration cap per start")
	cmd.Flags().Float64Var(&tolerance, "tol", 1e-10, "Relative convergence tolerance")
	cmd.Flags().IntVar(&starts, "starts", 1, "Number of starting circles run in parallel")
	cmd.Flags().Float64Var(&centerX, "center-x", 0, "Initial center x (with --center-y and --radius)")
	cmd.Flags().Float64Var(&centerY, "center-y", 0, "Initial center y")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Initial radius")
	cmd.Flags().StringVar(&overlayOut, "overlay", "", "Write an overlay PNG of the fit to this path")
	cmd.Flags().StringVar(&color, "color", "#ff0000", "Overlay color as hex")
	cmd.Flags().BoolVar(&showPoints, "show-points", false, "Mark the extracted boundary points on the overlay")
	cmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Base directory for saved runs")
	cmd.Flags().BoolVar(&saveRun, "save", false, "Persist the run, its trace and images")
}

// loadConfig reads --config (or the defaults) and applies explicitly set flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	} else if cfg.LogLevel != logLevel {
		setupLogger(cfg.LogLevel)
	}

	if flags.Changed("margin") {
		cfg.Fit.Margin = margin
	}
	if flags.Changed("side") {
		s, err := boundary.ParseSide(side)
		if err != nil {
			return nil, err
		}
		cfg.Fit.Side = s
	}
	if flags.Changed("strategy") {
		cfg.Fit.Strategy = strategy
	}
	if flags.Changed("objective") {
		cfg.Fit.Objective = objective
	}
	if flags.Changed("max-iters") {
		cfg.Fit.MaxIterations = maxIters
	}
	if flags.Changed("tol") {
		cfg.Fit.Tolerance = tolerance
	}
	if flags.Changed("starts") {
		cfg.Fit.Starts = starts
	}

	startFlags := 0
	for _, name := range []string{"center-x", "center-y", "radius"} {
		if flags.Changed(name) {
			startFlags++
		}
	}
	switch startFlags {
	case 0:
	case 3:
		cfg.Fit.Start = &fit.Params{CenterX: centerX, CenterY: centerY, Radius: radius}
	default:
		return nil, fmt.Errorf("--center-x, --center-y and --radius must be given together")
	}

	if flags.Changed("crop") {
		cfg.Image.Crop = cropRegion
	}
	if flags.Changed("soften") {
		cfg.Image.Soften = soften
	}
	if flags.Changed("threshold") {
		cfg.Image.Threshold = threshold
	}
	if flags.Changed("invert") {
		cfg.Image.Invert = invert
	}
	if flags.Changed("overlay") {
		cfg.Overlay.Path = overlayOut
	}
	if flags.Changed("color") {
		cfg.Overlay.Color = color
	}
	if flags.Changed("show-points") {
		cfg.Overlay.Points = showPoints
	}
	if flags.Changed("data-dir") {
		cfg.Store.DataDir = dataDir
	}
	if flags.Changed("save") {
		cfg.Store.Save = saveRun
	}

	return cfg, nil
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts, err := cfg.PrepOptions()
	if err != nil {
		return err
	}

	img, err := prep.Load(imagePath)
	if err != nil {
		return err
	}
	slog.Info("Loaded image", "path", imagePath, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	prepared, err := prep.Prepare(img, opts)
	if err != nil {
		return err
	}

	w, h := prepared.Grid.Size()
	job := fitJob{
		input: store.Input{
			Source:    imagePath,
			Crop:      cfg.Image.Crop,
			Soften:    opts.Soften,
			Threshold: opts.Threshold,
			Invert:    opts.Invert,
			Width:     w,
			Height:    h,
		},
		grid: prepared.Grid,
		base: prepared.Source,
		mask: prepared.Binary,
	}

	_, err = executeFit(cmd.OutOrStdout(), cfg, job)
	return err
}

// fitJob is one grid to fit plus what to record about it
type fitJob struct {
	input store.Input
	grid  boundary.Grid
	base  image.Image // overlay background, same coordinates as grid
	mask  image.Image
	truth *fit.Params // known only for synthetic scenes
}

// fitOutput is what fit and simulate print
type fitOutput struct {
	RunID    string      `json:"runId,omitempty"`
	Result   *fit.Result `json:"result"`
	Centroid *centroid   `json:"centroid,omitempty"`
	Truth    *fit.Params `json:"truth,omitempty"`
}

// centroid is the foreground center of mass, the estimate for a fully visible mark
type centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// executeFit runs the fit and handles overlay, persistence and output.
// Once a run directory exists, any error removes it again.
func executeFit(out io.Writer, cfg *config.Config, job fitJob) (result *fit.Result, err error) {
	fitter := &fit.Fitter{}

	var runStore *store.FSStore
	var trace *store.TraceWriter
	var traceErr error
	runID := ""

	if cfg.Store.Save {
		runStore, err = store.NewFSStore(cfg.Store.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create run store: %w", err)
		}

		runID = store.NewRunID()
		trace, err = store.NewTraceWriter(runStore.BaseDir(), runID, false)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err == nil {
				return
			}
			if derr := runStore.DeleteRun(runID); derr != nil {
				slog.Warn("Failed to remove incomplete run", "id", runID, "error", derr)
			}
		}()
		fitter.Trace = trace.TraceFunc(&traceErr)
	}

	start := time.Now()
	result, err = fitter.FitCircle(job.grid, cfg.Fit)
	elapsed := time.Since(start)

	if trace != nil {
		if cerr := trace.Close(); cerr != nil && traceErr == nil {
			traceErr = cerr
		}
	}
	if err != nil {
		return nil, err
	}
	if traceErr != nil {
		slog.Warn("Trace incomplete", "error", traceErr)
	}

	if cfg.Overlay.Path != "" || runStore != nil {
		if err = writeImages(cfg, job, result, runStore, runID); err != nil {
			return nil, err
		}
	}

	if runStore != nil {
		run := store.NewRun(runID, job.input, cfg.Fit, *result, elapsed)
		if err = runStore.SaveRun(run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		slog.Info("Run saved", "id", runID, "dir", runStore.RunDir(runID))
	}

	output := fitOutput{RunID: runID, Result: result, Truth: job.truth}
	if x, y, ok := fit.Centroid(job.grid); ok {
		output.Centroid = &centroid{X: x, Y: y}
	}
	if err = printJSON(out, output); err != nil {
		return nil, err
	}
	return result, nil
}

// writeImages renders the overlay to --overlay and into the run directory
func writeImages(cfg *config.Config, job fitJob, result *fit.Result, runStore *store.FSStore, runID string) error {
	c, err := render.ParseColor(cfg.Overlay.Color)
	if err != nil {
		return fmt.Errorf("invalid overlay color: %w", err)
	}
	style := render.DefaultStyle()
	style.Color = c
	style.Opacity = cfg.Overlay.Opacity
	style.Thickness = cfg.Overlay.Thickness

	overlay := render.Overlay(job.base, result.Params, style)
	if cfg.Overlay.Points {
		pc, err := render.ParseColor(cfg.Overlay.PointColor)
		if err != nil {
			return fmt.Errorf("invalid point color: %w", err)
		}
		pointStyle := style
		pointStyle.Color = pc
		pointStyle.Opacity = 1
		render.Points(overlay, result.Boundary, pointStyle)
	}

	if cfg.Overlay.Path != "" {
		if err := prep.Save(overlay, cfg.Overlay.Path); err != nil {
			return err
		}
		slog.Info("Wrote overlay", "path", cfg.Overlay.Path)
	}

	if runStore != nil {
		if err := prep.Save(overlay, runStore.ArtifactPath(runID, store.OverlayFile)); err != nil {
			slog.Warn("Failed to save run overlay", "id", runID, "error", err)
		}
		if job.mask != nil {
			if err := prep.Save(job.mask, runStore.ArtifactPath(runID, store.MaskFile)); err != nil {
				slog.Warn("Failed to save run mask", "id", runID, "error", err)
			}
		}
	}
	return nil
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
