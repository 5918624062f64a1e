package fit

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/cwbudde/fiducialfit/internal/boundary"
	"github.com/cwbudde/fiducialfit/internal/opt"
)

// TraceFunc receives the best circle after each optimizer iteration.
// start indexes the starting circle; with several starts it is called from
// multiple goroutines and must be safe for concurrent use.
type TraceFunc func(start, iteration int, p Params, cost float64)

// Fitter runs circle fits. The zero value is ready to use.
type Fitter struct {
	// Trace is optional
	Trace TraceFunc
}

// FitCircle extracts the boundary of grid and fits a circle to it
func FitCircle(grid boundary.Grid, cfg Config) (*Result, error) {
	return (&Fitter{}).FitCircle(grid, cfg)
}

// FitPoints fits a circle to an existing boundary point set
func FitPoints(points boundary.PointSet, cfg Config) (*Result, error) {
	return (&Fitter{}).FitPoints(points, cfg)
}

// FitCircle extracts the boundary of grid and fits a circle to it.
// An empty boundary yields an InsufficientDataError; an unconverged fit is
// not an error and is reported through Result.Converged.
func (f *Fitter) FitCircle(grid boundary.Grid, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("Fit state", "state", StateExtracting)
	points, err := boundary.Extract(grid, cfg.extractOptions())
	if errors.Is(err, boundary.ErrNoBoundary) {
		var w, h int
		if grid != nil {
			w, h = grid.Size()
		}
		slog.Debug("Fit state", "state", StateFailed, "width", w, "height", h)
		return nil, &InsufficientDataError{Width: w, Height: h, Margin: cfg.Margin}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to extract boundary: %w", err)
	}

	return f.FitPoints(points, cfg)
}

// FitPoints fits a circle to points. Every starting circle runs in its own
// goroutine; the best result wins.
func (f *Fitter) FitPoints(points boundary.PointSet, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if points.Empty() {
		return nil, &InsufficientDataError{}
	}

	starts, err := startingCircles(points, cfg)
	if err != nil {
		return nil, err
	}

	objective, err := NewObjective(cfg.Objective, points)
	if err != nil {
		return nil, err
	}

	strategy := cfg.Strategy
	if strategy == "" {
		strategy = StrategyNelderMead
	}

	slog.Info("Starting circle fit",
		"points", points.Len(),
		"objective", objective.Name(),
		"strategy", strategy,
		"starts", len(starts),
	)
	slog.Debug("Fit state", "state", StateFitting)

	bounds := searchBounds(points)
	results := make([]*Result, len(starts))
	errs := make([]error, len(starts))

	var wg sync.WaitGroup
	for i, start := range starts {
		wg.Add(1)
		go func(i int, start Params) {
			defer wg.Done()
			results[i], errs[i] = f.runStart(objective, bounds, start, i, cfg)
		}(i, start)
	}
	wg.Wait()

	var best *Result
	for i, r := range results {
		if errs[i] != nil {
			return nil, fmt.Errorf("start %d: %w", i, errs[i])
		}
		if r.better(best) {
			best = r
		}
	}

	best.Points = points.Len()
	best.Boundary = points
	best.Strategy = strategy
	best.Objective = objective.Name()

	slog.Info("Circle fit complete",
		"center_x", best.CenterX,
		"center_y", best.CenterY,
		"radius", best.Radius,
		"converged", best.Converged,
		"iterations", best.Iterations,
		"final_objective", best.FinalObjective,
	)
	slog.Debug("Fit state", "state", best.State())

	return best, nil
}

// runStart minimizes from one starting circle
func (f *Fitter) runStart(objective Objective, bounds *Bounds, start Params, index int, cfg Config) (*Result, error) {
	problem := opt.Problem{
		Func:  objective.Value,
		Lower: bounds.Lower,
		Upper: bounds.Upper,
	}
	if g, ok := objective.(GradientObjective); ok {
		problem.Grad = g.Gradient
	}
	if cfg.Strategy == StrategyBFGS && problem.Grad == nil {
		return nil, &InvalidConfigurationError{Field: "Strategy", Reason: "bfgs requires a gradient"}
	}

	var trace func(int, []float64, float64)
	if f.Trace != nil {
		trace = func(iteration int, x []float64, cost float64) {
			f.Trace(index, iteration, ParamsFromVector(x), cost)
		}
	}

	minimizer := cfg.newMinimizer(math.Max(1, 0.1*start.Radius), trace)
	r, err := minimizer.Minimize(problem, start.Vector())
	if err != nil {
		return nil, fmt.Errorf("failed to minimize: %w", err)
	}

	result := &Result{
		Params:         ParamsFromVector(r.X),
		Converged:      r.Converged,
		Iterations:     r.Iterations,
		Evaluations:    r.Evaluations,
		FinalObjective: r.F,
		Status:         r.Status,
		Start:          start,
	}

	// The cost depends on r^2 only, so a negative radius is the same circle
	result.Radius = math.Abs(result.Radius)
	if result.Radius == 0 || !result.Params.Finite() {
		result.Params = start
		result.FinalObjective = objective.Value(start.Vector())
		result.Converged = false
		result.Status = StatusNonPositiveRadius
	}

	slog.Debug("Start finished",
		"start", index,
		"initial", start.String(),
		"final", result.Params.String(),
		"cost", result.FinalObjective,
		"status", result.Status,
	)
	return result, nil
}

// startingCircles lists the starts for one fit: the caller's override or the
// data-driven guess with its radius-scaled variants, then ExtraStarts
func startingCircles(points boundary.PointSet, cfg Config) ([]Params, error) {
	var starts []Params
	if cfg.Start != nil {
		starts = append(starts, *cfg.Start)
	} else {
		guess, err := InitialGuess(points)
		if err != nil {
			return nil, err
		}
		starts = multiStarts(guess, cfg.Starts)
	}
	return append(starts, cfg.ExtraStarts...), nil
}

// searchBounds builds the box for bounded strategies from the source grid,
// or from the point extent when the grid size is unknown
func searchBounds(points boundary.PointSet) *Bounds {
	w, h := points.GridSize()
	if w == 0 || h == 0 {
		for _, p := range points.Points() {
			w = max(w, p.X+1)
			h = max(h, p.Y+1)
		}
	}
	return NewBounds(w, h)
}
