package scan

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"golimit/domain/core"
	"golimit/domain/model"
	"golimit/internal/inference"
)

// band labels in expected-set order, used in out-of-range diagnostics
var bandLabels = [inference.BandSize]string{
	"expected(-2sigma)", "expected(-1sigma)", "expected(median)",
	"expected(+1sigma)", "expected(+2sigma)",
}

// Point is one evaluated grid position of the scan
type Point struct {
	POI    float64              `json:"poi"`
	Result inference.TestResult `json:"result"`
}

// CurveDiagnostics summarizes the observed CLs curve across the grid
type CurveDiagnostics struct {
	MinCLs    float64 `json:"min_cls"`
	MedianCLs float64 `json:"median_cls"`
	MaxCLs    float64 `json:"max_cls"`
}

// LimitResult holds the signal-strength values at which the observed and
// expected CLs curves cross the exclusion level
type LimitResult struct {
	Level       float64                     `json:"level"`
	Observed    float64                     `json:"observed"`
	Expected    [inference.BandSize]float64 `json:"expected"` // median at index 2
	Points      []Point                     `json:"points"`
	Diagnostics CurveDiagnostics            `json:"diagnostics"`
}

// ExpectedMedian returns the median expected upper limit
func (r *LimitResult) ExpectedMedian() float64 {
	return r.Expected[inference.BandMedian]
}

// Options tunes the scan execution. Workers > 1 evaluates grid points
// concurrently; each point is an independent pure computation.
type Options struct {
	Workers int
}

// Linspace returns steps evenly spaced values from min to max inclusive
func Linspace(min, max float64, steps int) []float64 {
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = min
		return out
	}
	d := (max - min) / float64(steps-1)
	for i := range out {
		out[i] = min + float64(i)*d
	}
	return out
}

// UpperLimit scans the POI grid, tests every point and interpolates the
// first crossing of each CLs curve below level. The grid must be strictly
// increasing; level picks the exclusion threshold (0.05 for 95% CL).
func UpperLimit(ctx context.Context, calc *inference.AsymptoticCalculator, m *model.Model,
	observations []float64, grid []float64, level float64, opts Options) (*LimitResult, error) {

	if len(grid) < 2 {
		return nil, fmt.Errorf("scan grid needs at least 2 points, got %d", len(grid))
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return nil, fmt.Errorf("scan grid must be strictly increasing at index %d", i)
		}
	}
	if level <= 0 || level >= 1 {
		return nil, fmt.Errorf("level must be in (0,1), got %g", level)
	}

	points, err := evaluate(ctx, calc, m, observations, grid, opts)
	if err != nil {
		return nil, err
	}

	res := &LimitResult{Level: level, Points: points}

	observed := make([]float64, len(points))
	for i, p := range points {
		observed[i] = p.Result.CLsObs
	}
	res.Observed, err = crossing(grid, observed, level, "observed")
	if err != nil {
		return nil, err
	}

	for b := 0; b < inference.BandSize; b++ {
		curve := make([]float64, len(points))
		for i, p := range points {
			curve[i] = p.Result.CLsExp[b]
		}
		res.Expected[b], err = crossing(grid, curve, level, bandLabels[b])
		if err != nil {
			return nil, err
		}
	}

	res.Diagnostics = diagnostics(observed)
	return res, nil
}

// evaluate runs the hypothesis test at every grid point, sequentially by
// default and through an errgroup when Workers > 1
func evaluate(ctx context.Context, calc *inference.AsymptoticCalculator, m *model.Model,
	observations []float64, grid []float64, opts Options) ([]Point, error) {

	points := make([]Point, len(grid))

	if opts.Workers <= 1 {
		for i, poi := range grid {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result, err := calc.HypothesisTest(m, observations, poi)
			if err != nil {
				return nil, fmt.Errorf("scan point poi=%g: %w", poi, err)
			}
			points[i] = Point{POI: poi, Result: result}
		}
		return points, nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, poi := range grid {
		i, poi := i, poi
		g.Go(func() error {
			result, err := calc.HypothesisTest(m, observations, poi)
			if err != nil {
				return fmt.Errorf("scan point poi=%g: %w", poi, err)
			}
			points[i] = Point{POI: poi, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// crossing finds the first low-to-high POI at which the curve drops to or
// below level, linearly interpolated between the straddling grid points.
// CLs curves are expected to decrease with POI; under numerical noise the
// first crossing wins.
func crossing(grid, curve []float64, level float64, label string) (float64, error) {
	if curve[0] <= level {
		return grid[0], nil
	}
	for i := 1; i < len(curve); i++ {
		if curve[i] <= level {
			x0, x1 := grid[i-1], grid[i]
			y0, y1 := curve[i-1], curve[i]
			return x0 + (level-y0)*(x1-x0)/(y1-y0), nil
		}
	}
	return 0, core.NewLimitOutOfRangeError(label, grid[0], grid[len(grid)-1])
}

func diagnostics(observed []float64) CurveDiagnostics {
	min, _ := stats.Min(observed)
	median, _ := stats.Median(observed)
	max, _ := stats.Max(observed)
	return CurveDiagnostics{MinCLs: min, MedianCLs: median, MaxCLs: max}
}
