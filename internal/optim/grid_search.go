// Package optim tunes config values by exhaustive search over scenario runs.
package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/skyplane/internal/config"
	"github.com/san-kum/skyplane/internal/scenario"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the objective; metrics such as containment are
	// better when larger.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search: %d params but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("grid search: empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Search runs scn once per grid point and returns the point with the
// best value of metricName. Grid points whose config fails validation
// are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	scn *scenario.Scenario,
	metricName string,
) (map[string]float64, float64, error) {
	best := math.Inf(1)
	if g.Maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, scn, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("grid search: no valid configuration for %s", metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	scn *scenario.Scenario,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for name, v := range current {
			if err := scenario.ApplyParam(cfg, name, v); err != nil {
				return err
			}
		}
		if cfg.Validate() != nil {
			return nil
		}

		result, err := scenario.RunWithConfig(ctx, cfg, scn, nil)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("grid search: unknown metric %s", metricName)
		}
		if g.better(val, *best) {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, scn, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(val, best float64) bool {
	if math.IsNaN(val) {
		return false
	}
	if g.Maximize {
		return val > best
	}
	return val < best
}
