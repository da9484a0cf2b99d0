package optim

import (
	"context"
	"fmt"
	"math"

	"k8s.io/klog/v2"
)

// grid enumerates candidates whose controls are constant over all
// switching intervals. The free coordinates are u1, u2 and each trailing
// weight, every one sampled on Levels uniform points of its bounds.
type grid struct {
	switches int
	levels   int
}

func newGrid(switches, levels int, b Bounded) (*grid, []float64, []float64, error) {
	if levels < 1 {
		return nil, nil, nil, fmt.Errorf("optim: levels must be at least 1, got %d", levels)
	}
	lower, upper := b.LowerBounds(), b.UpperBounds()
	if len(lower) != len(upper) {
		return nil, nil, nil, fmt.Errorf("optim: bounds of different length %d and %d", len(lower), len(upper))
	}
	if switches < 1 || 2*switches > len(lower) {
		return nil, nil, nil, fmt.Errorf("optim: %d switches do not fit %d dimensions", switches, len(lower))
	}
	return &grid{switches: switches, levels: levels}, lower, upper, nil
}

// level returns point k of levels uniform points on [lo, hi]; one level is
// the midpoint.
func (g *grid) level(lo, hi float64, k int) float64 {
	if g.levels == 1 {
		return lo + (hi-lo)/2
	}
	return lo + (hi-lo)*float64(k)/float64(g.levels-1)
}

// coords returns the number of free coordinates for a vector of dim
// entries.
func (g *grid) coords(dim int) int {
	return 2 + dim - 2*g.switches
}

// set writes coordinate c at level k into x.
func (g *grid) set(x, lower, upper []float64, c, k int) {
	n := g.switches
	switch c {
	case 0, 1:
		off := c * n
		v := g.level(lower[off], upper[off], k)
		for i := off; i < off+n; i++ {
			x[i] = v
		}
	default:
		i := 2*n + c - 2
		x[i] = g.level(lower[i], upper[i], k)
	}
}

func (g *grid) searchRecursive(ctx context.Context, depth int, x, lower, upper []float64, visit func([]float64) error) error {
	if depth == g.coords(len(x)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		return visit(x)
	}
	for k := 0; k < g.levels; k++ {
		g.set(x, lower, upper, depth, k)
		if err := g.searchRecursive(ctx, depth+1, x, lower, upper, visit); err != nil {
			return err
		}
	}
	return nil
}

// size returns the number of candidates the grid visits for dim entries.
func (g *grid) size(dim int) int {
	return int(math.Pow(float64(g.levels), float64(g.coords(dim))))
}

// ConstantGrid is an exhaustive baseline for single-objective problems.
type ConstantGrid struct {
	Switches int
	Levels   int
}

func NewConstantGrid(switches, levels int) *ConstantGrid {
	return &ConstantGrid{Switches: switches, Levels: levels}
}

func (c *ConstantGrid) Minimize(ctx context.Context, f Objectiver, b Bounded) (Solution, error) {
	g, lower, upper, err := newGrid(c.Switches, c.Levels, b)
	if err != nil {
		return Solution{}, err
	}
	logger := klog.FromContext(ctx)
	logger.V(5).Info("Grid search started", "candidates", g.size(len(lower)))

	best := Solution{Objectives: []float64{math.Inf(1)}}
	evaluations := 0
	x := make([]float64, len(lower))

	err = g.searchRecursive(ctx, 0, x, lower, upper, func(x []float64) error {
		v, err := f.Objective(x)
		if err != nil {
			return err
		}
		evaluations++
		if v < best.Objectives[0] {
			best.Objectives[0] = v
			best.Point = append(best.Point[:0], x...)
		}
		return nil
	})
	if err != nil {
		return Solution{}, err
	}
	if best.Point == nil {
		return Solution{}, fmt.Errorf("optim: no finite objective value in %d evaluations", evaluations)
	}

	logger.V(4).Info("Grid search finished", "evaluations", evaluations, "best", best.Objectives[0])
	return best, nil
}

// ConstantGridFront is the multi-objective counterpart of ConstantGrid. It
// returns the non-dominated subset of the grid.
type ConstantGridFront struct {
	Switches int
	Levels   int
}

func NewConstantGridFront(switches, levels int) *ConstantGridFront {
	return &ConstantGridFront{Switches: switches, Levels: levels}
}

func (c *ConstantGridFront) Minimize(ctx context.Context, f MultiObjectiver, b Bounded) ([]Solution, error) {
	g, lower, upper, err := newGrid(c.Switches, c.Levels, b)
	if err != nil {
		return nil, err
	}
	logger := klog.FromContext(ctx)
	logger.V(5).Info("Grid front started", "candidates", g.size(len(lower)))

	var front []Solution
	evaluations := 0
	x := make([]float64, len(lower))

	err = g.searchRecursive(ctx, 0, x, lower, upper, func(x []float64) error {
		objs, err := f.Objectives(x)
		if err != nil {
			return err
		}
		if len(objs) != f.NumObjectives() {
			return fmt.Errorf("optim: expected %d objectives, got %d", f.NumObjectives(), len(objs))
		}
		evaluations++
		front = insert(front, Solution{
			Point:      append([]float64(nil), x...),
			Objectives: append([]float64(nil), objs...),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.V(4).Info("Grid front finished", "evaluations", evaluations, "front", len(front))
	return NonDominated(front), nil
}
