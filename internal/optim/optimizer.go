package optim

import "context"

// Objectiver is a single-objective function to minimize.
type Objectiver interface {
	Objective(x []float64) (float64, error)
}

// MultiObjectiver evaluates all objectives of a candidate at once.
type MultiObjectiver interface {
	NumObjectives() int
	Objectives(x []float64) ([]float64, error)
}

// Bounded exposes the box constraints of a problem.
type Bounded interface {
	LowerBounds() []float64
	UpperBounds() []float64
}

// Solution is a candidate and its objective values.
type Solution struct {
	Point      []float64
	Objectives []float64
}

type SingleOptimizer interface {
	Minimize(ctx context.Context, f Objectiver, b Bounded) (Solution, error)
}

type MultiOptimizer interface {
	Minimize(ctx context.Context, f MultiObjectiver, b Bounded) ([]Solution, error)
}
