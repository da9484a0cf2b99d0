package problem

import (
	"fmt"

	"github.com/san-kum/switchctl/internal/dynamo"
	"github.com/san-kum/switchctl/internal/metrics"
)

// Kind selects the effort term of a penalized problem.
type Kind int

const (
	// Quadratic is the I1 functional, effort Σ(u1²+u2²)Δt.
	Quadratic Kind = iota
	// L1 is the I2 functional, effort Σ(|u1|+|u2|)Δt.
	L1
)

func (k Kind) String() string {
	switch k {
	case Quadratic:
		return "quadratic"
	case L1:
		return "l1"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Norm returns the effort norm of the kind.
func (k Kind) Norm() metrics.Norm {
	if k == L1 {
		return metrics.Absolute
	}
	return metrics.Squared
}

// Penalized is a single-objective problem: effort plus a terminal penalty
// whose two weights are the last two entries of the candidate vector.
type Penalized struct {
	*core
	kind    Kind
	weights Bounds
	lower   []float64
	upper   []float64
	effortM *metrics.ControlEffort
}

func NewPenalized(kind Kind, p Params, weights Bounds) (*Penalized, error) {
	if kind != Quadratic && kind != L1 {
		return nil, dynamo.NewArgumentError("kind", "unknown problem kind %d", int(kind))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := weights.validate("weights"); err != nil {
		return nil, err
	}
	lower, upper, err := BuildBounds(p.N, p.Control, weights)
	if err != nil {
		return nil, err
	}
	c, err := newCore(p, len(lower))
	if err != nil {
		return nil, err
	}
	return &Penalized{
		core:    c,
		kind:    kind,
		weights: weights,
		lower:   lower,
		upper:   upper,
		effortM: metrics.NewControlEffort(kind.Norm()),
	}, nil
}

func (p *Penalized) Kind() Kind { return p.kind }

// WeightBounds returns the bounds of the two trailing weights.
func (p *Penalized) WeightBounds() Bounds { return p.weights }

func (p *Penalized) LowerBounds() []float64 { return cloneFloats(p.lower) }
func (p *Penalized) UpperBounds() []float64 { return cloneFloats(p.upper) }

// Objective evaluates a new candidate. It always integrates.
func (p *Penalized) Objective(x []float64) (float64, error) {
	p.MarkNewPoint()
	r, err := p.Evaluate(x)
	if err != nil {
		return 0, err
	}
	return r.Value, nil
}

// Evaluate returns the full breakdown for x. It reuses the trajectory only
// if x carries the controls that were last integrated and no new point has
// been marked since.
func (p *Penalized) Evaluate(x []float64) (Result, error) {
	if err := p.check(x); err != nil {
		return Result{}, err
	}
	n := p.params.N
	return p.penalized(p.effortM, x, x[2*n], x[2*n+1]), nil
}

// Clone returns an independent instance with the same configuration and
// no cached trajectory.
func (p *Penalized) Clone() *Penalized {
	c, err := NewPenalized(p.kind, p.params, p.weights)
	if err != nil {
		panic(fmt.Sprintf("problem: cloning a valid instance failed: %v", err))
	}
	return c
}
