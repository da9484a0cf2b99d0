package problem

import (
	"fmt"

	"github.com/san-kum/switchctl/internal/dynamo"
	"github.com/san-kum/switchctl/internal/metrics"
)

// NumObjectives is the number of objectives of a MultiObjective.
const NumObjectives = 2

// MultiObjective evaluates the quadratic and the L1 functional on one
// shared trajectory. Objective 0 is quadratic with weights L1, L2;
// objective 1 is L1 with weights L3, L4.
type MultiObjective struct {
	*core
	weights  Weights
	embedded bool
	w12, w34 Bounds
	lower    []float64
	upper    []float64
	effort   [NumObjectives]*metrics.ControlEffort
}

// NewMultiObjective builds a problem with fixed weights over 2N dimensions.
func NewMultiObjective(p Params, w Weights) (*MultiObjective, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	lower, upper, err := BuildBounds(p.N, p.Control)
	if err != nil {
		return nil, err
	}
	return newMulti(p, lower, upper, func(m *MultiObjective) {
		m.weights = w
	})
}

// NewMultiObjectiveEmbedded builds a problem whose four weights are the
// last four entries of the candidate vector: L1, L2 bounded by w12 and
// L3, L4 bounded by w34.
func NewMultiObjectiveEmbedded(p Params, w12, w34 Bounds) (*MultiObjective, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := w12.validate("w12"); err != nil {
		return nil, err
	}
	if err := w34.validate("w34"); err != nil {
		return nil, err
	}
	if !(w12.Lower > 0) || !(w34.Lower > 0) {
		return nil, dynamo.NewArgumentError("weights", "weight bounds must be positive, got %v and %v", w12, w34)
	}
	lower, upper, err := BuildBounds(p.N, p.Control, w12, w34)
	if err != nil {
		return nil, err
	}
	return newMulti(p, lower, upper, func(m *MultiObjective) {
		m.embedded = true
		m.w12, m.w34 = w12, w34
	})
}

func newMulti(p Params, lower, upper []float64, opt func(*MultiObjective)) (*MultiObjective, error) {
	c, err := newCore(p, len(lower))
	if err != nil {
		return nil, err
	}
	m := &MultiObjective{
		core:  c,
		lower: lower,
		upper: upper,
		effort: [NumObjectives]*metrics.ControlEffort{
			metrics.NewControlEffort(metrics.Squared),
			metrics.NewControlEffort(metrics.AbsoluteJoint),
		},
	}
	opt(m)
	return m, nil
}

func (m *MultiObjective) NumObjectives() int { return NumObjectives }

// Embedded reports whether the weights are read from the candidate vector.
func (m *MultiObjective) Embedded() bool { return m.embedded }

// Weights returns the fixed weights. It is the zero value for an embedded
// problem; use WeightsOf to read a candidate's weights.
func (m *MultiObjective) Weights() Weights { return m.weights }

// WeightBounds returns the bounds of the embedded weight pairs.
func (m *MultiObjective) WeightBounds() (w12, w34 Bounds) { return m.w12, m.w34 }

// WeightsOf returns the weights that apply to candidate x.
func (m *MultiObjective) WeightsOf(x []float64) Weights {
	if !m.embedded {
		return m.weights
	}
	n := 2 * m.params.N
	return Weights{L1: x[n], L2: x[n+1], L3: x[n+2], L4: x[n+3]}
}

func (m *MultiObjective) LowerBounds() []float64 { return cloneFloats(m.lower) }
func (m *MultiObjective) UpperBounds() []float64 { return cloneFloats(m.upper) }

// Evaluate returns the breakdown of objective k for x. The trajectory is
// reused while x carries the controls last integrated and no new point has
// been marked.
func (m *MultiObjective) Evaluate(x []float64, k int) (Result, error) {
	if err := m.check(x); err != nil {
		return Result{}, err
	}
	w := m.WeightsOf(x)
	switch k {
	case 0:
		return m.penalized(m.effort[0], x, w.L1, w.L2), nil
	case 1:
		return m.penalized(m.effort[1], x, w.L3, w.L4), nil
	default:
		return Result{}, &dynamo.ArgumentError{
			Field:  "objective",
			Index:  k,
			Reason: fmt.Sprintf("must be in [0, %d)", NumObjectives),
		}
	}
}

// Objective returns objective k of x using the cached trajectory.
func (m *MultiObjective) Objective(x []float64, k int) (float64, error) {
	r, err := m.Evaluate(x, k)
	if err != nil {
		return 0, err
	}
	return r.Value, nil
}

// Objectives marks x as a new candidate and returns both objectives from a
// single integration.
func (m *MultiObjective) Objectives(x []float64) ([]float64, error) {
	m.MarkNewPoint()
	out := make([]float64, NumObjectives)
	for k := range out {
		v, err := m.Objective(x, k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Clone returns an independent instance with the same configuration and
// no cached trajectory.
func (m *MultiObjective) Clone() *MultiObjective {
	var (
		c   *MultiObjective
		err error
	)
	if m.embedded {
		c, err = NewMultiObjectiveEmbedded(m.params, m.w12, m.w34)
	} else {
		c, err = NewMultiObjective(m.params, m.weights)
	}
	if err != nil {
		panic(fmt.Sprintf("problem: cloning a valid instance failed: %v", err))
	}
	return c
}
