package problem

import (
	"math"

	"github.com/san-kum/switchctl/internal/dynamo"
)

// Bounds is a closed interval [Lower, Upper] with Lower < Upper.
type Bounds struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
}

func (b Bounds) validate(field string) error {
	if !isFinite(b.Lower) || !isFinite(b.Upper) {
		return dynamo.NewArgumentError(field, "bounds must be finite, got [%g, %g]", b.Lower, b.Upper)
	}
	if b.Lower >= b.Upper {
		return dynamo.NewArgumentError(field, "lower bound %g must be less than upper bound %g", b.Lower, b.Upper)
	}
	return nil
}

// Params describes one problem instance.
type Params struct {
	// N is the number of switching intervals.
	N       int
	Control Bounds
	Tmax    float64
	X10     float64
	X20     float64
	// Steps is the number of RK4 steps; 0 means integrators.DefaultSteps.
	Steps int
}

// Validate reports the first structural problem with p.
func (p Params) Validate() error {
	if p.N < 2 {
		return dynamo.NewArgumentError("N", "must be at least 2, got %d", p.N)
	}
	if err := p.Control.validate("control"); err != nil {
		return err
	}
	if !isFinite(p.Tmax) || p.Tmax <= 0 {
		return dynamo.NewArgumentError("Tmax", "must be positive and finite, got %g", p.Tmax)
	}
	if !isFinite(p.X10) || !isFinite(p.X20) {
		return dynamo.NewArgumentError("x0", "initial state must be finite, got (%g, %g)", p.X10, p.X20)
	}
	if p.Steps < 0 {
		return dynamo.NewArgumentError("Steps", "must not be negative, got %d", p.Steps)
	}
	return nil
}

// Weights are the fixed terminal-penalty coefficients of the
// multi-objective variant: L1, L2 weight the quadratic objective and
// L3, L4 the L1 objective.
type Weights struct {
	L1 float64 `yaml:"lambda1" json:"lambda1"`
	L2 float64 `yaml:"lambda2" json:"lambda2"`
	L3 float64 `yaml:"lambda3" json:"lambda3"`
	L4 float64 `yaml:"lambda4" json:"lambda4"`
}

func (w Weights) validate() error {
	for i, v := range [...]float64{w.L1, w.L2, w.L3, w.L4} {
		if !isFinite(v) || v <= 0 {
			return &dynamo.ArgumentError{
				Field:  "lambda",
				Index:  i + 1,
				Reason: "must be positive and finite",
			}
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
