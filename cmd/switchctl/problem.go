package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/switchctl/internal/config"
	"github.com/san-kum/switchctl/internal/experiment"
	"github.com/san-kum/switchctl/internal/integrators"
	"github.com/san-kum/switchctl/internal/problem"
	"github.com/san-kum/switchctl/internal/switching"
)

// problemFlags describe one problem instance and one candidate vector.
type problemFlags struct {
	variant string
	n       int
	tmax    float64
	uLower  float64
	uUpper  float64
	x10     float64
	x20     float64
	steps   int
	u1      float64
	u2      float64
	lambda  []float64
	vector  []float64
}

func (f *problemFlags) register(cmd *cobra.Command, candidate bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.variant, "variant", experiment.VariantI1, "problem variant (i1, i2, mo)")
	fs.IntVarP(&f.n, "switches", "n", 8, "number of switching intervals")
	fs.Float64Var(&f.tmax, "tmax", config.DefaultTmax, "time horizon")
	fs.Float64Var(&f.uLower, "u-lower", config.DefaultControlLower, "control lower bound")
	fs.Float64Var(&f.uUpper, "u-upper", config.DefaultControlUpper, "control upper bound")
	fs.Float64Var(&f.x10, "x10", config.DefaultX10, "initial x1")
	fs.Float64Var(&f.x20, "x20", config.DefaultX20, "initial x2")
	fs.IntVar(&f.steps, "steps", integrators.DefaultSteps, "RK4 steps over the horizon")
	if !candidate {
		return
	}
	fs.Float64Var(&f.u1, "u1", 0, "constant u1 on every interval")
	fs.Float64Var(&f.u2, "u2", 0, "constant u2 on every interval")
	fs.Float64SliceVar(&f.lambda, "lambda", nil, "trailing weights (default: preset for the switch count)")
	fs.Float64SliceVar(&f.vector, "vector", nil, "full candidate vector, overrides --u1, --u2 and --lambda")
}

func (f *problemFlags) params() problem.Params {
	return problem.Params{
		N:       f.n,
		Control: problem.Bounds{Lower: f.uLower, Upper: f.uUpper},
		Tmax:    f.tmax,
		X10:     f.x10,
		X20:     f.x20,
		Steps:   f.steps,
	}
}

// build constructs the variant through the experiment registry so the CLI
// and the sweep agree on weights.
func (f *problemFlags) build() (experiment.Instance, error) {
	return experiment.NewRegistry().GetProblem(f.variant, f.params(), config.DefaultConfig().Lambda)
}

// candidate assembles the vector to evaluate on inst.
func (f *problemFlags) candidate(inst experiment.Instance) ([]float64, error) {
	dim := inst.Dim()
	if len(f.vector) > 0 {
		if len(f.vector) != dim {
			return nil, fmt.Errorf("--vector has %d entries, problem needs %d", len(f.vector), dim)
		}
		return f.vector, nil
	}

	x := make([]float64, 0, dim)
	for i := 0; i < f.n; i++ {
		x = append(x, f.u1)
	}
	for i := 0; i < f.n; i++ {
		x = append(x, f.u2)
	}
	trailing := dim - 2*f.n
	if trailing == 0 {
		return x, nil
	}

	lambda := f.lambda
	if len(lambda) == 0 {
		lambda = defaultLambda(inst, f.n)
	}
	if len(lambda) != trailing {
		return nil, fmt.Errorf("problem needs %d trailing weights, got %d (use --lambda)", trailing, len(lambda))
	}
	return append(x, lambda...), nil
}

// defaultLambda picks the preset weights for n, if any.
func defaultLambda(inst experiment.Instance, n int) []float64 {
	if p, ok := inst.(*problem.Penalized); ok {
		if l, ok := config.LambdaPreset(p.Kind(), n); ok {
			return []float64{l.L1, l.L2}
		}
	}
	return nil
}

// evaluated is what the CLI reads back after an evaluation.
type evaluated interface {
	Trajectory() *integrators.Trajectory
	Schedule() *switching.Schedule
}
