package experiment

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/switchctl/internal/config"
	"github.com/san-kum/switchctl/internal/dynamo"
	"github.com/san-kum/switchctl/internal/optim"
	"github.com/san-kum/switchctl/internal/problem"
	"github.com/san-kum/switchctl/internal/storage"
)

func testParams(n int) problem.Params {
	return problem.Params{
		N:       n,
		Control: problem.Bounds{Lower: -1, Upper: 1},
		Tmax:    1,
		X10:     0.5,
		X20:     1,
	}
}

func testLambda() config.LambdaConfig {
	return config.LambdaConfig{
		I1: config.WeightBounds(problem.Quadratic),
		I2: config.WeightBounds(problem.L1),
	}
}

type scriptedOptimizer struct {
	fail  func() bool
	panic bool
}

func (o *scriptedOptimizer) Minimize(ctx context.Context, f optim.Objectiver, b optim.Bounded) (optim.Solution, error) {
	if o.panic {
		panic("diverged")
	}
	if o.fail() {
		return optim.Solution{}, errors.New("no convergence")
	}
	x := b.LowerBounds()
	v, err := f.Objective(x)
	return optim.Solution{Point: x, Objectives: []float64{v}}, err
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"i1", "i2", "mo"}, r.ListProblems())

	_, err := r.GetProblem("i3", testParams(2), testLambda())
	assert.Error(t, err)

	inst, err := r.GetProblem(VariantMulti, testParams(8), testLambda())
	require.NoError(t, err)
	m := inst.(*problem.MultiObjective)
	assert.False(t, m.Embedded())
	assert.Equal(t, 11247.6302753864, m.Weights().L1)

	inst, err = r.GetProblem(VariantMulti, testParams(4), testLambda())
	require.NoError(t, err)
	assert.True(t, inst.(*problem.MultiObjective).Embedded())
	assert.Equal(t, 12, inst.Dim())

	_, err = r.GetProblem(VariantI1, problem.Params{N: 1}, testLambda())
	assert.ErrorIs(t, err, dynamo.ErrInvalidArgument)

	_, err = r.GetSingleOptimizer("anneal", 2, 3)
	assert.Error(t, err)
	_, err = r.GetMultiOptimizer("grid", 2, 3)
	assert.NoError(t, err)

	assert.Equal(t, "MOProblem", ProblemName(VariantMulti))
}

func TestExperimentSingleObjective(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()

	task := Task{
		Variant:     VariantI1,
		Params:      testParams(2),
		Lambda:      testLambda(),
		Optimizer:   "grid",
		Levels:      []int{2},
		Runs:        2,
		MaxAttempts: 1,
	}
	var events []Event
	exp := New(task, NewRegistry(), st)
	exp.OnRun(func(ev Event) { events = append(events, ev) })

	recs, err := exp.Run(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Len(t, events, 2)

	rec := recs[0]
	assert.Equal(t, "I1", rec.Problem.Name)
	assert.Equal(t, 2, rec.Problem.NSwitches)
	assert.Equal(t, "grid(levels=2)", rec.Optimizer)
	assert.Equal(t, 17, rec.Integrations)
	require.Len(t, rec.Results, 1)

	res := rec.Results[0]
	assert.Len(t, res.Lambda, 2)
	require.Len(t, res.Controls, 4)
	assert.Equal(t, 1, res.Controls[1].Num)
	assert.Equal(t, 2, res.Controls[2].Num)

	stored, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestExperimentMultiObjective(t *testing.T) {
	task := Task{
		Variant:     VariantMulti,
		Params:      testParams(2),
		Lambda:      testLambda(),
		Optimizer:   "grid",
		Levels:      []int{2},
		Runs:        1,
		MaxAttempts: 1,
	}

	recs, err := New(task, NewRegistry(), nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "MOProblem", rec.Problem.Name)
	assert.Nil(t, rec.Problem.Lambda)
	require.NotEmpty(t, rec.Results)
	for _, res := range rec.Results {
		assert.Len(t, res.Objectives, 2)
		assert.Len(t, res.Lambda, 4)
		assert.Len(t, res.Controls, 4)
	}
}

func TestExperimentRetry(t *testing.T) {
	var calls, created atomic.Int32
	r := NewRegistry()
	r.RegisterOptimizer("flaky", func(int, int) optim.SingleOptimizer {
		created.Add(1)
		return &scriptedOptimizer{fail: func() bool { return calls.Add(1) == 1 }}
	}, nil)

	task := Task{
		Variant:     VariantI2,
		Params:      testParams(3),
		Lambda:      testLambda(),
		Optimizer:   "flaky",
		Levels:      []int{1},
		Runs:        3,
		MaxAttempts: 2,
	}
	recs, err := New(task, r, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Run)
	assert.Equal(t, int32(2), created.Load())
}

func TestExperimentAbortsAfterMaxAttempts(t *testing.T) {
	r := NewRegistry()
	r.RegisterOptimizer("broken", func(int, int) optim.SingleOptimizer {
		return &scriptedOptimizer{panic: true}
	}, nil)

	task := Task{
		Variant:     VariantI1,
		Params:      testParams(2),
		Lambda:      testLambda(),
		Optimizer:   "broken",
		Levels:      []int{1},
		Runs:        5,
		MaxAttempts: 3,
	}
	var failed int
	exp := New(task, r, nil)
	exp.OnRun(func(ev Event) {
		if ev.Err != nil {
			failed++
		}
	})

	recs, err := exp.Run(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
	assert.Empty(t, recs)
	assert.Equal(t, 3, failed)
}

func TestExperimentMissingOptimizerKind(t *testing.T) {
	task := Task{
		Variant:   VariantMulti,
		Params:    testParams(2),
		Lambda:    testLambda(),
		Optimizer: "flaky",
		Levels:    []int{1},
		Runs:      1,
	}
	r := NewRegistry()
	r.RegisterOptimizer("flaky", func(int, int) optim.SingleOptimizer { return nil }, nil)

	_, err := New(task, r, nil).Run(context.Background())
	assert.Error(t, err)
}
