package experiment

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/san-kum/switchctl/internal/config"
	"github.com/san-kum/switchctl/internal/optim"
	"github.com/san-kum/switchctl/internal/problem"
	"github.com/san-kum/switchctl/internal/storage"
)

// Task is one problem instance solved by every optimizer configuration,
// Runs times each.
type Task struct {
	Variant     string
	Params      problem.Params
	Lambda      config.LambdaConfig
	Optimizer   string
	Levels      []int
	Runs        int
	MaxAttempts int
}

func (t Task) Name() string {
	return fmt.Sprintf("%s/N=%d/T=%g", t.Variant, t.Params.N, t.Params.Tmax)
}

// TotalRuns is the number of runs the task attempts.
func (t Task) TotalRuns() int {
	return len(t.Levels) * t.Runs
}

// Event reports the outcome of one run.
type Event struct {
	Task   string
	Config int
	Run    int
	Value  float64
	Err    error
}

type Experiment struct {
	task     Task
	registry *Registry
	store    storage.Store
	onRun    func(Event)
}

func New(task Task, registry *Registry, store storage.Store) *Experiment {
	return &Experiment{task: task, registry: registry, store: store}
}

// OnRun sets a callback invoked after every run, failed or not.
func (e *Experiment) OnRun(fn func(Event)) {
	e.onRun = fn
}

func (e *Experiment) notify(ev Event) {
	if e.onRun != nil {
		e.onRun(ev)
	}
}

// Run builds the problem once and solves it with each optimizer
// configuration. A failed run is logged and skipped and the optimizer is
// recreated; MaxAttempts consecutive failures abort the task.
func (e *Experiment) Run(ctx context.Context) ([]*storage.Record, error) {
	t := e.task
	logger := klog.FromContext(ctx).WithValues("task", t.Name())

	inst, err := e.registry.GetProblem(t.Variant, t.Params, t.Lambda)
	if err != nil {
		return nil, fmt.Errorf("build problem %s: %w", t.Name(), err)
	}

	maxAttempts := t.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var records []*storage.Record
	for cfgIdx, levels := range t.Levels {
		logger.Info("Solving with configuration", "config", cfgIdx, "of", len(t.Levels), "levels", levels)

		newRunner := func() (runner, error) { return e.newRunner(inst, levels) }
		run, err := newRunner()
		if err != nil {
			return records, err
		}

		failures := 0
		for i := 0; i < t.Runs; i++ {
			if err := ctx.Err(); err != nil {
				return records, err
			}
			logger.V(2).Info("Run", "run", i, "of", t.Runs)

			rec, err := e.runOnce(ctx, run, inst)
			if err != nil {
				if ctx.Err() != nil {
					return records, ctx.Err()
				}
				failures++
				logger.Error(err, "Optimization failed", "config", cfgIdx, "run", i)
				e.notify(Event{Task: t.Name(), Config: cfgIdx, Run: i, Err: err})
				if failures >= maxAttempts {
					return records, fmt.Errorf("task %s: %d consecutive failures: %w", t.Name(), failures, err)
				}
				logger.Info("Recreating optimizer and skipping run", "run", i)
				if run, err = newRunner(); err != nil {
					return records, err
				}
				continue
			}
			failures = 0

			rec.Config, rec.Run = cfgIdx, i
			rec.Optimizer = fmt.Sprintf("%s(levels=%d)", t.Optimizer, levels)
			if e.store != nil {
				if _, err := e.store.Save(ctx, rec); err != nil {
					return records, fmt.Errorf("save run: %w", err)
				}
			}
			records = append(records, rec)

			best, _ := rec.Best()
			e.notify(Event{Task: t.Name(), Config: cfgIdx, Run: i, Value: best.Objectives[0]})
		}
	}
	return records, nil
}

// runner minimizes one problem and turns the outcome into a record.
type runner func(ctx context.Context) (*storage.Record, error)

func (e *Experiment) newRunner(inst Instance, levels int) (runner, error) {
	t := e.task
	n := t.Params.N

	switch p := inst.(type) {
	case optim.Objectiver:
		opt, err := e.registry.GetSingleOptimizer(t.Optimizer, n, levels)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (*storage.Record, error) {
			sol, err := opt.Minimize(ctx, p, inst)
			if err != nil {
				return nil, err
			}
			// Re-evaluate so the terminal state belongs to the solution.
			v, err := p.Objective(sol.Point)
			if err != nil {
				return nil, err
			}
			x1, x2, _ := inst.TerminalState()
			return &storage.Record{Results: []storage.Result{{
				Objectives: []float64{v},
				Lambda:     append([]float64(nil), sol.Point[2*n:]...),
				X1T:        x1,
				X2T:        x2,
				Controls:   storage.TagControls(sol.Point, n),
			}}}, nil
		}, nil

	case optim.MultiObjectiver:
		opt, err := e.registry.GetMultiOptimizer(t.Optimizer, n, levels)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (*storage.Record, error) {
			front, err := opt.Minimize(ctx, p, inst)
			if err != nil {
				return nil, err
			}
			if len(front) == 0 {
				return nil, fmt.Errorf("optimizer returned an empty front")
			}
			rec := &storage.Record{Results: make([]storage.Result, 0, len(front))}
			for _, sol := range front {
				objs, err := p.Objectives(sol.Point)
				if err != nil {
					return nil, err
				}
				x1, x2, _ := inst.TerminalState()
				res := storage.Result{
					Objectives: objs,
					X1T:        x1,
					X2T:        x2,
					Controls:   storage.TagControls(sol.Point, n),
				}
				if len(sol.Point) > 2*n {
					res.Lambda = append([]float64(nil), sol.Point[2*n:]...)
				}
				rec.Results = append(rec.Results, res)
			}
			return rec, nil
		}, nil

	default:
		return nil, fmt.Errorf("problem %T has no objective", inst)
	}
}

// runOnce executes one run, turning a panic inside the optimizer into an
// error.
func (e *Experiment) runOnce(ctx context.Context, run runner, inst Instance) (rec *storage.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("optimizer panic: %v", r)
		}
	}()

	start := time.Now()
	before := inst.Stats().Integrations

	rec, err = run(ctx)
	if err != nil {
		return nil, err
	}

	rec.Duration = time.Since(start)
	rec.Integrations = inst.Stats().Integrations - before
	rec.Problem = e.problemInfo(inst)
	return rec, nil
}

func (e *Experiment) problemInfo(inst Instance) storage.ProblemInfo {
	p := inst.Params()
	info := storage.ProblemInfo{
		Name:      ProblemName(e.task.Variant),
		Tmax:      p.Tmax,
		NSwitches: p.N,
		ULower:    p.Control.Lower,
		UUpper:    p.Control.Upper,
		X10:       p.X10,
		X20:       p.X20,
		Steps:     p.Steps,
	}
	if m, ok := inst.(*problem.MultiObjective); ok && !m.Embedded() {
		w := m.Weights()
		info.Lambda = []float64{w.L1, w.L2, w.L3, w.L4}
	}
	return info
}
