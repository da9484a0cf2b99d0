package experiment

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/san-kum/switchctl/internal/config"
	"github.com/san-kum/switchctl/internal/optim"
	"github.com/san-kum/switchctl/internal/problem"
	"github.com/san-kum/switchctl/internal/storage"
)

// Sweep runs one task per (variant, switches, time) of a config, at most
// cfg.Workers at a time.
type Sweep struct {
	cfg       *config.Config
	registry  *Registry
	store     storage.Store
	optimizer string
	onRun     func(Event)
}

func NewSweep(cfg *config.Config, registry *Registry, store storage.Store) *Sweep {
	return &Sweep{cfg: cfg, registry: registry, store: store, optimizer: "grid"}
}

// OnRun sets a callback invoked after every run. It may be called from
// several goroutines at once.
func (s *Sweep) OnRun(fn func(Event)) {
	s.onRun = fn
}

func (s *Sweep) Tasks() []Task {
	var variants []string
	if s.cfg.SingleTasks() {
		variants = append(variants, VariantI1, VariantI2)
	}
	if s.cfg.MultiTasks() {
		variants = append(variants, VariantMulti)
	}

	var tasks []Task
	for _, v := range variants {
		for _, n := range s.cfg.Switches {
			for _, tmax := range s.cfg.Times {
				tasks = append(tasks, Task{
					Variant:     v,
					Params:      s.cfg.Params(n, tmax),
					Lambda:      s.cfg.Lambda,
					Optimizer:   s.optimizer,
					Levels:      s.cfg.Optimizer.Levels,
					Runs:        s.cfg.Runs,
					MaxAttempts: s.cfg.MaxAttempts,
				})
			}
		}
	}
	return tasks
}

// TotalRuns is the number of runs the sweep attempts.
func (s *Sweep) TotalRuns() int {
	total := 0
	for _, t := range s.Tasks() {
		total += t.TotalRuns()
	}
	return total
}

// Run executes all tasks. The first task error cancels the others.
func (s *Sweep) Run(ctx context.Context) ([]*storage.Record, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	logger := klog.FromContext(ctx)
	tasks := s.Tasks()
	logger.Info("Starting sweep", "name", s.cfg.Name, "tasks", len(tasks), "workers", s.cfg.Workers)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	var (
		mu      sync.Mutex
		records []*storage.Record
	)
	for _, task := range tasks {
		g.Go(func() error {
			exp := New(task, s.registry, s.store)
			exp.OnRun(s.onRun)
			recs, err := exp.Run(ctx)

			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return err
		})
	}

	err := g.Wait()
	logger.Info("Sweep finished", "records", len(records), "err", err)
	return records, err
}

// EvaluateBatch evaluates xs on up to workers clones of proto. proto itself
// is not used for evaluation.
func EvaluateBatch[P interface {
	optim.Objectiver
	Clone() P
}](ctx context.Context, proto P, xs [][]float64, workers int) ([]float64, error) {
	out := make([]float64, len(xs))
	err := batch(ctx, len(xs), workers, func(ctx context.Context, w, stride int) error {
		p := proto.Clone()
		for i := w; i < len(xs); i += stride {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := p.Objective(xs[i])
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			out[i] = v
		}
		return nil
	})
	return out, err
}

// EvaluateBatchMulti is EvaluateBatch for multi-objective problems.
func EvaluateBatchMulti(ctx context.Context, proto *problem.MultiObjective, xs [][]float64, workers int) ([][]float64, error) {
	out := make([][]float64, len(xs))
	err := batch(ctx, len(xs), workers, func(ctx context.Context, w, stride int) error {
		m := proto.Clone()
		for i := w; i < len(xs); i += stride {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := m.Objectives(xs[i])
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			out[i] = v
		}
		return nil
	})
	return out, err
}

func batch(ctx context.Context, n, workers int, work func(ctx context.Context, w, stride int) error) error {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return work(ctx, w, workers)
		})
	}
	return g.Wait()
}
