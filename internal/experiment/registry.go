package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/switchctl/internal/config"
	"github.com/san-kum/switchctl/internal/dynamo"
	"github.com/san-kum/switchctl/internal/optim"
	"github.com/san-kum/switchctl/internal/problem"
)

// Instance is a built problem as seen by the runner. It is either an
// optim.Objectiver or an optim.MultiObjectiver.
type Instance interface {
	optim.Bounded
	Dim() int
	Params() problem.Params
	MarkNewPoint()
	TerminalState() (x1, x2 float64, ok bool)
	Stats() dynamo.Statistics
}

// instance keeps a typed nil out of the interface.
func instance[P Instance](p P, err error) (Instance, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

type problemFactory func(p problem.Params, lambda config.LambdaConfig) (Instance, error)

type optimizerFactory struct {
	single func(switches, levels int) optim.SingleOptimizer
	multi  func(switches, levels int) optim.MultiOptimizer
}

// Variant names.
const (
	VariantI1    = "i1"
	VariantI2    = "i2"
	VariantMulti = "mo"
)

type Registry struct {
	problems   map[string]problemFactory
	optimizers map[string]optimizerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		problems:   make(map[string]problemFactory),
		optimizers: make(map[string]optimizerFactory),
	}

	r.problems[VariantI1] = func(p problem.Params, l config.LambdaConfig) (Instance, error) {
		return instance(problem.NewPenalized(problem.Quadratic, p, l.I1))
	}
	r.problems[VariantI2] = func(p problem.Params, l config.LambdaConfig) (Instance, error) {
		return instance(problem.NewPenalized(problem.L1, p, l.I2))
	}
	r.problems[VariantMulti] = func(p problem.Params, l config.LambdaConfig) (Instance, error) {
		if w, ok := config.MultiWeights(p.N); ok {
			return instance(problem.NewMultiObjective(p, w))
		}
		return instance(problem.NewMultiObjectiveEmbedded(p, l.I1, l.I2))
	}

	r.optimizers["grid"] = optimizerFactory{
		single: func(switches, levels int) optim.SingleOptimizer {
			return optim.NewConstantGrid(switches, levels)
		},
		multi: func(switches, levels int) optim.MultiOptimizer {
			return optim.NewConstantGridFront(switches, levels)
		},
	}

	return r
}

// RegisterOptimizer adds optimizer factories under name. Either factory
// may be nil if the optimizer supports only one kind of problem.
func (r *Registry) RegisterOptimizer(name string, single func(switches, levels int) optim.SingleOptimizer, multi func(switches, levels int) optim.MultiOptimizer) {
	r.optimizers[name] = optimizerFactory{single: single, multi: multi}
}

func (r *Registry) GetProblem(name string, p problem.Params, lambda config.LambdaConfig) (Instance, error) {
	fn, ok := r.problems[name]
	if !ok {
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
	return fn(p, lambda)
}

func (r *Registry) GetSingleOptimizer(name string, switches, levels int) (optim.SingleOptimizer, error) {
	f, ok := r.optimizers[name]
	if !ok || f.single == nil {
		return nil, fmt.Errorf("unknown single-objective optimizer: %s", name)
	}
	return f.single(switches, levels), nil
}

func (r *Registry) GetMultiOptimizer(name string, switches, levels int) (optim.MultiOptimizer, error) {
	f, ok := r.optimizers[name]
	if !ok || f.multi == nil {
		return nil, fmt.Errorf("unknown multi-objective optimizer: %s", name)
	}
	return f.multi(switches, levels), nil
}

func (r *Registry) ListProblems() []string {
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProblemName is the record name of a variant.
func ProblemName(variant string) string {
	switch variant {
	case VariantI1:
		return "I1"
	case VariantI2:
		return "I2"
	case VariantMulti:
		return "MOProblem"
	default:
		return variant
	}
}
