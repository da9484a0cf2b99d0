package config

import (
	"sort"

	"github.com/san-kum/switchctl/internal/problem"
)

// Lambda is a pair of terminal-penalty weights.
type Lambda struct {
	L1, L2 float64
}

// LambdaPresets holds the weights found by earlier single-objective runs,
// keyed by functional and switch count. The multi-objective sweep uses them
// as its fixed weights.
var LambdaPresets = map[problem.Kind]map[int]Lambda{
	problem.Quadratic: {
		8:  {11247.6302753864, 11143.217997764},
		10: {22621.5610681351, 18165.9891931346},
		15: {18420.4788767144, 10203.7952768332},
	},
	problem.L1: {
		8:  {2555.43922113448, 4311.17267957873},
		10: {4207.31058609648, 1248.40435098767},
		15: {4096.36454659811, 2773.91241130186},
	},
}

func LambdaPreset(kind problem.Kind, n int) (Lambda, bool) {
	byN, ok := LambdaPresets[kind]
	if !ok {
		return Lambda{}, false
	}
	l, ok := byN[n]
	return l, ok
}

// MultiWeights combines the quadratic and L1 presets for n switches.
func MultiWeights(n int) (problem.Weights, bool) {
	q, ok := LambdaPreset(problem.Quadratic, n)
	if !ok {
		return problem.Weights{}, false
	}
	l, ok := LambdaPreset(problem.L1, n)
	if !ok {
		return problem.Weights{}, false
	}
	return problem.Weights{L1: q.L1, L2: q.L2, L3: l.L1, L4: l.L2}, true
}

// WeightBounds returns the default trailing weight range of a functional.
func WeightBounds(kind problem.Kind) problem.Bounds {
	if kind == problem.L1 {
		return problem.Bounds{Lower: L1WeightLower, Upper: L1WeightUpper}
	}
	return problem.Bounds{Lower: QuadraticWeightLower, Upper: QuadraticWeightUpper}
}

// ListPresets returns the switch counts with a preset for kind.
func ListPresets(kind problem.Kind) []int {
	byN, ok := LambdaPresets[kind]
	if !ok {
		return nil
	}
	ns := make([]int, 0, len(byN))
	for n := range byN {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}
