package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a run ID is unknown to a store.
var ErrNotFound = errors.New("storage: run not found")

// Record is one optimizer run on one problem instance.
type Record struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Problem   ProblemInfo `json:"problem"`
	Optimizer string      `json:"optimizer"`
	// Config is the index of the optimizer configuration, Run the index of
	// the run within it.
	Config       int           `json:"config"`
	Run          int           `json:"run"`
	Duration     time.Duration `json:"duration"`
	Integrations int           `json:"integrations"`
	// Results holds one entry for a single-objective run and the Pareto
	// front for a multi-objective run.
	Results []Result `json:"results"`
}

// ProblemInfo is enough to rebuild the problem instance of a run.
type ProblemInfo struct {
	Name      string    `json:"name"`
	Tmax      float64   `json:"tmax"`
	NSwitches int       `json:"n_switches"`
	ULower    float64   `json:"u_lower"`
	UUpper    float64   `json:"u_upper"`
	X10       float64   `json:"x10"`
	X20       float64   `json:"x20"`
	Steps     int       `json:"steps"`
	Lambda    []float64 `json:"lambda,omitempty"`
}

type Result struct {
	Objectives []float64 `json:"objectives"`
	// Lambda holds the trailing weights of the solution vector, if any.
	Lambda   []float64 `json:"lambda,omitempty"`
	X1T      float64   `json:"x1t"`
	X2T      float64   `json:"x2t"`
	Controls []Control `json:"-"`
}

// Control is one control value tagged with its channel (1 or 2).
type Control struct {
	Num   int     `json:"num"`
	Value float64 `json:"value"`
}

// TagControls splits the first 2n entries of x into channel-tagged values.
func TagControls(x []float64, n int) []Control {
	out := make([]Control, 2*n)
	for j := 0; j < 2*n; j++ {
		num := 1
		if j >= n {
			num = 2
		}
		out[j] = Control{Num: num, Value: x[j]}
	}
	return out
}

// Best returns the result with the lowest first objective.
func (r *Record) Best() (Result, bool) {
	if len(r.Results) == 0 {
		return Result{}, false
	}
	best := r.Results[0]
	for _, res := range r.Results[1:] {
		if res.Objectives[0] < best.Objectives[0] {
			best = res
		}
	}
	return best, true
}
