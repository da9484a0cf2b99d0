package integrators

import (
	"github.com/san-kum/switchctl/internal/dynamo"
)

// DefaultSteps is the canonical number of RK4 steps over [0, Tmax]. The
// trajectory therefore holds DefaultSteps+1 samples. Keep it stable: results
// computed with different step counts are not comparable.
const DefaultSteps = 250

// Trajectory is a fixed-size sequence of states and their times.
type Trajectory struct {
	States []dynamo.State
	Times  []float64
}

// NewTrajectory allocates samples states of dimension dim backed by one
// contiguous buffer.
func NewTrajectory(samples, dim int) *Trajectory {
	tr := &Trajectory{}
	tr.ensure(samples, dim)
	return tr
}

func (tr *Trajectory) ensure(samples, dim int) {
	if len(tr.States) == samples && (samples == 0 || len(tr.States[0]) == dim) {
		return
	}
	buf := make([]float64, samples*dim)
	tr.States = make([]dynamo.State, samples)
	for i := range tr.States {
		tr.States[i] = buf[i*dim : (i+1)*dim : (i+1)*dim]
	}
	tr.Times = make([]float64, samples)
}

// Len returns the number of samples.
func (tr *Trajectory) Len() int {
	return len(tr.States)
}

// Last returns the terminal state.
func (tr *Trajectory) Last() dynamo.State {
	return tr.States[len(tr.States)-1]
}

// Column extracts component i of every sample.
func (tr *Trajectory) Column(i int) []float64 {
	col := make([]float64, len(tr.States))
	for k, s := range tr.States {
		col[k] = s[i]
	}
	return col
}

// FixedStep integrates over [t0, tEnd] with a fixed number of equal steps.
type FixedStep struct {
	stepper dynamo.Stepper
	steps   int
	stats   dynamo.Statistics
}

// NewFixedStep returns an RK4-based fixed-step integrator. steps == 0
// selects DefaultSteps.
func NewFixedStep(steps int) (*FixedStep, error) {
	if steps == 0 {
		steps = DefaultSteps
	}
	if steps < 1 {
		return nil, dynamo.NewArgumentError("steps", "must be at least 1, got %d", steps)
	}
	return &FixedStep{stepper: NewRK4(), steps: steps}, nil
}

func (f *FixedStep) Steps() int   { return f.steps }
func (f *FixedStep) Samples() int { return f.steps + 1 }

// Integrate fills tr with the solution starting at x0. The step size is
// (tEnd-t0)/steps and time advances by repeated addition, so the final
// sample time may differ from tEnd in the last bits.
func (f *FixedStep) Integrate(tr *Trajectory, dyn dynamo.System, ctrl dynamo.Controller, x0 dynamo.State, t0, tEnd float64) {
	tr.ensure(f.steps+1, len(x0))

	h := (tEnd - t0) / float64(f.steps)
	t := t0

	copy(tr.States[0], x0)
	tr.Times[0] = t
	for i := 0; i < f.steps; i++ {
		f.stepper.Step(tr.States[i+1], dyn, ctrl, tr.States[i], t, h)
		t += h
		tr.Times[i+1] = t
	}

	f.stats.Integrations++
	f.stats.Steps += f.steps
}

// Stats returns the accumulated work counters.
func (f *FixedStep) Stats() dynamo.Statistics {
	s := f.stats
	if c, ok := f.stepper.(interface{ Evaluations() int }); ok {
		s.Evaluations = c.Evaluations()
	}
	return s
}
