package dynamo

import "fmt"

// State is the plant state vector.
type State []float64

type Control []float64

// System is a right-hand side dX/dt = f(X, u, t). Derive writes the
// derivative into dst, which has the same length as x.
type System interface {
	Derive(dst, x State, u Control, t float64)
	StateDim() int
	ControlDim() int
}

// Controller yields the control active at time t. Implementations may
// return a slice they reuse between calls.
type Controller interface {
	Compute(x State, t float64) Control
}

// Stepper advances x by one step of size dt and writes the result into dst.
// The control is queried at every stage time, not only at t.
type Stepper interface {
	Step(dst State, dyn System, ctrl Controller, x State, t, dt float64)
}

// Statistics counts the work done by an integrator.
type Statistics struct {
	Integrations int
	Steps        int
	Evaluations  int
}

func (s Statistics) String() string {
	return fmt.Sprintf("integrations=%d steps=%d evaluations=%d", s.Integrations, s.Steps, s.Evaluations)
}
