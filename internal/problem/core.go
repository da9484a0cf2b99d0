package problem

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/switchctl/internal/dynamo"
	"github.com/san-kum/switchctl/internal/integrators"
	"github.com/san-kum/switchctl/internal/metrics"
	"github.com/san-kum/switchctl/internal/switching"
)

// core owns everything a variant needs to integrate one candidate: the
// schedule, the control view of the candidate, the integrator and its
// trajectory buffer. The trajectory is recomputed when a new point has been
// marked or when the controls of the candidate differ from the integrated
// ones; the trailing weights never affect it.
type core struct {
	params     Params
	dim        int
	schedule   *switching.Schedule
	control    *switching.PiecewiseConstant
	integrator *integrators.FixedStep
	traj       *integrators.Trajectory
	x0         dynamo.State
	u          dynamo.Control
	loaded     []float64
	fresh      bool
}

func newCore(p Params, dim int) (*core, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s, err := switching.NewSchedule(p.N, p.Tmax)
	if err != nil {
		return nil, err
	}
	fs, err := integrators.NewFixedStep(p.Steps)
	if err != nil {
		return nil, err
	}
	return &core{
		params:     p,
		dim:        dim,
		schedule:   s,
		control:    switching.NewPiecewiseConstant(s),
		integrator: fs,
		traj:       integrators.NewTrajectory(fs.Samples(), 2),
		x0:         dynamo.State{p.X10, p.X20},
		u:          make(dynamo.Control, 2),
		loaded:     make([]float64, 2*p.N),
	}, nil
}

// MarkNewPoint declares that the next evaluation is for a new candidate, so
// the trajectory must be recomputed.
func (c *core) MarkNewPoint() {
	c.fresh = false
}

// Dim returns the length of a candidate vector.
func (c *core) Dim() int { return c.dim }

func (c *core) Params() Params { return c.params }

func (c *core) Schedule() *switching.Schedule { return c.schedule }

// Stats exposes the integration counters.
func (c *core) Stats() dynamo.Statistics { return c.integrator.Stats() }

// Trajectory returns the last computed trajectory, or nil if the current
// candidate has not been integrated. The buffer is overwritten by the next
// integration.
func (c *core) Trajectory() *integrators.Trajectory {
	if !c.fresh {
		return nil
	}
	return c.traj
}

// TerminalState returns the state at Tmax of the current candidate. ok is
// false until the candidate has been evaluated.
func (c *core) TerminalState() (x1, x2 float64, ok bool) {
	if !c.fresh {
		return 0, 0, false
	}
	last := c.traj.Last()
	return last[0], last[1], true
}

func (c *core) check(x []float64) error {
	if len(x) != c.dim {
		return dynamo.NewArgumentError("x", "expected %d dimensions, got %d", c.dim, len(x))
	}
	return nil
}

func (c *core) solve(x []float64) {
	controls := x[:2*c.params.N]
	if c.fresh && floats.Equal(c.loaded, controls) {
		return
	}
	c.control.Load(x)
	c.integrator.Integrate(c.traj, switching.Oscillator{}, c.control, c.x0, 0, c.params.Tmax)
	c.control.Load(nil)
	copy(c.loaded, controls)
	c.fresh = true
}

// effort resets e and feeds it the control of every interval of x.
func (c *core) effort(e *metrics.ControlEffort, x []float64) float64 {
	n := c.params.N
	dt := c.schedule.Width()
	e.Reset()
	for i := 0; i < n; i++ {
		c.u[0], c.u[1] = x[i], x[n+i]
		e.Observe(c.u, dt)
	}
	return e.Value()
}

// penalized evaluates effort plus the weighted terminal penalty. The
// penalty is added outside the compensated accumulator.
func (c *core) penalized(e *metrics.ControlEffort, x []float64, w1, w2 float64) Result {
	c.solve(x)
	x1, x2, _ := c.TerminalState()

	effort := c.effort(e, x)
	p1 := float64(w1 * x1 * x1)
	p2 := float64(w2 * x2 * x2)
	penalty := p1 + p2

	return Result{
		Value:   effort + p1 + p2,
		Effort:  effort,
		Penalty: penalty,
		X1T:     x1,
		X2T:     x2,
	}
}

// Result is the breakdown of one objective evaluation.
type Result struct {
	Value   float64
	Effort  float64
	Penalty float64
	X1T     float64
	X2T     float64
}

func (r Result) String() string {
	return fmt.Sprintf("J=%.10g effort=%.10g penalty=%.10g x(T)=(%.6g, %.6g)", r.Value, r.Effort, r.Penalty, r.X1T, r.X2T)
}
