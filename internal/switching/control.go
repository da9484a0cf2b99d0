package switching

import "github.com/san-kum/switchctl/internal/dynamo"

// PiecewiseConstant is a two-channel control that holds one value per
// switching interval and channel. The candidate layout is
// [u1_0 .. u1_{N-1}, u2_0 .. u2_{N-1}, trailing...]; trailing entries are
// ignored.
type PiecewiseConstant struct {
	schedule *Schedule
	values   []float64
	u        dynamo.Control
}

func NewPiecewiseConstant(s *Schedule) *PiecewiseConstant {
	return &PiecewiseConstant{
		schedule: s,
		u:        make(dynamo.Control, 2),
	}
}

// Load points the control at a candidate vector. The vector is not copied
// and must not change while it is loaded.
func (c *PiecewiseConstant) Load(values []float64) {
	c.values = values
}

// At returns the channel values of interval i.
func (c *PiecewiseConstant) At(i int) (u1, u2 float64) {
	n := c.schedule.Len()
	return c.values[i], c.values[n+i]
}

// Compute implements dynamo.Controller. The returned slice is reused by
// the next call.
func (c *PiecewiseConstant) Compute(_ dynamo.State, t float64) dynamo.Control {
	c.u[0], c.u[1] = c.At(c.schedule.Resolve(t))
	return c.u
}
