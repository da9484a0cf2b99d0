package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/switchctl/internal/dynamo"
)

// Norm selects how a control value contributes to the effort integral.
type Norm int

const (
	// Squared accumulates u1²Δt and u2²Δt as separate terms.
	Squared Norm = iota
	// Absolute accumulates |u1|Δt and |u2|Δt as separate terms.
	Absolute
	// AbsoluteJoint accumulates (|u1|+|u2|)Δt as one term per interval.
	AbsoluteJoint
)

func (n Norm) String() string {
	switch n {
	case Squared:
		return "squared"
	case Absolute:
		return "absolute"
	case AbsoluteJoint:
		return "absolute_joint"
	default:
		return fmt.Sprintf("Norm(%d)", int(n))
	}
}

// ControlEffort integrates a piecewise-constant control one interval at a
// time on a compensated accumulator.
type ControlEffort struct {
	name string
	norm Norm
	sum  KahanSum
}

func NewControlEffort(norm Norm) *ControlEffort {
	return &ControlEffort{
		name: "control_effort_" + norm.String(),
		norm: norm,
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

// Observe adds the contribution of control u held for dt.
func (c *ControlEffort) Observe(u dynamo.Control, dt float64) {
	switch c.norm {
	case Squared:
		for _, v := range u {
			c.sum.Add(v * v * dt)
		}
	case Absolute:
		for _, v := range u {
			c.sum.Add(math.Abs(v) * dt)
		}
	case AbsoluteJoint:
		s := 0.0
		for _, v := range u {
			s += math.Abs(v)
		}
		c.sum.Add(s * dt)
	}
}

func (c *ControlEffort) Value() float64 {
	return c.sum.Sum()
}

func (c *ControlEffort) Reset() {
	c.sum.Reset()
}
