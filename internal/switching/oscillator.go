package switching

import (
	"math"

	"github.com/san-kum/switchctl/internal/dynamo"
)

// Coupling is the fixed physical constant a of the controlled system.
var Coupling = 0.00007292123518 * math.Sqrt(3)

// Oscillator is the linear two-state system
//
//	dx1/dt =  a*x2 + u1
//	dx2/dt = -a*x1 + u2
type Oscillator struct{}

func (Oscillator) StateDim() int   { return 2 }
func (Oscillator) ControlDim() int { return 2 }

func (Oscillator) Derive(dst, x dynamo.State, u dynamo.Control, _ float64) {
	dst[0] = Coupling*x[1] + u[0]
	dst[1] = -Coupling*x[0] + u[1]
}

// FreeResponse is the closed-form solution with zero control.
func FreeResponse(x10, x20, t float64) (x1, x2 float64) {
	s, c := math.Sincos(Coupling * t)
	return x10*c + x20*s, -x10*s + x20*c
}
