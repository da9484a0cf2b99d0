package switching

import (
	"math"
	"testing"

	"github.com/san-kum/switchctl/internal/dynamo"
)

func TestOscillatorDerive(t *testing.T) {
	var osc Oscillator
	dst := make(dynamo.State, 2)

	osc.Derive(dst, dynamo.State{2, 3}, dynamo.Control{0.5, -0.5}, 0)

	if want := Coupling*3 + 0.5; dst[0] != want {
		t.Errorf("dx1 = %v, want %v", dst[0], want)
	}
	if want := -Coupling*2 - 0.5; dst[1] != want {
		t.Errorf("dx2 = %v, want %v", dst[1], want)
	}
	if osc.StateDim() != 2 || osc.ControlDim() != 2 {
		t.Error("oscillator must be 2x2")
	}
}

func TestFreeResponseConservesNorm(t *testing.T) {
	x1, x2 := FreeResponse(0.5, 1, 1e4)
	r0 := math.Hypot(0.5, 1)
	if r := math.Hypot(x1, x2); math.Abs(r-r0) > 1e-12 {
		t.Errorf("free response radius %v, want %v", r, r0)
	}

	x1, x2 = FreeResponse(0.5, 1, 0)
	if x1 != 0.5 || x2 != 1 {
		t.Errorf("free response at t=0: (%v, %v)", x1, x2)
	}
}
