package switching

import (
	"math"

	"github.com/san-kum/switchctl/internal/dynamo"
)

// Schedule holds the N+1 equally spaced breakpoints of N switching
// intervals over [0, Tmax].
type Schedule struct {
	breakpoints []float64
	width       float64
}

func NewSchedule(n int, tmax float64) (*Schedule, error) {
	if n < 2 {
		return nil, dynamo.NewArgumentError("n", "must be at least 2, got %d", n)
	}
	if !(tmax > 0) || math.IsInf(tmax, 1) {
		return nil, dynamo.NewArgumentError("tmax", "must be positive and finite, got %g", tmax)
	}

	width := tmax / float64(n)
	bp := make([]float64, n+1)
	for i := 0; i < n; i++ {
		bp[i] = float64(i) * width
	}
	bp[n] = tmax

	return &Schedule{breakpoints: bp, width: width}, nil
}

// Len returns the number of intervals N.
func (s *Schedule) Len() int { return len(s.breakpoints) - 1 }

// Width returns the interval width Tmax/N.
func (s *Schedule) Width() float64 { return s.width }

// Tmax returns the last breakpoint.
func (s *Schedule) Tmax() float64 { return s.breakpoints[len(s.breakpoints)-1] }

// Breakpoints returns a copy of the breakpoints.
func (s *Schedule) Breakpoints() []float64 {
	out := make([]float64, len(s.breakpoints))
	copy(out, s.breakpoints)
	return out
}

// Resolve returns the index i of the interval with b[i] <= t < b[i+1].
// Times at or past the last breakpoint, including integration overshoot,
// map to the last interval.
func (s *Schedule) Resolve(t float64) int {
	last := len(s.breakpoints) - 2
	for i := 0; i < last; i++ {
		if t >= s.breakpoints[i] && t < s.breakpoints[i+1] {
			return i
		}
	}
	return last
}
