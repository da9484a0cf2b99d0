package problem

import "github.com/san-kum/switchctl/internal/dynamo"

// BuildBounds returns the per-dimension bounds of a candidate vector with
// n switching intervals. The first 2n dimensions get the control bounds.
// Each weight pair adds two trailing dimensions, so zero, one or two pairs
// yield 2n, 2n+2 or 2n+4 dimensions.
func BuildBounds(n int, control Bounds, weights ...Bounds) (lower, upper []float64, err error) {
	if n < 2 {
		return nil, nil, dynamo.NewArgumentError("n", "must be at least 2, got %d", n)
	}
	if len(weights) > 2 {
		return nil, nil, dynamo.NewArgumentError("weights", "at most 2 weight pairs, got %d", len(weights))
	}

	dim := 2*n + 2*len(weights)
	lower = make([]float64, dim)
	upper = make([]float64, dim)

	for i := 0; i < 2*n; i++ {
		lower[i], upper[i] = control.Lower, control.Upper
	}
	for j, w := range weights {
		for k := 0; k < 2; k++ {
			i := 2*n + 2*j + k
			lower[i], upper[i] = w.Lower, w.Upper
		}
	}

	for i := range lower {
		if !(lower[i] < upper[i]) || !isFinite(lower[i]) || !isFinite(upper[i]) {
			return nil, nil, &dynamo.ArgumentError{
				Field:  "bounds",
				Index:  i,
				Reason: "lower bound must be finite and less than upper bound",
			}
		}
	}
	return lower, upper, nil
}

func cloneFloats(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
