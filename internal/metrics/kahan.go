package metrics

import "math"

// KahanSum is a compensated accumulator (Kahan-Babuska / Neumaier). The
// zero value is an empty sum.
type KahanSum struct {
	sum float64
	c   float64
}

func (k *KahanSum) Reset() {
	k.sum = 0
	k.c = 0
}

func (k *KahanSum) Add(v float64) {
	t := k.sum + v
	if math.Abs(k.sum) >= math.Abs(v) {
		k.c += (k.sum - t) + v
	} else {
		k.c += (v - t) + k.sum
	}
	k.sum = t
}

// Sum returns the compensated total.
func (k *KahanSum) Sum() float64 {
	return k.sum + k.c
}
