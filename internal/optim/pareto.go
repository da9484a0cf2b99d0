package optim

import "sort"

// Dominates reports whether a is no worse than b in every objective and
// strictly better in at least one (minimization).
func Dominates(a, b []float64) bool {
	better := false
	for i := 0; i < len(a); i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

// NonDominated returns the solutions not dominated by any other, sorted by
// the first objective.
func NonDominated(sols []Solution) []Solution {
	var front []Solution
	for _, s := range sols {
		front = insert(front, s)
	}
	sort.SliceStable(front, func(i, j int) bool {
		return front[i].Objectives[0] < front[j].Objectives[0]
	})
	return front
}

// insert adds s to a non-dominated archive, dropping the members it
// dominates. s is discarded if a member dominates it.
func insert(front []Solution, s Solution) []Solution {
	for _, m := range front {
		if Dominates(m.Objectives, s.Objectives) {
			return front
		}
	}
	kept := front[:0]
	for _, m := range front {
		if !Dominates(s.Objectives, m.Objectives) {
			kept = append(kept, m)
		}
	}
	return append(kept, s)
}
