// Package problem evaluates candidate controls of the switching-time
// optimal-control problem.
//
// A candidate vector holds N values of channel 1, then N values of channel
// 2, then the trailing weight coefficients of the variant. Each evaluation
// integrates the oscillator under the candidate control (once per
// candidate, see MarkNewPoint) and combines the control effort with the
// terminal-state penalty:
//
//   - [Penalized] with [Quadratic]: Σ(u1²+u2²)Δt + λ1·x1(T)² + λ2·x2(T)²
//   - [Penalized] with [L1]: Σ(|u1|+|u2|)Δt + λ1·x1(T)² + λ2·x2(T)²
//   - [MultiObjective]: both forms as two objectives with four weights
//
// Instances keep scratch state and are not safe for concurrent use; use
// Clone to give each goroutine its own.
package problem
