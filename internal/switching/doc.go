// Package switching models the controlled plant: a fixed linear two-state
// system driven by a two-channel piecewise-constant control.
//
//   - [Schedule]: equally spaced switching breakpoints and interval lookup
//   - [PiecewiseConstant]: control values per interval, read from a candidate vector
//   - [Oscillator]: the right-hand side with the constant [Coupling]
package switching
