// Package dynamo provides core primitives shared by the integrators and the
// control problems.
//
// The package defines the fundamental interfaces and types for numerical
// integration of ordinary differential equations (ODEs):
//
//   - [State], [Control]: plant state and control vectors
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Controller]: time-dependent control signal u(t)
//   - [Stepper]: single-step numerical scheme
//   - [Statistics]: integration work counters
//
// Construction-time validation failures wrap [ErrInvalidArgument]; use
// errors.Is to test for them and errors.As with [*ArgumentError] to get the
// offending field or dimension.
//
// # Thread Safety
//
// Steppers keep scratch buffers and are NOT thread-safe. Give every worker
// its own instance.
package dynamo
