// Package viz renders terminal views of trajectories and sweeps.
//
//   - [TrajectoryPlot], [ControlPlot]: asciigraph plots of x(t) and u(t)
//   - [PhasePortrait]: character-canvas plot of x2 against x1
//   - [Progress]: Bubble Tea model tracking a running sweep
//
// # Key Bindings
//
//	q, Ctrl+C - stop following the sweep
package viz
