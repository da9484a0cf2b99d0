package integrators

import "github.com/san-kum/switchctl/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme. The control is
// evaluated at t, t+dt/2 and t+dt, so switches inside a step are seen by
// the stages that fall after them.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
	evaluations    int
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dst dynamo.State, dyn dynamo.System, ctrl dynamo.Controller, x dynamo.State, t, dt float64) {
	n := len(x)
	r.ensureScratch(n)

	half := dt * 0.5

	dyn.Derive(r.k1, x, ctrl.Compute(x, t), t)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + half*r.k1[i]
	}
	dyn.Derive(r.k2, r.scratch, ctrl.Compute(r.scratch, t+half), t+half)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + half*r.k2[i]
	}
	dyn.Derive(r.k3, r.scratch, ctrl.Compute(r.scratch, t+half), t+half)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	dyn.Derive(r.k4, r.scratch, ctrl.Compute(r.scratch, t+dt), t+dt)

	r.evaluations += 4

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		dst[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
}

// Evaluations returns the number of right-hand side evaluations so far.
func (r *RK4) Evaluations() int {
	return r.evaluations
}
