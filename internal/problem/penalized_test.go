package problem_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/switchctl/internal/dynamo"
	"github.com/san-kum/switchctl/internal/metrics"
	"github.com/san-kum/switchctl/internal/problem"
	"github.com/san-kum/switchctl/internal/switching"
)

func candidate(n int, u1, u2 float64, trailing ...float64) []float64 {
	x := make([]float64, 0, 2*n+len(trailing))
	for i := 0; i < n; i++ {
		x = append(x, u1)
	}
	for i := 0; i < n; i++ {
		x = append(x, u2)
	}
	return append(x, trailing...)
}

// forced is the closed-form terminal state under a constant control.
func forced(x10, x20, c1, c2, t float64) (float64, float64) {
	a := switching.Coupling
	s := math.Sin(a * t)
	h := math.Sin(a * t / 2)
	oneMinusCos := 2 * h * h
	f1, f2 := switching.FreeResponse(x10, x20, t)
	return f1 + (c1*s+c2*oneMinusCos)/a, f2 + (-c1*oneMinusCos+c2*s)/a
}

var _ = Describe("Penalized", func() {
	var params problem.Params

	BeforeEach(func() {
		params = problem.Params{
			N:       8,
			Control: problem.Bounds{Lower: -10, Upper: 10},
			Tmax:    1,
			X10:     0.5,
			X20:     1,
		}
	})

	Describe("zero control", func() {
		It("reaches the free response and pays only the penalty", func() {
			p, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
			Expect(err).NotTo(HaveOccurred())

			r, err := p.Evaluate(candidate(8, 0, 0, 100, 100))
			Expect(err).NotTo(HaveOccurred())

			fx1, fx2 := switching.FreeResponse(0.5, 1, 1)
			Expect(r.X1T).To(BeNumerically("~", fx1, 1e-12))
			Expect(r.X2T).To(BeNumerically("~", fx2, 1e-12))

			p1 := float64(100 * r.X1T * r.X1T)
			p2 := float64(100 * r.X2T * r.X2T)
			Expect(r.Effort).To(BeZero())
			Expect(r.Value).To(Equal(p1 + p2))
		})
	})

	Describe("controls at the upper bound", func() {
		BeforeEach(func() {
			params = problem.Params{N: 2, Control: problem.Bounds{Lower: -10, Upper: 10}, Tmax: 2}
		})

		It("integrates the quadratic effort as 2·ub²·Tmax", func() {
			p, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
			Expect(err).NotTo(HaveOccurred())

			r, err := p.Evaluate(candidate(2, 10, 10, 1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Effort).To(Equal(2 * 10.0 * 10.0 * 2))
		})

		It("integrates the L1 effort as 2·ub·Tmax", func() {
			p, err := problem.NewPenalized(problem.L1, params, problem.Bounds{Lower: 0.1, Upper: 50000})
			Expect(err).NotTo(HaveOccurred())

			r, err := p.Evaluate(candidate(2, 10, 10, 1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Effort).To(Equal(2 * 10.0 * 2))
		})
	})

	It("matches the closed form under constant control", func() {
		p, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Objective(candidate(8, 1, -2, 1, 1))
		Expect(err).NotTo(HaveOccurred())

		x1, x2, ok := p.TerminalState()
		Expect(ok).To(BeTrue())
		w1, w2 := forced(0.5, 1, 1, -2, 1)
		Expect(x1).To(BeNumerically("~", w1, 1e-10))
		Expect(x2).To(BeNumerically("~", w2, 1e-10))
	})

	It("uses the L1 effort for the L1 kind", func() {
		p, err := problem.NewPenalized(problem.L1, params, problem.Bounds{Lower: 0.1, Upper: 50000})
		Expect(err).NotTo(HaveOccurred())

		x := candidate(8, -1, 2, 3, 4)
		r, err := p.Evaluate(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Effort).To(BeNumerically("~", 3.0, 1e-15))
		Expect(r.Penalty).To(BeNumerically("~", 3*r.X1T*r.X1T+4*r.X2T*r.X2T, 1e-12))
	})

	It("is deterministic and integrates on every Objective call", func() {
		p, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
		Expect(err).NotTo(HaveOccurred())

		x := candidate(8, 3, -7, 250, 1200)
		x[3] = 9.5
		x[12] = -0.25

		v1, err := p.Objective(x)
		Expect(err).NotTo(HaveOccurred())
		v2, err := p.Objective(x)
		Expect(err).NotTo(HaveOccurred())

		Expect(math.Float64bits(v1)).To(Equal(math.Float64bits(v2)))
		Expect(p.Stats().Integrations).To(Equal(2))

		c := p.Clone()
		v3, err := c.Objective(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(v3).To(Equal(v1))
	})

	It("caches the trajectory in Evaluate until a new point is marked", func() {
		p, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
		Expect(err).NotTo(HaveOccurred())

		_, _, ok := p.TerminalState()
		Expect(ok).To(BeFalse())
		Expect(p.Trajectory()).To(BeNil())

		x := candidate(8, 1, 1, 1, 1)
		_, err = p.Evaluate(x)
		Expect(err).NotTo(HaveOccurred())
		_, err = p.Evaluate(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Stats().Integrations).To(Equal(1))
		Expect(p.Trajectory().Len()).To(Equal(251))

		p.MarkNewPoint()
		_, _, ok = p.TerminalState()
		Expect(ok).To(BeFalse())
	})

	It("re-integrates in Evaluate when the controls change", func() {
		p, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Evaluate(candidate(8, 1, 1, 1, 1))
		Expect(err).NotTo(HaveOccurred())
		y := candidate(8, -4, 6, 1, 1)
		got, err := p.Evaluate(y)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Stats().Integrations).To(Equal(2))

		want, err := p.Clone().Evaluate(y)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))

		y[16], y[17] = 30, 40
		_, err = p.Evaluate(y)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Stats().Integrations).To(Equal(2))
	})

	It("sums the L1 effort channel by channel", func() {
		params.Tmax = 0.7
		params.N = 3
		p, err := problem.NewPenalized(problem.L1, params, problem.Bounds{Lower: 0.1, Upper: 50000})
		Expect(err).NotTo(HaveOccurred())

		x := []float64{0.1, 1.3, -2.9, -0.7, 0.2, 0.35, 5, 5}
		r, err := p.Evaluate(x)
		Expect(err).NotTo(HaveOccurred())

		dt := p.Schedule().Width()
		var want metrics.KahanSum
		for i := 0; i < 3; i++ {
			want.Add(math.Abs(x[i]) * dt)
			want.Add(math.Abs(x[3+i]) * dt)
		}
		Expect(math.Float64bits(r.Effort)).To(Equal(math.Float64bits(want.Sum())))
	})

	It("honours a custom step count", func() {
		params.Steps = 100
		p, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Objective(candidate(8, 0, 0, 1, 1))
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Trajectory().Len()).To(Equal(101))
		Expect(p.Stats().Steps).To(Equal(100))
	})

	It("exposes 2N+2 bounds with the weights trailing", func() {
		p, err := problem.NewPenalized(problem.L1, params, problem.Bounds{Lower: 0.1, Upper: 50000})
		Expect(err).NotTo(HaveOccurred())

		lower, upper := p.LowerBounds(), p.UpperBounds()
		Expect(lower).To(HaveLen(18))
		Expect(upper).To(HaveLen(18))
		Expect(lower[15]).To(Equal(-10.0))
		Expect(lower[16]).To(Equal(0.1))
		Expect(upper[17]).To(Equal(50000.0))

		lower[0] = 99
		Expect(p.LowerBounds()[0]).To(Equal(-10.0))
	})

	It("rejects vectors of the wrong length", func() {
		p, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Objective(candidate(8, 0, 0))
		Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
		Expect(p.Stats().Integrations).To(BeZero())
	})

	DescribeTable("construction errors",
		func(mutate func(*problem.Params, *problem.Bounds)) {
			w := problem.Bounds{Lower: 0.1, Upper: 25000}
			mutate(&params, &w)
			_, err := problem.NewPenalized(problem.Quadratic, params, w)
			Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
		},
		Entry("one interval", func(p *problem.Params, _ *problem.Bounds) { p.N = 1 }),
		Entry("empty control range", func(p *problem.Params, _ *problem.Bounds) { p.Control.Lower = 10 }),
		Entry("inverted control range", func(p *problem.Params, _ *problem.Bounds) { p.Control = problem.Bounds{Lower: 1, Upper: -1} }),
		Entry("zero horizon", func(p *problem.Params, _ *problem.Bounds) { p.Tmax = 0 }),
		Entry("negative horizon", func(p *problem.Params, _ *problem.Bounds) { p.Tmax = -3 }),
		Entry("nan initial state", func(p *problem.Params, _ *problem.Bounds) { p.X10 = math.NaN() }),
		Entry("negative steps", func(p *problem.Params, _ *problem.Bounds) { p.Steps = -1 }),
		Entry("inverted weight range", func(_ *problem.Params, w *problem.Bounds) { *w = problem.Bounds{Lower: 5, Upper: 5} }),
	)
})
