package problem_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/switchctl/internal/dynamo"
	"github.com/san-kum/switchctl/internal/problem"
)

var _ = Describe("MultiObjective", func() {
	var (
		params  problem.Params
		weights problem.Weights
	)

	BeforeEach(func() {
		params = problem.Params{
			N:       10,
			Control: problem.Bounds{Lower: -10, Upper: 10},
			Tmax:    2,
			X10:     0.5,
			X20:     1,
		}
		weights = problem.Weights{L1: 2000, L2: 3000, L3: 400, L4: 500}
	})

	It("shares one integration between both objectives", func() {
		m, err := problem.NewMultiObjective(params, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Dim()).To(Equal(20))

		x := candidate(10, 0.5, -0.25)
		m.MarkNewPoint()
		f0, err := m.Objective(x, 0)
		Expect(err).NotTo(HaveOccurred())
		f1, err := m.Objective(x, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Stats().Integrations).To(Equal(1))

		both, err := m.Objectives(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(both).To(Equal([]float64{f0, f1}))
		Expect(m.Stats().Integrations).To(Equal(2))
	})

	It("computes the quadratic and L1 forms with their own weights", func() {
		m, err := problem.NewMultiObjective(params, weights)
		Expect(err).NotTo(HaveOccurred())

		x := candidate(10, 1, -1)
		m.MarkNewPoint()
		r0, err := m.Evaluate(x, 0)
		Expect(err).NotTo(HaveOccurred())
		r1, err := m.Evaluate(x, 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(r0.Effort).To(BeNumerically("~", 4.0, 1e-14))
		Expect(r1.Effort).To(BeNumerically("~", 4.0, 1e-14))
		Expect(r0.Penalty).To(BeNumerically("~", 2000*r0.X1T*r0.X1T+3000*r0.X2T*r0.X2T, 1e-9))
		Expect(r1.Penalty).To(BeNumerically("~", 400*r1.X1T*r1.X1T+500*r1.X2T*r1.X2T, 1e-9))
		Expect(r0.X1T).To(Equal(r1.X1T))

		x1, x2, ok := m.TerminalState()
		Expect(ok).To(BeTrue())
		Expect(x1).To(Equal(r0.X1T))
		Expect(x2).To(Equal(r0.X2T))
	})

	It("agrees with the single-objective problems", func() {
		m, err := problem.NewMultiObjective(params, weights)
		Expect(err).NotTo(HaveOccurred())
		q, err := problem.NewPenalized(problem.Quadratic, params, problem.Bounds{Lower: 0.1, Upper: 25000})
		Expect(err).NotTo(HaveOccurred())
		l, err := problem.NewPenalized(problem.L1, params, problem.Bounds{Lower: 0.1, Upper: 50000})
		Expect(err).NotTo(HaveOccurred())

		x := candidate(10, 2, 3)
		x[4], x[15] = -6, 9

		got, err := m.Objectives(x)
		Expect(err).NotTo(HaveOccurred())
		vq, err := q.Objective(append(append([]float64{}, x...), 2000, 3000))
		Expect(err).NotTo(HaveOccurred())
		vl, err := l.Objective(append(append([]float64{}, x...), 400, 500))
		Expect(err).NotTo(HaveOccurred())

		Expect(got[0]).To(Equal(vq))
		Expect(got[1]).To(BeNumerically("~", vl, 1e-9))
	})

	It("reads embedded weights from the trailing entries", func() {
		fixed, err := problem.NewMultiObjective(params, weights)
		Expect(err).NotTo(HaveOccurred())
		emb, err := problem.NewMultiObjectiveEmbedded(params,
			problem.Bounds{Lower: 0.1, Upper: 25000}, problem.Bounds{Lower: 0.1, Upper: 50000})
		Expect(err).NotTo(HaveOccurred())
		Expect(emb.Embedded()).To(BeTrue())
		Expect(emb.Dim()).To(Equal(24))

		x := candidate(10, 0.75, 0.1)
		want, err := fixed.Objectives(x)
		Expect(err).NotTo(HaveOccurred())
		got, err := emb.Objectives(append(append([]float64{}, x...), 2000, 3000, 400, 500))
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))

		lower := emb.LowerBounds()
		upper := emb.UpperBounds()
		Expect(lower[20:]).To(Equal([]float64{0.1, 0.1, 0.1, 0.1}))
		Expect(upper[20:]).To(Equal([]float64{25000, 25000, 50000, 50000}))
	})

	It("rejects an unknown objective index", func() {
		m, err := problem.NewMultiObjective(params, weights)
		Expect(err).NotTo(HaveOccurred())

		_, err = m.Objective(candidate(10, 0, 0), 2)
		var argErr *dynamo.ArgumentError
		Expect(errors.As(err, &argErr)).To(BeTrue())
		Expect(argErr.Index).To(Equal(2))
		Expect(err).To(MatchError(dynamo.ErrInvalidArgument))

		_, err = m.Objective(candidate(10, 0, 0), -1)
		Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
	})

	It("clones into an independent instance", func() {
		m, err := problem.NewMultiObjective(params, weights)
		Expect(err).NotTo(HaveOccurred())

		x := candidate(10, 1, 2)
		want, err := m.Objectives(x)
		Expect(err).NotTo(HaveOccurred())

		c := m.Clone()
		Expect(c.Weights()).To(Equal(weights))
		Expect(c.Stats().Integrations).To(BeZero())
		_, _, ok := c.TerminalState()
		Expect(ok).To(BeFalse())

		got, err := c.Objectives(x)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	DescribeTable("non-positive weights",
		func(w problem.Weights, index int) {
			_, err := problem.NewMultiObjective(params, w)
			var argErr *dynamo.ArgumentError
			Expect(errors.As(err, &argErr)).To(BeTrue())
			Expect(argErr.Index).To(Equal(index))
		},
		Entry("lambda1 zero", problem.Weights{L1: 0, L2: 1, L3: 1, L4: 1}, 1),
		Entry("lambda2 negative", problem.Weights{L1: 1, L2: -1, L3: 1, L4: 1}, 2),
		Entry("lambda3 nan", problem.Weights{L1: 1, L2: 1, L3: math.NaN(), L4: 1}, 3),
		Entry("lambda4 inf", problem.Weights{L1: 1, L2: 1, L3: 1, L4: math.Inf(1)}, 4),
	)

	It("rejects embedded weight bounds that admit non-positive weights", func() {
		_, err := problem.NewMultiObjectiveEmbedded(params,
			problem.Bounds{Lower: 0, Upper: 10}, problem.Bounds{Lower: 1, Upper: 10})
		Expect(err).To(MatchError(dynamo.ErrInvalidArgument))
	})
})
