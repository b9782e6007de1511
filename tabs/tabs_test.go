package tabs_test

import (
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/njchilds90/indmath/eoq"
	"github.com/njchilds90/indmath/internal/logging"
	"github.com/njchilds90/indmath/lp"
	"github.com/njchilds90/indmath/partial"
	"github.com/njchilds90/indmath/queue"
	"github.com/njchilds90/indmath/tabs"
)

var _ = Describe("Workbench", func() {
	var (
		reg *prometheus.Registry
		wb  *tabs.Workbench
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		var err error
		wb, err = tabs.NewWorkbench(logging.NewTestLogger(GinkgoWriter), tabs.DefaultSettings(), reg)
		Expect(err).NotTo(HaveOccurred())
	})

	count := func(tab, outcome string) float64 {
		return testutil.ToFloat64(wb.Metrics().Evaluations().WithLabelValues(tab, outcome))
	}

	Context("LP tab", func() {
		It("lists every corner and the optimum for the default input", func() {
			p := wb.LP(lp.DefaultInput())

			want := []string{
				"Z(0, 0) = 0",
				"Z(0, 33.33) = 2,000",
				"Z(50, 0) = 2,000",
				"Optimal solution: (50, 0) with maximum profit Rp 2,000",
			}
			Expect(cmp.Diff(want, p.Lines)).To(BeEmpty())
			Expect(p.Visible).To(BeTrue())
			Expect(p.Error).To(BeEmpty())
			Expect(p.Result).To(Equal(lp.Evaluate(lp.DefaultInput())))
			Expect(count(tabs.TabLP, tabs.OutcomeOK)).To(Equal(1.0))
		})

		It("prefers the earlier corner on a tie", func() {
			p := wb.LP(lp.Input{Objective: lp.Objective{C1: 60, C2: 90}, Y2: 40, X3: 60})
			Expect(p.Lines).To(ContainElement("Optimal solution: (0, 40) with maximum profit Rp 3,600"))
		})

		It("computes for degenerate input", func() {
			p := wb.LP(lp.Input{})
			Expect(p.Visible).To(BeTrue())
			Expect(p.Lines).To(ContainElement("Optimal solution: (0, 0) with maximum profit Rp 0"))
		})

		It("attaches the chart", func() {
			p := wb.LP(lp.DefaultInput())
			Expect(p.PlotFormat).To(Equal("svg"))
			Expect(string(p.Plot)).To(ContainSubstring("<svg"))
		})

		It("skips the chart when no plot format is configured", func() {
			settings := tabs.DefaultSettings()
			settings.Plot.Format = ""
			quiet, err := tabs.NewWorkbench(logging.NewTestLogger(GinkgoWriter), settings, nil)
			Expect(err).NotTo(HaveOccurred())

			p := quiet.LP(lp.DefaultInput())
			Expect(p.Plot).To(BeNil())
			Expect(p.Lines).To(HaveLen(4))
		})
	})

	Context("EOQ tab", func() {
		It("sizes the default order", func() {
			p := wb.EOQ(eoq.DefaultParams())

			want := []string{
				"Economic order quantity (EOQ): 100.00 units",
				"Orders per year: 10.00",
				"Minimum annual inventory cost: Rp 1,000,000",
			}
			Expect(cmp.Diff(want, p.Lines)).To(BeEmpty())
		})

		DescribeTable("stays silent for non-positive parameters",
			func(params eoq.Params) {
				p := wb.EOQ(params)
				Expect(p.Visible).To(BeFalse())
				Expect(p.Lines).To(BeEmpty())
				Expect(p.Error).To(BeEmpty())
				Expect(p.Result).To(BeNil())
			},
			Entry("zero demand", eoq.Params{Demand: 0, OrderingCost: 50000, HoldingCost: 10000}),
			Entry("negative ordering cost", eoq.Params{Demand: 1000, OrderingCost: -1, HoldingCost: 10000}),
			Entry("zero holding cost", eoq.Params{Demand: 1000, OrderingCost: 50000, HoldingCost: 0}),
			Entry("NaN demand", eoq.Params{Demand: math.NaN(), OrderingCost: 50000, HoldingCost: 10000}),
		)

		It("counts suppressed evaluations", func() {
			wb.EOQ(eoq.Params{})
			Expect(count(tabs.TabEOQ, tabs.OutcomeSuppressed)).To(Equal(1.0))
		})
	})

	Context("M/M/1 tab", func() {
		It("reports the steady state for the default rates", func() {
			p := wb.MM1(queue.DefaultParams())

			want := []string{
				"ρ (utilization): 0.40",
				"L (mean number in system): 0.67",
				"Lq (mean number in queue): 0.27",
				"W (mean time in system): 0.33 time units",
				"Wq (mean time in queue): 0.13 time units",
			}
			Expect(cmp.Diff(want, p.Lines)).To(BeEmpty())
		})

		It("shows the instability error when λ >= μ", func() {
			for _, params := range []queue.Params{{ArrivalRate: 5, ServiceRate: 2}, {ArrivalRate: 3, ServiceRate: 3}} {
				p := wb.MM1(params)
				Expect(p.Visible).To(BeTrue())
				Expect(p.Lines).To(BeEmpty())
				Expect(p.Error).To(Equal(queue.ErrUnstable.Error()))
			}
			Expect(count(tabs.TabMM1, tabs.OutcomeError)).To(Equal(2.0))
		})

		It("stays silent outside the model", func() {
			p := wb.MM1(queue.Params{ArrivalRate: -1, ServiceRate: 2})
			Expect(p.Visible).To(BeFalse())
			Expect(p.Error).To(BeEmpty())
		})
	})

	Context("partial derivative tab", func() {
		It("renders f and both partials as LaTeX", func() {
			p := wb.Partial(tabs.DefaultPartialInput())

			want := []string{
				`f(x, y) = x^{2} y + 3 x y^{2}`,
				`\frac{\partial f}{\partial x} = 2 x y + 3 y^{2}`,
				`\frac{\partial f}{\partial y} = x^{2} + 6 x y`,
			}
			Expect(cmp.Diff(want, p.LaTeX)).To(BeEmpty())
			Expect(p.Lines).To(HaveLen(3))
		})

		It("adds the gradient at a point", func() {
			in := tabs.DefaultPartialInput()
			in.At = &tabs.Point{X: 1, Y: 2}
			p := wb.Partial(in)
			Expect(p.Lines).To(ContainElement("∇f(1, 2) = (16.00, 13.00)"))
		})

		It("omits an undefined gradient without failing", func() {
			p := wb.Partial(tabs.PartialInput{Function: "x/y", At: &tabs.Point{X: 1, Y: 0}})
			Expect(p.Error).To(BeEmpty())
			Expect(p.Lines).To(HaveLen(3))
		})

		It("omits the gradient at a non-finite point without panicking", func() {
			for _, at := range []tabs.Point{{X: math.NaN(), Y: 1}, {X: 1, Y: math.Inf(-1)}} {
				var p tabs.Panel
				Expect(func() {
					p = wb.Partial(tabs.PartialInput{Function: "x*y", At: &at})
				}).NotTo(Panic())
				Expect(p.Error).To(BeEmpty())
				Expect(p.Lines).To(HaveLen(3))
			}
		})

		It("keeps the square root of a square", func() {
			p := wb.Partial(tabs.PartialInput{Function: "sqrt(x**2)", At: &tabs.Point{X: -1, Y: 0}})
			Expect(p.LaTeX).To(ContainElement(`\frac{\partial f}{\partial x} = \frac{x}{\sqrt{x^{2}}}`))
			Expect(p.Lines).To(ContainElement("∇f(-1, 0) = (-1.00, 0.00)"))
		})

		It("shows only the generic message for invalid input", func() {
			p := wb.Partial(tabs.PartialInput{Function: "not a function !!"})
			Expect(p.Visible).To(BeTrue())
			Expect(p.Error).To(Equal(partial.ErrInvalidFunction.Error()))
			Expect(p.LaTeX).To(BeEmpty())
			Expect(count(tabs.TabPartial, tabs.OutcomeError)).To(Equal(1.0))
		})

		It("is idempotent", func() {
			first := wb.Partial(tabs.DefaultPartialInput())
			second := wb.Partial(tabs.DefaultPartialInput())
			Expect(cmp.Diff(first, second, cmpopts.IgnoreUnexported(partial.Result{}))).To(BeEmpty())
		})
	})

	It("reuses collectors already registered", func() {
		again, err := tabs.NewWorkbench(logging.NewTestLogger(GinkgoWriter), tabs.DefaultSettings(), reg)
		Expect(err).NotTo(HaveOccurred())
		again.EOQ(eoq.Params{})
		wb.EOQ(eoq.Params{})
		Expect(count(tabs.TabEOQ, tabs.OutcomeSuppressed)).To(Equal(2.0))
	})
})
