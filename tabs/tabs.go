package tabs

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/njchilds90/indmath/eoq"
	"github.com/njchilds90/indmath/format"
	"github.com/njchilds90/indmath/internal/logging"
	"github.com/njchilds90/indmath/lp"
	"github.com/njchilds90/indmath/lp/lpplot"
	"github.com/njchilds90/indmath/partial"
	"github.com/njchilds90/indmath/queue"
)

// ============================================================
// Production optimization (LP)
// ============================================================

// LP evaluates the corner points and renders the chart. It always
// produces a visible panel; a chart that fails to render is left out.
func (w *Workbench) LP(in lp.Input) Panel {
	start := time.Now()
	res := lp.Evaluate(in)
	p := Panel{Tab: TabLP, Visible: true, Result: res}
	for _, v := range res.Vertices {
		p.Lines = append(p.Lines, fmt.Sprintf("Z%s = %s", v.Point, w.format.Grouped(v.Z)))
	}
	best := res.Optimal()
	p.Lines = append(p.Lines, fmt.Sprintf("Optimal solution: %s with maximum profit %s",
		best.Point, w.format.Currency(best.Z)))

	if w.plot.Format != "" {
		var buf bytes.Buffer
		if err := lpplot.Render(&buf, in, res, w.plot); err != nil {
			w.log.Error(err, "Failed to render LP chart")
		} else {
			p.Plot, p.PlotFormat = buf.Bytes(), w.plot.Format
		}
	}
	return w.finish(p, start)
}

// ============================================================
// Inventory (EOQ)
// ============================================================

// EOQ sizes the order. Non-positive parameters hide the panel.
func (w *Workbench) EOQ(params eoq.Params) Panel {
	start := time.Now()
	p := Panel{Tab: TabEOQ}
	res, err := eoq.Calculate(params)
	if err != nil {
		w.log.V(logging.DEBUG).Info("Suppressing EOQ output", "reason", err.Error())
		return w.finish(p, start)
	}
	p.Visible, p.Result = true, res
	p.Lines = []string{
		fmt.Sprintf("Economic order quantity (EOQ): %s units", format.Fixed2(res.Quantity)),
		fmt.Sprintf("Orders per year: %s", format.Fixed2(res.OrdersPerYear)),
		fmt.Sprintf("Minimum annual inventory cost: %s", w.format.Currency(res.AnnualCost)),
	}
	return w.finish(p, start)
}

// ============================================================
// Queueing (M/M/1)
// ============================================================

// MM1 evaluates the queue. An overloaded queue is an explicit error; inputs
// outside the model hide the panel.
func (w *Workbench) MM1(params queue.Params) Panel {
	start := time.Now()
	p := Panel{Tab: TabMM1}
	m, err := queue.Evaluate(params)
	switch {
	case errors.Is(err, queue.ErrUnstable):
		p.Visible, p.Error = true, err.Error()
		return w.finish(p, start)
	case err != nil:
		w.log.V(logging.DEBUG).Info("Suppressing M/M/1 output", "reason", err.Error())
		return w.finish(p, start)
	}
	p.Visible, p.Result = true, m
	p.Lines = []string{
		"ρ (utilization): " + format.Fixed2(m.Utilization),
		"L (mean number in system): " + format.Fixed2(m.InSystem),
		"Lq (mean number in queue): " + format.Fixed2(m.InQueue),
		"W (mean time in system): " + format.Fixed2(m.TimeInSystem) + " time units",
		"Wq (mean time in queue): " + format.Fixed2(m.TimeInQueue) + " time units",
	}
	return w.finish(p, start)
}

// ============================================================
// Partial derivatives
// ============================================================

// Point is where the gradient is evaluated.
type Point struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// PartialInput is a function of x and y and an optional point.
type PartialInput struct {
	Function string `json:"function" mapstructure:"function"`
	At       *Point `json:"at,omitempty" mapstructure:"at"`
}

// DefaultPartialInput is the worked example the calculator opens with.
func DefaultPartialInput() PartialInput {
	return PartialInput{Function: partial.DefaultFunction}
}

// Partial differentiates the function. Unparsable input is an explicit
// error carrying only the generic message.
func (w *Workbench) Partial(in PartialInput) Panel {
	start := time.Now()
	p := Panel{Tab: TabPartial, Visible: true}
	res, err := w.engine.Differentiate(in.Function)
	if err != nil {
		w.log.V(logging.DEBUG).Info("Rejected function", "input", in.Function, "cause", errors.Unwrap(err))
		p.Error = partial.ErrInvalidFunction.Error()
		return w.finish(p, start)
	}
	p.Result = res
	p.LaTeX = []string{
		`f(x, y) = ` + res.Function.LaTeX,
		`\frac{\partial f}{\partial x} = ` + res.DX.LaTeX,
		`\frac{\partial f}{\partial y} = ` + res.DY.LaTeX,
	}
	p.Lines = []string{
		"f(x, y) = " + res.Function.Text,
		"∂f/∂x = " + res.DX.Text,
		"∂f/∂y = " + res.DY.Text,
	}
	if in.At != nil {
		if gx, gy, ok := res.Gradient(in.At.X, in.At.Y); ok {
			p.Lines = append(p.Lines, fmt.Sprintf("∇f(%g, %g) = (%s, %s)",
				in.At.X, in.At.Y, format.Fixed2(gx), format.Fixed2(gy)))
		} else {
			w.log.V(logging.DEBUG).Info("Gradient undefined", "x", in.At.X, "y", in.At.Y)
		}
	}
	return w.finish(p, start)
}
