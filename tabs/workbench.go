// Package tabs turns calculator inputs into display panels. Each tab is a
// pure evaluation: it maps the model's outcome onto one of three
// visibility policies and never panics.
//
//   - silent suppression: the panel is not visible
//   - explicit error: the panel is visible and carries Error
//   - unconditional computation: the panel is always visible
package tabs

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/njchilds90/indmath/format"
	"github.com/njchilds90/indmath/internal/logging"
	"github.com/njchilds90/indmath/lp/lpplot"
	"github.com/njchilds90/indmath/partial"
)

// Tab names, also used as the "tab" metric label.
const (
	TabLP      = "lp"
	TabEOQ     = "eoq"
	TabMM1     = "mm1"
	TabPartial = "partial"
)

// Evaluation outcomes, used as the "outcome" metric label.
const (
	OutcomeOK         = "ok"
	OutcomeSuppressed = "suppressed"
	OutcomeError      = "error"
)

// Panel is what a tab displays for one input.
type Panel struct {
	Tab     string `json:"tab"`
	Visible bool   `json:"visible"`
	// Lines are the formatted result lines, in display order.
	Lines []string `json:"lines,omitempty"`
	// Error is the message of an explicit error.
	Error string `json:"error,omitempty"`
	// LaTeX holds f, ∂f/∂x and ∂f/∂y on the derivative tab.
	LaTeX []string `json:"latex,omitempty"`
	// Plot is the rendered chart on the LP tab, in PlotFormat.
	Plot       []byte `json:"-"`
	PlotFormat string `json:"plot_format,omitempty"`
	// Result is the model's value (lp.Result, eoq.Result, queue.Metrics or
	// partial.Result), or nil when nothing was computed.
	Result any `json:"result,omitempty"`
}

// Settings configures presentation.
type Settings struct {
	Locale   string
	Currency string
	Plot     lpplot.Options
}

// DefaultSettings renders profits in Rupiah with English digit grouping.
func DefaultSettings() Settings {
	return Settings{Locale: "en", Currency: "Rp", Plot: lpplot.DefaultOptions()}
}

// Workbench evaluates tabs. It holds no per-request state and is safe for
// concurrent use.
type Workbench struct {
	log     logr.Logger
	format  *format.Formatter
	plot    lpplot.Options
	engine  *partial.Engine
	metrics *Metrics
}

// NewWorkbench registers the evaluation metrics on reg. A nil reg leaves
// the metrics unregistered.
func NewWorkbench(log logr.Logger, settings Settings, reg prometheus.Registerer) (*Workbench, error) {
	m, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	return &Workbench{
		log:     log.WithName("tabs"),
		format:  format.New(settings.Locale, settings.Currency),
		plot:    settings.Plot,
		engine:  partial.NewDefaultEngine(),
		metrics: m,
	}, nil
}

// finish records the outcome of an evaluation that began at start.
func (w *Workbench) finish(p Panel, start time.Time) Panel {
	outcome := OutcomeOK
	switch {
	case !p.Visible:
		outcome = OutcomeSuppressed
	case p.Error != "":
		outcome = OutcomeError
	}
	w.metrics.observe(p.Tab, outcome, time.Since(start))
	w.log.V(logging.DEBUG).Info("Evaluated tab", "tab", p.Tab, "outcome", outcome)
	return p
}
