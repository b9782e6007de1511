// Package partial computes the first-order partial derivatives of a
// user-supplied function f(x, y).
package partial

import (
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/indmath/symbolic"
)

// ErrInvalidFunction matches every error Differentiate returns.
var ErrInvalidFunction = errors.New("invalid function: use algebraic syntax such as x**2 * y + 3*x*y**2")

// InvalidFunctionError keeps the parser's diagnosis for logs while its
// message stays the generic ErrInvalidFunction text.
type InvalidFunctionError struct {
	Cause error
}

func (e *InvalidFunctionError) Error() string        { return ErrInvalidFunction.Error() }
func (e *InvalidFunctionError) Unwrap() error        { return e.Cause }
func (e *InvalidFunctionError) Is(target error) bool { return target == ErrInvalidFunction }

// DefaultFunction is the worked example the calculator opens with.
const DefaultFunction = "x**2*y + 3*x*y**2"

// Variables are the free variables f may use, in gradient order.
var Variables = []string{"x", "y"}

// Algebra parses text into an expression and differentiates it.
type Algebra interface {
	Parse(text string) (symbolic.Expr, error)
	PartialDerivative(expr symbolic.Expr, variable string) symbolic.Expr
}

// Rendering is one expression in both output notations.
type Rendering struct {
	Text  string `json:"text"`
	LaTeX string `json:"latex"`
}

func render(e symbolic.Expr) Rendering {
	return Rendering{Text: e.String(), LaTeX: e.LaTeX()}
}

// Result holds f and its partial derivatives.
type Result struct {
	Function Rendering `json:"function"`
	DX       Rendering `json:"dx"`
	DY       Rendering `json:"dy"`

	fn, dx, dy symbolic.Expr
}

// Gradient evaluates (∂f/∂x, ∂f/∂y) at (x0, y0). It reports false when
// the point is not finite or either partial is undefined there.
func (r Result) Gradient(x0, y0 float64) (gx, gy float64, ok bool) {
	if r.dx == nil || r.dy == nil || !finite(x0) || !finite(y0) {
		return 0, 0, false
	}
	at := map[string]float64{Variables[0]: x0, Variables[1]: y0}
	gx, okx := symbolic.EvalAt(r.dx, at)
	gy, oky := symbolic.EvalAt(r.dy, at)
	if !okx || !oky {
		return 0, 0, false
	}
	return gx, gy, true
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Engine orchestrates an Algebra; it holds no per-call state.
type Engine struct {
	algebra Algebra
}

// NewEngine returns an Engine over the given algebra.
func NewEngine(algebra Algebra) *Engine {
	return &Engine{algebra: algebra}
}

// NewDefaultEngine returns an Engine over the built-in kernel in x and y.
func NewDefaultEngine() *Engine {
	return NewEngine(symbolic.NewKernel(Variables...))
}

// Differentiate parses text and computes ∂f/∂x and ∂f/∂y. Every failure,
// including a panic inside the algebra, is an *InvalidFunctionError.
func (e *Engine) Differentiate(text string) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res, err = Result{}, &InvalidFunctionError{Cause: fmt.Errorf("panic: %v", rec)}
		}
	}()
	fn, err := e.algebra.Parse(text)
	if err != nil {
		return Result{}, &InvalidFunctionError{Cause: err}
	}
	dx := e.algebra.PartialDerivative(fn, Variables[0])
	dy := e.algebra.PartialDerivative(fn, Variables[1])
	return Result{
		Function: render(fn),
		DX:       render(dx),
		DY:       render(dy),
		fn:       fn,
		dx:       dx,
		dy:       dy,
	}, nil
}
