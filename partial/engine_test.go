package partial_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/indmath/partial"
	"github.com/njchilds90/indmath/symbolic"
)

func TestDifferentiate_DefaultFunction(t *testing.T) {
	res, err := partial.NewDefaultEngine().Differentiate(partial.DefaultFunction)
	require.NoError(t, err)

	assert.Equal(t, "x^{2} y + 3 x y^{2}", res.Function.LaTeX)
	assert.Equal(t, "2 x y + 3 y^{2}", res.DX.LaTeX)
	assert.Equal(t, "x^{2} + 6 x y", res.DY.LaTeX)
	assert.Equal(t, "2*x*y + 3*y^2", res.DX.Text)
	assert.Equal(t, "x^2 + 6*x*y", res.DY.Text)
}

func TestDifferentiate_Gradient(t *testing.T) {
	res, err := partial.NewDefaultEngine().Differentiate(partial.DefaultFunction)
	require.NoError(t, err)

	gx, gy, ok := res.Gradient(1, 2)
	require.True(t, ok)
	assert.InDelta(t, 16.0, gx, 1e-12)
	assert.InDelta(t, 13.0, gy, 1e-12)
}

func TestDifferentiate_GradientUndefined(t *testing.T) {
	res, err := partial.NewDefaultEngine().Differentiate("x/y")
	require.NoError(t, err)

	_, _, ok := res.Gradient(1, 0)
	assert.False(t, ok)

	_, _, ok = partial.Result{}.Gradient(1, 1)
	assert.False(t, ok)
}

func TestDifferentiate_GradientAtNonFinitePoint(t *testing.T) {
	res, err := partial.NewDefaultEngine().Differentiate("x*y")
	require.NoError(t, err)

	for _, pt := range [][2]float64{{math.NaN(), 1}, {1, math.Inf(1)}, {math.Inf(-1), 0}} {
		assert.NotPanics(t, func() {
			_, _, ok := res.Gradient(pt[0], pt[1])
			assert.False(t, ok, pt)
		})
	}
}

func TestDifferentiate_SqrtOfSquare(t *testing.T) {
	res, err := partial.NewDefaultEngine().Differentiate("sqrt(x**2)")
	require.NoError(t, err)
	assert.Equal(t, `\sqrt{x^{2}}`, res.Function.LaTeX)
	assert.Equal(t, `\frac{x}{\sqrt{x^{2}}}`, res.DX.LaTeX)
	assert.Equal(t, "0", res.DY.Text)

	gx, gy, ok := res.Gradient(-1, 0)
	require.True(t, ok)
	assert.Equal(t, -1.0, gx)
	assert.Equal(t, 0.0, gy)
}

func TestDifferentiate_InvalidInput(t *testing.T) {
	for _, text := range []string{"not a function !!", "", "x +", "z*x", "foo(x)"} {
		_, err := partial.NewDefaultEngine().Differentiate(text)
		require.Error(t, err, text)
		assert.ErrorIs(t, err, partial.ErrInvalidFunction, text)
		assert.Equal(t, partial.ErrInvalidFunction.Error(), err.Error(), text)

		var invalid *partial.InvalidFunctionError
		require.ErrorAs(t, err, &invalid, text)
		assert.Error(t, invalid.Cause, text)
	}
}

func TestDifferentiate_CauseIsKept(t *testing.T) {
	_, err := partial.NewDefaultEngine().Differentiate("z + 1")
	assert.ErrorIs(t, err, symbolic.ErrUnknownSymbol)
}

func TestDifferentiate_Idempotent(t *testing.T) {
	engine := partial.NewDefaultEngine()
	first, err := engine.Differentiate("sin(x)*y**3 - x/y")
	require.NoError(t, err)
	second, err := engine.Differentiate("sin(x)*y**3 - x/y")
	require.NoError(t, err)
	assert.Equal(t, first.Function, second.Function)
	assert.Equal(t, first.DX, second.DX)
	assert.Equal(t, first.DY, second.DY)
}

type panickingAlgebra struct{}

func (panickingAlgebra) Parse(string) (symbolic.Expr, error) { return symbolic.S("x"), nil }

func (panickingAlgebra) PartialDerivative(symbolic.Expr, string) symbolic.Expr {
	panic("boom")
}

type failingAlgebra struct{ err error }

func (a failingAlgebra) Parse(string) (symbolic.Expr, error) { return nil, a.err }

func (failingAlgebra) PartialDerivative(e symbolic.Expr, _ string) symbolic.Expr { return e }

func TestDifferentiate_RecoversPanic(t *testing.T) {
	res, err := partial.NewEngine(panickingAlgebra{}).Differentiate("x")
	assert.ErrorIs(t, err, partial.ErrInvalidFunction)
	assert.Equal(t, partial.Result{}, res)
}

func TestDifferentiate_WrapsAlgebraError(t *testing.T) {
	cause := errors.New("kernel unavailable")
	_, err := partial.NewEngine(failingAlgebra{err: cause}).Differentiate("x")
	assert.ErrorIs(t, err, partial.ErrInvalidFunction)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "kernel unavailable")
}
