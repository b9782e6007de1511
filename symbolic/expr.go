// Package symbolic is a small deterministic computer-algebra kernel for
// functions of a few real variables.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat)
//   - Canonicalising constructors: AddOf, MulOf and PowOf always return a
//     simplified tree, so structurally equal inputs print identically
//   - First-order differentiation by the sum, product, power and chain rules
//   - Plain-text and LaTeX rendering
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Eval() (*Num, bool)
	Equal(other Expr) bool
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}
// NFloat converts a finite float exactly. It panics on NaN and ±Inf, which
// have no rational value; callers check with math.IsNaN and math.IsInf.
func NFloat(f float64) *Num {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic(fmt.Sprintf("symbolic: non-finite value %v", f))
	}
	return &Num{val: r}
}
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (*Num, bool)    { return n, true }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

// maxFoldBits bounds the size of an exactly folded power.
const maxFoldBits = 4096

// numPow raises a to an integer power. It reports false for 0^negative and
// when the result would need more than maxFoldBits bits.
func numPow(a *Num, e int64) (*Num, bool) {
	neg := e < 0
	if neg {
		e = -e
	}
	if neg && a.IsZero() {
		return nil, false
	}
	if e > 0 && int64(a.val.Num().BitLen()+a.val.Denom().BitLen()) > maxFoldBits/e {
		return nil, false
	}
	result := big.NewRat(1, 1)
	for i := int64(0); i < e; i++ {
		result.Mul(result, a.val)
	}
	if neg {
		result.Inv(result)
	}
	return &Num{val: result}, true
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) LaTeX() string         { return s.name }
func (s *Sym) Eval() (*Num, bool)    { return nil, false }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named irrational constant
// ============================================================

type Const struct {
	name  string
	latex string
	value float64
}

var (
	Pi    = &Const{name: "pi", latex: `\pi`, value: math.Pi}
	Euler = &Const{name: "E", latex: "e", value: math.E}
)

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (*Num, bool)    { return NFloat(c.value), true }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums and collects like terms. Terms keep the
// order in which they first appear; the numeric constant goes last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	constant := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			constant = numAdd(constant, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}
	result := []Expr{}
	for _, key := range order {
		coeff := coeffs[key]
		switch {
		case coeff.IsZero():
		case coeff.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(coeff, rests[key]))
		}
	}
	if !constant.IsZero() {
		result = append(result, constant)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range a.terms {
		switch {
		case i == 0:
			b.WriteString(t.String())
		case isNegative(t):
			b.WriteString(" - " + negate(t).String())
		default:
			b.WriteString(" + " + t.String())
		}
	}
	return b.String()
}

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.terms {
		switch {
		case i == 0:
			b.WriteString(t.LaTeX())
		case isNegative(t):
			b.WriteString(" - " + negate(t).LaTeX())
		default:
			b.WriteString(" + " + t.LaTeX())
		}
	}
	return b.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Eval() (*Num, bool) {
	acc := N(0)
	for _, t := range a.terms {
		v, ok := t.Eval()
		if !ok {
			return nil, false
		}
		acc = numAdd(acc, v)
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}


// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds numeric factors into a leading
// coefficient and merges factors sharing a base by adding exponents.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	bases := map[string]Expr{}
	exps := map[string][]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			bases[key] = base
		}
		exps[key] = append(exps[key], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	regroup := false
	for _, key := range order {
		f := PowOf(bases[key], AddOf(exps[key]...))
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			regroup = true
			others = append(others, v)
		default:
			others = append(others, f)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if regroup {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e    Expr
		rank int
		key  string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, rank: factorRank(e), key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].rank != ks[j].rank {
			return ks[i].rank < ks[j].rank
		}
		return ks[i].key < ks[j].key
	})
	others = others[:0]
	for i := range ks {
		others = append(others, ks[i].e)
	}

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// factorRank orders variables and their powers ahead of constants,
// function applications and parenthesised sums.
func factorRank(e Expr) int {
	if p, ok := e.(*Pow); ok {
		e = p.base
	}
	switch e.(type) {
	case *Sym:
		return 0
	case *Const:
		return 1
	case *Func:
		return 2
	default:
		return 3
	}
}

func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	factors := m.factors
	prefix := ""
	if c, ok := factors[0].(*Num); ok && c.IsNegOne() && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		switch v := f.(type) {
		case *Add:
			parts[i] = "(" + f.String() + ")"
		case *Num:
			if !v.IsInteger() {
				parts[i] = "(" + f.String() + ")"
			} else {
				parts[i] = f.String()
			}
		default:
			parts[i] = f.String()
		}
	}
	return prefix + strings.Join(parts, "*")
}

// LaTeX renders factors with negative exponents, and the denominator of a
// rational coefficient, as a fraction.
func (m *Mul) LaTeX() string {
	coeff, rest := N(1), m.factors
	if c, ok := m.factors[0].(*Num); ok {
		coeff, rest = c, m.factors[1:]
	}
	sign := ""
	if coeff.IsNegative() {
		sign = "-"
		coeff = numNeg(coeff)
	}
	var num, den []string
	for _, f := range rest {
		if p, ok := f.(*Pow); ok {
			if en, ok2 := p.exp.(*Num); ok2 && en.IsNegative() {
				den = append(den, latexFactor(PowOf(p.base, numNeg(en))))
				continue
			}
		}
		num = append(num, latexFactor(f))
	}
	p := coeff.val.Num().String()
	q := coeff.val.Denom().String()
	if p != "1" || len(num) == 0 {
		num = append([]string{p}, num...)
	}
	if q != "1" {
		den = append([]string{q}, den...)
	}
	if len(den) == 0 {
		return sign + strings.Join(num, " ")
	}
	return sign + "\\frac{" + strings.Join(num, " ") + "}{" + strings.Join(den, " ") + "}"
}

func latexFactor(e Expr) string {
	if _, ok := e.(*Add); ok {
		return "\\left(" + e.LaTeX() + "\\right)"
	}
	return e.LaTeX()
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

// Diff applies the product rule over all factors.
func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors))
		others = append(others, dfi)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(others...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (*Num, bool) {
	acc := N(1)
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return nil, false
		}
		acc = numMul(acc, v)
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}


// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	if en, ok := exp.(*Num); ok && en.IsZero() {
		return N(1)
	}
	if en, ok := exp.(*Num); ok && en.IsOne() {
		return base
	}

	if bn, ok := base.(*Num); ok && bn.IsZero() {
		// 0^0 is indeterminate; 0^negative is division by zero.
		if en, ok2 := exp.(*Num); ok2 && en.IsNegative() {
			return &Pow{base: base, exp: exp}
		}
		if _, ok2 := exp.(*Num); ok2 {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}
	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok {
		if en, ok2 := exp.(*Num); ok2 && en.IsInteger() && en.val.Num().IsInt64() {
			if e := en.val.Num().Int64(); e >= -64 && e <= 64 {
				if r, ok3 := numPow(bn, e); ok3 {
					return r
				}
			}
		}
	}
	if inner, ok := base.(*Pow); ok && nestable(inner.exp, exp) {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	return &Pow{base: base, exp: exp}
}

// nestable reports whether (u^a)^b equals u^(a*b) for every real u where the
// left side is defined: b is an integer, or a is an odd integer and b a
// rational with an odd denominator. sqrt(x^2) therefore stays |x|-shaped.
func nestable(a, b Expr) bool {
	bn, ok := b.(*Num)
	if !ok {
		return false
	}
	if bn.IsInteger() {
		return true
	}
	an, ok := a.(*Num)
	if !ok || !an.IsInteger() || an.val.Num().Bit(0) == 0 {
		return false
	}
	return bn.val.Denom().Bit(0) == 1
}

func (p *Pow) String() string {
	baseStr := p.base.String()
	expStr := p.exp.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "(" + baseStr + ")"
		}
	}
	switch e := p.exp.(type) {
	case *Sym, *Const:
	case *Num:
		if e.IsNegative() || !e.IsInteger() {
			expStr = "(" + expStr + ")"
		}
	default:
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsNegative() {
			return "\\frac{1}{" + PowOf(p.base, numNeg(en)).LaTeX() + "}"
		}
		if en.Equal(F(1, 2)) {
			return "\\sqrt{" + p.base.LaTeX() + "}"
		}
	}
	baseStr := p.base.LaTeX()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow, *Func:
		baseStr = "\\left(" + baseStr + "\\right)"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "\\left(" + baseStr + "\\right)"
		}
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

// Diff uses the power rule for constant exponents, the exponential rule for
// constant bases and the general form d(u^v) = u^v (v' ln u + v u'/u).
func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if isZero(dv) {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if isZero(du) {
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (*Num, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return nil, false
	}
	if e.IsInteger() && e.val.Num().IsInt64() {
		if n := e.val.Num().Int64(); n >= -64 && n <= 64 {
			if r, ok := numPow(b, n); ok {
				return r, true
			}
		}
	}
	pf := math.Pow(b.Float64(), e.Float64())
	if !finite(pf) {
		return nil, false
	}
	return NFloat(pf), true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}


// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr { return funcOf("tanh", arg).Simplify() }
func SignOf(arg Expr) Expr { return funcOf("sign", arg).Simplify() }

// Simplify folds only the identities whose result is exact; sin(1) stays
// symbolic rather than collapsing to a float.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	n, isNum := arg.(*Num)
	switch f.name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh":
		if isNum && n.IsZero() {
			return N(0)
		}
	case "cos", "cosh":
		if isNum && n.IsZero() {
			return N(1)
		}
	case "exp":
		if isNum && n.IsZero() {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "ln":
		if isNum && n.IsOne() {
			return N(0)
		}
		if arg.Equal(Euler) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "abs":
		if isNum {
			if n.IsNegative() {
				return numNeg(n)
			}
			return n
		}
	case "sign":
		if isNum {
			return N(int64(n.val.Sign()))
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

// Diff applies the chain rule: outer'(arg) * arg'.
func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "abs":
		outer = SignOf(f.arg)
	case "sign":
		return N(0)
	default:
		return MulOf(funcOf("D["+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du)
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	v := n.Float64()
	var r float64
	switch f.name {
	case "sin":
		r = math.Sin(v)
	case "cos":
		r = math.Cos(v)
	case "tan":
		r = math.Tan(v)
	case "exp":
		r = math.Exp(v)
	case "ln":
		r = math.Log(v)
	case "abs":
		return NRat(new(big.Rat).Abs(n.val)), true
	case "asin":
		r = math.Asin(v)
	case "acos":
		r = math.Acos(v)
	case "atan":
		r = math.Atan(v)
	case "sinh":
		r = math.Sinh(v)
	case "cosh":
		r = math.Cosh(v)
	case "tanh":
		r = math.Tanh(v)
	case "sign":
		return N(int64(n.val.Sign())), true
	default:
		return nil, false
	}
	if !finite(r) {
		return nil, false
	}
	return NFloat(r), true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}


// ============================================================
// Helpers
// ============================================================

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

// isNegative reports whether e prints with a leading minus sign.
func isNegative(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			return c.IsNegative()
		}
	}
	return false
}

func negate(e Expr) Expr { return MulOf(N(-1), e) }

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Top-level convenience functions
// ============================================================

func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// Sub substitutes value for every occurrence of varName and simplifies.
func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// PartialDerivative computes ∂expr/∂varName, treating every other symbol
// as a constant.
func PartialDerivative(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

// EvalAt substitutes the given values and evaluates the result numerically.
// It reports false when a value is not finite, a free symbol remains or
// the result is undefined or overflows.
func EvalAt(expr Expr, values map[string]float64) (float64, bool) {
	names := make([]string, 0, len(values))
	for name, v := range values {
		if !finite(v) {
			return 0, false
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		expr = Sub(expr, name, NFloat(values[name]))
	}
	n, ok := expr.Eval()
	if !ok {
		return 0, false
	}
	f := n.Float64()
	return f, finite(f)
}
