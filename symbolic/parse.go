package symbolic

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// Parse errors. Every error returned by Parse wraps exactly one of these.
var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnknownSymbol   = errors.New("unknown symbol")
	ErrUnknownFunction = errors.New("unknown function")
)

const (
	// maxDepth bounds parenthesis and unary nesting.
	maxDepth = 256
	// maxExponent bounds the decimal exponent of a numeric literal.
	maxExponent = 400
)

// functions maps the accepted function names onto their constructors.
var functions = map[string]func(Expr) Expr{
	"sin":  SinOf,
	"cos":  CosOf,
	"tan":  TanOf,
	"asin": AsinOf,
	"acos": AcosOf,
	"atan": AtanOf,
	"sinh": SinhOf,
	"cosh": CoshOf,
	"tanh": TanhOf,
	"exp":  ExpOf,
	"log":  LnOf,
	"ln":   LnOf,
	"sqrt": SqrtOf,
	"abs":  AbsOf,
}

var constants = map[string]Expr{
	"pi": Pi,
	"E":  Euler,
}

// ============================================================
// Kernel
// ============================================================

// Kernel parses and differentiates expressions over a fixed set of free
// variables. A Kernel is immutable and safe for concurrent use.
type Kernel struct {
	variables map[string]struct{}
}

// NewKernel returns a kernel that accepts the given variable names.
func NewKernel(variables ...string) *Kernel {
	k := &Kernel{variables: make(map[string]struct{}, len(variables))}
	for _, v := range variables {
		k.variables[v] = struct{}{}
	}
	return k
}

// Parse reads an infix expression. Exponentiation is written ** or ^ and
// binds tighter than unary minus, so -x**2 is -(x**2).
func (k *Kernel) Parse(text string) (Expr, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, kernel: k}
	e, err := p.sum()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
	}
	return e, nil
}

// PartialDerivative differentiates expr with respect to variable.
func (k *Kernel) PartialDerivative(expr Expr, variable string) Expr {
	return PartialDerivative(expr, variable)
}

// Parse is shorthand for NewKernel(variables...).Parse(text).
func Parse(text string, variables ...string) (Expr, error) {
	return NewKernel(variables...).Parse(text)
}

// ============================================================
// Tokenizer
// ============================================================

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func tokenize(text string) ([]token, error) {
	var toks []token
	rs := []rune(text)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			start := i
			for i < len(rs) && (unicode.IsDigit(rs[i]) || rs[i] == '.') {
				i++
			}
			if i < len(rs) && (rs[i] == 'e' || rs[i] == 'E') {
				j := i + 1
				if j < len(rs) && (rs[j] == '+' || rs[j] == '-') {
					j++
				}
				if j < len(rs) && unicode.IsDigit(rs[j]) {
					for j < len(rs) && unicode.IsDigit(rs[j]) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[start:i]), pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(rs) && (unicode.IsLetter(rs[i]) || unicode.IsDigit(rs[i]) || rs[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[start:i]), pos: start})
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, r, i)
		}
	}
	return append(toks, token{kind: tokEOF, text: "end of input", pos: len(rs)}), nil
}

// ============================================================
// Recursive-descent parser
// ============================================================

//	sum     := product (("+" | "-") product)*
//	product := unary (("*" | "/") unary)*
//	unary   := ("+" | "-") unary | power
//	power   := primary (("**" | "^") unary)?
//	primary := number | name | name "(" sum ")" | "(" sum ")"
type parser struct {
	toks   []token
	pos    int
	depth  int
	kernel *Kernel
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return fmt.Errorf("%w: expression nested too deeply", ErrSyntax)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) sum() (Expr, error) {
	left, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next()
		right, err := p.product()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			right = negate(right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

func (p *parser) product() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		op := p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op.text == "/" {
			right = PowOf(right, N(-1))
		}
		left = MulOf(left, right)
	}
	return left, nil
}

func (p *parser) unary() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	if p.isOp("+", "-") {
		op := p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			return negate(operand), nil
		}
		return operand, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.isOp("**", "^") {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		if !plausibleNumber(t.text) {
			return nil, fmt.Errorf("%w: malformed number %q at offset %d", ErrSyntax, t.text, t.pos)
		}
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, fmt.Errorf("%w: malformed number %q at offset %d", ErrSyntax, t.text, t.pos)
		}
		return NRat(r), nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.call(t)
		}
		if _, ok := p.kernel.variables[t.text]; ok {
			return S(t.text), nil
		}
		if c, ok := constants[t.text]; ok {
			return c, nil
		}
		return nil, fmt.Errorf("%w: %q at offset %d", ErrUnknownSymbol, t.text, t.pos)
	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		e, err := p.sum()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
}

func (p *parser) call(name token) (Expr, error) {
	fn, ok := functions[name.text]
	if !ok {
		return nil, fmt.Errorf("%w: %q at offset %d", ErrUnknownFunction, name.text, name.pos)
	}
	p.next() // "("
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	arg, err := p.sum()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return fn(arg), nil
}

// plausibleNumber rejects literals whose exact value would be unreasonably
// large to materialise, such as 1e999999999.
func plausibleNumber(text string) bool {
	if len(text) > 64 {
		return false
	}
	i := strings.IndexAny(text, "eE")
	if i < 0 {
		return true
	}
	exp, err := strconv.Atoi(text[i+1:])
	return err == nil && exp >= -maxExponent && exp <= maxExponent
}

func (p *parser) expect(kind tokKind) error {
	t := p.next()
	if t.kind != kind {
		return fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, t.text, t.pos)
	}
	return nil
}
