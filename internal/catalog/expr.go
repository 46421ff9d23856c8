package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/tejusbharadwaj/histseries/internal/series"
)

var (
	// ErrInvalidExpression is returned for expressions that do not parse.
	ErrInvalidExpression = errors.New("invalid expression")
	// ErrConstantExpression is returned when an expression references no
	// series at all.
	ErrConstantExpression = errors.New("expression does not reference a series")
)

// Expression is a parsed arithmetic expression over series names and
// numeric constants, e.g. "(FIC101.PV + FIC102.PV) * 3.6" or
// "'Reactor1|Temperature' - 273.15".
//
// Supported operators are + - * / // % @ with the usual precedence, unary
// minus and parentheses. Names containing the path separator resolve to
// attributes, other names to points. Names with characters outside
// letters, digits and ". _ : |" must be quoted with ' or ".
type Expression struct {
	src  string
	root node
}

// Parse parses src.
func Parse(src string) (*Expression, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidExpression, p.toks[p.pos].text, p.toks[p.pos].off)
	}
	return &Expression{src: src, root: root}, nil
}

func (e *Expression) String() string { return e.src }

// Names returns the distinct series names referenced, in order of first
// appearance.
func (e *Expression) Names() []string {
	var names []string
	seen := map[string]bool{}
	var walk func(n node)
	walk = func(n node) {
		switch n := n.(type) {
		case nameNode:
			if !seen[string(n)] {
				seen[string(n)] = true
				names = append(names, string(n))
			}
		case negNode:
			walk(n.x)
		case binNode:
			walk(n.l)
			walk(n.r)
		}
	}
	walk(e.root)
	return names
}

// LookupFunc resolves a series name.
type LookupFunc func(ctx context.Context, name string) (*series.Container, error)

// Bind resolves every name with lookup and composes the result. Nothing is
// retrieved from the backend until an operation is called on it.
func (e *Expression) Bind(ctx context.Context, lookup LookupFunc) (*series.Container, error) {
	v, err := e.root.eval(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if v.c == nil {
		return nil, fmt.Errorf("%w: %q", ErrConstantExpression, e.src)
	}
	return v.c, nil
}

// Evaluate parses expr and binds it against the catalog.
func (c *Catalog) Evaluate(ctx context.Context, expr string) (*series.Container, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	s, err := e.Bind(ctx, c.Lookup)
	if err != nil {
		return nil, err
	}
	c.logger.WithField("expression", expr).Debug("Evaluated expression")
	return s, nil
}

// operand is either a series or a constant.
type operand struct {
	c *series.Container
	k float64
}

func combine(op series.Operator, l, r operand) operand {
	switch {
	case l.c != nil:
		if r.c != nil {
			return operand{c: l.c.Apply(op, r.c)}
		}
		return operand{c: l.c.Apply(op, series.Scalar(r.k))}
	case r.c != nil:
		return operand{c: r.c.Apply(op.Reflected(), series.Scalar(l.k))}
	default:
		return operand{k: op.Apply(l.k, r.k)}
	}
}

type node interface {
	eval(ctx context.Context, lookup LookupFunc) (operand, error)
}

type (
	numNode  float64
	nameNode string
	negNode  struct{ x node }
)

type binNode struct {
	op   series.Operator
	l, r node
}

func (n numNode) eval(context.Context, LookupFunc) (operand, error) {
	return operand{k: float64(n)}, nil
}

func (n nameNode) eval(ctx context.Context, lookup LookupFunc) (operand, error) {
	c, err := lookup(ctx, string(n))
	if err != nil {
		return operand{}, fmt.Errorf("resolve %q: %w", string(n), err)
	}
	return operand{c: c}, nil
}

func (n negNode) eval(ctx context.Context, lookup LookupFunc) (operand, error) {
	x, err := n.x.eval(ctx, lookup)
	if err != nil {
		return operand{}, err
	}
	if x.c == nil {
		return operand{k: -x.k}, nil
	}
	return operand{c: x.c.RSub(series.Scalar(0))}, nil
}

func (n binNode) eval(ctx context.Context, lookup LookupFunc) (operand, error) {
	l, err := n.l.eval(ctx, lookup)
	if err != nil {
		return operand{}, err
	}
	r, err := n.r.eval(ctx, lookup)
	if err != nil {
		return operand{}, err
	}
	return combine(n.op, l, r), nil
}

type tokKind int

const (
	tokNumber tokKind = iota
	tokName
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	num  float64
	off  int
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._:|", r)
}

// isExponent reports whether rs is a number cut short at its exponent
// marker, e.g. "1e" or "2.5E".
func isExponent(rs []rune) bool {
	n := len(rs)
	if n < 2 || (rs[n-1] != 'e' && rs[n-1] != 'E') || !(unicode.IsDigit(rs[0]) || rs[0] == '.') {
		return false
	}
	_, err := strconv.ParseFloat(string(rs[:n-1]), 64)
	return err == nil
}

func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", off: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", off: i})
			i++
		case r == '/' && i+1 < len(rs) && rs[i+1] == '/':
			toks = append(toks, token{kind: tokOp, text: "//", off: i})
			i += 2
		case strings.ContainsRune("+-*/%@", r):
			toks = append(toks, token{kind: tokOp, text: string(r), off: i})
			i++
		case r == '\'' || r == '"':
			j := i + 1
			for j < len(rs) && rs[j] != r {
				j++
			}
			if j == len(rs) {
				return nil, fmt.Errorf("%w: unterminated name at offset %d", ErrInvalidExpression, i)
			}
			name := strings.TrimSpace(string(rs[i+1 : j]))
			if name == "" {
				return nil, fmt.Errorf("%w: empty name at offset %d", ErrInvalidExpression, i)
			}
			toks = append(toks, token{kind: tokName, text: name, off: i})
			i = j + 1
		case isNameRune(r):
			j := i
			for j < len(rs) && isNameRune(rs[j]) {
				j++
			}
			// signed exponent, e.g. 1e-3
			if isExponent(rs[i:j]) && j+1 < len(rs) && (rs[j] == '-' || rs[j] == '+') && unicode.IsDigit(rs[j+1]) {
				j++
				for j < len(rs) && isNameRune(rs[j]) {
					j++
				}
			}
			text := string(rs[i:j])
			if f, err := strconv.ParseFloat(text, 64); err == nil && (unicode.IsDigit(r) || r == '.') {
				toks = append(toks, token{kind: tokNumber, text: text, num: f, off: i})
			} else {
				toks = append(toks, token{kind: tokName, text: text, off: i})
			}
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidExpression, r, i)
		}
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	return toks, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peekOp(ops ...string) (string, bool) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if p.toks[p.pos].text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) binary(next func() (node, error), ops ...string) (node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		sym, ok := p.peekOp(ops...)
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := next()
		if err != nil {
			return nil, err
		}
		op, _ := series.LookupOperator(sym)
		left = binNode{op: op, l: left, r: right}
	}
}

func (p *parser) expr() (node, error) {
	return p.binary(p.term, "+", "-")
}

func (p *parser) term() (node, error) {
	return p.binary(p.unary, "*", "/", "//", "%", "@")
}

func (p *parser) unary() (node, error) {
	if sym, ok := p.peekOp("-", "+"); ok {
		p.pos++
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if sym == "+" {
			return x, nil
		}
		return negNode{x: x}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.pos >= len(p.toks) {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrInvalidExpression)
	}
	t := p.toks[p.pos]
	p.pos++
	switch t.kind {
	case tokNumber:
		return numNode(t.num), nil
	case tokName:
		return nameNode(t.text), nil
	case tokLParen:
		x, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.toks) || p.toks[p.pos].kind != tokRParen {
			return nil, fmt.Errorf("%w: missing closing parenthesis for offset %d", ErrInvalidExpression, t.off)
		}
		p.pos++
		return x, nil
	}
	return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrInvalidExpression, t.text, t.off)
}
