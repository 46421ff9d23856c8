package database

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidFilter is returned for filter expressions that do not parse.
var ErrInvalidFilter = errors.New("invalid filter expression")

// A filter expression compares point values, e.g.
//
//	'FIC101.PV' > 5 and not ('TI200.PV' < 20 or BadVal('TI200.PV'))
//
// Tags are single-quoted. Arithmetic (+ - * /), comparisons (= <> != < <= >
// >=), and, or, not and parentheses are supported. A comparison involving a
// bad or missing value is false.
type filterExpr struct {
	src  string
	root filterNode
	tags []string
}

// filterLookup returns the value of tag at the evaluation instant.
type filterLookup func(tag string) (sample, bool)

type filterNode interface {
	eval(lookup filterLookup) float64
}

func parseFilter(src string) (*filterExpr, error) {
	toks, err := tokenizeFilter(src)
	if err != nil {
		return nil, err
	}
	p := &filterParser{toks: toks, seen: map[string]bool{}}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFilter, p.toks[p.pos].text, src)
	}
	return &filterExpr{src: src, root: root, tags: p.tags}, nil
}

// eval reports whether the expression holds.
func (f *filterExpr) eval(lookup filterLookup) bool {
	v := f.root.eval(lookup)
	return !math.IsNaN(v) && v != 0
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokTag
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

func tokenizeFilter(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		c := rs[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")"})
			i++
		case c == '\'':
			end := i + 1
			for end < len(rs) && rs[end] != '\'' {
				end++
			}
			if end == len(rs) {
				return nil, fmt.Errorf("%w: unterminated tag in %q", ErrInvalidFilter, src)
			}
			toks = append(toks, token{kind: tokTag, text: string(rs[i+1 : end])})
			i = end + 1
		case unicode.IsDigit(c) || (c == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			end := i
			for end < len(rs) && (unicode.IsDigit(rs[end]) || rs[end] == '.' || rs[end] == 'e' || rs[end] == 'E' ||
				((rs[end] == '-' || rs[end] == '+') && end > i && (rs[end-1] == 'e' || rs[end-1] == 'E'))) {
				end++
			}
			n, err := strconv.ParseFloat(string(rs[i:end]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q", ErrInvalidFilter, string(rs[i:end]))
			}
			toks = append(toks, token{kind: tokNumber, text: string(rs[i:end]), num: n})
			i = end
		case unicode.IsLetter(c) || c == '_':
			end := i
			for end < len(rs) && (unicode.IsLetter(rs[end]) || unicode.IsDigit(rs[end]) || rs[end] == '_') {
				end++
			}
			toks = append(toks, token{kind: tokIdent, text: strings.ToLower(string(rs[i:end]))})
			i = end
		default:
			op := string(c)
			if i+1 < len(rs) {
				switch two := string(rs[i : i+2]); two {
				case "<=", ">=", "<>", "!=", "==":
					op = two
				}
			}
			if !strings.Contains("+-*/=<>!", string(c)) || op == "!" {
				return nil, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFilter, op, src)
			}
			toks = append(toks, token{kind: tokOp, text: op})
			i += len([]rune(op))
		}
	}
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidFilter)
	}
	return toks, nil
}

type filterParser struct {
	toks []token
	pos  int
	tags []string
	seen map[string]bool
}

func (p *filterParser) peek() (token, bool) {
	if p.pos < len(p.toks) {
		return p.toks[p.pos], true
	}
	return token{}, false
}

func (p *filterParser) acceptIdent(word string) bool {
	if t, ok := p.peek(); ok && t.kind == tokIdent && t.text == word {
		p.pos++
		return true
	}
	return false
}

func (p *filterParser) acceptOp(ops ...string) (string, bool) {
	t, ok := p.peek()
	if !ok || t.kind != tokOp {
		return "", false
	}
	for _, op := range ops {
		if t.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *filterParser) parseOr() (filterNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptIdent("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: "or", l: left, r: right}
	}
	return left, nil
}

func (p *filterParser) parseAnd() (filterNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.acceptIdent("and") {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: "and", l: left, r: right}
	}
	return left, nil
}

func (p *filterParser) parseNot() (filterNode, error) {
	if p.acceptIdent("not") {
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return notNode{x}, nil
	}
	return p.parseComparison()
}

func (p *filterParser) parseComparison() (filterNode, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if op, ok := p.acceptOp("=", "==", "<>", "!=", "<", "<=", ">", ">="); ok {
		right, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return binaryNode{op: op, l: left, r: right}, nil
	}
	return left, nil
}

func (p *filterParser) parseSum() (filterNode, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("+", "-")
		if !ok {
			return left, nil
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
}

func (p *filterParser) parseProduct() (filterNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOp("*", "/")
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, l: left, r: right}
	}
}

func (p *filterParser) parseUnary() (filterNode, error) {
	if _, ok := p.acceptOp("-"); ok {
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{x}, nil
	}
	return p.parsePrimary()
}

func (p *filterParser) parsePrimary() (filterNode, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrInvalidFilter)
	}
	p.pos++
	switch t.kind {
	case tokNumber:
		return numNode(t.num), nil
	case tokTag:
		p.addTag(t.text)
		return tagNode(t.text), nil
	case tokLParen:
		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if next, ok := p.peek(); !ok || next.kind != tokRParen {
			return nil, fmt.Errorf("%w: missing )", ErrInvalidFilter)
		}
		p.pos++
		return x, nil
	case tokIdent:
		if t.text == "badval" {
			return p.parseBadVal()
		}
	}
	return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidFilter, t.text)
}

func (p *filterParser) parseBadVal() (filterNode, error) {
	if t, ok := p.peek(); !ok || t.kind != tokLParen {
		return nil, fmt.Errorf("%w: BadVal needs (", ErrInvalidFilter)
	}
	p.pos++
	t, ok := p.peek()
	if !ok || t.kind != tokTag {
		return nil, fmt.Errorf("%w: BadVal takes a quoted tag", ErrInvalidFilter)
	}
	p.pos++
	if next, ok := p.peek(); !ok || next.kind != tokRParen {
		return nil, fmt.Errorf("%w: missing )", ErrInvalidFilter)
	}
	p.pos++
	p.addTag(t.text)
	return badValNode(t.text), nil
}

func (p *filterParser) addTag(tag string) {
	if !p.seen[tag] {
		p.seen[tag] = true
		p.tags = append(p.tags, tag)
	}
}

type numNode float64

func (n numNode) eval(filterLookup) float64 { return float64(n) }

type tagNode string

func (n tagNode) eval(lookup filterLookup) float64 {
	s, ok := lookup(string(n))
	if !ok || !s.good {
		return math.NaN()
	}
	return s.v
}

type badValNode string

func (n badValNode) eval(lookup filterLookup) float64 {
	s, ok := lookup(string(n))
	return truth(!ok || !s.good)
}

type negNode struct{ x filterNode }

func (n negNode) eval(lookup filterLookup) float64 { return -n.x.eval(lookup) }

type notNode struct{ x filterNode }

func (n notNode) eval(lookup filterLookup) float64 {
	v := n.x.eval(lookup)
	return truth(math.IsNaN(v) || v == 0)
}

type binaryNode struct {
	op   string
	l, r filterNode
}

func (n binaryNode) eval(lookup filterLookup) float64 {
	l, r := n.l.eval(lookup), n.r.eval(lookup)
	switch n.op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "and":
		return truth(isTrue(l) && isTrue(r))
	case "or":
		return truth(isTrue(l) || isTrue(r))
	}
	if math.IsNaN(l) || math.IsNaN(r) {
		return 0
	}
	switch n.op {
	case "=", "==":
		return truth(l == r)
	case "<>", "!=":
		return truth(l != r)
	case "<":
		return truth(l < r)
	case "<=":
		return truth(l <= r)
	case ">":
		return truth(l > r)
	case ">=":
		return truth(l >= r)
	}
	return math.NaN()
}

func isTrue(v float64) bool { return !math.IsNaN(v) && v != 0 }

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
