package series

import (
	"math"
	"strings"
)

// Operator is a named, pure function of two values. In the composition
// x is the result of the left-hand Container and y the operand's result;
// reflected operators swap the two.
type Operator struct {
	Name        string
	Description string
	fn          func(x, y float64) float64
}

// Apply evaluates the operator.
func (o Operator) Apply(x, y float64) float64 {
	return o.fn(x, y)
}

// The operator catalogue. Values are scalars, so matrix multiplication is the
// product of two 1x1 matrices.
var (
	OpAdd       = Operator{"add", "Add value(s) to the series", func(x, y float64) float64 { return x + y }}
	OpRAdd      = Operator{"radd", "Add the series to value(s) (reverse order)", func(x, y float64) float64 { return y + x }}
	OpSub       = Operator{"sub", "Subtract value(s) from the series", func(x, y float64) float64 { return x - y }}
	OpRSub      = Operator{"rsub", "Subtract the series from value(s) (reverse order)", func(x, y float64) float64 { return y - x }}
	OpMul       = Operator{"mul", "Multiply the series by value(s)", func(x, y float64) float64 { return x * y }}
	OpRMul      = Operator{"rmul", "Multiply value(s) by the series (reverse order)", func(x, y float64) float64 { return y * x }}
	OpMatMul    = Operator{"matmul", "Matrix multiply", func(x, y float64) float64 { return x * y }}
	OpRMatMul   = Operator{"rmatmul", "Matrix multiply (reverse order)", func(x, y float64) float64 { return y * x }}
	OpTrueDiv   = Operator{"truediv", "Divide the series by value(s)", func(x, y float64) float64 { return x / y }}
	OpRTrueDiv  = Operator{"rtruediv", "Divide value(s) by the series (reverse order)", func(x, y float64) float64 { return y / x }}
	OpFloorDiv  = Operator{"floordiv", "Floordivide the series by value(s)", func(x, y float64) float64 { return floorDiv(x, y) }}
	OpRFloorDiv = Operator{"rfloordiv", "Floordivide value(s) by the series (reverse order)", func(x, y float64) float64 { return floorDiv(y, x) }}
	OpMod       = Operator{"mod", "Modulo the series by value(s)", func(x, y float64) float64 { return floorMod(x, y) }}
	OpRMod      = Operator{"rmod", "Modulo value(s) by the series (reverse order)", func(x, y float64) float64 { return floorMod(y, x) }}
)

var operators = []Operator{
	OpAdd, OpRAdd,
	OpSub, OpRSub,
	OpMul, OpRMul,
	OpMatMul, OpRMatMul,
	OpTrueDiv, OpRTrueDiv,
	OpFloorDiv, OpRFloorDiv,
	OpMod, OpRMod,
}

var reflected = map[string]Operator{
	"add": OpRAdd, "radd": OpAdd,
	"sub": OpRSub, "rsub": OpSub,
	"mul": OpRMul, "rmul": OpMul,
	"matmul": OpRMatMul, "rmatmul": OpMatMul,
	"truediv": OpRTrueDiv, "rtruediv": OpTrueDiv,
	"floordiv": OpRFloorDiv, "rfloordiv": OpFloorDiv,
	"mod": OpRMod, "rmod": OpMod,
}

// Reflected returns the operator with its arguments swapped, e.g. rsub for
// sub. k - c is evaluated as c.Apply(OpSub.Reflected(), k).
func (o Operator) Reflected() Operator {
	if r, ok := reflected[o.Name]; ok {
		return r
	}
	return o
}

// Operators returns the catalogue of binary operators.
func Operators() []Operator {
	out := make([]Operator, len(operators))
	copy(out, operators)
	return out
}

// LookupOperator finds an operator by name ("add", "rsub", ...) or by its
// symbol ("+", "-", "*", "@", "/", "//", "%").
func LookupOperator(name string) (Operator, bool) {
	switch strings.TrimSpace(name) {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "@":
		return OpMatMul, true
	case "/":
		return OpTrueDiv, true
	case "//":
		return OpFloorDiv, true
	case "%":
		return OpMod, true
	}
	key := strings.ToLower(strings.Trim(strings.TrimSpace(name), "_"))
	for _, op := range operators {
		if op.Name == key {
			return op, true
		}
	}
	return Operator{}, false
}

func floorDiv(x, y float64) float64 {
	q, _ := divmod(x, y)
	return q
}

func floorMod(x, y float64) float64 {
	_, r := divmod(x, y)
	return r
}

// divmod returns the floored quotient and the remainder carrying the sign of
// the divisor. Division by zero yields ±Inf or NaN for the quotient and NaN
// for the remainder.
func divmod(x, y float64) (float64, float64) {
	if y == 0 {
		return x / y, math.NaN()
	}
	mod := math.Mod(x, y)
	div := (x - mod) / y
	if mod != 0 {
		if (y < 0) != (mod < 0) {
			mod += y
			div--
		}
	} else {
		mod = math.Copysign(0, y)
	}
	if div == 0 {
		return math.Copysign(0, x/y), mod
	}
	floor := math.Floor(div)
	if div-floor > 0.5 {
		floor++
	}
	return floor, mod
}

// Operand is the right-hand side of a composition: either another
// *Container or a Scalar.
type Operand interface {
	operand()
}

// Scalar is a constant operand, broadcast over every value.
type Scalar float64

func (Scalar) operand()     {}
func (*Container) operand() {}

// Apply composes c with other under op. The result is evaluated lazily.
func (c *Container) Apply(op Operator, other Operand) *Container {
	return New(newVirtual(c.p, other, op))
}

func (c *Container) Add(other Operand) *Container       { return c.Apply(OpAdd, other) }
func (c *Container) RAdd(other Operand) *Container      { return c.Apply(OpRAdd, other) }
func (c *Container) Sub(other Operand) *Container       { return c.Apply(OpSub, other) }
func (c *Container) RSub(other Operand) *Container      { return c.Apply(OpRSub, other) }
func (c *Container) Mul(other Operand) *Container       { return c.Apply(OpMul, other) }
func (c *Container) RMul(other Operand) *Container      { return c.Apply(OpRMul, other) }
func (c *Container) MatMul(other Operand) *Container    { return c.Apply(OpMatMul, other) }
func (c *Container) RMatMul(other Operand) *Container   { return c.Apply(OpRMatMul, other) }
func (c *Container) TrueDiv(other Operand) *Container   { return c.Apply(OpTrueDiv, other) }
func (c *Container) RTrueDiv(other Operand) *Container  { return c.Apply(OpRTrueDiv, other) }
func (c *Container) FloorDiv(other Operand) *Container  { return c.Apply(OpFloorDiv, other) }
func (c *Container) RFloorDiv(other Operand) *Container { return c.Apply(OpRFloorDiv, other) }
func (c *Container) Mod(other Operand) *Container       { return c.Apply(OpMod, other) }
func (c *Container) RMod(other Operand) *Container      { return c.Apply(OpRMod, other) }

// DivMod returns the floored quotient and the remainder of c by other.
func (c *Container) DivMod(other Operand) (quotient, remainder *Container) {
	return c.Apply(OpFloorDiv, other), c.Apply(OpMod, other)
}

// RDivMod returns the floored quotient and the remainder of other by c.
func (c *Container) RDivMod(other Operand) (quotient, remainder *Container) {
	return c.Apply(OpRFloorDiv, other), c.Apply(OpRMod, other)
}
