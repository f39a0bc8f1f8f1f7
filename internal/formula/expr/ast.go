package expr

import "github.com/shopspring/decimal"

// divisionPrecision is the number of fractional digits kept by "/".
const divisionPrecision = 16

var (
	one  = decimal.NewFromInt(1)
	zero = decimal.Zero
)

type node interface {
	eval(p *Program, env map[string]decimal.Decimal) (decimal.Decimal, error)
	tree() map[string]any
}

type numberNode struct {
	value decimal.Decimal
	text  string
}

type identNode struct {
	name string
	pos  int
}

type negateNode struct {
	operand node
}

type binaryNode struct {
	op          string
	left, right node
	pos         int
}

func (n numberNode) eval(*Program, map[string]decimal.Decimal) (decimal.Decimal, error) {
	return n.value, nil
}

func (n numberNode) tree() map[string]any {
	return map[string]any{"type": "number", "value": n.text}
}

func (n identNode) eval(p *Program, env map[string]decimal.Decimal) (decimal.Decimal, error) {
	v, ok := env[n.name]
	if !ok {
		err := newError(p.source, n.pos, "unknown identifier")
		err.Identifier = n.name
		return zero, err
	}
	return v, nil
}

func (n identNode) tree() map[string]any {
	return map[string]any{"type": "identifier", "name": n.name}
}

func (n negateNode) eval(p *Program, env map[string]decimal.Decimal) (decimal.Decimal, error) {
	v, err := n.operand.eval(p, env)
	if err != nil {
		return zero, err
	}
	return v.Neg(), nil
}

func (n negateNode) tree() map[string]any {
	return map[string]any{"type": "unary", "op": "-", "operand": n.operand.tree()}
}

func (n binaryNode) eval(p *Program, env map[string]decimal.Decimal) (decimal.Decimal, error) {
	// Both sides are always evaluated so a missing binding or a zero divisor
	// is reported regardless of which branch a boolean would select.
	l, err := n.left.eval(p, env)
	if err != nil {
		return zero, err
	}
	r, err := n.right.eval(p, env)
	if err != nil {
		return zero, err
	}

	switch n.op {
	case "+":
		return l.Add(r), nil
	case "-":
		return l.Sub(r), nil
	case "*":
		return l.Mul(r), nil
	case "/":
		if r.IsZero() {
			return zero, newError(p.source, n.pos, "division by zero")
		}
		return l.DivRound(r, divisionPrecision), nil
	case ">":
		return boolValue(l.GreaterThan(r)), nil
	case "<":
		return boolValue(l.LessThan(r)), nil
	case ">=":
		return boolValue(l.GreaterThanOrEqual(r)), nil
	case "<=":
		return boolValue(l.LessThanOrEqual(r)), nil
	case "==":
		return boolValue(l.Equal(r)), nil
	case "!=":
		return boolValue(!l.Equal(r)), nil
	case "&&":
		return boolValue(!l.IsZero() && !r.IsZero()), nil
	case "||":
		return boolValue(!l.IsZero() || !r.IsZero()), nil
	}
	return zero, newError(p.source, n.pos, "unsupported operator "+n.op)
}

func (n binaryNode) tree() map[string]any {
	return map[string]any{
		"type":  "binary",
		"op":    n.op,
		"left":  n.left.tree(),
		"right": n.right.tree(),
	}
}

func boolValue(b bool) decimal.Decimal {
	if b {
		return one
	}
	return zero
}
