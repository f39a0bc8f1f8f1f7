package expr

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Program is a compiled expression. It is immutable and safe for concurrent use.
type Program struct {
	source string
	root   node
	idents []string
}

// Compile tokenizes and parses expression over the closed formula grammar.
func Compile(expression string) (*Program, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, newError(expression, -1, "expression is empty")
	}
	if err := checkBalanced(expression); err != nil {
		return nil, err
	}

	tokens, err := tokenize(expression)
	if err != nil {
		return nil, err
	}

	p := &parser{src: expression, tokens: tokens, seen: map[string]bool{}}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}

	return &Program{source: expression, root: root, idents: p.idents}, nil
}

// Evaluate compiles and evaluates expression in one step.
func Evaluate(expression string, bindings map[string]decimal.Decimal) (decimal.Decimal, error) {
	prog, err := Compile(expression)
	if err != nil {
		return decimal.Zero, err
	}
	return prog.Eval(bindings)
}

func (p *Program) Source() string {
	return p.source
}

// Identifiers returns the distinct identifiers in order of first appearance.
func (p *Program) Identifiers() []string {
	out := make([]string, len(p.idents))
	copy(out, p.idents)
	return out
}

// Eval evaluates the program. Every identifier must be bound.
func (p *Program) Eval(bindings map[string]decimal.Decimal) (decimal.Decimal, error) {
	for _, id := range p.idents {
		if _, ok := bindings[id]; !ok {
			err := newError(p.source, strings.Index(p.source, id), "unknown identifier")
			err.Identifier = id
			return decimal.Zero, err
		}
	}
	return p.root.eval(p, bindings)
}

// MarshalJSON renders the parsed tree.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.root.tree())
}

func checkBalanced(expression string) error {
	depth := 0
	for i := 0; i < len(expression); i++ {
		switch expression[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return newError(expression, i, "unbalanced parentheses")
			}
		}
	}
	if depth != 0 {
		return newError(expression, -1, "unbalanced parentheses")
	}
	return nil
}
