package salarycalc

import (
	"fmt"
	"sort"

	"go-payroll/internal/formula/expr"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type node struct {
	spec    ComponentSpec
	program *expr.Program
	deps    []string // component codes this one reads
	inputs  []string // every binding it reads, components and base
}

// Resolve computes every component's monthly amount. Percentage and formula
// components are evaluated after the components they reference; components
// with no ordering constraint between them are taken by Priority, then Code.
// Base bindings are read-only inputs that components may reference but that
// are not part of the result.
func Resolve(components []ComponentSpec, base map[string]decimal.Decimal) (Resolved, error) {
	nodes, err := buildNodes(components, base)
	if err != nil {
		return nil, err
	}

	order, err := topoSort(nodes)
	if err != nil {
		return nil, err
	}

	bindings := make(map[string]decimal.Decimal, len(base)+len(nodes))
	for k, v := range base {
		bindings[k] = v
	}

	resolved := make(Resolved, len(nodes))
	for seq, code := range order {
		n := nodes[code]
		amount, err := evaluate(n, bindings)
		if err != nil {
			return nil, &ComponentError{Code: code, Err: err}
		}
		amount = amount.Round(2)
		bindings[code] = amount
		resolved[code] = ResolvedAmount{
			Spec:      n.spec,
			Amount:    amount,
			Sequence:  seq,
			DependsOn: n.inputs,
		}
	}
	return resolved, nil
}

func buildNodes(components []ComponentSpec, base map[string]decimal.Decimal) (map[string]*node, error) {
	nodes := make(map[string]*node, len(components))
	for _, c := range components {
		if c.Code == "" {
			return nil, fmt.Errorf("%w: empty code", ErrInvalidComponent)
		}
		if _, dup := nodes[c.Code]; dup {
			return nil, &ComponentError{Code: c.Code, Err: ErrDuplicateComponent}
		}
		n := &node{spec: c}

		switch c.ValueType {
		case ValueFixed:
		case ValuePercentage:
			if c.PercentageBase == "" {
				return nil, &ComponentError{Code: c.Code, Err: fmt.Errorf("%w: percentage base is required", ErrInvalidComponent)}
			}
			n.inputs = []string{c.PercentageBase}
		case ValueFormula:
			program, err := expr.Compile(c.FormulaExpression)
			if err != nil {
				return nil, &ComponentError{Code: c.Code, Err: err}
			}
			if len(c.Variables) > 0 {
				if err := expr.Validate(c.FormulaExpression, c.Variables); err != nil {
					return nil, &ComponentError{Code: c.Code, Err: err}
				}
			}
			n.program = program
			n.inputs = program.Identifiers()
		default:
			return nil, &ComponentError{Code: c.Code, Err: fmt.Errorf("%w: value type %q", ErrInvalidComponent, c.ValueType)}
		}
		nodes[c.Code] = n
	}

	var dangling map[string][]string
	for code, n := range nodes {
		for _, in := range n.inputs {
			if _, ok := nodes[in]; ok {
				n.deps = append(n.deps, in)
				continue
			}
			if _, ok := base[in]; ok {
				continue
			}
			if dangling == nil {
				dangling = make(map[string][]string)
			}
			dangling[code] = append(dangling[code], in)
		}
	}
	if dangling != nil {
		return nil, &UnresolvableDependencyError{Dangling: dangling}
	}
	return nodes, nil
}

func less(a, b ComponentSpec) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.Code < b.Code
}

// topoSort is Kahn's algorithm with an ordered ready set.
func topoSort(nodes map[string]*node) ([]string, error) {
	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for code, n := range nodes {
		indegree[code] = len(n.deps)
		for _, dep := range n.deps {
			dependents[dep] = append(dependents[dep], code)
		}
	}

	var ready []string
	for code, deg := range indegree {
		if deg == 0 {
			ready = append(ready, code)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return less(nodes[ready[i]].spec, nodes[ready[j]].spec) })
		code := ready[0]
		ready = ready[1:]
		order = append(order, code)

		for _, dep := range dependents[code] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) == len(nodes) {
		return order, nil
	}

	var remaining []string
	for code, deg := range indegree {
		if deg > 0 {
			remaining = append(remaining, code)
		}
	}
	sort.Strings(remaining)

	err := &UnresolvableDependencyError{}
	for _, code := range remaining {
		if onCycle(nodes, code) {
			err.Cycle = append(err.Cycle, code)
		} else {
			err.Blocked = append(err.Blocked, code)
		}
	}
	return nil, err
}

// onCycle reports whether start can reach itself through deps.
func onCycle(nodes map[string]*node, start string) bool {
	seen := map[string]bool{}
	stack := append([]string{}, nodes[start].deps...)
	for len(stack) > 0 {
		code := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if code == start {
			return true
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		stack = append(stack, nodes[code].deps...)
	}
	return false
}

func evaluate(n *node, bindings map[string]decimal.Decimal) (decimal.Decimal, error) {
	switch n.spec.ValueType {
	case ValuePercentage:
		return n.spec.PercentageValue.Mul(bindings[n.spec.PercentageBase]).Div(hundred), nil
	case ValueFormula:
		scoped := make(map[string]decimal.Decimal, len(n.inputs))
		for _, in := range n.inputs {
			scoped[in] = bindings[in]
		}
		return n.program.Eval(scoped)
	default:
		return n.spec.FixedAmount, nil
	}
}
