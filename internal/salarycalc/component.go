package salarycalc

import (
	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindEarning   Kind = "EARNING"
	KindDeduction Kind = "DEDUCTION"
)

type ValueType string

const (
	ValueFixed      ValueType = "FIXED"
	ValuePercentage ValueType = "PERCENTAGE"
	ValueFormula    ValueType = "FORMULA"
)

func (k Kind) Valid() bool {
	return k == KindEarning || k == KindDeduction
}

func (v ValueType) Valid() bool {
	return v == ValueFixed || v == ValuePercentage || v == ValueFormula
}

// ComponentSpec is one line of a salary structure as handed to Resolve.
type ComponentSpec struct {
	Code      string
	Name      string
	Kind      Kind
	ValueType ValueType

	FixedAmount       decimal.Decimal
	PercentageValue   decimal.Decimal
	PercentageBase    string
	FormulaExpression string
	// Variables declared for a formula; empty means every identifier of
	// the expression.
	Variables []string

	Priority int

	Prorated     bool
	AffectsGross bool
	AffectsNet   bool
	Taxable      bool
	Statutory    bool
}

func defaults(code string, kind Kind, vt ValueType) ComponentSpec {
	earning := kind == KindEarning
	return ComponentSpec{
		Code:         code,
		Name:         code,
		Kind:         kind,
		ValueType:    vt,
		Prorated:     earning,
		AffectsGross: earning,
		AffectsNet:   true,
		Taxable:      earning,
	}
}

func Fixed(code string, kind Kind, amount decimal.Decimal) ComponentSpec {
	c := defaults(code, kind, ValueFixed)
	c.FixedAmount = amount
	return c
}

func Percentage(code string, kind Kind, percent decimal.Decimal, base string) ComponentSpec {
	c := defaults(code, kind, ValuePercentage)
	c.PercentageValue = percent
	c.PercentageBase = base
	return c
}

func Formula(code string, kind Kind, expression string, variables ...string) ComponentSpec {
	c := defaults(code, kind, ValueFormula)
	c.FormulaExpression = expression
	c.Variables = variables
	return c
}

// ResolvedAmount is a component's monthly amount together with its position
// in the evaluation order.
type ResolvedAmount struct {
	Spec      ComponentSpec
	Amount    decimal.Decimal
	Sequence  int
	DependsOn []string
}

type Resolved map[string]ResolvedAmount

// Ordered returns the resolved components in evaluation order.
func (r Resolved) Ordered() []ResolvedAmount {
	out := make([]ResolvedAmount, len(r))
	for _, ra := range r {
		out[ra.Sequence] = ra
	}
	return out
}

// Amount returns the resolved amount of code, or zero if absent.
func (r Resolved) Amount(code string) decimal.Decimal {
	if ra, ok := r[code]; ok {
		return ra.Amount
	}
	return decimal.Zero
}
