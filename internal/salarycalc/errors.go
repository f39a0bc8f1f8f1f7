package salarycalc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnresolvableDependency = errors.New("unresolvable component dependency")
	ErrDuplicateComponent     = errors.New("duplicate component code")
	ErrInvalidComponent       = errors.New("invalid component definition")
	ErrNegativeNetSalary      = errors.New("net salary is negative")
	ErrInvalidPolicy          = errors.New("invalid proration policy")
)

// UnresolvableDependencyError lists the components on a dependency cycle and
// the references that match neither a component nor a base binding.
type UnresolvableDependencyError struct {
	Cycle    []string
	Blocked  []string
	Dangling map[string][]string
}

func (e *UnresolvableDependencyError) Error() string {
	var parts []string
	if len(e.Cycle) > 0 {
		parts = append(parts, "cycle between "+strings.Join(e.Cycle, ", "))
	}
	if len(e.Dangling) > 0 {
		codes := make([]string, 0, len(e.Dangling))
		for code := range e.Dangling {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			parts = append(parts, fmt.Sprintf("%s references undefined %s", code, strings.Join(e.Dangling[code], ", ")))
		}
	}
	return ErrUnresolvableDependency.Error() + ": " + strings.Join(parts, "; ")
}

func (e *UnresolvableDependencyError) Unwrap() error {
	return ErrUnresolvableDependency
}

// Codes returns every component code implicated in the failure.
func (e *UnresolvableDependencyError) Codes() []string {
	codes := append([]string{}, e.Cycle...)
	for code := range e.Dangling {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ComponentError ties a failure to the component that caused it.
type ComponentError struct {
	Code string
	Err  error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %s: %v", e.Code, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

type NegativeNetSalaryError struct {
	Gross      decimal.Decimal
	Deductions decimal.Decimal
	Net        decimal.Decimal
}

func (e *NegativeNetSalaryError) Error() string {
	return fmt.Sprintf("%s: gross %s minus deductions %s gives %s",
		ErrNegativeNetSalary, e.Gross.StringFixed(2), e.Deductions.StringFixed(2), e.Net.StringFixed(2))
}

func (e *NegativeNetSalaryError) Unwrap() error {
	return ErrNegativeNetSalary
}
