package salarycalc

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProrationPolicy holds the company rules that turn attendance into pay.
// Nil rate overrides mean the rate is derived from the basic component.
type ProrationPolicy struct {
	BasicCode string

	AbsenceDeductionEnabled     bool
	UnpaidLeaveDeductionEnabled bool
	AbsenceDayRate              *decimal.Decimal

	LateGraceCount       int
	LatesPerDeduction    int
	LateDeductionDays    decimal.Decimal
	CountEarlyExitAsLate bool

	StandardHoursPerDay decimal.Decimal
	OvertimeMultiplier  decimal.Decimal
	OvertimeHourlyRate  *decimal.Decimal
}

// DefaultPolicy prorates earnings by attendance and leaves absence and
// unpaid leave to proration alone, so they are not charged twice.
func DefaultPolicy() ProrationPolicy {
	return ProrationPolicy{
		BasicCode:         "BASIC",
		LateGraceCount:    3,
		LatesPerDeduction: 3,
		LateDeductionDays: decimal.NewFromInt(1),

		StandardHoursPerDay: decimal.NewFromInt(8),
		OvertimeMultiplier:  decimal.NewFromFloat(1.5),
	}
}

func (p ProrationPolicy) Validate() error {
	switch {
	case p.BasicCode == "":
		return fmt.Errorf("%w: basic component code is required", ErrInvalidPolicy)
	case p.LateGraceCount < 0:
		return fmt.Errorf("%w: late grace count must not be negative", ErrInvalidPolicy)
	case p.LatesPerDeduction < 1:
		return fmt.Errorf("%w: lates per deduction must be at least 1", ErrInvalidPolicy)
	case p.LateDeductionDays.IsNegative():
		return fmt.Errorf("%w: late deduction days must not be negative", ErrInvalidPolicy)
	case !p.StandardHoursPerDay.IsPositive():
		return fmt.Errorf("%w: standard hours per day must be positive", ErrInvalidPolicy)
	case p.OvertimeMultiplier.IsNegative():
		return fmt.Errorf("%w: overtime multiplier must not be negative", ErrInvalidPolicy)
	case p.AbsenceDayRate != nil && p.AbsenceDayRate.IsNegative():
		return fmt.Errorf("%w: absence day rate must not be negative", ErrInvalidPolicy)
	case p.OvertimeHourlyRate != nil && p.OvertimeHourlyRate.IsNegative():
		return fmt.Errorf("%w: overtime hourly rate must not be negative", ErrInvalidPolicy)
	}
	return nil
}
