package salarycalc

import (
	"go-payroll/internal/attendance"

	"github.com/shopspring/decimal"
)

// Line is one component's contribution to a payroll run.
type Line struct {
	Code              string
	Name              string
	Kind              Kind
	ValueType         ValueType
	Sequence          int
	BaseAmount        decimal.Decimal
	Amount            decimal.Decimal
	Prorated          bool
	AffectsGross      bool
	AffectsNet        bool
	Taxable           bool
	Statutory         bool
	PercentageValue   decimal.Decimal
	PercentageBase    string
	FormulaExpression string
}

type PayrollTotals struct {
	BasicSalary     decimal.Decimal
	ProrationFactor decimal.Decimal
	DayRate         decimal.Decimal
	HourlyRate      decimal.Decimal

	OvertimePay     decimal.Decimal
	Bonus           decimal.Decimal
	LateDeduction   decimal.Decimal
	AbsentDeduction decimal.Decimal
	LeaveDeduction  decimal.Decimal

	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	GrossSalary     decimal.Decimal
	NetSalary       decimal.Decimal

	Lines []Line
}

type applyOptions struct {
	bonus decimal.Decimal
}

type ApplyOption func(*applyOptions)

// WithBonus adds a one-off amount to earnings. It is never prorated.
func WithBonus(amount decimal.Decimal) ApplyOption {
	return func(o *applyOptions) {
		o.bonus = amount
	}
}

// Apply prorates the resolved components by attendance, adds overtime and
// bonus, charges late, absence and leave deductions per policy, and totals.
//
// Earnings flagged Prorated are scaled by paid days over calendar days, where
// paid days are present, paid leave, holiday and week-off days.
func Apply(resolved Resolved, summary attendance.Summary, policy ProrationPolicy, opts ...ApplyOption) (PayrollTotals, error) {
	if err := policy.Validate(); err != nil {
		return PayrollTotals{}, err
	}
	o := applyOptions{bonus: decimal.Zero}
	for _, opt := range opts {
		opt(&o)
	}

	working := decimal.NewFromInt(int64(summary.WorkingDays))
	nonWorking := decimal.NewFromInt(int64(summary.HolidayDays + summary.WeekOffDays))
	paidDays := summary.PresentDays.
		Add(decimal.NewFromInt(int64(summary.PaidLeaveDays))).
		Add(nonWorking)
	calendar := working.Add(nonWorking)

	basic := resolved.Amount(policy.BasicCode)
	totals := PayrollTotals{
		BasicSalary:     basic,
		ProrationFactor: decimal.NewFromInt(1),
		DayRate:         decimal.Zero,
		HourlyRate:      decimal.Zero,
		Bonus:           o.bonus.Round(2),
		TotalEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
	}
	if calendar.IsPositive() {
		totals.ProrationFactor = paidDays.DivRound(calendar, 6)
	}

	for _, ra := range resolved.Ordered() {
		spec := ra.Spec
		line := Line{
			Code:              spec.Code,
			Name:              spec.Name,
			Kind:              spec.Kind,
			ValueType:         spec.ValueType,
			Sequence:          ra.Sequence,
			BaseAmount:        ra.Amount,
			Amount:            ra.Amount,
			AffectsGross:      spec.AffectsGross,
			AffectsNet:        spec.AffectsNet,
			Taxable:           spec.Taxable,
			Statutory:         spec.Statutory,
			PercentageValue:   spec.PercentageValue,
			PercentageBase:    spec.PercentageBase,
			FormulaExpression: spec.FormulaExpression,
		}
		if spec.Kind == KindEarning && spec.Prorated && calendar.IsPositive() {
			line.Amount = ra.Amount.Mul(paidDays).DivRound(calendar, 2)
			line.Prorated = true
		}

		switch spec.Kind {
		case KindEarning:
			if spec.AffectsGross {
				totals.TotalEarnings = totals.TotalEarnings.Add(line.Amount)
			}
		case KindDeduction:
			if spec.AffectsNet {
				totals.TotalDeductions = totals.TotalDeductions.Add(line.Amount)
			}
		}
		totals.Lines = append(totals.Lines, line)
	}

	dayAmount := func(days decimal.Decimal) decimal.Decimal {
		if !days.IsPositive() {
			return decimal.Zero
		}
		if policy.AbsenceDayRate != nil {
			return policy.AbsenceDayRate.Mul(days).Round(2)
		}
		if !working.IsPositive() {
			return decimal.Zero
		}
		return basic.Mul(days).DivRound(working, 2)
	}
	if policy.AbsenceDayRate != nil {
		totals.DayRate = *policy.AbsenceDayRate
	} else if working.IsPositive() {
		totals.DayRate = basic.DivRound(working, 2)
	}

	lates := summary.LateCount
	if policy.CountEarlyExitAsLate {
		lates += summary.EarlyExitCount
	}
	if excess := lates - policy.LateGraceCount; excess > 0 {
		blocks := decimal.NewFromInt(int64(excess / policy.LatesPerDeduction))
		totals.LateDeduction = dayAmount(blocks.Mul(policy.LateDeductionDays))
	} else {
		totals.LateDeduction = decimal.Zero
	}

	totals.AbsentDeduction = decimal.Zero
	if policy.AbsenceDeductionEnabled {
		totals.AbsentDeduction = dayAmount(summary.AbsentDays)
	}
	totals.LeaveDeduction = decimal.Zero
	if policy.UnpaidLeaveDeductionEnabled {
		totals.LeaveDeduction = dayAmount(decimal.NewFromInt(int64(summary.UnpaidLeaveDays)))
	}

	totals.OvertimePay = decimal.Zero
	if summary.OvertimeHours.IsPositive() {
		if policy.OvertimeHourlyRate != nil {
			totals.HourlyRate = *policy.OvertimeHourlyRate
			totals.OvertimePay = summary.OvertimeHours.Mul(totals.HourlyRate).Mul(policy.OvertimeMultiplier).Round(2)
		} else if working.IsPositive() {
			hours := working.Mul(policy.StandardHoursPerDay)
			totals.HourlyRate = basic.DivRound(hours, 2)
			totals.OvertimePay = summary.OvertimeHours.Mul(basic).Mul(policy.OvertimeMultiplier).DivRound(hours, 2)
		}
	}

	totals.TotalEarnings = totals.TotalEarnings.Add(totals.OvertimePay).Add(totals.Bonus)
	totals.TotalDeductions = totals.TotalDeductions.
		Add(totals.LateDeduction).
		Add(totals.AbsentDeduction).
		Add(totals.LeaveDeduction)
	totals.GrossSalary = totals.TotalEarnings
	totals.NetSalary = totals.GrossSalary.Sub(totals.TotalDeductions)

	if totals.NetSalary.IsNegative() {
		return PayrollTotals{}, &NegativeNetSalaryError{
			Gross:      totals.GrossSalary,
			Deductions: totals.TotalDeductions,
			Net:        totals.NetSalary,
		}
	}
	return totals, nil
}
