package salarycalc_test

import (
	"errors"
	"testing"

	"go-payroll/internal/attendance"
	"go-payroll/internal/salarycalc"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(working int, present string) attendance.Summary {
	p := d(present)
	return attendance.Summary{
		WorkingDays:   working,
		PresentDays:   p,
		AbsentDays:    decimal.NewFromInt(int64(working)).Sub(p),
		OvertimeHours: decimal.Zero,
	}
}

func resolveStandard(t *testing.T) salarycalc.Resolved {
	t.Helper()
	r, err := salarycalc.Resolve(standardStructure(), nil)
	require.NoError(t, err)
	return r
}

func TestApply(t *testing.T) {
	policy := salarycalc.DefaultPolicy()

	t.Run("full month end to end", func(t *testing.T) {
		totals, err := salarycalc.Apply(resolveStandard(t), summary(30, "30"), policy)
		require.NoError(t, err)

		assert.Equal(t, "28000.00", totals.TotalEarnings.StringFixed(2))
		assert.Equal(t, "2400.00", totals.TotalDeductions.StringFixed(2))
		assert.Equal(t, "28000.00", totals.GrossSalary.StringFixed(2))
		assert.Equal(t, "25600.00", totals.NetSalary.StringFixed(2))
		assert.Equal(t, "20000.00", totals.BasicSalary.StringFixed(2))

		require.Len(t, totals.Lines, 3)
		assert.Equal(t, "BASIC", totals.Lines[0].Code)
		for _, line := range totals.Lines {
			assert.True(t, line.Amount.Equal(line.BaseAmount), line.Code)
		}
	})

	t.Run("half month present halves prorated earnings", func(t *testing.T) {
		totals, err := salarycalc.Apply(resolveStandard(t), summary(30, "15"), policy)
		require.NoError(t, err)

		byCode := map[string]salarycalc.Line{}
		for _, l := range totals.Lines {
			byCode[l.Code] = l
		}
		assert.Equal(t, "10000.00", byCode["BASIC"].Amount.StringFixed(2))
		assert.Equal(t, "4000.00", byCode["HRA"].Amount.StringFixed(2))
		assert.True(t, byCode["HRA"].Prorated)
		// deductions are not prorated
		assert.Equal(t, "2400.00", byCode["PF"].Amount.StringFixed(2))
		assert.False(t, byCode["PF"].Prorated)

		assert.Equal(t, "14000.00", totals.TotalEarnings.StringFixed(2))
		assert.Equal(t, "11600.00", totals.NetSalary.StringFixed(2))
		assert.True(t, totals.AbsentDeduction.IsZero())
	})

	t.Run("holidays week-offs and paid leave are paid days", func(t *testing.T) {
		s := attendance.Summary{
			WorkingDays:   20,
			PresentDays:   d("18"),
			AbsentDays:    decimal.Zero,
			PaidLeaveDays: 2,
			HolidayDays:   2,
			WeekOffDays:   8,
			OvertimeHours: decimal.Zero,
		}
		totals, err := salarycalc.Apply(resolveStandard(t), s, policy)
		require.NoError(t, err)
		assert.Equal(t, "28000.00", totals.TotalEarnings.StringFixed(2))
		assert.True(t, totals.ProrationFactor.Equal(decimal.NewFromInt(1)))
	})

	t.Run("non prorated allowance keeps its amount", func(t *testing.T) {
		comps := standardStructure()
		meal := salarycalc.Fixed("MEAL", salarycalc.KindEarning, d("600"))
		meal.Prorated = false
		comps = append(comps, meal)

		r, err := salarycalc.Resolve(comps, nil)
		require.NoError(t, err)
		totals, err := salarycalc.Apply(r, summary(30, "15"), policy)
		require.NoError(t, err)
		assert.Equal(t, "14600.00", totals.TotalEarnings.StringFixed(2))
	})

	t.Run("late deduction after grace", func(t *testing.T) {
		s := summary(30, "30")
		s.LateCount = 7

		totals, err := salarycalc.Apply(resolveStandard(t), s, policy)
		require.NoError(t, err)
		// floor((7-3)/3) = 1 day at 20000/30
		assert.Equal(t, "666.67", totals.LateDeduction.StringFixed(2))
		assert.Equal(t, "3066.67", totals.TotalDeductions.StringFixed(2))
	})

	t.Run("early exits count as lates when configured", func(t *testing.T) {
		s := summary(30, "30")
		s.LateCount = 3
		s.EarlyExitCount = 3

		p := policy
		totals, err := salarycalc.Apply(resolveStandard(t), s, p)
		require.NoError(t, err)
		assert.True(t, totals.LateDeduction.IsZero())

		p.CountEarlyExitAsLate = true
		totals, err = salarycalc.Apply(resolveStandard(t), s, p)
		require.NoError(t, err)
		assert.Equal(t, "666.67", totals.LateDeduction.StringFixed(2))
	})

	t.Run("overtime is added to earnings", func(t *testing.T) {
		comps := []salarycalc.ComponentSpec{salarycalc.Fixed("BASIC", salarycalc.KindEarning, d("24000"))}
		r, err := salarycalc.Resolve(comps, nil)
		require.NoError(t, err)

		s := summary(30, "30")
		s.OvertimeHours = d("2.25")

		totals, err := salarycalc.Apply(r, s, policy)
		require.NoError(t, err)
		// 24000 / (30*8) = 100 per hour, x1.5
		assert.Equal(t, "100.00", totals.HourlyRate.StringFixed(2))
		assert.Equal(t, "337.50", totals.OvertimePay.StringFixed(2))
		assert.Equal(t, "24337.50", totals.TotalEarnings.StringFixed(2))
	})

	t.Run("overtime hourly override", func(t *testing.T) {
		s := summary(30, "30")
		s.OvertimeHours = d("2")
		rate := d("50")
		p := policy
		p.OvertimeHourlyRate = &rate

		totals, err := salarycalc.Apply(resolveStandard(t), s, p)
		require.NoError(t, err)
		assert.Equal(t, "150.00", totals.OvertimePay.StringFixed(2))
	})

	t.Run("absence and unpaid leave deductions when enabled", func(t *testing.T) {
		s := summary(30, "27")
		s.AbsentDays = d("2")
		s.UnpaidLeaveDays = 1

		p := policy
		p.AbsenceDeductionEnabled = true
		p.UnpaidLeaveDeductionEnabled = true

		totals, err := salarycalc.Apply(resolveStandard(t), s, p)
		require.NoError(t, err)
		assert.Equal(t, "1333.33", totals.AbsentDeduction.StringFixed(2))
		assert.Equal(t, "666.67", totals.LeaveDeduction.StringFixed(2))
	})

	t.Run("absence day rate override", func(t *testing.T) {
		s := summary(30, "28")
		rate := d("500")
		p := policy
		p.AbsenceDeductionEnabled = true
		p.AbsenceDayRate = &rate

		totals, err := salarycalc.Apply(resolveStandard(t), s, p)
		require.NoError(t, err)
		assert.Equal(t, "1000.00", totals.AbsentDeduction.StringFixed(2))
	})

	t.Run("bonus is not prorated", func(t *testing.T) {
		totals, err := salarycalc.Apply(resolveStandard(t), summary(30, "15"), policy, salarycalc.WithBonus(d("1000")))
		require.NoError(t, err)
		assert.Equal(t, "1000.00", totals.Bonus.StringFixed(2))
		assert.Equal(t, "15000.00", totals.TotalEarnings.StringFixed(2))
	})

	t.Run("negative net salary is reported", func(t *testing.T) {
		comps := append(standardStructure(), salarycalc.Fixed("LOAN", salarycalc.KindDeduction, d("50000")))
		r, err := salarycalc.Resolve(comps, nil)
		require.NoError(t, err)

		_, err = salarycalc.Apply(r, summary(30, "30"), policy)
		require.ErrorIs(t, err, salarycalc.ErrNegativeNetSalary)

		var negErr *salarycalc.NegativeNetSalaryError
		require.True(t, errors.As(err, &negErr))
		assert.Equal(t, "-24400.00", negErr.Net.StringFixed(2))
	})

	t.Run("invalid policy", func(t *testing.T) {
		p := policy
		p.LatesPerDeduction = 0
		_, err := salarycalc.Apply(resolveStandard(t), summary(30, "30"), p)
		assert.ErrorIs(t, err, salarycalc.ErrInvalidPolicy)
	})
}
