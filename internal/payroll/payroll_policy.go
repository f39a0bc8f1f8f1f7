package payroll

import (
	"time"

	"go-payroll/internal/salarycalc"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollPolicy is the stored form of a company's proration rules. A company
// without a row is paid under salarycalc.DefaultPolicy.
type PayrollPolicy struct {
	ID                          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID                   uuid.UUID           `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_payroll_policy_company"`
	BasicComponentCode          string              `gorm:"column:basic_component_code;type:varchar(30);not null"`
	AbsenceDeductionEnabled     bool                `gorm:"column:absence_deduction_enabled;not null"`
	UnpaidLeaveDeductionEnabled bool                `gorm:"column:unpaid_leave_deduction_enabled;not null"`
	AbsenceDayRate              decimal.NullDecimal `gorm:"column:absence_day_rate;type:numeric(15,2)"`
	LateGraceCount              int                 `gorm:"column:late_grace_count;not null"`
	LatesPerDeduction           int                 `gorm:"column:lates_per_deduction;not null"`
	LateDeductionDays           decimal.Decimal     `gorm:"column:late_deduction_days;type:numeric(5,2);not null"`
	CountEarlyExitAsLate        bool                `gorm:"column:count_early_exit_as_late;not null"`
	StandardHoursPerDay         decimal.Decimal     `gorm:"column:standard_hours_per_day;type:numeric(5,2);not null"`
	OvertimeMultiplier          decimal.Decimal     `gorm:"column:overtime_multiplier;type:numeric(5,2);not null"`
	OvertimeHourlyRate          decimal.NullDecimal `gorm:"column:overtime_hourly_rate;type:numeric(15,2)"`
	UpdatedBy                   *uuid.UUID          `gorm:"column:updated_by;type:uuid"`
	CreatedAt                   time.Time           `gorm:"column:created_at"`
	UpdatedAt                   time.Time           `gorm:"column:updated_at"`
}

func (PayrollPolicy) TableName() string {
	return "payroll_policies"
}

func (p PayrollPolicy) Proration() salarycalc.ProrationPolicy {
	policy := salarycalc.ProrationPolicy{
		BasicCode:                   p.BasicComponentCode,
		AbsenceDeductionEnabled:     p.AbsenceDeductionEnabled,
		UnpaidLeaveDeductionEnabled: p.UnpaidLeaveDeductionEnabled,
		LateGraceCount:              p.LateGraceCount,
		LatesPerDeduction:           p.LatesPerDeduction,
		LateDeductionDays:           p.LateDeductionDays,
		CountEarlyExitAsLate:        p.CountEarlyExitAsLate,
		StandardHoursPerDay:         p.StandardHoursPerDay,
		OvertimeMultiplier:          p.OvertimeMultiplier,
	}
	if p.AbsenceDayRate.Valid {
		rate := p.AbsenceDayRate.Decimal
		policy.AbsenceDayRate = &rate
	}
	if p.OvertimeHourlyRate.Valid {
		rate := p.OvertimeHourlyRate.Decimal
		policy.OvertimeHourlyRate = &rate
	}
	return policy
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func policyResponse(p salarycalc.ProrationPolicy, isDefault bool) PayrollPolicyResponse {
	resp := PayrollPolicyResponse{
		BasicComponentCode:          p.BasicCode,
		AbsenceDeductionEnabled:     p.AbsenceDeductionEnabled,
		UnpaidLeaveDeductionEnabled: p.UnpaidLeaveDeductionEnabled,
		LateGraceCount:              p.LateGraceCount,
		LatesPerDeduction:           p.LatesPerDeduction,
		LateDeductionDays:           p.LateDeductionDays.String(),
		CountEarlyExitAsLate:        p.CountEarlyExitAsLate,
		StandardHoursPerDay:         p.StandardHoursPerDay.String(),
		OvertimeMultiplier:          p.OvertimeMultiplier.String(),
		IsDefault:                   isDefault,
	}
	if p.AbsenceDayRate != nil {
		v := p.AbsenceDayRate.StringFixed(2)
		resp.AbsenceDayRate = &v
	}
	if p.OvertimeHourlyRate != nil {
		v := p.OvertimeHourlyRate.StringFixed(2)
		resp.OvertimeHourlyRate = &v
	}
	return resp
}
