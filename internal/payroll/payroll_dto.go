package payroll

import "github.com/shopspring/decimal"

type GeneratePayrollRequest struct {
	EmployeeID string           `json:"employee_id" binding:"required,uuid"`
	Month      int              `json:"month" binding:"required,min=1,max=12"`
	Year       int              `json:"year" binding:"required,min=2000,max=2100"`
	Bonus      *decimal.Decimal `json:"bonus"`
}

type GenerateBatchRequest struct {
	Month       int      `json:"month" binding:"required,min=1,max=12"`
	Year        int      `json:"year" binding:"required,min=2000,max=2100"`
	EmployeeIDs []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
}

type MarkPaidRequest struct {
	PaymentMethod    string  `json:"payment_method" binding:"required,oneof=BANK_TRANSFER CASH CHEQUE"`
	PaymentReference *string `json:"payment_reference" binding:"omitempty,max=100"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type SalaryGenerationFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Month      int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year       int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT GENERATED APPROVED PAID CANCELLED"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type RegisterExportRequest struct {
	Month int `form:"month" binding:"required,min=1,max=12"`
	Year  int `form:"year" binding:"required,min=2000,max=2100"`
}

type UpsertPayrollPolicyRequest struct {
	BasicComponentCode          string           `json:"basic_component_code" binding:"required,max=30"`
	AbsenceDeductionEnabled     bool             `json:"absence_deduction_enabled"`
	UnpaidLeaveDeductionEnabled bool             `json:"unpaid_leave_deduction_enabled"`
	AbsenceDayRate              *decimal.Decimal `json:"absence_day_rate"`
	LateGraceCount              int              `json:"late_grace_count" binding:"min=0"`
	LatesPerDeduction           int              `json:"lates_per_deduction" binding:"required,min=1"`
	LateDeductionDays           decimal.Decimal  `json:"late_deduction_days"`
	CountEarlyExitAsLate        bool             `json:"count_early_exit_as_late"`
	StandardHoursPerDay         decimal.Decimal  `json:"standard_hours_per_day"`
	OvertimeMultiplier          decimal.Decimal  `json:"overtime_multiplier"`
	OvertimeHourlyRate          *decimal.Decimal `json:"overtime_hourly_rate"`
}

type AttendanceSummaryResponse struct {
	WorkingDays     int    `json:"working_days"`
	PresentDays     string `json:"present_days"`
	AbsentDays      string `json:"absent_days"`
	PaidLeaveDays   int    `json:"paid_leave_days"`
	UnpaidLeaveDays int    `json:"unpaid_leave_days"`
	HolidayDays     int    `json:"holiday_days"`
	WeekOffDays     int    `json:"week_off_days"`
	OvertimeHours   string `json:"overtime_hours"`
	LateCount       int    `json:"late_count"`
	EarlyExitCount  int    `json:"early_exit_count"`
}

type SalaryGenerationResponse struct {
	ID                 string                    `json:"id"`
	EmployeeID         string                    `json:"employee_id"`
	EmployeeName       string                    `json:"employee_name,omitempty"`
	SalaryID           string                    `json:"salary_id"`
	GenerationNumber   string                    `json:"generation_number"`
	Version            int                       `json:"version"`
	Month              int                       `json:"month"`
	Year               int                       `json:"year"`
	PayPeriodStart     string                    `json:"pay_period_start"`
	PayPeriodEnd       string                    `json:"pay_period_end"`
	Attendance         AttendanceSummaryResponse `json:"attendance"`
	BasicSalary        string                    `json:"basic_salary"`
	ProrationFactor    string                    `json:"proration_factor"`
	TotalEarnings      string                    `json:"total_earnings"`
	TotalDeductions    string                    `json:"total_deductions"`
	GrossSalary        string                    `json:"gross_salary"`
	NetSalary          string                    `json:"net_salary"`
	OvertimePay        string                    `json:"overtime_pay"`
	LateDeduction      string                    `json:"late_deduction"`
	AbsentDeduction    string                    `json:"absent_deduction"`
	LeaveDeduction     string                    `json:"leave_deduction"`
	Bonus              string                    `json:"bonus"`
	Status             string                    `json:"status"`
	GeneratedBy        *string                   `json:"generated_by,omitempty"`
	GeneratedAt        *string                   `json:"generated_at,omitempty"`
	ApprovedBy         *string                   `json:"approved_by,omitempty"`
	ApprovedAt         *string                   `json:"approved_at,omitempty"`
	PaidBy             *string                   `json:"paid_by,omitempty"`
	PaidAt             *string                   `json:"paid_at,omitempty"`
	PaymentMethod      *string                   `json:"payment_method,omitempty"`
	PaymentReference   *string                   `json:"payment_reference,omitempty"`
	CancelledBy        *string                   `json:"cancelled_by,omitempty"`
	CancelledAt        *string                   `json:"cancelled_at,omitempty"`
	CancellationReason *string                   `json:"cancellation_reason,omitempty"`
	PayslipURL         *string                   `json:"payslip_url,omitempty"`
}

type SalaryGenerationDetailResponse struct {
	ComponentCode     string  `json:"component_code"`
	ComponentName     string  `json:"component_name"`
	ComponentType     string  `json:"component_type"`
	CalculationType   string  `json:"calculation_type"`
	Sequence          int     `json:"sequence"`
	BaseAmount        string  `json:"base_amount"`
	CalculatedAmount  string  `json:"calculated_amount"`
	IsProrated        bool    `json:"is_prorated"`
	Percentage        *string `json:"percentage,omitempty"`
	PercentageBase    *string `json:"percentage_base,omitempty"`
	FormulaExpression *string `json:"formula_expression,omitempty"`
	AffectsGross      bool    `json:"affects_gross"`
	AffectsNet        bool    `json:"affects_net"`
	IsTaxable         bool    `json:"is_taxable"`
	IsStatutory       bool    `json:"is_statutory"`
}

type SalaryBreakdownResponse struct {
	SalaryGenerationResponse
	Earnings   []SalaryGenerationDetailResponse `json:"earnings"`
	Deductions []SalaryGenerationDetailResponse `json:"deductions"`
}

type BatchOutcome struct {
	EmployeeID         string `json:"employee_id"`
	SalaryGenerationID string `json:"salary_generation_id,omitempty"`
	GenerationNumber   string `json:"generation_number,omitempty"`
	NetSalary          string `json:"net_salary,omitempty"`
	Status             string `json:"status"`
	ErrorCode          string `json:"error_code,omitempty"`
	Error              string `json:"error,omitempty"`
}

type BatchGenerateResponse struct {
	Month     int            `json:"month"`
	Year      int            `json:"year"`
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Results   []BatchOutcome `json:"results"`
}

type PayrollPolicyResponse struct {
	BasicComponentCode          string  `json:"basic_component_code"`
	AbsenceDeductionEnabled     bool    `json:"absence_deduction_enabled"`
	UnpaidLeaveDeductionEnabled bool    `json:"unpaid_leave_deduction_enabled"`
	AbsenceDayRate              *string `json:"absence_day_rate,omitempty"`
	LateGraceCount              int     `json:"late_grace_count"`
	LatesPerDeduction           int     `json:"lates_per_deduction"`
	LateDeductionDays           string  `json:"late_deduction_days"`
	CountEarlyExitAsLate        bool    `json:"count_early_exit_as_late"`
	StandardHoursPerDay         string  `json:"standard_hours_per_day"`
	OvertimeMultiplier          string  `json:"overtime_multiplier"`
	OvertimeHourlyRate          *string `json:"overtime_hourly_rate,omitempty"`
	IsDefault                   bool    `json:"is_default"`
}

type FileDownload struct {
	FileName    string
	ContentType string
	Content     []byte
}
