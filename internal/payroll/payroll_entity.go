package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "DRAFT"
	StatusGenerated = "GENERATED"
	StatusApproved  = "APPROVED"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
)

// SalaryGeneration is one employee's payroll for one month. Once GENERATED
// only the status and its audit columns change; corrections go through
// cancel and regenerate.
type SalaryGeneration struct {
	ID               uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID    `gorm:"column:company_id;type:uuid;not null;index:idx_salary_generation_period"`
	EmployeeID       uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_salary_generation_active,where:status <> 'CANCELLED'"`
	Employee         *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
	SalaryID         uuid.UUID    `gorm:"column:salary_id;type:uuid;not null"`
	GenerationNumber string       `gorm:"column:generation_number;type:varchar(30);not null"`
	Version          int          `gorm:"column:version;not null;default:1"`

	SalaryMonth    int       `gorm:"column:salary_month;not null;uniqueIndex:uq_salary_generation_active,where:status <> 'CANCELLED';index:idx_salary_generation_period"`
	SalaryYear     int       `gorm:"column:salary_year;not null;uniqueIndex:uq_salary_generation_active,where:status <> 'CANCELLED';index:idx_salary_generation_period"`
	PayPeriodStart time.Time `gorm:"column:pay_period_start;type:date;not null"`
	PayPeriodEnd   time.Time `gorm:"column:pay_period_end;type:date;not null"`

	WorkingDays     int             `gorm:"column:working_days;not null"`
	PresentDays     decimal.Decimal `gorm:"column:present_days;type:numeric(5,1);not null"`
	AbsentDays      decimal.Decimal `gorm:"column:absent_days;type:numeric(5,1);not null"`
	PaidLeaveDays   int             `gorm:"column:paid_leave_days;not null"`
	UnpaidLeaveDays int             `gorm:"column:unpaid_leave_days;not null"`
	HolidayDays     int             `gorm:"column:holiday_days;not null"`
	WeekOffDays     int             `gorm:"column:week_off_days;not null"`
	OvertimeHours   decimal.Decimal `gorm:"column:overtime_hours;type:numeric(7,2);not null"`
	LateCount       int             `gorm:"column:late_count;not null"`
	EarlyExitCount  int             `gorm:"column:early_exit_count;not null"`

	BasicSalary     decimal.Decimal `gorm:"column:basic_salary;type:numeric(15,2);not null"`
	ProrationFactor decimal.Decimal `gorm:"column:proration_factor;type:numeric(9,6);not null"`
	TotalEarnings   decimal.Decimal `gorm:"column:total_earnings;type:numeric(15,2);not null"`
	TotalDeductions decimal.Decimal `gorm:"column:total_deductions;type:numeric(15,2);not null"`
	GrossSalary     decimal.Decimal `gorm:"column:gross_salary;type:numeric(15,2);not null"`
	NetSalary       decimal.Decimal `gorm:"column:net_salary;type:numeric(15,2);not null"`
	OvertimePay     decimal.Decimal `gorm:"column:overtime_pay;type:numeric(15,2);not null"`
	LateDeduction   decimal.Decimal `gorm:"column:late_deduction;type:numeric(15,2);not null"`
	AbsentDeduction decimal.Decimal `gorm:"column:absent_deduction;type:numeric(15,2);not null"`
	LeaveDeduction  decimal.Decimal `gorm:"column:leave_deduction;type:numeric(15,2);not null"`
	Bonus           decimal.Decimal `gorm:"column:bonus;type:numeric(15,2);not null"`

	Status             string     `gorm:"column:status;type:varchar(20);not null;default:DRAFT"`
	GeneratedBy        *uuid.UUID `gorm:"column:generated_by;type:uuid"`
	GeneratedAt        *time.Time `gorm:"column:generated_at"`
	ApprovedBy         *uuid.UUID `gorm:"column:approved_by;type:uuid"`
	ApprovedAt         *time.Time `gorm:"column:approved_at"`
	PaidBy             *uuid.UUID `gorm:"column:paid_by;type:uuid"`
	PaidAt             *time.Time `gorm:"column:paid_at"`
	PaymentMethod      *string    `gorm:"column:payment_method;type:varchar(30)"`
	PaymentReference   *string    `gorm:"column:payment_reference;type:varchar(100)"`
	CancelledBy        *uuid.UUID `gorm:"column:cancelled_by;type:uuid"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason *string    `gorm:"column:cancellation_reason;type:text"`
	PayslipURL         *string    `gorm:"column:payslip_url;type:text"`
	PayslipGeneratedAt *time.Time `gorm:"column:payslip_generated_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Details []SalaryGenerationDetail `gorm:"foreignKey:GenerationID;references:ID;constraint:OnDelete:CASCADE"`
}

func (SalaryGeneration) TableName() string {
	return "salary_generations"
}

// SalaryGenerationDetail is one component's contribution to a generation.
type SalaryGenerationDetail struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	GenerationID      uuid.UUID           `gorm:"column:generation_id;type:uuid;not null;index"`
	ComponentCode     string              `gorm:"column:component_code;type:varchar(30);not null"`
	ComponentName     string              `gorm:"column:component_name;type:varchar(100);not null"`
	ComponentType     string              `gorm:"column:component_type;type:varchar(20);not null"`
	CalculationType   string              `gorm:"column:calculation_type;type:varchar(20);not null"`
	Sequence          int                 `gorm:"column:sequence;not null"`
	BaseAmount        decimal.Decimal     `gorm:"column:base_amount;type:numeric(15,2);not null"`
	CalculatedAmount  decimal.Decimal     `gorm:"column:calculated_amount;type:numeric(15,2);not null"`
	IsProrated        bool                `gorm:"column:is_prorated;not null"`
	ProratedAmount    decimal.NullDecimal `gorm:"column:prorated_amount;type:numeric(15,2)"`
	Percentage        decimal.NullDecimal `gorm:"column:percentage;type:numeric(7,4)"`
	PercentageBase    *string             `gorm:"column:percentage_base;type:varchar(30)"`
	FormulaExpression *string             `gorm:"column:formula_expression;type:text"`
	AffectsGross      bool                `gorm:"column:affects_gross;not null"`
	AffectsNet        bool                `gorm:"column:affects_net;not null"`
	IsTaxable         bool                `gorm:"column:is_taxable;not null"`
	IsStatutory       bool                `gorm:"column:is_statutory;not null"`
	CreatedAt         time.Time           `gorm:"column:created_at"`
}

func (SalaryGenerationDetail) TableName() string {
	return "salary_generation_details"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
