package employeesalary

import (
	"time"

	"go-payroll/internal/salarycalc"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft      = "DRAFT"
	StatusActive     = "ACTIVE"
	StatusSuperseded = "SUPERSEDED"
	StatusCancelled  = "CANCELLED"
)

// EmployeeSalaryMaster is one revision of an employee's salary structure.
// Revisions form a chain through PreviousSalaryID; at most one is ACTIVE.
type EmployeeSalaryMaster struct {
	ID               uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID                 `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID       uuid.UUID                 `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_employee_salary_active,where:status = 'ACTIVE';uniqueIndex:uq_employee_salary_effective,where:status <> 'CANCELLED'"`
	Version          int                       `gorm:"column:version;not null;default:1"`
	Status           string                    `gorm:"column:status;type:varchar(20);not null;default:DRAFT"`
	EffectiveFrom    time.Time                 `gorm:"column:effective_from;type:date;not null;uniqueIndex:uq_employee_salary_effective,where:status <> 'CANCELLED'"`
	EffectiveTo      *time.Time                `gorm:"column:effective_to;type:date"`
	DesignationID    *uuid.UUID                `gorm:"column:designation_id;type:uuid"`
	EmploymentTypeID *uuid.UUID                `gorm:"column:employment_type_id;type:uuid"`
	GrossSalary      decimal.Decimal           `gorm:"column:gross_salary;type:numeric(15,2);not null;default:0"`
	TotalDeductions  decimal.Decimal           `gorm:"column:total_deductions;type:numeric(15,2);not null;default:0"`
	NetSalary        decimal.Decimal           `gorm:"column:net_salary;type:numeric(15,2);not null;default:0"`
	CTCMonthly       decimal.Decimal           `gorm:"column:ctc_monthly;type:numeric(15,2);not null;default:0"`
	CTCAnnual        decimal.Decimal           `gorm:"column:ctc_annual;type:numeric(15,2);not null;default:0"`
	PreviousSalaryID *uuid.UUID                `gorm:"column:previous_salary_id;type:uuid"`
	Remarks          *string                   `gorm:"column:remarks;type:text"`
	CreatedBy        *uuid.UUID                `gorm:"column:created_by;type:uuid"`
	ActivatedBy      *uuid.UUID                `gorm:"column:activated_by;type:uuid"`
	ActivatedAt      *time.Time                `gorm:"column:activated_at"`
	CreatedAt        time.Time                 `gorm:"column:created_at"`
	UpdatedAt        time.Time                 `gorm:"column:updated_at"`
	Components       []EmployeeSalaryComponent `gorm:"foreignKey:SalaryID;references:ID"`
	Employee         *EmployeeRef              `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (EmployeeSalaryMaster) TableName() string {
	return "employee_salary_masters"
}

// EmployeeSalaryComponent snapshots a salary component as it was when the
// revision was built, so later edits to the component do not leak into it.
type EmployeeSalaryComponent struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SalaryID          uuid.UUID           `gorm:"column:salary_id;type:uuid;not null;index"`
	ComponentID       uuid.UUID           `gorm:"column:component_id;type:uuid;not null"`
	FormulaID         *uuid.UUID          `gorm:"column:formula_id;type:uuid"`
	Code              string              `gorm:"column:code;type:varchar(30);not null"`
	Name              string              `gorm:"column:name;type:varchar(100);not null"`
	ComponentType     string              `gorm:"column:component_type;type:varchar(20);not null"`
	CalculationType   string              `gorm:"column:calculation_type;type:varchar(20);not null"`
	Amount            decimal.Decimal     `gorm:"column:amount;type:numeric(15,2);not null;default:0"`
	Percentage        decimal.NullDecimal `gorm:"column:percentage;type:numeric(7,4)"`
	PercentageBase    *string             `gorm:"column:percentage_base;type:varchar(30)"`
	FormulaExpression *string             `gorm:"column:formula_expression;type:text"`
	Sequence          int                 `gorm:"column:sequence;not null"`
	DisplayOrder      int                 `gorm:"column:display_order;not null;default:0"`
	IsProrated        bool                `gorm:"column:is_prorated;not null"`
	AffectsGross      bool                `gorm:"column:affects_gross;not null"`
	AffectsNet        bool                `gorm:"column:affects_net;not null"`
	IsTaxable         bool                `gorm:"column:is_taxable;not null"`
	IsStatutory       bool                `gorm:"column:is_statutory;not null"`
	CreatedAt         time.Time           `gorm:"column:created_at"`
}

func (EmployeeSalaryComponent) TableName() string {
	return "employee_salary_components"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// Specs rebuilds the resolver input from the snapshot. Fixed lines carry
// their stored amount; percentage and formula lines are evaluated again.
func (m EmployeeSalaryMaster) Specs() []salarycalc.ComponentSpec {
	specs := make([]salarycalc.ComponentSpec, 0, len(m.Components))
	for _, c := range m.Components {
		spec := salarycalc.ComponentSpec{
			Code:         c.Code,
			Name:         c.Name,
			Kind:         salarycalc.Kind(c.ComponentType),
			ValueType:    salarycalc.ValueType(c.CalculationType),
			Priority:     c.DisplayOrder,
			Prorated:     c.IsProrated,
			AffectsGross: c.AffectsGross,
			AffectsNet:   c.AffectsNet,
			Taxable:      c.IsTaxable,
			Statutory:    c.IsStatutory,
		}
		switch spec.ValueType {
		case salarycalc.ValuePercentage:
			spec.PercentageValue = c.Percentage.Decimal
			if c.PercentageBase != nil {
				spec.PercentageBase = *c.PercentageBase
			}
		case salarycalc.ValueFormula:
			if c.FormulaExpression != nil {
				spec.FormulaExpression = *c.FormulaExpression
			}
		default:
			spec.FixedAmount = c.Amount
		}
		specs = append(specs, spec)
	}
	return specs
}

// CoversDate reports whether the revision was in force on day.
func (m EmployeeSalaryMaster) CoversDate(day time.Time) bool {
	if day.Before(m.EffectiveFrom) {
		return false
	}
	return m.EffectiveTo == nil || !day.After(*m.EffectiveTo)
}
