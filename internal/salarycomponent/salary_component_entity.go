package salarycomponent

import (
	"time"

	"go-payroll/internal/salarycalc"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalaryComponent struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID          uuid.UUID           `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_salary_component_code,where:deleted_at IS NULL"`
	Code               string              `gorm:"column:code;type:varchar(30);not null;uniqueIndex:uq_salary_component_code,where:deleted_at IS NULL"`
	Name               string              `gorm:"column:name;type:varchar(100);not null"`
	Description        *string             `gorm:"column:description;type:text"`
	ComponentType      string              `gorm:"column:component_type;type:varchar(20);not null"`
	CalculationType    string              `gorm:"column:calculation_type;type:varchar(20);not null"`
	DefaultAmount      decimal.Decimal     `gorm:"column:default_amount;type:numeric(15,2);not null;default:0"`
	Percentage         decimal.NullDecimal `gorm:"column:percentage;type:numeric(7,4)"`
	PercentageBase     *string             `gorm:"column:percentage_base;type:varchar(30)"`
	FormulaExpression  *string             `gorm:"column:formula_expression;type:text"`
	AffectsGrossSalary bool                `gorm:"column:affects_gross_salary;not null;default:true"`
	AffectsNetSalary   bool                `gorm:"column:affects_net_salary;not null;default:true"`
	IsTaxable          bool                `gorm:"column:is_taxable;not null;default:true"`
	IsStatutory        bool                `gorm:"column:is_statutory;not null;default:false"`
	IsProrated         bool                `gorm:"column:is_prorated;not null;default:true"`
	DisplayOrder       int                 `gorm:"column:display_order;not null;default:0"`
	IsActive           bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time           `gorm:"column:created_at"`
	UpdatedAt          time.Time           `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt      `gorm:"column:deleted_at;index"`
}

func (SalaryComponent) TableName() string {
	return "salary_components"
}

// ToSpec builds the resolver input for this component with its company
// defaults.
func (c SalaryComponent) ToSpec() salarycalc.ComponentSpec {
	spec := salarycalc.ComponentSpec{
		Code:         c.Code,
		Name:         c.Name,
		Kind:         salarycalc.Kind(c.ComponentType),
		ValueType:    salarycalc.ValueType(c.CalculationType),
		FixedAmount:  c.DefaultAmount,
		Priority:     c.DisplayOrder,
		Prorated:     c.IsProrated,
		AffectsGross: c.AffectsGrossSalary,
		AffectsNet:   c.AffectsNetSalary,
		Taxable:      c.IsTaxable,
		Statutory:    c.IsStatutory,
	}
	if c.Percentage.Valid {
		spec.PercentageValue = c.Percentage.Decimal
	}
	if c.PercentageBase != nil {
		spec.PercentageBase = *c.PercentageBase
	}
	if c.FormulaExpression != nil {
		spec.FormulaExpression = *c.FormulaExpression
	}
	return spec
}
