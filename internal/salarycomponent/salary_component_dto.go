package salarycomponent

import "github.com/shopspring/decimal"

type CreateSalaryComponentRequest struct {
	Code               string           `json:"code" binding:"required,max=30"`
	Name               string           `json:"name" binding:"required,max=100"`
	Description        *string          `json:"description"`
	ComponentType      string           `json:"component_type" binding:"required,oneof=EARNING DEDUCTION"`
	CalculationType    string           `json:"calculation_type" binding:"required,oneof=FIXED PERCENTAGE FORMULA"`
	DefaultAmount      decimal.Decimal  `json:"default_amount"`
	Percentage         *decimal.Decimal `json:"percentage"`
	PercentageBase     *string          `json:"percentage_base"`
	FormulaExpression  *string          `json:"formula_expression"`
	AffectsGrossSalary *bool            `json:"affects_gross_salary"`
	AffectsNetSalary   *bool            `json:"affects_net_salary"`
	IsTaxable          *bool            `json:"is_taxable"`
	IsStatutory        bool             `json:"is_statutory"`
	IsProrated         *bool            `json:"is_prorated"`
	DisplayOrder       int              `json:"display_order" binding:"gte=0"`
}

type UpdateSalaryComponentRequest struct {
	Name               *string          `json:"name" binding:"omitempty,max=100"`
	Description        *string          `json:"description"`
	CalculationType    *string          `json:"calculation_type" binding:"omitempty,oneof=FIXED PERCENTAGE FORMULA"`
	DefaultAmount      *decimal.Decimal `json:"default_amount"`
	Percentage         *decimal.Decimal `json:"percentage"`
	PercentageBase     *string          `json:"percentage_base"`
	FormulaExpression  *string          `json:"formula_expression"`
	AffectsGrossSalary *bool            `json:"affects_gross_salary"`
	AffectsNetSalary   *bool            `json:"affects_net_salary"`
	IsTaxable          *bool            `json:"is_taxable"`
	IsStatutory        *bool            `json:"is_statutory"`
	IsProrated         *bool            `json:"is_prorated"`
	DisplayOrder       *int             `json:"display_order" binding:"omitempty,gte=0"`
	IsActive           *bool            `json:"is_active"`
}

type SalaryComponentFilterRequest struct {
	ComponentType   string `form:"component_type" binding:"omitempty,oneof=EARNING DEDUCTION"`
	IncludeInactive bool   `form:"include_inactive"`
}

type SalaryComponentResponse struct {
	ID                 string  `json:"id"`
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	ComponentType      string  `json:"component_type"`
	CalculationType    string  `json:"calculation_type"`
	DefaultAmount      string  `json:"default_amount"`
	Percentage         *string `json:"percentage,omitempty"`
	PercentageBase     *string `json:"percentage_base,omitempty"`
	FormulaExpression  *string `json:"formula_expression,omitempty"`
	AffectsGrossSalary bool    `json:"affects_gross_salary"`
	AffectsNetSalary   bool    `json:"affects_net_salary"`
	IsTaxable          bool    `json:"is_taxable"`
	IsStatutory        bool    `json:"is_statutory"`
	IsProrated         bool    `json:"is_prorated"`
	DisplayOrder       int     `json:"display_order"`
	IsActive           bool    `json:"is_active"`
}
