package employeesalary

import "github.com/shopspring/decimal"

type SalaryComponentInput struct {
	ComponentID string           `json:"component_id" binding:"required,uuid"`
	Amount      *decimal.Decimal `json:"amount"`
	Percentage  *decimal.Decimal `json:"percentage"`
}

type CreateSalaryRevisionRequest struct {
	EmployeeID       string                 `json:"employee_id" binding:"required,uuid"`
	EffectiveFrom    string                 `json:"effective_from" binding:"required,datetime=2006-01-02"`
	DesignationID    *string                `json:"designation_id" binding:"omitempty,uuid"`
	EmploymentTypeID *string                `json:"employment_type_id" binding:"omitempty,uuid"`
	Remarks          *string                `json:"remarks"`
	Components       []SalaryComponentInput `json:"components" binding:"omitempty,dive"`
}

type UpdateSalaryDraftRequest struct {
	EffectiveFrom    *string                `json:"effective_from" binding:"omitempty,datetime=2006-01-02"`
	DesignationID    *string                `json:"designation_id" binding:"omitempty,uuid"`
	EmploymentTypeID *string                `json:"employment_type_id" binding:"omitempty,uuid"`
	Remarks          *string                `json:"remarks"`
	Components       []SalaryComponentInput `json:"components" binding:"required,min=1,dive"`
}

type EmployeeSalaryFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT ACTIVE SUPERSEDED CANCELLED"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type ActiveSalaryRequest struct {
	AsOf string `form:"as_of" binding:"omitempty,datetime=2006-01-02"`
}

type SalaryComponentLineResponse struct {
	ComponentID       string  `json:"component_id"`
	FormulaID         *string `json:"formula_id,omitempty"`
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	ComponentType     string  `json:"component_type"`
	CalculationType   string  `json:"calculation_type"`
	Amount            string  `json:"amount"`
	Percentage        *string `json:"percentage,omitempty"`
	PercentageBase    *string `json:"percentage_base,omitempty"`
	FormulaExpression *string `json:"formula_expression,omitempty"`
	Sequence          int     `json:"sequence"`
	IsProrated        bool    `json:"is_prorated"`
	AffectsGross      bool    `json:"affects_gross"`
	AffectsNet        bool    `json:"affects_net"`
	IsTaxable         bool    `json:"is_taxable"`
	IsStatutory       bool    `json:"is_statutory"`
}

type EmployeeSalaryResponse struct {
	ID               string                        `json:"id"`
	EmployeeID       string                        `json:"employee_id"`
	EmployeeName     string                        `json:"employee_name,omitempty"`
	Version          int                           `json:"version"`
	Status           string                        `json:"status"`
	EffectiveFrom    string                        `json:"effective_from"`
	EffectiveTo      *string                       `json:"effective_to,omitempty"`
	GrossSalary      string                        `json:"gross_salary"`
	TotalDeductions  string                        `json:"total_deductions"`
	NetSalary        string                        `json:"net_salary"`
	CTCMonthly       string                        `json:"ctc_monthly"`
	CTCAnnual        string                        `json:"ctc_annual"`
	PreviousSalaryID *string                       `json:"previous_salary_id,omitempty"`
	Remarks          *string                       `json:"remarks,omitempty"`
	Components       []SalaryComponentLineResponse `json:"components,omitempty"`
}
