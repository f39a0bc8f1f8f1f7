package formula

type CreateFormulaRequest struct {
	Code              string   `json:"code" binding:"required,max=50"`
	Name              string   `json:"name" binding:"required,max=100"`
	Description       *string  `json:"description"`
	Expression        string   `json:"expression" binding:"required"`
	Variables         []string `json:"variables"`
	TargetComponentID *string  `json:"target_component_id" binding:"omitempty,uuid"`
	DesignationIDs    []string `json:"designation_ids"`
	EmploymentTypeIDs []string `json:"employment_type_ids"`
	Priority          int      `json:"priority" binding:"gte=0"`
}

type UpdateFormulaRequest struct {
	Name              *string  `json:"name" binding:"omitempty,max=100"`
	Description       *string  `json:"description"`
	Expression        *string  `json:"expression"`
	Variables         []string `json:"variables"`
	TargetComponentID *string  `json:"target_component_id" binding:"omitempty,uuid"`
	DesignationIDs    []string `json:"designation_ids"`
	EmploymentTypeIDs []string `json:"employment_type_ids"`
	Priority          *int     `json:"priority" binding:"omitempty,gte=0"`
	IsActive          *bool    `json:"is_active"`
}

type FormulaFilterRequest struct {
	TargetComponentID string `form:"target_component_id" binding:"omitempty,uuid"`
	ActiveOnly        bool   `form:"active_only"`
}

type EvaluateFormulaRequest struct {
	FormulaID  string            `json:"formula_id" binding:"omitempty,uuid"`
	Expression string            `json:"expression"`
	Bindings   map[string]string `json:"bindings"`
}

type EvaluateFormulaResponse struct {
	Expression  string   `json:"expression"`
	Identifiers []string `json:"identifiers"`
	Result      string   `json:"result"`
}

type FormulaResponse struct {
	ID                string   `json:"id"`
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	Description       *string  `json:"description,omitempty"`
	Expression        string   `json:"expression"`
	ParsedTree        any      `json:"parsed_tree,omitempty"`
	Variables         []string `json:"variables"`
	TargetComponentID *string  `json:"target_component_id,omitempty"`
	DesignationIDs    []string `json:"designation_ids"`
	EmploymentTypeIDs []string `json:"employment_type_ids"`
	Priority          int      `json:"priority"`
	IsActive          bool     `json:"is_active"`
}
