package formula

import (
	"context"
	"encoding/json"
	"strings"

	formulaerrors "go-payroll/internal/formula/errors"
	"go-payroll/internal/formula/expr"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

//go:generate mockgen -source=formula_service.go -destination=mock/formula_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateFormulaRequest) (FormulaResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateFormulaRequest) (FormulaResponse, error)
	GetAll(ctx context.Context, companyID string, req FormulaFilterRequest) ([]FormulaResponse, error)
	GetByID(ctx context.Context, companyID, id string) (FormulaResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	Evaluate(ctx context.Context, companyID string, req EvaluateFormulaRequest) (EvaluateFormulaResponse, error)
	FindApplicable(ctx context.Context, companyID, componentID, designationID, employmentTypeID string) (*Formula, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("formula.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("formula.service")
	}
	return &service{repo: repo, logger: l}
}

// compile validates expression against its declared variables and returns
// the variable list to store and the parsed tree. An empty declaration
// declares every identifier of the expression.
func compile(expression string, variables []string) ([]string, datatypes.JSON, error) {
	program, err := expr.Compile(expression)
	if err != nil {
		return nil, nil, mapExpressionError(err, formulaerrors.ErrInvalidExpression)
	}

	declared := cleanList(variables)
	if len(declared) == 0 {
		declared = program.Identifiers()
	} else if err := expr.Validate(expression, declared); err != nil {
		return nil, nil, mapExpressionError(err, formulaerrors.ErrInvalidExpression)
	}

	tree, err := json.Marshal(program)
	if err != nil {
		return nil, nil, err
	}
	return declared, datatypes.JSON(tree), nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (s *service) checkTarget(ctx context.Context, companyID string, target *string) (*uuid.UUID, error) {
	if target == nil || *target == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*target)
	if err != nil {
		return nil, apperror.InvalidField("Target Component ID")
	}
	exists, err := s.repo.ComponentExists(ctx, companyID, id.String())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, formulaerrors.ErrTargetComponentNotFound
	}
	return &id, nil
}

func (s *service) Create(ctx context.Context, companyID string, req CreateFormulaRequest) (FormulaResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return FormulaResponse{}, apperror.ErrInvalidInput
	}

	variables, tree, err := compile(req.Expression, req.Variables)
	if err != nil {
		return FormulaResponse{}, err
	}

	target, err := s.checkTarget(ctx, companyID, req.TargetComponentID)
	if err != nil {
		return FormulaResponse{}, err
	}

	f := &Formula{
		ID:                uuid.New(),
		CompanyID:         companyUUID,
		Code:              strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:              strings.TrimSpace(req.Name),
		Description:       req.Description,
		Expression:        req.Expression,
		ParsedTree:        tree,
		Variables:         pq.StringArray(variables),
		TargetComponentID: target,
		DesignationIDs:    pq.StringArray(cleanList(req.DesignationIDs)),
		EmploymentTypeIDs: pq.StringArray(cleanList(req.EmploymentTypeIDs)),
		Priority:          req.Priority,
		IsActive:          true,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.logger.Error("create formula failed", zap.String("code", f.Code), zap.Error(err))
		return FormulaResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*f), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateFormulaRequest) (FormulaResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return FormulaResponse{}, formulaerrors.ErrInvalidFormulaID
	}

	f, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return FormulaResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		f.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		f.Description = req.Description
	}
	if req.Expression != nil || req.Variables != nil {
		expression := f.Expression
		if req.Expression != nil {
			expression = *req.Expression
		}
		variables := []string(f.Variables)
		if req.Variables != nil {
			variables = req.Variables
		} else if req.Expression != nil {
			variables = nil
		}
		declared, tree, err := compile(expression, variables)
		if err != nil {
			return FormulaResponse{}, err
		}
		f.Expression = expression
		f.Variables = pq.StringArray(declared)
		f.ParsedTree = tree
	}
	if req.TargetComponentID != nil {
		target, err := s.checkTarget(ctx, companyID, req.TargetComponentID)
		if err != nil {
			return FormulaResponse{}, err
		}
		f.TargetComponentID = target
	}
	if req.DesignationIDs != nil {
		f.DesignationIDs = pq.StringArray(cleanList(req.DesignationIDs))
	}
	if req.EmploymentTypeIDs != nil {
		f.EmploymentTypeIDs = pq.StringArray(cleanList(req.EmploymentTypeIDs))
	}
	if req.Priority != nil {
		f.Priority = *req.Priority
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return FormulaResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*f), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req FormulaFilterRequest) ([]FormulaResponse, error) {
	formulas, err := s.repo.FindAllByCompany(ctx, companyID, Filter{
		TargetComponentID: req.TargetComponentID,
		ActiveOnly:        req.ActiveOnly,
	})
	if err != nil {
		return nil, err
	}
	res := make([]FormulaResponse, len(formulas))
	for i, f := range formulas {
		res[i] = mapToResponse(f)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (FormulaResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return FormulaResponse{}, formulaerrors.ErrInvalidFormulaID
	}
	f, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return FormulaResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*f), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return formulaerrors.ErrInvalidFormulaID
	}
	return mapRepositoryError(s.repo.Delete(ctx, companyID, id))
}

// Evaluate previews a stored formula or an ad-hoc expression against the
// given bindings.
func (s *service) Evaluate(ctx context.Context, companyID string, req EvaluateFormulaRequest) (EvaluateFormulaResponse, error) {
	expression := req.Expression
	if req.FormulaID != "" {
		f, err := s.repo.FindByIDAndCompany(ctx, companyID, req.FormulaID)
		if err != nil {
			return EvaluateFormulaResponse{}, mapRepositoryError(err)
		}
		expression = f.Expression
	}
	if strings.TrimSpace(expression) == "" {
		return EvaluateFormulaResponse{}, apperror.RequiredField("Expression")
	}

	program, err := expr.Compile(expression)
	if err != nil {
		return EvaluateFormulaResponse{}, mapExpressionError(err, formulaerrors.ErrInvalidExpression)
	}

	bindings := make(map[string]decimal.Decimal, len(req.Bindings))
	for name, raw := range req.Bindings {
		v, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return EvaluateFormulaResponse{}, formulaerrors.ErrInvalidVariableValue.WithDetails(map[string]string{"variable": name})
		}
		bindings[name] = v
	}

	result, err := program.Eval(bindings)
	if err != nil {
		return EvaluateFormulaResponse{}, mapExpressionError(err, formulaerrors.ErrEvaluationFailed)
	}

	return EvaluateFormulaResponse{
		Expression:  expression,
		Identifiers: program.Identifiers(),
		Result:      result.String(),
	}, nil
}

func (s *service) FindApplicable(ctx context.Context, companyID, componentID, designationID, employmentTypeID string) (*Formula, error) {
	formulas, err := s.repo.FindActiveByComponent(ctx, companyID, componentID)
	if err != nil {
		return nil, err
	}
	f, ok := SelectApplicable(formulas, componentID, designationID, employmentTypeID)
	if !ok {
		return nil, nil
	}
	return f, nil
}

func mapToResponse(f Formula) FormulaResponse {
	resp := FormulaResponse{
		ID:                f.ID.String(),
		Code:              f.Code,
		Name:              f.Name,
		Description:       f.Description,
		Expression:        f.Expression,
		Variables:         []string(f.Variables),
		DesignationIDs:    []string(f.DesignationIDs),
		EmploymentTypeIDs: []string(f.EmploymentTypeIDs),
		Priority:          f.Priority,
		IsActive:          f.IsActive,
	}
	if len(f.ParsedTree) > 0 {
		resp.ParsedTree = json.RawMessage(f.ParsedTree)
	}
	if f.TargetComponentID != nil {
		v := f.TargetComponentID.String()
		resp.TargetComponentID = &v
	}
	return resp
}
