package employeesalary

import (
	"context"
	"database/sql"
	"errors"
	"time"

	employeesalaryerrors "go-payroll/internal/employeesalary/errors"
	"go-payroll/internal/formula"
	"go-payroll/internal/salarycalc"
	"go-payroll/internal/salarycomponent"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var monthsPerYear = decimal.NewFromInt(12)

// ComponentSource loads the company's salary component definitions.
type ComponentSource interface {
	FindByIDs(ctx context.Context, companyID string, ids []string) ([]salarycomponent.SalaryComponent, error)
}

// FormulaSource picks the formula record that applies to a component for a
// designation and employment type; nil means the component's own expression.
type FormulaSource interface {
	FindApplicable(ctx context.Context, companyID, componentID, designationID, employmentTypeID string) (*formula.Formula, error)
}

//go:generate mockgen -source=employee_salary_service.go -destination=mock/employee_salary_service_mock.go -package=mock
type Service interface {
	CreateRevision(ctx context.Context, companyID, actorID string, req CreateSalaryRevisionRequest) (EmployeeSalaryResponse, error)
	UpdateDraft(ctx context.Context, companyID, id string, req UpdateSalaryDraftRequest) (EmployeeSalaryResponse, error)
	Activate(ctx context.Context, companyID, id, actorID string) (EmployeeSalaryResponse, error)
	Cancel(ctx context.Context, companyID, id string) (EmployeeSalaryResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeSalaryResponse, error)
	GetAll(ctx context.Context, companyID string, req EmployeeSalaryFilterRequest) ([]EmployeeSalaryResponse, error)
	GetHistory(ctx context.Context, companyID, employeeID string) ([]EmployeeSalaryResponse, error)
	GetActive(ctx context.Context, companyID, employeeID string, asOf time.Time) (EmployeeSalaryResponse, error)
	EffectiveStructure(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalaryMaster, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	components ComponentSource
	formulas   FormulaSource
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	components ComponentSource,
	formulas FormulaSource,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employeesalary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employeesalary.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		components: components,
		formulas:   formulas,
		logger:     l,
	}
}

type structureInput struct {
	designationID    string
	employmentTypeID string
	lines            []SalaryComponentInput
}

// buildStructure resolves the requested components into snapshot lines and
// fills in the header totals of salary.
func (s *service) buildStructure(ctx context.Context, salary *EmployeeSalaryMaster, in structureInput) error {
	companyID := salary.CompanyID.String()

	ids := make([]string, 0, len(in.lines))
	overrides := make(map[string]SalaryComponentInput, len(in.lines))
	for _, line := range in.lines {
		if _, dup := overrides[line.ComponentID]; dup {
			return employeesalaryerrors.ErrDuplicateComponent.WithDetails(map[string]any{"component_id": line.ComponentID})
		}
		overrides[line.ComponentID] = line
		ids = append(ids, line.ComponentID)
	}

	var comps []salarycomponent.SalaryComponent
	if len(ids) > 0 {
		found, err := s.components.FindByIDs(ctx, companyID, ids)
		if err != nil {
			return err
		}
		comps = found
	}

	byID := make(map[string]salarycomponent.SalaryComponent, len(comps))
	for _, c := range comps {
		if c.IsActive {
			byID[c.ID.String()] = c
		}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return employeesalaryerrors.ErrComponentNotFound.WithDetails(map[string]any{"component_ids": missing})
	}

	specs := make([]salarycalc.ComponentSpec, 0, len(ids))
	sources := make(map[string]salarycomponent.SalaryComponent, len(ids))
	formulaIDs := make(map[string]uuid.UUID)
	for _, id := range ids {
		comp := byID[id]
		spec := comp.ToSpec()
		override := overrides[id]

		if override.Amount != nil {
			if spec.ValueType != salarycalc.ValueFixed || override.Amount.IsNegative() {
				return employeesalaryerrors.ErrInvalidOverride.WithDetails(map[string]any{"component_code": comp.Code, "field": "amount"})
			}
			spec.FixedAmount = *override.Amount
		}
		if override.Percentage != nil {
			if spec.ValueType != salarycalc.ValuePercentage || override.Percentage.IsNegative() {
				return employeesalaryerrors.ErrInvalidOverride.WithDetails(map[string]any{"component_code": comp.Code, "field": "percentage"})
			}
			spec.PercentageValue = *override.Percentage
		}

		if spec.ValueType == salarycalc.ValueFormula {
			f, err := s.formulas.FindApplicable(ctx, companyID, id, in.designationID, in.employmentTypeID)
			if err != nil {
				return err
			}
			if f != nil {
				spec.FormulaExpression = f.Expression
				spec.Variables = []string(f.Variables)
				formulaIDs[comp.Code] = f.ID
			}
		}

		specs = append(specs, spec)
		sources[comp.Code] = comp
	}

	resolved, err := salarycalc.Resolve(specs, nil)
	if err != nil {
		return mapResolveError(err)
	}

	gross, deductions, ctc := decimal.Zero, decimal.Zero, decimal.Zero
	lines := make([]EmployeeSalaryComponent, 0, len(resolved))
	for _, ra := range resolved.Ordered() {
		spec := ra.Spec
		line := EmployeeSalaryComponent{
			ID:              uuid.New(),
			SalaryID:        salary.ID,
			ComponentID:     sources[spec.Code].ID,
			Code:            spec.Code,
			Name:            spec.Name,
			ComponentType:   string(spec.Kind),
			CalculationType: string(spec.ValueType),
			Amount:          ra.Amount,
			Sequence:        ra.Sequence + 1,
			DisplayOrder:    spec.Priority,
			IsProrated:      spec.Prorated,
			AffectsGross:    spec.AffectsGross,
			AffectsNet:      spec.AffectsNet,
			IsTaxable:       spec.Taxable,
			IsStatutory:     spec.Statutory,
		}
		switch spec.ValueType {
		case salarycalc.ValuePercentage:
			line.Percentage = decimal.NewNullDecimal(spec.PercentageValue)
			base := spec.PercentageBase
			line.PercentageBase = &base
		case salarycalc.ValueFormula:
			expression := spec.FormulaExpression
			line.FormulaExpression = &expression
			if fid, ok := formulaIDs[spec.Code]; ok {
				line.FormulaID = &fid
			}
		}
		lines = append(lines, line)

		if spec.Kind == salarycalc.KindEarning {
			ctc = ctc.Add(ra.Amount)
			if spec.AffectsGross {
				gross = gross.Add(ra.Amount)
			}
		} else if spec.AffectsNet {
			deductions = deductions.Add(ra.Amount)
		}
	}

	salary.Components = lines
	salary.GrossSalary = gross
	salary.TotalDeductions = deductions
	salary.NetSalary = gross.Sub(deductions)
	salary.CTCMonthly = ctc
	salary.CTCAnnual = ctc.Mul(monthsPerYear)
	return nil
}

func parseOptionalUUID(v *string) (*uuid.UUID, string, error) {
	if v == nil || *v == "" {
		return nil, "", nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, "", err
	}
	return &id, id.String(), nil
}

func (s *service) CreateRevision(ctx context.Context, companyID, actorID string, req CreateSalaryRevisionRequest) (EmployeeSalaryResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeSalaryResponse{}, apperror.ErrInvalidInput
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EmployeeSalaryResponse{}, apperror.InvalidField("Employee ID")
	}
	effectiveFrom, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return EmployeeSalaryResponse{}, apperror.InvalidField("Effective From")
	}
	designationID, designation, err := parseOptionalUUID(req.DesignationID)
	if err != nil {
		return EmployeeSalaryResponse{}, apperror.InvalidField("Designation ID")
	}
	employmentTypeID, employmentType, err := parseOptionalUUID(req.EmploymentTypeID)
	if err != nil {
		return EmployeeSalaryResponse{}, apperror.InvalidField("Employment Type ID")
	}

	salary := &EmployeeSalaryMaster{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       employeeUUID,
		Status:           StatusDraft,
		EffectiveFrom:    effectiveFrom,
		DesignationID:    designationID,
		EmploymentTypeID: employmentTypeID,
		Remarks:          req.Remarks,
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		salary.CreatedBy = &actor
	}

	if err := s.buildStructure(ctx, salary, structureInput{
		designationID:    designation,
		employmentTypeID: employmentType,
		lines:            req.Components,
	}); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	if !exists {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrEmployeeNotFound
	}

	current, err := qtx.FindCurrentActive(ctx, companyID, req.EmployeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeSalaryResponse{}, err
	}
	if current != nil {
		if !effectiveFrom.After(current.EffectiveFrom) {
			return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidEffectiveRange
		}
		salary.PreviousSalaryID = &current.ID
	}

	version, err := qtx.NextVersion(ctx, companyID, req.EmployeeID)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	salary.Version = version

	if err := qtx.Create(ctx, salary); err != nil {
		s.logger.Error("create salary revision failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	s.logger.Info("salary revision created",
		zap.String("salary_id", salary.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("version", salary.Version),
		zap.Int("components", len(salary.Components)),
	)
	return mapToResponse(*salary), nil
}

func (s *service) UpdateDraft(ctx context.Context, companyID, id string, req UpdateSalaryDraftRequest) (EmployeeSalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	salary, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}
	if salary.Status != StatusDraft {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidStatusTransition.
			WithDetails(map[string]any{"status": salary.Status, "action": "update"})
	}

	if req.EffectiveFrom != nil {
		effectiveFrom, err := time.Parse(dateLayout, *req.EffectiveFrom)
		if err != nil {
			return EmployeeSalaryResponse{}, apperror.InvalidField("Effective From")
		}
		salary.EffectiveFrom = effectiveFrom
	}
	if req.DesignationID != nil {
		if salary.DesignationID, _, err = parseOptionalUUID(req.DesignationID); err != nil {
			return EmployeeSalaryResponse{}, apperror.InvalidField("Designation ID")
		}
	}
	if req.EmploymentTypeID != nil {
		if salary.EmploymentTypeID, _, err = parseOptionalUUID(req.EmploymentTypeID); err != nil {
			return EmployeeSalaryResponse{}, apperror.InvalidField("Employment Type ID")
		}
	}
	if req.Remarks != nil {
		salary.Remarks = req.Remarks
	}

	in := structureInput{lines: req.Components}
	if salary.DesignationID != nil {
		in.designationID = salary.DesignationID.String()
	}
	if salary.EmploymentTypeID != nil {
		in.employmentTypeID = salary.EmploymentTypeID.String()
	}
	if err := s.buildStructure(ctx, salary, in); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	if err := qtx.ReplaceComponents(ctx, salary); err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeSalaryResponse{}, err
	}
	return mapToResponse(*salary), nil
}

// Activate puts a draft in force and closes the revision it replaces the
// day before the draft's effective date.
func (s *service) Activate(ctx context.Context, companyID, id, actorID string) (EmployeeSalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	salary, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}
	if salary.Status != StatusDraft {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidStatusTransition.
			WithDetails(map[string]any{"status": salary.Status, "action": "activate"})
	}
	if len(salary.Components) == 0 {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrEmptyStructure
	}

	now := time.Now().UTC()

	current, err := qtx.FindCurrentActive(ctx, companyID, salary.EmployeeID.String())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return EmployeeSalaryResponse{}, err
	}
	if current != nil {
		if !salary.EffectiveFrom.After(current.EffectiveFrom) {
			return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidEffectiveRange.
				WithDetails(map[string]any{"active_effective_from": current.EffectiveFrom.Format(dateLayout)})
		}
		closedOn := salary.EffectiveFrom.AddDate(0, 0, -1)
		current.Status = StatusSuperseded
		current.EffectiveTo = &closedOn
		current.UpdatedAt = now
		if err := qtx.UpdateStatus(ctx, current); err != nil {
			return EmployeeSalaryResponse{}, mapRepositoryError(err)
		}
		salary.PreviousSalaryID = &current.ID
	}

	salary.Status = StatusActive
	salary.ActivatedAt = &now
	salary.UpdatedAt = now
	if actor, err := uuid.Parse(actorID); err == nil {
		salary.ActivatedBy = &actor
	}
	if err := qtx.UpdateStatus(ctx, salary); err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeSalaryResponse{}, err
	}

	s.logger.Info("salary revision activated",
		zap.String("salary_id", salary.ID.String()),
		zap.String("employee_id", salary.EmployeeID.String()),
		zap.Bool("superseded_previous", current != nil),
	)
	return mapToResponse(*salary), nil
}

func (s *service) Cancel(ctx context.Context, companyID, id string) (EmployeeSalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	salary, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}
	if salary.Status != StatusDraft {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidStatusTransition.
			WithDetails(map[string]any{"status": salary.Status, "action": "cancel"})
	}

	salary.Status = StatusCancelled
	salary.UpdatedAt = time.Now().UTC()
	if err := qtx.UpdateStatus(ctx, salary); err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeSalaryResponse{}, err
	}
	return mapToResponse(*salary), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeSalaryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeSalaryResponse{}, employeesalaryerrors.ErrInvalidSalaryID
	}
	salary, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeSalaryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*salary), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req EmployeeSalaryFilterRequest) ([]EmployeeSalaryResponse, error) {
	salaries, err := s.repo.FindAllByCompany(ctx, companyID, Filter{
		EmployeeID: req.EmployeeID,
		Status:     req.Status,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(salaries), nil
}

func (s *service) GetHistory(ctx context.Context, companyID, employeeID string) ([]EmployeeSalaryResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, apperror.InvalidField("Employee ID")
	}
	salaries, err := s.repo.FindHistory(ctx, companyID, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(salaries), nil
}

func (s *service) GetActive(ctx context.Context, companyID, employeeID string, asOf time.Time) (EmployeeSalaryResponse, error) {
	salary, err := s.EffectiveStructure(ctx, companyID, employeeID, asOf)
	if err != nil {
		return EmployeeSalaryResponse{}, err
	}
	return mapToResponse(*salary), nil
}

// EffectiveStructure returns the revision in force for employeeID on asOf.
func (s *service) EffectiveStructure(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalaryMaster, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, apperror.InvalidField("Employee ID")
	}
	salary, err := s.repo.FindEffective(ctx, companyID, employeeID, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeesalaryerrors.ErrNoActiveSalary.WithDetails(map[string]any{
				"employee_id": employeeID,
				"as_of":       asOf.Format(dateLayout),
			})
		}
		return nil, err
	}
	return salary, nil
}

func mapToResponse(salary EmployeeSalaryMaster) EmployeeSalaryResponse {
	resp := EmployeeSalaryResponse{
		ID:              salary.ID.String(),
		EmployeeID:      salary.EmployeeID.String(),
		Version:         salary.Version,
		Status:          salary.Status,
		EffectiveFrom:   salary.EffectiveFrom.Format(dateLayout),
		GrossSalary:     salary.GrossSalary.StringFixed(2),
		TotalDeductions: salary.TotalDeductions.StringFixed(2),
		NetSalary:       salary.NetSalary.StringFixed(2),
		CTCMonthly:      salary.CTCMonthly.StringFixed(2),
		CTCAnnual:       salary.CTCAnnual.StringFixed(2),
		Remarks:         salary.Remarks,
	}
	if salary.Employee != nil {
		resp.EmployeeName = salary.Employee.FullName
	}
	if salary.EffectiveTo != nil {
		v := salary.EffectiveTo.Format(dateLayout)
		resp.EffectiveTo = &v
	}
	if salary.PreviousSalaryID != nil {
		v := salary.PreviousSalaryID.String()
		resp.PreviousSalaryID = &v
	}

	for _, c := range salary.Components {
		line := SalaryComponentLineResponse{
			ComponentID:       c.ComponentID.String(),
			Code:              c.Code,
			Name:              c.Name,
			ComponentType:     c.ComponentType,
			CalculationType:   c.CalculationType,
			Amount:            c.Amount.StringFixed(2),
			PercentageBase:    c.PercentageBase,
			FormulaExpression: c.FormulaExpression,
			Sequence:          c.Sequence,
			IsProrated:        c.IsProrated,
			AffectsGross:      c.AffectsGross,
			AffectsNet:        c.AffectsNet,
			IsTaxable:         c.IsTaxable,
			IsStatutory:       c.IsStatutory,
		}
		if c.FormulaID != nil {
			v := c.FormulaID.String()
			line.FormulaID = &v
		}
		if c.Percentage.Valid {
			v := c.Percentage.Decimal.String()
			line.Percentage = &v
		}
		resp.Components = append(resp.Components, line)
	}
	return resp
}

func mapToListResponse(salaries []EmployeeSalaryMaster) []EmployeeSalaryResponse {
	res := make([]EmployeeSalaryResponse, len(salaries))
	for i, salary := range salaries {
		res[i] = mapToResponse(salary)
	}
	return res
}
