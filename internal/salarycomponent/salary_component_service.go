package salarycomponent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go-payroll/internal/formula/expr"
	"go-payroll/internal/salarycalc"
	salarycomponenterrors "go-payroll/internal/salarycomponent/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ActiveComponentsKeyPrefix = "salary_components:active:"
	activeComponentsTTL       = time.Hour
)

func GetActiveComponentsKey(companyID string) string {
	return ActiveComponentsKeyPrefix + companyID
}

//go:generate mockgen -source=salary_component_service.go -destination=mock/salary_component_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateSalaryComponentRequest) (SalaryComponentResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateSalaryComponentRequest) (SalaryComponentResponse, error)
	GetAll(ctx context.Context, companyID string, req SalaryComponentFilterRequest) ([]SalaryComponentResponse, error)
	GetActive(ctx context.Context, companyID string) ([]SalaryComponentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (SalaryComponentResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("salarycomponent.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salarycomponent.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// validateCalculation enforces the per-calculation-type requirements on c.
func validateCalculation(c *SalaryComponent) error {
	switch salarycalc.ValueType(c.CalculationType) {
	case salarycalc.ValuePercentage:
		if !c.Percentage.Valid || c.PercentageBase == nil || strings.TrimSpace(*c.PercentageBase) == "" {
			return salarycomponenterrors.ErrPercentageRequired
		}
		base := strings.ToUpper(strings.TrimSpace(*c.PercentageBase))
		if base == c.Code {
			return salarycomponenterrors.ErrSelfReference
		}
		c.PercentageBase = &base
		c.FormulaExpression = nil
	case salarycalc.ValueFormula:
		if c.FormulaExpression == nil {
			return salarycomponenterrors.ErrFormulaRequired
		}
		if _, err := expr.Compile(*c.FormulaExpression); err != nil {
			return salarycomponenterrors.ErrFormulaRequired.
				WithDetails(map[string]string{"reason": err.Error()}).
				WithCause(err)
		}
		c.Percentage = decimal.NullDecimal{}
		c.PercentageBase = nil
	default:
		if c.DefaultAmount.IsNegative() {
			return apperror.InvalidField("Default Amount")
		}
		c.Percentage = decimal.NullDecimal{}
		c.PercentageBase = nil
		c.FormulaExpression = nil
	}
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (s *service) invalidate(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetActiveComponentsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate salary component cache",
			zap.String("company_id", companyID),
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateSalaryComponentRequest) (SalaryComponentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SalaryComponentResponse{}, apperror.ErrInvalidInput
	}

	earning := req.ComponentType == string(salarycalc.KindEarning)
	c := &SalaryComponent{
		ID:                 uuid.New(),
		CompanyID:          companyUUID,
		Code:               strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		ComponentType:      req.ComponentType,
		CalculationType:    req.CalculationType,
		DefaultAmount:      req.DefaultAmount,
		PercentageBase:     req.PercentageBase,
		FormulaExpression:  req.FormulaExpression,
		AffectsGrossSalary: boolOr(req.AffectsGrossSalary, earning),
		AffectsNetSalary:   boolOr(req.AffectsNetSalary, true),
		IsTaxable:          boolOr(req.IsTaxable, earning),
		IsStatutory:        req.IsStatutory,
		IsProrated:         boolOr(req.IsProrated, earning),
		DisplayOrder:       req.DisplayOrder,
		IsActive:           true,
	}
	if req.Percentage != nil {
		c.Percentage = decimal.NewNullDecimal(*req.Percentage)
	}
	if err := validateCalculation(c); err != nil {
		return SalaryComponentResponse{}, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("create salary component failed", zap.String("code", c.Code), zap.Error(err))
		return SalaryComponentResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateSalaryComponentRequest) (SalaryComponentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryComponentResponse{}, salarycomponenterrors.ErrInvalidComponentID
	}

	c, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SalaryComponentResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.CalculationType != nil {
		c.CalculationType = *req.CalculationType
	}
	if req.DefaultAmount != nil {
		c.DefaultAmount = *req.DefaultAmount
	}
	if req.Percentage != nil {
		c.Percentage = decimal.NewNullDecimal(*req.Percentage)
	}
	if req.PercentageBase != nil {
		c.PercentageBase = req.PercentageBase
	}
	if req.FormulaExpression != nil {
		c.FormulaExpression = req.FormulaExpression
	}
	c.AffectsGrossSalary = boolOr(req.AffectsGrossSalary, c.AffectsGrossSalary)
	c.AffectsNetSalary = boolOr(req.AffectsNetSalary, c.AffectsNetSalary)
	c.IsTaxable = boolOr(req.IsTaxable, c.IsTaxable)
	c.IsStatutory = boolOr(req.IsStatutory, c.IsStatutory)
	c.IsProrated = boolOr(req.IsProrated, c.IsProrated)
	c.IsActive = boolOr(req.IsActive, c.IsActive)
	if req.DisplayOrder != nil {
		c.DisplayOrder = *req.DisplayOrder
	}

	if err := validateCalculation(c); err != nil {
		return SalaryComponentResponse{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return SalaryComponentResponse{}, mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)

	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req SalaryComponentFilterRequest) ([]SalaryComponentResponse, error) {
	comps, err := s.repo.FindAllByCompany(ctx, companyID, Filter{
		ComponentType:   req.ComponentType,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}
	return mapToListResponse(comps), nil
}

// GetActive serves the active component list used by structure forms from
// Redis, collapsing concurrent misses into one query.
func (s *service) GetActive(ctx context.Context, companyID string) ([]SalaryComponentResponse, error) {
	cacheKey := GetActiveComponentsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []SalaryComponentResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		comps, err := s.repo.FindAllByCompany(ctx, companyID, Filter{})
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		resp := mapToListResponse(comps)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, payload, activeComponentsTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]SalaryComponentResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (SalaryComponentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryComponentResponse{}, salarycomponenterrors.ErrInvalidComponentID
	}
	c, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return SalaryComponentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*c), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return salarycomponenterrors.ErrInvalidComponentID
	}
	if err := s.repo.Deactivate(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	s.invalidate(ctx, companyID)
	return nil
}

func mapToListResponse(comps []SalaryComponent) []SalaryComponentResponse {
	res := make([]SalaryComponentResponse, len(comps))
	for i, c := range comps {
		res[i] = mapToResponse(c)
	}
	return res
}

func mapToResponse(c SalaryComponent) SalaryComponentResponse {
	resp := SalaryComponentResponse{
		ID:                 c.ID.String(),
		Code:               c.Code,
		Name:               c.Name,
		Description:        c.Description,
		ComponentType:      c.ComponentType,
		CalculationType:    c.CalculationType,
		DefaultAmount:      c.DefaultAmount.StringFixed(2),
		PercentageBase:     c.PercentageBase,
		FormulaExpression:  c.FormulaExpression,
		AffectsGrossSalary: c.AffectsGrossSalary,
		AffectsNetSalary:   c.AffectsNetSalary,
		IsTaxable:          c.IsTaxable,
		IsStatutory:        c.IsStatutory,
		IsProrated:         c.IsProrated,
		DisplayOrder:       c.DisplayOrder,
		IsActive:           c.IsActive,
	}
	if c.Percentage.Valid {
		v := c.Percentage.Decimal.String()
		resp.Percentage = &v
	}
	return resp
}
