package salarycomponent

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_component_repo.go -destination=mock/salary_component_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, c *SalaryComponent) error
	Update(ctx context.Context, c *SalaryComponent) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalaryComponent, error)
	FindByIDs(ctx context.Context, companyID string, ids []string) ([]SalaryComponent, error)
	FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]SalaryComponent, error)
	Deactivate(ctx context.Context, companyID, id string) error
}

type Filter struct {
	ComponentType   string
	IncludeInactive bool
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *SalaryComponent) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) Update(ctx context.Context, c *SalaryComponent) error {
	return r.db.WithContext(ctx).
		Model(&SalaryComponent{}).
		Where("id = ?", c.ID).
		Scopes(tenant.Scope(c.CompanyID.String())).
		Select("name", "description", "default_amount", "percentage", "percentage_base",
			"formula_expression", "affects_gross_salary", "affects_net_salary", "is_taxable",
			"is_statutory", "is_prorated", "display_order", "is_active", "updated_at").
		Updates(c).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalaryComponent, error) {
	var c SalaryComponent
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindByIDs(ctx context.Context, companyID string, ids []string) ([]SalaryComponent, error) {
	var comps []SalaryComponent
	if len(ids) == 0 {
		return comps, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Order("display_order ASC, code ASC").
		Find(&comps).Error
	return comps, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]SalaryComponent, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.ComponentType != "" {
		db = db.Where("component_type = ?", filter.ComponentType)
	}
	if !filter.IncludeInactive {
		db = db.Where("is_active = ?", true)
	}

	var comps []SalaryComponent
	err := db.Order("display_order ASC, code ASC").Find(&comps).Error
	return comps, err
}

// Deactivate retires a component; structures already built keep their
// snapshot of it.
func (r *repository) Deactivate(ctx context.Context, companyID, id string) error {
	res := r.db.WithContext(ctx).
		Model(&SalaryComponent{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
