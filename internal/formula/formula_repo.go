package formula

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=formula_repo.go -destination=mock/formula_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, f *Formula) error
	Update(ctx context.Context, f *Formula) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Formula, error)
	FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]Formula, error)
	FindActiveByComponent(ctx context.Context, companyID, componentID string) ([]Formula, error)
	Delete(ctx context.Context, companyID, id string) error
	ComponentExists(ctx context.Context, companyID, componentID string) (bool, error)
}

type Filter struct {
	TargetComponentID string
	ActiveOnly        bool
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Formula) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *repository) Update(ctx context.Context, f *Formula) error {
	return r.db.WithContext(ctx).
		Model(&Formula{}).
		Where("id = ?", f.ID).
		Scopes(tenant.Scope(f.CompanyID.String())).
		Select("name", "description", "expression", "parsed_tree", "variables",
			"target_component_id", "designation_ids", "employment_type_ids",
			"priority", "is_active", "updated_at").
		Updates(f).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Formula, error) {
	var f Formula
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]Formula, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if filter.TargetComponentID != "" {
		db = db.Where("target_component_id = ?", filter.TargetComponentID)
	}
	if filter.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}

	var formulas []Formula
	err := db.Order("priority ASC, code ASC").Find(&formulas).Error
	return formulas, err
}

// FindActiveByComponent returns active formulas targeting componentID and the
// untargeted ones, which may apply to any component.
func (r *repository) FindActiveByComponent(ctx context.Context, companyID, componentID string) ([]Formula, error) {
	var formulas []Formula
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		Where("target_component_id = ? OR target_component_id IS NULL", componentID).
		Order("priority ASC, code ASC").
		Find(&formulas).Error
	return formulas, err
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&Formula{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ComponentExists(ctx context.Context, companyID, componentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("salary_components").
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND deleted_at IS NULL", componentID).
		Count(&count).Error
	return count > 0, err
}
