package employeesalary

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=employee_salary_repo.go -destination=mock/employee_salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, salary *EmployeeSalaryMaster) error
	ReplaceComponents(ctx context.Context, salary *EmployeeSalaryMaster) error
	UpdateStatus(ctx context.Context, salary *EmployeeSalaryMaster) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*EmployeeSalaryMaster, error)
	FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]EmployeeSalaryMaster, error)
	FindHistory(ctx context.Context, companyID, employeeID string) ([]EmployeeSalaryMaster, error)
	FindCurrentActive(ctx context.Context, companyID, employeeID string) (*EmployeeSalaryMaster, error)
	FindEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalaryMaster, error)
	NextVersion(ctx context.Context, companyID, employeeID string) (int, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
}

type Filter struct {
	EmployeeID string
	Status     string
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true})
		db.Statement.ConnPool = r.tx
	}
	return db
}

func orderedComponents(db *gorm.DB) *gorm.DB {
	return db.Order("employee_salary_components.sequence ASC")
}

func (r *repository) Create(ctx context.Context, salary *EmployeeSalaryMaster) error {
	return r.conn(ctx).Omit("Employee").Create(salary).Error
}

// ReplaceComponents swaps the component lines of a draft and rewrites its
// header totals.
func (r *repository) ReplaceComponents(ctx context.Context, salary *EmployeeSalaryMaster) error {
	db := r.conn(ctx)
	if err := db.Where("salary_id = ?", salary.ID).Delete(&EmployeeSalaryComponent{}).Error; err != nil {
		return err
	}
	if len(salary.Components) > 0 {
		if err := db.Create(&salary.Components).Error; err != nil {
			return err
		}
	}
	return db.Model(&EmployeeSalaryMaster{}).
		Where("id = ?", salary.ID).
		Scopes(tenant.Scope(salary.CompanyID.String())).
		Select("effective_from", "designation_id", "employment_type_id", "gross_salary",
			"total_deductions", "net_salary", "ctc_monthly", "ctc_annual", "remarks", "updated_at").
		Updates(salary).Error
}

func (r *repository) UpdateStatus(ctx context.Context, salary *EmployeeSalaryMaster) error {
	res := r.conn(ctx).
		Model(&EmployeeSalaryMaster{}).
		Where("id = ?", salary.ID).
		Scopes(tenant.Scope(salary.CompanyID.String())).
		Select("status", "effective_to", "previous_salary_id", "activated_by", "activated_at", "updated_at").
		Updates(salary)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*EmployeeSalaryMaster, error) {
	var salary EmployeeSalaryMaster
	err := r.conn(ctx).
		Preload("Components", orderedComponents).
		Preload("Employee").
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&salary).Error
	if err != nil {
		return nil, err
	}
	return &salary, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]EmployeeSalaryMaster, error) {
	db := r.conn(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID))
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var salaries []EmployeeSalaryMaster
	err := db.Order("effective_from DESC, version DESC").Find(&salaries).Error
	return salaries, err
}

func (r *repository) FindHistory(ctx context.Context, companyID, employeeID string) ([]EmployeeSalaryMaster, error) {
	var salaries []EmployeeSalaryMaster
	err := r.conn(ctx).
		Preload("Components", orderedComponents).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("version DESC").
		Find(&salaries).Error
	return salaries, err
}

// FindCurrentActive locks the employee's ACTIVE revision for the rest of the
// transaction.
func (r *repository) FindCurrentActive(ctx context.Context, companyID, employeeID string) (*EmployeeSalaryMaster, error) {
	var salary EmployeeSalaryMaster
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusActive).
		First(&salary).Error
	if err != nil {
		return nil, err
	}
	return &salary, nil
}

// FindEffective returns the revision in force on asOf, whether it is still
// ACTIVE or has since been superseded.
func (r *repository) FindEffective(ctx context.Context, companyID, employeeID string, asOf time.Time) (*EmployeeSalaryMaster, error) {
	day := asOf.Format(dateLayout)

	var salary EmployeeSalaryMaster
	err := r.conn(ctx).
		Preload("Components", orderedComponents).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusActive, StatusSuperseded}).
		Where("effective_from <= ?", day).
		Where("effective_to IS NULL OR effective_to >= ?", day).
		Order("effective_from DESC").
		First(&salary).Error
	if err != nil {
		return nil, err
	}
	return &salary, nil
}

func (r *repository) NextVersion(ctx context.Context, companyID, employeeID string) (int, error) {
	var current int
	err := r.conn(ctx).
		Model(&EmployeeSalaryMaster{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&current).Error
	return current + 1, err
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Scopes(tenant.Scope(companyID)).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
