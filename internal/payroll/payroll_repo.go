package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

// ErrStatusChanged is returned by UpdateStatus when the row left fromStatus
// before the update landed.
var ErrStatusChanged = errors.New("salary generation status changed concurrently")

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, generation *SalaryGeneration) error
	UpdateStatus(ctx context.Context, generation *SalaryGeneration, fromStatus string) error
	UpdatePayslip(ctx context.Context, generation *SalaryGeneration) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalaryGeneration, error)
	FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]SalaryGeneration, error)
	HasActiveGeneration(ctx context.Context, companyID, employeeID string, month, year int) (bool, error)
	CountCancelled(ctx context.Context, companyID, employeeID string, month, year int) (int64, error)
	ListPayableEmployees(ctx context.Context, companyID string, asOf time.Time) ([]string, error)
	FindPolicy(ctx context.Context, companyID string) (*PayrollPolicy, error)
	UpsertPolicy(ctx context.Context, policy *PayrollPolicy) error
}

type Filter struct {
	EmployeeID       string
	Month            int
	Year             int
	Status           string
	ExcludeCancelled bool
	WithDetails      bool
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

func orderedDetails(db *gorm.DB) *gorm.DB {
	return db.Order("salary_generation_details.sequence ASC")
}

// Create inserts the generation together with its details.
func (r *repository) Create(ctx context.Context, generation *SalaryGeneration) error {
	return r.conn(ctx).Omit("Employee").Create(generation).Error
}

// UpdateStatus writes the status and its audit columns, provided the row is
// still in fromStatus. Amounts and details are never touched after generation.
func (r *repository) UpdateStatus(ctx context.Context, generation *SalaryGeneration, fromStatus string) error {
	res := r.conn(ctx).
		Model(&SalaryGeneration{}).
		Scopes(tenant.Scope(generation.CompanyID.String())).
		Where("id = ? AND status = ?", generation.ID, fromStatus).
		Updates(map[string]any{
			"status":              generation.Status,
			"approved_by":         generation.ApprovedBy,
			"approved_at":         generation.ApprovedAt,
			"paid_by":             generation.PaidBy,
			"paid_at":             generation.PaidAt,
			"payment_method":      generation.PaymentMethod,
			"payment_reference":   generation.PaymentReference,
			"cancelled_by":        generation.CancelledBy,
			"cancelled_at":        generation.CancelledAt,
			"cancellation_reason": generation.CancellationReason,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *repository) UpdatePayslip(ctx context.Context, generation *SalaryGeneration) error {
	res := r.conn(ctx).
		Model(&SalaryGeneration{}).
		Scopes(tenant.Scope(generation.CompanyID.String())).
		Where("id = ?", generation.ID).
		Updates(map[string]any{
			"payslip_url":          generation.PayslipURL,
			"payslip_generated_at": generation.PayslipGeneratedAt,
			"updated_at":           time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*SalaryGeneration, error) {
	var generation SalaryGeneration
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Details", orderedDetails).
		Preload("Employee").
		Where("id = ?", id).
		First(&generation).Error
	if err != nil {
		return nil, err
	}
	return &generation, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]SalaryGeneration, error) {
	var generations []SalaryGeneration

	query := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Employee")
	if filter.WithDetails {
		query = query.Preload("Details", orderedDetails)
	}
	if filter.EmployeeID != "" {
		query = query.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Month > 0 {
		query = query.Where("salary_month = ?", filter.Month)
	}
	if filter.Year > 0 {
		query = query.Where("salary_year = ?", filter.Year)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ExcludeCancelled {
		query = query.Where("status <> ?", StatusCancelled)
	}

	err := query.
		Order("salary_year DESC, salary_month DESC, generation_number ASC").
		Find(&generations).Error
	return generations, err
}

func (r *repository) HasActiveGeneration(ctx context.Context, companyID, employeeID string, month, year int) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&SalaryGeneration{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND salary_month = ? AND salary_year = ? AND status <> ?",
			employeeID, month, year, StatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountCancelled(ctx context.Context, companyID, employeeID string, month, year int) (int64, error) {
	var count int64
	err := r.conn(ctx).
		Model(&SalaryGeneration{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND salary_month = ? AND salary_year = ? AND status = ?",
			employeeID, month, year, StatusCancelled).
		Count(&count).Error
	return count, err
}

// ListPayableEmployees returns the employees with a salary revision in force
// on asOf.
func (r *repository) ListPayableEmployees(ctx context.Context, companyID string, asOf time.Time) ([]string, error) {
	var ids []string
	day := asOf.Format(dateLayout)
	err := r.conn(ctx).
		Table("employee_salary_masters").
		Scopes(tenant.Scope(companyID)).
		Where("status IN ?", []string{"ACTIVE", "SUPERSEDED"}).
		Where("effective_from <= ?", day).
		Where("effective_to IS NULL OR effective_to >= ?", day).
		Distinct().
		Order("employee_id").
		Pluck("employee_id", &ids).Error
	return ids, err
}

// FindPolicy returns nil without error when the company has no stored policy.
func (r *repository) FindPolicy(ctx context.Context, companyID string) (*PayrollPolicy, error) {
	var policy PayrollPolicy
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *repository) UpsertPolicy(ctx context.Context, policy *PayrollPolicy) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"basic_component_code",
				"absence_deduction_enabled",
				"unpaid_leave_deduction_enabled",
				"absence_day_rate",
				"late_grace_count",
				"lates_per_deduction",
				"late_deduction_days",
				"count_early_exit_as_late",
				"standard_hours_per_day",
				"overtime_multiplier",
				"overtime_hourly_rate",
				"updated_by",
				"updated_at",
			}),
		}).
		Create(policy).Error
}
