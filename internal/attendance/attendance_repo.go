package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, a *Attendance) error
	FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Attendance, error)
	FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]Attendance, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
}

type Filter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db = db.Session(&gorm.Session{NewDB: true})
		db.Statement.ConnPool = r.tx
	}
	return db
}

// Upsert keeps one record per employee and date; a re-import replaces it.
func (r *repository) Upsert(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "attendance_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "clock_in", "clock_out", "is_late", "is_early_out",
				"overtime_minutes", "source", "external_ref", "notes", "updated_at",
			}),
		}).
		Create(a).Error
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", from.Format(dateLayout), to.Format(dateLayout)).
		Order("attendance_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter Filter) ([]Attendance, error) {
	db := r.conn(ctx).
		Preload("Employee").
		Scopes(tenant.Scope(companyID))
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.From != nil {
		db = db.Where("attendance_date >= ?", filter.From.Format(dateLayout))
	}
	if filter.To != nil {
		db = db.Where("attendance_date <= ?", filter.To.Format(dateLayout))
	}

	var rows []Attendance
	err := db.Order("attendance_date DESC").Find(&rows).Error
	return rows, err
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
