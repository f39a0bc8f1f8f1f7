package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Attendance struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID      uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	AttendanceDate  time.Time      `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	ClockIn         *time.Time     `gorm:"column:clock_in;type:timestamptz"`
	ClockOut        *time.Time     `gorm:"column:clock_out;type:timestamptz"`
	IsLate          bool           `gorm:"column:is_late;not null;default:false"`
	IsEarlyOut      bool           `gorm:"column:is_early_out;not null;default:false"`
	OvertimeMinutes int            `gorm:"column:overtime_minutes;not null;default:0"`
	Source          string         `gorm:"column:source;type:varchar(30);not null;default:MANUAL"`
	ExternalRef     *string        `gorm:"column:external_ref;type:varchar(100)"`
	Notes           *string        `gorm:"column:notes;type:text"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Employee        *EmployeeRef   `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// ToDay projects a stored record onto the aggregator input.
func (a Attendance) ToDay() Day {
	return Day{
		Date:            a.AttendanceDate,
		Status:          a.Status,
		IsLate:          a.IsLate,
		IsEarlyOut:      a.IsEarlyOut,
		OvertimeMinutes: a.OvertimeMinutes,
	}
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}
