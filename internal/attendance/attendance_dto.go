package attendance

type RecordAttendanceRequest struct {
	EmployeeID      string  `json:"employee_id" binding:"required,uuid"`
	AttendanceDate  string  `json:"attendance_date" binding:"required"`
	Status          string  `json:"status" binding:"required,oneof=PRESENT ABSENT PAID_LEAVE UNPAID_LEAVE HOLIDAY WEEK_OFF HALF_DAY"`
	ClockIn         *string `json:"clock_in"`
	ClockOut        *string `json:"clock_out"`
	IsLate          bool    `json:"is_late"`
	IsEarlyOut      bool    `json:"is_early_out"`
	OvertimeMinutes int     `json:"overtime_minutes" binding:"gte=0"`
	Source          string  `json:"source" binding:"omitempty,oneof=MANUAL BIOMETRIC IMPORT"`
	ExternalRef     *string `json:"external_ref"`
	Notes           *string `json:"notes"`
}

type AttendanceFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type SummaryRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	From       string `form:"from" binding:"required"`
	To         string `form:"to" binding:"required"`
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	AttendanceDate  string  `json:"attendance_date"`
	Status          string  `json:"status"`
	ClockIn         *string `json:"clock_in,omitempty"`
	ClockOut        *string `json:"clock_out,omitempty"`
	IsLate          bool    `json:"is_late"`
	IsEarlyOut      bool    `json:"is_early_out"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	Source          string  `json:"source"`
	ExternalRef     *string `json:"external_ref,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type SummaryResponse struct {
	EmployeeID      string `json:"employee_id"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	WorkingDays     int    `json:"working_days"`
	PresentDays     string `json:"present_days"`
	AbsentDays      string `json:"absent_days"`
	PaidLeaveDays   int    `json:"paid_leave_days"`
	UnpaidLeaveDays int    `json:"unpaid_leave_days"`
	HolidayDays     int    `json:"holiday_days"`
	WeekOffDays     int    `json:"week_off_days"`
	OvertimeHours   string `json:"overtime_hours"`
	LateCount       int    `json:"late_count"`
	EarlyExitCount  int    `json:"early_exit_count"`
}
