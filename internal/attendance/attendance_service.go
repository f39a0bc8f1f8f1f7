package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-payroll/internal/attendance/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, companyID string, req RecordAttendanceRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, companyID string, req AttendanceFilterRequest) ([]AttendanceResponse, error)
	Days(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Day, error)
	Summarize(ctx context.Context, companyID string, req SummaryRequest) (SummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, companyID string, req RecordAttendanceRequest) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, apperror.ErrInvalidInput
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	date, err := time.Parse(dateLayout, req.AttendanceDate)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	if !IsValidStatus(req.Status) {
		return AttendanceResponse{}, apperror.InvalidField("Status")
	}
	clockIn, err := parseOptionalTime(req.ClockIn)
	if err != nil {
		return AttendanceResponse{}, err
	}
	clockOut, err := parseOptionalTime(req.ClockOut)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !belongs {
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotInCompany
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &Attendance{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		EmployeeID:      employeeUUID,
		AttendanceDate:  DateOf(date),
		Status:          req.Status,
		ClockIn:         clockIn,
		ClockOut:        clockOut,
		IsLate:          req.IsLate,
		IsEarlyOut:      req.IsEarlyOut,
		OvertimeMinutes: req.OvertimeMinutes,
		Source:          source,
		ExternalRef:     req.ExternalRef,
		Notes:           req.Notes,
	}

	if err := qtx.Upsert(ctx, row); err != nil {
		s.logger.Error("record attendance persist failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("attendance_date", req.AttendanceDate),
			zap.Error(err),
		)
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req AttendanceFilterRequest) ([]AttendanceResponse, error) {
	filter := Filter{EmployeeID: req.EmployeeID}
	if req.From != "" {
		from, err := time.Parse(dateLayout, req.From)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(dateLayout, req.To)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

// Days returns the stored records of one employee in [from, to] as
// aggregator input, in date order.
func (s *service) Days(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]Day, error) {
	rows, err := s.repo.FindByEmployeeAndRange(ctx, companyID, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	days := make([]Day, len(rows))
	for i, r := range rows {
		days[i] = r.ToDay()
	}
	return days, nil
}

func (s *service) Summarize(ctx context.Context, companyID string, req SummaryRequest) (SummaryResponse, error) {
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return SummaryResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return SummaryResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return SummaryResponse{}, attendanceerrors.ErrInvalidDateRange
	}

	days, err := s.Days(ctx, companyID, req.EmployeeID, from, to)
	if err != nil {
		return SummaryResponse{}, err
	}

	summary, err := Aggregate(from, to, days)
	if err != nil {
		var rangeErr *IncompleteRangeError
		if errors.As(err, &rangeErr) {
			return SummaryResponse{}, attendanceerrors.ErrIncompleteAttendance.WithDetails(map[string]any{
				"employee_id": req.EmployeeID,
				"missing":     joinDates(rangeErr.Missing),
				"reason":      rangeErr.Error(),
			})
		}
		return SummaryResponse{}, apperror.Wrap(err, apperror.CodeUnprocessable, err.Error(), 422)
	}

	return SummaryResponse{
		EmployeeID:      req.EmployeeID,
		PeriodStart:     summary.PeriodStart.Format(dateLayout),
		PeriodEnd:       summary.PeriodEnd.Format(dateLayout),
		WorkingDays:     summary.WorkingDays,
		PresentDays:     summary.PresentDays.StringFixed(1),
		AbsentDays:      summary.AbsentDays.StringFixed(1),
		PaidLeaveDays:   summary.PaidLeaveDays,
		UnpaidLeaveDays: summary.UnpaidLeaveDays,
		HolidayDays:     summary.HolidayDays,
		WeekOffDays:     summary.WeekOffDays,
		OvertimeHours:   summary.OvertimeHours.StringFixed(2),
		LateCount:       summary.LateCount,
		EarlyExitCount:  summary.EarlyExitCount,
	}, nil
}

func parseOptionalTime(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTimeFormat
	}
	return &t, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:              a.ID.String(),
		CompanyID:       a.CompanyID.String(),
		EmployeeID:      a.EmployeeID.String(),
		AttendanceDate:  a.AttendanceDate.Format(dateLayout),
		Status:          a.Status,
		IsLate:          a.IsLate,
		IsEarlyOut:      a.IsEarlyOut,
		OvertimeMinutes: a.OvertimeMinutes,
		Source:          a.Source,
		ExternalRef:     a.ExternalRef,
		Notes:           a.Notes,
	}
	if a.Employee != nil {
		resp.EmployeeName = a.Employee.FullName
	}
	if a.ClockIn != nil {
		v := a.ClockIn.Format(time.RFC3339)
		resp.ClockIn = &v
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	return resp
}
