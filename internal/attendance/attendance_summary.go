package attendance

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPresent     = "PRESENT"
	StatusAbsent      = "ABSENT"
	StatusPaidLeave   = "PAID_LEAVE"
	StatusUnpaidLeave = "UNPAID_LEAVE"
	StatusHoliday     = "HOLIDAY"
	StatusWeekOff     = "WEEK_OFF"
	StatusHalfDay     = "HALF_DAY"
)

const dateLayout = "2006-01-02"

var (
	ErrIncompleteRange = errors.New("attendance range is incomplete")
	ErrInvalidPeriod   = errors.New("attendance period start must be before or equal period end")
	ErrInvalidStatus   = errors.New("invalid attendance status")
)

var half = decimal.NewFromFloat(0.5)

// Day is one employee-day as handed over by the attendance collaborator.
type Day struct {
	Date            time.Time
	Status          string
	IsLate          bool
	IsEarlyOut      bool
	OvertimeMinutes int
}

// Summary is the pay-period reduction of Day records.
type Summary struct {
	PeriodStart     time.Time
	PeriodEnd       time.Time
	WorkingDays     int
	PresentDays     decimal.Decimal
	AbsentDays      decimal.Decimal
	PaidLeaveDays   int
	UnpaidLeaveDays int
	HolidayDays     int
	WeekOffDays     int
	OvertimeHours   decimal.Decimal
	LateCount       int
	EarlyExitCount  int
}

// CalendarDays is the number of days in the period.
func (s Summary) CalendarDays() int {
	return s.WorkingDays + s.HolidayDays + s.WeekOffDays
}

// IncompleteRangeError lists every date that keeps the records from covering
// the period exactly once.
type IncompleteRangeError struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Missing     []time.Time
	Duplicates  []time.Time
	OutOfRange  []time.Time
}

func (e *IncompleteRangeError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d day(s) missing (%s)", len(e.Missing), joinDates(e.Missing)))
	}
	if len(e.Duplicates) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate records for %s", joinDates(e.Duplicates)))
	}
	if len(e.OutOfRange) > 0 {
		parts = append(parts, fmt.Sprintf("records outside period for %s", joinDates(e.OutOfRange)))
	}
	return fmt.Sprintf("attendance for %s..%s is incomplete: %s",
		e.PeriodStart.Format(dateLayout), e.PeriodEnd.Format(dateLayout), strings.Join(parts, "; "))
}

func (e *IncompleteRangeError) Unwrap() error {
	return ErrIncompleteRange
}

// Aggregate reduces days into a Summary for [periodStart, periodEnd]. Every
// calendar day of the period must be covered by exactly one record; a gap is
// never read as presence.
func Aggregate(periodStart, periodEnd time.Time, days []Day) (Summary, error) {
	start, end := DateOf(periodStart), DateOf(periodEnd)
	if start.After(end) {
		return Summary{}, ErrInvalidPeriod
	}

	summary := Summary{
		PeriodStart:   start,
		PeriodEnd:     end,
		PresentDays:   decimal.Zero,
		AbsentDays:    decimal.Zero,
		OvertimeHours: decimal.Zero,
	}

	rangeErr := &IncompleteRangeError{PeriodStart: start, PeriodEnd: end}
	seen := make(map[time.Time]bool, len(days))
	overtimeMinutes := 0

	for _, day := range days {
		date := DateOf(day.Date)
		if date.Before(start) || date.After(end) {
			rangeErr.OutOfRange = append(rangeErr.OutOfRange, date)
			continue
		}
		if seen[date] {
			rangeErr.Duplicates = append(rangeErr.Duplicates, date)
			continue
		}
		seen[date] = true

		switch day.Status {
		case StatusPresent:
			summary.PresentDays = summary.PresentDays.Add(decimal.NewFromInt(1))
		case StatusHalfDay:
			summary.PresentDays = summary.PresentDays.Add(half)
			summary.AbsentDays = summary.AbsentDays.Add(half)
		case StatusAbsent:
			summary.AbsentDays = summary.AbsentDays.Add(decimal.NewFromInt(1))
		case StatusPaidLeave:
			summary.PaidLeaveDays++
		case StatusUnpaidLeave:
			summary.UnpaidLeaveDays++
		case StatusHoliday:
			summary.HolidayDays++
		case StatusWeekOff:
			summary.WeekOffDays++
		default:
			return Summary{}, fmt.Errorf("%w %q on %s", ErrInvalidStatus, day.Status, date.Format(dateLayout))
		}
		if day.Status != StatusHoliday && day.Status != StatusWeekOff {
			summary.WorkingDays++
		}

		if day.IsLate {
			summary.LateCount++
		}
		if day.IsEarlyOut {
			summary.EarlyExitCount++
		}
		if day.OvertimeMinutes > 0 {
			overtimeMinutes += day.OvertimeMinutes
		}
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !seen[d] {
			rangeErr.Missing = append(rangeErr.Missing, d)
		}
	}

	if len(rangeErr.Missing) > 0 || len(rangeErr.Duplicates) > 0 || len(rangeErr.OutOfRange) > 0 {
		sortDates(rangeErr.Duplicates)
		sortDates(rangeErr.OutOfRange)
		return Summary{}, rangeErr
	}

	summary.OvertimeHours = decimal.NewFromInt(int64(overtimeMinutes)).DivRound(decimal.NewFromInt(60), 2)
	return summary, nil
}

// DateOf truncates t to its calendar date in UTC, keeping t's own Y-M-D.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsValidStatus reports whether status is one of the daily statuses.
func IsValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusPaidLeave, StatusUnpaidLeave,
		StatusHoliday, StatusWeekOff, StatusHalfDay:
		return true
	}
	return false
}

func joinDates(dates []time.Time) string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return strings.Join(out, ", ")
}

func sortDates(dates []time.Time) {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
}
