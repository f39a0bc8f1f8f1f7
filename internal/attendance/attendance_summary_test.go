package attendance_test

import (
	"errors"
	"testing"
	"time"

	"go-payroll/internal/attendance"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fullMonth(start time.Time, n int, status func(i int) string) []attendance.Day {
	days := make([]attendance.Day, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, attendance.Day{Date: start.AddDate(0, 0, i), Status: status(i)})
	}
	return days
}

func TestAggregate(t *testing.T) {
	start := date(2024, time.April, 1)
	end := date(2024, time.April, 30)

	t.Run("all present", func(t *testing.T) {
		days := fullMonth(start, 30, func(int) string { return attendance.StatusPresent })

		s, err := attendance.Aggregate(start, end, days)
		require.NoError(t, err)
		assert.Equal(t, 30, s.WorkingDays)
		assert.True(t, s.PresentDays.Equal(decimal.NewFromInt(30)))
		assert.True(t, s.AbsentDays.IsZero())
		assert.Equal(t, 30, s.CalendarDays())
	})

	t.Run("mixed statuses", func(t *testing.T) {
		days := fullMonth(start, 30, func(i int) string {
			switch {
			case i%7 == 5 || i%7 == 6:
				return attendance.StatusWeekOff
			case i == 0:
				return attendance.StatusHoliday
			case i == 1:
				return attendance.StatusHalfDay
			case i == 2:
				return attendance.StatusAbsent
			case i == 3:
				return attendance.StatusPaidLeave
			case i == 4:
				return attendance.StatusUnpaidLeave
			}
			return attendance.StatusPresent
		})
		days[7].IsLate = true
		days[8].IsLate = true
		days[9].IsEarlyOut = true
		days[10].OvertimeMinutes = 90
		days[11].OvertimeMinutes = 45

		s, err := attendance.Aggregate(start, end, days)
		require.NoError(t, err)

		// April 2024: i%7 in {5,6} gives 8 week-off days.
		assert.Equal(t, 8, s.WeekOffDays)
		assert.Equal(t, 1, s.HolidayDays)
		assert.Equal(t, 21, s.WorkingDays)
		assert.Equal(t, 1, s.PaidLeaveDays)
		assert.Equal(t, 1, s.UnpaidLeaveDays)
		assert.Equal(t, "17.5", s.PresentDays.String())
		assert.Equal(t, "1.5", s.AbsentDays.String())
		assert.Equal(t, 2, s.LateCount)
		assert.Equal(t, 1, s.EarlyExitCount)
		assert.Equal(t, "2.25", s.OvertimeHours.StringFixed(2))
		assert.Equal(t, 30, s.CalendarDays())
	})

	t.Run("half day counts half present and half absent", func(t *testing.T) {
		days := []attendance.Day{{Date: start, Status: attendance.StatusHalfDay}}

		s, err := attendance.Aggregate(start, start, days)
		require.NoError(t, err)
		assert.Equal(t, "0.5", s.PresentDays.String())
		assert.Equal(t, "0.5", s.AbsentDays.String())
		assert.Equal(t, 1, s.WorkingDays)
	})

	t.Run("missing days are never treated as present", func(t *testing.T) {
		days := fullMonth(start, 28, func(int) string { return attendance.StatusPresent })

		_, err := attendance.Aggregate(start, end, days)
		require.Error(t, err)
		assert.True(t, errors.Is(err, attendance.ErrIncompleteRange))

		var rangeErr *attendance.IncompleteRangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, []time.Time{date(2024, time.April, 29), date(2024, time.April, 30)}, rangeErr.Missing)
		assert.Contains(t, err.Error(), "2 day(s) missing")
	})

	t.Run("duplicate and out of range records", func(t *testing.T) {
		days := fullMonth(start, 30, func(int) string { return attendance.StatusPresent })
		days = append(days,
			attendance.Day{Date: date(2024, time.April, 3), Status: attendance.StatusAbsent},
			attendance.Day{Date: date(2024, time.May, 1), Status: attendance.StatusPresent},
		)

		_, err := attendance.Aggregate(start, end, days)

		var rangeErr *attendance.IncompleteRangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Empty(t, rangeErr.Missing)
		assert.Equal(t, []time.Time{date(2024, time.April, 3)}, rangeErr.Duplicates)
		assert.Equal(t, []time.Time{date(2024, time.May, 1)}, rangeErr.OutOfRange)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		days := []attendance.Day{{Date: start.Add(17 * time.Hour), Status: attendance.StatusPresent}}

		_, err := attendance.Aggregate(start.Add(9*time.Hour), start, days)
		assert.NoError(t, err)
	})

	t.Run("unknown status", func(t *testing.T) {
		days := []attendance.Day{{Date: start, Status: "REMOTE"}}

		_, err := attendance.Aggregate(start, start, days)
		assert.ErrorIs(t, err, attendance.ErrInvalidStatus)
	})

	t.Run("inverted period", func(t *testing.T) {
		_, err := attendance.Aggregate(end, start, nil)
		assert.ErrorIs(t, err, attendance.ErrInvalidPeriod)
	})
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, attendance.IsValidStatus(attendance.StatusHalfDay))
	assert.False(t, attendance.IsValidStatus("present"))
}
