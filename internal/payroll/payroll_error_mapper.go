package payroll

import (
	"errors"
	"time"

	"go-payroll/internal/attendance"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salarycalc"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrSalaryGenerationNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_salary_generation_active" {
		return payrollerrors.ErrDuplicateGeneration.WithCause(err)
	}
	return err
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(dateLayout)
	}
	return out
}

// mapCalculationError turns failures of the computation core into payroll
// errors carrying the employee and period they occurred for.
func mapCalculationError(err error, details map[string]any) error {
	with := func(extra map[string]any) map[string]any {
		merged := make(map[string]any, len(details)+len(extra))
		for k, v := range details {
			merged[k] = v
		}
		for k, v := range extra {
			merged[k] = v
		}
		return merged
	}

	var depErr *salarycalc.UnresolvableDependencyError
	if errors.As(err, &depErr) {
		return payrollerrors.ErrUnresolvableComponents.
			WithDetails(with(map[string]any{
				"cycle":    depErr.Cycle,
				"blocked":  depErr.Blocked,
				"dangling": depErr.Dangling,
			})).
			WithCause(err)
	}

	var compErr *salarycalc.ComponentError
	if errors.As(err, &compErr) {
		return payrollerrors.ErrUnresolvableComponents.
			WithDetails(with(map[string]any{
				"component_code": compErr.Code,
				"reason":         compErr.Err.Error(),
			})).
			WithCause(err)
	}

	var rangeErr *attendance.IncompleteRangeError
	if errors.As(err, &rangeErr) {
		return payrollerrors.ErrIncompleteAttendance.
			WithDetails(with(map[string]any{
				"missing":      formatDates(rangeErr.Missing),
				"duplicates":   formatDates(rangeErr.Duplicates),
				"out_of_range": formatDates(rangeErr.OutOfRange),
			})).
			WithCause(err)
	}

	var netErr *salarycalc.NegativeNetSalaryError
	if errors.As(err, &netErr) {
		return payrollerrors.ErrNegativeNetSalary.
			WithDetails(with(map[string]any{
				"gross_salary":     netErr.Gross.StringFixed(2),
				"total_deductions": netErr.Deductions.StringFixed(2),
				"net_salary":       netErr.Net.StringFixed(2),
			})).
			WithCause(err)
	}

	if errors.Is(err, salarycalc.ErrInvalidPolicy) {
		return payrollerrors.ErrInvalidPolicy.
			WithDetails(with(map[string]any{"reason": err.Error()})).
			WithCause(err)
	}
	return err
}
