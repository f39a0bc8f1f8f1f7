package employeesalary

import (
	"errors"

	employeesalaryerrors "go-payroll/internal/employeesalary/errors"
	"go-payroll/internal/salarycalc"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeesalaryerrors.ErrSalaryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_employee_salary_effective":
			return employeesalaryerrors.ErrSalaryEffectiveDateAlreadyExists
		case "uq_employee_salary_active":
			return employeesalaryerrors.ErrActiveSalaryAlreadyExists
		}
	}
	return err
}

func mapResolveError(err error) error {
	var depErr *salarycalc.UnresolvableDependencyError
	if errors.As(err, &depErr) {
		return employeesalaryerrors.ErrUnresolvableStructure.
			WithDetails(map[string]any{
				"cycle":    depErr.Cycle,
				"blocked":  depErr.Blocked,
				"dangling": depErr.Dangling,
			}).
			WithCause(err)
	}

	var compErr *salarycalc.ComponentError
	if errors.As(err, &compErr) {
		return employeesalaryerrors.ErrUnresolvableStructure.
			WithDetails(map[string]any{
				"component_code": compErr.Code,
				"reason":         compErr.Err.Error(),
			}).
			WithCause(err)
	}
	return employeesalaryerrors.ErrUnresolvableStructure.WithCause(err)
}
