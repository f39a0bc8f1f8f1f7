package employeesalaryerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary structure not found",
		http.StatusNotFound,
	)
	ErrNoActiveSalary = apperror.New(
		apperror.CodeNotFound,
		"employee has no active salary structure for the requested date",
		http.StatusNotFound,
	)
	ErrInvalidSalaryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary structure id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrSalaryEffectiveDateAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"salary for this employee and effective date already exists",
		http.StatusConflict,
	)
	ErrActiveSalaryAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee already has an active salary structure",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"salary structure status does not allow this action",
		http.StatusConflict,
	)
	ErrInvalidEffectiveRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective date must be after the currently active structure",
		http.StatusBadRequest,
	)
	ErrComponentNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"salary component not found or inactive",
		http.StatusBadRequest,
	)
	ErrDuplicateComponent = apperror.New(
		apperror.CodeInvalidInput,
		"salary component listed more than once",
		http.StatusBadRequest,
	)
	ErrInvalidOverride = apperror.New(
		apperror.CodeInvalidInput,
		"override does not match the component calculation type",
		http.StatusBadRequest,
	)
	ErrUnresolvableStructure = apperror.New(
		apperror.CodeUnprocessable,
		"salary structure cannot be resolved",
		http.StatusUnprocessableEntity,
	)
	ErrEmptyStructure = apperror.New(
		apperror.CodeUnprocessable,
		"salary structure has no components",
		http.StatusUnprocessableEntity,
	)
)
