package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidGenerationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary generation id",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12 and year between 2000 and 2100",
		http.StatusBadRequest,
	)
	ErrInvalidBonus = apperror.New(
		apperror.CodeInvalidInput,
		"bonus must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidPolicy = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll policy",
		http.StatusBadRequest,
	)
	ErrDuplicateGeneration = apperror.New(
		apperror.CodeConflict,
		"salary already generated for this employee and period",
		http.StatusConflict,
	)
	ErrSalaryGenerationNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary generation not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid salary generation status transition",
		http.StatusConflict,
	)
	ErrEmptySalaryStructure = apperror.New(
		apperror.CodeUnprocessable,
		"active salary structure has no components",
		http.StatusUnprocessableEntity,
	)
	ErrUnresolvableComponents = apperror.New(
		apperror.CodeUnprocessable,
		"salary components cannot be resolved",
		http.StatusUnprocessableEntity,
	)
	ErrIncompleteAttendance = apperror.New(
		apperror.CodeUnprocessable,
		"attendance does not cover the whole pay period",
		http.StatusUnprocessableEntity,
	)
	ErrNegativeNetSalary = apperror.New(
		apperror.CodeUnprocessable,
		"net salary would be negative",
		http.StatusUnprocessableEntity,
	)
	ErrPayslipNotGenerated = apperror.New(
		apperror.CodeNotFound,
		"payslip is not generated yet",
		http.StatusNotFound,
	)
	ErrPayslipUnavailable = apperror.New(
		apperror.CodeInvalidState,
		"payslips are only issued for approved or paid salaries",
		http.StatusConflict,
	)
)
