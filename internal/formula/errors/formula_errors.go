package formulaerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrFormulaNotFound = apperror.New(
		apperror.CodeNotFound,
		"formula not found",
		http.StatusNotFound,
	)
	ErrFormulaCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"formula code already exists",
		http.StatusConflict,
	)
	ErrInvalidExpression = apperror.New(
		apperror.CodeInvalidInput,
		"formula expression is invalid",
		http.StatusBadRequest,
	)
	ErrEvaluationFailed = apperror.New(
		apperror.CodeUnprocessable,
		"formula could not be evaluated",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidVariableValue = apperror.New(
		apperror.CodeInvalidInput,
		"variable values must be decimal numbers",
		http.StatusBadRequest,
	)
	ErrTargetComponentNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"target salary component not found",
		http.StatusBadRequest,
	)
	ErrInvalidFormulaID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid formula id",
		http.StatusBadRequest,
	)
)
