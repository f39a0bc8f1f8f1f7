package salarycomponenterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrComponentNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary component not found",
		http.StatusNotFound,
	)
	ErrComponentCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"salary component code already exists",
		http.StatusConflict,
	)
	ErrInvalidComponentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid salary component id",
		http.StatusBadRequest,
	)
	ErrPercentageRequired = apperror.New(
		apperror.CodeInvalidInput,
		"percentage components require a percentage and a base component code",
		http.StatusBadRequest,
	)
	ErrFormulaRequired = apperror.New(
		apperror.CodeInvalidInput,
		"formula components require a valid expression",
		http.StatusBadRequest,
	)
	ErrSelfReference = apperror.New(
		apperror.CodeInvalidInput,
		"a component cannot be its own percentage base",
		http.StatusBadRequest,
	)
)
