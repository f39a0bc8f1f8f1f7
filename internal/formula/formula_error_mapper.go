package formula

import (
	"errors"

	formulaerrors "go-payroll/internal/formula/errors"
	"go-payroll/internal/formula/expr"
	"go-payroll/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return formulaerrors.ErrFormulaNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_formula_code" {
			return formulaerrors.ErrFormulaCodeAlreadyExists
		}
	}
	return err
}

// mapExpressionError turns an evaluator failure into target carrying the
// reason, identifier and position.
func mapExpressionError(err error, target *apperror.AppError) error {
	var evalErr *expr.EvaluationError
	if !errors.As(err, &evalErr) {
		return err
	}
	details := map[string]any{"reason": evalErr.Reason}
	if evalErr.Identifier != "" {
		details["identifier"] = evalErr.Identifier
	}
	if evalErr.Pos >= 0 {
		details["position"] = evalErr.Pos
	}
	return target.WithDetails(details).WithCause(err)
}
