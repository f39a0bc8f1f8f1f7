package salarycomponent

import (
	"errors"

	salarycomponenterrors "go-payroll/internal/salarycomponent/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salarycomponenterrors.ErrComponentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_salary_component_code" {
			return salarycomponenterrors.ErrComponentCodeAlreadyExists
		}
	}
	return err
}
