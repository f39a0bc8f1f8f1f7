package counter_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"go-payroll/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const upsertCounter = "INSERT INTO company_counters"

func setupCounterRepo(t *testing.T) (counter.Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return counter.NewRepository(gormDB), mock, func() { _ = db.Close() }
}

func TestGetNextValue(t *testing.T) {
	repo, mock, cleanup := setupCounterRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(upsertCounter)).
		WithArgs("company-1", counter.TypeSalaryGeneration).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(42)))

	next, err := repo.GetNextValue(context.Background(), "company-1", counter.TypeSalaryGeneration)

	require.NoError(t, err)
	assert.Equal(t, int64(42), next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNextValue_WithinTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(upsertCounter)).
		WithArgs("company-1", counter.TypeSalaryGeneration).
		WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(1)))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	next, err := counter.NewRepository(gormDB).WithTx(tx).GetNextValue(context.Background(), "company-1", counter.TypeSalaryGeneration)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNextValue_Error(t *testing.T) {
	repo, mock, cleanup := setupCounterRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(upsertCounter)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetNextValue(context.Background(), "company-1", counter.TypeSalaryGeneration)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "next salary_generation counter")
}
