package payroll_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employeesalary"
	employeesalaryerrors "go-payroll/internal/employeesalary/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salarycalc"
	"go-payroll/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	createFn        func(ctx context.Context, g *payroll.SalaryGeneration) error
	updateStatusFn  func(ctx context.Context, g *payroll.SalaryGeneration, fromStatus string) error
	updatePayslipFn func(ctx context.Context, g *payroll.SalaryGeneration) error
	findByIDFn      func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error)
	findAllFn       func(ctx context.Context, companyID string, filter payroll.Filter) ([]payroll.SalaryGeneration, error)
	hasActiveFn     func(ctx context.Context, companyID, employeeID string, month, year int) (bool, error)
	countCancelFn   func(ctx context.Context, companyID, employeeID string, month, year int) (int64, error)
	payableFn       func(ctx context.Context, companyID string, asOf time.Time) ([]string, error)
	findPolicyFn    func(ctx context.Context, companyID string) (*payroll.PayrollPolicy, error)
	upsertPolicyFn  func(ctx context.Context, p *payroll.PayrollPolicy) error
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, g *payroll.SalaryGeneration) error {
	if f.createFn != nil {
		return f.createFn(ctx, g)
	}
	return nil
}

func (f *fakePayrollRepository) UpdateStatus(ctx context.Context, g *payroll.SalaryGeneration, fromStatus string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, g, fromStatus)
	}
	return nil
}

func (f *fakePayrollRepository) UpdatePayslip(ctx context.Context, g *payroll.SalaryGeneration) error {
	if f.updatePayslipFn != nil {
		return f.updatePayslipFn(ctx, g)
	}
	return nil
}

func (f *fakePayrollRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindAllByCompany(ctx context.Context, companyID string, filter payroll.Filter) ([]payroll.SalaryGeneration, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, companyID, filter)
	}
	return nil, nil
}

func (f *fakePayrollRepository) HasActiveGeneration(ctx context.Context, companyID, employeeID string, month, year int) (bool, error) {
	if f.hasActiveFn != nil {
		return f.hasActiveFn(ctx, companyID, employeeID, month, year)
	}
	return false, nil
}

func (f *fakePayrollRepository) CountCancelled(ctx context.Context, companyID, employeeID string, month, year int) (int64, error) {
	if f.countCancelFn != nil {
		return f.countCancelFn(ctx, companyID, employeeID, month, year)
	}
	return 0, nil
}

func (f *fakePayrollRepository) ListPayableEmployees(ctx context.Context, companyID string, asOf time.Time) ([]string, error) {
	if f.payableFn != nil {
		return f.payableFn(ctx, companyID, asOf)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindPolicy(ctx context.Context, companyID string) (*payroll.PayrollPolicy, error) {
	if f.findPolicyFn != nil {
		return f.findPolicyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) UpsertPolicy(ctx context.Context, p *payroll.PayrollPolicy) error {
	if f.upsertPolicyFn != nil {
		return f.upsertPolicyFn(ctx, p)
	}
	return nil
}

type fakeSalarySource struct {
	structures map[string]*employeesalary.EmployeeSalaryMaster
	asOf       []time.Time
	mu         sync.Mutex
}

func (f *fakeSalarySource) EffectiveStructure(ctx context.Context, companyID, employeeID string, asOf time.Time) (*employeesalary.EmployeeSalaryMaster, error) {
	f.mu.Lock()
	f.asOf = append(f.asOf, asOf)
	f.mu.Unlock()
	if s, ok := f.structures[employeeID]; ok {
		return s, nil
	}
	return nil, employeesalaryerrors.ErrNoActiveSalary
}

type fakeAttendanceSource struct {
	days map[string][]attendance.Day
}

func (f *fakeAttendanceSource) Days(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	return f.days[employeeID], nil
}

type fakeCounter struct {
	next int64
	err  error
}

func (f *fakeCounter) WithTx(tx *sql.Tx) counter.Repository {
	return f
}

func (f *fakeCounter) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return atomic.AddInt64(&f.next, 1), nil
}

type fakeOutboxRepository struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
	err    error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeStorage struct {
	files map[string][]byte
}

func (f *fakeStorage) Save(ctx context.Context, name string, content []byte) (string, error) {
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	location := "payslips/" + name
	f.files[location] = content
	return location, nil
}

func (f *fakeStorage) Load(ctx context.Context, location string) ([]byte, error) {
	content, ok := f.files[location]
	if !ok {
		return nil, errors.New("not found")
	}
	return content, nil
}

type payrollServiceDeps struct {
	sqlMock     sqlmock.Sqlmock
	service     payroll.Service
	repo        *fakePayrollRepository
	salaries    *fakeSalarySource
	attendances *fakeAttendanceSource
	counter     *fakeCounter
	outbox      *fakeOutboxRepository
	storage     *fakeStorage
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		db.Close()
	})

	deps := &payrollServiceDeps{
		sqlMock:     sqlMock,
		repo:        &fakePayrollRepository{},
		salaries:    &fakeSalarySource{structures: map[string]*employeesalary.EmployeeSalaryMaster{}},
		attendances: &fakeAttendanceSource{days: map[string][]attendance.Day{}},
		counter:     &fakeCounter{next: 6},
		outbox:      &fakeOutboxRepository{},
		storage:     &fakeStorage{},
	}
	deps.service = payroll.NewService(
		db,
		deps.repo,
		deps.salaries,
		deps.attendances,
		deps.counter,
		deps.outbox,
		deps.storage,
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
		return
	}
	mock.ExpectRollback()
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func strPtr(v string) *string {
	return &v
}

// standardStructure is BASIC 20000, HRA 40% of BASIC, PF 10% of BASIC and a
// 5% TAX formula over BASIC and HRA.
func standardStructure(employeeID uuid.UUID) *employeesalary.EmployeeSalaryMaster {
	return &employeesalary.EmployeeSalaryMaster{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Status:        employeesalary.StatusActive,
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Components: []employeesalary.EmployeeSalaryComponent{
			{
				Code: "BASIC", Name: "Basic Salary", ComponentType: "EARNING", CalculationType: "FIXED",
				Amount: dec("20000"), IsProrated: true, AffectsGross: true, AffectsNet: true, IsTaxable: true,
			},
			{
				Code: "HRA", Name: "House Rent", ComponentType: "EARNING", CalculationType: "PERCENTAGE",
				Percentage: decimal.NewNullDecimal(dec("40")), PercentageBase: strPtr("BASIC"),
				IsProrated: true, AffectsGross: true, AffectsNet: true, IsTaxable: true,
			},
			{
				Code: "PF", Name: "Provident Fund", ComponentType: "DEDUCTION", CalculationType: "PERCENTAGE",
				Percentage: decimal.NewNullDecimal(dec("10")), PercentageBase: strPtr("BASIC"),
				AffectsNet: true, IsStatutory: true,
			},
			{
				Code: "TAX", Name: "Income Tax", ComponentType: "DEDUCTION", CalculationType: "FORMULA",
				FormulaExpression: strPtr("(BASIC + HRA) * 0.05"), AffectsNet: true, IsStatutory: true,
			},
		},
	}
}

// juneDays covers June 2024: weekends off, every weekday present unless
// overridden by status.
func juneDays(status map[int]string, late map[int]bool, overtime map[int]int) []attendance.Day {
	var days []attendance.Day
	for d := 1; d <= 30; d++ {
		date := time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
		day := attendance.Day{Date: date, Status: attendance.StatusPresent}
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			day.Status = attendance.StatusWeekOff
		}
		if s, ok := status[d]; ok {
			day.Status = s
		}
		day.IsLate = late[d]
		day.OvertimeMinutes = overtime[d]
		days = append(days, day)
	}
	return days
}

func TestPayrollService_Generate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employee := uuid.New()
	employeeID := employee.String()

	lates := map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 10: true}

	t.Run("computes totals and records generation with events", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.salaries.structures[employeeID] = standardStructure(employee)
		deps.attendances.days[employeeID] = juneDays(nil, lates, map[int]int{11: 120})
		expectTx(t, deps.sqlMock, true)

		var stored *payroll.SalaryGeneration
		deps.repo.createFn = func(ctx context.Context, g *payroll.SalaryGeneration) error {
			stored = g
			return nil
		}

		bonus := dec("500")
		resp, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID,
			Month:      6,
			Year:       2024,
			Bonus:      &bonus,
		})
		require.NoError(t, err)

		assert.Equal(t, payroll.StatusGenerated, resp.Status)
		assert.Equal(t, "PAY-202406-00007", resp.GenerationNumber)
		assert.Equal(t, 1, resp.Version)
		assert.Equal(t, "2024-06-01", resp.PayPeriodStart)
		assert.Equal(t, "2024-06-30", resp.PayPeriodEnd)
		assert.Equal(t, "20000.00", resp.BasicSalary)
		assert.Equal(t, "1.000000", resp.ProrationFactor)
		assert.Equal(t, "375.00", resp.OvertimePay)
		assert.Equal(t, "500.00", resp.Bonus)
		assert.Equal(t, "1000.00", resp.LateDeduction)
		assert.Equal(t, "28875.00", resp.GrossSalary)
		assert.Equal(t, "4400.00", resp.TotalDeductions)
		assert.Equal(t, "24475.00", resp.NetSalary)
		assert.Equal(t, 20, resp.Attendance.WorkingDays)
		assert.Equal(t, 10, resp.Attendance.WeekOffDays)
		assert.Equal(t, 6, resp.Attendance.LateCount)
		assert.NotNil(t, resp.GeneratedBy)

		require.NotNil(t, stored)
		require.Len(t, stored.Details, 4)
		byCode := map[string]payroll.SalaryGenerationDetail{}
		for _, d := range stored.Details {
			byCode[d.ComponentCode] = d
		}
		assert.True(t, byCode["HRA"].CalculatedAmount.Equal(dec("8000")))
		assert.True(t, byCode["PF"].CalculatedAmount.Equal(dec("2000")))
		assert.True(t, byCode["TAX"].CalculatedAmount.Equal(dec("1400")))
		assert.Equal(t, "(BASIC + HRA) * 0.05", *byCode["TAX"].FormulaExpression)
		assert.True(t, byCode["BASIC"].IsProrated)
		assert.Equal(t, 1, byCode["BASIC"].Sequence)

		assert.Equal(t, []time.Time{time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)}, deps.salaries.asOf)

		require.Len(t, deps.outbox.events, 1)
		event := deps.outbox.events[0]
		assert.Equal(t, events.EventTypeSalaryGenerated, event.EventType)
		assert.Equal(t, events.SalaryGenerationTopic, event.Topic)
		var payload events.SalaryGenerationEvent
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "24475.00", payload.NetSalary)
		assert.Equal(t, employeeID, payload.EmployeeID)
	})

	t.Run("prorates earnings by paid days", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.salaries.structures[employeeID] = standardStructure(employee)
		deps.attendances.days[employeeID] = juneDays(map[int]string{
			3: attendance.StatusAbsent,
			4: attendance.StatusAbsent,
		}, nil, nil)
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		require.NoError(t, err)

		assert.Equal(t, "0.933333", resp.ProrationFactor)
		assert.Equal(t, "2", resp.Attendance.AbsentDays)
		assert.Equal(t, "0.00", resp.AbsentDeduction)
		// 20000 * 28/30 + 8000 * 28/30
		assert.Equal(t, "26133.34", resp.GrossSalary)
	})

	t.Run("version follows cancelled predecessors", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.salaries.structures[employeeID] = standardStructure(employee)
		deps.attendances.days[employeeID] = juneDays(nil, nil, nil)
		deps.repo.countCancelFn = func(ctx context.Context, companyID, employeeID string, month, year int) (int64, error) {
			return 2, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Version)
	})

	t.Run("rejects existing generation for the month", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.repo.hasActiveFn = func(ctx context.Context, companyID, employeeID string, month, year int) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrDuplicateGeneration)
		assert.Empty(t, deps.salaries.asOf)
	})

	t.Run("maps unique violation from a racing writer", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.salaries.structures[employeeID] = standardStructure(employee)
		deps.attendances.days[employeeID] = juneDays(nil, nil, nil)
		deps.repo.createFn = func(ctx context.Context, g *payroll.SalaryGeneration) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_salary_generation_active"}
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrDuplicateGeneration)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		negative := dec("-1")

		cases := []struct {
			name    string
			company string
			actor   string
			req     payroll.GeneratePayrollRequest
			want    error
		}{
			{"company", "bad", actorID, payroll.GeneratePayrollRequest{EmployeeID: employeeID, Month: 6, Year: 2024}, payrollerrors.ErrInvalidCompanyID},
			{"actor", companyID, "", payroll.GeneratePayrollRequest{EmployeeID: employeeID, Month: 6, Year: 2024}, payrollerrors.ErrInvalidActorID},
			{"employee", companyID, actorID, payroll.GeneratePayrollRequest{EmployeeID: "x", Month: 6, Year: 2024}, payrollerrors.ErrInvalidEmployeeID},
			{"month", companyID, actorID, payroll.GeneratePayrollRequest{EmployeeID: employeeID, Month: 13, Year: 2024}, payrollerrors.ErrInvalidPeriod},
			{"bonus", companyID, actorID, payroll.GeneratePayrollRequest{EmployeeID: employeeID, Month: 6, Year: 2024, Bonus: &negative}, payrollerrors.ErrInvalidBonus},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := deps.service.Generate(ctx, tc.company, tc.actor, tc.req)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("passes through missing salary structure", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		_, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		assert.ErrorIs(t, err, employeesalaryerrors.ErrNoActiveSalary)
	})

	t.Run("rejects empty structure", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		structure := standardStructure(employee)
		structure.Components = nil
		deps.salaries.structures[employeeID] = structure

		_, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrEmptySalaryStructure)
	})

	t.Run("reports missing attendance days", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.salaries.structures[employeeID] = standardStructure(employee)
		deps.attendances.days[employeeID] = juneDays(nil, nil, nil)[:28]

		_, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		require.ErrorIs(t, err, payrollerrors.ErrIncompleteAttendance)
		assert.Contains(t, err.Error(), "2024-06-29")
	})

	t.Run("reports dependency cycle", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		structure := standardStructure(employee)
		structure.Components = append(structure.Components,
			employeesalary.EmployeeSalaryComponent{
				Code: "A", Name: "A", ComponentType: "EARNING", CalculationType: "FORMULA",
				FormulaExpression: strPtr("B + 1"), AffectsGross: true, AffectsNet: true,
			},
			employeesalary.EmployeeSalaryComponent{
				Code: "B", Name: "B", ComponentType: "EARNING", CalculationType: "FORMULA",
				FormulaExpression: strPtr("A + 1"), AffectsGross: true, AffectsNet: true,
			},
		)
		deps.salaries.structures[employeeID] = structure

		_, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrUnresolvableComponents)
		var depErr *salarycalc.UnresolvableDependencyError
		require.ErrorAs(t, err, &depErr)
		assert.ElementsMatch(t, []string{"A", "B"}, depErr.Cycle)
	})

	t.Run("rejects negative net salary", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		structure := standardStructure(employee)
		structure.Components = append(structure.Components, employeesalary.EmployeeSalaryComponent{
			Code: "LOAN", Name: "Loan", ComponentType: "DEDUCTION", CalculationType: "FIXED",
			Amount: dec("50000"), AffectsNet: true,
		})
		deps.salaries.structures[employeeID] = structure
		deps.attendances.days[employeeID] = juneDays(nil, nil, nil)

		_, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		assert.ErrorIs(t, err, payrollerrors.ErrNegativeNetSalary)
		assert.Empty(t, deps.outbox.events)
	})

	t.Run("uses stored company policy", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.salaries.structures[employeeID] = standardStructure(employee)
		deps.attendances.days[employeeID] = juneDays(map[int]string{
			3: attendance.StatusUnpaidLeave,
		}, nil, nil)
		deps.repo.findPolicyFn = func(ctx context.Context, companyID string) (*payroll.PayrollPolicy, error) {
			return &payroll.PayrollPolicy{
				BasicComponentCode:          "BASIC",
				UnpaidLeaveDeductionEnabled: true,
				LateGraceCount:              0,
				LatesPerDeduction:           1,
				LateDeductionDays:           dec("1"),
				StandardHoursPerDay:         dec("8"),
				OvertimeMultiplier:          dec("2"),
			}, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Generate(ctx, companyID, actorID, payroll.GeneratePayrollRequest{
			EmployeeID: employeeID, Month: 6, Year: 2024,
		})
		require.NoError(t, err)
		assert.Equal(t, "1000.00", resp.LeaveDeduction)
		assert.Equal(t, 1, resp.Attendance.UnpaidLeaveDays)
	})
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{payroll.StatusDraft, payroll.StatusGenerated, true},
		{payroll.StatusDraft, payroll.StatusCancelled, true},
		{payroll.StatusGenerated, payroll.StatusApproved, true},
		{payroll.StatusGenerated, payroll.StatusCancelled, true},
		{payroll.StatusGenerated, payroll.StatusPaid, false},
		{payroll.StatusApproved, payroll.StatusPaid, true},
		{payroll.StatusApproved, payroll.StatusCancelled, true},
		{payroll.StatusApproved, payroll.StatusGenerated, false},
		{payroll.StatusPaid, payroll.StatusCancelled, false},
		{payroll.StatusCancelled, payroll.StatusGenerated, false},
		{payroll.StatusCancelled, payroll.StatusApproved, false},
	}
	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			assert.Equal(t, tc.want, payroll.CanTransition(tc.from, tc.to))
		})
	}
}

func storedGeneration(status string) *payroll.SalaryGeneration {
	return &payroll.SalaryGeneration{
		ID:               uuid.New(),
		CompanyID:        uuid.New(),
		EmployeeID:       uuid.New(),
		GenerationNumber: "PAY-202406-00001",
		Version:          1,
		SalaryMonth:      6,
		SalaryYear:       2024,
		PayPeriodStart:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PayPeriodEnd:     time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		WorkingDays:      20,
		PresentDays:      dec("20"),
		AbsentDays:       decimal.Zero,
		OvertimeHours:    decimal.Zero,
		BasicSalary:      dec("20000"),
		ProrationFactor:  dec("1"),
		TotalEarnings:    dec("28000"),
		TotalDeductions:  dec("2000"),
		GrossSalary:      dec("28000"),
		NetSalary:        dec("26000"),
		OvertimePay:      decimal.Zero,
		LateDeduction:    decimal.Zero,
		AbsentDeduction:  decimal.Zero,
		LeaveDeduction:   decimal.Zero,
		Bonus:            decimal.Zero,
		Status:           status,
		Employee:         &payroll.EmployeeRef{FullName: "Jane Doe"},
		Details: []payroll.SalaryGenerationDetail{
			{ComponentCode: "BASIC", ComponentName: "Basic Salary", ComponentType: "EARNING", CalculationType: "FIXED", Sequence: 1, BaseAmount: dec("20000"), CalculatedAmount: dec("20000")},
			{ComponentCode: "HRA", ComponentName: "House Rent", ComponentType: "EARNING", CalculationType: "PERCENTAGE", Sequence: 2, BaseAmount: dec("8000"), CalculatedAmount: dec("8000"), Percentage: decimal.NewNullDecimal(dec("40"))},
			{ComponentCode: "PF", ComponentName: "Provident Fund", ComponentType: "DEDUCTION", CalculationType: "PERCENTAGE", Sequence: 3, BaseAmount: dec("2000"), CalculatedAmount: dec("2000")},
		},
	}
}

func TestPayrollService_Transitions(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("approve stamps approver and queues event", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		g := storedGeneration(payroll.StatusGenerated)
		deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
			return g, nil
		}
		var from string
		deps.repo.updateStatusFn = func(ctx context.Context, updated *payroll.SalaryGeneration, fromStatus string) error {
			from = fromStatus
			return nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Approve(ctx, g.CompanyID.String(), actorID, g.ID.String())
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusApproved, resp.Status)
		assert.Equal(t, payroll.StatusGenerated, from)
		require.NotNil(t, resp.ApprovedBy)
		assert.Equal(t, actorID, *resp.ApprovedBy)
		require.Len(t, deps.outbox.events, 1)
		assert.Equal(t, events.EventTypeSalaryApproved, deps.outbox.events[0].EventType)
	})

	t.Run("mark paid records payment", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		g := storedGeneration(payroll.StatusApproved)
		deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
			return g, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.MarkAsPaid(ctx, g.CompanyID.String(), actorID, g.ID.String(), payroll.MarkPaidRequest{
			PaymentMethod:    "BANK_TRANSFER",
			PaymentReference: strPtr("TRX-1"),
		})
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.Equal(t, "BANK_TRANSFER", *resp.PaymentMethod)
		assert.Equal(t, "TRX-1", *resp.PaymentReference)
		assert.NotNil(t, resp.PaidAt)
	})

	t.Run("cancel keeps reason", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		g := storedGeneration(payroll.StatusApproved)
		deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
			return g, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Cancel(ctx, g.CompanyID.String(), actorID, g.ID.String(), payroll.CancelRequest{Reason: "wrong bonus"})
		require.NoError(t, err)
		assert.Equal(t, payroll.StatusCancelled, resp.Status)
		assert.Equal(t, "wrong bonus", *resp.CancellationReason)
		assert.Equal(t, events.EventTypeSalaryCancelled, deps.outbox.events[0].EventType)
	})

	t.Run("rejects illegal transitions", func(t *testing.T) {
		cases := []struct {
			name   string
			status string
			call   func(s payroll.Service, companyID, id string) error
		}{
			{"approve paid", payroll.StatusPaid, func(s payroll.Service, companyID, id string) error {
				_, err := s.Approve(ctx, companyID, actorID, id)
				return err
			}},
			{"pay generated", payroll.StatusGenerated, func(s payroll.Service, companyID, id string) error {
				_, err := s.MarkAsPaid(ctx, companyID, actorID, id, payroll.MarkPaidRequest{PaymentMethod: "CASH"})
				return err
			}},
			{"cancel paid", payroll.StatusPaid, func(s payroll.Service, companyID, id string) error {
				_, err := s.Cancel(ctx, companyID, actorID, id, payroll.CancelRequest{Reason: "x"})
				return err
			}},
			{"approve cancelled", payroll.StatusCancelled, func(s payroll.Service, companyID, id string) error {
				_, err := s.Approve(ctx, companyID, actorID, id)
				return err
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				deps := setupPayrollServiceTest(t)
				g := storedGeneration(tc.status)
				deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
					return g, nil
				}
				expectTx(t, deps.sqlMock, false)

				err := tc.call(deps.service, g.CompanyID.String(), g.ID.String())
				assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
				assert.Empty(t, deps.outbox.events)
			})
		}
	})

	t.Run("concurrent status change is a transition error", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		g := storedGeneration(payroll.StatusGenerated)
		deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
			return g, nil
		}
		deps.repo.updateStatusFn = func(ctx context.Context, updated *payroll.SalaryGeneration, fromStatus string) error {
			return payroll.ErrStatusChanged
		}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, g.CompanyID.String(), actorID, g.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(ctx, uuid.New().String(), actorID, uuid.New().String())
		assert.ErrorIs(t, err, payrollerrors.ErrSalaryGenerationNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		_, err := deps.service.Approve(ctx, uuid.New().String(), actorID, "nope")
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidGenerationID)
	})
}

func TestPayrollService_GenerateBatch(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	ok := uuid.New()
	duplicate := uuid.New()
	missing := uuid.New()

	deps := setupPayrollServiceTest(t)
	deps.salaries.structures[ok.String()] = standardStructure(ok)
	deps.attendances.days[ok.String()] = juneDays(nil, nil, nil)
	deps.repo.hasActiveFn = func(ctx context.Context, companyID, employeeID string, month, year int) (bool, error) {
		return employeeID == duplicate.String(), nil
	}
	var payableAsOf time.Time
	deps.repo.payableFn = func(ctx context.Context, companyID string, asOf time.Time) ([]string, error) {
		payableAsOf = asOf
		return []string{ok.String(), duplicate.String(), missing.String()}, nil
	}
	expectTx(t, deps.sqlMock, true)

	resp, err := deps.service.GenerateBatch(ctx, companyID, actorID, payroll.GenerateBatchRequest{Month: 6, Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), payableAsOf)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, ok.String(), resp.Results[0].EmployeeID)
	assert.Equal(t, payroll.OutcomeGenerated, resp.Results[0].Status)
	assert.Equal(t, "24600.00", resp.Results[0].NetSalary)

	assert.Equal(t, payroll.OutcomeSkipped, resp.Results[1].Status)
	assert.Equal(t, payrollerrors.ErrDuplicateGeneration.Code, resp.Results[1].ErrorCode)

	assert.Equal(t, payroll.OutcomeFailed, resp.Results[2].Status)
	assert.Equal(t, employeesalaryerrors.ErrNoActiveSalary.Code, resp.Results[2].ErrorCode)
}

func TestPayrollService_GenerateBatch_ExplicitEmployees(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	deps.repo.payableFn = func(ctx context.Context, companyID string, asOf time.Time) ([]string, error) {
		t.Fatal("payable employees must not be listed when ids are given")
		return nil, nil
	}
	id := uuid.New().String()

	resp, err := deps.service.GenerateBatch(context.Background(), uuid.New().String(), uuid.New().String(),
		payroll.GenerateBatchRequest{Month: 6, Year: 2024, EmployeeIDs: []string{id, id}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, payroll.OutcomeFailed, resp.Results[0].Status)
}

func TestPayrollService_GetBreakdown(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	g := storedGeneration(payroll.StatusGenerated)
	deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
		return g, nil
	}

	resp, err := deps.service.GetBreakdown(context.Background(), g.CompanyID.String(), g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resp.EmployeeName)
	require.Len(t, resp.Earnings, 2)
	require.Len(t, resp.Deductions, 1)
	assert.Equal(t, "HRA", resp.Earnings[1].ComponentCode)
	assert.Equal(t, "40", *resp.Earnings[1].Percentage)
	assert.Equal(t, "2000.00", resp.Deductions[0].CalculatedAmount)
}

func TestPayrollService_GetAll(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	var got payroll.Filter
	deps.repo.findAllFn = func(ctx context.Context, companyID string, filter payroll.Filter) ([]payroll.SalaryGeneration, error) {
		got = filter
		return []payroll.SalaryGeneration{*storedGeneration(payroll.StatusPaid)}, nil
	}

	resp, err := deps.service.GetAll(context.Background(), uuid.New().String(), payroll.SalaryGenerationFilterRequest{
		Month: 6, Year: 2024, Status: payroll.StatusPaid,
	})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, payroll.Filter{Month: 6, Year: 2024, Status: payroll.StatusPaid}, got)
	assert.Equal(t, "26000.00", resp[0].NetSalary)
}

func TestPayrollService_Policy(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("default when none stored", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)

		resp, err := deps.service.GetPolicy(ctx, companyID)
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.Equal(t, "BASIC", resp.BasicComponentCode)
		assert.Equal(t, 3, resp.LateGraceCount)
		assert.False(t, resp.AbsenceDeductionEnabled)
	})

	t.Run("stored policy", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.repo.findPolicyFn = func(ctx context.Context, companyID string) (*payroll.PayrollPolicy, error) {
			return &payroll.PayrollPolicy{
				BasicComponentCode:  "BASE",
				LatesPerDeduction:   2,
				LateDeductionDays:   dec("0.5"),
				StandardHoursPerDay: dec("7"),
				OvertimeMultiplier:  dec("1.25"),
				AbsenceDayRate:      decimal.NewNullDecimal(dec("750")),
			}, nil
		}

		resp, err := deps.service.GetPolicy(ctx, companyID)
		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		assert.Equal(t, "BASE", resp.BasicComponentCode)
		assert.Equal(t, "750.00", *resp.AbsenceDayRate)
		assert.Nil(t, resp.OvertimeHourlyRate)
	})

	t.Run("upsert validates", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		deps.repo.upsertPolicyFn = func(ctx context.Context, p *payroll.PayrollPolicy) error {
			t.Fatal("invalid policy must not be stored")
			return nil
		}

		_, err := deps.service.UpsertPolicy(ctx, companyID, uuid.New().String(), payroll.UpsertPayrollPolicyRequest{
			BasicComponentCode: "BASIC",
			LatesPerDeduction:  3,
			LateDeductionDays:  dec("1"),
			OvertimeMultiplier: dec("1.5"),
		})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPolicy)
	})

	t.Run("upsert stores", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		var stored *payroll.PayrollPolicy
		deps.repo.upsertPolicyFn = func(ctx context.Context, p *payroll.PayrollPolicy) error {
			stored = p
			return nil
		}
		rate := dec("200")

		resp, err := deps.service.UpsertPolicy(ctx, companyID, uuid.New().String(), payroll.UpsertPayrollPolicyRequest{
			BasicComponentCode:      "BASIC",
			AbsenceDeductionEnabled: true,
			LatesPerDeduction:       3,
			LateDeductionDays:       dec("1"),
			StandardHoursPerDay:     dec("8"),
			OvertimeMultiplier:      dec("1.5"),
			OvertimeHourlyRate:      &rate,
		})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, companyID, stored.CompanyID.String())
		assert.True(t, stored.OvertimeHourlyRate.Valid)
		assert.NotNil(t, stored.UpdatedBy)
		assert.Equal(t, "200.00", *resp.OvertimeHourlyRate)
		assert.True(t, resp.AbsenceDeductionEnabled)
	})
}

func TestPayrollService_Payslip(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("request queues event", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		g := storedGeneration(payroll.StatusApproved)
		deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
			return g, nil
		}
		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.RequestPayslip(ctx, g.CompanyID.String(), actorID, g.ID.String())
		require.NoError(t, err)
		require.Len(t, deps.outbox.events, 1)
		assert.Equal(t, events.PayrollPayslipRequestedTopic, deps.outbox.events[0].Topic)

		var payload events.PayrollPayslipRequestedEvent
		require.NoError(t, json.Unmarshal(deps.outbox.events[0].Payload, &payload))
		assert.Equal(t, g.ID.String(), payload.SalaryGenerationID)
		assert.Equal(t, actorID, payload.RequestedBy)
	})

	t.Run("request needs approval", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		g := storedGeneration(payroll.StatusGenerated)
		deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
			return g, nil
		}

		_, err := deps.service.RequestPayslip(ctx, g.CompanyID.String(), actorID, g.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipUnavailable)
	})

	t.Run("generate renders and stores pdf", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		g := storedGeneration(payroll.StatusPaid)
		deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
			return g, nil
		}
		var updated *payroll.SalaryGeneration
		deps.repo.updatePayslipFn = func(ctx context.Context, g *payroll.SalaryGeneration) error {
			updated = g
			return nil
		}

		resp, err := deps.service.GeneratePayslip(ctx, g.CompanyID.String(), g.ID.String())
		require.NoError(t, err)
		require.NotNil(t, resp.PayslipURL)
		require.NotNil(t, updated)
		assert.NotNil(t, updated.PayslipGeneratedAt)

		content := deps.storage.files[*resp.PayslipURL]
		assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))

		file, err := deps.service.DownloadPayslip(ctx, g.CompanyID.String(), g.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", file.ContentType)
		assert.Equal(t, "payslip-PAY-202406-00001.pdf", file.FileName)
		assert.Equal(t, content, file.Content)
	})

	t.Run("download before generation", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		g := storedGeneration(payroll.StatusApproved)
		deps.repo.findByIDFn = func(ctx context.Context, companyID, id string) (*payroll.SalaryGeneration, error) {
			return g, nil
		}

		_, err := deps.service.DownloadPayslip(ctx, g.CompanyID.String(), g.ID.String())
		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotGenerated)
	})
}

func TestPayrollService_ExportRegister(t *testing.T) {
	deps := setupPayrollServiceTest(t)
	first := storedGeneration(payroll.StatusPaid)
	second := storedGeneration(payroll.StatusGenerated)
	second.GenerationNumber = "PAY-202406-00002"
	second.Details = append(second.Details, payroll.SalaryGenerationDetail{
		ComponentCode: "TRANSPORT", ComponentName: "Transport", ComponentType: "EARNING",
		CalculationType: "FIXED", Sequence: 4, BaseAmount: dec("500"), CalculatedAmount: dec("500"),
	})

	var got payroll.Filter
	deps.repo.findAllFn = func(ctx context.Context, companyID string, filter payroll.Filter) ([]payroll.SalaryGeneration, error) {
		got = filter
		return []payroll.SalaryGeneration{*first, *second}, nil
	}

	file, err := deps.service.ExportRegister(context.Background(), uuid.New().String(), payroll.RegisterExportRequest{Month: 6, Year: 2024})
	require.NoError(t, err)
	assert.True(t, got.ExcludeCancelled)
	assert.True(t, got.WithDetails)
	assert.Equal(t, "payroll-register-2024-06.xlsx", file.FileName)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Register")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, "Number", header[0])
	assert.Equal(t, []string{"BASIC", "HRA", "TRANSPORT", "PF"}, header[16:20])
	assert.Equal(t, "Net", header[len(header)-1])

	assert.Equal(t, "PAY-202406-00001", rows[1][0])
	assert.Equal(t, "Jane Doe", rows[1][2])
	assert.Equal(t, "26000", rows[1][len(header)-1])
	assert.Equal(t, "", rows[1][18])
	assert.Equal(t, "500", rows[2][18])
}

func TestPayrollService_ExportRegister_InvalidPeriod(t *testing.T) {
	deps := setupPayrollServiceTest(t)

	_, err := deps.service.ExportRegister(context.Background(), uuid.New().String(), payroll.RegisterExportRequest{Month: 0, Year: 2024})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)
}
