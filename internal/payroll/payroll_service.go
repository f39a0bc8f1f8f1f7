package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/employeesalary"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/salarycalc"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const aggregateSalaryGeneration = "salary_generation"

// SalaryStructureSource returns the salary revision in force for an employee
// on a given day.
type SalaryStructureSource interface {
	EffectiveStructure(ctx context.Context, companyID, employeeID string, asOf time.Time) (*employeesalary.EmployeeSalaryMaster, error)
}

// AttendanceSource returns an employee's daily attendance records.
type AttendanceSource interface {
	Days(ctx context.Context, companyID, employeeID string, from, to time.Time) ([]attendance.Day, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, companyID, actorID string, req GeneratePayrollRequest) (SalaryGenerationResponse, error)
	GenerateBatch(ctx context.Context, companyID, actorID string, req GenerateBatchRequest) (BatchGenerateResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (SalaryGenerationResponse, error)
	MarkAsPaid(ctx context.Context, companyID, actorID, id string, req MarkPaidRequest) (SalaryGenerationResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string, req CancelRequest) (SalaryGenerationResponse, error)
	GetAll(ctx context.Context, companyID string, req SalaryGenerationFilterRequest) ([]SalaryGenerationResponse, error)
	GetByID(ctx context.Context, companyID, id string) (SalaryGenerationResponse, error)
	GetBreakdown(ctx context.Context, companyID, id string) (SalaryBreakdownResponse, error)
	RequestPayslip(ctx context.Context, companyID, actorID, id string) (SalaryGenerationResponse, error)
	GeneratePayslip(ctx context.Context, companyID, id string) (SalaryGenerationResponse, error)
	DownloadPayslip(ctx context.Context, companyID, id string) (FileDownload, error)
	ExportRegister(ctx context.Context, companyID string, req RegisterExportRequest) (FileDownload, error)
	GetPolicy(ctx context.Context, companyID string) (PayrollPolicyResponse, error)
	UpsertPolicy(ctx context.Context, companyID, actorID string, req UpsertPayrollPolicyRequest) (PayrollPolicyResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	salaries    SalaryStructureSource
	attendances AttendanceSource
	counters    counter.Repository
	outbox      kafka.OutboxRepository
	storage     PayslipStorage
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	salaries SalaryStructureSource,
	attendances AttendanceSource,
	counters counter.Repository,
	outbox kafka.OutboxRepository,
	storage PayslipStorage,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		salaries:    salaries,
		attendances: attendances,
		counters:    counters,
		outbox:      outbox,
		storage:     storage,
		logger:      l,
	}
}

// allowedTransitions lists, per status, the statuses it may move to.
// GENERATED is entered only by generation itself.
var allowedTransitions = map[string][]string{
	StatusDraft:     {StatusGenerated, StatusCancelled},
	StatusGenerated: {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusPaid, StatusCancelled},
}

func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PayPeriod returns the first and last calendar day of month in UTC.
func PayPeriod(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2100
}

func (s *service) Generate(ctx context.Context, companyID, actorID string, req GeneratePayrollRequest) (SalaryGenerationResponse, error) {
	generation, err := s.generate(ctx, companyID, actorID, req)
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	return mapToResponse(*generation), nil
}

// generate runs the whole pipeline for one employee-month. Every stage
// before the transaction is read-only, so a failure anywhere leaves nothing
// behind.
func (s *service) generate(ctx context.Context, companyID, actorID string, req GeneratePayrollRequest) (*SalaryGeneration, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidEmployeeID
	}
	if !validPeriod(req.Month, req.Year) {
		return nil, payrollerrors.ErrInvalidPeriod
	}
	bonus := decimal.Zero
	if req.Bonus != nil {
		if req.Bonus.IsNegative() {
			return nil, payrollerrors.ErrInvalidBonus
		}
		bonus = *req.Bonus
	}

	details := map[string]any{
		"employee_id": req.EmployeeID,
		"month":       req.Month,
		"year":        req.Year,
	}
	periodStart, periodEnd := PayPeriod(req.Month, req.Year)

	exists, err := s.repo.HasActiveGeneration(ctx, companyID, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, payrollerrors.ErrDuplicateGeneration.WithDetails(details)
	}

	structure, err := s.salaries.EffectiveStructure(ctx, companyID, req.EmployeeID, periodEnd)
	if err != nil {
		return nil, err
	}
	if len(structure.Components) == 0 {
		return nil, payrollerrors.ErrEmptySalaryStructure.WithDetails(details)
	}

	resolved, err := salarycalc.Resolve(structure.Specs(), nil)
	if err != nil {
		return nil, mapCalculationError(err, details)
	}

	days, err := s.attendances.Days(ctx, companyID, req.EmployeeID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	summary, err := attendance.Aggregate(periodStart, periodEnd, days)
	if err != nil {
		return nil, mapCalculationError(err, details)
	}

	policy, _, err := s.loadPolicy(ctx, companyID)
	if err != nil {
		return nil, err
	}

	totals, err := salarycalc.Apply(resolved, summary, policy, salarycalc.WithBonus(bonus))
	if err != nil {
		return nil, mapCalculationError(err, details)
	}

	now := time.Now().UTC()
	generation := &SalaryGeneration{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		EmployeeID:      employeeUUID,
		SalaryID:        structure.ID,
		SalaryMonth:     req.Month,
		SalaryYear:      req.Year,
		PayPeriodStart:  periodStart,
		PayPeriodEnd:    periodEnd,
		WorkingDays:     summary.WorkingDays,
		PresentDays:     summary.PresentDays,
		AbsentDays:      summary.AbsentDays,
		PaidLeaveDays:   summary.PaidLeaveDays,
		UnpaidLeaveDays: summary.UnpaidLeaveDays,
		HolidayDays:     summary.HolidayDays,
		WeekOffDays:     summary.WeekOffDays,
		OvertimeHours:   summary.OvertimeHours,
		LateCount:       summary.LateCount,
		EarlyExitCount:  summary.EarlyExitCount,
		BasicSalary:     totals.BasicSalary,
		ProrationFactor: totals.ProrationFactor,
		TotalEarnings:   totals.TotalEarnings,
		TotalDeductions: totals.TotalDeductions,
		GrossSalary:     totals.GrossSalary,
		NetSalary:       totals.NetSalary,
		OvertimePay:     totals.OvertimePay,
		LateDeduction:   totals.LateDeduction,
		AbsentDeduction: totals.AbsentDeduction,
		LeaveDeduction:  totals.LeaveDeduction,
		Bonus:           totals.Bonus,
		Status:          StatusGenerated,
		GeneratedBy:     &actorUUID,
		GeneratedAt:     &now,
	}
	generation.Details = detailsFromLines(generation.ID, totals.Lines)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	seq, err := s.counters.WithTx(tx).GetNextValue(ctx, companyID, counter.TypeSalaryGeneration)
	if err != nil {
		return nil, err
	}
	generation.GenerationNumber = fmt.Sprintf("PAY-%04d%02d-%05d", req.Year, req.Month, seq)

	cancelled, err := qtx.CountCancelled(ctx, companyID, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return nil, err
	}
	generation.Version = int(cancelled) + 1

	if err := qtx.Create(ctx, generation); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, payrollerrors.ErrDuplicateGeneration) {
			return nil, payrollerrors.ErrDuplicateGeneration.WithDetails(details).WithCause(err)
		}
		log.Error("create salary generation failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return nil, mapped
	}

	if err := s.enqueueStatusEvent(ctx, tx, generation, events.EventTypeSalaryGenerated, actorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("salary generated",
		zap.String("salary_generation_id", generation.ID.String()),
		zap.String("generation_number", generation.GenerationNumber),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.String("net_salary", generation.NetSalary.StringFixed(2)),
	)
	return generation, nil
}

func detailsFromLines(generationID uuid.UUID, lines []salarycalc.Line) []SalaryGenerationDetail {
	details := make([]SalaryGenerationDetail, 0, len(lines))
	for _, line := range lines {
		detail := SalaryGenerationDetail{
			ID:               uuid.New(),
			GenerationID:     generationID,
			ComponentCode:    line.Code,
			ComponentName:    line.Name,
			ComponentType:    string(line.Kind),
			CalculationType:  string(line.ValueType),
			Sequence:         line.Sequence + 1,
			BaseAmount:       line.BaseAmount,
			CalculatedAmount: line.Amount,
			IsProrated:       line.Prorated,
			AffectsGross:     line.AffectsGross,
			AffectsNet:       line.AffectsNet,
			IsTaxable:        line.Taxable,
			IsStatutory:      line.Statutory,
		}
		if line.Prorated {
			detail.ProratedAmount = decimal.NewNullDecimal(line.Amount)
		}
		switch line.ValueType {
		case salarycalc.ValuePercentage:
			detail.Percentage = decimal.NewNullDecimal(line.PercentageValue)
			base := line.PercentageBase
			detail.PercentageBase = &base
		case salarycalc.ValueFormula:
			expression := line.FormulaExpression
			detail.FormulaExpression = &expression
		}
		details = append(details, detail)
	}
	return details
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *sql.Tx, generation *SalaryGeneration, eventType, actorID string) error {
	payload := events.SalaryGenerationEvent{
		EventType:          eventType,
		SalaryGenerationID: generation.ID.String(),
		GenerationNumber:   generation.GenerationNumber,
		CompanyID:          generation.CompanyID.String(),
		EmployeeID:         generation.EmployeeID.String(),
		Month:              generation.SalaryMonth,
		Year:               generation.SalaryYear,
		Status:             generation.Status,
		GrossSalary:        generation.GrossSalary.StringFixed(2),
		NetSalary:          generation.NetSalary.StringFixed(2),
		ActorID:            actorID,
		OccurredAt:         time.Now().UTC(),
	}
	event, err := kafka.NewOutboxEvent(
		aggregateSalaryGeneration,
		generation.ID.String(),
		eventType,
		events.SalaryGenerationTopic,
		payload,
	)
	if err != nil {
		return err
	}
	event.RequestID = contextutil.GetRequestID(ctx)
	return s.outbox.WithTx(tx).Create(ctx, event)
}

// transition moves a generation to status to inside one transaction, stamping
// audit columns through stamp and queueing eventType.
func (s *service) transition(
	ctx context.Context,
	companyID, actorID, id, to, eventType string,
	stamp func(generation *SalaryGeneration, actor uuid.UUID, now time.Time),
) (*SalaryGeneration, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrInvalidGenerationID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	generation, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	from := generation.Status
	if !CanTransition(from, to) {
		return nil, payrollerrors.ErrInvalidStatusTransition.WithDetails(map[string]any{
			"from": from,
			"to":   to,
		})
	}

	generation.Status = to
	stamp(generation, actorUUID, time.Now().UTC())

	if err := qtx.UpdateStatus(ctx, generation, from); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return nil, payrollerrors.ErrInvalidStatusTransition.
				WithDetails(map[string]any{"from": from, "to": to}).
				WithCause(err)
		}
		return nil, mapRepositoryError(err)
	}

	if err := s.enqueueStatusEvent(ctx, tx, generation, eventType, actorID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("salary generation status changed",
		zap.String("salary_generation_id", id),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("actor_id", actorID),
	)
	return generation, nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (SalaryGenerationResponse, error) {
	generation, err := s.transition(ctx, companyID, actorID, id, StatusApproved, events.EventTypeSalaryApproved,
		func(g *SalaryGeneration, actor uuid.UUID, now time.Time) {
			g.ApprovedBy = &actor
			g.ApprovedAt = &now
		})
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	return mapToResponse(*generation), nil
}

func (s *service) MarkAsPaid(ctx context.Context, companyID, actorID, id string, req MarkPaidRequest) (SalaryGenerationResponse, error) {
	generation, err := s.transition(ctx, companyID, actorID, id, StatusPaid, events.EventTypeSalaryPaid,
		func(g *SalaryGeneration, actor uuid.UUID, now time.Time) {
			method := req.PaymentMethod
			g.PaidBy = &actor
			g.PaidAt = &now
			g.PaymentMethod = &method
			g.PaymentReference = req.PaymentReference
		})
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	return mapToResponse(*generation), nil
}

// Cancel voids a generation. The employee-month becomes free to generate
// again, with the next version number.
func (s *service) Cancel(ctx context.Context, companyID, actorID, id string, req CancelRequest) (SalaryGenerationResponse, error) {
	generation, err := s.transition(ctx, companyID, actorID, id, StatusCancelled, events.EventTypeSalaryCancelled,
		func(g *SalaryGeneration, actor uuid.UUID, now time.Time) {
			reason := req.Reason
			g.CancelledBy = &actor
			g.CancelledAt = &now
			g.CancellationReason = &reason
		})
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	return mapToResponse(*generation), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req SalaryGenerationFilterRequest) ([]SalaryGenerationResponse, error) {
	generations, err := s.repo.FindAllByCompany(ctx, companyID, Filter{
		EmployeeID: req.EmployeeID,
		Month:      req.Month,
		Year:       req.Year,
		Status:     req.Status,
	})
	if err != nil {
		return nil, err
	}

	res := make([]SalaryGenerationResponse, len(generations))
	for i, g := range generations {
		res[i] = mapToResponse(g)
	}
	return res, nil
}

func (s *service) find(ctx context.Context, companyID, id string) (*SalaryGeneration, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrInvalidGenerationID
	}
	generation, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return generation, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (SalaryGenerationResponse, error) {
	generation, err := s.find(ctx, companyID, id)
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	return mapToResponse(*generation), nil
}

func (s *service) GetBreakdown(ctx context.Context, companyID, id string) (SalaryBreakdownResponse, error) {
	generation, err := s.find(ctx, companyID, id)
	if err != nil {
		return SalaryBreakdownResponse{}, err
	}

	resp := SalaryBreakdownResponse{
		SalaryGenerationResponse: mapToResponse(*generation),
		Earnings:                 []SalaryGenerationDetailResponse{},
		Deductions:               []SalaryGenerationDetailResponse{},
	}
	for _, d := range generation.Details {
		line := mapDetailResponse(d)
		if d.ComponentType == string(salarycalc.KindDeduction) {
			resp.Deductions = append(resp.Deductions, line)
		} else {
			resp.Earnings = append(resp.Earnings, line)
		}
	}
	return resp, nil
}

// loadPolicy returns the company's stored policy, or the default one with
// isDefault set when none is stored.
func (s *service) loadPolicy(ctx context.Context, companyID string) (salarycalc.ProrationPolicy, bool, error) {
	stored, err := s.repo.FindPolicy(ctx, companyID)
	if err != nil {
		return salarycalc.ProrationPolicy{}, false, err
	}
	if stored == nil {
		return salarycalc.DefaultPolicy(), true, nil
	}
	return stored.Proration(), false, nil
}

func (s *service) GetPolicy(ctx context.Context, companyID string) (PayrollPolicyResponse, error) {
	policy, isDefault, err := s.loadPolicy(ctx, companyID)
	if err != nil {
		return PayrollPolicyResponse{}, err
	}
	return policyResponse(policy, isDefault), nil
}

func (s *service) UpsertPolicy(ctx context.Context, companyID, actorID string, req UpsertPayrollPolicyRequest) (PayrollPolicyResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollPolicyResponse{}, payrollerrors.ErrInvalidCompanyID
	}

	stored := &PayrollPolicy{
		ID:                          uuid.New(),
		CompanyID:                   companyUUID,
		BasicComponentCode:          req.BasicComponentCode,
		AbsenceDeductionEnabled:     req.AbsenceDeductionEnabled,
		UnpaidLeaveDeductionEnabled: req.UnpaidLeaveDeductionEnabled,
		AbsenceDayRate:              nullDecimal(req.AbsenceDayRate),
		LateGraceCount:              req.LateGraceCount,
		LatesPerDeduction:           req.LatesPerDeduction,
		LateDeductionDays:           req.LateDeductionDays,
		CountEarlyExitAsLate:        req.CountEarlyExitAsLate,
		StandardHoursPerDay:         req.StandardHoursPerDay,
		OvertimeMultiplier:          req.OvertimeMultiplier,
		OvertimeHourlyRate:          nullDecimal(req.OvertimeHourlyRate),
		UpdatedAt:                   time.Now().UTC(),
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		stored.UpdatedBy = &actor
	}

	policy := stored.Proration()
	if err := policy.Validate(); err != nil {
		return PayrollPolicyResponse{}, payrollerrors.ErrInvalidPolicy.
			WithDetails(map[string]any{"reason": err.Error()}).
			WithCause(err)
	}

	if err := s.repo.UpsertPolicy(ctx, stored); err != nil {
		return PayrollPolicyResponse{}, err
	}

	s.logger.Info("payroll policy updated",
		zap.String("company_id", companyID),
		zap.String("basic_component_code", policy.BasicCode),
	)
	return policyResponse(policy, false), nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func formatUUID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

func mapToResponse(g SalaryGeneration) SalaryGenerationResponse {
	resp := SalaryGenerationResponse{
		ID:               g.ID.String(),
		EmployeeID:       g.EmployeeID.String(),
		SalaryID:         g.SalaryID.String(),
		GenerationNumber: g.GenerationNumber,
		Version:          g.Version,
		Month:            g.SalaryMonth,
		Year:             g.SalaryYear,
		PayPeriodStart:   g.PayPeriodStart.Format(dateLayout),
		PayPeriodEnd:     g.PayPeriodEnd.Format(dateLayout),
		Attendance: AttendanceSummaryResponse{
			WorkingDays:     g.WorkingDays,
			PresentDays:     g.PresentDays.String(),
			AbsentDays:      g.AbsentDays.String(),
			PaidLeaveDays:   g.PaidLeaveDays,
			UnpaidLeaveDays: g.UnpaidLeaveDays,
			HolidayDays:     g.HolidayDays,
			WeekOffDays:     g.WeekOffDays,
			OvertimeHours:   g.OvertimeHours.StringFixed(2),
			LateCount:       g.LateCount,
			EarlyExitCount:  g.EarlyExitCount,
		},
		BasicSalary:        g.BasicSalary.StringFixed(2),
		ProrationFactor:    g.ProrationFactor.StringFixed(6),
		TotalEarnings:      g.TotalEarnings.StringFixed(2),
		TotalDeductions:    g.TotalDeductions.StringFixed(2),
		GrossSalary:        g.GrossSalary.StringFixed(2),
		NetSalary:          g.NetSalary.StringFixed(2),
		OvertimePay:        g.OvertimePay.StringFixed(2),
		LateDeduction:      g.LateDeduction.StringFixed(2),
		AbsentDeduction:    g.AbsentDeduction.StringFixed(2),
		LeaveDeduction:     g.LeaveDeduction.StringFixed(2),
		Bonus:              g.Bonus.StringFixed(2),
		Status:             g.Status,
		GeneratedBy:        formatUUID(g.GeneratedBy),
		GeneratedAt:        formatTime(g.GeneratedAt),
		ApprovedBy:         formatUUID(g.ApprovedBy),
		ApprovedAt:         formatTime(g.ApprovedAt),
		PaidBy:             formatUUID(g.PaidBy),
		PaidAt:             formatTime(g.PaidAt),
		PaymentMethod:      g.PaymentMethod,
		PaymentReference:   g.PaymentReference,
		CancelledBy:        formatUUID(g.CancelledBy),
		CancelledAt:        formatTime(g.CancelledAt),
		CancellationReason: g.CancellationReason,
		PayslipURL:         g.PayslipURL,
	}
	if g.Employee != nil {
		resp.EmployeeName = g.Employee.FullName
	}
	return resp
}

func mapDetailResponse(d SalaryGenerationDetail) SalaryGenerationDetailResponse {
	resp := SalaryGenerationDetailResponse{
		ComponentCode:     d.ComponentCode,
		ComponentName:     d.ComponentName,
		ComponentType:     d.ComponentType,
		CalculationType:   d.CalculationType,
		Sequence:          d.Sequence,
		BaseAmount:        d.BaseAmount.StringFixed(2),
		CalculatedAmount:  d.CalculatedAmount.StringFixed(2),
		IsProrated:        d.IsProrated,
		PercentageBase:    d.PercentageBase,
		FormulaExpression: d.FormulaExpression,
		AffectsGross:      d.AffectsGross,
		AffectsNet:        d.AffectsNet,
		IsTaxable:         d.IsTaxable,
		IsStatutory:       d.IsStatutory,
	}
	if d.Percentage.Valid {
		v := d.Percentage.Decimal.String()
		resp.Percentage = &v
	}
	return resp
}
