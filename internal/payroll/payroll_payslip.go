package payroll

import (
	"context"
	"time"

	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/contextutil"

	"go.uber.org/zap"
)

func payslipIssuable(status string) bool {
	return status == StatusApproved || status == StatusPaid
}

// RequestPayslip queues rendering of the payslip. The PDF is produced by the
// payslip consumer, which calls GeneratePayslip.
func (s *service) RequestPayslip(ctx context.Context, companyID, actorID, id string) (SalaryGenerationResponse, error) {
	generation, err := s.find(ctx, companyID, id)
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	if !payslipIssuable(generation.Status) {
		return SalaryGenerationResponse{}, payrollerrors.ErrPayslipUnavailable.
			WithDetails(map[string]any{"status": generation.Status})
	}

	event, err := kafka.NewOutboxEvent(
		aggregateSalaryGeneration,
		generation.ID.String(),
		events.EventTypePayslipRequested,
		events.PayrollPayslipRequestedTopic,
		events.PayrollPayslipRequestedEvent{
			EventType:          events.EventTypePayslipRequested,
			SalaryGenerationID: generation.ID.String(),
			CompanyID:          companyID,
			RequestedBy:        actorID,
			OccurredAt:         time.Now().UTC(),
		},
	)
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	event.RequestID = contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	defer tx.Rollback()

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return SalaryGenerationResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return SalaryGenerationResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payslip requested",
		zap.String("salary_generation_id", id),
		zap.String("requested_by", actorID),
	)
	return mapToResponse(*generation), nil
}

// GeneratePayslip renders the payslip, stores it and records its location.
// Rendering again replaces the stored file.
func (s *service) GeneratePayslip(ctx context.Context, companyID, id string) (SalaryGenerationResponse, error) {
	generation, err := s.find(ctx, companyID, id)
	if err != nil {
		return SalaryGenerationResponse{}, err
	}
	if !payslipIssuable(generation.Status) {
		return SalaryGenerationResponse{}, payrollerrors.ErrPayslipUnavailable.
			WithDetails(map[string]any{"status": generation.Status})
	}

	content, err := renderPayslipPDF(*generation)
	if err != nil {
		return SalaryGenerationResponse{}, err
	}

	location, err := s.storage.Save(ctx, generation.ID.String()+".pdf", content)
	if err != nil {
		return SalaryGenerationResponse{}, err
	}

	now := time.Now().UTC()
	generation.PayslipURL = &location
	generation.PayslipGeneratedAt = &now
	if err := s.repo.UpdatePayslip(ctx, generation); err != nil {
		return SalaryGenerationResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("payslip stored",
		zap.String("salary_generation_id", id),
		zap.String("location", location),
		zap.Int("bytes", len(content)),
	)
	return mapToResponse(*generation), nil
}

func (s *service) DownloadPayslip(ctx context.Context, companyID, id string) (FileDownload, error) {
	generation, err := s.find(ctx, companyID, id)
	if err != nil {
		return FileDownload{}, err
	}
	if generation.PayslipURL == nil || *generation.PayslipURL == "" {
		return FileDownload{}, payrollerrors.ErrPayslipNotGenerated
	}

	content, err := s.storage.Load(ctx, *generation.PayslipURL)
	if err != nil {
		return FileDownload{}, err
	}
	return FileDownload{
		FileName:    "payslip-" + generation.GenerationNumber + ".pdf",
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
