package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-payroll/internal/events"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumePayrollPayslipRequested(
	ctx context.Context,
	reader MessageReader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_payslip")
	log.Info("payroll payslip consumer started")

	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) bool {
		return HandlePayslipRequested(ctx, msg, payrollService, log)
	})
}

// HandlePayslipRequested renders and stores the payslip of one generation.
func HandlePayslipRequested(
	ctx context.Context,
	msg kafkago.Message,
	payrollService payroll.Service,
	log *zap.Logger,
) bool {
	var event events.PayrollPayslipRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode payroll payslip event failed", zap.Error(err))
		return true
	}

	_, err := payrollService.GeneratePayslip(ctx, event.CompanyID, event.SalaryGenerationID)
	if err != nil {
		if errors.Is(err, payrollerrors.ErrSalaryGenerationNotFound) {
			log.Warn("payslip requested for unknown salary generation",
				zap.String("salary_generation_id", event.SalaryGenerationID),
				zap.String("company_id", event.CompanyID),
			)
			return true
		}
		log.Error("generate payslip failed",
			zap.String("salary_generation_id", event.SalaryGenerationID),
			zap.String("company_id", event.CompanyID),
			zap.Error(err),
		)
		return false
	}

	log.Info("payslip generated",
		zap.String("salary_generation_id", event.SalaryGenerationID),
		zap.String("company_id", event.CompanyID),
	)
	return true
}
