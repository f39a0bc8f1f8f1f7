package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-payroll/internal/employeesalary"
	employeesalaryerrors "go-payroll/internal/employeesalary/errors"
	"go-payroll/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// handlerFunc processes one message and reports whether it may be committed.
// Returning false leaves the offset in place so the message is redelivered.
type handlerFunc func(ctx context.Context, msg kafkago.Message) bool

func consume(ctx context.Context, reader MessageReader, log *zap.Logger, handle handlerFunc) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if !handle(ctx, msg) {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	employeeSalaryService employeesalary.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) bool {
		return HandleEmployeeCreated(ctx, msg, employeeSalaryService, log)
	})
}

// HandleEmployeeCreated opens an empty draft salary structure for a newly
// onboarded employee. Redelivered events hit the effective-date unique index
// and are acknowledged without a second draft.
func HandleEmployeeCreated(
	ctx context.Context,
	msg kafkago.Message,
	employeeSalaryService employeesalary.Service,
	log *zap.Logger,
) bool {
	var event events.EmployeeCreatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee_created event failed", zap.Error(err))
		return true
	}
	if event.EventType != "" && event.EventType != events.EventTypeEmployeeCreated {
		return true
	}

	effectiveFrom := event.JoinDate
	if effectiveFrom == "" {
		effectiveFrom = event.OccurredAt.UTC().Format("2006-01-02")
		if event.OccurredAt.IsZero() {
			effectiveFrom = time.Now().UTC().Format("2006-01-02")
		}
	}

	req := employeesalary.CreateSalaryRevisionRequest{
		EmployeeID:    event.EmployeeID,
		EffectiveFrom: effectiveFrom,
	}
	if event.DesignationID != "" {
		req.DesignationID = &event.DesignationID
	}
	if event.EmploymentTypeID != "" {
		req.EmploymentTypeID = &event.EmploymentTypeID
	}

	_, err := employeeSalaryService.CreateRevision(ctx, event.CompanyID, "", req)
	if err != nil {
		if errors.Is(err, employeesalaryerrors.ErrSalaryEffectiveDateAlreadyExists) {
			log.Warn("salary draft already exists for event, skipping",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
			)
			return true
		}
		if errors.Is(err, employeesalaryerrors.ErrEmployeeNotFound) {
			log.Warn("employee from event not found, skipping",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
			)
			return true
		}

		log.Error("create draft salary structure failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
			zap.Error(err),
		)
		return false
	}

	log.Info("draft salary structure created from employee_created event",
		zap.String("employee_id", event.EmployeeID),
		zap.String("company_id", event.CompanyID),
	)
	return true
}
