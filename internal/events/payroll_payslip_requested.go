package events

import "time"

const (
	PayrollPayslipRequestedTopic = "payroll.payslip.requested.v1"

	EventTypePayslipRequested = "payroll.payslip.requested"
)

type PayrollPayslipRequestedEvent struct {
	EventType          string    `json:"event_type"`
	SalaryGenerationID string    `json:"salary_generation_id"`
	CompanyID          string    `json:"company_id"`
	RequestedBy        string    `json:"requested_by"`
	OccurredAt         time.Time `json:"occurred_at"`
}
