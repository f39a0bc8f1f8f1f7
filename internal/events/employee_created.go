package events

import "time"

const (
	EmployeeCreatedTopic = "hr.employee.lifecycle.v1"

	EventTypeEmployeeCreated = "employee.created"
)

// EmployeeCreatedEvent is published by the HR core when an employee is
// onboarded. JoinDate is optional and formatted as 2006-01-02.
type EmployeeCreatedEvent struct {
	EventType        string    `json:"event_type"`
	EmployeeID       string    `json:"employee_id"`
	CompanyID        string    `json:"company_id"`
	JoinDate         string    `json:"join_date,omitempty"`
	DesignationID    string    `json:"designation_id,omitempty"`
	EmploymentTypeID string    `json:"employment_type_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
