package events

import "time"

const (
	SalaryGenerationTopic = "payroll.salary_generation.v1"

	EventTypeSalaryGenerated = "payroll.salary.generated"
	EventTypeSalaryApproved  = "payroll.salary.approved"
	EventTypeSalaryPaid      = "payroll.salary.paid"
	EventTypeSalaryCancelled = "payroll.salary.cancelled"
)

// SalaryGenerationEvent announces a status change of a salary generation to
// downstream consumers such as accounting and notifications.
type SalaryGenerationEvent struct {
	EventType          string    `json:"event_type"`
	SalaryGenerationID string    `json:"salary_generation_id"`
	GenerationNumber   string    `json:"generation_number"`
	CompanyID          string    `json:"company_id"`
	EmployeeID         string    `json:"employee_id"`
	Month              int       `json:"month"`
	Year               int       `json:"year"`
	Status             string    `json:"status"`
	GrossSalary        string    `json:"gross_salary"`
	NetSalary          string    `json:"net_salary"`
	ActorID            string    `json:"actor_id,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}
