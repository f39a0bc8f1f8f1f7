package formula

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Formula struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID         uuid.UUID      `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_formula_code,where:deleted_at IS NULL"`
	Code              string         `gorm:"column:code;type:varchar(50);not null;uniqueIndex:uq_formula_code,where:deleted_at IS NULL"`
	Name              string         `gorm:"column:name;type:varchar(100);not null"`
	Description       *string        `gorm:"column:description;type:text"`
	Expression        string         `gorm:"column:expression;type:text;not null"`
	ParsedTree        datatypes.JSON `gorm:"column:parsed_tree;type:jsonb"`
	Variables         pq.StringArray `gorm:"column:variables;type:text[]"`
	TargetComponentID *uuid.UUID     `gorm:"column:target_component_id;type:uuid;index"`
	DesignationIDs    pq.StringArray `gorm:"column:designation_ids;type:text[]"`
	EmploymentTypeIDs pq.StringArray `gorm:"column:employment_type_ids;type:text[]"`
	Priority          int            `gorm:"column:priority;not null;default:0"`
	IsActive          bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Formula) TableName() string {
	return "formulas"
}

// Matches reports whether the formula applies to a component for an
// employee of the given designation and employment type. An empty filter
// list matches everything.
func (f Formula) Matches(componentID, designationID, employmentTypeID string) bool {
	if !f.IsActive {
		return false
	}
	if f.TargetComponentID != nil && f.TargetComponentID.String() != componentID {
		return false
	}
	return matchesFilter(f.DesignationIDs, designationID) &&
		matchesFilter(f.EmploymentTypeIDs, employmentTypeID)
}

func matchesFilter(allowed []string, id string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == id {
			return true
		}
	}
	return false
}

// SelectApplicable picks the matching formula with the lowest priority
// number, breaking ties by code.
func SelectApplicable(formulas []Formula, componentID, designationID, employmentTypeID string) (*Formula, bool) {
	var best *Formula
	for i := range formulas {
		f := &formulas[i]
		if !f.Matches(componentID, designationID, employmentTypeID) {
			continue
		}
		if best == nil || f.Priority < best.Priority || (f.Priority == best.Priority && f.Code < best.Code) {
			best = f
		}
	}
	return best, best != nil
}
