package db_models

import (
	"gorm.io/datatypes"
)

type PlanStatus string

const (
	PlanStatusPending  PlanStatus = "pending"
	PlanStatusApproved PlanStatus = "approved"
	PlanStatusRejected PlanStatus = "rejected"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanStatusPending, PlanStatusApproved, PlanStatusRejected:
		return true
	}
	return false
}

// LearningPlan is one generated curriculum together with the answers it was
// generated from.
type LearningPlan struct {
	BaseModel
	SessionKey         string `gorm:"size:64;index"`
	ProjectDescription string `gorm:"type:text;not null"`
	DeveloperLevel     string `gorm:"size:32;not null"`
	Framework          string `gorm:"size:200"`
	SoftwareType       string `gorm:"size:200"`
	PlanData           datatypes.JSON
	Status             PlanStatus `gorm:"size:16;index;not null;default:pending"`
	Source             string     `gorm:"size:16"` // primary, minimal or static
	ApprovedAt         *int64
}
