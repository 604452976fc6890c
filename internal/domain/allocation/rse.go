package allocation

import (
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/project"
)

// RSEAllocationRequest asks for research software engineer time on a
// project. It follows the same approval lifecycle as a system allocation
// but never touches the directory.
type RSEAllocationRequest struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProjectID       uint            `gorm:"not null;index" json:"project_id"`
	Project         project.Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Title           string          `gorm:"size:255;not null" json:"title"`
	DurationWeeks   uint            `gorm:"not null" json:"duration_weeks"`
	Goals           string          `gorm:"type:text" json:"goals"`
	Software        string          `gorm:"type:text" json:"software"`
	Outcomes        string          `gorm:"type:text" json:"outcomes"`
	Confidentiality string          `gorm:"type:text" json:"confidentiality"`
	Status          project.Status  `gorm:"size:32;not null;default:awaiting_approval;index" json:"status"`
	PreviousStatus  project.Status  `gorm:"size:32;not null;default:awaiting_approval" json:"previous_status"`
	ReasonDecision  string          `gorm:"type:text" json:"reason_decision"`
	ApprovedTime    time.Time       `gorm:"not null" json:"approved_time"`
	CreatedTime     time.Time       `gorm:"autoCreateTime" json:"created_time"`
	ModifiedTime    time.Time       `gorm:"autoUpdateTime" json:"modified_time"`
}

func (RSEAllocationRequest) TableName() string {
	return "rse_allocation_requests"
}
