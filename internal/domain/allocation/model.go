package allocation

import (
	"fmt"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/domain/system"
)

// SystemAllocationRequest asks for resources on one system for a project.
type SystemAllocationRequest struct {
	ID                       uint            `gorm:"primaryKey" json:"id"`
	ProjectID                uint            `gorm:"not null;index" json:"project_id"`
	Project                  project.Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	SystemID                 uint            `gorm:"not null;index" json:"system_id"`
	System                   system.System   `gorm:"foreignKey:SystemID" json:"system,omitempty"`
	StartDate                time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate                  time.Time       `gorm:"type:date;not null" json:"end_date"`
	AllocationCPUTime        uint64          `gorm:"column:allocation_cputime" json:"allocation_cputime"`
	AllocationMemory         uint64          `json:"allocation_memory"`
	AllocationStorageHome    uint64          `json:"allocation_storage_home"`
	AllocationStorageScratch uint64          `json:"allocation_storage_scratch"`
	RequirementsSoftware     string          `gorm:"type:text" json:"requirements_software"`
	RequirementsTraining     string          `gorm:"type:text" json:"requirements_training"`
	RequirementsOnboarding   string          `gorm:"type:text" json:"requirements_onboarding"`
	Document                 *string         `gorm:"size:512" json:"document"`
	Status                   project.Status  `gorm:"size:32;not null;default:awaiting_approval;index" json:"status"`
	PreviousStatus           project.Status  `gorm:"size:32;not null;default:awaiting_approval" json:"previous_status"`
	ReasonDecision           string          `gorm:"type:text" json:"reason_decision"`
	ApprovedTime             time.Time       `gorm:"not null" json:"approved_time"`
	CreatedTime              time.Time       `gorm:"autoCreateTime" json:"created_time"`
	ModifiedTime             time.Time       `gorm:"autoUpdateTime" json:"modified_time"`
}

func (SystemAllocationRequest) TableName() string {
	return "system_allocation_requests"
}

// DocumentKey is the object key used for the supporting document.
func (a *SystemAllocationRequest) DocumentKey(filename string) string {
	return fmt.Sprintf("allocations/%d/%s", a.ID, filename)
}
