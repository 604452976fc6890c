package allocation

import (
	"fmt"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/project"
)

const DateLayout = "2006-01-02"

type CreateAllocationDTO struct {
	SystemID                 uint   `json:"system_id" form:"system_id" binding:"required"`
	StartDate                string `json:"start_date" form:"start_date" binding:"required,datetime=2006-01-02" example:"2026-01-01"`
	EndDate                  string `json:"end_date" form:"end_date" binding:"required,datetime=2006-01-02" example:"2026-12-31"`
	AllocationCPUTime        uint64 `json:"allocation_cputime" form:"allocation_cputime"`
	AllocationMemory         uint64 `json:"allocation_memory" form:"allocation_memory"`
	AllocationStorageHome    uint64 `json:"allocation_storage_home" form:"allocation_storage_home"`
	AllocationStorageScratch uint64 `json:"allocation_storage_scratch" form:"allocation_storage_scratch"`
	RequirementsSoftware     string `json:"requirements_software" form:"requirements_software"`
	RequirementsTraining     string `json:"requirements_training" form:"requirements_training"`
	RequirementsOnboarding   string `json:"requirements_onboarding" form:"requirements_onboarding"`
}

type CreateRSEAllocationDTO struct {
	Title           string `json:"title" form:"title" binding:"required,max=255"`
	DurationWeeks   uint   `json:"duration_weeks" form:"duration_weeks" binding:"required,min=1,max=52"`
	Goals           string `json:"goals" form:"goals" binding:"required"`
	Software        string `json:"software" form:"software"`
	Outcomes        string `json:"outcomes" form:"outcomes"`
	Confidentiality string `json:"confidentiality" form:"confidentiality"`
}

// CreateProjectAndAllocationDTO files a project and its first system
// allocation request together.
type CreateProjectAndAllocationDTO struct {
	Project    project.CreateProjectDTO `json:"project"`
	Allocation CreateAllocationDTO      `json:"allocation"`
}

// Period parses the requested dates and checks that the range is not empty.
func (d CreateAllocationDTO) Period() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, d.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(DateLayout, d.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date must be after start_date")
	}
	return start, end, nil
}
