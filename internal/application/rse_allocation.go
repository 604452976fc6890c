package application

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/pkg/utils"
	"gorm.io/gorm"
)

// CreateRSEAllocation asks for research software engineer time. Only the
// tech lead may ask, and only when the project's institution offers it.
func (s *AllocationService) CreateRSEAllocation(c *gin.Context, actor lifecycle.Actor, projectID uint, input allocation.CreateRSEAllocationDTO) (*allocation.RSEAllocationRequest, error) {
	p, err := s.Repos.Project.GetProjectByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.TechLeadID != actor.UserID {
		return nil, ErrNotTechLead
	}
	inst, err := s.Repos.Institution.GetInstitutionByID(p.InstitutionID)
	if err != nil {
		return nil, err
	}
	if !inst.AllowsRSERequests {
		return nil, ErrRSENotOffered
	}

	a := &allocation.RSEAllocationRequest{
		ProjectID:       p.ID,
		Title:           strings.TrimSpace(input.Title),
		DurationWeeks:   input.DurationWeeks,
		Goals:           input.Goals,
		Software:        input.Software,
		Outcomes:        input.Outcomes,
		Confidentiality: input.Confidentiality,
		Status:          project.StatusAwaitingApproval,
		PreviousStatus:  project.StatusAwaitingApproval,
		ApprovedTime:    project.OpenEnded,
	}
	if err := s.Repos.RSE.CreateRSEAllocation(a); err != nil {
		return nil, err
	}

	utils.LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityRSEAllocation, ID: a.ID, ProjectID: a.ProjectID}, nil, a, "", s.Repos.Audit)
	return a, nil
}

func (s *AllocationService) GetRSEAllocation(actor lifecycle.Actor, id uint) (*allocation.RSEAllocationRequest, error) {
	a, err := s.Repos.RSE.GetRSEAllocationByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRSEAllocationNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.Project.TechLeadID != actor.UserID && !actor.Has(lifecycle.CapAllocationApprove) {
		return nil, ErrForbidden
	}
	return &a, nil
}

func (s *AllocationService) ListRSEAllocations(actor lifecycle.Actor, status *project.Status) ([]allocation.RSEAllocationRequest, error) {
	if !actor.Has(lifecycle.CapAllocationApprove) {
		return nil, ErrForbidden
	}
	return s.Repos.RSE.ListRSEAllocations(status)
}

func (s *AllocationService) ListProjectRSEAllocations(actor lifecycle.Actor, projectID uint) ([]allocation.RSEAllocationRequest, error) {
	p, err := s.Repos.Project.GetProjectByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.TechLeadID != actor.UserID && !actor.Has(lifecycle.CapAllocationApprove) {
		return nil, ErrForbidden
	}
	return s.Repos.RSE.ListRSEAllocationsByProject(projectID)
}
