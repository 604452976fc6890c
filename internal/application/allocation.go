package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/domain/system"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/internal/storage"
	"github.com/linskybing/hpc-portal/pkg/utils"
	"gorm.io/gorm"
)

// DocumentStore holds allocation supporting documents.
type DocumentStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

type AllocationService struct {
	Repos     *repository.Repos
	Documents DocumentStore
}

func NewAllocationService(repos *repository.Repos, documents DocumentStore) *AllocationService {
	return &AllocationService{
		Repos:     repos,
		Documents: documents,
	}
}

// CreateAllocation files a request for resources on a system. Only the
// project's tech lead may ask.
func (s *AllocationService) CreateAllocation(c *gin.Context, actor lifecycle.Actor, projectID uint, input allocation.CreateAllocationDTO) (*allocation.SystemAllocationRequest, error) {
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
	a, err := newAllocation(s.Repos, p.ID, input)
	if err != nil {
		return nil, err
	}
	if err := s.Repos.Allocation.CreateAllocation(a); err != nil {
		return nil, err
	}

	utils.LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityAllocation, ID: a.ID, ProjectID: a.ProjectID}, nil, a, "", s.Repos.Audit)
	return a, nil
}

// newAllocation checks input against the catalogue and builds an unsaved
// request awaiting approval.
func newAllocation(repos *repository.Repos, projectID uint, input allocation.CreateAllocationDTO) (*allocation.SystemAllocationRequest, error) {
	if _, err := repos.System.GetSystemByID(input.SystemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSystemNotFound
		}
		return nil, err
	}
	start, end, err := input.Period()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}

	return &allocation.SystemAllocationRequest{
		ProjectID:                projectID,
		SystemID:                 input.SystemID,
		StartDate:                start,
		EndDate:                  end,
		AllocationCPUTime:        input.AllocationCPUTime,
		AllocationMemory:         input.AllocationMemory,
		AllocationStorageHome:    input.AllocationStorageHome,
		AllocationStorageScratch: input.AllocationStorageScratch,
		RequirementsSoftware:     input.RequirementsSoftware,
		RequirementsTraining:     input.RequirementsTraining,
		RequirementsOnboarding:   input.RequirementsOnboarding,
		Status:                   project.StatusAwaitingApproval,
		PreviousStatus:           project.StatusAwaitingApproval,
		ApprovedTime:             project.OpenEnded,
	}, nil
}

// canSee allows the tech lead and allocation approvers.
func canSee(actor lifecycle.Actor, a allocation.SystemAllocationRequest) bool {
	return a.Project.TechLeadID == actor.UserID || actor.Has(lifecycle.CapAllocationApprove)
}

func (s *AllocationService) GetAllocation(actor lifecycle.Actor, id uint) (*allocation.SystemAllocationRequest, error) {
	a, err := s.Repos.Allocation.GetAllocationByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAllocationNotFound
	}
	if err != nil {
		return nil, err
	}
	if !canSee(actor, a) {
		return nil, ErrForbidden
	}
	return &a, nil
}

func (s *AllocationService) ListAllocations(actor lifecycle.Actor, status *project.Status) ([]allocation.SystemAllocationRequest, error) {
	if !actor.Has(lifecycle.CapAllocationApprove) {
		return nil, ErrForbidden
	}
	return s.Repos.Allocation.ListAllocations(status)
}

func (s *AllocationService) ListProjectAllocations(actor lifecycle.Actor, projectID uint) ([]allocation.SystemAllocationRequest, error) {
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
	return s.Repos.Allocation.ListAllocationsByProject(projectID)
}

func (s *AllocationService) ListSystems() ([]system.System, error) {
	return s.Repos.System.ListSystems()
}

// UploadDocument stores the supporting document and records its key.
func (s *AllocationService) UploadDocument(c *gin.Context, actor lifecycle.Actor, id uint, filename string, r io.Reader, size int64, contentType string) (*allocation.SystemAllocationRequest, error) {
	a, err := s.GetAllocation(actor, id)
	if err != nil {
		return nil, err
	}
	if a.Project.TechLeadID != actor.UserID {
		return nil, ErrNotTechLead
	}

	key := a.DocumentKey(storage.CleanFilename(filename))
	if err := s.Documents.Put(c.Request.Context(), key, r, size, contentType); err != nil {
		return nil, err
	}
	if err := s.Repos.Allocation.SetDocument(a.ID, key); err != nil {
		return nil, err
	}
	a.Document = &key

	utils.LogAuditWithConsole(c, "upload", audit.Ref{Entity: audit.EntityAllocation, ID: a.ID, ProjectID: a.ProjectID}, nil, map[string]string{"document": key}, "", s.Repos.Audit)
	return a, nil
}

// OpenDocument returns the supporting document. The caller closes it.
func (s *AllocationService) OpenDocument(ctx context.Context, actor lifecycle.Actor, id uint) (io.ReadCloser, int64, string, error) {
	a, err := s.GetAllocation(actor, id)
	if err != nil {
		return nil, 0, "", err
	}
	if a.Document == nil || *a.Document == "" {
		return nil, 0, "", ErrNoDocument
	}
	body, size, err := s.Documents.Open(ctx, *a.Document)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		return nil, 0, "", ErrNoDocument
	}
	if err != nil {
		return nil, 0, "", err
	}
	return body, size, *a.Document, nil
}
