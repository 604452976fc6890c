package application

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/pkg/utils"
	"gorm.io/gorm"
)

type ProjectService struct {
	Repos *repository.Repos
	now   func() time.Time
}

func NewProjectService(repos *repository.Repos) *ProjectService {
	return &ProjectService{
		Repos: repos,
		now:   time.Now,
	}
}

func optional(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

// CreateProject files a new project with the actor as tech lead. The tech
// lead's own membership is created already authorised.
func (s *ProjectService) CreateProject(c *gin.Context, actor lifecycle.Actor, input project.CreateProjectDTO) (*project.Project, error) {
	p, err := s.newProject(actor, input)
	if err != nil {
		return nil, err
	}
	now := s.now()
	err = s.Repos.ExecTx(func(tx *repository.Repos) error {
		return createWithLead(tx, p, now)
	})
	if err != nil {
		return nil, err
	}

	utils.LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityProject, ID: p.ID, ProjectID: p.ID}, nil, p, "", s.Repos.Audit)
	return p, nil
}

// CreateProjectWithAllocation files a project and its first system
// allocation request in one transaction. Neither is kept if the other is
// rejected.
func (s *ProjectService) CreateProjectWithAllocation(c *gin.Context, actor lifecycle.Actor, input allocation.CreateProjectAndAllocationDTO) (*project.Project, *allocation.SystemAllocationRequest, error) {
	p, err := s.newProject(actor, input.Project)
	if err != nil {
		return nil, nil, err
	}
	now := s.now()
	var a *allocation.SystemAllocationRequest
	err = s.Repos.ExecTx(func(tx *repository.Repos) error {
		if err := createWithLead(tx, p, now); err != nil {
			return err
		}
		alloc, err := newAllocation(tx, p.ID, input.Allocation)
		if err != nil {
			return err
		}
		a = alloc
		return tx.Allocation.CreateAllocation(a)
	})
	if err != nil {
		return nil, nil, err
	}

	utils.LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityProject, ID: p.ID, ProjectID: p.ID}, nil, p, "", s.Repos.Audit)
	utils.LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityAllocation, ID: a.ID, ProjectID: p.ID}, nil, a, "", s.Repos.Audit)
	return p, a, nil
}

func (s *ProjectService) newProject(actor lifecycle.Actor, input project.CreateProjectDTO) (*project.Project, error) {
	if !actor.Has(lifecycle.CapProjectAdd) {
		return nil, ErrForbidden
	}
	u, err := s.Repos.User.GetUserByID(actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if u.InstitutionID == nil {
		return nil, ErrUnknownInstitution
	}

	return &project.Project{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		Department:      optional(input.Department),
		PI:              optional(input.PI),
		SupervisorName:  optional(input.SupervisorName),
		SupervisorEmail: optional(input.SupervisorEmail),
		InstitutionID:   *u.InstitutionID,
		TechLeadID:      u.ID,
		Status:          project.StatusAwaitingApproval,
		PreviousStatus:  project.StatusAwaitingApproval,
	}, nil
}

func createWithLead(tx *repository.Repos, p *project.Project, now time.Time) error {
	if err := tx.Project.CreateProject(p); err != nil {
		return err
	}
	lead := membership.New(p.ID, p.TechLeadID, false, now)
	lead.Status = membership.StatusAuthorised
	lead.PreviousStatus = membership.StatusAuthorised
	lead.ApprovedTime = now
	return tx.Membership.CreateMembership(lead)
}

func (s *ProjectService) GetProject(id uint) (*project.Project, error) {
	p, err := s.Repos.Project.GetProjectByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns every project to approvers and the led projects to
// everyone else.
func (s *ProjectService) ListProjects(actor lifecycle.Actor, status *project.Status) ([]project.Project, error) {
	if actor.Has(lifecycle.CapProjectApprove) {
		return s.Repos.Project.ListProjects(status)
	}
	projects, err := s.Repos.Project.ListProjectsByTechLead(actor.UserID)
	if err != nil || status == nil {
		return projects, err
	}
	filtered := projects[:0]
	for _, p := range projects {
		if p.Status == *status {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// SupervisorApprove records sign-off by the supervisor named on the project.
func (s *ProjectService) SupervisorApprove(c *gin.Context, actor lifecycle.Actor, id uint) (*project.Project, error) {
	p, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}
	if p.SupervisorEmail == "" || !strings.EqualFold(p.SupervisorEmail, actor.Email) {
		return nil, ErrForbidden
	}
	if p.SupervisorApproved {
		return p, nil
	}
	if err := s.Repos.Project.SetSupervisorApproved(id); err != nil {
		return nil, err
	}
	before := *p
	p.SupervisorApproved = true

	utils.LogAuditWithConsole(c, "supervisor_approve", audit.Ref{Entity: audit.EntityProject, ID: p.ID, ProjectID: p.ID}, before, p, "", s.Repos.Audit)
	return p, nil
}
