package application

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/pkg/utils"
	"gorm.io/gorm"
)

type MembershipService struct {
	Repos *repository.Repos
	now   func() time.Time
}

func NewMembershipService(repos *repository.Repos) *MembershipService {
	return &MembershipService{
		Repos: repos,
		now:   time.Now,
	}
}

// checkCandidate applies the rules shared by join requests and invitations.
func (s *MembershipService) checkCandidate(p project.Project, userID uint) error {
	if p.TechLeadID == userID {
		return ErrTechLeadIsMember
	}
	if p.IsAwaitingApproval() {
		return ErrProjectAwaitingApproval
	}
	_, err := s.Repos.Membership.FindMembership(p.ID, userID)
	if err == nil {
		return ErrAlreadyMember
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// JoinProject records a join request from the actor. The tech lead decides it.
func (s *MembershipService) JoinProject(c *gin.Context, actor lifecycle.Actor, input membership.JoinProjectDTO) (*membership.ProjectUserMembership, error) {
	code := strings.TrimSpace(input.ProjectCode)
	p, err := s.Repos.Project.GetProjectByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidProjectCode
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkCandidate(p, actor.UserID); err != nil {
		return nil, err
	}

	m := membership.New(p.ID, actor.UserID, true, s.now())
	if err := s.Repos.Membership.CreateMembership(m); err != nil {
		return nil, err
	}

	utils.LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityMembership, ID: m.ID, ProjectID: p.ID}, nil, m, "join request for "+code, s.Repos.Audit)
	return m, nil
}

// InviteUser invites the user with the given email to a project led by the actor.
func (s *MembershipService) InviteUser(c *gin.Context, actor lifecycle.Actor, projectID uint, input membership.InviteUserDTO) (*membership.ProjectUserMembership, error) {
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

	invitee, err := s.Repos.User.GetUserByEmail(strings.TrimSpace(input.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkCandidate(p, invitee.ID); err != nil {
		return nil, err
	}

	m := membership.New(p.ID, invitee.ID, false, s.now())
	if err := s.Repos.Membership.CreateMembership(m); err != nil {
		return nil, err
	}

	utils.LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityMembership, ID: m.ID, ProjectID: p.ID}, nil, m, "invitation to "+invitee.Email, s.Repos.Audit)
	return m, nil
}

func (s *MembershipService) GetMembership(id uint) (*membership.ProjectUserMembership, error) {
	m, err := s.Repos.Membership.GetMembershipByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMine returns the actor's memberships, newest first. Invitations the
// actor has to answer are included.
func (s *MembershipService) ListMine(actor lifecycle.Actor) ([]membership.ProjectUserMembership, error) {
	return s.Repos.Membership.ListMembershipsByUser(actor.UserID)
}

// ListRequests returns join requests on projects the actor leads.
func (s *MembershipService) ListRequests(actor lifecycle.Actor) ([]membership.ProjectUserMembership, error) {
	return s.Repos.Membership.ListRequestsForTechLead(actor.UserID)
}

// ListProjectMemberships is visible to the tech lead and to approvers.
func (s *MembershipService) ListProjectMemberships(actor lifecycle.Actor, projectID uint) ([]membership.ProjectUserMembership, error) {
	p, err := s.Repos.Project.GetProjectByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.TechLeadID != actor.UserID && !actor.Has(lifecycle.CapProjectApprove) {
		return nil, ErrNotTechLead
	}
	return s.Repos.Membership.ListMembershipsByProject(projectID)
}
