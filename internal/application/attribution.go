package application

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/funding"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/pkg/utils"
	"gorm.io/gorm"
)

type AttributionService struct {
	Repos *repository.Repos
}

func NewAttributionService(repos *repository.Repos) *AttributionService {
	return &AttributionService{
		Repos: repos,
	}
}

func (s *AttributionService) CreateAttribution(c *gin.Context, actor lifecycle.Actor, input funding.CreateAttributionDTO) (*funding.Attribution, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("unknown attribution type %q", input.Type)
	}
	a := &funding.Attribution{
		Title:       input.Title,
		Type:        input.Type,
		Identifier:  input.Identifier,
		FundingBody: input.FundingBody,
		PIEmail:     input.PIEmail,
		CreatedByID: actor.UserID,
	}
	if err := s.Repos.Attribution.CreateAttribution(a); err != nil {
		return nil, err
	}
	utils.LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityAttribution, ID: a.ID}, nil, a, "", s.Repos.Audit)
	return a, nil
}

func (s *AttributionService) ListMine(actor lifecycle.Actor) ([]funding.Attribution, error) {
	return s.Repos.Attribution.ListAttributionsByCreator(actor.UserID)
}

func (s *AttributionService) ListForProject(projectID uint) ([]funding.Attribution, error) {
	if _, err := s.Repos.Project.GetProjectByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return s.Repos.Attribution.ListAttributionsByProject(projectID)
}

// AttachToProject credits an attribution to a project led by the actor.
func (s *AttributionService) AttachToProject(c *gin.Context, actor lifecycle.Actor, projectID, attributionID uint) error {
	p, err := s.Repos.Project.GetProjectByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProjectNotFound
	}
	if err != nil {
		return err
	}
	if p.TechLeadID != actor.UserID {
		return ErrNotTechLead
	}
	if _, err := s.Repos.Attribution.GetAttributionByID(attributionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttributionNotFound
		}
		return err
	}
	if err := s.Repos.Attribution.AttachToProject(attributionID, projectID); err != nil {
		return err
	}
	utils.LogAuditWithConsole(c, "attach", audit.Ref{Entity: audit.EntityAttribution, ID: attributionID, ProjectID: projectID}, nil, map[string]uint{"project_id": projectID}, "", s.Repos.Audit)
	return nil
}
