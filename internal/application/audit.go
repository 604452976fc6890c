package application

import (
	"log/slog"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
)

type AuditService struct {
	Repos *repository.Repos
}

func NewAuditService(repos *repository.Repos) *AuditService {
	return &AuditService{
		Repos: repos,
	}
}

func (s *AuditService) QueryAuditLogs(actor lifecycle.Actor, f repository.AuditFilter) ([]audit.AuditLog, error) {
	if !actor.Has(lifecycle.CapAuditRead) {
		return nil, ErrForbidden
	}
	return s.Repos.Audit.ListAuditLogs(f)
}

// CleanupOldLogs drops audit entries older than days. Status history is
// kept regardless of age.
func (s *AuditService) CleanupOldLogs(days int) error {
	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := s.Repos.Audit.DeleteAuditLogsBefore(cutoff)
	if err != nil {
		return err
	}
	slog.Info("audit logs cleaned up", "deleted", n, "before", cutoff.Format(time.DateOnly))
	return nil
}

// History lists the status changes of one entity, oldest first.
func (s *AuditService) History(entity audit.EntityType, id uint) ([]audit.StatusChange, error) {
	switch entity {
	case audit.EntityMembership:
		if _, err := s.Repos.Membership.GetMembershipByID(id); err != nil {
			return nil, ErrMembershipNotFound
		}
	case audit.EntityProject:
		if _, err := s.Repos.Project.GetProjectByID(id); err != nil {
			return nil, ErrProjectNotFound
		}
	case audit.EntityAllocation:
		if _, err := s.Repos.Allocation.GetAllocationByID(id); err != nil {
			return nil, ErrAllocationNotFound
		}
	case audit.EntityRSEAllocation:
		if _, err := s.Repos.RSE.GetRSEAllocationByID(id); err != nil {
			return nil, ErrRSEAllocationNotFound
		}
	}
	return s.Repos.History.ListStatusChanges(entity, id)
}
