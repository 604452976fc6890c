package application

import (
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
)

// Deps are the collaborators that live outside the database.
type Deps struct {
	Publisher lifecycle.Publisher
	Documents DocumentStore
	Roles     RoleCatalog
}

type Services struct {
	Admin       *AdminService
	Allocation  *AllocationService
	Attribution *AttributionService
	Audit       *AuditService
	Membership  *MembershipService
	Project     *ProjectService
	Transition  *TransitionService
	User        *UserService
}

func New(repos *repository.Repos, deps Deps) *Services {
	return &Services{
		Admin:       NewAdminService(repos, deps.Roles),
		Allocation:  NewAllocationService(repos, deps.Documents),
		Attribution: NewAttributionService(repos),
		Audit:       NewAuditService(repos),
		Membership:  NewMembershipService(repos),
		Project:     NewProjectService(repos),
		Transition:  NewTransitionService(repos, deps.Publisher),
		User:        NewUserService(repos),
	}
}
