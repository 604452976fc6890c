package handlers

import (
	"github.com/linskybing/hpc-portal/internal/application"
)

type Handlers struct {
	Allocation  *AllocationHandler
	Attribution *AttributionHandler
	Audit       *AuditHandler
	Membership  *MembershipHandler
	Project     *ProjectHandler
	User        *UserHandler
}

func New(svc *application.Services) *Handlers {
	return &Handlers{
		Allocation:  NewAllocationHandler(svc.Allocation, svc.Transition, svc.Audit),
		Attribution: NewAttributionHandler(svc.Attribution),
		Audit:       NewAuditHandler(svc.Audit),
		Membership:  NewMembershipHandler(svc.Membership, svc.Transition, svc.Audit),
		Project:     NewProjectHandler(svc.Project, svc.Transition, svc.Audit),
		User:        NewUserHandler(svc.User),
	}
}
