package lifecycle

import (
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
)

type Reason string

const (
	ReasonTechLead                  Reason = "tech_lead"
	ReasonInvitedUser               Reason = "invited_user"
	ReasonRequestingUser            Reason = "requesting_user"
	ReasonCapabilityHolder          Reason = "capability_holder"
	ReasonNotCounterparty           Reason = "not_counterparty"
	ReasonNotPermittedForRole       Reason = "transition_not_permitted_for_role"
	ReasonMissingCapability         Reason = "missing_capability"
	ReasonSupervisorApprovalPending Reason = "supervisor_approval_pending"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func permit(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision   { return Decision{Allowed: false, Reason: r} }

// MembershipSubject is what the predicate needs to know about a membership.
type MembershipSubject struct {
	MemberID        uint
	TechLeadID      uint
	InitiatedByUser bool
	From            membership.Status
}

// AuthorizeMembership decides whether actor may move the membership to `to`.
// It does not check that the move is in the transition table.
//
// A join request (InitiatedByUser) is decided by the tech lead; the requester
// may only withdraw it. An invitation is decided by the invited user; the tech
// lead may only revoke or suspend it once authorised. The tech lead's own
// membership follows the project and cannot be changed on its own.
func AuthorizeMembership(actor Actor, s MembershipSubject, to membership.Status) Decision {
	if actor.UserID == 0 {
		return deny(ReasonNotCounterparty)
	}
	if s.MemberID == s.TechLeadID {
		if actor.UserID == s.TechLeadID {
			return deny(ReasonNotPermittedForRole)
		}
		return deny(ReasonNotCounterparty)
	}

	switch actor.UserID {
	case s.TechLeadID:
		if s.InitiatedByUser {
			return permit(ReasonTechLead)
		}
		if s.From == membership.StatusAuthorised &&
			(to == membership.StatusRevoked || to == membership.StatusSuspended) {
			return permit(ReasonTechLead)
		}
		return deny(ReasonNotPermittedForRole)

	case s.MemberID:
		if s.From != membership.StatusAwaitingAuthorisation {
			return deny(ReasonNotPermittedForRole)
		}
		if s.InitiatedByUser {
			if to == membership.StatusDeclined {
				return permit(ReasonRequestingUser)
			}
			return deny(ReasonNotPermittedForRole)
		}
		if to == membership.StatusAuthorised || to == membership.StatusDeclined {
			return permit(ReasonInvitedUser)
		}
		return deny(ReasonNotPermittedForRole)
	}

	return deny(ReasonNotCounterparty)
}

// ApprovalSubject is what the predicate needs to know about a project or
// allocation request.
type ApprovalSubject struct {
	Entity                  audit.EntityType
	NeedsSupervisorApproval bool
	SupervisorApproved      bool
}

// AuthorizeApproval requires the approval capability for the entity kind.
// Institutions that need supervisor sign-off block APPROVED until it is given.
func AuthorizeApproval(actor Actor, s ApprovalSubject, to project.Status) Decision {
	required := CapProjectApprove
	if s.Entity == audit.EntityAllocation || s.Entity == audit.EntityRSEAllocation {
		required = CapAllocationApprove
	}
	if !actor.Has(required) {
		return deny(ReasonMissingCapability)
	}
	if to == project.StatusApproved && s.NeedsSupervisorApproval && !s.SupervisorApproved {
		return deny(ReasonSupervisorApprovalPending)
	}
	return permit(ReasonCapabilityHolder)
}
