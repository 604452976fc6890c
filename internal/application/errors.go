package application

import "errors"

var (
	ErrMembershipNotFound    = errors.New("membership not found")
	ErrProjectNotFound       = errors.New("project not found")
	ErrAllocationNotFound    = errors.New("allocation request not found")
	ErrRSEAllocationNotFound = errors.New("rse time request not found")
	ErrAttributionNotFound   = errors.New("attribution not found")
	ErrSystemNotFound        = errors.New("system not found")
	ErrUserNotFound          = errors.New("user not found")

	ErrInvalidProjectCode      = errors.New("invalid project code")
	ErrAlreadyMember           = errors.New("a membership for this user and project already exists")
	ErrProjectAwaitingApproval = errors.New("project is still awaiting approval")
	ErrTechLeadIsMember        = errors.New("the tech lead is already a member of this project")
	ErrNotTechLead             = errors.New("only the project's tech lead can do this")
	ErrForbidden               = errors.New("not allowed")

	ErrUnknownInstitution = errors.New("your institution is not registered with the portal")
	ErrMissingIdentity    = errors.New("no identity supplied by the identity provider")
	ErrUnknownRole        = errors.New("unknown role")
	ErrNoDocument         = errors.New("allocation request has no supporting document")
	ErrInvalidPeriod      = errors.New("invalid allocation period")
	ErrRSENotOffered      = errors.New("your institution does not accept rse time requests")
)
