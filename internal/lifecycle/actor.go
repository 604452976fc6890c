package lifecycle

// Capability is an object:action pair granted through roles.
type Capability string

const (
	CapProjectAdd        Capability = "project:add"
	CapProjectApprove    Capability = "project:approve"
	CapAllocationApprove Capability = "allocation:approve"
	CapAuditRead         Capability = "audit:read"
)

// Actor is the authenticated user behind a request.
type Actor struct {
	UserID       uint
	Email        string
	Capabilities map[Capability]bool
}

func (a Actor) Has(c Capability) bool {
	return a.Capabilities[c]
}
