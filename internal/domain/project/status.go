package project

// Status is the approval lifecycle shared by projects and allocation requests.
type Status string

const (
	StatusAwaitingApproval Status = "awaiting_approval"
	StatusApproved         Status = "approved"
	StatusDeclined         Status = "declined"
	StatusRevoked          Status = "revoked"
	StatusSuspended        Status = "suspended"
	StatusClosed           Status = "closed"
)

// StatusTransitions lists every permitted move. Anything absent is rejected.
var StatusTransitions = map[Status][]Status{
	StatusAwaitingApproval: {StatusApproved, StatusDeclined},
	StatusApproved:         {StatusRevoked, StatusSuspended, StatusClosed},
}

var allStatuses = []Status{
	StatusAwaitingApproval,
	StatusApproved,
	StatusDeclined,
	StatusRevoked,
	StatusSuspended,
	StatusClosed,
}

func Statuses() []Status {
	return append([]Status(nil), allStatuses...)
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range StatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Deactivates reports whether entering s takes the project out of service.
func (s Status) Deactivates() bool {
	return s == StatusRevoked || s == StatusSuspended || s == StatusClosed
}

func (s Status) String() string {
	return string(s)
}
