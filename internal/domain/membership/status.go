package membership

// Status of a user's membership of a project.
type Status string

const (
	StatusAwaitingAuthorisation Status = "awaiting_authorisation"
	StatusAuthorised            Status = "authorised"
	StatusDeclined              Status = "declined"
	StatusRevoked               Status = "revoked"
	StatusSuspended             Status = "suspended"
)

// StatusTransitions lists every permitted move. Anything absent is rejected.
var StatusTransitions = map[Status][]Status{
	StatusAwaitingAuthorisation: {StatusAuthorised, StatusDeclined},
	StatusAuthorised:            {StatusRevoked, StatusSuspended},
}

var allStatuses = []Status{
	StatusAwaitingAuthorisation,
	StatusAuthorised,
	StatusDeclined,
	StatusRevoked,
	StatusSuspended,
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

// Ends reports whether entering s closes the membership.
func (s Status) Ends() bool {
	return s == StatusDeclined || s == StatusRevoked || s == StatusSuspended
}

func (s Status) String() string {
	return string(s)
}
