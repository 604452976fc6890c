package directory

import (
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
)

// Op names a directory operation.
type Op string

const (
	OpCreateProject           Op = "create_project"
	OpActivateProject         Op = "activate_project"
	OpDeactivateProject       Op = "deactivate_project"
	OpCreateProjectMembership Op = "create_project_membership"
	OpDeleteProjectMembership Op = "delete_project_membership"
)

// Task is one unit of directory work. Tasks carry ids only; the worker reads
// the current rows when it runs them.
type Task struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	Op           Op        `json:"op"`
	ProjectID    uint      `json:"project_id"`
	MembershipID uint      `json:"membership_id,omitempty"`
	Attempts     int       `json:"attempts"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
	LastError    string    `json:"last_error,omitempty"`
}

func newTask(eventID string, op Op, projectID, membershipID uint, at time.Time) Task {
	return Task{
		ID:           uuid.NewString(),
		EventID:      eventID,
		Op:           op,
		ProjectID:    projectID,
		MembershipID: membershipID,
		EnqueuedAt:   at,
	}
}

// NeedsCatchUp reports whether TasksFor will want the project's authorised
// memberships for ev.
func NeedsCatchUp(ev lifecycle.Event, p project.Project) bool {
	return ev.Entity != audit.EntityMembership &&
		ev.Entity != audit.EntityRSEAllocation &&
		project.Status(ev.To) == project.StatusApproved &&
		!p.Provisioned()
}

// TasksFor maps a committed transition to the directory tasks it requires.
// authorised is only consulted when the project is approved for the first
// time, to catch up members who joined before the group existed.
func TasksFor(ev lifecycle.Event, p project.Project, authorised []membership.ProjectUserMembership) []Task {
	at := ev.OccurredAt

	if ev.Entity == audit.EntityRSEAllocation {
		return nil
	}
	if ev.Entity == audit.EntityMembership {
		switch membership.Status(ev.To) {
		case membership.StatusAuthorised:
			if !p.Provisioned() {
				return nil
			}
			return []Task{newTask(ev.ID, OpCreateProjectMembership, p.ID, ev.EntityID, at)}
		case membership.StatusRevoked, membership.StatusSuspended:
			return []Task{newTask(ev.ID, OpDeleteProjectMembership, p.ID, ev.EntityID, at)}
		}
		return nil
	}

	to := project.Status(ev.To)
	switch {
	case to == project.StatusApproved && !p.Provisioned():
		tasks := []Task{newTask(ev.ID, OpCreateProject, p.ID, 0, at)}
		for _, m := range authorised {
			if m.Status != membership.StatusAuthorised {
				continue
			}
			tasks = append(tasks, newTask(ev.ID, OpCreateProjectMembership, p.ID, m.ID, at))
		}
		return tasks
	case to == project.StatusApproved:
		return []Task{newTask(ev.ID, OpActivateProject, p.ID, 0, at)}
	case to.Deactivates():
		return []Task{newTask(ev.ID, OpDeactivateProject, p.ID, 0, at)}
	}
	return nil
}
