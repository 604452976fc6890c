package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
)

type ReconcileStore interface {
	ListProjects(status project.Status) ([]project.Project, error)
	ListMembershipsByProject(projectID uint) ([]membership.ProjectUserMembership, error)
}

// Plan derives the tasks that bring the directory in line with the database.
// Every task is idempotent, so replaying the plan is harmless.
func Plan(store ReconcileStore, now time.Time) ([]Task, error) {
	runID := "reconcile-" + uuid.NewString()
	var tasks []Task

	approved, err := store.ListProjects(project.StatusApproved)
	if err != nil {
		return nil, err
	}
	for _, p := range approved {
		members, err := store.ListMembershipsByProject(p.ID)
		if err != nil {
			return nil, fmt.Errorf("list members of project %d: %w", p.ID, err)
		}
		if p.Provisioned() {
			tasks = append(tasks, newTask(runID, OpActivateProject, p.ID, 0, now))
		} else {
			tasks = append(tasks, newTask(runID, OpCreateProject, p.ID, 0, now))
		}
		for _, m := range members {
			switch m.Status {
			case membership.StatusAuthorised:
				tasks = append(tasks, newTask(runID, OpCreateProjectMembership, p.ID, m.ID, now))
			case membership.StatusRevoked, membership.StatusSuspended:
				if p.Provisioned() {
					tasks = append(tasks, newTask(runID, OpDeleteProjectMembership, p.ID, m.ID, now))
				}
			}
		}
	}

	for _, status := range []project.Status{project.StatusRevoked, project.StatusSuspended, project.StatusClosed} {
		projects, err := store.ListProjects(status)
		if err != nil {
			return nil, err
		}
		for _, p := range projects {
			if p.Provisioned() {
				tasks = append(tasks, newTask(runID, OpDeactivateProject, p.ID, 0, now))
			}
		}
	}
	return tasks, nil
}

// Reconcile enqueues the full plan and returns how many tasks it queued.
func Reconcile(ctx context.Context, store ReconcileStore, queue Enqueuer) (int, error) {
	tasks, err := Plan(store, time.Now())
	if err != nil {
		return 0, err
	}
	if err := queue.Enqueue(ctx, tasks...); err != nil {
		return 0, err
	}
	slog.Info("directory reconcile queued tasks", "count", len(tasks))
	return len(tasks), nil
}
