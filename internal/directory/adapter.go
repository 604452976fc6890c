package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/observability"
)

// Store is the read side the adapter needs to plan tasks.
type Store interface {
	GetProject(id uint) (project.Project, error)
	ListAuthorisedMemberships(projectID uint) ([]membership.ProjectUserMembership, error)
}

type Enqueuer interface {
	Enqueue(ctx context.Context, tasks ...Task) error
}

// Adapter turns committed transitions into queued directory tasks. It is the
// lifecycle.Publisher used by the API.
type Adapter struct {
	store    Store
	queue    Enqueuer
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

type AdapterOption func(*Adapter)

func WithEnqueueRetry(attempts int, backoff time.Duration) AdapterOption {
	return func(a *Adapter) {
		if attempts > 0 {
			a.attempts = attempts
		}
		a.backoff = backoff
	}
}

func NewAdapter(store Store, queue Enqueuer, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		store:    store,
		queue:    queue,
		attempts: 3,
		backoff:  100 * time.Millisecond,
		timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ lifecycle.Publisher = (*Adapter)(nil)

// Publish never fails the caller. The transition is already committed, so a
// failure here is logged and left for reconcile.
func (a *Adapter) Publish(ctx context.Context, ev lifecycle.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	tasks, err := a.plan(ev)
	if err != nil {
		a.fail(ev, "plan", err)
		return
	}
	if len(tasks) == 0 {
		return
	}

	if err := a.enqueue(ctx, tasks); err != nil {
		for _, t := range tasks {
			observability.SyncDispatch.WithLabelValues(string(t.Op), "failure").Inc()
		}
		a.fail(ev, "enqueue", err)
		return
	}
	for _, t := range tasks {
		observability.SyncDispatch.WithLabelValues(string(t.Op), "ok").Inc()
		slog.Debug("directory task queued", "task_id", t.ID, "op", t.Op, "event_id", ev.ID)
	}
}

func (a *Adapter) enqueue(ctx context.Context, tasks []Task) error {
	var err error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		if err = a.queue.Enqueue(ctx, tasks...); err == nil {
			return nil
		}
		if attempt == a.attempts {
			break
		}
		slog.Warn("enqueue directory tasks failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.backoff * time.Duration(attempt)):
		}
	}
	return err
}

func (a *Adapter) plan(ev lifecycle.Event) ([]Task, error) {
	p, err := a.store.GetProject(ev.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load project %d: %w", ev.ProjectID, err)
	}
	var authorised []membership.ProjectUserMembership
	if NeedsCatchUp(ev, p) {
		if authorised, err = a.store.ListAuthorisedMemberships(p.ID); err != nil {
			return nil, fmt.Errorf("list members of project %d: %w", p.ID, err)
		}
	}
	return TasksFor(ev, p, authorised), nil
}

func (a *Adapter) fail(ev lifecycle.Event, stage string, err error) {
	if stage == "plan" {
		observability.SyncDispatch.WithLabelValues("unknown", "failure").Inc()
	}
	slog.Error("directory sync dispatch failed",
		"error", fmt.Errorf("%w: %s: %v", lifecycle.ErrSyncDispatch, stage, err),
		"event_id", ev.ID,
		"entity", ev.Entity,
		"entity_id", ev.EntityID,
		"project_id", ev.ProjectID,
		"to", ev.To)
}
