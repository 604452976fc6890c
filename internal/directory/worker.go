package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/observability"
	"golang.org/x/time/rate"
)

// WorkerStore is what the worker reads and writes in the portal database.
type WorkerStore interface {
	GetProject(id uint) (project.Project, error)
	GetMembership(id uint) (membership.ProjectUserMembership, error)
	AssignGIDNumber(projectID, gid uint) (bool, error)
}

type WorkerConfig struct {
	MaxAttempts    int
	Backoff        time.Duration
	MaxBackoff     time.Duration
	RatePerSecond  float64
	Burst          int
	GIDBase        uint
	ReserveTimeout time.Duration
}

func (c *WorkerConfig) setDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 8
	}
	if c.Backoff <= 0 {
		c.Backoff = 5 * time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = time.Hour
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 5
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.ReserveTimeout <= 0 {
		c.ReserveTimeout = 5 * time.Second
	}
}

// Worker drains the sync queue into the directory.
type Worker struct {
	queue   *Queue
	dir     Directory
	store   WorkerStore
	limiter *rate.Limiter
	cfg     WorkerConfig
	now     func() time.Time
}

func NewWorker(queue *Queue, dir Directory, store WorkerStore, cfg WorkerConfig) *Worker {
	cfg.setDefaults()
	return &Worker{
		queue:   queue,
		dir:     dir,
		store:   store,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Run recovers orphaned tasks and then processes tasks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	n, err := w.queue.RecoverProcessing(ctx)
	if err != nil {
		return fmt.Errorf("recover processing list: %w", err)
	}
	if n > 0 {
		slog.Info("requeued unfinished directory tasks", "count", n)
	}

	slog.Info("directory worker started",
		"rate_per_second", w.cfg.RatePerSecond,
		"max_attempts", w.cfg.MaxAttempts)

	for {
		if ctx.Err() != nil {
			slog.Info("directory worker stopped")
			return nil
		}
		if _, err := w.ProcessNext(ctx); err != nil && ctx.Err() == nil {
			if errors.Is(err, ErrMalformedTask) {
				slog.Error("dropped malformed task to dead-letter list", "error", err)
				continue
			}
			slog.Error("directory worker queue error", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// ProcessNext handles at most one task. It reports whether a task was taken.
// A task that fails is rescheduled or buried; that is not an error here.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	if _, err := w.queue.PromoteDue(ctx, w.now()); err != nil {
		return false, err
	}

	r, err := w.queue.Reserve(ctx, w.cfg.ReserveTimeout)
	if errors.Is(err, ErrQueueEmpty) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return true, err
	}

	t := r.Task
	applyErr := w.Apply(ctx, t)
	if applyErr == nil {
		observability.SyncTasks.WithLabelValues(string(t.Op), "ok").Inc()
		slog.Debug("directory task done", "task_id", t.ID, "op", t.Op, "project_id", t.ProjectID, "membership_id", t.MembershipID)
		return true, w.queue.Ack(ctx, r)
	}

	t.Attempts++
	t.LastError = applyErr.Error()
	if t.Attempts >= w.cfg.MaxAttempts {
		observability.SyncTasks.WithLabelValues(string(t.Op), "dead").Inc()
		slog.Error("directory task gave up",
			"task_id", t.ID, "op", t.Op, "project_id", t.ProjectID,
			"membership_id", t.MembershipID, "attempts", t.Attempts, "error", applyErr)
		return true, w.queue.Bury(ctx, r, t)
	}

	at := w.now().Add(w.backoff(t.Attempts))
	observability.SyncTasks.WithLabelValues(string(t.Op), "retry").Inc()
	slog.Warn("directory task failed, will retry",
		"task_id", t.ID, "op", t.Op, "project_id", t.ProjectID,
		"membership_id", t.MembershipID, "attempts", t.Attempts, "retry_at", at, "error", applyErr)
	return true, w.queue.Retry(ctx, r, t, at)
}

func (w *Worker) backoff(attempts int) time.Duration {
	d := w.cfg.Backoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= w.cfg.MaxBackoff {
			return w.cfg.MaxBackoff
		}
	}
	return d
}

// Apply performs t against the directory. Membership tasks read the current
// membership so a task queued before a later transition does nothing stale.
func (w *Worker) Apply(ctx context.Context, t Task) error {
	switch t.Op {
	case OpCreateProject:
		return w.createProject(ctx, t.ProjectID)
	case OpActivateProject, OpDeactivateProject:
		p, err := w.store.GetProject(t.ProjectID)
		if err != nil {
			return err
		}
		if !p.Provisioned() {
			if t.Op == OpDeactivateProject {
				return nil
			}
			return errNotProvisioned
		}
		return w.dir.SetProjectActive(ctx, p.CodeString(), t.Op == OpActivateProject)
	case OpCreateProjectMembership:
		m, err := w.store.GetMembership(t.MembershipID)
		if err != nil {
			return err
		}
		if m.Status != membership.StatusAuthorised {
			slog.Info("skipping membership no longer authorised", "membership_id", m.ID, "status", m.Status)
			return nil
		}
		if !m.Project.Provisioned() {
			return errNotProvisioned
		}
		return w.dir.AddMember(ctx, m.Project.CodeString(), m.User.Username)
	case OpDeleteProjectMembership:
		m, err := w.store.GetMembership(t.MembershipID)
		if err != nil {
			return err
		}
		if !m.Project.Provisioned() {
			return nil
		}
		return w.dir.RemoveMember(ctx, m.Project.CodeString(), m.User.Username)
	}
	return fmt.Errorf("unknown directory op %q", t.Op)
}

func (w *Worker) createProject(ctx context.Context, projectID uint) error {
	p, err := w.store.GetProject(projectID)
	if err != nil {
		return err
	}

	if !p.Provisioned() {
		gid := w.cfg.GIDBase + p.ID
		assigned, err := w.store.AssignGIDNumber(p.ID, gid)
		if err != nil {
			return fmt.Errorf("assign gid %d: %w", gid, err)
		}
		if !assigned {
			// Someone else got there first; use what they stored.
			if p, err = w.store.GetProject(projectID); err != nil {
				return err
			}
		} else {
			p.GIDNumber = &gid
		}
	}

	if !p.Provisioned() {
		return errNotProvisioned
	}
	return w.dir.CreateProject(ctx, p.CodeString(), *p.GIDNumber, !p.Status.Deactivates())
}
