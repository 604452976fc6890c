package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/institution"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []lifecycle.Event
}

func (r *recordedEvents) Publish(_ context.Context, ev lifecycle.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type transitionEnv struct {
	db     *gorm.DB
	repos  *repository.Repos
	svc    *TransitionService
	events *recordedEvents
	fx     testutils.Fixture
	now    time.Time
}

func setupTransitions(t *testing.T) *transitionEnv {
	t.Helper()
	db := testutils.NewSQLiteDB(t)
	fx := testutils.Seed(t, db)
	repos := repository.NewRepositories(db)
	events := &recordedEvents{}
	svc := NewTransitionService(repos, events)
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return &transitionEnv{db: db, repos: repos, svc: svc, events: events, fx: fx, now: now}
}

func (e *transitionEnv) approveProject(t *testing.T, gid *uint) {
	t.Helper()
	require.NoError(t, e.db.Model(&project.Project{}).Where("id = ?", e.fx.Project.ID).
		Updates(map[string]any{"status": project.StatusApproved, "gid_number": gid}).Error)
}

func (e *transitionEnv) membershipStatus(t *testing.T, id uint) membership.Status {
	t.Helper()
	var m membership.ProjectUserMembership
	require.NoError(t, e.db.First(&m, id).Error)
	return m.Status
}

func actorFor(userID uint, caps ...lifecycle.Capability) lifecycle.Actor {
	a := lifecycle.Actor{UserID: userID, Capabilities: map[lifecycle.Capability]bool{}}
	for _, c := range caps {
		a.Capabilities[c] = true
	}
	return a
}

func TestTransitionMembership_InvitationAccepted(t *testing.T) {
	env := setupTransitions(t)
	gid := uint(5000001)
	env.approveProject(t, &gid)
	m := testutils.AddMembership(t, env.db, env.fx.Project.ID, env.fx.Member.ID, membership.StatusAwaitingAuthorisation, false)
	ctx := context.Background()

	_, err := env.svc.TransitionMembership(ctx, actorFor(env.fx.TechLead.ID), MembershipTransition{ID: m.ID, To: membership.StatusAuthorised})
	require.ErrorIs(t, err, lifecycle.ErrUnauthorized)
	assert.Equal(t, membership.StatusAwaitingAuthorisation, env.membershipStatus(t, m.ID))

	updated, err := env.svc.TransitionMembership(ctx, actorFor(env.fx.Member.ID), MembershipTransition{ID: m.ID, To: membership.StatusAuthorised})
	require.NoError(t, err)
	assert.Equal(t, membership.StatusAuthorised, updated.Status)
	assert.Equal(t, membership.StatusAwaitingAuthorisation, updated.PreviousStatus)
	assert.True(t, updated.ApprovedTime.Equal(env.now))
	assert.Equal(t, membership.StatusAuthorised, env.membershipStatus(t, m.ID))

	history, err := env.repos.History.ListStatusChanges(audit.EntityMembership, m.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, string(membership.StatusAwaitingAuthorisation), history[0].OldStatus)
	assert.Equal(t, string(membership.StatusAuthorised), history[0].NewStatus)
	assert.Equal(t, env.fx.Member.ID, history[0].ActorID)
	assert.Equal(t, string(lifecycle.ReasonInvitedUser), history[0].Reason)
	assert.NotEmpty(t, history[0].Snapshot)

	require.Len(t, env.events.events, 1)
	ev := env.events.events[0]
	assert.Equal(t, audit.EntityMembership, ev.Entity)
	assert.Equal(t, m.ID, ev.EntityID)
	assert.Equal(t, env.fx.Project.ID, ev.ProjectID)
	assert.Equal(t, string(membership.StatusAuthorised), ev.To)
	assert.Equal(t, history[0].EventID, ev.ID)
}

func TestTransitionMembership_JoinRequest(t *testing.T) {
	env := setupTransitions(t)
	env.approveProject(t, nil)
	m := testutils.AddMembership(t, env.db, env.fx.Project.ID, env.fx.Member.ID, membership.StatusAwaitingAuthorisation, true)
	ctx := context.Background()

	_, err := env.svc.TransitionMembership(ctx, actorFor(env.fx.Member.ID), MembershipTransition{ID: m.ID, To: membership.StatusAuthorised})
	var te *lifecycle.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, lifecycle.ReasonNotPermittedForRole, te.Reason)

	_, err = env.svc.TransitionMembership(ctx, actorFor(env.fx.Outsider.ID, lifecycle.CapProjectApprove), MembershipTransition{ID: m.ID, To: membership.StatusAuthorised})
	require.ErrorAs(t, err, &te)
	assert.Equal(t, lifecycle.ReasonNotCounterparty, te.Reason)

	_, err = env.svc.TransitionMembership(ctx, actorFor(env.fx.TechLead.ID), MembershipTransition{ID: m.ID, To: membership.StatusAuthorised})
	require.NoError(t, err)

	// Only the tech lead can revoke a join request member.
	_, err = env.svc.TransitionMembership(ctx, actorFor(env.fx.Member.ID), MembershipTransition{ID: m.ID, To: membership.StatusRevoked})
	require.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	revoked, err := env.svc.TransitionMembership(ctx, actorFor(env.fx.TechLead.ID), MembershipTransition{ID: m.ID, To: membership.StatusRevoked})
	require.NoError(t, err)
	assert.True(t, revoked.DateLeft.Equal(membership.Day(env.now)))
	assert.Len(t, env.events.events, 2)
}

func TestTransitionMembership_RequesterWithdraws(t *testing.T) {
	env := setupTransitions(t)
	env.approveProject(t, nil)
	m := testutils.AddMembership(t, env.db, env.fx.Project.ID, env.fx.Member.ID, membership.StatusAwaitingAuthorisation, true)

	updated, err := env.svc.TransitionMembership(context.Background(), actorFor(env.fx.Member.ID), MembershipTransition{ID: m.ID, To: membership.StatusDeclined})
	require.NoError(t, err)
	assert.Equal(t, membership.StatusDeclined, updated.Status)
}

func TestTransitionMembership_InvalidPairsLeaveStateUnchanged(t *testing.T) {
	env := setupTransitions(t)
	m := testutils.AddMembership(t, env.db, env.fx.Project.ID, env.fx.Member.ID, membership.StatusAwaitingAuthorisation, true)
	lead := actorFor(env.fx.TechLead.ID)

	targets := append(membership.Statuses(), membership.Status("bogus"))
	for _, from := range membership.Statuses() {
		for _, to := range targets {
			if from.CanTransitionTo(to) {
				continue
			}
			require.NoError(t, env.db.Model(&membership.ProjectUserMembership{}).Where("id = ?", m.ID).Update("status", from).Error)

			_, err := env.svc.TransitionMembership(context.Background(), lead, MembershipTransition{ID: m.ID, To: to})
			assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition, "%s -> %s", from, to)
			assert.Equal(t, from, env.membershipStatus(t, m.ID), "%s -> %s", from, to)
		}
	}

	history, err := env.repos.History.ListStatusChanges(audit.EntityMembership, m.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, env.events.events)
}

func TestTransitionMembership_ExpectedStatusMismatchIsStale(t *testing.T) {
	env := setupTransitions(t)
	m := testutils.AddMembership(t, env.db, env.fx.Project.ID, env.fx.Member.ID, membership.StatusAuthorised, true)
	lead := actorFor(env.fx.TechLead.ID)
	ctx := context.Background()

	// Two tabs rendered the same authorised row; the first submit wins.
	_, err := env.svc.TransitionMembership(ctx, lead, MembershipTransition{ID: m.ID, To: membership.StatusRevoked, Expected: membership.StatusAuthorised})
	require.NoError(t, err)

	_, err = env.svc.TransitionMembership(ctx, lead, MembershipTransition{ID: m.ID, To: membership.StatusSuspended, Expected: membership.StatusAuthorised})
	require.ErrorIs(t, err, lifecycle.ErrStaleState)
	assert.Equal(t, membership.StatusRevoked, env.membershipStatus(t, m.ID))
	assert.Len(t, env.events.events, 1)
}

// staleMembershipRepo hands out a status older than the committed one, as a
// reader would see it just before a concurrent writer commits.
type staleMembershipRepo struct {
	repository.MembershipRepo
	seen membership.Status
}

func (r *staleMembershipRepo) LockMembership(id uint) (membership.ProjectUserMembership, error) {
	m, err := r.MembershipRepo.LockMembership(id)
	m.Status = r.seen
	return m, err
}

func (r *staleMembershipRepo) WithTx(tx *gorm.DB) repository.MembershipRepo {
	return &staleMembershipRepo{MembershipRepo: r.MembershipRepo.WithTx(tx), seen: r.seen}
}

func TestTransitionMembership_LostCompareAndSwapIsStale(t *testing.T) {
	env := setupTransitions(t)
	m := testutils.AddMembership(t, env.db, env.fx.Project.ID, env.fx.Member.ID, membership.StatusDeclined, false)
	env.repos.Membership = &staleMembershipRepo{MembershipRepo: env.repos.Membership, seen: membership.StatusAwaitingAuthorisation}

	_, err := env.svc.TransitionMembership(context.Background(), actorFor(env.fx.Member.ID), MembershipTransition{
		ID:       m.ID,
		To:       membership.StatusAuthorised,
		Expected: membership.StatusAwaitingAuthorisation,
	})
	require.ErrorIs(t, err, lifecycle.ErrStaleState)
	assert.Equal(t, membership.StatusDeclined, env.membershipStatus(t, m.ID))

	history, err := env.repos.History.ListStatusChanges(audit.EntityMembership, m.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, env.events.events)
}

// racingMembershipRepo runs race once, right after the unlocked read, so a
// competing transition commits before the caller takes the row lock.
type racingMembershipRepo struct {
	repository.MembershipRepo
	race func()
}

func (r *racingMembershipRepo) GetMembershipByID(id uint) (membership.ProjectUserMembership, error) {
	m, err := r.MembershipRepo.GetMembershipByID(id)
	if race := r.race; race != nil {
		r.race = nil
		race()
	}
	return m, err
}

func TestTransitionMembership_ConcurrentEndingsWithoutExpectation(t *testing.T) {
	env := setupTransitions(t)
	env.approveProject(t, nil)
	m := testutils.AddMembership(t, env.db, env.fx.Project.ID, env.fx.Member.ID, membership.StatusAuthorised, true)
	lead := actorFor(env.fx.TechLead.ID)
	ctx := context.Background()

	var revokeErr error
	racing := *env.repos
	racing.Membership = &racingMembershipRepo{
		MembershipRepo: env.repos.Membership,
		race: func() {
			_, revokeErr = env.svc.TransitionMembership(ctx, lead, MembershipTransition{ID: m.ID, To: membership.StatusRevoked})
		},
	}
	suspender := NewTransitionService(&racing, env.events)

	_, err := suspender.TransitionMembership(ctx, lead, MembershipTransition{ID: m.ID, To: membership.StatusSuspended})
	require.NoError(t, revokeErr)
	require.ErrorIs(t, err, lifecycle.ErrStaleState)
	assert.NotErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Equal(t, membership.StatusRevoked, env.membershipStatus(t, m.ID))

	history, err := env.repos.History.ListStatusChanges(audit.EntityMembership, m.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Len(t, env.events.events, 1)
}

// Without a race, a request against an already ended membership is simply
// not a permitted move.
func TestTransitionMembership_SequentialEndingIsInvalid(t *testing.T) {
	env := setupTransitions(t)
	m := testutils.AddMembership(t, env.db, env.fx.Project.ID, env.fx.Member.ID, membership.StatusRevoked, true)

	_, err := env.svc.TransitionMembership(context.Background(), actorFor(env.fx.TechLead.ID), MembershipTransition{ID: m.ID, To: membership.StatusSuspended})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestTransitionMembership_NotFound(t *testing.T) {
	env := setupTransitions(t)
	_, err := env.svc.TransitionMembership(context.Background(), actorFor(env.fx.Member.ID), MembershipTransition{ID: 999, To: membership.StatusAuthorised})
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestTransitionProject_SupervisorGate(t *testing.T) {
	env := setupTransitions(t)
	require.NoError(t, env.db.Model(&institution.Institution{}).Where("id = ?", env.fx.Institution.ID).
		Update("needs_supervisor_approval", true).Error)
	approver := actorFor(env.fx.Outsider.ID, lifecycle.CapProjectApprove)
	ctx := context.Background()

	_, err := env.svc.TransitionProject(ctx, actorFor(env.fx.TechLead.ID), ApprovalTransition{ID: env.fx.Project.ID, To: project.StatusApproved})
	var te *lifecycle.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, lifecycle.ReasonMissingCapability, te.Reason)

	_, err = env.svc.TransitionProject(ctx, approver, ApprovalTransition{ID: env.fx.Project.ID, To: project.StatusApproved})
	require.ErrorAs(t, err, &te)
	assert.Equal(t, lifecycle.ReasonSupervisorApprovalPending, te.Reason)

	require.NoError(t, env.repos.Project.SetSupervisorApproved(env.fx.Project.ID))

	p, err := env.svc.TransitionProject(ctx, approver, ApprovalTransition{ID: env.fx.Project.ID, To: project.StatusApproved, Reason: "meets criteria"})
	require.NoError(t, err)
	assert.Equal(t, project.StatusApproved, p.Status)
	assert.Equal(t, "meets criteria", p.ReasonDecision)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, audit.EntityProject, env.events.events[0].Entity)
	assert.Equal(t, string(project.StatusApproved), env.events.events[0].To)

	_, err = env.svc.TransitionProject(ctx, approver, ApprovalTransition{ID: env.fx.Project.ID, To: project.StatusDeclined})
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
}

func TestTransitionAllocation(t *testing.T) {
	env := setupTransitions(t)
	a := allocation.SystemAllocationRequest{
		ProjectID:      env.fx.Project.ID,
		SystemID:       env.fx.System.ID,
		StartDate:      env.now,
		EndDate:        env.now.AddDate(1, 0, 0),
		Status:         project.StatusAwaitingApproval,
		PreviousStatus: project.StatusAwaitingApproval,
		ApprovedTime:   project.OpenEnded,
	}
	require.NoError(t, env.repos.Allocation.CreateAllocation(&a))
	ctx := context.Background()

	_, err := env.svc.TransitionAllocation(ctx, actorFor(env.fx.Outsider.ID, lifecycle.CapProjectApprove), ApprovalTransition{ID: a.ID, To: project.StatusApproved})
	require.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	admin := actorFor(env.fx.Outsider.ID, lifecycle.CapAllocationApprove)
	updated, err := env.svc.TransitionAllocation(ctx, admin, ApprovalTransition{ID: a.ID, To: project.StatusApproved, Expected: project.StatusAwaitingApproval})
	require.NoError(t, err)
	assert.True(t, updated.ApprovedTime.Equal(env.now))

	closed, err := env.svc.TransitionAllocation(ctx, admin, ApprovalTransition{ID: a.ID, To: project.StatusClosed})
	require.NoError(t, err)
	assert.Equal(t, project.StatusApproved, closed.PreviousStatus)

	history, err := env.repos.History.ListStatusChanges(audit.EntityAllocation, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, string(project.StatusClosed), history[1].NewStatus)

	require.Len(t, env.events.events, 2)
	assert.Equal(t, env.fx.Project.ID, env.events.events[1].ProjectID)
	assert.Equal(t, a.ID, env.events.events[1].EntityID)

	_, err = env.svc.TransitionAllocation(ctx, admin, ApprovalTransition{ID: 12345, To: project.StatusApproved})
	assert.ErrorIs(t, err, ErrAllocationNotFound)
}

func TestTransitionRSEAllocation(t *testing.T) {
	env := setupTransitions(t)
	a := allocation.RSEAllocationRequest{
		ProjectID:      env.fx.Project.ID,
		Title:          "Port solver to GPUs",
		DurationWeeks:  6,
		Status:         project.StatusAwaitingApproval,
		PreviousStatus: project.StatusAwaitingApproval,
		ApprovedTime:   project.OpenEnded,
	}
	require.NoError(t, env.repos.RSE.CreateRSEAllocation(&a))
	ctx := context.Background()

	_, err := env.svc.TransitionRSEAllocation(ctx, actorFor(env.fx.TechLead.ID), ApprovalTransition{ID: a.ID, To: project.StatusApproved})
	require.ErrorIs(t, err, lifecycle.ErrUnauthorized)
	_, err = env.svc.TransitionRSEAllocation(ctx, actorFor(env.fx.Outsider.ID, lifecycle.CapProjectApprove), ApprovalTransition{ID: a.ID, To: project.StatusApproved})
	require.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	admin := actorFor(env.fx.Outsider.ID, lifecycle.CapAllocationApprove)
	_, err = env.svc.TransitionRSEAllocation(ctx, admin, ApprovalTransition{ID: a.ID, To: project.StatusApproved, Expected: project.StatusDeclined})
	require.ErrorIs(t, err, lifecycle.ErrStaleState)

	updated, err := env.svc.TransitionRSEAllocation(ctx, admin, ApprovalTransition{ID: a.ID, To: project.StatusApproved, Reason: "fits the queue"})
	require.NoError(t, err)
	assert.Equal(t, project.StatusApproved, updated.Status)
	assert.Equal(t, project.StatusAwaitingApproval, updated.PreviousStatus)
	assert.Equal(t, "fits the queue", updated.ReasonDecision)
	assert.True(t, updated.ApprovedTime.Equal(env.now))

	_, err = env.svc.TransitionRSEAllocation(ctx, admin, ApprovalTransition{ID: a.ID, To: project.StatusAwaitingApproval})
	require.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	stored, err := env.repos.RSE.GetRSEAllocationByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusApproved, stored.Status)

	history, err := env.repos.History.ListStatusChanges(audit.EntityRSEAllocation, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, env.fx.Project.ID, history[0].ProjectID)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, audit.EntityRSEAllocation, env.events.events[0].Entity)

	_, err = env.svc.TransitionRSEAllocation(ctx, admin, ApprovalTransition{ID: 12345, To: project.StatusApproved})
	assert.ErrorIs(t, err, ErrRSEAllocationNotFound)
}
