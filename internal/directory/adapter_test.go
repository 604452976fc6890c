package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_PublishEnqueuesPlannedTasks(t *testing.T) {
	store := newFakeStore()
	store.addProject(1, project.StatusApproved, nil)
	store.addMember(10, 1, 100, "alice", membership.StatusAuthorised)
	store.addMember(11, 1, 101, "bob", membership.StatusAwaitingAuthorisation)
	enq := &recordingEnqueuer{}
	a := NewAdapter(store, enq)

	a.Publish(context.Background(), event(audit.EntityProject, 1, 1, string(project.StatusAwaitingApproval), string(project.StatusApproved)))

	assert.Equal(t, []Op{OpCreateProject, OpCreateProjectMembership}, ops(enq.tasks))
	assert.Equal(t, uint(10), enq.tasks[1].MembershipID)
}

func TestAdapter_RetriesEnqueue(t *testing.T) {
	store := newFakeStore()
	store.addProject(1, project.StatusApproved, uintPtr(5000001))
	enq := &recordingEnqueuer{errs: []error{errors.New("redis down"), nil}}
	a := NewAdapter(store, enq, WithEnqueueRetry(3, time.Millisecond))

	a.Publish(context.Background(), event(audit.EntityMembership, 10, 1, string(membership.StatusAwaitingAuthorisation), string(membership.StatusAuthorised)))

	assert.Equal(t, 2, enq.called)
	assert.Equal(t, []Op{OpCreateProjectMembership}, ops(enq.tasks))
}

func TestAdapter_DispatchFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	store.addProject(1, project.StatusApproved, uintPtr(5000001))
	down := errors.New("redis down")
	enq := &recordingEnqueuer{errs: []error{down, down}}
	a := NewAdapter(store, enq, WithEnqueueRetry(2, time.Millisecond))

	counter := observability.SyncDispatch.WithLabelValues(string(OpDeactivateProject), "failure")
	before := testutil.ToFloat64(counter)

	assert.NotPanics(t, func() {
		a.Publish(context.Background(), event(audit.EntityProject, 1, 1, string(project.StatusApproved), string(project.StatusSuspended)))
	})
	assert.Equal(t, 2, enq.called)
	assert.Empty(t, enq.tasks)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestAdapter_UnknownProjectIsSwallowed(t *testing.T) {
	enq := &recordingEnqueuer{}
	a := NewAdapter(newFakeStore(), enq)

	a.Publish(context.Background(), event(audit.EntityProject, 99, 99, string(project.StatusApproved), string(project.StatusClosed)))
	assert.Zero(t, enq.called)
}

func TestAdapter_CancelledRequestStillDispatches(t *testing.T) {
	store := newFakeStore()
	store.addProject(1, project.StatusApproved, uintPtr(5000001))
	enq := &recordingEnqueuer{}
	a := NewAdapter(store, enq)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.Publish(ctx, event(audit.EntityMembership, 10, 1, string(membership.StatusAuthorised), string(membership.StatusRevoked)))

	assert.Equal(t, []Op{OpDeleteProjectMembership}, ops(enq.tasks))
}

func TestReconcile(t *testing.T) {
	store := newFakeStore()
	store.addProject(1, project.StatusApproved, uintPtr(5000001))
	store.addMember(10, 1, 100, "alice", membership.StatusAuthorised)
	store.addMember(11, 1, 101, "bob", membership.StatusRevoked)
	store.addProject(2, project.StatusApproved, nil)
	store.addMember(12, 2, 100, "alice", membership.StatusAuthorised)
	store.addProject(3, project.StatusSuspended, uintPtr(5000003))
	store.addProject(4, project.StatusClosed, nil)
	store.addProject(5, project.StatusAwaitingApproval, nil)
	enq := &recordingEnqueuer{}

	n, err := Reconcile(context.Background(), store, enq)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []Op{
		OpActivateProject, OpCreateProjectMembership, OpDeleteProjectMembership,
		OpCreateProject, OpCreateProjectMembership,
		OpDeactivateProject,
	}, ops(enq.tasks))

	eventID := enq.tasks[0].EventID
	for _, task := range enq.tasks {
		assert.Equal(t, eventID, task.EventID)
	}
}

func TestReconcile_ReplayConvergesDirectory(t *testing.T) {
	store := newFakeStore()
	store.addProject(1, project.StatusApproved, nil)
	store.addMember(10, 1, 100, "alice", membership.StatusAuthorised)
	dir := newMemoryDirectory()
	w, q := newTestWorker(t, store, dir)
	ctx := context.Background()

	_, err := Reconcile(ctx, store, q)
	require.NoError(t, err)
	drain(t, w)
	first := dir.members("scw0001")

	_, err = Reconcile(ctx, store, q)
	require.NoError(t, err)
	drain(t, w)

	assert.Equal(t, first, dir.members("scw0001"))
	assert.Equal(t, []string{"alice"}, first)
}
