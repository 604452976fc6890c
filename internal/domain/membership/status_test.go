package membership

import (
	"testing"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusAwaitingAuthorisation, StatusAuthorised}: true,
		{StatusAwaitingAuthorisation, StatusDeclined}:   true,
		{StatusAuthorised, StatusRevoked}:               true,
		{StatusAuthorised, StatusSuspended}:             true,
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			assert.Equal(t, allowed[[2]Status{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_UnknownValues(t *testing.T) {
	assert.False(t, Status("pending").Valid())
	assert.False(t, Status("pending").CanTransitionTo(StatusAuthorised))
	assert.False(t, StatusAuthorised.CanTransitionTo(Status("pending")))
}

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	m := New(3, 9, true, now)

	assert.Equal(t, StatusAwaitingAuthorisation, m.Status)
	assert.Equal(t, StatusAwaitingAuthorisation, m.PreviousStatus)
	assert.True(t, m.InitiatedByUser)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), m.DateJoined)
	assert.Equal(t, project.OpenEnded, m.DateLeft)
	assert.Equal(t, project.OpenEnded, m.ApprovedTime)
	assert.False(t, m.IsActive())
}
