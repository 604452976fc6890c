package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
)

// Event describes a committed status transition.
type Event struct {
	ID         string           `json:"id"`
	Entity     audit.EntityType `json:"entity"`
	EntityID   uint             `json:"entity_id"`
	ProjectID  uint             `json:"project_id"`
	From       string           `json:"from"`
	To         string           `json:"to"`
	ActorID    uint             `json:"actor_id"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewEvent(entity audit.EntityType, entityID, projectID uint, from, to string, actorID uint, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Entity:     entity,
		EntityID:   entityID,
		ProjectID:  projectID,
		From:       from,
		To:         to,
		ActorID:    actorID,
		OccurredAt: at,
	}
}

// Publisher receives events after the transaction that produced them commits.
// Publish must not fail the caller; implementations log their own errors.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type PublisherFunc func(ctx context.Context, ev Event)

func (f PublisherFunc) Publish(ctx context.Context, ev Event) { f(ctx, ev) }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// NopPublisher drops every event.
var NopPublisher Publisher = nopPublisher{}
