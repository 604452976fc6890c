package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/observability"
	"github.com/linskybing/hpc-portal/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MembershipTransition asks for a membership to move to To. The move only
// happens if the membership is still in Expected. When Expected is empty the
// status read just before the transaction stands in for it, so a change
// committed in between is reported as StaleState.
type MembershipTransition struct {
	ID       uint
	To       membership.Status
	Expected membership.Status
}

// ApprovalTransition is the project and allocation counterpart, with the
// same meaning for Expected.
type ApprovalTransition struct {
	ID       uint
	To       project.Status
	Expected project.Status
	Reason   string
}

// TransitionService is the only writer of status columns. Each call runs in
// one transaction: lock, check, write with compare-and-swap, append history.
// The event goes to the publisher after commit.
type TransitionService struct {
	Repos     *repository.Repos
	Publisher lifecycle.Publisher
	now       func() time.Time
}

func NewTransitionService(repos *repository.Repos, publisher lifecycle.Publisher) *TransitionService {
	if publisher == nil {
		publisher = lifecycle.NopPublisher
	}
	return &TransitionService{
		Repos:     repos,
		Publisher: publisher,
		now:       time.Now,
	}
}

func rejection(kind error, entity audit.EntityType, id uint, from, to string, reason lifecycle.Reason) error {
	return &lifecycle.TransitionError{
		Kind:     kind,
		Entity:   entity,
		EntityID: id,
		From:     from,
		To:       to,
		Reason:   reason,
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return "invalid"
	case errors.Is(err, lifecycle.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, lifecycle.ErrStaleState):
		return "stale"
	}
	return "error"
}

func logDenied(actor lifecycle.Actor, entity audit.EntityType, id uint, from, to string, reason lifecycle.Reason) {
	slog.Warn("status change denied",
		"actor_id", actor.UserID,
		"entity", entity,
		"entity_id", id,
		"from", from,
		"to", to,
		"reason", reason)
}

func snapshot(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("status change snapshot", "error", err)
		return nil
	}
	return datatypes.JSON(b)
}

// observedMembership is the status the caller acts on: the one it names, or
// the committed one just before the row is locked.
func (s *TransitionService) observedMembership(req MembershipTransition) (membership.Status, error) {
	if req.Expected != "" {
		return req.Expected, nil
	}
	m, err := s.Repos.Membership.GetMembershipByID(req.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrMembershipNotFound
	}
	return m.Status, err
}

func (s *TransitionService) observedProject(req ApprovalTransition) (project.Status, error) {
	if req.Expected != "" {
		return req.Expected, nil
	}
	p, err := s.Repos.Project.GetProjectByID(req.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrProjectNotFound
	}
	return p.Status, err
}

func (s *TransitionService) observedAllocation(req ApprovalTransition) (project.Status, error) {
	if req.Expected != "" {
		return req.Expected, nil
	}
	a, err := s.Repos.Allocation.GetAllocationByID(req.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAllocationNotFound
	}
	return a.Status, err
}

func (s *TransitionService) observedRSEAllocation(req ApprovalTransition) (project.Status, error) {
	if req.Expected != "" {
		return req.Expected, nil
	}
	a, err := s.Repos.RSE.GetRSEAllocationByID(req.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrRSEAllocationNotFound
	}
	return a.Status, err
}

func (s *TransitionService) TransitionMembership(ctx context.Context, actor lifecycle.Actor, req MembershipTransition) (*membership.ProjectUserMembership, error) {
	var (
		result membership.ProjectUserMembership
		ev     lifecycle.Event
	)
	now := s.now()

	expected, err := s.observedMembership(req)
	if err == nil {
		err = s.Repos.ExecTx(func(tx *repository.Repos) error {
			m, err := tx.Membership.LockMembership(req.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			if err != nil {
				return err
			}
			p, err := tx.Project.GetProjectByID(m.ProjectID)
			if err != nil {
				return err
			}

			from := m.Status
			reject := func(kind error, reason lifecycle.Reason) error {
				return rejection(kind, audit.EntityMembership, m.ID, string(from), string(req.To), reason)
			}

			if expected != from {
				return reject(lifecycle.ErrStaleState, "")
			}
			if !req.To.Valid() || !from.CanTransitionTo(req.To) {
				return reject(lifecycle.ErrInvalidTransition, "")
			}
			d := lifecycle.AuthorizeMembership(actor, lifecycle.MembershipSubject{
				MemberID:        m.UserID,
				TechLeadID:      p.TechLeadID,
				InitiatedByUser: m.InitiatedByUser,
				From:            from,
			}, req.To)
			if !d.Allowed {
				logDenied(actor, audit.EntityMembership, m.ID, string(from), string(req.To), d.Reason)
				return reject(lifecycle.ErrUnauthorized, d.Reason)
			}

			m.PreviousStatus = from
			m.Status = req.To
			m.ModifiedTime = now
			if req.To == membership.StatusAuthorised {
				m.ApprovedTime = now
			}
			if req.To.Ends() {
				m.DateLeft = membership.Day(now)
			}

			swapped, err := tx.Membership.CompareAndSwapStatus(&m, from)
			if err != nil {
				return err
			}
			if !swapped {
				return reject(lifecycle.ErrStaleState, "")
			}

			ev = lifecycle.NewEvent(audit.EntityMembership, m.ID, m.ProjectID, string(from), string(req.To), actor.UserID, now)
			if err := tx.History.AppendStatusChange(&audit.StatusChange{
				EntityType: audit.EntityMembership,
				EntityID:   m.ID,
				ProjectID:  m.ProjectID,
				OldStatus:  string(from),
				NewStatus:  string(req.To),
				ActorID:    actor.UserID,
				Reason:     string(d.Reason),
				EventID:    ev.ID,
				Snapshot:   snapshot(m),
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			result = m
			return nil
		})
	}

	observability.StatusTransitions.WithLabelValues(string(audit.EntityMembership), string(req.To), outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.Publisher.Publish(ctx, ev)
	return &result, nil
}

func (s *TransitionService) TransitionProject(ctx context.Context, actor lifecycle.Actor, req ApprovalTransition) (*project.Project, error) {
	var (
		result project.Project
		ev     lifecycle.Event
	)
	now := s.now()

	expected, err := s.observedProject(req)
	if err == nil {
		err = s.Repos.ExecTx(func(tx *repository.Repos) error {
			p, err := tx.Project.LockProject(req.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			if err != nil {
				return err
			}
			inst, err := tx.Institution.GetInstitutionByID(p.InstitutionID)
			if err != nil {
				return err
			}

			from := p.Status
			reject := func(kind error, reason lifecycle.Reason) error {
				return rejection(kind, audit.EntityProject, p.ID, string(from), string(req.To), reason)
			}

			if expected != from {
				return reject(lifecycle.ErrStaleState, "")
			}
			if !req.To.Valid() || !from.CanTransitionTo(req.To) {
				return reject(lifecycle.ErrInvalidTransition, "")
			}
			d := lifecycle.AuthorizeApproval(actor, lifecycle.ApprovalSubject{
				Entity:                  audit.EntityProject,
				NeedsSupervisorApproval: inst.NeedsSupervisorApproval,
				SupervisorApproved:      p.SupervisorApproved,
			}, req.To)
			if !d.Allowed {
				logDenied(actor, audit.EntityProject, p.ID, string(from), string(req.To), d.Reason)
				return reject(lifecycle.ErrUnauthorized, d.Reason)
			}

			p.PreviousStatus = from
			p.Status = req.To
			p.ModifiedTime = now
			if req.Reason != "" {
				p.ReasonDecision = req.Reason
			}

			swapped, err := tx.Project.CompareAndSwapStatus(&p, from)
			if err != nil {
				return err
			}
			if !swapped {
				return reject(lifecycle.ErrStaleState, "")
			}

			ev = lifecycle.NewEvent(audit.EntityProject, p.ID, p.ID, string(from), string(req.To), actor.UserID, now)
			if err := tx.History.AppendStatusChange(&audit.StatusChange{
				EntityType: audit.EntityProject,
				EntityID:   p.ID,
				ProjectID:  p.ID,
				OldStatus:  string(from),
				NewStatus:  string(req.To),
				ActorID:    actor.UserID,
				Reason:     req.Reason,
				EventID:    ev.ID,
				Snapshot:   snapshot(p),
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			result = p
			return nil
		})
	}

	observability.StatusTransitions.WithLabelValues(string(audit.EntityProject), string(req.To), outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.Publisher.Publish(ctx, ev)
	return &result, nil
}

func (s *TransitionService) TransitionAllocation(ctx context.Context, actor lifecycle.Actor, req ApprovalTransition) (*allocation.SystemAllocationRequest, error) {
	var (
		result allocation.SystemAllocationRequest
		ev     lifecycle.Event
	)
	now := s.now()

	expected, err := s.observedAllocation(req)
	if err == nil {
		err = s.Repos.ExecTx(func(tx *repository.Repos) error {
			a, err := tx.Allocation.LockAllocation(req.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAllocationNotFound
			}
			if err != nil {
				return err
			}
			p, err := tx.Project.GetProjectByID(a.ProjectID)
			if err != nil {
				return err
			}
			inst, err := tx.Institution.GetInstitutionByID(p.InstitutionID)
			if err != nil {
				return err
			}

			from := a.Status
			reject := func(kind error, reason lifecycle.Reason) error {
				return rejection(kind, audit.EntityAllocation, a.ID, string(from), string(req.To), reason)
			}

			if expected != from {
				return reject(lifecycle.ErrStaleState, "")
			}
			if !req.To.Valid() || !from.CanTransitionTo(req.To) {
				return reject(lifecycle.ErrInvalidTransition, "")
			}
			d := lifecycle.AuthorizeApproval(actor, lifecycle.ApprovalSubject{
				Entity:                  audit.EntityAllocation,
				NeedsSupervisorApproval: inst.NeedsSupervisorApproval,
				SupervisorApproved:      p.SupervisorApproved,
			}, req.To)
			if !d.Allowed {
				logDenied(actor, audit.EntityAllocation, a.ID, string(from), string(req.To), d.Reason)
				return reject(lifecycle.ErrUnauthorized, d.Reason)
			}

			a.PreviousStatus = from
			a.Status = req.To
			a.ModifiedTime = now
			if req.Reason != "" {
				a.ReasonDecision = req.Reason
			}
			if req.To == project.StatusApproved {
				a.ApprovedTime = now
			}

			swapped, err := tx.Allocation.CompareAndSwapStatus(&a, from)
			if err != nil {
				return err
			}
			if !swapped {
				return reject(lifecycle.ErrStaleState, "")
			}

			ev = lifecycle.NewEvent(audit.EntityAllocation, a.ID, a.ProjectID, string(from), string(req.To), actor.UserID, now)
			if err := tx.History.AppendStatusChange(&audit.StatusChange{
				EntityType: audit.EntityAllocation,
				EntityID:   a.ID,
				ProjectID:  a.ProjectID,
				OldStatus:  string(from),
				NewStatus:  string(req.To),
				ActorID:    actor.UserID,
				Reason:     req.Reason,
				EventID:    ev.ID,
				Snapshot:   snapshot(a),
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			result = a
			return nil
		})
	}

	observability.StatusTransitions.WithLabelValues(string(audit.EntityAllocation), string(req.To), outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.Publisher.Publish(ctx, ev)
	return &result, nil
}

// TransitionRSEAllocation decides an RSE time request. It is gated like a
// system allocation; its event plans no directory work.
func (s *TransitionService) TransitionRSEAllocation(ctx context.Context, actor lifecycle.Actor, req ApprovalTransition) (*allocation.RSEAllocationRequest, error) {
	var (
		result allocation.RSEAllocationRequest
		ev     lifecycle.Event
	)
	now := s.now()

	expected, err := s.observedRSEAllocation(req)
	if err == nil {
		err = s.Repos.ExecTx(func(tx *repository.Repos) error {
			a, err := tx.RSE.LockRSEAllocation(req.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRSEAllocationNotFound
			}
			if err != nil {
				return err
			}
			p, err := tx.Project.GetProjectByID(a.ProjectID)
			if err != nil {
				return err
			}
			inst, err := tx.Institution.GetInstitutionByID(p.InstitutionID)
			if err != nil {
				return err
			}

			from := a.Status
			reject := func(kind error, reason lifecycle.Reason) error {
				return rejection(kind, audit.EntityRSEAllocation, a.ID, string(from), string(req.To), reason)
			}

			if expected != from {
				return reject(lifecycle.ErrStaleState, "")
			}
			if !req.To.Valid() || !from.CanTransitionTo(req.To) {
				return reject(lifecycle.ErrInvalidTransition, "")
			}
			d := lifecycle.AuthorizeApproval(actor, lifecycle.ApprovalSubject{
				Entity:                  audit.EntityRSEAllocation,
				NeedsSupervisorApproval: inst.NeedsSupervisorApproval,
				SupervisorApproved:      p.SupervisorApproved,
			}, req.To)
			if !d.Allowed {
				logDenied(actor, audit.EntityRSEAllocation, a.ID, string(from), string(req.To), d.Reason)
				return reject(lifecycle.ErrUnauthorized, d.Reason)
			}

			a.PreviousStatus = from
			a.Status = req.To
			a.ModifiedTime = now
			if req.Reason != "" {
				a.ReasonDecision = req.Reason
			}
			if req.To == project.StatusApproved {
				a.ApprovedTime = now
			}

			swapped, err := tx.RSE.CompareAndSwapStatus(&a, from)
			if err != nil {
				return err
			}
			if !swapped {
				return reject(lifecycle.ErrStaleState, "")
			}

			ev = lifecycle.NewEvent(audit.EntityRSEAllocation, a.ID, a.ProjectID, string(from), string(req.To), actor.UserID, now)
			if err := tx.History.AppendStatusChange(&audit.StatusChange{
				EntityType: audit.EntityRSEAllocation,
				EntityID:   a.ID,
				ProjectID:  a.ProjectID,
				OldStatus:  string(from),
				NewStatus:  string(req.To),
				ActorID:    actor.UserID,
				Reason:     req.Reason,
				EventID:    ev.ID,
				Snapshot:   snapshot(a),
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			result = a
			return nil
		})
	}

	observability.StatusTransitions.WithLabelValues(string(audit.EntityRSEAllocation), string(req.To), outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.Publisher.Publish(ctx, ev)
	return &result, nil
}
