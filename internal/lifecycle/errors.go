package lifecycle

import (
	"errors"
	"fmt"

	"github.com/linskybing/hpc-portal/internal/domain/audit"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("not authorized to change this status")
	ErrStaleState        = errors.New("status changed since it was read, please retry")
	ErrSyncDispatch      = errors.New("directory sync dispatch failed")
)

// TransitionError describes a rejected transition. errors.Is matches Kind.
type TransitionError struct {
	Kind     error
	Entity   audit.EntityType
	EntityID uint
	From     string
	To       string
	Reason   Reason
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s %d: %s -> %s: %v", e.Entity, e.EntityID, e.From, e.To, e.Kind)
	if e.Reason != "" {
		msg += " (" + string(e.Reason) + ")"
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return e.Kind
}
