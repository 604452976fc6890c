package authz

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
)

//go:embed model.conf policy.csv
var embedFS embed.FS

// RoleSource lists the roles granted to a user.
type RoleSource interface {
	ListRoles(userID uint) ([]string, error)
}

// Enforcer answers capability questions. Role to capability mapping comes from
// the embedded policy; user to role grants are read from the database on every
// check so grants take effect without a restart.
type Enforcer struct {
	enforcer *casbin.Enforcer
	roles    RoleSource
}

func NewEnforcer(roles RoleSource) (*Enforcer, error) {
	dir, err := os.MkdirTemp("", "portal-casbin-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := writeEmbedToDir(dir, "model.conf", "policy.csv"); err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(filepath.Join(dir, "model.conf"), filepath.Join(dir, "policy.csv"))
	if err != nil {
		return nil, fmt.Errorf("load casbin policy: %w", err)
	}
	return &Enforcer{enforcer: e, roles: roles}, nil
}

func writeEmbedToDir(dir string, names ...string) error {
	for _, name := range names {
		data, err := embedFS.ReadFile(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			return err
		}
	}
	return nil
}

// KnownRole reports whether the policy mentions role.
func (e *Enforcer) KnownRole(role string) bool {
	subjects, err := e.enforcer.GetAllSubjects()
	if err != nil {
		return false
	}
	for _, s := range subjects {
		if s == role {
			return true
		}
	}
	return false
}

func (e *Enforcer) RoleAllows(role string, c lifecycle.Capability) (bool, error) {
	obj, act, ok := strings.Cut(string(c), ":")
	if !ok {
		return false, fmt.Errorf("malformed capability %q", c)
	}
	return e.enforcer.Enforce(role, obj, act)
}

// Can reports whether any of the user's roles grants c.
func (e *Enforcer) Can(ctx context.Context, userID uint, c lifecycle.Capability) (bool, error) {
	roles, err := e.roles.ListRoles(userID)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		ok, err := e.RoleAllows(role, c)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

var allCapabilities = []lifecycle.Capability{
	lifecycle.CapProjectAdd,
	lifecycle.CapProjectApprove,
	lifecycle.CapAllocationApprove,
	lifecycle.CapAuditRead,
}

// Capabilities resolves the full capability set for a user.
func (e *Enforcer) Capabilities(ctx context.Context, userID uint) (map[lifecycle.Capability]bool, error) {
	roles, err := e.roles.ListRoles(userID)
	if err != nil {
		return nil, err
	}
	caps := make(map[lifecycle.Capability]bool)
	for _, role := range roles {
		for _, c := range allCapabilities {
			if caps[c] {
				continue
			}
			ok, err := e.RoleAllows(role, c)
			if err != nil {
				return nil, err
			}
			if ok {
				caps[c] = true
			}
		}
	}
	slog.Debug("resolved capabilities", "user_id", userID, "roles", roles, "count", len(caps))
	return caps, nil
}
