package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/linskybing/hpc-portal/internal/observability"
)

const (
	statusActive   = "active"
	statusInactive = "inactive"
)

// Directory is the account directory that holds one group per project.
type Directory interface {
	CreateProject(ctx context.Context, code string, gid uint, active bool) error
	SetProjectActive(ctx context.Context, code string, active bool) error
	AddMember(ctx context.Context, code, username string) error
	RemoveMember(ctx context.Context, code, username string) error
}

// Conn is the subset of *ldap.Conn the directory writes through.
type Conn interface {
	Add(*ldap.AddRequest) error
	Modify(*ldap.ModifyRequest) error
}

// Dialer opens a bound connection and returns a function that closes it.
type Dialer func() (Conn, func(), error)

// LDAPDialer binds to url as bindDN.
func LDAPDialer(url, bindDN, password string) Dialer {
	return func() (Conn, func(), error) {
		conn, err := ldap.DialURL(url)
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", url, err)
		}
		closeFn := func() { conn.Close() }
		if err := conn.Bind(bindDN, password); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("bind as %s: %w", bindDN, err)
		}
		return conn, closeFn, nil
	}
}

// LDAPDirectory keeps project groups as posixGroup entries under base. The
// active flag lives in statusAttr.
type LDAPDirectory struct {
	dial       Dialer
	base       string
	statusAttr string

	mu      sync.Mutex
	conn    Conn
	closeFn func()
}

func NewLDAPDirectory(dial Dialer, base, statusAttr string) *LDAPDirectory {
	if statusAttr == "" {
		statusAttr = "businessCategory"
	}
	return &LDAPDirectory{dial: dial, base: base, statusAttr: statusAttr}
}

func (d *LDAPDirectory) groupDN(code string) string {
	return fmt.Sprintf("cn=%s,%s", code, d.base)
}

func statusValue(active bool) string {
	if active {
		return statusActive
	}
	return statusInactive
}

func (d *LDAPDirectory) CreateProject(ctx context.Context, code string, gid uint, active bool) error {
	req := ldap.NewAddRequest(d.groupDN(code), nil)
	req.Attribute("objectClass", []string{"top", "posixGroup", "extensibleObject"})
	req.Attribute("cn", []string{code})
	req.Attribute("gidNumber", []string{strconv.FormatUint(uint64(gid), 10)})
	req.Attribute(d.statusAttr, []string{statusValue(active)})

	err := d.do(string(OpCreateProject), func(c Conn) error { return c.Add(req) })
	if ldap.IsErrorWithCode(err, ldap.LDAPResultEntryAlreadyExists) {
		slog.Info("project group already exists", "code", code, "gid", gid)
		return nil
	}
	return err
}

func (d *LDAPDirectory) SetProjectActive(ctx context.Context, code string, active bool) error {
	req := ldap.NewModifyRequest(d.groupDN(code), nil)
	req.Replace(d.statusAttr, []string{statusValue(active)})

	op := OpDeactivateProject
	if active {
		op = OpActivateProject
	}
	return d.do(string(op), func(c Conn) error { return c.Modify(req) })
}

func (d *LDAPDirectory) AddMember(ctx context.Context, code, username string) error {
	req := ldap.NewModifyRequest(d.groupDN(code), nil)
	req.Add("memberUid", []string{username})

	err := d.do(string(OpCreateProjectMembership), func(c Conn) error { return c.Modify(req) })
	if ldap.IsErrorWithCode(err, ldap.LDAPResultAttributeOrValueExists) {
		return nil
	}
	return err
}

func (d *LDAPDirectory) RemoveMember(ctx context.Context, code, username string) error {
	req := ldap.NewModifyRequest(d.groupDN(code), nil)
	req.Delete("memberUid", []string{username})

	err := d.do(string(OpDeleteProjectMembership), func(c Conn) error { return c.Modify(req) })
	if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchAttribute) ||
		ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
		return nil
	}
	return err
}

// do runs fn on the shared connection, dialing on first use and dropping the
// connection after a network error so the next call redials.
func (d *LDAPDirectory) do(op string, fn func(Conn) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		conn, closeFn, err := d.dial()
		if err != nil {
			return err
		}
		d.conn, d.closeFn = conn, closeFn
	}

	start := time.Now()
	err := fn(d.conn)
	observability.DirectoryLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
		d.reset()
	}
	return err
}

func (d *LDAPDirectory) reset() {
	if d.closeFn != nil {
		d.closeFn()
	}
	d.conn, d.closeFn = nil, nil
}

// Close releases the connection, if any.
func (d *LDAPDirectory) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

var errNotProvisioned = errors.New("project has no directory group yet")
