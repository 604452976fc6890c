package directory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/domain/user"
)

var errNotFound = errors.New("not found")

type fakeStore struct {
	mu          sync.Mutex
	projects    map[uint]project.Project
	memberships map[uint]membership.ProjectUserMembership
	users       map[uint]user.User
	assignCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:    map[uint]project.Project{},
		memberships: map[uint]membership.ProjectUserMembership{},
		users:       map[uint]user.User{},
	}
}

func (s *fakeStore) addProject(id uint, status project.Status, gid *uint) project.Project {
	code := project.CodeFor(id)
	p := project.Project{ID: id, Code: &code, Status: status, GIDNumber: gid}
	s.projects[id] = p
	return p
}

func (s *fakeStore) addMember(id, projectID, userID uint, username string, status membership.Status) {
	s.users[userID] = user.User{ID: userID, Username: username}
	s.memberships[id] = membership.ProjectUserMembership{ID: id, ProjectID: projectID, UserID: userID, Status: status}
}

func (s *fakeStore) GetProject(id uint) (project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return project.Project{}, errNotFound
	}
	return p, nil
}

func (s *fakeStore) GetMembership(id uint) (membership.ProjectUserMembership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memberships[id]
	if !ok {
		return membership.ProjectUserMembership{}, errNotFound
	}
	m.Project = s.projects[m.ProjectID]
	m.User = s.users[m.UserID]
	return m, nil
}

func (s *fakeStore) AssignGIDNumber(projectID, gid uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignCalls++
	p := s.projects[projectID]
	if p.GIDNumber != nil {
		return false, nil
	}
	p.GIDNumber = &gid
	s.projects[projectID] = p
	return true, nil
}

func (s *fakeStore) ListAuthorisedMemberships(projectID uint) ([]membership.ProjectUserMembership, error) {
	var out []membership.ProjectUserMembership
	for _, m := range s.sortedMembers(projectID) {
		if m.Status == membership.StatusAuthorised {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) ListMembershipsByProject(projectID uint) ([]membership.ProjectUserMembership, error) {
	return s.sortedMembers(projectID), nil
}

func (s *fakeStore) ListProjects(status project.Status) ([]project.Project, error) {
	var out []project.Project
	for _, p := range s.projects {
		if p.Status == status {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) sortedMembers(projectID uint) []membership.ProjectUserMembership {
	var out []membership.ProjectUserMembership
	for _, m := range s.memberships {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type group struct {
	gid     uint
	active  bool
	members map[string]bool
}

// memoryDirectory applies the same idempotency rules as LDAPDirectory.
type memoryDirectory struct {
	mu     sync.Mutex
	groups map[string]*group
	fail   error
	calls  int
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{groups: map[string]*group{}}
}

func (d *memoryDirectory) CreateProject(_ context.Context, code string, gid uint, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.fail != nil {
		return d.fail
	}
	if _, ok := d.groups[code]; !ok {
		d.groups[code] = &group{gid: gid, active: active, members: map[string]bool{}}
	}
	return nil
}

func (d *memoryDirectory) SetProjectActive(_ context.Context, code string, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.fail != nil {
		return d.fail
	}
	g, ok := d.groups[code]
	if !ok {
		return errNotFound
	}
	g.active = active
	return nil
}

func (d *memoryDirectory) AddMember(_ context.Context, code, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.fail != nil {
		return d.fail
	}
	g, ok := d.groups[code]
	if !ok {
		return errNotFound
	}
	g.members[username] = true
	return nil
}

func (d *memoryDirectory) RemoveMember(_ context.Context, code, username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.fail != nil {
		return d.fail
	}
	if g, ok := d.groups[code]; ok {
		delete(g.members, username)
	}
	return nil
}

func (d *memoryDirectory) members(code string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	if g, ok := d.groups[code]; ok {
		for m := range g.members {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

type recordingEnqueuer struct {
	mu     sync.Mutex
	tasks  []Task
	errs   []error
	called int
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, tasks ...Task) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.called++
	if len(e.errs) > 0 {
		err := e.errs[0]
		e.errs = e.errs[1:]
		if err != nil {
			return err
		}
	}
	e.tasks = append(e.tasks, tasks...)
	return nil
}

func ops(tasks []Task) []Op {
	out := make([]Op, len(tasks))
	for i, t := range tasks {
		out[i] = t.Op
	}
	return out
}

func uintPtr(v uint) *uint { return &v }
