package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
)

// SyncStore exposes the reads and writes the directory sync needs.
type SyncStore struct {
	repos *Repos
}

func NewSyncStore(repos *Repos) *SyncStore {
	return &SyncStore{repos: repos}
}

func (s *SyncStore) GetProject(id uint) (project.Project, error) {
	return s.repos.Project.GetProjectByID(id)
}

func (s *SyncStore) GetMembership(id uint) (membership.ProjectUserMembership, error) {
	return s.repos.Membership.GetMembershipByID(id)
}

func (s *SyncStore) ListAuthorisedMemberships(projectID uint) ([]membership.ProjectUserMembership, error) {
	return s.repos.Membership.ListAuthorisedByProject(projectID)
}

func (s *SyncStore) AssignGIDNumber(projectID, gid uint) (bool, error) {
	return s.repos.Project.AssignGIDNumber(projectID, gid)
}

func (s *SyncStore) ListProjects(status project.Status) ([]project.Project, error) {
	return s.repos.Project.ListProjects(&status)
}

func (s *SyncStore) ListMembershipsByProject(projectID uint) ([]membership.ProjectUserMembership, error) {
	return s.repos.Membership.ListMembershipsByProject(projectID)
}
