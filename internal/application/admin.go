package application

import (
	"errors"
	"log/slog"

	"github.com/linskybing/hpc-portal/internal/domain/institution"
	"github.com/linskybing/hpc-portal/internal/domain/system"
	"github.com/linskybing/hpc-portal/internal/repository"
	"gorm.io/gorm"
)

// RoleCatalog knows which role names the policy defines.
type RoleCatalog interface {
	KnownRole(role string) bool
}

// AdminService backs the portalctl operator commands.
type AdminService struct {
	Repos *repository.Repos
	Roles RoleCatalog
}

func NewAdminService(repos *repository.Repos, roles RoleCatalog) *AdminService {
	return &AdminService{
		Repos: repos,
		Roles: roles,
	}
}

// SeedInstitutions upserts every institution by identity provider.
func (s *AdminService) SeedInstitutions(institutions []institution.Institution) error {
	return s.Repos.ExecTx(func(tx *repository.Repos) error {
		for i := range institutions {
			if err := tx.Institution.UpsertInstitution(&institutions[i]); err != nil {
				return err
			}
			slog.Info("institution seeded", "name", institutions[i].Name, "identity_provider", institutions[i].IdentityProvider)
		}
		return nil
	})
}

func (s *AdminService) SeedSystems(inputs []system.SystemInput) error {
	return s.Repos.ExecTx(func(tx *repository.Repos) error {
		for _, in := range inputs {
			sys := system.System{Name: in.Name, Description: in.Description, NumberOfCores: in.NumberOfCores}
			if err := tx.System.UpsertSystem(&sys); err != nil {
				return err
			}
			slog.Info("system seeded", "name", sys.Name)
		}
		return nil
	})
}

func (s *AdminService) GrantRole(email, role string) error {
	if s.Roles != nil && !s.Roles.KnownRole(role) {
		return ErrUnknownRole
	}
	u, err := s.Repos.User.GetUserByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if err := s.Repos.User.GrantRole(u.ID, role); err != nil {
		return err
	}
	slog.Info("role granted", "user_id", u.ID, "email", u.Email, "role", role)
	return nil
}

func (s *AdminService) RevokeRole(email, role string) error {
	u, err := s.Repos.User.GetUserByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if err := s.Repos.User.RevokeRole(u.ID, role); err != nil {
		return err
	}
	slog.Info("role revoked", "user_id", u.ID, "email", u.Email, "role", role)
	return nil
}
