package application

import (
	"errors"
	"strings"

	"github.com/linskybing/hpc-portal/internal/api/middleware"
	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/internal/domain/user"
	"github.com/linskybing/hpc-portal/internal/repository"
	"gorm.io/gorm"
)

type UserService struct {
	Repos *repository.Repos
}

func NewUserService(repos *repository.Repos) *UserService {
	return &UserService{
		Repos: repos,
	}
}

// Login trusts the identity asserted by the Shibboleth service provider in
// front of the portal. Unknown users from a registered institution get an
// account on first login.
func (s *UserService) Login(id user.ShibbolethIdentity) (user.User, string, []string, error) {
	email := strings.ToLower(strings.TrimSpace(id.RemoteUser))
	if email == "" || !strings.Contains(email, "@") {
		return user.User{}, "", nil, ErrMissingIdentity
	}

	inst, err := s.Repos.Institution.GetInstitutionByIdentityProvider(id.IdentityProvider)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, "", nil, ErrUnknownInstitution
	}
	if err != nil {
		return user.User{}, "", nil, err
	}

	usr, err := s.Repos.User.GetUserByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		username, err := s.freeUsername(email)
		if err != nil {
			return user.User{}, "", nil, err
		}
		usr = user.User{
			Email:         email,
			Username:      username,
			FirstName:     id.GivenName,
			LastName:      id.Surname,
			InstitutionID: &inst.ID,
		}
		if err := s.Repos.User.CreateUser(&usr); err != nil {
			return user.User{}, "", nil, err
		}
	} else if err != nil {
		return user.User{}, "", nil, err
	}

	token, err := middleware.GenerateToken(usr.ID, usr.Email, usr.Username, config.TokenLifetime)
	if err != nil {
		return user.User{}, "", nil, err
	}
	roles, err := s.Repos.User.ListRoles(usr.ID)
	if err != nil {
		return user.User{}, "", nil, err
	}
	return usr, token, roles, nil
}

// freeUsername prefers the email local part and falls back to qualifying it
// with the first label of the domain.
func (s *UserService) freeUsername(email string) (string, error) {
	base := user.UsernameFromEmail(email)
	candidates := []string{base}
	if _, domain, ok := strings.Cut(email, "@"); ok {
		label, _, _ := strings.Cut(domain, ".")
		candidates = append(candidates, base+"."+label)
	}
	for _, name := range candidates {
		_, err := s.Repos.User.GetUserByUsername(name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("username " + base + " is already taken")
}

func (s *UserService) GetUser(id uint) (user.UserDTO, error) {
	u, err := s.Repos.User.GetUserByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.UserDTO{}, ErrUserNotFound
	}
	if err != nil {
		return user.UserDTO{}, err
	}
	roles, err := s.Repos.User.ListRoles(u.ID)
	if err != nil {
		return user.UserDTO{}, err
	}
	return user.UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FullName:      u.FullName(),
		InstitutionID: u.InstitutionID,
		Roles:         roles,
	}, nil
}
