package user

type UserDTO struct {
	ID            uint     `json:"id" example:"12"`
	Email         string   `json:"email" example:"jane.doe@example.ac.uk"`
	Username      string   `json:"username" example:"jane.doe"`
	FullName      string   `json:"full_name" example:"Jane Doe"`
	InstitutionID *uint    `json:"institution_id" example:"1"`
	Roles         []string `json:"roles"`
}

// ShibbolethIdentity carries the attributes released by the identity provider.
type ShibbolethIdentity struct {
	RemoteUser       string
	IdentityProvider string
	GivenName        string
	Surname          string
}

type GrantRoleInput struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}
