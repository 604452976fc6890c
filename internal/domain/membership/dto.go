package membership

type JoinProjectDTO struct {
	ProjectCode string `json:"project_code" form:"project_code" binding:"required,max=20"`
}

type InviteUserDTO struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// UpdateStatusDTO carries a requested transition. ExpectedStatus is the
// status the actor saw when the form was rendered.
type UpdateStatusDTO struct {
	Status         Status `json:"status" form:"status" binding:"required"`
	ExpectedStatus Status `json:"expected_status,omitempty" form:"expected_status,omitempty"`
}
