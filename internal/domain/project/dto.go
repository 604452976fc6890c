package project

type CreateProjectDTO struct {
	Title           string  `json:"title" form:"title" binding:"required,max=255"`
	Description     string  `json:"description" form:"description" binding:"required"`
	Department      *string `json:"department,omitempty" form:"department,omitempty"`
	PI              *string `json:"pi,omitempty" form:"pi,omitempty"`
	SupervisorName  *string `json:"supervisor_name,omitempty" form:"supervisor_name,omitempty"`
	SupervisorEmail *string `json:"supervisor_email,omitempty" form:"supervisor_email,omitempty" binding:"omitempty,email"`
}

// UpdateStatusDTO is shared by project and allocation status forms.
// ExpectedStatus is the status the actor saw when the form was rendered.
type UpdateStatusDTO struct {
	Status         Status `json:"status" form:"status" binding:"required"`
	ExpectedStatus Status `json:"expected_status,omitempty" form:"expected_status,omitempty"`
	ReasonDecision string `json:"reason_decision,omitempty" form:"reason_decision,omitempty"`
}
