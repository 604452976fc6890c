package project

import (
	"fmt"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/institution"
	"github.com/linskybing/hpc-portal/internal/domain/user"
)

// OpenEnded is stored in date columns that have not happened yet.
var OpenEnded = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Project is a research project. A non-nil GIDNumber means the project has
// a group in the directory.
type Project struct {
	ID                 uint                    `gorm:"primaryKey" json:"id"`
	Code               *string                 `gorm:"size:20;uniqueIndex" json:"code"`
	Title              string                  `gorm:"size:255;not null" json:"title"`
	Description        string                  `gorm:"type:text" json:"description"`
	Department         string                  `gorm:"size:128" json:"department"`
	PI                 string                  `gorm:"column:pi;size:256" json:"pi"`
	InstitutionID      uint                    `gorm:"not null;index" json:"institution_id"`
	Institution        institution.Institution `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`
	TechLeadID         uint                    `gorm:"not null;index" json:"tech_lead_id"`
	TechLead           user.User               `gorm:"foreignKey:TechLeadID" json:"tech_lead,omitempty"`
	SupervisorName     string                  `gorm:"size:128" json:"supervisor_name"`
	SupervisorEmail    string                  `gorm:"size:254" json:"supervisor_email"`
	SupervisorApproved bool                    `gorm:"not null;default:false" json:"supervisor_approved"`
	GIDNumber          *uint                   `gorm:"column:gid_number;uniqueIndex" json:"gid_number"`
	Status             Status                  `gorm:"size:32;not null;default:awaiting_approval;index" json:"status"`
	PreviousStatus     Status                  `gorm:"size:32;not null;default:awaiting_approval" json:"previous_status"`
	ReasonDecision     string                  `gorm:"type:text" json:"reason_decision"`
	Notes              string                  `gorm:"type:text" json:"notes"`
	CreatedTime        time.Time               `gorm:"autoCreateTime" json:"created_time"`
	ModifiedTime       time.Time               `gorm:"autoUpdateTime" json:"modified_time"`
}

func (Project) TableName() string {
	return "projects"
}

// CodeFor formats the public project code from its primary key.
func CodeFor(id uint) string {
	return fmt.Sprintf("scw%04d", id)
}

func (p *Project) CodeString() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}

func (p *Project) Provisioned() bool {
	return p.GIDNumber != nil
}

func (p *Project) IsAwaitingApproval() bool {
	return p.Status == StatusAwaitingApproval
}
