package membership

import (
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/domain/user"
)

// ProjectUserMembership links a user to a project. Rows are never deleted;
// DateLeft stays at project.OpenEnded while the membership is live.
type ProjectUserMembership struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ProjectID       uint            `gorm:"not null;uniqueIndex:idx_membership_project_user" json:"project_id"`
	Project         project.Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	UserID          uint            `gorm:"not null;uniqueIndex:idx_membership_project_user;index" json:"user_id"`
	User            user.User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status          Status          `gorm:"size:32;not null;default:awaiting_authorisation;index" json:"status"`
	PreviousStatus  Status          `gorm:"size:32;not null;default:awaiting_authorisation" json:"previous_status"`
	InitiatedByUser bool            `gorm:"not null" json:"initiated_by_user"`
	DateJoined      time.Time       `gorm:"type:date;not null" json:"date_joined"`
	DateLeft        time.Time       `gorm:"type:date;not null" json:"date_left"`
	ApprovedTime    time.Time       `gorm:"not null" json:"approved_time"`
	CreatedTime     time.Time       `gorm:"autoCreateTime" json:"created_time"`
	ModifiedTime    time.Time       `gorm:"autoUpdateTime" json:"modified_time"`
}

func (ProjectUserMembership) TableName() string {
	return "project_user_memberships"
}

// New returns a membership awaiting authorisation, joined on the day of now.
func New(projectID, userID uint, initiatedByUser bool, now time.Time) *ProjectUserMembership {
	return &ProjectUserMembership{
		ProjectID:       projectID,
		UserID:          userID,
		Status:          StatusAwaitingAuthorisation,
		PreviousStatus:  StatusAwaitingAuthorisation,
		InitiatedByUser: initiatedByUser,
		DateJoined:      Day(now),
		DateLeft:        project.OpenEnded,
		ApprovedTime:    project.OpenEnded,
	}
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (m *ProjectUserMembership) IsActive() bool {
	return m.Status == StatusAuthorised
}
