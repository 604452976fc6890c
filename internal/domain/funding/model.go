package funding

import (
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/project"
)

type AttributionType string

const (
	TypeFundingSource AttributionType = "funding_source"
	TypePublication   AttributionType = "publication"
)

func (t AttributionType) Valid() bool {
	return t == TypeFundingSource || t == TypePublication
}

// Attribution is a funding source or publication credited to projects.
type Attribution struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Type        AttributionType   `gorm:"size:32;not null" json:"type"`
	Identifier  string            `gorm:"size:255" json:"identifier"`
	FundingBody string            `gorm:"size:255" json:"funding_body"`
	PIEmail     string            `gorm:"size:254" json:"pi_email"`
	CreatedByID uint              `gorm:"not null;index" json:"created_by_id"`
	Projects    []project.Project `gorm:"many2many:project_attributions" json:"-"`
	CreatedTime time.Time         `gorm:"autoCreateTime" json:"created_time"`
}

func (Attribution) TableName() string {
	return "attributions"
}

type CreateAttributionDTO struct {
	Title       string          `json:"title" form:"title" binding:"required,max=255"`
	Type        AttributionType `json:"type" form:"type" binding:"required,oneof=funding_source publication"`
	Identifier  string          `json:"identifier" form:"identifier"`
	FundingBody string          `json:"funding_body" form:"funding_body"`
	PIEmail     string          `json:"pi_email" form:"pi_email" binding:"omitempty,email"`
}

type AttachAttributionDTO struct {
	AttributionID uint `json:"attribution_id" form:"attribution_id" binding:"required"`
}
