package audit

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index" json:"user_id"`
	Action       string         `gorm:"size:64;not null" json:"action"`
	ResourceType string         `gorm:"size:64;not null;index" json:"resource_type"`
	ResourceID   string         `gorm:"size:128" json:"resource_id"`
	ProjectID    *uint          `gorm:"index" json:"project_id,omitempty"`
	OldData      datatypes.JSON `json:"old_data,omitempty"`
	NewData      datatypes.JSON `json:"new_data,omitempty"`
	IPAddress    string         `gorm:"size:64" json:"ip_address"`
	UserAgent    string         `gorm:"size:512" json:"user_agent"`
	Description  string         `gorm:"type:text" json:"description"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type EntityType string

const (
	EntityMembership    EntityType = "membership"
	EntityProject       EntityType = "project"
	EntityAllocation    EntityType = "allocation"
	EntityRSEAllocation EntityType = "rse_allocation"

	EntityAttribution EntityType = "attribution"
)

// Ref names the record an audit entry is about. ProjectID is zero for
// records that do not belong to one project.
type Ref struct {
	Entity    EntityType
	ID        uint
	ProjectID uint
}

// StatusChange is one row of the append-only status history.
type StatusChange struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	EntityType EntityType     `gorm:"size:32;not null;index:idx_status_change_entity,priority:1" json:"entity_type"`
	EntityID   uint           `gorm:"not null;index:idx_status_change_entity,priority:2" json:"entity_id"`
	ProjectID  uint           `gorm:"not null;index" json:"project_id"`
	OldStatus  string         `gorm:"size:32;not null" json:"old_status"`
	NewStatus  string         `gorm:"size:32;not null" json:"new_status"`
	ActorID    uint           `gorm:"not null" json:"actor_id"`
	Reason     string         `gorm:"type:text" json:"reason"`
	EventID    string         `gorm:"size:36;not null" json:"event_id"`
	Snapshot   datatypes.JSON `json:"snapshot"`
	CreatedAt  time.Time      `gorm:"not null;index:idx_status_change_entity,priority:3" json:"created_at"`
}

func (StatusChange) TableName() string {
	return "status_changes"
}
