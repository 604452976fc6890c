package institution

// Institution holds the per-institution policy flags.
type Institution struct {
	ID                      uint   `gorm:"primaryKey" json:"id"`
	Name                    string `gorm:"size:255;not null;uniqueIndex" json:"name"`
	BaseDomain              string `gorm:"size:255;not null;uniqueIndex" json:"base_domain"`
	IdentityProvider        string `gorm:"size:255;not null;uniqueIndex" json:"identity_provider"`
	NeedsUserApproval       bool   `gorm:"not null;default:false" json:"needs_user_approval"`
	NeedsSupervisorApproval bool   `gorm:"not null;default:false" json:"needs_supervisor_approval"`
	AllowsRSERequests       bool   `gorm:"not null;default:false" json:"allows_rse_requests"`
}

func (Institution) TableName() string {
	return "institutions"
}
