package system

// System is a compute cluster an allocation can target.
type System struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Description   string `gorm:"type:text" json:"description"`
	NumberOfCores uint   `gorm:"not null;default:0" json:"number_of_cores"`
}

func (System) TableName() string {
	return "systems"
}

type SystemInput struct {
	Name          string `json:"name" yaml:"name" binding:"required"`
	Description   string `json:"description" yaml:"description"`
	NumberOfCores uint   `json:"number_of_cores" yaml:"number_of_cores"`
}
