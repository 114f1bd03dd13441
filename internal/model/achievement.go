package model

// swagger:model Achievement
type Achievement struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	Category    string `gorm:"size:50" json:"category"` // milestone/mastery/streak/exploration
	Requirement int    `gorm:"default:1" json:"requirement"`
	XPReward    int    `gorm:"default:0" json:"xpReward"`
}

func (Achievement) TableName() string {
	return "achievements"
}
