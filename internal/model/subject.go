package model

// swagger:model Subject
type Subject struct {
	BaseModel
	Name        string `gorm:"size:50;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	Color       string `gorm:"size:7" json:"color"` // 十六进制颜色值，如 #3B82F6
	Difficulty  int    `gorm:"default:1" json:"difficulty"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	Vocabulary []Vocabulary `gorm:"foreignKey:SubjectID" json:"vocabulary,omitempty"`
	Challenges []Challenge  `gorm:"foreignKey:SubjectID" json:"challenges,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}
