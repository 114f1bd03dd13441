package model

// Vocabulary 词条：一个缩写词及其释义
// swagger:model Vocabulary
type Vocabulary struct {
	BaseModel
	SubjectID  uint   `gorm:"index;type:bigint unsigned;not null" json:"subjectId"`
	Term       string `gorm:"size:20;not null" json:"term"`
	Definition string `gorm:"size:500;not null" json:"definition"`
	FullForm   string `gorm:"size:255;not null" json:"fullForm"`
	Example    string `gorm:"size:500" json:"example"`
	Difficulty int    `gorm:"default:1" json:"difficulty"`
	IsActive   bool   `gorm:"default:true" json:"isActive"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (Vocabulary) TableName() string {
	return "vocabulary"
}
