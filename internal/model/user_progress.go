package model

import "time"

// UserProgress 用户在单个主题下的累计进度，(user, subject) 唯一
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID      uint      `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_user_subject" json:"userId"`
	SubjectID   uint      `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_user_subject" json:"subjectId"`
	TotalXP     int       `gorm:"default:0" json:"totalXP"`
	LastStudied time.Time `json:"lastStudied"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
