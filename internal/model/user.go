package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Email       string    `gorm:"size:100;unique;not null" json:"email"`
	Username    string    `gorm:"size:50;unique;not null" json:"username"`
	Password    string    `gorm:"size:100;not null" json:"-"`
	FirstName   string    `gorm:"size:50" json:"firstName"`
	LastName    string    `gorm:"size:50" json:"lastName"`
	TotalXP     int       `gorm:"default:0" json:"totalXP"` // 累计经验值，会话结算时累加
	Level       int       `gorm:"default:1" json:"level"`
	Streak      int       `gorm:"default:0" json:"streak"`
	Avatar      string    `gorm:"size:255" json:"avatar"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}

func (User) TableName() string {
	return "users"
}
