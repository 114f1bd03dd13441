package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const (
	ChallengeTypeMultipleChoice = "multiple_choice"
)

// StringList 以JSON数组形式落库的字符串列表
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Challenge 一道选择题，由词条派生；对会话引擎只读
// swagger:model Challenge
type Challenge struct {
	BaseModel
	SubjectID     uint       `gorm:"index;type:bigint unsigned;not null" json:"subjectId"`
	VocabularyID  uint       `gorm:"index;type:bigint unsigned" json:"vocabularyId"`
	Type          string     `gorm:"size:30;default:'multiple_choice'" json:"type"`
	Level         int        `gorm:"default:1" json:"level"`
	Prompt        string     `gorm:"size:500;not null" json:"prompt"`
	CorrectAnswer string     `gorm:"size:255;not null" json:"-"`
	Distractors   StringList `gorm:"type:json" json:"-"`
	TimeLimit     int        `gorm:"default:30" json:"timeLimit"` // 秒
	XPReward      int        `gorm:"default:10" json:"xpReward"`
	Difficulty    int        `gorm:"default:1" json:"difficulty"`
	IsActive      bool       `gorm:"default:true" json:"isActive"`
}

func (Challenge) TableName() string {
	return "challenges"
}

// OptionSet 返回正确答案加干扰项的完整选项集合（未打乱）
func (c *Challenge) OptionSet() []string {
	options := make([]string, 0, len(c.Distractors)+1)
	options = append(options, c.CorrectAnswer)
	options = append(options, c.Distractors...)
	return options
}
