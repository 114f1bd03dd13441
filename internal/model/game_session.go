package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type SessionType string

const (
	SessionTypeMainPath SessionType = "main_path"
	SessionTypePractice SessionType = "practice"
)

func (t SessionType) Valid() bool {
	return t == SessionTypeMainPath || t == SessionTypePractice
}

// SessionPlan 会话计划：创建时冻结的题目ID顺序列表，加一个游标。
// 以JSON列落库，每次读出都必须先 Validate 再使用。
type SessionPlan struct {
	ChallengeIDs []uint `json:"challengeIds"`
	Cursor       int    `json:"cursor"`
}

func (p SessionPlan) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *SessionPlan) Scan(value interface{}) error {
	if value == nil {
		*p = SessionPlan{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for SessionPlan: %T", value)
	}
	if len(data) == 0 {
		*p = SessionPlan{}
		return nil
	}
	return json.Unmarshal(data, p)
}

// Validate 校验计划结构与会话声明的题目总数是否一致，
// 游标越界或长度不符的持久化状态一律拒绝。
func (p *SessionPlan) Validate(totalChallenges int) error {
	if len(p.ChallengeIDs) != totalChallenges {
		return fmt.Errorf("session plan has %d challenges, session declares %d", len(p.ChallengeIDs), totalChallenges)
	}
	if p.Cursor < 0 || p.Cursor > totalChallenges {
		return fmt.Errorf("session plan cursor %d out of range [0,%d]", p.Cursor, totalChallenges)
	}
	return nil
}

// Exhausted 游标是否已走完全部题目
func (p *SessionPlan) Exhausted() bool {
	return p.Cursor >= len(p.ChallengeIDs)
}

// swagger:model GameSession
type GameSession struct {
	UUIDBase
	UserID          uint        `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	SubjectID       uint        `gorm:"index;type:bigint unsigned;not null" json:"subjectId"`
	SessionType     SessionType `gorm:"size:20;default:'main_path'" json:"sessionType"`
	TotalChallenges int         `gorm:"not null" json:"totalChallenges"`
	Plan            SessionPlan `gorm:"type:json" json:"-"`
	CorrectAnswers  int         `gorm:"default:0" json:"correctAnswers"`
	XPEarned        int         `gorm:"default:0" json:"xpEarned"`
	IsCompleted     bool        `gorm:"default:false" json:"isCompleted"`
	Accuracy        float64     `gorm:"default:0" json:"accuracy"` // 结算时落库的快照，保留全精度
	StartedAt       time.Time   `json:"startedAt"`
	CompletedAt     *time.Time  `json:"completedAt,omitempty"`

	Subject  *Subject           `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Attempts []ChallengeAttempt `gorm:"foreignKey:SessionID" json:"attempts,omitempty"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}
