package model

import "time"

// ChallengeAttempt 答题台账：每个 (会话, 题目) 对至多一条。
// 唯一索引只是兜底，引擎在事务内先查后写。
// swagger:model ChallengeAttempt
type ChallengeAttempt struct {
	UUIDBase
	SessionID   string    `gorm:"index;type:varchar(36);not null;uniqueIndex:idx_session_challenge" json:"sessionId"`
	ChallengeID uint      `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_session_challenge" json:"challengeId"`
	UserAnswer  string    `gorm:"size:255" json:"userAnswer"`
	IsCorrect   bool      `gorm:"default:false" json:"isCorrect"`
	TimeTaken   int       `gorm:"default:0" json:"timeTaken"` // 秒，客户端上报，仅作元数据
	XPEarned    int       `gorm:"default:0" json:"xpEarned"`
	AttemptedAt time.Time `json:"attemptedAt"`

	Challenge *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
}

func (ChallengeAttempt) TableName() string {
	return "challenge_attempts"
}
