package repository

import (
	"tla_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeAttemptRepository struct {
	DB *gorm.DB
}

func NewChallengeAttemptRepository(db *gorm.DB) *ChallengeAttemptRepository {
	return &ChallengeAttemptRepository{DB: db}
}

func (r *ChallengeAttemptRepository) CountBySession(sessionID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ChallengeAttempt{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
