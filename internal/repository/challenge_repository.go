package repository

import (
	"tla_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) Create(c *model.Challenge) error {
	return r.DB.Create(c).Error
}

// ListActiveBySubject 返回主题下全部可用题目，
// 顺序固定：level 升序、difficulty 升序、id 兜底保证稳定
func (r *ChallengeRepository) ListActiveBySubject(subjectID uint) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("subject_id = ? AND is_active = ?", subjectID, true).
		Order("level ASC, difficulty ASC, id ASC").
		Find(&challenges).Error
	return challenges, err
}

