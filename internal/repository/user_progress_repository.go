package repository

import (
	"tla_backend/internal/model"

	"gorm.io/gorm"
)

type UserProgressRepository struct {
	DB *gorm.DB
}

func NewUserProgressRepository(db *gorm.DB) *UserProgressRepository {
	return &UserProgressRepository{DB: db}
}

func (r *UserProgressRepository) ListByUser(userID uint) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	err := r.DB.Preload("Subject").
		Where("user_id = ?", userID).
		Order("last_studied DESC").
		Find(&progress).Error
	return progress, err
}
