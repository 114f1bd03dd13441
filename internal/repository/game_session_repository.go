package repository

import (
	"tla_backend/internal/model"

	"gorm.io/gorm"
)

type GameSessionRepository struct {
	DB *gorm.DB
}

func NewGameSessionRepository(db *gorm.DB) *GameSessionRepository {
	return &GameSessionRepository{DB: db}
}

func (r *GameSessionRepository) Create(session *model.GameSession) error {
	return r.DB.Create(session).Error
}

func (r *GameSessionRepository) Update(session *model.GameSession) error {
	return r.DB.Save(session).Error
}

// FindOwnedWithAttempts 按 (id, userID) 查询，非属主视同不存在
func (r *GameSessionRepository) FindOwnedWithAttempts(id string, userID uint) (*model.GameSession, error) {
	var session model.GameSession
	err := r.DB.Preload("Subject").
		Preload("Attempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("attempted_at ASC")
		}).
		Preload("Attempts.Challenge").
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	return &session, err
}

func (r *GameSessionRepository) ListByUser(userID uint, limit int) ([]model.GameSession, error) {
	var sessions []model.GameSession
	err := r.DB.Preload("Subject").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
