package service

import (
	"tla_backend/internal/model"
	"tla_backend/internal/repository"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
}

func NewAchievementService(achievementRepo *repository.AchievementRepository) *AchievementService {
	return &AchievementService{AchievementRepo: achievementRepo}
}

func (s *AchievementService) List() ([]model.Achievement, error) {
	return s.AchievementRepo.ListAll()
}
