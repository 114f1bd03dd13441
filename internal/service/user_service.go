package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tla_backend/internal/model"
	"tla_backend/internal/repository"
	"tla_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "tla:leaderboard"
	leaderboardCacheTTL = time.Minute
)

type UserService struct {
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.UserProgressRepository
	Redis        *redis.Client
}

func NewUserService(userRepo *repository.UserRepository, progressRepo *repository.UserProgressRepository, rdb *redis.Client) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		Redis:        rdb,
	}
}

type ProfileResponse struct {
	User     *model.User          `json:"user"`
	Progress []model.UserProgress `json:"progress"`
}

func (s *UserService) GetProfile(userID uint) (*ProfileResponse, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	progress, err := s.ProgressRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{User: user, Progress: progress}, nil
}

func (s *UserService) UpdateAvatar(userID uint, avatarURL string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	user.Avatar = avatarURL
	return s.UserRepo.Update(user)
}

type LeaderboardEntry struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	TotalXP  int    `json:"totalXP"`
	Level    int    `json:"level"`
}

// Leaderboard 按累计XP排名，结果在Redis短暂缓存，缓存失效或不可用时直查库
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil && len(entries) >= limit {
				return entries[:limit], nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, LeaderboardEntry{
			UserID:   u.ID,
			Username: u.Username,
			TotalXP:  u.TotalXP,
			Level:    u.Level,
		})
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			s.Redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL)
		}
	}

	return entries, nil
}
