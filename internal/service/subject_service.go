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
	subjectListCacheKey = "tla:subjects:active"
	subjectListCacheTTL = 5 * time.Minute
)

type SubjectService struct {
	SubjectRepo *repository.SubjectRepository
	Redis       *redis.Client
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, rdb *redis.Client) *SubjectService {
	return &SubjectService{
		SubjectRepo: subjectRepo,
		Redis:       rdb,
	}
}

type SubjectCreateRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=500"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Difficulty  int    `json:"difficulty" binding:"omitempty,min=1,max=5"`
}

type SubjectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Difficulty  *int    `json:"difficulty"`
}

type SubjectListItem struct {
	model.Subject
	VocabularyCount int64 `json:"vocabularyCount"`
}

func (s *SubjectService) ListActive(ctx context.Context) ([]SubjectListItem, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, subjectListCacheKey).Result()
		if err == nil {
			var items []SubjectListItem
			if json.Unmarshal([]byte(cached), &items) == nil {
				return items, nil
			}
		}
	}

	subjects, err := s.SubjectRepo.ListActive()
	if err != nil {
		return nil, err
	}

	items := make([]SubjectListItem, 0, len(subjects))
	for _, subject := range subjects {
		count, err := s.SubjectRepo.CountVocabulary(subject.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, SubjectListItem{Subject: subject, VocabularyCount: count})
	}

	if s.Redis != nil {
		if data, err := json.Marshal(items); err == nil {
			s.Redis.Set(ctx, subjectListCacheKey, data, subjectListCacheTTL)
		}
	}

	return items, nil
}

func (s *SubjectService) GetByID(id uint) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByIDWithVocabulary(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) Create(ctx context.Context, req SubjectCreateRequest) (*model.Subject, error) {
	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}
	subject := &model.Subject{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Difficulty:  difficulty,
		IsActive:    true,
	}
	if err := s.SubjectRepo.Create(subject); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id uint, req SubjectUpdateRequest) (*model.Subject, error) {
	subject, err := s.SubjectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = *req.Description
	}
	if req.Icon != nil {
		subject.Icon = *req.Icon
	}
	if req.Color != nil {
		subject.Color = *req.Color
	}
	if req.Difficulty != nil {
		subject.Difficulty = *req.Difficulty
	}

	if err := s.SubjectRepo.Update(subject); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return subject, nil
}

func (s *SubjectService) Delete(ctx context.Context, id uint) error {
	if _, err := s.SubjectRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSubjectNotFound
		}
		return err
	}
	if err := s.SubjectRepo.Deactivate(id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *SubjectService) invalidateCache(ctx context.Context) {
	if s.Redis != nil {
		s.Redis.Del(ctx, subjectListCacheKey)
	}
}
