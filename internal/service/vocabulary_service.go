package service

import (
	"errors"
	"fmt"

	"tla_backend/internal/model"
	"tla_backend/internal/repository"
	"tla_backend/internal/util"

	"gorm.io/gorm"
)

type VocabularyService struct {
	VocabRepo     *repository.VocabularyRepository
	SubjectRepo   *repository.SubjectRepository
	ChallengeRepo *repository.ChallengeRepository
}

func NewVocabularyService(vocabRepo *repository.VocabularyRepository, subjectRepo *repository.SubjectRepository, challengeRepo *repository.ChallengeRepository) *VocabularyService {
	return &VocabularyService{
		VocabRepo:     vocabRepo,
		SubjectRepo:   subjectRepo,
		ChallengeRepo: challengeRepo,
	}
}

type VocabularyCreateRequest struct {
	SubjectID  uint   `json:"subjectId" binding:"required"`
	Term       string `json:"term" binding:"required,max=20"`
	Definition string `json:"definition" binding:"required,max=500"`
	FullForm   string `json:"fullForm" binding:"required,max=255"`
	Example    string `json:"example" binding:"max=500"`
	Difficulty int    `json:"difficulty" binding:"omitempty,min=1,max=5"`
}

type VocabularyUpdateRequest struct {
	Term       *string `json:"term"`
	Definition *string `json:"definition"`
	FullForm   *string `json:"fullForm"`
	Example    *string `json:"example"`
	Difficulty *int    `json:"difficulty"`
}

type VocabularyPage struct {
	Items []model.Vocabulary `json:"vocabulary"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Pages int64              `json:"pages"`
}

func (s *VocabularyService) ListBySubject(subjectID uint, difficulty, page, limit int) (*VocabularyPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.VocabRepo.ListBySubject(subjectID, difficulty, page, limit)
	if err != nil {
		return nil, err
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &VocabularyPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}, nil
}

func (s *VocabularyService) GetByID(id uint) (*model.Vocabulary, error) {
	v, err := s.VocabRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrVocabularyNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *VocabularyService) Search(q string, subjectID uint, difficulty int) ([]model.Vocabulary, error) {
	// 搜索结果上限50条
	return s.VocabRepo.Search(q, subjectID, difficulty, 50)
}

// Create 创建词条并同步派生一道选择题，供会话引擎选题
func (s *VocabularyService) Create(req VocabularyCreateRequest) (*model.Vocabulary, error) {
	if _, err := s.SubjectRepo.FindByID(req.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}

	v := &model.Vocabulary{
		SubjectID:  req.SubjectID,
		Term:       req.Term,
		Definition: req.Definition,
		FullForm:   req.FullForm,
		Example:    req.Example,
		Difficulty: difficulty,
		IsActive:   true,
	}
	if err := s.VocabRepo.Create(v); err != nil {
		return nil, err
	}

	// 干扰项取同主题其他词条的全称，不足时题目仍可用（选项数≥1）
	siblings, err := s.VocabRepo.Search("", req.SubjectID, 0, 50)
	var distractors model.StringList
	if err == nil {
		for _, sib := range siblings {
			if sib.ID != v.ID && sib.FullForm != v.FullForm && len(distractors) < 3 {
				distractors = append(distractors, sib.FullForm)
			}
		}
	}

	challenge := &model.Challenge{
		SubjectID:     v.SubjectID,
		VocabularyID:  v.ID,
		Type:          model.ChallengeTypeMultipleChoice,
		Level:         difficulty,
		Prompt:        fmt.Sprintf("What does %s stand for?", v.Term),
		CorrectAnswer: v.FullForm,
		Distractors:   distractors,
		TimeLimit:     30,
		XPReward:      10 * difficulty,
		Difficulty:    difficulty,
		IsActive:      true,
	}
	if err := s.ChallengeRepo.Create(challenge); err != nil {
		return nil, err
	}

	return v, nil
}

func (s *VocabularyService) Update(id uint, req VocabularyUpdateRequest) (*model.Vocabulary, error) {
	v, err := s.VocabRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrVocabularyNotFound
		}
		return nil, err
	}

	if req.Term != nil {
		v.Term = *req.Term
	}
	if req.Definition != nil {
		v.Definition = *req.Definition
	}
	if req.FullForm != nil {
		v.FullForm = *req.FullForm
	}
	if req.Example != nil {
		v.Example = *req.Example
	}
	if req.Difficulty != nil {
		v.Difficulty = *req.Difficulty
	}

	if err := s.VocabRepo.Update(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VocabularyService) Delete(id uint) error {
	if _, err := s.VocabRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrVocabularyNotFound
		}
		return err
	}
	return s.VocabRepo.Deactivate(id)
}
