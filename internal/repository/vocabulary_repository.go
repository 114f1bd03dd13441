package repository

import (
	"tla_backend/internal/model"

	"gorm.io/gorm"
)

type VocabularyRepository struct {
	DB *gorm.DB
}

func NewVocabularyRepository(db *gorm.DB) *VocabularyRepository {
	return &VocabularyRepository{DB: db}
}

func (r *VocabularyRepository) Create(v *model.Vocabulary) error {
	return r.DB.Create(v).Error
}

func (r *VocabularyRepository) FindByID(id uint) (*model.Vocabulary, error) {
	var v model.Vocabulary
	err := r.DB.Preload("Subject").First(&v, id).Error
	return &v, err
}

func (r *VocabularyRepository) ListBySubject(subjectID uint, difficulty, page, limit int) ([]model.Vocabulary, int64, error) {
	query := r.DB.Model(&model.Vocabulary{}).
		Where("subject_id = ? AND is_active = ?", subjectID, true)
	if difficulty > 0 {
		query = query.Where("difficulty = ?", difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Vocabulary
	err := query.Order("term ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

func (r *VocabularyRepository) Search(q string, subjectID uint, difficulty, limit int) ([]model.Vocabulary, error) {
	pattern := "%" + q + "%"
	query := r.DB.Preload("Subject").
		Where("is_active = ?", true).
		Where("term LIKE ? OR definition LIKE ? OR full_form LIKE ?", pattern, pattern, pattern)
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if difficulty > 0 {
		query = query.Where("difficulty = ?", difficulty)
	}

	var items []model.Vocabulary
	err := query.Order("term ASC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *VocabularyRepository) Update(v *model.Vocabulary) error {
	return r.DB.Save(v).Error
}

func (r *VocabularyRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Vocabulary{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}
