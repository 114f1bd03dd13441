package repository

import (
	"tla_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *SubjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.First(&subject, id).Error
	return &subject, err
}

func (r *SubjectRepository) FindActiveByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Where("id = ? AND is_active = ?", id, true).First(&subject).Error
	return &subject, err
}

func (r *SubjectRepository) FindByIDWithVocabulary(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Preload("Vocabulary", "is_active = ?", true).First(&subject, id).Error
	return &subject, err
}

func (r *SubjectRepository) ListActive() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Where("is_active = ?", true).Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) CountVocabulary(subjectID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Vocabulary{}).
		Where("subject_id = ? AND is_active = ?", subjectID, true).
		Count(&count).Error
	return count, err
}

func (r *SubjectRepository) Update(subject *model.Subject) error {
	return r.DB.Save(subject).Error
}

// Deactivate 软删除：置 is_active=false，保留历史会话的引用
func (r *SubjectRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Subject{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}
