package service

import (
	"context"
	"testing"

	"tla_backend/internal/model"
	"tla_backend/internal/repository"
	"tla_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newVocabularyService(db *gorm.DB) *VocabularyService {
	return NewVocabularyService(
		repository.NewVocabularyRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewChallengeRepository(db),
	)
}

func seedSubject(t *testing.T, db *gorm.DB) model.Subject {
	t.Helper()
	subject := model.Subject{Name: "Medical", Difficulty: 2, IsActive: true}
	require.NoError(t, db.Create(&subject).Error)
	return subject
}

func TestVocabularyCreateDerivesChallenge(t *testing.T) {
	db := newTestDB(t)
	svc := newVocabularyService(db)
	subject := seedSubject(t, db)

	// 先造两个词条作为干扰项来源
	for _, seed := range []struct{ term, full string }{
		{"CPR", "Cardiopulmonary Resuscitation"},
		{"MRI", "Magnetic Resonance Imaging"},
	} {
		_, err := svc.Create(VocabularyCreateRequest{
			SubjectID:  subject.ID,
			Term:       seed.term,
			Definition: "definition",
			FullForm:   seed.full,
			Difficulty: 2,
		})
		require.NoError(t, err)
	}

	v, err := svc.Create(VocabularyCreateRequest{
		SubjectID:  subject.ID,
		Term:       "ICU",
		Definition: "intensive care unit",
		FullForm:   "Intensive Care Unit",
		Difficulty: 3,
	})
	require.NoError(t, err)

	var challenge model.Challenge
	require.NoError(t, db.Where("vocabulary_id = ?", v.ID).First(&challenge).Error)
	assert.Equal(t, "What does ICU stand for?", challenge.Prompt)
	assert.Equal(t, "Intensive Care Unit", challenge.CorrectAnswer)
	assert.Equal(t, 30, challenge.XPReward) // 10 * difficulty
	assert.Equal(t, 3, challenge.Level)
	assert.ElementsMatch(t,
		model.StringList{"Cardiopulmonary Resuscitation", "Magnetic Resonance Imaging"},
		challenge.Distractors,
	)
}

func TestVocabularyCreateUnknownSubject(t *testing.T) {
	db := newTestDB(t)
	svc := newVocabularyService(db)

	_, err := svc.Create(VocabularyCreateRequest{
		SubjectID:  9999,
		Term:       "API",
		Definition: "d",
		FullForm:   "Application Programming Interface",
	})
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestVocabularyListBySubjectPaged(t *testing.T) {
	db := newTestDB(t)
	svc := newVocabularyService(db)
	subject := seedSubject(t, db)

	terms := []string{"CPR", "ECG", "ICU", "MRI", "ROI"}
	for _, term := range terms {
		_, err := svc.Create(VocabularyCreateRequest{
			SubjectID:  subject.ID,
			Term:       term,
			Definition: "definition",
			FullForm:   term + " full form",
			Difficulty: 2,
		})
		require.NoError(t, err)
	}

	page, err := svc.ListBySubject(subject.ID, 0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, int64(3), page.Pages)
	require.Len(t, page.Items, 2)
	// term 升序
	assert.Equal(t, "CPR", page.Items[0].Term)
	assert.Equal(t, "ECG", page.Items[1].Term)

	// 难度过滤
	filtered, err := svc.ListBySubject(subject.ID, 5, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), filtered.Total)
}

func TestVocabularySearch(t *testing.T) {
	db := newTestDB(t)
	svc := newVocabularyService(db)
	subject := seedSubject(t, db)

	_, err := svc.Create(VocabularyCreateRequest{
		SubjectID:  subject.ID,
		Term:       "MRI",
		Definition: "an imaging technique",
		FullForm:   "Magnetic Resonance Imaging",
	})
	require.NoError(t, err)

	// 命中全称
	hits, err := svc.Search("resonance", 0, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "MRI", hits[0].Term)

	// 命中释义
	hits, err = svc.Search("imaging technique", 0, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = svc.Search("nonexistent", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVocabularyDeleteIsSoft(t *testing.T) {
	db := newTestDB(t)
	svc := newVocabularyService(db)
	subject := seedSubject(t, db)

	v, err := svc.Create(VocabularyCreateRequest{
		SubjectID:  subject.ID,
		Term:       "ROI",
		Definition: "d",
		FullForm:   "Return on Investment",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(v.ID))

	// 行还在，只是不再出现在列表里
	var stored model.Vocabulary
	require.NoError(t, db.First(&stored, v.ID).Error)
	assert.False(t, stored.IsActive)

	page, err := svc.ListBySubject(subject.ID, 0, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)

	assert.ErrorIs(t, svc.Delete(9999), util.ErrVocabularyNotFound)
}

func TestSubjectServiceCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(repository.NewSubjectRepository(db), nil)
	ctx := context.Background()

	subject, err := svc.Create(ctx, SubjectCreateRequest{Name: "Business", Color: "#F59E0B"})
	require.NoError(t, err)
	assert.Equal(t, 1, subject.Difficulty) // 默认难度

	name := "Business & Finance"
	updated, err := svc.Update(ctx, subject.ID, SubjectUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	items, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, name, items[0].Name)

	require.NoError(t, svc.Delete(ctx, subject.ID))
	items, err = svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.GetByID(9999)
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}
