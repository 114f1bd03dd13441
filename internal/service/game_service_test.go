package service

import (
	"fmt"
	"math/rand"
	"os"
	"testing"

	"tla_backend/internal/config"
	"tla_backend/internal/model"
	"tla_backend/internal/repository"
	"tla_backend/internal/util"
	"tla_backend/pkg/database"
	"tla_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// 内存库限单连接，连接池换连接会丢库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newGameService(db *gorm.DB) *GameService {
	cfg := &config.Config{Game: config.GameConfig{MaxChallengesPerSession: 5}}
	rng := rand.New(rand.NewSource(1))
	return NewGameService(
		repository.NewSubjectRepository(db),
		repository.NewChallengeRepository(db),
		repository.NewGameSessionRepository(db),
		repository.NewChallengeAttemptRepository(db),
		db, cfg, rng,
	)
}

type gameFixture struct {
	user       model.User
	subject    model.Subject
	challenges []model.Challenge
}

// seedGame 建用户、主题和 n 道选择题，题目 level 递增
func seedGame(t *testing.T, db *gorm.DB, n int) gameFixture {
	t.Helper()

	user := model.User{
		Email:    "player@example.com",
		Username: "player",
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)

	subject := model.Subject{
		Name:       "Technology",
		Difficulty: 1,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&subject).Error)

	terms := []struct {
		term, fullForm string
	}{
		{"API", "Application Programming Interface"},
		{"SQL", "Structured Query Language"},
		{"CPU", "Central Processing Unit"},
		{"RAM", "Random Access Memory"},
		{"DNS", "Domain Name System"},
		{"TCP", "Transmission Control Protocol"},
		{"URL", "Uniform Resource Locator"},
	}
	require.LessOrEqual(t, n, len(terms))

	challenges := make([]model.Challenge, 0, n)
	for i := 0; i < n; i++ {
		c := model.Challenge{
			SubjectID:     subject.ID,
			Type:          model.ChallengeTypeMultipleChoice,
			Level:         i + 1,
			Prompt:        fmt.Sprintf("What does %s stand for?", terms[i].term),
			CorrectAnswer: terms[i].fullForm,
			Distractors:   model.StringList{"Wrong One", "Wrong Two", "Wrong Three"},
			TimeLimit:     30,
			XPReward:      10,
			Difficulty:    1,
			IsActive:      true,
		}
		require.NoError(t, db.Create(&c).Error)
		challenges = append(challenges, c)
	}

	return gameFixture{user: user, subject: subject, challenges: challenges}
}

func TestStartSessionFreezesPlan(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 7)

	result, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)

	// 超过上限时只取前5题
	assert.Equal(t, 5, result.Session.TotalChallenges)
	assert.Equal(t, 0, result.Session.CurrentChallenge)
	assert.Equal(t, "Technology", result.Session.SubjectName)

	var session model.GameSession
	require.NoError(t, db.First(&session, "id = ?", result.Session.ID).Error)
	assert.Equal(t, 5, session.TotalChallenges)
	assert.Equal(t, 0, session.Plan.Cursor)
	require.Len(t, session.Plan.ChallengeIDs, 5)

	// 计划按 level 升序冻结
	for i := 0; i < 5; i++ {
		assert.Equal(t, fx.challenges[i].ID, session.Plan.ChallengeIDs[i])
	}

	// 首题为计划第一题，选项含正确答案且不暴露哪个是对的
	assert.Equal(t, fx.challenges[0].ID, result.Challenge.ID)
	assert.ElementsMatch(t,
		append([]string{fx.challenges[0].CorrectAnswer}, fx.challenges[0].Distractors...),
		result.Challenge.Options,
	)
}

func TestStartSessionDefaultType(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 2)

	result, err := svc.StartSession(fx.user.ID, fx.subject.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.SessionTypeMainPath, result.Session.SessionType)
}

func TestStartSessionInvalidType(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 2)

	_, err := svc.StartSession(fx.user.ID, fx.subject.ID, "speedrun")
	assert.Error(t, err)
}

func TestStartSessionSubjectNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 1)

	_, err := svc.StartSession(fx.user.ID, 9999, model.SessionTypeMainPath)
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)

	// 停用的主题同样不可见
	require.NoError(t, db.Model(&model.Subject{}).Where("id = ?", fx.subject.ID).Update("is_active", false).Error)
	_, err = svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
}

func TestStartSessionNoChallenges(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 0)

	_, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	assert.ErrorIs(t, err, util.ErrNoChallengesAvailable)

	// 失败时不留下会话行
	var count int64
	require.NoError(t, db.Model(&model.GameSession{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestSubmitAttemptAdvancesSession(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 3)

	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	sessionID := started.Session.ID

	// 第一题：大小写与首尾空白不影响判定
	r1, err := svc.SubmitAttempt(sessionID, fx.challenges[0].ID, fx.user.ID, "  application programming interface  ", 12)
	require.NoError(t, err)
	assert.True(t, r1.IsCorrect)
	assert.Equal(t, 10, r1.XPEarned)
	assert.Equal(t, fx.challenges[0].CorrectAnswer, r1.CorrectAnswer)
	assert.Equal(t, 1, r1.Session.CorrectAnswers)
	assert.Equal(t, 10, r1.Session.TotalXP)
	assert.Equal(t, 1, r1.Session.ChallengesCompleted)
	require.NotNil(t, r1.NextChallenge)
	assert.Equal(t, fx.challenges[1].ID, r1.NextChallenge.ID)

	// 第二题答错：不得分，正确答案随结果返回
	r2, err := svc.SubmitAttempt(sessionID, fx.challenges[1].ID, fx.user.ID, "Simple Query Language", 8)
	require.NoError(t, err)
	assert.False(t, r2.IsCorrect)
	assert.Equal(t, 0, r2.XPEarned)
	assert.Equal(t, 1, r2.Session.CorrectAnswers)
	assert.Equal(t, 10, r2.Session.TotalXP)
	require.NotNil(t, r2.NextChallenge)

	// 第三题：超时提交照常受理，计划走完后没有下一题
	r3, err := svc.SubmitAttempt(sessionID, fx.challenges[2].ID, fx.user.ID, "Central Processing Unit", 999)
	require.NoError(t, err)
	assert.True(t, r3.IsCorrect)
	assert.Equal(t, 3, r3.Session.ChallengesCompleted)
	assert.Nil(t, r3.NextChallenge)

	var session model.GameSession
	require.NoError(t, db.First(&session, "id = ?", sessionID).Error)
	assert.Equal(t, 3, session.Plan.Cursor)
	assert.Equal(t, 2, session.CorrectAnswers)
	assert.Equal(t, 20, session.XPEarned)
	assert.False(t, session.IsCompleted)
}

func TestSubmitAttemptDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 3)

	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	sessionID := started.Session.ID

	_, err = svc.SubmitAttempt(sessionID, fx.challenges[0].ID, fx.user.ID, fx.challenges[0].CorrectAnswer, 5)
	require.NoError(t, err)

	// 重复提交同一题：报冲突且不产生任何写入
	_, err = svc.SubmitAttempt(sessionID, fx.challenges[0].ID, fx.user.ID, "Wrong One", 5)
	assert.ErrorIs(t, err, util.ErrChallengeAttempted)

	var session model.GameSession
	require.NoError(t, db.First(&session, "id = ?", sessionID).Error)
	assert.Equal(t, 1, session.Plan.Cursor)
	assert.Equal(t, 1, session.CorrectAnswers)
	assert.Equal(t, 10, session.XPEarned)

	var count int64
	require.NoError(t, db.Model(&model.ChallengeAttempt{}).Where("session_id = ?", sessionID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitAttemptOwnershipAndState(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 2)

	other := model.User{Email: "other@example.com", Username: "other", Password: "hashed"}
	require.NoError(t, db.Create(&other).Error)

	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	sessionID := started.Session.ID

	// 非属主视同不存在
	_, err = svc.SubmitAttempt(sessionID, fx.challenges[0].ID, other.ID, "x", 1)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	// 不存在的题目
	_, err = svc.SubmitAttempt(sessionID, 9999, fx.user.ID, "x", 1)
	assert.ErrorIs(t, err, util.ErrChallengeNotFound)

	// 已完成的会话不再受理提交
	_, err = svc.CompleteSession(sessionID, fx.user.ID)
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(sessionID, fx.challenges[0].ID, fx.user.ID, "x", 1)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestCompleteSessionAggregatesFromLedger(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 3)

	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	sessionID := started.Session.ID

	_, err = svc.SubmitAttempt(sessionID, fx.challenges[0].ID, fx.user.ID, fx.challenges[0].CorrectAnswer, 5)
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(sessionID, fx.challenges[1].ID, fx.user.ID, "wrong", 5)
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(sessionID, fx.challenges[2].ID, fx.user.ID, "wrong", 5)
	require.NoError(t, err)

	results, err := svc.CompleteSession(sessionID, fx.user.ID)
	require.NoError(t, err)

	assert.Equal(t, sessionID, results.SessionID)
	assert.Equal(t, "Technology", results.SubjectName)
	assert.Equal(t, 3, results.TotalChallenges)
	assert.Equal(t, 1, results.CorrectAnswers)
	assert.Equal(t, 33, results.Accuracy) // 1/3 取整
	assert.Equal(t, 10, results.XPEarned)
	require.Len(t, results.Attempts, 3)
	assert.Equal(t, fx.challenges[0].CorrectAnswer, results.Attempts[0].CorrectAnswer)
	assert.True(t, results.Attempts[0].IsCorrect)

	// 会话快照保留全精度
	var session model.GameSession
	require.NoError(t, db.First(&session, "id = ?", sessionID).Error)
	assert.True(t, session.IsCompleted)
	require.NotNil(t, session.CompletedAt)
	assert.InDelta(t, 33.333, session.Accuracy, 0.001)
	assert.Equal(t, 10, session.XPEarned)

	// 用户与 (用户, 主题) 进度各加一次
	var user model.User
	require.NoError(t, db.First(&user, fx.user.ID).Error)
	assert.Equal(t, 10, user.TotalXP)

	var progress model.UserProgress
	require.NoError(t, db.Where("user_id = ? AND subject_id = ?", fx.user.ID, fx.subject.ID).First(&progress).Error)
	assert.Equal(t, 10, progress.TotalXP)
}

func TestCompleteSessionNotIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 1)

	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)

	_, err = svc.CompleteSession(started.Session.ID, fx.user.ID)
	require.NoError(t, err)

	// 二次结算视同不存在，经验值不会重复入账
	_, err = svc.CompleteSession(started.Session.ID, fx.user.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestCompleteSessionWithoutAttempts(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 2)

	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)

	results, err := svc.CompleteSession(started.Session.ID, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, results.TotalChallenges)
	assert.Equal(t, 0, results.Accuracy)
	assert.Equal(t, 0, results.XPEarned)
	assert.Empty(t, results.Attempts)

	var user model.User
	require.NoError(t, db.First(&user, fx.user.ID).Error)
	assert.Equal(t, 0, user.TotalXP)
}

func TestCompleteSessionAccumulatesProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 2)

	for i := 0; i < 2; i++ {
		started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypePractice)
		require.NoError(t, err)
		_, err = svc.SubmitAttempt(started.Session.ID, fx.challenges[0].ID, fx.user.ID, fx.challenges[0].CorrectAnswer, 3)
		require.NoError(t, err)
		_, err = svc.CompleteSession(started.Session.ID, fx.user.ID)
		require.NoError(t, err)
	}

	var user model.User
	require.NoError(t, db.First(&user, fx.user.ID).Error)
	assert.Equal(t, 20, user.TotalXP)

	var progress []model.UserProgress
	require.NoError(t, db.Where("user_id = ?", fx.user.ID).Find(&progress).Error)
	require.Len(t, progress, 1)
	assert.Equal(t, 20, progress[0].TotalXP)
}

func TestGetSession(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 2)

	other := model.User{Email: "other@example.com", Username: "other", Password: "hashed"}
	require.NoError(t, db.Create(&other).Error)

	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	sessionID := started.Session.ID

	_, err = svc.SubmitAttempt(sessionID, fx.challenges[0].ID, fx.user.ID, fx.challenges[0].CorrectAnswer, 3)
	require.NoError(t, err)

	detail, err := svc.GetSession(sessionID, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, detail.Session.ID)
	assert.Equal(t, 1, detail.CurrentChallenge)
	assert.Equal(t, 1, detail.ChallengesCompleted)
	require.Len(t, detail.Session.Attempts, 1)

	_, err = svc.GetSession(sessionID, other.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	_, err = svc.GetSession("no-such-session", fx.user.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestRecentSessions(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 1)

	first, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	second, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypePractice)
	require.NoError(t, err)

	sessions, err := svc.RecentSessions(fx.user.ID, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// 按开始时间倒序
	assert.Equal(t, second.Session.ID, sessions[0].ID)
	assert.Equal(t, first.Session.ID, sessions[1].ID)

	limited, err := svc.RecentSessions(fx.user.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCorruptedPlanRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 2)

	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	sessionID := started.Session.ID

	// 直接把落库的计划改坏（长度与声明的题目数不符）
	require.NoError(t, db.Model(&model.GameSession{}).
		Where("id = ?", sessionID).
		Update("plan", `{"challengeIds":[1],"cursor":0}`).Error)

	_, err = svc.GetSession(sessionID, fx.user.ID)
	assert.ErrorIs(t, err, util.ErrSessionCorrupted)

	_, err = svc.SubmitAttempt(sessionID, fx.challenges[0].ID, fx.user.ID, "x", 1)
	assert.ErrorIs(t, err, util.ErrSessionCorrupted)
}

func TestSetMaxChallengesPerSession(t *testing.T) {
	db := newTestDB(t)
	svc := newGameService(db)
	fx := seedGame(t, db, 4)

	svc.SetMaxChallengesPerSession(2)
	started, err := svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	assert.Equal(t, 2, started.Session.TotalChallenges)

	// 非法值被忽略
	svc.SetMaxChallengesPerSession(0)
	started, err = svc.StartSession(fx.user.ID, fx.subject.ID, model.SessionTypeMainPath)
	require.NoError(t, err)
	assert.Equal(t, 2, started.Session.TotalChallenges)
}
