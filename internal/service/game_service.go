package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"tla_backend/internal/config"
	"tla_backend/internal/model"
	"tla_backend/internal/repository"
	"tla_backend/internal/util"
	"tla_backend/pkg/logger"
	"tla_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameService 游戏会话引擎：创建会话、校验作答、推进游标、结算。
// 同一会话的提交靠数据库事务加会话行锁串行化，不同会话互不影响。
type GameService struct {
	SubjectRepo   *repository.SubjectRepository
	ChallengeRepo *repository.ChallengeRepository
	SessionRepo   *repository.GameSessionRepository
	AttemptRepo   *repository.ChallengeAttemptRepository
	DB            *gorm.DB

	// 支持配置热更新，原子读写
	maxChallenges atomic.Int32

	// 选项乱序用的随机源由外部注入，测试可用固定种子
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewGameService(
	subjectRepo *repository.SubjectRepository,
	challengeRepo *repository.ChallengeRepository,
	sessionRepo *repository.GameSessionRepository,
	attemptRepo *repository.ChallengeAttemptRepository,
	db *gorm.DB,
	cfg *config.Config,
	rng *rand.Rand,
) *GameService {
	maxChallenges := 5
	if cfg != nil && cfg.Game.MaxChallengesPerSession > 0 {
		maxChallenges = cfg.Game.MaxChallengesPerSession
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &GameService{
		SubjectRepo:   subjectRepo,
		ChallengeRepo: challengeRepo,
		SessionRepo:   sessionRepo,
		AttemptRepo:   attemptRepo,
		DB:            db,
		rng:           rng,
	}
	s.maxChallenges.Store(int32(maxChallenges))
	return s
}

// SetMaxChallengesPerSession 更新会话题目上限，仅影响之后创建的会话
func (s *GameService) SetMaxChallengesPerSession(n int) {
	if n > 0 {
		s.maxChallenges.Store(int32(n))
	}
}

// ChallengeView 下发给客户端的题面，选项已乱序且不含正确答案标记
type ChallengeView struct {
	ID        uint     `json:"id"`
	Type      string   `json:"type"`
	Prompt    string   `json:"prompt"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"timeLimit"`
	XPReward  int      `json:"xpReward"`
}

type SessionSummary struct {
	ID               string            `json:"id"`
	SubjectID        uint              `json:"subjectId"`
	SubjectName      string            `json:"subjectName"`
	SessionType      model.SessionType `json:"sessionType"`
	TotalChallenges  int               `json:"totalChallenges"`
	CurrentChallenge int               `json:"currentChallenge"`
	StartedAt        time.Time         `json:"startedAt"`
}

type StartSessionResult struct {
	Session   SessionSummary `json:"session"`
	Challenge ChallengeView  `json:"challenge"`
}

type SessionProgress struct {
	CorrectAnswers      int `json:"correctAnswers"`
	TotalXP             int `json:"totalXP"`
	ChallengesCompleted int `json:"challengesCompleted"`
	TotalChallenges     int `json:"totalChallenges"`
}

type AttemptResult struct {
	IsCorrect     bool            `json:"isCorrect"`
	CorrectAnswer string          `json:"correctAnswer"`
	XPEarned      int             `json:"xpEarned"`
	TimeTaken     int             `json:"timeTaken"`
	Session       SessionProgress `json:"session"`
	NextChallenge *ChallengeView  `json:"nextChallenge"`
}

type AttemptReview struct {
	ChallengePrompt string `json:"challengePrompt"`
	UserAnswer      string `json:"userAnswer"`
	CorrectAnswer   string `json:"correctAnswer"`
	IsCorrect       bool   `json:"isCorrect"`
	XPEarned        int    `json:"xpEarned"`
	TimeTaken       int    `json:"timeTaken"`
}

type SessionResults struct {
	SessionID       string          `json:"sessionId"`
	SubjectName     string          `json:"subjectName"`
	TotalChallenges int             `json:"totalChallenges"`
	CorrectAnswers  int             `json:"correctAnswers"`
	Accuracy        int             `json:"accuracy"`
	XPEarned        int             `json:"xpEarned"`
	CompletedAt     time.Time       `json:"completedAt"`
	Attempts        []AttemptReview `json:"attempts"`
}

type SessionDetail struct {
	Session             *model.GameSession `json:"session"`
	CurrentChallenge    int                `json:"currentChallenge"`
	ChallengesCompleted int                `json:"challengesCompleted"`
}

// StartSession 创建会话：冻结题目计划（level/difficulty 升序取前 N 题），
// 游标归零，返回首题题面
func (s *GameService) StartSession(userID, subjectID uint, sessionType model.SessionType) (*StartSessionResult, error) {
	if sessionType == "" {
		sessionType = model.SessionTypeMainPath
	}
	if !sessionType.Valid() {
		return nil, fmt.Errorf("invalid session type: %s", sessionType)
	}

	subject, err := s.SubjectRepo.FindActiveByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubjectNotFound
		}
		return nil, err
	}

	challenges, err := s.ChallengeRepo.ListActiveBySubject(subjectID)
	if err != nil {
		return nil, err
	}
	if len(challenges) == 0 {
		return nil, util.ErrNoChallengesAvailable
	}

	planLen := len(challenges)
	if limit := int(s.maxChallenges.Load()); planLen > limit {
		planLen = limit
	}
	challengeIDs := make([]uint, planLen)
	for i := 0; i < planLen; i++ {
		challengeIDs[i] = challenges[i].ID
	}

	session := &model.GameSession{
		UserID:          userID,
		SubjectID:       subjectID,
		SessionType:     sessionType,
		TotalChallenges: planLen,
		Plan:            model.SessionPlan{ChallengeIDs: challengeIDs, Cursor: 0},
		StartedAt:       time.Now(),
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}

	monitoring.SessionsStarted.WithLabelValues(string(sessionType)).Inc()
	logger.Log.Info("game session started",
		zap.String("sessionId", session.ID),
		zap.Uint("userId", userID),
		zap.Uint("subjectId", subjectID),
		zap.Int("totalChallenges", planLen),
	)

	return &StartSessionResult{
		Session: SessionSummary{
			ID:               session.ID,
			SubjectID:        subjectID,
			SubjectName:      subject.Name,
			SessionType:      sessionType,
			TotalChallenges:  planLen,
			CurrentChallenge: 0,
			StartedAt:        session.StartedAt,
		},
		Challenge: s.presentChallenge(&challenges[0]),
	}, nil
}

// SubmitAttempt 在一个事务内完成"查台账-写台账-推游标"，会话行加排他锁，
// 同一 (会话, 题目) 对重复提交报冲突且不产生任何写入
func (s *GameService) SubmitAttempt(sessionID string, challengeID, userID uint, userAnswer string, timeTaken int) (*AttemptResult, error) {
	var result AttemptResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var session model.GameSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ? AND is_completed = ?", sessionID, userID, false).
			First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrSessionNotFound
			}
			return err
		}

		if err := session.Plan.Validate(session.TotalChallenges); err != nil {
			logger.Log.Error("rejecting structurally invalid session plan",
				zap.String("sessionId", session.ID), zap.Error(err))
			return util.ErrSessionCorrupted
		}

		var challenge model.Challenge
		if err := tx.First(&challenge, challengeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrChallengeNotFound
			}
			return err
		}

		// 先查后写必须和写入在同一事务里，唯一索引只是兜底
		var existing model.ChallengeAttempt
		err = tx.Where("session_id = ? AND challenge_id = ?", sessionID, challengeID).
			First(&existing).Error
		if err == nil {
			return util.ErrChallengeAttempted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		isCorrect := AnswersMatch(userAnswer, challenge.CorrectAnswer)
		xpEarned := 0
		if isCorrect {
			xpEarned = challenge.XPReward
		}

		attempt := model.ChallengeAttempt{
			SessionID:   sessionID,
			ChallengeID: challengeID,
			UserAnswer:  userAnswer,
			IsCorrect:   isCorrect,
			TimeTaken:   timeTaken,
			XPEarned:    xpEarned,
			AttemptedAt: time.Now(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		if isCorrect {
			session.CorrectAnswers++
		}
		session.XPEarned += xpEarned
		if session.Plan.Cursor < session.TotalChallenges {
			session.Plan.Cursor++
		}
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		var attemptCount int64
		if err := tx.Model(&model.ChallengeAttempt{}).
			Where("session_id = ?", sessionID).
			Count(&attemptCount).Error; err != nil {
			return err
		}

		result = AttemptResult{
			IsCorrect:     isCorrect,
			CorrectAnswer: challenge.CorrectAnswer,
			XPEarned:      xpEarned,
			TimeTaken:     timeTaken,
			Session: SessionProgress{
				CorrectAnswers:      session.CorrectAnswers,
				TotalXP:             session.XPEarned,
				ChallengesCompleted: int(attemptCount),
				TotalChallenges:     session.TotalChallenges,
			},
		}

		// 计划未走完则带出下一题；题目被下架时下一题为空，由客户端转入结算
		if !session.Plan.Exhausted() {
			nextID := session.Plan.ChallengeIDs[session.Plan.Cursor]
			var next model.Challenge
			if err := tx.First(&next, nextID).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			} else {
				view := s.presentChallenge(&next)
				result.NextChallenge = &view
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.ObserveAttempt(result.IsCorrect)
	return &result, nil
}

// CompleteSession 结算：以台账为准汇总，写入会话快照，
// 为用户和 (用户, 主题) 进度累加XP。不可重复调用，二次结算报不存在。
func (s *GameService) CompleteSession(sessionID string, userID uint) (*SessionResults, error) {
	var results SessionResults

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var session model.GameSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Subject").
			Where("id = ? AND user_id = ? AND is_completed = ?", sessionID, userID, false).
			First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrSessionNotFound
			}
			return err
		}

		var attempts []model.ChallengeAttempt
		if err := tx.Preload("Challenge").
			Where("session_id = ?", sessionID).
			Order("attempted_at ASC").
			Find(&attempts).Error; err != nil {
			return err
		}

		agg := AggregateAttempts(attempts)
		now := time.Now()

		session.IsCompleted = true
		session.CompletedAt = &now
		session.CorrectAnswers = agg.CorrectAnswers
		session.XPEarned = agg.TotalXP
		session.Accuracy = agg.Accuracy
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("total_xp", gorm.Expr("total_xp + ?", agg.TotalXP)).Error; err != nil {
			return err
		}

		var progress model.UserProgress
		err = tx.Where("user_id = ? AND subject_id = ?", userID, session.SubjectID).
			First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = model.UserProgress{
				UserID:      userID,
				SubjectID:   session.SubjectID,
				TotalXP:     agg.TotalXP,
				LastStudied: now,
			}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			progress.TotalXP += agg.TotalXP
			progress.LastStudied = now
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		}

		subjectName := ""
		if session.Subject != nil {
			subjectName = session.Subject.Name
		}

		reviews := make([]AttemptReview, 0, len(attempts))
		for _, a := range attempts {
			review := AttemptReview{
				UserAnswer: a.UserAnswer,
				IsCorrect:  a.IsCorrect,
				XPEarned:   a.XPEarned,
				TimeTaken:  a.TimeTaken,
			}
			if a.Challenge != nil {
				review.ChallengePrompt = a.Challenge.Prompt
				review.CorrectAnswer = a.Challenge.CorrectAnswer
			}
			reviews = append(reviews, review)
		}

		results = SessionResults{
			SessionID:       session.ID,
			SubjectName:     subjectName,
			TotalChallenges: agg.TotalAttempts,
			CorrectAnswers:  agg.CorrectAnswers,
			Accuracy:        RoundAccuracy(agg.Accuracy),
			XPEarned:        agg.TotalXP,
			CompletedAt:     now,
			Attempts:        reviews,
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.SessionsCompleted.Inc()
	logger.Log.Info("game session completed",
		zap.String("sessionId", sessionID),
		zap.Uint("userId", userID),
		zap.Int("xpEarned", results.XPEarned),
		zap.Int("accuracy", results.Accuracy),
	)

	return &results, nil
}

// GetSession 属主查询会话详情，含按提交顺序排列的答题记录
func (s *GameService) GetSession(sessionID string, userID uint) (*SessionDetail, error) {
	session, err := s.SessionRepo.FindOwnedWithAttempts(sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	if err := session.Plan.Validate(session.TotalChallenges); err != nil {
		logger.Log.Error("rejecting structurally invalid session plan",
			zap.String("sessionId", session.ID), zap.Error(err))
		return nil, util.ErrSessionCorrupted
	}

	attemptCount, err := s.AttemptRepo.CountBySession(session.ID)
	if err != nil {
		return nil, err
	}

	return &SessionDetail{
		Session:             session,
		CurrentChallenge:    session.Plan.Cursor,
		ChallengesCompleted: int(attemptCount),
	}, nil
}

// RecentSessions 用户最近的会话列表，按开始时间倒序
func (s *GameService) RecentSessions(userID uint, limit int) ([]model.GameSession, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.SessionRepo.ListByUser(userID, limit)
}

// presentChallenge 组装题面：正确答案混入干扰项后整体乱序
func (s *GameService) presentChallenge(c *model.Challenge) ChallengeView {
	options := c.OptionSet()

	s.rngMu.Lock()
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	s.rngMu.Unlock()

	return ChallengeView{
		ID:        c.ID,
		Type:      c.Type,
		Prompt:    c.Prompt,
		Options:   options,
		TimeLimit: c.TimeLimit,
		XPReward:  c.XPReward,
	}
}
