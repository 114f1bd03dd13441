package controller

import (
	"errors"
	"strconv"

	"tla_backend/internal/model"
	"tla_backend/internal/service"
	"tla_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{GameService: gameService}
}

// StartSessionRequest 开始会话请求
// swagger:model StartSessionRequest
type StartSessionRequest struct {
	SubjectID   uint   `json:"subjectId" binding:"required"`
	SessionType string `json:"sessionType" binding:"omitempty,oneof=main_path practice"`
}

// StartSession godoc
// @Summary 开始游戏会话
// @Description 为当前用户在指定主题下创建一次答题会话，返回会话摘要和首题
// @Tags 游戏
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartSessionRequest true "会话参数"
// @Success 201 {object} util.Response{data=service.StartSessionResult}
// @Failure 400 {object} util.Response "主题下没有可用题目"
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/game/sessions/start [post]
func (c *GameController) StartSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GameService.StartSession(user.UserID, req.SubjectID, model.SessionType(req.SessionType))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubjectNotFound):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrNoChallengesAvailable):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

// GetSession godoc
// @Summary 查询会话详情
// @Description 属主查询会话进度和已提交的答题记录
// @Tags 游戏
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionDetail}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/game/sessions/{sessionId} [get]
func (c *GameController) GetSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	detail, err := c.GameService.GetSession(ctx.Param("sessionId"), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// ListSessions godoc
// @Summary 最近会话列表
// @Description 当前用户最近的游戏会话，按开始时间倒序
// @Tags 游戏
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "返回条数" default(10)
// @Success 200 {object} util.Response{data=object}
// @Router /api/game/sessions [get]
func (c *GameController) ListSessions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	sessions, err := c.GameService.RecentSessions(user.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"sessions": sessions})
}

// SubmitAttemptRequest 提交答案请求
// swagger:model SubmitAttemptRequest
type SubmitAttemptRequest struct {
	UserAnswer string `json:"userAnswer" binding:"required"`
	TimeTaken  int    `json:"timeTaken" binding:"omitempty,min=0"`
}

// SubmitAttempt godoc
// @Summary 提交题目答案
// @Description 每个 (会话, 题目) 对只允许提交一次；返回判定结果、正确答案与下一题
// @Tags 游戏
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Param   challengeId path int true "题目ID"
// @Param   body body SubmitAttemptRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Failure 400 {object} util.Response "重复提交"
// @Failure 404 {object} util.Response "会话或题目不存在"
// @Router /api/game/sessions/{sessionId}/challenges/{challengeId}/attempt [post]
func (c *GameController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	challengeID := util.MustParseUint(ctx.Param("challengeId"))
	if challengeID == 0 {
		util.BadRequest(ctx, "invalid challenge id")
		return
	}

	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GameService.SubmitAttempt(ctx.Param("sessionId"), challengeID, user.UserID, req.UserAnswer, req.TimeTaken)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, util.ErrChallengeNotFound):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrChallengeAttempted):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// CompleteSession godoc
// @Summary 结算游戏会话
// @Description 汇总台账、冻结会话并为用户累计XP；重复结算返回404
// @Tags 游戏
// @Produce  json
// @Security ApiKeyAuth
// @Param   sessionId path string true "会话ID"
// @Success 200 {object} util.Response{data=service.SessionResults}
// @Failure 404 {object} util.Response "会话不存在或已结算"
// @Router /api/game/sessions/{sessionId}/complete [post]
func (c *GameController) CompleteSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.GameService.CompleteSession(ctx.Param("sessionId"), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, results)
}
