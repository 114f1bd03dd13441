package controller

import (
	"errors"
	"strconv"

	"tla_backend/internal/service"
	"tla_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VocabularyController struct {
	VocabularyService *service.VocabularyService
}

func NewVocabularyController(vocabularyService *service.VocabularyService) *VocabularyController {
	return &VocabularyController{VocabularyService: vocabularyService}
}

// ListBySubject godoc
// @Summary 主题词条列表
// @Description 分页返回主题下可用词条，可按难度过滤
// @Tags 词条
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "主题ID"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   difficulty query int false "难度 1-5"
// @Success 200 {object} util.Response{data=service.VocabularyPage}
// @Router /api/subjects/{id}/vocabulary [get]
func (c *VocabularyController) ListBySubject(ctx *gin.Context) {
	subjectID := util.MustParseUint(ctx.Param("id"))
	if subjectID == 0 {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	difficulty, _ := strconv.Atoi(ctx.Query("difficulty"))

	result, err := c.VocabularyService.ListBySubject(subjectID, difficulty, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Get godoc
// @Summary 词条详情
// @Tags 词条
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "词条ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/vocabulary/{id} [get]
func (c *VocabularyController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	v, err := c.VocabularyService.GetByID(id)
	if err != nil {
		if errors.Is(err, util.ErrVocabularyNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"vocabulary": v})
}

// Search godoc
// @Summary 搜索词条
// @Description 在词条、释义、全称上做模糊匹配，最多返回50条
// @Tags 词条
// @Produce  json
// @Security ApiKeyAuth
// @Param   q query string true "搜索词"
// @Param   subjectId query int false "限定主题"
// @Param   difficulty query int false "限定难度"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "缺少搜索词"
// @Router /api/vocabulary/search [get]
func (c *VocabularyController) Search(ctx *gin.Context) {
	q := ctx.Query("q")
	if q == "" {
		util.BadRequest(ctx, "search query required")
		return
	}

	subjectID := util.MustParseUint(ctx.Query("subjectId"))
	difficulty, _ := strconv.Atoi(ctx.Query("difficulty"))

	items, err := c.VocabularyService.Search(q, subjectID, difficulty)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"vocabulary": items, "query": q})
}

// Create godoc
// @Summary 创建词条
// @Description 创建词条并自动派生一道选择题
// @Tags 词条
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.VocabularyCreateRequest true "词条信息"
// @Success 201 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/vocabulary [post]
func (c *VocabularyController) Create(ctx *gin.Context) {
	var req service.VocabularyCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	v, err := c.VocabularyService.Create(req)
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"vocabulary": v})
}

// Update godoc
// @Summary 更新词条
// @Tags 词条
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "词条ID"
// @Param   body body service.VocabularyUpdateRequest true "词条信息"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/vocabulary/{id} [put]
func (c *VocabularyController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.VocabularyUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	v, err := c.VocabularyService.Update(id, req)
	if err != nil {
		if errors.Is(err, util.ErrVocabularyNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"vocabulary": v})
}

// Delete godoc
// @Summary 删除词条
// @Tags 词条
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "词条ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "词条不存在"
// @Router /api/vocabulary/{id} [delete]
func (c *VocabularyController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.VocabularyService.Delete(id); err != nil {
		if errors.Is(err, util.ErrVocabularyNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "vocabulary term deleted"})
}
