package controller

import (
	"errors"

	"tla_backend/internal/service"
	"tla_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

// List godoc
// @Summary 主题列表
// @Description 返回全部可用主题及各自词条数
// @Tags 主题
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	subjects, err := c.SubjectService.ListActive(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"subjects": subjects})
}

// Get godoc
// @Summary 主题详情
// @Description 返回主题及其下可用词条
// @Tags 主题
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "主题ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/subjects/{id} [get]
func (c *SubjectController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	subject, err := c.SubjectService.GetByID(id)
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"subject": subject})
}

// Create godoc
// @Summary 创建主题
// @Tags 主题
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SubjectCreateRequest true "主题信息"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	var req service.SubjectCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"subject": subject})
}

// Update godoc
// @Summary 更新主题
// @Tags 主题
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "主题ID"
// @Param   body body service.SubjectUpdateRequest true "主题信息"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req service.SubjectUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"subject": subject})
}

// Delete godoc
// @Summary 删除主题
// @Description 软删除：置为不可用，不影响已存在会话
// @Tags 主题
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "主题ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "主题不存在"
// @Router /api/subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.SubjectService.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.Error(ctx, 404, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "subject deleted"})
}
