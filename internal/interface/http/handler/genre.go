package handler

import (
	"github.com/gin-gonic/gin"

	appgenre "github.com/xiebiao/bookcatalog/internal/application/genre"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
	"github.com/xiebiao/bookcatalog/pkg/validator"
)

// GenreHandler 分类HTTP处理器
type GenreHandler struct {
	manageUseCase    *appgenre.ManageGenresUseCase
	statisticUseCase *appgenre.GenreStatisticUseCase
}

// NewGenreHandler 创建分类处理器
func NewGenreHandler(
	manageUseCase *appgenre.ManageGenresUseCase,
	statisticUseCase *appgenre.GenreStatisticUseCase,
) *GenreHandler {
	return &GenreHandler{
		manageUseCase:    manageUseCase,
		statisticUseCase: statisticUseCase,
	}
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]appgenre.GenreResult}
// @Router       /api/v1/genres [get]
func (h *GenreHandler) List(c *gin.Context) {
	list, err := h.manageUseCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// Create 创建分类
// @Summary      创建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateGenreRequest true "分类信息"
// @Success      201 {object} response.Response{data=appgenre.GenreResult}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/genres [post]
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}

	result, err := h.manageUseCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get 分类详情
// @Summary      分类详情
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=appgenre.GenreResult}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/genres/{id} [get]
func (h *GenreHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.manageUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Put 修改分类名称
// @Summary      修改分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Param        id      path int                    true "分类ID"
// @Param        request body dto.CreateGenreRequest true "分类信息"
// @Success      200 {object} response.Response{data=appgenre.GenreResult}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/genres/{id} [put]
func (h *GenreHandler) Put(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}
	h.rename(c, id, req.Name)
}

// Patch 部分更新分类
// @Summary      部分更新分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Param        id      path int                   true "分类ID"
// @Param        request body dto.PatchGenreRequest true "分类信息"
// @Success      200 {object} response.Response{data=appgenre.GenreResult}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/genres/{id} [patch]
func (h *GenreHandler) Patch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.PatchGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}
	if req.Name == nil {
		// 没有可修改的字段,返回当前值
		h.Get(c)
		return
	}
	h.rename(c, id, *req.Name)
}

func (h *GenreHandler) rename(c *gin.Context, id uint, name string) {
	result, err := h.manageUseCase.Rename(c.Request.Context(), id, name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除分类
// @Summary      删除分类
// @Description  同时删除分类与图书的关联,图书本身保留
// @Tags         分类
// @Param        id path int true "分类ID"
// @Success      204 "删除成功"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/genres/{id} [delete]
func (h *GenreHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.manageUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Statistic 分类统计
// @Summary      分类统计
// @Description  每个分类下未删除的图书数量
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]appgenre.StatisticResult}
// @Router       /api/v1/genres/statistic [get]
func (h *GenreHandler) Statistic(c *gin.Context) {
	stats, err := h.statisticUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
