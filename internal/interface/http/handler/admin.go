package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
	"github.com/xiebiao/bookcatalog/pkg/validator"
)

// AdminHandler 管理接口:查看和恢复已删除的图书
type AdminHandler struct {
	listAllUseCase *appbook.ListAllBooksUseCase
	restoreUseCase *appbook.RestoreBookUseCase
}

// NewAdminHandler 创建管理处理器
func NewAdminHandler(
	listAllUseCase *appbook.ListAllBooksUseCase,
	restoreUseCase *appbook.RestoreBookUseCase,
) *AdminHandler {
	return &AdminHandler{
		listAllUseCase: listAllUseCase,
		restoreUseCase: restoreUseCase,
	}
}

// ListBooks 所有图书(包括已删除)
// @Summary      所有图书
// @Description  管理用,包括已删除的图书
// @Tags         管理
// @Produce      json
// @Param        page      query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(5)
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.BookResponse}}
// @Router       /api/v1/admin/books [get]
func (h *AdminHandler) ListBooks(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}

	result, err := h.listAllUseCase.Execute(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c,
		dto.NewBookListResponse(result.List, includeRelated(c)),
		result.Total, result.Page, result.PageSize)
}

// RestoreBook 恢复已删除的图书
// @Summary      恢复图书
// @Tags         管理
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/admin/books/{id}/restore [post]
func (h *AdminHandler) RestoreBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.restoreUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(result, includeRelated(c)))
}
