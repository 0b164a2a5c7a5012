package handler

import (
	"github.com/gin-gonic/gin"

	apppublisher "github.com/xiebiao/bookcatalog/internal/application/publisher"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
	"github.com/xiebiao/bookcatalog/pkg/validator"
)

// PublisherHandler 出版社HTTP处理器
type PublisherHandler struct {
	useCase *apppublisher.PublishersUseCase
}

// NewPublisherHandler 创建出版社处理器
func NewPublisherHandler(useCase *apppublisher.PublishersUseCase) *PublisherHandler {
	return &PublisherHandler{useCase: useCase}
}

// List 出版社列表
// @Summary      出版社列表
// @Tags         出版社
// @Produce      json
// @Success      200 {object} response.Response{data=[]apppublisher.PublisherResult}
// @Router       /api/v1/publishers [get]
func (h *PublisherHandler) List(c *gin.Context) {
	list, err := h.useCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

// Create 创建出版社
// @Summary      创建出版社
// @Description  成立日期取创建当天
// @Tags         出版社
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePublisherRequest true "出版社信息"
// @Success      201 {object} response.Response{data=apppublisher.PublisherResult}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/publishers [post]
func (h *PublisherHandler) Create(c *gin.Context) {
	var req dto.CreatePublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}

	result, err := h.useCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get 出版社详情
// @Summary      出版社详情
// @Tags         出版社
// @Produce      json
// @Param        id path int true "出版社ID"
// @Success      200 {object} response.Response{data=apppublisher.PublisherResult}
// @Failure      404 {object} response.Response "出版社不存在"
// @Router       /api/v1/publishers/{id} [get]
func (h *PublisherHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
