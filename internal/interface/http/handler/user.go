package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookcatalog/internal/application/user"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/response"
	"github.com/xiebiao/bookcatalog/pkg/validator"
)

// UserHandler 用户HTTP处理器,只有注册和查询,不签发令牌
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	getUseCase      *appuser.GetUserUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	getUseCase *appuser.GetUserUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		getUseCase:      getUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建新用户账号，响应中不包含密码
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.UserResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误/密码强度不足"
// @Failure      409 {object} response.Response "用户名或邮箱已存在"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+validator.Translate(err))
		return
	}
	birthDate, err := parseDatePtr(req.BirthDate)
	if err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: birth_date: 日期格式必须为YYYY-MM-DD")
		return
	}

	// 2. 调用应用层用例
	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: birthDate,
	})
	if err != nil {
		// 业务错误（如邮箱已存在、密码强度不足）
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应
	response.Created(c, result)
}

// Get 用户详情
// @Summary      用户详情
// @Tags         用户
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=appuser.UserResponse}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
