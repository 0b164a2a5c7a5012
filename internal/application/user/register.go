package user

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/user"
)

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. Application层负责用例编排，协调领域服务
// 2. 密码强度、唯一性、加密都在领域服务中完成
// 3. 只做注册，不签发令牌（认证不在本服务范围内）
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
	}
}

// Execute 执行注册
// 返回：UserResponse（应用层DTO，不是领域实体）
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	// 1. 调用领域服务执行注册
	u, err := uc.userService.Register(ctx, user.RegisterParams{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
	})
	if err != nil {
		return nil, err
	}

	// 2. 领域实体 → 应用层DTO
	return toUserResponse(u), nil
}

// GetUserUseCase 查询用户用例
type GetUserUseCase struct {
	userService user.Service
}

// NewGetUserUseCase 创建查询用例
func NewGetUserUseCase(userService user.Service) *GetUserUseCase {
	return &GetUserUseCase{userService: userService}
}

// Execute 根据ID查询用户
func (uc *GetUserUseCase) Execute(ctx context.Context, id uint) (*UserResponse, error) {
	u, err := uc.userService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(u), nil
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	BirthDate *time.Time
}

// UserResponse 用户信息
// 说明：不返回密码字段（安全考虑）
type UserResponse struct {
	ID         uint    `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	IsStaff    bool    `json:"is_staff"`
	IsActive   bool    `json:"is_active"`
	DateJoined string  `json:"date_joined"`
	BirthDate  *string `json:"birth_date"`
}

func toUserResponse(u *user.User) *UserResponse {
	resp := &UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsStaff:    u.IsStaff,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined.Format(time.RFC3339),
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format("2006-01-02")
		resp.BirthDate = &d
	}
	return resp
}
