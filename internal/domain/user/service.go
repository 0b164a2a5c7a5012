package user

import (
	"context"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 用户领域错误
var (
	ErrUserNotFound      = apperrors.ErrUserNotFound
	ErrEmailDuplicate    = apperrors.ErrEmailDuplicate
	ErrUsernameDuplicate = apperrors.ErrUsernameDuplicate
	ErrWeakPassword      = apperrors.ErrWeakPassword
)

var (
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// RegisterParams 注册参数
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	BirthDate *time.Time
}

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（密码强度、加密、唯一性预检）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, params RegisterParams) (*User, error)

	// Get 根据ID获取用户
	Get(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo, cost: 12}
}

// Register 用户注册
// 业务规则：
// 1. 密码强度校验（8-20位，包含字母和数字）
// 2. 邮箱、用户名唯一（先查询给出明确错误，并发情况由唯一索引兜底）
// 3. 密码bcrypt加密（cost=12）
func (s *service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	// 1. 密码强度校验
	if err := validatePasswordStrength(params.Password); err != nil {
		return nil, err
	}

	// 2. 唯一性预检
	exists, err := s.repo.ExistsByEmail(ctx, params.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailDuplicate
	}

	exists, err = s.repo.ExistsByUsername(ctx, params.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameDuplicate
	}

	// 3. 密码加密
	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 4. 持久化
	user := NewUser(params.Username, params.Email, string(hashed), params.FirstName, params.LastName, params.BirthDate)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get 根据ID获取用户
func (s *service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return ErrWeakPassword
	}
	return nil
}
