package sqlstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/user"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// userRepository 用户仓储实现
// 设计说明：
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理唯一索引冲突（邮箱、用户名），转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 领域服务已做过唯一性预检，这里兜底处理并发注册时的唯一索引冲突
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	// 1. 领域实体 → GORM模型
	model := &UserModel{
		Username:   u.Username,
		Email:      u.Email,
		Password:   u.Password,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsStaff:    u.IsStaff,
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined,
	}
	if u.BirthDate != nil {
		d := datatypes.Date(truncateDate(*u.BirthDate))
		model.BirthDate = &d
	}

	// 2. 插入数据库
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			if strings.Contains(duplicateField(err), "username") {
				return user.ErrUsernameDuplicate
			}
			return user.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	// 3. 回填自增ID
	u.ID = model.ID
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// ExistsByEmail 邮箱是否已注册
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// ExistsByUsername 用户名是否已占用
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *userRepository) exists(ctx context.Context, cond string, arg interface{}) (bool, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&UserModel{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "查询用户失败")
	}
	return count > 0, nil
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	u := &user.User{
		ID:         model.ID,
		Username:   model.Username,
		Email:      model.Email,
		Password:   model.Password,
		FirstName:  model.FirstName,
		LastName:   model.LastName,
		IsStaff:    model.IsStaff,
		IsActive:   model.IsActive,
		DateJoined: model.DateJoined,
	}
	if model.BirthDate != nil {
		d := time.Time(*model.BirthDate)
		u.BirthDate = &d
	}
	return u
}
