package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/sqlstore
// 3. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 并发注册时以数据库唯一索引为准，重复时返回ErrEmailDuplicate或ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// ExistsByEmail 邮箱是否已注册
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByUsername 用户名是否已占用
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
