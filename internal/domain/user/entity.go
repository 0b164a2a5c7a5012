package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码只保存bcrypt哈希值，实体不提供任何获取明文的方法
// 2. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
// 3. BirthDate可空
type User struct {
	ID         uint
	Username   string
	Email      string
	Password   string // bcrypt哈希值
	FirstName  string
	LastName   string
	IsStaff    bool
	IsActive   bool
	DateJoined time.Time
	BirthDate  *time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword, firstName, lastName string, birthDate *time.Time) *User {
	return &User{
		Username:   username,
		Email:      email,
		Password:   hashedPassword,
		FirstName:  firstName,
		LastName:   lastName,
		IsActive:   true,
		DateJoined: time.Now(),
		BirthDate:  birthDate,
	}
}

func (u *User) String() string {
	return u.Username
}
