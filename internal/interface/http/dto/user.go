package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag；密码强度（字母+数字）由领域服务校验
type RegisterRequest struct {
	Username  string  `json:"username" binding:"required,notblank,max=30" example:"alice"`
	Email     string  `json:"email" binding:"required,email,max=254" example:"alice@example.com"`
	Password  string  `json:"password" binding:"required,min=8,max=20" example:"secret123"`
	FirstName string  `json:"first_name" binding:"max=30" example:"Alice"`
	LastName  string  `json:"last_name" binding:"max=30" example:"Liddell"`
	BirthDate *string `json:"birth_date" binding:"omitempty,dateonly" example:"1990-05-17"`
}
