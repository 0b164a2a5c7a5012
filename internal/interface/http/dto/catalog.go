package dto

// =========================================
// 分类、出版社相关DTO
// =========================================

// CreateGenreRequest HTTP创建分类请求(PUT同样使用)
type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,notblank,max=30" example:"Science Fiction"`
}

// PatchGenreRequest HTTP部分更新分类请求
type PatchGenreRequest struct {
	Name *string `json:"name" binding:"omitempty,notblank,max=30" example:"Sci-Fi"`
}

// CreatePublisherRequest HTTP创建出版社请求
type CreatePublisherRequest struct {
	Name string `json:"name" binding:"required,notblank,max=75" example:"Chilton Books"`
}
