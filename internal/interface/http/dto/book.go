package dto

import (
	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
)

// CreateBookRequest HTTP创建图书请求
// validator tag说明:
// - notblank: 去掉空白后不能为空(pkg/validator注册)
// - dateonly: YYYY-MM-DD格式的合法日期(pkg/validator注册)
// 出版社可以传ID(publisher)或名称(publisher_name),同时传时以ID为准
type CreateBookRequest struct {
	Title           string  `json:"title" binding:"required,notblank,max=200" example:"Dune"`
	Author          *string `json:"author" binding:"omitempty,max=40" example:"Frank Herbert"`
	PublishedDate   string  `json:"published_date" binding:"required,dateonly" example:"1965-08-01"`
	Registered      *bool   `json:"registered" example:"true"`
	Managed         *bool   `json:"managed" example:"false"`
	PageCount       *int    `json:"page_count" example:"412"`
	Price           *int    `json:"price" example:"20"`
	DiscountedPrice *int    `json:"discounted_price" example:"15"`
	Publisher       *uint   `json:"publisher" example:"1"`
	PublisherName   *string `json:"publisher_name" binding:"omitempty,notblank,max=75" example:"Chilton Books"`
	Genres          []uint  `json:"genres" example:"1,2"`
}

// BookFields PUT和PATCH共用的可选字段
// 请求中没有出现的字段保持原值
type BookFields struct {
	Author          *string `json:"author" binding:"omitempty,max=40"`
	Registered      *bool   `json:"registered"`
	Managed         *bool   `json:"managed"`
	PageCount       *int    `json:"page_count"`
	Price           *int    `json:"price"`
	DiscountedPrice *int    `json:"discounted_price"`
	Publisher       *uint   `json:"publisher"`
	Genres          *[]uint `json:"genres"`
}

// PutBookRequest HTTP全量更新请求,title和published_date必填
type PutBookRequest struct {
	Title         *string `json:"title" binding:"required,notblank,max=200"`
	PublishedDate *string `json:"published_date" binding:"required,dateonly"`
	BookFields
}

// PatchBookRequest HTTP部分更新请求,所有字段可选
type PatchBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,notblank,max=200"`
	PublishedDate *string `json:"published_date" binding:"omitempty,dateonly"`
	BookFields
}

// ListBooksQuery HTTP图书列表查询参数
type ListBooksQuery struct {
	Page      int     `form:"page" binding:"omitempty,min=1,max=1000000" example:"1"`
	PageSize  int     `form:"page_size" binding:"omitempty,min=1" example:"5"`
	Author    *string `form:"author" example:"Frank Herbert"`
	Publisher *uint   `form:"publisher" example:"1"`
	Search    string  `form:"search" binding:"max=200" example:"dune"`
	Ordering  string  `form:"ordering" example:"-price,published_date"`
}

// PageQuery 只有分页的查询参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1,max=1000000"`
	PageSize int `form:"page_size" binding:"omitempty,min=1"`
}

// CursorQuery HTTP游标分页查询参数
type CursorQuery struct {
	Cursor   string `form:"cursor"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
}

// BookResponse HTTP图书响应
// genres只在include_related=true时输出,is_discounted只在详情中输出
type BookResponse struct {
	ID              uint      `json:"id" example:"1"`
	Title           string    `json:"title" example:"Dune"`
	Author          *string   `json:"author" example:"Frank Herbert"`
	PublishedDate   string    `json:"published_date" example:"1965-08-01"`
	Registered      *bool     `json:"registered" example:"true"`
	Managed         *bool     `json:"managed" example:"false"`
	PageCount       *int      `json:"page_count" example:"412"`
	Price           *int      `json:"price" example:"20"`
	DiscountedPrice *int      `json:"discounted_price" example:"15"`
	Publisher       *uint     `json:"publisher" example:"1"`
	IsBanned        bool      `json:"is_banned" example:"false"`
	IsDeleted       bool      `json:"is_deleted" example:"false"`
	Genres          *[]string `json:"genres,omitempty"`
	IsDiscounted    *bool     `json:"is_discounted,omitempty"`
}

// NewBookResponse 应用层结果 → HTTP响应
func NewBookResponse(r *appbook.BookResult, includeRelated bool) *BookResponse {
	resp := &BookResponse{
		ID:              r.ID,
		Title:           r.Title,
		Author:          r.Author,
		PublishedDate:   r.PublishedDate,
		Registered:      r.Registered,
		Managed:         r.Managed,
		PageCount:       r.PageCount,
		Price:           r.Price,
		DiscountedPrice: r.DiscountedPrice,
		Publisher:       r.PublisherID,
		IsBanned:        r.IsBanned,
		IsDeleted:       r.IsDeleted,
	}
	if includeRelated {
		genres := r.Genres
		if genres == nil {
			genres = []string{}
		}
		resp.Genres = &genres
	}
	return resp
}

// NewBookDetailResponse 详情响应,额外带is_discounted
func NewBookDetailResponse(r *appbook.BookResult, includeRelated bool) *BookResponse {
	resp := NewBookResponse(r, includeRelated)
	discounted := r.IsDiscounted
	resp.IsDiscounted = &discounted
	return resp
}

// NewBookListResponse 批量转换
func NewBookListResponse(results []*appbook.BookResult, includeRelated bool) []*BookResponse {
	list := make([]*BookResponse, 0, len(results))
	for _, r := range results {
		list = append(list, NewBookResponse(r, includeRelated))
	}
	return list
}

// BooksByDateResponse 某天出版的图书
type BooksByDateResponse struct {
	Date  string          `json:"date" example:"1965-08-01"`
	Books []*BookResponse `json:"books"`
}

// CursorPageResponse 游标分页响应,next_cursor为空表示最后一页
type CursorPageResponse struct {
	Results    []*BookResponse `json:"results"`
	NextCursor string          `json:"next_cursor" example:"eyJkIjoiMTk2NS0wOC0wMSIsImlkIjoxfQ"`
}
