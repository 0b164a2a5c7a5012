package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// DateLayout 出版日期的对外格式
const DateLayout = "2006-01-02"

// Transactor 事务边界(由sqlstore.TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookCache 图书相关的缓存操作(由redis.CatalogCache实现)
// 缓存是尽力而为的,方法都不返回错误
type BookCache interface {
	GetBook(ctx context.Context, id uint, dest interface{}) bool
	SetBook(ctx context.Context, id uint, value interface{})
	InvalidateBook(ctx context.Context, id uint)
	InvalidateGenreStatistics(ctx context.Context)
}

// EventPublisher 图书事件发布(由messaging.EventPublisher实现)
type EventPublisher interface {
	BookCreated(ctx context.Context, b *book.Book)
	BookDeleted(ctx context.Context, b *book.Book)
}

// BookResult 图书的应用层DTO
// Genres总是填充,是否输出由接口层按include_related决定
type BookResult struct {
	ID              uint     `json:"id"`
	Title           string   `json:"title"`
	Author          *string  `json:"author"`
	PublishedDate   string   `json:"published_date"`
	Registered      *bool    `json:"registered"`
	Managed         *bool    `json:"managed"`
	PageCount       *int     `json:"page_count"`
	Price           *int     `json:"price"`
	DiscountedPrice *int     `json:"discounted_price"`
	PublisherID     *uint    `json:"publisher"`
	Genres          []string `json:"genres"`
	IsBanned        bool     `json:"is_banned"`
	IsDeleted       bool     `json:"is_deleted"`
	IsDiscounted    bool     `json:"is_discounted"`
}

// toBookResult 领域实体 → 应用层DTO
func toBookResult(b *book.Book) *BookResult {
	return &BookResult{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		PublishedDate:   b.PublishedDate.Format(DateLayout),
		Registered:      b.Registered,
		Managed:         b.Managed,
		PageCount:       b.PageCount,
		Price:           b.Price,
		DiscountedPrice: b.DiscountedPrice,
		PublisherID:     b.PublisherID,
		Genres:          b.GenreNames(),
		IsBanned:        b.IsBanned,
		IsDeleted:       b.IsDeleted,
		IsDiscounted:    b.IsDiscounted(),
	}
}

func toBookResults(books []*book.Book) []*BookResult {
	results := make([]*BookResult, 0, len(books))
	for _, b := range books {
		results = append(results, toBookResult(b))
	}
	return results
}

// normalizePage 页码和每页数量的默认值与上限
// page超过MaxPage返回错误,page_size超过MaxPageSize截断
func normalizePage(page, pageSize, defaultSize int) (int, int, error) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		return 0, 0, ErrPageOutOfRange
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize, nil
}
