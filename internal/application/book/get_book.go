package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// GetBookUseCase 图书详情用例
// 旁路缓存:先读Redis,未命中再查库并回写
type GetBookUseCase struct {
	books book.Service
	cache BookCache
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(books book.Service, cache BookCache) *GetBookUseCase {
	return &GetBookUseCase{books: books, cache: cache}
}

// Execute 执行查询,封禁和已删除的图书返回not-found
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookResult, error) {
	var cached BookResult
	if uc.cache.GetBook(ctx, id, &cached) {
		return &cached, nil
	}

	b, err := uc.books.GetVisibleBook(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toBookResult(b)
	uc.cache.SetBook(ctx, id, result)
	return result, nil
}

// BooksByDateUseCase 按出版日期查询
type BooksByDateUseCase struct {
	books book.Service
}

// NewBooksByDateUseCase 创建用例
func NewBooksByDateUseCase(books book.Service) *BooksByDateUseCase {
	return &BooksByDateUseCase{books: books}
}

// BooksByDateResponse 某天出版的图书
type BooksByDateResponse struct {
	Date  string
	Books []*BookResult
}

// Execute 执行查询
func (uc *BooksByDateUseCase) Execute(ctx context.Context, date time.Time) (*BooksByDateResponse, error) {
	books, err := uc.books.BooksByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return &BooksByDateResponse{
		Date:  date.Format(DateLayout),
		Books: toBookResults(books),
	}, nil
}

// ExpensiveBooksUseCase 价格高于平均价的图书
type ExpensiveBooksUseCase struct {
	books book.Service
}

// NewExpensiveBooksUseCase 创建用例
func NewExpensiveBooksUseCase(books book.Service) *ExpensiveBooksUseCase {
	return &ExpensiveBooksUseCase{books: books}
}

// Execute 执行查询
func (uc *ExpensiveBooksUseCase) Execute(ctx context.Context) ([]*BookResult, error) {
	books, err := uc.books.ExpensiveBooks(ctx)
	if err != nil {
		return nil, err
	}
	return toBookResults(books), nil
}
