package book

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 分页参数
const (
	DefaultPageSize       = 5
	DefaultCursorPageSize = 3
	MaxPageSize           = 100
	// MaxPage 页码上限,MaxPage*MaxPageSize远小于int上限,offset不会溢出
	MaxPage = 1000000
)

var (
	// ErrInvalidCursor 游标无法解析
	ErrInvalidCursor = apperrors.New(apperrors.ErrCodeInvalidParams, "参数错误: 无效的游标")
	// ErrPageOutOfRange 页码超过上限
	ErrPageOutOfRange = apperrors.Newf(apperrors.ErrCodeInvalidParams, "参数错误: page不能大于%d", MaxPage)
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持作者、出版社过滤,书名/作者/出版日期搜索,价格/出版日期排序
// 2. page默认1,page_size默认5,最大100
// 3. 已封禁图书也在列表中
type ListBooksUseCase struct {
	books book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(books book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{books: books}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Page        int
	PageSize    int
	Author      *string
	PublisherID *uint
	Search      string
	Ordering    string // 如"-price,published_date"
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	List     []*BookResult
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数默认值与范围限制
	page, pageSize, err := normalizePage(req.Page, req.PageSize, DefaultPageSize)
	if err != nil {
		return nil, err
	}

	// 2. 查询
	books, total, err := uc.books.ListBooks(ctx, book.ListParams{
		Page:        page,
		PageSize:    pageSize,
		Author:      req.Author,
		PublisherID: req.PublisherID,
		Search:      req.Search,
		Ordering:    book.ParseOrdering(req.Ordering),
	})
	if err != nil {
		return nil, err
	}

	return &ListBooksResponse{
		List:     toBookResults(books),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ListBooksCursorUseCase 游标分页用例
// 按(published_date, id)升序,游标是上一页最后一本图书的排序键
type ListBooksCursorUseCase struct {
	books book.Service
}

// NewListBooksCursorUseCase 创建游标分页用例
func NewListBooksCursorUseCase(books book.Service) *ListBooksCursorUseCase {
	return &ListBooksCursorUseCase{books: books}
}

// CursorPage 游标分页结果
// NextCursor为空表示已经是最后一页
type CursorPage struct {
	Results    []*BookResult `json:"results"`
	NextCursor string        `json:"next_cursor"`
}

// Execute 执行游标分页
func (uc *ListBooksCursorUseCase) Execute(ctx context.Context, rawCursor string, pageSize int) (*CursorPage, error) {
	_, pageSize, _ = normalizePage(1, pageSize, DefaultCursorPageSize)

	var cursor *book.Cursor
	if rawCursor != "" {
		c, err := DecodeCursor(rawCursor)
		if err != nil {
			return nil, err
		}
		cursor = c
	}

	// 多取一条判断是否还有下一页
	books, err := uc.books.ListBooksAfter(ctx, cursor, pageSize+1)
	if err != nil {
		return nil, err
	}

	page := &CursorPage{}
	if len(books) > pageSize {
		books = books[:pageSize]
		last := books[len(books)-1]
		page.NextCursor = EncodeCursor(book.Cursor{PublishedDate: last.PublishedDate, ID: last.ID})
	}
	page.Results = toBookResults(books)
	return page, nil
}

type cursorPayload struct {
	Date string `json:"d"`
	ID   uint   `json:"id"`
}

// EncodeCursor 游标编码为base64url(JSON)
func EncodeCursor(c book.Cursor) string {
	data, _ := json.Marshal(cursorPayload{Date: c.PublishedDate.Format(DateLayout), ID: c.ID})
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor 解析游标,格式错误返回ErrInvalidCursor
func DecodeCursor(raw string) (*book.Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var payload cursorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ErrInvalidCursor
	}
	date, err := time.Parse(DateLayout, payload.Date)
	if err != nil || payload.ID == 0 {
		return nil, ErrInvalidCursor
	}
	return &book.Cursor{PublishedDate: date, ID: payload.ID}, nil
}

// ListAllBooksUseCase 管理用:列出包括已删除在内的所有图书
type ListAllBooksUseCase struct {
	books book.Service
}

// NewListAllBooksUseCase 创建用例
func NewListAllBooksUseCase(books book.Service) *ListAllBooksUseCase {
	return &ListAllBooksUseCase{books: books}
}

// Execute 执行查询
func (uc *ListAllBooksUseCase) Execute(ctx context.Context, page, pageSize int) (*ListBooksResponse, error) {
	page, pageSize, err := normalizePage(page, pageSize, DefaultPageSize)
	if err != nil {
		return nil, err
	}

	books, total, err := uc.books.ListAllBooks(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &ListBooksResponse{
		List:     toBookResults(books),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
