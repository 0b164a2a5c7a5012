package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/domain/publisher"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 出版社既可以传ID,也可以传名称;按名称时查找或新建,和图书插入在同一事务中
// 2. 事务提交后才清理统计缓存、发布book.created事件
type CreateBookUseCase struct {
	tx         Transactor
	books      book.Service
	publishers publisher.Service
	cache      BookCache
	events     EventPublisher
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(
	tx Transactor,
	books book.Service,
	publishers publisher.Service,
	cache BookCache,
	events EventPublisher,
) *CreateBookUseCase {
	return &CreateBookUseCase{
		tx:         tx,
		books:      books,
		publishers: publishers,
		cache:      cache,
		events:     events,
	}
}

// CreateBookRequest 创建请求
type CreateBookRequest struct {
	Title           string
	Author          *string
	PublishedDate   time.Time
	Registered      *bool
	Managed         *bool
	PageCount       *int
	Price           *int
	DiscountedPrice *int
	PublisherID     *uint   // 优先使用
	PublisherName   *string // PublisherID为空时按名称解析
	GenreIDs        []uint
}

// Execute 执行创建
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (result *BookResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.Create", attribute.String("book.title", req.Title))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	b := &book.Book{
		Title:           req.Title,
		Author:          req.Author,
		PublishedDate:   req.PublishedDate,
		Registered:      req.Registered,
		Managed:         req.Managed,
		PageCount:       req.PageCount,
		Price:           req.Price,
		DiscountedPrice: req.DiscountedPrice,
		PublisherID:     req.PublisherID,
	}
	for _, id := range req.GenreIDs {
		b.Genres = append(b.Genres, book.GenreRef{ID: id})
	}

	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		// 1. 按名称解析出版社
		if b.PublisherID == nil && req.PublisherName != nil {
			p, _, err := uc.publishers.ResolveByName(ctx, *req.PublisherName)
			if err != nil {
				return err
			}
			b.PublisherID = &p.ID
		}

		// 2. 创建图书(默认作者、登记书名校验在领域服务中)
		return uc.books.CreateBook(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("book.id", int(b.ID)))
	metrics.IncCounter(metrics.BooksCreatedTotal)
	uc.cache.InvalidateGenreStatistics(ctx)
	uc.events.BookCreated(ctx, b)

	return toBookResult(b), nil
}
