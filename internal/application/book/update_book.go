package book

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// UpdateBookUseCase 更新图书用例(PUT和PATCH共用)
// 设计说明:
// 1. 请求中没有出现的字段保持原值(Patch中为nil)
// 2. 价格下限、登记书名等规则由领域服务校验,校验失败时不写入任何字段
// 3. 读取、校验、写入在同一事务中
type UpdateBookUseCase struct {
	tx    Transactor
	books book.Service
	cache BookCache
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(tx Transactor, books book.Service, cache BookCache) *UpdateBookUseCase {
	return &UpdateBookUseCase{tx: tx, books: books, cache: cache}
}

// Execute 执行更新
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, patch book.Patch) (result *BookResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "book.Update", attribute.Int("book.id", int(id)))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	var updated *book.Book
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = uc.books.UpdateBook(ctx, id, patch)
		return err
	})
	if err != nil {
		if errors.Is(err, book.ErrPriceTooLow) {
			metrics.IncCounter(metrics.PriceRejectedTotal)
		}
		return nil, err
	}

	uc.cache.InvalidateBook(ctx, id)
	uc.cache.InvalidateGenreStatistics(ctx)
	return toBookResult(updated), nil
}

// DeleteBookUseCase 删除图书用例(软删除)
type DeleteBookUseCase struct {
	books  book.Service
	cache  BookCache
	events EventPublisher
	log    *zap.Logger
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(books book.Service, cache BookCache, events EventPublisher, log *zap.Logger) *DeleteBookUseCase {
	return &DeleteBookUseCase{books: books, cache: cache, events: events, log: log}
}

// Execute 执行删除
// 封禁或已删除的图书返回not-found
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) (err error) {
	ctx, span := tracing.StartSpan(ctx, "book.Delete", attribute.Int("book.id", int(id)))
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	deleted, err := uc.books.DeleteBook(ctx, id)
	if err != nil {
		return err
	}

	uc.log.Info("图书已删除",
		zap.Uint("book_id", deleted.ID),
		zap.String("title", deleted.Title),
		zap.String("author", deleted.AuthorName()),
		zap.String("trace_id", tracing.TraceID(ctx)),
	)
	metrics.IncCounter(metrics.BooksDeletedTotal)
	uc.cache.InvalidateBook(ctx, id)
	uc.cache.InvalidateGenreStatistics(ctx)
	uc.events.BookDeleted(ctx, deleted)
	return nil
}

// RestoreBookUseCase 管理用:恢复已删除的图书
type RestoreBookUseCase struct {
	books book.Service
	cache BookCache
}

// NewRestoreBookUseCase 创建恢复用例
func NewRestoreBookUseCase(books book.Service, cache BookCache) *RestoreBookUseCase {
	return &RestoreBookUseCase{books: books, cache: cache}
}

// Execute 执行恢复,图书未删除时直接返回
func (uc *RestoreBookUseCase) Execute(ctx context.Context, id uint) (*BookResult, error) {
	restored, err := uc.books.RestoreBook(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cache.InvalidateBook(ctx, id)
	uc.cache.InvalidateGenreStatistics(ctx)
	return toBookResult(restored), nil
}
