package book

import (
	"context"
	"errors"
	"time"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装图书的业务规则(默认作者、价格下限、登记书名唯一、可见性)
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 出版社的解析与创建属于应用层编排,不在这里处理
type Service interface {
	// CreateBook 创建图书
	// 业务规则:
	// - 作者缺失或为空时使用"Unknown Author"
	// - registered=true时书名在已登记图书中唯一
	// - (书名, 作者)唯一由数据库约束保证
	CreateBook(ctx context.Context, book *Book) error

	// GetVisibleBook 获取未封禁、未删除的图书,否则返回带ID的not-found错误
	GetVisibleBook(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 应用补丁并保存
	// 业务规则:更新后的价格不能低于MinPrice(价格为空时不校验),违反时不写入任何字段
	UpdateBook(ctx context.Context, id uint, patch Patch) (*Book, error)

	// DeleteBook 软删除可见图书,返回被删除的图书
	DeleteBook(ctx context.Context, id uint) (*Book, error)

	// RestoreBook 恢复已软删除的图书
	RestoreBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 过滤、搜索、排序、分页查询(包含已封禁图书)
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// ListAllBooks 管理用:分页查询包括已删除的所有图书
	ListAllBooks(ctx context.Context, page, pageSize int) ([]*Book, int64, error)

	// ListBooksAfter 游标分页
	ListBooksAfter(ctx context.Context, cursor *Cursor, limit int) ([]*Book, error)

	// BooksByDate 某一天出版的图书
	BooksByDate(ctx context.Context, date time.Time) ([]*Book, error)

	// ExpensiveBooks 价格高于平均价的图书,没有任何价格时返回空列表
	ExpensiveBooks(ctx context.Context) ([]*Book, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, book *Book) error {
	// 1. 默认值
	book.ApplyDefaults()

	// 2. 登记书名唯一性(MySQL没有部分索引,只能靠这里)
	if err := s.checkRegisteredTitle(ctx, book); err != nil {
		return err
	}

	// 3. 持久化
	return s.repo.Create(ctx, book)
}

// GetVisibleBook 获取可见图书
func (s *service) GetVisibleBook(ctx context.Context, id uint) (*Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil, NotFoundError(id)
		}
		return nil, err
	}

	// 封禁与不存在对外表现一致
	if !book.IsVisible() {
		return nil, NotFoundError(id)
	}
	return book, nil
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, id uint, patch Patch) (*Book, error) {
	// 1. 查询可见图书
	book, err := s.GetVisibleBook(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. 在内存中应用补丁
	patch.Apply(book)

	// 3. 价格下限:新值或原值
	if err := book.CheckPriceFloor(); err != nil {
		return nil, err
	}

	// 4. 登记书名唯一性
	if err := s.checkRegisteredTitle(ctx, book); err != nil {
		return nil, err
	}

	// 5. 持久化
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook 软删除图书
func (s *service) DeleteBook(ctx context.Context, id uint) (*Book, error) {
	book, err := s.GetVisibleBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, err
	}
	book.IsDeleted = true
	return book, nil
}

// RestoreBook 恢复图书
func (s *service) RestoreBook(ctx context.Context, id uint) (*Book, error) {
	book, err := s.repo.FindByIDUnscoped(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return nil, NotFoundError(id)
		}
		return nil, err
	}

	if !book.IsDeleted {
		return book, nil
	}

	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	book.IsDeleted = false
	return book, nil
}

// ListBooks 分页查询
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// ListAllBooks 管理用分页查询
func (s *service) ListAllBooks(ctx context.Context, page, pageSize int) ([]*Book, int64, error) {
	return s.repo.ListUnscoped(ctx, page, pageSize)
}

// ListBooksAfter 游标分页
func (s *service) ListBooksAfter(ctx context.Context, cursor *Cursor, limit int) ([]*Book, error) {
	return s.repo.ListAfter(ctx, cursor, limit)
}

// BooksByDate 按出版日期查询
func (s *service) BooksByDate(ctx context.Context, date time.Time) ([]*Book, error) {
	return s.repo.ListByPublishedDate(ctx, date)
}

// ExpensiveBooks 价格高于平均价的图书
func (s *service) ExpensiveBooks(ctx context.Context) ([]*Book, error) {
	avg, err := s.repo.AveragePrice(ctx)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return []*Book{}, nil
	}
	return s.repo.ListPriceAbove(ctx, *avg)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

// checkRegisteredTitle registered=true时检查书名在已登记图书中唯一
// 先查后写,并发写入可能同时通过;最终由unique_title_registered唯一索引兜底,
// 冲突由仓储转换为ErrRegisteredTitleTaken
func (s *service) checkRegisteredTitle(ctx context.Context, book *Book) error {
	if !book.IsRegistered() {
		return nil
	}

	exists, err := s.repo.ExistsRegisteredTitle(ctx, book.Title, book.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrRegisteredTitleTaken
	}
	return nil
}
