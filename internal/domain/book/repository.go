package book

import (
	"context"
	"strings"
	"time"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 除了Unscoped结尾的方法,所有查询都自动排除已软删除的图书
// 3. 返回的图书总是带上分类(Genres)
type Repository interface {
	// Create 创建图书并写入分类关联,成功后回填ID
	// 分类ID不存在时返回ErrGenreMissing,出版社ID不存在时返回ErrPublisherMissing
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(包括已封禁的),不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDUnscoped 根据ID查找图书,包括已删除的
	FindByIDUnscoped(ctx context.Context, id uint) (*Book, error)

	// Update 保存图书全部字段并以book.Genres替换分类关联
	Update(ctx context.Context, book *Book) error

	// SoftDelete 软删除(is_deleted=true),行保留
	SoftDelete(ctx context.Context, id uint) error

	// Restore 清除软删除标记
	Restore(ctx context.Context, id uint) error

	// List 过滤、搜索、排序、分页查询
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// ListUnscoped 分页查询所有图书,包括已删除的
	ListUnscoped(ctx context.Context, page, pageSize int) ([]*Book, int64, error)

	// ListAfter 按(published_date, id)升序返回cursor之后的最多limit本图书
	// cursor为nil时从头开始
	ListAfter(ctx context.Context, cursor *Cursor, limit int) ([]*Book, error)

	// ListByPublishedDate 查询某一天出版的图书
	ListByPublishedDate(ctx context.Context, date time.Time) ([]*Book, error)

	// AveragePrice 有价格图书的平均价,没有任何价格时返回nil
	AveragePrice(ctx context.Context) (*float64, error)

	// ListPriceAbove 价格严格大于threshold的图书
	ListPriceAbove(ctx context.Context, threshold float64) ([]*Book, error)

	// ExistsRegisteredTitle 是否存在registered=true且书名相同的其他图书
	// 包括已删除的行(数据库唯一约束同样覆盖它们),excludeID用于更新时排除自身
	ExistsRegisteredTitle(ctx context.Context, title string, excludeID uint) (bool, error)
}

// Cursor 游标分页的位置:上一页最后一本图书的排序键
type Cursor struct {
	PublishedDate time.Time
	ID            uint
}

// ListParams 列表查询参数
type ListParams struct {
	Page        int     // 页码(从1开始)
	PageSize    int     // 每页数量
	Author      *string // 作者精确匹配
	PublisherID *uint   // 出版社ID精确匹配
	Search      string  // 在书名、作者、出版日期中做不区分大小写的子串搜索
	Ordering    []Order // 为空时按published_date升序
}

// Order 排序项
type Order struct {
	Field string
	Desc  bool
}

// 可排序字段
const (
	OrderPublishedDate = "published_date"
	OrderPrice         = "price"
)

// ParseOrdering 解析逗号分隔的排序参数,如"-price,published_date"
// 未知字段直接忽略,同一字段只取第一次出现
func ParseOrdering(raw string) []Order {
	var orders []Order
	seen := make(map[string]bool)

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")

		if field != OrderPublishedDate && field != OrderPrice {
			continue
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		orders = append(orders, Order{Field: field, Desc: desc})
	}
	return orders
}
