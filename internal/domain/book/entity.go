package book

import (
	"fmt"
	"time"
)

// DefaultAuthor 创建图书时未提供作者的占位值
const DefaultAuthor = "Unknown Author"

// MinPrice 更新图书时价格的下限（价格为空时不校验）
const MinPrice = 5

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 可空字段使用指针表示,nil即数据库中的NULL
// 2. 价格为整数,不带小数部分
// 3. IsDeleted为软删除标记,默认查询自动排除已删除图书
// 4. Genres只携带分类的ID和名称,分类本身属于genre聚合
type Book struct {
	ID              uint
	Title           string
	Author          *string
	PublishedDate   time.Time // 只使用日期部分
	Registered      *bool
	Managed         *bool
	PageCount       *int
	Price           *int
	DiscountedPrice *int
	PublisherID     *uint
	Genres          []GenreRef
	IsBanned        bool
	IsDeleted       bool
}

// GenreRef 图书所属分类的引用
type GenreRef struct {
	ID   uint
	Name string
}

// ApplyDefaults 补全创建时的默认值
// 业务规则:作者缺失或为空串时使用DefaultAuthor
func (b *Book) ApplyDefaults() {
	if b.Author == nil || *b.Author == "" {
		author := DefaultAuthor
		b.Author = &author
	}
}

// IsDiscounted 折扣价低于原价时为true,任一价格缺失时为false
func (b *Book) IsDiscounted() bool {
	if b.Price == nil || b.DiscountedPrice == nil {
		return false
	}
	return *b.DiscountedPrice < *b.Price
}

// CheckPriceFloor 校验价格不低于MinPrice
func (b *Book) CheckPriceFloor() error {
	if b.Price != nil && *b.Price < MinPrice {
		return ErrPriceTooLow
	}
	return nil
}

// IsRegistered registered字段明确为true
func (b *Book) IsRegistered() bool {
	return b.Registered != nil && *b.Registered
}

// IsVisible 未被封禁且未被删除的图书才对外可见
func (b *Book) IsVisible() bool {
	return !b.IsBanned && !b.IsDeleted
}

// AuthorName 作者名,为空时返回空串
func (b *Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return *b.Author
}

// GenreIDs 分类ID列表
func (b *Book) GenreIDs() []uint {
	ids := make([]uint, 0, len(b.Genres))
	for _, g := range b.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// GenreNames 分类名称列表
func (b *Book) GenreNames() []string {
	names := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		names = append(names, g.Name)
	}
	return names
}

func (b *Book) String() string {
	return fmt.Sprintf("%s написано %s", b.Title, b.AuthorName())
}

// Patch 图书的部分更新
// nil字段表示请求中未出现,保持原值不变
type Patch struct {
	Title           *string
	Author          *string
	PublishedDate   *time.Time
	Registered      *bool
	Managed         *bool
	PageCount       *int
	Price           *int
	DiscountedPrice *int
	PublisherID     *uint
	GenreIDs        *[]uint
}

// Apply 把补丁应用到图书上
// 分类只更新ID,名称由仓储在保存后重新加载
func (p Patch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = p.Author
	}
	if p.PublishedDate != nil {
		b.PublishedDate = *p.PublishedDate
	}
	if p.Registered != nil {
		b.Registered = p.Registered
	}
	if p.Managed != nil {
		b.Managed = p.Managed
	}
	if p.PageCount != nil {
		b.PageCount = p.PageCount
	}
	if p.Price != nil {
		b.Price = p.Price
	}
	if p.DiscountedPrice != nil {
		b.DiscountedPrice = p.DiscountedPrice
	}
	if p.PublisherID != nil {
		b.PublisherID = p.PublisherID
	}
	if p.GenreIDs != nil {
		refs := make([]GenreRef, 0, len(*p.GenreIDs))
		for _, id := range *p.GenreIDs {
			refs = append(refs, GenreRef{ID: id})
		}
		b.Genres = refs
	}
}
