package sqlstore

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// bookColumns 更新图书时写入的列(不含id、is_banned、is_deleted)
var bookColumns = []string{
	"title", "author", "published_date", "registered", "managed",
	"page_count", "price", "discounted_price", "publisher_id",
}

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(唯一约束冲突),转换为业务错误
// 4. 图书和分类关联的写入在同一事务中完成
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		// 1. 校验引用
		if err := checkPublisher(tx, b.PublisherID); err != nil {
			return err
		}
		genres, err := loadGenres(tx, b.GenreIDs())
		if err != nil {
			return err
		}

		// 2. 领域实体 → GORM模型,插入数据库
		model := toBookModel(b)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return translateBookError(err, "创建图书失败")
		}

		// 3. 写入分类关联
		if err := replaceGenres(tx, model.ID, genres); err != nil {
			return err
		}

		// 4. 回填自增ID和分类名称
		b.ID = model.ID
		b.Genres = toGenreRefs(genres)
		return nil
	})
}

// FindByID 根据ID查找图书(已删除的除外)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.find(getDB(ctx, r.db), id)
}

// FindByIDUnscoped 根据ID查找图书,包括已删除的
func (r *bookRepository) FindByIDUnscoped(ctx context.Context, id uint) (*book.Book, error) {
	return r.find(getDB(ctx, r.db).Unscoped(), id)
}

func (r *bookRepository) find(db *gorm.DB, id uint) (*book.Book, error) {
	var model BookModel
	err := preloadGenres(db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// Update 更新图书
// 设计说明:
// 1. 只写bookColumns中的列,零值同样写入(nil写NULL)
// 2. 分类关联先删后插
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := checkPublisher(tx, b.PublisherID); err != nil {
			return err
		}
		genres, err := loadGenres(tx, b.GenreIDs())
		if err != nil {
			return err
		}

		err = tx.Model(&BookModel{ID: b.ID}).
			Select(bookColumns).
			Omit(clause.Associations).
			Updates(toBookModel(b)).Error
		if err != nil {
			return translateBookError(err, "更新图书失败")
		}

		if err := replaceGenres(tx, b.ID, genres); err != nil {
			return err
		}
		b.Genres = toGenreRefs(genres)
		return nil
	})
}

// SoftDelete 软删除
// soft_delete插件把Delete改写为UPDATE books SET is_deleted=1
func (r *bookRepository) SoftDelete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Restore 清除软删除标记
func (r *bookRepository) Restore(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Unscoped().
		Model(&BookModel{}).
		Where("id = ?", id).
		Update("is_deleted", 0)
	if result.Error != nil {
		return translateBookError(result.Error, "恢复图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List 分页查询图书
// 设计说明:
// 1. 先Count总数,再按排序和分页取数据
// 2. 排序字段之后总是追加id升序,保证分页稳定
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})

	// 1. 精确过滤
	if params.Author != nil {
		query = query.Where("author = ?", *params.Author)
	}
	if params.PublisherID != nil {
		query = query.Where("publisher_id = ?", *params.PublisherID)
	}

	// 2. 搜索:书名、作者、出版日期文本,不区分大小写
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := containsPattern(strings.ToLower(search))
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '!' OR LOWER(author) LIKE ? ESCAPE '!' OR "+r.dateText()+" LIKE ? ESCAPE '!'",
			pattern, pattern, pattern,
		)
	}

	// 3. 统计总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计图书数量失败")
	}

	// 4. 排序
	orders := params.Ordering
	if len(orders) == 0 {
		orders = []book.Order{{Field: book.OrderPublishedDate}}
	}
	for _, o := range orders {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Field}, Desc: o.Desc})
	}
	query = query.Order("id")

	// 5. 分页
	var models []BookModel
	offset, limit := pageWindow(params.Page, params.PageSize)
	if err := preloadGenres(query).Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	return toBookEntities(models), total, nil
}

// ListUnscoped 分页查询所有图书,包括已删除的
func (r *bookRepository) ListUnscoped(ctx context.Context, page, pageSize int) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Unscoped().Model(&BookModel{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计图书数量失败")
	}

	var models []BookModel
	offset, limit := pageWindow(page, pageSize)
	if err := preloadGenres(query).Order("id").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	return toBookEntities(models), total, nil
}

// ListAfter 游标分页
// 排序键(published_date, id)唯一,游标之后的行用行值比较展开成OR条件
func (r *bookRepository) ListAfter(ctx context.Context, cursor *book.Cursor, limit int) ([]*book.Book, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})
	if cursor != nil {
		date := truncateDate(cursor.PublishedDate)
		query = query.Where(
			"published_date > ? OR (published_date = ? AND id > ?)",
			date, date, cursor.ID,
		)
	}

	var models []BookModel
	err := preloadGenres(query).
		Order("published_date").
		Order("id").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// ListByPublishedDate 查询某一天出版的图书
func (r *bookRepository) ListByPublishedDate(ctx context.Context, date time.Time) ([]*book.Book, error) {
	day := truncateDate(date)

	var models []BookModel
	err := preloadGenres(getDB(ctx, r.db)).
		Where("published_date >= ? AND published_date < ?", day, day.AddDate(0, 0, 1)).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "按日期查询图书失败")
	}
	return toBookEntities(models), nil
}

// AveragePrice 有价格图书的平均价
func (r *bookRepository) AveragePrice(ctx context.Context) (*float64, error) {
	var result struct {
		Avg *float64
	}
	err := getDB(ctx, r.db).
		Model(&BookModel{}).
		Select("AVG(price) AS avg").
		Where("price IS NOT NULL").
		Scan(&result).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "计算平均价格失败")
	}
	return result.Avg, nil
}

// ListPriceAbove 价格严格大于threshold的图书
func (r *bookRepository) ListPriceAbove(ctx context.Context, threshold float64) ([]*book.Book, error) {
	var models []BookModel
	err := preloadGenres(getDB(ctx, r.db)).
		Where("price > ?", threshold).
		Order("published_date").
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// ExistsRegisteredTitle 已登记图书中是否存在相同书名
func (r *bookRepository) ExistsRegisteredTitle(ctx context.Context, title string, excludeID uint) (bool, error) {
	query := getDB(ctx, r.db).Unscoped().
		Model(&BookModel{}).
		Where("title = ? AND registered = ?", title, true)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(err, "检查登记书名失败")
	}
	return count > 0, nil
}

// dateText 出版日期的YYYY-MM-DD文本表达式,用于搜索
func (r *bookRepository) dateText() string {
	switch r.db.Dialector.Name() {
	case "mysql":
		return "DATE_FORMAT(published_date, '%Y-%m-%d')"
	case "postgres":
		return "to_char(published_date, 'YYYY-MM-DD')"
	default:
		// SQLite把日期保存为"2006-01-02 15:04:05..."文本
		return "substr(published_date, 1, 10)"
	}
}

// =========================================
// 辅助函数
// =========================================

// likeEscaper 转义LIKE通配符,转义字符用'!'(三种方言的字符串字面量里都没有特殊含义)
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 子串匹配的LIKE模式,用户输入中的%和_按字面匹配
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// translateBookError 唯一约束冲突转换为业务错误
func translateBookError(err error, msg string) error {
	if isDuplicateError(err) {
		if isRegisteredTitleViolation(err) {
			return book.ErrRegisteredTitleTaken
		}
		return book.ErrDuplicateTitleAuthor
	}
	return apperrors.Wrap(err, msg)
}

func checkPublisher(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&PublisherModel{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return apperrors.Wrap(err, "查询出版社失败")
	}
	if count == 0 {
		return book.ErrPublisherMissing
	}
	return nil
}

// loadGenres 按ID加载分类,任何一个ID不存在都返回ErrGenreMissing
func loadGenres(tx *gorm.DB, ids []uint) ([]GenreModel, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil, nil
	}

	var genres []GenreModel
	if err := tx.Where("id IN ?", unique).Order("id").Find(&genres).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	if len(genres) != len(unique) {
		return nil, book.ErrGenreMissing
	}
	return genres, nil
}

// replaceGenres 以genres替换图书的分类关联
func replaceGenres(tx *gorm.DB, bookID uint, genres []GenreModel) error {
	if err := tx.Where("book_id = ?", bookID).Delete(&BookGenreModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书分类关联失败")
	}
	if len(genres) == 0 {
		return nil
	}

	rows := make([]BookGenreModel, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, BookGenreModel{BookID: bookID, GenreID: g.ID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return apperrors.Wrap(err, "写入图书分类关联失败")
	}
	return nil
}

func preloadGenres(db *gorm.DB) *gorm.DB {
	return db.Preload("Genres", func(db *gorm.DB) *gorm.DB {
		return db.Order("genres.id")
	})
}

// pageWindow 页码和每页数量转换为offset和limit
func pageWindow(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	// 乘法溢出会得到负的offset,GORM会忽略它并返回第一页
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt, pageSize
	}
	return (page - 1) * pageSize, pageSize
}

// truncateDate 只保留日期部分(UTC)
func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		PublishedDate:   datatypes.Date(truncateDate(b.PublishedDate)),
		Registered:      b.Registered,
		Managed:         b.Managed,
		PageCount:       b.PageCount,
		Price:           b.Price,
		DiscountedPrice: b.DiscountedPrice,
		PublisherID:     b.PublisherID,
		IsBanned:        b.IsBanned,
	}
}

// toBookEntity GORM模型转换为领域实体
func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:              m.ID,
		Title:           m.Title,
		Author:          m.Author,
		PublishedDate:   truncateDate(time.Time(m.PublishedDate)),
		Registered:      m.Registered,
		Managed:         m.Managed,
		PageCount:       m.PageCount,
		Price:           m.Price,
		DiscountedPrice: m.DiscountedPrice,
		PublisherID:     m.PublisherID,
		Genres:          toGenreRefs(m.Genres),
		IsBanned:        m.IsBanned,
		IsDeleted:       m.IsDeleted != 0,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, 0, len(models))
	for i := range models {
		books = append(books, toBookEntity(&models[i]))
	}
	return books
}

func toGenreRefs(genres []GenreModel) []book.GenreRef {
	refs := make([]book.GenreRef, 0, len(genres))
	for _, g := range genres {
		refs = append(refs, book.GenreRef{ID: g.ID, Name: g.Name})
	}
	return refs
}
