package genre

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/genre"
)

// StatisticCache 分类统计缓存(由redis.CatalogCache实现)
// 图书详情缓存里带分类名称,分类改名或删除时也要清掉相关图书
type StatisticCache interface {
	GetGenreStatistics(ctx context.Context, dest interface{}) bool
	SetGenreStatistics(ctx context.Context, value interface{})
	InvalidateGenreStatistics(ctx context.Context)
	InvalidateBook(ctx context.Context, id uint)
}

// GenreResult 分类DTO
type GenreResult struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// StatisticResult 分类统计DTO
type StatisticResult struct {
	ID        uint   `json:"id"`
	Genre     string `json:"genre"`
	BookCount int64  `json:"book_count"`
}

func toGenreResult(g *genre.Genre) *GenreResult {
	return &GenreResult{ID: g.ID, Name: g.Name}
}

// ManageGenresUseCase 分类增删改查
// 写操作之后清理统计缓存(统计结果里带分类名称)
type ManageGenresUseCase struct {
	genres genre.Service
	cache  StatisticCache
}

// NewManageGenresUseCase 创建用例
func NewManageGenresUseCase(genres genre.Service, cache StatisticCache) *ManageGenresUseCase {
	return &ManageGenresUseCase{genres: genres, cache: cache}
}

// Create 创建分类
func (uc *ManageGenresUseCase) Create(ctx context.Context, name string) (*GenreResult, error) {
	g, err := uc.genres.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	uc.cache.InvalidateGenreStatistics(ctx)
	return toGenreResult(g), nil
}

// Get 获取分类
func (uc *ManageGenresUseCase) Get(ctx context.Context, id uint) (*GenreResult, error) {
	g, err := uc.genres.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGenreResult(g), nil
}

// List 全部分类,按ID升序
func (uc *ManageGenresUseCase) List(ctx context.Context) ([]*GenreResult, error) {
	genres, err := uc.genres.List(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*GenreResult, 0, len(genres))
	for _, g := range genres {
		results = append(results, toGenreResult(g))
	}
	return results, nil
}

// Rename 修改名称,name为空时保持原值(PATCH未传name)
func (uc *ManageGenresUseCase) Rename(ctx context.Context, id uint, name string) (*GenreResult, error) {
	g, err := uc.genres.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}
	uc.cache.InvalidateGenreStatistics(ctx)
	if err := uc.invalidateBooks(ctx, id); err != nil {
		return nil, err
	}
	return toGenreResult(g), nil
}

// Delete 删除分类
// 关联在删除时一起消失,所以先取出受影响的图书
func (uc *ManageGenresUseCase) Delete(ctx context.Context, id uint) error {
	bookIDs, err := uc.genres.BookIDs(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.genres.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.InvalidateGenreStatistics(ctx)
	for _, bookID := range bookIDs {
		uc.cache.InvalidateBook(ctx, bookID)
	}
	return nil
}

func (uc *ManageGenresUseCase) invalidateBooks(ctx context.Context, genreID uint) error {
	bookIDs, err := uc.genres.BookIDs(ctx, genreID)
	if err != nil {
		return err
	}
	for _, bookID := range bookIDs {
		uc.cache.InvalidateBook(ctx, bookID)
	}
	return nil
}

// GenreStatisticUseCase 分类统计用例
// 旁路缓存,TTL较短;图书和分类变更时主动失效
type GenreStatisticUseCase struct {
	genres genre.Service
	cache  StatisticCache
}

// NewGenreStatisticUseCase 创建统计用例
func NewGenreStatisticUseCase(genres genre.Service, cache StatisticCache) *GenreStatisticUseCase {
	return &GenreStatisticUseCase{genres: genres, cache: cache}
}

// Execute 执行统计
func (uc *GenreStatisticUseCase) Execute(ctx context.Context) ([]StatisticResult, error) {
	var cached []StatisticResult
	if uc.cache.GetGenreStatistics(ctx, &cached) {
		return cached, nil
	}

	stats, err := uc.genres.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]StatisticResult, 0, len(stats))
	for _, s := range stats {
		results = append(results, StatisticResult{ID: s.ID, Genre: s.Name, BookCount: s.BookCount})
	}
	uc.cache.SetGenreStatistics(ctx, results)
	return results, nil
}
