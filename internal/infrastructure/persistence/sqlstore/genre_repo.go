package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/genre"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository 创建分类仓储
func NewGenreRepository(db *gorm.DB) genre.Repository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, g *genre.Genre) error {
	model := &GenreModel{Name: g.Name}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建分类失败")
	}
	g.ID = model.ID
	return nil
}

func (r *genreRepository) FindByID(ctx context.Context, id uint) (*genre.Genre, error) {
	var model GenreModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genre.ErrGenreNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return &genre.Genre{ID: model.ID, Name: model.Name}, nil
}

func (r *genreRepository) List(ctx context.Context) ([]*genre.Genre, error) {
	var models []GenreModel
	if err := getDB(ctx, r.db).Order("id").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}

	genres := make([]*genre.Genre, 0, len(models))
	for _, m := range models {
		genres = append(genres, &genre.Genre{ID: m.ID, Name: m.Name})
	}
	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, g *genre.Genre) error {
	result := getDB(ctx, r.db).Model(&GenreModel{ID: g.ID}).Update("name", g.Name)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新分类失败")
	}
	return nil
}

// Delete 物理删除分类
// 先删中间表再删分类,两步在同一事务中
func (r *genreRepository) Delete(ctx context.Context, id uint) error {
	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("genre_id = ?", id).Delete(&BookGenreModel{}).Error; err != nil {
			return apperrors.Wrap(err, "删除分类关联失败")
		}
		result := tx.Delete(&GenreModel{}, id)
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "删除分类失败")
		}
		if result.RowsAffected == 0 {
			return genre.ErrGenreNotFound
		}
		return nil
	})
}

// Statistics 统计每个分类下未删除图书的数量
//
//	SELECT genres.id, genres.name, COUNT(books.id) AS book_count
//	FROM genres
//	LEFT JOIN book_genres ON book_genres.genre_id = genres.id
//	LEFT JOIN books ON books.id = book_genres.book_id AND books.is_deleted = 0
//	GROUP BY genres.id, genres.name
//	ORDER BY genres.id
func (r *genreRepository) Statistics(ctx context.Context) ([]genre.Statistic, error) {
	var rows []struct {
		ID        uint
		Name      string
		BookCount int64
	}

	err := getDB(ctx, r.db).
		Model(&GenreModel{}).
		Select("genres.id, genres.name, COUNT(books.id) AS book_count").
		Joins("LEFT JOIN book_genres ON book_genres.genre_id = genres.id").
		Joins("LEFT JOIN books ON books.id = book_genres.book_id AND books.is_deleted = 0").
		Group("genres.id, genres.name").
		Order("genres.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "统计分类图书数量失败")
	}

	stats := make([]genre.Statistic, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, genre.Statistic{ID: row.ID, Name: row.Name, BookCount: row.BookCount})
	}
	return stats, nil
}

func (r *genreRepository) BookIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := getDB(ctx, r.db).
		Model(&BookGenreModel{}).
		Where("genre_id = ?", id).
		Order("book_id").
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类图书失败")
	}
	return ids, nil
}
