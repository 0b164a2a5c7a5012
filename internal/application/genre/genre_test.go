package genre

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/domain/genre"
)

type mockGenreService struct {
	mock.Mock
}

func (m *mockGenreService) Create(ctx context.Context, name string) (*genre.Genre, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genre.Genre), args.Error(1)
}

func (m *mockGenreService) Get(ctx context.Context, id uint) (*genre.Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genre.Genre), args.Error(1)
}

func (m *mockGenreService) List(ctx context.Context) ([]*genre.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*genre.Genre), args.Error(1)
}

func (m *mockGenreService) Rename(ctx context.Context, id uint, name string) (*genre.Genre, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genre.Genre), args.Error(1)
}

func (m *mockGenreService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGenreService) Statistics(ctx context.Context) ([]genre.Statistic, error) {
	args := m.Called(ctx)
	return args.Get(0).([]genre.Statistic), args.Error(1)
}

func (m *mockGenreService) BookIDs(ctx context.Context, id uint) ([]uint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// jsonCache 和Redis一样按JSON存取
type jsonCache struct {
	data          []byte
	invalidations int
	books         []uint
}

func (c *jsonCache) GetGenreStatistics(_ context.Context, dest interface{}) bool {
	if c.data == nil {
		return false
	}
	return json.Unmarshal(c.data, dest) == nil
}

func (c *jsonCache) SetGenreStatistics(_ context.Context, value interface{}) {
	c.data, _ = json.Marshal(value)
}

func (c *jsonCache) InvalidateGenreStatistics(context.Context) {
	c.data = nil
	c.invalidations++
}

func (c *jsonCache) InvalidateBook(_ context.Context, id uint) {
	c.books = append(c.books, id)
}

func TestGenreStatistic_Cached(t *testing.T) {
	genres := new(mockGenreService)
	cache := &jsonCache{}
	genres.On("Statistics", mock.Anything).
		Return([]genre.Statistic{{ID: 1, Name: "SciFi", BookCount: 2}, {ID: 2, Name: "Empty"}}, nil).Once()

	uc := NewGenreStatisticUseCase(genres, cache)

	first, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []StatisticResult{{ID: 1, Genre: "SciFi", BookCount: 2}, {ID: 2, Genre: "Empty"}}, first)

	second, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second, "第二次应命中缓存")
	genres.AssertNumberOfCalls(t, "Statistics", 1)
}

func TestManageGenres_InvalidatesStatistics(t *testing.T) {
	genres := new(mockGenreService)
	cache := &jsonCache{data: []byte(`[]`)}
	genres.On("Create", mock.Anything, "Poetry").Return(&genre.Genre{ID: 3, Name: "Poetry"}, nil)
	genres.On("Rename", mock.Anything, uint(3), "Verse").Return(&genre.Genre{ID: 3, Name: "Verse"}, nil)
	genres.On("Delete", mock.Anything, uint(3)).Return(nil)
	genres.On("BookIDs", mock.Anything, uint(3)).Return([]uint{}, nil)

	uc := NewManageGenresUseCase(genres, cache)

	created, err := uc.Create(context.Background(), "Poetry")
	require.NoError(t, err)
	assert.Equal(t, &GenreResult{ID: 3, Name: "Poetry"}, created)

	renamed, err := uc.Rename(context.Background(), 3, "Verse")
	require.NoError(t, err)
	assert.Equal(t, "Verse", renamed.Name)

	require.NoError(t, uc.Delete(context.Background(), 3))
	assert.Equal(t, 3, cache.invalidations)
}

func TestManageGenres_DeleteMissing(t *testing.T) {
	genres := new(mockGenreService)
	cache := &jsonCache{}
	genres.On("BookIDs", mock.Anything, uint(9)).Return([]uint{}, nil)
	genres.On("Delete", mock.Anything, uint(9)).Return(genre.ErrGenreNotFound)

	err := NewManageGenresUseCase(genres, cache).Delete(context.Background(), 9)
	assert.ErrorIs(t, err, genre.ErrGenreNotFound)
	assert.Zero(t, cache.invalidations)
	assert.Empty(t, cache.books)
}

// 图书详情缓存里带分类名称,改名和删除都要清掉关联图书的缓存
func TestManageGenres_InvalidatesBookDetails(t *testing.T) {
	t.Run("改名", func(t *testing.T) {
		genres := new(mockGenreService)
		cache := &jsonCache{}
		genres.On("Rename", mock.Anything, uint(1), "Horror").Return(&genre.Genre{ID: 1, Name: "Horror"}, nil)
		genres.On("BookIDs", mock.Anything, uint(1)).Return([]uint{4, 7}, nil)

		_, err := NewManageGenresUseCase(genres, cache).Rename(context.Background(), 1, "Horror")
		require.NoError(t, err)
		assert.Equal(t, []uint{4, 7}, cache.books)
	})

	t.Run("删除前取出关联图书", func(t *testing.T) {
		genres := new(mockGenreService)
		cache := &jsonCache{}
		bookIDs := genres.On("BookIDs", mock.Anything, uint(1)).Return([]uint{4}, nil)
		genres.On("Delete", mock.Anything, uint(1)).Return(nil).NotBefore(bookIDs)

		require.NoError(t, NewManageGenresUseCase(genres, cache).Delete(context.Background(), 1))
		assert.Equal(t, []uint{4}, cache.books)
		assert.Equal(t, 1, cache.invalidations)
		genres.AssertExpectations(t)
	})

	t.Run("查询关联失败", func(t *testing.T) {
		genres := new(mockGenreService)
		cache := &jsonCache{}
		genres.On("BookIDs", mock.Anything, uint(2)).Return(nil, assert.AnError)

		err := NewManageGenresUseCase(genres, cache).Delete(context.Background(), 2)
		assert.ErrorIs(t, err, assert.AnError)
		genres.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
